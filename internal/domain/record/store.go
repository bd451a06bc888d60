package record

import (
	"context"
	"encoding/json"
)

// State document keys. The whole application state is a small set of
// named values stored together in one logical document.
const (
	KeyPersons       = "persons"       // ordered JSON array of Person
	KeyLastCheckDate = "lastCheckDate" // YYYY-MM-DD of the last completed check
)

// StateRepository is the raw key-value persistence boundary: whole-value
// get/set/delete over the named state keys. Implementations return
// a not-found error for missing keys; interpreting that as an empty
// default is the job of the Store layer above.
type StateRepository interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
	Delete(ctx context.Context, key string) error
}

// Store is the typed state access the expiration engine and admin
// operations consume. Reads fail soft: on any underlying read or parse
// failure they return the type-appropriate empty default together with
// the error, so callers may log the error and carry on with the
// default. A corrupted or missing store resets the application to an
// empty-tracking state instead of crashing it.
type Store interface {
	// Persons returns all tracked records in stored order.
	Persons(ctx context.Context) ([]Person, error)
	// SavePersons overwrites the whole persons value in one write.
	SavePersons(ctx context.Context, persons []Person) error
	// LastCheckDate returns the YYYY-MM-DD cursor of the last completed
	// check, or "" when no check has run yet.
	LastCheckDate(ctx context.Context) (string, error)
	SetLastCheckDate(ctx context.Context, date string) error
	// DeleteKey removes a state key entirely; subsequent reads return
	// the empty default.
	DeleteKey(ctx context.Context, key string) error
}
