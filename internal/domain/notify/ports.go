package notify

import "visaguard_bot/internal/domain/record"

// Notifier delivers a titled alert to the user. Best effort, fire and
// forget: callers log a failure and move on, nothing is retried.
// Decoupled as a one-method port so the engine can be tested with a
// recorder double.
type Notifier interface {
	Show(title, body string) error
}

// Messenger dispatches an alert over an external channel (e.g. SMS to
// the record's phone number). The call contract is fixed but no real
// delivery is required; the engine never depends on the result beyond
// logging it.
type Messenger interface {
	Send(person *record.Person, text string) error
}
