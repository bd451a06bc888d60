package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"visaguard_bot/internal/domain/record"

	"github.com/google/uuid"
)

// Custom application-level errors for person administration
var ErrAdminNotAuthorized = fmt.Errorf("performing user is not authorized as an admin")
var ErrPersonNotFound = fmt.Errorf("person not found")
var ErrMissingRequiredField = fmt.Errorf("missing required field")
var ErrInvalidExpirationDate = fmt.Errorf("expiration date must be in YYYY-MM-DD format")

// PersonInput carries the fields for a new tracked record. FirstName,
// LastName, Country and ExpirationDate are required; DocumentType
// defaults to "Document" and PhoneNumber is optional.
type PersonInput struct {
	FirstName      string
	LastName       string
	PhoneNumber    string
	DocumentType   string
	Country        string
	ExpirationDate string
}

// PersonView is a read model for listings: the stored record annotated
// with its computed countdown.
type PersonView struct {
	record.Person
	DaysLeft int
	Status   record.Status
	HasDate  bool
}

// TrackerStats are the dashboard counters. Records without an
// expiration date are excluded entirely.
type TrackerStats struct {
	Safe    int
	Warning int
	Expired int
}

// PersonService handles the admin-gated CRUD over tracked records.
// Every mutation rewrites the whole persons value in one store write.
// Mutations share the expiration engine's lock: a check and an admin
// mutation both load, modify and batch-save the same persons value, so
// an unserialized pair can overwrite each other's write (a deleted
// record resurrected by the check's save, or a new record lost).
type PersonService struct {
	store           record.Store
	expirations     *ExpirationServiceImpl
	mu              *sync.Mutex // the engine's collection lock
	adminTelegramID int64
	now             func() time.Time
}

func NewPersonService(store record.Store, expirations *ExpirationServiceImpl, adminID int64) *PersonService {
	return &PersonService{
		store:           store,
		expirations:     expirations,
		mu:              &expirations.mu,
		adminTelegramID: adminID,
		now:             time.Now,
	}
}

// AddPerson validates the input, appends the new record with all alert
// flags cleared, and immediately runs a forced expiration check so a
// record added inside an alert window fires right away.
func (s *PersonService) AddPerson(ctx context.Context, performingAdminID int64, input PersonInput) (*record.Person, error) {
	if performingAdminID != s.adminTelegramID {
		return nil, ErrAdminNotAuthorized
	}

	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Country = strings.TrimSpace(input.Country)
	input.DocumentType = strings.TrimSpace(input.DocumentType)
	input.PhoneNumber = strings.TrimSpace(input.PhoneNumber)

	// Rejected before anything is persisted; no partial record exists.
	if input.FirstName == "" || input.LastName == "" || input.Country == "" || input.ExpirationDate == "" {
		return nil, ErrMissingRequiredField
	}
	if _, err := time.ParseInLocation(record.DateLayout, input.ExpirationDate, time.Local); err != nil {
		return nil, ErrInvalidExpirationDate
	}
	if input.DocumentType == "" {
		input.DocumentType = "Document"
	}

	newPerson, err := s.appendPerson(ctx, input)
	if err != nil {
		return nil, err
	}

	// The record is saved regardless of the follow-up check outcome; a
	// missed check is caught by the next scheduled run. The check takes
	// the collection lock itself, so it runs after the append is
	// released.
	_ = s.expirations.CheckExpirations(ctx, true)
	return newPerson, nil
}

// appendPerson runs the load-append-save sequence under the collection
// lock.
func (s *PersonService) appendPerson(ctx context.Context, input PersonInput) (*record.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	persons, err := s.store.Persons(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load persons: %w", err)
	}

	newPerson := record.Person{
		ID:             uuid.NewString(),
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		PhoneNumber:    input.PhoneNumber,
		DocumentType:   input.DocumentType,
		Country:        input.Country,
		ExpirationDate: input.ExpirationDate,
	}
	persons = append(persons, newPerson)

	if err := s.store.SavePersons(ctx, persons); err != nil {
		return nil, fmt.Errorf("failed to save persons: %w", err)
	}
	return &newPerson, nil
}

// RemovePerson hard-deletes exactly the record with the given id. The
// load-filter-save sequence holds the collection lock so a concurrent
// check cannot batch-save a stale copy of the deleted record back in.
func (s *PersonService) RemovePerson(ctx context.Context, performingAdminID int64, id string) (*record.Person, error) {
	if performingAdminID != s.adminTelegramID {
		return nil, ErrAdminNotAuthorized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	persons, err := s.store.Persons(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load persons: %w", err)
	}

	var removed *record.Person
	remaining := make([]record.Person, 0, len(persons))
	for i := range persons {
		if persons[i].ID == id {
			p := persons[i]
			removed = &p
			continue
		}
		remaining = append(remaining, persons[i])
	}
	if removed == nil {
		return nil, ErrPersonNotFound
	}

	if err := s.store.SavePersons(ctx, remaining); err != nil {
		return nil, fmt.Errorf("failed to save persons: %w", err)
	}
	return removed, nil
}

// ListPersons returns every tracked record, in stored order, annotated
// with its computed status.
func (s *PersonService) ListPersons(ctx context.Context, performingAdminID int64) ([]PersonView, error) {
	if performingAdminID != s.adminTelegramID {
		return nil, ErrAdminNotAuthorized
	}

	persons, err := s.store.Persons(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load persons: %w", err)
	}

	today := s.now()
	views := make([]PersonView, 0, len(persons))
	for i := range persons {
		view := PersonView{Person: persons[i]}
		if expiration, ok := persons[i].Expiration(); ok {
			view.HasDate = true
			view.DaysLeft = record.DaysLeft(expiration, today)
			view.Status = record.StatusOf(view.DaysLeft)
		}
		views = append(views, view)
	}
	return views, nil
}

// Stats counts records per status. Records lacking an expiration date
// do not contribute to any counter.
func (s *PersonService) Stats(ctx context.Context, performingAdminID int64) (*TrackerStats, error) {
	if performingAdminID != s.adminTelegramID {
		return nil, ErrAdminNotAuthorized
	}

	persons, err := s.store.Persons(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load persons: %w", err)
	}

	today := s.now()
	stats := &TrackerStats{}
	for i := range persons {
		expiration, ok := persons[i].Expiration()
		if !ok {
			continue
		}
		switch record.StatusOf(record.DaysLeft(expiration, today)) {
		case record.StatusSafe:
			stats.Safe++
		case record.StatusWarning:
			stats.Warning++
		case record.StatusExpired:
			stats.Expired++
		}
	}
	return stats, nil
}
