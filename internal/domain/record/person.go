package record

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used for expiration dates and
// the last-check cursor (e.g. "2026-03-14"). Dates carry no time zone
// semantics; they are compared at local midnight.
const DateLayout = "2006-01-02"

// Person is one tracked travel/immigration document.
// JSON tags match the persisted state document layout.
type Person struct {
	ID              string `json:"id"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	PhoneNumber     string `json:"phoneNumber,omitempty"`
	DocumentType    string `json:"documentType"`
	Country         string `json:"country"`
	ExpirationDate  string `json:"expirationDate"`
	Notified30      bool   `json:"notified30"`
	Notified7       bool   `json:"notified7"`
	NotifiedExpired bool   `json:"notifiedExpired"`
}

// Status classifies a record's proximity to its expiration date.
type Status string

const (
	StatusSafe    Status = "safe"
	StatusWarning Status = "warning"
	StatusExpired Status = "expired"
)

// FullName returns the display name ("First Last").
func (p *Person) FullName() string {
	return p.FirstName + " " + p.LastName
}

// DocumentLabel returns the document type, or "Document" when unset.
func (p *Person) DocumentLabel() string {
	if p.DocumentType == "" {
		return "Document"
	}
	return p.DocumentType
}

// Expiration parses the record's expiration date. The bool is false
// when the record has no (or an unparseable) expiration date, in which
// case the record is excluded from all expiry evaluation.
func (p *Person) Expiration() (time.Time, bool) {
	if p.ExpirationDate == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateLayout, p.ExpirationDate, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DaysLeft computes the calendar-day delta between today and the
// expiration date. Both sides are truncated to their calendar date
// first, so the result is independent of the wall-clock time of day:
// positive = days remaining, zero = expires today, negative = days past
// expiry. The dates are re-anchored in UTC so the subtraction is an
// exact whole number of days even across DST transitions.
func DaysLeft(expiration, today time.Time) int {
	exp := time.Date(expiration.Year(), expiration.Month(), expiration.Day(), 0, 0, 0, 0, time.UTC)
	now := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(exp.Sub(now).Hours() / 24)
}

// StatusOf maps a day delta to a display status.
func StatusOf(days int) Status {
	switch {
	case days < 0:
		return StatusExpired
	case days <= 30:
		return StatusWarning
	default:
		return StatusSafe
	}
}

// DaysLabel renders a human-readable countdown, e.g. "3 days left",
// "Expires today!", "Expired 12d ago".
func DaysLabel(days int) string {
	switch {
	case days < 0:
		return fmt.Sprintf("Expired %dd ago", -days)
	case days == 0:
		return "Expires today!"
	case days == 1:
		return "1 day left"
	default:
		return fmt.Sprintf("%d days left", days)
	}
}

// FormatDate renders a YYYY-MM-DD date as "Jan 2, 2006" for messages.
// Unparseable input is returned as-is rather than dropped.
func FormatDate(date string) string {
	t, err := time.ParseInLocation(DateLayout, date, time.Local)
	if err != nil {
		return date
	}
	return t.Format("Jan 2, 2006")
}
