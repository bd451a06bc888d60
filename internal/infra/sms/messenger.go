// internal/infra/sms/messenger.go
package sms

import (
	"visaguard_bot/internal/domain/record"

	"github.com/sirupsen/logrus"
)

// StubMessenger is a log-only implementation of the notify.Messenger
// port. The external SMS channel has a fixed call contract but no
// delivery backend yet; the engine calls it best effort and ignores the
// outcome, so logging the would-be dispatch is all that is required.
type StubMessenger struct {
	logger *logrus.Entry
}

func NewStubMessenger(logger *logrus.Entry) *StubMessenger {
	return &StubMessenger{logger: logger}
}

func (m *StubMessenger) Send(person *record.Person, text string) error {
	if person.PhoneNumber == "" {
		m.logger.WithField("person_id", person.ID).Debug("No phone number on record, skipping SMS dispatch")
		return nil
	}
	m.logger.WithFields(logrus.Fields{
		"person_id":    person.ID,
		"phone_number": person.PhoneNumber,
	}).Infof("SMS dispatch not implemented, would send: %s", text)
	return nil
}
