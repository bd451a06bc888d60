// internal/app/expiration_service.go
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"visaguard_bot/internal/domain/notify"
	"visaguard_bot/internal/domain/record"

	"github.com/sirupsen/logrus"
)

// ExpirationService is the single decision point for "has this record
// crossed an alert threshold, and if so, which".
type ExpirationService interface {
	// CheckExpirations evaluates every tracked record against the alert
	// tiers and fires at most one notification per tier per record.
	// Unforced checks are skipped when a check already completed today;
	// force bypasses that guard for explicit operator requests.
	CheckExpirations(ctx context.Context, force bool) error
}

// Alert tiers, evaluated in fixed order for every record on every run.
// The numeric ranges are disjoint, so at most one tier can fire per run,
// but each is still evaluated unconditionally (no early return on a
// match) in case the ranges ever change to overlap.
const (
	earlyWarningDays = 30 // 7 < days <= 30, gated by Notified30
	urgentDays       = 7  // 0 < days <= 7, gated by Notified7
)

type ExpirationServiceImpl struct {
	store     record.Store
	notifier  notify.Notifier
	messenger notify.Messenger
	logger    *logrus.Entry
	now       func() time.Time

	// Cron jobs and bot handlers run on different goroutines; every
	// read-evaluate-write sequence over the person collection must be
	// single flight to preserve at-most-once-per-threshold semantics
	// and to keep batched saves from clobbering admin mutations. The
	// PersonService mutations share this lock.
	mu sync.Mutex
}

func NewExpirationService(
	store record.Store,
	notifier notify.Notifier,
	messenger notify.Messenger,
	logger *logrus.Entry,
) *ExpirationServiceImpl {
	return &ExpirationServiceImpl{
		store:     store,
		notifier:  notifier,
		messenger: messenger,
		logger:    logger,
		now:       time.Now,
	}
}

// CheckExpirations runs one full check pass. All store and notifier
// failures are absorbed here: the pass always runs to completion and a
// missed write self-heals on the next triggered check.
func (s *ExpirationServiceImpl) CheckExpirations(ctx context.Context, force bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.now()
	todayStr := today.Format(record.DateLayout)
	logCtx := s.logger.WithFields(logrus.Fields{"today": todayStr, "force": force})

	if !force {
		last, err := s.store.LastCheckDate(ctx)
		if err != nil {
			logCtx.WithError(err).Warn("Could not read last check date, proceeding with check")
		}
		if last == todayStr {
			logCtx.Debug("Check already completed today, skipping")
			return nil
		}
	}

	persons, err := s.store.Persons(ctx)
	if err != nil {
		// Fail-soft read: evaluate whatever came back (possibly nothing).
		logCtx.WithError(err).Warn("Could not read persons, proceeding with what was loaded")
	}
	logCtx.WithField("person_count", len(persons)).Info("Running expiration check")

	changed := false
	for i := range persons {
		if s.evaluatePerson(&persons[i], today) {
			changed = true
		}
	}

	if changed {
		// Single batched write for the whole collection; a failure here is
		// logged and the in-memory result stays authoritative until the
		// next successful check.
		if err := s.store.SavePersons(ctx, persons); err != nil {
			logCtx.WithError(err).Error("Failed to persist updated records after check")
		}
	}

	// Written even when nothing changed: this is the once-per-day guard
	// cursor and the write is idempotent.
	if err := s.store.SetLastCheckDate(ctx, todayStr); err != nil {
		logCtx.WithError(err).Error("Failed to persist last check date")
	}

	logCtx.WithField("records_updated", changed).Info("Expiration check complete")
	return nil
}

// evaluatePerson applies the three alert tiers to one record and
// reports whether any flag was flipped. A record without a parseable
// expiration date never alerts.
func (s *ExpirationServiceImpl) evaluatePerson(p *record.Person, today time.Time) bool {
	expiration, ok := p.Expiration()
	if !ok {
		return false
	}

	days := record.DaysLeft(expiration, today)
	name := p.FullName()
	doc := p.DocumentLabel()
	changed := false

	if days <= earlyWarningDays && days > urgentDays && !p.Notified30 {
		s.deliver(p, "Visa Expiration Warning",
			fmt.Sprintf("%s's %s expires in %d days (%s).", name, doc, days, record.FormatDate(p.ExpirationDate)))
		p.Notified30 = true
		changed = true
	}
	if days <= urgentDays && days > 0 && !p.Notified7 {
		s.deliver(p, "Visa Expiring Soon",
			fmt.Sprintf("URGENT: %s's %s expires in %d %s.", name, doc, days, dayWord(days)))
		// An urgent alert implies the early-warning threshold was already
		// passed; set the skipped flag without a retroactive notification.
		p.Notified7 = true
		p.Notified30 = true
		changed = true
	}
	if days <= 0 && !p.NotifiedExpired {
		s.deliver(p, "Visa Expired",
			fmt.Sprintf("%s's %s has expired (%s).", name, doc, record.FormatDate(p.ExpirationDate)))
		// Same for an expired record: both warning thresholds are behind
		// it, so all three flags end up set but only this alert fires.
		p.NotifiedExpired = true
		p.Notified7 = true
		p.Notified30 = true
		changed = true
	}

	return changed
}

// deliver fires one user notification and one best-effort external
// channel dispatch. Neither failure aborts the remaining evaluation.
func (s *ExpirationServiceImpl) deliver(p *record.Person, title, body string) {
	logCtx := s.logger.WithFields(logrus.Fields{"person_id": p.ID, "title": title})

	if err := s.notifier.Show(title, body); err != nil {
		logCtx.WithError(err).Error("Failed to deliver notification")
	} else {
		logCtx.Info("Notification delivered")
	}

	if err := s.messenger.Send(p, body); err != nil {
		logCtx.WithError(err).Warn("External channel dispatch failed")
	}
}

func dayWord(days int) string {
	if days == 1 {
		return "day"
	}
	return "days"
}
