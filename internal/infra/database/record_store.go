package database

import (
	"context"
	"encoding/json"
	"fmt"

	"visaguard_bot/internal/domain/record"

	"github.com/sirupsen/logrus"
)

// RecordStore implements record.Store over a raw StateRepository.
// Reads fail soft: a missing key is the empty default and not an error;
// a real read or parse failure is logged and reported alongside the
// empty default so callers can keep running on a reset state.
type RecordStore struct {
	repo   record.StateRepository
	logger *logrus.Entry
}

func NewRecordStore(repo record.StateRepository, logger *logrus.Entry) *RecordStore {
	return &RecordStore{repo: repo, logger: logger}
}

func (s *RecordStore) Persons(ctx context.Context) ([]record.Person, error) {
	raw, err := s.repo.Get(ctx, record.KeyPersons)
	if err != nil {
		if err == ErrKeyNotFound {
			return []record.Person{}, nil
		}
		s.logger.WithError(err).Error("Failed to read persons, falling back to empty list")
		return []record.Person{}, err
	}

	var persons []record.Person
	if err := json.Unmarshal(raw, &persons); err != nil {
		s.logger.WithError(err).Error("Corrupted persons value, falling back to empty list")
		return []record.Person{}, fmt.Errorf("corrupted persons value: %w", err)
	}
	if persons == nil {
		persons = []record.Person{}
	}
	return persons, nil
}

func (s *RecordStore) SavePersons(ctx context.Context, persons []record.Person) error {
	if persons == nil {
		persons = []record.Person{}
	}
	raw, err := json.Marshal(persons)
	if err != nil {
		return fmt.Errorf("error encoding persons: %w", err)
	}
	if err := s.repo.Set(ctx, record.KeyPersons, raw); err != nil {
		s.logger.WithError(err).Error("Failed to persist persons")
		return err
	}
	return nil
}

func (s *RecordStore) LastCheckDate(ctx context.Context) (string, error) {
	raw, err := s.repo.Get(ctx, record.KeyLastCheckDate)
	if err != nil {
		if err == ErrKeyNotFound {
			return "", nil
		}
		s.logger.WithError(err).Error("Failed to read last check date, falling back to empty")
		return "", err
	}

	var date string
	if err := json.Unmarshal(raw, &date); err != nil {
		s.logger.WithError(err).Error("Corrupted last check date, falling back to empty")
		return "", fmt.Errorf("corrupted last check date: %w", err)
	}
	return date, nil
}

func (s *RecordStore) SetLastCheckDate(ctx context.Context, date string) error {
	raw, err := json.Marshal(date)
	if err != nil {
		return fmt.Errorf("error encoding last check date: %w", err)
	}
	if err := s.repo.Set(ctx, record.KeyLastCheckDate, raw); err != nil {
		s.logger.WithError(err).Error("Failed to persist last check date")
		return err
	}
	return nil
}

func (s *RecordStore) DeleteKey(ctx context.Context, key string) error {
	if err := s.repo.Delete(ctx, key); err != nil {
		s.logger.WithError(err).WithField("key", key).Error("Failed to delete state key")
		return err
	}
	return nil
}
