package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"formatech/internal/domain"

	"github.com/dgraph-io/badger/v4"
)

const (
	trainerPrefix = "trainer/"
	needPrefix    = "need/"
)

// StaffingBadgerStore persists trainers and needs as JSON values in badger.
type StaffingBadgerStore struct {
	db *badger.DB
}

type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// OpenStaffingBadgerStore opens the store under dir. An empty dir opens an
// in-memory database.
func OpenStaffingBadgerStore(dir string) (*StaffingBadgerStore, error) {
	var opts badger.Options
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create staffing directory %s: %w", dir, err)
		}
		opts = badger.DefaultOptions(dir).WithSyncWrites(true)
	}
	opts = opts.WithNumVersionsToKeep(1).WithLogger(&badgerLogger{logger: slog.Default().With("component", "badger")})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &StaffingBadgerStore{db: db}, nil
}

func (s *StaffingBadgerStore) Close() error {
	return s.db.Close()
}

func (s *StaffingBadgerStore) ListTrainers(ctx context.Context) ([]domain.Trainer, error) {
	out := []domain.Trainer{}
	err := s.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, trainerPrefix, func(v []byte) error {
			var t domain.Trainer
			if err := json.Unmarshal(v, &t); err != nil {
				return err
			}
			out = append(out, t)
			return nil
		})
	})
	return out, err
}

func (s *StaffingBadgerStore) GetTrainer(ctx context.Context, id string) (*domain.Trainer, error) {
	var t domain.Trainer
	if err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, trainerPrefix+id, &t)
	}); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *StaffingBadgerStore) SaveTrainer(ctx context.Context, t *domain.Trainer) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return putJSON(txn, trainerPrefix+t.ID, t)
	})
}

// DeleteTrainer removes the trainer and clears every need assigned to it in one transaction.
func (s *StaffingBadgerStore) DeleteTrainer(ctx context.Context, id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(trainerPrefix + id)
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}

		var assigned []domain.TrainingNeed
		err := scanPrefix(txn, needPrefix, func(v []byte) error {
			var n domain.TrainingNeed
			if err := json.Unmarshal(v, &n); err != nil {
				return err
			}
			if n.TrainerID != nil && *n.TrainerID == id {
				assigned = append(assigned, n)
			}
			return nil
		})
		if err != nil {
			return err
		}
		for i := range assigned {
			assigned[i].TrainerID = nil
			if err := putJSON(txn, needPrefix+assigned[i].ID, &assigned[i]); err != nil {
				return err
			}
		}
		return txn.Delete(key)
	})
}

func (s *StaffingBadgerStore) ListNeeds(ctx context.Context) ([]domain.TrainingNeed, error) {
	out := []domain.TrainingNeed{}
	err := s.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, needPrefix, func(v []byte) error {
			var n domain.TrainingNeed
			if err := json.Unmarshal(v, &n); err != nil {
				return err
			}
			out = append(out, n)
			return nil
		})
	})
	return out, err
}

func (s *StaffingBadgerStore) GetNeed(ctx context.Context, id string) (*domain.TrainingNeed, error) {
	var n domain.TrainingNeed
	if err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, needPrefix+id, &n)
	}); err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *StaffingBadgerStore) SaveNeed(ctx context.Context, n *domain.TrainingNeed) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return putJSON(txn, needPrefix+n.ID, n)
	})
}

func (s *StaffingBadgerStore) DeleteNeed(ctx context.Context, id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(needPrefix + id)
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return txn.Delete(key)
	})
}

func getJSON(txn *badger.Txn, key string, dst any) error {
	item, err := txn.Get([]byte(key))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		return err
	}
	return item.Value(func(v []byte) error {
		return json.Unmarshal(v, dst)
	})
}

func putJSON(txn *badger.Txn, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set([]byte(key), data)
}

func scanPrefix(txn *badger.Txn, prefix string, fn func(v []byte) error) error {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		if err := it.Item().Value(fn); err != nil {
			return err
		}
	}
	return nil
}
