package repository

import (
	"context"
	"slices"
	"sync"

	"formatech/internal/domain"
)

// StaffingMemoryStore keeps trainers and needs in process memory.
type StaffingMemoryStore struct {
	mu       sync.RWMutex
	trainers map[string]domain.Trainer
	needs    map[string]domain.TrainingNeed
}

func NewStaffingMemoryStore() *StaffingMemoryStore {
	return &StaffingMemoryStore{
		trainers: make(map[string]domain.Trainer),
		needs:    make(map[string]domain.TrainingNeed),
	}
}

func (s *StaffingMemoryStore) ListTrainers(ctx context.Context) ([]domain.Trainer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Trainer, 0, len(s.trainers))
	for _, t := range s.trainers {
		out = append(out, cloneTrainer(t))
	}
	return out, nil
}

func (s *StaffingMemoryStore) GetTrainer(ctx context.Context, id string) (*domain.Trainer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.trainers[id]
	if !ok {
		return nil, ErrNotFound
	}
	t = cloneTrainer(t)
	return &t, nil
}

func (s *StaffingMemoryStore) SaveTrainer(ctx context.Context, t *domain.Trainer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trainers[t.ID] = cloneTrainer(*t)
	return nil
}

// DeleteTrainer removes the trainer and clears every need assigned to it.
func (s *StaffingMemoryStore) DeleteTrainer(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.trainers[id]; !ok {
		return ErrNotFound
	}
	delete(s.trainers, id)
	for k, n := range s.needs {
		if n.TrainerID != nil && *n.TrainerID == id {
			n.TrainerID = nil
			s.needs[k] = n
		}
	}
	return nil
}

func (s *StaffingMemoryStore) ListNeeds(ctx context.Context) ([]domain.TrainingNeed, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.TrainingNeed, 0, len(s.needs))
	for _, n := range s.needs {
		out = append(out, cloneNeed(n))
	}
	return out, nil
}

func (s *StaffingMemoryStore) GetNeed(ctx context.Context, id string) (*domain.TrainingNeed, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.needs[id]
	if !ok {
		return nil, ErrNotFound
	}
	n = cloneNeed(n)
	return &n, nil
}

func (s *StaffingMemoryStore) SaveNeed(ctx context.Context, n *domain.TrainingNeed) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.needs[n.ID] = cloneNeed(*n)
	return nil
}

func (s *StaffingMemoryStore) DeleteNeed(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.needs[id]; !ok {
		return ErrNotFound
	}
	delete(s.needs, id)
	return nil
}

func (s *StaffingMemoryStore) Close() error { return nil }

func cloneTrainer(t domain.Trainer) domain.Trainer {
	t.Specialties = slices.Clone(t.Specialties)
	if t.DailyRate != nil {
		v := *t.DailyRate
		t.DailyRate = &v
	}
	if t.ExperienceYears != nil {
		v := *t.ExperienceYears
		t.ExperienceYears = &v
	}
	return t
}

func cloneNeed(n domain.TrainingNeed) domain.TrainingNeed {
	if n.TrainerID != nil {
		v := *n.TrainerID
		n.TrainerID = &v
	}
	return n
}
