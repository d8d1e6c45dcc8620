package staffing

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"formatech/internal/domain"
	"formatech/internal/pkg/validator"
	"formatech/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrTrainerNotFound    = errors.New("trainer not found")
	ErrNeedNotFound       = errors.New("training need not found")
	ErrTrainerUnavailable = errors.New("trainer already assigned on that date")
	ErrValidation         = errors.New("validation failed")
)

const (
	StatusPending  = "en-attente"
	StatusAssigned = "affecte"
)

type Repository interface {
	ListTrainers(ctx context.Context) ([]domain.Trainer, error)
	GetTrainer(ctx context.Context, id string) (*domain.Trainer, error)
	SaveTrainer(ctx context.Context, t *domain.Trainer) error
	DeleteTrainer(ctx context.Context, id string) error
	ListNeeds(ctx context.Context) ([]domain.TrainingNeed, error)
	GetNeed(ctx context.Context, id string) (*domain.TrainingNeed, error)
	SaveNeed(ctx context.Context, n *domain.TrainingNeed) error
	DeleteNeed(ctx context.Context, id string) error
}

// Service serializes every write so that two assignments cannot book the
// same trainer twice on one day.
type Service struct {
	mu   sync.Mutex
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListTrainers(ctx context.Context, f TrainerFilter) ([]domain.Trainer, error) {
	all, err := s.repo.ListTrainers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Trainer, 0, len(all))
	for _, t := range all {
		if f.matches(t) {
			out = append(out, t)
		}
	}
	sortTrainers(out)
	return out, nil
}

func (s *Service) GetTrainer(ctx context.Context, id string) (*domain.Trainer, error) {
	t, err := s.repo.GetTrainer(ctx, id)
	if err != nil {
		return nil, mapErr(err, ErrTrainerNotFound)
	}
	return t, nil
}

func (s *Service) CreateTrainer(ctx context.Context, req TrainerRequest) (*domain.Trainer, error) {
	t := &domain.Trainer{ID: uuid.NewString()}
	applyTrainer(t, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.SaveTrainer(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) UpdateTrainer(ctx context.Context, id string, req TrainerRequest) (*domain.Trainer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.repo.GetTrainer(ctx, id)
	if err != nil {
		return nil, mapErr(err, ErrTrainerNotFound)
	}
	applyTrainer(t, req)
	if err := s.repo.SaveTrainer(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTrainer removes the trainer; the needs it was staffed on go back to pending.
func (s *Service) DeleteTrainer(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return mapErr(s.repo.DeleteTrainer(ctx, id), ErrTrainerNotFound)
}

// ListNeeds returns the matching needs ordered by date.
func (s *Service) ListNeeds(ctx context.Context, f NeedFilter) ([]domain.TrainingNeed, error) {
	all, err := s.repo.ListNeeds(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.TrainingNeed, 0, len(all))
	for _, n := range all {
		if f.matches(n) {
			out = append(out, n)
		}
	}
	sortNeeds(out)
	return out, nil
}

func (s *Service) GetNeed(ctx context.Context, id string) (*domain.TrainingNeed, error) {
	n, err := s.repo.GetNeed(ctx, id)
	if err != nil {
		return nil, mapErr(err, ErrNeedNotFound)
	}
	return n, nil
}

func (s *Service) CreateNeed(ctx context.Context, req NeedRequest) (*domain.TrainingNeed, error) {
	n := &domain.TrainingNeed{ID: uuid.NewString()}
	if err := applyNeed(n, req); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.SaveNeed(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// UpdateNeed keeps the current assignment. Moving an assigned need to a day
// its trainer is already booked fails with ErrTrainerUnavailable.
func (s *Service) UpdateNeed(ctx context.Context, id string, req NeedRequest) (*domain.TrainingNeed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.repo.GetNeed(ctx, id)
	if err != nil {
		return nil, mapErr(err, ErrNeedNotFound)
	}
	if err := applyNeed(n, req); err != nil {
		return nil, err
	}
	if n.Assigned() {
		busy, err := s.busyTrainers(ctx, n.Date, n.ID)
		if err != nil {
			return nil, err
		}
		if _, ok := busy[*n.TrainerID]; ok {
			return nil, ErrTrainerUnavailable
		}
	}
	if err := s.repo.SaveNeed(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) DeleteNeed(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return mapErr(s.repo.DeleteNeed(ctx, id), ErrNeedNotFound)
}

// AvailableTrainers lists the trainers not assigned to another need on the
// date of need id.
func (s *Service) AvailableTrainers(ctx context.Context, needID string) ([]domain.Trainer, error) {
	n, err := s.repo.GetNeed(ctx, needID)
	if err != nil {
		return nil, mapErr(err, ErrNeedNotFound)
	}
	return s.available(ctx, n.Date, n.ID)
}

func (s *Service) Assign(ctx context.Context, needID, trainerID string) (*domain.TrainingNeed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.repo.GetNeed(ctx, needID)
	if err != nil {
		return nil, mapErr(err, ErrNeedNotFound)
	}
	if _, err := s.repo.GetTrainer(ctx, trainerID); err != nil {
		return nil, mapErr(err, ErrTrainerNotFound)
	}
	busy, err := s.busyTrainers(ctx, n.Date, n.ID)
	if err != nil {
		return nil, err
	}
	if _, ok := busy[trainerID]; ok {
		return nil, ErrTrainerUnavailable
	}

	n.TrainerID = &trainerID
	if err := s.repo.SaveNeed(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) Unassign(ctx context.Context, needID string) (*domain.TrainingNeed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.repo.GetNeed(ctx, needID)
	if err != nil {
		return nil, mapErr(err, ErrNeedNotFound)
	}
	n.TrainerID = nil
	if err := s.repo.SaveNeed(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) available(ctx context.Context, date, excludeNeedID string) ([]domain.Trainer, error) {
	busy, err := s.busyTrainers(ctx, date, excludeNeedID)
	if err != nil {
		return nil, err
	}
	all, err := s.repo.ListTrainers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Trainer, 0, len(all))
	for _, t := range all {
		if _, ok := busy[t.ID]; !ok {
			out = append(out, t)
		}
	}
	sortTrainers(out)
	return out, nil
}

// busyTrainers returns the trainers assigned on date, ignoring need excludeNeedID.
func (s *Service) busyTrainers(ctx context.Context, date, excludeNeedID string) (map[string]struct{}, error) {
	needs, err := s.repo.ListNeeds(ctx)
	if err != nil {
		return nil, err
	}
	busy := make(map[string]struct{})
	for _, n := range needs {
		if n.Date == date && n.Assigned() && n.ID != excludeNeedID {
			busy[*n.TrainerID] = struct{}{}
		}
	}
	return busy, nil
}

func applyTrainer(t *domain.Trainer, req TrainerRequest) {
	t.FirstName = strings.TrimSpace(req.FirstName)
	t.LastName = strings.TrimSpace(req.LastName)
	t.Email = strings.TrimSpace(req.Email)
	t.Phone = strings.TrimSpace(req.Phone)
	t.Specialties = cleanList(req.Specialties)
	t.DailyRate = req.DailyRate
	t.ExperienceYears = req.ExperienceYears
	t.Location = strings.TrimSpace(req.Location)
	t.Notes = strings.TrimSpace(req.Notes)
}

func applyNeed(n *domain.TrainingNeed, req NeedRequest) error {
	day, err := validator.ParseDate(req.Date)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	n.Subject = strings.TrimSpace(req.Subject)
	n.Client = strings.TrimSpace(req.Client)
	n.Date = day.Format(time.DateOnly)
	n.Duration = req.Duration
	n.Modality = req.Modality
	n.City = strings.TrimSpace(req.City)
	if n.Modality == domain.ModalityRemote {
		n.City = ""
	}
	n.Notes = strings.TrimSpace(req.Notes)
	return nil
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func sortTrainers(ts []domain.Trainer) {
	slices.SortStableFunc(ts, func(a, b domain.Trainer) int {
		if c := strings.Compare(strings.ToLower(a.LastName), strings.ToLower(b.LastName)); c != 0 {
			return c
		}
		if c := strings.Compare(strings.ToLower(a.FirstName), strings.ToLower(b.FirstName)); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

func sortNeeds(ns []domain.TrainingNeed) {
	slices.SortStableFunc(ns, func(a, b domain.TrainingNeed) int {
		if c := strings.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		if c := strings.Compare(a.Subject, b.Subject); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

func mapErr(err, notFound error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	return err
}
