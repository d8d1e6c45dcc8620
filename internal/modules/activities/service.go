package activities

import (
	"context"
	"errors"

	"formatech/internal/domain"
	"formatech/internal/repository"

	"github.com/google/uuid"
)

const (
	DefaultLimit = 50
	RecentLimit  = 20
	MaxLimit     = 500
)

var ErrDealNotFound = errors.New("deal not found")

type ActivityRepository interface {
	List(ctx context.Context, f repository.ActivityFilter) ([]domain.Activity, error)
	Create(ctx context.Context, a *domain.Activity) error
}

type ListQuery struct {
	DealID string `form:"deal_id"`
	UserID string `form:"user_id"`
	Type   string `form:"type" validate:"omitempty,oneof=appel email rdv note changement_etape modification"`
	Limit  int    `form:"limit" validate:"omitempty,min=1"`
}

type CreateActivityRequest struct {
	DealID      string              `json:"deal_id" validate:"required"`
	UserID      *string             `json:"user_id"`
	Type        domain.ActivityType `json:"type" validate:"required,oneof=appel email rdv note changement_etape modification"`
	Description string              `json:"description" validate:"required"`
	Metadata    map[string]any      `json:"metadata"`
}

type Service struct {
	activities ActivityRepository
}

func NewService(activities ActivityRepository) *Service {
	return &Service{activities: activities}
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]domain.Activity, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return s.activities.List(ctx, repository.ActivityFilter{
		DealID: q.DealID,
		UserID: q.UserID,
		Type:   q.Type,
		Limit:  limit,
	})
}

func (s *Service) Recent(ctx context.Context) ([]domain.Activity, error) {
	return s.activities.List(ctx, repository.ActivityFilter{Limit: RecentLimit})
}

// Create logs a manual entry on a deal's timeline.
func (s *Service) Create(ctx context.Context, req CreateActivityRequest) (*domain.Activity, error) {
	a := &domain.Activity{
		ID:          uuid.NewString(),
		DealID:      req.DealID,
		Type:        req.Type,
		Description: req.Description,
		Metadata:    req.Metadata,
	}
	if req.UserID != nil && *req.UserID != "" {
		a.UserID = req.UserID
	}
	if err := s.activities.Create(ctx, a); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, err
	}
	return a, nil
}
