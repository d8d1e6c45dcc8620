package deals

import (
	"context"

	"formatech/internal/domain"
	"formatech/internal/repository"
)

type DealRepository interface {
	List(ctx context.Context, f repository.DealFilter) ([]domain.Deal, error)
	GetByID(ctx context.Context, id string) (*domain.Deal, error)
	Create(ctx context.Context, d *domain.Deal, a *domain.Activity) error
	Mutate(ctx context.Context, id string, fn repository.MutateFunc) (*domain.Deal, error)
	Delete(ctx context.Context, id string) error
}

type ActivityRepository interface {
	List(ctx context.Context, f repository.ActivityFilter) ([]domain.Activity, error)
}

type ContactRepository interface {
	ListByCompany(ctx context.Context, companyID string) ([]domain.Contact, error)
}
