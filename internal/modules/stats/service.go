package stats

import (
	"context"
	"errors"
	"time"

	"formatech/internal/domain"
	"formatech/internal/repository"

	"golang.org/x/sync/errgroup"
)

var ErrUserNotFound = errors.New("user not found")

type DealSource interface {
	All(ctx context.Context) ([]domain.Deal, error)
}

type UserSource interface {
	List(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Service aggregates in Go over loaded rows, so results do not depend on the SQL dialect.
type Service struct {
	deals DealSource
	users UserSource
	now   func() time.Time
}

func NewService(deals DealSource, users UserSource) *Service {
	return &Service{deals: deals, users: users, now: time.Now}
}

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	deals, err := s.deals.All(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	return BuildDashboard(deals, s.now()), nil
}

func (s *Service) MonthlyRevenue(ctx context.Context) ([]MonthAmount, error) {
	deals, err := s.deals.All(ctx)
	if err != nil {
		return nil, err
	}
	return MonthlyRevenue(deals, s.now()), nil
}

func (s *Service) Sources(ctx context.Context) ([]SourceCount, error) {
	deals, err := s.deals.All(ctx)
	if err != nil {
		return nil, err
	}
	return Sources(deals), nil
}

func (s *Service) NextToClose(ctx context.Context) ([]domain.Deal, error) {
	deals, err := s.deals.All(ctx)
	if err != nil {
		return nil, err
	}
	return NextToClose(deals, NextToCloseLimit), nil
}

func (s *Service) Funnel(ctx context.Context) ([]FunnelStep, error) {
	deals, err := s.deals.All(ctx)
	if err != nil {
		return nil, err
	}
	return Funnel(deals), nil
}

func (s *Service) UserPerformance(ctx context.Context) ([]UserPerformance, error) {
	var (
		users []domain.User
		deals []domain.Deal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = s.users.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		deals, err = s.deals.All(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Performance(users, deals), nil
}

func (s *Service) ForUser(ctx context.Context, userID string) (UserStats, error) {
	var deals []domain.Deal
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.users.GetByID(gctx, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	})
	g.Go(func() (err error) {
		deals, err = s.deals.All(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return UserStats{}, err
	}
	return ForUser(userID, deals, s.now()), nil
}
