package users

import (
	"context"
	"errors"

	"formatech/internal/domain"
	"formatech/internal/repository"

	"github.com/google/uuid"
)

type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error
}

type Service struct {
	users UserRepository
}

func NewService(users UserRepository) *Service {
	return &Service{users: users}
}

func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	return u, mapErr(err)
}

func (s *Service) Create(ctx context.Context, req UserRequest) (*domain.User, error) {
	u := &domain.User{
		ID:        uuid.NewString(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Role:      req.Role,
	}
	if u.Role == "" {
		u.Role = domain.RoleCommercial
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func (s *Service) Update(ctx context.Context, id string, req UserRequest) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	u.FirstName = req.FirstName
	u.LastName = req.LastName
	u.Email = req.Email
	if req.Role != "" {
		u.Role = req.Role
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return mapErr(s.users.Delete(ctx, id))
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return ErrEmailDuplicate
	}
	return err
}
