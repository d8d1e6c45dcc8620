package whitepapers

import (
	"context"
	"errors"
	"strings"

	"formatech/internal/domain"
	"formatech/internal/repository"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("whitepaper not found")

type Repository interface {
	List(ctx context.Context) ([]domain.Whitepaper, error)
	GetByID(ctx context.Context, id string) (*domain.Whitepaper, error)
	Create(ctx context.Context, w *domain.Whitepaper) error
	Update(ctx context.Context, w *domain.Whitepaper) error
	Delete(ctx context.Context, id string) error
}

type WhitepaperRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description"`
	FileURL     string `json:"file_url" validate:"required,url"`
	FileName    string `json:"file_name" validate:"omitempty,max=255"`
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Whitepaper, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Whitepaper{}
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Whitepaper, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return w, nil
}

func (s *Service) Create(ctx context.Context, req WhitepaperRequest) (*domain.Whitepaper, error) {
	w := &domain.Whitepaper{ID: uuid.NewString()}
	apply(w, req)
	if err := s.repo.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *Service) Update(ctx context.Context, id string, req WhitepaperRequest) (*domain.Whitepaper, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	apply(w, req)
	if err := s.repo.Update(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return mapErr(s.repo.Delete(ctx, id))
}

func apply(w *domain.Whitepaper, req WhitepaperRequest) {
	w.Title = strings.TrimSpace(req.Title)
	w.Description = req.Description
	w.FileURL = strings.TrimSpace(req.FileURL)
	w.FileName = strings.TrimSpace(req.FileName)
	if w.FileName == "" {
		w.FileName = FileName(w.Title)
	}
}

// FileName derives the download name of a whitepaper from its title:
// lower case, whitespace runs replaced by "-", ".pdf" suffix.
func FileName(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), "-") + ".pdf"
}

func mapErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
