package companies

import (
	"context"
	"errors"
	"strings"

	"formatech/internal/domain"
	"formatech/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("company not found")
	ErrSirenDuplicate = errors.New("SIREN already exists")
)

type CompanyRepository interface {
	List(ctx context.Context, f repository.CompanyFilter) ([]domain.Company, error)
	GetByID(ctx context.Context, id string) (*domain.Company, error)
	Create(ctx context.Context, c *domain.Company) error
	Update(ctx context.Context, c *domain.Company) error
	Delete(ctx context.Context, id string) error
}

type ContactRepository interface {
	ListByCompany(ctx context.Context, companyID string) ([]domain.Contact, error)
}

type DealRepository interface {
	List(ctx context.Context, f repository.DealFilter) ([]domain.Deal, error)
}

type Service struct {
	companies CompanyRepository
	contacts  ContactRepository
	deals     DealRepository
}

func NewService(companies CompanyRepository, contacts ContactRepository, deals DealRepository) *Service {
	return &Service{companies: companies, contacts: contacts, deals: deals}
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]domain.Company, error) {
	return s.companies.List(ctx, repository.CompanyFilter(q))
}

// Get returns the company with its contacts and deals.
func (s *Service) Get(ctx context.Context, id string) (*CompanyDetail, error) {
	c, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	contacts, err := s.contacts.ListByCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	deals, err := s.deals.List(ctx, repository.DealFilter{CompanyID: id})
	if err != nil {
		return nil, err
	}
	if contacts == nil {
		contacts = []domain.Contact{}
	}
	if deals == nil {
		deals = []domain.Deal{}
	}
	return &CompanyDetail{Company: *c, Contacts: contacts, Deals: deals}, nil
}

func (s *Service) Create(ctx context.Context, req CompanyRequest) (*domain.Company, error) {
	c := &domain.Company{ID: uuid.NewString()}
	apply(c, req)
	if c.Priority == "" {
		c.Priority = domain.PriorityMedium
	}
	if c.Status == "" {
		c.Status = domain.CompanyIdentified
	}
	if err := s.companies.Create(ctx, c); err != nil {
		return nil, mapErr(err)
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, id string, req CompanyRequest) (*domain.Company, error) {
	c, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	priority, status := c.Priority, c.Status
	apply(c, req)
	if c.Priority == "" {
		c.Priority = priority
	}
	if c.Status == "" {
		c.Status = status
	}
	if err := s.companies.Update(ctx, c); err != nil {
		return nil, mapErr(err)
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return mapErr(s.companies.Delete(ctx, id))
}

func apply(c *domain.Company, req CompanyRequest) {
	c.Name = strings.TrimSpace(req.Name)
	c.Siren = normalizeSiren(req.Siren)
	c.Sector = req.Sector
	c.Size = req.Size
	c.Address = req.Address
	c.City = req.City
	c.PostalCode = req.PostalCode
	c.Website = req.Website
	c.EstimatedRevenue = req.EstimatedRevenue
	c.CollectiveAgreement = req.CollectiveAgreement
	c.Opco = req.Opco
	c.LinkedinURL = req.LinkedinURL
	c.Priority = req.Priority
	c.Status = req.Status
	c.Description = req.Description
	c.Notes = req.Notes
}

// normalizeSiren stores blank SIRENs as NULL so they stay out of the unique index.
func normalizeSiren(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.ReplaceAll(strings.TrimSpace(*s), " ", "")
	if v == "" {
		return nil
	}
	return &v
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return ErrSirenDuplicate
	}
	return err
}
