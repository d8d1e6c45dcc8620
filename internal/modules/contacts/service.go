package contacts

import (
	"context"
	"errors"
	"strings"

	"formatech/internal/domain"
	"formatech/internal/repository"

	"github.com/google/uuid"
)

const timelineLimit = 20

var (
	ErrNotFound       = errors.New("contact not found")
	ErrUnknownCompany = errors.New("company does not exist")
)

type ContactRepository interface {
	List(ctx context.Context, f repository.ContactFilter) ([]domain.Contact, error)
	GetByID(ctx context.Context, id string) (*domain.Contact, error)
	Create(ctx context.Context, c *domain.Contact) error
	Update(ctx context.Context, c *domain.Contact) error
	Delete(ctx context.Context, id string) error
}

type ActivityRepository interface {
	ListByContact(ctx context.Context, contactID string, limit int) ([]domain.Activity, error)
}

type Service struct {
	contacts   ContactRepository
	activities ActivityRepository
}

func NewService(contacts ContactRepository, activities ActivityRepository) *Service {
	return &Service{contacts: contacts, activities: activities}
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]domain.Contact, error) {
	return s.contacts.List(ctx, repository.ContactFilter(q))
}

func (s *Service) Get(ctx context.Context, id string) (*ContactDetail, error) {
	c, err := s.contacts.GetByID(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	acts, err := s.activities.ListByContact(ctx, id, timelineLimit)
	if err != nil {
		return nil, err
	}
	if acts == nil {
		acts = []domain.Activity{}
	}
	return &ContactDetail{Contact: *c, Activities: acts}, nil
}

func (s *Service) Create(ctx context.Context, req ContactRequest) (*domain.Contact, error) {
	c := &domain.Contact{ID: uuid.NewString()}
	apply(c, req)
	if c.Status == "" {
		c.Status = domain.ContactNew
	}
	if err := s.contacts.Create(ctx, c); err != nil {
		return nil, mapErr(err)
	}
	return s.reload(ctx, c.ID)
}

func (s *Service) Update(ctx context.Context, id string, req ContactRequest) (*domain.Contact, error) {
	c, err := s.contacts.GetByID(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	status, score := c.Status, c.EngagementScore
	apply(c, req)
	if c.Status == "" {
		c.Status = status
	}
	c.EngagementScore = score
	c.Company = nil
	if err := s.contacts.Update(ctx, c); err != nil {
		return nil, mapErr(err)
	}
	return s.reload(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return mapErr(s.contacts.Delete(ctx, id))
}

func (s *Service) reload(ctx context.Context, id string) (*domain.Contact, error) {
	c, err := s.contacts.GetByID(ctx, id)
	return c, mapErr(err)
}

func apply(c *domain.Contact, req ContactRequest) {
	c.Civility = req.Civility
	c.FirstName = strings.TrimSpace(req.FirstName)
	c.LastName = strings.TrimSpace(req.LastName)
	c.Function = req.Function
	c.Email = strings.TrimSpace(req.Email)
	c.PhoneFixed = req.PhoneFixed
	c.PhoneMobile = req.PhoneMobile
	c.LinkedinURL = req.LinkedinURL
	c.IsDecisionMaker = req.IsDecisionMaker
	if c.IsDecisionMaker == "" {
		c.IsDecisionMaker = domain.DecisionMakerUnconfirmed
	}
	c.IsSignatory = req.IsSignatory
	c.CompanyID = req.CompanyID
	if c.CompanyID != nil && *c.CompanyID == "" {
		c.CompanyID = nil
	}
	c.Notes = req.Notes
	c.Status = req.Status
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrInvalidReference):
		return ErrUnknownCompany
	}
	return err
}
