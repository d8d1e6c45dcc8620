package outreach

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"formatech/internal/domain"
	"formatech/internal/metrics"
	"formatech/internal/pkg/logger"
	"formatech/internal/repository"

	"github.com/google/uuid"
)

const (
	engagementPerEmail = 10
	historySize        = 5
)

var (
	ErrNotConfigured   = errors.New("provider not configured")
	ErrContactNotFound = errors.New("contact not found")
	ErrNoEmail         = errors.New("contact has no email")
	ErrCompanyNotFound = errors.New("company not found")
	ErrDelivery        = errors.New("email delivery failed")
)

// ConfigError carries the user facing message of a missing provider key.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

func (e *ConfigError) Is(target error) bool { return target == ErrNotConfigured }

var (
	errGeneratorMissing = &ConfigError{Message: "Clé API OpenAI non configurée"}
	errSenderMissing    = &ConfigError{Message: "Configuration SendGrid manquante"}
	errSearcherMissing  = &ConfigError{Message: "Clé API Apollo.io non configurée"}
)

type ContactRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Contact, error)
	FindInCompany(ctx context.Context, companyID, email, linkedinURL string) (*domain.Contact, error)
	Create(ctx context.Context, c *domain.Contact) error
	RecordOutreach(ctx context.Context, id string, points int) error
}

type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Company, error)
	UpdateStatus(ctx context.Context, id string, status domain.CompanyStatus) error
}

type LogRepository interface {
	LogEmail(ctx context.Context, log *domain.EmailLog, in *domain.Interaction) error
	RecentInteractions(ctx context.Context, contactID string, limit int) ([]domain.Interaction, error)
}

// Providers are the external services. A nil provider is reported as not configured.
type Providers struct {
	Generator MessageGenerator
	Sender    EmailSender
	People    PeopleSearcher
}

type Service struct {
	contacts  ContactRepository
	companies CompanyRepository
	logs      LogRepository
	providers Providers
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewService(contacts ContactRepository, companies CompanyRepository, logs LogRepository, p Providers, m *metrics.Metrics) *Service {
	return &Service{
		contacts:  contacts,
		companies: companies,
		logs:      logs,
		providers: p,
		metrics:   m,
		now:       time.Now,
	}
}

// APIStatus reports which providers are configured, keyed by their environment variable.
func (s *Service) APIStatus() map[string]bool {
	return map[string]bool{
		"OPENAI_API_KEY":   s.providers.Generator != nil,
		"SENDGRID_API_KEY": s.providers.Sender != nil,
		"APOLLO_API_KEY":   s.providers.People != nil,
	}
}

func (s *Service) GenerateMessage(ctx context.Context, req GenerateRequest) (*GeneratedMessage, error) {
	if s.providers.Generator == nil {
		return nil, errGeneratorMissing
	}
	contact, err := s.contact(ctx, req.ContactID)
	if err != nil {
		return nil, err
	}
	history, err := s.logs.RecentInteractions(ctx, contact.ID, historySize)
	if err != nil {
		return nil, err
	}

	text, err := s.providers.Generator.Generate(ctx, ContactContext{
		Contact:      *contact,
		Company:      contact.Company,
		Interactions: history,
		Extra:        req.CustomContext,
	}, req.MessageType)
	if err != nil {
		return nil, fmt.Errorf("generate message: %w", err)
	}

	out := &GeneratedMessage{
		Message: text,
		Contact: MessageContact{Name: contact.FullName(), Function: contact.Function},
	}
	if contact.Company != nil {
		out.Contact.Company = contact.Company.Name
	}
	return out, nil
}

// SendEmail delivers the email and records it. A fresh contact is moved to
// CONTACTED and earns engagement points.
func (s *Service) SendEmail(ctx context.Context, req SendEmailRequest) (*SentEmail, error) {
	if s.providers.Sender == nil {
		return nil, errSenderMissing
	}
	contact, err := s.contact(ctx, req.ContactID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(contact.Email) == "" {
		return nil, ErrNoEmail
	}

	log := &domain.EmailLog{
		ID:         uuid.NewString(),
		ContactID:  contact.ID,
		Subject:    req.Subject,
		Body:       req.Body,
		CampaignID: req.CampaignID,
	}

	msgID, sendErr := s.providers.Sender.Send(ctx, Email{
		To:      contact.Email,
		ToName:  contact.FullName(),
		Subject: req.Subject,
		Body:    req.Body,
	})
	if sendErr != nil {
		log.Status = domain.EmailFailed
		s.metrics.ObserveEmail(string(domain.EmailFailed))
		if err := s.logs.LogEmail(ctx, log, nil); err != nil {
			logger.Error(ctx, "failed to record email failure", "contact_id", contact.ID, "error", err)
		}
		return nil, fmt.Errorf("%w: %w", ErrDelivery, sendErr)
	}

	sentAt := s.now()
	log.Status = domain.EmailSent
	log.ProviderMessageID = msgID
	log.SentAt = &sentAt
	interaction := &domain.Interaction{
		ID:        uuid.NewString(),
		ContactID: contact.ID,
		Type:      domain.InteractionEmail,
		Channel:   "EMAIL",
		Subject:   req.Subject,
		Content:   req.Body,
	}
	if err := s.logs.LogEmail(ctx, log, interaction); err != nil {
		return nil, err
	}
	if err := s.contacts.RecordOutreach(ctx, contact.ID, engagementPerEmail); err != nil {
		return nil, err
	}
	s.metrics.ObserveEmail(string(domain.EmailSent))

	logger.Info(ctx, "outreach email sent", "contact_id", contact.ID, "email_log_id", log.ID)
	return &SentEmail{Message: "Email envoyé avec succès", EmailLogID: log.ID}, nil
}

// Enrich searches people of the company and creates the ones not known yet.
func (s *Service) Enrich(ctx context.Context, req EnrichRequest) (*EnrichResult, error) {
	if s.providers.People == nil {
		return nil, errSearcherMissing
	}
	company, err := s.companies.GetByID(ctx, req.CompanyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	name := strings.TrimSpace(req.CompanyName)
	if name == "" {
		name = company.Name
	}

	found, err := s.providers.People.Search(ctx, name)
	if err != nil {
		return nil, err
	}

	created := make([]domain.Contact, 0, len(found.People))
	for _, p := range found.People {
		if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
			continue
		}
		_, err := s.contacts.FindInCompany(ctx, company.ID, p.Email, p.LinkedinURL)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}

		c := domain.Contact{
			ID:              uuid.NewString(),
			FirstName:       p.FirstName,
			LastName:        p.LastName,
			Email:           p.Email,
			PhoneFixed:      p.Phone,
			Function:        p.Title,
			LinkedinURL:     p.LinkedinURL,
			CompanyID:       &company.ID,
			IsDecisionMaker: DecisionMaker(p.Title),
			Status:          domain.ContactNew,
		}
		if err := s.contacts.Create(ctx, &c); err != nil {
			return nil, err
		}
		created = append(created, c)
	}

	if err := s.companies.UpdateStatus(ctx, company.ID, domain.CompanyResearching); err != nil {
		return nil, err
	}

	return &EnrichResult{
		Message:         fmt.Sprintf("%d contacts trouvés et ajoutés", len(created)),
		TotalFound:      found.TotalFound,
		ContactsCreated: len(created),
		Contacts:        created,
	}, nil
}

func (s *Service) contact(ctx context.Context, id string) (*domain.Contact, error) {
	c, err := s.contacts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return c, nil
}

var decisionMakerKeywords = []string{
	"directeur", "director", "head", "chief", "vp", "vice president",
	"responsable", "manager", "lead", "drh", "cfo", "coo", "ceo",
}

// DecisionMaker flags job titles that usually carry purchasing power.
// Anything else stays to be confirmed.
func DecisionMaker(title string) domain.DecisionMaker {
	t := strings.ToLower(title)
	for _, k := range decisionMakerKeywords {
		if strings.Contains(t, k) {
			return domain.DecisionMakerYes
		}
	}
	return domain.DecisionMakerUnconfirmed
}
