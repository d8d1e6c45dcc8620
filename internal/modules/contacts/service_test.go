package contacts

import (
	"context"
	"testing"

	"formatech/internal/domain"
	"formatech/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) List(ctx context.Context, f repository.ContactFilter) ([]domain.Contact, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Contact), args.Error(1)
}

func (m *MockContactRepository) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *MockContactRepository) Create(ctx context.Context, c *domain.Contact) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockContactRepository) Update(ctx context.Context, c *domain.Contact) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockContactRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) ListByContact(ctx context.Context, contactID string, limit int) ([]domain.Activity, error) {
	args := m.Called(ctx, contactID, limit)
	return args.Get(0).([]domain.Activity), args.Error(1)
}

func TestGetIncludesLastActivities(t *testing.T) {
	contacts := new(MockContactRepository)
	acts := new(MockActivityRepository)
	contacts.On("GetByID", mock.Anything, "p1").Return(&domain.Contact{ID: "p1", FirstName: "Léa"}, nil)
	acts.On("ListByContact", mock.Anything, "p1", 20).Return([]domain.Activity{{ID: "a1"}}, nil)

	detail, err := NewService(contacts, acts).Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Léa", detail.FirstName)
	assert.Len(t, detail.Activities, 1)
}

func TestCreateAppliesDefaults(t *testing.T) {
	contacts := new(MockContactRepository)
	blank := ""
	contacts.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Contact) bool {
		return c.IsDecisionMaker == domain.DecisionMakerUnconfirmed && c.Status == domain.ContactNew && c.CompanyID == nil
	})).Return(nil)
	contacts.On("GetByID", mock.Anything, mock.Anything).Return(&domain.Contact{ID: "new"}, nil)

	_, err := NewService(contacts, new(MockActivityRepository)).Create(context.Background(), ContactRequest{
		FirstName: " Léa ", LastName: "Martin", CompanyID: &blank,
	})
	require.NoError(t, err)
	contacts.AssertExpectations(t)
}

func TestUpdateKeepsEngagement(t *testing.T) {
	contacts := new(MockContactRepository)
	existing := &domain.Contact{ID: "p1", FirstName: "Léa", Status: domain.ContactContacted, EngagementScore: 30}
	contacts.On("GetByID", mock.Anything, "p1").Return(existing, nil)
	contacts.On("Update", mock.Anything, mock.MatchedBy(func(c *domain.Contact) bool {
		return c.EngagementScore == 30 && c.Status == domain.ContactContacted && c.Function == "DRH"
	})).Return(nil)

	_, err := NewService(contacts, new(MockActivityRepository)).Update(context.Background(), "p1", ContactRequest{
		FirstName: "Léa", LastName: "Martin", Function: "DRH",
	})
	require.NoError(t, err)
	contacts.AssertExpectations(t)
}

func TestUnknownCompany(t *testing.T) {
	contacts := new(MockContactRepository)
	contacts.On("Create", mock.Anything, mock.Anything).Return(repository.ErrInvalidReference)
	id := "missing"

	_, err := NewService(contacts, new(MockActivityRepository)).Create(context.Background(), ContactRequest{
		FirstName: "A", LastName: "B", CompanyID: &id,
	})
	assert.ErrorIs(t, err, ErrUnknownCompany)
}
