package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"formatech/internal/domain"
	"formatech/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC)

func at(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
	return &t
}

func amount(v int64) *int64 { return &v }

func won(user string, signed *time.Time, final int64) domain.Deal {
	return domain.Deal{
		UserID:        user,
		Stage:         domain.StageWon,
		CurrentAmount: final,
		CreatedAt:     now.AddDate(0, 0, -10),
		Won:           domain.Won{SignatureDate: signed, FinalAmount: amount(final)},
	}
}

func open(user string, stage domain.Stage, amt int64) domain.Deal {
	return domain.Deal{UserID: user, Stage: stage, CurrentAmount: amt, CreatedAt: now.AddDate(0, 0, -10)}
}

func fixture() []domain.Deal {
	lost := open("u2", domain.StageLost, 700)
	lost.Lost.Reason = "prix"

	proposal := open("u1", domain.StageProposal, 4000)
	proposal.ExpectedCloseDate = at(2024, 3, 28)
	proposal.Source = domain.SourceLinkedin

	nego := open("u2", domain.StageNegotiation, 2500)
	nego.ExpectedCloseDate = at(2024, 4, 2)
	nego.Source = domain.SourceLinkedin

	lead := open("u1", domain.StageLeadIn, 0)
	lead.Source = domain.SourceWebsite

	return []domain.Deal{
		lead,
		open("u1", domain.StageQualification, 1000),
		proposal,
		nego,
		won("u1", at(2024, 3, 5), 3000),
		won("u1", at(2024, 2, 10), 1500),
		won("u2", at(2023, 3, 10), 900),
		lost,
	}
}

func TestBuildDashboard(t *testing.T) {
	d := BuildDashboard(fixture(), now)

	assert.Equal(t, int64(1000+4000+2500), d.TotalPipeline)
	assert.Equal(t, int64(4000), d.ForecastThisMonth)
	assert.Equal(t, int64(3000), d.SignedThisMonth)
	assert.Equal(t, int64(1500), d.SignedLastMonth)
	assert.Equal(t, StageTotal{Count: 3, Amount: 5400}, d.DealsByStage[domain.StageWon])
	// 3 won, 1 lost, all created within 90 days
	assert.Equal(t, 75, d.ConversionRate90Days)
}

func TestBuildDashboardEmpty(t *testing.T) {
	d := BuildDashboard(nil, now)
	assert.Zero(t, d.TotalPipeline)
	assert.Zero(t, d.ConversionRate90Days)
	assert.NotNil(t, d.DealsByStage)
}

func TestMonthlyRevenue(t *testing.T) {
	months := MonthlyRevenue(fixture(), now)

	require.Len(t, months, 12)
	assert.Equal(t, "2023-04", months[0].Month)
	assert.Equal(t, MonthAmount{Month: "2024-03", Amount: 3000}, months[11])
	assert.Equal(t, MonthAmount{Month: "2024-02", Amount: 1500}, months[10])
	for _, m := range months[:10] {
		assert.Zero(t, m.Amount, m.Month)
	}
}

func TestSources(t *testing.T) {
	assert.Equal(t, []SourceCount{
		{Source: domain.SourceLinkedin, Count: 2},
		{Source: domain.SourceWebsite, Count: 1},
	}, Sources(fixture()))
}

func TestPerformance(t *testing.T) {
	users := []domain.User{
		{ID: "u2", FirstName: "Bob", LastName: "Durand"},
		{ID: "u1", FirstName: "Ana", LastName: "Roy"},
		{ID: "u3", FirstName: "Zoé", LastName: "Petit"},
	}
	perf := Performance(users, fixture())

	require.Len(t, perf, 3)
	assert.Equal(t, UserPerformance{
		UserID: "u1", UserName: "Ana Roy", DealsCount: 5,
		PipelineAmount: 5000, SignedAmount: 4500, ConversionRate: 100,
	}, perf[0])
	assert.Equal(t, UserPerformance{
		UserID: "u2", UserName: "Bob Durand", DealsCount: 3,
		PipelineAmount: 2500, SignedAmount: 900, ConversionRate: 50,
	}, perf[1])
	assert.Equal(t, "u3", perf[2].UserID)
	assert.Zero(t, perf[2].DealsCount)
}

func TestNextToClose(t *testing.T) {
	deals := fixture()
	for i := 0; i < 6; i++ {
		d := open("u1", domain.StageNegotiation, 100)
		d.ExpectedCloseDate = at(2024, 5, 1+i)
		deals = append(deals, d)
	}

	next := NextToClose(deals, NextToCloseLimit)
	require.Len(t, next, 5)
	assert.Equal(t, at(2024, 3, 28), next[0].ExpectedCloseDate)
	assert.Equal(t, at(2024, 4, 2), next[1].ExpectedCloseDate)
	assert.Equal(t, at(2024, 5, 3), next[4].ExpectedCloseDate)

	assert.Empty(t, NextToClose(nil, NextToCloseLimit))
}

func TestFunnel(t *testing.T) {
	f := Funnel(fixture())

	require.Len(t, f, 6)
	assert.Equal(t, FunnelStep{Stage: domain.StageLeadIn, Count: 1}, f[0])
	assert.Equal(t, FunnelStep{Stage: domain.StageWon, Count: 3, Amount: 5400}, f[5])
}

func TestForUser(t *testing.T) {
	s := ForUser("u1", fixture(), now)
	assert.Equal(t, UserStats{DealsCount: 3, PipelineAmount: 5000, SignedAmount: 4500, ConversionRate: 100}, s)

	// the 2023 signature is outside both the year and the 90-day window
	s = ForUser("u2", fixture(), now)
	assert.Equal(t, UserStats{DealsCount: 1, PipelineAmount: 2500, ConversionRate: 0}, s)
}

type mockDeals struct{ mock.Mock }

func (m *mockDeals) All(ctx context.Context) ([]domain.Deal, error) {
	args := m.Called(ctx)
	deals, _ := args.Get(0).([]domain.Deal)
	return deals, args.Error(1)
}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]domain.User)
	return users, args.Error(1)
}

func (m *mockUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func TestServiceForUserMissing(t *testing.T) {
	deals, users := new(mockDeals), new(mockUsers)
	deals.On("All", mock.Anything).Return(fixture(), nil)
	users.On("GetByID", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)

	_, err := NewService(deals, users).ForUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestServiceUserPerformancePropagatesErrors(t *testing.T) {
	deals, users := new(mockDeals), new(mockUsers)
	boom := errors.New("db down")
	deals.On("All", mock.Anything).Return(nil, boom)
	users.On("List", mock.Anything).Return([]domain.User{{ID: "u1"}}, nil)

	_, err := NewService(deals, users).UserPerformance(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestServiceDashboardUsesClock(t *testing.T) {
	deals, users := new(mockDeals), new(mockUsers)
	deals.On("All", mock.Anything).Return(fixture(), nil)

	s := NewService(deals, users)
	s.now = func() time.Time { return now }
	d, err := s.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3000), d.SignedThisMonth)
	deals.AssertExpectations(t)
}
