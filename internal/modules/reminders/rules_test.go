package reminders

import (
	"testing"
	"time"

	"formatech/internal/config"
	"formatech/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)

func daysAgo(n int) time.Time { return now.AddDate(0, 0, -n) }

func ptr[T any](v T) *T { return &v }

func deal(stage domain.Stage) domain.Deal {
	return domain.Deal{
		ID:             "d1",
		Stage:          stage,
		EntryDate:      now,
		UpdatedAt:      now,
		LastActivityAt: now,
		Company:        &domain.Company{Name: "Acme"},
		Proposal:       domain.Proposal{ValidityDays: 30},
	}
}

func types(fired []domain.Reminder) []domain.ReminderType {
	out := make([]domain.ReminderType, 0, len(fired))
	for _, r := range fired {
		out = append(out, r.Type)
	}
	return out
}

func TestLeadToQualify(t *testing.T) {
	cfg := config.DefaultReminderConfig()

	d := deal(domain.StageLeadIn)
	d.EntryDate = daysAgo(4)
	assert.Empty(t, Evaluate([]domain.Deal{d}, now, cfg))

	d.EntryDate = daysAgo(5)
	fired := Evaluate([]domain.Deal{d}, now, cfg)
	require.Len(t, fired, 1)
	assert.Equal(t, domain.ReminderLeadToQualify, fired[0].Type)
	assert.Equal(t, "Lead à qualifier d'urgence: Acme", fired[0].Message)
	assert.Equal(t, "d1", fired[0].DealID)
}

func TestColdLead(t *testing.T) {
	cfg := config.DefaultReminderConfig()

	d := deal(domain.StageQualification)
	d.UpdatedAt = daysAgo(3)
	d.Qualification.TotalScore = 9
	fired := Evaluate([]domain.Deal{d}, now, cfg)
	require.Len(t, fired, 1)
	assert.Equal(t, "Lead froid à traiter: Acme (score: 9/25)", fired[0].Message)

	d.Qualification.TotalScore = 12
	assert.Empty(t, Evaluate([]domain.Deal{d}, now, cfg))

	d.Qualification.TotalScore = 9
	d.UpdatedAt = daysAgo(2)
	assert.Empty(t, Evaluate([]domain.Deal{d}, now, cfg))
}

func TestDormantSkipsClosedDeals(t *testing.T) {
	cfg := config.DefaultReminderConfig()

	for _, stage := range []domain.Stage{domain.StageWon, domain.StageLost} {
		d := deal(stage)
		d.LastActivityAt = daysAgo(40)
		assert.NotContains(t, types(Evaluate([]domain.Deal{d}, now, cfg)), domain.ReminderDormantDeal, stage)
	}

	d := deal(domain.StageDemo)
	d.LastActivityAt = daysAgo(10)
	assert.Equal(t, []domain.ReminderType{domain.ReminderDormantDeal}, types(Evaluate([]domain.Deal{d}, now, cfg)))
}

func TestProposalFollowUp(t *testing.T) {
	cfg := config.DefaultReminderConfig()

	d := deal(domain.StageProposal)
	assert.Empty(t, Evaluate([]domain.Deal{d}, now, cfg), "no sent date")

	d.Proposal.SentDate = ptr(daysAgo(6))
	assert.NotContains(t, types(Evaluate([]domain.Deal{d}, now, cfg)), domain.ReminderProposalFollowUp)

	d.Proposal.SentDate = ptr(daysAgo(7))
	assert.Contains(t, types(Evaluate([]domain.Deal{d}, now, cfg)), domain.ReminderProposalFollowUp)
}

func TestProposalExpiringWindow(t *testing.T) {
	cfg := config.DefaultReminderConfig()

	cases := []struct {
		name     string
		sentAgo  int
		validity int
		fires    bool
	}{
		{"expires today", 30, 30, true},
		{"expires in 5 days", 25, 30, true},
		{"expires in 6 days", 24, 30, false},
		{"expired yesterday", 31, 30, false},
		{"short validity", 8, 10, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := deal(domain.StageProposal)
			d.Proposal.SentDate = ptr(daysAgo(tc.sentAgo))
			d.Proposal.ValidityDays = tc.validity
			got := types(Evaluate([]domain.Deal{d}, now, cfg))
			if tc.fires {
				assert.Contains(t, got, domain.ReminderProposalExpiring)
			} else {
				assert.NotContains(t, got, domain.ReminderProposalExpiring)
			}
		})
	}
}

func TestDormantAndLongNegotiationBothFire(t *testing.T) {
	cfg := config.DefaultReminderConfig()

	d := deal(domain.StageNegotiation)
	d.LastActivityAt = daysAgo(11)
	d.UpdatedAt = daysAgo(21)

	fired := Evaluate([]domain.Deal{d}, now, cfg)
	assert.ElementsMatch(t, []domain.ReminderType{domain.ReminderDormantDeal, domain.ReminderLongNegotiation}, types(fired))
	for _, r := range fired {
		if r.Type == domain.ReminderLongNegotiation {
			assert.Equal(t, "Négo qui traîne: Acme", r.Message)
		}
	}
}

func TestTrainingAlert(t *testing.T) {
	cfg := config.DefaultReminderConfig()

	d := deal(domain.StageWon)
	d.Won.ConfirmedTrainingDates = "2024-06-29, 2024-06-30"
	assert.Equal(t, []domain.ReminderType{domain.ReminderTrainingAlert}, types(Evaluate([]domain.Deal{d}, now, cfg)))

	d.Won.ConfirmedTrainingDates = "2024-06-30"
	assert.Empty(t, Evaluate([]domain.Deal{d}, now, cfg))

	d.Won.ConfirmedTrainingDates = "14/06/2024"
	assert.Empty(t, Evaluate([]domain.Deal{d}, now, cfg), "already past")

	d.Won.ConfirmedTrainingDates = "semaine 26 puis 20/06/2024"
	assert.Equal(t, []domain.ReminderType{domain.ReminderTrainingAlert}, types(Evaluate([]domain.Deal{d}, now, cfg)))

	d.Won.ConfirmedTrainingDates = "à définir"
	assert.Empty(t, Evaluate([]domain.Deal{d}, now, cfg))
}

func TestThresholdsFromConfig(t *testing.T) {
	cfg := config.DefaultReminderConfig()
	cfg.DormantDays = 30

	d := deal(domain.StageDemo)
	d.LastActivityAt = daysAgo(12)
	assert.Empty(t, Evaluate([]domain.Deal{d}, now, cfg))
}

func TestDayGranularity(t *testing.T) {
	cfg := config.DefaultReminderConfig()

	// late on the boundary day still counts as that day
	d := deal(domain.StageLeadIn)
	d.EntryDate = time.Date(2024, 6, 10, 23, 59, 0, 0, time.UTC)
	assert.Len(t, Evaluate([]domain.Deal{d}, now, cfg), 1)

	d.EntryDate = time.Date(2024, 6, 11, 0, 1, 0, 0, time.UTC)
	assert.Empty(t, Evaluate([]domain.Deal{d}, now, cfg))
}
