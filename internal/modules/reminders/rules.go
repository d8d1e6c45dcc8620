package reminders

import (
	"fmt"
	"strings"
	"time"

	"formatech/internal/config"
	"formatech/internal/domain"
)

// rule is one reminder predicate. It returns the message and whether it fires.
type rule struct {
	typ  domain.ReminderType
	eval func(d *domain.Deal, today time.Time, cfg config.ReminderConfig) (string, bool)
}

var rules = []rule{
	{domain.ReminderLeadToQualify, leadToQualify},
	{domain.ReminderColdLead, coldLead},
	{domain.ReminderDormantDeal, dormantDeal},
	{domain.ReminderProposalFollowUp, proposalFollowUp},
	{domain.ReminderProposalExpiring, proposalExpiring},
	{domain.ReminderLongNegotiation, longNegotiation},
	{domain.ReminderTrainingAlert, trainingAlert},
}

// Evaluate runs every rule against every deal and returns the reminders that fire.
// Dates are compared by calendar day in UTC.
func Evaluate(deals []domain.Deal, now time.Time, cfg config.ReminderConfig) []domain.Reminder {
	today := day(now)
	var fired []domain.Reminder
	for i := range deals {
		d := &deals[i]
		for _, r := range rules {
			msg, ok := r.eval(d, today, cfg)
			if !ok {
				continue
			}
			fired = append(fired, domain.Reminder{
				DealID:  d.ID,
				Type:    r.typ,
				Message: msg,
			})
		}
	}
	return fired
}

func leadToQualify(d *domain.Deal, today time.Time, cfg config.ReminderConfig) (string, bool) {
	if d.Stage != domain.StageLeadIn || d.EntryDate.IsZero() {
		return "", false
	}
	if !onOrBefore(d.EntryDate, today.AddDate(0, 0, -cfg.LeadIdleDays)) {
		return "", false
	}
	return "Lead à qualifier d'urgence: " + d.CompanyName(), true
}

func coldLead(d *domain.Deal, today time.Time, cfg config.ReminderConfig) (string, bool) {
	if d.Stage != domain.StageQualification || d.Qualification.TotalScore >= cfg.ColdLeadMaxScore {
		return "", false
	}
	if !onOrBefore(d.UpdatedAt, today.AddDate(0, 0, -cfg.ColdLeadIdleDays)) {
		return "", false
	}
	return fmt.Sprintf("Lead froid à traiter: %s (score: %d/25)", d.CompanyName(), d.Qualification.TotalScore), true
}

func dormantDeal(d *domain.Deal, today time.Time, cfg config.ReminderConfig) (string, bool) {
	if d.IsClosed() || !onOrBefore(d.LastActivityAt, today.AddDate(0, 0, -cfg.DormantDays)) {
		return "", false
	}
	return "Deal dormant: " + d.CompanyName(), true
}

func proposalFollowUp(d *domain.Deal, today time.Time, cfg config.ReminderConfig) (string, bool) {
	if d.Stage != domain.StageProposal || d.Proposal.SentDate == nil {
		return "", false
	}
	if !onOrBefore(*d.Proposal.SentDate, today.AddDate(0, 0, -cfg.ProposalFollowUpDays)) {
		return "", false
	}
	return "Relance propale: " + d.CompanyName(), true
}

func proposalExpiring(d *domain.Deal, today time.Time, cfg config.ReminderConfig) (string, bool) {
	if d.Stage != domain.StageProposal || d.Proposal.SentDate == nil {
		return "", false
	}
	expiry := day(*d.Proposal.SentDate).AddDate(0, 0, d.Proposal.ValidityDays)
	if !within(expiry, today, today.AddDate(0, 0, cfg.ProposalExpiryWindowDays)) {
		return "", false
	}
	return "Propale bientôt expirée: " + d.CompanyName(), true
}

func longNegotiation(d *domain.Deal, today time.Time, cfg config.ReminderConfig) (string, bool) {
	if d.Stage != domain.StageNegotiation || !onOrBefore(d.UpdatedAt, today.AddDate(0, 0, -cfg.NegotiationMaxDays)) {
		return "", false
	}
	return "Négo qui traîne: " + d.CompanyName(), true
}

func trainingAlert(d *domain.Deal, today time.Time, cfg config.ReminderConfig) (string, bool) {
	if d.Stage != domain.StageWon {
		return "", false
	}
	date, ok := firstDate(d.Won.ConfirmedTrainingDates)
	if !ok || !within(date, today, today.AddDate(0, 0, cfg.TrainingAlertDays)) {
		return "", false
	}
	return "Alerte pré-formation: " + d.CompanyName(), true
}

func day(t time.Time) time.Time {
	y, m, dd := t.UTC().Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

func onOrBefore(t, limit time.Time) bool {
	return !day(t).After(limit)
}

func within(t, from, to time.Time) bool {
	t = day(t)
	return !t.Before(from) && !t.After(to)
}

var trainingDateLayouts = []string{"2006-01-02", "02/01/2006", time.RFC3339}

// firstDate returns the first parseable date of a free-text list such as
// "2024-03-12, 2024-03-13".
func firstDate(s string) (time.Time, bool) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\n' || r == '\t'
	})
	for _, f := range fields {
		for _, layout := range trainingDateLayouts {
			if t, err := time.Parse(layout, f); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
