package pipeline

import (
	"fmt"
	"strconv"
	"time"

	"formatech/internal/domain"
)

const DefaultValidityDays = 30

// Event is the activity to append once a mutation has been applied.
type Event struct {
	Type        domain.ActivityType
	Description string
	Metadata    map[string]any
}

func stageEvent(from, to domain.Stage) Event {
	return Event{
		Type:        domain.ActivityStageChange,
		Description: fmt.Sprintf("Étape changée: %s → %s", from, to),
		Metadata:    map[string]any{"from": string(from), "to": string(to)},
	}
}

func Advance(d *domain.Deal) (Event, error) {
	next, err := Next(d.Stage)
	if err != nil {
		return Event{}, err
	}
	from := d.Stage
	d.Stage = next
	return stageEvent(from, next), nil
}

func Retreat(d *domain.Deal) (Event, error) {
	prev, err := Previous(d.Stage)
	if err != nil {
		return Event{}, err
	}
	from := d.Stage
	d.Stage = prev
	return stageEvent(from, prev), nil
}

// ChangeStage moves the deal to an adjacent stage.
func ChangeStage(d *domain.Deal, to domain.Stage) (Event, error) {
	if err := Move(d.Stage, to); err != nil {
		return Event{}, err
	}
	from := d.Stage
	d.Stage = to
	return stageEvent(from, to), nil
}

func ApplyQualification(d *domain.Deal, in QualificationInput) (Event, error) {
	q, err := Qualify(in)
	if err != nil {
		return Event{}, err
	}
	d.Qualification = q
	d.CurrentAmount = CurrentAmount(d)
	return Event{
		Type:        domain.ActivityUpdate,
		Description: fmt.Sprintf("Qualification mise à jour - Score: %d/25", q.TotalScore),
		Metadata:    map[string]any{"total_score": q.TotalScore},
	}, nil
}

func ApplyDemo(d *domain.Deal, demo domain.Demo) Event {
	d.Demo = demo
	d.CurrentAmount = CurrentAmount(d)
	date := ""
	if demo.Date != nil {
		date = demo.Date.Format(time.DateOnly)
	}
	return Event{
		Type:        domain.ActivityMeeting,
		Description: fmt.Sprintf("RDV découverte du %s enregistré", date),
	}
}

func ApplyProposal(d *domain.Deal, p domain.Proposal) Event {
	if p.ValidityDays <= 0 {
		p.ValidityDays = DefaultValidityDays
	}
	d.Proposal = p
	d.Negotiation.DiscountPercent = DiscountPercent(p.Amount, d.Negotiation.RevisedAmount)
	d.CurrentAmount = CurrentAmount(d)
	return Event{
		Type:        domain.ActivityEmail,
		Description: fmt.Sprintf("Proposition %s envoyée: %s€ HT", p.OfferType, amountString(p.Amount)),
		Metadata:    map[string]any{"offer_type": string(p.OfferType), "amount": p.Amount},
	}
}

func ApplyNegotiationAmount(d *domain.Deal, revised int64, reason string) Event {
	d.Negotiation.RevisedAmount = &revised
	d.Negotiation.DiscountReason = reason
	d.Negotiation.DiscountPercent = DiscountPercent(d.Proposal.Amount, d.Negotiation.RevisedAmount)
	d.CurrentAmount = CurrentAmount(d)
	return Event{
		Type: domain.ActivityUpdate,
		Description: fmt.Sprintf("Montant révisé: %d€ (-%s%%)", revised,
			strconv.FormatFloat(d.Negotiation.DiscountPercent, 'f', -1, 64)),
		Metadata: map[string]any{"revised_amount": revised, "discount_percent": d.Negotiation.DiscountPercent},
	}
}

func AddNegotiationEntry(d *domain.Deal, e domain.NegotiationEntry) Event {
	d.Negotiation.Entries = append(d.Negotiation.Entries, e)
	return Event{
		Type:        domain.ActivityNote,
		Description: "Note négociation: " + truncate(e.Content, 50),
		Metadata:    map[string]any{"entry_id": e.ID},
	}
}

// MarkWon closes the deal as won from any stage.
func MarkWon(d *domain.Deal, w domain.Won) Event {
	from := d.Stage
	d.Stage = domain.StageWon
	d.Won = w
	d.CurrentAmount = CurrentAmount(d)
	return Event{
		Type:        domain.ActivityStageChange,
		Description: fmt.Sprintf("Deal GAGNÉ! Montant: %s€ HT", amountString(w.FinalAmount)),
		Metadata:    map[string]any{"from": string(from), "to": string(domain.StageWon)},
	}
}

// MarkLost closes the deal as lost from any stage. The current amount is kept.
func MarkLost(d *domain.Deal, l domain.Lost) Event {
	from := d.Stage
	d.Stage = domain.StageLost
	d.Lost = l
	return Event{
		Type:        domain.ActivityStageChange,
		Description: "Deal PERDU - Raison: " + l.Reason,
		Metadata:    map[string]any{"from": string(from), "to": string(domain.StageLost)},
	}
}

func amountString(v *int64) string {
	if v == nil {
		return "0"
	}
	return strconv.FormatInt(*v, 10)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
