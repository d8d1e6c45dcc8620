package pipeline

import (
	"errors"
	"fmt"
	"math"

	"formatech/internal/domain"
)

var ErrScoreOutOfRange = errors.New("score out of range")

const (
	MinSubScore = 1
	MaxSubScore = 5
)

var timingScores = map[string]int{
	"moins_3_mois": 5,
	"3_6_mois":     4,
	"plus_6_mois":  2,
	"flou":         1,
}

var sizeScores = map[string]int{
	string(domain.SizeLarge):     5,
	string(domain.SizeMedium):    4,
	string(domain.SizeSmall):     3,
	string(domain.SizeVerySmall): 2,
}

// TimingScore maps the expected project timing to a score. Unknown timings score 1.
func TimingScore(timing string) int {
	if s, ok := timingScores[timing]; ok {
		return s
	}
	return 1
}

// CompanySizeScore maps a company size to a score. Unknown sizes score 2.
func CompanySizeScore(size string) int {
	if s, ok := sizeScores[size]; ok {
		return s
	}
	return 2
}

type QualificationInput struct {
	BudgetIdentified        int
	DecisionMakerIdentified int
	Timing                  string
	RealNeedExpressed       int
	CompanySize             string
}

// Qualify validates the raw inputs and computes every derived score.
func Qualify(in QualificationInput) (domain.Qualification, error) {
	raw := map[string]int{
		"budget_identified":         in.BudgetIdentified,
		"decision_maker_identified": in.DecisionMakerIdentified,
		"real_need_expressed":       in.RealNeedExpressed,
	}
	for name, v := range raw {
		if v < MinSubScore || v > MaxSubScore {
			return domain.Qualification{}, fmt.Errorf("%w: %s=%d", ErrScoreOutOfRange, name, v)
		}
	}

	q := domain.Qualification{
		BudgetIdentified:        in.BudgetIdentified,
		DecisionMakerIdentified: in.DecisionMakerIdentified,
		Timing:                  in.Timing,
		TimingScore:             TimingScore(in.Timing),
		RealNeedExpressed:       in.RealNeedExpressed,
		CompanySize:             in.CompanySize,
		CompanySizeScore:        CompanySizeScore(in.CompanySize),
	}
	q.TotalScore = TotalScore(q)
	return q, nil
}

func TotalScore(q domain.Qualification) int {
	return q.BudgetIdentified + q.DecisionMakerIdentified + q.TimingScore + q.RealNeedExpressed + q.CompanySizeScore
}

// DiscountPercent is the rebate granted on the proposal, rounded to one decimal.
func DiscountPercent(proposed, revised *int64) float64 {
	if proposed == nil || *proposed == 0 || revised == nil {
		return 0
	}
	p := float64(*proposed)
	pct := (p - float64(*revised)) / p * 100
	return math.Floor(pct*10+0.5) / 10
}

// CurrentAmount returns the best known value of the deal.
func CurrentAmount(d *domain.Deal) int64 {
	switch {
	case d.Stage == domain.StageWon && d.Won.FinalAmount != nil:
		return *d.Won.FinalAmount
	case d.Negotiation.RevisedAmount != nil:
		return *d.Negotiation.RevisedAmount
	case d.Proposal.Amount != nil:
		return *d.Proposal.Amount
	default:
		return 0
	}
}
