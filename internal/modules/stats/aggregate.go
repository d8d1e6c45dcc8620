package stats

import (
	"math"
	"sort"
	"time"

	"formatech/internal/domain"
	"formatech/internal/pipeline"
)

const (
	conversionWindowDays = 90
	revenueMonths        = 12
	NextToCloseLimit     = 5
)

// openStages are the stages counted in the pipeline total.
var openStages = map[domain.Stage]bool{
	domain.StageQualification: true,
	domain.StageDemo:          true,
	domain.StageProposal:      true,
	domain.StageNegotiation:   true,
}

type StageTotal struct {
	Count  int   `json:"count"`
	Amount int64 `json:"amount"`
}

type Dashboard struct {
	TotalPipeline        int64                       `json:"total_pipeline"`
	DealsByStage         map[domain.Stage]StageTotal `json:"deals_by_stage"`
	ForecastThisMonth    int64                       `json:"forecast_this_month"`
	SignedThisMonth      int64                       `json:"signed_this_month"`
	SignedLastMonth      int64                       `json:"signed_last_month"`
	ConversionRate90Days int                         `json:"conversion_rate_90_days"`
}

type MonthAmount struct {
	Month  string `json:"month"`
	Amount int64  `json:"amount"`
}

type SourceCount struct {
	Source domain.LeadSource `json:"source"`
	Count  int               `json:"count"`
}

type UserPerformance struct {
	UserID         string `json:"user_id"`
	UserName       string `json:"user_name"`
	DealsCount     int    `json:"deals_count"`
	PipelineAmount int64  `json:"pipeline_amount"`
	SignedAmount   int64  `json:"signed_amount"`
	ConversionRate int    `json:"conversion_rate"`
}

type FunnelStep struct {
	Stage  domain.Stage `json:"stage"`
	Count  int          `json:"count"`
	Amount int64        `json:"amount"`
}

type UserStats struct {
	DealsCount     int   `json:"deals_count"`
	PipelineAmount int64 `json:"pipeline_amount"`
	SignedAmount   int64 `json:"signed_amount"`
	ConversionRate int   `json:"conversion_rate"`
}

func BuildDashboard(deals []domain.Deal, now time.Time) Dashboard {
	now = now.UTC()
	thisMonth := monthKey(now)
	lastMonth := monthKey(now.AddDate(0, -1, 1-now.Day()))
	since := now.AddDate(0, 0, -conversionWindowDays)

	out := Dashboard{DealsByStage: make(map[domain.Stage]StageTotal)}
	var won, closed int
	for _, d := range deals {
		st := out.DealsByStage[d.Stage]
		st.Count++
		st.Amount += d.CurrentAmount
		out.DealsByStage[d.Stage] = st

		if openStages[d.Stage] {
			out.TotalPipeline += d.CurrentAmount
		}
		if isClosing(d) && d.ExpectedCloseDate != nil && monthKey(*d.ExpectedCloseDate) == thisMonth {
			out.ForecastThisMonth += d.CurrentAmount
		}
		if d.Stage == domain.StageWon && d.Won.SignatureDate != nil {
			switch monthKey(*d.Won.SignatureDate) {
			case thisMonth:
				out.SignedThisMonth += finalAmount(d)
			case lastMonth:
				out.SignedLastMonth += finalAmount(d)
			}
		}
		if !d.CreatedAt.Before(since) && d.IsClosed() {
			closed++
			if d.Stage == domain.StageWon {
				won++
			}
		}
	}
	out.ConversionRate90Days = percent(won, closed)
	return out
}

// MonthlyRevenue returns the signed amount of each of the last 12 months,
// oldest first, including months without any signature.
func MonthlyRevenue(deals []domain.Deal, now time.Time) []MonthAmount {
	now = now.UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(revenueMonths - 1), 0)

	out := make([]MonthAmount, revenueMonths)
	index := make(map[string]int, revenueMonths)
	for i := range out {
		key := monthKey(first.AddDate(0, i, 0))
		out[i].Month = key
		index[key] = i
	}
	for _, d := range deals {
		if d.Stage != domain.StageWon || d.Won.SignatureDate == nil {
			continue
		}
		if i, ok := index[monthKey(*d.Won.SignatureDate)]; ok {
			out[i].Amount += finalAmount(d)
		}
	}
	return out
}

func Sources(deals []domain.Deal) []SourceCount {
	counts := make(map[domain.LeadSource]int)
	for _, d := range deals {
		if d.Source != "" {
			counts[d.Source]++
		}
	}
	out := make([]SourceCount, 0, len(counts))
	for s, n := range counts {
		out = append(out, SourceCount{Source: s, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Source < out[j].Source
	})
	return out
}

// Performance lists every user, including those without deals, best signer first.
func Performance(users []domain.User, deals []domain.Deal) []UserPerformance {
	byUser := make(map[string][]domain.Deal)
	for _, d := range deals {
		byUser[d.UserID] = append(byUser[d.UserID], d)
	}

	out := make([]UserPerformance, 0, len(users))
	for _, u := range users {
		p := UserPerformance{UserID: u.ID, UserName: u.FullName()}
		var won, closed int
		for _, d := range byUser[u.ID] {
			p.DealsCount++
			switch d.Stage {
			case domain.StageWon:
				p.SignedAmount += finalAmount(d)
				won++
				closed++
			case domain.StageLost:
				closed++
			default:
				p.PipelineAmount += d.CurrentAmount
			}
		}
		p.ConversionRate = percent(won, closed)
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SignedAmount > out[j].SignedAmount })
	return out
}

func NextToClose(deals []domain.Deal, limit int) []domain.Deal {
	out := []domain.Deal{}
	for _, d := range deals {
		if isClosing(d) && d.ExpectedCloseDate != nil {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ExpectedCloseDate.Before(*out[j].ExpectedCloseDate) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Funnel counts the deals of every stage up to won. Lost deals are left out.
func Funnel(deals []domain.Deal) []FunnelStep {
	totals := make(map[domain.Stage]*FunnelStep)
	var out []FunnelStep
	for _, s := range pipeline.Order {
		out = append(out, FunnelStep{Stage: s})
	}
	for i := range out {
		totals[out[i].Stage] = &out[i]
	}
	for _, d := range deals {
		if step, ok := totals[d.Stage]; ok {
			step.Count++
			step.Amount += d.CurrentAmount
		}
	}
	return out
}

func ForUser(userID string, deals []domain.Deal, now time.Time) UserStats {
	now = now.UTC()
	since := now.AddDate(0, 0, -conversionWindowDays)

	var out UserStats
	var won, closed int
	for _, d := range deals {
		if d.UserID != userID {
			continue
		}
		if !d.IsClosed() {
			out.DealsCount++
		}
		if openStages[d.Stage] {
			out.PipelineAmount += d.CurrentAmount
		}
		switch d.Stage {
		case domain.StageWon:
			if d.Won.SignatureDate == nil {
				continue
			}
			if d.Won.SignatureDate.UTC().Year() == now.Year() {
				out.SignedAmount += finalAmount(d)
			}
			if !d.Won.SignatureDate.Before(since) {
				won++
				closed++
			}
		case domain.StageLost:
			if d.Lost.Reason != "" {
				closed++
			}
		}
	}
	out.ConversionRate = percent(won, closed)
	return out
}

func isClosing(d domain.Deal) bool {
	return d.Stage == domain.StageProposal || d.Stage == domain.StageNegotiation
}

func finalAmount(d domain.Deal) int64 {
	if d.Won.FinalAmount == nil {
		return 0
	}
	return *d.Won.FinalAmount
}

func monthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(total) * 100))
}
