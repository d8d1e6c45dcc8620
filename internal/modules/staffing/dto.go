package staffing

import (
	"slices"
	"strings"

	"formatech/internal/domain"
)

type TrainerRequest struct {
	FirstName       string   `json:"first_name" validate:"required,max=100"`
	LastName        string   `json:"last_name" validate:"required,max=100"`
	Email           string   `json:"email" validate:"required,email"`
	Phone           string   `json:"phone" validate:"max=30"`
	Specialties     []string `json:"specialties"`
	DailyRate       *float64 `json:"daily_rate" validate:"omitempty,min=0"`
	ExperienceYears *int     `json:"experience_years" validate:"omitempty,min=0"`
	Location        string   `json:"location"`
	Notes           string   `json:"notes"`
}

type NeedRequest struct {
	Subject  string                  `json:"subject" validate:"required,max=255"`
	Client   string                  `json:"client" validate:"required,max=255"`
	Date     string                  `json:"date" validate:"required,date"`
	Duration domain.TrainingDuration `json:"duration" validate:"required,oneof=1h demi-journee journee"`
	Modality domain.Modality         `json:"modality" validate:"required,oneof=presentiel distance"`
	City     string                  `json:"city" validate:"required_if=Modality presentiel"`
	Notes    string                  `json:"notes"`
}

type AssignRequest struct {
	TrainerID string `json:"trainer_id" validate:"required"`
}

type TrainerFilter struct {
	Search    string `json:"search" form:"search"`
	Specialty string `json:"specialty" form:"specialty"`
	Location  string `json:"location" form:"location"`
}

func (f TrainerFilter) matches(t domain.Trainer) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		hit := strings.Contains(strings.ToLower(t.FirstName), q) ||
			strings.Contains(strings.ToLower(t.LastName), q) ||
			strings.Contains(strings.ToLower(t.Email), q) ||
			strings.Contains(t.Phone, q) ||
			slices.ContainsFunc(t.Specialties, func(s string) bool {
				return strings.Contains(strings.ToLower(s), q)
			})
		if !hit {
			return false
		}
	}
	if f.Specialty != "" && !slices.Contains(t.Specialties, f.Specialty) {
		return false
	}
	if f.Location != "" && t.Location != f.Location {
		return false
	}
	return true
}

type NeedFilter struct {
	Search   string `json:"search" form:"search"`
	From     string `json:"from" form:"from" validate:"omitempty,datetime=2006-01-02"`
	To       string `json:"to" form:"to" validate:"omitempty,datetime=2006-01-02"`
	Status   string `json:"status" form:"status" validate:"omitempty,oneof=en-attente affecte"`
	Modality string `json:"modality" form:"modality" validate:"omitempty,oneof=presentiel distance"`
	Client   string `json:"client" form:"client"`
}

func (f NeedFilter) matches(n domain.TrainingNeed) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		hit := strings.Contains(strings.ToLower(n.Subject), q) ||
			strings.Contains(strings.ToLower(n.Client), q) ||
			strings.Contains(strings.ToLower(n.City), q)
		if !hit {
			return false
		}
	}
	if f.From != "" && n.Date < f.From {
		return false
	}
	if f.To != "" && n.Date > f.To {
		return false
	}
	switch f.Status {
	case StatusPending:
		if n.Assigned() {
			return false
		}
	case StatusAssigned:
		if !n.Assigned() {
			return false
		}
	}
	if f.Modality != "" && string(n.Modality) != f.Modality {
		return false
	}
	if f.Client != "" && n.Client != f.Client {
		return false
	}
	return true
}
