package domain

type TrainingDuration string

const (
	DurationHour    TrainingDuration = "1h"
	DurationHalfDay TrainingDuration = "demi-journee"
	DurationFullDay TrainingDuration = "journee"
)

type Modality string

const (
	ModalityOnSite Modality = "presentiel"
	ModalityRemote Modality = "distance"
)

// Trainer is a freelance trainer that can be staffed on training needs.
type Trainer struct {
	ID              string   `json:"id"`
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone,omitempty"`
	Specialties     []string `json:"specialties"`
	DailyRate       *float64 `json:"daily_rate,omitempty"`
	ExperienceYears *int     `json:"experience_years,omitempty"`
	Location        string   `json:"location,omitempty"`
	Notes           string   `json:"notes,omitempty"`
}

func (t Trainer) FullName() string {
	return t.FirstName + " " + t.LastName
}

// TrainingNeed is a session a client asked for. Date is a calendar day (YYYY-MM-DD).
type TrainingNeed struct {
	ID        string           `json:"id"`
	Subject   string           `json:"subject"`
	Client    string           `json:"client"`
	Date      string           `json:"date"`
	Duration  TrainingDuration `json:"duration"`
	Modality  Modality         `json:"modality"`
	City      string           `json:"city,omitempty"`
	Notes     string           `json:"notes,omitempty"`
	TrainerID *string          `json:"trainer_id"`
}

func (n TrainingNeed) Assigned() bool {
	return n.TrainerID != nil && *n.TrainerID != ""
}
