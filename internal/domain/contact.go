package domain

import "time"

type Civility string

const (
	CivilityMr  Civility = "M."
	CivilityMrs Civility = "Mme"
)

// DecisionMaker is a tri-state: yes, no or not confirmed yet.
type DecisionMaker string

const (
	DecisionMakerYes         DecisionMaker = "oui"
	DecisionMakerNo          DecisionMaker = "non"
	DecisionMakerUnconfirmed DecisionMaker = "a_confirmer"
)

type ContactStatus string

const (
	ContactNew           ContactStatus = "NEW"
	ContactResearching   ContactStatus = "RESEARCHING"
	ContactToContact     ContactStatus = "TO_CONTACT"
	ContactContacted     ContactStatus = "CONTACTED"
	ContactResponded     ContactStatus = "RESPONDED"
	ContactMeeting       ContactStatus = "MEETING"
	ContactQualified     ContactStatus = "QUALIFIED"
	ContactNotInterested ContactStatus = "NOT_INTERESTED"
)

type Contact struct {
	ID              string        `json:"id" gorm:"primaryKey;size:36"`
	Civility        Civility      `json:"civility,omitempty" gorm:"size:4"`
	FirstName       string        `json:"first_name" gorm:"not null"`
	LastName        string        `json:"last_name" gorm:"not null"`
	Function        string        `json:"function,omitempty"`
	Email           string        `json:"email,omitempty" gorm:"index"`
	PhoneFixed      string        `json:"phone_fixed,omitempty"`
	PhoneMobile     string        `json:"phone_mobile,omitempty"`
	LinkedinURL     string        `json:"linkedin_url,omitempty"`
	IsDecisionMaker DecisionMaker `json:"is_decision_maker" gorm:"size:16;not null;default:a_confirmer;check:chk_contacts_decision_maker,is_decision_maker IN ('oui','non','a_confirmer')"`
	IsSignatory     bool          `json:"is_signatory" gorm:"not null;default:false"`
	CompanyID       *string       `json:"company_id,omitempty" gorm:"size:36;index"`
	Notes           string        `json:"notes,omitempty" gorm:"type:text"`
	Status          ContactStatus `json:"status" gorm:"size:16;not null;default:NEW"`
	EngagementScore int           `json:"engagement_score" gorm:"not null;default:0"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	Company *Company `json:"company,omitempty" gorm:"foreignKey:CompanyID;constraint:OnDelete:SET NULL"`
}

func (c Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}
