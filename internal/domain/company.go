package domain

import "time"

type Sector string

const (
	SectorIndustry Sector = "industrie"
	SectorServices Sector = "services"
	SectorCommerce Sector = "commerce"
	SectorTech     Sector = "tech"
	SectorFinance  Sector = "finance"
	SectorHealth   Sector = "sante"
	SectorPublic   Sector = "public"
	SectorOther    Sector = "autre"
)

type CompanySize string

const (
	SizeVerySmall CompanySize = "tpe"
	SizeSmall     CompanySize = "pme"
	SizeMedium    CompanySize = "eti"
	SizeLarge     CompanySize = "ge"
)

type CompanyPriority string

const (
	PriorityLow      CompanyPriority = "LOW"
	PriorityMedium   CompanyPriority = "MEDIUM"
	PriorityHigh     CompanyPriority = "HIGH"
	PriorityCritical CompanyPriority = "CRITICAL"
)

// CompanyStatus tracks an account through the ABM funnel.
type CompanyStatus string

const (
	CompanyIdentified  CompanyStatus = "IDENTIFIED"
	CompanyResearching CompanyStatus = "RESEARCHING"
	CompanyContacted   CompanyStatus = "CONTACTED"
	CompanyEngaged     CompanyStatus = "ENGAGED"
	CompanyOpportunity CompanyStatus = "OPPORTUNITY"
	CompanyCustomer    CompanyStatus = "CUSTOMER"
	CompanyLost        CompanyStatus = "LOST"
)

type Company struct {
	ID                  string          `json:"id" gorm:"primaryKey;size:36"`
	Name                string          `json:"name" gorm:"not null;index"`
	Siren               *string         `json:"siren,omitempty" gorm:"uniqueIndex;size:9"`
	Sector              Sector          `json:"sector,omitempty" gorm:"size:32"`
	Size                CompanySize     `json:"size,omitempty" gorm:"size:8"`
	Address             string          `json:"address,omitempty"`
	City                string          `json:"city,omitempty"`
	PostalCode          string          `json:"postal_code,omitempty"`
	Website             string          `json:"website,omitempty"`
	EstimatedRevenue    *int64          `json:"estimated_revenue,omitempty"`
	CollectiveAgreement string          `json:"collective_agreement,omitempty"`
	Opco                string          `json:"opco,omitempty"`
	LinkedinURL         string          `json:"linkedin_url,omitempty"`
	Priority            CompanyPriority `json:"priority" gorm:"size:16;not null;default:MEDIUM"`
	Status              CompanyStatus   `json:"status" gorm:"size:16;not null;default:IDENTIFIED"`
	Description         string          `json:"description,omitempty" gorm:"type:text"`
	Notes               string          `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

func (c Company) SirenValue() string {
	if c.Siren == nil {
		return ""
	}
	return *c.Siren
}
