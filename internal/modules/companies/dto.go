package companies

import "formatech/internal/domain"

type ListQuery struct {
	Search   string `form:"search"`
	Sector   string `form:"sector"`
	Size     string `form:"size"`
	Status   string `form:"status"`
	Priority string `form:"priority"`
}

type CompanyRequest struct {
	Name                string                 `json:"name" validate:"required,max=255"`
	Siren               *string                `json:"siren" validate:"omitempty,siren"`
	Sector              domain.Sector          `json:"sector" validate:"omitempty,oneof=industrie services commerce tech finance sante public autre"`
	Size                domain.CompanySize     `json:"size" validate:"omitempty,oneof=tpe pme eti ge"`
	Address             string                 `json:"address"`
	City                string                 `json:"city"`
	PostalCode          string                 `json:"postal_code" validate:"omitempty,max=10"`
	Website             string                 `json:"website" validate:"omitempty,url"`
	EstimatedRevenue    *int64                 `json:"estimated_revenue" validate:"omitempty,min=0"`
	CollectiveAgreement string                 `json:"collective_agreement"`
	Opco                string                 `json:"opco"`
	LinkedinURL         string                 `json:"linkedin_url" validate:"omitempty,url"`
	Priority            domain.CompanyPriority `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	Status              domain.CompanyStatus   `json:"status" validate:"omitempty,oneof=IDENTIFIED RESEARCHING CONTACTED ENGAGED OPPORTUNITY CUSTOMER LOST"`
	Description         string                 `json:"description"`
	Notes               string                 `json:"notes"`
}

type CompanyDetail struct {
	domain.Company
	Contacts []domain.Contact `json:"contacts"`
	Deals    []domain.Deal    `json:"deals"`
}
