package contacts

import "formatech/internal/domain"

type ListQuery struct {
	Search          string `form:"search"`
	CompanyID       string `form:"company_id"`
	IsDecisionMaker string `form:"is_decision_maker"`
	Status          string `form:"status"`
}

type ContactRequest struct {
	Civility        domain.Civility      `json:"civility" validate:"omitempty,oneof=M. Mme"`
	FirstName       string               `json:"first_name" validate:"required,max=100"`
	LastName        string               `json:"last_name" validate:"required,max=100"`
	Function        string               `json:"function"`
	Email           string               `json:"email" validate:"omitempty,email"`
	PhoneFixed      string               `json:"phone_fixed"`
	PhoneMobile     string               `json:"phone_mobile"`
	LinkedinURL     string               `json:"linkedin_url" validate:"omitempty,url"`
	IsDecisionMaker domain.DecisionMaker `json:"is_decision_maker" validate:"omitempty,oneof=oui non a_confirmer"`
	IsSignatory     bool                 `json:"is_signatory"`
	CompanyID       *string              `json:"company_id"`
	Notes           string               `json:"notes"`
	Status          domain.ContactStatus `json:"status" validate:"omitempty,oneof=NEW RESEARCHING TO_CONTACT CONTACTED RESPONDED MEETING QUALIFIED NOT_INTERESTED"`
}

type ContactDetail struct {
	domain.Contact
	Activities []domain.Activity `json:"activities"`
}
