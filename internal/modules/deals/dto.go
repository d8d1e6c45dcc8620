package deals

import "formatech/internal/domain"

type ListDealsQuery struct {
	Stage     string `form:"stage"`
	UserID    string `form:"user_id"`
	CompanyID string `form:"company_id"`
	Source    string `form:"source"`
	OfferType string `form:"offer_type"`
	Search    string `form:"search"`
	StartDate string `form:"start_date" validate:"omitempty,date"`
	EndDate   string `form:"end_date" validate:"omitempty,date"`
}

type CreateDealRequest struct {
	CompanyID         string            `json:"company_id" validate:"required"`
	ContactID         string            `json:"contact_id" validate:"required"`
	UserID            string            `json:"user_id" validate:"required"`
	Source            domain.LeadSource `json:"source" validate:"omitempty,oneof=site_web linkedin recommandation salon appel_entrant autre"`
	SourceDetails     string            `json:"source_details"`
	HowDidTheyFindUs  string            `json:"how_did_they_find_us"`
	EntryDate         *string           `json:"entry_date" validate:"omitempty,date"`
	ExpectedCloseDate *string           `json:"expected_close_date" validate:"omitempty,date"`
}

// UpdateDealRequest only touches the fields that are present.
type UpdateDealRequest struct {
	CompanyID         *string            `json:"company_id" validate:"omitempty,min=1"`
	ContactID         *string            `json:"contact_id" validate:"omitempty,min=1"`
	UserID            *string            `json:"user_id" validate:"omitempty,min=1"`
	Source            *domain.LeadSource `json:"source" validate:"omitempty,oneof=site_web linkedin recommandation salon appel_entrant autre"`
	SourceDetails     *string            `json:"source_details"`
	HowDidTheyFindUs  *string            `json:"how_did_they_find_us"`
	ExpectedCloseDate *string            `json:"expected_close_date" validate:"omitempty,date"`
}

// ChangeStageRequest takes either a target stage (which must be adjacent)
// or a direction.
type ChangeStageRequest struct {
	Stage     string  `json:"stage" validate:"required_without=Direction"`
	Direction string  `json:"direction" validate:"omitempty,oneof=advance retreat"`
	UserID    *string `json:"user_id"`
}

type QualificationRequest struct {
	BudgetIdentified        int     `json:"qual_budget_identified" validate:"min=1,max=5"`
	DecisionMakerIdentified int     `json:"qual_decision_maker_identified" validate:"min=1,max=5"`
	Timing                  string  `json:"qual_timing"`
	RealNeedExpressed       int     `json:"qual_real_need_expressed" validate:"min=1,max=5"`
	CompanySize             string  `json:"qual_company_size"`
	UserID                  *string `json:"user_id"`
}

type DemoRequest struct {
	Date                 *string `json:"demo_date" validate:"omitempty,date"`
	Participants         string  `json:"demo_participants"`
	Duration             *int    `json:"demo_duration" validate:"omitempty,min=0"`
	ClientContext        string  `json:"demo_client_context"`
	NeedsExpressed       string  `json:"demo_needs_expressed"`
	ObjectionsRaised     string  `json:"demo_objections_raised"`
	NextSteps            string  `json:"demo_next_steps"`
	DecisionMakerPresent bool    `json:"demo_decision_maker_present"`
	UserID               *string `json:"user_id"`
}

type ProposalRequest struct {
	SentDate          *string          `json:"prop_sent_date" validate:"omitempty,date"`
	OfferType         domain.OfferType `json:"prop_offer_type" validate:"omitempty,oneof=starter advanced enterprise"`
	Amount            *int64           `json:"prop_amount" validate:"omitempty,min=0"`
	ParticipantsCount *int             `json:"prop_participants_count" validate:"omitempty,min=0"`
	ProposedDates     string           `json:"prop_proposed_dates"`
	ValidityDays      int              `json:"prop_validity_days" validate:"min=0"`
	PdfPath           string           `json:"prop_pdf_path"`
	UserID            *string          `json:"user_id"`
}

type NegotiationAmountRequest struct {
	RevisedAmount  *int64  `json:"nego_revised_amount" validate:"required,min=0"`
	DiscountReason string  `json:"nego_discount_reason"`
	UserID         *string `json:"user_id"`
}

type NegotiationEntryRequest struct {
	Content string  `json:"content" validate:"required"`
	UserID  *string `json:"user_id"`
}

type WonRequest struct {
	SignatureDate          *string `json:"won_signature_date" validate:"omitempty,date"`
	FinalAmount            *int64  `json:"won_final_amount" validate:"omitempty,min=0"`
	PaymentMode            string  `json:"won_payment_mode"`
	PaymentTerms           string  `json:"won_payment_terms"`
	PurchaseOrderNumber    string  `json:"won_purchase_order_number"`
	ConfirmedTrainingDates string  `json:"won_confirmed_training_dates"`
	UserID                 *string `json:"user_id"`
}

type LostRequest struct {
	Reason             string  `json:"lost_reason" validate:"required"`
	CompetitorName     string  `json:"lost_competitor_name"`
	OtherReason        string  `json:"lost_other_reason"`
	RecontactIn6Months bool    `json:"lost_recontact_in_6_months"`
	LessonsLearned     string  `json:"lost_lessons_learned"`
	UserID             *string `json:"user_id"`
}

// DealDetail is a deal with its timeline and the contacts of its company.
type DealDetail struct {
	domain.Deal
	Activities      []domain.Activity `json:"activities"`
	CompanyContacts []domain.Contact  `json:"company_contacts"`
}
