package domain

import "time"

type Stage string

const (
	StageLeadIn        Stage = "lead_entrant"
	StageQualification Stage = "qualification"
	StageDemo          Stage = "demo_rdv"
	StageProposal      Stage = "proposition"
	StageNegotiation   Stage = "negociation"
	StageWon           Stage = "gagne"
	StageLost          Stage = "perdu"
)

type LeadSource string

const (
	SourceWebsite     LeadSource = "site_web"
	SourceLinkedin    LeadSource = "linkedin"
	SourceReferral    LeadSource = "recommandation"
	SourceTradeShow   LeadSource = "salon"
	SourceInboundCall LeadSource = "appel_entrant"
	SourceOther       LeadSource = "autre"
)

type OfferType string

const (
	OfferStarter    OfferType = "starter"
	OfferAdvanced   OfferType = "advanced"
	OfferEnterprise OfferType = "enterprise"
)

// Qualification holds the scoring inputs captured while qualifying a lead.
// Columns are prefixed with qual_.
type Qualification struct {
	BudgetIdentified        int    `json:"budget_identified" gorm:"not null;default:0"`
	DecisionMakerIdentified int    `json:"decision_maker_identified" gorm:"not null;default:0"`
	Timing                  string `json:"timing,omitempty" gorm:"size:16"`
	TimingScore             int    `json:"timing_score" gorm:"not null;default:0"`
	RealNeedExpressed       int    `json:"real_need_expressed" gorm:"not null;default:0"`
	CompanySize             string `json:"company_size,omitempty" gorm:"size:8"`
	CompanySizeScore        int    `json:"company_size_score" gorm:"not null;default:0"`
	TotalScore              int    `json:"total_score" gorm:"not null;default:0"`
}

// Demo is the discovery meeting report. Columns are prefixed with demo_.
type Demo struct {
	Date                 *time.Time `json:"date,omitempty"`
	Participants         string     `json:"participants,omitempty" gorm:"type:text"`
	Duration             *int       `json:"duration,omitempty"`
	ClientContext        string     `json:"client_context,omitempty" gorm:"type:text"`
	NeedsExpressed       string     `json:"needs_expressed,omitempty" gorm:"type:text"`
	ObjectionsRaised     string     `json:"objections_raised,omitempty" gorm:"type:text"`
	NextSteps            string     `json:"next_steps,omitempty" gorm:"type:text"`
	DecisionMakerPresent bool       `json:"decision_maker_present"`
}

// Proposal holds the commercial offer terms. Columns are prefixed with prop_.
type Proposal struct {
	SentDate          *time.Time `json:"sent_date,omitempty"`
	OfferType         OfferType  `json:"offer_type,omitempty" gorm:"size:16"`
	Amount            *int64     `json:"amount,omitempty"`
	ParticipantsCount *int       `json:"participants_count,omitempty"`
	ProposedDates     string     `json:"proposed_dates,omitempty" gorm:"type:text"`
	ValidityDays      int        `json:"validity_days" gorm:"not null;default:30"`
	PdfPath           string     `json:"pdf_path,omitempty"`
}

type NegotiationEntry struct {
	ID      string    `json:"id"`
	Date    time.Time `json:"date"`
	Content string    `json:"content"`
}

// Negotiation holds the negotiation log and the revised amount.
// Columns are prefixed with nego_.
type Negotiation struct {
	Entries         []NegotiationEntry `json:"entries" gorm:"type:text;serializer:json"`
	RevisedAmount   *int64             `json:"revised_amount,omitempty"`
	DiscountPercent float64            `json:"discount_percent"`
	DiscountReason  string             `json:"discount_reason,omitempty" gorm:"type:text"`
}

// Won holds the signed deal terms. Columns are prefixed with won_.
type Won struct {
	SignatureDate          *time.Time `json:"signature_date,omitempty"`
	FinalAmount            *int64     `json:"final_amount,omitempty"`
	PaymentMode            string     `json:"payment_mode,omitempty"`
	PaymentTerms           string     `json:"payment_terms,omitempty"`
	PurchaseOrderNumber    string     `json:"purchase_order_number,omitempty"`
	ConfirmedTrainingDates string     `json:"confirmed_training_dates,omitempty" gorm:"type:text"`
}

// Lost holds the loss report. Columns are prefixed with lost_.
type Lost struct {
	Reason             string `json:"reason,omitempty"`
	CompetitorName     string `json:"competitor_name,omitempty"`
	OtherReason        string `json:"other_reason,omitempty" gorm:"type:text"`
	RecontactIn6Months bool   `json:"recontact_in_6_months" gorm:"column:recontact_in_6_months"`
	LessonsLearned     string `json:"lessons_learned,omitempty" gorm:"type:text"`
}

// Deal is a sales opportunity moving through the pipeline.
// Stage payloads are kept once filled, even after the deal moves on.
type Deal struct {
	ID        string `json:"id" gorm:"primaryKey;size:36"`
	CompanyID string `json:"company_id" gorm:"size:36;not null;index"`
	ContactID string `json:"contact_id" gorm:"size:36;not null;index"`
	UserID    string `json:"user_id" gorm:"size:36;not null;index"`
	Stage     Stage  `json:"stage" gorm:"size:16;not null;default:lead_entrant;index;check:chk_deals_stage,stage IN ('lead_entrant','qualification','demo_rdv','proposition','negociation','gagne','perdu')"`

	Source           LeadSource `json:"source,omitempty" gorm:"size:16"`
	SourceDetails    string     `json:"source_details,omitempty" gorm:"type:text"`
	HowDidTheyFindUs string     `json:"how_did_they_find_us,omitempty" gorm:"type:text"`
	EntryDate        time.Time  `json:"entry_date"`

	Qualification Qualification `json:"qualification" gorm:"embedded;embeddedPrefix:qual_"`
	Demo          Demo          `json:"demo" gorm:"embedded;embeddedPrefix:demo_"`
	Proposal      Proposal      `json:"proposal" gorm:"embedded;embeddedPrefix:prop_"`
	Negotiation   Negotiation   `json:"negotiation" gorm:"embedded;embeddedPrefix:nego_"`
	Won           Won           `json:"won" gorm:"embedded;embeddedPrefix:won_"`
	Lost          Lost          `json:"lost" gorm:"embedded;embeddedPrefix:lost_"`

	CurrentAmount     int64      `json:"current_amount" gorm:"not null;default:0"`
	ExpectedCloseDate *time.Time `json:"expected_close_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	LastActivityAt    time.Time  `json:"last_activity_at" gorm:"index"`

	Company *Company `json:"company,omitempty" gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
	Contact *Contact `json:"contact,omitempty" gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE"`
	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (d Deal) CompanyName() string {
	if d.Company == nil {
		return ""
	}
	return d.Company.Name
}

func (d Deal) IsClosed() bool {
	return d.Stage == StageWon || d.Stage == StageLost
}
