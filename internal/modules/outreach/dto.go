package outreach

import "formatech/internal/domain"

type GenerateRequest struct {
	ContactID     string      `json:"contact_id" validate:"required"`
	MessageType   MessageKind `json:"message_type"`
	CustomContext string      `json:"custom_context" validate:"max=2000"`
}

type MessageContact struct {
	Name     string `json:"name"`
	Company  string `json:"company,omitempty"`
	Function string `json:"function,omitempty"`
}

type GeneratedMessage struct {
	Message string         `json:"message"`
	Contact MessageContact `json:"contact"`
}

type SendEmailRequest struct {
	ContactID  string `json:"contact_id" validate:"required"`
	Subject    string `json:"subject" validate:"required,max=255"`
	Body       string `json:"body" validate:"required"`
	CampaignID string `json:"campaign_id" validate:"max=64"`
}

type SentEmail struct {
	Message    string `json:"message"`
	EmailLogID string `json:"email_log_id"`
}

type EnrichRequest struct {
	CompanyID   string `json:"company_id" validate:"required"`
	CompanyName string `json:"company_name"`
}

type EnrichResult struct {
	Message         string           `json:"message"`
	TotalFound      int              `json:"total_found"`
	ContactsCreated int              `json:"contacts_created"`
	Contacts        []domain.Contact `json:"contacts"`
}
