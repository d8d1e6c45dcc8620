package domain

import "time"

type EmailStatus string

const (
	EmailSent   EmailStatus = "SENT"
	EmailFailed EmailStatus = "FAILED"
)

// EmailLog records every outreach email handed to the mail provider.
type EmailLog struct {
	ID                string      `json:"id" gorm:"primaryKey;size:36"`
	ContactID         string      `json:"contact_id" gorm:"size:36;not null;index"`
	Subject           string      `json:"subject" gorm:"not null"`
	Body              string      `json:"body" gorm:"type:text;not null"`
	ProviderMessageID string      `json:"provider_message_id,omitempty"`
	Status            EmailStatus `json:"status" gorm:"size:8;not null"`
	SentAt            *time.Time  `json:"sent_at,omitempty"`
	CampaignID        string      `json:"campaign_id,omitempty" gorm:"size:64"`
	CreatedAt         time.Time   `json:"created_at"`

	Contact *Contact `json:"-" gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE"`
}

type InteractionType string

const (
	InteractionEmail    InteractionType = "EMAIL"
	InteractionLinkedin InteractionType = "LINKEDIN"
	InteractionCall     InteractionType = "CALL"
	InteractionMeeting  InteractionType = "MEETING"
	InteractionNote     InteractionType = "NOTE"
)

// Interaction is a touch point with a contact outside of the deal pipeline.
type Interaction struct {
	ID        string          `json:"id" gorm:"primaryKey;size:36"`
	ContactID string          `json:"contact_id" gorm:"size:36;not null;index"`
	Type      InteractionType `json:"type" gorm:"size:16;not null"`
	Channel   string          `json:"channel,omitempty" gorm:"size:16"`
	Subject   string          `json:"subject,omitempty"`
	Content   string          `json:"content,omitempty" gorm:"type:text"`
	CreatedAt time.Time       `json:"created_at" gorm:"index"`

	Contact *Contact `json:"-" gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE"`
}

type Whitepaper struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	FileURL     string    `json:"file_url" gorm:"not null"`
	FileName    string    `json:"file_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
