package domain

import "time"

type ReminderType string

const (
	ReminderLeadToQualify    ReminderType = "lead_a_qualifier"
	ReminderColdLead         ReminderType = "lead_froid"
	ReminderDormantDeal      ReminderType = "deal_dormant"
	ReminderProposalFollowUp ReminderType = "relance_propale"
	ReminderProposalExpiring ReminderType = "propale_expiree"
	ReminderLongNegotiation  ReminderType = "nego_longue"
	ReminderTrainingAlert    ReminderType = "alerte_formation"
)

// Reminder is an advisory alert produced by the reminder rules.
// There is at most one row per (deal, type).
type Reminder struct {
	ID        string       `json:"id" gorm:"primaryKey;size:36"`
	DealID    string       `json:"deal_id" gorm:"size:36;not null;uniqueIndex:idx_reminders_deal_type"`
	Type      ReminderType `json:"type" gorm:"size:24;not null;uniqueIndex:idx_reminders_deal_type;check:chk_reminders_type,type IN ('lead_a_qualifier','lead_froid','deal_dormant','relance_propale','propale_expiree','nego_longue','alerte_formation')"`
	Message   string       `json:"message" gorm:"type:text;not null"`
	IsRead    bool         `json:"is_read" gorm:"not null;default:false;index"`
	CreatedAt time.Time    `json:"created_at"`

	Deal *Deal `json:"deal,omitempty" gorm:"foreignKey:DealID;constraint:OnDelete:CASCADE"`
}
