package domain

import "time"

type ActivityType string

const (
	ActivityCall        ActivityType = "appel"
	ActivityEmail       ActivityType = "email"
	ActivityMeeting     ActivityType = "rdv"
	ActivityNote        ActivityType = "note"
	ActivityStageChange ActivityType = "changement_etape"
	ActivityUpdate      ActivityType = "modification"
)

// Activity is a write-once log entry attached to a deal.
type Activity struct {
	ID          string         `json:"id" gorm:"primaryKey;size:36"`
	DealID      string         `json:"deal_id" gorm:"size:36;not null;index"`
	UserID      *string        `json:"user_id,omitempty" gorm:"size:36;index"`
	Type        ActivityType   `json:"type" gorm:"size:24;not null;check:chk_activities_type,type IN ('appel','email','rdv','note','changement_etape','modification')"`
	Description string         `json:"description" gorm:"type:text;not null"`
	Metadata    map[string]any `json:"metadata,omitempty" gorm:"type:text;serializer:json"`
	CreatedAt   time.Time      `json:"created_at" gorm:"index"`

	Deal *Deal `json:"deal,omitempty" gorm:"foreignKey:DealID;constraint:OnDelete:CASCADE"`
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
}
