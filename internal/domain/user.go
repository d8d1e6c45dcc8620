package domain

import "time"

type UserRole string

const (
	RoleCommercial UserRole = "commercial"
	RoleManager    UserRole = "manager"
)

// User is a sales rep or a manager. Users own deals and activities.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	FirstName string    `json:"first_name" gorm:"not null"`
	LastName  string    `json:"last_name" gorm:"not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Role      UserRole  `json:"role" gorm:"size:16;not null;default:commercial;check:chk_users_role,role IN ('commercial','manager')"`
	CreatedAt time.Time `json:"created_at"`
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
