package models

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether the role is one of the closed set of roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

type User struct {
	ID             uint64    `gorm:"primarykey" json:"id"`
	Username       string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	PasswordHash   string    `gorm:"type:varchar(255);not null" json:"-"`
	Role           Role      `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	OrganizationID *uint64   `json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`

	// Relations
	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Tasks        []Task        `gorm:"foreignKey:UserID" json:"-"`
}
