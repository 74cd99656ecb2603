package models

import "time"

type Organization struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Users []User `gorm:"foreignKey:OrganizationID" json:"users,omitempty"`
}
