package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile is a registered marketplace user. It is keyed by the same
// identifier that appears in session tokens and as a product's owner.
type Profile struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:320;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Name         string    `gorm:"size:200;not null" json:"name"`
	Location     string    `gorm:"size:200" json:"location,omitempty"`
	Role         Role      `gorm:"size:16;not null" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (p *Profile) TableName() string {
	return "profiles"
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Session returns the actor identity carried through fetches and mutations.
func (p *Profile) Session() Session {
	return Session{UserID: p.ID, Name: p.Name, Role: p.Role}
}
