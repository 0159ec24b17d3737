package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account that owns one device's catalogs and bills. A user id maps
// one-to-one to the owner id on the remote mirror tables.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	Email        string         `gorm:"size:255;unique;not null" json:"email"`
	Password     string         `gorm:"size:255" json:"-"`
	Provider     string         `gorm:"size:50;default:'local'" json:"provider"`
	ProviderID   *string        `gorm:"size:255" json:"-"`
	AvatarURL    *string        `gorm:"size:255" json:"avatar_url,omitempty"`
	Phone        *string        `gorm:"size:50" json:"phone,omitempty"`
	BusinessName *string        `gorm:"size:255" json:"business_name,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}
