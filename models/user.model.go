package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleStudent  = "STUDENT"
	RoleEducator = "EDUCATOR"
	RoleAdmin    = "ADMIN"
)

// User is a local account or a webhook mirror of an identity-provider user.
// Email and ExternalID are nullable so the unique indexes never collide on
// rows that legitimately lack one of them: mirrors can arrive without an
// email address, and locally registered users have no external id.
type User struct {
	gorm.Model
	Name       string  `json:"name" gorm:"default:''"`
	Email      *string `json:"email" gorm:"uniqueIndex"`
	Password   string  `json:"-" gorm:"default:''"`
	Role       string  `json:"role" gorm:"default:'STUDENT'"` // STUDENT, EDUCATOR, ADMIN
	ImageURL   string  `json:"image_url" gorm:"default:''"`
	ExternalID *string `json:"external_id" gorm:"uniqueIndex"` // Identity-provider user id for webhook mirrors
	LastLogin  *time.Time

	PasswordResetToken   string     `json:"-" gorm:"index;default:''"` // sha256 of the emailed token
	PasswordResetExpires *time.Time `json:"-"`

	IsDeleted bool `json:"-" gorm:"default:false"`
}
