package models

import (
	"time"

	"gorm.io/gorm"
)

// User is an account of the journal service.
type User struct {
	gorm.Model
	Email            string `gorm:"uniqueIndex;not null"`
	Name             string
	Role             string    `gorm:"not null;default:user"`
	Status           string    `gorm:"not null;default:active"`
	SubscriptionTier string    `gorm:"not null;default:free"`
	ExpiresAt        time.Time `gorm:"index"`
	AutoRenew        bool
}
