package models

import "gorm.io/gorm"

// Settings holds one user's account parameters.
// There should only ever be one row per user.
type Settings struct {
	gorm.Model
	UserID           uint    `gorm:"uniqueIndex;not null"`
	BaseAccountValue float64 `gorm:"not null"`
	RiskPercentage   float64 `gorm:"not null"`
	ProfitRiskRatio  float64 `gorm:"not null"`
	LossRiskRatio    float64 `gorm:"not null"`
	SetupCompleted   bool    `gorm:"default:false"`
}
