package models

import "gorm.io/gorm"

// Position is a journal trade row. A nil ExitPrice means the position is still open.
type Position struct {
	gorm.Model
	UserID       uint     `gorm:"index;not null"`
	Symbol       string   `gorm:"index;not null"`
	Side         string   `gorm:"not null;default:long"`
	Quantity     float64  `gorm:"not null"`
	EntryPrice   float64  `gorm:"not null"`
	CurrentPrice float64  `gorm:"not null"`
	ExitPrice    *float64 `gorm:"default:null"`
	StopLoss     float64  `gorm:"not null"`
	TakeProfit   float64  `gorm:"not null"`
}
