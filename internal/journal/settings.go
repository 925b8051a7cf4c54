package journal

import (
	"math"
	"time"
)

// Settings is the per-user account configuration.
type Settings struct {
	BaseAccountValue float64   `json:"base_account_value"`
	RiskPercentage   float64   `json:"risk_percentage"`
	ProfitRiskRatio  float64   `json:"profit_risk_ratio"`
	LossRiskRatio    float64   `json:"loss_risk_ratio"`
	SetupCompleted   bool      `json:"setup_completed"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// DefaultSettings are applied the first time a user's settings are read.
func DefaultSettings() Settings {
	return Settings{
		BaseAccountValue: 100000,
		RiskPercentage:   1,
		ProfitRiskRatio:  2,
		LossRiskRatio:    1,
		SetupCompleted:   false,
	}
}

// SettingsUpdate carries the settings fields to change.
// Editing the base value never rewrites past trades.
type SettingsUpdate struct {
	BaseAccountValue *float64 `json:"base_account_value,omitempty"`
	RiskPercentage   *float64 `json:"risk_percentage,omitempty"`
	ProfitRiskRatio  *float64 `json:"profit_risk_ratio,omitempty"`
	LossRiskRatio    *float64 `json:"loss_risk_ratio,omitempty"`
	SetupCompleted   *bool    `json:"setup_completed,omitempty"`
}

// Validate checks the provided fields against their allowed ranges.
func (u SettingsUpdate) Validate() error {
	if u.BaseAccountValue != nil && !positive(*u.BaseAccountValue) {
		return invalid("base_account_value", "Account value must be greater than zero")
	}
	if u.RiskPercentage != nil {
		r := *u.RiskPercentage
		if math.IsNaN(r) || r <= 0 || r > 100 {
			return invalid("risk_percentage", "Risk percentage must be between 0 and 100")
		}
	}
	if u.ProfitRiskRatio != nil && !positive(*u.ProfitRiskRatio) {
		return invalid("profit_risk_ratio", "Profit/risk ratio must be greater than zero")
	}
	if u.LossRiskRatio != nil && !positive(*u.LossRiskRatio) {
		return invalid("loss_risk_ratio", "Loss/risk ratio must be greater than zero")
	}
	return nil
}

// Apply returns s with the update applied.
func (u SettingsUpdate) Apply(s Settings) Settings {
	if u.BaseAccountValue != nil {
		s.BaseAccountValue = *u.BaseAccountValue
	}
	if u.RiskPercentage != nil {
		s.RiskPercentage = *u.RiskPercentage
	}
	if u.ProfitRiskRatio != nil {
		s.ProfitRiskRatio = *u.ProfitRiskRatio
	}
	if u.LossRiskRatio != nil {
		s.LossRiskRatio = *u.LossRiskRatio
	}
	if u.SetupCompleted != nil {
		s.SetupCompleted = *u.SetupCompleted
	}
	return s
}
