package analytics

import (
	"math"

	"trading-journal-go/internal/journal"
)

// RiskCategory is the band a trade's risk percent falls in.
type RiskCategory string

const (
	LowRisk    RiskCategory = "low"
	MediumRisk RiskCategory = "medium"
	HighRisk   RiskCategory = "high"
)

// Category thresholds, in percent of position value.
const (
	lowRiskMax    = 1.0
	mediumRiskMax = 2.0
)

// TradeRisk is the planned risk of one trade.
type TradeRisk struct {
	RiskAmount    float64      `json:"risk_amount"`
	PositionValue float64      `json:"position_value"`
	RiskPercent   float64      `json:"risk_percent"`
	Category      RiskCategory `json:"category"`
}

// RiskReport aggregates risk over a set of trades.
type RiskReport struct {
	AvgRiskPerTrade float64      `json:"avg_risk_per_trade"`
	PortfolioHeat   float64      `json:"portfolio_heat"`
	LowRisk         float64      `json:"low_risk"`
	MediumRisk      float64      `json:"medium_risk"`
	HighRisk        float64      `json:"high_risk"`
	Score           int          `json:"score"`
	Level           RiskCategory `json:"level,omitempty"`
	IncludedTrades  int          `json:"included_trades"`
}

// CategorizeRisk maps a risk percent onto its band.
func CategorizeRisk(riskPercent float64) RiskCategory {
	switch {
	case riskPercent <= lowRiskMax:
		return LowRisk
	case riskPercent <= mediumRiskMax:
		return MediumRisk
	default:
		return HighRisk
	}
}

// AssessRisk measures the distance from entry to stop against the position value.
// It returns false for trades without a positive, finite position value or
// whose risk percent overflows; those take no part in any risk ratio.
func AssessRisk(t journal.Trade) (TradeRisk, bool) {
	riskAmount := math.Abs(t.EntryPrice-t.StopLoss) * t.Quantity
	positionValue := t.EntryPrice * t.Quantity
	if !(positionValue > 0) || !finite(positionValue) || !finite(riskAmount) {
		return TradeRisk{}, false
	}
	pct := riskAmount / positionValue * 100
	if !finite(pct) {
		return TradeRisk{}, false
	}
	return TradeRisk{
		RiskAmount:    riskAmount,
		PositionValue: positionValue,
		RiskPercent:   pct,
		Category:      CategorizeRisk(pct),
	}, true
}

// AnalyzeRisk computes the portfolio risk report. Portfolio heat is weighted by
// position value, not by trade count. No included trades gives a zero report.
func AnalyzeRisk(trades []journal.Trade) RiskReport {
	var (
		included            int
		sumPct              float64
		totalRisk, totalVal float64
		counts              = map[RiskCategory]int{}
	)
	for _, t := range trades {
		r, ok := AssessRisk(t)
		if !ok {
			continue
		}
		included++
		sumPct += r.RiskPercent
		totalRisk += r.RiskAmount
		totalVal += r.PositionValue
		counts[r.Category]++
	}
	if included == 0 {
		return RiskReport{}
	}

	n := float64(included)
	rep := RiskReport{
		AvgRiskPerTrade: orZero(sumPct / n),
		PortfolioHeat:   orZero(totalRisk / totalVal * 100),
		LowRisk:         float64(counts[LowRisk]) / n * 100,
		MediumRisk:      float64(counts[MediumRisk]) / n * 100,
		HighRisk:        float64(counts[HighRisk]) / n * 100,
		IncludedTrades:  included,
	}
	rep.Score = int(math.Round(100 - (rep.LowRisk*0.8 + rep.MediumRisk*0.5 + rep.HighRisk*0.2)))
	rep.Level = scoreLevel(rep.Score)
	return rep
}

func scoreLevel(score int) RiskCategory {
	switch {
	case score <= 33:
		return LowRisk
	case score <= 66:
		return MediumRisk
	default:
		return HighRisk
	}
}
