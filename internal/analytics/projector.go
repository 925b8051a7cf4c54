package analytics

import (
	"math"
	"sort"

	"trading-journal-go/internal/journal"
)

const (
	StartLabel   = "Start"
	CurrentLabel = "Current"

	dayLayout = "2006-01-02"

	// currentTolerance absorbs summation-order drift between the series and the
	// separately computed current value.
	currentTolerance = 1e-6
)

// ValuePoint is one point of the account value series.
type ValuePoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Domain is the vertical display range of a series, centred on the base value.
type Domain struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ValueSeries is the running account value, one point per charted trade.
type ValueSeries struct {
	Points []ValuePoint `json:"points"`
	Domain Domain       `json:"domain"`
}

// ProjectValueSeries builds the running account value starting at base.
// Trades without a creation time or with a non-finite P&L are not charted.
// When current differs from the last point a final "Current" point is added
// so the series always ends at the true account value.
func ProjectValueSeries(trades []journal.Trade, base, current float64) ValueSeries {
	type charted struct {
		trade journal.Trade
		pnl   PnLResult
	}

	var rows []charted
	for _, t := range trades {
		if t.CreatedAt.IsZero() {
			continue
		}
		pnl, ok := computePnL(t)
		if !ok {
			continue
		}
		rows = append(rows, charted{trade: t, pnl: pnl})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].trade.CreatedAt.Before(rows[j].trade.CreatedAt)
	})

	points := make([]ValuePoint, 0, len(rows)+2)
	points = append(points, ValuePoint{Label: StartLabel, Value: base})
	running := base
	for _, r := range rows {
		next := running + r.pnl.Amount
		if !finite(next) {
			continue
		}
		running = next
		points = append(points, ValuePoint{Label: r.trade.CreatedAt.Format(dayLayout), Value: running})
	}

	if finite(current) && math.Abs(current-running) > currentTolerance {
		points = append(points, ValuePoint{Label: CurrentLabel, Value: current})
	}

	return ValueSeries{Points: points, Domain: domainAround(base, points)}
}

// domainAround returns base ± the largest excursion, widened to whole hundreds.
func domainAround(base float64, points []ValuePoint) Domain {
	if !finite(base) || len(points) == 0 {
		return Domain{}
	}
	maxV, minV := math.Inf(-1), math.Inf(1)
	for _, p := range points {
		maxV = math.Max(maxV, p.Value)
		minV = math.Min(minV, p.Value)
	}
	rng := math.Max(math.Abs(maxV-base), math.Abs(base-minV))
	d := Domain{
		Min: math.Floor((base-rng)/100) * 100,
		Max: math.Ceil((base+rng)/100) * 100,
	}
	if !finite(d.Min) || !finite(d.Max) {
		return Domain{}
	}
	return d
}
