package analytics

import (
	"fmt"
	"sort"
	"time"

	"trading-journal-go/internal/journal"
)

// TopN is how many trades the gainer and loser rankings keep.
const TopN = 5

// RankedTrade pairs a trade with its computed P&L.
type RankedTrade struct {
	Trade journal.Trade `json:"trade"`
	PnL   PnLResult     `json:"pnl"`
}

// PeriodProfit is the summed P&L of one calendar bucket.
type PeriodProfit struct {
	Period string  `json:"period"`
	Profit float64 `json:"profit"`
}

// PeriodExtremes holds the most and least profitable bucket. Either may be nil.
type PeriodExtremes struct {
	Most  *PeriodProfit `json:"most"`
	Least *PeriodProfit `json:"least"`
}

// PeriodBreakdown reports extremes per granularity.
type PeriodBreakdown struct {
	Daily   PeriodExtremes `json:"daily"`
	Weekly  PeriodExtremes `json:"weekly"`
	Monthly PeriodExtremes `json:"monthly"`
}

// Statistics summarises trading performance.
type Statistics struct {
	TotalTrades    int             `json:"total_trades"`
	WinningTrades  int             `json:"winning_trades"`
	LosingTrades   int             `json:"losing_trades"`
	WinRate        float64         `json:"win_rate"`
	AvgGain        float64         `json:"avg_gain"`
	AvgGainPercent float64         `json:"avg_gain_percent"`
	AvgLoss        float64         `json:"avg_loss"`
	ProfitFactor   float64         `json:"profit_factor"`
	TopGainers     []RankedTrade   `json:"top_gainers"`
	TopLosers      []RankedTrade   `json:"top_losers"`
	Periods        PeriodBreakdown `json:"periods"`
}

// ComputeStats derives win rate, average gain and loss, profit factor, the top
// gainers and losers and the period breakdown. Buckets use loc for calendar
// boundaries; a nil loc means time.Local.
func ComputeStats(trades []journal.Trade, loc *time.Location) Statistics {
	if loc == nil {
		loc = time.Local
	}

	ranked := make([]RankedTrade, len(trades))
	var winners, losers []RankedTrade
	for i, t := range trades {
		ranked[i] = RankedTrade{Trade: t, PnL: PnL(t)}
		switch {
		case ranked[i].PnL.Amount > 0:
			winners = append(winners, ranked[i])
		case ranked[i].PnL.Amount < 0:
			losers = append(losers, ranked[i])
		}
	}

	st := Statistics{
		TotalTrades:   len(trades),
		WinningTrades: len(winners),
		LosingTrades:  len(losers),
		TopGainers:    []RankedTrade{},
		TopLosers:     []RankedTrade{},
	}
	if st.TotalTrades > 0 {
		st.WinRate = float64(st.WinningTrades) / float64(st.TotalTrades) * 100
	}

	if len(winners) > 0 {
		var sum, sumPct float64
		for _, w := range winners {
			sum += w.PnL.Amount
			sumPct += w.PnL.Percent
		}
		st.AvgGain = orZero(sum / float64(len(winners)))
		st.AvgGainPercent = orZero(sumPct / float64(len(winners)))
	}
	if len(losers) > 0 {
		var sum float64
		for _, l := range losers {
			sum += l.PnL.Amount
		}
		st.AvgLoss = orZero(abs(sum / float64(len(losers))))
	}
	if st.AvgLoss > 0 {
		st.ProfitFactor = orZero(st.AvgGain / st.AvgLoss)
	}

	sort.SliceStable(winners, func(i, j int) bool { return winners[i].PnL.Amount > winners[j].PnL.Amount })
	sort.SliceStable(losers, func(i, j int) bool { return losers[i].PnL.Amount < losers[j].PnL.Amount })
	st.TopGainers = append(st.TopGainers, head(winners, TopN)...)
	st.TopLosers = append(st.TopLosers, head(losers, TopN)...)

	st.Periods = breakdown(ranked, loc)
	return st
}

// TodaysTrades returns the trades created on now's calendar day, in now's location.
func TodaysTrades(trades []journal.Trade, now time.Time) []journal.Trade {
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)

	out := []journal.Trade{}
	for _, t := range trades {
		if !t.CreatedAt.Before(start) && t.CreatedAt.Before(end) {
			out = append(out, t)
		}
	}
	return out
}

// DayLabel names the calendar day of t.
func DayLabel(t time.Time) string {
	return t.Format(dayLayout)
}

// WeekLabel numbers weeks from Sunday with week 1 holding January 1st.
// The year in the label is the calendar year of t, so a week spanning
// New Year falls into two buckets.
func WeekLabel(t time.Time) string {
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	week := (t.YearDay()-1+int(jan1.Weekday()))/7 + 1
	return fmt.Sprintf("Week %d, %d", week, t.Year())
}

// MonthLabel names the calendar month of t.
func MonthLabel(t time.Time) string {
	return t.Format("January 2006")
}

// buckets sums P&L per label, remembering first-seen order for stable ties.
type buckets struct {
	order []string
	sums  map[string]float64
}

func newBuckets() *buckets {
	return &buckets{sums: map[string]float64{}}
}

func (b *buckets) add(label string, v float64) {
	if _, ok := b.sums[label]; !ok {
		b.order = append(b.order, label)
	}
	b.sums[label] += v
}

// extremes ranks buckets by profit. A lone bucket is reported only once:
// as most profitable when it is not negative, otherwise as least profitable.
func (b *buckets) extremes() PeriodExtremes {
	if len(b.order) == 0 {
		return PeriodExtremes{}
	}
	sorted := make([]PeriodProfit, 0, len(b.order))
	for _, label := range b.order {
		sorted = append(sorted, PeriodProfit{Period: label, Profit: orZero(b.sums[label])})
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Profit > sorted[j].Profit })

	most, least := sorted[0], sorted[len(sorted)-1]
	if len(sorted) == 1 {
		if most.Profit >= 0 {
			return PeriodExtremes{Most: &most}
		}
		return PeriodExtremes{Least: &least}
	}
	return PeriodExtremes{Most: &most, Least: &least}
}

// breakdown skips trades without a creation time.
func breakdown(ranked []RankedTrade, loc *time.Location) PeriodBreakdown {
	days, weeks, months := newBuckets(), newBuckets(), newBuckets()
	for _, r := range ranked {
		if r.Trade.CreatedAt.IsZero() {
			continue
		}
		at := r.Trade.CreatedAt.In(loc)
		days.add(DayLabel(at), r.PnL.Amount)
		weeks.add(WeekLabel(at), r.PnL.Amount)
		months.add(MonthLabel(at), r.PnL.Amount)
	}
	return PeriodBreakdown{
		Daily:   days.extremes(),
		Weekly:  weeks.extremes(),
		Monthly: months.extremes(),
	}
}

func head(rs []RankedTrade, n int) []RankedTrade {
	if len(rs) > n {
		return rs[:n]
	}
	return rs
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
