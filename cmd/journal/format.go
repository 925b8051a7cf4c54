package main

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"trading-journal-go/internal/analytics"
	"trading-journal-go/internal/journal"
)

// money renders x as dollars with thousands separators, e.g. -$1,234.50.
func money(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return "n/a"
	}
	d := decimal.NewFromFloat(x).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole := d.Truncate(0)
	cents := d.Sub(whole).Shift(2).IntPart()
	return fmt.Sprintf("%s$%s.%02d", sign, humanize.Comma(whole.IntPart()), cents)
}

func percent(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return "n/a"
	}
	return decimal.NewFromFloat(x).StringFixed(2) + "%"
}

func quantity(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return "n/a"
	}
	return decimal.NewFromFloat(x).String()
}

func ago(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printTrades(w io.Writer, trades []analytics.RankedTrade) error {
	tw := table(w)
	fmt.Fprintln(tw, "ID\tSYMBOL\tSIDE\tSTATUS\tQTY\tENTRY\tPRICE\tSTOP\tTARGET\tP&L\tP&L %\tOPENED")
	for _, r := range trades {
		t := r.Trade
		status := journal.StatusOpen
		if t.IsClosed() {
			status = journal.StatusClosed
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Symbol, t.Side, status, quantity(t.Quantity),
			money(t.EntryPrice), money(t.ValuationPrice()), money(t.StopLoss), money(t.TakeProfit),
			money(r.PnL.Amount), percent(r.PnL.Percent), ago(t.CreatedAt))
	}
	return tw.Flush()
}

func printTrade(w io.Writer, t journal.Trade) error {
	return printTrades(w, []analytics.RankedTrade{{Trade: t, PnL: analytics.PnL(t)}})
}
