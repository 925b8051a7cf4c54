package analytics

import (
	"sort"
	"strings"
	"time"

	"trading-journal-go/internal/journal"
)

// Profitability narrows a listing to winners or losers.
type Profitability string

const (
	AnyProfitability Profitability = ""
	Profitable       Profitability = "profitable"
	Unprofitable     Profitability = "unprofitable"
)

// SortField names a column trades can be ordered by.
type SortField string

const (
	SortByDate     SortField = "date"
	SortBySymbol   SortField = "symbol"
	SortBySide     SortField = "side"
	SortByQuantity SortField = "quantity"
	SortByEntry    SortField = "entry"
	SortByPrice    SortField = "price"
	SortByPnL      SortField = "pnl"
)

// Filter selects trades for the journal listing. Zero-valued fields match everything.
type Filter struct {
	Symbol        string
	Side          journal.Side
	Status        string
	From          time.Time
	To            time.Time
	Profitability Profitability
}

// Apply returns the matching trades in their original order.
func (f Filter) Apply(trades []journal.Trade) []journal.Trade {
	symbol := strings.ToUpper(strings.TrimSpace(f.Symbol))
	out := make([]journal.Trade, 0, len(trades))
	for _, t := range trades {
		if symbol != "" && !strings.Contains(strings.ToUpper(t.Symbol), symbol) {
			continue
		}
		if f.Side != "" && t.Side != f.Side {
			continue
		}
		switch f.Status {
		case journal.StatusOpen:
			if t.IsClosed() {
				continue
			}
		case journal.StatusClosed:
			if !t.IsClosed() {
				continue
			}
		}
		if !f.From.IsZero() && t.CreatedAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && t.CreatedAt.After(f.To) {
			continue
		}
		switch f.Profitability {
		case Profitable:
			if PnL(t).Amount <= 0 {
				continue
			}
		case Unprofitable:
			if PnL(t).Amount >= 0 {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// SortTrades returns a sorted copy. Unknown fields sort by date.
func SortTrades(trades []journal.Trade, field SortField, desc bool) []journal.Trade {
	out := make([]journal.Trade, len(trades))
	copy(out, trades)

	less := func(a, b journal.Trade) bool { return a.CreatedAt.Before(b.CreatedAt) }
	switch field {
	case SortBySymbol:
		less = func(a, b journal.Trade) bool { return a.Symbol < b.Symbol }
	case SortBySide:
		less = func(a, b journal.Trade) bool { return a.Side < b.Side }
	case SortByQuantity:
		less = func(a, b journal.Trade) bool { return a.Quantity < b.Quantity }
	case SortByEntry:
		less = func(a, b journal.Trade) bool { return a.EntryPrice < b.EntryPrice }
	case SortByPrice:
		less = func(a, b journal.Trade) bool { return a.ValuationPrice() < b.ValuationPrice() }
	case SortByPnL:
		less = func(a, b journal.Trade) bool { return PnL(a).Amount < PnL(b).Amount }
	}

	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

// Page is one slice of a listing.
type Page struct {
	Trades     []journal.Trade `json:"trades"`
	Page       int             `json:"page"`
	PerPage    int             `json:"per_page"`
	Total      int             `json:"total"`
	TotalPages int             `json:"total_pages"`
}

// Paginate cuts trades into pages of perPage, numbered from 1. Non-positive
// arguments fall back to the first page and a single page holding everything.
func Paginate(trades []journal.Trade, page, perPage int) Page {
	total := len(trades)
	if perPage <= 0 {
		perPage = total
		if perPage == 0 {
			perPage = 1
		}
	}
	if page <= 0 {
		page = 1
	}
	p := Page{
		Trades:     []journal.Trade{},
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: total / perPage,
	}
	if total%perPage != 0 {
		p.TotalPages++
	}
	if page > p.TotalPages {
		return p
	}
	start := (page - 1) * perPage
	end := start + perPage
	if end > total {
		end = total
	}
	p.Trades = append(p.Trades, trades[start:end]...)
	return p
}
