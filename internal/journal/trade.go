package journal

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// Side is the direction of a position.
type Side string

const (
	Long  Side = "long"
	Short Side = "short"
)

// ParseSide accepts "long" or "short" in any case.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToLower(strings.TrimSpace(s))) {
	case Long:
		return Long, nil
	case Short:
		return Short, nil
	}
	return "", invalid("side", fmt.Sprintf("unknown position type %q", s))
}

// Direction is +1 for long and -1 for short positions.
func (s Side) Direction() float64 {
	if s == Short {
		return -1
	}
	return 1
}

// Valuation is either Open or Closed. The set is sealed to this package.
type Valuation interface {
	valuation()
}

// Open is a position still marked to market at CurrentPrice.
type Open struct {
	CurrentPrice float64
}

// Closed is a position exited at ExitPrice. LastMark keeps the mark price
// recorded before the close; it never takes part in valuation.
type Closed struct {
	ExitPrice float64
	LastMark  float64
}

func (Open) valuation()   {}
func (Closed) valuation() {}

// Trade is a single recorded position.
type Trade struct {
	ID         uint
	Symbol     string
	Side       Side
	Quantity   float64
	EntryPrice float64
	Valuation  Valuation
	StopLoss   float64
	TakeProfit float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ValuationPrice is the exit price of a closed trade and the current price of an open one.
func (t Trade) ValuationPrice() float64 {
	switch v := t.Valuation.(type) {
	case Closed:
		return v.ExitPrice
	case Open:
		return v.CurrentPrice
	default:
		return math.NaN()
	}
}

// IsClosed reports whether the trade has an exit price.
func (t Trade) IsClosed() bool {
	_, ok := t.Valuation.(Closed)
	return ok
}

// ExitPrice returns the exit price and true for closed trades.
func (t Trade) ExitPrice() (float64, bool) {
	if c, ok := t.Valuation.(Closed); ok {
		return c.ExitPrice, true
	}
	return 0, false
}

// MarkPrice returns the last mark price regardless of state.
func (t Trade) MarkPrice() float64 {
	switch v := t.Valuation.(type) {
	case Closed:
		return v.LastMark
	case Open:
		return v.CurrentPrice
	}
	return 0
}

// tradeJSON is the wire shape of a Trade.
type tradeJSON struct {
	ID           uint      `json:"id,omitempty"`
	Symbol       string    `json:"symbol"`
	Side         Side      `json:"side"`
	Status       string    `json:"status"`
	Quantity     float64   `json:"quantity"`
	EntryPrice   float64   `json:"entry_price"`
	CurrentPrice float64   `json:"current_price"`
	ExitPrice    *float64  `json:"exit_price"`
	StopLoss     float64   `json:"stop_loss"`
	TakeProfit   float64   `json:"take_profit"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// MarshalJSON flattens the valuation into current_price/exit_price/status.
func (t Trade) MarshalJSON() ([]byte, error) {
	w := tradeJSON{
		ID:           t.ID,
		Symbol:       t.Symbol,
		Side:         t.Side,
		Status:       StatusOpen,
		Quantity:     t.Quantity,
		EntryPrice:   t.EntryPrice,
		CurrentPrice: t.MarkPrice(),
		StopLoss:     t.StopLoss,
		TakeProfit:   t.TakeProfit,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
	if exit, ok := t.ExitPrice(); ok {
		w.Status = StatusClosed
		w.ExitPrice = &exit
	}
	return json.Marshal(w)
}

// UnmarshalJSON rebuilds the valuation variant from exit_price.
func (t *Trade) UnmarshalJSON(data []byte) error {
	var w tradeJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*t = Trade{
		ID:         w.ID,
		Symbol:     w.Symbol,
		Side:       w.Side,
		Quantity:   w.Quantity,
		EntryPrice: w.EntryPrice,
		Valuation:  valuationOf(w.CurrentPrice, w.ExitPrice),
		StopLoss:   w.StopLoss,
		TakeProfit: w.TakeProfit,
		CreatedAt:  w.CreatedAt,
		UpdatedAt:  w.UpdatedAt,
	}
	return nil
}

func valuationOf(current float64, exit *float64) Valuation {
	if exit != nil {
		return Closed{ExitPrice: *exit, LastMark: current}
	}
	return Open{CurrentPrice: current}
}

// TradeInput is the payload used to create a trade. The store assigns ID and timestamps.
type TradeInput struct {
	Symbol       string   `json:"symbol"`
	Side         Side     `json:"side"`
	Quantity     float64  `json:"quantity"`
	EntryPrice   float64  `json:"entry_price"`
	CurrentPrice float64  `json:"current_price"`
	ExitPrice    *float64 `json:"exit_price,omitempty"`
	StopLoss     float64  `json:"stop_loss"`
	TakeProfit   float64  `json:"take_profit"`
}

// Normalize upper-cases the symbol and defaults an empty side to long.
func (in TradeInput) Normalize() TradeInput {
	in.Symbol = strings.ToUpper(strings.TrimSpace(in.Symbol))
	in.Side = Side(strings.ToLower(strings.TrimSpace(string(in.Side))))
	if in.Side == "" {
		in.Side = Long
	}
	return in
}

// WithEntryDefaults marks a new position at its entry price when no current price was given.
func (in TradeInput) WithEntryDefaults() TradeInput {
	if in.CurrentPrice == 0 {
		in.CurrentPrice = in.EntryPrice
	}
	return in
}

// Validate enforces the creation rules. It expects a normalized input.
func (in TradeInput) Validate() error {
	if in.Symbol == "" {
		return invalid("symbol", "Please enter a symbol")
	}
	if _, err := ParseSide(string(in.Side)); err != nil {
		return err
	}
	if !positive(in.Quantity) {
		return invalid("quantity", "Please enter a valid quantity")
	}
	if !positive(in.EntryPrice) {
		return invalid("entry_price", "Please enter a valid entry price")
	}
	if !positive(in.StopLoss) {
		return invalid("stop_loss", "Please enter a valid stop loss")
	}
	if !positive(in.TakeProfit) {
		return invalid("take_profit", "Please enter a valid take profit")
	}
	if math.IsNaN(in.CurrentPrice) || math.IsInf(in.CurrentPrice, 0) || in.CurrentPrice < 0 {
		return invalid("current_price", "Please enter a valid current price")
	}
	if in.ExitPrice != nil && !positive(*in.ExitPrice) {
		return invalid("exit_price", "Please enter a valid exit price")
	}

	if in.Side == Long {
		if in.StopLoss >= in.EntryPrice {
			return invalid("stop_loss", "Stop loss must be below entry price for long positions")
		}
		if in.TakeProfit <= in.EntryPrice {
			return invalid("take_profit", "Take profit must be above entry price for long positions")
		}
	} else {
		if in.StopLoss <= in.EntryPrice {
			return invalid("stop_loss", "Stop loss must be above entry price for short positions")
		}
		if in.TakeProfit >= in.EntryPrice {
			return invalid("take_profit", "Take profit must be below entry price for short positions")
		}
	}
	return nil
}

// Trade builds the unsaved trade described by the input.
func (in TradeInput) Trade() Trade {
	return Trade{
		Symbol:     in.Symbol,
		Side:       in.Side,
		Quantity:   in.Quantity,
		EntryPrice: in.EntryPrice,
		Valuation:  valuationOf(in.CurrentPrice, in.ExitPrice),
		StopLoss:   in.StopLoss,
		TakeProfit: in.TakeProfit,
	}
}

// TradeUpdate carries the fields a caller wants to change. Nil fields are left alone.
// There is deliberately no way to clear an exit price.
type TradeUpdate struct {
	Quantity     *float64 `json:"quantity,omitempty"`
	CurrentPrice *float64 `json:"current_price,omitempty"`
	ExitPrice    *float64 `json:"exit_price,omitempty"`
	StopLoss     *float64 `json:"stop_loss,omitempty"`
	TakeProfit   *float64 `json:"take_profit,omitempty"`
}

// Validate checks every provided field is a positive, finite number.
func (u TradeUpdate) Validate() error {
	fields := []struct {
		name  string
		value *float64
	}{
		{"quantity", u.Quantity},
		{"current_price", u.CurrentPrice},
		{"exit_price", u.ExitPrice},
		{"stop_loss", u.StopLoss},
		{"take_profit", u.TakeProfit},
	}
	for _, f := range fields {
		if f.value != nil && !positive(*f.value) {
			return invalid(f.name, "must be a positive number")
		}
	}
	return nil
}

// Apply returns t with the update applied. A mark on a closed trade is kept
// as LastMark and does not change its valuation.
func (u TradeUpdate) Apply(t Trade) Trade {
	if u.Quantity != nil {
		t.Quantity = *u.Quantity
	}
	if u.StopLoss != nil {
		t.StopLoss = *u.StopLoss
	}
	if u.TakeProfit != nil {
		t.TakeProfit = *u.TakeProfit
	}

	mark := t.MarkPrice()
	if u.CurrentPrice != nil {
		mark = *u.CurrentPrice
	}
	switch v := t.Valuation.(type) {
	case Closed:
		exit := v.ExitPrice
		if u.ExitPrice != nil {
			exit = *u.ExitPrice
		}
		t.Valuation = Closed{ExitPrice: exit, LastMark: mark}
	default:
		if u.ExitPrice != nil {
			t.Valuation = Closed{ExitPrice: *u.ExitPrice, LastMark: mark}
		} else {
			t.Valuation = Open{CurrentPrice: mark}
		}
	}
	return t
}

func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 0)
}
