// Package tabular converts journals to and from flat spreadsheet rows.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"trading-journal-go/internal/journal"
)

// Row is one record keyed by normalized column name. Line is the physical
// line the record starts on, counting the header as line 1; zero when the
// row did not come from ReadRows.
type Row struct {
	Line   int
	Fields map[string]string
}

// Columns written by Export, in order.
var Columns = []string{
	"Symbol",
	"Type",
	"Quantity",
	"Entry Price",
	"Current Price",
	"Exit Price",
	"Stop Loss",
	"Take Profit",
	"Created At",
}

const createdAtLayout = "2006-01-02 15:04:05"

// NormalizeKey folds case and drops spaces, underscores and hyphens so that
// "Entry Price", "EntryPrice" and "entry_price" name the same column.
func NormalizeKey(k string) string {
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(strings.TrimSpace(k)))
}

// ReadRows parses CSV with a header line. Blank lines are skipped.
func ReadRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = NormalizeKey(strings.TrimPrefix(h, "\ufeff"))
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(rows)+2, err)
		}
		line, _ := cr.FieldPos(0)
		row := Row{Line: line, Fields: map[string]string{}}
		for i, v := range rec {
			if i < len(keys) && keys[i] != "" {
				row.Fields[keys[i]] = strings.TrimSpace(v)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// RowToInput maps a row onto a trade input. Missing numbers are zero, a
// missing type is long and an empty or zero exit price leaves the trade open.
// The result is normalized but not validated.
func RowToInput(row Row) (journal.TradeInput, error) {
	in := journal.TradeInput{
		Symbol: row.Fields["symbol"],
		Side:   journal.Side(row.Fields["type"]),
	}
	if in.Side == "" {
		in.Side = journal.Side(row.Fields["side"])
	}
	in = in.Normalize()
	if _, err := journal.ParseSide(string(in.Side)); err != nil {
		return journal.TradeInput{}, err
	}

	fields := []struct {
		key, field string
		dst        *float64
	}{
		{"quantity", "quantity", &in.Quantity},
		{"entryprice", "entry_price", &in.EntryPrice},
		{"currentprice", "current_price", &in.CurrentPrice},
		{"stoploss", "stop_loss", &in.StopLoss},
		{"takeprofit", "take_profit", &in.TakeProfit},
	}
	for _, f := range fields {
		v, err := number(row.Fields[f.key], f.field)
		if err != nil {
			return journal.TradeInput{}, err
		}
		*f.dst = v
	}

	exit, err := number(row.Fields["exitprice"], "exit_price")
	if err != nil {
		return journal.TradeInput{}, err
	}
	if exit != 0 {
		in.ExitPrice = &exit
	}
	return in, nil
}

func number(s, field string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, &journal.ValidationError{Field: field, Message: fmt.Sprintf("%q is not a number", s)}
	}
	return d.InexactFloat64(), nil
}

// Export writes trades as CSV with a header line.
func Export(w io.Writer, trades []journal.Trade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, t := range trades {
		exit := ""
		if p, ok := t.ExitPrice(); ok {
			exit = money(p)
		}
		created := ""
		if !t.CreatedAt.IsZero() {
			created = t.CreatedAt.Format(createdAtLayout)
		}
		rec := []string{
			t.Symbol,
			string(t.Side),
			decimal.NewFromFloat(t.Quantity).String(),
			money(t.EntryPrice),
			money(t.MarkPrice()),
			exit,
			money(t.StopLoss),
			money(t.TakeProfit),
			created,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("failed to write trade %d: %w", t.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFileName names an export taken at now.
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("trades_%s.csv", now.Format("2006-01-02"))
}

func money(x float64) string {
	return decimal.NewFromFloat(x).String()
}
