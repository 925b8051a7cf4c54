package tabular

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"

	"trading-journal-go/internal/journal"
)

// RowError describes a row that was not imported. Line counts the header as line 1.
type RowError struct {
	Line    int    `json:"line"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Report summarises one import batch.
type Report struct {
	BatchID string          `json:"batch_id"`
	Applied int             `json:"applied"`
	Created []journal.Trade `json:"created"`
	Failed  []RowError      `json:"failed"`
}

// Import creates one trade per row, in order. A failing row is reported and
// the batch continues; rows already created stay. When strict is set each row
// must also pass the same validation as a manually entered trade.
// Only a cancelled context stops the batch early.
func Import(ctx context.Context, store journal.Store, rows []Row, strict bool) (Report, error) {
	rep := Report{
		BatchID: ulid.Make().String(),
		Created: []journal.Trade{},
		Failed:  []RowError{},
	}

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		line := row.Line
		if line == 0 {
			line = i + 2
		}

		in, err := RowToInput(row)
		if err == nil && strict {
			err = in.WithEntryDefaults().Validate()
		}
		if err != nil {
			rep.Failed = append(rep.Failed, rowError(line, err))
			continue
		}

		t, err := store.CreateTrade(ctx, in)
		if err != nil {
			rep.Failed = append(rep.Failed, rowError(line, err))
			continue
		}
		rep.Applied++
		rep.Created = append(rep.Created, t)
	}
	return rep, nil
}

func rowError(line int, err error) RowError {
	var ve *journal.ValidationError
	if errors.As(err, &ve) {
		return RowError{Line: line, Field: ve.Field, Message: ve.Message}
	}
	return RowError{Line: line, Message: err.Error()}
}
