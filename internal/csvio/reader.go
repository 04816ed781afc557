// Package csvio adapts the ledger to CSV input and report output. It is
// a thin edge: all validation of transaction content beyond row shape
// belongs to the ledger itself.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/clearbook/clearbook/internal/ledger"
	"github.com/clearbook/clearbook/internal/money"
)

// ReadStats summarizes one parsing pass.
type ReadStats struct {
	Submitted int
	Malformed int
}

// Read parses transaction rows of the form
//
//	type, client, tx, amount
//
// and hands each well-formed record to submit. Whitespace around fields
// is ignored and the amount column may be empty for dispute lifecycle
// rows. A malformed row is logged and skipped; it never reaches the
// engine and never aborts the run.
func Read(r io.Reader, logger *slog.Logger, submit func(ledger.Record)) (ReadStats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var stats ReadStats

	// Consume the header up front. If even the first line cannot be read
	// the input is not a transaction stream; skipping it would let the
	// first data row be swallowed as the header instead.
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		return stats, fmt.Errorf("read header: %w", err)
	}

	line := 1
	for {
		row, err := reader.Read()
		line++
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if err != nil {
			// A structurally broken row; skip it like any other bad input.
			logger.Warn("skipping unreadable row", slog.Int("line", line), slog.Any("error", err))
			stats.Malformed++
			continue
		}

		rec, err := parseRow(row)
		if err != nil {
			logger.Warn("skipping malformed row", slog.Int("line", line), slog.Any("error", err))
			stats.Malformed++
			continue
		}
		submit(rec)
		stats.Submitted++
	}
}

func parseRow(row []string) (ledger.Record, error) {
	if len(row) < 3 {
		return ledger.Record{}, fmt.Errorf("expected at least 3 fields, got %d", len(row))
	}
	for i, field := range row {
		row[i] = strings.TrimSpace(field)
	}

	kind, err := ledger.ParseKind(row[0])
	if err != nil {
		return ledger.Record{}, err
	}

	client, err := strconv.ParseUint(row[1], 10, 64)
	if err != nil {
		return ledger.Record{}, fmt.Errorf("invalid client id %q", row[1])
	}

	tx, err := strconv.ParseUint(row[2], 10, 32)
	if err != nil {
		return ledger.Record{}, fmt.Errorf("invalid transaction id %q", row[2])
	}

	rec := ledger.Record{
		Kind:   kind,
		Client: ledger.ClientID(client),
		Tx:     ledger.TxID(tx),
	}

	if kind.MovesFunds() {
		if len(row) < 4 || row[3] == "" {
			return ledger.Record{}, fmt.Errorf("%s requires an amount", kind)
		}
		amount, err := money.Parse(row[3])
		if err != nil {
			return ledger.Record{}, err
		}
		if !amount.IsPositive() {
			return ledger.Record{}, fmt.Errorf("amount %s must be positive", amount)
		}
		rec.Amount = amount
	}
	return rec, nil
}
