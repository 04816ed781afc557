// Command replay processes a CSV transaction file and writes the final
// account report to stdout. Logs go to stderr so the report stays clean.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/clearbook/clearbook/internal/csvio"
	"github.com/clearbook/clearbook/internal/engine"
	"github.com/clearbook/clearbook/internal/ledger"
	"github.com/clearbook/clearbook/internal/logging"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: replay <transactions.csv>")
		os.Exit(2)
	}

	logger := logging.New(os.Getenv("LOG_LEVEL"))

	if err := run(os.Args[1], logger); err != nil {
		logger.Error("replay failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(path string, logger *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	led := ledger.New(logger)
	processor := engine.NewProcessor(led, logger, engine.Options{})

	stats, err := csvio.Read(f, logger, processor.Submit)
	// Drain whatever was submitted even if reading stopped early.
	processor.Close()
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	logger.Info("replay complete",
		slog.Int("submitted", stats.Submitted),
		slog.Int("malformed", stats.Malformed),
	)

	return csvio.WriteReport(os.Stdout, led.SortedSnapshots())
}
