package csvio

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/clearbook/clearbook/internal/ledger"
)

// WriteReport emits one row per account in ascending client order:
//
//	client,available,held,total,locked
//
// Amounts are formatted at the ledger's fixed decimal scale.
func WriteReport(w io.Writer, snapshots []ledger.Snapshot) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return err
	}
	for _, snap := range snapshots {
		row := []string{
			strconv.FormatUint(uint64(snap.Client), 10),
			snap.Available.String(),
			snap.Held.String(),
			snap.Total.String(),
			strconv.FormatBool(snap.Locked),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
