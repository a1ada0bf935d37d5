package inventory

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"ghginventory/internal/core"
)

// WriteRecords writes records in the input table format, header first.
func WriteRecords(w io.Writer, records []core.ActivityRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(core.RequiredColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.Year),
			r.Sector,
			r.Gas,
			core.FormatQuantity(r.Activity),
			core.FormatQuantity(r.EmissionFactor),
			r.Unit,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
