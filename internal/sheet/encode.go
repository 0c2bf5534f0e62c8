package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Encode writes records as CSV with header as the first row.
// Fields are quoted with standard double-quote escaping when needed, so the
// output parses back through Parse to the same values.
func Encode(w io.Writer, header []string, records []Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(header))
	for i, rec := range records {
		for c, key := range header {
			row[c] = rec.Value(key)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
