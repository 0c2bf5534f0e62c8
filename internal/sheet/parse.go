package sheet

import (
	"fmt"
	"io"
	"strings"
)

// Parse splits CSV text into records keyed by the first row.
//
// The scan is a single left-to-right pass with one character of lookahead
// for escaped quotes:
//
//   - inside quotes, `""` is a literal quote and a lone `"` closes the
//     quoted region; commas, CR and LF are kept as-is
//   - outside quotes, `"` opens a quoted region (even mid-field), `,` ends
//     the cell, LF ends the cell and the row, CR is dropped
//
// Input without a trailing newline still yields its last row. Trailing blank
// lines produce records of empty strings. Empty input yields nil.
func Parse(text string) []Record {
	return Records(splitRows(text))
}

// ParseReader reads r to EOF and parses the result with Parse.
func ParseReader(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return Parse(string(data)), nil
}

// splitRows performs the quote-aware scan and returns raw, untrimmed rows.
func splitRows(s string) [][]string {
	var (
		rows   [][]string
		cur    []string
		cell   strings.Builder
		quoted bool
	)

	for i := 0; i < len(s); i++ {
		ch := s[i]

		if quoted {
			if ch == '"' {
				if i+1 < len(s) && s[i+1] == '"' {
					cell.WriteByte('"')
					i++
					continue
				}
				quoted = false
				continue
			}
			cell.WriteByte(ch)
			continue
		}

		switch ch {
		case '"':
			quoted = true
		case ',':
			cur = append(cur, cell.String())
			cell.Reset()
		case '\n':
			cur = append(cur, cell.String())
			rows = append(rows, cur)
			cur = nil
			cell.Reset()
		case '\r':
			// dropped so CRLF and LF behave the same
		default:
			cell.WriteByte(ch)
		}
	}

	if cell.Len() > 0 || len(cur) > 0 {
		cur = append(cur, cell.String())
		rows = append(rows, cur)
	}

	return rows
}
