// Package feed fetches the published question sheet and decodes it into
// records.
//
// The source is usually a spreadsheet "publish to web" URL, but local paths
// and file:// URLs are accepted for offline work. Every failure to obtain
// usable data is reported as ErrFeedUnavailable; there are no retries.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/sheetquiz/internal/sheet"
)

// ErrFeedUnavailable marks a load attempt that produced no data.
var ErrFeedUnavailable = errors.New("feed unavailable")

// Format identifies how the feed body is encoded.
type Format string

const (
	FormatAuto Format = "auto"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DefaultMaxBytes caps feed bodies at 20MB.
const DefaultMaxBytes int64 = 20 * 1024 * 1024

// Options configures a Fetcher.
type Options struct {
	URL      string
	Format   Format
	Timeout  time.Duration // 0 leaves the request bounded only by ctx
	MaxBytes int64         // 0 uses DefaultMaxBytes
	Client   *http.Client  // nil uses a fresh client
}

// Fetcher loads records from a single configured source.
type Fetcher struct {
	opts   Options
	client *http.Client
}

// New creates a Fetcher.
func New(opts Options) *Fetcher {
	if opts.Format == "" {
		opts.Format = FormatAuto
	}
	if opts.MaxBytes == 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}
	return &Fetcher{opts: opts, client: client}
}

// URL returns the configured source.
func (f *Fetcher) URL() string {
	return f.opts.URL
}

// Fetch downloads and decodes the feed. The body is fetched fresh each call.
func (f *Fetcher) Fetch(ctx context.Context) ([]sheet.Record, error) {
	if f.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.opts.Timeout)
		defer cancel()
	}

	body, contentType, err := f.open(ctx)
	if err != nil {
		return nil, unavailable(err)
	}
	defer body.Close()

	format := f.opts.Format
	if format == FormatAuto {
		format = detectFormat(contentType, f.opts.URL)
	}

	records, err := Decode(body, format, f.opts.MaxBytes)
	if err != nil {
		return nil, unavailable(err)
	}
	return records, nil
}

// open returns the raw body for the configured source and its content type.
func (f *Fetcher) open(ctx context.Context) (io.ReadCloser, string, error) {
	src := strings.TrimSpace(f.opts.URL)
	if src == "" {
		return nil, "", errors.New("no feed URL configured")
	}

	u, err := url.Parse(src)
	if err != nil || u.Scheme == "" || u.Scheme == "file" || len(u.Scheme) == 1 {
		path := src
		if err == nil && u.Scheme == "file" {
			path = u.Path
		}
		file, err := os.Open(path)
		if err != nil {
			return nil, "", fmt.Errorf("open %s: %w", path, err)
		}
		return file, "", nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, "", fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	return resp.Body, resp.Header.Get("Content-Type"), nil
}

// Decode reads a feed body in the given format. Bodies larger than limit
// bytes are rejected (limit <= 0 disables the check).
func Decode(r io.Reader, format Format, limit int64) ([]sheet.Record, error) {
	switch format {
	case FormatXLSX:
		return decodeXLSX(&countingReader{r: r, limit: limit})
	case FormatCSV, FormatAuto, "":
		return sheet.ParseReader(wrapBody(r, limit))
	}
	return nil, fmt.Errorf("unsupported feed format %q", format)
}

// decodeXLSX converts the first worksheet into records.
func decodeXLSX(r io.Reader) ([]sheet.Record, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer book.Close()

	names := book.GetSheetList()
	if len(names) == 0 {
		return nil, nil
	}

	rows, err := book.GetRows(names[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", names[0], err)
	}
	return sheet.Records(rows), nil
}

// detectFormat picks XLSX for spreadsheet content types or .xlsx sources
// (including "output=xlsx" publish links) and CSV otherwise.
func detectFormat(contentType, src string) Format {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		if strings.Contains(mt, "spreadsheetml") || mt == "application/vnd.ms-excel" {
			return FormatXLSX
		}
	}

	lower := strings.ToLower(src)
	if u, err := url.Parse(lower); err == nil {
		if u.Query().Get("output") == "xlsx" || filepath.Ext(u.Path) == ".xlsx" {
			return FormatXLSX
		}
	}
	return FormatCSV
}

// ParseFormat validates a configured format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatCSV, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("unknown feed format %q", s)
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrFeedUnavailable, err)
}
