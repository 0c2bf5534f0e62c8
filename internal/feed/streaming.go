package feed

// streaming.go wraps feed bodies so the parser only ever sees clean text.
//
// Spreadsheet exports saved on Windows often start with a UTF-8 BOM, which
// would otherwise end up glued to the first header name, and hand-edited
// CSVs occasionally carry stray Latin-1 bytes.
//
//   - utf8Sanitizer: replaces invalid UTF-8 bytes with '?'
//   - bomSkipper: drops a leading UTF-8 BOM (0xEF 0xBB 0xBF)
//   - countingReader: tracks bytes read and enforces the size cap
//
// wrapBody applies all three in the right order.

import (
	"errors"
	"io"
	"unicode/utf8"
)

// ErrTooLarge is returned when a feed body exceeds the configured cap.
var ErrTooLarge = errors.New("feed body too large")

// utf8Sanitizer replaces invalid UTF-8 sequences on the fly, holding back
// an incomplete trailing sequence until the next read.
type utf8Sanitizer struct {
	r       io.Reader
	pending []byte
}

func newUTF8Sanitizer(r io.Reader) *utf8Sanitizer {
	return &utf8Sanitizer{r: r, pending: make([]byte, 0, utf8.UTFMax)}
}

func (s *utf8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	offset := 0
	if len(s.pending) > 0 {
		offset = copy(p, s.pending)
		s.pending = s.pending[:0]
	}

	n, err := s.r.Read(p[offset:])
	n += offset
	if n == 0 {
		return 0, err
	}

	if isASCII(p[:n]) {
		return n, err
	}
	return s.sanitize(p[:n], err == io.EOF), err
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// sanitize rewrites data in place and returns the number of bytes to hand out.
// Replacement uses '?' so the data never grows.
func (s *utf8Sanitizer) sanitize(data []byte, atEOF bool) int {
	if utf8.Valid(data) {
		if !atEOF {
			if t := incompleteTail(data); t > 0 {
				s.pending = append(s.pending, data[len(data)-t:]...)
				return len(data) - t
			}
		}
		return len(data)
	}

	write := 0
	for read := 0; read < len(data); {
		r, size := utf8.DecodeRune(data[read:])

		if !atEOF && read+size >= len(data) && runeLen(data[read]) > len(data)-read {
			s.pending = append(s.pending, data[read:]...)
			return write
		}

		if r == utf8.RuneError && size == 1 {
			data[write] = '?'
			write++
			read++
			continue
		}
		copy(data[write:], data[read:read+size])
		write += size
		read += size
	}
	return write
}

// incompleteTail returns how many trailing bytes start a multi-byte rune
// that has not been fully read yet.
func incompleteTail(data []byte) int {
	for i := 1; i <= 3 && i <= len(data); i++ {
		b := data[len(data)-i]
		if b >= 0xC0 {
			if i < runeLen(b) {
				return i
			}
			return 0
		}
		if b&0xC0 != 0x80 {
			return 0
		}
	}
	return 0
}

func runeLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b < 0xC0:
		return 0
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	}
	return 4
}

// bomSkipper drops a leading UTF-8 byte order mark.
type bomSkipper struct {
	r       io.Reader
	checked bool
	buf     []byte
}

func newBOMSkipper(r io.Reader) *bomSkipper {
	return &bomSkipper{r: r}
}

func (b *bomSkipper) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true

		var head [3]byte
		n, err := io.ReadFull(b.r, head[:])
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		if err != nil && err != io.EOF {
			return 0, err
		}
		if !(n == 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF) {
			b.buf = append(b.buf, head[:n]...)
		}
		if err == io.EOF && len(b.buf) == 0 {
			return 0, io.EOF
		}
	}

	if len(b.buf) > 0 {
		n := copy(p, b.buf)
		b.buf = b.buf[n:]
		return n, nil
	}
	return b.r.Read(p)
}

// countingReader counts bytes and fails once limit is exceeded (limit <= 0 disables the cap).
type countingReader struct {
	r     io.Reader
	n     int64
	limit int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	if c.limit > 0 && c.n > c.limit {
		return n, ErrTooLarge
	}
	return n, err
}

// wrapBody strips the BOM first, then sanitizes, then counts.
func wrapBody(r io.Reader, limit int64) *countingReader {
	return &countingReader{r: newUTF8Sanitizer(newBOMSkipper(r)), limit: limit}
}
