package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/JonMunkholm/ottdash/internal/core"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// CSV is a delimited text file source.
//
// Files published by Korean agencies are often saved as CP949 (EUC-KR).
// Input that is not valid UTF-8 is decoded as CP949 before parsing.
type CSV struct {
	Path        string
	Delimiter   rune // 0 means sniff among ',', ';', '\t'
	MaxFileSize int64
}

// Key implements core.Source.
func (c *CSV) Key() string { return "file:" + c.Path }

// Fingerprint implements core.Source.
func (c *CSV) Fingerprint(ctx context.Context) (string, error) {
	return fileFingerprint(ctx, c.Path)
}

// Read implements core.Source.
func (c *CSV) Read(ctx context.Context) (*core.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(c.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	limit := c.MaxFileSize
	if limit <= 0 {
		limit = DefaultMaxFileSize
	}

	data, err := io.ReadAll(io.LimitReader(NewBOMSkippingReader(f), limit+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.Path, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("file too large: %s exceeds %d bytes", c.Path, limit)
	}

	return ParseCSV(c.Key(), data, c.Delimiter)
}

// ParseCSV parses delimited data into a table. The first record is the header.
func ParseCSV(name string, data []byte, delimiter rune) (*core.Table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	data, err := toUTF8(data)
	if err != nil {
		return nil, fmt.Errorf("encoding error: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	if delimiter == 0 {
		delimiter = sniffDelimiter(data)
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("no data rows after header")
	}

	return core.NewTable(name, records[0], records[1:])
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// toUTF8 returns data unchanged when it is valid UTF-8, otherwise decodes it as CP949.
func toUTF8(data []byte) ([]byte, error) {
	if utf8.Valid(data) {
		return data, nil
	}
	out, _, err := transform.Bytes(korean.EUCKR.NewDecoder(), data)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(out) {
		return nil, errors.New("file is neither UTF-8 nor CP949")
	}
	return out, nil
}

// sniffDelimiter picks the most frequent candidate delimiter on the first line.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	best, bestCount := ',', 0
	for _, d := range []rune{',', ';', '\t'} {
		if n := strings.Count(string(line), string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}
