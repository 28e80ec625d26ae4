// Package source reads datasets from files and databases into core tables.
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/ottdash/internal/core"
)

// DefaultMaxFileSize caps how much of a dataset file is read (50MB).
const DefaultMaxFileSize = 50 * 1024 * 1024

// Options configures file sources.
type Options struct {
	Sheet       string // XLSX sheet name; empty means the first sheet
	Delimiter   rune   // CSV delimiter; 0 means sniff
	MaxFileSize int64  // 0 means DefaultMaxFileSize
}

// Open returns a file source for path, chosen by extension.
func Open(path string, opts Options) (core.Source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path %s: %w", path, err)
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}

	switch strings.ToLower(filepath.Ext(abs)) {
	case ".csv", ".txt":
		return &CSV{Path: abs, Delimiter: opts.Delimiter, MaxFileSize: opts.MaxFileSize}, nil
	case ".tsv":
		delim := opts.Delimiter
		if delim == 0 {
			delim = '\t'
		}
		return &CSV{Path: abs, Delimiter: delim, MaxFileSize: opts.MaxFileSize}, nil
	case ".xlsx", ".xlsm":
		return &XLSX{Path: abs, Sheet: opts.Sheet}, nil
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(abs))
	}
}

// fileFingerprint identifies a file version by modification time and size.
func fileFingerprint(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fi, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if fi.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}
	return fmt.Sprintf("%d:%d", fi.ModTime().UnixNano(), fi.Size()), nil
}
