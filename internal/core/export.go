package core

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// ExportFormat selects the CSV shape written by WriteCSV.
type ExportFormat string

const (
	ExportLong ExportFormat = "long"
	ExportWide ExportFormat = "wide"
)

// ParseExportFormat accepts "long" or "wide"; empty means long.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", ExportLong:
		return ExportLong, nil
	case ExportWide:
		return ExportWide, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// LongHeader is the header row of a long export.
var LongHeader = []string{"year", "dimension", "dimension_label", "group_value", "service", "percent", "sample_count"}

// WriteCSV writes every record of ds. Missing values are left blank.
//
// The long form has one row per observation. The wide form has one row per
// group, with the dataset's identifier column names and one column per service.
func WriteCSV(w io.Writer, ds *Dataset, format ExportFormat) error {
	cw := csv.NewWriter(w)
	var err error
	if format == ExportWide {
		err = writeWide(cw, ds)
	} else {
		err = writeLong(cw, ds.Records)
	}
	if err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func writeLong(cw *csv.Writer, records []Observation) error {
	if err := cw.Write(LongHeader); err != nil {
		return err
	}
	for _, o := range records {
		row := []string{o.Year, string(o.Dimension), o.DimensionLabel, o.GroupValue, o.ServiceName, FormatPercent(o.Percent), FormatCount(o.SampleCount)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeWide(cw *csv.Writer, ds *Dataset) error {
	services := ds.Options.Services
	conv := ds.Conventions

	header := append([]string{conv.YearColumn, conv.DimensionColumn, conv.GroupValueColumn, conv.SampleCountColumn}, services...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range Pivot(ds.Records, nil) {
		out := []string{row.Year, row.DimensionLabel, row.GroupValue, FormatCount(row.SampleCount)}
		for _, svc := range services {
			out = append(out, FormatPercent(row.Values[svc].Percent))
		}
		if err := cw.Write(out); err != nil {
			return err
		}
	}
	return nil
}

// FormatPercent renders a value in its shortest form, or "" when missing.
func FormatPercent(v pgtype.Float8) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Float64, 'f', -1, 64)
}

// FormatCount renders a sample count, or "" when absent.
func FormatCount(v pgtype.Int8) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatInt(v.Int64, 10)
}
