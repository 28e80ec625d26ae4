package source

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/ottdash/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is the subset of pgx used by the Postgres source.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Postgres reads a dataset that was imported into a database table.
// Column names become the header; every value is rendered as text and then
// goes through the same classification as a file.
type Postgres struct {
	DB    DBTX
	Table string // Optionally schema-qualified: "public.ott_usage"
}

// Key implements core.Source.
func (p *Postgres) Key() string { return "postgres:" + p.Table }

// Fingerprint implements core.Source. It uses the table's write counters,
// which change on every insert, update or delete.
func (p *Postgres) Fingerprint(ctx context.Context) (string, error) {
	schemaName, rel := splitTableName(p.Table)

	var writes int64
	err := p.DB.QueryRow(ctx,
		`SELECT COALESCE(n_tup_ins + n_tup_upd + n_tup_del, 0)
		   FROM pg_stat_user_tables
		  WHERE relname = $1 AND ($2 = '' OR schemaname = $2)
		  LIMIT 1`,
		rel, schemaName,
	).Scan(&writes)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("table not found: %s", p.Table)
	}
	if err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", p.Table, err)
	}
	return strconv.FormatInt(writes, 10), nil
}

// Read implements core.Source.
func (p *Postgres) Read(ctx context.Context) (*core.Table, error) {
	ident := pgx.Identifier(strings.Split(p.Table, ".")).Sanitize()

	rows, err := p.DB.Query(ctx, "SELECT * FROM "+ident)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", p.Table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	header := make([]string, len(fields))
	for i, fd := range fields {
		header[i] = fd.Name
	}

	var records [][]string
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", p.Table, err)
		}
		rec := make([]string, len(vals))
		for i, v := range vals {
			rec[i] = formatValue(v)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", p.Table, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no data rows in %s", p.Table)
	}

	return core.NewTable(p.Key(), header, records)
}

func splitTableName(name string) (schemaName, rel string) {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

// formatValue renders a decoded column value as cell text.
func formatValue(v interface{}) string {
	if v == nil {
		return ""
	}

	switch val := v.(type) {
	case string:
		return val
	case pgtype.Numeric:
		if !val.Valid {
			return ""
		}
		f, err := val.Float64Value()
		if err != nil || !f.Valid {
			return ""
		}
		return strconv.FormatFloat(f.Float64, 'f', -1, 64)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int16:
		return strconv.FormatInt(int64(val), 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", v)
	}
}
