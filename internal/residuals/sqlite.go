package residuals

import (
	"database/sql"
	"fmt"
	"math"
	"regexp"

	_ "modernc.org/sqlite"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteSource reads residuals from a column of a SQLite table produced by
// the training pipeline. The database is opened read-only.
type SQLiteSource struct {
	Path   string
	Table  string
	Column string
}

// NewSQLiteSource validates the table and column names, which are
// interpolated into the query.
func NewSQLiteSource(path, table, column string) (*SQLiteSource, error) {
	if !identifier.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	if !identifier.MatchString(column) {
		return nil, fmt.Errorf("invalid column name %q", column)
	}
	return &SQLiteSource{Path: path, Table: table, Column: column}, nil
}

func (s *SQLiteSource) Name() string { return "sqlite:" + s.Path }

func (s *SQLiteSource) Load() ([]float64, error) {
	db, err := sql.Open("sqlite", "file:"+s.Path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(fmt.Sprintf("SELECT %s FROM %s WHERE %s IS NOT NULL", s.Column, s.Table, s.Column))
	if err != nil {
		return nil, fmt.Errorf("query residuals: %w", err)
	}
	defer rows.Close()

	var out []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan residual: %w", err)
		}
		out = append(out, math.Abs(v))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate residuals: %w", err)
	}
	return out, nil
}
