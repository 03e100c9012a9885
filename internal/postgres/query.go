package postgres

import (
	"context"
	"fmt"

	"github.com/kartoza/kartoza-pg-geom/internal/spatial"
)

// Result is a query result with every cell already formatted for display
type Result struct {
	Columns   []string
	Types     []string
	Rows      [][]string
	Spatial   []int // indices of columns with a geometric database type
	Truncated bool
}

// IsSpatial reports whether column i has a geometric type
func (r *Result) IsSpatial(i int) bool {
	for _, s := range r.Spatial {
		if s == i {
			return true
		}
	}
	return false
}

// Column returns the formatted values of column i
func (r *Result) Column(i int) []string {
	values := make([]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		if i < len(row) {
			values = append(values, row[i])
		}
	}
	return values
}

// RunQuery executes query and formats at most limit rows (all when limit <= 0).
// WKB cells, such as ST_AsBinary output, are shown as WKT. Plain PostGIS
// geometry columns print as EWKB hex, which is left as is.
func RunQuery(ctx context.Context, db Queryer, query string, limit int, f *spatial.ValueFormatter) (*Result, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	typeNames := make([]string, len(colTypes))
	for i, ct := range colTypes {
		typeNames[i] = ct.DatabaseTypeName()
	}

	res := newResult(columns, typeNames)
	for rows.Next() {
		if limit > 0 && len(res.Rows) >= limit {
			res.Truncated = true
			break
		}

		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row %d: %w", len(res.Rows)+1, err)
		}
		res.addRow(values, f)
	}

	return res, rows.Err()
}

func newResult(columns, typeNames []string) *Result {
	res := &Result{Columns: columns, Types: typeNames, Rows: [][]string{}}
	for i, t := range typeNames {
		if spatial.IsGeometricType(t) {
			res.Spatial = append(res.Spatial, i)
		}
	}
	return res
}

func (r *Result) addRow(values []interface{}, f *spatial.ValueFormatter) {
	row := make([]string, len(values))
	for i, v := range values {
		if f != nil {
			row[i] = f.FormatScanned(v)
		} else {
			row[i] = spatial.FormatScanned(v)
		}
	}
	r.Rows = append(r.Rows, row)
}
