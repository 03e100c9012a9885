package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kartoza/kartoza-pg-geom/internal/config"
	"github.com/kartoza/kartoza-pg-geom/internal/spatial"
)

// Queryer is the subset of *sql.DB and *sql.Tx used here
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Execer is the subset of *sql.DB and *sql.Tx used for writes
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

const columnsQuery = `
	SELECT
		c.table_schema,
		c.table_name,
		c.column_name,
		c.udt_name,
		COALESCE(gc.type, ''),
		COALESCE(gc.srid, 0)
	FROM information_schema.columns c
	LEFT JOIN geometry_columns gc
		ON gc.f_table_schema = c.table_schema
		AND gc.f_table_name = c.table_name
		AND gc.f_geometry_column = c.column_name
	WHERE c.table_schema NOT IN ('pg_catalog', 'information_schema')
	  AND c.data_type = 'USER-DEFINED'
	ORDER BY c.table_schema, c.table_name, c.ordinal_position
`

// without PostGIS there is no geometry_columns view to join
const columnsQueryNoPostGIS = `
	SELECT c.table_schema, c.table_name, c.column_name, c.udt_name, '', 0
	FROM information_schema.columns c
	WHERE c.table_schema NOT IN ('pg_catalog', 'information_schema')
	  AND c.data_type = 'USER-DEFINED'
	ORDER BY c.table_schema, c.table_name, c.ordinal_position
`

// HasPostGIS checks whether the postgis extension is installed
func HasPostGIS(ctx context.Context, db Queryer) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM pg_extension WHERE extname = 'postgis'
		)
	`).Scan(&exists)
	return exists, err
}

// ServerVersion returns SELECT version()
func ServerVersion(ctx context.Context, db Queryer) (string, error) {
	var version string
	err := db.QueryRowContext(ctx, "SELECT version()").Scan(&version)
	return version, err
}

// GeometryColumns lists user-defined columns whose type is geometric,
// with geometry type and SRID from geometry_columns when PostGIS is present.
func GeometryColumns(ctx context.Context, db Queryer) ([]config.ColumnInfo, error) {
	query := columnsQuery
	if ok, err := HasPostGIS(ctx, db); err != nil || !ok {
		query = columnsQueryNoPostGIS
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing geometry columns: %w", err)
	}
	defer rows.Close()

	var columns []config.ColumnInfo
	for rows.Next() {
		var col config.ColumnInfo
		if err := rows.Scan(&col.Schema, &col.Table, &col.Column, &col.DataType, &col.GeomType, &col.SRID); err != nil {
			return nil, err
		}
		if !spatial.IsGeometricType(col.DataType) {
			continue
		}
		columns = append(columns, col)
	}
	return columns, rows.Err()
}
