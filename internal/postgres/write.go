package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/kartoza/kartoza-pg-geom/internal/spatial"
)

// Statement is SQL text with its bind arguments
type Statement struct {
	SQL  string
	Args []interface{}
}

// ColumnValue is one column assignment; a nil Value is SQL NULL and
// spatial.UseDefault asks for the column default
type ColumnValue struct {
	Column string
	Value  *string
}

// QualifiedName quotes schema.table, or just table when schema is empty
func QualifiedName(schema, table string) string {
	if schema == "" {
		return pq.QuoteIdentifier(table)
	}
	return pq.QuoteIdentifier(schema) + "." + pq.QuoteIdentifier(table)
}

// BuildUpdate writes UPDATE table SET col = ... WHERE key = $n for one row
func BuildUpdate(table string, key string, keyValue interface{}, values []ColumnValue) (Statement, error) {
	if len(values) == 0 {
		return Statement{}, fmt.Errorf("update of %s: no columns", table)
	}

	var stmt Statement
	sets := make([]string, 0, len(values))
	for _, cv := range values {
		fragment, args := spatial.BindValue(cv.Value, len(stmt.Args)+1)
		stmt.Args = append(stmt.Args, args...)
		sets = append(sets, pq.QuoteIdentifier(cv.Column)+" = "+fragment)
	}
	stmt.Args = append(stmt.Args, keyValue)

	stmt.SQL = fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		table, strings.Join(sets, ", "), pq.QuoteIdentifier(key), len(stmt.Args))
	return stmt, nil
}

// BuildInsert writes INSERT INTO table (cols) VALUES (...)
func BuildInsert(table string, values []ColumnValue) (Statement, error) {
	if len(values) == 0 {
		return Statement{SQL: "INSERT INTO " + table + " DEFAULT VALUES"}, nil
	}

	var stmt Statement
	cols := make([]string, 0, len(values))
	fragments := make([]string, 0, len(values))
	for _, cv := range values {
		fragment, args := spatial.BindValue(cv.Value, len(stmt.Args)+1)
		stmt.Args = append(stmt.Args, args...)
		cols = append(cols, pq.QuoteIdentifier(cv.Column))
		fragments = append(fragments, fragment)
	}

	stmt.SQL = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(fragments, ", "))
	return stmt, nil
}

// UpdateCell sets one column of the row whose key column equals keyValue.
// table must already be quoted, e.g. with QualifiedName.
func UpdateCell(ctx context.Context, db Execer, table, key string, keyValue interface{}, column string, value *string) (int64, error) {
	stmt, err := BuildUpdate(table, key, keyValue, []ColumnValue{{Column: column, Value: value}})
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return 0, fmt.Errorf("update %s.%s: %w", table, column, err)
	}
	return res.RowsAffected()
}

// InsertRow inserts one row into table (already quoted)
func InsertRow(ctx context.Context, db Execer, table string, values []ColumnValue) error {
	stmt, err := BuildInsert(table, values)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, stmt.SQL, stmt.Args...); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}
