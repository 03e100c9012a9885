package spatial

import (
	"bytes"
	"database/sql"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/kartoza/kartoza-pg-geom/internal/geom"
)

// NullDisplay is shown for SQL NULL cells
const NullDisplay = "NULL"

// ValueFormatter turns raw spatial column values into display text. It never
// fails: values that cannot be decoded are shown as they came in.
type ValueFormatter struct {
	log zerolog.Logger
}

// NewValueFormatter creates a formatter that reports swallowed decode errors
// to log at debug level
func NewValueFormatter(log zerolog.Logger) *ValueFormatter {
	return &ValueFormatter{log: log}
}

var defaultFormatter = NewValueFormatter(zerolog.Nop())

// FormatValue formats a nullable column value with a silent formatter
func FormatValue(value *string) string {
	return defaultFormatter.Format(value)
}

// FormatString formats a non-null column value with a silent formatter
func FormatString(value string) string {
	return defaultFormatter.FormatString(value)
}

// FormatScanned formats a value scanned from database/sql with a silent formatter
func FormatScanned(value interface{}) string {
	return defaultFormatter.FormatScanned(value)
}

// Format returns NULL for nil, WKT unchanged, decoded WKT for WKB hex, and
// anything else unchanged
func (f *ValueFormatter) Format(value *string) string {
	if value == nil {
		return NullDisplay
	}
	return f.FormatString(*value)
}

// FormatString is Format for a value known not to be NULL
func (f *ValueFormatter) FormatString(value string) string {
	if IsRawWKT(value) {
		return value
	}
	if !IsWKBHexString(value) {
		return value
	}

	g, err := geom.UnmarshalHex(value)
	if err != nil {
		f.log.Debug().Err(err).Int("len", len(value)).Msg("geometry decode failed, showing raw value")
		return value
	}
	return geom.FormatWKT(g)
}

// FormatScanned formats a driver value. Binary byte slices (e.g. the result
// of ST_AsBinary) are hex encoded first so they decode as WKB.
func (f *ValueFormatter) FormatScanned(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return NullDisplay
	case string:
		return f.FormatString(v)
	case *string:
		return f.Format(v)
	case []byte:
		if isBinary(v) {
			return f.FormatString(geom.EncodeHex(v))
		}
		return f.FormatString(string(v))
	case sql.NullString:
		if v.Valid {
			return f.FormatString(v.String)
		}
		return NullDisplay
	case time.Time:
		return v.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", v)
	}
}

func isBinary(b []byte) bool {
	if !utf8.Valid(b) {
		return true
	}
	return bytes.IndexFunc(b, func(r rune) bool {
		return r < 0x20 && r != '\t' && r != '\n' && r != '\r'
	}) >= 0
}
