package spatial

import (
	"strconv"
	"strings"

	"github.com/kartoza/kartoza-pg-geom/internal/geom"
)

// WKTMode is how a geometry is currently written in an editable field
type WKTMode int

const (
	// ModeWKT is bare Well-Known Text, e.g. POINT(30 40)
	ModeWKT WKTMode = iota
	// ModeSQLFunction is a constructor call, e.g. ST_GeomFromText('POINT(30 40)', 4326)
	ModeSQLFunction
)

func (m WKTMode) String() string {
	if m == ModeSQLFunction {
		return "sql"
	}
	return "wkt"
}

// DetectMode classifies the text currently in a geometry field
func DetectMode(text string) WKTMode {
	if IsRawSQLFunction(text) {
		return ModeSQLFunction
	}
	return ModeWKT
}

// IsRawSQLFunction reports whether text is a single geometry constructor call,
// ST_<name>(...) or GeomFromText(...), in any case.
func IsRawSQLFunction(text string) bool {
	call, ok := parseSQLCall(text)
	return ok && isGeometryConstructor(call.name)
}

// ExtractWKTFromSQL returns the WKT literal of FUNC('<wkt>'[, srid]) or
// FUNC("<wkt>"[, srid]).
func ExtractWKTFromSQL(text string) (string, bool) {
	call, ok := parseSQLCall(text)
	if !ok || !isGeometryConstructor(call.name) {
		return "", false
	}
	return wktArgument(call.args)
}

// WrapWKTInFunction turns WKT into ST_GeomFromText('<wkt>'[, srid]). Text that
// already is a constructor call is returned unchanged; blank text gives "".
func WrapWKTInFunction(wkt string, srid *int) string {
	trimmed := strings.TrimSpace(wkt)
	if trimmed == "" {
		return ""
	}
	if IsRawSQLFunction(wkt) {
		return wkt
	}

	var b strings.Builder
	b.WriteString("ST_GeomFromText('")
	b.WriteString(strings.ReplaceAll(trimmed, "'", "''"))
	b.WriteByte('\'')
	if srid != nil {
		b.WriteString(", ")
		b.WriteString(strconv.Itoa(*srid))
	}
	b.WriteByte(')')
	return b.String()
}

// ToggleGeometryMode converts a field value to raw SQL (toRawSQL) or back to
// bare WKT. Text that cannot be converted back is returned unchanged.
func ToggleGeometryMode(text string, toRawSQL bool) string {
	if toRawSQL {
		return WrapWKTInFunction(text, nil)
	}
	if wkt, ok := ExtractWKTFromSQL(text); ok {
		return wkt
	}
	return text
}

// IsValidWKT reports whether text is KEYWORD(body) with a well formed body of
// numbers, commas and nested parentheses; a third ordinate is allowed.
func IsValidWKT(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	return IsRawWKT(text) && geom.WellFormedWKT(text)
}

const (
	sqlPlaceholder = "ST_GeomFromText('POINT(30 40)', 4326)"
	wktPlaceholder = "POINT(30 40)"

	sqlHelperText = "SQL function mode: enter a constructor call such as ST_GeomFromText('POINT(30 40)', 4326) where 4326 is the SRID"
	wktHelperText = "WKT mode: enter Well-Known Text such as POINT(30 40)"
)

// GeometryPlaceholder is the example shown in an empty geometry field
func GeometryPlaceholder(rawSQL bool) string {
	if rawSQL {
		return sqlPlaceholder
	}
	return wktPlaceholder
}

// GeometryHelperText explains what the field expects in the given mode
func GeometryHelperText(rawSQL bool) string {
	if rawSQL {
		return sqlHelperText
	}
	return wktHelperText
}
