// Package spatial decides how spatial column values are shown and edited:
// SQL type classification, WKT/WKB recognition, display formatting and the
// WKT <-> SQL constructor conversion used by editable geometry fields.
package spatial

import (
	"strings"

	"github.com/kartoza/kartoza-pg-geom/internal/geom"
)

// geometricKeywords are matched anywhere in a SQL type name so engine
// specific spellings such as "geometry(Point,4326)" or "POINT NOT NULL" match.
var geometricKeywords = []string{
	"GEOMETRY",
	"POINT",
	"LINESTRING",
	"POLYGON",
	"MULTIPOINT",
	"MULTILINESTRING",
	"MULTIPOLYGON",
	"GEOMETRYCOLLECTION",
	"GEOGRAPHY",
}

// IsGeometricType reports whether a SQL column type name denotes a spatial column
func IsGeometricType(typeName string) bool {
	upper := strings.ToUpper(strings.TrimSpace(typeName))
	if upper == "" {
		return false
	}
	for _, kw := range geometricKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

// IsWKBHexString reports whether value is 0x-prefixed hex with at least one digit
func IsWKBHexString(value string) bool {
	if len(value) < 3 || value[0] != '0' || (value[1] != 'x' && value[1] != 'X') {
		return false
	}
	return geom.IsHexDigits(value[2:])
}

// IsRawWKT reports whether value, once trimmed, has the shape KEYWORD(...) with
// one of the geometric keywords and at most one space before the parenthesis.
func IsRawWKT(value string) bool {
	s := strings.TrimSpace(value)
	i := 0
	for i < len(s) && isLetter(s[i]) {
		i++
	}
	if i == 0 || !geom.IsWKTKeyword(s[:i]) {
		return false
	}
	if i < len(s) && s[i] == ' ' {
		i++
	}
	return i < len(s) && s[i] == '(' && strings.HasSuffix(s, ")")
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
