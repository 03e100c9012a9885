package render

import (
	"strings"

	"github.com/kartoza/kartoza-pg-geom/internal/geom"
	"github.com/kartoza/kartoza-pg-geom/internal/spatial"
)

var geometryColumnNames = []string{"geom", "geometry", "the_geom", "wkb_geometry", "shape", "geog", "geography"}

// DetectGeometryColumn picks the column to preview: the first one with a
// conventional geometry name, else the first whose sample value looks like a
// geometry. Returns -1 when there is none.
func DetectGeometryColumn(columns []string, sampleRow []string) int {
	for i, col := range columns {
		name := strings.ToLower(col)
		for _, known := range geometryColumnNames {
			if name == known {
				return i
			}
		}
	}

	for i, val := range sampleRow {
		if LooksLikeGeometry(val) {
			return i
		}
	}
	return -1
}

// LooksLikeGeometry reports whether a cell holds WKT, a constructor call or
// WKB hex (with or without 0x)
func LooksLikeGeometry(value string) bool {
	v := strings.TrimSpace(value)
	if v == "" || v == spatial.NullDisplay {
		return false
	}
	if spatial.IsRawWKT(v) || spatial.IsRawSQLFunction(v) || spatial.IsWKBHexString(v) {
		return true
	}
	// Bare hex needs a byte-order flag and room for at least a type code
	return len(v) > 10 && geom.IsHexDigits(v) && (strings.HasPrefix(v, "00") || strings.HasPrefix(v, "01"))
}
