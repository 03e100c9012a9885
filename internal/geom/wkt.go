package geom

import (
	"math"
	"strconv"
	"strings"
)

// FormatWKT renders g as Well-Known Text, e.g. POINT(1 2) or
// MULTIPOINT((1 2), (3 4)). Integral ordinates render without a decimal point.
func FormatWKT(g Geometry) string {
	if g == nil {
		return ""
	}
	var b strings.Builder
	writeGeometry(&b, g)
	return b.String()
}

func writeGeometry(b *strings.Builder, g Geometry) {
	b.WriteString(g.Type().Keyword())

	switch g := g.(type) {
	case Point:
		if g.IsEmpty() {
			b.WriteString(" EMPTY")
			return
		}
		b.WriteByte('(')
		writeCoord(b, g.Coord())
		b.WriteByte(')')

	case LineString:
		if len(g.Points) == 0 {
			b.WriteString(" EMPTY")
			return
		}
		writeCoordList(b, g.Points)

	case Polygon:
		if len(g.Rings) == 0 {
			b.WriteString(" EMPTY")
			return
		}
		writeRings(b, g.Rings)

	case MultiPoint:
		if len(g.Points) == 0 {
			b.WriteString(" EMPTY")
			return
		}
		b.WriteByte('(')
		for i, c := range g.Points {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteByte('(')
			writeCoord(b, c)
			b.WriteByte(')')
		}
		b.WriteByte(')')

	case MultiLineString:
		if len(g.Lines) == 0 {
			b.WriteString(" EMPTY")
			return
		}
		writeRings(b, g.Lines)

	case MultiPolygon:
		if len(g.Polygons) == 0 {
			b.WriteString(" EMPTY")
			return
		}
		b.WriteByte('(')
		for i, poly := range g.Polygons {
			if i > 0 {
				b.WriteString(", ")
			}
			writeRings(b, poly)
		}
		b.WriteByte(')')

	case GeometryCollection:
		if len(g.Geometries) == 0 {
			b.WriteString(" EMPTY")
			return
		}
		b.WriteByte('(')
		for i, member := range g.Geometries {
			if i > 0 {
				b.WriteString(", ")
			}
			writeGeometry(b, member)
		}
		b.WriteByte(')')
	}
}

func writeCoord(b *strings.Builder, c Coord) {
	b.WriteString(FormatOrdinate(c.X))
	b.WriteByte(' ')
	b.WriteString(FormatOrdinate(c.Y))
}

// writeCoordList writes (x y, x y, ...); a nested empty list is EMPTY
func writeCoordList(b *strings.Builder, coords []Coord) {
	if len(coords) == 0 {
		b.WriteString("EMPTY")
		return
	}
	b.WriteByte('(')
	for i, c := range coords {
		if i > 0 {
			b.WriteString(", ")
		}
		writeCoord(b, c)
	}
	b.WriteByte(')')
}

func writeRings(b *strings.Builder, rings [][]Coord) {
	b.WriteByte('(')
	for i, ring := range rings {
		if i > 0 {
			b.WriteString(", ")
		}
		writeCoordList(b, ring)
	}
	b.WriteByte(')')
}

// FormatOrdinate renders v with the fewest digits that read back to the same
// float64; 1.0 renders as "1". Magnitudes of 1e21 and up, or below 1e-7,
// use an exponent instead of a long run of zeros.
func FormatOrdinate(v float64) string {
	if a := math.Abs(v); a != 0 && (a >= 1e21 || a < 1e-7) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
