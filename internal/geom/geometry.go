package geom

import "math"

// Type is a WKB geometry type code
type Type uint32

const (
	TypePoint Type = iota + 1
	TypeLineString
	TypePolygon
	TypeMultiPoint
	TypeMultiLineString
	TypeMultiPolygon
	TypeGeometryCollection
)

// Keyword returns the WKT keyword for the type
func (t Type) Keyword() string {
	switch t {
	case TypePoint:
		return "POINT"
	case TypeLineString:
		return "LINESTRING"
	case TypePolygon:
		return "POLYGON"
	case TypeMultiPoint:
		return "MULTIPOINT"
	case TypeMultiLineString:
		return "MULTILINESTRING"
	case TypeMultiPolygon:
		return "MULTIPOLYGON"
	case TypeGeometryCollection:
		return "GEOMETRYCOLLECTION"
	}
	return ""
}

// Coord is a single x/y position
type Coord struct {
	X, Y float64
}

// Geometry is one decoded WKB/WKT value. The set of implementations is closed:
// Point, LineString, Polygon, MultiPoint, MultiLineString, MultiPolygon and
// GeometryCollection.
type Geometry interface {
	Type() Type
	String() string
	isGeometry()
}

type Point struct {
	X, Y float64
}

type LineString struct {
	Points []Coord
}

type Polygon struct {
	Rings [][]Coord // First ring is exterior, rest are holes
}

type MultiPoint struct {
	Points []Coord
}

type MultiLineString struct {
	Lines [][]Coord
}

type MultiPolygon struct {
	Polygons [][][]Coord
}

type GeometryCollection struct {
	Geometries []Geometry
}

func (Point) Type() Type              { return TypePoint }
func (LineString) Type() Type         { return TypeLineString }
func (Polygon) Type() Type            { return TypePolygon }
func (MultiPoint) Type() Type         { return TypeMultiPoint }
func (MultiLineString) Type() Type    { return TypeMultiLineString }
func (MultiPolygon) Type() Type       { return TypeMultiPolygon }
func (GeometryCollection) Type() Type { return TypeGeometryCollection }

func (g Point) String() string              { return FormatWKT(g) }
func (g LineString) String() string         { return FormatWKT(g) }
func (g Polygon) String() string            { return FormatWKT(g) }
func (g MultiPoint) String() string         { return FormatWKT(g) }
func (g MultiLineString) String() string    { return FormatWKT(g) }
func (g MultiPolygon) String() string       { return FormatWKT(g) }
func (g GeometryCollection) String() string { return FormatWKT(g) }

func (Point) isGeometry()              {}
func (LineString) isGeometry()         {}
func (Polygon) isGeometry()            {}
func (MultiPoint) isGeometry()         {}
func (MultiLineString) isGeometry()    {}
func (MultiPolygon) isGeometry()       {}
func (GeometryCollection) isGeometry() {}

// Coord returns the point position
func (p Point) Coord() Coord {
	return Coord{X: p.X, Y: p.Y}
}

// IsEmpty reports whether the point is the WKB empty point (both ordinates NaN)
func (p Point) IsEmpty() bool {
	return math.IsNaN(p.X) && math.IsNaN(p.Y)
}

// Walk calls fn for every coordinate of g, descending into collections
func Walk(g Geometry, fn func(Coord)) {
	switch g := g.(type) {
	case Point:
		if !g.IsEmpty() {
			fn(g.Coord())
		}
	case LineString:
		walkCoords(g.Points, fn)
	case Polygon:
		for _, ring := range g.Rings {
			walkCoords(ring, fn)
		}
	case MultiPoint:
		walkCoords(g.Points, fn)
	case MultiLineString:
		for _, line := range g.Lines {
			walkCoords(line, fn)
		}
	case MultiPolygon:
		for _, poly := range g.Polygons {
			for _, ring := range poly {
				walkCoords(ring, fn)
			}
		}
	case GeometryCollection:
		for _, member := range g.Geometries {
			Walk(member, fn)
		}
	}
}

func walkCoords(coords []Coord, fn func(Coord)) {
	for _, c := range coords {
		fn(c)
	}
}
