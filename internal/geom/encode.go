package geom

import (
	"encoding/binary"
	"fmt"

	gogeom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// Encode serializes g as standard WKB in the given byte order. When srid is
// non-nil the body is preceded by the SRID as 4 little-endian bytes, the
// layout Unmarshal reads back.
func Encode(g Geometry, srid *uint32, order binary.ByteOrder) ([]byte, error) {
	t, err := toGoGeom(g)
	if err != nil {
		return nil, err
	}
	body, err := wkb.Marshal(t, order)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", g.Type().Keyword(), err)
	}
	if srid == nil {
		return body, nil
	}
	out := make([]byte, sridPrefixSize, sridPrefixSize+len(body))
	binary.LittleEndian.PutUint32(out, *srid)
	return append(out, body...), nil
}

// EncodeToHex is Encode rendered with EncodeHex
func EncodeToHex(g Geometry, srid *uint32, order binary.ByteOrder) (string, error) {
	b, err := Encode(g, srid, order)
	if err != nil {
		return "", err
	}
	return EncodeHex(b), nil
}

func toGoGeom(g Geometry) (gogeom.T, error) {
	switch g := g.(type) {
	case Point:
		return gogeom.NewPoint(gogeom.XY).SetCoords(gogeom.Coord{g.X, g.Y})
	case LineString:
		return gogeom.NewLineString(gogeom.XY).SetCoords(toGoCoords(g.Points))
	case Polygon:
		return gogeom.NewPolygon(gogeom.XY).SetCoords(toGoRings(g.Rings))
	case MultiPoint:
		return gogeom.NewMultiPoint(gogeom.XY).SetCoords(toGoCoords(g.Points))
	case MultiLineString:
		return gogeom.NewMultiLineString(gogeom.XY).SetCoords(toGoRings(g.Lines))
	case MultiPolygon:
		polys := make([][][]gogeom.Coord, len(g.Polygons))
		for i, p := range g.Polygons {
			polys[i] = toGoRings(p)
		}
		return gogeom.NewMultiPolygon(gogeom.XY).SetCoords(polys)
	case GeometryCollection:
		gc := gogeom.NewGeometryCollection()
		for _, member := range g.Geometries {
			t, err := toGoGeom(member)
			if err != nil {
				return nil, err
			}
			if err := gc.Push(t); err != nil {
				return nil, err
			}
		}
		return gc, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedGeometryType, g)
}

func toGoCoords(coords []Coord) []gogeom.Coord {
	out := make([]gogeom.Coord, len(coords))
	for i, c := range coords {
		out[i] = gogeom.Coord{c.X, c.Y}
	}
	return out
}

func toGoRings(rings [][]Coord) [][]gogeom.Coord {
	out := make([][]gogeom.Coord, len(rings))
	for i, r := range rings {
		out[i] = toGoCoords(r)
	}
	return out
}
