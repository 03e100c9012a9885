package geom

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	headerSize     = 1 + 4 // byte order + type code
	coordSize      = 16
	pointSize      = headerSize + coordSize
	minGeomSize    = headerSize + 4 // header + a zero count
	sridPrefixSize = 4

	wkbXDR = 0 // big-endian flag
	wkbNDR = 1 // little-endian flag
)

// Decode parses a standard WKB body. Bytes left over after the geometry
// are ignored.
func Decode(data []byte) (Geometry, error) {
	d := newDecoder(data)
	return d.geometry()
}

// DecodeStrict is Decode but fails with ErrTrailingBytes when the geometry
// does not consume the whole buffer.
func DecodeStrict(data []byte) (Geometry, error) {
	d := newDecoder(data)
	g, err := d.geometry()
	if err != nil {
		return nil, err
	}
	if n := d.r.Len(); n > 0 {
		return nil, fmt.Errorf("%w: %d unread", ErrTrailingBytes, n)
	}
	return g, nil
}

// HasSRIDPrefix reports whether data looks like a 4-byte SRID followed by a
// WKB body: the byte at offset 4 is a byte-order flag (0 or 1). This is a
// heuristic; a standard little-endian body also has 0 at offset 4.
func HasSRIDPrefix(data []byte) bool {
	return len(data) > sridPrefixSize && (data[sridPrefixSize] == wkbXDR || data[sridPrefixSize] == wkbNDR)
}

// SplitSRID separates the little-endian SRID prefix from the WKB body when
// HasSRIDPrefix says one is present.
func SplitSRID(data []byte) (srid uint32, body []byte, ok bool) {
	if !HasSRIDPrefix(data) {
		return 0, data, false
	}
	return binary.LittleEndian.Uint32(data[:sridPrefixSize]), data[sridPrefixSize:], true
}

// Unmarshal decodes either WKB dialect. When the SRID heuristic fires, a
// reading that consumes its buffer exactly wins: the stripped body first,
// then the buffer from offset 0. After that the stripped body is read
// permissively, so trailing bytes are ignored. Offset 0 is read permissively
// only when it holds the little-endian flag: a zero SRID reads there as a
// big-endian point.
func Unmarshal(data []byte) (Geometry, error) {
	_, body, prefixed := SplitSRID(data)
	if !prefixed {
		return Decode(data)
	}

	g, prefixErr := DecodeStrict(body)
	if prefixErr == nil {
		return g, nil
	}
	if g, err := DecodeStrict(data); err == nil {
		return g, nil
	}
	if g, err := Decode(body); err == nil {
		return g, nil
	}
	if data[0] == wkbNDR {
		if g, err := Decode(data); err == nil {
			return g, nil
		}
	}
	return nil, prefixErr
}

// UnmarshalHex is DecodeHex followed by Unmarshal
func UnmarshalHex(s string) (Geometry, error) {
	data, err := DecodeHex(s)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

type decoder struct {
	r *bytes.Reader
}

func newDecoder(data []byte) *decoder {
	return &decoder{r: bytes.NewReader(data)}
}

func (d *decoder) geometry() (Geometry, error) {
	flag, err := d.r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: reading byte order", ErrTruncatedInput)
	}

	var order binary.ByteOrder
	switch flag {
	case wkbXDR:
		order = binary.BigEndian
	case wkbNDR:
		order = binary.LittleEndian
	default:
		return nil, fmt.Errorf("%w: 0x%02x", ErrInvalidByteOrder, flag)
	}

	code, err := d.uint32(order, "geometry type")
	if err != nil {
		return nil, err
	}

	switch Type(code) {
	case TypePoint:
		c, err := d.coord(order)
		if err != nil {
			return nil, err
		}
		return Point{X: c.X, Y: c.Y}, nil

	case TypeLineString:
		points, err := d.coords(order)
		if err != nil {
			return nil, err
		}
		return LineString{Points: points}, nil

	case TypePolygon:
		rings, err := d.rings(order)
		if err != nil {
			return nil, err
		}
		return Polygon{Rings: rings}, nil

	case TypeMultiPoint:
		n, err := d.count(order, pointSize, "point count")
		if err != nil {
			return nil, err
		}
		points := make([]Coord, 0, n)
		for i := uint32(0); i < n; i++ {
			member, err := d.member(TypePoint)
			if err != nil {
				return nil, err
			}
			points = append(points, member.(Point).Coord())
		}
		return MultiPoint{Points: points}, nil

	case TypeMultiLineString:
		n, err := d.count(order, minGeomSize, "line count")
		if err != nil {
			return nil, err
		}
		lines := make([][]Coord, 0, n)
		for i := uint32(0); i < n; i++ {
			member, err := d.member(TypeLineString)
			if err != nil {
				return nil, err
			}
			lines = append(lines, member.(LineString).Points)
		}
		return MultiLineString{Lines: lines}, nil

	case TypeMultiPolygon:
		n, err := d.count(order, minGeomSize, "polygon count")
		if err != nil {
			return nil, err
		}
		polygons := make([][][]Coord, 0, n)
		for i := uint32(0); i < n; i++ {
			member, err := d.member(TypePolygon)
			if err != nil {
				return nil, err
			}
			polygons = append(polygons, member.(Polygon).Rings)
		}
		return MultiPolygon{Polygons: polygons}, nil

	case TypeGeometryCollection:
		n, err := d.count(order, minGeomSize, "member count")
		if err != nil {
			return nil, err
		}
		members := make([]Geometry, 0, n)
		for i := uint32(0); i < n; i++ {
			member, err := d.geometry()
			if err != nil {
				return nil, fmt.Errorf("collection member %d: %w", i, err)
			}
			members = append(members, member)
		}
		return GeometryCollection{Geometries: members}, nil
	}

	return nil, fmt.Errorf("%w: %d", ErrUnsupportedGeometryType, code)
}

// member decodes an embedded geometry of a multi-geometry; it carries its
// own header and must be of the expected kind.
func (d *decoder) member(want Type) (Geometry, error) {
	g, err := d.geometry()
	if err != nil {
		return nil, err
	}
	if g.Type() != want {
		return nil, fmt.Errorf("%w: %s inside multi-%s", ErrUnsupportedGeometryType, g.Type().Keyword(), want.Keyword())
	}
	return g, nil
}

func (d *decoder) uint32(order binary.ByteOrder, what string) (uint32, error) {
	var v uint32
	if err := binary.Read(d.r, order, &v); err != nil {
		return 0, fmt.Errorf("%w: reading %s", ErrTruncatedInput, what)
	}
	return v, nil
}

// count reads a length prefix and checks that the remaining bytes can hold
// that many elements of at least elemSize bytes each.
func (d *decoder) count(order binary.ByteOrder, elemSize int, what string) (uint32, error) {
	n, err := d.uint32(order, what)
	if err != nil {
		return 0, err
	}
	if uint64(n)*uint64(elemSize) > uint64(d.r.Len()) {
		return 0, fmt.Errorf("%w: %s %d exceeds %d remaining bytes", ErrTruncatedInput, what, n, d.r.Len())
	}
	return n, nil
}

func (d *decoder) coord(order binary.ByteOrder) (Coord, error) {
	var xy [2]float64
	if err := binary.Read(d.r, order, &xy); err != nil {
		return Coord{}, fmt.Errorf("%w: reading coordinate", ErrTruncatedInput)
	}
	return Coord{X: xy[0], Y: xy[1]}, nil
}

func (d *decoder) coords(order binary.ByteOrder) ([]Coord, error) {
	n, err := d.count(order, coordSize, "point count")
	if err != nil {
		return nil, err
	}
	points := make([]Coord, n)
	for i := range points {
		if points[i], err = d.coord(order); err != nil {
			return nil, err
		}
	}
	return points, nil
}

func (d *decoder) rings(order binary.ByteOrder) ([][]Coord, error) {
	n, err := d.count(order, 4, "ring count")
	if err != nil {
		return nil, err
	}
	rings := make([][]Coord, n)
	for i := range rings {
		if rings[i], err = d.coords(order); err != nil {
			return nil, err
		}
	}
	return rings, nil
}
