package geom

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"math"
	"reflect"
	"testing"

	gogeom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"
)

const (
	pointHexLE     = "0101000000000000000000F03F0000000000000040"
	pointHexSRID0  = "00000000" + pointHexLE
	pointHexSRID4k = "E6100000" + pointHexLE
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad fixture %q: %v", s, err)
	}
	return b
}

func TestDecodePointLittleEndian(t *testing.T) {
	g, err := Decode(mustHex(t, pointHexLE))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if g != (Point{X: 1, Y: 2}) {
		t.Errorf("expected POINT(1 2), got %v", g)
	}
}

func TestDecodePointBigEndian(t *testing.T) {
	g, err := Decode(mustHex(t, "00000000013FF00000000000004000000000000000"))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if g != (Point{X: 1, Y: 2}) {
		t.Errorf("expected POINT(1 2), got %v", g)
	}
}

const (
	// SRID 0, a LineString claiming 3 points with only 2 present
	truncatedLineSRID0 = "00000000" + "010200000003000000" + "0000000000000000" + "0000000000000000" + "000000000000F03F" + "000000000000F03F"
)

func TestUnmarshalDialects(t *testing.T) {
	tests := []struct {
		name string
		hex  string
	}{
		{"standard little endian", pointHexLE},
		{"standard big endian", "00000000013FF00000000000004000000000000000"},
		{"srid 0 prefix", pointHexSRID0},
		{"srid 4326 prefix", pointHexSRID4k},
		{"srid 0 prefix with trailing bytes", pointHexSRID0 + "FFFF"},
		{"srid 4326 prefix with trailing bytes", pointHexSRID4k + "FFFF"},
		{"standard little endian with trailing bytes", pointHexLE + "FFFF"},
	}

	for _, tt := range tests {
		g, err := Unmarshal(mustHex(t, tt.hex))
		if err != nil {
			t.Errorf("%s: Unmarshal failed: %v", tt.name, err)
			continue
		}
		if got := FormatWKT(g); got != "POINT(1 2)" {
			t.Errorf("%s: expected POINT(1 2), got %s", tt.name, got)
		}
	}
}

func TestUnmarshalTruncatedPrefixedBody(t *testing.T) {
	g, err := Unmarshal(mustHex(t, truncatedLineSRID0))
	if !errors.Is(err, ErrTruncatedInput) {
		t.Errorf("expected ErrTruncatedInput, got %v (geometry %v)", err, g)
	}
}

func TestSplitSRID(t *testing.T) {
	srid, body, ok := SplitSRID(mustHex(t, pointHexSRID4k))
	if !ok {
		t.Fatal("expected SRID prefix to be detected")
	}
	if srid != 4326 {
		t.Errorf("expected SRID 4326, got %d", srid)
	}
	if len(body) != 21 {
		t.Errorf("expected 21 body bytes, got %d", len(body))
	}

	// offset 4 of a standard BE line string is the type code's low byte, 2
	lineBE := mustHex(t, "000000000200000002"+"0000000000000000"+"0000000000000000"+"3FF0000000000000"+"3FF0000000000000")
	if _, _, ok := SplitSRID(lineBE); ok {
		t.Error("expected no SRID prefix for big-endian line string")
	}

	// offset 4 of a standard LE line string is 0, so the heuristic fires,
	// but Unmarshal still reads it from offset 0
	lineLE := mustHex(t, "010200000002000000"+"0000000000000000"+"0000000000000000"+"000000000000F03F"+"000000000000F03F")
	if _, _, ok := SplitSRID(lineLE); !ok {
		t.Error("expected the SRID heuristic to fire for little-endian line string")
	}
	g, err := Unmarshal(lineLE)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got := FormatWKT(g); got != "LINESTRING(0 0, 1 1)" {
		t.Errorf("expected LINESTRING(0 0, 1 1), got %s", got)
	}

	if HasSRIDPrefix([]byte{0, 0, 0, 0}) {
		t.Error("expected no SRID prefix for a 4 byte buffer")
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"single byte", "00", ErrTruncatedInput},
		{"empty", "", ErrTruncatedInput},
		{"header only", "0101000000", ErrTruncatedInput},
		{"half a coordinate", "0101000000000000000000F03F", ErrTruncatedInput},
		{"bad byte order", "0201000000", ErrInvalidByteOrder},
		{"type zero", "0100000000", ErrUnsupportedGeometryType},
		{"type eight", "0108000000", ErrUnsupportedGeometryType},
		{"huge point count", "0102000000FFFFFFFF", ErrTruncatedInput},
		{"huge ring count", "0103000000FFFFFF7F", ErrTruncatedInput},
		{"multipoint holding a line", "010400000001000000" + "010200000000000000" + "000000000000000000000000", ErrUnsupportedGeometryType},
	}

	for _, tt := range tests {
		_, err := Decode(mustHex(t, tt.data))
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
	}
}

func TestDecodeTrailingBytes(t *testing.T) {
	data := mustHex(t, pointHexLE+"FFFF")

	if _, err := Decode(data); err != nil {
		t.Errorf("Decode should ignore trailing bytes, got %v", err)
	}
	if _, err := DecodeStrict(data); !errors.Is(err, ErrTrailingBytes) {
		t.Errorf("expected ErrTrailingBytes, got %v", err)
	}
}

func TestDecodeMixedByteOrderMembers(t *testing.T) {
	// LE collection holding a BE point and an LE point
	data := mustHex(t, "010700000002000000"+
		"00000000013FF00000000000004000000000000000"+
		"0101000000"+"0000000000000840"+"0000000000001040")
	g, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	want := GeometryCollection{Geometries: []Geometry{Point{X: 1, Y: 2}, Point{X: 3, Y: 4}}}
	if !reflect.DeepEqual(g, want) {
		t.Errorf("expected %v, got %v", want, g)
	}
}

func TestDecodeAgainstGoGeom(t *testing.T) {
	tests := []struct {
		name string
		geom gogeom.T
		want Geometry
	}{
		{
			name: "point",
			geom: gogeom.NewPoint(gogeom.XY).MustSetCoords(gogeom.Coord{-71.06, 42.36}),
			want: Point{X: -71.06, Y: 42.36},
		},
		{
			name: "linestring",
			geom: gogeom.NewLineString(gogeom.XY).MustSetCoords([]gogeom.Coord{{0, 0}, {1, 1}, {2, 0}}),
			want: LineString{Points: []Coord{{0, 0}, {1, 1}, {2, 0}}},
		},
		{
			name: "polygon with hole",
			geom: gogeom.NewPolygon(gogeom.XY).MustSetCoords([][]gogeom.Coord{
				{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
				{{2, 2}, {3, 2}, {3, 3}, {2, 2}},
			}),
			want: Polygon{Rings: [][]Coord{
				{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
				{{2, 2}, {3, 2}, {3, 3}, {2, 2}},
			}},
		},
		{
			name: "multipoint",
			geom: gogeom.NewMultiPoint(gogeom.XY).MustSetCoords([]gogeom.Coord{{1, 2}, {3, 4}}),
			want: MultiPoint{Points: []Coord{{1, 2}, {3, 4}}},
		},
		{
			name: "multilinestring",
			geom: gogeom.NewMultiLineString(gogeom.XY).MustSetCoords([][]gogeom.Coord{{{0, 0}, {1, 1}}, {{2, 2}, {3, 3}}}),
			want: MultiLineString{Lines: [][]Coord{{{0, 0}, {1, 1}}, {{2, 2}, {3, 3}}}},
		},
		{
			name: "multipolygon",
			geom: gogeom.NewMultiPolygon(gogeom.XY).MustSetCoords([][][]gogeom.Coord{
				{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}},
				{{{5, 5}, {6, 5}, {6, 6}, {5, 5}}},
			}),
			want: MultiPolygon{Polygons: [][][]Coord{
				{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}},
				{{{5, 5}, {6, 5}, {6, 6}, {5, 5}}},
			}},
		},
	}

	for _, tt := range tests {
		for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
			data, err := wkb.Marshal(tt.geom, order)
			if err != nil {
				t.Fatalf("%s: fixture marshal failed: %v", tt.name, err)
			}
			got, err := Unmarshal(data)
			if err != nil {
				t.Errorf("%s (%v): Unmarshal failed: %v", tt.name, order, err)
				continue
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("%s (%v): expected %v, got %v", tt.name, order, tt.want, got)
			}
		}
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	srid := uint32(4326)
	geoms := []Geometry{
		Point{X: 1, Y: 2},
		LineString{Points: []Coord{{0, 0}, {1.5, -2.25}}},
		Polygon{Rings: [][]Coord{{{0, 0}, {4, 0}, {4, 4}, {0, 0}}}},
		MultiPoint{Points: []Coord{{1, 2}, {3, 4}}},
		MultiLineString{Lines: [][]Coord{{{0, 0}, {1, 1}}}},
		MultiPolygon{Polygons: [][][]Coord{{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}}},
		GeometryCollection{Geometries: []Geometry{
			Point{X: 1, Y: 2},
			LineString{Points: []Coord{{0, 0}, {1, 1}}},
		}},
	}

	for _, g := range geoms {
		for _, prefix := range []*uint32{nil, &srid} {
			data, err := Encode(g, prefix, binary.LittleEndian)
			if err != nil {
				t.Fatalf("Encode(%v) failed: %v", g, err)
			}
			got, err := Unmarshal(data)
			if err != nil {
				t.Errorf("Unmarshal(Encode(%v)) failed: %v", g, err)
				continue
			}
			if !reflect.DeepEqual(got, g) {
				t.Errorf("round trip: expected %v, got %v", g, got)
			}
		}
	}
}

func TestEncodeToHex(t *testing.T) {
	got, err := EncodeToHex(Point{X: 1, Y: 2}, nil, binary.LittleEndian)
	if err != nil {
		t.Fatalf("EncodeToHex failed: %v", err)
	}
	if got != "0x"+pointHexLE {
		t.Errorf("expected 0x%s, got %s", pointHexLE, got)
	}
}

func TestEmptyPoint(t *testing.T) {
	p := Point{X: math.NaN(), Y: math.NaN()}
	if !p.IsEmpty() {
		t.Error("expected NaN point to be empty")
	}
	if got := FormatWKT(p); got != "POINT EMPTY" {
		t.Errorf("expected POINT EMPTY, got %s", got)
	}
}
