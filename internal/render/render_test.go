package render

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image/png"
	"strings"
	"testing"

	"github.com/kartoza/kartoza-pg-geom/internal/geom"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"wkt", "POINT(1 2)", "POINT(1 2)"},
		{"constructor", "ST_GeomFromText('LINESTRING(0 0, 1 1)', 4326)", "LINESTRING(0 0, 1 1)"},
		{"wkb hex", "0x0101000000000000000000F03F0000000000000040", "POINT(1 2)"},
		{"bare wkb hex", "0101000000000000000000F03F0000000000000040", "POINT(1 2)"},
		{"srid prefixed", "0x000000000101000000000000000000F03F0000000000000040", "POINT(1 2)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ParseValue(tt.value)
			if err != nil {
				t.Fatalf("ParseValue failed: %v", err)
			}
			if got := geom.FormatWKT(g); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}

	if _, err := ParseValue("hello"); err == nil {
		t.Error("expected error for non-geometry value")
	}
}

func TestRenderPolygon(t *testing.T) {
	r := NewRenderer(100, 80)
	data, skipped, err := r.RenderValues([]string{
		"POLYGON((0 0, 10 0, 10 10, 0 10, 0 0))",
		"not a geometry",
	})
	if err != nil {
		t.Fatalf("RenderValues failed: %v", err)
	}
	if skipped != 1 {
		t.Errorf("expected 1 skipped value, got %d", skipped)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 80 {
		t.Errorf("expected 100x80 image, got %dx%d", b.Dx(), b.Dy())
	}

	bg := r.Background
	br, bgc, bb, _ := bg.RGBA()
	cr, cg, cb, _ := img.At(50, 40).RGBA()
	if cr == br && cg == bgc && cb == bb {
		t.Error("expected polygon interior to be filled")
	}
	cr, cg, cb, _ = img.At(0, 0).RGBA()
	if cr != br || cg != bgc || cb != bb {
		t.Error("expected corner to keep background colour")
	}
}

func TestRenderCollection(t *testing.T) {
	r := NewRenderer(64, 64)
	data, err := r.Render([]geom.Geometry{
		geom.GeometryCollection{Geometries: []geom.Geometry{
			geom.Point{X: 1, Y: 1},
			geom.LineString{Points: []geom.Coord{{X: 0, Y: 0}, {X: 2, Y: 2}}},
		}},
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("output is not a PNG: %v", err)
	}
}

func TestRenderNothing(t *testing.T) {
	r := NewRenderer(64, 64)

	if _, _, err := r.RenderValues([]string{"0x00", "text"}); !errors.Is(err, ErrNothingToRender) {
		t.Errorf("expected ErrNothingToRender, got %v", err)
	}
	if _, err := r.Render([]geom.Geometry{geom.LineString{}}); !errors.Is(err, ErrNothingToRender) {
		t.Errorf("expected ErrNothingToRender for empty geometry, got %v", err)
	}
}

func TestRenderBase64(t *testing.T) {
	r := NewRenderer(32, 32)
	b64, err := r.RenderBase64([]string{"POINT(5 5)"})
	if err != nil {
		t.Fatalf("RenderBase64 failed: %v", err)
	}
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	if !bytes.HasPrefix(raw, []byte("\x89PNG")) {
		t.Error("expected PNG signature")
	}
}

func TestToKittyGraphics(t *testing.T) {
	if got := ToKittyGraphics(""); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}

	single := ToKittyGraphics("abcd")
	if single != "\033_Ga=T,f=100;abcd\033\\" {
		t.Errorf("unexpected single chunk %q", single)
	}

	payload := strings.Repeat("A", kittyChunkSize*2+10)
	out := ToKittyGraphics(payload)
	chunks := strings.Split(strings.TrimSuffix(out, "\033\\"), "\033\\")
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if !strings.HasPrefix(chunks[0], "\033_Ga=T,f=100,m=1;") {
		t.Errorf("unexpected first chunk header %q", chunks[0][:20])
	}
	if !strings.HasPrefix(chunks[1], "\033_Gm=1;") {
		t.Errorf("unexpected middle chunk header %q", chunks[1][:10])
	}
	if !strings.HasPrefix(chunks[2], "\033_Gm=0;") {
		t.Errorf("unexpected last chunk header %q", chunks[2])
	}
}

func TestDetectGeometryColumn(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		sample  []string
		want    int
	}{
		{"by name", []string{"id", "the_geom"}, []string{"1", "x"}, 1},
		{"by wkt value", []string{"id", "shape_text"}, []string{"1", "POINT(1 2)"}, 1},
		{"by hex value", []string{"id", "g"}, []string{"1", "0101000000000000000000F03F0000000000000040"}, 1},
		{"none", []string{"id", "name"}, []string{"1", "Cape Town"}, -1},
		{"null sample", []string{"id", "g"}, []string{"1", "NULL"}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectGeometryColumn(tt.columns, tt.sample); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
