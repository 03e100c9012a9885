// Package render draws decoded geometry values into PNG previews.
package render

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"sort"
	"strings"

	"github.com/kartoza/kartoza-pg-geom/internal/geom"
	"github.com/kartoza/kartoza-pg-geom/internal/spatial"
)

// ErrNothingToRender is returned when no input value produced a drawable geometry
var ErrNothingToRender = errors.New("no valid geometries to render")

// Renderer renders geometries to PNG images
type Renderer struct {
	Width      int
	Height     int
	Padding    int
	Background color.Color
	LineColor  color.Color
	FillColor  color.Color
	PointColor color.Color
}

// NewRenderer creates a renderer with the default palette
func NewRenderer(width, height int) *Renderer {
	return &Renderer{
		Width:      width,
		Height:     height,
		Padding:    10,
		Background: color.RGBA{30, 30, 30, 255},
		LineColor:  color.RGBA{221, 160, 54, 255}, // Kartoza orange
		FillColor:  color.RGBA{221, 160, 54, 80},
		PointColor: color.RGBA{86, 156, 214, 255}, // Kartoza blue
	}
}

// ParseValue reads a raw column or field value: WKT, a constructor call
// wrapping WKT, or WKB hex in either dialect with or without 0x.
func ParseValue(value string) (geom.Geometry, error) {
	v := strings.TrimSpace(value)
	if spatial.IsRawWKT(v) {
		return geom.ParseWKT(v)
	}
	if wkt, ok := spatial.ExtractWKTFromSQL(v); ok {
		return geom.ParseWKT(wkt)
	}
	return geom.UnmarshalHex(v)
}

// RenderValues parses every value and renders the ones that parse. The
// number of skipped values is returned alongside the PNG.
func (r *Renderer) RenderValues(values []string) ([]byte, int, error) {
	var geoms []geom.Geometry
	skipped := 0
	for _, v := range values {
		g, err := ParseValue(v)
		if err != nil {
			skipped++
			continue
		}
		geoms = append(geoms, g)
	}

	pngData, err := r.Render(geoms)
	return pngData, skipped, err
}

// Render draws geoms scaled to fit the image and returns PNG bytes
func (r *Renderer) Render(geoms []geom.Geometry) ([]byte, error) {
	minX, minY, maxX, maxY, ok := bounds(geoms)
	if !ok {
		return nil, ErrNothingToRender
	}

	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(r.Background), image.Point{}, draw.Src)

	dataWidth := maxX - minX
	dataHeight := maxY - minY

	drawWidth := float64(r.Width - 2*r.Padding)
	drawHeight := float64(r.Height - 2*r.Padding)

	scale := math.Min(drawWidth/dataWidth, drawHeight/dataHeight)
	offsetX := float64(r.Padding) + (drawWidth-dataWidth*scale)/2
	offsetY := float64(r.Padding) + (drawHeight-dataHeight*scale)/2

	transform := func(c geom.Coord) (int, int) {
		x := int(offsetX + (c.X-minX)*scale)
		y := int(float64(r.Height) - offsetY - (c.Y-minY)*scale) // y grows downwards
		return x, y
	}

	for _, g := range geoms {
		r.draw(img, g, transform)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderBase64 is RenderValues with the PNG base64 encoded
func (r *Renderer) RenderBase64(values []string) (string, error) {
	pngData, _, err := r.RenderValues(values)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(pngData), nil
}

// bounds returns the padded extent of all coordinates; ok is false when
// there are none (nothing but empty geometries).
func bounds(geoms []geom.Geometry) (minX, minY, maxX, maxY float64, ok bool) {
	minX, minY = math.MaxFloat64, math.MaxFloat64
	maxX, maxY = -math.MaxFloat64, -math.MaxFloat64

	for _, g := range geoms {
		geom.Walk(g, func(c geom.Coord) {
			if math.IsNaN(c.X) || math.IsNaN(c.Y) || math.IsInf(c.X, 0) || math.IsInf(c.Y, 0) {
				return
			}
			ok = true
			minX = math.Min(minX, c.X)
			maxX = math.Max(maxX, c.X)
			minY = math.Min(minY, c.Y)
			maxY = math.Max(maxY, c.Y)
		})
	}
	if !ok {
		return 0, 0, 0, 0, false
	}

	// 5% margin, or one unit around a single point
	buffer := math.Max(maxX-minX, maxY-minY) * 0.05
	if buffer == 0 {
		buffer = 1
	}
	return minX - buffer, minY - buffer, maxX + buffer, maxY + buffer, true
}

type transformFunc func(geom.Coord) (int, int)

func (r *Renderer) draw(img *image.RGBA, g geom.Geometry, transform transformFunc) {
	switch g := g.(type) {
	case geom.Point:
		if !g.IsEmpty() {
			x, y := transform(g.Coord())
			r.drawPoint(img, x, y)
		}
	case geom.LineString:
		r.drawPath(img, g.Points, transform)
	case geom.Polygon:
		r.drawPolygon(img, g.Rings, transform)
	case geom.MultiPoint:
		for _, c := range g.Points {
			x, y := transform(c)
			r.drawPoint(img, x, y)
		}
	case geom.MultiLineString:
		for _, line := range g.Lines {
			r.drawPath(img, line, transform)
		}
	case geom.MultiPolygon:
		for _, poly := range g.Polygons {
			r.drawPolygon(img, poly, transform)
		}
	case geom.GeometryCollection:
		for _, member := range g.Geometries {
			r.draw(img, member, transform)
		}
	}
}

func (r *Renderer) set(img *image.RGBA, x, y int, c color.Color) {
	if x >= 0 && x < r.Width && y >= 0 && y < r.Height {
		img.Set(x, y, c)
	}
}

func (r *Renderer) drawPoint(img *image.RGBA, x, y int) {
	const radius = 3
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				r.set(img, x+dx, y+dy, r.PointColor)
			}
		}
	}
}

func (r *Renderer) drawPath(img *image.RGBA, coords []geom.Coord, transform transformFunc) {
	for i := 0; i+1 < len(coords); i++ {
		x1, y1 := transform(coords[i])
		x2, y2 := transform(coords[i+1])
		r.drawLine(img, x1, y1, x2, y2, r.LineColor)
	}
}

// drawPolygon fills the exterior ring and outlines every ring
func (r *Renderer) drawPolygon(img *image.RGBA, rings [][]geom.Coord, transform transformFunc) {
	if len(rings) > 0 && len(rings[0]) > 2 {
		r.fillRing(img, rings[0], transform)
	}

	for _, ring := range rings {
		r.drawPath(img, ring, transform)
		if len(ring) > 2 {
			x1, y1 := transform(ring[len(ring)-1])
			x2, y2 := transform(ring[0])
			r.drawLine(img, x1, y1, x2, y2, r.LineColor)
		}
	}
}

// fillRing is an even-odd scanline fill
func (r *Renderer) fillRing(img *image.RGBA, ring []geom.Coord, transform transformFunc) {
	type pixel struct{ x, y int }
	pts := make([]pixel, len(ring))
	minY, maxY := r.Height, 0
	for i, c := range ring {
		pts[i].x, pts[i].y = transform(c)
		if pts[i].y < minY {
			minY = pts[i].y
		}
		if pts[i].y > maxY {
			maxY = pts[i].y
		}
	}

	var xs []int
	for y := minY; y <= maxY; y++ {
		xs = xs[:0]
		for i := range pts {
			a, b := pts[i], pts[(i+1)%len(pts)]
			if (a.y <= y && y < b.y) || (b.y <= y && y < a.y) {
				xs = append(xs, a.x+(y-a.y)*(b.x-a.x)/(b.y-a.y))
			}
		}
		sort.Ints(xs)

		for i := 0; i+1 < len(xs); i += 2 {
			for x := xs[i]; x <= xs[i+1]; x++ {
				r.set(img, x, y, r.FillColor)
			}
		}
	}
}

// Bresenham's line algorithm
func (r *Renderer) drawLine(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 >= x2 {
		sx = -1
	}
	if y1 >= y2 {
		sy = -1
	}
	err := dx - dy

	for {
		r.set(img, x1, y1, c)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
