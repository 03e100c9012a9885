package geom

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// keywords accepted at the head of a WKT geometry. GEOMETRY and GEOGRAPHY are
// generic column-type spellings some engines also accept as WKT tags.
var wktKeywords = map[string]bool{
	"POINT":              true,
	"LINESTRING":         true,
	"POLYGON":            true,
	"MULTIPOINT":         true,
	"MULTILINESTRING":    true,
	"MULTIPOLYGON":       true,
	"GEOMETRYCOLLECTION": true,
	"GEOMETRY":           true,
	"GEOGRAPHY":          true,
}

// IsWKTKeyword reports whether word (any case) tags a WKT geometry
func IsWKTKeyword(word string) bool {
	return wktKeywords[strings.ToUpper(word)]
}

// wktNode is one element of a parsed WKT body: a tagged geometry, a
// parenthesised list, or a coordinate tuple.
type wktNode struct {
	keyword string
	empty   bool
	coord   []float64
	items   []wktNode
}

func (n wktNode) isList() bool {
	return n.keyword == "" && n.coord == nil
}

// WellFormedWKT reports whether s is a syntactically valid WKT geometry:
// a keyword, then a parenthesised body of coordinate tuples (2 or 3
// ordinates), nested lists and, inside collections, further tagged
// geometries. Structure is not checked against the keyword.
func WellFormedWKT(s string) bool {
	_, err := parseWKTTree(s)
	return err == nil
}

// ParseWKT reads one of the seven WKT geometry forms. A third ordinate is
// accepted and dropped.
func ParseWKT(s string) (Geometry, error) {
	node, err := parseWKTTree(s)
	if err != nil {
		return nil, err
	}
	return node.geometry()
}

func parseWKTTree(s string) (wktNode, error) {
	p := &wktParser{src: s}
	node, err := p.tagged()
	if err != nil {
		return wktNode{}, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return wktNode{}, p.errorf("unexpected %q after geometry", p.src[p.pos:])
	}
	return node, nil
}

type wktParser struct {
	src string
	pos int
}

func (p *wktParser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w at offset %d: %s", ErrInvalidWKT, p.pos, fmt.Sprintf(format, args...))
}

func (p *wktParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *wktParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *wktParser) word() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && isLetter(p.src[p.pos]) {
		p.pos++
	}
	return strings.ToUpper(p.src[start:p.pos])
}

// tagged parses KEYWORD [Z|M|ZM] ( body ) or KEYWORD EMPTY
func (p *wktParser) tagged() (wktNode, error) {
	kw := p.word()
	if !wktKeywords[kw] {
		return wktNode{}, p.errorf("unknown geometry keyword %q", kw)
	}

	if isLetter(p.peek()) {
		save := p.pos
		switch p.word() {
		case "EMPTY":
			return wktNode{keyword: kw, empty: true}, nil
		case "Z", "M", "ZM":
		default:
			p.pos = save
			return wktNode{}, p.errorf("expected '(' after %s", kw)
		}
	}

	list, err := p.list()
	if err != nil {
		return wktNode{}, err
	}
	return wktNode{keyword: kw, items: list.items}, nil
}

// list parses ( item {, item} )
func (p *wktParser) list() (wktNode, error) {
	if p.peek() != '(' {
		return wktNode{}, p.errorf("expected '('")
	}
	p.pos++

	var node wktNode
	for {
		item, err := p.item()
		if err != nil {
			return wktNode{}, err
		}
		node.items = append(node.items, item)

		switch p.peek() {
		case ',':
			p.pos++
		case ')':
			p.pos++
			return node, nil
		default:
			return wktNode{}, p.errorf("expected ',' or ')'")
		}
	}
}

func (p *wktParser) item() (wktNode, error) {
	c := p.peek()
	switch {
	case c == '(':
		return p.list()
	case isLetter(c):
		save := p.pos
		if p.word() == "EMPTY" {
			return wktNode{empty: true}, nil
		}
		p.pos = save
		return p.tagged()
	default:
		return p.tuple()
	}
}

// tuple parses 2 or 3 whitespace separated numbers
func (p *wktParser) tuple() (wktNode, error) {
	var ords []float64
	for {
		c := p.peek()
		if !isNumberStart(c) {
			break
		}
		start := p.pos
		for p.pos < len(p.src) && isNumberByte(p.src[p.pos]) {
			p.pos++
		}
		tok := p.src[start:p.pos]
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			p.pos = start
			return wktNode{}, p.errorf("bad number %q", tok)
		}
		ords = append(ords, v)
	}
	if len(ords) < 2 || len(ords) > 3 {
		return wktNode{}, p.errorf("coordinate needs 2 or 3 ordinates, got %d", len(ords))
	}
	return wktNode{coord: ords}, nil
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isNumberStart(c byte) bool {
	return (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.'
}

func isNumberByte(c byte) bool {
	return isNumberStart(c) || c == 'e' || c == 'E'
}

func (n wktNode) geometry() (Geometry, error) {
	switch n.keyword {
	case "POINT":
		if n.empty {
			return Point{X: math.NaN(), Y: math.NaN()}, nil
		}
		if len(n.items) != 1 || n.items[0].coord == nil {
			return nil, fmt.Errorf("%w: POINT needs exactly one coordinate", ErrInvalidWKT)
		}
		c := n.items[0].toCoord()
		return Point{X: c.X, Y: c.Y}, nil

	case "LINESTRING":
		points, err := coordsOf(n)
		if err != nil {
			return nil, err
		}
		return LineString{Points: points}, nil

	case "POLYGON":
		rings, err := ringsOf(n)
		if err != nil {
			return nil, err
		}
		return Polygon{Rings: rings}, nil

	case "MULTIPOINT":
		// Both MULTIPOINT(1 2, 3 4) and MULTIPOINT((1 2), (3 4)) are in use
		points := make([]Coord, 0, len(n.items))
		for _, item := range n.items {
			switch {
			case item.coord != nil:
				points = append(points, item.toCoord())
			case item.isList() && len(item.items) == 1 && item.items[0].coord != nil:
				points = append(points, item.items[0].toCoord())
			default:
				return nil, fmt.Errorf("%w: bad MULTIPOINT member", ErrInvalidWKT)
			}
		}
		return MultiPoint{Points: points}, nil

	case "MULTILINESTRING":
		lines, err := ringsOf(n)
		if err != nil {
			return nil, err
		}
		return MultiLineString{Lines: lines}, nil

	case "MULTIPOLYGON":
		polygons := make([][][]Coord, 0, len(n.items))
		for _, item := range n.items {
			if !item.isList() {
				return nil, fmt.Errorf("%w: bad MULTIPOLYGON member", ErrInvalidWKT)
			}
			rings, err := ringsOf(item)
			if err != nil {
				return nil, err
			}
			polygons = append(polygons, rings)
		}
		return MultiPolygon{Polygons: polygons}, nil

	case "GEOMETRYCOLLECTION":
		members := make([]Geometry, 0, len(n.items))
		for _, item := range n.items {
			if item.keyword == "" {
				return nil, fmt.Errorf("%w: collection member is not a geometry", ErrInvalidWKT)
			}
			member, err := item.geometry()
			if err != nil {
				return nil, err
			}
			members = append(members, member)
		}
		return GeometryCollection{Geometries: members}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnsupportedGeometryType, n.keyword)
}

func (n wktNode) toCoord() Coord {
	return Coord{X: n.coord[0], Y: n.coord[1]}
}

func coordsOf(n wktNode) ([]Coord, error) {
	if n.empty {
		return nil, nil
	}
	coords := make([]Coord, 0, len(n.items))
	for _, item := range n.items {
		if item.coord == nil {
			return nil, fmt.Errorf("%w: expected coordinate", ErrInvalidWKT)
		}
		coords = append(coords, item.toCoord())
	}
	return coords, nil
}

func ringsOf(n wktNode) ([][]Coord, error) {
	if n.empty {
		return nil, nil
	}
	rings := make([][]Coord, 0, len(n.items))
	for _, item := range n.items {
		if !item.isList() {
			return nil, fmt.Errorf("%w: expected coordinate list", ErrInvalidWKT)
		}
		ring, err := coordsOf(item)
		if err != nil {
			return nil, err
		}
		rings = append(rings, ring)
	}
	return rings, nil
}
