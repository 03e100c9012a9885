package spatial

import "strings"

// sqlCall is a single function call expression NAME(args)
type sqlCall struct {
	name string
	args string
}

// parseSQLCall reads an identifier followed by a parenthesised argument list
// that closes at the end of the text. Parentheses inside quoted literals are
// ignored.
func parseSQLCall(text string) (sqlCall, bool) {
	s := strings.TrimSpace(text)

	i := 0
	for i < len(s) && isIdentByte(s[i]) {
		i++
	}
	if i == 0 {
		return sqlCall{}, false
	}
	name := s[:i]

	for i < len(s) && isSpace(s[i]) {
		i++
	}
	if i >= len(s) || s[i] != '(' {
		return sqlCall{}, false
	}

	end, ok := matchParen(s, i)
	if !ok || end != len(s)-1 {
		return sqlCall{}, false
	}
	return sqlCall{name: name, args: s[i+1 : end]}, true
}

// matchParen returns the index of the ')' closing the '(' at open
func matchParen(s string, open int) (int, bool) {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '\'', '"':
			end, ok := skipQuoted(s, i)
			if !ok {
				return 0, false
			}
			i = end
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// skipQuoted returns the index of the quote closing the literal opened at
// start; a doubled quote is an escaped quote.
func skipQuoted(s string, start int) (int, bool) {
	q := s[start]
	for i := start + 1; i < len(s); i++ {
		if s[i] != q {
			continue
		}
		if i+1 < len(s) && s[i+1] == q {
			i++
			continue
		}
		return i, true
	}
	return 0, false
}

// isGeometryConstructor reports whether name is ST_<something> or GeomFromText
func isGeometryConstructor(name string) bool {
	upper := strings.ToUpper(name)
	return (strings.HasPrefix(upper, "ST_") && len(upper) > 3) || upper == "GEOMFROMTEXT"
}

// wktArgument reads the argument list of a constructor call:
// a quoted WKT literal optionally followed by a numeric SRID.
func wktArgument(args string) (wkt string, ok bool) {
	s := strings.TrimSpace(args)
	if s == "" || (s[0] != '\'' && s[0] != '"') {
		return "", false
	}
	end, ok := skipQuoted(s, 0)
	if !ok {
		return "", false
	}
	q := string(s[0])
	wkt = strings.ReplaceAll(s[1:end], q+q, q)

	rest := strings.TrimSpace(s[end+1:])
	if rest == "" {
		return wkt, true
	}
	if rest[0] != ',' {
		return "", false
	}
	if !isInteger(strings.TrimSpace(rest[1:])) {
		return "", false
	}
	return wkt, true
}

func isInteger(s string) bool {
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isIdentByte(c byte) bool {
	return c == '_' || isLetter(c) || (c >= '0' && c <= '9')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
