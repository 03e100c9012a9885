package geom

import "errors"

// Decode error kinds. Returned errors wrap one of these, test with errors.Is.
var (
	ErrInvalidHex              = errors.New("invalid hex")
	ErrInvalidByteOrder        = errors.New("invalid byte order flag")
	ErrUnsupportedGeometryType = errors.New("unsupported geometry type")
	ErrTruncatedInput          = errors.New("truncated input")
	ErrTrailingBytes           = errors.New("trailing bytes after geometry")
	ErrInvalidWKT              = errors.New("invalid WKT")
)
