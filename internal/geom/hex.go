package geom

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// TrimHexPrefix strips a leading 0x or 0X
func TrimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

// IsHexDigits reports whether s is non-empty and made of hex digits only
func IsHexDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

// DecodeHex converts an optionally 0x-prefixed hex string to bytes.
// The digits must be non-empty and of even length.
func DecodeHex(s string) ([]byte, error) {
	digits := TrimHexPrefix(s)
	if !IsHexDigits(digits) {
		return nil, fmt.Errorf("%w: non-hex characters or empty input", ErrInvalidHex)
	}
	if len(digits)%2 != 0 {
		return nil, fmt.Errorf("%w: odd length %d", ErrInvalidHex, len(digits))
	}
	return hex.DecodeString(digits)
}

// EncodeHex renders bytes as upper-case hex with a 0x prefix
func EncodeHex(b []byte) string {
	return "0x" + strings.ToUpper(hex.EncodeToString(b))
}
