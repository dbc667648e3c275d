package dispute

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedToken is returned when a hex token does not encode a single byte.
var ErrMalformedToken = errors.New("malformed hex byte token")

const hexDigits = "0123456789abcdef"

// BufferToInput encodes bytes as the token sequence the file-storage contract stores:
// one "0x"-prefixed, zero-padded, lowercase two-digit token per byte.
func BufferToInput(buf []byte) []string {
	tokens := make([]string, len(buf))
	for i, b := range buf {
		tokens[i] = string([]byte{'0', 'x', hexDigits[b>>4], hexDigits[b&0x0f]})
	}
	return tokens
}

// InputToBuffer decodes a token sequence produced by BufferToInput back into bytes.
// Tokens may omit the "0x" prefix and use either case; anything that is not a
// single byte is rejected.
func InputToBuffer(tokens []string) ([]byte, error) {
	buf := make([]byte, len(tokens))
	for i, token := range tokens {
		digits := strings.TrimPrefix(strings.TrimPrefix(token, "0x"), "0X")
		if len(digits) == 0 || len(digits) > 2 {
			return nil, fmt.Errorf("token %d (%q): %w", i, token, ErrMalformedToken)
		}
		v, err := strconv.ParseUint(digits, 16, 8)
		if err != nil {
			return nil, fmt.Errorf("token %d (%q): %w", i, token, ErrMalformedToken)
		}
		buf[i] = byte(v)
	}
	return buf, nil
}
