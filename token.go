package cellr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// tokenPattern matches the hexadecimal cell token form: one to sixteen hex
// digits, either case. Matching the pattern does not imply the decoded id
// is structurally valid.
var tokenPattern = regexp.MustCompile(`^[0-9a-fA-F]{1,16}$`)

// Token returns the compact hexadecimal form of the id: the full sixteen
// hex digits with trailing zeros stripped. Leading zeros are kept, so
// distinct ids never collapse onto the same token.
func (id CellID) Token() string {
	return strings.TrimRight(fmt.Sprintf("%016x", uint64(id)), "0")
}

// ParseToken decodes a hexadecimal token into a cell id, restoring the
// trailing zeros stripped by Token. Both malformed strings and tokens that
// decode to a structurally invalid id are rejected.
func ParseToken(token string) (CellID, error) {
	if !tokenPattern.MatchString(token) {
		return 0, fmt.Errorf("token %q: %w", token, ErrInvalidToken)
	}

	padded := token + strings.Repeat("0", 16-len(token))
	value, err := strconv.ParseUint(padded, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("token %q: %w", token, ErrInvalidToken)
	}

	id := CellID(value)
	if !id.Valid() {
		return 0, fmt.Errorf("token %q decodes to a malformed id: %w", token, ErrInvalidToken)
	}

	return id, nil
}

// ValidToken reports whether token decodes to a valid cell id.
func ValidToken(token string) bool {
	_, err := ParseToken(token)
	return err == nil
}
