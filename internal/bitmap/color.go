package bitmap

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseHex parses "#rrggbb" (the leading '#' is optional) into an opaque
// pixel. The literal "clear" yields the transparent pixel.
func ParseHex(s string) (Pixel, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "clear") {
		return Clear, nil
	}
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return Pixel{}, fmt.Errorf("invalid color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Pixel{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Hex(uint32(v)), nil
}
