package vis

import (
	"fmt"
	"strconv"
	"strings"
)

// parseHexColor parses "#rrggbb" into components. Malformed input
// returns ok=false; callers fall back to the unblended base color.
func parseHexColor(s string) (r, g, b uint8, ok bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}

// BlendHex linearly interpolates two "#rrggbb" colors. t is clamped to
// [0, 1]: t=0 yields base, t=1 yields target. Unparseable colors return
// base unchanged.
func BlendHex(base, target string, t float64) string {
	if t <= 0 {
		return base
	}
	if t > 1 {
		t = 1
	}
	br, bg, bb, ok := parseHexColor(base)
	if !ok {
		return base
	}
	tr, tg, tb, ok := parseHexColor(target)
	if !ok {
		return base
	}
	lerp := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
	}
	return fmt.Sprintf("#%02x%02x%02x", lerp(br, tr), lerp(bg, tg), lerp(bb, tb))
}
