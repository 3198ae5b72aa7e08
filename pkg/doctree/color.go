package doctree

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var hexPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

var rgbPattern = regexp.MustCompile(`(?i)^rgba?\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*(?:,\s*([\d.]+)\s*)?\)$`)

// NormalizeColor converts a hex (#rgb, #rrggbb) or rgb()/rgba() color to
// lowercase #rrggbb. Fully transparent colors count as no color.
func NormalizeColor(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	if strings.HasPrefix(value, "#") {
		if !hexPattern.MatchString(value) {
			return "", false
		}
		c, err := colorful.Hex(strings.ToLower(value))
		if err != nil {
			return "", false
		}
		return c.Hex(), true
	}
	r, g, b, ok := parseRGB(value)
	if !ok {
		return "", false
	}
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}.Hex(), true
}

// RGBString renders a color in the rgb(r, g, b) form a style resolver reports.
func RGBString(value string) string {
	hex, ok := NormalizeColor(value)
	if !ok {
		return ""
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return ""
	}
	r, g, b := c.RGB255()
	return fmt.Sprintf("rgb(%d, %d, %d)", r, g, b)
}

// RGBToHex converts an rgb()/rgba() triplet to lowercase hex, returning ""
// when the value is not a visible triplet.
func RGBToHex(value string) string {
	r, g, b, ok := parseRGB(strings.TrimSpace(value))
	if !ok {
		return ""
	}
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}.Hex()
}

func parseRGB(value string) (uint8, uint8, uint8, bool) {
	m := rgbPattern.FindStringSubmatch(value)
	if m == nil {
		return 0, 0, 0, false
	}
	var out [3]uint8
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(m[i+1])
		if err != nil || n > 255 {
			return 0, 0, 0, false
		}
		out[i] = uint8(n)
	}
	if m[4] != "" {
		alpha, err := strconv.ParseFloat(m[4], 64)
		if err != nil || alpha == 0 {
			return 0, 0, 0, false
		}
	}
	return out[0], out[1], out[2], true
}
