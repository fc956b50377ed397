// Package codec turns color indices and style flags into the escape
// fragments written into prompt strings.
package codec

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// Color is an index into the 256 color palette.
type Color uint8

// Default is the terminal's default color.
const Default Color = 9

var rgbRegex = regexp.MustCompile(`^#([a-fA-F0-9]{2})([a-fA-F0-9]{2})([a-fA-F0-9]{2})$`)

// predefinedColors maps names onto palette indices through the fatih/color
// foreground attributes (FgBlack is 30, so black is index 0).
var predefinedColors = map[string]Color{
	"black":   Color(color.FgBlack - color.FgBlack),
	"red":     Color(color.FgRed - color.FgBlack),
	"green":   Color(color.FgGreen - color.FgBlack),
	"yellow":  Color(color.FgYellow - color.FgBlack),
	"blue":    Color(color.FgBlue - color.FgBlack),
	"magenta": Color(color.FgMagenta - color.FgBlack),
	"cyan":    Color(color.FgCyan - color.FgBlack),
	"white":   Color(color.FgWhite - color.FgBlack),
	"default": Default,
}

// cubeLevels are the channel values of the 6x6x6 color cube.
var cubeLevels = [6]int{0, 95, 135, 175, 215, 255}

// ParseColor converts a configuration value into a Color. Integers,
// integral floats (as decoded from JSON), digit strings, color names and
// #rrggbb strings are accepted.
func ParseColor(v any) (Color, error) {
	switch value := v.(type) {
	case int:
		return fromInt(int64(value))
	case int64:
		return fromInt(value)
	case uint64:
		if value > math.MaxUint8 {
			return 0, fmt.Errorf("color %d out of range 0..255", value)
		}
		return Color(value), nil
	case float64:
		if value != math.Trunc(value) {
			return 0, fmt.Errorf("color %v is not an integer", value)
		}
		return fromInt(int64(value))
	case json.Number:
		n, err := value.Int64()
		if err != nil {
			return 0, fmt.Errorf("color %q is not an integer", value.String())
		}
		return fromInt(n)
	case string:
		return fromString(value)
	default:
		return 0, fmt.Errorf("unsupported color value %v (%T)", v, v)
	}
}

func fromInt(n int64) (Color, error) {
	if n < 0 || n > math.MaxUint8 {
		return 0, fmt.Errorf("color %d out of range 0..255", n)
	}
	return Color(n), nil
}

func fromString(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return fromInt(n)
	}

	if m := rgbRegex.FindStringSubmatch(s); m != nil {
		r, _ := strconv.ParseUint(m[1], 16, 8)
		g, _ := strconv.ParseUint(m[2], 16, 8)
		b, _ := strconv.ParseUint(m[3], 16, 8)
		return Color(16 + 36*nearestLevel(int(r)) + 6*nearestLevel(int(g)) + nearestLevel(int(b))), nil
	}

	if c, ok := predefinedColors[strings.ToLower(s)]; ok {
		return c, nil
	}
	return 0, fmt.Errorf("unknown color %q", s)
}

func nearestLevel(v int) int {
	best := 0
	for i, level := range cubeLevels {
		if abs(v-level) < abs(v-cubeLevels[best]) {
			best = i
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Suffix is the part of the SGR sequence after the 3/4 selector digit:
// "Nm" for the eight base colors and the default, "8;5;Nm" otherwise.
func (c Color) Suffix() string {
	if c < 8 || c == Default {
		return fmt.Sprintf("%dm", c)
	}
	return fmt.Sprintf("8;5;%dm", c)
}

// Fg returns the sequence selecting c as foreground color.
func (c Color) Fg() string { return fgPrefix + c.Suffix() }

// Bg returns the sequence selecting c as background color.
func (c Color) Bg() string { return bgPrefix + c.Suffix() }

// FgVar selects the foreground color held (as a Suffix) in a shell variable.
func FgVar(name string) string { return fgPrefix + "${" + name + "}" }

// BgVar selects the background color held (as a Suffix) in a shell variable.
func BgVar(name string) string { return bgPrefix + "${" + name + "}" }
