package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ParseColor reads the "{R:0 G:88 B:151 A:255}" notation. Exactly four
// space-separated channels are required; each value is taken after its
// two-character prefix.
func ParseColor(s string) (color.NRGBA, error) {
	if len(s) < 2 || s[0] != '{' || s[len(s)-1] != '}' {
		return color.NRGBA{}, fmt.Errorf("color %q: missing braces", s)
	}
	parts := strings.Split(s[1:len(s)-1], " ")
	if len(parts) != 4 {
		return color.NRGBA{}, fmt.Errorf("color %q: want 4 channels, got %d", s, len(parts))
	}

	var rgba [4]uint8
	for i, part := range parts {
		if len(part) < 2 {
			return color.NRGBA{}, fmt.Errorf("color %q: channel %d is empty", s, i)
		}
		v, err := strconv.ParseUint(part[2:], 10, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("color %q: channel %d: %w", s, i, err)
		}
		rgba[i] = uint8(v)
	}
	return color.NRGBA{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}, nil
}

// ColorOr returns the parsed color, fallback when s is empty, or transparent
// when s is malformed.
func ColorOr(s string, fallback color.NRGBA) color.NRGBA {
	if s == "" {
		return fallback
	}
	c, err := ParseColor(s)
	if err != nil {
		return color.NRGBA{}
	}
	return c
}

// ParseContent splits a comma-separated content list. Blank input yields
// ["none"].
func ParseContent(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return []string{"none"}
	}
	return out
}
