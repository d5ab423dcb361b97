package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// digitMap holds the 5-line block glyphs for digits and the colon.
var digitMap = map[rune][5]string{
	'0': {
		"████",
		"█  █",
		"█  █",
		"█  █",
		"████",
	},
	'1': {
		" █ ",
		"██ ",
		" █ ",
		" █ ",
		"███",
	},
	'2': {
		"████",
		"   █",
		"████",
		"█   ",
		"████",
	},
	'3': {
		"████",
		"   █",
		"████",
		"   █",
		"████",
	},
	'4': {
		"█  █",
		"█  █",
		"████",
		"   █",
		"   █",
	},
	'5': {
		"████",
		"█   ",
		"████",
		"   █",
		"████",
	},
	'6': {
		"████",
		"█   ",
		"████",
		"█  █",
		"████",
	},
	'7': {
		"████",
		"   █",
		"  █ ",
		" █  ",
		" █  ",
	},
	'8': {
		"████",
		"█  █",
		"████",
		"█  █",
		"████",
	},
	'9': {
		"████",
		"█  █",
		"████",
		"   █",
		"████",
	},
	':': {
		" ",
		"█",
		" ",
		"█",
		" ",
	},
}

// renderBigTime renders an "HH:MM:SS" string in 5-line block digits.
// Narrow terminals get a single bold line instead.
func renderBigTime(timeStr string, color lipgloss.Color, width int) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(color)
	if width < bigTimeWidth(timeStr)+4 {
		return style.Render(timeStr)
	}

	var lines [5][]string
	for _, ch := range timeStr {
		glyph, ok := digitMap[ch]
		if !ok {
			continue
		}
		for i := range lines {
			lines[i] = append(lines[i], glyph[i])
		}
	}

	styled := make([]string, len(lines))
	for i, parts := range lines {
		styled[i] = style.Render(strings.Join(parts, " "))
	}
	return strings.Join(styled, "\n")
}

// bigTimeWidth returns the rendered width of timeStr in block digits.
func bigTimeWidth(timeStr string) int {
	w := 0
	n := 0
	for _, ch := range timeStr {
		glyph, ok := digitMap[ch]
		if !ok {
			continue
		}
		w += len([]rune(glyph[0]))
		n++
	}
	if n > 1 {
		w += n - 1
	}
	return w
}
