// Package hoicolor renders the in-game colour codes used in lobby names.
// A code is the section sign followed by one letter, e.g. "§Rred§!".
package hoicolor

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-isatty"
)

const (
	marker = '§'
	reset  = "\x1b[0m"
)

const (
	ModeAuto   = "auto"
	ModeAlways = "always"
	ModeNever  = "never"
)

var sequences = map[rune]string{
	'!': reset,
	'R': "\x1b[31m",
	'G': "\x1b[32m",
	'Y': "\x1b[33m",
	'B': "\x1b[34m",
	'M': "\x1b[35m",
	'C': "\x1b[36m",
	'W': "\x1b[37m",
	'b': "\x1b[30m",
	'g': "\x1b[90m",
	'H': "\x1b[93m",
	'T': "\x1b[97m",
	'O': "\x1b[38;5;208m",
	'L': "\x1b[38;5;183m",
}

// Enabled resolves a colour mode for the given file descriptor.
func Enabled(mode string, fd uintptr) bool {
	switch mode {
	case ModeAlways:
		return true
	case ModeNever:
		return false
	default:
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
}

func ToANSI(s string) string {
	return render(s, 0, true)
}

func Strip(s string) string {
	return render(s, 0, false)
}

// DisplayName converts colour codes and shortens names longer than limit
// visible characters to limit-3 characters plus "...".
func DisplayName(name string, limit int, color bool) string {
	return render(name, limit, color)
}

func render(s string, limit int, color bool) string {
	keep := -1
	truncated := false
	if limit > 0 {
		if visible := visibleLen(s); visible > limit {
			truncated = true
			keep = max(limit-3, 0)
		}
	}

	var b strings.Builder
	b.Grow(len(s))

	colored := false
	written := 0
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == marker {
			if i+1 < len(runes) {
				i++
				if seq, ok := sequences[runes[i]]; ok && color {
					b.WriteString(seq)
					colored = runes[i] != '!'
				}
			}
			continue
		}

		if written == keep {
			break
		}
		b.WriteRune(r)
		written++
	}

	if truncated {
		b.WriteString("...")
	}
	if colored {
		b.WriteString(reset)
	}
	return b.String()
}

func visibleLen(s string) int {
	n := 0
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		if r == marker {
			if i < len(s) {
				_, next := utf8.DecodeRuneInString(s[i:])
				i += next
			}
			continue
		}
		n++
	}
	return n
}
