package ps1parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/leaanthony/go-ansi-parser"
	"github.com/mattn/go-runewidth"
)

// ErrUnmeasurable is returned by Measure when a fragment contains something
// whose width can neither be computed now nor expressed as shell arithmetic.
var ErrUnmeasurable = errors.New("width is not known before the prompt is drawn")

// fixedCells holds the width of escapes that always expand to the same
// number of cells.
var fixedCells = map[string]int{
	"bell":                0,
	"date":                10, // "Tue May 26"
	"time_24h_seconds":    8,
	"time_12h_seconds":    8,
	"time_12h":            8, // "09:41 PM"
	"time_24h":            5,
	"privilege_indicator": 1,
	"backslash":           1,
}

// runtimeCells holds escapes whose width is the length of a shell variable.
var runtimeCells = map[string]string{
	"username":      "${#USER}",
	"hostname_full": "${#HOSTNAME}",
}

var escapeSeqRegex = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)

// Measure computes the printable width of a prompt fragment, as the prompt
// variable holds it (use UnquoteDouble first for double quoted script text).
// Raw escape sequences outside \[ \] are not counted.
func Measure(ps1 string) (Width, error) {
	parsed, err := NewParser(ParserOptions{StrictMode: true}).Parse(ps1)
	if err != nil {
		return Width{}, err
	}

	var w Width
	var visible strings.Builder

	for _, token := range parsed.Tokens {
		switch token.Type {
		case TokenLiteral:
			visible.WriteString(token.Content)

		case TokenNonPrinting:
			// zero width by definition

		case TokenEscape:
			meaning := token.Params["meaning"]
			switch meaning {
			case "escape":
				visible.WriteByte(0x1b)
			case "octal":
				visible.WriteString(token.Params["char"])
			default:
				if cells, ok := fixedCells[meaning]; ok {
					w.Cells += cells
				} else if expr, ok := runtimeCells[meaning]; ok {
					w.Runtime = append(w.Runtime, expr)
				} else {
					return Width{}, fmt.Errorf("%w: %s", ErrUnmeasurable, token)
				}
			}

		case TokenExpansion:
			name := token.Params["name"]
			if name == "" || !isVarName(name) {
				return Width{}, fmt.Errorf("%w: %s", ErrUnmeasurable, token)
			}
			w.Runtime = append(w.Runtime, "${#"+name+"}")
		}
	}

	w.Cells += visibleCells(visible.String())
	return w, nil
}

// visibleCells counts terminal cells of s, ignoring ANSI escape sequences.
func visibleCells(s string) int {
	if !strings.ContainsRune(s, 0x1b) {
		return runewidth.StringWidth(s)
	}

	elements, err := ansi.Parse(s)
	if err != nil {
		// not pure SGR (cursor movement and friends), strip by pattern
		return runewidth.StringWidth(escapeSeqRegex.ReplaceAllString(s, ""))
	}

	cells := 0
	for _, element := range elements {
		cells += runewidth.StringWidth(element.Label)
	}
	return cells
}
