package codec

import (
	"fmt"
	"strings"
)

const (
	fgPrefix = `\e[3`
	bgPrefix = `\e[4`

	Bold   = `\e[1m`
	Italic = `\e[3m`
	Reset  = `\e[0m`

	SaveCursor    = `\e[s`
	RestoreCursor = `\e[u`

	// readline markers around text that takes no space on screen
	BeginNonPrinting = `\[`
	EndNonPrinting   = `\]`
)

// MoveRight moves the cursor right by the cells expr evaluates to.
func MoveRight(expr string) string {
	return `\e[` + expr + "C"
}

// Format is a set of text style flags.
type Format struct {
	Bold   bool
	Italic bool
}

// ParseFormat reads a flag string made of 'b' (bold) and 'i' (italic).
func ParseFormat(s string) (Format, error) {
	var f Format
	for _, r := range s {
		switch r {
		case 'b':
			f.Bold = true
		case 'i':
			f.Italic = true
		default:
			return Format{}, fmt.Errorf("unsupported format flag %q in %q", r, s)
		}
	}
	return f, nil
}

// Code returns the escape sequences enabling the format.
func (f Format) Code() string {
	var b strings.Builder
	if f.Bold {
		b.WriteString(Bold)
	}
	if f.Italic {
		b.WriteString(Italic)
	}
	return b.String()
}

func (f Format) String() string {
	s := ""
	if f.Bold {
		s += "b"
	}
	if f.Italic {
		s += "i"
	}
	return s
}
