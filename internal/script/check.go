package script

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is wrapped by every Check failure.
var ErrMalformed = errors.New("unbalanced shell syntax")

type quoteState int

const (
	unquoted quoteState = iota
	inSingle
	inDouble
	inANSI // $'...'
)

func (q quoteState) String() string {
	switch q {
	case inSingle:
		return "single quote"
	case inDouble:
		return "double quote"
	case inANSI:
		return "$'...' quote"
	default:
		return "none"
	}
}

// Check validates the structure of a bash script: quotes and backticks are
// closed, $( inside double quotes is closed before the quote, curly braces
// outside quotes are balanced, and if/fi and case/esac pairs match.
// It does not replace a real parser; it catches broken assembly.
func Check(script string) error {
	state := unquoted
	line := 1
	openedAt := 0
	braces := 0
	parens := 0 // open $( inside the current double quote
	backtick := false
	backtickAt := 0
	keywords := map[string]int{}
	var word strings.Builder

	flush := func() {
		switch w := word.String(); w {
		case "if", "fi", "case", "esac":
			keywords[w]++
		}
		word.Reset()
	}

	for i := 0; i < len(script); i++ {
		c := script[i]
		if c == '\n' {
			line++
		}

		switch state {
		case inSingle:
			if c == '\'' {
				state = unquoted
			}
			continue
		case inANSI:
			if c == '\\' {
				i++
			} else if c == '\'' {
				state = unquoted
			}
			continue
		case inDouble:
			switch {
			case c == '\\':
				if i+1 < len(script) && script[i+1] == '\n' {
					line++
				}
				i++
			case c == '`':
				backtick, backtickAt = !backtick, line
			case c == '$' && i+1 < len(script) && script[i+1] == '(':
				parens++
				i++
			case c == '(' && parens > 0:
				parens++
			case c == ')' && parens > 0:
				parens--
			case c == '"':
				if parens > 0 {
					return fmt.Errorf("%w: $( in the double quote opened on line %d is never closed", ErrMalformed, openedAt)
				}
				if backtick {
					return fmt.Errorf("%w: backtick opened on line %d is never closed", ErrMalformed, backtickAt)
				}
				state = unquoted
			}
			continue
		}

		switch c {
		case '\\':
			if i+1 < len(script) && script[i+1] == '\n' {
				line++
			}
			i++
			word.WriteByte('\\')
			continue
		case '\'':
			state, openedAt = inSingle, line
			word.WriteByte(c)
			continue
		case '"':
			state, openedAt = inDouble, line
			word.WriteByte(c)
			continue
		case '`':
			backtick, backtickAt = !backtick, line
		case '$':
			if i+1 < len(script) && script[i+1] == '\'' {
				state, openedAt = inANSI, line
				i++
				word.WriteString("$'")
				continue
			}
		case '#':
			if word.Len() == 0 {
				for i+1 < len(script) && script[i+1] != '\n' {
					i++
				}
				continue
			}
		case '{':
			braces++
		case '}':
			braces--
			if braces < 0 {
				return fmt.Errorf("%w: unexpected '}' on line %d", ErrMalformed, line)
			}
		}

		if strings.IndexByte(" \t\n;&|()", c) >= 0 {
			flush()
			continue
		}
		word.WriteByte(c)
	}
	flush()

	if state != unquoted {
		return fmt.Errorf("%w: %s opened on line %d is never closed", ErrMalformed, state, openedAt)
	}
	if backtick {
		return fmt.Errorf("%w: backtick opened on line %d is never closed", ErrMalformed, backtickAt)
	}
	if braces != 0 {
		return fmt.Errorf("%w: %d unclosed '{'", ErrMalformed, braces)
	}
	if keywords["if"] != keywords["fi"] {
		return fmt.Errorf("%w: %d if for %d fi", ErrMalformed, keywords["if"], keywords["fi"])
	}
	if keywords["case"] != keywords["esac"] {
		return fmt.Errorf("%w: %d case for %d esac", ErrMalformed, keywords["case"], keywords["esac"])
	}
	return nil
}
