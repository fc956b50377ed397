// Package ps1parser provides functionality to parse bash PS1 prompt strings
// and measure the printable width of prompt fragments.
//
// This package understands the bash prompt syntax:
//   - Backslash escapes (\u, \h, \w, \$, \\, \nnn, \D{format}, etc.)
//   - Non-printing blocks (\[ ... \])
//   - Parameter, command and arithmetic expansions ($VAR, ${VAR}, $(cmd), $((expr)), `cmd`)
//
// Example usage:
//
//	w, err := ps1parser.Measure(` \u@\H `)
//	// w.Cells == 3, w.Runtime == []string{"${#USER}", "${#HOSTNAME}"}
package ps1parser

import (
	"fmt"
)

// AnalyzePS1 returns detailed information about a PS1 string.
// Use this function to inspect the structure and tokens of a PS1 string.
func AnalyzePS1(ps1 string) (*ParsedPS1, error) {
	parser := NewParser(ParserOptions{})
	return parser.Parse(ps1)
}

// ValidatePS1 checks if a PS1 string is valid and parseable.
// Returns an error if the PS1 contains unbalanced blocks.
func ValidatePS1(ps1 string) error {
	parser := NewParser(ParserOptions{StrictMode: true})
	_, err := parser.Parse(ps1)
	return err
}

// String returns a human-readable string for a token type
func (t TokenType) String() string {
	switch t {
	case TokenLiteral:
		return "Literal"
	case TokenEscape:
		return "Escape"
	case TokenNonPrinting:
		return "NonPrinting"
	case TokenExpansion:
		return "Expansion"
	default:
		return "Unknown"
	}
}

// String returns a string representation of a token
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Type, t.Content)
}

// String renders the width as a shell arithmetic operand list.
func (w Width) String() string {
	s := fmt.Sprintf("%d", w.Cells)
	for _, r := range w.Runtime {
		s += "+" + r
	}
	return s
}
