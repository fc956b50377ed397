package ps1parser

import (
	"strconv"
	"strings"
)

// Character classification utilities for parsing

// isVarStartChar checks if a character can start a variable name.
// Variable names can start with letters or underscore.
func isVarStartChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

// isVarChar checks if a character can be part of a variable name.
// Variable names can contain letters, numbers, or underscore.
func isVarChar(c byte) bool {
	return isVarStartChar(c) || (c >= '0' && c <= '9')
}

// isSpecialParam reports single character shell parameters like $? and $#.
func isSpecialParam(c byte) bool {
	return strings.IndexByte("?#$!@*-0123456789", c) >= 0
}

// isVarName reports whether s is a plain variable name.
func isVarName(s string) bool {
	if s == "" || !isVarStartChar(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isVarChar(s[i]) {
			return false
		}
	}
	return true
}

// String processing utilities

// UnquoteDouble removes the backslashes bash strips inside a double quoted
// string: before $, `, ", \ and newline. The result is what the prompt
// variable holds after the assignment.
func UnquoteDouble(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && strings.IndexByte("$`\"\\\n", s[i+1]) >= 0 {
			i++
			if s[i] == '\n' {
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// decodeOctal turns the digits of a \nnn escape into the byte it names.
func decodeOctal(digits string) (byte, bool) {
	v, err := strconv.ParseUint(digits, 8, 8)
	if err != nil {
		return 0, false
	}
	return byte(v), true
}
