package ps1parser

import (
	"fmt"
	"strings"
)

// escapeMeanings maps the bash prompt escapes to a stable meaning name.
var escapeMeanings = map[byte]string{
	'a':  "bell",
	'd':  "date",
	'e':  "escape",
	'h':  "hostname_short",
	'H':  "hostname_full",
	'j':  "job_count",
	'l':  "tty",
	'n':  "newline",
	'r':  "carriage_return",
	's':  "shell_name",
	't':  "time_24h_seconds",
	'T':  "time_12h_seconds",
	'@':  "time_12h",
	'A':  "time_24h",
	'u':  "username",
	'v':  "version",
	'V':  "release",
	'w':  "current_dir",
	'W':  "current_dir_tail",
	'!':  "history_number",
	'#':  "command_number",
	'$':  "privilege_indicator",
	'\\': "backslash",
}

// NewParser creates a new PS1 parser with the given options.
// Use ParserOptions to control parsing behavior such as strict mode.
func NewParser(options ParserOptions) *Parser {
	return &Parser{
		options: options,
	}
}

// Parse parses a PS1 string into tokens.
// It walks the PS1 string byte by byte, identifying and categorizing each
// component into the appropriate token type.
func (p *Parser) Parse(ps1 string) (*ParsedPS1, error) {
	var tokens []Token
	pos := 0

	for pos < len(ps1) {
		token, nextPos, err := p.parseNextToken(ps1, pos)
		if err != nil {
			return nil, fmt.Errorf("parse error at position %d: %w", pos, err)
		}

		if token.Type != TokenLiteral || len(token.Content) > 0 {
			tokens = append(tokens, token)
		}

		pos = nextPos
	}

	return &ParsedPS1{Tokens: tokens}, nil
}

// parseNextToken parses the next token starting at the given position
func (p *Parser) parseNextToken(ps1 string, pos int) (Token, int, error) {
	switch ps1[pos] {
	case '\\':
		return p.parseEscape(ps1, pos)
	case '`':
		return p.parseBacktick(ps1, pos)
	case '$':
		if pos+1 < len(ps1) {
			next := ps1[pos+1]
			if next == '(' || next == '{' {
				return p.parseExpansionBlock(ps1, pos)
			}
			if isVarStartChar(next) || isSpecialParam(next) {
				return p.parseSimpleVariable(ps1, pos)
			}
		}
		return Token{Type: TokenLiteral, Content: "$"}, pos + 1, nil
	default:
		return p.parseLiteralToken(ps1, pos)
	}
}

// parseEscape parses backslash escapes
func (p *Parser) parseEscape(ps1 string, pos int) (Token, int, error) {
	if pos+1 >= len(ps1) {
		return Token{Type: TokenLiteral, Content: "\\"}, pos + 1, nil
	}

	c := ps1[pos+1]
	switch {
	case c == '[':
		return p.parseNonPrinting(ps1, pos)
	case c == ']':
		if p.options.StrictMode {
			return Token{}, pos, fmt.Errorf("unexpected \\] without \\[")
		}
		return Token{Type: TokenLiteral}, pos + 2, nil
	case c == 'D' && pos+2 < len(ps1) && ps1[pos+2] == '{':
		return p.parseDateFormat(ps1, pos)
	case c >= '0' && c <= '7':
		end := pos + 1
		for end < len(ps1) && end < pos+4 && ps1[end] >= '0' && ps1[end] <= '7' {
			end++
		}
		digits := ps1[pos+1 : end]
		char, ok := decodeOctal(digits)
		if !ok {
			return Token{Type: TokenLiteral, Content: ps1[pos:end]}, end, nil
		}
		return Token{
			Type:    TokenEscape,
			Content: digits,
			Params: map[string]string{
				"escape":  digits,
				"meaning": "octal",
				"char":    string([]byte{char}),
			},
		}, end, nil
	}

	meaning, ok := escapeMeanings[c]
	if !ok {
		// bash prints unknown escapes as they are
		return Token{Type: TokenLiteral, Content: ps1[pos : pos+2]}, pos + 2, nil
	}

	return Token{
		Type:    TokenEscape,
		Content: string(c),
		Params: map[string]string{
			"escape":  string(c),
			"meaning": meaning,
		},
	}, pos + 2, nil
}

// parseNonPrinting parses \[ ... \] blocks
func (p *Parser) parseNonPrinting(ps1 string, pos int) (Token, int, error) {
	for i := pos + 2; i+1 < len(ps1); i++ {
		if ps1[i] != '\\' {
			continue
		}
		if ps1[i+1] == ']' {
			return Token{
				Type:    TokenNonPrinting,
				Content: ps1[pos+2 : i],
			}, i + 2, nil
		}
		if ps1[i+1] == '[' && p.options.StrictMode {
			return Token{}, pos, fmt.Errorf("nested \\[ inside non-printing block")
		}
		i++ // skip the escaped character
	}

	if p.options.StrictMode {
		return Token{}, pos, fmt.Errorf("unclosed non-printing block")
	}
	return Token{Type: TokenLiteral, Content: "\\["}, pos + 2, nil
}

// parseDateFormat parses \D{format} sequences
func (p *Parser) parseDateFormat(ps1 string, pos int) (Token, int, error) {
	closePos := strings.IndexByte(ps1[pos+3:], '}')
	if closePos == -1 {
		if p.options.StrictMode {
			return Token{}, pos, fmt.Errorf("unclosed date format")
		}
		return Token{Type: TokenLiteral, Content: ps1[pos : pos+3]}, pos + 3, nil
	}
	closePos += pos + 3

	return Token{
		Type:    TokenEscape,
		Content: ps1[pos+1 : closePos+1],
		Params: map[string]string{
			"escape":  "D",
			"meaning": "date_format",
			"format":  ps1[pos+3 : closePos],
		},
	}, closePos + 1, nil
}

// parseExpansionBlock parses $(command), $((arithmetic)) and ${parameter}
func (p *Parser) parseExpansionBlock(ps1 string, pos int) (Token, int, error) {
	openChar := ps1[pos+1]
	closeChar := byte(')')
	kind := "command"
	startPos := pos + 2
	if openChar == '{' {
		closeChar = '}'
		kind = "parameter"
	} else if startPos < len(ps1) && ps1[startPos] == '(' {
		kind = "arithmetic"
	}

	depth := 0
	closePos := -1
	for i := startPos; i < len(ps1); i++ {
		switch ps1[i] {
		case '\\':
			i++
		case openChar:
			depth++
		case closeChar:
			if depth == 0 {
				closePos = i
			}
			depth--
		}
		if closePos != -1 {
			break
		}
	}

	if closePos == -1 {
		if p.options.StrictMode {
			return Token{}, pos, fmt.Errorf("unclosed %s expansion", kind)
		}
		return Token{Type: TokenLiteral, Content: ps1[pos : pos+2]}, pos + 2, nil
	}

	content := ps1[startPos:closePos]
	params := map[string]string{"kind": kind}
	if kind == "arithmetic" {
		content = strings.TrimSuffix(strings.TrimPrefix(content, "("), ")")
	}
	if kind == "parameter" && isVarName(content) {
		params["name"] = content
	}

	return Token{
		Type:    TokenExpansion,
		Content: content,
		Params:  params,
	}, closePos + 1, nil
}

// parseSimpleVariable parses $VAR and special parameters like $?
func (p *Parser) parseSimpleVariable(ps1 string, pos int) (Token, int, error) {
	start := pos + 1
	end := start + 1
	if isVarStartChar(ps1[start]) {
		for end < len(ps1) && isVarChar(ps1[end]) {
			end++
		}
	}

	name := ps1[start:end]
	return Token{
		Type:    TokenExpansion,
		Content: name,
		Params: map[string]string{
			"kind": "parameter",
			"name": name,
		},
	}, end, nil
}

// parseBacktick parses `command` substitutions
func (p *Parser) parseBacktick(ps1 string, pos int) (Token, int, error) {
	for i := pos + 1; i < len(ps1); i++ {
		if ps1[i] == '\\' {
			i++
			continue
		}
		if ps1[i] == '`' {
			return Token{
				Type:    TokenExpansion,
				Content: ps1[pos+1 : i],
				Params:  map[string]string{"kind": "command"},
			}, i + 1, nil
		}
	}

	if p.options.StrictMode {
		return Token{}, pos, fmt.Errorf("unclosed command substitution")
	}
	return Token{Type: TokenLiteral, Content: "`"}, pos + 1, nil
}

// parseLiteralToken parses regular text
func (p *Parser) parseLiteralToken(ps1 string, pos int) (Token, int, error) {
	start := pos

	for pos < len(ps1) {
		char := ps1[pos]
		if char == '\\' || char == '$' || char == '`' {
			break
		}
		pos++
	}

	return Token{Type: TokenLiteral, Content: ps1[start:pos]}, pos, nil
}
