package ps1parser

import (
	"testing"
)

func TestParseSimplePS1(t *testing.T) {
	tests := []struct {
		name     string
		ps1      string
		expected int // number of tokens
	}{
		{
			name:     "user host and directory",
			ps1:      `\u@\h:\w\$ `,
			expected: 7, // \u, "@", \h, ":", \w, \$, " "
		},
		{
			name:     "colored prompt",
			ps1:      `\[\e[32m\]\u\[\e[0m\] $ `,
			expected: 6, // \[..\], \u, \[..\], " ", "$", " "
		},
		{
			name:     "expansions",
			ps1:      `$(git branch) ${HOME}`,
			expected: 3,
		},
		{
			name:     "unknown escape stays literal",
			ps1:      `\q`,
			expected: 1,
		},
	}

	parser := NewParser(ParserOptions{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := parser.Parse(tt.ps1)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			if len(parsed.Tokens) != tt.expected {
				t.Errorf("Expected %d tokens, got %d", tt.expected, len(parsed.Tokens))
				for i, token := range parsed.Tokens {
					t.Logf("Token %d: %s", i, token.String())
				}
			}
		})
	}
}

func TestParseEscapes(t *testing.T) {
	tests := []struct {
		name     string
		ps1      string
		expected string // expected meaning
	}{
		{"username", `\u`, "username"},
		{"hostname", `\h`, "hostname_short"},
		{"current dir", `\w`, "current_dir"},
		{"privilege", `\$`, "privilege_indicator"},
		{"escape", `\e`, "escape"},
		{"octal", `\033`, "octal"},
		{"date format", `\D{%H:%M}`, "date_format"},
	}

	parser := NewParser(ParserOptions{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := parser.Parse(tt.ps1)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			if len(parsed.Tokens) != 1 {
				t.Fatalf("Expected 1 token, got %d", len(parsed.Tokens))
			}

			token := parsed.Tokens[0]
			if token.Type != TokenEscape {
				t.Errorf("Expected TokenEscape, got %s", token.Type)
			}

			meaning := token.Params["meaning"]
			if meaning != tt.expected {
				t.Errorf("Expected meaning %q, got %q", tt.expected, meaning)
			}
		})
	}
}

func TestParseNonPrinting(t *testing.T) {
	parsed, err := AnalyzePS1(`\[\e[38;5;196m\]`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(parsed.Tokens) != 1 {
		t.Fatalf("Expected 1 token, got %d", len(parsed.Tokens))
	}

	token := parsed.Tokens[0]
	if token.Type != TokenNonPrinting {
		t.Errorf("Expected TokenNonPrinting, got %s", token.Type)
	}
	if token.Content != `\e[38;5;196m` {
		t.Errorf("Expected content %q, got %q", `\e[38;5;196m`, token.Content)
	}
}

func TestParseExpansions(t *testing.T) {
	tests := []struct {
		name    string
		ps1     string
		content string
		kind    string
		varName string
	}{
		{
			name:    "command",
			ps1:     "$(git rev-parse --abbrev-ref HEAD)",
			content: "git rev-parse --abbrev-ref HEAD",
			kind:    "command",
		},
		{
			name:    "nested command",
			ps1:     "$(echo $(whoami))",
			content: "echo $(whoami)",
			kind:    "command",
		},
		{
			name:    "arithmetic",
			ps1:     "$((COLUMNS - 8))",
			content: "COLUMNS - 8",
			kind:    "arithmetic",
		},
		{
			name:    "braced variable",
			ps1:     "${SSH_TTY}",
			content: "SSH_TTY",
			kind:    "parameter",
			varName: "SSH_TTY",
		},
		{
			name:    "parameter operation",
			ps1:     "${PWD#${HOME}}",
			content: "PWD#${HOME}",
			kind:    "parameter",
		},
		{
			name:    "plain variable",
			ps1:     "$USER",
			content: "USER",
			kind:    "parameter",
			varName: "USER",
		},
		{
			name:    "backtick",
			ps1:     "`date`",
			content: "date",
			kind:    "command",
		},
	}

	parser := NewParser(ParserOptions{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := parser.Parse(tt.ps1)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			if len(parsed.Tokens) != 1 {
				t.Fatalf("Expected 1 token, got %d", len(parsed.Tokens))
			}

			token := parsed.Tokens[0]
			if token.Type != TokenExpansion {
				t.Errorf("Expected TokenExpansion, got %s", token.Type)
			}
			if token.Content != tt.content {
				t.Errorf("Expected content %q, got %q", tt.content, token.Content)
			}
			if token.Params["kind"] != tt.kind {
				t.Errorf("Expected kind %q, got %q", tt.kind, token.Params["kind"])
			}
			if token.Params["name"] != tt.varName {
				t.Errorf("Expected name %q, got %q", tt.varName, token.Params["name"])
			}
		})
	}
}

func TestValidatePS1(t *testing.T) {
	valid := []string{`\u@\h `, `\[\e[1m\]x\[\e[0m\]`, "${HOME}", ""}
	for _, ps1 := range valid {
		if err := ValidatePS1(ps1); err != nil {
			t.Errorf("ValidatePS1(%q) returned error: %v", ps1, err)
		}
	}

	invalid := []string{`\[\e[1m`, `x\]`, "$(date", "${HOME", "`date"}
	for _, ps1 := range invalid {
		if err := ValidatePS1(ps1); err == nil {
			t.Errorf("ValidatePS1(%q) expected error", ps1)
		}
	}
}

func TestLenientParsing(t *testing.T) {
	parsed, err := AnalyzePS1(`\[\e[1m`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if parsed.Tokens[0].Type != TokenLiteral {
		t.Errorf("Expected unclosed block to be literal, got %s", parsed.Tokens[0].Type)
	}
}
