package ps1parser

// TokenType represents different types of elements in a PS1 string.
type TokenType int

// Token types used in PS1 parsing
const (
	TokenLiteral     TokenType = iota // Regular text content
	TokenEscape                       // Backslash escapes like \u, \w, \$
	TokenNonPrinting                  // \[ ... \] blocks ignored by readline
	TokenExpansion                    // $VAR, ${...}, $(...), $((...)) and `...`
)

// Token represents a parsed element from the PS1 string.
// Params stores additional metadata specific to the token type.
type Token struct {
	Type    TokenType
	Content string
	Params  map[string]string // Parameters like escape meaning, expansion kind, etc.
}

// ParsedPS1 represents a fully parsed PS1 string containing all tokens.
type ParsedPS1 struct {
	Tokens []Token
}

// Parser handles parsing PS1 strings into tokens.
type Parser struct {
	options ParserOptions
}

// ParserOptions controls parsing behavior and error handling.
type ParserOptions struct {
	StrictMode bool // Whether to fail on unclosed blocks and stray \]
}

// Width is the measured printable size of a prompt fragment. Cells is known
// at generation time; Runtime holds shell arithmetic operands that are only
// known when the prompt is drawn (for example ${#USER} for \u).
type Width struct {
	Cells   int
	Runtime []string
}
