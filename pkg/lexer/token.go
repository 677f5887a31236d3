package lexer

// TokenType represents the type of a token.
type TokenType string

// Token represents a lexical token.
type Token struct {
	Type     TokenType
	Literal  string // The token text; string literals drop their quotes
	Line     int    // 1-based line number where the token starts
	Column   int    // 1-based column number (rune index) where the token starts
	StartPos int    // 0-based byte offset where the token starts
	EndPos   int    // 0-based byte offset after the token ends
}

// --- Token Types ---
const (
	// Special
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers + Literals
	IDENT  TokenType = "IDENT"  // counter, Point
	NUMBER TokenType = "NUMBER" // 123, 45.67
	STRING TokenType = "STRING" // "hello world"

	// Operators
	PLUS        TokenType = "+"
	MINUS       TokenType = "-"
	ASTERISK    TokenType = "*"
	SLASH       TokenType = "/"
	LT          TokenType = "<"
	GT          TokenType = ">"
	LE          TokenType = "<="
	GE          TokenType = ">="
	EQ          TokenType = "=="
	NOT_EQ      TokenType = "!="
	ASSIGN      TokenType = "="
	BANG        TokenType = "!"
	DOT         TokenType = "." // string concatenation
	LOGICAL_AND TokenType = "&&"
	LOGICAL_OR  TokenType = "||"

	// Statement leaders and structural operators
	ARROW        TokenType = "->" // property/index access, return type
	LEFT_ARROW   TokenType = "<-" // assignment, return value
	CALL         TokenType = "<>" // function call
	DOUBLE_COLON TokenType = "::"
	OUTPUT       TokenType = "^^"
	QUESTION     TokenType = "?"
	PERCENT      TokenType = "%"
	AT           TokenType = "@"
	DOLLAR       TokenType = "$"
	AMPERSAND    TokenType = "&" // parameter separator

	// Delimiters
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"
	COLON     TokenType = ":"
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACKET  TokenType = "["
	RBRACKET  TokenType = "]"
	LBRACE    TokenType = "{"
	RBRACE    TokenType = "}"
	PIPE      TokenType = "|" // block start
	TILDE     TokenType = "~" // block end, type annotation

	// Keywords
	NONE        TokenType = "NONE"
	YES         TokenType = "YES"
	NO          TokenType = "NO"
	TYPE_NUMBER TokenType = "TYPE_NUMBER"
	TYPE_STRING TokenType = "TYPE_STRING"
	TYPE_BOOL   TokenType = "TYPE_BOOL"
	TYPE_VOID   TokenType = "TYPE_VOID"
	TYPE_ARRAY  TokenType = "TYPE_ARRAY"
	TYPE_OBJECT TokenType = "TYPE_OBJECT"
)

var keywords = map[string]TokenType{
	"none":   NONE,
	"yes":    YES,
	"no":     NO,
	"number": TYPE_NUMBER,
	"string": TYPE_STRING,
	"bool":   TYPE_BOOL,
	"void":   TYPE_VOID,
	"array":  TYPE_ARRAY,
	"object": TYPE_OBJECT,
}

// LookupIdent checks the keywords table for an identifier.
func LookupIdent(ident string) TokenType {
	if tokType, ok := keywords[ident]; ok {
		return tokType
	}
	return IDENT
}

// IsTypeKeyword reports whether t starts a type.
func IsTypeKeyword(t TokenType) bool {
	switch t {
	case TYPE_NUMBER, TYPE_STRING, TYPE_BOOL, TYPE_VOID, TYPE_ARRAY, TYPE_OBJECT:
		return true
	}
	return false
}
