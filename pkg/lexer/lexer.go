package lexer

import (
	"fmt"
	"unicode/utf8"

	"github.com/dlclark/regexp2"

	"sigil/pkg/errors"
	"sigil/pkg/source"
)

const debugLexer = false

func debugPrintf(format string, args ...interface{}) {
	if debugLexer {
		fmt.Printf("[Lexer Debug] "+format+"\n", args...)
	}
}

// rule is one entry of the scanner's priority table. Exactly one of skip,
// fail or tokType is meaningful: skipped text is discarded, a fail rule turns
// its match into a TokenizationError, everything else becomes a token.
type rule struct {
	re      *regexp2.Regexp
	tokType TokenType
	skip    bool
	fail    string
}

func newRule(pattern string, t TokenType) rule {
	return rule{re: regexp2.MustCompile(`\G(?:`+pattern+`)`, regexp2.None), tokType: t}
}

func skipRule(pattern string) rule {
	r := newRule(pattern, ILLEGAL)
	r.skip = true
	return r
}

func failRule(pattern, msg string) rule {
	r := newRule(pattern, ILLEGAL)
	r.fail = msg
	return r
}

// rules is tried top to bottom; the first match wins. Two-character operators
// precede every single-character operator that is a prefix of them.
var rules = []rule{
	skipRule(`[ \t\r\n]+`),
	skipRule(`/\*[\s\S]*?\*/`),
	failRule(`/\*`, "unterminated block comment"),
	skipRule(`//[^\n]*`),
	newRule(`[0-9]+(?:\.[0-9]+)?`, NUMBER),
	newRule(`"[^"]*"`, STRING),
	failRule(`"`, "unterminated string literal"),
	newRule(`[A-Za-z_][A-Za-z0-9_]*`, IDENT),

	newRule(`->`, ARROW),
	newRule(`<-`, LEFT_ARROW),
	newRule(`<>`, CALL),
	newRule(`<=`, LE),
	newRule(`>=`, GE),
	newRule(`==`, EQ),
	newRule(`!=`, NOT_EQ),
	newRule(`&&`, LOGICAL_AND),
	newRule(`\|\|`, LOGICAL_OR),
	newRule(`::`, DOUBLE_COLON),
	newRule(`\^\^`, OUTPUT),

	newRule(`\+`, PLUS),
	newRule(`-`, MINUS),
	newRule(`\*`, ASTERISK),
	newRule(`/`, SLASH),
	newRule(`<`, LT),
	newRule(`>`, GT),
	newRule(`=`, ASSIGN),
	newRule(`!`, BANG),
	newRule(`\.`, DOT),
	newRule(`,`, COMMA),
	newRule(`;`, SEMICOLON),
	newRule(`:`, COLON),
	newRule(`\(`, LPAREN),
	newRule(`\)`, RPAREN),
	newRule(`\[`, LBRACKET),
	newRule(`\]`, RBRACKET),
	newRule(`\{`, LBRACE),
	newRule(`\}`, RBRACE),
	newRule(`\|`, PIPE),
	newRule(`~`, TILDE),
	newRule(`\?`, QUESTION),
	newRule(`%`, PERCENT),
	newRule(`@`, AT),
	newRule(`\$`, DOLLAR),
	newRule(`&`, AMPERSAND),
}

// Lexer holds the state of the scanner.
type Lexer struct {
	source *source.SourceFile
	input  []rune
	offset []int // byte offset of each rune, plus one past the end
	pos    int   // current rune index
	line   int   // current 1-based line number
	column int   // current 1-based column number
	radius int   // snippet radius for diagnostics
}

// NewLexer creates a Lexer over the given source.
func NewLexer(src *source.SourceFile) *Lexer {
	input := []rune(src.Content)
	offset := make([]int, len(input)+1)
	b := 0
	for i, r := range input {
		offset[i] = b
		b += utf8.RuneLen(r)
	}
	offset[len(input)] = b
	return &Lexer{
		source: src,
		input:  input,
		offset: offset,
		line:   1,
		column: 1,
		radius: source.DefaultSnippetRadius,
	}
}

// SetSnippetRadius overrides how much context TokenizationErrors carry.
func (l *Lexer) SetSnippetRadius(radius int) {
	if radius > 0 {
		l.radius = radius
	}
}

// NextToken scans and returns the next token, skipping whitespace and
// comments. At end of input it keeps returning EOF.
func (l *Lexer) NextToken() (Token, error) {
	for {
		if l.pos >= len(l.input) {
			return Token{Type: EOF, Line: l.line, Column: l.column, StartPos: l.offset[l.pos], EndPos: l.offset[l.pos]}, nil
		}

		r, length, err := l.match()
		if err != nil {
			return Token{}, err
		}
		if length == 0 {
			return Token{}, l.errorAt(l.pos, 1, "unexpected character")
		}
		if r.fail != "" {
			return Token{}, l.errorAt(l.pos, 1, r.fail)
		}

		start := l.pos
		text := string(l.input[start : start+length])
		tok := Token{
			Type:     r.tokType,
			Literal:  text,
			Line:     l.line,
			Column:   l.column,
			StartPos: l.offset[start],
			EndPos:   l.offset[start+length],
		}
		l.advance(length)

		if r.skip {
			continue
		}
		switch tok.Type {
		case IDENT:
			tok.Type = LookupIdent(text)
		case STRING:
			tok.Literal = text[1 : len(text)-1]
		}
		debugPrintf("%s %q at %d:%d", tok.Type, tok.Literal, tok.Line, tok.Column)
		return tok, nil
	}
}

// match returns the first rule matching at the current position and the
// match length in runes. A zero length means nothing matched.
func (l *Lexer) match() (rule, int, error) {
	for _, r := range rules {
		m, err := r.re.FindRunesMatchStartingAt(l.input, l.pos)
		if err != nil {
			return rule{}, 0, l.errorAt(l.pos, 1, "scanner failure").CausedBy(err)
		}
		if m == nil || m.Index != l.pos || m.Length == 0 {
			continue
		}
		return r, m.Length, nil
	}
	return rule{}, 0, nil
}

// advance moves over n runes, keeping line and column in step.
func (l *Lexer) advance(n int) {
	for i := 0; i < n; i++ {
		if l.input[l.pos] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		l.pos++
	}
}

func (l *Lexer) errorAt(pos, width int, msg string) *errors.TokenizationError {
	end := pos + width
	if end > len(l.input) {
		end = len(l.input)
	}
	ch := string(l.input[pos:end])
	return &errors.TokenizationError{
		Position: errors.Position{
			Line:     l.line,
			Column:   l.column,
			StartPos: l.offset[pos],
			EndPos:   l.offset[end],
			Source:   l.source,
		},
		Char:    ch,
		Context: l.source.Snippet(l.offset[pos], l.offset[end], l.radius),
		Msg:     fmt.Sprintf("%s %q", msg, ch),
	}
}

// Tokenize scans the whole source into an ordered token slice ending in EOF.
func Tokenize(src *source.SourceFile) ([]Token, error) {
	return TokenizeWithRadius(src, source.DefaultSnippetRadius)
}

// TokenizeWithRadius is Tokenize with a custom diagnostic snippet radius.
func TokenizeWithRadius(src *source.SourceFile, radius int) ([]Token, error) {
	l := NewLexer(src)
	l.SetSnippetRadius(radius)
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}
