package parser

import (
	"fmt"
	"strconv"

	"sigil/pkg/errors"
	"sigil/pkg/lexer"
	"sigil/pkg/source"
	"sigil/pkg/types"
)

// --- Debug Flag ---
const debugParser = false

func debugPrint(format string, args ...interface{}) {
	if debugParser {
		fmt.Printf("[Parser Debug] "+format+"\n", args...)
	}
}

// --- End Debug Flag ---

// Parser builds an AST from a token slice. It stops at the first error.
type Parser struct {
	tokens []lexer.Token
	pos    int
	source *source.SourceFile
	radius int
	err    *errors.SyntaxError

	curToken  lexer.Token
	peekToken lexer.Token

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
	arena          *astArena

	// Names of the enclosing function declarations, innermost last.
	functions []string
}

// Parsing functions types for Pratt parser
type (
	prefixParseFn func() Expression
	infixParseFn  func(Expression) Expression // Arg is the left side expression
)

// Precedence levels for VALUE operators
const (
	_ int = iota
	LOWEST
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	EQUALS      // ==, !=
	LESSGREATER // >, <, >=, <=
	CONCAT      // .
	SUM         // + or -
	PRODUCT     // * or /
	MEMBER      // object -> property, object -> (index)
)

var precedences = map[lexer.TokenType]int{
	lexer.LOGICAL_OR:  LOGICAL_OR,
	lexer.LOGICAL_AND: LOGICAL_AND,
	lexer.EQ:          EQUALS,
	lexer.NOT_EQ:      EQUALS,
	lexer.LT:          LESSGREATER,
	lexer.GT:          LESSGREATER,
	lexer.LE:          LESSGREATER,
	lexer.GE:          LESSGREATER,
	lexer.DOT:         CONCAT,
	lexer.PLUS:        SUM,
	lexer.MINUS:       SUM,
	lexer.ASTERISK:    PRODUCT,
	lexer.SLASH:       PRODUCT,
	lexer.ARROW:       MEMBER,
}

// NewParser creates a parser over tokens produced from src. A missing
// trailing EOF token is supplied.
func NewParser(src *source.SourceFile, tokens []lexer.Token) *Parser {
	if n := len(tokens); n == 0 || tokens[n-1].Type != lexer.EOF {
		eof := lexer.Token{Type: lexer.EOF, Line: 1, Column: 1}
		if n > 0 {
			last := tokens[n-1]
			eof = lexer.Token{Type: lexer.EOF, Line: last.Line, Column: last.Column, StartPos: last.EndPos, EndPos: last.EndPos}
		}
		tokens = append(tokens[:n:n], eof)
	}

	p := &Parser{
		tokens:         append([]lexer.Token(nil), tokens...),
		pos:            -2,
		source:         src,
		radius:         source.DefaultSnippetRadius,
		prefixParseFns: make(map[lexer.TokenType]prefixParseFn),
		infixParseFns:  make(map[lexer.TokenType]infixParseFn),
		arena:          newASTArena(),
	}

	// --- Register Prefix Functions ---
	p.registerPrefix(lexer.IDENT, p.parseIdentifier)
	p.registerPrefix(lexer.NUMBER, p.parseLiteral)
	p.registerPrefix(lexer.STRING, p.parseLiteral)
	p.registerPrefix(lexer.YES, p.parseLiteral)
	p.registerPrefix(lexer.NO, p.parseLiteral)
	p.registerPrefix(lexer.NONE, p.parseLiteral)
	p.registerPrefix(lexer.MINUS, p.parseUnaryExpression)
	p.registerPrefix(lexer.BANG, p.parseUnaryExpression)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedOrObjectLiteral)
	p.registerPrefix(lexer.CALL, p.parseFunctionCall)
	p.registerPrefix(lexer.TYPE_STRING, p.parseTypeConstruction)
	p.registerPrefix(lexer.TYPE_ARRAY, p.parseTypeConstruction)

	// --- Register Infix Functions ---
	for _, t := range []lexer.TokenType{
		lexer.LOGICAL_OR, lexer.LOGICAL_AND,
		lexer.EQ, lexer.NOT_EQ,
		lexer.LT, lexer.GT, lexer.LE, lexer.GE,
		lexer.DOT, lexer.PLUS, lexer.MINUS, lexer.ASTERISK, lexer.SLASH,
	} {
		p.registerInfix(t, p.parseBinaryExpression)
	}
	p.registerInfix(lexer.ARROW, p.parseAccessExpression)

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

// SetSnippetRadius overrides how much context SyntaxErrors carry.
func (p *Parser) SetSnippetRadius(radius int) {
	if radius > 0 {
		p.radius = radius
	}
}

// Parse builds the AST for a whole program.
func Parse(src *source.SourceFile, tokens []lexer.Token) (*Program, error) {
	return NewParser(src, tokens).ParseProgram()
}

// ParseProgram parses statements until EOF and returns the first SyntaxError
// encountered, if any.
func (p *Parser) ParseProgram() (*Program, error) {
	program := &Program{Statements: []Statement{}}
	for !p.curTokenIs(lexer.EOF) {
		stmt := p.parseStatement()
		if p.err != nil {
			return nil, p.err
		}
		program.Statements = append(program.Statements, stmt)
		p.nextToken()
	}
	return program, nil
}

func (p *Parser) registerPrefix(tokenType lexer.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType lexer.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// tokenAt returns the token at absolute index i, clamped to the final EOF.
func (p *Parser) tokenAt(i int) lexer.Token {
	if i < 0 {
		i = 0
	}
	if i >= len(p.tokens) {
		i = len(p.tokens) - 1
	}
	return p.tokens[i]
}

// nextToken advances the current and peek tokens.
func (p *Parser) nextToken() {
	p.pos++
	p.curToken = p.tokenAt(p.pos)
	p.peekToken = p.tokenAt(p.pos + 1)
	debugPrint("nextToken(): cur='%s' (%s), peek='%s' (%s)", p.curToken.Literal, p.curToken.Type, p.peekToken.Literal, p.peekToken.Type)
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t lexer.TokenType) bool {
	return p.peekToken.Type == t
}

// peekTokenIs2 checks the token after peekToken.
func (p *Parser) peekTokenIs2(t lexer.TokenType) bool {
	return p.tokenAt(p.pos+2).Type == t
}

// expectPeek checks the type of the next token and advances if it matches.
// If it doesn't match, it records an error.
func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

// expectPeekGT is expectPeek(GT) that also splits a '>=' closing a type
// argument, as in `+ xs ~ array<number>= ...`.
func (p *Parser) expectPeekGT() bool {
	if p.peekTokenIs(lexer.GE) {
		ge := p.peekToken
		gt := lexer.Token{Type: lexer.GT, Literal: ">", Line: ge.Line, Column: ge.Column, StartPos: ge.StartPos, EndPos: ge.StartPos + 1}
		assign := lexer.Token{Type: lexer.ASSIGN, Literal: "=", Line: ge.Line, Column: ge.Column + 1, StartPos: ge.StartPos + 1, EndPos: ge.EndPos}
		i := p.pos + 1
		p.tokens = append(p.tokens[:i], append([]lexer.Token{gt, assign}, p.tokens[i+1:]...)...)
		p.peekToken = p.tokens[i]
	}
	return p.expectPeek(lexer.GT)
}

// --- Error Handling ---

func (p *Parser) peekError(t lexer.TokenType) {
	msg := fmt.Sprintf("expected next token to be %s, got %s instead", t, p.peekToken.Type)
	p.addError(p.peekToken, msg)
}

// addError records a SyntaxError at tok. Only the first error is kept; the
// parse is abandoned as soon as callers see it.
func (p *Parser) addError(tok lexer.Token, msg string) {
	if p.err != nil {
		return
	}
	p.err = &errors.SyntaxError{
		Position: errors.Position{
			Line:     tok.Line,
			Column:   tok.Column,
			StartPos: tok.StartPos,
			EndPos:   tok.EndPos,
			Source:   p.source,
		},
		Token:   p.tokenText(tok),
		Context: p.source.Snippet(tok.StartPos, tok.EndPos, p.radius),
		Msg:     msg,
	}
	debugPrint("addError: %s", p.err.Error())
}

// tokenText returns the raw source text of tok.
func (p *Parser) tokenText(tok lexer.Token) string {
	if tok.Type == lexer.EOF {
		return "EOF"
	}
	if p.source != nil && tok.StartPos >= 0 && tok.EndPos <= len(p.source.Content) && tok.StartPos < tok.EndPos {
		return p.source.Content[tok.StartPos:tok.EndPos]
	}
	return tok.Literal
}

func (p *Parser) failed() bool {
	return p.err != nil
}

// --- Precedence Helper ---
func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}
	return LOWEST
}

// --- Statement Parsing ---

// parseStatement dispatches on the leading token. On return curToken is the
// last token of the statement.
func (p *Parser) parseStatement() Statement {
	debugPrint("parseStatement(): cur='%s' (%s)", p.curToken.Literal, p.curToken.Type)
	switch p.curToken.Type {
	case lexer.PLUS:
		return p.parseVariableDeclaration()
	case lexer.LEFT_ARROW:
		return p.parseAssignment()
	case lexer.QUESTION:
		return p.parseBranching()
	case lexer.PERCENT:
		return p.parseLoop()
	case lexer.AT:
		return p.parseFunctionOrReturn()
	case lexer.CALL:
		return p.parseCallStatement()
	case lexer.OUTPUT:
		return p.parseOutput()
	case lexer.DOLLAR:
		return p.parseStructTypeDeclaration()
	default:
		p.addError(p.curToken, fmt.Sprintf("unexpected %s at start of statement", p.curToken.Type))
		return nil
	}
}

// parseBlock parses `| stmts ~`. Expects curToken to be '|' and leaves it
// on '~'.
func (p *Parser) parseBlock() []Statement {
	block := []Statement{}
	p.nextToken()
	for !p.curTokenIs(lexer.TILDE) {
		if p.curTokenIs(lexer.EOF) {
			p.addError(p.curToken, "unterminated block, expected ~")
			return nil
		}
		stmt := p.parseStatement()
		if p.failed() {
			return nil
		}
		block = append(block, stmt)
		p.nextToken()
	}
	return block
}

// + name ~ type (= expr)? ;
func (p *Parser) parseVariableDeclaration() Statement {
	decl := &VariableDeclaration{Token: p.curToken}
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	decl.Name = p.arena.identifier(p.curToken)
	if !p.expectPeek(lexer.TILDE) {
		return nil
	}
	p.nextToken()
	decl.Type = p.parseType()
	if p.failed() {
		return nil
	}
	if p.peekTokenIs(lexer.ASSIGN) {
		p.nextToken()
		p.nextToken()
		decl.Value = p.parseExpression(LOWEST)
		if p.failed() {
			return nil
		}
	}
	if !p.expectPeek(lexer.SEMICOLON) {
		return nil
	}
	return decl
}

// <- name (-> prop | -> (expr))* = expr ;
func (p *Parser) parseAssignment() Statement {
	tok := p.curToken
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	var target Expression = p.arena.identifier(p.curToken)
	for p.peekTokenIs(lexer.ARROW) {
		p.nextToken()
		target = p.parseAccessExpression(target)
		if p.failed() {
			return nil
		}
	}
	if !p.expectPeek(lexer.ASSIGN) {
		return nil
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)
	if p.failed() {
		return nil
	}
	if !p.expectPeek(lexer.SEMICOLON) {
		return nil
	}

	switch t := target.(type) {
	case *IndexAccess:
		return &IndexAssignment{Token: tok, Object: t.Object, Index: t.Index, Value: value}
	case *PropertyAccess:
		t.IsAssignmentTarget = true
	}
	return &Assignment{Token: tok, Target: target, Value: value}
}

// parseCondition parses `[ expr ]` after the statement leader.
func (p *Parser) parseCondition() Expression {
	if !p.expectPeek(lexer.LBRACKET) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if p.failed() {
		return nil
	}
	if !p.expectPeek(lexer.RBRACKET) {
		return nil
	}
	return cond
}

// ? [expr] | stmts ~ (: | stmts ~)?
func (p *Parser) parseBranching() Statement {
	br := &Branching{Token: p.curToken}
	br.Condition = p.parseCondition()
	if p.failed() || !p.expectPeek(lexer.PIPE) {
		return nil
	}
	br.Consequence = p.parseBlock()
	if p.failed() {
		return nil
	}
	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		if !p.expectPeek(lexer.PIPE) {
			return nil
		}
		br.Alternative = p.parseBlock()
		if p.failed() {
			return nil
		}
		br.HasElse = true
	}
	return br
}

// % [expr] | stmts ~
func (p *Parser) parseLoop() Statement {
	loop := &Loop{Token: p.curToken}
	loop.Condition = p.parseCondition()
	if p.failed() || !p.expectPeek(lexer.PIPE) {
		return nil
	}
	loop.Body = p.parseBlock()
	if p.failed() {
		return nil
	}
	return loop
}

// parseFunctionOrReturn handles both statements led by '@'.
func (p *Parser) parseFunctionOrReturn() Statement {
	tok := p.curToken
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	name := p.arena.identifier(p.curToken)
	switch {
	case p.peekTokenIs(lexer.DOUBLE_COLON):
		return p.parseFunctionDeclaration(tok, name)
	case p.peekTokenIs(lexer.LEFT_ARROW):
		return p.parseReturn(tok, name)
	default:
		p.addError(p.peekToken, fmt.Sprintf("expected :: or <- after @%s, got %s instead", name.Value, p.peekToken.Type))
		return nil
	}
}

// @ name :: params -> type | stmts ~
func (p *Parser) parseFunctionDeclaration(tok lexer.Token, name *Identifier) Statement {
	fn := &FunctionDeclaration{Token: tok, Name: name}
	p.nextToken() // '::'
	p.nextToken()
	fn.Parameters = p.parseParameters()
	if p.failed() {
		return nil
	}
	if !p.expectPeek(lexer.ARROW) {
		return nil
	}
	p.nextToken()
	fn.ReturnType = p.parseType()
	if p.failed() || !p.expectPeek(lexer.PIPE) {
		return nil
	}

	p.functions = append(p.functions, name.Value)
	fn.Body = p.parseBlock()
	p.functions = p.functions[:len(p.functions)-1]
	if p.failed() {
		return nil
	}
	return fn
}

// parseParameters parses `()` or `a~T & b~U`, leaving curToken on the last
// token of the list.
func (p *Parser) parseParameters() []*Parameter {
	params := []*Parameter{}
	if p.curTokenIs(lexer.LPAREN) {
		if !p.expectPeek(lexer.RPAREN) {
			return nil
		}
		return params
	}
	if !p.curTokenIs(lexer.IDENT) {
		p.addError(p.curToken, fmt.Sprintf("expected parameter list or () after ::, got %s instead", p.curToken.Type))
		return nil
	}
	for {
		param := &Parameter{Token: p.curToken, Name: p.arena.identifier(p.curToken)}
		if !p.expectPeek(lexer.TILDE) {
			return nil
		}
		p.nextToken()
		param.Type = p.parseType()
		if p.failed() {
			return nil
		}
		params = append(params, param)
		if !p.peekTokenIs(lexer.AMPERSAND) {
			return params
		}
		p.nextToken()
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
	}
}

// @ name <- expr ;
func (p *Parser) parseReturn(tok lexer.Token, name *Identifier) Statement {
	if len(p.functions) == 0 {
		p.addError(name.Token, fmt.Sprintf("return from %s outside of any function", name.Value))
		return nil
	}
	if inner := p.functions[len(p.functions)-1]; inner != name.Value {
		p.addError(name.Token, fmt.Sprintf("return names %s but the enclosing function is %s", name.Value, inner))
		return nil
	}
	ret := &Return{Token: tok, Function: name}
	p.nextToken() // '<-'
	p.nextToken()
	ret.Value = p.parseExpression(LOWEST)
	if p.failed() || !p.expectPeek(lexer.SEMICOLON) {
		return nil
	}
	return ret
}

// <> name :: (args) ;
func (p *Parser) parseCallStatement() Statement {
	call := p.parseFunctionCall()
	if p.failed() || !p.expectPeek(lexer.SEMICOLON) {
		return nil
	}
	return call.(*FunctionCall)
}

// ^^ expr ;
func (p *Parser) parseOutput() Statement {
	out := &Output{Token: p.curToken}
	p.nextToken()
	out.Value = p.parseExpression(LOWEST)
	if p.failed() || !p.expectPeek(lexer.SEMICOLON) {
		return nil
	}
	return out
}

// $ name :: { field : type ; ... }
func (p *Parser) parseStructTypeDeclaration() Statement {
	decl := &StructTypeDeclaration{Token: p.curToken, Fields: []*StructField{}}
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	decl.Name = p.arena.identifier(p.curToken)
	if !p.expectPeek(lexer.DOUBLE_COLON) || !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	for !p.peekTokenIs(lexer.RBRACE) {
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		field := &StructField{Name: p.arena.identifier(p.curToken)}
		if !p.expectPeek(lexer.COLON) {
			return nil
		}
		p.nextToken()
		field.Type = p.parseType()
		if p.failed() || !p.expectPeek(lexer.SEMICOLON) {
			return nil
		}
		decl.Fields = append(decl.Fields, field)
	}
	p.nextToken() // '}'
	return decl
}

// --- Type Parsing ---

// parseType parses a type starting at curToken and leaves curToken on its
// last token.
func (p *Parser) parseType() types.Type {
	switch p.curToken.Type {
	case lexer.TYPE_NUMBER:
		return types.Number
	case lexer.TYPE_STRING:
		return types.String
	case lexer.TYPE_BOOL:
		return types.Bool
	case lexer.TYPE_VOID:
		return types.Void
	case lexer.TYPE_ARRAY:
		if !p.expectPeek(lexer.LT) {
			return nil
		}
		p.nextToken()
		elem := p.parseType()
		if p.failed() || !p.expectPeekGT() {
			return nil
		}
		return types.NewArrayType(elem)
	case lexer.TYPE_OBJECT:
		if !p.expectPeek(lexer.LT) || !p.expectPeek(lexer.IDENT) {
			return nil
		}
		name := p.curToken.Literal
		if !p.expectPeekGT() {
			return nil
		}
		return types.NewObjectType(name)
	default:
		p.addError(p.curToken, fmt.Sprintf("expected a type, got %s instead", p.curToken.Type))
		return nil
	}
}

// --- Expression Parsing ---

func (p *Parser) parseExpression(precedence int) Expression {
	debugPrint("parseExpression(prec=%d): cur='%s' (%s)", precedence, p.curToken.Literal, p.curToken.Type)
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()
	if p.failed() {
		return nil
	}

	for !p.peekTokenIs(lexer.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
		if p.failed() {
			return nil
		}
	}
	return leftExp
}

func (p *Parser) noPrefixParseFnError(tok lexer.Token) {
	p.addError(tok, fmt.Sprintf("unexpected %s in expression", tok.Type))
}

// parseExpressionList parses comma-separated expressions up to end. Expects
// curToken to be the opening delimiter and leaves it on end.
func (p *Parser) parseExpressionList(end lexer.TokenType) []Expression {
	list := []Expression{}
	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))
	for !p.failed() && p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
	}
	if p.failed() || !p.expectPeek(end) {
		return nil
	}
	return list
}

// -- Prefix Parse Functions --

func (p *Parser) parseIdentifier() Expression {
	return p.arena.identifier(p.curToken)
}

func (p *Parser) parseLiteral() Expression {
	lit := p.arena.literal(p.curToken)
	switch p.curToken.Type {
	case lexer.NUMBER:
		value, err := strconv.ParseFloat(p.curToken.Literal, 64)
		if err != nil {
			p.addError(p.curToken, fmt.Sprintf("could not parse %q as number", p.curToken.Literal))
			p.err.CausedBy(err)
			return nil
		}
		lit.Kind = NumberLiteral
		lit.Number = value
	case lexer.STRING:
		lit.Kind = StringLiteral
		lit.Text = p.curToken.Literal
	case lexer.YES, lexer.NO:
		lit.Kind = BoolLiteral
		lit.Bool = p.curTokenIs(lexer.YES)
	case lexer.NONE:
		lit.Kind = NoneLiteral
	default:
		p.addError(p.curToken, fmt.Sprintf("expected a literal, got %s instead", p.curToken.Type))
		return nil
	}
	return lit
}

// parseUnaryExpression handles -x and !x. The operand must be a literal or
// an identifier; there is no unary form over a compound expression.
func (p *Parser) parseUnaryExpression() Expression {
	expr := &UnaryExpression{Token: p.curToken, Operator: p.curToken.Literal}
	p.nextToken()
	switch p.curToken.Type {
	case lexer.IDENT:
		expr.Operand = p.parseIdentifier()
	case lexer.NUMBER, lexer.STRING, lexer.YES, lexer.NO, lexer.NONE:
		expr.Operand = p.parseLiteral()
	default:
		p.addError(p.curToken, fmt.Sprintf("operand of unary %s must be a literal or identifier, got %s", expr.Operator, p.curToken.Type))
		return nil
	}
	if p.failed() {
		return nil
	}
	if p.peekTokenIs(lexer.ARROW) {
		p.addError(p.peekToken, fmt.Sprintf("operand of unary %s must be a literal or identifier, not an access chain", expr.Operator))
		return nil
	}
	return expr
}

// parseGroupedOrObjectLiteral treats '(' as an object literal only when it
// is immediately followed by IDENT ':'.
func (p *Parser) parseGroupedOrObjectLiteral() Expression {
	if p.peekTokenIs(lexer.IDENT) && p.peekTokenIs2(lexer.COLON) {
		return p.parseObjectLiteral()
	}
	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if p.failed() || !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	return exp
}

// (name: expr, ...)
func (p *Parser) parseObjectLiteral() Expression {
	obj := &ObjectLiteral{Token: p.curToken, Fields: []*ObjectField{}}
	for {
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		field := &ObjectField{Name: p.arena.identifier(p.curToken)}
		if !p.expectPeek(lexer.COLON) {
			return nil
		}
		p.nextToken()
		field.Value = p.parseExpression(LOWEST)
		if p.failed() {
			return nil
		}
		obj.Fields = append(obj.Fields, field)
		if !p.peekTokenIs(lexer.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	return obj
}

// <> name :: (args)
func (p *Parser) parseFunctionCall() Expression {
	call := &FunctionCall{Token: p.curToken}
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	call.Function = p.arena.identifier(p.curToken)
	if !p.expectPeek(lexer.DOUBLE_COLON) || !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	call.Arguments = p.parseExpressionList(lexer.RPAREN)
	if p.failed() {
		return nil
	}
	return call
}

// string(args) | array<T>(args) | array<T>[elements]
func (p *Parser) parseTypeConstruction() Expression {
	tc := &TypeConstruction{Token: p.curToken}
	tc.Type = p.parseType()
	if p.failed() {
		return nil
	}
	switch {
	case p.peekTokenIs(lexer.LPAREN):
		p.nextToken()
		tc.Arguments = p.parseExpressionList(lexer.RPAREN)
	case p.peekTokenIs(lexer.LBRACKET) && tc.Type != types.String:
		p.nextToken()
		tc.Arguments = p.parseExpressionList(lexer.RBRACKET)
		tc.IsList = true
	default:
		p.peekError(lexer.LPAREN)
	}
	if p.failed() {
		return nil
	}
	return tc
}

// -- Infix Parse Functions --

func (p *Parser) parseBinaryExpression(left Expression) Expression {
	expr := p.arena.binary(p.curToken, left)
	precedence := p.curPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	if p.failed() {
		return nil
	}
	return expr
}

// parseAccessExpression handles `-> name` and `-> (expr)`. Expects curToken
// to be '->'.
func (p *Parser) parseAccessExpression(object Expression) Expression {
	tok := p.curToken
	if p.peekTokenIs(lexer.LPAREN) {
		p.nextToken()
		p.nextToken()
		index := p.parseExpression(LOWEST)
		if p.failed() || !p.expectPeek(lexer.RPAREN) {
			return nil
		}
		return &IndexAccess{Token: tok, Object: object, Index: index}
	}
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	return &PropertyAccess{
		Token:    tok,
		Object:   object,
		Property: p.arena.identifier(p.curToken),
	}
}
