package parser

import (
	stderrors "errors"
	"strings"
	"testing"

	"sigil/pkg/errors"
	"sigil/pkg/lexer"
	"sigil/pkg/source"
	"sigil/pkg/types"
)

func parseInput(t *testing.T, input string) *Program {
	t.Helper()
	src := source.NewEvalSource(input)
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("lexer error for %q: %v", input, err)
	}
	program, err := Parse(src, tokens)
	if err != nil {
		t.Fatalf("parser error for %q: %v", input, err)
	}
	return program
}

func parseError(t *testing.T, input string) *errors.SyntaxError {
	t.Helper()
	src := source.NewEvalSource(input)
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("lexer error for %q: %v", input, err)
	}
	_, err = Parse(src, tokens)
	if err == nil {
		t.Fatalf("expected syntax error for %q, got none", input)
	}
	var syntaxErr *errors.SyntaxError
	if !stderrors.As(err, &syntaxErr) {
		t.Fatalf("expected SyntaxError for %q, got %T", input, err)
	}
	return syntaxErr
}

func TestOperatorPrecedenceParsing(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"3*2+4", "((3 * 2) + 4)"},
		{"1+2*3", "(1 + (2 * 3))"},
		{"a - b - c", "((a - b) - c)"},
		{"a / b * c", "((a / b) * c)"},
		{"a || b && c", "(a || (b && c))"},
		{"a == b && c != d", "((a == b) && (c != d))"},
		{"a < b == c > d", "((a < b) == (c > d))"},
		{`"x" . 1 + 2`, `("x" . (1 + 2))`},
		{"a . b < c", "((a . b) < c)"},
		{"-a * 2", "((-a) * 2)"},
		{"!yes || no", "((!yes) || no)"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"p -> x + 1", "(p -> x + 1)"},
		{"a -> (i + 1) -> len", "a -> ((i + 1)) -> len"},
		{`<> f :: (1, x . "s")`, `<> f :: (1, (x . "s"))`},
		{"2.50", "2.5"},
		{"3 - -5", "(3 - (-5))"},
		{"0 - xs -> length", "(0 - xs -> length)"},
	}

	for _, tt := range tests {
		program := parseInput(t, "^^ "+tt.input+";")
		if len(program.Statements) != 1 {
			t.Fatalf("%q: expected 1 statement, got %d", tt.input, len(program.Statements))
		}
		out, ok := program.Statements[0].(*Output)
		if !ok {
			t.Fatalf("%q: expected *Output, got %T", tt.input, program.Statements[0])
		}
		if got := out.Value.String(); got != tt.expected {
			t.Errorf("%q: expected=%q, got=%q", tt.input, tt.expected, got)
		}
	}
}

func TestStatementParsing(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"+a~number;", "+ a ~ number;"},
		{"+a~number=5;", "+ a ~ number = 5;"},
		{"+xs ~ array<array<string>> = array<array<string>>(3);", "+ xs ~ array<array<string>> = array<array<string>>(3);"},
		{"+p ~ object<Point> = (x: 1, y: 2);", "+ p ~ object<Point> = (x: 1, y: 2);"},
		{"<-a=5;", "<- a = 5;"},
		{"<- p -> x = 3;", "<- p -> x = 3;"},
		{`<- s -> (0) = "h";`, `<- s -> (0) = "h";`},
		{"?[a>1]|^^a;~", "? [(a > 1)] | ^^ a; ~"},
		{"?[yes]|^^1;~:|^^2;~", "? [yes] | ^^ 1; ~ : | ^^ 2; ~"},
		{"%[c<3] | <-c=c+1; ^^c; ~", "% [(c < 3)] | <- c = (c + 1); ^^ c; ~"},
		{"@ f :: () -> void | ~", "@ f :: () -> void | ~"},
		{"@ add :: a~number & b~number -> number | @ add <- a + b; ~", "@ add :: a~number & b~number -> number | @ add <- (a + b); ~"},
		{"<> f :: ();", "<> f :: ()"},
		{"$ Point :: { x : number; y : number; }", "$ Point :: { x : number; y : number; }"},
		{"^^ array<number>[1, 2];", "^^ array<number>[1, 2];"},
		{`^^ string("ab");`, `^^ string("ab");`},
		{"^^ none;", "^^ none;"},
		{"+a~array<number>=array<number>(2);", "+ a ~ array<number> = array<number>(2);"},
		{"+p~object<P>=(x: 1);", "+ p ~ object<P> = (x: 1);"},
	}

	for _, tt := range tests {
		program := parseInput(t, tt.input)
		if len(program.Statements) != 1 {
			t.Fatalf("%q: expected 1 statement, got %d", tt.input, len(program.Statements))
		}
		if got := program.Statements[0].String(); got != tt.expected {
			t.Errorf("%q: expected=%q, got=%q", tt.input, tt.expected, got)
		}
	}
}

func TestAssignmentTargets(t *testing.T) {
	program := parseInput(t, "<- a -> b -> c = 1; <- a -> (1) -> (2) = 1; <- a -> (0) -> f = 2;")

	assign, ok := program.Statements[0].(*Assignment)
	if !ok {
		t.Fatalf("expected *Assignment, got %T", program.Statements[0])
	}
	outer, ok := assign.Target.(*PropertyAccess)
	if !ok || !outer.IsAssignmentTarget || outer.Property.Value != "c" {
		t.Fatalf("expected assignment target -> c, got %#v", assign.Target)
	}
	inner, ok := outer.Object.(*PropertyAccess)
	if !ok || inner.IsAssignmentTarget {
		t.Errorf("inner link of the chain must not be flagged as assignment target")
	}

	idx, ok := program.Statements[1].(*IndexAssignment)
	if !ok {
		t.Fatalf("expected *IndexAssignment, got %T", program.Statements[1])
	}
	if _, ok := idx.Object.(*IndexAccess); !ok {
		t.Errorf("expected index assignment over an index access, got %T", idx.Object)
	}
	if idx.Index.String() != "2" {
		t.Errorf("expected final index 2, got %s", idx.Index)
	}

	mixed, ok := program.Statements[2].(*Assignment)
	if !ok {
		t.Fatalf("expected *Assignment, got %T", program.Statements[2])
	}
	if pa := mixed.Target.(*PropertyAccess); pa.Object.String() != "a -> (0)" {
		t.Errorf("unexpected chain %s", pa.Object)
	}
}

func TestObjectLiteralDisambiguation(t *testing.T) {
	tests := []struct {
		input    string
		expected string // Go type name
	}{
		{"(x)", "*parser.Identifier"},
		{"(x: 1)", "*parser.ObjectLiteral"},
		{`(x . "a")`, "*parser.BinaryExpression"},
		{"((x: 1))", "*parser.ObjectLiteral"},
	}
	for _, tt := range tests {
		program := parseInput(t, "^^ "+tt.input+";")
		value := program.Statements[0].(*Output).Value
		if got := typeName(value); got != tt.expected {
			t.Errorf("%q: expected %s, got %s", tt.input, tt.expected, got)
		}
	}
}

func typeName(e Expression) string {
	switch e.(type) {
	case *Identifier:
		return "*parser.Identifier"
	case *ObjectLiteral:
		return "*parser.ObjectLiteral"
	case *BinaryExpression:
		return "*parser.BinaryExpression"
	default:
		return "other"
	}
}

func TestFunctionDeclarationShape(t *testing.T) {
	program := parseInput(t, `@ greet :: name~string & times~number & tags~array<string> -> object<Reply> |
  ^^ name;
  @ greet <- (text: name);
~`)
	fn, ok := program.Statements[0].(*FunctionDeclaration)
	if !ok {
		t.Fatalf("expected *FunctionDeclaration, got %T", program.Statements[0])
	}
	if fn.Name.Value != "greet" {
		t.Errorf("expected name greet, got %s", fn.Name.Value)
	}
	wantParams := []struct {
		name string
		typ  types.Type
	}{
		{"name", types.String},
		{"times", types.Number},
		{"tags", types.NewArrayType(types.String)},
	}
	if len(fn.Parameters) != len(wantParams) {
		t.Fatalf("expected %d params, got %d", len(wantParams), len(fn.Parameters))
	}
	for i, w := range wantParams {
		if fn.Parameters[i].Name.Value != w.name || !fn.Parameters[i].Type.Equals(w.typ) {
			t.Errorf("param %d: expected %s~%s, got %s", i, w.name, w.typ, fn.Parameters[i])
		}
	}
	if !fn.ReturnType.Equals(types.NewObjectType("Reply")) {
		t.Errorf("expected return type object<Reply>, got %s", fn.ReturnType)
	}
	if len(fn.Body) != 2 {
		t.Fatalf("expected 2 body statements, got %d", len(fn.Body))
	}
	if ret, ok := fn.Body[1].(*Return); !ok || ret.Function.Value != "greet" {
		t.Errorf("expected return from greet, got %s", fn.Body[1])
	}
	if sig := fn.Signature().String(); sig != "string & number & array<string> -> object<Reply>" {
		t.Errorf("unexpected signature %s", sig)
	}
}

func TestNestedFunctionReturns(t *testing.T) {
	program := parseInput(t, `@ outer :: () -> number |
  @ inner :: () -> number | @ inner <- 1; ~
  @ outer <- 2;
~`)
	outer := program.Statements[0].(*FunctionDeclaration)
	if _, ok := outer.Body[0].(*FunctionDeclaration); !ok {
		t.Errorf("expected nested declaration, got %T", outer.Body[0])
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		input       string
		line, col   int
		token       string
		msgContains string
	}{
		{"+ a number;", 1, 5, "number", "expected next token to be ~"},
		{"^^ 1", 1, 5, "EOF", "expected next token to be ;"},
		{"^^ -(1);", 1, 5, "(", "must be a literal or identifier"},
		{"^^ -xs -> length;", 1, 8, "->", "operand of unary - must be a literal or identifier, not an access chain"},
		{"^^ !p -> (0);", 1, 7, "->", "not an access chain"},
		{"? [yes] | ^^ 1;", 1, 16, "EOF", "unterminated block"},
		{"+ a ~ foo;", 1, 7, "foo", "expected a type"},
		{"^^ number(1);", 1, 4, "number", "unexpected TYPE_NUMBER in expression"},
		{"1;", 1, 1, "1", "unexpected NUMBER at start of statement"},
		{"@ f ^^", 1, 5, "^^", "expected :: or <-"},
		{"@ f <- 1;", 1, 3, "f", "outside of any function"},
		{"@ f :: () -> number |\n  @ g <- 1;\n~", 2, 5, "g", "enclosing function is f"},
		{"@ outer :: () -> number | @ inner :: () -> number | @ outer <- 1; ~ ~", 1, 55, "outer", "enclosing function is inner"},
		{`^^ "a" . ;`, 1, 10, ";", "unexpected ; in expression"},
		{"$ P :: { x number; }", 1, 12, "number", "expected next token to be :"},
		{"<> f :: (1 2);", 1, 12, "2", "expected next token to be )"},
		{"@ f :: x -> void | ~", 1, 10, "->", "expected next token to be ~"},
	}

	for _, tt := range tests {
		err := parseError(t, tt.input)
		if err.Line != tt.line || err.Column != tt.col {
			t.Errorf("%q: expected error at %d:%d, got %d:%d (%s)", tt.input, tt.line, tt.col, err.Line, err.Column, err.Msg)
		}
		if err.Token != tt.token {
			t.Errorf("%q: expected token %q, got %q", tt.input, tt.token, err.Token)
		}
		if !strings.Contains(err.Msg, tt.msgContains) {
			t.Errorf("%q: expected message containing %q, got %q", tt.input, tt.msgContains, err.Msg)
		}
		if !strings.Contains(err.Context, "[") {
			t.Errorf("%q: expected bracketed snippet, got %q", tt.input, err.Context)
		}
	}
}

func TestEmptyProgram(t *testing.T) {
	program := parseInput(t, "  // nothing here\n")
	if len(program.Statements) != 0 {
		t.Errorf("expected no statements, got %d", len(program.Statements))
	}
}
