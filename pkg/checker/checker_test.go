package checker

import (
	stderrors "errors"
	"strings"
	"testing"

	"sigil/pkg/errors"
	"sigil/pkg/lexer"
	"sigil/pkg/parser"
	"sigil/pkg/registry"
	"sigil/pkg/source"
)

func mustParse(t *testing.T, input string) *parser.Program {
	t.Helper()
	src := source.NewEvalSource(input)
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("lexer error: %v", err)
	}
	program, err := parser.Parse(src, tokens)
	if err != nil {
		t.Fatalf("parser error: %v", err)
	}
	return program
}

func TestCheckValidPrograms(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"declarations", `+a~number=1; +s~string="x"; +b~bool=yes; +v~void=none; +n~number;`},
		{"assignment", `+a~number; <-a=5; ^^a;`},
		{"precedence", `+a~number=3*2+4; ^^a;`},
		{"concatenation", `+r~string; <-r="Hello, " . "world!" . 1 . yes; ^^r;`},
		{"loop", `+c~number=0; %[c<3] | <-c=c+1; ^^c; ~`},
		{"branching", `+a~number=1; ?[a==1 && !no] | ^^"one"; ~ : | ^^"other"; ~`},
		{"shadowing in block", `+a~number=1; ?[yes] | +a~string="inner"; ^^a; ~ ^^a;`},
		{"function", `@ add :: a~number & b~number -> number | @ add <- a + b; ~ ^^ <> add :: (1, 2);`},
		{"void function", `@ hello :: () -> void | ^^ "hi"; ~ <> hello :: ();`},
		{"recursion", `@ fact :: n~number -> number | ? [n <= 1] | @ fact <- 1; ~ : | @ fact <- n * <> fact :: (n - 1); ~ ~`},
		{"return in loop", `@ first :: xs~array<number> -> number | % [yes] | @ first <- xs -> (0); ~ ~`},
		{"struct", `$ Point :: { x : number; y : number; } +p~object<Point>=(x:1, y:2); <-p->x=3; ^^ p -> x + p -> y;`},
		{"struct field order", `$ Point :: { x : number; y : number; } +p~object<Point>=(y:1, x:2);`},
		{"nested struct", `$ Node :: { value : number; next : object<Node>; } +n~object<Node>; <- n -> value = 1;`},
		{"struct chain", `$ In :: { v : number; } $ Out :: { i : object<In>; } +o~object<Out>=(i: (v: 1)); <- o -> i -> v = 2;`},
		{"length", `+s~string="abc"; +xs~array<bool>=array<bool>(2); ^^ s -> length + xs -> length;`},
		{"index", `+s~string="abc"; <- s -> (0) = "x"; +xs~array<number>=array<number>[1, 2]; <- xs -> (1) = s -> length;`},
		{"string construction", `+s~string=string(3); +t~string=string("abc");`},
		{"nested arrays", `+m~array<array<number>>=array<array<number>>(2); <- m -> (0) = array<number>(3); <- m -> (0) -> (1) = 4;`},
		{"unary", `+a~number=-5; +b~bool=!no; +c~number=-a;`},
		{"string comparison", `^^ "a" < "b";`},
		{"call statement discards value", `@ f :: () -> number | @ f <- 1; ~ <> f :: ();`},
		{"struct param", `$ P :: { x : number; } @ bump :: p~object<P> -> void | <- p -> x = p -> x + 1; ~`},
		{"index assignment of non-literal", `+s~string="abc"; +t~string="xy"; <- s -> (0) = t;`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program := mustParse(t, tt.input)
			if err := New(registry.New()).Check(program); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCheckErrors(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		msgContains string
	}{
		{"redeclaration", `+a~number; +a~string;`, "a is already declared"},
		{"initializer mismatch", `+a~number="x";`, "cannot initialize a: expected number, got string"},
		{"no implicit coercion", `+a~string=1;`, "expected string, got number"},
		{"undeclared assignment", `<-a=1;`, "undeclared variable a"},
		{"assignment mismatch", `+a~number; <-a="x";`, "cannot assign to a: expected number, got string"},
		{"undeclared read", `^^ b;`, "undeclared variable b"},
		{"block scope ends", `?[yes] | +a~number; ~ ^^a;`, "undeclared variable a"},
		{"arithmetic", `^^ 1 + "x";`, "operator + requires number operands, got number and string"},
		{"comparison", `^^ 1 == "x";`, "cannot compare number and string"},
		{"logical", `^^ yes && 1;`, "operator && requires bool operands"},
		{"concatenation", `+xs~array<number>=array<number>(1); ^^ "a" . xs;`, "cannot concatenate string and array<number>"},
		{"unary minus", `^^ -"x";`, "unary - requires number, got string"},
		{"unary not", `^^ !1;`, "unary ! requires bool, got number"},
		{"condition", `?[1] | ~`, "branch condition 1: expected bool, got number"},
		{"loop condition", `%["x"] | ~`, "loop condition"},
		{"duplicate function", `@ f :: () -> void | ~ @ f :: () -> void | ~`, "function f is already declared"},
		{"missing return", `@ f :: () -> number | ^^ 1; ~`, "function f must return a value of type number"},
		{"return in one arm only", `@ f :: () -> number | ?[yes] | @ f <- 1; ~ ~`, "must return"},
		{"return nested too deep", `@ f :: () -> number | ?[yes] | ?[yes] | @ f <- 1; ~ ~ ~`, "must return"},
		{"return type", `@ f :: () -> number | @ f <- "x"; ~`, "function f returns the wrong type: expected number, got string"},
		{"duplicate parameter", `@ f :: a~number & a~number -> void | ~`, "parameter a of function f is already declared"},
		{"function isolation", `+g~number=1; @ f :: () -> number | @ f <- g; ~`, "undeclared variable g"},
		{"undeclared function", `<> nope :: ();`, "call to undeclared function nope"},
		{"forward call", `<> later :: (); @ later :: () -> void | ~`, "call to undeclared function later"},
		{"arity", `@ f :: a~number -> void | ~ <> f :: ();`, "function f expects 1 arguments, got 0 (f :: number -> void)"},
		{"argument type", `@ f :: a~number -> void | ~ <> f :: ("x");`, "argument a of f: expected number, got string"},
		{"void result in arithmetic", `@ f :: () -> void | ~ ^^ <> f :: () + 1;`, "requires number operands, got void and number"},
		{"duplicate struct", `$ A :: { x : number; } $ A :: { y : number; }`, "struct type A is already declared"},
		{"duplicate struct field", `$ A :: { x : number; x : string; }`, "duplicate field x in struct A"},
		{"unknown struct type", `+p~object<Nope>;`, "unknown struct type Nope"},
		{"unmatched object literal", `$A::{x:number;} +a~object<A>=(x:1,y:2);`, "matches no declared struct type"},
		{"ambiguous object literal", `$A::{x:number;} $B::{x:number;} ^^ (x:1);`, "ambiguous between struct types A, B"},
		{"object field type", `$A::{x:number;} ^^ (x:"s");`, "field x of A: expected number, got string"},
		{"object literal duplicate", `$A::{x:number;} ^^ (x:1, x:2);`, "duplicate field x in object literal"},
		{"struct missing field", `$A::{x:number;} +a~object<A>; ^^ a -> y;`, "struct A has no field y"},
		{"property assignment type", `$A::{x:number;} +a~object<A>; <- a -> x = "s";`, "cannot assign to a -> x: expected number, got string"},
		{"length write", `+s~string; <- s -> length = 3;`, "cannot assign to read-only property length"},
		{"unknown string property", `+s~string; ^^ s -> size;`, "string has no property size"},
		{"property on number", `+n~number; ^^ n -> x;`, "cannot access property x on number"},
		{"index non-indexable", `+n~number; ^^ n -> (0);`, "cannot index n of type number"},
		{"index type", `+s~string; ^^ s -> ("0");`, "index of s: expected number, got string"},
		{"string index literal length", `+s~string="abc"; <- s -> (0) = "xy";`, "requires a single character"},
		{"array element type", `+xs~array<number>=array<number>(2); <- xs -> (0) = "x";`, "expected number, got string"},
		{"array literal element", `^^ array<number>[1, "x"];`, "element 1 of array<number>: expected number, got string"},
		{"array length type", `^^ array<number>("3");`, "length of array<number>: expected number, got string"},
		{"string constructor arity", `^^ string(1, 2);`, "expects one argument, got 2"},
		{"string constructor type", `^^ string(yes);`, "expects a number or string argument, got bool"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program := mustParse(t, tt.input)
			err := New(registry.New()).Check(program)
			if err == nil {
				t.Fatalf("expected error containing %q, got none", tt.msgContains)
			}
			var semErr *errors.SemanticError
			if !stderrors.As(err, &semErr) {
				t.Fatalf("expected SemanticError, got %T: %v", err, err)
			}
			if !strings.Contains(semErr.Message(), tt.msgContains) {
				t.Errorf("expected message containing %q, got %q", tt.msgContains, semErr.Message())
			}
		})
	}
}

func TestCheckIsIdempotent(t *testing.T) {
	program := mustParse(t, `
$ Point :: { x : number; y : number; }
@ norm :: p~object<Point> -> number | @ norm <- p -> x * p -> x + p -> y * p -> y; ~
+p~object<Point>=(x:3, y:4);
^^ <> norm :: (p);
`)
	reg := registry.New()
	c := New(reg)
	for i := 0; i < 3; i++ {
		if err := c.Check(program); err != nil {
			t.Fatalf("check #%d failed: %v", i+1, err)
		}
	}
	if fns, structs := reg.Counts(); fns != 1 || structs != 1 {
		t.Errorf("expected 1 function and 1 struct after repeated checks, got %d and %d", fns, structs)
	}

	// A second checker over the same registry sees the same result.
	if err := Check(reg, program); err != nil {
		t.Fatalf("fresh checker failed: %v", err)
	}
}

// Every declaration whose initializer has the declared type is accepted.
func TestMatchingInitializersAlwaysCheck(t *testing.T) {
	initializers := map[string][]string{
		"number":         {"0", "1.5", "-2", "1 + 2 * 3", "<> n :: ()", `"abc" -> length`},
		"string":         {`""`, `"x" . 1`, `string(2)`, `string("s")`, `"abc" -> (1)`},
		"bool":           {"yes", "no", "1 < 2", `"a" == "b"`, "yes || no", "!yes"},
		"void":           {"none"},
		"array<number>":  {"array<number>(3)", "array<number>[1, 2]"},
		"array<string>":  {`array<string>["a"]`},
		"object<Holder>": {"(h: 1)"},
	}
	prelude := `$ Holder :: { h : number; } @ n :: () -> number | @ n <- 1; ~ `
	for typ, exprs := range initializers {
		for _, expr := range exprs {
			input := prelude + "+v~" + typ + "=" + expr + ";"
			program := mustParse(t, input)
			if err := New(registry.New()).Check(program); err != nil {
				t.Errorf("%s: unexpected error: %v", input, err)
			}
		}
	}
}
