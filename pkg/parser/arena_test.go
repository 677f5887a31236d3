package parser

import (
	"fmt"
	"strings"
	"testing"

	"sigil/pkg/lexer"
)

func TestArenaNodesSurviveChunkTurnover(t *testing.T) {
	a := newASTArena()
	var idents []*Identifier
	for i := 0; i < arenaChunk*3+7; i++ {
		idents = append(idents, a.identifier(lexer.Token{Type: lexer.IDENT, Literal: fmt.Sprintf("v%d", i)}))
	}
	for i, ident := range idents {
		if want := fmt.Sprintf("v%d", i); ident.Value != want {
			t.Fatalf("identifier %d: expected %s, got %s", i, want, ident.Value)
		}
	}
}

func TestLargeExpressionParses(t *testing.T) {
	terms := make([]string, arenaChunk*2)
	for i := range terms {
		terms[i] = fmt.Sprintf("x%d", i)
	}
	input := "^^ " + strings.Join(terms, " + ") + ";"
	program := parseInput(t, input)
	out := program.Statements[0].(*Output)

	// Left-associative: the leftmost leaf sits at the bottom of the chain.
	depth := 0
	expr := out.Value
	for {
		bin, ok := expr.(*BinaryExpression)
		if !ok {
			break
		}
		if right := bin.Right.(*Identifier); right.Value != terms[len(terms)-1-depth] {
			t.Fatalf("depth %d: expected %s, got %s", depth, terms[len(terms)-1-depth], right.Value)
		}
		expr = bin.Left
		depth++
	}
	if depth != len(terms)-1 || expr.(*Identifier).Value != "x0" {
		t.Errorf("unexpected tree shape: depth %d, leaf %s", depth, expr)
	}
}
