package parser

import "sigil/pkg/lexer"

const arenaChunk = 128

// astArena hands out the leaf and operator nodes a parse creates most
// often. Nodes are carved from fixed-size chunks, so a pointer stays valid
// for the life of the program it belongs to; a full chunk is replaced, never
// grown. An arena belongs to one Parser and is never reset.
type astArena struct {
	identifiers []Identifier
	literals    []Literal
	binaries    []BinaryExpression
}

func newASTArena() *astArena {
	return &astArena{
		identifiers: make([]Identifier, 0, arenaChunk),
		literals:    make([]Literal, 0, arenaChunk),
		binaries:    make([]BinaryExpression, 0, arenaChunk),
	}
}

func (a *astArena) identifier(tok lexer.Token) *Identifier {
	if len(a.identifiers) == cap(a.identifiers) {
		a.identifiers = make([]Identifier, 0, arenaChunk)
	}
	a.identifiers = append(a.identifiers, Identifier{Token: tok, Value: tok.Literal})
	return &a.identifiers[len(a.identifiers)-1]
}

func (a *astArena) literal(tok lexer.Token) *Literal {
	if len(a.literals) == cap(a.literals) {
		a.literals = make([]Literal, 0, arenaChunk)
	}
	a.literals = append(a.literals, Literal{Token: tok})
	return &a.literals[len(a.literals)-1]
}

func (a *astArena) binary(tok lexer.Token, left Expression) *BinaryExpression {
	if len(a.binaries) == cap(a.binaries) {
		a.binaries = make([]BinaryExpression, 0, arenaChunk)
	}
	a.binaries = append(a.binaries, BinaryExpression{Token: tok, Operator: tok.Literal, Left: left})
	return &a.binaries[len(a.binaries)-1]
}
