package parser

import (
	"bytes"
	"strconv"
	"strings"

	"sigil/pkg/lexer"
	"sigil/pkg/types"
)

// --- Interfaces ---

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string // Returns the literal value of the token associated with the node
	String() string       // Returns a source-like rendering of the node (for debugging)
}

// Statement represents a statement node in the AST.
type Statement interface {
	Node
	statementNode()
}

// Expression represents an expression node in the AST.
type Expression interface {
	Node
	expressionNode()
}

// --- Program Node ---

// Program is the root node of the AST. It is never mutated after parsing.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer
	for i, s := range p.Statements {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(s.String())
	}
	return out.String()
}

func blockString(stmts []Statement) string {
	var out bytes.Buffer
	out.WriteString("| ")
	for _, s := range stmts {
		out.WriteString(s.String())
		out.WriteString(" ")
	}
	out.WriteString("~")
	return out.String()
}

// --- Statement Nodes ---

// VariableDeclaration binds a new name in the current scope.
// + <Name> ~ <Type> = <Value>;
type VariableDeclaration struct {
	Token lexer.Token // The '+' token
	Name  *Identifier
	Type  types.Type
	Value Expression // nil when no initializer is given
}

func (vd *VariableDeclaration) statementNode()       {}
func (vd *VariableDeclaration) TokenLiteral() string { return vd.Token.Literal }
func (vd *VariableDeclaration) String() string {
	var out bytes.Buffer
	out.WriteString("+ " + vd.Name.String() + " ~ " + types.Describe(vd.Type))
	if vd.Value != nil {
		out.WriteString(" = " + vd.Value.String())
	}
	out.WriteString(";")
	return out.String()
}

// Assignment rebinds a name or writes a struct field.
// <- <Target> = <Value>;
// Target is an *Identifier or a *PropertyAccess flagged as assignment target.
type Assignment struct {
	Token  lexer.Token // The '<-' token
	Target Expression
	Value  Expression
}

func (as *Assignment) statementNode()       {}
func (as *Assignment) TokenLiteral() string { return as.Token.Literal }
func (as *Assignment) String() string {
	return "<- " + as.Target.String() + " = " + as.Value.String() + ";"
}

// IndexAssignment writes one element of a string or array.
// <- <Object> -> (<Index>) = <Value>;
type IndexAssignment struct {
	Token  lexer.Token // The '<-' token
	Object Expression
	Index  Expression
	Value  Expression
}

func (ia *IndexAssignment) statementNode()       {}
func (ia *IndexAssignment) TokenLiteral() string { return ia.Token.Literal }
func (ia *IndexAssignment) String() string {
	return "<- " + ia.Object.String() + " -> (" + ia.Index.String() + ") = " + ia.Value.String() + ";"
}

// Parameter is one `name ~ type` entry of a function signature.
type Parameter struct {
	Token lexer.Token // The parameter name token
	Name  *Identifier
	Type  types.Type
}

func (p *Parameter) String() string {
	return p.Name.String() + "~" + types.Describe(p.Type)
}

// FunctionDeclaration declares a named function.
// @ <Name> :: <Parameters> -> <ReturnType> | <Body> ~
type FunctionDeclaration struct {
	Token      lexer.Token // The '@' token
	Name       *Identifier
	Parameters []*Parameter
	ReturnType types.Type
	Body       []Statement
}

func (fd *FunctionDeclaration) statementNode()       {}
func (fd *FunctionDeclaration) TokenLiteral() string { return fd.Token.Literal }
func (fd *FunctionDeclaration) String() string {
	params := make([]string, len(fd.Parameters))
	for i, p := range fd.Parameters {
		params[i] = p.String()
	}
	paramStr := strings.Join(params, " & ")
	if len(params) == 0 {
		paramStr = "()"
	}
	return "@ " + fd.Name.String() + " :: " + paramStr + " -> " + types.Describe(fd.ReturnType) + " " + blockString(fd.Body)
}

// Signature returns the declaration's function type.
func (fd *FunctionDeclaration) Signature() *types.FunctionType {
	params := make([]types.Type, len(fd.Parameters))
	for i, p := range fd.Parameters {
		params[i] = p.Type
	}
	return &types.FunctionType{ParameterTypes: params, ReturnType: fd.ReturnType}
}

// Branching runs one of two blocks depending on a condition.
// ? [<Condition>] | <Consequence> ~ : | <Alternative> ~
type Branching struct {
	Token       lexer.Token // The '?' token
	Condition   Expression
	Consequence []Statement
	Alternative []Statement // nil when there is no else clause
	HasElse     bool
}

func (b *Branching) statementNode()       {}
func (b *Branching) TokenLiteral() string { return b.Token.Literal }
func (b *Branching) String() string {
	s := "? [" + b.Condition.String() + "] " + blockString(b.Consequence)
	if b.HasElse {
		s += " : " + blockString(b.Alternative)
	}
	return s
}

// Loop is a pre-test while loop.
// % [<Condition>] | <Body> ~
type Loop struct {
	Token     lexer.Token // The '%' token
	Condition Expression
	Body      []Statement
}

func (l *Loop) statementNode()       {}
func (l *Loop) TokenLiteral() string { return l.Token.Literal }
func (l *Loop) String() string {
	return "% [" + l.Condition.String() + "] " + blockString(l.Body)
}

// Output appends the display form of a value to the program output.
// ^^ <Value>;
type Output struct {
	Token lexer.Token // The '^^' token
	Value Expression
}

func (o *Output) statementNode()       {}
func (o *Output) TokenLiteral() string { return o.Token.Literal }
func (o *Output) String() string       { return "^^ " + o.Value.String() + ";" }

// Return leaves the named function with a value.
// @ <Function> <- <Value>;
type Return struct {
	Token    lexer.Token // The '@' token
	Function *Identifier // Must name the innermost enclosing function
	Value    Expression
}

func (r *Return) statementNode()       {}
func (r *Return) TokenLiteral() string { return r.Token.Literal }
func (r *Return) String() string {
	return "@ " + r.Function.String() + " <- " + r.Value.String() + ";"
}

// StructField is one `name : type` entry of a struct declaration.
type StructField struct {
	Name *Identifier
	Type types.Type
}

// StructTypeDeclaration declares a named record shape.
// $ <Name> :: { <field> : <type>; ... }
type StructTypeDeclaration struct {
	Token  lexer.Token // The '$' token
	Name   *Identifier
	Fields []*StructField // Declaration order
}

func (sd *StructTypeDeclaration) statementNode()       {}
func (sd *StructTypeDeclaration) TokenLiteral() string { return sd.Token.Literal }
func (sd *StructTypeDeclaration) String() string {
	var out bytes.Buffer
	out.WriteString("$ " + sd.Name.String() + " :: { ")
	for _, f := range sd.Fields {
		out.WriteString(f.Name.String() + " : " + types.Describe(f.Type) + "; ")
	}
	out.WriteString("}")
	return out.String()
}

// --- Expression Nodes ---

// Identifier names a variable.
type Identifier struct {
	Token lexer.Token // The lexer.IDENT token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }

// LiteralKind distinguishes the scalar literal forms.
type LiteralKind int

const (
	NumberLiteral LiteralKind = iota
	StringLiteral
	BoolLiteral
	NoneLiteral
)

// Literal is a scalar constant: number, string, yes/no or none.
type Literal struct {
	Token  lexer.Token
	Kind   LiteralKind
	Number float64
	Text   string
	Bool   bool
}

func (l *Literal) expressionNode()      {}
func (l *Literal) TokenLiteral() string { return l.Token.Literal }
func (l *Literal) String() string {
	switch l.Kind {
	case NumberLiteral:
		return strconv.FormatFloat(l.Number, 'f', -1, 64)
	case StringLiteral:
		return `"` + l.Text + `"`
	case BoolLiteral:
		if l.Bool {
			return "yes"
		}
		return "no"
	default:
		return "none"
	}
}

// Type returns the static type of the literal.
func (l *Literal) Type() types.Type {
	switch l.Kind {
	case NumberLiteral:
		return types.Number
	case StringLiteral:
		return types.String
	case BoolLiteral:
		return types.Bool
	default:
		return types.Void
	}
}

// UnaryExpression applies '-' or '!' to a literal or identifier.
type UnaryExpression struct {
	Token    lexer.Token // The operator token
	Operator string
	Operand  Expression // *Literal or *Identifier
}

func (ue *UnaryExpression) expressionNode()      {}
func (ue *UnaryExpression) TokenLiteral() string { return ue.Token.Literal }
func (ue *UnaryExpression) String() string {
	return "(" + ue.Operator + ue.Operand.String() + ")"
}

// BinaryExpression is a left-associative infix operation.
type BinaryExpression struct {
	Token    lexer.Token // The operator token, e.g. +
	Left     Expression
	Operator string // e.g., "+", "==", "&&", "."
	Right    Expression
}

func (be *BinaryExpression) expressionNode()      {}
func (be *BinaryExpression) TokenLiteral() string { return be.Token.Literal }
func (be *BinaryExpression) String() string {
	return "(" + be.Left.String() + " " + be.Operator + " " + be.Right.String() + ")"
}

// ObjectField is one `name : value` entry of an object literal.
type ObjectField struct {
	Name  *Identifier
	Value Expression
}

// ObjectLiteral builds a struct record; the checker resolves which struct.
// (<name>: <value>, ...)
type ObjectLiteral struct {
	Token  lexer.Token // The '(' token
	Fields []*ObjectField
}

func (ol *ObjectLiteral) expressionNode()      {}
func (ol *ObjectLiteral) TokenLiteral() string { return ol.Token.Literal }
func (ol *ObjectLiteral) String() string {
	fields := make([]string, len(ol.Fields))
	for i, f := range ol.Fields {
		fields[i] = f.Name.String() + ": " + f.Value.String()
	}
	return "(" + strings.Join(fields, ", ") + ")"
}

// PropertyAccess reads a struct field or the synthetic length property.
// <Object> -> <Property>
type PropertyAccess struct {
	Token              lexer.Token // The '->' token
	Object             Expression
	Property           *Identifier
	IsAssignmentTarget bool
}

func (pa *PropertyAccess) expressionNode()      {}
func (pa *PropertyAccess) TokenLiteral() string { return pa.Token.Literal }
func (pa *PropertyAccess) String() string {
	return pa.Object.String() + " -> " + pa.Property.String()
}

// IndexAccess reads a string character or an array element.
// <Object> -> (<Index>)
type IndexAccess struct {
	Token  lexer.Token // The '->' token
	Object Expression
	Index  Expression
}

func (ia *IndexAccess) expressionNode()      {}
func (ia *IndexAccess) TokenLiteral() string { return ia.Token.Literal }
func (ia *IndexAccess) String() string {
	return ia.Object.String() + " -> (" + ia.Index.String() + ")"
}

// FunctionCall invokes a declared function. It is both an expression and,
// terminated by ';', a statement.
// <> <Function> :: (<Arguments>)
type FunctionCall struct {
	Token     lexer.Token // The '<>' token
	Function  *Identifier
	Arguments []Expression
}

func (fc *FunctionCall) expressionNode()      {}
func (fc *FunctionCall) statementNode()       {}
func (fc *FunctionCall) TokenLiteral() string { return fc.Token.Literal }
func (fc *FunctionCall) String() string {
	return "<> " + fc.Function.String() + " :: (" + joinExpressions(fc.Arguments) + ")"
}

// TypeConstruction builds a value of a named type: `string(n)`,
// `string(s)`, `array<T>(n)` or the element list form `array<T>[a, b]`.
type TypeConstruction struct {
	Token     lexer.Token // The type keyword token
	Type      types.Type
	Arguments []Expression
	IsList    bool // array<T>[...] form
}

func (tc *TypeConstruction) expressionNode()      {}
func (tc *TypeConstruction) TokenLiteral() string { return tc.Token.Literal }
func (tc *TypeConstruction) String() string {
	if tc.IsList {
		return types.Describe(tc.Type) + "[" + joinExpressions(tc.Arguments) + "]"
	}
	return types.Describe(tc.Type) + "(" + joinExpressions(tc.Arguments) + ")"
}

func joinExpressions(exprs []Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
