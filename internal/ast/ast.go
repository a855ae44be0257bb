// Package ast defines the sum-typed abstract syntax tree produced by the
// parser: expressions, terms, and statements. Each node category is an
// interface with an unexported marker method, giving the code generator a
// total, exhaustive switch over concrete node types (spec.md §9's
// "tagged unions as sum types" redesign flag).
package ast

// Expression is (terms[0..n], operators[0..n-1]) with n >= 1. Operators
// apply strictly left-to-right; the grammar has no precedence (spec.md
// §3, §4.2, §9).
type Expression struct {
	Terms     []Term
	Operators []string // len(Operators) == len(Terms)-1
	Line      int
}

// Term is the tagged union over JL's atomic expression forms.
type Term interface {
	termNode()
	Pos() int
}

type baseTerm struct{ Line int }

func (baseTerm) termNode()  {}
func (b baseTerm) Pos() int { return b.Line }

// IntegerTerm is an integer literal.
type IntegerTerm struct {
	baseTerm
	Value int
}

// StringTerm is a string literal (without surrounding quotes).
type StringTerm struct {
	baseTerm
	Value string
}

// KeywordConstant ∈ {true, false, null, this}.
type KeywordConstant struct {
	baseTerm
	Keyword string
}

// VariableTerm references a local/argument/field/static variable by name.
type VariableTerm struct {
	baseTerm
	Name string
}

// ArrayTerm is `name[index]`.
type ArrayTerm struct {
	baseTerm
	Name  string
	Index *Expression
}

// ParenTerm is a parenthesised expression.
type ParenTerm struct {
	baseTerm
	Inner *Expression
}

// UnaryTerm is `-term` or `~term`.
type UnaryTerm struct {
	baseTerm
	Operator string // "-" or "~"
	Operand  Term
}

// CallTerm is a subroutine call used as a term: `name(args)` or
// `qualifier.name(args)`.
type CallTerm struct {
	baseTerm
	Call *Call
}

// Call is a subroutine call, shared between do-statements and call terms.
// Qualifier is empty for an unqualified call (`name(args)`); otherwise it
// holds the class-or-variable name before the dot.
type Call struct {
	Qualifier string
	Name      string
	Args      []*Expression
	Line      int
}

// Statement is the tagged union over JL's statement forms. var-declarations
// are consumed into the enclosing function's variable table during parsing
// and never appear as Statement values (spec.md §3).
type Statement interface {
	stmtNode()
	Pos() int
}

type baseStmt struct{ Line int }

func (baseStmt) stmtNode()  {}
func (b baseStmt) Pos() int { return b.Line }

// LetStatement assigns to a variable or, if Index is non-nil, to an array
// element.
type LetStatement struct {
	baseStmt
	Target string
	Index  *Expression // nil unless this is an array assignment
	Value  *Expression
}

// IfStatement is `if (Cond) { Then } [else { Else }]`.
type IfStatement struct {
	baseStmt
	Cond *Expression
	Then []Statement
	Else []Statement // nil if no else clause
}

// WhileStatement is `while (Cond) { Body }`.
type WhileStatement struct {
	baseStmt
	Cond *Expression
	Body []Statement
}

// DoStatement evaluates a call and discards its result.
type DoStatement struct {
	baseStmt
	Call *Call
}

// ReturnStatement returns Value, or nothing if Value is nil.
type ReturnStatement struct {
	baseStmt
	Value *Expression
}

// Constructors. baseTerm/baseStmt are unexported so that other packages
// cannot forge a Term/Statement outside this file's accounting of
// Pos(); these are the only way to attach a source line when building a
// node from another package (the parser).

func NewIntegerTerm(line, value int) *IntegerTerm {
	return &IntegerTerm{baseTerm{line}, value}
}

func NewStringTerm(line int, value string) *StringTerm {
	return &StringTerm{baseTerm{line}, value}
}

func NewKeywordConstant(line int, keyword string) *KeywordConstant {
	return &KeywordConstant{baseTerm{line}, keyword}
}

func NewVariableTerm(line int, name string) *VariableTerm {
	return &VariableTerm{baseTerm{line}, name}
}

func NewArrayTerm(line int, name string, index *Expression) *ArrayTerm {
	return &ArrayTerm{baseTerm{line}, name, index}
}

func NewParenTerm(line int, inner *Expression) *ParenTerm {
	return &ParenTerm{baseTerm{line}, inner}
}

func NewUnaryTerm(line int, operator string, operand Term) *UnaryTerm {
	return &UnaryTerm{baseTerm{line}, operator, operand}
}

func NewCallTerm(line int, call *Call) *CallTerm {
	return &CallTerm{baseTerm{line}, call}
}

func NewLetStatement(line int, target string, index, value *Expression) *LetStatement {
	return &LetStatement{baseStmt{line}, target, index, value}
}

func NewIfStatement(line int, cond *Expression, then, els []Statement) *IfStatement {
	return &IfStatement{baseStmt{line}, cond, then, els}
}

func NewWhileStatement(line int, cond *Expression, body []Statement) *WhileStatement {
	return &WhileStatement{baseStmt{line}, cond, body}
}

func NewDoStatement(line int, call *Call) *DoStatement {
	return &DoStatement{baseStmt{line}, call}
}

func NewReturnStatement(line int, value *Expression) *ReturnStatement {
	return &ReturnStatement{baseStmt{line}, value}
}
