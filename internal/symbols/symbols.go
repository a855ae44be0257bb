// Package symbols implements the class/function/variable symbol tables
// built during parsing and resolved during finalisation (spec.md §3, §4.3).
package symbols

import "github.com/aprice/jlc/internal/ast"

// VariableKind is the storage kind of a declared variable.
type VariableKind string

const (
	Local  VariableKind = "local"
	Field  VariableKind = "field"
	Static VariableKind = "static"
)

// Construction describes how a variable's declared type resolves.
type Construction string

const (
	Primitive Construction = "primitive"
	Array     Construction = "array"
	Structure Construction = "structure"
)

// FunctionKind is the subroutine category.
type FunctionKind string

const (
	Constructor FunctionKind = "constructor"
	Method      FunctionKind = "method"
	Function    FunctionKind = "function"
)

// VariableSymbol describes one declared variable: a class field/static,
// a function argument, or a function local.
type VariableSymbol struct {
	Name         string
	TypeName     string
	Kind         VariableKind
	IsArgument   bool
	Initialised  bool
	Offset       int
	Construction Construction
	TypeClass    *ClassTable // non-nil only when Construction == Structure
	Line         int
}

// FunctionTable describes one subroutine: its signature, locals, and body.
type FunctionTable struct {
	Name          string
	ReturnType    string
	Kind          FunctionKind
	Arguments     []*VariableSymbol
	Locals        []*VariableSymbol
	Body          []ast.Statement
	ArgumentCount int
	VariableCount int
	TypeClass     *ClassTable // non-nil only for non-primitive return types
	Line          int
}

// NewFunctionTable creates a FunctionTable of the given kind. Methods
// pre-reserve argument offset 0 for the implicit `this` receiver, so the
// first user-declared argument is appended at offset 1 (spec.md §4.2,
// invariant 4 of spec.md §8).
func NewFunctionTable(name string, kind FunctionKind, line int) *FunctionTable {
	f := &FunctionTable{Name: name, Kind: kind, Line: line}
	if kind == Method {
		f.ArgumentCount = 1
	}
	return f
}

// AddArgument appends a parameter, assigning it the next argument offset.
func (f *FunctionTable) AddArgument(v *VariableSymbol) {
	v.Kind = Local
	v.IsArgument = true
	v.Initialised = true
	v.Offset = f.ArgumentCount
	f.ArgumentCount++
	f.Arguments = append(f.Arguments, v)
}

// AddLocal appends a `var`-declared local, assigning it the next local offset.
func (f *FunctionTable) AddLocal(v *VariableSymbol) {
	v.Kind = Local
	v.Offset = f.VariableCount
	f.VariableCount++
	f.Locals = append(f.Locals, v)
}

// AddStatement appends a statement to the function's body.
func (f *FunctionTable) AddStatement(s ast.Statement) {
	f.Body = append(f.Body, s)
}

// LookupVariable resolves name against locals first, then arguments
// (spec.md §4.4's scoped lookup: "function-local/argument first").
func (f *FunctionTable) LookupVariable(name string) (*VariableSymbol, bool) {
	for _, v := range f.Locals {
		if v.Name == name {
			return v, true
		}
	}
	for _, v := range f.Arguments {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}

// ClassTable describes one declared class: its fields/statics and
// subroutines.
type ClassTable struct {
	Name        string
	Variables   []*VariableSymbol
	Functions   []*FunctionTable
	StaticCount int
	FieldCount  int
	Line        int
}

// NewClassTable creates an empty ClassTable.
func NewClassTable(name string, line int) *ClassTable {
	return &ClassTable{Name: name, Line: line}
}

// AddVariable appends a class-level field or static, assigning it the
// next offset within its own segment.
func (c *ClassTable) AddVariable(v *VariableSymbol) {
	if v.Kind == Static {
		v.Offset = c.StaticCount
		c.StaticCount++
	} else {
		v.Kind = Field
		v.Offset = c.FieldCount
		c.FieldCount++
	}
	c.Variables = append(c.Variables, v)
}

// AddFunction appends a subroutine declaration.
func (c *ClassTable) AddFunction(f *FunctionTable) {
	c.Functions = append(c.Functions, f)
}

// LookupVariable resolves name against this class's fields/statics only.
func (c *ClassTable) LookupVariable(name string) (*VariableSymbol, bool) {
	for _, v := range c.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}

// LookupFunction resolves name against this class's subroutines.
func (c *ClassTable) LookupFunction(name string) (*FunctionTable, bool) {
	for _, f := range c.Functions {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// ClassList is the ordered sequence of all classes parsed so far. Order
// matters: lookup-by-name is linear, so when two classes share a name the
// earlier one is found. Forward references across files are resolved once
// every file has been parsed (spec.md §3, §4.3).
type ClassList []*ClassTable

// Lookup finds a class by name, or reports false if none exists.
func (l ClassList) Lookup(name string) (*ClassTable, bool) {
	for _, c := range l {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}
