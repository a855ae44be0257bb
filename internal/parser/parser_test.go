package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aprice/jlc/internal/ast"
	"github.com/aprice/jlc/internal/diag"
	"github.com/aprice/jlc/internal/lexer"
	"github.com/aprice/jlc/internal/symbols"
)

func parseString(t *testing.T, src string) *symbols.ClassTable {
	t.Helper()
	p := New(lexer.NewFromString(src), &diag.Collector{})
	class, err := p.ParseClass()
	require.NoError(t, err)
	return class
}

func TestParsesEmptyClass(t *testing.T) {
	class := parseString(t, "class Empty { }")
	require.Equal(t, "Empty", class.Name)
	require.Empty(t, class.Variables)
	require.Empty(t, class.Functions)
}

func TestParsesClassVarDecWithList(t *testing.T) {
	class := parseString(t, "class A { field int x, y; static boolean z; }")
	require.Len(t, class.Variables, 3)
	require.Equal(t, "x", class.Variables[0].Name)
	require.Equal(t, symbols.Field, class.Variables[0].Kind)
	require.Equal(t, "y", class.Variables[1].Name)
	require.Equal(t, symbols.Field, class.Variables[1].Kind)
	require.Equal(t, "z", class.Variables[2].Name)
	require.Equal(t, symbols.Static, class.Variables[2].Kind)
}

func TestMethodReservesImplicitThisArgument(t *testing.T) {
	class := parseString(t, "class A { method int f(int a) { return a; } }")
	require.Len(t, class.Functions, 1)
	fn := class.Functions[0]
	require.Equal(t, symbols.Method, fn.Kind)
	require.Equal(t, 2, fn.ArgumentCount) // this + a
	require.Len(t, fn.Arguments, 1)
	require.Equal(t, 1, fn.Arguments[0].Offset)
}

func TestFunctionArgumentsStartAtZero(t *testing.T) {
	class := parseString(t, "class A { function int f(int a, int b) { return a; } }")
	fn := class.Functions[0]
	require.Equal(t, 0, fn.Arguments[0].Offset)
	require.Equal(t, 1, fn.Arguments[1].Offset)
}

func TestVarDeclarationsBecomeLocalsNotStatements(t *testing.T) {
	class := parseString(t, "class A { function void f() { var int x; var int y; let x = 1; return; } }")
	fn := class.Functions[0]
	require.Len(t, fn.Locals, 2)
	require.Len(t, fn.Body, 2) // let + return; var decls excluded
}

func TestParsesIfElseAndPreservesBothBranches(t *testing.T) {
	class := parseString(t, `class A {
		function void f() {
			if (1) { return; } else { return; }
			return;
		}
	}`)
	fn := class.Functions[0]
	require.Len(t, fn.Body, 2)
	ifStmt, ok := fn.Body[0].(*ast.IfStatement)
	require.True(t, ok)
	require.Len(t, ifStmt.Then, 1)
	require.Len(t, ifStmt.Else, 1)
}

func TestParsesWhileLoop(t *testing.T) {
	class := parseString(t, "class A { function void h() { while (0) { } return; } }")
	fn := class.Functions[0]
	whileStmt, ok := fn.Body[0].(*ast.WhileStatement)
	require.True(t, ok)
	require.Empty(t, whileStmt.Body)
}

func TestExpressionIsLeftToRightNoPrecedence(t *testing.T) {
	class := parseString(t, "class A { function int f() { return a + b * c; } }")
	fn := class.Functions[0]
	ret, ok := fn.Body[0].(*ast.ReturnStatement)
	require.True(t, ok)
	require.Len(t, ret.Value.Terms, 3)
	require.Equal(t, []string{"+", "*"}, ret.Value.Operators)
}

func TestParsesQualifiedAndUnqualifiedCalls(t *testing.T) {
	class := parseString(t, `class A {
		function void f() {
			do Output.println();
			do helper(1, 2);
			return;
		}
	}`)
	fn := class.Functions[0]
	call1 := fn.Body[0].(*ast.DoStatement).Call
	require.Equal(t, "Output", call1.Qualifier)
	require.Equal(t, "println", call1.Name)

	call2 := fn.Body[1].(*ast.DoStatement).Call
	require.Equal(t, "", call2.Qualifier)
	require.Equal(t, "helper", call2.Name)
	require.Len(t, call2.Args, 2)
}

func TestParsesArrayReferenceAndLetIndex(t *testing.T) {
	class := parseString(t, "class A { function void f() { let a[1] = 2; return; } }")
	fn := class.Functions[0]
	letStmt := fn.Body[0].(*ast.LetStatement)
	require.Equal(t, "a", letStmt.Target)
	require.NotNil(t, letStmt.Index)
}

func TestMissingSemicolonIsSyntaxError(t *testing.T) {
	p := New(lexer.NewFromString("class A { function void f() { return 1 } }"), &diag.Collector{})
	_, err := p.ParseClass()
	require.Error(t, err)
	fe, ok := err.(*diag.FatalError)
	require.True(t, ok)
	require.Equal(t, diag.ExitSyntax, fe.ExitCode)
}

func TestUnaryAndParenTerms(t *testing.T) {
	class := parseString(t, "class A { function int f() { return -(1 + 2); } }")
	fn := class.Functions[0]
	ret := fn.Body[0].(*ast.ReturnStatement)
	unary, ok := ret.Value.Terms[0].(*ast.UnaryTerm)
	require.True(t, ok)
	require.Equal(t, "-", unary.Operator)
	_, ok = unary.Operand.(*ast.ParenTerm)
	require.True(t, ok)
}

func TestConstructorParsesCorrectly(t *testing.T) {
	class := parseString(t, "class A { field int x; constructor A new() { let x = 3; return this; } }")
	fn := class.Functions[0]
	require.Equal(t, symbols.Constructor, fn.Kind)
	require.Equal(t, "A", fn.ReturnType)
}
