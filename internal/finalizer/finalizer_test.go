package finalizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aprice/jlc/internal/diag"
	"github.com/aprice/jlc/internal/lexer"
	"github.com/aprice/jlc/internal/parser"
	"github.com/aprice/jlc/internal/symbols"
)

func parseClasses(t *testing.T, srcs ...string) symbols.ClassList {
	t.Helper()
	var classes symbols.ClassList
	for _, src := range srcs {
		p := parser.New(lexer.NewFromString(src), &diag.Collector{})
		class, err := p.ParseClass()
		require.NoError(t, err)
		classes = append(classes, class)
	}
	return classes
}

func TestFieldAndStaticOffsetsAreSeparatelyCounted(t *testing.T) {
	classes := parseClasses(t, "class A { field int x; static int y; field int z; }")
	require.NoError(t, Finalise(classes))

	a := classes[0]
	require.Equal(t, 0, a.Variables[0].Offset) // x: field 0
	require.Equal(t, 0, a.Variables[1].Offset) // y: static 0
	require.Equal(t, 1, a.Variables[2].Offset) // z: field 1
	require.Equal(t, 2, a.FieldCount)
	require.Equal(t, 1, a.StaticCount)
}

func TestMethodArgumentOffsetsStartAtOne(t *testing.T) {
	classes := parseClasses(t, "class A { method int f(int a, int b) { return a; } }")
	require.NoError(t, Finalise(classes))

	fn := classes[0].Functions[0]
	require.Equal(t, 1, fn.Arguments[0].Offset)
	require.Equal(t, 2, fn.Arguments[1].Offset)
	require.True(t, fn.Arguments[0].Initialised)
	require.True(t, fn.Arguments[0].IsArgument)
}

func TestFunctionArgumentOffsetsStartAtZero(t *testing.T) {
	classes := parseClasses(t, "class A { function int f(int a, int b) { return a; } }")
	require.NoError(t, Finalise(classes))

	fn := classes[0].Functions[0]
	require.Equal(t, 0, fn.Arguments[0].Offset)
	require.Equal(t, 1, fn.Arguments[1].Offset)
}

func TestLocalOffsetsStartAtZero(t *testing.T) {
	classes := parseClasses(t, "class A { function void f() { var int x; var int y; return; } }")
	require.NoError(t, Finalise(classes))

	fn := classes[0].Functions[0]
	require.Equal(t, 0, fn.Locals[0].Offset)
	require.Equal(t, 1, fn.Locals[1].Offset)
	require.False(t, fn.Locals[0].Initialised)
}

func TestStructureFieldResolvesAcrossFiles(t *testing.T) {
	classes := parseClasses(t,
		"class A { field B b; }",
		"class B { field int x; }",
	)
	require.NoError(t, Finalise(classes))

	a := classes[0]
	require.Equal(t, symbols.Structure, a.Variables[0].Construction)
	require.Same(t, classes[1], a.Variables[0].TypeClass)
}

func TestUnknownVariableTypeIsFatal(t *testing.T) {
	classes := parseClasses(t, "class A { field Missing m; }")
	err := Finalise(classes)
	require.Error(t, err)
	fe, ok := err.(*diag.FatalError)
	require.True(t, ok)
	require.Equal(t, diag.ExitSemantic, fe.ExitCode)
}

func TestDuplicateClassVariableNameIsFatal(t *testing.T) {
	classes := parseClasses(t, "class A { field int x; field int x; }")
	err := Finalise(classes)
	require.Error(t, err)
}

func TestDuplicateArgumentAndLocalNameIsFatal(t *testing.T) {
	classes := parseClasses(t, "class A { function void f(int x) { var int x; return; } }")
	err := Finalise(classes)
	require.Error(t, err)
}

func TestArrayConstructionRequiresNoClassLookup(t *testing.T) {
	classes := parseClasses(t, "class A { field Array a; }")
	require.NoError(t, Finalise(classes))
	require.Equal(t, symbols.Array, classes[0].Variables[0].Construction)
}

func TestVoidReturnTypeNeverResolvesAClass(t *testing.T) {
	classes := parseClasses(t, "class A { function void f() { return; } }")
	require.NoError(t, Finalise(classes))
	require.Nil(t, classes[0].Functions[0].TypeClass)
}
