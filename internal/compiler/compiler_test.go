package compiler

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aprice/jlc/internal/diag"
)

func TestCompileSingleClassProducesVMOutput(t *testing.T) {
	c := New()
	outputs, err := c.Compile([]Source{
		{Name: "Main", Text: []byte(`
			class Main {
				function void main() {
					do Output.println();
					return;
				}
			}
		`)},
		{Name: "Output", Text: []byte(`
			class Output {
				function void println() {
					return;
				}
			}
		`)},
	})
	require.NoError(t, err)
	require.Len(t, outputs, 2)
	require.Equal(t, "Main", outputs[0].Source.Name)
	require.Contains(t, string(outputs[0].VM), "function Main.main 0")
	require.Contains(t, string(outputs[0].VM), "call Output.println 0")
}

func TestCompileResolvesClassReferencesAcrossFiles(t *testing.T) {
	c := New()
	outputs, err := c.Compile([]Source{
		{Name: "A", Text: []byte("class A { field B b; method void f() { return; } }")},
		{Name: "B", Text: []byte("class B { field int x; constructor B new() { return this; } }")},
	})
	require.NoError(t, err)
	require.Len(t, outputs, 2)
}

func TestCompileStopsAtFirstSyntaxError(t *testing.T) {
	c := New()
	_, err := c.Compile([]Source{
		{Name: "Broken", Text: []byte("class Broken { function void f() { return 1 } }")},
	})
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "Broken"))

	var fe *diag.FatalError
	require.True(t, errors.As(err, &fe), "a parse-phase error must still unwrap to *diag.FatalError")
	require.Equal(t, diag.ExitSyntax, fe.ExitCode)
}

func TestCompileLexicalErrorUnwrapsToCorrectExitCode(t *testing.T) {
	c := New()
	_, err := c.Compile([]Source{
		{Name: "Broken", Text: []byte(`class Broken { function void f() { let x = "unterminated; } }`)},
	})
	require.Error(t, err)

	var fe *diag.FatalError
	require.True(t, errors.As(err, &fe), "a parse-phase lexical error must still unwrap to *diag.FatalError")
	require.Equal(t, diag.ExitLexical, fe.ExitCode)
}

func TestCompileStopsAtFinalisationError(t *testing.T) {
	c := New()
	_, err := c.Compile([]Source{
		{Name: "A", Text: []byte("class A { field Missing m; }")},
	})
	require.Error(t, err)
}

func TestCompileCollectsWarningsAcrossClasses(t *testing.T) {
	c := New()
	_, err := c.Compile([]Source{
		{Name: "lowercase", Text: []byte("class lowercase { function void f() { return; } }")},
	})
	require.NoError(t, err)
	require.NotEmpty(t, c.Warnings.Warnings)
}
