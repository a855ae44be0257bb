// Package diag implements the compiler's diagnostic taxonomy and exit-code
// contract (spec.md §6, §7): fatal I/O, memory, lexical, syntactic, and
// semantic errors terminate compilation immediately; semantic warnings are
// collected and reported but never change the process's success exit code.
//
// The message shapes are a fixed external contract copied from
// original_source/src/jsym.c and jparse.c, not an original rendering — see
// DESIGN.md.
package diag

import "fmt"

// ExitCode enumerates spec.md §6/§7's process exit codes.
type ExitCode int

const (
	ExitSuccess  ExitCode = 0
	ExitFile     ExitCode = 1
	ExitMemory   ExitCode = 2
	ExitLexical  ExitCode = 3
	ExitSyntax   ExitCode = 4
	ExitSemantic ExitCode = 5
)

// FatalError is a terminal compiler error: I/O, lexical, syntactic, or
// semantic. Its ExitCode tells the caller which of spec.md §7's process
// exit codes to use.
type FatalError struct {
	ExitCode ExitCode
	Message  string
}

func (e *FatalError) Error() string { return e.Message }

// Syntax builds the exact diagnostic text spec.md §4.2/§6 mandates for a
// parser mismatch.
func Syntax(expected string, gotText string, line int) *FatalError {
	return &FatalError{
		ExitCode: ExitSyntax,
		Message:  fmt.Sprintf("Syntax error: %s expected! Got %q instead (line %d)", expected, gotText, line),
	}
}

// Lexical wraps a lexer failure as a fatal diagnostic.
func Lexical(message string, line int) *FatalError {
	return &FatalError{
		ExitCode: ExitLexical,
		Message:  fmt.Sprintf("Lexical error: %s (line %d)", message, line),
	}
}

// Semantic builds a fatal semantic-error diagnostic, scoped to a class and
// (optionally) a source line (original_source/src/jsym.c's semanticError,
// which omits the line when there is no current statement).
func Semantic(className, message string, line int) *FatalError {
	msg := fmt.Sprintf("Semantic error in class %q: %s!", className, message)
	if line > 0 {
		msg = fmt.Sprintf("%s (line %d)", msg, line)
	}
	return &FatalError{ExitCode: ExitSemantic, Message: msg}
}

// Finalisation builds a fatal finalisation-error diagnostic (always line
// scoped; original_source/src/jsym.c's finalisationError).
func Finalisation(className, message string, line int) *FatalError {
	return &FatalError{
		ExitCode: ExitSemantic,
		Message:  fmt.Sprintf("Semantic error in class %q: %s! (line %d)", className, message, line),
	}
}

// Warning is a non-fatal semantic diagnostic. Warnings never change the
// process's exit code (spec.md §7, taxonomy item 6).
type Warning struct {
	ClassName string
	Message   string
	Line      int // 0 when there is no current statement
}

func (w Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("Semantic warning in class %q: %s! (line %d)", w.ClassName, w.Message, w.Line)
	}
	return fmt.Sprintf("Semantic warning in class %q: %s!", w.ClassName, w.Message)
}

// Collector accumulates warnings emitted over the lifetime of a compile.
type Collector struct {
	Warnings []Warning
}

// Warn records a warning against className at the given line (0 if none).
func (c *Collector) Warn(className, message string, line int) {
	c.Warnings = append(c.Warnings, Warning{ClassName: className, Message: message, Line: line})
}
