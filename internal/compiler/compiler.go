// Package compiler bundles the four compilation phases (lex, parse,
// finalise, generate) behind a single Compiler context, replacing the
// package-level mutable cursors libklein-jackcompiler's
// recursive_decent_parser.go used to share state between parsing and
// code generation (spec.md §9 REDESIGN FLAGS: "bundle cursors into an
// explicit context").
//
// A Compiler handles a whole multi-file compilation unit: every class
// across every input file must be parsed before any class can be
// finalised, because class references resolve across files (spec.md
// §4.3).
package compiler

import (
	"fmt"

	"github.com/aprice/jlc/internal/codegen"
	"github.com/aprice/jlc/internal/diag"
	"github.com/aprice/jlc/internal/finalizer"
	"github.com/aprice/jlc/internal/lexer"
	"github.com/aprice/jlc/internal/parser"
	"github.com/aprice/jlc/internal/symbols"
)

// Source is one input file: its class name (derived from the file's
// base name, mirroring the .jack/.vm naming convention in
// libklein-jackcompiler/main.go's getClassName/getOutputPath) and its
// source text.
type Source struct {
	Name string
	Text []byte
}

// Output is one generated class's VM assembly, keyed by the source it
// came from.
type Output struct {
	Source Source
	VM     []byte
}

// Compiler orchestrates the pipeline over a whole compilation unit and
// accumulates warnings across every phase.
type Compiler struct {
	Warnings *diag.Collector

	classes symbols.ClassList
	sources []Source
}

// New creates an empty Compiler.
func New() *Compiler {
	return &Compiler{Warnings: &diag.Collector{}}
}

// Compile runs lex, parse, finalise, and generate over every source in
// order, and returns one Output per source. It stops at the first fatal
// error, matching original_source/src/main.c's abort-on-first-error
// behavior; there is no partial output on failure.
func (c *Compiler) Compile(sources []Source) ([]Output, error) {
	c.sources = sources

	for _, src := range sources {
		p := parser.New(lexer.New(src.Text), c.Warnings)
		class, err := p.ParseClass()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.Name, err)
		}
		c.classes = append(c.classes, class)
	}

	if err := finalizer.Finalise(c.classes); err != nil {
		return nil, err
	}

	outputs := make([]Output, 0, len(sources))
	for i, class := range c.classes {
		vm, err := codegen.GenerateClass(class, c.classes, c.Warnings)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, Output{Source: sources[i], VM: vm})
	}

	return outputs, nil
}
