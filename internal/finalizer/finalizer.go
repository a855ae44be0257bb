// Package finalizer implements the second compilation pass: it runs once
// every input file has been parsed, so that forward references across
// files resolve correctly (spec.md §4.3).
//
// For each class it reassigns variable offsets, resolves typeName strings
// to resolved ClassTable references, and checks name uniqueness. Offsets
// assigned during parsing (spec.md §4.2's "side effects on symbol
// tables") are provisional; finalisation is authoritative.
package finalizer

import (
	"github.com/aprice/jlc/internal/diag"
	"github.com/aprice/jlc/internal/symbols"
)

var primitiveTypes = map[string]bool{"int": true, "boolean": true, "char": true}

// Finalise walks every class in classes, in declaration order, and
// resolves its variables and functions. It returns the first fatal
// error encountered (original_source/src/jsym.c's finalisationError
// terminates the whole run immediately; there is no error recovery here
// either).
func Finalise(classes symbols.ClassList) error {
	for _, class := range classes {
		if err := finaliseClass(class, classes); err != nil {
			return err
		}
	}
	return nil
}

func finaliseClass(class *symbols.ClassTable, classes symbols.ClassList) error {
	fieldOffset, staticOffset := 0, 0

	for _, v := range class.Variables {
		if v.Kind == symbols.Field {
			v.Offset = fieldOffset
			fieldOffset++
		} else {
			v.Offset = staticOffset
			staticOffset++
		}

		if err := verifyVariableType(v, classes, class.Name); err != nil {
			return err
		}
	}
	class.FieldCount = fieldOffset
	class.StaticCount = staticOffset

	if err := checkVariableUniqueness(class.Variables, class.Name); err != nil {
		return err
	}

	for _, fn := range class.Functions {
		if err := finaliseFunction(fn, classes, class.Name); err != nil {
			return err
		}
	}

	return nil
}

func finaliseFunction(fn *symbols.FunctionTable, classes symbols.ClassList, className string) error {
	if err := verifyFunctionType(fn, classes, className); err != nil {
		return err
	}

	offset := 0
	if fn.Kind == symbols.Method {
		offset = 1
	}
	for _, arg := range fn.Arguments {
		arg.Offset = offset
		offset++
		arg.Initialised = true
		arg.IsArgument = true
		if err := verifyVariableType(arg, classes, className); err != nil {
			return err
		}
	}
	fn.ArgumentCount = offset

	localOffset := 0
	for _, local := range fn.Locals {
		local.Offset = localOffset
		localOffset++
		if err := verifyVariableType(local, classes, className); err != nil {
			return err
		}
	}
	fn.VariableCount = localOffset

	if err := checkArgumentAndLocalUniqueness(fn, className); err != nil {
		return err
	}

	return nil
}

// verifyVariableType resolves a variable's declared type name to one of
// the primitive constructions, the built-in Array construction, or a
// concrete ClassTable. An unresolved class name is fatal
// (original_source/src/jsym.c's verifyVariableType).
func verifyVariableType(v *symbols.VariableSymbol, classes symbols.ClassList, className string) error {
	switch {
	case primitiveTypes[v.TypeName]:
		v.Construction = symbols.Primitive
	case v.TypeName == "Array":
		v.Construction = symbols.Array
	default:
		target, ok := classes.Lookup(v.TypeName)
		if !ok {
			return diag.Finalisation(className, "Function type does not exist", v.Line)
		}
		v.TypeClass = target
		v.Construction = symbols.Structure
	}
	return nil
}

// verifyFunctionType resolves a function's declared return type the same
// way, except "void" and "Array" are always accepted without a class
// lookup (original_source/src/jsym.c's verifyFunctionType).
func verifyFunctionType(fn *symbols.FunctionTable, classes symbols.ClassList, className string) error {
	if fn.ReturnType == "void" || fn.ReturnType == "Array" || primitiveTypes[fn.ReturnType] {
		return nil
	}
	target, ok := classes.Lookup(fn.ReturnType)
	if !ok {
		return diag.Finalisation(className, "Function type does not exist", fn.Line)
	}
	fn.TypeClass = target
	return nil
}

func checkVariableUniqueness(vars []*symbols.VariableSymbol, className string) error {
	seen := make(map[string]bool, len(vars))
	for _, v := range vars {
		if seen[v.Name] {
			return diag.Finalisation(className, "Variable names must be unique", v.Line)
		}
		seen[v.Name] = true
	}
	return nil
}

// checkArgumentAndLocalUniqueness enforces that no two arguments share a
// name, no two locals share a name, and no local shadows an argument
// (spec.md §3's invariant; original_source/src/jsym.c checks both
// directions for both families).
func checkArgumentAndLocalUniqueness(fn *symbols.FunctionTable, className string) error {
	seen := make(map[string]bool, len(fn.Arguments)+len(fn.Locals))
	for _, arg := range fn.Arguments {
		if seen[arg.Name] {
			return diag.Finalisation(className, "Variable names must be unique", arg.Line)
		}
		seen[arg.Name] = true
	}
	for _, local := range fn.Locals {
		if seen[local.Name] {
			return diag.Finalisation(className, "Variable names must be unique", local.Line)
		}
		seen[local.Name] = true
	}
	return nil
}
