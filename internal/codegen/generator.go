// Package codegen walks the finalised AST and symbol tables to emit VM
// assembly, one class at a time (spec.md §4.4, §6). The jlc command writes
// each class's output beside its source file, under the source file's base
// name with a .vm extension; the file name is not taken from the class
// declaration and the file is not written to the working directory.
//
// It performs the scope lookup (function-local/argument before class
// field/static), the lightweight type inference used purely for
// warnings, and the naming-convention/unreachable-code/use-before-init
// checks spec.md §7 classifies as non-fatal. Undeclared identifiers,
// unknown functions, and unknown types are fatal and abort generation of
// the current class immediately, matching original_source/src/jgen.c's
// semanticError (which terminates the whole run) except that here the
// caller decides whether to continue to the next class.
package codegen

import (
	"bytes"
	"unicode"

	"github.com/aprice/jlc/internal/ast"
	"github.com/aprice/jlc/internal/diag"
	"github.com/aprice/jlc/internal/symbols"
)

type generator struct {
	w       *Writer
	classes symbols.ClassList
	class   *symbols.ClassTable
	fn      *symbols.FunctionTable
	warn    *diag.Collector
	labelID int
}

// GenerateClass emits the VM assembly for one class. The label counter
// is scoped to the class, not to each function (spec.md §8 invariant 3;
// original_source/src/jgen.c resets `labelID` once in processClass).
func GenerateClass(class *symbols.ClassTable, classes symbols.ClassList, warn *diag.Collector) ([]byte, error) {
	var buf bytes.Buffer
	g := &generator{w: NewWriter(&buf), classes: classes, class: class, warn: warn}

	if len(class.Name) > 0 && !unicode.IsUpper(rune(class.Name[0])) {
		warn.Warn(class.Name, "Class name should start with capital letter", 0)
	}

	for _, fn := range class.Functions {
		if err := g.genFunction(fn); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

func (g *generator) genFunction(fn *symbols.FunctionTable) error {
	g.fn = fn

	if len(fn.Name) > 0 && !unicode.IsLower(rune(fn.Name[0])) {
		g.warn.Warn(g.class.Name, "Function name should start with lowercase letter", 0)
	}

	g.w.WriteFunction(g.class.Name+"."+fn.Name, fn.VariableCount)

	switch fn.Kind {
	case symbols.Constructor:
		g.w.WritePush("constant", g.class.FieldCount)
		g.w.WriteCall("Memory.alloc", 1)
		g.w.WritePop("pointer", 0)
	case symbols.Method:
		g.w.WritePush("argument", 0)
		g.w.WritePop("pointer", 0)
	}

	returns, err := g.genStatements(fn.Body)
	if err != nil {
		return err
	}
	if !returns && fn.ReturnType != "void" {
		g.warn.Warn(g.class.Name, "Non-void function not guaranteed to return a value", fn.Line)
	}

	g.fn = nil
	return nil
}

// genStatements lowers a statement sequence and reports whether every
// path through it is guaranteed to return (spec.md §9's stricter,
// both-branches analysis).
func (g *generator) genStatements(stmts []ast.Statement) (bool, error) {
	for i, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.IfStatement:
			bothReturn, err := g.genIf(s)
			if err != nil {
				return false, err
			}
			if bothReturn {
				if i+1 < len(stmts) {
					g.warn.Warn(g.class.Name, "Unreachable code detected", stmts[i+1].Pos())
				}
				return true, nil
			}
		case *ast.ReturnStatement:
			if err := g.genReturn(s); err != nil {
				return false, err
			}
			if i+1 < len(stmts) {
				g.warn.Warn(g.class.Name, "Unreachable code detected", stmts[i+1].Pos())
			}
			return true, nil
		case *ast.LetStatement:
			if err := g.genLet(s); err != nil {
				return false, err
			}
		case *ast.WhileStatement:
			if err := g.genWhile(s); err != nil {
				return false, err
			}
		case *ast.DoStatement:
			if err := g.genDo(s); err != nil {
				return false, err
			}
		}
	}
	return false, nil
}

// genIf preserves the original generator's else-before-then label
// ordering verbatim (spec.md §9, decision recorded in SPEC_FULL.md §9.2).
func (g *generator) genIf(stmt *ast.IfStatement) (bool, error) {
	label := g.labelID
	g.labelID++

	if _, err := g.genExpression(stmt.Cond); err != nil {
		return false, err
	}
	g.w.WriteIf(labelName("IF", label))

	elseReturns, err := g.genStatements(stmt.Else)
	if err != nil {
		return false, err
	}

	g.w.WriteGoto(labelName("ENDIF", label))
	g.w.WriteLabel(labelName("IF", label))

	thenReturns, err := g.genStatements(stmt.Then)
	if err != nil {
		return false, err
	}

	g.w.WriteLabel(labelName("ENDIF", label))

	return elseReturns && thenReturns, nil
}

func (g *generator) genWhile(stmt *ast.WhileStatement) error {
	label := g.labelID
	g.labelID++

	g.w.WriteLabel(labelName("WHILE", label))
	if _, err := g.genExpression(stmt.Cond); err != nil {
		return err
	}
	g.w.WriteOp("not")
	g.w.WriteIf(labelName("END_WHILE", label))

	if _, err := g.genStatements(stmt.Body); err != nil {
		return err
	}

	g.w.WriteGoto(labelName("WHILE", label))
	g.w.WriteLabel(labelName("END_WHILE", label))
	return nil
}

func (g *generator) genLet(stmt *ast.LetStatement) error {
	sym, ok := g.lookupVariable(stmt.Target)
	if !ok {
		return diag.Semantic(g.class.Name, "Undeclared identifier", stmt.Pos())
	}

	rhsType, err := g.genExpression(stmt.Value)
	if err != nil {
		return err
	}

	seg, off := g.segmentFor(sym)

	if stmt.Index != nil {
		g.w.WritePush(seg, off)
		idxType, err := g.genExpression(stmt.Index)
		if err != nil {
			return err
		}
		if idxType != "int" {
			g.warn.Warn(g.class.Name, "Array expression must be of integer type", stmt.Pos())
		}
		g.w.WriteOp("add")
		g.w.WritePop("pointer", 1)
		g.w.WritePop("that", 0)
	} else {
		g.w.WritePop(seg, off)
		if rhsType != sym.TypeName {
			g.warn.Warn(g.class.Name, "Expression type does not match variable type", stmt.Pos())
		}
	}

	sym.Initialised = true
	return nil
}

func (g *generator) genReturn(stmt *ast.ReturnStatement) error {
	if g.fn.ReturnType == "void" {
		g.w.WritePush("constant", 0)
	} else {
		exprType, err := g.genExpression(stmt.Value)
		if err != nil {
			return err
		}
		if exprType != g.fn.ReturnType {
			g.warn.Warn(g.class.Name, "Type of returned expression does not match the type of the function", stmt.Pos())
		}
	}
	g.w.WriteReturn()
	return nil
}

func (g *generator) genDo(stmt *ast.DoStatement) error {
	if _, err := g.genCall(stmt.Call); err != nil {
		return err
	}
	g.w.WritePop("temp", 0)
	return nil
}

// genExpression lowers terms left-to-right, then operators in order, with
// no precedence (spec.md §3, §8 invariant 6). Its return type is the
// first term's inferred type; later terms that disagree only warn.
func (g *generator) genExpression(expr *ast.Expression) (string, error) {
	if expr == nil {
		return "void", nil
	}

	exprType, err := g.genTerm(expr.Terms[0])
	if err != nil {
		return "", err
	}

	for _, term := range expr.Terms[1:] {
		termType, err := g.genTerm(term)
		if err != nil {
			return "", err
		}
		if termType != exprType {
			g.warn.Warn(g.class.Name, "Term in expression has invalid type", term.Pos())
		}
	}

	for _, op := range expr.Operators {
		g.genOperator(op)
	}

	return exprType, nil
}

func (g *generator) genOperator(op string) {
	switch op {
	case "+":
		g.w.WriteOp("add")
	case "-":
		g.w.WriteOp("sub")
	case "*":
		g.w.WriteCall("Math.multiply", 2)
	case "/":
		g.w.WriteCall("Math.divide", 2)
	case "&":
		g.w.WriteOp("and")
	case "|":
		g.w.WriteOp("or")
	case "<":
		g.w.WriteOp("lt")
	case ">":
		g.w.WriteOp("gt")
	case "=":
		g.w.WriteOp("eq")
	}
}

func (g *generator) genTerm(term ast.Term) (string, error) {
	switch t := term.(type) {
	case *ast.IntegerTerm:
		g.w.WritePush("constant", t.Value)
		return "int", nil

	case *ast.StringTerm:
		g.w.WriteStringConstant(t.Value)
		return "String", nil

	case *ast.KeywordConstant:
		switch t.Keyword {
		case "true":
			g.w.WritePush("constant", 1)
			g.w.WriteOp("neg")
			return "boolean", nil
		case "false":
			g.w.WritePush("constant", 0)
			return "boolean", nil
		case "null":
			g.w.WritePush("constant", 0)
			return "int", nil
		case "this":
			g.w.WritePush("pointer", 0)
			return g.class.Name, nil
		}
		return "", nil

	case *ast.ParenTerm:
		return g.genExpression(t.Inner)

	case *ast.UnaryTerm:
		operandType, err := g.genTerm(t.Operand)
		if err != nil {
			return "", err
		}
		if operandType != "int" && operandType != "boolean" {
			g.warn.Warn(g.class.Name, "Unary term is not a boolean or integer type", t.Pos())
		}
		if t.Operator == "-" {
			g.w.WriteOp("neg")
		} else {
			g.w.WriteOp("not")
		}
		return operandType, nil

	case *ast.VariableTerm:
		sym, ok := g.lookupVariable(t.Name)
		if !ok {
			return "", diag.Semantic(g.class.Name, "Undeclared identifier", t.Pos())
		}
		if !sym.Initialised {
			g.warn.Warn(g.class.Name, "Use of variable before initialisation", t.Pos())
		}
		seg, off := g.segmentFor(sym)
		g.w.WritePush(seg, off)
		return sym.TypeName, nil

	case *ast.ArrayTerm:
		sym, ok := g.lookupVariable(t.Name)
		if !ok {
			return "", diag.Semantic(g.class.Name, "Undeclared identifier", t.Pos())
		}
		if sym.TypeName != "Array" {
			g.warn.Warn(g.class.Name, "Attempt to dereference non-array variable as an array", t.Pos())
		}
		seg, off := g.segmentFor(sym)
		g.w.WritePush(seg, off)
		idxType, err := g.genExpression(t.Index)
		if err != nil {
			return "", err
		}
		if idxType != "int" {
			g.warn.Warn(g.class.Name, "Array index is not of integer type", t.Pos())
		}
		g.w.WriteOp("add")
		g.w.WritePop("pointer", 1)
		g.w.WritePush("that", 0)
		return "int", nil

	case *ast.CallTerm:
		return g.genCall(t.Call)
	}

	return "", nil
}

// genCall resolves one of the three call shapes spec.md §4.4 tabulates
// and emits its argument evaluation, receiver push (if any), and `call`
// instruction. The implicit-receiver shape pushes `pointer 0` and counts
// it as an argument only when the callee is a method — the corrected
// behavior from SPEC_FULL.md §9.4, replacing the original's unconditional
// push plus argument-count compensation.
func (g *generator) genCall(call *ast.Call) (string, error) {
	if call.Qualifier == "" {
		fn, ok := g.class.LookupFunction(call.Name)
		if !ok {
			return "", diag.Semantic(g.class.Name, "Function does not exist", call.Line)
		}
		if fn.Kind == symbols.Method {
			g.w.WritePush("pointer", 0)
		}
		if err := g.genArgs(call.Args, fn); err != nil {
			return "", err
		}
		g.w.WriteCall(g.class.Name+"."+fn.Name, fn.ArgumentCount)
		return fn.ReturnType, nil
	}

	if target, ok := g.classes.Lookup(call.Qualifier); ok {
		fn, ok := target.LookupFunction(call.Name)
		if !ok {
			return "", diag.Semantic(g.class.Name, "Function does not exist", call.Line)
		}
		if err := g.genArgs(call.Args, fn); err != nil {
			return "", err
		}
		g.w.WriteCall(target.Name+"."+fn.Name, fn.ArgumentCount)
		return fn.ReturnType, nil
	}

	sym, ok := g.lookupVariable(call.Qualifier)
	if !ok {
		return "", diag.Semantic(g.class.Name, "Undeclared identifier", call.Line)
	}
	target, ok := g.classes.Lookup(sym.TypeName)
	if !ok {
		return "", diag.Semantic(g.class.Name, "Variable is of unknown type", call.Line)
	}
	fn, ok := target.LookupFunction(call.Name)
	if !ok {
		return "", diag.Semantic(g.class.Name, "Function does not exist", call.Line)
	}

	seg, off := g.segmentFor(sym)
	g.w.WritePush(seg, off)
	if err := g.genArgs(call.Args, fn); err != nil {
		return "", err
	}
	g.w.WriteCall(target.Name+"."+fn.Name, fn.ArgumentCount)
	return fn.ReturnType, nil
}

func (g *generator) genArgs(args []*ast.Expression, fn *symbols.FunctionTable) error {
	for i, argExpr := range args {
		argType, err := g.genExpression(argExpr)
		if err != nil {
			return err
		}
		if i < len(fn.Arguments) && argType != fn.Arguments[i].TypeName {
			g.warn.Warn(g.class.Name, "Expression type does not match parameter type", argExpr.Line)
		}
	}
	return nil
}

// lookupVariable resolves a name against the current function's
// locals/arguments first, then the enclosing class's fields/statics
// (spec.md §4.4's scoped lookup order).
func (g *generator) lookupVariable(name string) (*symbols.VariableSymbol, bool) {
	if g.fn != nil {
		if v, ok := g.fn.LookupVariable(name); ok {
			return v, true
		}
	}
	return g.class.LookupVariable(name)
}

func (g *generator) segmentFor(sym *symbols.VariableSymbol) (string, int) {
	switch {
	case sym.Kind == symbols.Static:
		return "static", sym.Offset
	case sym.Kind == symbols.Field:
		return "this", sym.Offset
	case sym.IsArgument:
		return "argument", sym.Offset
	default:
		return "local", sym.Offset
	}
}

func labelName(prefix string, id int) string {
	return prefix + "_" + itoa(id)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
