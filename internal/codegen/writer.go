package codegen

import (
	"fmt"
	"io"
)

// Writer emits one VM instruction per line to an underlying io.Writer
// (spec.md §6's exact instruction set and `\n` line endings), grounded on
// libklein-jackcompiler/vm_writer.go's VMWriter API shape.
type Writer struct {
	out io.Writer
}

// NewWriter wraps out in a Writer.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

func (w *Writer) line(s string) {
	io.WriteString(w.out, s)
	io.WriteString(w.out, "\n")
}

func (w *Writer) WritePush(segment string, index int) {
	w.line(fmt.Sprintf("push %s %d", segment, index))
}

func (w *Writer) WritePop(segment string, index int) {
	w.line(fmt.Sprintf("pop %s %d", segment, index))
}

// WriteOp emits one of the zero-operand arithmetic/logical instructions:
// add, sub, neg, and, or, not, eq, lt, gt.
func (w *Writer) WriteOp(op string) {
	w.line(op)
}

func (w *Writer) WriteLabel(label string) {
	w.line("label " + label)
}

func (w *Writer) WriteGoto(label string) {
	w.line("goto " + label)
}

func (w *Writer) WriteIf(label string) {
	w.line("if-goto " + label)
}

func (w *Writer) WriteCall(name string, nArgs int) {
	w.line(fmt.Sprintf("call %s %d", name, nArgs))
}

func (w *Writer) WriteFunction(name string, nLocals int) {
	w.line(fmt.Sprintf("function %s %d", name, nLocals))
}

func (w *Writer) WriteReturn() {
	w.line("return")
}

// WriteStringConstant lowers a string literal to String.new plus one
// String.appendChar call per character, in order (spec.md §4.4, §9 — the
// corrected behavior; the original skipped the first character and
// dropped the last via an off-by-one loop bound).
func (w *Writer) WriteStringConstant(s string) {
	w.WritePush("constant", len(s))
	w.WriteCall("String.new", 1)
	for i := 0; i < len(s); i++ {
		w.WritePush("constant", int(s[i]))
		w.WriteCall("String.appendChar", 2)
	}
}
