package corelang

import (
	"fmt"

	"github.com/emirpasic/gods/stacks/linkedliststack"
	"github.com/npillmayer/mxl"
)

/*
This module implements a stack of expressions. It is used for expression
evaluation while executing reductions emitted by the parser. Operands are
pushed by literal and variable reductions, operator reductions pop their
operands and push the result.

An operation which fails consumes its operands and pushes nothing. As every
failure is fatal for the program, there is no need to restore the stack.
*/

// === Expression Stack ======================================================

// ExprStack implements a stack of scalar or matrix values.
// Various mathematical operations may be performed on the stack values.
type ExprStack struct {
	stack *linkedliststack.Stack // a stack of mxl.Value
}

// NewExprStack creates
// a new expression stack. It is fully initialized and empty.
func NewExprStack() *ExprStack {
	return &ExprStack{
		stack: linkedliststack.New(),
	}
}

// Top is part of
// stack functionality. Will return nil if the stack is empty.
func (es *ExprStack) Top() mxl.Value {
	tos, ok := es.stack.Peek()
	if !ok {
		return nil
	}
	return tos.(mxl.Value)
}

// Pop is part of
// stack functionality.
func (es *ExprStack) Pop() (mxl.Value, bool) {
	tos, ok := es.stack.Pop()
	if !ok {
		return nil, false
	}
	return tos.(mxl.Value), true
}

// Push is part of
// stack functionality.
func (es *ExprStack) Push(v mxl.Value) *ExprStack {
	es.stack.Push(v)
	return es
}

// PushConstant pushes
// a scalar literal onto the stack.
func (es *ExprStack) PushConstant(c int64) *ExprStack {
	return es.Push(mxl.FromScalarLiteral(c))
}

// IsEmpty is part of
// stack functionality.
func (es *ExprStack) IsEmpty() bool {
	return es.stack.Empty()
}

// Size is part of
// stack functionality.
func (es *ExprStack) Size() int {
	return es.stack.Size()
}

// Clear removes all values from the stack.
func (es *ExprStack) Clear() {
	es.stack.Clear()
}

// Dump is an
// internal helper: dump expression stack. This is printed to the trace
// with level=DEBUG.
func (es *ExprStack) Dump() {
	tracer().P("size", es.Size()).Debugf("Expression Stack, TOS first:")
	it := es.stack.Iterator()
	for it.Next() {
		v := it.Value().(mxl.Value)
		tracer().P("#", it.Index()).Debugf("    %s", TraceString(v))
	}
}

// TraceString pretty-prints a value.
func TraceString(v mxl.Value) string {
	if v == nil {
		return "<empty>"
	}
	s := v.Self().String()
	if v.Name() != "" {
		s = v.Name() + "=" + s
	}
	if v.IsIntConst() {
		s += " (const)"
	}
	return s
}

// CheckOperands checks
// the operands on the stack for an arithmetic operation.
// Returns an InternalError if there are not enough operands (n) on the stack.
func (es *ExprStack) CheckOperands(n int, op string) error {
	if n <= 0 {
		return mxl.Errorf(mxl.InternalError, "illegal count for stack operands")
	}
	if es.Size() < n {
		tracer().P("op", op).Errorf("stack underflow")
		return mxl.Errorf(mxl.InternalError,
			"attempt to %s %d operand(s), but %d on stack", op, n, es.Size())
	}
	return nil
}

// === Arithmetic Operations =================================================

// AddTOS2OS adds
// TOS and 2ndOS.
func (es *ExprStack) AddTOS2OS() error {
	return es.binary("add", "+", Add)
}

// SubtractTOS2OS substracts
// TOS from 2ndOS.
func (es *ExprStack) SubtractTOS2OS() error {
	return es.binary("subtract", "-", Subtract)
}

// MultiplyTOS2OS multiplies
// 2ndOS and TOS, in this order.
func (es *ExprStack) MultiplyTOS2OS() error {
	return es.binary("multiply", "*", Multiply)
}

// CompareTOS2OS compares
// 2ndOS to TOS and pushes 1 or 0.
func (es *ExprStack) CompareTOS2OS(rel Relation) error {
	return es.binary("compare", rel.String(), func(a, b mxl.Value) (mxl.Value, error) {
		return Compare(rel, a, b)
	})
}

// NegateTOS negates
// TOS.
func (es *ExprStack) NegateTOS() error {
	if err := es.CheckOperands(1, "negate"); err != nil {
		return err
	}
	e, _ := es.Pop()
	r, err := Negate(e)
	if err != nil {
		return err
	}
	tracer().P("op", "-").Debugf("-%s = %s", TraceString(e), TraceString(r))
	es.Push(r)
	return nil
}

func (es *ExprStack) binary(verb, op string, f func(a, b mxl.Value) (mxl.Value, error)) error {
	if err := es.CheckOperands(2, verb); err != nil {
		return err
	}
	e2, _ := es.Pop()
	e1, _ := es.Pop()
	r, err := f(e1, e2)
	if err != nil {
		tracer().P("op", op).Errorf("%s", err.Error())
		return err
	}
	tracer().P("op", op).Debugf("%s %s %s = %s", TraceString(e1), op,
		TraceString(e2), TraceString(r))
	es.Push(r)
	return nil
}

// ApplyOperator applies a binary operator given by its lexeme to 2ndOS and TOS.
func (es *ExprStack) ApplyOperator(lexeme string) error {
	op, ok := standardOperators[lexeme]
	if !ok {
		return mxl.Errorf(mxl.InternalError, "unknown operator %q", lexeme)
	}
	return op(es)
}

func (es *ExprStack) String() string {
	return fmt.Sprintf("<expression stack of size %d>", es.Size())
}
