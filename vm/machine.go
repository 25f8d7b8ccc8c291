package vm

import (
	"context"
	"fmt"
	"io"

	"github.com/npillmayer/mxl"
	"github.com/npillmayer/mxl/corelang"
)

// Output receives the results of print and show statements.
type Output interface {
	PrintValue(v mxl.Value)
	ShowText(text string)
}

// WriterOutput writes output to an io.Writer, one value per line.
type WriterOutput struct {
	W io.Writer
}

// PrintValue is part of interface Output.
func (wo WriterOutput) PrintValue(v mxl.Value) {
	fmt.Fprintln(wo.W, v.Self().String())
}

// ShowText is part of interface Output.
func (wo WriterOutput) ShowText(text string) {
	fmt.Fprint(wo.W, text)
}

// Machine is an entity for fetch-decode-executing reduction ops.
type Machine struct {
	rt       *corelang.Runtime
	out      Output
	regs     RegisterSet // registers to store op arguments in
	executed int         // number of ops executed
}

// NewMachine creates a machine working on runtime environment rt. If rt is
// nil, a fresh runtime is created. Output of print and show statements goes
// to out, which may be nil to discard it.
func NewMachine(rt *corelang.Runtime, out Output) *Machine {
	if rt == nil {
		rt = corelang.NewRuntime()
	}
	if out == nil {
		out = WriterOutput{W: io.Discard}
	}
	return &Machine{rt: rt, out: out}
}

// Runtime returns the runtime environment of the machine.
func (m *Machine) Runtime() *corelang.Runtime {
	return m.rt
}

// Executed returns the number of ops executed so far.
func (m *Machine) Executed() int {
	return m.executed
}

// Execute runs a program. It returns the first error an op produces, or
// ctx.Err() if the context is cancelled before the program completes.
func (m *Machine) Execute(ctx context.Context, program []Op) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	code := make(chan Op)
	go emit(ctx, program, code)
	return m.Run(ctx, code)
}

func emit(ctx context.Context, program []Op, code chan<- Op) {
	defer close(code)
	for _, op := range program {
		select {
		case code <- op:
		case <-ctx.Done():
			return
		}
	}
}

// Run starts fetch-decode-execute of ops read from code, until code is
// closed or an error occurs.
func (m *Machine) Run(ctx context.Context, code <-chan Op) error {
	tracer().Debugf("machine starts fetch, decode, execute loop")
	for op := range code {
		if err := ctx.Err(); err != nil {
			tracer().Infof("execution interrupted")
			return err
		}
		if err := m.regs.DecodeArg(op); err != nil {
			return err
		}
		if err := m.step(op); err != nil {
			tracer().P("op", op.Code).Errorf("error executing op: %v", err)
			return err
		}
		m.executed++
	}
	return ctx.Err()
}

// step executes a single op. A panic while executing is turned into an
// error with code InternalError, as the machine may run on a goroutine of
// its own.
func (m *Machine) step(op Op) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = mxl.Errorf(mxl.InternalError, "%v: %v", op, r)
		}
	}()
	return m.execute(op)
}

func (m *Machine) execute(op Op) error {
	tracer().Debugf("executing %v", op)
	rt := m.rt
	switch op.Code {
	case OpNop:
	case IConst:
		corelang.PushConstant(rt, m.regs.I)
	case MConst:
		return corelang.PushMatrixLiteral(rt, m.regs.M)
	case Load:
		return corelang.PushVariable(rt, m.regs.S)
	case Add:
		return rt.ExprStack.AddTOS2OS()
	case Sub:
		return rt.ExprStack.SubtractTOS2OS()
	case Mul:
		return rt.ExprStack.MultiplyTOS2OS()
	case Neg:
		return rt.ExprStack.NegateTOS()
	case Cmp:
		rel := corelang.RelationFromString(m.regs.S)
		if rel == corelang.NoRelation {
			return mxl.Errorf(mxl.InternalError, "unknown relation %q", m.regs.S)
		}
		return rt.ExprStack.CompareTOS2OS(rel)
	case BeginDecl:
		rt.Decls.BeginDeclaration(m.regs.D.Matrix, m.regs.D.Const)
	case Declare:
		v := m.regs.V
		_, err := corelang.Declare(rt, rt.Decls.Current(), v.Name, v.Dims, v.HasInit)
		return err
	case Store:
		return corelang.Assign(rt, m.regs.S)
	case Print:
		if err := rt.ExprStack.CheckOperands(1, "print"); err != nil {
			return err
		}
		v, _ := rt.ExprStack.Pop()
		m.out.PrintValue(v)
	case Show:
		text, err := corelang.Showvariable(rt, m.regs.S)
		if err != nil {
			return err
		}
		m.out.ShowText(text)
	case BeginGroup:
		corelang.Begingroup(rt, m.regs.S)
	case EndGroup:
		return corelang.Endgroup(rt)
	default:
		return mxl.Errorf(mxl.InternalError, "unknown op %v", op.Code)
	}
	return nil
}
