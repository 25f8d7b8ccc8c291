package evaluator

import (
	"context"
	"errors"
	"strings"

	"github.com/npillmayer/mxl/grammar"
	"github.com/npillmayer/mxl/variables"
	"github.com/npillmayer/mxl/vm"
	"golang.org/x/sync/errgroup"
)

// ErrNoProgramToExecute flags an empty input program
var ErrNoProgramToExecute error = errors.New("no program to execute")

// Interpreter interprets MXL programs.
type Interpreter struct {
	evaluator *Evaluator // runtime environment, kept between runs
	out       vm.Output
}

// Option configures an interpreter.
type Option func(*Interpreter)

// WithOutput directs the output of print and show statements to out.
func WithOutput(out vm.Output) Option {
	return func(intp *Interpreter) {
		intp.out = out
	}
}

// NewInterpreter creates a new interpreter for the MXL language.
// Without options, output is discarded.
func NewInterpreter(opts ...Option) *Interpreter {
	intp := &Interpreter{}
	for _, opt := range opts {
		opt(intp)
	}
	intp.evaluator = NewEvaluator(intp.out)
	return intp
}

// Evaluator returns the runtime environment of the interpreter.
func (intp *Interpreter) Evaluator() *Evaluator {
	return intp.evaluator
}

// Globals returns the global symbol table.
func (intp *Interpreter) Globals() *variables.SymbolTable {
	return intp.evaluator.Globals()
}

// Start runs an MXL program. Variables survive between calls to Start,
// which is what a REPL needs.
//
// The parser and the reduction machine run concurrently: ops are executed
// as soon as the parser emits them. The first error, in program order,
// is returned. The error is either an *mxl.Error, ErrNoProgramToExecute or
// an error from ctx.
func (intp *Interpreter) Start(ctx context.Context, input string) error {
	if strings.TrimSpace(input) == "" {
		tracer().Errorf("empty program?")
		return ErrNoProgramToExecute
	}
	parser, err := grammar.NewParser(input)
	if err != nil {
		return err
	}
	group, gctx := errgroup.WithContext(ctx)
	code := make(chan vm.Op)
	var syntaxErr error
	group.Go(func() error {
		defer close(code)
		// An error from the parser must not cancel execution of the ops
		// emitted before it.
		syntaxErr = parser.Emit(gctx, code)
		return nil
	})
	group.Go(func() error {
		return intp.evaluator.Machine().Run(gctx, code)
	})
	if err = group.Wait(); err != nil {
		intp.evaluator.Reset()
		return err
	}
	if syntaxErr != nil {
		intp.evaluator.Reset()
		return syntaxErr
	}
	return nil
}
