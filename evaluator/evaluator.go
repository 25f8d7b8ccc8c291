package evaluator

import (
	"github.com/npillmayer/mxl"
	"github.com/npillmayer/mxl/corelang"
	"github.com/npillmayer/mxl/variables"
	"github.com/npillmayer/mxl/vm"
)

// Evaluator is a runtime environment for an MXL interpreter.
type Evaluator struct {
	*corelang.Runtime             // scopes, expression stack and declarations
	machine           *vm.Machine // executes reduction ops on the runtime
}

// NewEvaluator creates an evaluating runtime environment.
// It is fully initialized and empty. Output of print and show statements
// goes to out.
func NewEvaluator(out vm.Output) *Evaluator {
	rt := corelang.NewRuntime()
	return &Evaluator{
		Runtime: rt,
		machine: vm.NewMachine(rt, out),
	}
}

// Machine returns the reduction machine working on this environment.
func (ev *Evaluator) Machine() *vm.Machine {
	return ev.machine
}

// Globals returns the symbol table of the global scope.
func (ev *Evaluator) Globals() *variables.SymbolTable {
	return ev.ScopeTree.Globals().Symbols()
}

// Variable finds a variable visible from the current scope, or nil.
func (ev *Evaluator) Variable(name string) *variables.VarRef {
	vref, _ := ev.ScopeTree.Resolve(name)
	return vref
}

// Value returns the current value of a variable. It is an error with code
// UndeclaredIdentifier if the variable does not exist.
func (ev *Evaluator) Value(name string) (mxl.Value, error) {
	vref := ev.Variable(name)
	if vref == nil {
		return nil, mxl.Errorf(mxl.UndeclaredIdentifier, "'%s'", name)
	}
	return vref.Lookup(), nil
}

// GroupLevel returns the nesting depth of groups, 0 on the global level.
func (ev *Evaluator) GroupLevel() int {
	return ev.ScopeTree.Depth() - 1
}

// Reset drops all groups and intermediate values and ends any pending
// declaration. Global variables are kept.
func (ev *Evaluator) Reset() {
	for ev.GroupLevel() > 0 {
		if _, err := ev.ScopeTree.PopFrame(); err != nil {
			break
		}
	}
	if !ev.ExprStack.IsEmpty() {
		tracer().P("size", ev.ExprStack.Size()).Debugf("dropping intermediate values")
		ev.ExprStack.Dump()
		ev.ExprStack.Clear()
	}
	ev.Decls.EndDeclaration()
}
