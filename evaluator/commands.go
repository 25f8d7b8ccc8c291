package evaluator

import (
	"github.com/npillmayer/mxl"
	"github.com/npillmayer/mxl/corelang"
	"github.com/npillmayer/mxl/sframe"
	"github.com/npillmayer/mxl/variables"
)

/*
Assign is a variable assignment from the outside.

   assignment : IDENT '=' expr

The value is checked against the declaration of the variable the same way
as for an assignment statement: it has to be of the declared type and
shape, and constants cannot be assigned to.
*/
func (ev *Evaluator) Assign(name string, v mxl.Value) error {
	if v == nil {
		return mxl.Errorf(mxl.InternalError, "no value to assign to '%s'", name)
	}
	tracer().P("var", name).Debugf("assign %s", corelang.TraceString(v))
	ev.ExprStack.Push(v)
	return corelang.Assign(ev.Runtime, name)
}

// Declare declares a variable in the current scope, initialized to v. The
// declaration takes type and shape from v.
func (ev *Evaluator) Declare(name string, v mxl.Value, isConst bool) (*variables.VarRef, error) {
	if v == nil {
		return nil, mxl.Errorf(mxl.InternalError, "no value to declare '%s' with", name)
	}
	ctx := ev.Decls.BeginDeclaration(v.IsMatrix(), isConst)
	defer ev.Decls.EndDeclaration()
	var dims []int
	if v.IsMatrix() {
		dims = []int{v.Rows(), v.Cols()}
	}
	ev.ExprStack.Push(v)
	return corelang.Declare(ev.Runtime, ctx, name, dims, true)
}

// Begingroup is the
// begingroup command: push a new scope.
// Clients may supply a name for the group, otherwise it will be set
// to "group".
func (ev *Evaluator) Begingroup(name string) *sframe.DynamicScopeFrame {
	return corelang.Begingroup(ev.Runtime, name)
}

// Endgroup is the
// endgroup command: pop the scope of the group.
func (ev *Evaluator) Endgroup() error {
	return corelang.Endgroup(ev.Runtime)
}

// --- Show commands ---------------------------------------------------------

// Showvariable shows the declaration and value of a variable.
func (ev *Evaluator) Showvariable(name string) (string, error) {
	return corelang.Showvariable(ev.Runtime, name)
}

// Showvariables lists all variables visible from the current scope.
func (ev *Evaluator) Showvariables() string {
	return corelang.ShowScopes(ev.Runtime)
}
