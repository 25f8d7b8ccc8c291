package corelang

import (
	"bytes"
	"fmt"

	"github.com/npillmayer/mxl"
	"github.com/npillmayer/mxl/sframe"
	"github.com/npillmayer/mxl/variables"
)

// Runtime is the environment core commands operate on: the scopes holding
// variables, the expression stack and the declaration tracker.
type Runtime struct {
	ScopeTree *sframe.ScopeFrameTree
	ExprStack *ExprStack
	Decls     *sframe.DeclTracker
}

// NewRuntime creates a runtime environment with an empty global scope.
func NewRuntime() *Runtime {
	return &Runtime{
		ScopeTree: sframe.NewScopeFrameTree(),
		ExprStack: NewExprStack(),
		Decls:     &sframe.DeclTracker{},
	}
}

// PushConstant pushes an integer literal onto the expression stack.
func PushConstant(rt *Runtime, c int64) {
	tracer().P("const", c).Debugf("push integer literal")
	rt.ExprStack.PushConstant(c)
}

// PushMatrixLiteral pushes a matrix literal onto the expression stack.
// Rows of different length are an error with code MalformedLiteral.
func PushMatrixLiteral(rt *Runtime, rows [][]int64) error {
	m, err := mxl.FromMatrixLiteral(rows)
	if err != nil {
		tracer().Errorf("malformed matrix literal")
		return err
	}
	rt.ExprStack.Push(m)
	return nil
}

// PushVariable pushes the current value of a variable onto the expression
// stack. The variable has to be declared in the current or an outer scope.
func PushVariable(rt *Runtime, name string) error {
	vref, _ := rt.ScopeTree.Resolve(name)
	if vref == nil {
		tracer().P("var", name).Errorf("undeclared identifier")
		return mxl.Errorf(mxl.UndeclaredIdentifier, "'%s'", name)
	}
	v := vref.Lookup()
	tracer().P("var", name).Debugf("push %s", TraceString(v))
	rt.ExprStack.Push(v)
	return nil
}

// Declare declares an identifier within the current declaration statement
// ctx. If hasInit is set, the initial value is taken from the expression
// stack and has to match the declared type and shape. Otherwise the
// variable starts out as 0 or as a zero matrix.
//
// Constants have to be initialized.
func Declare(rt *Runtime, ctx sframe.DeclContext, name string, dims []int, hasInit bool) (
	*variables.VarRef, error) {
	//
	var init mxl.Value
	if hasInit {
		if err := rt.ExprStack.CheckOperands(1, "initialize"); err != nil {
			return nil, err
		}
		init, _ = rt.ExprStack.Pop()
	} else if ctx.IsConst() {
		return nil, mxl.Errorf(mxl.SyntaxError, "constant '%s' needs an initializer", name)
	}
	fresh, err := ctx.DeclareIdent(name, dims)
	if err != nil {
		return nil, err
	}
	decl := variables.DeclFor(name, fresh, ctx.IsConst())
	if init == nil {
		init = fresh
	}
	vref, err := variables.CreateVarRef(decl, init)
	if err != nil {
		return nil, err
	}
	if err = rt.ScopeTree.Current().Declare(vref); err != nil {
		return nil, err
	}
	return vref, nil
}

// Assign pops the TOS and assigns it to a variable.
func Assign(rt *Runtime, name string) error {
	if err := rt.ExprStack.CheckOperands(1, "assign"); err != nil {
		return err
	}
	value, _ := rt.ExprStack.Pop()
	vref, _ := rt.ScopeTree.Resolve(name)
	if vref == nil {
		tracer().P("var", name).Errorf("assignment to undeclared identifier")
		return mxl.Errorf(mxl.UndeclaredIdentifier, "'%s'", name)
	}
	tracer().P("var", name).Debugf("assignment of lvalue #%d", vref.ID())
	return vref.Set(value)
}

// Begingroup is the
// begingroup command: push a new scope.
// Clients may supply a name for the group, otherwise it will be set
// to "group".
func Begingroup(rt *Runtime, name string) *sframe.DynamicScopeFrame {
	if name == "" {
		name = "group"
	}
	return rt.ScopeTree.PushNewFrame(name)
}

// Endgroup is the
// endgroup command: pop the scope of the group. Variables declared within
// the group are gone afterwards.
func Endgroup(rt *Runtime) error {
	sc, err := rt.ScopeTree.PopFrame()
	if err != nil {
		return err
	}
	tracer().P("scope", sc.Name).Debugf("left group with %d variable(s)", sc.Symbols().Size())
	return nil
}

// --- Show commands ---------------------------------------------------------

// Showvariable shows the declaration and value of a variable.
func Showvariable(rt *Runtime, name string) (string, error) {
	vref, scope := rt.ScopeTree.Resolve(name)
	if vref == nil {
		return "", mxl.Errorf(mxl.UndeclaredIdentifier, "'%s'", name)
	}
	b := vref.Declaration().ShowDeclaration(nil)
	b.WriteString(fmt.Sprintf("%s = %s   %% in %s\n", name, vref.ValueString(), scope.Name))
	return b.String(), nil
}

// ShowScopes lists all visible variables, innermost scope first.
func ShowScopes(rt *Runtime) string {
	var b bytes.Buffer
	for sc := rt.ScopeTree.Current(); sc != nil; sc = sc.Parent {
		b.WriteString(fmt.Sprintf("%% scope %s\n", sc.Name))
		sc.Symbols().Each(func(name string, v *variables.VarRef) {
			b.WriteString(fmt.Sprintf("%s : %s = %s\n", name,
				v.Declaration().TypeString(), v.ValueString()))
		})
	}
	return b.String()
}
