package variables

import (
	"bytes"
	"fmt"
	"sync/atomic"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/npillmayer/mxl"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'mxl.runtime'.
func tracer() tracing.Trace {
	return tracing.Select("mxl.runtime")
}

// === Variable Type Declarations ============================================

/*
VarDecl represents a variable declaration.

Variables are declared explicitly, either as integer scalars or as integer
matrices with fixed dimensions. A declaration may be flagged as const, in
which case the variable may be initialized, but never assigned to.

Example:

   const int k = 3;  matrix m[2][3];

Result:

  decl "k" of type int, const
  decl "m" of type matrix, 2x3

*/
type VarDecl struct {
	name       string
	typ        mxl.ValueType
	rows, cols int
	isConst    bool
}

// NewVarDecl creates and initializes a new variable type declaration.
// rows and cols are ignored for scalar declarations.
func NewVarDecl(name string, typ mxl.ValueType, rows, cols int, isConst bool) *VarDecl {
	decl := &VarDecl{
		name:    name,
		typ:     typ,
		isConst: isConst,
	}
	if typ == mxl.MatrixType {
		decl.rows, decl.cols = rows, cols
	}
	tracer().P("decl", name).Debugf("variable type declaration created")
	return decl
}

// DeclFor creates a declaration matching the type and shape of a value.
func DeclFor(name string, v mxl.Value, isConst bool) *VarDecl {
	return NewVarDecl(name, v.Type(), v.Rows(), v.Cols(), isConst)
}

// Name returns the declared identifier.
func (d *VarDecl) Name() string {
	return d.name
}

// Type returns the variable's type.
func (d *VarDecl) Type() mxl.ValueType {
	return d.typ
}

// Rows returns the declared number of rows, 0 for scalars.
func (d *VarDecl) Rows() int {
	return d.rows
}

// Cols returns the declared number of columns, 0 for scalars.
func (d *VarDecl) Cols() int {
	return d.cols
}

// IsConst is a predicate: is this a declaration of a constant?
func (d *VarDecl) IsConst() bool {
	return d.isConst
}

// TypeString returns the type of the declaration in source notation,
// e.g. "matrix[2][3]".
func (d *VarDecl) TypeString() string {
	s := d.typ.String()
	if d.typ == mxl.MatrixType {
		s += fmt.Sprintf("[%d][%d]", d.rows, d.cols)
	}
	if d.isConst {
		s = "const " + s
	}
	return s
}

func (d *VarDecl) String() string {
	return fmt.Sprintf("<decl %s/%s>", d.name, d.TypeString())
}

// Accepts checks if a value may be stored in a variable of this declaration.
// It returns an error with code TypeMismatch for a scalar/matrix confusion
// and an error with code DimensionMismatch for matrices of a different shape.
func (d *VarDecl) Accepts(v mxl.Value) error {
	if v == nil {
		return mxl.Errorf(mxl.InternalError, "no value for %s", d.name)
	}
	if v.Type() != d.typ {
		return mxl.Errorf(mxl.TypeMismatch, "cannot assign %s to %s '%s'",
			v.Type(), d.typ, d.name)
	}
	if d.typ == mxl.MatrixType && (v.Rows() != d.rows || v.Cols() != d.cols) {
		return mxl.Errorf(mxl.DimensionMismatch, "cannot assign %dx%d to %dx%d '%s'",
			v.Rows(), v.Cols(), d.rows, d.cols, d.name)
	}
	return nil
}

// ShowDeclaration writes the declaration in source notation to b.
func (d *VarDecl) ShowDeclaration(b *bytes.Buffer) *bytes.Buffer {
	if b == nil {
		b = new(bytes.Buffer)
	}
	b.WriteString(fmt.Sprintf("%s : %s\n", d.name, d.TypeString()))
	return b
}

// === Variable References / Usage ===========================================

// VarRef is a variable reference, i.e. a declared variable together with
// its current value. Every variable reference carries a unique serial ID,
// which is helpful for tracing.
type VarRef struct {
	id          int32    // unique ID
	decl        *VarDecl // type declaration for this variable
	value       mxl.Value
	initialized bool
}

// CreateVarRef creates a variable reference with an initial value.
// The value must be accepted by the declaration.
func CreateVarRef(decl *VarDecl, value mxl.Value) (*VarRef, error) {
	tracer().Debugf("creating %s var for %v", decl.Type().String(), decl.Name())
	if err := decl.Accepts(value); err != nil {
		return nil, err
	}
	v := &VarRef{
		decl:        decl,
		id:          serialCounter.Get(),
		initialized: true,
	}
	v.store(value)
	return v, nil
}

func (v *VarRef) store(val mxl.Value) {
	v.value = mxl.WithName(mxl.AsComputed(val), v.decl.name)
}

func (v *VarRef) String() string {
	return fmt.Sprintf("<var %s=%v w/ %s>", v.Name(), v.ValueString(), v.decl.TypeString())
}

// ID gets the variable's ID.
func (v *VarRef) ID() int32 {
	return v.id
}

// Name returns the variable's identifier.
func (v *VarRef) Name() string {
	return v.decl.name
}

// Type returns the declared type of the variable.
func (v *VarRef) Type() mxl.ValueType {
	return v.decl.typ
}

// Declaration returns the declaration of this variable.
func (v *VarRef) Declaration() *VarDecl {
	return v.decl
}

// Set sets a variable's value. The value has to match the declared type and
// shape. Constants may not be set once they are initialized.
func (v *VarRef) Set(val mxl.Value) error {
	if v.decl.isConst && v.initialized {
		tracer().P("var", v.Name()).Errorf("attempt to assign to constant")
		return mxl.Errorf(mxl.ConstAssignment, "'%s'", v.Name())
	}
	if err := v.decl.Accepts(val); err != nil {
		return err
	}
	tracer().P("var", v.Name()).Debugf("new value: %v", val.Self())
	v.store(val)
	v.initialized = true
	return nil
}

// Lookup returns a copy of the variable's value, bound to the variable's
// name. The copy is flagged as an integer constant if and only if the
// variable has been declared const.
func (v *VarRef) Lookup() mxl.Value {
	return mxl.WithConst(v.value, v.decl.isConst)
}

// ValueString gets the value of a variable as a string.
func (v *VarRef) ValueString() string {
	if v.value == nil {
		return "<" + v.decl.typ.String() + ">"
	}
	return v.value.Self().String()
}

// === Symbol Tables =========================================================

// SymbolTable holds variable references by name. Iteration order is the
// order of declaration.
type SymbolTable struct {
	name  string
	table *linkedhashmap.Map
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable(name string) *SymbolTable {
	return &SymbolTable{
		name:  name,
		table: linkedhashmap.New(),
	}
}

// Name returns the name of the symbol table.
func (st *SymbolTable) Name() string {
	return st.name
}

// Insert enters a variable reference into the table. Returns an error with
// code Redeclaration if the name is already taken.
func (st *SymbolTable) Insert(v *VarRef) error {
	if _, found := st.table.Get(v.Name()); found {
		tracer().P("var", v.Name()).Errorf("re-declaration in %s", st.name)
		return mxl.Errorf(mxl.Redeclaration, "'%s'", v.Name())
	}
	st.table.Put(v.Name(), v)
	return nil
}

// Resolve finds a variable reference by name, or nil.
func (st *SymbolTable) Resolve(name string) *VarRef {
	if v, found := st.table.Get(name); found {
		return v.(*VarRef)
	}
	return nil
}

// Remove deletes a variable from the table.
func (st *SymbolTable) Remove(name string) {
	st.table.Remove(name)
}

// Each calls f for every variable in the table, in declaration order.
func (st *SymbolTable) Each(f func(name string, v *VarRef)) {
	it := st.table.Iterator()
	for it.Next() {
		f(it.Key().(string), it.Value().(*VarRef))
	}
}

// Size returns the number of entries.
func (st *SymbolTable) Size() int {
	return st.table.Size()
}

// --- Unique ID for variables -----------------------------------------------

// UniqueID is a counter type.
type UniqueID struct {
	counter int32
}

// Get fetches a new unique id from this counter.
func (c *UniqueID) Get() int32 {
	for {
		val := atomic.LoadInt32(&c.counter)
		if atomic.CompareAndSwapInt32(&c.counter, val, val+1) {
			return val
		}
	}
}

var serialCounter UniqueID // global serial counter
