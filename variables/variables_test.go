package variables_test

import (
	"errors"
	"testing"

	"github.com/npillmayer/mxl"
	"github.com/npillmayer/mxl/variables"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarDecl(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl.runtime")
	defer teardown()
	//
	m := variables.NewVarDecl("m", mxl.MatrixType, 2, 3, false)
	if m.Name() != "m" {
		t.Errorf("expected declared symbol to be named 'm', is %q", m.Name())
	}
	if m.TypeString() != "matrix[2][3]" {
		t.Errorf("expected declared type to be matrix[2][3], is %s", m.TypeString())
	}
	k := variables.NewVarDecl("k", mxl.ScalarType, 5, 5, true)
	if k.Rows() != 0 || k.Cols() != 0 {
		t.Errorf("expected scalar declaration to ignore dimensions, has %dx%d", k.Rows(), k.Cols())
	}
	if k.TypeString() != "const int" {
		t.Errorf("expected declared type to be 'const int', is %s", k.TypeString())
	}
}

func TestVarDeclAccepts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl.runtime")
	defer teardown()
	//
	decl := variables.NewVarDecl("m", mxl.MatrixType, 2, 2, false)
	ok, _ := mxl.ZeroMatrix(2, 2)
	wrong, _ := mxl.ZeroMatrix(2, 3)
	assert.NoError(t, decl.Accepts(ok))
	assert.True(t, errors.Is(decl.Accepts(wrong), mxl.ErrDimensionMismatch))
	assert.True(t, errors.Is(decl.Accepts(mxl.NewScalar(1)), mxl.ErrTypeMismatch))
	sdecl := variables.NewVarDecl("a", mxl.ScalarType, 0, 0, false)
	assert.True(t, errors.Is(sdecl.Accepts(ok), mxl.ErrTypeMismatch))
}

func TestVarRefSetAndLookup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl.runtime")
	defer teardown()
	//
	decl := variables.NewVarDecl("a", mxl.ScalarType, 0, 0, false)
	a, err := variables.CreateVarRef(decl, mxl.NewScalar(0))
	require.NoError(t, err)
	require.NoError(t, a.Set(mxl.FromScalarLiteral(7)))
	v := a.Lookup()
	assert.Equal(t, "a", v.Name())
	assert.False(t, v.IsIntConst(), "lookup of a variable must not be const")
	assert.Equal(t, int64(7), v.Self().AsScalar().Int())
	assert.Equal(t, "7", a.ValueString())
}

func TestConstVarRef(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl.runtime")
	defer teardown()
	//
	decl := variables.NewVarDecl("k", mxl.ScalarType, 0, 0, true)
	k, err := variables.CreateVarRef(decl, mxl.FromScalarLiteral(3))
	require.NoError(t, err)
	assert.True(t, k.Lookup().IsIntConst())
	err = k.Set(mxl.NewScalar(4))
	assert.True(t, errors.Is(err, mxl.ErrConstAssignment))
	assert.Equal(t, int64(3), k.Lookup().Self().AsScalar().Int())
}

func TestLookupIsCopy(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl.runtime")
	defer teardown()
	//
	m0, _ := mxl.FromMatrixLiteral([][]int64{{1, 2}, {3, 4}})
	decl := variables.DeclFor("m", m0, false)
	m, err := variables.CreateVarRef(decl, m0)
	require.NoError(t, err)
	looked, ok := m.Lookup().Self().AsMatrix()
	require.True(t, ok)
	grid := looked.Grid()
	grid[0][0] = 100
	again, _ := m.Lookup().Self().AsMatrix()
	assert.Equal(t, int64(1), again.At(0, 0))
	assert.NoError(t, mxl.CheckInvariants(m.Lookup()))
}

func TestSymbolTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl.runtime")
	defer teardown()
	//
	symtab := variables.NewSymbolTable("globals")
	for _, name := range []string{"x", "b", "a"} {
		v, err := variables.CreateVarRef(
			variables.NewVarDecl(name, mxl.ScalarType, 0, 0, false), mxl.NewScalar(0))
		require.NoError(t, err)
		require.NoError(t, symtab.Insert(v))
	}
	dup, _ := variables.CreateVarRef(
		variables.NewVarDecl("b", mxl.ScalarType, 0, 0, false), mxl.NewScalar(0))
	assert.True(t, errors.Is(symtab.Insert(dup), mxl.ErrRedeclaration))
	var order []string
	symtab.Each(func(name string, v *variables.VarRef) {
		order = append(order, name)
	})
	assert.Equal(t, []string{"x", "b", "a"}, order)
	assert.NotNil(t, symtab.Resolve("a"))
	assert.Nil(t, symtab.Resolve("c"))
	assert.Equal(t, 3, symtab.Size())
}
