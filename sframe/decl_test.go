package sframe

import (
	"errors"
	"testing"

	"github.com/npillmayer/mxl"
	"github.com/npillmayer/mxl/variables"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeclareMatrixIdentifiers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl.runtime")
	defer teardown()
	//
	var tracker DeclTracker
	ctx := tracker.BeginDeclaration(true, false)
	if !tracker.IsCurrentDeclarationMatrix() {
		t.Fatal("expected current declaration to be of type matrix")
	}
	a, err := ctx.DeclareIdent("a", []int{2, 2})
	require.NoError(t, err)
	b, err := tracker.Current().DeclareIdent("b", []int{3, 3})
	require.NoError(t, err)
	for _, v := range []mxl.Value{a, b} {
		assert.True(t, v.IsMatrix(), "%s should be a matrix", v.Name())
		assert.False(t, v.IsIntConst())
	}
	assert.Equal(t, 3, b.Rows())
	assert.Equal(t, "a", a.Name())
}

func TestDeclarationOverwrite(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl.runtime")
	defer teardown()
	//
	var tracker DeclTracker
	first := tracker.BeginDeclaration(true, false)
	tracker.BeginDeclaration(false, false)
	if tracker.IsCurrentDeclarationMatrix() {
		t.Error("expected second declaration to overwrite the first")
	}
	tracker.BeginDeclaration(true, true)
	assert.True(t, tracker.IsCurrentDeclarationMatrix())
	assert.True(t, tracker.Current().IsConst())
	assert.True(t, first.IsMatrix(), "handed out contexts keep their own fact")
	assert.False(t, first.IsConst())
}

func TestDeclareScalarIdentifiers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl.runtime")
	defer teardown()
	//
	var tracker DeclTracker
	ctx := tracker.BeginDeclaration(false, false)
	x, err := ctx.DeclareIdent("x", nil)
	require.NoError(t, err)
	assert.False(t, x.IsMatrix())
	assert.Equal(t, mxl.ScalarType, ctx.Type())
	_, err = ctx.DeclareIdent("y", []int{2})
	assert.True(t, errors.Is(err, mxl.ErrTypeMismatch))
}

func TestDeclareBadDimensions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl.runtime")
	defer teardown()
	//
	var tracker DeclTracker
	ctx := tracker.BeginDeclaration(true, false)
	for i, dims := range [][]int{nil, {2}, {0, 2}, {2, -1}, {1, 2, 3},
		{1 << 30, 1 << 30}, {100000, 100000}} {
		_, err := ctx.DeclareIdent("m", dims)
		if !errors.Is(err, mxl.ErrBadDimensions) {
			t.Errorf("test %d: expected bad dimensions for %v, got %v", i, dims, err)
		}
	}
}

func TestDeclareOutsideDeclaration(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl.runtime")
	defer teardown()
	//
	var tracker DeclTracker
	tracker.BeginDeclaration(false, false)
	tracker.EndDeclaration()
	_, err := tracker.Current().DeclareIdent("x", nil)
	assert.True(t, errors.Is(err, mxl.ErrInternal))
}

func TestScopeFrames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl.runtime")
	defer teardown()
	//
	scopes := NewScopeFrameTree()
	x := scalarVar(t, "x", 1)
	require.NoError(t, scopes.Current().Declare(x))
	scopes.PushNewFrame("group")
	assert.Equal(t, 2, scopes.Depth())
	inner := scalarVar(t, "x", 2)
	require.NoError(t, scopes.Current().Declare(inner))
	v, sc := scopes.Resolve("x")
	require.NotNil(t, v)
	assert.Equal(t, "group", sc.Name)
	assert.Equal(t, "2", v.ValueString())
	_, err := scopes.PopFrame()
	require.NoError(t, err)
	v, sc = scopes.Resolve("x")
	assert.Equal(t, scopes.Globals(), sc)
	assert.Equal(t, "1", v.ValueString())
	_, err = scopes.PopFrame()
	assert.True(t, errors.Is(err, mxl.ErrSyntax))
	err = scopes.Current().Declare(scalarVar(t, "x", 3))
	assert.True(t, errors.Is(err, mxl.ErrRedeclaration))
}

func scalarVar(t *testing.T, name string, n int64) *variables.VarRef {
	decl := variables.NewVarDecl(name, mxl.ScalarType, 0, 0, false)
	v, err := variables.CreateVarRef(decl, mxl.NewScalar(n))
	if err != nil {
		t.Fatal(err)
	}
	return v
}
