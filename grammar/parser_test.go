package grammar

import (
	"context"
	"errors"
	"testing"

	"github.com/npillmayer/mxl"
	"github.com/npillmayer/mxl/vm"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpression(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl.grammar")
	defer teardown()
	//
	program, err := Parse("print 1 + 2 * -x == (3 - 4);")
	require.NoError(t, err)
	expected := []vm.Op{
		vm.PushInt(1), vm.PushInt(2), vm.LoadVar("x"), vm.Simple(vm.Neg),
		vm.Simple(vm.Mul), vm.Simple(vm.Add),
		vm.PushInt(3), vm.PushInt(4), vm.Simple(vm.Sub),
		vm.Compare("=="), vm.Simple(vm.Print),
	}
	assert.Equal(t, expected, program, vm.Disassemble(program))
}

func TestParseDeclarations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl.grammar")
	defer teardown()
	//
	program, err := Parse(`
		const matrix a[1][2] = [[1, -2]], b[2][1] = [[3],[4]];
		int k;`)
	require.NoError(t, err)
	expected := []vm.Op{
		vm.Begin(true, true),
		vm.PushMatrix([][]int64{{1, -2}}), vm.DeclareVar("a", []int{1, 2}, true),
		vm.PushMatrix([][]int64{{3}, {4}}), vm.DeclareVar("b", []int{2, 1}, true),
		vm.Begin(false, false),
		vm.DeclareVar("k", nil, false),
	}
	assert.Equal(t, expected, program, vm.Disassemble(program))
}

func TestParseStatements(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl.grammar")
	defer teardown()
	//
	program, err := Parse("begingroup x = 1; show x; ; endgroup")
	require.NoError(t, err)
	expected := []vm.Op{
		vm.Group(""), vm.PushInt(1), vm.StoreVar("x"), vm.ShowVar("x"),
		vm.Simple(vm.EndGroup),
	}
	assert.Equal(t, expected, program)
}

func TestParseEmptyMatrixLiteral(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl.grammar")
	defer teardown()
	//
	program, err := Parse("print [[]];")
	require.NoError(t, err)
	assert.Equal(t, vm.PushMatrix([][]int64{{}}), program[0])
}

func TestParseErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl.grammar")
	defer teardown()
	//
	for i, x := range []struct {
		input string
		code  mxl.ErrorCode
	}{
		{"print 1", mxl.SyntaxError},
		{"int ;", mxl.SyntaxError},
		{"const int k;", mxl.SyntaxError},
		{"matrix m[2][2] = [1,2];", mxl.SyntaxError},
		{"x = = 1;", mxl.SyntaxError},
		{"print 1 < 2 < 3;", mxl.SyntaxError},
		{"print 9223372036854775808;", mxl.MalformedLiteral},
		{"print [[-9223372036854775808]];", mxl.NoError},
		{"matrix m[99999999999999999999][1];", mxl.BadDimensions},
		{"print [[1,2,]];", mxl.SyntaxError},
		{"print [[1,2],[3,4],];", mxl.SyntaxError},
		{"print [[1,2,],[3,4],];", mxl.SyntaxError},
		{"print [[,]];", mxl.SyntaxError},
	} {
		_, err := Parse(x.input)
		if code := mxl.CodeOf(err); code != x.code {
			t.Errorf("test %d: expected %q to result in %q, got %v", i, x.input, x.code, err)
		}
	}
}

func TestParsedOpsBeforeError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl.grammar")
	defer teardown()
	//
	program, err := Parse("print 1; print 2 +;")
	assert.True(t, errors.Is(err, mxl.ErrSyntax))
	assert.Equal(t, []vm.Op{vm.PushInt(1), vm.Simple(vm.Print), vm.PushInt(2)}, program)
}

func TestEmit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl.grammar")
	defer teardown()
	//
	p, err := NewParser("int a = 2; print a * a;")
	require.NoError(t, err)
	code := make(chan vm.Op)
	done := make(chan error, 1)
	go func() {
		defer close(code)
		done <- p.Emit(context.Background(), code)
	}()
	var n int
	for range code {
		n++
	}
	assert.NoError(t, <-done)
	assert.Equal(t, 7, n)
}
