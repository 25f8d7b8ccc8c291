package mxl

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarLiteral(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl")
	defer teardown()
	//
	s := FromScalarLiteral(42)
	assert.False(t, s.IsMatrix())
	assert.True(t, s.IsIntConst())
	assert.Equal(t, 0, s.Rows())
	assert.Equal(t, 0, s.Cols())
	assert.Equal(t, int64(42), s.Int())
	assert.Equal(t, "42", s.Self().String())
	assert.NoError(t, CheckInvariants(s))
}

func TestMatrixLiteral(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl")
	defer teardown()
	//
	m, err := FromMatrixLiteral([][]int64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)
	assert.True(t, m.IsMatrix())
	assert.True(t, m.IsIntConst())
	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 3, m.Cols())
	assert.Equal(t, int64(6), m.At(1, 2))
	assert.Equal(t, "[[1,2,3],[4,5,6]]", m.String())
	assert.Equal(t, "2x3", m.Self().Shape())
}

func TestMalformedMatrixLiteral(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl")
	defer teardown()
	//
	for i, lit := range [][][]int64{
		{{1, 2}, {3}},
		{},
		{{}},
		{{1}, {2, 3}},
	} {
		_, err := FromMatrixLiteral(lit)
		if !errors.Is(err, ErrMalformedLiteral) {
			t.Errorf("test %d: expected malformed literal error, got %v", i, err)
		}
	}
}

func TestMatrixGridIsCopied(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl")
	defer teardown()
	//
	grid := [][]int64{{1, 2}, {3, 4}}
	m, err := NewMatrix(grid)
	require.NoError(t, err)
	grid[0][0] = 99
	assert.Equal(t, int64(1), m.At(0, 0))
	g := m.Grid()
	g[1][1] = 99
	assert.Equal(t, int64(4), m.At(1, 1))
	assert.False(t, m.IsIntConst())
}

func TestZeroMatrixDimensions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl")
	defer teardown()
	//
	m, err := ZeroMatrix(3, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]int64{{0, 0}, {0, 0}, {0, 0}}, m.Grid())
	for _, dims := range [][2]int{{0, 2}, {2, 0}, {-1, 3},
		{1 << 30, 1 << 30}, {100000, 100000}, {MaxElements, 2}} {
		_, err = ZeroMatrix(dims[0], dims[1])
		assert.True(t, errors.Is(err, ErrBadDimensions), "dims %v", dims)
	}
}

func TestAsMatrixOnScalar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl")
	defer teardown()
	//
	_, ok := NewScalar(3).Self().AsMatrix()
	assert.False(t, ok)
	m, err := ZeroMatrix(2, 2)
	require.NoError(t, err)
	_, ok = m.Self().AsMatrix()
	assert.True(t, ok)
}

func TestCopyOnModify(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl")
	defer teardown()
	//
	s := FromScalarLiteral(7)
	named := WithName(s, "k")
	assert.Equal(t, "", s.Name())
	assert.Equal(t, "k", named.Name())
	assert.True(t, named.IsIntConst())
	computed := AsComputed(named)
	assert.False(t, computed.IsIntConst())
	assert.Equal(t, "", computed.Name())
	assert.Equal(t, int64(7), computed.Self().AsScalar().Int())
}

func TestInvariantsOnRandomValues(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl")
	defer teardown()
	//
	rnd := rand.New(rand.NewSource(4711))
	for i := 0; i < 200; i++ {
		var v Value
		switch i % 4 {
		case 0:
			v = FromScalarLiteral(rnd.Int63())
		case 1:
			v = NewScalar(-rnd.Int63())
		case 2:
			r, c := 1+rnd.Intn(5), 1+rnd.Intn(5)
			grid := make([][]int64, r)
			for k := range grid {
				grid[k] = make([]int64, c)
				for l := range grid[k] {
					grid[k][l] = rnd.Int63n(100) - 50
				}
			}
			m, err := FromMatrixLiteral(grid)
			require.NoError(t, err)
			v = m
		case 3:
			m, err := MatrixFromFunc(1+rnd.Intn(5), 1+rnd.Intn(5), func(i, j int) int64 {
				return int64(i * j)
			})
			require.NoError(t, err)
			v = WithName(m, fmt.Sprintf("m%d", i))
		}
		if err := CheckInvariants(v); err != nil {
			t.Fatalf("value #%d violates invariants: %v", i, err)
		}
		if v.IsMatrix() {
			assert.Greater(t, v.Rows(), 0)
			assert.Greater(t, v.Cols(), 0)
		} else {
			assert.Equal(t, 0, v.Rows())
			assert.Equal(t, 0, v.Cols())
		}
	}
}

func TestInvariantsDetectBrokenMatrix(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl")
	defer teardown()
	//
	assert.Error(t, CheckInvariants(Matrix{}))
	assert.Error(t, CheckInvariants(Matrix{rows: 2, cols: 2, data: []int64{1}}))
}

func TestTypeFromString(t *testing.T) {
	assert.Equal(t, ScalarType, TypeFromString("int"))
	assert.Equal(t, MatrixType, TypeFromString("matrix"))
	assert.Equal(t, Undefined, TypeFromString("float"))
	assert.Equal(t, "matrix", MatrixType.String())
}

func TestReportFatal(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl")
	defer teardown()
	//
	var out bytes.Buffer
	var status int
	diag, exit := Diagnostics, osExit
	Diagnostics, osExit = &out, func(code int) { status = code }
	defer func() {
		Diagnostics, osExit = diag, exit
	}()
	ReportFatal(Errorf(DimensionMismatch, "2x3 * 2x3"))
	assert.Equal(t, 14, status)
	assert.Equal(t, "Invalid expression: matrix dimensions do not match: 2x3 * 2x3\n", out.String())
}

func TestErrorCodes(t *testing.T) {
	err := fmt.Errorf("statement 3: %w", Errorf(TypeMismatch, "scalar + matrix"))
	assert.Equal(t, TypeMismatch, CodeOf(err))
	assert.True(t, errors.Is(err, ErrTypeMismatch))
	assert.False(t, errors.Is(err, ErrDimensionMismatch))
	assert.Equal(t, NoError, CodeOf(nil))
	assert.Equal(t, InternalError, CodeOf(errors.New("boom")))
	assert.Equal(t, "Invalid expression: type mismatch: scalar + matrix",
		Diagnostic(Errorf(TypeMismatch, "scalar + matrix")))
}
