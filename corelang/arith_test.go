package corelang

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/npillmayer/mxl"
	"github.com/npillmayer/mxl/variables"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarArithmetic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl.core")
	defer teardown()
	//
	a, b := mxl.FromScalarLiteral(7), mxl.FromScalarLiteral(-3)
	for _, x := range []struct {
		f      func(a, b mxl.Value) (mxl.Value, error)
		result int64
	}{
		{Add, 4}, {Subtract, 10}, {Multiply, -21},
	} {
		r, err := x.f(a, b)
		require.NoError(t, err)
		assert.Equal(t, int64(x.result), r.Self().AsScalar().Int())
		assert.False(t, r.IsMatrix())
		assert.False(t, r.IsIntConst())
		assert.Equal(t, "", r.Name())
	}
}

func TestScalarOverflowWraps(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl.core")
	defer teardown()
	//
	r, err := Add(mxl.NewScalar(math.MaxInt64), mxl.NewScalar(1))
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), r.Self().AsScalar().Int())
}

func TestElementwiseAdd(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl.core")
	defer teardown()
	//
	a := matrix(t, []int64{1, 2}, []int64{3, 4})
	b := matrix(t, []int64{10, 20}, []int64{30, 40})
	r, err := Add(a, b)
	require.NoError(t, err)
	assert.Equal(t, [][]int64{{11, 22}, {33, 44}}, asMatrix(r).Grid())
	assert.False(t, r.IsIntConst())
	r, err = Subtract(a, b)
	require.NoError(t, err)
	assert.Equal(t, "[[-9,-18],[-27,-36]]", r.Self().String())
}

func TestMatrixProduct(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl.core")
	defer teardown()
	//
	a := matrix(t, []int64{1, 2, 3}, []int64{4, 5, 6}) // 2x3
	b := matrix(t, []int64{1}, []int64{0}, []int64{-1}) // 3x1
	r, err := Multiply(a, b)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Rows())
	assert.Equal(t, 1, r.Cols())
	assert.Equal(t, [][]int64{{-2}, {-2}}, asMatrix(r).Grid())
	assert.NoError(t, mxl.CheckInvariants(r))
}

func TestMatrixProductDimensionMismatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl.core")
	defer teardown()
	//
	a := matrix(t, []int64{1, 2, 3}, []int64{4, 5, 6})
	r, err := Multiply(a, a)
	assert.Nil(t, r, "failed operation must not produce a partial result")
	assert.True(t, errors.Is(err, mxl.ErrDimensionMismatch))
	assert.Equal(t, mxl.DimensionMismatch, mxl.CodeOf(err))
	b := matrix(t, []int64{1, 2})
	_, err = Add(a, b)
	assert.True(t, errors.Is(err, mxl.ErrDimensionMismatch))
}

func TestScalarMatrixMix(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl.core")
	defer teardown()
	//
	m := matrix(t, []int64{1, 2}, []int64{3, 4})
	s := mxl.FromScalarLiteral(2)
	_, err := Add(s, m)
	assert.True(t, errors.Is(err, mxl.ErrTypeMismatch))
	_, err = Subtract(m, s)
	assert.True(t, errors.Is(err, mxl.ErrTypeMismatch))
	for _, r := range []func() (mxl.Value, error){
		func() (mxl.Value, error) { return Multiply(m, s) },
		func() (mxl.Value, error) { return Multiply(s, m) },
	} {
		v, err := r()
		require.NoError(t, err)
		assert.Equal(t, "[[2,4],[6,8]]", v.Self().String())
	}
}

func TestNegate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl.core")
	defer teardown()
	//
	r, err := Negate(matrix(t, []int64{1, -2}))
	require.NoError(t, err)
	assert.Equal(t, "[[-1,2]]", r.Self().String())
	r, err = Negate(mxl.FromScalarLiteral(5))
	require.NoError(t, err)
	assert.Equal(t, int64(-5), r.Self().AsScalar().Int())
	assert.False(t, r.IsIntConst())
}

func TestCompare(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl.core")
	defer teardown()
	//
	a := matrix(t, []int64{1, 2}, []int64{3, 4})
	b := matrix(t, []int64{1, 2}, []int64{3, 5})
	r, err := Compare(Equal, a, a)
	require.NoError(t, err)
	assert.Equal(t, int64(1), r.Self().AsScalar().Int())
	r, err = Compare(NotEqual, a, b)
	require.NoError(t, err)
	assert.Equal(t, int64(1), r.Self().AsScalar().Int())
	_, err = Compare(Less, a, b)
	assert.True(t, errors.Is(err, mxl.ErrTypeMismatch))
	_, err = Compare(Equal, a, mxl.NewScalar(1))
	assert.True(t, errors.Is(err, mxl.ErrTypeMismatch))
	_, err = Compare(Equal, a, matrix(t, []int64{1, 2}))
	assert.True(t, errors.Is(err, mxl.ErrDimensionMismatch))
	r, err = Compare(LessEqual, mxl.NewScalar(3), mxl.NewScalar(3))
	require.NoError(t, err)
	assert.Equal(t, int64(1), r.Self().AsScalar().Int())
	assert.Equal(t, GreaterEqual, RelationFromString(">="))
	assert.Equal(t, NoRelation, RelationFromString("=<"))
}

func TestMismatchContext(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl.core")
	defer teardown()
	//
	a := mxl.WithName(matrix(t, []int64{1, 2, 3}, []int64{4, 5, 6}), "a")
	_, err := Multiply(a, a)
	assert.Equal(t,
		"Invalid expression: matrix dimensions do not match: matrix 2x3 'a' * matrix 2x3 'a'",
		mxl.Diagnostic(err))
}

func randomValue(rnd *rand.Rand, rows, cols int) mxl.Value {
	if rows == 0 {
		return mxl.NewScalar(rnd.Int63n(200) - 100)
	}
	m, _ := mxl.MatrixFromFunc(rows, cols, func(int, int) int64 {
		return rnd.Int63n(200) - 100
	})
	return m
}

func TestInvariantsOnRandomResults(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mxl.core")
	defer teardown()
	//
	rnd := rand.New(rand.NewSource(1147))
	for i := 0; i < 300; i++ {
		r, k, c := rnd.Intn(4), 1+rnd.Intn(4), 1+rnd.Intn(4)
		var v mxl.Value
		var err error
		switch i % 4 {
		case 0:
			v, err = Add(randomValue(rnd, r, k), randomValue(rnd, r, k))
		case 1:
			if r == 0 { // scalar times matrix
				v, err = Multiply(randomValue(rnd, 0, 0), randomValue(rnd, k, c))
			} else {
				v, err = Multiply(randomValue(rnd, r, k), randomValue(rnd, k, c))
			}
		case 2:
			v, err = Negate(randomValue(rnd, r, k))
		case 3: // value looked up from a variable
			x := randomValue(rnd, r, k)
			vref, e := variables.CreateVarRef(variables.DeclFor(fmt.Sprintf("v%d", i), x, i%2 == 0), x)
			require.NoError(t, e)
			v = vref.Lookup()
		}
		require.NoError(t, err, "value #%d", i)
		if err = mxl.CheckInvariants(v); err != nil {
			t.Fatalf("value #%d violates invariants: %v", i, err)
		}
		if v.IsMatrix() {
			assert.Greater(t, v.Rows()*v.Cols(), 0)
		} else {
			assert.Equal(t, 0, v.Rows()+v.Cols())
		}
		if i%4 != 3 {
			assert.False(t, v.IsIntConst(), "computed value #%d flagged as literal", i)
		}
	}
}
