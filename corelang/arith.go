package corelang

import (
	"fmt"

	"github.com/npillmayer/mxl"
)

// Arithmetic on values. Every operation checks its operands completely before
// computing anything, so an error never comes with a partial result.
// Results are anonymous and never flagged as integer constants.
//
// Integer arithmetic wraps around on overflow (two's complement on int64).

// Add calculates a + b. Operands must both be scalars or both be
// matrices of equal shape.
func Add(a, b mxl.Value) (mxl.Value, error) {
	return elementwise(a, b, "+", func(x, y int64) int64 { return x + y })
}

// Subtract calculates a - b. Operands must both be scalars or both be
// matrices of equal shape.
func Subtract(a, b mxl.Value) (mxl.Value, error) {
	return elementwise(a, b, "-", func(x, y int64) int64 { return x - y })
}

func elementwise(a, b mxl.Value, op string, f func(x, y int64) int64) (mxl.Value, error) {
	if err := checkValid(a, b); err != nil {
		return nil, err
	}
	switch {
	case !a.IsMatrix() && !b.IsMatrix():
		return mxl.NewScalar(f(scalar(a), scalar(b))), nil
	case a.IsMatrix() && b.IsMatrix():
		m, n := asMatrix(a), asMatrix(b)
		if !m.SameShape(n) {
			return nil, mismatch(mxl.DimensionMismatch, a, op, b)
		}
		return mxl.MatrixFromFunc(m.Rows(), m.Cols(), func(i, j int) int64 {
			return f(m.At(i, j), n.At(i, j))
		})
	}
	tracer().P("op", op).Errorf("type mismatch: %s", describeOperation(a, op, b))
	return nil, mismatch(mxl.TypeMismatch, a, op, b)
}

// Multiply calculates a * b:
//
//	scalar * scalar  ⟹ scalar
//	matrix * scalar  ⟹ every element scaled (either order)
//	matrix * matrix  ⟹ matrix product, a.cols must equal b.rows
//
func Multiply(a, b mxl.Value) (mxl.Value, error) {
	if err := checkValid(a, b); err != nil {
		return nil, err
	}
	switch {
	case !a.IsMatrix() && !b.IsMatrix():
		return mxl.NewScalar(scalar(a) * scalar(b)), nil
	case a.IsMatrix() && !b.IsMatrix():
		return scale(asMatrix(a), scalar(b))
	case !a.IsMatrix() && b.IsMatrix():
		return scale(asMatrix(b), scalar(a))
	}
	m, n := asMatrix(a), asMatrix(b)
	if m.Cols() != n.Rows() {
		return nil, mismatch(mxl.DimensionMismatch, a, "*", b)
	}
	return mxl.MatrixFromFunc(m.Rows(), n.Cols(), func(i, j int) int64 {
		var sum int64
		for k := 0; k < m.Cols(); k++ {
			sum += m.At(i, k) * n.At(k, j)
		}
		return sum
	})
}

func scale(m mxl.Matrix, c int64) (mxl.Value, error) {
	return mxl.MatrixFromFunc(m.Rows(), m.Cols(), func(i, j int) int64 {
		return c * m.At(i, j)
	})
}

// Negate calculates -a, element-wise for matrices.
func Negate(a mxl.Value) (mxl.Value, error) {
	if err := checkValid(a); err != nil {
		return nil, err
	}
	if !a.IsMatrix() {
		return mxl.NewScalar(-scalar(a)), nil
	}
	return scale(asMatrix(a), -1)
}

// --- Comparison ------------------------------------------------------------

// Relation is a comparison operator.
type Relation int8

// Relations supported by Compare.
const (
	NoRelation Relation = iota
	Equal
	NotEqual
	Less
	Greater
	LessEqual
	GreaterEqual
)

var relationLexemes = map[Relation]string{
	Equal:        "==",
	NotEqual:     "!=",
	Less:         "<",
	Greater:      ">",
	LessEqual:    "<=",
	GreaterEqual: ">=",
}

func (rel Relation) String() string {
	if s, ok := relationLexemes[rel]; ok {
		return s
	}
	return "<no relation>"
}

// RelationFromString gets a relation from its lexeme.
func RelationFromString(lexeme string) Relation {
	for rel, s := range relationLexemes {
		if s == lexeme {
			return rel
		}
	}
	return NoRelation
}

// Compare compares a and b and returns scalar 1 if the relation holds,
// 0 otherwise. Scalars may be compared with every relation. Matrices of
// equal shape may be tested for equality and inequality only.
func Compare(rel Relation, a, b mxl.Value) (mxl.Value, error) {
	if err := checkValid(a, b); err != nil {
		return nil, err
	}
	if rel == NoRelation {
		return nil, mxl.Errorf(mxl.InternalError, "comparison without relation")
	}
	op := rel.String()
	if !a.IsMatrix() && !b.IsMatrix() {
		x, y := scalar(a), scalar(b)
		var r bool
		switch rel {
		case Equal:
			r = x == y
		case NotEqual:
			r = x != y
		case Less:
			r = x < y
		case Greater:
			r = x > y
		case LessEqual:
			r = x <= y
		case GreaterEqual:
			r = x >= y
		}
		return truth(r), nil
	}
	if !a.IsMatrix() || !b.IsMatrix() || (rel != Equal && rel != NotEqual) {
		return nil, mismatch(mxl.TypeMismatch, a, op, b)
	}
	m, n := asMatrix(a), asMatrix(b)
	if !m.SameShape(n) {
		return nil, mismatch(mxl.DimensionMismatch, a, op, b)
	}
	eq := true
	for i := 0; i < m.Rows() && eq; i++ {
		for j := 0; j < m.Cols(); j++ {
			if m.At(i, j) != n.At(i, j) {
				eq = false
				break
			}
		}
	}
	return truth(eq == (rel == Equal)), nil
}

func truth(b bool) mxl.Scalar {
	if b {
		return mxl.NewScalar(1)
	}
	return mxl.NewScalar(0)
}

// --- Helpers ---------------------------------------------------------------

func scalar(v mxl.Value) int64 {
	return v.Self().AsScalar().Int()
}

// asMatrix is for operands already known to be matrices.
func asMatrix(v mxl.Value) mxl.Matrix {
	m, _ := v.Self().AsMatrix()
	return m
}

func checkValid(operands ...mxl.Value) error {
	for _, v := range operands {
		if v == nil {
			return mxl.Errorf(mxl.InternalError, "missing operand")
		}
		if err := mxl.CheckInvariants(v); err != nil {
			return err
		}
	}
	return nil
}

func mismatch(code mxl.ErrorCode, a mxl.Value, op string, b mxl.Value) error {
	return mxl.Errorf(code, "%s", describeOperation(a, op, b))
}

func describeOperation(a mxl.Value, op string, b mxl.Value) string {
	return fmt.Sprintf("%s %s %s", describe(a), op, describe(b))
}

func describe(v mxl.Value) string {
	s := v.Self().Shape()
	if v.IsMatrix() {
		s = "matrix " + s
	}
	if v.Name() != "" {
		s += " '" + v.Name() + "'"
	}
	return s
}
