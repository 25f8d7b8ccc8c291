package mxl

import (
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'mxl'.
func tracer() tracing.Trace {
	return tracing.Select("mxl")
}

// ValueType represents the type of a value.
type ValueType int8

// Predefined value types
const (
	Undefined ValueType = iota
	ScalarType
	MatrixType
)

// --- Value -----------------------------------------------------------------

// Value is an interface for all values which MXL can handle. There are
// exactly two variants: Scalar and Matrix. Values are immutable; methods
// which seem to alter a value return a modified copy.
type Value interface {
	Self() ValueBase  // helper indirection, see type ValueBase
	Type() ValueType  // type of the value
	IsMatrix() bool   // is this a matrix value?
	Rows() int        // number of rows, 0 for scalars
	Cols() int        // number of columns, 0 for scalars
	IsIntConst() bool // did this value originate from a literal constant?
	Name() string     // bound identifier, empty for anonymous values
}

// ValueBase is a helper struct for operations on values.
type ValueBase struct {
	V Value
}

func (b ValueBase) String() string {
	switch v := b.V.(type) {
	case Scalar:
		return fmt.Sprintf("%d", v.v)
	case Matrix:
		return v.String()
	}
	return fmt.Sprintf("%v", b.V)
}

// IsScalar is a predicate: is it a Scalar?
func (b ValueBase) IsScalar() bool {
	_, ok := b.V.(Scalar)
	return ok
}

// IsMatrix is a predicate: is it a Matrix?
func (b ValueBase) IsMatrix() bool {
	_, ok := b.V.(Matrix)
	return ok
}

// Type returns the value type of a value.
func (b ValueBase) Type() ValueType {
	if b.V == nil {
		return Undefined
	}
	return b.V.Type()
}

// AsScalar returns a value as a Scalar, or a zero scalar if it isn't one.
func (b ValueBase) AsScalar() Scalar {
	if s, ok := b.V.(Scalar); ok {
		return s
	}
	tracer().Errorf("value is not of type scalar: %v", b.V)
	return Scalar{}
}

// AsMatrix returns a value as a Matrix. If the value isn't a matrix, ok is
// false and the returned Matrix must not be used.
func (b ValueBase) AsMatrix() (m Matrix, ok bool) {
	if m, ok = b.V.(Matrix); !ok {
		tracer().Errorf("value is not of type matrix: %v", b.V)
	}
	return
}

// Shape describes the shape of a value, e.g. "2x3" for a matrix.
func (b ValueBase) Shape() string {
	if b.V == nil {
		return "<undefined>"
	}
	if b.V.IsMatrix() {
		return fmt.Sprintf("%dx%d", b.V.Rows(), b.V.Cols())
	}
	return "scalar"
}

// attrs holds the attributes common to all value variants.
type attrs struct {
	name    string
	isConst bool
}

// --- Scalar ----------------------------------------------------------------

// Scalar is a 64-bit integer value.
type Scalar struct {
	attrs
	v int64
}

// FromScalarLiteral creates a scalar value from an integer literal.
// The result is flagged as an integer constant.
func FromScalarLiteral(v int64) Scalar {
	return Scalar{attrs: attrs{isConst: true}, v: v}
}

// NewScalar creates an anonymous computed scalar.
func NewScalar(v int64) Scalar {
	return Scalar{v: v}
}

// Self returns this scalar, wrapped into a ValueBase struct.
func (s Scalar) Self() ValueBase {
	return ValueBase{s}
}

// Type returns ScalarType.
func (s Scalar) Type() ValueType {
	return ScalarType
}

// IsMatrix returns false.
func (s Scalar) IsMatrix() bool { return false }

// Rows returns 0.
func (s Scalar) Rows() int { return 0 }

// Cols returns 0.
func (s Scalar) Cols() int { return 0 }

// IsIntConst is a predicate: did this scalar originate from a literal constant?
func (s Scalar) IsIntConst() bool { return s.isConst }

// Name returns the identifier this scalar is bound to, if any.
func (s Scalar) Name() string { return s.name }

// Int returns the integer payload.
func (s Scalar) Int() int64 {
	return s.v
}

func (s Scalar) String() string {
	return s.Self().String()
}

// --- Matrix ----------------------------------------------------------------

// Matrix is a rectangular grid of 64-bit integers with at least one row and
// one column. Elements are stored in row-major order.
type Matrix struct {
	attrs
	rows, cols int
	data       []int64
}

// FromMatrixLiteral creates a matrix value from a literal. Every row must
// have the same non-zero length, otherwise an error with code MalformedLiteral
// is returned. The result is flagged as an integer constant.
func FromMatrixLiteral(rows [][]int64) (Matrix, error) {
	m, err := NewMatrix(rows)
	if err != nil {
		return Matrix{}, err
	}
	m.isConst = true
	return m, nil
}

// NewMatrix creates an anonymous computed matrix from a grid of rows.
// The grid is copied.
func NewMatrix(rows [][]int64) (Matrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return Matrix{}, Errorf(MalformedLiteral, "empty matrix")
	}
	cols := len(rows[0])
	if len(rows) > MaxElements/cols {
		return Matrix{}, Errorf(MalformedLiteral, "%dx%d exceeds %d elements", len(rows), cols, MaxElements)
	}
	for i, row := range rows {
		if len(row) != cols {
			return Matrix{}, Errorf(MalformedLiteral,
				"row %d has %d elements, expected %d", i+1, len(row), cols)
		}
	}
	m := Matrix{rows: len(rows), cols: cols, data: make([]int64, 0, len(rows)*cols)}
	for _, row := range rows {
		m.data = append(m.data, row...)
	}
	return m, nil
}

// ZeroMatrix creates a computed matrix of the given dimensions with all
// elements set to 0. Returns an error with code BadDimensions if rows or cols
// is not positive.
func ZeroMatrix(rows, cols int) (Matrix, error) {
	return MatrixFromFunc(rows, cols, func(int, int) int64 { return 0 })
}

// MaxElements is the maximum number of elements of a matrix.
const MaxElements = 1 << 24

// MatrixFromFunc creates a computed matrix of the given dimensions, with
// element (i,j) set to f(i,j). Indices are 0-based.
// Returns an error with code BadDimensions if rows or cols is not positive or
// if the matrix would have more than MaxElements elements.
func MatrixFromFunc(rows, cols int, f func(i, j int) int64) (Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return Matrix{}, Errorf(BadDimensions, "%dx%d", rows, cols)
	}
	if rows > MaxElements/cols {
		return Matrix{}, Errorf(BadDimensions, "%dx%d exceeds %d elements", rows, cols, MaxElements)
	}
	m := Matrix{rows: rows, cols: cols, data: make([]int64, rows*cols)}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.data[i*cols+j] = f(i, j)
		}
	}
	return m, nil
}

// Self returns this matrix, wrapped into a ValueBase struct.
func (m Matrix) Self() ValueBase {
	return ValueBase{m}
}

// Type returns MatrixType.
func (m Matrix) Type() ValueType {
	return MatrixType
}

// IsMatrix returns true.
func (m Matrix) IsMatrix() bool { return true }

// Rows returns the number of rows.
func (m Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m Matrix) Cols() int { return m.cols }

// IsIntConst is a predicate: did this matrix originate from a literal constant?
func (m Matrix) IsIntConst() bool { return m.isConst }

// Name returns the identifier this matrix is bound to, if any.
func (m Matrix) Name() string { return m.name }

// At returns element (i,j), 0-based. Panics if (i,j) is out of range.
func (m Matrix) At(i, j int) int64 {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Sprintf("matrix index (%d,%d) out of range %dx%d", i, j, m.rows, m.cols))
	}
	return m.data[i*m.cols+j]
}

// Grid returns a copy of the matrix elements as a slice of rows.
func (m Matrix) Grid() [][]int64 {
	g := make([][]int64, m.rows)
	for i := range g {
		g[i] = make([]int64, m.cols)
		copy(g[i], m.data[i*m.cols:(i+1)*m.cols])
	}
	return g
}

// SameShape is a predicate: do m and n have equal dimensions?
func (m Matrix) SameShape(n Matrix) bool {
	return m.rows == n.rows && m.cols == n.cols
}

func (m Matrix) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < m.rows; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('[')
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "%d", m.data[i*m.cols+j])
		}
		b.WriteByte(']')
	}
	b.WriteByte(']')
	return b.String()
}

// --- Copy-on-modify --------------------------------------------------------

// WithName returns a copy of v bound to name.
func WithName(v Value, name string) Value {
	switch x := v.(type) {
	case Scalar:
		x.name = name
		return x
	case Matrix:
		x.name = name
		return x
	}
	tracer().Errorf("cannot name value of type %T", v)
	return v
}

// AsComputed returns an anonymous copy of v with the constant flag cleared.
func AsComputed(v Value) Value {
	switch x := v.(type) {
	case Scalar:
		x.attrs = attrs{}
		return x
	case Matrix:
		x.attrs = attrs{}
		return x
	}
	return v
}

// WithConst returns a copy of v with the constant flag set to isConst.
func WithConst(v Value, isConst bool) Value {
	switch x := v.(type) {
	case Scalar:
		x.isConst = isConst
		return x
	case Matrix:
		x.isConst = isConst
		return x
	}
	return v
}

// CheckInvariants checks the structural invariants of a value: a matrix
// has positive dimensions and exactly rows×cols elements, a scalar has
// no dimensions at all.
func CheckInvariants(v Value) error {
	switch x := v.(type) {
	case Scalar:
		if x.Rows() != 0 || x.Cols() != 0 || x.IsMatrix() {
			return Errorf(InternalError, "scalar with dimensions")
		}
		return nil
	case Matrix:
		if x.rows <= 0 || x.cols <= 0 {
			return Errorf(InternalError, "matrix with dimensions %dx%d", x.rows, x.cols)
		}
		if len(x.data) != x.rows*x.cols {
			return Errorf(InternalError, "matrix %dx%d has %d elements",
				x.rows, x.cols, len(x.data))
		}
		return nil
	}
	return Errorf(InternalError, "value of unknown type %T", v)
}

// --- Helpers ---------------------------------------------------------------

func (vt ValueType) String() string {
	switch vt {
	case Undefined:
		return "<undefined>"
	case ScalarType:
		return "int"
	case MatrixType:
		return "matrix"
	}
	return fmt.Sprintf("<illegal type: %d>", vt)
}

// TypeFromString gets a type from a string.
func TypeFromString(str string) ValueType {
	switch str {
	case "int":
		return ScalarType
	case "matrix":
		return MatrixType
	}
	return Undefined
}
