package sframe

import (
	"github.com/npillmayer/mxl"
)

// DeclKind is the kind of a declaration statement.
type DeclKind uint8

const (
	NoDecl DeclKind = iota
	ScalarDecl
	MatrixDecl

	ConstDecl DeclKind = 0x01 << 7 // bit flag for const declarations
)

// DeclContext is the type fact of a single declaration statement.
//
//	matrix a[2][2], b[3][3];
//
// The type specifier 'matrix' is recognized once, at the start of the
// statement, while identifiers a and b are reduced later. Every identifier
// reduction consults the statement's DeclContext to learn if it declares a
// matrix or a scalar.
type DeclContext struct {
	Kind DeclKind
}

// IsMatrix is a predicate: does this statement declare matrices?
func (ctx DeclContext) IsMatrix() bool {
	return ctx.Kind&^ConstDecl == MatrixDecl
}

// IsConst is a predicate: does this statement declare constants?
func (ctx DeclContext) IsConst() bool {
	return ctx.Kind&ConstDecl > 0
}

// Type returns the value type of the declared identifiers.
func (ctx DeclContext) Type() mxl.ValueType {
	switch ctx.Kind &^ ConstDecl {
	case ScalarDecl:
		return mxl.ScalarType
	case MatrixDecl:
		return mxl.MatrixType
	}
	return mxl.Undefined
}

// DeclareIdent synthesizes the fresh value for a declared identifier.
// dims are the dimensions given with the identifier, e.g. [2 3] for m[2][3].
//
// For a matrix declaration exactly two positive dimensions are required,
// otherwise an error with code BadDimensions results. The value is a zero
// matrix. For a scalar declaration no dimensions are allowed (TypeMismatch),
// the value is the scalar 0.
func (ctx DeclContext) DeclareIdent(name string, dims []int) (mxl.Value, error) {
	switch ctx.Kind &^ ConstDecl {
	case MatrixDecl:
		if len(dims) != 2 {
			tracer().P("ident", name).Errorf("matrix declared with %d dimension(s)", len(dims))
			return nil, mxl.Errorf(mxl.BadDimensions,
				"matrix '%s' needs 2 dimensions, has %d", name, len(dims))
		}
		m, err := mxl.ZeroMatrix(dims[0], dims[1])
		if err != nil {
			return nil, mxl.Errorf(mxl.BadDimensions, "matrix '%s' declared as %dx%d",
				name, dims[0], dims[1])
		}
		tracer().P("ident", name).Debugf("declared matrix %dx%d", dims[0], dims[1])
		return mxl.WithName(m, name), nil
	case ScalarDecl:
		if len(dims) != 0 {
			return nil, mxl.Errorf(mxl.TypeMismatch, "int '%s' declared with dimensions", name)
		}
		tracer().P("ident", name).Debugf("declared scalar")
		return mxl.WithName(mxl.NewScalar(0), name), nil
	}
	return nil, mxl.Errorf(mxl.InternalError, "identifier '%s' declared outside of a declaration", name)
}

// DeclTracker tracks the type of the declaration statement currently being
// processed. There is exactly one current declaration: beginning a new one
// overwrites the previous fact, it is never stacked.
type DeclTracker struct {
	current DeclContext
}

// BeginDeclaration is called once per declaration statement, when the type
// specifier has been recognized. It overwrites the tracked declaration
// context and returns the new one.
func (dt *DeclTracker) BeginDeclaration(isMatrixType bool, isConst bool) DeclContext {
	kind := ScalarDecl
	if isMatrixType {
		kind = MatrixDecl
	}
	if isConst {
		kind |= ConstDecl
	}
	dt.current = DeclContext{Kind: kind}
	tracer().P("decl", dt.current.Type()).Debugf("begin declaration statement")
	return dt.current
}

// IsCurrentDeclarationMatrix is a predicate: does the most recent
// declaration statement declare matrices?
func (dt *DeclTracker) IsCurrentDeclarationMatrix() bool {
	return dt.current.IsMatrix()
}

// Current returns the current declaration context.
func (dt *DeclTracker) Current() DeclContext {
	return dt.current
}

// EndDeclaration resets the tracker. Identifier reductions outside of a
// declaration statement will fail after this.
func (dt *DeclTracker) EndDeclaration() {
	dt.current = DeclContext{}
}
