/*
Package corelang implements the core of the MXL language: arithmetic on
scalar and matrix values, an expression stack to evaluate expressions on,
and the core commands for declaring, assigning and showing variables.

Typing Rules

Scalars combine with scalars using every operator. Matrices add to and
subtract from matrices of equal shape, and multiply with matrices of a
compatible shape. A matrix may be scaled by a scalar from either side.
Adding a scalar to a matrix (or vice versa) is a type mismatch.

Every violation of these rules results in an error of type *mxl.Error,
carrying the corresponding error code.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package corelang

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'mxl.core'.
func tracer() tracing.Trace {
	return tracing.Select("mxl.core")
}
