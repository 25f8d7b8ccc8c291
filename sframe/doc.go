/*
Package sframe tracks declarations and scopes.

A DeclTracker remembers the type of the declaration statement currently
being processed, so that the identifiers of a statement like

	matrix a[2][2], b[3][3];

are all declared as matrices. Scope frames hold the variables declared
within a group (begingroup … endgroup) and in global scope.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package sframe

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'mxl.runtime'
func tracer() tracing.Trace {
	return tracing.Select("mxl.runtime")
}
