/*
Package vm executes the reduction ops emitted by the MXL parser.

Every production the parser reduces results in one op. Ops are executed
strictly in order, on a single goroutine, against a runtime environment
consisting of scopes, an expression stack and a declaration tracker.
Execution stops at the first error.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package vm

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'mxl.vm'
func tracer() tracing.Trace {
	return tracing.Select("mxl.vm")
}
