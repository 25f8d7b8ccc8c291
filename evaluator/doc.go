/*
Package evaluator is the driver of the MXL runtime. It connects the parser
with the reduction machine and offers commands to inspect and manipulate
variables from the outside, e.g. from a REPL.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package evaluator

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'mxl.evaluator'.
func tracer() tracing.Trace {
	return tracing.Select("mxl.evaluator")
}
