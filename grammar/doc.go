/*
Package grammar implements the front end of MXL: a scanner based on
lexmachine and a parser which translates source text into ops for the
reduction machine of package vm.

The parser never evaluates anything. Errors it detects on its own are
syntax errors, out-of-range integer literals and malformed dimensions;
everything else is left to the reduction machine.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package grammar

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'mxl.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("mxl.grammar")
}
