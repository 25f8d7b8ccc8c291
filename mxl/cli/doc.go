/*
Package cli implements the mxl command line interface.

mxl runs programs from files, from a command-line argument or interactively
in a terminal REPL. Any error in a program is fatal: it is reported as a
single diagnostic line on stderr and mxl exits with the error's code.

Configuration is read, in ascending priority, from built-in defaults, a
NestedText file at the platform's configuration location, a file given
with --config, environment variables prefixed with MXL_ and command-line
flags.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package cli

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'mxl.cli'
func tracer() tracing.Trace {
	return tracing.Select("mxl.cli")
}
