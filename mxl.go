/*
Package mxl is an interpreter for a small language of integer scalars and
integer matrices.

Programs declare variables of type int or matrix and combine them with
arithmetic operators:

	matrix a[2][2] = [[1,2],[3,4]];
	matrix b[2][2];
	int k = 3;
	b = a * k - a;
	print b * a;

Package mxl holds the value model and the error taxonomy shared by all
sub-packages. Any violation of the typing rules is fatal: it is reported
as a single diagnostic line and terminates the process with an exit status
equal to the error code.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package mxl

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/knadh/koanf"
)

// Configuration holds global configuration values. We use koanf.
var Configuration *koanf.Koanf

// SignalContext is a global context for terminating the application by an interrupt
// signal.
var SignalContext context.Context = context.Background()

// Diagnostics is the stream fatal errors are reported to.
var Diagnostics io.Writer = os.Stderr

// DiagnosticPrefix starts every diagnostic line.
const DiagnosticPrefix = "Invalid expression: "

var osExit = os.Exit

// Exit exits the application with status errcode. Trace destinations are
// opened and owned by the tracers and are not closed here.
func Exit(errcode int) {
	tracer().P("status", errcode).Debugf("exit")
	osExit(errcode)
}

// Diagnostic formats err as a single diagnostic line, without a trailing
// newline.
func Diagnostic(err error) string {
	if err == nil {
		return ""
	}
	return DiagnosticPrefix + err.Error()
}

// ReportFatal writes a diagnostic line for err and terminates the process
// with the exit status belonging to err's code.
func ReportFatal(err error) {
	if err == nil {
		tracer().Errorf("fatal error reported without an error")
		err = ErrInternal
	}
	code := CodeOf(err)
	tracer().P("code", int(code)).Errorf("%v", err)
	fmt.Fprintln(Diagnostics, Diagnostic(err))
	Exit(code.ExitStatus())
}
