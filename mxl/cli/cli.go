package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/mxl"
	"github.com/npillmayer/mxl/evaluator"
	"github.com/npillmayer/mxl/mxl/ui/termui"
	"github.com/npillmayer/mxl/vm"
	"github.com/npillmayer/schuko/tracing"
	"github.com/spf13/cobra"
)

const version = "0.1 experimental"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mxl [file ...]",
	Short: "An interpreter for integer scalar and matrix expressions",
	Long: `Welcome to MXL V0.1 (experimental)

MXL interprets programs of integer scalars and integer matrices:

    matrix a[2][2] = [[1,2],[3,4]];
    int k = 3;
    print a * k - a;

MXL is able to run in interactive mode or execute one or more programs in
batch-mode.  If run in interactive mode, it will prompt for user input in a
terminal REPL.  Any error in a program terminates MXL with the error's code
as exit status.

`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
	Run:           runMxlCmd,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called exactly once by main().
func Execute() {
	if rootCmd.Execute() != nil {
		mxl.Exit(2)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	// persistent flags which will be global for the application
	rootCmd.PersistentFlags().StringP("command", "c", "", "Program text to execute")
	rootCmd.PersistentFlags().BoolP("interactive", "i", false, "Force run in interactive mode")
	rootCmd.PersistentFlags().String("config", "", "Configuration file (.nt or .yaml)")
	rootCmd.PersistentFlags().String("logfile", "stderr", "URL of log output location")
}

// runMxlCmd executes program files first, then a command given by -c. The REPL
// is entered if neither is present or if -i is set. Variables survive from
// one program to the next.
func runMxlCmd(cmd *cobra.Command, args []string) {
	tracing.Infof("mxl interpreter called")
	interactive := mxl.Configuration.Bool("interactive")
	command := mxl.Configuration.String("command")
	if len(args) == 0 && command == "" {
		interactive = true
	}
	var out vm.Output = vm.WriterOutput{W: os.Stdout}
	if interactive {
		out = termui.ValueOutput{W: os.Stdout}
	}
	intp := evaluator.NewInterpreter(evaluator.WithOutput(out))
	ctx := mxl.SignalContext
	for _, path := range args {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "mxl: %v\n", err)
			mxl.Exit(2)
		}
		tracer().P("file", path).Infof("executing program")
		checkRun(intp.Start(ctx, string(src)))
	}
	if command != "" {
		checkRun(intp.Start(ctx, command))
	}
	if interactive {
		runMxlREPL(intp)
	}
}

// checkRun terminates the process if err is fatal.
func checkRun(err error) {
	switch {
	case err == nil, errors.Is(err, evaluator.ErrNoProgramToExecute):
		return
	case errors.Is(err, context.Canceled):
		tracer().Infof("interrupted")
		mxl.Exit(130)
	default:
		mxl.ReportFatal(err)
	}
}

// --- REPL ------------------------------------------------------------------

func runMxlREPL(intp *evaluator.Interpreter) {
	histfile := appPathsOrDefault().HistoryFile()
	repl, err := termui.NewBaseREPL("mxl", version, histfile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mxl: cannot start REPL: %v\n", err)
		mxl.Exit(2)
	}
	mcmd := &mxlCmdIntpr{BaseREPL: repl, intp: intp}
	mcmd.Interpreter = mcmd
	mcmd.Helper = func(w io.Writer) {
		io.WriteString(w, `
MXL will interpret the following statements:

  int x [= expr];                 : declare an integer variable
  matrix m[rows][cols] [= expr];  : declare a matrix variable
  const int|matrix ... = expr;    : declare a constant
  x = expr;                       : assign to a variable
  print expr;                     : print a value
  show x;                         : show declaration and value of a variable
  begingroup ... endgroup         : open and close a local scope

A statement may span several lines; it is executed as soon as it is complete.

`)
	}
	mcmd.Prompt(true)
}

type mxlCmdIntpr struct {
	*termui.BaseREPL
	intp *evaluator.Interpreter
	buf  strings.Builder // statement text collected so far
}

// InterpretCommand collects lines until they form a complete statement and
// then executes it. An error ends the session like in batch mode.
func (mcmd *mxlCmdIntpr) InterpretCommand(line string) bool {
	line = strings.Trim(line, "\x00")
	mcmd.buf.WriteString(line)
	mcmd.buf.WriteByte('\n')
	if !statementComplete(line) {
		return true
	}
	program := mcmd.buf.String()
	mcmd.buf.Reset()
	tracer().Debugf("REPL program: %q", program)
	err := mcmd.intp.Start(mxl.SignalContext, program)
	if err != nil && !errors.Is(err, evaluator.ErrNoProgramToExecute) {
		mcmd.Close()
		checkRun(err)
	}
	return false
}

// statementComplete is true if line ends a statement, i.e. it ends with a
// semicolon or a group keyword. Comments are ignored.
func statementComplete(line string) bool {
	if i := strings.IndexByte(line, '%'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	return strings.HasSuffix(line, ";") ||
		strings.HasSuffix(line, "begingroup") ||
		strings.HasSuffix(line, "endgroup")
}
