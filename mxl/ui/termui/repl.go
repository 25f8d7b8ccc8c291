package termui

// Utilities for interactive command line interfaces.

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	prtxt "github.com/jedib0t/go-pretty/v6/text"
	"github.com/npillmayer/mxl"
)

// Some global defaults
var welcomeMessage = "Welcome to %s [V%s]"
var stdpromptTmpl, contpromptTmpl = "%s> ", "%s… " // prompt templates, filled in later via fmt.Sprintf
var stdprompt = prtxt.FgGreen.Sprint(stdpromptTmpl)
var contprompt = prtxt.FgHiBlack.Sprint(contpromptTmpl)
var editmode string = "emacs"

// BaseREPL is a base type to instantiate a REPL interpreter.
// Concrete REPL implementations will usually use this as a base type.
type BaseREPL struct {
	Interpreter REPLCommandInterpreter // the interpreter this REPL runs for
	Helper      func(io.Writer)        // print out help information
	readline    *readline.Instance
	toolname    string
	version     string
	prompt      string // prompt for a fresh statement
	pending     bool   // the interpreter waits for the rest of a statement
}

// NewBaseREPL create a new REPL base object intialized for an interpreter tool
// and a given version. Input history is stored in histfile.
//
// The prompt and the editing mode are taken from the global configuration
// (keys 'repl.prompt' and 'repl.editmode'), if present.
func NewBaseREPL(toolname, version, histfile string) (*BaseREPL, error) {
	repl := &BaseREPL{
		toolname: toolname,
		version:  version,
		prompt:   toolname,
	}
	if mxl.Configuration != nil {
		if p := mxl.Configuration.String("repl.prompt"); p != "" {
			repl.prompt = p
		}
		if m := mxl.Configuration.String("repl.editmode"); m == "vi" || m == "emacs" {
			editmode = m
		}
	}
	rl, err := newReadline(fmt.Sprintf(stdprompt, repl.prompt), histfile)
	if err != nil {
		return nil, err
	}
	repl.readline = rl
	return repl, nil
}

// REPLCommandInterpreter is an interface all interpreters have to implement.
// It is the workhorse doing interpretation of interactive
// commands.
//
// The REPL will delegate interpreting command strings (i.e. those which do not represent
// internal administrative commands) to the interpreter. InterpretCommand
// returns true if the line does not complete a statement and the interpreter
// is waiting for more input.
type REPLCommandInterpreter interface {
	InterpretCommand(string) bool
}

// Create a readline instance.
func newReadline(prompt, histfile string) (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		Prompt:              prompt,
		HistoryFile:         histfile,
		AutoComplete:        replCompleter,
		InterruptPrompt:     "^C",
		EOFPrompt:           "exit",
		HistorySearchFold:   true,
		VimMode:             editmode == "vi",
		FuncFilterInputRune: filterReplInput,
	})
}

// replCommand is an internal administrative REPL command. Its handler
// receives the words of the input line and returns true if the REPL should
// terminate.
type replCommand struct {
	usage  string
	help   string
	handle func(repl *BaseREPL, args []string, line string) bool
}

var replCommands map[string]replCommand
var replCommandOrder = []string{"help", "bye", "mode", "setprompt"}

func init() {
	replCommands = map[string]replCommand{
		"help":      {"help", "print this message", (*BaseREPL).help},
		"bye":       {"bye", "quit application", (*BaseREPL).bye},
		"mode":      {"mode [vi|emacs]", "display or set current editing mode", (*BaseREPL).mode},
		"setprompt": {"setprompt [prompt]", "set current prompt [to default]", (*BaseREPL).setprompt},
	}
}

// displayCommands prints a help message with available commands
// We support some internal interactive sub-commands (not part of the interpreter).
func (repl *BaseREPL) displayCommands(out io.Writer) {
	io.WriteString(out, fmt.Sprintf(welcomeMessage, repl.toolname, repl.version))
	io.WriteString(out, "\n\nThe following commands are available:\n\n")
	for _, name := range replCommandOrder {
		c := replCommands[name]
		fmt.Fprintf(out, "  %-18s : %s\n", c.usage, c.help)
	}
}

// Completer-tree for interactive sub-commands and MXL keywords
var replCompleter = readline.NewPrefixCompleter(
	readline.PcItem("help"),
	readline.PcItem("bye"),
	readline.PcItem("mode",
		readline.PcItem("vi"),
		readline.PcItem("emacs"),
	),
	readline.PcItem("setprompt"),
	readline.PcItem("int"),
	readline.PcItem("matrix"),
	readline.PcItem("const",
		readline.PcItem("int"),
		readline.PcItem("matrix"),
	),
	readline.PcItem("print"),
	readline.PcItem("show"),
	readline.PcItem("begingroup"),
	readline.PcItem("endgroup"),
)

// Outputs returns stdout and stderr of this REPL.
func (repl *BaseREPL) Outputs() (io.Writer, io.Writer) {
	return repl.readline.Stdout(), repl.readline.Stderr()
}

// Close releases the terminal. Clients have to call it before terminating the
// process from within an interpreter.
func (repl *BaseREPL) Close() error {
	return repl.readline.Close()
}

// Prompt enters a REPL and executes commands.
// Commands are either internal administrative (setprompt, help, etc.)
// or interpreted statements.
func (repl *BaseREPL) Prompt(exitOnBye bool) {
	defer repl.readline.Close()
	io.WriteString(repl.readline.Stderr(),
		fmt.Sprintf(welcomeMessage, repl.toolname, repl.version))
	if !strings.HasSuffix(welcomeMessage, "\n") {
		repl.readline.Stderr().Write([]byte{'\n'})
	}
	for {
		line, err := repl.readline.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 && !repl.pending {
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			break
		}
		line = strings.TrimSpace(line)
		words := strings.Fields(line)
		command := ""
		if len(words) > 0 {
			command = words[0]
		}
		if doExit := repl.executeCommand(command, words, line); doExit {
			break
		}
	}
	if exitOnBye {
		repl.readline.Close()
		mxl.Exit(0)
	}
}

// Central dispatcher function to execute internal REPL commands or interpreter
// statements. It receives the command (i.e. the first word of the line),
// a list of words (args) including the command, and the complete line of text.
// If it returns true, the REPL should terminate.
//
// Internal commands are recognized only outside of a statement, and only if
// the line does not look like a statement itself.
func (repl *BaseREPL) executeCommand(cmd string, args []string, line string) bool {
	if cmd == "" && !repl.pending {
		return false
	}
	if c, ok := replCommands[cmd]; ok && !repl.pending && !strings.ContainsAny(line, ";=") {
		return c.handle(repl, args, line)
	}
	trace().Debugf("call interpreter on: '%s'", line)
	repl.interpret(line)
	return false // do not exit
}

func (repl *BaseREPL) help([]string, string) bool {
	repl.displayCommands(repl.readline.Stderr())
	if repl.Helper != nil {
		repl.Helper(repl.readline.Stderr())
	}
	return false
}

func (repl *BaseREPL) bye([]string, string) bool {
	io.WriteString(repl.readline.Stderr(), "> goodbye!\n")
	return true
}

func (repl *BaseREPL) mode(args []string, _ string) bool {
	if len(args) > 1 && (args[1] == "vi" || args[1] == "emacs") {
		editmode = args[1]
		repl.readline.SetVimMode(editmode == "vi")
		return false
	}
	fmt.Fprintf(repl.readline.Stderr(), "> current input mode: %s\n", editmode)
	return false
}

func (repl *BaseREPL) setprompt(args []string, line string) bool {
	repl.prompt = repl.toolname
	if len(args) > 1 {
		repl.prompt = strings.TrimSpace(line[len(args[0]):])
	}
	repl.readline.SetPrompt(fmt.Sprintf(stdprompt, repl.prompt))
	return false
}

// interpret calls the interpreter, sending a statement. If the interpreter
// waits for more input, the prompt changes to a continuation prompt.
func (repl *BaseREPL) interpret(line string) {
	if repl.Interpreter == nil {
		return
	}
	more := repl.Interpreter.InterpretCommand(line)
	if more != repl.pending {
		repl.pending = more
		p := stdprompt
		if more {
			p = contprompt
		}
		repl.readline.SetPrompt(fmt.Sprintf(p, repl.prompt))
	}
}

// Input filter for REPL. Blocks ctrl-z.
func filterReplInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}
