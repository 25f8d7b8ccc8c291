package grammar

import (
	"errors"
	"fmt"
	"sync"

	"github.com/npillmayer/mxl"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// TokType is the type of a token.
type TokType int

// Token types
const (
	EOF TokType = iota
	Unsigned
	Ident
	// keywords
	IntType
	MatrixType
	Const
	Print
	Show
	Begingroup
	Endgroup
	// operators
	PlusOp
	MinusOp
	TimesOp
	AssignOp
	RelationOp
	// punctuation
	Semicolon
	Comma
	LParen
	RParen
	LBracket
	RBracket
)

var tokTypeNames = map[TokType]string{
	EOF:        "end of input",
	Unsigned:   "integer",
	Ident:      "identifier",
	IntType:    "'int'",
	MatrixType: "'matrix'",
	Const:      "'const'",
	Print:      "'print'",
	Show:       "'show'",
	Begingroup: "'begingroup'",
	Endgroup:   "'endgroup'",
	PlusOp:     "'+'",
	MinusOp:    "'-'",
	TimesOp:    "'*'",
	AssignOp:   "'='",
	RelationOp: "relation",
	Semicolon:  "';'",
	Comma:      "','",
	LParen:     "'('",
	RParen:     "')'",
	LBracket:   "'['",
	RBracket:   "']'",
}

func (t TokType) String() string {
	if s, ok := tokTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// The keyword tokens
var keywords = map[string]TokType{
	"int":        IntType,
	"matrix":     MatrixType,
	"const":      Const,
	"print":      Print,
	"show":       Show,
	"begingroup": Begingroup,
	"endgroup":   Endgroup,
}

// Operators and punctuation, as regular expressions for lexmachine.
var literals = []struct {
	re  string
	tok TokType
}{
	{`==`, RelationOp}, {`!=`, RelationOp}, {`<=`, RelationOp}, {`>=`, RelationOp},
	{`<`, RelationOp}, {`>`, RelationOp},
	{`=`, AssignOp},
	{`\+`, PlusOp}, {`-`, MinusOp}, {`\*`, TimesOp},
	{`;`, Semicolon}, {`,`, Comma},
	{`\(`, LParen}, {`\)`, RParen}, {`\[`, LBracket}, {`\]`, RBracket},
}

// Token is a token as delivered by the scanner.
type Token struct {
	Type   TokType
	Lexeme string
	Line   int
	Col    int
}

func (t Token) String() string {
	if t.Type == EOF {
		return t.Type.String()
	}
	return fmt.Sprintf("%q", t.Lexeme)
}

// Position returns the source position of a token as "line:col".
func (t Token) Position() string {
	return fmt.Sprintf("%d:%d", t.Line, t.Col)
}

var lexerOnce sync.Once // monitors one-time creation of the lexer
var mxlLexer *lexmachine.Lexer
var lexerErr error

// Lexer returns the compiled lexmachine lexer for MXL. The lexer is
// created once and shared; lexmachine scanners are independent of each
// other.
func Lexer() (*lexmachine.Lexer, error) {
	lexerOnce.Do(func() {
		lexer := lexmachine.NewLexer()
		lexer.Add([]byte(`%[^\n]*`), skip)       // skip comments
		lexer.Add([]byte(`( |\t|\n|\r)+`), skip) // skip whitespace
		lexer.Add([]byte(`[0-9]+`), makeToken(Unsigned))
		lexer.Add([]byte(`[a-zA-Z_][a-zA-Z0-9_]*`), makeSymbol())
		for _, lit := range literals {
			lexer.Add([]byte(lit.re), makeToken(lit.tok))
		}
		if lexerErr = lexer.Compile(); lexerErr != nil {
			tracer().Errorf("cannot compile lexer: %v", lexerErr)
			return
		}
		mxlLexer = lexer
	})
	return mxlLexer, lexerErr
}

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func makeToken(t TokType) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(int(t), string(m.Bytes), m), nil
	}
}

// makeSymbol creates an action which checks if an identifier is a reserved
// keyword.
func makeSymbol() lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		lexeme := string(m.Bytes)
		if t, ok := keywords[lexeme]; ok {
			return s.Token(int(t), lexeme, m), nil
		}
		return s.Token(int(Ident), lexeme, m), nil
	}
}

// --- Scanner ---------------------------------------------------------------

// Scanner splits MXL source into tokens.
type Scanner struct {
	scanner *lexmachine.Scanner
	last    Token
	done    bool
}

// NewScanner creates a scanner for an input string.
func NewScanner(input string) (*Scanner, error) {
	lexer, err := Lexer()
	if err != nil {
		return nil, mxl.WrapError(mxl.InternalError, err, "lexer")
	}
	scan, err := lexer.Scanner([]byte(input))
	if err != nil {
		return nil, mxl.WrapError(mxl.InternalError, err, "scanner")
	}
	return &Scanner{scanner: scan, last: Token{Line: 1, Col: 1}}, nil
}

// NextToken returns the next token. At the end of input a token of type EOF
// is returned, repeatedly. Input which does not form a token results in an
// error with code SyntaxError.
func (s *Scanner) NextToken() (Token, error) {
	if s.done {
		return Token{Type: EOF, Line: s.last.Line, Col: s.last.Col}, nil
	}
	tok, err, eos := s.scanner.Next()
	if eos {
		s.done = true
		return Token{Type: EOF, Line: s.last.Line, Col: s.last.Col}, nil
	}
	if err != nil {
		var ui *machines.UnconsumedInput
		if errors.As(err, &ui) {
			tracer().P("line", ui.FailLine).Errorf("unexpected input")
			return Token{}, mxl.Errorf(mxl.SyntaxError, "%d:%d: unexpected character %q",
				ui.StartLine, ui.StartColumn, firstChar(ui.Text, ui.StartTC))
		}
		return Token{}, mxl.WrapError(mxl.SyntaxError, err, "")
	}
	lmtok := tok.(*lexmachine.Token)
	s.last = Token{
		Type:   TokType(lmtok.Type),
		Lexeme: string(lmtok.Lexeme),
		Line:   lmtok.StartLine,
		Col:    lmtok.StartColumn,
	}
	tracer().P("pos", s.last.Position()).Debugf("token %s %s", s.last.Type, s.last)
	return s.last, nil
}

func firstChar(text []byte, at int) string {
	if at < 0 || at >= len(text) {
		return ""
	}
	return string([]rune(string(text[at:]))[:1])
}
