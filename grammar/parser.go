package grammar

import (
	"context"
	"strconv"

	"github.com/npillmayer/mxl"
	"github.com/npillmayer/mxl/vm"
)

// Parser is a recursive descent parser for MXL. It does not build a syntax
// tree: every production it reduces results in an op for the reduction
// machine, in postfix order.
//
//	program     → { statement }
//	statement   → declaration ';' | assignment ';' | 'print' expr ';'
//	            | 'show' IDENT ';' | 'begingroup' | 'endgroup' | ';'
//	declaration → [ 'const' ] type declarator { ',' declarator }
//	type        → 'int' | 'matrix'
//	declarator  → IDENT { '[' INT ']' } [ '=' expr ]
//	assignment  → IDENT '=' expr
//	expr        → additive [ relop additive ]
//	additive    → term { ('+'|'-') term }
//	term        → unary { '*' unary }
//	unary       → '-' unary | primary
//	primary     → INT | IDENT | '(' expr ')' | matrixlit
//	matrixlit   → '[' [ row { ',' row } ] ']'
//	row         → '[' [ signed { ',' signed } ] ']'
//	signed      → [ '-' ] INT
//
// Empty matrix literals are accepted by the parser and rejected when the
// literal is reduced.
type Parser struct {
	scan *Scanner
	la   Token // lookahead
	emit func(vm.Op) error
}

// NewParser creates a parser for an input string.
func NewParser(input string) (*Parser, error) {
	scan, err := NewScanner(input)
	if err != nil {
		return nil, err
	}
	return &Parser{scan: scan}, nil
}

// Parse parses a complete program and returns its ops.
func Parse(input string) ([]vm.Op, error) {
	p, err := NewParser(input)
	if err != nil {
		return nil, err
	}
	var program []vm.Op
	p.emit = func(op vm.Op) error {
		program = append(program, op)
		return nil
	}
	if err = p.program(); err != nil {
		return program, err
	}
	return program, nil
}

// Emit parses the input and sends every op to code, as soon as the
// production it belongs to is reduced. Parsing stops at the first syntax
// error or if ctx is cancelled. Emit does not close code.
func (p *Parser) Emit(ctx context.Context, code chan<- vm.Op) error {
	p.emit = func(op vm.Op) error {
		select {
		case code <- op:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return p.program()
}

// --- Productions -----------------------------------------------------------

func (p *Parser) program() error {
	if err := p.next(); err != nil {
		return err
	}
	for p.la.Type != EOF {
		if err := p.statement(); err != nil {
			return err
		}
	}
	tracer().Debugf("end of program")
	return nil
}

func (p *Parser) statement() error {
	switch p.la.Type {
	case Const, IntType, MatrixType:
		if err := p.declaration(); err != nil {
			return err
		}
		_, err := p.expect(Semicolon)
		return err
	case Ident:
		return p.assignment()
	case Print:
		if err := p.next(); err != nil {
			return err
		}
		if err := p.expr(); err != nil {
			return err
		}
		if _, err := p.expect(Semicolon); err != nil {
			return err
		}
		return p.emit(vm.Simple(vm.Print))
	case Show:
		if err := p.next(); err != nil {
			return err
		}
		id, err := p.expect(Ident)
		if err != nil {
			return err
		}
		if _, err = p.expect(Semicolon); err != nil {
			return err
		}
		return p.emit(vm.ShowVar(id.Lexeme))
	case Begingroup:
		if err := p.next(); err != nil {
			return err
		}
		return p.emit(vm.Group(""))
	case Endgroup:
		if err := p.next(); err != nil {
			return err
		}
		return p.emit(vm.Simple(vm.EndGroup))
	case Semicolon:
		return p.next()
	}
	return p.unexpected("statement")
}

func (p *Parser) declaration() error {
	isConst := p.la.Type == Const
	if isConst {
		if err := p.next(); err != nil {
			return err
		}
	}
	var isMatrix bool
	switch p.la.Type {
	case IntType:
	case MatrixType:
		isMatrix = true
	default:
		return p.unexpected("type")
	}
	if err := p.next(); err != nil {
		return err
	}
	if err := p.emit(vm.Begin(isMatrix, isConst)); err != nil {
		return err
	}
	for {
		if err := p.declarator(isConst); err != nil {
			return err
		}
		if p.la.Type != Comma {
			return nil
		}
		if err := p.next(); err != nil {
			return err
		}
	}
}

func (p *Parser) declarator(isConst bool) error {
	id, err := p.expect(Ident)
	if err != nil {
		return err
	}
	var dims []int
	for p.la.Type == LBracket {
		if err = p.next(); err != nil {
			return err
		}
		tok, err := p.expect(Unsigned)
		if err != nil {
			return err
		}
		n, err := strconv.Atoi(tok.Lexeme)
		if err != nil {
			return mxl.Errorf(mxl.BadDimensions, "%s: dimension %s of '%s'",
				tok.Position(), tok.Lexeme, id.Lexeme)
		}
		dims = append(dims, n)
		if _, err = p.expect(RBracket); err != nil {
			return err
		}
	}
	hasInit := p.la.Type == AssignOp
	if hasInit {
		if err = p.next(); err != nil {
			return err
		}
		if err = p.expr(); err != nil {
			return err
		}
	} else if isConst {
		return mxl.Errorf(mxl.SyntaxError, "%s: constant '%s' needs an initializer",
			id.Position(), id.Lexeme)
	}
	return p.emit(vm.DeclareVar(id.Lexeme, dims, hasInit))
}

func (p *Parser) assignment() error {
	id, err := p.expect(Ident)
	if err != nil {
		return err
	}
	if _, err = p.expect(AssignOp); err != nil {
		return err
	}
	if err = p.expr(); err != nil {
		return err
	}
	if _, err = p.expect(Semicolon); err != nil {
		return err
	}
	return p.emit(vm.StoreVar(id.Lexeme))
}

func (p *Parser) expr() error {
	if err := p.additive(); err != nil {
		return err
	}
	if p.la.Type != RelationOp {
		return nil
	}
	rel := p.la.Lexeme
	if err := p.next(); err != nil {
		return err
	}
	if err := p.additive(); err != nil {
		return err
	}
	return p.emit(vm.Compare(rel))
}

func (p *Parser) additive() error {
	if err := p.term(); err != nil {
		return err
	}
	for p.la.Type == PlusOp || p.la.Type == MinusOp {
		code := vm.Add
		if p.la.Type == MinusOp {
			code = vm.Sub
		}
		if err := p.next(); err != nil {
			return err
		}
		if err := p.term(); err != nil {
			return err
		}
		if err := p.emit(vm.Simple(code)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) term() error {
	if err := p.unary(); err != nil {
		return err
	}
	for p.la.Type == TimesOp {
		if err := p.next(); err != nil {
			return err
		}
		if err := p.unary(); err != nil {
			return err
		}
		if err := p.emit(vm.Simple(vm.Mul)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) unary() error {
	if p.la.Type != MinusOp {
		return p.primary()
	}
	if err := p.next(); err != nil {
		return err
	}
	if err := p.unary(); err != nil {
		return err
	}
	return p.emit(vm.Simple(vm.Neg))
}

func (p *Parser) primary() error {
	switch p.la.Type {
	case Unsigned:
		tok := p.la
		n, err := integer(tok, "")
		if err != nil {
			return err
		}
		if err = p.next(); err != nil {
			return err
		}
		return p.emit(vm.PushInt(n))
	case Ident:
		name := p.la.Lexeme
		if err := p.next(); err != nil {
			return err
		}
		return p.emit(vm.LoadVar(name))
	case LParen:
		if err := p.next(); err != nil {
			return err
		}
		if err := p.expr(); err != nil {
			return err
		}
		_, err := p.expect(RParen)
		return err
	case LBracket:
		return p.matrixLiteral()
	}
	return p.unexpected("expression")
}

func (p *Parser) matrixLiteral() error {
	if _, err := p.expect(LBracket); err != nil {
		return err
	}
	rows := [][]int64{}
	for p.la.Type == LBracket {
		row, err := p.row()
		if err != nil {
			return err
		}
		rows = append(rows, row)
		if p.la.Type != Comma {
			break
		}
		if err = p.next(); err != nil {
			return err
		}
		if p.la.Type != LBracket {
			return p.unexpected("row")
		}
	}
	if _, err := p.expect(RBracket); err != nil {
		return err
	}
	return p.emit(vm.PushMatrix(rows))
}

func (p *Parser) row() ([]int64, error) {
	if _, err := p.expect(LBracket); err != nil {
		return nil, err
	}
	row := []int64{}
	for p.la.Type == Unsigned || p.la.Type == MinusOp {
		sign := ""
		if p.la.Type == MinusOp {
			sign = "-"
			if err := p.next(); err != nil {
				return nil, err
			}
		}
		tok, err := p.expect(Unsigned)
		if err != nil {
			return nil, err
		}
		n, err := integer(tok, sign)
		if err != nil {
			return nil, err
		}
		row = append(row, n)
		if p.la.Type != Comma {
			break
		}
		if err = p.next(); err != nil {
			return nil, err
		}
		if p.la.Type != Unsigned && p.la.Type != MinusOp {
			return nil, p.unexpected("integer")
		}
	}
	_, err := p.expect(RBracket)
	return row, err
}

// --- Helpers ---------------------------------------------------------------

func (p *Parser) next() error {
	tok, err := p.scan.NextToken()
	if err != nil {
		return err
	}
	p.la = tok
	return nil
}

func (p *Parser) expect(t TokType) (Token, error) {
	tok := p.la
	if tok.Type != t {
		return tok, p.unexpected(t.String())
	}
	return tok, p.next()
}

func (p *Parser) unexpected(expected string) error {
	tracer().P("pos", p.la.Position()).Errorf("syntax error: %s expected", expected)
	return mxl.Errorf(mxl.SyntaxError, "%s: unexpected %s, expected %s",
		p.la.Position(), p.la, expected)
}

// integer converts an integer literal. Literals outside the range of int64
// are malformed.
func integer(tok Token, sign string) (int64, error) {
	n, err := strconv.ParseInt(sign+tok.Lexeme, 10, 64)
	if err != nil {
		return 0, mxl.Errorf(mxl.MalformedLiteral, "%s: integer %s%s out of range",
			tok.Position(), sign, tok.Lexeme)
	}
	return n, nil
}
