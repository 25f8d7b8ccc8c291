package vm

import (
	"fmt"
	"strings"

	"github.com/npillmayer/mxl"
)

// OpCode is the code of a reduction op. The lower 3 bits encode the kind of
// argument the op carries.
type OpCode uint16

// Argument kinds
const (
	OpNop OpCode = 0

	OpArgI OpCode = 1 // int argument
	OpArgM OpCode = 2 // matrix literal argument
	OpArgD OpCode = 3 // declaration statement argument
	OpArgV OpCode = 4 // declarator argument
	OpArgS OpCode = 5 // string argument

	argMask OpCode = 0x07
)

// Op codes
const (
	IConst     OpCode = 1<<3 | OpArgI  // ICONST ⟪i64⟫ : push an integer literal
	MConst     OpCode = 2<<3 | OpArgM  // MCONST ⟪rows⟫ : push a matrix literal
	Load       OpCode = 3<<3 | OpArgS  // LOAD ⟪name⟫ : push the value of a variable
	Add        OpCode = 4 << 3         // ADD : 2ndOS + TOS
	Sub        OpCode = 5 << 3         // SUB : 2ndOS - TOS
	Mul        OpCode = 6 << 3         // MUL : 2ndOS * TOS
	Neg        OpCode = 7 << 3         // NEG : -TOS
	Cmp        OpCode = 8<<3 | OpArgS  // CMP ⟪relation⟫ : compare 2ndOS to TOS
	BeginDecl  OpCode = 9<<3 | OpArgD  // BEGINDECL ⟪decl⟫ : start of a declaration statement
	Declare    OpCode = 10<<3 | OpArgV // DECLARE ⟪declarator⟫ : declare an identifier
	Store      OpCode = 11<<3 | OpArgS // STORE ⟪name⟫ : assign TOS to a variable
	Print      OpCode = 12 << 3        // PRINT : output TOS
	Show       OpCode = 13<<3 | OpArgS // SHOW ⟪name⟫ : output a variable
	BeginGroup OpCode = 14<<3 | OpArgS // BEGINGROUP ⟪name⟫ : push a scope
	EndGroup   OpCode = 15 << 3        // ENDGROUP : pop a scope
)

var opNames = map[OpCode]string{
	OpNop:      "NOP",
	IConst:     "ICONST",
	MConst:     "MCONST",
	Load:       "LOAD",
	Add:        "ADD",
	Sub:        "SUB",
	Mul:        "MUL",
	Neg:        "NEG",
	Cmp:        "CMP",
	BeginDecl:  "BEGINDECL",
	Declare:    "DECLARE",
	Store:      "STORE",
	Print:      "PRINT",
	Show:       "SHOW",
	BeginGroup: "BEGINGROUP",
	EndGroup:   "ENDGROUP",
}

func (code OpCode) String() string {
	if s, ok := opNames[code]; ok {
		return s
	}
	return fmt.Sprintf("OP(%#02x)", uint16(code))
}

// DeclSpec is the argument of BeginDecl: the type specifier of a
// declaration statement.
type DeclSpec struct {
	Matrix bool
	Const  bool
}

// Declarator is the argument of Declare. If HasInit is set, the initial
// value has been pushed onto the stack by the preceding ops.
type Declarator struct {
	Name    string
	Dims    []int
	HasInit bool
}

// Op is a reduction op, emitted by the parser for every reduced production.
type Op struct {
	Code OpCode
	Arg  interface{}
}

func (op Op) String() string {
	if op.Code&argMask == OpNop {
		return op.Code.String()
	}
	return fmt.Sprintf("%s %v", op.Code, op.Arg)
}

// --- Op constructors -------------------------------------------------------

// PushInt creates an op for an integer literal.
func PushInt(c int64) Op { return Op{Code: IConst, Arg: c} }

// PushMatrix creates an op for a matrix literal.
func PushMatrix(rows [][]int64) Op { return Op{Code: MConst, Arg: rows} }

// LoadVar creates an op pushing the value of a variable.
func LoadVar(name string) Op { return Op{Code: Load, Arg: name} }

// Compare creates a comparison op for a relation lexeme.
func Compare(rel string) Op { return Op{Code: Cmp, Arg: rel} }

// Begin creates an op starting a declaration statement.
func Begin(isMatrix, isConst bool) Op {
	return Op{Code: BeginDecl, Arg: DeclSpec{Matrix: isMatrix, Const: isConst}}
}

// DeclareVar creates an op declaring an identifier.
func DeclareVar(name string, dims []int, hasInit bool) Op {
	return Op{Code: Declare, Arg: Declarator{Name: name, Dims: dims, HasInit: hasInit}}
}

// StoreVar creates an assignment op.
func StoreVar(name string) Op { return Op{Code: Store, Arg: name} }

// ShowVar creates an op for showing a variable.
func ShowVar(name string) Op { return Op{Code: Show, Arg: name} }

// Group creates an op opening a group with an optional name.
func Group(name string) Op { return Op{Code: BeginGroup, Arg: name} }

// Simple creates an op without argument.
func Simple(code OpCode) Op { return Op{Code: code} }

// Disassemble lists a program, one op per line.
func Disassemble(program []Op) string {
	var b strings.Builder
	for i, op := range program {
		b.WriteString(fmt.Sprintf("%04d  %s\n", i, op))
	}
	return b.String()
}

// --- Registers -------------------------------------------------------------

// RegisterSet holds the decoded argument of the op being executed.
type RegisterSet struct {
	I int64
	M [][]int64
	D DeclSpec
	V Declarator
	S string
}

// DecodeArg moves the argument of op into the register for its kind.
// An argument not matching the kind encoded in the op code is an
// internal error.
func (rset *RegisterSet) DecodeArg(op Op) error {
	ok := true
	switch op.Code & argMask {
	case OpNop:
	case OpArgI:
		rset.I, ok = op.Arg.(int64)
	case OpArgM:
		rset.M, ok = op.Arg.([][]int64)
	case OpArgD:
		rset.D, ok = op.Arg.(DeclSpec)
	case OpArgV:
		rset.V, ok = op.Arg.(Declarator)
	case OpArgS:
		rset.S, ok = op.Arg.(string)
	default:
		ok = false
	}
	if !ok {
		return mxl.Errorf(mxl.InternalError, "cannot decode argument %v of op %s", op.Arg, op.Code)
	}
	return nil
}
