package corelang

import "sort"

// StackOperation is an operation on an expression stack.
type StackOperation func(*ExprStack) error

var standardOperators = map[string]StackOperation{
	"+": (*ExprStack).AddTOS2OS,
	"-": (*ExprStack).SubtractTOS2OS,
	"*": (*ExprStack).MultiplyTOS2OS,
}

func init() {
	for rel := range relationLexemes {
		r := rel
		standardOperators[r.String()] = func(es *ExprStack) error {
			return es.CompareTOS2OS(r)
		}
	}
}

// LoadStandardOperators returns the binary operators of the language,
// indexed by lexeme. The map is a copy and may be altered by clients.
func LoadStandardOperators() map[string]StackOperation {
	ops := make(map[string]StackOperation, len(standardOperators))
	for lexeme, op := range standardOperators {
		ops[lexeme] = op
	}
	return ops
}

// OperatorLexemes returns the lexemes of all binary operators, sorted.
func OperatorLexemes() []string {
	lexemes := make([]string, 0, len(standardOperators))
	for lexeme := range standardOperators {
		lexemes = append(lexemes, lexeme)
	}
	sort.Strings(lexemes)
	return lexemes
}
