package odkeyscript

import "fmt"

// SyntaxError reports a lexical problem: an unterminated string or an
// unexpected character. It always carries the source position.
type SyntaxError struct {
	Message string
	Line    int
	Column  int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// Position returns the 1-based line and column the error occurred at,
// so callers can format it without a type switch.
func (e *SyntaxError) Position() (line, column int) {
	return e.Line, e.Column
}

// SemanticError reports a problem the parser/emitter finds once it
// understands what a token means: unknown keys/modifiers, operands
// out of range, too many keys, too many nested loops, malformed
// repeat blocks, and press with no keys.
type SemanticError struct {
	Message string
	Line    int
	Column  int
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
}

func (e *SemanticError) Position() (line, column int) {
	return e.Line, e.Column
}
