// Package asmerr defines the error kinds shared by the assembler and the
// simulators. Every fatal condition described by the specification —
// unreadable input, malformed syntax, an out-of-range immediate, an
// undefined or duplicate label, the unimplemented JALR opcode, or an
// access past the end of a memory array — is one of these kinds, so
// callers can discriminate with errors.As instead of matching strings.
package asmerr

import "fmt"

// InputError reports an unreadable file or malformed hex word.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string { return "input error: " + e.Msg }

// SyntaxError reports a bad opcode, wrong operand count, or bad register.
type SyntaxError struct {
	Msg string
}

func (e *SyntaxError) Error() string { return "syntax error: " + e.Msg }

// RangeError reports an immediate or label displacement outside signed-16 range.
type RangeError struct {
	Msg string
}

func (e *RangeError) Error() string { return "range error: " + e.Msg }

// SymbolError reports an undefined or duplicate label.
type SymbolError struct {
	Msg string
}

func (e *SymbolError) Error() string { return "symbol error: " + e.Msg }

// UnimplementedOp reports an attempt to execute JALR.
type UnimplementedOp struct {
	Msg string
}

func (e *UnimplementedOp) Error() string { return "unimplemented opcode: " + e.Msg }

// BoundsError reports an access beyond an allocated memory array.
type BoundsError struct {
	Msg string
}

func (e *BoundsError) Error() string { return "bounds error: " + e.Msg }

// AtLine wraps err with a " (line N)" suffix, the diagnostic format the
// assembler reports at its CLI boundary.
func AtLine(line int, err error) error {
	return fmt.Errorf("%w (line %d)", err, line)
}

// AtCycle wraps err with a " (cycle N)" suffix, the diagnostic format the
// simulator reports at its CLI boundary.
func AtCycle(cycle uint64, err error) error {
	return fmt.Errorf("%w (cycle %d)", err, cycle)
}
