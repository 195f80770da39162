package vm

import (
	"fmt"

	"sexpr/parser"
)

// UnknownIdentifierError is raised at emit time when an identifier is
// not bound in the emission namespace.
type UnknownIdentifierError struct {
	Pos  parser.Position
	Name string
}

func (e *UnknownIdentifierError) Error() string {
	return fmt.Sprintf("%s: unknown identifier '%s'", e.Pos, e.Name)
}

// MissingArgumentError is raised at emit time when a function or macro
// needs more forms than remain in the sequence.
type MissingArgumentError struct {
	Pos parser.Position
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("%s: missing argument", e.Pos)
}

// MissingValueError is raised at eval time when an instruction needs a
// stack value that isn't there.
type MissingValueError struct {
	Pos parser.Position
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("%s: missing value", e.Pos)
}
