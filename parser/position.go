package parser

import "fmt"

// Position represents a position in the source text
type Position struct {
	Source string // Source name ("repl", file path, ...)
	Line   int
	Column int
}

// String renders the position as source:line:column
func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Source, p.Line, p.Column)
}
