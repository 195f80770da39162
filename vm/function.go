package vm

import "sexpr/parser"

// Function is a callable value. A primitive carries only a Body and
// runs inline when called; a user-defined function additionally
// carries the entry pc of its compiled body, which its Body reaches by
// installing a call frame and jumping.
type Function struct {
	Name    string
	Params  []string
	StartPc int // -1 for primitives
	Body    func(m *VM, pos parser.Position) error
}

// NewPrimitive creates a function implemented directly in Go
func NewPrimitive(name string, params []string, body func(m *VM, pos parser.Position) error) *Function {
	return &Function{Name: name, Params: params, StartPc: -1, Body: body}
}

// NewBytecodeFunction creates a function whose body lives at startPc.
// Calling it installs a call frame and jumps there; the frame's
// return pc is the caller's already-advanced pc.
func NewBytecodeFunction(name string, params []string, startPc int) *Function {
	f := &Function{Name: name, Params: params, StartPc: startPc}
	f.Body = func(m *VM, pos parser.Position) error {
		t := m.Current()
		t.PushFrame(CallFrame{
			Target:      f,
			Pos:         pos,
			StackOffset: len(t.Stack) - len(f.Params),
			ReturnPc:    t.Pc,
		})
		t.Pc = f.StartPc
		return nil
	}
	return f
}

// Call checks arity against the current stack and runs the body
func (f *Function) Call(m *VM, pos parser.Position) error {
	t := m.Current()
	if len(t.Stack) < len(f.Params) {
		return &MissingValueError{Pos: pos}
	}
	return f.Body(m, pos)
}

// CallFrame records one user-function invocation. StackOffset points
// at the first argument slot: while the frame is active, the slots
// [StackOffset, StackOffset+arity) hold the call's arguments.
type CallFrame struct {
	Target      *Function
	Pos         parser.Position
	StackOffset int
	ReturnPc    int
}

// Macro is a first-class emit-time rewrite. Emit may pull forms off
// the front of the remaining sequence.
type Macro struct {
	Name string
	Emit func(m *VM, pos parser.Position, ns *Namespace, args *FormQueue) error
}
