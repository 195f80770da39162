package vm

import "sexpr/parser"

// EmitOptions is a bit set of emission hints
type EmitOptions uint8

const (
	// Returning marks the emission as the tail of a function body,
	// letting calls to bytecode functions compile to OP_TAIL_CALL.
	Returning EmitOptions = 1 << iota
)

// Has reports whether a flag is set
func (o EmitOptions) Has(flag EmitOptions) bool {
	return o&flag != 0
}

// FormQueue is a sequence of forms consumed from the front during
// emission. Emitters pull sibling forms from it to collect macro and
// call arguments.
type FormQueue struct {
	items []parser.Form
}

// NewFormQueue wraps a form slice for sequential emission
func NewFormQueue(items []parser.Form) *FormQueue {
	return &FormQueue{items: items}
}

// Len returns the number of forms remaining
func (q *FormQueue) Len() int {
	return len(q.items)
}

// Pop removes and returns the front form
func (q *FormQueue) Pop() (parser.Form, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	f := q.items[0]
	q.items = q.items[1:]
	return f, true
}

// Peek returns the front form without removing it, or nil if empty
func (q *FormQueue) Peek() parser.Form {
	if len(q.items) == 0 {
		return nil
	}
	return q.items[0]
}

// EmitForm compiles one form. Literals push themselves, lists re-enter
// sequence emission over their items, and identifiers resolve in ns
// and delegate to the type of the bound value.
func (m *VM) EmitForm(f parser.Form, ns *Namespace, args *FormQueue, opts EmitOptions) error {
	switch f := f.(type) {
	case *parser.IntLit:
		m.Emit(Op{Code: OP_PUSH, Val: NewInt(f.Value)})
		return nil
	case *parser.StrLit:
		m.Emit(Op{Code: OP_PUSH, Val: NewStr(f.Value)})
		return nil
	case *parser.List:
		return m.EmitForms(NewFormQueue(f.Items), ns, opts)
	case *parser.Identifier:
		v, ok := ns.Get(f.Name)
		if !ok {
			return &UnknownIdentifierError{Pos: f.Pos, Name: f.Name}
		}
		return v.T.EmitIdent(v, m, f.Pos, ns, args, opts)
	default:
		panic("unreachable form kind")
	}
}

// EmitForms runs sequence emission: forms are popped from the front,
// and each may consume further siblings as its arguments. The loop
// ends when the queue is empty.
func (m *VM) EmitForms(q *FormQueue, ns *Namespace, opts EmitOptions) error {
	for {
		f, ok := q.Pop()
		if !ok {
			return nil
		}
		if err := m.EmitForm(f, ns, q, opts); err != nil {
			return err
		}
	}
}
