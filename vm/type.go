package vm

import (
	"fmt"
	"strconv"

	"sexpr/parser"
)

// Type describes the behavior of values that carry it. The set of
// types is open: defining a new one is constructing a descriptor.
//
// EmitIdent decides what code an identifier bound to a value of this
// type produces. This indirection is the whole dispatch story: a
// function pulls argument forms and emits a call, a macro runs its
// body at emit time, an argument slot emits a stack load, and plain
// data emits a push.
type Type struct {
	Name      string
	EmitIdent func(v Value, m *VM, pos parser.Position, ns *Namespace, args *FormQueue, opts EmitOptions) error
	Truthy    func(v Value) bool
	Repr      func(v Value) string
}

// NewType creates a type descriptor with default behaviors:
// identifiers push the bound value, all values are truthy, and
// display shows the type name.
func NewType(name string) *Type {
	t := &Type{Name: name}
	t.EmitIdent = func(v Value, m *VM, pos parser.Position, ns *Namespace, args *FormQueue, opts EmitOptions) error {
		m.Emit(Op{Code: OP_PUSH, Val: v})
		return nil
	}
	t.Truthy = func(Value) bool { return true }
	t.Repr = func(Value) string { return name }
	return t
}

// Standard type descriptors, initialized once at process start
var (
	MetaType     = newMetaType()
	BoolType     = newBoolType()
	IntType      = newIntType()
	StringType   = newStringType()
	TimeType     = newTimeType()
	FunctionType = newFunctionType()
	MacroType    = newMacroType()
	ArgumentType = newArgumentType()
)

func newMetaType() *Type {
	t := NewType("Meta")
	t.Repr = func(v Value) string { return v.TypeRef().Name }
	return t
}

func newBoolType() *Type {
	t := NewType("Bool")
	t.Truthy = func(v Value) bool { return v.Bool() }
	t.Repr = func(v Value) string {
		if v.Bool() {
			return "true"
		}
		return "false"
	}
	return t
}

func newIntType() *Type {
	t := NewType("Int")
	t.Truthy = func(v Value) bool { return v.Int() != 0 }
	t.Repr = func(v Value) string { return strconv.FormatInt(v.Int(), 10) }
	return t
}

func newStringType() *Type {
	t := NewType("String")
	t.Repr = func(v Value) string { return strconv.Quote(v.Str()) }
	return t
}

func newTimeType() *Type {
	t := NewType("Time")
	t.Truthy = func(v Value) bool { return v.Duration() != 0 }
	t.Repr = func(v Value) string { return v.Duration().String() }
	return t
}

func newFunctionType() *Type {
	t := NewType("Function")
	t.EmitIdent = func(v Value, m *VM, pos parser.Position, ns *Namespace, args *FormQueue, opts EmitOptions) error {
		f := v.Fn()

		// Arguments evaluate in call position, never in tail position.
		for range f.Params {
			form, ok := args.Pop()
			if !ok {
				return &MissingArgumentError{Pos: pos}
			}
			if err := m.EmitForm(form, ns, args, 0); err != nil {
				return err
			}
		}

		if opts.Has(Returning) && f.StartPc >= 0 {
			m.Emit(Op{Code: OP_TAIL_CALL, Pos: pos, Fn: f})
		} else {
			m.Emit(Op{Code: OP_CALL, Pos: pos, Fn: f})
		}
		return nil
	}
	t.Repr = func(v Value) string { return fmt.Sprintf("function %s", v.Fn().Name) }
	return t
}

func newMacroType() *Type {
	t := NewType("Macro")
	t.EmitIdent = func(v Value, m *VM, pos parser.Position, ns *Namespace, args *FormQueue, opts EmitOptions) error {
		return v.Macro().Emit(m, pos, ns, args)
	}
	t.Repr = func(v Value) string { return fmt.Sprintf("macro %s", v.Macro().Name) }
	return t
}

func newArgumentType() *Type {
	t := NewType("Argument")
	t.EmitIdent = func(v Value, m *VM, pos parser.Position, ns *Namespace, args *FormQueue, opts EmitOptions) error {
		m.Emit(Op{Code: OP_ARGUMENT, Target: v.ArgIndex()})
		return nil
	}
	t.Repr = func(v Value) string { return fmt.Sprintf("argument %d", v.ArgIndex()) }
	return t
}
