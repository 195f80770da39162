package vm

import "sexpr/parser"

// StdNamespace builds a fresh root namespace with the standard types,
// constants, functions and macros bound. Each VM gets its own root so
// user definitions never leak between evaluations.
func StdNamespace() *Namespace {
	ns := NewNamespace(nil)

	ns.Set("Meta", NewMeta(MetaType))
	ns.Set("Bool", NewMeta(BoolType))
	ns.Set("Int", NewMeta(IntType))
	ns.Set("String", NewMeta(StringType))
	ns.Set("Time", NewMeta(TimeType))
	ns.Set("Function", NewMeta(FunctionType))
	ns.Set("Macro", NewMeta(MacroType))

	ns.Set("true", NewBool(true))
	ns.Set("false", NewBool(false))

	ns.Set("=", NewFunction(intBinOp("=", func(a, b int64) Value { return NewBool(a == b) })))
	ns.Set("<", NewFunction(intBinOp("<", func(a, b int64) Value { return NewBool(a < b) })))
	ns.Set(">", NewFunction(intBinOp(">", func(a, b int64) Value { return NewBool(a > b) })))
	ns.Set("+", NewFunction(intBinOp("+", func(a, b int64) Value { return NewInt(a + b) })))
	ns.Set("-", NewFunction(intBinOp("-", func(a, b int64) Value { return NewInt(a - b) })))

	ns.Set("yield", NewFunction(NewPrimitive("yield", nil,
		func(m *VM, pos parser.Position) error {
			m.Rotate()
			return nil
		})))

	ns.Set("function", NewMacro(&Macro{Name: "function", Emit: emitFunctionDef}))
	ns.Set("return", NewMacro(&Macro{Name: "return", Emit: emitReturn}))
	ns.Set("if", NewMacro(&Macro{Name: "if", Emit: emitIf}))
	ns.Set("or", NewMacro(&Macro{Name: "or", Emit: emitOr}))
	ns.Set("task", NewMacro(&Macro{Name: "task", Emit: emitTask}))
	ns.Set("benchmark", NewMacro(&Macro{Name: "benchmark", Emit: emitBenchmark}))
	ns.Set("trace", NewMacro(&Macro{Name: "trace", Emit: emitTrace}))

	return ns
}

// intBinOp builds a two-argument integer primitive
func intBinOp(name string, apply func(a, b int64) Value) *Function {
	return NewPrimitive(name, []string{"a", "b"},
		func(m *VM, pos parser.Position) error {
			t := m.Current()
			b, err := t.Pop(pos)
			if err != nil {
				return err
			}
			a, err := t.Pop(pos)
			if err != nil {
				return err
			}
			t.Push(apply(a.Int(), b.Int()))
			return nil
		})
}

// emitFunctionDef compiles (function name (params) body). A skip slot
// is reserved so straight-line execution jumps over the body; the
// function value is bound before the body emits, making recursive
// references resolve.
func emitFunctionDef(m *VM, pos parser.Position, ns *Namespace, args *FormQueue) error {
	nameForm, ok := args.Pop()
	if !ok {
		return &MissingArgumentError{Pos: pos}
	}
	name, ok := nameForm.(*parser.Identifier)
	if !ok {
		return &MissingArgumentError{Pos: nameForm.Position()}
	}

	paramsForm, ok := args.Pop()
	if !ok {
		return &MissingArgumentError{Pos: pos}
	}
	paramsList, ok := paramsForm.(*parser.List)
	if !ok {
		return &MissingArgumentError{Pos: paramsForm.Position()}
	}
	params := make([]string, 0, len(paramsList.Items))
	for _, item := range paramsList.Items {
		id, ok := item.(*parser.Identifier)
		if !ok {
			return &MissingArgumentError{Pos: item.Position()}
		}
		params = append(params, id.Name)
	}

	bodyForm, ok := args.Pop()
	if !ok {
		return &MissingArgumentError{Pos: pos}
	}

	skipPc := m.Emit(Op{Code: OP_NOP})

	f := NewBytecodeFunction(name.Name, params, m.EmitPc())
	ns.Set(name.Name, NewFunction(f))

	body := NewNamespace(ns)
	for i, p := range params {
		body.Set(p, NewArgument(i))
	}

	// The body is not emitted as returning: tail calls require an
	// explicit return.
	if err := m.EmitForm(bodyForm, body, NewFormQueue(nil), 0); err != nil {
		return err
	}
	m.Emit(Op{Code: OP_POP_CALL, Fn: f})

	m.Patch(skipPc, Op{Code: OP_GOTO, Target: m.EmitPc()})
	return nil
}

// emitReturn compiles (return expr): the expression emits with the
// returning hint, the only route that produces OP_TAIL_CALL.
func emitReturn(m *VM, pos parser.Position, ns *Namespace, args *FormQueue) error {
	form, ok := args.Pop()
	if !ok {
		return &MissingArgumentError{Pos: pos}
	}
	return m.EmitForm(form, ns, args, Returning)
}

// emitIf compiles (if cond then) and (if cond then else alt)
func emitIf(m *VM, pos parser.Position, ns *Namespace, args *FormQueue) error {
	condForm, ok := args.Pop()
	if !ok {
		return &MissingArgumentError{Pos: pos}
	}
	if err := m.EmitForm(condForm, ns, args, 0); err != nil {
		return err
	}

	ifPc := m.Emit(Op{Code: OP_NOP})

	thenForm, ok := args.Pop()
	if !ok {
		return &MissingArgumentError{Pos: pos}
	}
	if err := m.EmitForm(thenForm, ns, args, 0); err != nil {
		return err
	}

	elsePc := m.EmitPc()
	if id, ok := args.Peek().(*parser.Identifier); ok && id.Name == "else" {
		args.Pop()
		skipPc := m.Emit(Op{Code: OP_NOP})
		elsePc = m.EmitPc()

		altForm, ok := args.Pop()
		if !ok {
			return &MissingArgumentError{Pos: pos}
		}
		if err := m.EmitForm(altForm, ns, args, 0); err != nil {
			return err
		}
		m.Patch(skipPc, Op{Code: OP_GOTO, Target: m.EmitPc()})
	}

	m.Patch(ifPc, Op{Code: OP_BRANCH, Pos: pos, Target: elsePc})
	return nil
}

// emitOr compiles (or a b): a short-circuit keep-or-discard over the
// first value, evaluating it exactly once.
func emitOr(m *VM, pos parser.Position, ns *Namespace, args *FormQueue) error {
	aForm, ok := args.Pop()
	if !ok {
		return &MissingArgumentError{Pos: pos}
	}
	if err := m.EmitForm(aForm, ns, args, 0); err != nil {
		return err
	}

	orPc := m.Emit(Op{Code: OP_NOP})

	bForm, ok := args.Pop()
	if !ok {
		return &MissingArgumentError{Pos: pos}
	}
	if err := m.EmitForm(bForm, ns, args, 0); err != nil {
		return err
	}

	m.Patch(orPc, Op{Code: OP_OR, Pos: pos, Target: m.EmitPc()})
	return nil
}

// emitTask compiles (task body): at run time the body becomes a new
// task starting past the OP_TASK, while the spawning task jumps over
// it.
func emitTask(m *VM, pos parser.Position, ns *Namespace, args *FormQueue) error {
	taskPc := m.Emit(Op{Code: OP_NOP})

	bodyForm, ok := args.Pop()
	if !ok {
		return &MissingArgumentError{Pos: pos}
	}
	if err := m.EmitForm(bodyForm, ns, args, 0); err != nil {
		return err
	}
	m.Emit(Op{Code: OP_STOP})

	m.Patch(taskPc, Op{Code: OP_TASK, Target: m.EmitPc()})
	return nil
}

// emitBenchmark compiles (benchmark count body)
func emitBenchmark(m *VM, pos parser.Position, ns *Namespace, args *FormQueue) error {
	countForm, ok := args.Pop()
	if !ok {
		return &MissingArgumentError{Pos: pos}
	}
	if err := m.EmitForm(countForm, ns, args, 0); err != nil {
		return err
	}

	m.Emit(Op{Code: OP_BENCHMARK, Pos: pos})

	bodyForm, ok := args.Pop()
	if !ok {
		return &MissingArgumentError{Pos: pos}
	}
	if err := m.EmitForm(bodyForm, ns, args, 0); err != nil {
		return err
	}
	m.Emit(Op{Code: OP_STOP})
	return nil
}

// emitTrace toggles the VM trace flag. This happens at emit time:
// everything emitted afterwards carries a preceding OP_TRACE.
func emitTrace(m *VM, pos parser.Position, ns *Namespace, args *FormQueue) error {
	m.Trace = !m.Trace
	return nil
}
