package vm

import (
	"time"

	"sexpr/trace"
)

// VM owns the shared code buffer, the task list and the trace flag.
// Tasks[0] is always the current task; cooperative scheduling rotates
// the list.
type VM struct {
	Code  []Op
	Tasks []*Task

	// Trace makes Emit precede every instruction with OP_TRACE.
	// Toggled at emit time by the trace macro.
	Trace bool

	nextTask int
}

// New creates a VM with a single main task
func New() *VM {
	m := &VM{nextTask: 1}
	m.Tasks = []*Task{NewTask(0, 0)}
	return m
}

// Current returns the running task
func (m *VM) Current() *Task {
	return m.Tasks[0]
}

// EmitPc returns the pc the next emitted instruction will occupy
func (m *VM) EmitPc() int {
	return len(m.Code)
}

// Emit appends an instruction and returns its pc. With the trace flag
// set, every instruction is preceded by OP_TRACE.
func (m *VM) Emit(op Op) int {
	if m.Trace && op.Code != OP_TRACE {
		m.Code = append(m.Code, Op{Code: OP_TRACE})
	}
	pc := len(m.Code)
	m.Code = append(m.Code, op)
	return pc
}

// Patch overwrites a previously reserved slot. Macros reserve OP_NOP,
// emit the forward span, then patch the recorded pc.
func (m *VM) Patch(pc int, op Op) {
	m.Code[pc] = op
}

// AddTask appends a task starting at the given pc and returns it
func (m *VM) AddTask(pc int) *Task {
	t := NewTask(m.nextTask, pc)
	m.nextTask++
	m.Tasks = append(m.Tasks, t)
	return t
}

// Rotate moves the current task to the back of the list. This is the
// only scheduling operation: yield calls it, and the eval loop picks
// up the new front task on its next dispatch.
func (m *VM) Rotate() {
	if len(m.Tasks) < 2 {
		return
	}
	from := m.Tasks[0]
	m.Tasks = append(m.Tasks[1:], from)
	trace.TaskSwitch(from.ID, m.Tasks[0].ID)
}

// Eval runs the current task from the given pc until an OP_STOP is
// reached. The current task is re-read on every dispatch, so a yield
// rotation continues with the next task without growing the host
// stack.
func (m *VM) Eval(fromPc int) error {
	m.Current().Pc = fromPc

	for {
		t := m.Current()
		op := m.Code[t.Pc]

		switch op.Code {
		case OP_ARGUMENT:
			fr := t.Frame()
			t.Push(t.Stack[fr.StackOffset+op.Target])
			t.Pc++

		case OP_BENCHMARK:
			if err := m.benchmark(t, op); err != nil {
				return err
			}

		case OP_BRANCH:
			v, err := t.Pop(op.Pos)
			if err != nil {
				return err
			}
			if v.Truthy() {
				t.Pc++
			} else {
				t.Pc = op.Target
			}

		case OP_CALL:
			t.Pc++
			if err := op.Fn.Call(m, op.Pos); err != nil {
				return err
			}

		case OP_GOTO:
			t.Pc = op.Target

		case OP_NOP:
			t.Pc++

		case OP_OR:
			v, err := t.Peek(op.Pos)
			if err != nil {
				return err
			}
			if v.Truthy() {
				t.Pc = op.Target
			} else {
				t.Pop(op.Pos)
				t.Pc++
			}

		case OP_POP_CALL:
			fr := t.PopFrame()
			arity := len(op.Fn.Params)
			// Drop the argument slots; return values pushed above
			// them slide down.
			t.Stack = append(t.Stack[:fr.StackOffset], t.Stack[fr.StackOffset+arity:]...)
			t.Pc = fr.ReturnPc

		case OP_PUSH:
			t.Push(op.Val)
			t.Pc++

		case OP_STOP:
			return nil

		case OP_TAIL_CALL:
			if err := m.tailCall(t, op); err != nil {
				return err
			}

		case OP_TASK:
			m.AddTask(t.Pc + 1)
			t.Pc = op.Target

		case OP_TRACE:
			trace.Instruction(t.ID, t.Pc+1, m.Code[t.Pc+1].String())
			t.Pc++
		}
	}
}

// tailCall reuses the current frame when there is one and its target
// runs from bytecode; otherwise it degrades to plain call semantics.
func (m *VM) tailCall(t *Task, op Op) error {
	fr := t.Frame()
	if fr == nil || fr.Target.StartPc < 0 {
		t.Pc++
		return op.Fn.Call(m, op.Pos)
	}

	f := op.Fn
	if len(t.Stack) < len(f.Params) {
		return &MissingValueError{Pos: op.Pos}
	}
	fr.Target = f
	fr.Pos = op.Pos
	fr.StackOffset = len(t.Stack) - len(f.Params)
	t.Pc = f.StartPc
	return nil
}

// benchmark pops the iteration count, runs the following body that
// many times through nested Eval calls, truncating the stack between
// iterations, and pushes the elapsed time. The body ends in OP_STOP;
// the loop leaves pc resting on it.
func (m *VM) benchmark(t *Task, op Op) error {
	count, err := t.Pop(op.Pos)
	if err != nil {
		return err
	}

	bodyPc := t.Pc + 1
	depth := len(t.Stack)
	runs := count.Int()

	started := time.Now()
	for i := int64(0); i < runs; i++ {
		if err := m.Eval(bodyPc); err != nil {
			return err
		}
		t.Stack = t.Stack[:depth]
	}
	elapsed := time.Since(started)

	if runs < 1 {
		// Still traverse the body once so pc lands on its stop.
		if err := m.Eval(bodyPc); err != nil {
			return err
		}
		t.Stack = t.Stack[:depth]
		elapsed = 0
	}

	t.Push(NewTime(elapsed))
	return nil
}
