package vm

import (
	"testing"

	"sexpr/parser"
)

func testPos() parser.Position {
	return parser.Position{Source: "test", Line: 1, Column: 1}
}

func TestPushStop(t *testing.T) {
	m := New()
	m.Emit(Op{Code: OP_PUSH, Val: NewInt(42)})
	m.Emit(Op{Code: OP_STOP})

	if err := m.Eval(0); err != nil {
		t.Fatalf("Eval error: %v", err)
	}

	task := m.Current()
	if len(task.Stack) != 1 {
		t.Fatalf("stack length = %d, want 1", len(task.Stack))
	}
	if got := task.Stack[0].Int(); got != 42 {
		t.Errorf("top = %d, want 42", got)
	}
}

func TestGoto(t *testing.T) {
	m := New()
	m.Emit(Op{Code: OP_GOTO, Target: 2})
	m.Emit(Op{Code: OP_PUSH, Val: NewInt(1)})
	m.Emit(Op{Code: OP_PUSH, Val: NewInt(2)})
	m.Emit(Op{Code: OP_STOP})

	if err := m.Eval(0); err != nil {
		t.Fatalf("Eval error: %v", err)
	}

	task := m.Current()
	if len(task.Stack) != 1 || task.Stack[0].Int() != 2 {
		t.Errorf("stack = %v, want [2]", task.Stack)
	}
}

func TestBranchTaken(t *testing.T) {
	m := New()
	m.Emit(Op{Code: OP_PUSH, Val: NewBool(false)})
	m.Emit(Op{Code: OP_BRANCH, Pos: testPos(), Target: 4})
	m.Emit(Op{Code: OP_PUSH, Val: NewInt(10)})
	m.Emit(Op{Code: OP_GOTO, Target: 5})
	m.Emit(Op{Code: OP_PUSH, Val: NewInt(20)})
	m.Emit(Op{Code: OP_STOP})

	if err := m.Eval(0); err != nil {
		t.Fatalf("Eval error: %v", err)
	}
	task := m.Current()
	if len(task.Stack) != 1 || task.Stack[0].Int() != 20 {
		t.Errorf("stack = %v, want [20]", task.Stack)
	}
}

func TestBranchMissingValue(t *testing.T) {
	m := New()
	m.Emit(Op{Code: OP_BRANCH, Pos: testPos(), Target: 1})
	m.Emit(Op{Code: OP_STOP})

	err := m.Eval(0)
	missing, ok := err.(*MissingValueError)
	if !ok {
		t.Fatalf("error = %v, want *MissingValueError", err)
	}
	if missing.Pos != testPos() {
		t.Errorf("pos = %v, want %v", missing.Pos, testPos())
	}
}

func TestOrKeepsTruthy(t *testing.T) {
	m := New()
	m.Emit(Op{Code: OP_PUSH, Val: NewInt(7)})
	m.Emit(Op{Code: OP_OR, Pos: testPos(), Target: 3})
	m.Emit(Op{Code: OP_PUSH, Val: NewInt(42)})
	m.Emit(Op{Code: OP_STOP})

	if err := m.Eval(0); err != nil {
		t.Fatalf("Eval error: %v", err)
	}
	task := m.Current()
	if len(task.Stack) != 1 || task.Stack[0].Int() != 7 {
		t.Errorf("stack = %v, want [7]", task.Stack)
	}
}

func TestOrDropsFalsy(t *testing.T) {
	m := New()
	m.Emit(Op{Code: OP_PUSH, Val: NewInt(0)})
	m.Emit(Op{Code: OP_OR, Pos: testPos(), Target: 3})
	m.Emit(Op{Code: OP_PUSH, Val: NewInt(42)})
	m.Emit(Op{Code: OP_STOP})

	if err := m.Eval(0); err != nil {
		t.Fatalf("Eval error: %v", err)
	}
	task := m.Current()
	if len(task.Stack) != 1 || task.Stack[0].Int() != 42 {
		t.Errorf("stack = %v, want [42]", task.Stack)
	}
}

func TestCallPopCallStackDiscipline(t *testing.T) {
	// id(x) = x: the call pushes one argument and leaves one result;
	// after popCall the stack is back to its pre-argument length plus
	// the return value.
	m := New()
	skipPc := m.Emit(Op{Code: OP_NOP})
	f := NewBytecodeFunction("id", []string{"x"}, m.EmitPc())
	m.Emit(Op{Code: OP_ARGUMENT, Target: 0})
	m.Emit(Op{Code: OP_POP_CALL, Fn: f})
	m.Patch(skipPc, Op{Code: OP_GOTO, Target: m.EmitPc()})

	m.Emit(Op{Code: OP_PUSH, Val: NewInt(9)})
	m.Emit(Op{Code: OP_CALL, Pos: testPos(), Fn: f})
	m.Emit(Op{Code: OP_STOP})

	if err := m.Eval(0); err != nil {
		t.Fatalf("Eval error: %v", err)
	}

	task := m.Current()
	if len(task.Stack) != 1 || task.Stack[0].Int() != 9 {
		t.Errorf("stack = %v, want [9]", task.Stack)
	}
	if task.Depth() != 0 {
		t.Errorf("call depth = %d, want 0", task.Depth())
	}
}

func TestCallArityMissingValue(t *testing.T) {
	m := New()
	f := NewBytecodeFunction("two", []string{"a", "b"}, 0)
	m.Emit(Op{Code: OP_PUSH, Val: NewInt(1)})
	m.Emit(Op{Code: OP_CALL, Pos: testPos(), Fn: f})
	m.Emit(Op{Code: OP_STOP})

	err := m.Eval(0)
	if _, ok := err.(*MissingValueError); !ok {
		t.Fatalf("error = %v, want *MissingValueError", err)
	}
}

func TestTailCallWithoutFrameDegradesToCall(t *testing.T) {
	m := New()
	skipPc := m.Emit(Op{Code: OP_NOP})
	f := NewBytecodeFunction("id", []string{"x"}, m.EmitPc())
	m.Emit(Op{Code: OP_ARGUMENT, Target: 0})
	m.Emit(Op{Code: OP_POP_CALL, Fn: f})
	m.Patch(skipPc, Op{Code: OP_GOTO, Target: m.EmitPc()})

	m.Emit(Op{Code: OP_PUSH, Val: NewInt(3)})
	m.Emit(Op{Code: OP_TAIL_CALL, Pos: testPos(), Fn: f})
	m.Emit(Op{Code: OP_STOP})

	if err := m.Eval(0); err != nil {
		t.Fatalf("Eval error: %v", err)
	}

	task := m.Current()
	if len(task.Stack) != 1 || task.Stack[0].Int() != 3 {
		t.Errorf("stack = %v, want [3]", task.Stack)
	}
}

func TestEmitWithTraceFlag(t *testing.T) {
	m := New()
	m.Trace = true
	pc := m.Emit(Op{Code: OP_PUSH, Val: NewInt(1)})

	if len(m.Code) != 2 {
		t.Fatalf("code length = %d, want 2", len(m.Code))
	}
	if m.Code[0].Code != OP_TRACE {
		t.Errorf("code[0] = %s, want TRACE", m.Code[0].Code)
	}
	if pc != 1 || m.Code[1].Code != OP_PUSH {
		t.Errorf("Emit returned pc %d (%s), want 1 (PUSH)", pc, m.Code[pc].Code)
	}
}

func TestValueEqual(t *testing.T) {
	if !NewInt(5).Equal(NewInt(5)) {
		t.Error("NewInt(5) != NewInt(5)")
	}
	if NewInt(5).Equal(NewInt(6)) {
		t.Error("NewInt(5) == NewInt(6)")
	}
	if NewInt(1).Equal(NewBool(true)) {
		t.Error("Int 1 == Bool true")
	}
}

func TestValueTruthy(t *testing.T) {
	tests := []struct {
		val  Value
		want bool
	}{
		{NewInt(0), false},
		{NewInt(-3), true},
		{NewBool(false), false},
		{NewBool(true), true},
		{NewStr(""), true},
		{NewTime(0), false},
		{NewTime(1), true},
		{NewMeta(IntType), true},
	}

	for _, tt := range tests {
		if got := tt.val.Truthy(); got != tt.want {
			t.Errorf("Truthy(%s) = %v, want %v", tt.val, got, tt.want)
		}
	}
}
