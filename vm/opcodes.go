package vm

import (
	"fmt"

	"sexpr/parser"
)

// OpCode represents a bytecode instruction
type OpCode byte

const (
	OP_ARGUMENT  OpCode = iota // Push stack[frame.StackOffset + target]
	OP_BENCHMARK               // Pop count; re-enter eval that many times, push Time
	OP_BRANCH                  // Pop; jump to target if falsy, else fall through
	OP_CALL                    // Invoke function
	OP_GOTO                    // Unconditional jump to target
	OP_NOP                     // Advance pc; reserved slot for backpatching
	OP_OR                      // Peek; keep and jump to target if truthy, else pop
	OP_POP_CALL                // Pop frame, drop argument slots, jump to return pc
	OP_PUSH                    // Push constant value
	OP_STOP                    // Leave the eval loop
	OP_TAIL_CALL               // Invoke function, reusing the current frame
	OP_TASK                    // Fork a task at pc+1; current task jumps to target
	OP_TRACE                   // Print the next instruction
)

// OpCodeNames maps opcodes to their string names for debugging
var OpCodeNames = map[OpCode]string{
	OP_ARGUMENT:  "ARGUMENT",
	OP_BENCHMARK: "BENCHMARK",
	OP_BRANCH:    "BRANCH",
	OP_CALL:      "CALL",
	OP_GOTO:      "GOTO",
	OP_NOP:       "NOP",
	OP_OR:        "OR",
	OP_POP_CALL:  "POP_CALL",
	OP_PUSH:      "PUSH",
	OP_STOP:      "STOP",
	OP_TAIL_CALL: "TAIL_CALL",
	OP_TASK:      "TASK",
	OP_TRACE:     "TRACE",
}

// String returns the name of an opcode
func (c OpCode) String() string {
	if name, ok := OpCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// Op is a single instruction. Code selects the variant; the payload
// fields in use depend on it. Target is a jump destination, or the
// parameter slot index for OP_ARGUMENT. Pos is recorded for opcodes
// that can fault at run time.
type Op struct {
	Code   OpCode
	Pos    parser.Position
	Val    Value     // OP_PUSH
	Fn     *Function // OP_CALL, OP_TAIL_CALL, OP_POP_CALL
	Target int       // OP_BRANCH, OP_GOTO, OP_OR, OP_TASK, OP_ARGUMENT
}

// Operand renders the payload for disassembly
func (op Op) Operand() string {
	switch op.Code {
	case OP_PUSH:
		return op.Val.String()
	case OP_CALL, OP_TAIL_CALL, OP_POP_CALL:
		return op.Fn.Name
	case OP_BRANCH, OP_GOTO, OP_OR, OP_TASK, OP_ARGUMENT:
		return fmt.Sprintf("%d", op.Target)
	default:
		return ""
	}
}

// String renders the instruction for tracing
func (op Op) String() string {
	operand := op.Operand()
	if operand == "" {
		return op.Code.String()
	}
	return fmt.Sprintf("%s %s", op.Code, operand)
}
