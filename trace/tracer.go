package trace

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Tracer provides execution tracing for debugging
type Tracer struct {
	enabled bool
	writer  io.Writer
	mu      sync.Mutex
}

// Global tracer instance
var globalTracer *Tracer

// Init initializes the global tracer
func Init(enabled bool, writer io.Writer) {
	if writer == nil {
		writer = os.Stderr
	}
	globalTracer = &Tracer{
		enabled: enabled,
		writer:  writer,
	}
}

// IsEnabled returns whether tracing is enabled
func IsEnabled() bool {
	if globalTracer == nil {
		return false
	}
	return globalTracer.enabled
}

// Instruction logs the instruction about to execute. Instruction
// events bypass the enabled gate: the trace opcodes that produce them
// only exist because tracing was requested in-language.
func (t *Tracer) Instruction(task, pc int, op string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.writer, "[TRACE] task=%d pc=%-4d %s\n", task, pc, op)
}

// TaskSwitch logs a yield rotation
func (t *Tracer) TaskSwitch(from, to int) {
	if !t.enabled {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.writer, "[TRACE] SWITCH task=%d -> task=%d\n", from, to)
}

// Global convenience functions

// Instruction logs an instruction using the global tracer
func Instruction(task, pc int, op string) {
	if globalTracer != nil {
		globalTracer.Instruction(task, pc, op)
	}
}

// TaskSwitch logs a yield rotation using the global tracer
func TaskSwitch(from, to int) {
	if globalTracer != nil {
		globalTracer.TaskSwitch(from, to)
	}
}
