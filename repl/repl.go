package repl

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	"sexpr/parser"
	"sexpr/vm"
)

const historyFile = ".sexpr_history"

var (
	resultColor = color.New(color.FgGreen)
	errorColor  = color.New(color.FgRed)
)

// REPL drives the read-emit-eval-print loop over a persistent VM and
// namespace. Lines accumulate until a blank line submits them.
type REPL struct {
	VM  *vm.VM
	Ns  *vm.Namespace
	out io.Writer
}

// New creates a REPL writing results to out
func New(out io.Writer) *REPL {
	return &REPL{
		VM:  vm.New(),
		Ns:  vm.StdNamespace(),
		out: out,
	}
}

// Submit evaluates one accumulated input chunk. It returns the
// rendering of the popped top-of-stack value, or "_" when the stack
// is empty. Code emitted before an error stays in the buffer; it is
// inert because evaluation always starts from an explicit pc.
func (r *REPL) Submit(input string) (string, error) {
	forms, err := parser.NewReader("repl", input).ReadAll()
	if err != nil {
		return "", err
	}

	fromPc := r.VM.EmitPc()
	if err := r.VM.EmitForms(vm.NewFormQueue(forms), r.Ns, 0); err != nil {
		return "", err
	}
	r.VM.Emit(vm.Op{Code: vm.OP_STOP})

	if err := r.VM.Eval(fromPc); err != nil {
		return "", err
	}

	task := r.VM.Current()
	if len(task.Stack) == 0 {
		return "_", nil
	}
	v, _ := task.Pop(parser.Position{Source: "repl"})
	return v.String(), nil
}

// Run reads from stdin until end of input. A terminal gets line
// editing and history; piped input is read plainly.
func (r *REPL) Run() error {
	if isatty.IsTerminal(os.Stdin.Fd()) {
		return r.runInteractive()
	}
	return r.runScript(os.Stdin)
}

func (r *REPL) runInteractive() error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	var buf []string
	for {
		prompt := "> "
		if len(buf) > 0 {
			prompt = "  "
		}

		input, err := line.Prompt(prompt)
		if err == liner.ErrPromptAborted {
			buf = nil
			continue
		}
		if err != nil {
			return nil
		}

		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
			buf = append(buf, input)
			continue
		}
		if len(buf) == 0 {
			continue
		}

		r.finish(strings.Join(buf, "\n"))
		buf = nil
	}
}

func (r *REPL) runScript(in io.Reader) error {
	scanner := bufio.NewScanner(in)

	var buf []string
	for scanner.Scan() {
		input := scanner.Text()
		if strings.TrimSpace(input) != "" {
			buf = append(buf, input)
			continue
		}
		if len(buf) == 0 {
			continue
		}
		r.finish(strings.Join(buf, "\n"))
		buf = nil
	}
	if len(buf) > 0 {
		r.finish(strings.Join(buf, "\n"))
	}
	return scanner.Err()
}

// finish submits a chunk and prints its result or diagnostic. Errors
// reset nothing beyond the input buffer: emitted code stays, tasks
// stay.
func (r *REPL) finish(input string) {
	result, err := r.Submit(input)
	if err != nil {
		errorColor.Fprintln(r.out, err)
		return
	}
	resultColor.Fprintln(r.out, result)
}
