package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/urfave/cli.v1"

	"sexpr/parser"
	"sexpr/repl"
	"sexpr/trace"
	"sexpr/vm"
)

func main() {
	app := cli.NewApp()
	app.Name = "sexpr"
	app.Usage = "s-expression bytecode interpreter"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "trace",
			Usage: "interleave trace opcodes and log task switches",
		},
	}
	app.Before = func(c *cli.Context) error {
		trace.Init(c.GlobalBool("trace"), os.Stderr)
		return nil
	}
	app.Action = runREPL
	app.Commands = []cli.Command{
		{
			Name:      "run",
			Usage:     "execute a source file",
			ArgsUsage: "<file>",
			Action:    runFile,
		},
		{
			Name:      "eval",
			Usage:     "evaluate an expression",
			ArgsUsage: "<expr>",
			Action:    evalExpr,
		},
		{
			Name:      "dis",
			Usage:     "disassemble a source file",
			ArgsUsage: "<file>",
			Action:    disFile,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runREPL(c *cli.Context) error {
	r := repl.New(os.Stdout)
	r.VM.Trace = c.GlobalBool("trace")
	return r.Run()
}

// compile reads and emits a whole source text, returning the VM and
// the entry pc. A trailing stop is always appended.
func compile(c *cli.Context, source, input string) (*vm.VM, int, error) {
	forms, err := parser.NewReader(source, input).ReadAll()
	if err != nil {
		return nil, 0, err
	}

	m := vm.New()
	m.Trace = c.GlobalBool("trace")
	ns := vm.StdNamespace()

	fromPc := m.EmitPc()
	if err := m.EmitForms(vm.NewFormQueue(forms), ns, 0); err != nil {
		return nil, 0, err
	}
	m.Emit(vm.Op{Code: vm.OP_STOP})
	return m, fromPc, nil
}

func compileFile(c *cli.Context) (*vm.VM, int, error) {
	if c.NArg() != 1 {
		return nil, 0, fmt.Errorf("expected exactly one file argument")
	}
	path := c.Args().First()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	return compile(c, path, string(data))
}

func runFile(c *cli.Context) error {
	m, fromPc, err := compileFile(c)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	if err := m.Eval(fromPc); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	if task := m.Current(); len(task.Stack) > 0 {
		fmt.Println(task.Stack[len(task.Stack)-1])
	}
	return nil
}

func evalExpr(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.NewExitError("expected an expression", 1)
	}
	m, fromPc, err := compile(c, "eval", strings.Join(c.Args(), " "))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	if err := m.Eval(fromPc); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	task := m.Current()
	if len(task.Stack) == 0 {
		fmt.Println("_")
		return nil
	}
	fmt.Println(task.Stack[len(task.Stack)-1])
	return nil
}

func disFile(c *cli.Context) error {
	m, _, err := compileFile(c)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"PC", "OP", "OPERAND"})
	for pc, op := range m.Code {
		table.Append([]string{strconv.Itoa(pc), op.Code.String(), op.Operand()})
	}
	table.Render()
	return nil
}
