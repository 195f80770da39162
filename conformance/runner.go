package conformance

import (
	"fmt"

	"sexpr/parser"
	"sexpr/vm"
)

// Run executes a test case on a fresh VM and checks its expectation.
// A non-nil return is the failure description.
func Run(tc TestCase) error {
	m := vm.New()
	ns := vm.StdNamespace()

	forms, err := parser.NewReader("conformance", tc.Program).ReadAll()
	if err != nil {
		return check(tc, vm.Value{}, false, err)
	}

	fromPc := m.EmitPc()
	if err := m.EmitForms(vm.NewFormQueue(forms), ns, 0); err != nil {
		return check(tc, vm.Value{}, false, err)
	}
	m.Emit(vm.Op{Code: vm.OP_STOP})

	if err := m.Eval(fromPc); err != nil {
		return check(tc, vm.Value{}, false, err)
	}

	stack := m.Current().Stack
	if len(stack) == 0 {
		return check(tc, vm.Value{}, false, nil)
	}
	return check(tc, stack[len(stack)-1], true, nil)
}

// check compares an outcome against the case's expectation
func check(tc TestCase, top vm.Value, hasTop bool, err error) error {
	want := tc.Expect

	if want.Error != "" {
		if err == nil {
			return fmt.Errorf("expected %s error, got none", want.Error)
		}
		if got := classify(err); got != want.Error {
			return fmt.Errorf("expected %s error, got %s (%v)", want.Error, got, err)
		}
		return nil
	}

	if err != nil {
		return fmt.Errorf("unexpected error: %v", err)
	}

	if want.Empty {
		if hasTop {
			return fmt.Errorf("expected empty stack, got %s", top)
		}
		return nil
	}

	if !hasTop {
		return fmt.Errorf("expected a result, stack is empty")
	}
	if want.Type != "" && top.T.Name != want.Type {
		return fmt.Errorf("expected type %s, got %s (%s)", want.Type, top.T.Name, top)
	}
	if want.Value != "" && top.String() != want.Value {
		return fmt.Errorf("expected %s, got %s", want.Value, top)
	}
	return nil
}

// classify maps an error to its family name from the expectation schema
func classify(err error) string {
	switch e := err.(type) {
	case *parser.ReadError:
		return e.Code.String()
	case *vm.UnknownIdentifierError:
		return "UnknownIdentifier"
	case *vm.MissingArgumentError:
		return "MissingArgument"
	case *vm.MissingValueError:
		return "MissingValue"
	default:
		return "Unknown"
	}
}
