package parser

import "testing"

func TestReaderIntegers(t *testing.T) {
	tests := []struct {
		input string
		want  []int64
	}{
		{"42", []int64{42}},
		{"-5", []int64{-5}},
		{"0", []int64{0}},
		{"42 -17 0", []int64{42, -17, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			forms, err := NewReader("test", tt.input).ReadAll()
			if err != nil {
				t.Fatalf("ReadAll(%s) error: %v", tt.input, err)
			}
			if len(forms) != len(tt.want) {
				t.Fatalf("ReadAll(%s) = %d forms, want %d", tt.input, len(forms), len(tt.want))
			}
			for i, want := range tt.want {
				lit, ok := forms[i].(*IntLit)
				if !ok {
					t.Fatalf("form[%d] = %T, want *IntLit", i, forms[i])
				}
				if lit.Value != want {
					t.Errorf("form[%d] = %d, want %d", i, lit.Value, want)
				}
			}
		})
	}
}

func TestReaderIdentifiers(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"foo", "foo"},
		{"+", "+"},
		{"-", "-"},
		{"-foo", "-foo"},
		{"<", "<"},
		{"fib2", "fib2"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			forms, err := NewReader("test", tt.input).ReadAll()
			if err != nil {
				t.Fatalf("ReadAll(%s) error: %v", tt.input, err)
			}
			id, ok := forms[0].(*Identifier)
			if !ok {
				t.Fatalf("form = %T, want *Identifier", forms[0])
			}
			if id.Name != tt.want {
				t.Errorf("name = %s, want %s", id.Name, tt.want)
			}
		})
	}
}

func TestReaderStrings(t *testing.T) {
	forms, err := NewReader("test", `"hello world"`).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}
	lit, ok := forms[0].(*StrLit)
	if !ok {
		t.Fatalf("form = %T, want *StrLit", forms[0])
	}
	if lit.Value != "hello world" {
		t.Errorf("value = %q, want %q", lit.Value, "hello world")
	}
}

func TestReaderNoEscapes(t *testing.T) {
	// Backslash is an ordinary character; the string ends at the next quote.
	forms, err := NewReader("test", `"a\n"`).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}
	lit := forms[0].(*StrLit)
	if lit.Value != `a\n` {
		t.Errorf("value = %q, want %q", lit.Value, `a\n`)
	}
}

func TestReaderLists(t *testing.T) {
	forms, err := NewReader("test", "(+ 1 (- 2 3))").ReadAll()
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}
	if len(forms) != 1 {
		t.Fatalf("ReadAll = %d forms, want 1", len(forms))
	}
	list, ok := forms[0].(*List)
	if !ok {
		t.Fatalf("form = %T, want *List", forms[0])
	}
	if len(list.Items) != 3 {
		t.Fatalf("list has %d items, want 3", len(list.Items))
	}
	inner, ok := list.Items[2].(*List)
	if !ok {
		t.Fatalf("item[2] = %T, want *List", list.Items[2])
	}
	if got := inner.String(); got != "(- 2 3)" {
		t.Errorf("inner.String() = %s, want (- 2 3)", got)
	}
}

func TestReaderOpenList(t *testing.T) {
	_, err := NewReader("test", "(+ 1 2").ReadAll()
	readErr, ok := err.(*ReadError)
	if !ok {
		t.Fatalf("error = %v, want *ReadError", err)
	}
	if readErr.Code != OpenList {
		t.Errorf("code = %s, want OpenList", readErr.Code)
	}
	if readErr.Pos.Line != 1 || readErr.Pos.Column != 1 {
		t.Errorf("pos = %d:%d, want 1:1", readErr.Pos.Line, readErr.Pos.Column)
	}
}

func TestReaderOpenString(t *testing.T) {
	_, err := NewReader("test", `(x "abc`).ReadAll()
	readErr, ok := err.(*ReadError)
	if !ok {
		t.Fatalf("error = %v, want *ReadError", err)
	}
	if readErr.Code != OpenString {
		t.Errorf("code = %s, want OpenString", readErr.Code)
	}
	if readErr.Pos.Column != 4 {
		t.Errorf("column = %d, want 4", readErr.Pos.Column)
	}
}

func TestReaderPositions(t *testing.T) {
	forms, err := NewReader("test", "foo\n  bar").ReadAll()
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}
	if pos := forms[0].Position(); pos.Line != 1 || pos.Column != 1 {
		t.Errorf("foo pos = %d:%d, want 1:1", pos.Line, pos.Column)
	}
	if pos := forms[1].Position(); pos.Line != 2 || pos.Column != 3 {
		t.Errorf("bar pos = %d:%d, want 2:3", pos.Line, pos.Column)
	}
}
