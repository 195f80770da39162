package vm

import "time"

// Value couples a type descriptor with its payload. Values are
// immutable once constructed; all mutation happens by replacement on
// stacks and in namespaces.
type Value struct {
	T *Type

	// Payload fields; which one is live depends on T.
	i   int64 // Int value, Argument slot index
	b   bool
	s   string
	d   time.Duration
	fn  *Function
	mac *Macro
	tr  *Type
}

// NewInt creates an Int value
func NewInt(n int64) Value {
	return Value{T: IntType, i: n}
}

// NewBool creates a Bool value
func NewBool(b bool) Value {
	return Value{T: BoolType, b: b}
}

// NewStr creates a String value
func NewStr(s string) Value {
	return Value{T: StringType, s: s}
}

// NewTime creates a Time value holding a duration
func NewTime(d time.Duration) Value {
	return Value{T: TimeType, d: d}
}

// NewFunction wraps a function descriptor as a value
func NewFunction(f *Function) Value {
	return Value{T: FunctionType, fn: f}
}

// NewMacro wraps a macro descriptor as a value
func NewMacro(mac *Macro) Value {
	return Value{T: MacroType, mac: mac}
}

// NewMeta wraps a type descriptor as a first-class value
func NewMeta(t *Type) Value {
	return Value{T: MetaType, tr: t}
}

// NewArgument creates an argument-slot value bound to parameter index i
func NewArgument(i int) Value {
	return Value{T: ArgumentType, i: int64(i)}
}

// Int returns the integer payload
func (v Value) Int() int64 { return v.i }

// Bool returns the boolean payload
func (v Value) Bool() bool { return v.b }

// Str returns the string payload
func (v Value) Str() string { return v.s }

// Duration returns the time payload
func (v Value) Duration() time.Duration { return v.d }

// Fn returns the function payload
func (v Value) Fn() *Function { return v.fn }

// Macro returns the macro payload
func (v Value) Macro() *Macro { return v.mac }

// TypeRef returns the type-descriptor payload
func (v Value) TypeRef() *Type { return v.tr }

// ArgIndex returns the argument slot index payload
func (v Value) ArgIndex() int { return int(v.i) }

// Truthy reports the value's truth through its type
func (v Value) Truthy() bool {
	return v.T.Truthy(v)
}

// Equal reports same type and same payload; function, macro and type
// payloads compare by identity
func (v Value) Equal(other Value) bool {
	return v == other
}

// String renders the value through its type
func (v Value) String() string {
	return v.T.Repr(v)
}
