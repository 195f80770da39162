package conformance

// TestSuite represents a complete YAML test file
type TestSuite struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Tests       []TestCase `yaml:"tests"`
}

// TestCase represents a single test within a suite
type TestCase struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Skip        string      `yaml:"skip,omitempty"`
	Program     string      `yaml:"program"`
	Expect      Expectation `yaml:"expect"`
}

// Expectation defines what result is expected from a program. Exactly
// one of Value, Type, Error or Empty should be set.
type Expectation struct {
	Value string `yaml:"value,omitempty"` // rendered top-of-stack
	Type  string `yaml:"type,omitempty"`  // type name of top-of-stack
	Error string `yaml:"error,omitempty"` // OpenList, OpenString, UnknownIdentifier, MissingArgument, MissingValue
	Empty bool   `yaml:"empty,omitempty"` // stack is empty after eval
}
