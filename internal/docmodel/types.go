package docmodel

// RawModule is one module descriptor as emitted by the external analyzer.
type RawModule struct {
	Name      string        `json:"name"`
	Docs      string        `json:"docs"`
	Types     []RawType     `json:"types"`
	Constants []RawConstant `json:"constants"`
	Functions []RawFunction `json:"functions"`
}

// RawType is a type declaration in a module descriptor.
type RawType struct {
	Name         string           `json:"name"`
	Docs         string           `json:"docs"`
	Definition   string           `json:"definition"`
	Constructors []RawConstructor `json:"constructors"`
}

// RawConstructor is one variant of a sum type.
type RawConstructor struct {
	Name       string        `json:"name"`
	Docs       string        `json:"docs"`
	Definition string        `json:"definition"`
	Arguments  []RawArgument `json:"arguments"`
}

// RawArgument is a labelled constructor argument.
type RawArgument struct {
	Label string `json:"label"`
	Docs  string `json:"docs"`
}

// RawConstant is a constant declaration in a module descriptor.
type RawConstant struct {
	Name       string `json:"name"`
	Docs       string `json:"docs"`
	Definition string `json:"definition"`
}

// RawFunction is a function declaration in a module descriptor.
type RawFunction struct {
	Name      string `json:"name"`
	Docs      string `json:"docs"`
	Signature string `json:"signature"`
}

// Module is a validated compilation unit. It owns all nested entities and is
// never mutated after Build returns it.
type Module struct {
	Name      string
	Docs      string
	Types     []TypeInfo
	Constants []ConstantInfo
	Functions []FunctionInfo
}

// TypeInfo is a documented type. Constructors is empty for non-sum types.
type TypeInfo struct {
	Name         string
	Docs         string
	Definition   string
	Constructors []Constructor
}

// Constructor is a documented variant of a sum type.
type Constructor struct {
	Name       string
	Docs       string
	Definition string
	Arguments  []Argument
}

// Argument is a labelled, possibly documented constructor argument.
type Argument struct {
	Label string
	Docs  string
}

// ConstantInfo is a documented constant.
type ConstantInfo struct {
	Name       string
	Docs       string
	Definition string
}

// FunctionInfo is a documented function.
type FunctionInfo struct {
	Name      string
	Docs      string
	Signature string
}
