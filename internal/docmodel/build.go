package docmodel

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// Build validates raw module descriptors and produces the immutable Doc
// Model. It returns no modules at all on the first validation failure.
// Insertion order is preserved end-to-end: it determines page layout and
// search tie-breaking downstream.
func Build(raw []RawModule) ([]Module, error) {
	modules := make([]Module, 0, len(raw))
	seenModules := make(map[string]bool, len(raw))

	for _, rm := range raw {
		if rm.Name == "" {
			return nil, malformed("module with empty name")
		}
		if seenModules[rm.Name] {
			return nil, &CollisionError{Module: rm.Name, Kind: "module", Name: rm.Name}
		}
		seenModules[rm.Name] = true

		m, err := buildModule(rm)
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}

	slog.Debug("doc model built", "modules", len(modules))
	return modules, nil
}

func buildModule(rm RawModule) (Module, error) {
	m := Module{Name: rm.Name, Docs: rm.Docs}

	seenTypes := make(map[string]bool, len(rm.Types))
	for _, rt := range rm.Types {
		if rt.Name == "" {
			return Module{}, malformed("type with empty name in module %s", rm.Name)
		}
		if seenTypes[rt.Name] {
			return Module{}, &CollisionError{Module: rm.Name, Kind: "type", Name: rt.Name}
		}
		seenTypes[rt.Name] = true

		ti, err := buildType(rm.Name, rt)
		if err != nil {
			return Module{}, err
		}
		m.Types = append(m.Types, ti)
	}

	seenConstants := make(map[string]bool, len(rm.Constants))
	for _, rc := range rm.Constants {
		if rc.Name == "" {
			return Module{}, malformed("constant with empty name in module %s", rm.Name)
		}
		if seenConstants[rc.Name] {
			return Module{}, &CollisionError{Module: rm.Name, Kind: "constant", Name: rc.Name}
		}
		seenConstants[rc.Name] = true
		m.Constants = append(m.Constants, ConstantInfo(rc))
	}

	seenFunctions := make(map[string]bool, len(rm.Functions))
	for _, rf := range rm.Functions {
		if rf.Name == "" {
			return Module{}, malformed("function with empty name in module %s", rm.Name)
		}
		if seenFunctions[rf.Name] {
			return Module{}, &CollisionError{Module: rm.Name, Kind: "function", Name: rf.Name}
		}
		seenFunctions[rf.Name] = true
		m.Functions = append(m.Functions, FunctionInfo(rf))
	}

	return m, nil
}

func buildType(moduleName string, rt RawType) (TypeInfo, error) {
	ti := TypeInfo{Name: rt.Name, Docs: rt.Docs, Definition: rt.Definition}

	seen := make(map[string]bool, len(rt.Constructors))
	for _, rc := range rt.Constructors {
		if rc.Name == "" {
			return TypeInfo{}, malformed("constructor with empty name in %s.%s", moduleName, rt.Name)
		}
		if seen[rc.Name] {
			return TypeInfo{}, &CollisionError{Module: moduleName, Owner: rt.Name, Kind: "constructor", Name: rc.Name}
		}
		seen[rc.Name] = true

		c := Constructor{Name: rc.Name, Docs: rc.Docs, Definition: rc.Definition}
		for _, ra := range rc.Arguments {
			c.Arguments = append(c.Arguments, Argument(ra))
		}
		ti.Constructors = append(ti.Constructors, c)
	}

	return ti, nil
}

// Load reads a descriptor file (a JSON array of module descriptors) and
// builds the Doc Model from it.
func Load(path string) ([]Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading metadata file: %w", err)
	}

	var raw []RawModule
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrMalformedMetadata, path, err)
	}

	return Build(raw)
}
