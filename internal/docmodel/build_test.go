package docmodel

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func sampleRaw() []RawModule {
	return []RawModule{
		{
			Name: "aiken/option",
			Docs: "Working with optional values.",
			Types: []RawType{
				{
					Name:       "Option",
					Docs:       "A value that may be absent.",
					Definition: "pub type Option<a> {\n  Some(a)\n  None\n}",
					Constructors: []RawConstructor{
						{Name: "Some", Definition: "Some(a)", Docs: "A present value.",
							Arguments: []RawArgument{{Label: "value", Docs: "The wrapped value."}}},
						{Name: "None", Definition: "None", Docs: "Absence of a value."},
					},
				},
			},
			Constants: []RawConstant{
				{Name: "default_depth", Docs: "", Definition: "pub const default_depth = 4"},
			},
			Functions: []RawFunction{
				{Name: "map", Docs: "Apply a function to the wrapped value.", Signature: "pub fn map(self: Option<a>, with: fn(a) -> b) -> Option<b>"},
				{Name: "unwrap", Docs: "", Signature: "pub fn unwrap(self: Option<a>, default: a) -> a"},
			},
		},
	}
}

func TestBuild_PreservesOrder(t *testing.T) {
	t.Parallel()

	modules, err := Build(sampleRaw())
	if err != nil {
		t.Fatal(err)
	}
	if len(modules) != 1 {
		t.Fatalf("expected 1 module, got %d", len(modules))
	}

	m := modules[0]
	if m.Name != "aiken/option" {
		t.Errorf("module name: got %q", m.Name)
	}
	if got := []string{m.Functions[0].Name, m.Functions[1].Name}; !reflect.DeepEqual(got, []string{"map", "unwrap"}) {
		t.Errorf("function order not preserved: %v", got)
	}
	ctors := m.Types[0].Constructors
	if len(ctors) != 2 || ctors[0].Name != "Some" || ctors[1].Name != "None" {
		t.Errorf("constructor order not preserved: %+v", ctors)
	}
	if ctors[0].Arguments[0].Label != "value" {
		t.Errorf("constructor argument missing: %+v", ctors[0].Arguments)
	}
}

func TestBuild_EmptyDocsAreEmptyStrings(t *testing.T) {
	t.Parallel()

	modules, err := Build(sampleRaw())
	if err != nil {
		t.Fatal(err)
	}
	if docs := modules[0].Constants[0].Docs; docs != "" {
		t.Errorf("expected empty docs sentinel, got %q", docs)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	t.Parallel()

	a, err := Build(sampleRaw())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build(sampleRaw())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("two builds from identical input differ")
	}
}

func TestBuild_MissingNames(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  []RawModule
	}{
		{"module", []RawModule{{Name: ""}}},
		{"type", []RawModule{{Name: "m", Types: []RawType{{Name: ""}}}}},
		{"function", []RawModule{{Name: "m", Functions: []RawFunction{{Name: ""}}}}},
		{"constant", []RawModule{{Name: "m", Constants: []RawConstant{{Name: ""}}}}},
		{"constructor", []RawModule{{Name: "m", Types: []RawType{{Name: "T", Constructors: []RawConstructor{{Name: ""}}}}}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			modules, err := Build(tc.raw)
			if !errors.Is(err, ErrMalformedMetadata) {
				t.Fatalf("expected ErrMalformedMetadata, got %v", err)
			}
			if modules != nil {
				t.Error("expected no partial model on failure")
			}
		})
	}
}

func TestBuild_FunctionNameCollision(t *testing.T) {
	t.Parallel()

	raw := []RawModule{{
		Name: "aiken/list",
		Functions: []RawFunction{
			{Name: "push", Signature: "pub fn push(self, a)"},
			{Name: "push", Signature: "pub fn push(self, a, b)"},
		},
	}}

	modules, err := Build(raw)
	if modules != nil {
		t.Error("expected no modules on collision")
	}
	var ce *CollisionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CollisionError, got %v", err)
	}
	if ce.Module != "aiken/list" || ce.Kind != "function" || ce.Name != "push" {
		t.Errorf("collision path wrong: %+v", ce)
	}
}

func TestBuild_ConstructorCollisionNamesOwner(t *testing.T) {
	t.Parallel()

	raw := []RawModule{{
		Name: "m",
		Types: []RawType{{
			Name: "Shape",
			Constructors: []RawConstructor{
				{Name: "Circle"}, {Name: "Circle"},
			},
		}},
	}}

	_, err := Build(raw)
	var ce *CollisionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CollisionError, got %v", err)
	}
	if ce.Owner != "Shape" {
		t.Errorf("expected owner type in collision path, got %+v", ce)
	}
}

func TestBuild_SameNameDifferentKindIsAllowed(t *testing.T) {
	t.Parallel()

	raw := []RawModule{{
		Name:      "m",
		Types:     []RawType{{Name: "Value"}},
		Functions: []RawFunction{{Name: "Value"}},
	}}

	if _, err := Build(raw); err != nil {
		t.Fatalf("names are only unique per kind: %v", err)
	}
}

func TestLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "docs.json")
	data := `[{"name":"aiken/math","docs":"Math helpers.","functions":[{"name":"abs","docs":"Absolute value.","signature":"pub fn abs(x: Int) -> Int"}]}]`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	modules, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(modules) != 1 || modules[0].Functions[0].Name != "abs" {
		t.Errorf("unexpected model: %+v", modules)
	}
}

func TestLoad_BadJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "docs.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); !errors.Is(err, ErrMalformedMetadata) {
		t.Fatalf("expected ErrMalformedMetadata, got %v", err)
	}
}
