package extractor

import (
	"context"
	"testing"

	"github.com/ludo-technologies/gocoupling/domain"
)

func extractSource(t *testing.T, path, source string) *domain.Module {
	t.Helper()
	ex := New()
	module, err := ex.ExtractFile(context.Background(), path, []byte(source))
	if err != nil {
		t.Fatalf("ExtractFile(%s) failed: %v", path, err)
	}
	return module
}

func depsByType(module *domain.Module, depType domain.ItemDepType) []domain.ItemDependency {
	var out []domain.ItemDependency
	for _, d := range module.ItemDeps {
		if d.DepType == depType {
			out = append(out, d)
		}
	}
	return out
}

func TestExtractFile_EnumVariantPayloadEmitsTypeUsage(t *testing.T) {
	source := `
pub enum Event {
    Created(Payload),
    Renamed { old: Name, new: Name },
    Deleted,
}
`
	module := extractSource(t, "src/event.rs", source)

	if _, ok := module.Types["Event"]; !ok {
		t.Fatal("expected Event to be registered as a declared type")
	}

	usages := depsByType(module, domain.DepTypeUsage)
	targets := make(map[string]bool)
	for _, u := range usages {
		targets[u.Target] = true
	}
	if !targets["Payload"] {
		t.Errorf("expected a TypeUsage dependency on Payload from the tuple variant, got %+v", usages)
	}
	if !targets["Name"] {
		t.Errorf("expected a TypeUsage dependency on Name from the struct variant, got %+v", usages)
	}
}

func TestExtractFile_EnumUnitVariantsProduceNoPayloadDeps(t *testing.T) {
	source := `
pub enum Status {
    Active,
    Inactive,
}
`
	module := extractSource(t, "src/status.rs", source)
	if n := len(depsByType(module, domain.DepTypeUsage)); n != 0 {
		t.Fatalf("expected no TypeUsage dependencies for unit-only variants, got %d", n)
	}
}

func TestExtractFile_QualifiedCallRetainsModulePrefix(t *testing.T) {
	source := `
pub fn run() {
    b::do_something();
}
`
	module := extractSource(t, "src/a.rs", source)

	calls := depsByType(module, domain.DepFunctionCall)
	if len(calls) != 1 {
		t.Fatalf("expected one FunctionCall dependency, got %d: %+v", len(calls), calls)
	}
	if calls[0].Target != "b::do_something" {
		t.Fatalf("expected qualified call target 'b::do_something', got %q", calls[0].Target)
	}
}

func TestExtractFile_BareCallHasNoPrefixToKeep(t *testing.T) {
	source := `
pub fn run() {
    do_something();
}
`
	module := extractSource(t, "src/a.rs", source)

	calls := depsByType(module, domain.DepFunctionCall)
	if len(calls) != 1 {
		t.Fatalf("expected one FunctionCall dependency, got %d: %+v", len(calls), calls)
	}
	if calls[0].Target != "do_something" {
		t.Fatalf("expected bare call target 'do_something', got %q", calls[0].Target)
	}
}

func TestExtractFile_PascalCaseScopedCallIsStructConstruction(t *testing.T) {
	source := `
pub fn run() {
    b::Wrapper(x);
}
`
	module := extractSource(t, "src/a.rs", source)

	constructs := depsByType(module, domain.DepStructConstruction)
	if len(constructs) != 1 {
		t.Fatalf("expected one StructConstruction dependency, got %d: %+v", len(constructs), constructs)
	}
	if constructs[0].Target != "b::Wrapper" {
		t.Fatalf("expected qualified constructor target 'b::Wrapper', got %q", constructs[0].Target)
	}
}

func TestModuleNameFromPath(t *testing.T) {
	cases := []struct{ path, want string }{
		{"src/lib.rs", "crate"},
		{"src/auth/session.rs", "auth::session"},
		{"src/auth/mod.rs", "auth"},
	}
	for _, c := range cases {
		if got := moduleNameFromPath(c.path); got != c.want {
			t.Errorf("moduleNameFromPath(%q) = %q, want %q", c.path, got, c.want)
		}
	}
}
