package parser

import (
	"testing"

	"archmap/internal/core/errors"
)

func mustParse(t *testing.T, source string) *FileAnalysis {
	t.Helper()
	analysis, err := NewParser().ParseFile("pkg/sample.py", []byte(source))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	return analysis
}

func TestParseFileRejectsBrokenSyntax(t *testing.T) {
	_, err := NewParser().ParseFile("bad.py", []byte("def broken(:\n"))
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !errors.IsCode(err, errors.CodeParseError) {
		t.Errorf("expected PARSE_ERROR, got %v", err)
	}
}

func TestExtractImports(t *testing.T) {
	analysis := mustParse(t, `
import os
import os.path as osp
from collections import OrderedDict, defaultdict
from ..core import engine
from . import helpers
`)
	if len(analysis.Imports) != 5 {
		t.Fatalf("got %d imports, want 5", len(analysis.Imports))
	}

	if imp := analysis.Imports[0]; imp.Module != "os" || imp.IsFrom || imp.Names[0] != "os" {
		t.Errorf("plain import mismatch: %+v", imp)
	}
	if imp := analysis.Imports[1]; imp.Module != "os.path" || imp.Names[0] != "osp" {
		t.Errorf("aliased import mismatch: %+v", imp)
	}
	if imp := analysis.Imports[2]; !imp.IsFrom || imp.Module != "collections" ||
		len(imp.Names) != 2 || imp.Names[0] != "OrderedDict" || imp.Names[1] != "defaultdict" {
		t.Errorf("from import mismatch: %+v", imp)
	}
	if imp := analysis.Imports[3]; imp.Level != 2 || imp.Module != "core" || imp.Names[0] != "engine" {
		t.Errorf("relative import mismatch: %+v", imp)
	}
	if imp := analysis.Imports[4]; imp.Level != 1 || imp.Module != "" || imp.Names[0] != "helpers" {
		t.Errorf("bare relative import mismatch: %+v", imp)
	}
}

func TestFromImportAliasKeepsOriginalName(t *testing.T) {
	analysis := mustParse(t, "from pkg import original as renamed\n")
	if len(analysis.Imports) != 1 {
		t.Fatalf("got %d imports", len(analysis.Imports))
	}
	imp := analysis.Imports[0]
	if len(imp.Names) != 1 || imp.Names[0] != "original" {
		t.Errorf("names = %v, want [original]", imp.Names)
	}
}

func TestComplexityCounting(t *testing.T) {
	analysis := mustParse(t, `
def score(x, items):
    if x and x > 1:
        return 1
    for i in items:
        assert i
    return 0
`)
	if len(analysis.Functions) != 1 {
		t.Fatalf("got %d functions", len(analysis.Functions))
	}
	// base 1 + if + boolean_operator + for + assert
	if got := analysis.Functions[0].Complexity; got != 5 {
		t.Errorf("Complexity = %d, want 5", got)
	}
}

func TestComplexityComprehensionAndElif(t *testing.T) {
	analysis := mustParse(t, `
def pick(x):
    if x == 1:
        pass
    elif x == 2:
        pass
    return [i for i in range(x)]
`)
	// base 1 + if + elif + for_in_clause
	if got := analysis.Functions[0].Complexity; got != 4 {
		t.Errorf("Complexity = %d, want 4", got)
	}
}

func TestParameterCounting(t *testing.T) {
	analysis := mustParse(t, `
class Svc:
    def handle(self, a, b=1, *args, **kwargs):
        pass

def free(a, b):
    pass
`)
	method := analysis.Classes[0].Methods[0]
	if method.ParamCount != 4 {
		t.Errorf("method ParamCount = %d, want 4", method.ParamCount)
	}
	if analysis.Functions[0].ParamCount != 2 {
		t.Errorf("function ParamCount = %d, want 2", analysis.Functions[0].ParamCount)
	}
}

func TestSignature(t *testing.T) {
	analysis := mustParse(t, "def run(a, b=1) -> int:\n    return a\n")
	want := "run(a, b=1) -> int"
	if got := analysis.Functions[0].Signature; got != want {
		t.Errorf("Signature = %q, want %q", got, want)
	}
}

func TestClassKinds(t *testing.T) {
	analysis := mustParse(t, `
from dataclasses import dataclass
from abc import ABC

@dataclass
class Point:
    x = 0
    y = 0

class Base(ABC):
    def run(self):
        pass

@dataclass
class Hybrid(ABC):
    pass

class Plain:
    pass
`)
	if len(analysis.Classes) != 4 {
		t.Fatalf("got %d classes", len(analysis.Classes))
	}
	kinds := map[string]string{}
	for _, cls := range analysis.Classes {
		kinds[cls.Name] = cls.Kind
	}
	if kinds["Point"] != ClassKindDataclass {
		t.Errorf("Point kind = %q", kinds["Point"])
	}
	if kinds["Base"] != ClassKindAbstract {
		t.Errorf("Base kind = %q", kinds["Base"])
	}
	if kinds["Hybrid"] != ClassKindAbstract {
		t.Errorf("abstract base should win over dataclass, got %q", kinds["Hybrid"])
	}
	if kinds["Plain"] != ClassKindPlain {
		t.Errorf("Plain kind = %q", kinds["Plain"])
	}
}

func TestClassFields(t *testing.T) {
	analysis := mustParse(t, `
class Cfg:
    host = "localhost"
    port = 8080

    def ignore(self):
        local = 1
`)
	cls := analysis.Classes[0]
	if len(cls.Fields) != 2 || cls.Fields[0] != "host" || cls.Fields[1] != "port" {
		t.Errorf("Fields = %v", cls.Fields)
	}
}

func TestLackOfCohesion(t *testing.T) {
	analysis := mustParse(t, `
class Store:
    def __init__(self):
        self.a = 0
        self.b = 0

    def first(self):
        return self.a

    def second(self):
        return self.a + 1

    def third(self):
        return self.b
`)
	// pairs: (first,second) shared, (first,third) disjoint, (second,third) disjoint
	if got := analysis.Classes[0].Lcom; got != 0.67 {
		t.Errorf("Lcom = %v, want 0.67", got)
	}
}

func TestLackOfCohesionFewMethods(t *testing.T) {
	analysis := mustParse(t, `
class Tiny:
    def only(self):
        return self.x
`)
	if got := analysis.Classes[0].Lcom; got != 0.0 {
		t.Errorf("Lcom = %v, want 0 for fewer than two methods", got)
	}
}

func TestEntryPointDetection(t *testing.T) {
	analysis := mustParse(t, `
def main():
    pass

if __name__ == "__main__":
    main()
`)
	if !analysis.HasEntryPoint {
		t.Error("expected entry point")
	}

	analysis = mustParse(t, "if x == \"__main__\":\n    pass\n")
	if analysis.HasEntryPoint {
		t.Error("left side must be __name__")
	}
}

func TestModuleConstantsAndNestedDefsIgnored(t *testing.T) {
	analysis := mustParse(t, `
LIMIT = 10
NAME: str = "x"
LIMIT += 1

def outer():
    inner_var = 1
    def inner():
        pass

class Holder:
    def method(self):
        pass
`)
	if analysis.ModuleConstants != 3 {
		t.Errorf("ModuleConstants = %d, want 3", analysis.ModuleConstants)
	}
	if len(analysis.Functions) != 1 || analysis.Functions[0].Name != "outer" {
		t.Errorf("only top-level functions expected, got %+v", analysis.Functions)
	}
	if len(analysis.Classes) != 1 || len(analysis.Classes[0].Methods) != 1 {
		t.Errorf("class methods mismatch: %+v", analysis.Classes)
	}
}

func TestTypeDefCounting(t *testing.T) {
	analysis := mustParse(t, `
from typing import TypedDict, NamedTuple
from dataclasses import dataclass

class Row(TypedDict):
    pass

class Pair(NamedTuple):
    pass

@dataclass
class Rec:
    pass

class Other:
    pass
`)
	if analysis.TypeDefCount != 3 {
		t.Errorf("TypeDefCount = %d, want 3", analysis.TypeDefCount)
	}
}

func TestEmptyAnalysis(t *testing.T) {
	analysis := EmptyAnalysis("broken.py")
	if analysis.Path != "broken.py" || !analysis.Failed {
		t.Errorf("unexpected: %+v", analysis)
	}
	if len(analysis.Classes) != 0 || len(analysis.Imports) != 0 {
		t.Error("empty analysis must carry no structure")
	}
}
