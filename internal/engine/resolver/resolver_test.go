package resolver

import (
	"testing"

	"archmap/internal/engine/parser"
)

func TestStdlibModules(t *testing.T) {
	stdlib := StdlibModules()
	for _, name := range []string{"os", "sys", "json", "pathlib", "collections"} {
		if !stdlib[name] {
			t.Errorf("stdlib missing %q", name)
		}
	}
	if stdlib["requests"] {
		t.Error("requests is not stdlib")
	}
}

func TestResolveSkipsStdlib(t *testing.T) {
	r := New([]string{"os.py"}, []string{"os.py"})
	if _, ok := r.Resolve(parser.ImportRef{Module: "os.path"}); ok {
		t.Error("stdlib imports must not resolve")
	}
}

func TestResolveDirectPackage(t *testing.T) {
	scanned := []string{"app/__init__.py", "app/core.py", "single.py"}
	r := New(scanned, scanned)

	target, ok := r.Resolve(parser.ImportRef{Module: "app"})
	if !ok || target != "app/__init__.py" {
		t.Errorf("got %q ok=%v", target, ok)
	}

	target, ok = r.Resolve(parser.ImportRef{Module: "app.core"})
	if !ok || target != "app/core.py" {
		t.Errorf("got %q ok=%v", target, ok)
	}

	target, ok = r.Resolve(parser.ImportRef{Module: "single"})
	if !ok || target != "single.py" {
		t.Errorf("got %q ok=%v", target, ok)
	}
}

func TestResolveSuffixMatch(t *testing.T) {
	// import path does not match the on-disk layout, only a dotted suffix
	files := []string{"src/mypkg/analyzer.py"}
	r := New(files, files)

	target, ok := r.Resolve(parser.ImportRef{Module: "mypkg.analyzer"})
	if !ok || target != "src/mypkg/analyzer.py" {
		t.Errorf("got %q ok=%v", target, ok)
	}

	target, ok = r.Resolve(parser.ImportRef{Module: "analyzer"})
	if !ok || target != "src/mypkg/analyzer.py" {
		t.Errorf("bare suffix: got %q ok=%v", target, ok)
	}
}

func TestResolveSuffixFirstSeenWins(t *testing.T) {
	files := []string{"a/helpers.py", "b/helpers.py"}
	r := New(files, files)

	target, ok := r.Resolve(parser.ImportRef{Module: "helpers"})
	if !ok || target != "a/helpers.py" {
		t.Errorf("got %q ok=%v, want first-seen a/helpers.py", target, ok)
	}
}

func TestResolveFromImportName(t *testing.T) {
	files := []string{"src/pkg/engine.py"}
	r := New(files, files)

	imp := parser.ImportRef{Module: "pkg", Names: []string{"engine"}, IsFrom: true}
	target, ok := r.Resolve(imp)
	if !ok || target != "src/pkg/engine.py" {
		t.Errorf("got %q ok=%v", target, ok)
	}
}

func TestResolveUnknownThirdParty(t *testing.T) {
	r := New([]string{"main.py"}, []string{"main.py"})
	if _, ok := r.Resolve(parser.ImportRef{Module: "numpy"}); ok {
		t.Error("third-party imports must not resolve")
	}
}

func TestResolveRelativeUsesIndexOnly(t *testing.T) {
	// level > 0 skips direct resolution; the suffix index still applies
	files := []string{"pkg/core.py"}
	r := New(files, files)

	target, ok := r.Resolve(parser.ImportRef{Module: "core", Level: 1, IsFrom: true, Names: []string{"thing"}})
	if !ok || target != "pkg/core.py" {
		t.Errorf("got %q ok=%v", target, ok)
	}
}
