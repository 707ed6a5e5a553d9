// Package resolver maps import statements to project files. Imports into
// the standard library or third-party packages resolve to nothing and
// therefore produce no edges.
package resolver

import (
	"strings"

	"archmap/internal/engine/parser"
)

// Resolver resolves imports against the scanned file set. All paths are
// project-relative with forward slashes.
type Resolver struct {
	stdlib  map[string]bool
	scanned map[string]bool
	// moduleIndex maps every dotted suffix of a node-bearing file's module
	// path to that file, first entry wins. "src/app/engine.py" registers
	// "src.app.engine", "app.engine" and "engine".
	moduleIndex map[string]string
	nodeFiles   map[string]bool
}

// New builds a resolver. scanned is every discovered source file; nodeFiles
// is the subset that produced nodes, in node order. The suffix index is
// built over nodeFiles only, so unresolvable targets cannot steal matches
// from files that actually appear in the model.
func New(scanned []string, nodeFiles []string) *Resolver {
	r := &Resolver{
		stdlib:      StdlibModules(),
		scanned:     make(map[string]bool, len(scanned)),
		moduleIndex: make(map[string]string),
		nodeFiles:   make(map[string]bool, len(nodeFiles)),
	}
	for _, f := range scanned {
		r.scanned[f] = true
	}
	for _, f := range nodeFiles {
		r.nodeFiles[f] = true
		if !strings.HasSuffix(f, ".py") {
			continue
		}
		stem := strings.ReplaceAll(strings.TrimSuffix(f, ".py"), "/", ".")
		parts := strings.Split(stem, ".")
		for i := 0; i < len(parts); i++ {
			candidate := strings.Join(parts[i:], ".")
			if candidate != "" {
				if _, ok := r.moduleIndex[candidate]; !ok {
					r.moduleIndex[candidate] = f
				}
			}
		}
	}
	return r
}

// Resolve returns the project file an import points at, or ok=false when
// the import targets the stdlib, a third-party package, or nothing known.
func (r *Resolver) Resolve(imp parser.ImportRef) (string, bool) {
	if imp.Module != "" {
		top := strings.Split(imp.Module, ".")[0]
		if r.stdlib[top] {
			return "", false
		}
	}

	// Direct file resolution against the scanned tree.
	if imp.Level == 0 && imp.Module != "" {
		parts := strings.Split(imp.Module, ".")
		pkgPath := strings.Join(parts, "/") + "/__init__.py"
		if r.scanned[pkgPath] {
			return pkgPath, true
		}
		var modPath string
		if len(parts) > 1 {
			modPath = strings.Join(parts[:len(parts)-1], "/") + "/" + parts[len(parts)-1] + ".py"
		} else {
			modPath = parts[0] + ".py"
		}
		if r.scanned[modPath] {
			return modPath, true
		}
	}

	// Fuzzy suffix matching.
	if imp.Module != "" {
		if target, ok := r.moduleIndex[imp.Module]; ok {
			return target, true
		}
		initPath := strings.ReplaceAll(imp.Module, ".", "/") + "/__init__.py"
		if r.nodeFiles[initPath] {
			return initPath, true
		}
	}

	// A from-import name may itself be a module.
	if imp.IsFrom && len(imp.Names) > 0 {
		for _, name := range imp.Names {
			full := name
			if imp.Module != "" {
				full = imp.Module + "." + name
			}
			if target, ok := r.moduleIndex[full]; ok {
				return target, true
			}
		}
	}

	return "", false
}
