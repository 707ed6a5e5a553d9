package resolver

import (
	_ "embed"
	"strings"
)

//go:embed stdlib/modules.txt
var stdlibModulesRaw string

// StdlibModules returns the set of Python standard library top-level names.
func StdlibModules() map[string]bool {
	modules := make(map[string]bool)
	for _, line := range strings.Split(stdlibModulesRaw, "\n") {
		name := strings.TrimSpace(line)
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}
		modules[name] = true
	}
	return modules
}
