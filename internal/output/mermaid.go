package output

import (
	"fmt"
	"strings"
	"unicode"

	"archmap/internal/engine/graph"
	"archmap/internal/shared/util"
)

// Mermaid renders the model as a flowchart, one subgraph per group.
func Mermaid(model *graph.Model) string {
	var b strings.Builder
	b.WriteString("%%{init: {'flowchart': {'nodeSpacing': 60, 'rankSpacing': 90, 'curve': 'basis'}}}%%\n")
	b.WriteString("flowchart LR\n")

	names := make([]string, 0, len(model.Nodes))
	for _, n := range model.Nodes {
		names = append(names, n.ID)
	}
	ids := makeMermaidIDs(names)

	byGroup := make(map[string][]graph.Node)
	for _, n := range model.Nodes {
		byGroup[n.Group] = append(byGroup[n.Group], n)
	}

	styled := make([]graph.Group, 0, len(model.Groups))
	grouped := make(map[string]bool)
	for _, g := range model.Groups {
		members := byGroup[g.ID]
		if len(members) == 0 {
			continue
		}
		grouped[g.ID] = true
		styled = append(styled, g)
		fmt.Fprintf(&b, "  subgraph grp_%s[\"%s\"]\n", sanitizeMermaidID(g.ID), escapeMermaidLabel(g.Label))
		for _, n := range members {
			fmt.Fprintf(&b, "    %s[\"%s\"]\n", ids[n.ID], escapeMermaidLabel(n.Label))
		}
		b.WriteString("  end\n")
	}
	for _, n := range model.Nodes {
		if !grouped[n.Group] {
			fmt.Fprintf(&b, "  %s[\"%s\"]\n", ids[n.ID], escapeMermaidLabel(n.Label))
		}
	}

	if len(styled) > 0 {
		b.WriteString("\n")
	}
	for i, g := range styled {
		className := fmt.Sprintf("group%d", i)
		fmt.Fprintf(&b, "  classDef %s fill:%s,fill-opacity:0.2,stroke:%s;\n", className, g.Color, g.Color)
		members := make([]string, 0, len(byGroup[g.ID]))
		for _, n := range byGroup[g.ID] {
			members = append(members, ids[n.ID])
		}
		fmt.Fprintf(&b, "  class %s %s;\n", strings.Join(members, ","), className)
	}

	if len(model.Edges) > 0 {
		b.WriteString("\n")
	}
	for _, e := range model.Edges {
		from, okFrom := ids[e.From]
		to, okTo := ids[e.To]
		if !okFrom || !okTo {
			continue
		}
		fmt.Fprintf(&b, "  %s --> %s\n", from, to)
	}

	return b.String()
}

// WriteMermaid writes the diagram to path, creating parent directories.
func WriteMermaid(path string, model *graph.Model) error {
	return util.WriteStringWithDirs(path, Mermaid(model), 0o644)
}

func sanitizeMermaidID(name string) string {
	if name == "" {
		return "n"
	}
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	out := b.String()
	if out == "" {
		return "n"
	}
	if unicode.IsDigit(rune(out[0])) {
		return "n_" + out
	}
	return out
}

func makeMermaidIDs(names []string) map[string]string {
	ids := make(map[string]string, len(names))
	used := make(map[string]int, len(names))
	for _, name := range names {
		base := sanitizeMermaidID(name)
		idx := used[base]
		used[base] = idx + 1
		if idx == 0 {
			ids[name] = base
			continue
		}
		ids[name] = fmt.Sprintf("%s_%d", base, idx+1)
	}
	return ids
}

func escapeMermaidLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
