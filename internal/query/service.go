// Package query condenses a built model into a text summary: entry
// points, longest dependency chains, tier distribution, warnings, and a
// per-node import table.
package query

import (
	"fmt"
	"sort"
	"strings"

	"archmap/internal/engine/graph"
	"archmap/internal/engine/smells"
)

const (
	maxChainLength   = 5
	minChainLength   = 3
	maxEntriesListed = 10
	maxChainsListed  = 5
	maxWarningsShown = 15
)

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Summary renders the architecture overview as markdown text.
func (s *Service) Summary(projectName string, model *graph.Model, findings []smells.Finding, pyFileCount int) string {
	imports := make(map[string][]string)
	importedBy := make(map[string][]string)
	for _, e := range model.Edges {
		imports[e.From] = append(imports[e.From], e.To)
		importedBy[e.To] = append(importedBy[e.To], e.From)
	}

	entries := entryNodes(model, importedBy)
	chains := dependencyChains(entries, imports)

	var warnings []smells.Finding
	for _, f := range findings {
		if f.Severity == smells.SeverityWarning {
			warnings = append(warnings, f)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Architecture Summary: %s\n", projectName)
	fmt.Fprintf(&b, "**%d nodes, %d edges, %d groups, %d Python files**\n\n",
		len(model.Nodes), len(model.Edges), len(model.Groups), pyFileCount)

	if len(entries) > 0 {
		b.WriteString("## Entry Points\n")
		for i, n := range entries {
			if i >= maxEntriesListed {
				break
			}
			fmt.Fprintf(&b, "- **%s** [%s] `%s`\n", n.ID, n.Type, n.FilePath)
			if desc := truncate(n.Description, 80); desc != "" {
				fmt.Fprintf(&b, "  %s\n", desc)
			}
		}
		b.WriteString("\n")
	}

	if len(chains) > 0 {
		b.WriteString("## Key Dependency Chains\n")
		seen := make(map[string]bool)
		for i, c := range chains {
			if i >= maxChainsListed {
				break
			}
			key := strings.Join(c, " -> ")
			if seen[key] {
				continue
			}
			seen[key] = true
			fmt.Fprintf(&b, "- %s\n", key)
		}
		b.WriteString("\n")
	}

	tierCounts := make(map[int]int)
	for _, n := range model.Nodes {
		tierCounts[n.Tier]++
	}
	if len(tierCounts) > 0 {
		b.WriteString("## Tier Distribution\n")
		tiers := make([]int, 0, len(tierCounts))
		for t := range tierCounts {
			tiers = append(tiers, t)
		}
		sort.Ints(tiers)
		for _, t := range tiers {
			fmt.Fprintf(&b, "- Tier %d: %d nodes\n", t, tierCounts[t])
		}
		b.WriteString("\n")
	}

	if len(warnings) > 0 {
		fmt.Fprintf(&b, "## Architectural Warnings (%d)\n", len(warnings))
		for i, w := range warnings {
			if i >= maxWarningsShown {
				break
			}
			fmt.Fprintf(&b, "- %s (%s)\n", w.Title, w.Metric)
		}
		b.WriteString("\n")
	}

	b.WriteString("## All Nodes\n")
	for _, n := range model.Nodes {
		imp := joinOrNone(imports[n.ID])
		iby := joinOrNone(importedBy[n.ID])
		fmt.Fprintf(&b, "- **%s** [%s] `%s` tier=%d\n", n.ID, n.Type, n.FilePath, n.Tier)
		fmt.Fprintf(&b, "  imports: %s | imported_by: %s\n", imp, iby)
	}

	return b.String()
}

// entryNodes are the nodes nothing imports.
func entryNodes(model *graph.Model, importedBy map[string][]string) []graph.Node {
	var entries []graph.Node
	for _, n := range model.Nodes {
		if len(importedBy[n.ID]) == 0 {
			entries = append(entries, n)
		}
	}
	return entries
}

// dependencyChains finds, per entry node, the longest simple import path
// up to maxChainLength hops and keeps the ones worth showing, longest
// first.
func dependencyChains(entries []graph.Node, imports map[string][]string) [][]string {
	var chains [][]string
	for _, en := range entries {
		best := []string{en.ID}
		queue := [][]string{{en.ID}}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			if len(cur) > maxChainLength {
				continue
			}
			last := cur[len(cur)-1]
			nexts := imports[last]
			for _, nx := range nexts {
				if containsString(cur, nx) {
					continue
				}
				np := append(append([]string{}, cur...), nx)
				if len(np) > len(best) {
					best = np
				}
				if len(np) < maxChainLength {
					queue = append(queue, np)
				}
			}
			if len(nexts) == 0 && len(cur) > len(best) {
				best = cur
			}
		}
		if len(best) >= minChainLength {
			chains = append(chains, best)
		}
	}
	sort.SliceStable(chains, func(i, j int) bool {
		return len(chains[i]) > len(chains[j])
	})
	return chains
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func joinOrNone(list []string) string {
	if len(list) == 0 {
		return "none"
	}
	return strings.Join(list, ", ")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
