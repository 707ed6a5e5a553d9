package graph

import (
	"fmt"
	"sort"
	"strings"

	"archmap/internal/core/config"
	"archmap/internal/engine/parser"
	"archmap/internal/engine/resolver"
	"archmap/internal/shared/util"
)

// Directory names whose top-level group is shown in the side panel rather
// than the main canvas.
var panelDirNames = map[string]bool{
	"config": true, "configs": true, "configuration": true, "settings": true,
	"data": true, "fixtures": true, "static": true, "assets": true,
	"templates": true, "resources": true,
	"archive": true, "archived": true, "deprecated": true, "old": true,
	"backup": true, "legacy": true, "obsolete": true,
	"examples": true, "samples": true, "demos": true,
	"utils": true, "utilities": true, "helpers": true, "common": true,
	"shared": true, "lib": true,
}

// Input is everything the builder needs: files in scan order, their
// analyses keyed by project-relative path, and the entry point files.
type Input struct {
	Files       []string
	Analyses    map[string]*parser.FileAnalysis
	EntryPoints map[string]bool
}

type Builder struct {
	cfg *config.Config
}

func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{cfg: cfg}
}

// Build assembles the architecture model. Nodes are capped before edges are
// derived, so edges never reference dropped nodes.
func (b *Builder) Build(in Input) *Model {
	groups := b.createGroups(in.Files)
	groupIDs := make(map[string]bool, len(groups))
	for _, g := range groups {
		groupIDs[g.ID] = true
	}

	nodes := b.createNodes(in, groupIDs)
	if len(nodes) > b.cfg.Limits.MaxNodes {
		nodes = nodes[:b.cfg.Limits.MaxNodes]
	}

	edges := b.createEdges(in, nodes)
	classifyPanelNodes(nodes, edges, in.Analyses, &groups)

	tiers := assignTiers(nodes, edges, in.EntryPoints)
	maxTier := 0
	for i := range nodes {
		nodes[i].Tier = tiers[nodes[i].ID]
		if nodes[i].Tier > maxTier {
			maxTier = nodes[i].Tier
		}
	}

	labels := make([]TierLabel, 0, maxTier+1)
	for i := 0; i <= maxTier; i++ {
		if i == 0 {
			labels = append(labels, TierLabel{Label: fmt.Sprintf("Tier %d -- Entry Points", i)})
		} else {
			labels = append(labels, TierLabel{Label: fmt.Sprintf("Tier %d", i)})
		}
	}

	return &Model{Nodes: nodes, Edges: edges, Groups: groups, Tiers: labels}
}

func (b *Builder) createGroups(files []string) []Group {
	topDirs := make(map[string]bool)
	hasRootFiles := false

	for _, f := range files {
		parts := strings.Split(f, "/")
		if len(parts) == 1 {
			hasRootFiles = true
		} else {
			topDirs[parts[0]] = true
		}
	}

	var groups []Group
	colorIdx := 0

	if hasRootFiles {
		groups = append(groups, Group{
			ID:    "_root",
			Label: "Root",
			Color: config.GroupPalette[colorIdx%len(config.GroupPalette)],
		})
		colorIdx++
	}

	for _, d := range util.SortedStringKeys(topDirs) {
		groups = append(groups, Group{
			ID:    d,
			Label: titleCase(strings.ReplaceAll(d, "_", " ")),
			Color: config.GroupPalette[colorIdx%len(config.GroupPalette)],
			Panel: panelDirNames[strings.ToLower(d)],
		})
		colorIdx++
	}

	return groups
}

func (b *Builder) createNodes(in Input, groupIDs map[string]bool) []Node {
	var nodes []Node
	taken := make(map[string]bool)

	uniqueID := func(id string) string {
		candidate := id
		suffix := 1
		for taken[candidate] {
			candidate = fmt.Sprintf("%s_%d", id, suffix)
			suffix++
		}
		taken[candidate] = true
		return candidate
	}

	for _, f := range in.Files {
		analysis := in.Analyses[f]
		if analysis == nil || analysis.Failed {
			continue
		}

		parts := strings.Split(f, "/")
		groupID := "_root"
		if len(parts) > 1 && groupIDs[parts[0]] {
			groupID = parts[0]
		}

		for _, cls := range analysis.Classes {
			methods := make([]Member, 0, len(cls.Methods))
			for _, m := range cls.Methods {
				methods = append(methods, Member{Name: m.Name, Sig: m.Signature})
			}
			nodes = append(nodes, Node{
				ID:          uniqueID(cls.Name),
				Label:       cls.Name,
				Type:        cls.Kind,
				Group:       groupID,
				FilePath:    f,
				Description: classDescription(cls),
				Methods:     methods,
				Fields:      cls.Fields,
			})
		}

		if len(analysis.Functions) > 0 && len(analysis.Classes) == 0 {
			stem := util.Stem(f)
			functions := make([]Member, 0, len(analysis.Functions))
			for _, fn := range analysis.Functions {
				functions = append(functions, Member{Name: fn.Name, Sig: fn.Signature})
			}
			nodeType := NodeTypeModule
			if in.EntryPoints[f] {
				nodeType = NodeTypeScript
			}
			nodes = append(nodes, Node{
				ID:          uniqueID(stem),
				Label:       stem,
				Type:        nodeType,
				Group:       groupID,
				FilePath:    f,
				Description: moduleDescription(stem, nodeType, analysis),
				Functions:   functions,
			})
		}
	}

	return nodes
}

func (b *Builder) createEdges(in Input, nodes []Node) []Edge {
	fileToNodeIDs := make(map[string][]string)
	var nodeFiles []string
	for _, n := range nodes {
		if n.FilePath == "" {
			continue
		}
		if _, ok := fileToNodeIDs[n.FilePath]; !ok {
			nodeFiles = append(nodeFiles, n.FilePath)
		}
		fileToNodeIDs[n.FilePath] = append(fileToNodeIDs[n.FilePath], n.ID)
	}

	res := resolver.New(in.Files, nodeFiles)

	var edges []Edge
	seen := make(map[[2]string]bool)
	edgeID := 0

	for _, sourceFile := range in.Files {
		sourceIDs := fileToNodeIDs[sourceFile]
		if len(sourceIDs) == 0 {
			continue
		}
		analysis := in.Analyses[sourceFile]
		if analysis == nil {
			continue
		}

		for _, imp := range analysis.Imports {
			targetFile, ok := res.Resolve(imp)
			if !ok {
				continue
			}
			for _, src := range sourceIDs {
				for _, tgt := range fileToNodeIDs[targetFile] {
					if src == tgt {
						continue
					}
					pair := [2]string{src, tgt}
					if seen[pair] {
						continue
					}
					seen[pair] = true
					edges = append(edges, Edge{
						ID:   fmt.Sprintf("e%d", edgeID),
						From: src,
						To:   tgt,
						Type: "dependency",
					})
					edgeID++
				}
			}
		}
	}

	return edges
}

func classDescription(cls parser.Class) string {
	if cls.Docstring != "" {
		return truncate(cls.Docstring, 120)
	}
	desc := fmt.Sprintf("Class with %d methods", len(cls.Methods))
	if len(cls.Bases) > 0 {
		desc += ", extends " + strings.Join(cls.Bases, ",")
	}
	return desc
}

func moduleDescription(stem, nodeType string, analysis *parser.FileAnalysis) string {
	// A top-level function sharing the file's stem lends its docstring.
	for _, fn := range analysis.Functions {
		if fn.Name == stem && fn.Docstring != "" {
			return truncate(fn.Docstring, 120)
		}
	}
	return titleCase(nodeType) + " " + stem
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// sortedCaValues returns afferent coupling counts per node in ascending
// order, for median computation during panel classification.
func sortedCaValues(nodes []Node, ca map[string]int) []int {
	vals := make([]int, 0, len(nodes))
	for _, n := range nodes {
		vals = append(vals, ca[n.ID])
	}
	sort.Ints(vals)
	return vals
}
