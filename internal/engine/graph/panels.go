package graph

import (
	"strings"

	"archmap/internal/core/config"
	"archmap/internal/engine/parser"
	"archmap/internal/shared/util"
)

// Panel classification: nodes that look like plumbing (utilities, config,
// type definitions, support scripts) move into virtual panel groups so the
// main canvas stays focused on the domain.

var utilPathNames = map[string]bool{
	"utils": true, "utilities": true, "helpers": true, "common": true,
	"shared": true, "lib": true, "tools": true,
}

var configPathNames = map[string]bool{
	"config": true, "configs": true, "configuration": true, "settings": true,
}

var dataPathNames = map[string]bool{
	"data": true, "fixtures": true, "static": true, "assets": true,
	"templates": true, "resources": true, "schemas": true,
}

var supportPathNames = map[string]bool{
	"archive": true, "archived": true, "deprecated": true, "old": true,
	"backup": true, "legacy": true, "obsolete": true, "backlog": true,
	"examples": true, "samples": true, "demos": true, "example": true,
	"visualizations": true, "visualization": true, "plots": true,
	"charts": true, "dashboards": true, "post_processing": true,
	"preprocessing": true, "migrations": true, "benchmarks": true,
	"perf": true, "performance": true, "analysis": true,
}

var utilFileStems = map[string]bool{
	"utils": true, "util": true, "helpers": true, "helper": true,
	"common": true, "shared": true, "tools": true, "misc": true,
	"base": true, "exceptions": true,
}

var configFileStems = map[string]bool{
	"config": true, "settings": true, "constants": true, "defaults": true,
	"conf": true,
}

var dataFileStems = map[string]bool{
	"types": true, "schemas": true, "schema": true, "enums": true,
}

var panelCategories = []string{"utility", "config", "data", "support"}

var panelVirtualGroups = map[string]Group{
	"utility": {ID: "_panel_utility", Label: "Utilities", Panel: true},
	"config":  {ID: "_panel_config", Label: "Configuration", Panel: true},
	"data":    {ID: "_panel_data", Label: "Data & Types", Panel: true},
	"support": {ID: "_panel_support", Label: "Scripts & Support", Panel: true},
}

type classifiedNode struct {
	nodeID   string
	category string
}

func classifyPanelNodes(nodes []Node, edges []Edge, analyses map[string]*parser.FileAnalysis, groups *[]Group) {
	panelGroupIDs := make(map[string]bool)
	for _, g := range *groups {
		if g.Panel {
			panelGroupIDs[g.ID] = true
		}
	}

	ca := make(map[string]int)
	ce := make(map[string]int)
	for _, e := range edges {
		ce[e.From]++
		ca[e.To]++
	}

	caVals := sortedCaValues(nodes, ca)
	medianCa := 0
	if len(caVals) > 0 {
		medianCa = caVals[len(caVals)/2]
	}

	var classified []classifiedNode

	for i := range nodes {
		node := &nodes[i]
		if panelGroupIDs[node.Group] || node.FilePath == "" {
			continue
		}
		stem := strings.ToLower(util.Stem(node.FilePath))
		if strings.HasPrefix(stem, "__") {
			continue
		}

		scores := map[string]int{"utility": 0, "config": 0, "data": 0, "support": 0}

		parts := strings.Split(node.FilePath, "/")
		for _, part := range parts[:len(parts)-1] {
			pl := strings.ToLower(part)
			switch {
			case utilPathNames[pl]:
				scores["utility"] += 3
			case configPathNames[pl]:
				scores["config"] += 3
			case dataPathNames[pl]:
				scores["data"] += 3
			case supportPathNames[pl]:
				scores["support"] += 3
			}
		}

		switch {
		case utilFileStems[stem]:
			scores["utility"] += 3
		case configFileStems[stem]:
			scores["config"] += 3
		case dataFileStems[stem]:
			scores["data"] += 3
		}

		// High afferent plus low efferent coupling smells like a utility.
		threshold := medianCa * 2
		if threshold < 3 {
			threshold = 3
		}
		if ca[node.ID] >= threshold && ce[node.ID] <= 1 {
			scores["utility"] += 2
		}

		if analysis := analyses[node.FilePath]; analysis != nil {
			nc := analysis.ModuleConstants
			nf := len(analysis.Functions)
			ncls := len(analysis.Classes)
			ndt := analysis.TypeDefCount
			total := nc + nf + ncls
			if total > 0 {
				if float64(nc)/float64(total) > 0.6 && ncls == 0 {
					scores["config"] += 2
				}
				if ndt > 0 && ncls == ndt && nf <= 1 {
					scores["data"]++
					scores["config"]++
				}
				if nf > 0 && ncls == 0 {
					maxLoc := 0
					for _, fn := range analysis.Functions {
						if fn.Loc > maxLoc {
							maxLoc = fn.Loc
						}
					}
					if maxLoc <= 15 {
						scores["utility"]++
					}
				}
			}
		}

		best := ""
		bestScore := -1
		for _, cat := range panelCategories {
			if scores[cat] > bestScore {
				best = cat
				bestScore = scores[cat]
			}
		}
		if bestScore >= 3 {
			classified = append(classified, classifiedNode{nodeID: node.ID, category: best})
		}
	}

	if len(classified) == 0 {
		return
	}

	colorIdx := len(*groups)
	for _, cat := range panelCategories {
		ids := make(map[string]bool)
		for _, c := range classified {
			if c.category == cat {
				ids[c.nodeID] = true
			}
		}
		if len(ids) == 0 {
			continue
		}
		vg := panelVirtualGroups[cat]
		vg.Color = config.GroupPalette[colorIdx%len(config.GroupPalette)]
		*groups = append(*groups, vg)
		colorIdx++
		for i := range nodes {
			if ids[nodes[i].ID] {
				nodes[i].Group = vg.ID
			}
		}
	}
}
