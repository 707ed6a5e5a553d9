// Package smells derives design warnings from the architecture model:
// coupling pathologies from the edge set, size and complexity pathologies
// from the per-file analysis.
package smells

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"archmap/internal/core/config"
	"archmap/internal/engine/graph"
	"archmap/internal/engine/parser"
)

const (
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Finding is one detected smell.
type Finding struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Severity    string   `json:"severity"`
	Nodes       []string `json:"nodes"`
	Description string   `json:"description"`
	Fix         string   `json:"fix"`
	Metric      string   `json:"metric"`
}

// NodeMetrics carries the per-node numbers backing the findings. Fields
// beyond the coupling triple are filled only where the node kind provides
// them.
type NodeMetrics struct {
	Ca           int     `json:"ca"`
	Ce           int     `json:"ce"`
	Instability  float64 `json:"instability"`
	MaxCc        int     `json:"max_cc,omitempty"`
	MaxParams    int     `json:"max_params,omitempty"`
	MaxFnLoc     int     `json:"max_fn_loc,omitempty"`
	ClassLoc     int     `json:"class_loc,omitempty"`
	ClassMethods int     `json:"class_methods,omitempty"`
	Lcom         float64 `json:"lcom,omitempty"`
	TotalLoc     int     `json:"total_loc,omitempty"`
}

type Detector struct {
	t config.SmellsConfig
}

func NewDetector(thresholds config.SmellsConfig) *Detector {
	return &Detector{t: thresholds}
}

// Detect walks every node once, emitting findings in a fixed rule order,
// then appends a single cycle finding if any dependency cycle exists.
func (d *Detector) Detect(model *graph.Model, analyses map[string]*parser.FileAnalysis) ([]Finding, map[string]NodeMetrics) {
	nodeMap := make(map[string]*graph.Node, len(model.Nodes))
	for i := range model.Nodes {
		nodeMap[model.Nodes[i].ID] = &model.Nodes[i]
	}

	caSet := make(map[string]map[string]bool)
	ceSet := make(map[string]map[string]bool)
	sameGroup := make(map[string]int)
	crossGroup := make(map[string]int)

	for _, e := range model.Edges {
		src, ok := nodeMap[e.From]
		if !ok {
			continue
		}
		tgt, ok := nodeMap[e.To]
		if !ok {
			continue
		}
		addToSet(caSet, e.To, e.From)
		addToSet(ceSet, e.From, e.To)
		if src.Group == tgt.Group {
			sameGroup[e.From]++
		} else {
			crossGroup[e.From]++
		}
	}

	metrics := d.nodeMetrics(model, analyses, caSet, ceSet)
	cycleNodes := detectCycle(model)

	var findings []Finding
	smellID := 0
	emit := func(title, severity, nodeID, description, fix, metric string) {
		findings = append(findings, Finding{
			ID:          fmt.Sprintf("smell_%d", smellID),
			Title:       title,
			Severity:    severity,
			Nodes:       []string{nodeID},
			Description: description,
			Fix:         fix,
			Metric:      metric,
		})
		smellID++
	}

	t := d.t
	for i := range model.Nodes {
		n := &model.Nodes[i]
		nm := metrics[n.ID]
		members := len(n.Methods) + len(n.Functions)
		label := n.Label

		if members >= t.GodClassMembers && nm.Ce >= t.GodClassCoupling {
			emit("God Class: "+label, SeverityWarning, n.ID,
				fmt.Sprintf("%s has %d methods/functions and depends on %d other modules.", label, members, nm.Ce),
				"Split into smaller, focused classes.",
				fmt.Sprintf("Members=%d, Ce=%d", members, nm.Ce))
		}

		if nm.Ca >= t.HubCa && nm.Ce >= t.HubCe {
			emit("Hub/Bottleneck: "+label, SeverityWarning, n.ID,
				fmt.Sprintf("%s is heavily depended on (Ca=%d) and depends on many others (Ce=%d).", label, nm.Ca, nm.Ce),
				"Introduce interfaces or intermediary modules.",
				fmt.Sprintf("Ca=%d, Ce=%d", nm.Ca, nm.Ce))
		}

		if nm.Instability > t.UnstableInstability && nm.Ca >= t.UnstableCa {
			emit("Unstable Dependency: "+label, SeverityWarning, n.ID,
				fmt.Sprintf("%s has instability=%s but %d modules depend on it.", label, fmtFloat(nm.Instability), nm.Ca),
				"Stabilize the interface or invert the dependency.",
				fmt.Sprintf("Instability=%s, Ca=%d", fmtFloat(nm.Instability), nm.Ca))
		}

		if nm.Ca >= t.ShotgunCa {
			emit("Shotgun Surgery: "+label, SeverityInfo, n.ID,
				fmt.Sprintf("%s is depended on by %d modules.", label, nm.Ca),
				"Minimize public interface. Use adapter pattern.",
				fmt.Sprintf("Ca=%d", nm.Ca))
		}

		cge := crossGroup[n.ID]
		sge := sameGroup[n.ID]
		if cge > sge && cge >= t.FeatureEnvyCross {
			emit("Feature Envy: "+label, SeverityInfo, n.ID,
				fmt.Sprintf("%s has %d cross-group edges vs %d same-group.", label, cge, sge),
				"Consider moving this module closer to the group it interacts with most.",
				fmt.Sprintf("Cross=%d, Same=%d", cge, sge))
		}

		if nm.MaxCc >= t.HighComplexity {
			emit("High Complexity: "+label, SeverityWarning, n.ID,
				fmt.Sprintf("%s has a function with cyclomatic complexity %d.", label, nm.MaxCc),
				"Extract conditional branches into helper functions.",
				fmt.Sprintf("CC=%d", nm.MaxCc))
		}

		if nm.MaxFnLoc > t.LongMethodLoc {
			emit("Long Method: "+label, SeverityInfo, n.ID,
				fmt.Sprintf("%s has a function with %d lines.", label, nm.MaxFnLoc),
				"Break into smaller functions.",
				fmt.Sprintf("Max LOC=%d", nm.MaxFnLoc))
		}

		if nm.MaxParams > t.LongParamCount {
			emit("Long Parameter List: "+label, SeverityInfo, n.ID,
				fmt.Sprintf("%s has a function with %d parameters.", label, nm.MaxParams),
				"Group related parameters into a dataclass.",
				fmt.Sprintf("Params=%d", nm.MaxParams))
		}

		if nm.ClassLoc > t.LargeClassLoc || nm.ClassMethods > t.LargeClassMethods {
			emit("Large Class: "+label, SeverityInfo, n.ID,
				fmt.Sprintf("%s has %d methods and %d LOC.", label, nm.ClassMethods, nm.ClassLoc),
				"Extract cohesive groups of methods into separate classes.",
				fmt.Sprintf("Methods=%d, LOC=%d", nm.ClassMethods, nm.ClassLoc))
		}

		if nm.Lcom > t.LowCohesionLcom && members >= t.LowCohesionMinMembers {
			emit("Low Cohesion: "+label, SeverityInfo, n.ID,
				fmt.Sprintf("%s has LCOM=%s. Methods may not belong together.", label, fmtFloat(nm.Lcom)),
				"Split into focused classes where methods share instance state.",
				fmt.Sprintf("LCOM=%s", fmtFloat(nm.Lcom)))
		}
	}

	if len(cycleNodes) > 0 {
		cycleList := make([]string, 0, len(cycleNodes))
		for id := range cycleNodes {
			cycleList = append(cycleList, id)
		}
		sort.Strings(cycleList)
		labels := make([]string, 0, len(cycleList))
		for _, id := range cycleList {
			if n, ok := nodeMap[id]; ok {
				labels = append(labels, n.Label)
			}
		}
		findings = append(findings, Finding{
			ID:          fmt.Sprintf("smell_%d", smellID),
			Title:       "Dependency Cycle Detected",
			Severity:    SeverityWarning,
			Nodes:       cycleList,
			Description: fmt.Sprintf("Circular dependency involving: %s.", strings.Join(labels, ", ")),
			Fix:         "Break the cycle with dependency inversion.",
			Metric:      fmt.Sprintf("Nodes in cycle: %d", len(cycleList)),
		})
	}

	return findings, metrics
}

func (d *Detector) nodeMetrics(model *graph.Model, analyses map[string]*parser.FileAnalysis,
	caSet, ceSet map[string]map[string]bool) map[string]NodeMetrics {

	metrics := make(map[string]NodeMetrics, len(model.Nodes))

	for i := range model.Nodes {
		n := &model.Nodes[i]
		nm := NodeMetrics{
			Ca: len(caSet[n.ID]),
			Ce: len(ceSet[n.ID]),
		}
		if total := nm.Ca + nm.Ce; total > 0 {
			nm.Instability = math.Round(float64(nm.Ce)/float64(total)*100) / 100
		}

		analysis := analyses[n.FilePath]
		if n.FilePath == "" || !strings.HasSuffix(n.FilePath, ".py") || analysis == nil {
			metrics[n.ID] = nm
			continue
		}

		switch {
		case n.IsClassNode():
			for _, cls := range analysis.Classes {
				if cls.Name != n.Label && cls.Name != n.ID {
					continue
				}
				// method line counts feed the Large Class rule via class
				// totals, not the Long Method rule
				for _, m := range cls.Methods {
					if m.Complexity > nm.MaxCc {
						nm.MaxCc = m.Complexity
					}
					if m.ParamCount > nm.MaxParams {
						nm.MaxParams = m.ParamCount
					}
				}
				nm.ClassLoc = cls.Loc
				nm.ClassMethods = len(cls.Methods)
				nm.Lcom = cls.Lcom
				break
			}
		case n.Type == graph.NodeTypeScript || n.Type == graph.NodeTypeModule:
			for _, fn := range analysis.Functions {
				if fn.Complexity > nm.MaxCc {
					nm.MaxCc = fn.Complexity
				}
				if fn.Loc > nm.MaxFnLoc {
					nm.MaxFnLoc = fn.Loc
				}
				if fn.ParamCount > nm.MaxParams {
					nm.MaxParams = fn.ParamCount
				}
			}
			nm.TotalLoc = analysis.TotalLoc
		}

		metrics[n.ID] = nm
	}

	return metrics
}

func addToSet(m map[string]map[string]bool, key, value string) {
	if m[key] == nil {
		m[key] = make(map[string]bool)
	}
	m[key][value] = true
}

// fmtFloat renders a float the way the metrics are reported elsewhere:
// integral values keep a trailing ".0".
func fmtFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
