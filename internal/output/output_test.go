package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"archmap/internal/engine/graph"
	"archmap/internal/engine/smells"
)

func testModel() *graph.Model {
	return &graph.Model{
		Nodes: []graph.Node{
			{ID: "Engine", Label: "Engine", Type: "class", Group: "core", FilePath: "core/engine.py"},
			{ID: "cli", Label: "cli", Type: "script", Group: "_root", FilePath: "cli.py"},
		},
		Edges: []graph.Edge{
			{ID: "e0", From: "cli", To: "Engine", Type: "dependency"},
		},
		Groups: []graph.Group{
			{ID: "_root", Label: "Root", Color: "#3B82F6"},
			{ID: "core", Label: "Core", Color: "#10B981"},
		},
		Tiers: []graph.TierLabel{{Label: "Tier 0 -- Entry Points"}},
	}
}

func TestDocumentWriteJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "architecture.json")
	doc := NewDocument("Demo", testModel())
	doc.Smells = []smells.Finding{{ID: "smell_0", Title: "Hub/Bottleneck: Engine", Severity: "warning"}}

	if err := doc.WriteJSON(path, true); err != nil {
		t.Fatalf("write json: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"title", "nodes", "edges", "groups", "tiers", "smells"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing top-level key %q", key)
		}
	}
	if decoded["title"] != "Demo" {
		t.Errorf("title = %v", decoded["title"])
	}
}

func TestMarshalModelJSONIsModelOnly(t *testing.T) {
	data, err := MarshalModelJSON(testModel(), false)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != 4 {
		t.Errorf("model output must have exactly nodes/edges/groups/tiers, got keys %v", decoded)
	}
}

func TestMarkdownReport(t *testing.T) {
	doc := NewDocument("Demo", testModel())
	doc.Summary = "# Architecture Summary: demo\n**2 nodes, 1 edges, 2 groups, 2 Python files**\n"
	doc.Smells = []smells.Finding{{
		ID:          "smell_0",
		Title:       "Shotgun Surgery: Engine",
		Severity:    "info",
		Nodes:       []string{"Engine"},
		Description: "'Engine' is used by 5 other components.",
		Fix:         "Consider whether this module has too many responsibilities.",
		Metric:      "Ca=5",
	}}

	text := Markdown(doc)
	if !strings.Contains(text, "# Architecture Summary: demo") {
		t.Error("summary missing from report")
	}
	if !strings.Contains(text, "### Shotgun Surgery: Engine") {
		t.Error("finding heading missing")
	}
	if !strings.Contains(text, "- Metric: Ca=5") || !strings.Contains(text, "**Fix:**") {
		t.Error("finding details missing")
	}
}

func TestMermaidDiagram(t *testing.T) {
	text := Mermaid(testModel())

	if !strings.Contains(text, "flowchart LR") {
		t.Error("missing flowchart header")
	}
	if !strings.Contains(text, `subgraph grp_core["Core"]`) {
		t.Errorf("missing core subgraph:\n%s", text)
	}
	if !strings.Contains(text, "cli --> Engine") {
		t.Errorf("missing edge:\n%s", text)
	}
	if !strings.Contains(text, "classDef group0 fill:#3B82F6") {
		t.Errorf("missing group style:\n%s", text)
	}
}

func TestMermaidSanitizesIDs(t *testing.T) {
	model := &graph.Model{
		Nodes: []graph.Node{
			{ID: "my-tool", Label: "my-tool", Group: "_root"},
			{ID: "my.tool", Label: "my.tool", Group: "_root"},
		},
		Groups: []graph.Group{{ID: "_root", Label: "Root", Color: "#3B82F6"}},
	}
	text := Mermaid(model)
	if !strings.Contains(text, `my_tool["my-tool"]`) || !strings.Contains(text, `my_tool_2["my.tool"]`) {
		t.Errorf("ids not sanitized/deduped:\n%s", text)
	}
}
