package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"archmap/internal/core/app"
	"archmap/internal/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestProject(t *testing.T, tmpDir string) {
	cli := `"""Command line front end."""
from core.engine import Engine


def main():
    Engine().run()


if __name__ == "__main__":
    main()
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "cli.py"), []byte(cli), 0644))

	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "core"), 0755))
	engine := `from core.store import Store


class Engine:
    """Coordinates the analysis run."""

    def __init__(self):
        self.store = Store()

    def run(self):
        if self.store:
            return self.store.load()
        return None
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "core", "engine.py"), []byte(engine), 0644))

	store := `class Store:
    def load(self):
        return []

    def save(self, items):
        self.items = items
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "core", "store.py"), []byte(store), 0644))

	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "utils"), 0755))
	helpers := `def flatten(items):
    return [x for xs in items for x in xs]
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "utils", "helpers.py"), []byte(helpers), 0644))

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "README.md"), []byte("# Demo project\n"), 0644))
}

func testConfig(tmpDir string) *config.Config {
	cfg := config.Default()
	cfg.Paths.Root = tmpDir
	cfg.Paths.Output = filepath.Join(tmpDir, "out", "architecture.json")
	cfg.Paths.Markdown = filepath.Join(tmpDir, "out", "report.md")
	cfg.Paths.Mermaid = filepath.Join(tmpDir, "out", "diagram.mmd")
	cfg.History.Path = filepath.Join(tmpDir, ".archmap", "history.db")
	return cfg
}

func TestFullPipeline(t *testing.T) {
	tmpDir := t.TempDir()
	createTestProject(t, tmpDir)
	cfg := testConfig(tmpDir)

	svc, err := app.NewService(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, svc.EnableHistory())
	defer svc.Close()

	res, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res.Model)

	ids := make(map[string]string)
	for _, n := range res.Model.Nodes {
		ids[n.ID] = n.Type
	}
	assert.Equal(t, "script", ids["cli"])
	assert.Equal(t, "class", ids["Engine"])
	assert.Equal(t, "class", ids["Store"])
	assert.Contains(t, ids, "helpers")

	edges := make(map[string]bool)
	for _, e := range res.Model.Edges {
		edges[e.From+"->"+e.To] = true
	}
	assert.True(t, edges["cli->Engine"], "cli should depend on Engine: %v", edges)
	assert.True(t, edges["Engine->Store"], "Engine should depend on Store: %v", edges)

	tiers := make(map[string]int)
	for _, n := range res.Model.Nodes {
		tiers[n.ID] = n.Tier
	}
	assert.Equal(t, 0, tiers["cli"])
	assert.Equal(t, 1, tiers["Engine"])
	assert.Equal(t, 2, tiers["Store"])

	groupPanels := make(map[string]bool)
	for _, g := range res.Model.Groups {
		groupPanels[g.ID] = g.Panel
	}
	assert.Contains(t, groupPanels, "_root")
	assert.Contains(t, groupPanels, "core")
	assert.True(t, groupPanels["utils"], "utils should be a panel group")

	for _, n := range res.Model.Nodes {
		if n.ID == "Engine" {
			assert.Equal(t, "Coordinates the analysis run.", n.Description)
		}
	}

	doc := res.Document
	require.NotNil(t, doc)
	assert.Contains(t, doc.Summary, "# Architecture Summary: "+filepath.Base(tmpDir))
	assert.Contains(t, doc.Summary, "- cli -> Engine -> Store")
	assert.NotEmpty(t, doc.CodeMap["core/engine.py"].Classes)
	assert.Contains(t, doc.Sources, "cli.py")
	assert.True(t, strings.HasPrefix(doc.Readme, "# Demo project"))
	require.NotNil(t, doc.FileTree)
	assert.Equal(t, ".", doc.FileTree.Name)
}

func TestWriteOutputsAndHistory(t *testing.T) {
	tmpDir := t.TempDir()
	createTestProject(t, tmpDir)
	cfg := testConfig(tmpDir)

	svc, err := app.NewService(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, svc.EnableHistory())
	defer svc.Close()

	res, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, svc.WriteOutputs(res))

	for _, path := range []string{cfg.Paths.Output, cfg.Paths.Markdown, cfg.Paths.Mermaid} {
		info, err := os.Stat(path)
		require.NoError(t, err, "expected artifact %s", path)
		assert.Greater(t, info.Size(), int64(0))
	}

	snapshots, err := svc.History().LoadSnapshots(filepath.Base(tmpDir), time.Time{})
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, 4, snapshots[0].NodeCount)
	assert.Equal(t, 4, snapshots[0].FileCount)
	assert.Equal(t, 2, snapshots[0].MaxTier)
}

func TestBrokenFileDoesNotAbortRun(t *testing.T) {
	tmpDir := t.TempDir()
	createTestProject(t, tmpDir)
	broken := "def broken(:\n    pass\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "broken.py"), []byte(broken), 0644))

	svc, err := app.NewService(testConfig(tmpDir), nil)
	require.NoError(t, err)
	defer svc.Close()

	res, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, res.FailedFiles, "broken.py")
	assert.NotEmpty(t, res.Model.Nodes)
	for _, n := range res.Model.Nodes {
		assert.NotEqual(t, "broken", n.ID)
	}
}
