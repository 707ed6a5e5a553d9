package app

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"archmap/internal/core/config"
	"archmap/internal/core/errors"
	"archmap/internal/engine/graph"
)

const maxScanDepth = 50

// Scanner walks the project tree. Directories come before files, both in
// case-insensitive name order, so every derived artifact is deterministic.
type Scanner struct {
	cfg      *config.Config
	root     string
	dirGlobs []glob.Glob
	treeExts map[string]bool
}

func NewScanner(cfg *config.Config, root string) (*Scanner, error) {
	dirGlobs := make([]glob.Glob, 0, len(cfg.Exclude.Dirs))
	for _, p := range cfg.Exclude.Dirs {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeValidationError, "invalid exclude dir pattern "+p)
		}
		dirGlobs = append(dirGlobs, g)
	}

	treeExts := make(map[string]bool, len(config.DefaultFileExtensions))
	for _, ext := range config.DefaultFileExtensions {
		treeExts[ext] = true
	}

	return &Scanner{cfg: cfg, root: root, dirGlobs: dirGlobs, treeExts: treeExts}, nil
}

// PythonFiles returns project-relative paths of all Python sources.
func (s *Scanner) PythonFiles() ([]string, error) {
	info, err := os.Stat(s.root)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeNotFound, "project root not accessible")
	}
	if !info.IsDir() {
		return nil, errors.New(errors.CodeValidationError, "project root is not a directory")
	}

	var files []string
	s.scanDir(s.root, "", 0, &files)
	return files, nil
}

func (s *Scanner) scanDir(dir, relPrefix string, depth int, result *[]string) {
	if depth > maxScanDepth {
		return
	}
	if !s.withinRoot(dir) {
		return
	}

	for _, entry := range s.sortedEntries(dir) {
		name := entry.Name()
		if skipHidden(name) {
			continue
		}
		rel := name
		if relPrefix != "" {
			rel = relPrefix + "/" + name
		}
		if entry.IsDir() {
			if s.excludedDir(name) {
				continue
			}
			s.scanDir(filepath.Join(dir, name), rel, depth+1, result)
		} else if strings.HasSuffix(name, ".py") {
			*result = append(*result, rel)
		}
	}
}

// DirectoryTree builds the browsable file tree. Files are annotated with
// the node ids they produced; directories without visible content are
// dropped.
func (s *Scanner) DirectoryTree(model *graph.Model) *graph.TreeNode {
	fileToNodes := make(map[string][]string)
	for _, n := range model.Nodes {
		if n.FilePath != "" {
			fileToNodes[n.FilePath] = append(fileToNodes[n.FilePath], n.ID)
		}
	}
	return s.walkTree(s.root, "", 0, fileToNodes)
}

func (s *Scanner) walkTree(dir, relPrefix string, depth int, fileToNodes map[string][]string) *graph.TreeNode {
	name := filepath.Base(dir)
	if relPrefix == "" {
		name = "."
	}
	node := &graph.TreeNode{Name: name, Type: "dir", Children: []*graph.TreeNode{}}
	if depth > maxScanDepth {
		return node
	}

	for _, entry := range s.sortedEntries(dir) {
		entryName := entry.Name()
		if skipHidden(entryName) {
			continue
		}
		rel := entryName
		if relPrefix != "" {
			rel = relPrefix + "/" + entryName
		}
		if entry.IsDir() {
			if s.excludedDir(entryName) {
				continue
			}
			child := s.walkTree(filepath.Join(dir, entryName), rel, depth+1, fileToNodes)
			if len(child.Children) > 0 {
				node.Children = append(node.Children, child)
			}
		} else if s.treeExts[strings.ToLower(filepath.Ext(entryName))] {
			nodeIDs := fileToNodes[rel]
			node.Children = append(node.Children, &graph.TreeNode{
				Name:       entryName,
				Type:       "file",
				Path:       rel,
				Referenced: len(nodeIDs) > 0,
				NodeIDs:    nodeIDs,
			})
		}
	}
	return node
}

// ReadSources loads the source text of every node-bearing file, skipping
// files above the configured size cap. Keys are project-relative paths.
func (s *Scanner) ReadSources(nodes []graph.Node) map[string]string {
	maxSize := int64(s.cfg.Limits.MaxFileSizeKB) * 1024
	seen := make(map[string]bool)
	result := make(map[string]string)

	for _, n := range nodes {
		fp := n.FilePath
		if fp == "" || seen[fp] {
			continue
		}
		seen[fp] = true

		full := filepath.Join(s.root, filepath.FromSlash(fp))
		info, err := os.Stat(full)
		if err != nil || info.Size() > maxSize {
			continue
		}
		content, err := os.ReadFile(full)
		if err != nil {
			continue
		}
		result[fp] = string(content)
	}
	return result
}

// ReadmeExcerpt returns up to 2000 characters of the project readme.
func (s *Scanner) ReadmeExcerpt() string {
	for _, name := range []string{"README.md", "readme.md", "README.rst", "README.txt"} {
		content, err := os.ReadFile(filepath.Join(s.root, name))
		if err != nil {
			continue
		}
		text := string(content)
		if len(text) > 2000 {
			text = text[:2000]
		}
		return text
	}
	return ""
}

func (s *Scanner) sortedEntries(dir string) []os.DirEntry {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	sort.Slice(entries, func(i, j int) bool {
		di, dj := entries[i].IsDir(), entries[j].IsDir()
		if di != dj {
			return di
		}
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})
	return entries
}

func (s *Scanner) excludedDir(name string) bool {
	for _, g := range s.dirGlobs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// withinRoot rejects symlinked directories escaping the project root.
func (s *Scanner) withinRoot(dir string) bool {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return false
	}
	rootResolved, err := filepath.EvalSymlinks(s.root)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(rootResolved, resolved)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}

func skipHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != ".env.example"
}
