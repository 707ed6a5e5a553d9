// Package output renders a finished analysis as JSON, markdown, and
// mermaid artifacts.
package output

import (
	"encoding/json"
	"time"

	"archmap/internal/core/errors"
	"archmap/internal/engine/graph"
	"archmap/internal/engine/smells"
	"archmap/internal/shared/util"
)

// Document is the full serialized analysis. The model fields sit at the
// top level so consumers of the plain model can read the same file.
type Document struct {
	Title       string                        `json:"title"`
	GeneratedAt time.Time                     `json:"generated_at"`
	Nodes       []graph.Node                  `json:"nodes"`
	Edges       []graph.Edge                  `json:"edges"`
	Groups      []graph.Group                 `json:"groups"`
	Tiers       []graph.TierLabel             `json:"tiers"`
	Smells      []smells.Finding              `json:"smells,omitempty"`
	NodeMetrics map[string]smells.NodeMetrics `json:"node_metrics,omitempty"`
	CodeMap     map[string]graph.CodeMapFile  `json:"code_map,omitempty"`
	FileTree    *graph.TreeNode               `json:"file_tree,omitempty"`
	Sources     map[string]string             `json:"source_files,omitempty"`
	Readme      string                        `json:"readme,omitempty"`
	Summary     string                        `json:"summary,omitempty"`
}

// NewDocument seeds a document from the model with the generation time set.
func NewDocument(title string, model *graph.Model) *Document {
	return &Document{
		Title:       title,
		GeneratedAt: time.Now().UTC(),
		Nodes:       model.Nodes,
		Edges:       model.Edges,
		Groups:      model.Groups,
		Tiers:       model.Tiers,
	}
}

// WriteJSON writes the document to path, creating parent directories.
func (d *Document) WriteJSON(path string, pretty bool) error {
	data, err := MarshalJSON(d, pretty)
	if err != nil {
		return err
	}
	if err := util.WriteFileWithDirs(path, data, 0o644); err != nil {
		return errors.AddContext(
			errors.Wrap(err, errors.CodeInternal, "write output file"),
			errors.CtxPath, path)
	}
	return nil
}

// MarshalModelJSON renders just the model, for stdout consumption.
func MarshalModelJSON(model *graph.Model, pretty bool) ([]byte, error) {
	return MarshalJSON(model, pretty)
}

// MarshalJSON serializes any output payload with a trailing newline.
func MarshalJSON(v any, pretty bool) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "marshal output document")
	}
	return append(data, '\n'), nil
}
