package graph

// Model is the serializable architecture picture of a project.
type Model struct {
	Nodes  []Node      `json:"nodes"`
	Edges  []Edge      `json:"edges"`
	Groups []Group     `json:"groups"`
	Tiers  []TierLabel `json:"tiers"`
}

// Node types as emitted in the model.
const (
	NodeTypeClass     = "class"
	NodeTypeDataclass = "dataclass"
	NodeTypeAbstract  = "abc"
	NodeTypeModule    = "module"
	NodeTypeScript    = "script"
)

type Node struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Group       string   `json:"group"`
	FilePath    string   `json:"file_path"`
	Description string   `json:"description"`
	Methods     []Member `json:"methods,omitempty"`
	Functions   []Member `json:"functions,omitempty"`
	Fields      []string `json:"fields,omitempty"`
	Tier        int      `json:"tier"`
}

// Member is a method or function listed on a node.
type Member struct {
	Name string `json:"name"`
	Sig  string `json:"sig"`
}

type Edge struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

type Group struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color"`
	Panel bool   `json:"panel"`
}

type TierLabel struct {
	Label string `json:"label"`
}

// TreeNode is one entry of the browsable directory tree artifact.
type TreeNode struct {
	Name       string      `json:"name"`
	Type       string      `json:"type"`
	Path       string      `json:"path,omitempty"`
	Referenced bool        `json:"referenced,omitempty"`
	NodeIDs    []string    `json:"nodeIds,omitempty"`
	Children   []*TreeNode `json:"children,omitempty"`
}

// IsClassNode reports whether the node represents a class definition.
func (n *Node) IsClassNode() bool {
	switch n.Type {
	case NodeTypeClass, NodeTypeDataclass, NodeTypeAbstract:
		return true
	}
	return false
}
