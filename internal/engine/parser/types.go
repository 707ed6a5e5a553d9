package parser

// FileAnalysis is the structural summary of a single Python source file.
type FileAnalysis struct {
	Path            string
	Classes         []Class
	Functions       []Function
	Imports         []ImportRef
	ModuleConstants int
	TypeDefCount    int // dataclass or TypedDict/NamedTuple style classes
	TotalLoc        int
	HasEntryPoint   bool
	Failed          bool
}

// Class describes a top-level class definition.
type Class struct {
	Name      string
	Kind      string // class, dataclass, abc
	Bases     []string
	Docstring string // first line only
	Methods   []Function
	Fields    []string
	StartLine int
	EndLine   int
	Loc       int
	Lcom      float64
}

// Function describes a top-level function or a class method.
type Function struct {
	Name       string
	Signature  string
	Docstring  string // first line only
	StartLine  int
	EndLine    int
	Loc        int
	Complexity int
	ParamCount int
}

// ImportRef is one import target. A plain "import a.b, c" statement yields
// one ref per target; a from-import yields a single ref carrying all names.
type ImportRef struct {
	Module string
	Names  []string
	IsFrom bool
	Level  int // leading dots for relative from-imports
}

// EmptyAnalysis is the substitute result for files that could not be parsed.
// Such files contribute no nodes and no imports but stay visible in the model.
func EmptyAnalysis(path string) *FileAnalysis {
	return &FileAnalysis{Path: path, Failed: true}
}
