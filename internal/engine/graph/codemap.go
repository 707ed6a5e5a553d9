package graph

import (
	"archmap/internal/engine/parser"
)

// CodeMapFile summarizes the definitions of one file for drill-down views,
// keyed by project-relative path in the output document.
type CodeMapFile struct {
	Classes   []CodeMapClass    `json:"classes"`
	Functions []CodeMapFunction `json:"functions"`
	TotalLoc  int               `json:"total_loc"`
}

type CodeMapClass struct {
	Name        string            `json:"name"`
	Lineno      int               `json:"lineno"`
	EndLineno   int               `json:"end_lineno"`
	Loc         int               `json:"loc"`
	Lcom        float64           `json:"lcom"`
	MethodCount int               `json:"method_count"`
	Methods     []CodeMapFunction `json:"methods"`
}

type CodeMapFunction struct {
	Name      string `json:"name"`
	Sig       string `json:"sig"`
	Lineno    int    `json:"lineno"`
	EndLineno int    `json:"end_lineno"`
	Cc        int    `json:"cc"`
	Params    int    `json:"params"`
	Loc       int    `json:"loc"`
}

// BuildCodeMap indexes the files behind the model's nodes. Each file is
// entered once, in node order.
func BuildCodeMap(model *Model, analyses map[string]*parser.FileAnalysis) map[string]CodeMapFile {
	result := make(map[string]CodeMapFile)
	seen := make(map[string]bool)

	for _, n := range model.Nodes {
		fp := n.FilePath
		if fp == "" || seen[fp] {
			continue
		}
		seen[fp] = true

		analysis := analyses[fp]
		if analysis == nil || analysis.Failed {
			continue
		}

		entry := CodeMapFile{
			Classes:   []CodeMapClass{},
			Functions: []CodeMapFunction{},
			TotalLoc:  analysis.TotalLoc,
		}
		for _, cls := range analysis.Classes {
			methods := make([]CodeMapFunction, 0, len(cls.Methods))
			for _, m := range cls.Methods {
				methods = append(methods, codeMapFunction(m))
			}
			entry.Classes = append(entry.Classes, CodeMapClass{
				Name:        cls.Name,
				Lineno:      cls.StartLine,
				EndLineno:   cls.EndLine,
				Loc:         cls.Loc,
				Lcom:        cls.Lcom,
				MethodCount: len(cls.Methods),
				Methods:     methods,
			})
		}
		for _, fn := range analysis.Functions {
			entry.Functions = append(entry.Functions, codeMapFunction(fn))
		}
		result[fp] = entry
	}

	return result
}

func codeMapFunction(fn parser.Function) CodeMapFunction {
	return CodeMapFunction{
		Name:      fn.Name,
		Sig:       fn.Signature,
		Lineno:    fn.StartLine,
		EndLineno: fn.EndLine,
		Cc:        fn.Complexity,
		Params:    fn.ParamCount,
		Loc:       fn.Loc,
	}
}
