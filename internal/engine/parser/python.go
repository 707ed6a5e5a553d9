package parser

import (
	"math"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Class kinds as they appear in the emitted model.
const (
	ClassKindPlain     = "class"
	ClassKindDataclass = "dataclass"
	ClassKindAbstract  = "abc"
)

type PythonExtractor struct{}

func (e *PythonExtractor) Extract(root *sitter.Node, source []byte, filePath string) *FileAnalysis {
	analysis := &FileAnalysis{Path: filePath, TotalLoc: countLines(source)}

	ctx := &ExtractionContext{Source: source, Analysis: analysis}
	engine := NewExtractorEngine(map[string]NodeHandler{
		"import_statement":      e.extractImport,
		"import_from_statement": e.extractFromImport,
		"class_definition":      e.extractClass,
		"function_definition":   e.extractFunction,
		"expression_statement":  e.countModuleConstant,
		"if_statement":          e.detectEntryPoint,
	})
	engine.Walk(ctx, root)

	return analysis
}

func (e *PythonExtractor) extractImport(ctx *ExtractionContext, node *sitter.Node) bool {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)

		switch child.Kind() {
		case "dotted_name", "identifier":
			module := ctx.Text(child)
			parts := strings.Split(module, ".")
			ctx.Analysis.Imports = append(ctx.Analysis.Imports, ImportRef{
				Module: module,
				Names:  []string{parts[len(parts)-1]},
			})
		case "aliased_import":
			var module, alias string
			for j := uint(0); j < child.ChildCount(); j++ {
				sub := child.Child(j)
				if sub.Kind() == "dotted_name" || sub.Kind() == "identifier" {
					if module == "" {
						module = ctx.Text(sub)
					} else {
						alias = ctx.Text(sub)
					}
				}
			}
			name := alias
			if name == "" {
				parts := strings.Split(module, ".")
				name = parts[len(parts)-1]
			}
			ctx.Analysis.Imports = append(ctx.Analysis.Imports, ImportRef{
				Module: module,
				Names:  []string{name},
			})
		}
	}
	return true
}

func (e *PythonExtractor) extractFromImport(ctx *ExtractionContext, node *sitter.Node) bool {
	var module string
	var names []string
	level := 0

	// Imported names appear as bare dotted_name/aliased_import children
	// after the import keyword; before it sits the source module.
	seenImport := false
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)

		switch child.Kind() {
		case "import":
			seenImport = true
		case "relative_import":
			for j := uint(0); j < child.ChildCount(); j++ {
				sub := child.Child(j)
				switch sub.Kind() {
				case "import_prefix":
					level = strings.Count(ctx.Text(sub), ".")
				case "dotted_name", "identifier":
					module = ctx.Text(sub)
				}
			}
		case "dotted_name", "identifier":
			if seenImport {
				names = append(names, ctx.Text(child))
			} else if module == "" {
				module = ctx.Text(child)
			}
		case "wildcard_import":
			names = append(names, "*")
		case "aliased_import":
			e.collectImportedNames(ctx, child, &names)
		}
	}

	ctx.Analysis.Imports = append(ctx.Analysis.Imports, ImportRef{
		Module: module,
		Names:  names,
		IsFrom: true,
		Level:  level,
	})
	return true
}

// collectImportedNames takes the imported name of each entry, not its alias.
func (e *PythonExtractor) collectImportedNames(ctx *ExtractionContext, node *sitter.Node, names *[]string) {
	switch node.Kind() {
	case "identifier", "dotted_name":
		*names = append(*names, ctx.Text(node))
		return
	case "aliased_import":
		for i := uint(0); i < node.ChildCount(); i++ {
			sub := node.Child(i)
			if sub.Kind() == "identifier" || sub.Kind() == "dotted_name" {
				*names = append(*names, ctx.Text(sub))
				return
			}
		}
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		e.collectImportedNames(ctx, node.Child(i), names)
	}
}

func (e *PythonExtractor) extractFunction(ctx *ExtractionContext, node *sitter.Node) bool {
	if !isTopLevelDefinition(node) {
		return false
	}
	ctx.Analysis.Functions = append(ctx.Analysis.Functions, e.function(ctx, node))
	return false
}

func (e *PythonExtractor) extractClass(ctx *ExtractionContext, node *sitter.Node) bool {
	if !isTopLevelDefinition(node) {
		return false
	}

	name := ctx.Text(node.ChildByFieldName("name"))
	if name == "" {
		return false
	}

	kind := ClassKindPlain
	isDataclass := false
	for _, dec := range e.decorators(ctx, node) {
		if strings.Contains(dec, "dataclass") {
			kind = ClassKindDataclass
			isDataclass = true
		}
	}

	var bases []string
	if sc := node.ChildByFieldName("superclasses"); sc != nil {
		for i := uint(0); i < sc.NamedChildCount(); i++ {
			arg := sc.NamedChild(i)
			if arg.Kind() == "keyword_argument" || arg.Kind() == "comment" {
				continue
			}
			bases = append(bases, ctx.Text(arg))
		}
	}
	basesText := strings.Join(bases, ",")
	if strings.Contains(basesText, "ABC") || strings.Contains(basesText, "Abstract") {
		kind = ClassKindAbstract
	}

	if isDataclass || strings.Contains(basesText, "TypedDict") || strings.Contains(basesText, "NamedTuple") {
		ctx.Analysis.TypeDefCount++
	}

	cls := Class{
		Name:      name,
		Kind:      kind,
		Bases:     bases,
		StartLine: ctx.Line(node),
		EndLine:   ctx.EndLine(node),
	}
	cls.Loc = cls.EndLine - cls.StartLine + 1

	body := node.ChildByFieldName("body")
	if body != nil {
		for i := uint(0); i < body.ChildCount(); i++ {
			stmt := body.Child(i)
			if def := definitionNode(stmt); def != nil && def.Kind() == "function_definition" {
				cls.Methods = append(cls.Methods, e.function(ctx, def))
				continue
			}
			if stmt.Kind() == "expression_statement" && stmt.ChildCount() > 0 {
				expr := stmt.Child(0)
				if expr.Kind() == "assignment" {
					left := expr.ChildByFieldName("left")
					if left != nil && left.Kind() == "identifier" {
						cls.Fields = append(cls.Fields, ctx.Text(left))
					}
				}
			}
		}
	}

	cls.Docstring = e.docstring(ctx, body)
	cls.Lcom = e.lackOfCohesion(ctx, body)
	ctx.Analysis.Classes = append(ctx.Analysis.Classes, cls)
	return false
}

// docstring returns the first line of a leading string literal, if any.
func (e *PythonExtractor) docstring(ctx *ExtractionContext, body *sitter.Node) string {
	if body == nil || body.ChildCount() == 0 {
		return ""
	}
	stmt := body.Child(0)
	if stmt.Kind() != "expression_statement" || stmt.ChildCount() == 0 {
		return ""
	}
	str := stmt.Child(0)
	if str.Kind() != "string" {
		return ""
	}
	text := strings.TrimLeft(ctx.Text(str), "rbfuRBFU")
	for _, quote := range []string{`"""`, "'''", `"`, `'`} {
		if strings.HasPrefix(text, quote) {
			text = strings.TrimSuffix(strings.TrimPrefix(text, quote), quote)
			break
		}
	}
	text = strings.TrimSpace(text)
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

func (e *PythonExtractor) function(ctx *ExtractionContext, node *sitter.Node) Function {
	name := ctx.Text(node.ChildByFieldName("name"))
	params := node.ChildByFieldName("parameters")

	signature := name + "(...)"
	if params != nil {
		signature = name + strings.Join(strings.Fields(ctx.Text(params)), " ")
	}
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		signature += " -> " + ctx.Text(ret)
	}

	fn := Function{
		Name:       name,
		Signature:  signature,
		Docstring:  e.docstring(ctx, node.ChildByFieldName("body")),
		StartLine:  ctx.Line(node),
		EndLine:    ctx.EndLine(node),
		Complexity: e.complexity(node),
		ParamCount: e.countParameters(ctx, params),
	}
	fn.Loc = fn.EndLine - fn.StartLine + 1
	return fn
}

// complexity is the cyclomatic count: one plus one per branching construct.
// Chained boolean operators parse as nested binary nodes, so counting each
// node matches counting operands minus one.
func (e *PythonExtractor) complexity(node *sitter.Node) int {
	total := 1
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		for i := uint(0); i < n.ChildCount(); i++ {
			child := n.Child(i)
			switch child.Kind() {
			case "if_statement", "elif_clause", "while_statement", "for_statement",
				"except_clause", "with_statement", "assert_statement",
				"for_in_clause", "boolean_operator":
				total++
			}
			walk(child)
		}
	}
	walk(node)
	return total
}

func (e *PythonExtractor) countParameters(ctx *ExtractionContext, params *sitter.Node) int {
	if params == nil {
		return 0
	}
	count := 0
	first := ""
	for i := uint(0); i < params.ChildCount(); i++ {
		child := params.Child(i)
		switch child.Kind() {
		case "identifier", "typed_parameter", "default_parameter",
			"typed_default_parameter", "list_splat_pattern", "dictionary_splat_pattern":
			count++
			if first == "" {
				first = e.parameterName(ctx, child)
			}
		}
	}
	if first == "self" || first == "cls" {
		count--
	}
	if count < 0 {
		count = 0
	}
	return count
}

func (e *PythonExtractor) parameterName(ctx *ExtractionContext, node *sitter.Node) string {
	if node.Kind() == "identifier" {
		return ctx.Text(node)
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "identifier" {
			return ctx.Text(child)
		}
	}
	return ""
}

// lackOfCohesion computes LCOM over the methods of a class body, excluding
// __init__. Pairs of methods touching no common self attribute count as
// disjoint; the metric is disjoint pairs over total pairs.
func (e *PythonExtractor) lackOfCohesion(ctx *ExtractionContext, body *sitter.Node) float64 {
	if body == nil {
		return 0.0
	}

	var attrSets []map[string]bool
	for i := uint(0); i < body.ChildCount(); i++ {
		def := definitionNode(body.Child(i))
		if def == nil || def.Kind() != "function_definition" {
			continue
		}
		if ctx.Text(def.ChildByFieldName("name")) == "__init__" {
			continue
		}
		attrSets = append(attrSets, e.selfAttributes(ctx, def))
	}
	if len(attrSets) < 2 {
		return 0.0
	}

	disjoint, total := 0, 0
	for i := 0; i < len(attrSets); i++ {
		for j := i + 1; j < len(attrSets); j++ {
			total++
			shared := false
			for attr := range attrSets[i] {
				if attrSets[j][attr] {
					shared = true
					break
				}
			}
			if !shared {
				disjoint++
			}
		}
	}
	return math.Round(float64(disjoint)/float64(total)*100) / 100
}

func (e *PythonExtractor) selfAttributes(ctx *ExtractionContext, node *sitter.Node) map[string]bool {
	attrs := make(map[string]bool)
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Kind() == "attribute" {
			obj := n.ChildByFieldName("object")
			if obj != nil && obj.Kind() == "identifier" && ctx.Text(obj) == "self" {
				if attr := n.ChildByFieldName("attribute"); attr != nil {
					attrs[ctx.Text(attr)] = true
				}
			}
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(node)
	return attrs
}

func (e *PythonExtractor) countModuleConstant(ctx *ExtractionContext, node *sitter.Node) bool {
	parent := node.Parent()
	if parent == nil || parent.Kind() != "module" {
		return false
	}
	if node.ChildCount() == 0 {
		return false
	}
	switch node.Child(0).Kind() {
	case "assignment", "augmented_assignment":
		ctx.Analysis.ModuleConstants++
	}
	return false
}

func (e *PythonExtractor) detectEntryPoint(ctx *ExtractionContext, node *sitter.Node) bool {
	parent := node.Parent()
	if parent == nil || parent.Kind() != "module" {
		return false
	}
	cond := node.ChildByFieldName("condition")
	if cond == nil || cond.Kind() != "comparison_operator" {
		return false
	}
	if cond.NamedChildCount() != 2 {
		return false
	}
	left := cond.NamedChild(0)
	right := cond.NamedChild(1)
	if left.Kind() != "identifier" || ctx.Text(left) != "__name__" {
		return false
	}
	if right.Kind() == "string" {
		value := strings.Trim(ctx.Text(right), `"'`)
		if value == "__main__" {
			ctx.Analysis.HasEntryPoint = true
		}
	}
	return false
}

func (e *PythonExtractor) decorators(ctx *ExtractionContext, node *sitter.Node) []string {
	parent := node.Parent()
	if parent == nil || parent.Kind() != "decorated_definition" {
		return nil
	}

	decorators := make([]string, 0, parent.ChildCount())
	for i := uint(0); i < parent.ChildCount(); i++ {
		child := parent.Child(i)
		if child.Kind() != "decorator" {
			continue
		}
		dec := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(ctx.Text(child)), "@"))
		if dec == "" {
			continue
		}
		decorators = append(decorators, dec)
	}
	return decorators
}

func countLines(source []byte) int {
	if len(source) == 0 {
		return 0
	}
	lines := 0
	for _, b := range source {
		if b == '\n' {
			lines++
		}
	}
	if source[len(source)-1] != '\n' {
		lines++
	}
	return lines
}

// definitionNode unwraps decorated_definition to its inner definition.
func definitionNode(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	switch node.Kind() {
	case "function_definition", "class_definition":
		return node
	case "decorated_definition":
		if def := node.ChildByFieldName("definition"); def != nil {
			return def
		}
	}
	return nil
}

func isTopLevelDefinition(node *sitter.Node) bool {
	parent := node.Parent()
	if parent == nil {
		return false
	}
	if parent.Kind() == "module" {
		return true
	}
	if parent.Kind() == "decorated_definition" {
		gp := parent.Parent()
		return gp != nil && gp.Kind() == "module"
	}
	return false
}
