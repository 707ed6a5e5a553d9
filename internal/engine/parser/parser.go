package parser

import (
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"archmap/internal/core/errors"
)

// Parser turns Python source files into FileAnalysis values.
type Parser struct {
	grammar   *sitter.Language
	extractor *PythonExtractor
}

func NewParser() *Parser {
	return &Parser{
		grammar:   sitter.NewLanguage(tree_sitter_python.Language()),
		extractor: &PythonExtractor{},
	}
}

// ParseFile parses content and extracts its structure. Files whose syntax
// tree contains errors are rejected with CodeParseError.
func (p *Parser) ParseFile(path string, content []byte) (*FileAnalysis, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(p.grammar)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, errors.AddContext(
			errors.New(errors.CodeInternal, "parser returned no tree"),
			errors.CtxPath, path)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, errors.AddContext(
			errors.New(errors.CodeParseError, "source contains syntax errors"),
			errors.CtxPath, path)
	}

	return p.extractor.Extract(root, content, path), nil
}

// IsSupportedPath reports whether path looks like a Python source file.
func (p *Parser) IsSupportedPath(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".py"
}
