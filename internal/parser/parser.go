// Package parser extracts function spans from source files using
// tree-sitter. The platform uses the spans to name the enclosing function
// of a surviving mutant and to check that a test file calls into its
// source file; mutant generation itself never consults the parser.
package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
)

// Parser parses source code files using tree-sitter
type Parser struct {
	goParser *sitter.Parser
	pyParser *sitter.Parser
	jsParser *sitter.Parser
}

// NewParser creates a new parser with all language support
func NewParser() *Parser {
	goParser := sitter.NewParser()
	goParser.SetLanguage(golang.GetLanguage())

	pyParser := sitter.NewParser()
	pyParser.SetLanguage(python.GetLanguage())

	jsParser := sitter.NewParser()
	jsParser.SetLanguage(javascript.GetLanguage())

	return &Parser{
		goParser: goParser,
		pyParser: pyParser,
		jsParser: jsParser,
	}
}

// ParseFile parses a single file
func (p *Parser) ParseFile(ctx context.Context, filePath string) (*ParsedFile, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	lang := DetectLanguage(filePath)
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("unsupported language for file: %s", filePath)
	}

	return p.ParseContent(ctx, filePath, string(content), lang)
}

// ParseContent parses source code content
func (p *Parser) ParseContent(ctx context.Context, filePath, content string, lang Language) (*ParsedFile, error) {
	var parser *sitter.Parser
	switch lang {
	case LanguageGo:
		parser = p.goParser
	case LanguagePython:
		parser = p.pyParser
	case LanguageJavaScript, LanguageTypeScript:
		parser = p.jsParser // Use JS parser for TS as well (basic support)
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}

	tree, err := parser.ParseCtx(ctx, nil, []byte(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}
	defer tree.Close()

	parsed := &ParsedFile{
		Path:      filePath,
		Language:  lang,
		Functions: make([]Function, 0),
	}

	switch lang {
	case LanguageGo:
		p.extractGoFunctions(tree.RootNode(), []byte(content), parsed)
	case LanguagePython:
		p.extractPythonFunctions(tree.RootNode(), []byte(content), parsed)
	case LanguageJavaScript, LanguageTypeScript:
		p.extractJSFunctions(tree.RootNode(), []byte(content), parsed)
	}

	return parsed, nil
}

// extractGoFunctions extracts functions from Go source
func (p *Parser) extractGoFunctions(node *sitter.Node, source []byte, parsed *ParsedFile) {
	cursor := sitter.NewTreeCursor(node)
	defer cursor.Close()

	p.walkTree(cursor, func(n *sitter.Node) {
		switch n.Type() {
		case "function_declaration":
			fn := p.parseGoFunction(n, source)
			if fn != nil {
				fn.ID = fmt.Sprintf("%s:%d:%s", parsed.Path, fn.StartLine, fn.Name)
				parsed.Functions = append(parsed.Functions, *fn)
			}
		case "method_declaration":
			fn := p.parseGoMethod(n, source)
			if fn != nil {
				fn.ID = fmt.Sprintf("%s:%d:%s", parsed.Path, fn.StartLine, fn.Name)
				parsed.Functions = append(parsed.Functions, *fn)
			}
		}
	})
}

func (p *Parser) parseGoFunction(node *sitter.Node, source []byte) *Function {
	fn := &Function{
		StartLine: int(node.StartPoint().Row) + 1,
		EndLine:   int(node.EndPoint().Row) + 1,
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "identifier" || child.Type() == "field_identifier" {
			fn.Name = child.Content(source)
			fn.Exported = strings.ToUpper(fn.Name[:1]) == fn.Name[:1]
		}
	}

	if fn.Name == "" {
		return nil
	}
	return fn
}

func (p *Parser) parseGoMethod(node *sitter.Node, source []byte) *Function {
	fn := p.parseGoFunction(node, source)
	if fn == nil {
		return nil
	}

	// The first parameter_list of a method_declaration is the receiver
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "parameter_list" && i < 2 {
			for j := 0; j < int(child.ChildCount()); j++ {
				param := child.Child(j)
				if param.Type() == "parameter_declaration" {
					typeNode := param.ChildByFieldName("type")
					if typeNode != nil {
						fn.Class = strings.TrimPrefix(typeNode.Content(source), "*")
					}
				}
			}
			break
		}
	}

	return fn
}

// extractPythonFunctions extracts functions from Python source. Methods
// inside classes are flattened into the function list with Class set.
func (p *Parser) extractPythonFunctions(node *sitter.Node, source []byte, parsed *ParsedFile) {
	cursor := sitter.NewTreeCursor(node)
	defer cursor.Close()

	p.walkTree(cursor, func(n *sitter.Node) {
		if n.Type() != "function_definition" {
			return
		}

		fn := &Function{
			StartLine: int(n.StartPoint().Row) + 1,
			EndLine:   int(n.EndPoint().Row) + 1,
		}

		nameNode := n.ChildByFieldName("name")
		if nameNode == nil {
			return
		}
		fn.Name = nameNode.Content(source)
		fn.Exported = !strings.HasPrefix(fn.Name, "_")

		if cls := enclosingPythonClass(n, source); cls != "" {
			fn.Class = cls
			fn.ID = fmt.Sprintf("%s:%d:%s.%s", parsed.Path, fn.StartLine, cls, fn.Name)
		} else {
			fn.ID = fmt.Sprintf("%s:%d:%s", parsed.Path, fn.StartLine, fn.Name)
		}

		parsed.Functions = append(parsed.Functions, *fn)
	})
}

// enclosingPythonClass walks ancestors to the nearest class_definition
func enclosingPythonClass(node *sitter.Node, source []byte) string {
	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		if parent.Type() == "class_definition" {
			if nameNode := parent.ChildByFieldName("name"); nameNode != nil {
				return nameNode.Content(source)
			}
			return ""
		}
	}
	return ""
}

// extractJSFunctions extracts functions from JavaScript/TypeScript source
func (p *Parser) extractJSFunctions(node *sitter.Node, source []byte, parsed *ParsedFile) {
	cursor := sitter.NewTreeCursor(node)
	defer cursor.Close()

	p.walkTree(cursor, func(n *sitter.Node) {
		var fn *Function

		switch n.Type() {
		case "function_declaration", "method_definition":
			fn = p.parseJSNamedFunction(n, source)
		case "arrow_function", "function", "function_expression":
			// Arrow and anonymous functions assigned to variables
			parent := n.Parent()
			if parent != nil && parent.Type() == "variable_declarator" {
				fn = p.parseJSAssignedFunction(n, parent, source)
			}
		}

		if fn != nil && fn.Name != "" {
			fn.ID = fmt.Sprintf("%s:%d:%s", parsed.Path, fn.StartLine, fn.Name)
			parsed.Functions = append(parsed.Functions, *fn)
		}
	})
}

func (p *Parser) parseJSNamedFunction(node *sitter.Node, source []byte) *Function {
	fn := &Function{
		StartLine: int(node.StartPoint().Row) + 1,
		EndLine:   int(node.EndPoint().Row) + 1,
		Exported:  true,
	}

	nameNode := node.ChildByFieldName("name")
	if nameNode != nil {
		fn.Name = nameNode.Content(source)
	}

	return fn
}

func (p *Parser) parseJSAssignedFunction(node, parent *sitter.Node, source []byte) *Function {
	fn := &Function{
		StartLine: int(node.StartPoint().Row) + 1,
		EndLine:   int(node.EndPoint().Row) + 1,
		Exported:  true,
	}

	nameNode := parent.ChildByFieldName("name")
	if nameNode != nil {
		fn.Name = nameNode.Content(source)
	}

	return fn
}

// walkTree walks the tree and calls fn for each node
func (p *Parser) walkTree(cursor *sitter.TreeCursor, fn func(*sitter.Node)) {
	for {
		fn(cursor.CurrentNode())

		if cursor.GoToFirstChild() {
			continue
		}

		for {
			if cursor.GoToNextSibling() {
				break
			}
			if !cursor.GoToParent() {
				return
			}
		}
	}
}

// DetectLanguage detects language from file extension
func DetectLanguage(path string) Language {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".go":
		return LanguageGo
	case ".py":
		return LanguagePython
	case ".js", ".jsx", ".mjs":
		return LanguageJavaScript
	case ".ts", ".tsx":
		return LanguageTypeScript
	default:
		return LanguageUnknown
	}
}
