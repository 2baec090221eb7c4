package parser

import (
	"context"
	"fmt"
	"io"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
)

// Parser provides Rust source parsing via tree-sitter.
type Parser struct {
	parser *sitter.Parser
}

// New creates a new Parser instance with the Rust grammar loaded.
func New() *Parser {
	parser := sitter.NewParser()
	parser.SetLanguage(rust.GetLanguage())
	return &Parser{
		parser: parser,
	}
}

// ParseResult is the result of parsing one Rust source file.
type ParseResult struct {
	Tree       *sitter.Tree
	RootNode   *sitter.Node
	SourceCode []byte
}

// Parse parses Rust source and returns its syntax tree. A tree containing
// ERROR nodes is still returned to the caller (callers decide whether to
// skip or best-effort extract from a partially broken file); only a hard
// parser failure returns an error.
func (p *Parser) Parse(ctx context.Context, source []byte) (*ParseResult, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}

	return &ParseResult{
		Tree:       tree,
		RootNode:   tree.RootNode(),
		SourceCode: source,
	}, nil
}

// ParseFile reads and parses Rust source from a reader.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) (*ParseResult, error) {
	source, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}

	return p.Parse(ctx, source)
}

// GetNodeText returns the text content of a node.
func (p *Parser) GetNodeText(node *sitter.Node, source []byte) string {
	return node.Content(source)
}

// WalkTree traverses the AST depth-first, calling visitor for every node.
func (p *Parser) WalkTree(node *sitter.Node, visitor func(*sitter.Node) error) error {
	if err := visitor(node); err != nil {
		return err
	}

	childCount := int(node.ChildCount())
	for i := 0; i < childCount; i++ {
		child := node.Child(i)
		if err := p.WalkTree(child, visitor); err != nil {
			return err
		}
	}

	return nil
}

// FindNodes collects every node of the given grammar type under node.
func (p *Parser) FindNodes(node *sitter.Node, nodeType string) []*sitter.Node {
	var nodes []*sitter.Node

	_ = p.WalkTree(node, func(n *sitter.Node) error {
		if n.Type() == nodeType {
			nodes = append(nodes, n)
		}
		return nil
	})

	return nodes
}

// HasSyntaxErrors reports whether the tree contains any ERROR or MISSING node.
func (p *Parser) HasSyntaxErrors(node *sitter.Node) bool {
	hasError := false

	_ = p.WalkTree(node, func(n *sitter.Node) error {
		if n.IsError() || n.IsMissing() {
			hasError = true
		}
		return nil
	})

	return hasError
}
