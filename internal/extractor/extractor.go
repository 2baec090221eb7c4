// Package extractor walks a parsed Rust source file and attributes every
// syntactic reference it contains to a typed usage context, filling in a
// domain.Module with its declared items, their dependencies, and its raw
// import list. Cross-file resolution (which module a referenced type
// actually lives in) is the aggregator's job, not this package's.
package extractor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ludo-technologies/gocoupling/domain"
	"github.com/ludo-technologies/gocoupling/internal/parser"
)

// Extractor extracts coupling-relevant facts from one Rust source file.
type Extractor struct {
	parser *parser.Parser
}

// New creates an Extractor with its own tree-sitter Rust parser instance.
// Parser instances are not safe for concurrent use, so callers running
// files in parallel should create one Extractor per worker.
func New() *Extractor {
	return &Extractor{parser: parser.New()}
}

// ExtractFile parses source and builds the Module it declares.
func (e *Extractor) ExtractFile(ctx context.Context, path string, source []byte) (*domain.Module, error) {
	result, err := e.parser.Parse(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("extractor: %s: %w", path, err)
	}

	module := domain.NewModule(moduleNameFromPath(path), path)
	v := &fileVisitor{module: module, source: source, path: path}
	v.visitBlock(result.RootNode, "")
	return module, nil
}

// moduleNameFromPath derives a Rust module path fragment from a file path,
// e.g. "src/auth/session.rs" -> "auth::session", "src/lib.rs" -> "crate",
// "src/auth/mod.rs" -> "auth".
func moduleNameFromPath(path string) string {
	base := filepath.Base(path)
	dir := filepath.Dir(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	segments := strings.Split(filepath.ToSlash(dir), "/")
	var parts []string
	for _, s := range segments {
		if s == "" || s == "." || s == "src" {
			continue
		}
		parts = append(parts, s)
	}

	switch name {
	case "lib", "main":
		// crate root
	case "mod":
		// directory-named module, dir already supplies the name
	default:
		parts = append(parts, name)
	}

	if len(parts) == 0 {
		return "crate"
	}
	return strings.Join(parts, "::")
}

// fileVisitor carries per-file extraction state while walking the tree.
type fileVisitor struct {
	module *domain.Module
	source []byte
	path   string
}

func (v *fileVisitor) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(v.source)
}

func (v *fileVisitor) location(n *sitter.Node) domain.Location {
	return domain.Location{File: v.path, Line: int(n.StartPoint().Row) + 1}
}

// visitBlock walks the direct named children of a block-like node (a
// source_file or a mod_item's declaration_list), dispatching each item.
// currentModPath is the dotted mod-nesting prefix for nested `mod` blocks.
func (v *fileVisitor) visitBlock(node *sitter.Node, currentModPath string) {
	if node == nil {
		return
	}
	count := int(node.NamedChildCount())
	for i := 0; i < count; i++ {
		child := node.NamedChild(i)
		v.visitItem(child, currentModPath)
	}
}

func (v *fileVisitor) visitItem(node *sitter.Node, modPath string) {
	switch node.Type() {
	case parser.NodeUseDecl:
		v.visitUseDecl(node)
	case parser.NodeStructItem:
		v.visitStructItem(node)
	case parser.NodeEnumItem:
		v.visitEnumItem(node)
	case parser.NodeUnionItem:
		v.visitStructItem(node)
	case parser.NodeTraitItem:
		v.visitTraitItem(node)
	case parser.NodeImplItem:
		v.visitImplItem(node)
	case parser.NodeFunctionItem:
		v.visitFunctionItem(node, domain.ItemFunction)
	case parser.NodeModItem:
		body := node.ChildByFieldName("body")
		name := v.text(node.ChildByFieldName("name"))
		nested := name
		if modPath != "" {
			nested = modPath + "::" + name
		}
		v.visitBlock(body, nested)
	default:
		// const/static/type items and anything else don't carry
		// coupling-relevant dependencies beyond their declared type,
		// which is out of scope for the item registry.
	}
}

func visibilityOf(n *sitter.Node, text func(*sitter.Node) string) domain.Visibility {
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		child := n.Child(i)
		if child.Type() != parser.NodeVisibilityMod {
			continue
		}
		raw := text(child)
		switch {
		case raw == "pub":
			return domain.VisibilityPublic
		case strings.Contains(raw, "pub(crate)"):
			return domain.VisibilityPubCrate
		case strings.Contains(raw, "pub(super)"):
			return domain.VisibilityPubSuper
		case strings.HasPrefix(raw, "pub(in "):
			return domain.VisibilityPubIn
		}
		return domain.VisibilityPublic
	}
	return domain.VisibilityPrivate
}

func (v *fileVisitor) derivesSerde(node *sitter.Node) bool {
	// attribute_item siblings precede the item in the parent's child list;
	// tree-sitter-rust attaches them as previous siblings, not children.
	prev := node.PrevSibling()
	for prev != nil {
		if prev.Type() != parser.NodeAttributeItem {
			break
		}
		raw := v.text(prev)
		if strings.Contains(raw, "derive") && (strings.Contains(raw, "Serialize") || strings.Contains(raw, "Deserialize")) {
			return true
		}
		prev = prev.PrevSibling()
	}
	return false
}

func (v *fileVisitor) visitUseDecl(node *sitter.Node) {
	raw := strings.TrimSpace(v.text(node))
	raw = strings.TrimPrefix(raw, "pub")
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "use ")
	raw = strings.TrimSuffix(raw, ";")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return
	}

	root := firstPathSegment(raw)
	targetModule := ""
	internal := root == "crate" || root == "self" || root == "super"
	if internal {
		v.module.InternalDeps = append(v.module.InternalDeps, raw)
		targetModule = strings.TrimSuffix(raw, "::*")
	} else {
		v.module.ExternalDeps = append(v.module.ExternalDeps, raw)
	}

	v.module.ItemDeps = append(v.module.ItemDeps, domain.ItemDependency{
		SourceName:   v.module.Name,
		SourceKind:   domain.ItemModule,
		Target:       raw,
		TargetModule: targetModule,
		DepType:      domain.DepImport,
		Location:     v.location(node),
		Expression:   raw,
	})
}

func firstPathSegment(path string) string {
	path = strings.TrimPrefix(path, "{")
	if idx := strings.Index(path, "::"); idx >= 0 {
		return path[:idx]
	}
	if idx := strings.IndexAny(path, "{,"); idx >= 0 {
		return path[:idx]
	}
	return path
}

func (v *fileVisitor) visitStructItem(node *sitter.Node) {
	name := v.text(node.ChildByFieldName("name"))
	if name == "" {
		return
	}
	vis := visibilityOf(node, v.text)

	def := &domain.TypeDefinition{
		Name:           name,
		Visibility:     vis,
		HasSerdeDerive: v.derivesSerde(node),
	}

	body := node.ChildByFieldName("body")
	if body != nil {
		switch body.Type() {
		case parser.NodeFieldDeclList:
			fieldCount := 0
			for i := 0; i < int(body.NamedChildCount()); i++ {
				field := body.NamedChild(i)
				if field.Type() != parser.NodeFieldDecl {
					continue
				}
				fieldCount++
				if visibilityOf(field, v.text) == domain.VisibilityPublic {
					def.PublicFieldCount++
				}
				v.collectTypeUsage(field.ChildByFieldName("type"), name, domain.ItemStruct, domain.DepTypeUsage)
			}
			def.TotalFieldCount = fieldCount
		case parser.NodeOrderedFieldDecl:
			def.TotalFieldCount = int(body.NamedChildCount())
			if def.TotalFieldCount == 1 {
				def.IsNewtype = true
				def.NewtypeInner = v.text(body.NamedChild(0))
			}
		}
	}

	v.module.Types[name] = def
}

func (v *fileVisitor) visitEnumItem(node *sitter.Node) {
	name := v.text(node.ChildByFieldName("name"))
	if name == "" {
		return
	}
	v.module.Types[name] = &domain.TypeDefinition{
		Name:           name,
		Visibility:     visibilityOf(node, v.text),
		HasSerdeDerive: v.derivesSerde(node),
	}

	variantList := node.ChildByFieldName("body")
	if variantList == nil || variantList.Type() != parser.NodeEnumVariantList {
		return
	}
	for i := 0; i < int(variantList.NamedChildCount()); i++ {
		variant := variantList.NamedChild(i)
		if variant.Type() != parser.NodeEnumVariant {
			continue
		}
		payload := variant.ChildByFieldName("body")
		if payload == nil {
			continue // unit variant: no payload type to depend on
		}
		switch payload.Type() {
		case parser.NodeFieldDeclList:
			for j := 0; j < int(payload.NamedChildCount()); j++ {
				field := payload.NamedChild(j)
				if field.Type() != parser.NodeFieldDecl {
					continue
				}
				v.collectTypeUsage(field.ChildByFieldName("type"), name, domain.ItemEnum, domain.DepTypeUsage)
			}
		case parser.NodeOrderedFieldDecl:
			for j := 0; j < int(payload.NamedChildCount()); j++ {
				v.collectTypeUsage(payload.NamedChild(j), name, domain.ItemEnum, domain.DepTypeUsage)
			}
		}
	}
}

func (v *fileVisitor) visitTraitItem(node *sitter.Node) {
	name := v.text(node.ChildByFieldName("name"))
	if name == "" {
		return
	}
	v.module.Types[name] = &domain.TypeDefinition{
		Name:       name,
		Visibility: visibilityOf(node, v.text),
		IsTrait:    true,
	}

	body := node.ChildByFieldName("body")
	if body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			child := body.NamedChild(i)
			if child.Type() == parser.NodeFunctionItem {
				v.visitFunctionItem(child, domain.ItemMethod)
			}
		}
	}
}

func (v *fileVisitor) visitImplItem(node *sitter.Node) {
	typeNode := node.ChildByFieldName("type")
	traitNode := node.ChildByFieldName("trait")
	typeName := v.text(typeNode)
	if typeName == "" {
		return
	}

	if traitNode != nil {
		v.module.TraitImplCount++
		traitName := v.text(traitNode)
		v.module.ItemDeps = append(v.module.ItemDeps, domain.ItemDependency{
			SourceName: typeName,
			SourceKind: domain.ItemImpl,
			Target:     traitName,
			DepType:    domain.DepTraitImpl,
			Location:   v.location(node),
			Expression: fmt.Sprintf("impl %s for %s", traitName, typeName),
		})
	} else {
		v.module.InherentImplCount++
		v.module.ItemDeps = append(v.module.ItemDeps, domain.ItemDependency{
			SourceName: typeName,
			SourceKind: domain.ItemImpl,
			Target:     typeName,
			DepType:    domain.DepInherentImpl,
			Location:   v.location(node),
		})
	}
	v.module.TypeUseCount++

	body := node.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		if child.Type() == parser.NodeFunctionItem {
			v.visitMethod(child, typeName)
		}
	}
}

func (v *fileVisitor) visitFunctionItem(node *sitter.Node, kind domain.ItemKind) {
	name := v.text(node.ChildByFieldName("name"))
	if name == "" {
		return
	}
	v.recordFunction(node, name, kind, name)
}

func (v *fileVisitor) visitMethod(node *sitter.Node, receiverType string) {
	name := v.text(node.ChildByFieldName("name"))
	if name == "" {
		return
	}
	qualified := receiverType + "::" + name
	v.recordFunction(node, qualified, domain.ItemMethod, qualified)
}

// recordFunction builds a FunctionDefinition and walks the function body for
// item-level dependencies attributed to sourceName.
func (v *fileVisitor) recordFunction(node *sitter.Node, registryKey string, kind domain.ItemKind, sourceName string) {
	vis := visibilityOf(node, v.text)
	def := &domain.FunctionDefinition{
		Name:       registryKey,
		Visibility: vis,
	}

	params := node.ChildByFieldName("parameters")
	if params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			p := params.NamedChild(i)
			if p.Type() == parser.NodeSelfParameter {
				continue
			}
			typeNode := p.ChildByFieldName("type")
			if typeNode == nil {
				continue
			}
			typeText := v.text(typeNode)
			def.ParamCount++
			def.ParamTypes = append(def.ParamTypes, typeText)
			if domain.IsPrimitiveParamType(typeText) {
				def.PrimitiveParamCount++
			}
			v.collectTypeUsage(typeNode, sourceName, kind, domain.DepFunctionParam)
		}
	}

	retType := node.ChildByFieldName("return_type")
	if retType != nil {
		v.collectTypeUsage(retType, sourceName, kind, domain.DepReturnType)
	}

	typeParams := node.ChildByFieldName("type_parameters")
	if typeParams != nil {
		v.collectTraitBounds(typeParams, sourceName, kind)
	}

	v.module.Functions[registryKey] = def

	body := node.ChildByFieldName("body")
	if body != nil {
		v.walkExpr(body, sourceName, kind)
	}
}

// collectTypeUsage records a DepType item dependency for every named type
// identifier reachable under a type annotation (so Vec<Foo> or Option<Bar>
// contribute Foo/Bar, not the generic wrapper).
func (v *fileVisitor) collectTypeUsage(node *sitter.Node, sourceName string, kind domain.ItemKind, depType domain.ItemDepType) {
	if node == nil {
		return
	}
	walkNamed(node, func(n *sitter.Node) bool {
		switch n.Type() {
		case parser.NodeTypeIdentifier, parser.NodeScopedTypeIdent:
			name := v.text(n)
			if name == "" || domain.IsPrimitiveParamType(name) {
				return true
			}
			v.module.ItemDeps = append(v.module.ItemDeps, domain.ItemDependency{
				SourceName: sourceName,
				SourceKind: kind,
				Target:     lastSegment(name),
				DepType:    depType,
				Location:   v.location(n),
				Expression: name,
			})
		}
		return true
	})
}

func (v *fileVisitor) collectTraitBounds(node *sitter.Node, sourceName string, kind domain.ItemKind) {
	walkNamed(node, func(n *sitter.Node) bool {
		if n.Type() == parser.NodeTraitBound {
			name := lastSegment(v.text(n))
			if name != "" {
				v.module.ItemDeps = append(v.module.ItemDeps, domain.ItemDependency{
					SourceName: sourceName,
					SourceKind: kind,
					Target:     name,
					DepType:    domain.DepTraitBound,
					Location:   v.location(n),
					Expression: v.text(n),
				})
			}
		}
		return true
	})
}

// walkExpr walks a function body, recording method calls, function calls,
// field accesses, and struct construction sites. It recurses into every
// named child, including nested function, impl and struct items and
// closures, so references found inside them are attributed to sourceName.
func (v *fileVisitor) walkExpr(node *sitter.Node, sourceName string, kind domain.ItemKind) {
	if node == nil {
		return
	}

	switch node.Type() {
	case parser.NodeCallExpr:
		v.visitCallExpr(node, sourceName, kind)
	case parser.NodeFieldExpr:
		v.visitFieldExpr(node, sourceName, kind)
	case parser.NodeStructExpr:
		v.visitStructExpr(node, sourceName, kind)
	}

	count := int(node.NamedChildCount())
	for i := 0; i < count; i++ {
		v.walkExpr(node.NamedChild(i), sourceName, kind)
	}
}

func (v *fileVisitor) visitCallExpr(node *sitter.Node, sourceName string, kind domain.ItemKind) {
	callee := node.ChildByFieldName("function")
	if callee == nil {
		return
	}

	switch callee.Type() {
	case parser.NodeFieldExpr:
		// method call: obj.method(...)
		field := callee.ChildByFieldName("field")
		methodName := v.text(field)
		if methodName == "" {
			return
		}
		v.module.ItemDeps = append(v.module.ItemDeps, domain.ItemDependency{
			SourceName: sourceName,
			SourceKind: kind,
			Target:     methodName,
			DepType:    domain.DepMethodCall,
			Location:   v.location(node),
			Expression: v.text(node),
		})
		// The receiver expression itself is walked independently by walkExpr's
		// recursion into this node's children, so field-access-as-value (not
		// as a call) is still captured for plain field reads.
	case parser.NodeIdentifier, parser.NodeScopedIdentifier:
		full := v.text(callee)
		last := lastSegment(full)
		if last == "" {
			return
		}
		firstRune := rune(last[0])
		depType := domain.DepFunctionCall
		if firstRune >= 'A' && firstRune <= 'Z' {
			// PascalCase callee of a call expression is a tuple-struct or
			// enum-variant constructor, e.g. Wrapper(x) or Some(x).
			depType = domain.DepStructConstruction
		}
		// Keep the qualifying prefix on scoped paths (b::do_something) so the
		// aggregator can resolve the target module; a bare identifier has no
		// prefix to keep.
		target := full
		if callee.Type() == parser.NodeIdentifier {
			target = last
		}
		v.module.ItemDeps = append(v.module.ItemDeps, domain.ItemDependency{
			SourceName: sourceName,
			SourceKind: kind,
			Target:     target,
			DepType:    depType,
			Location:   v.location(node),
			Expression: v.text(node),
		})
	}
}

func (v *fileVisitor) visitFieldExpr(node *sitter.Node, sourceName string, kind domain.ItemKind) {
	parent := node.Parent()
	if parent != nil && parent.Type() == parser.NodeCallExpr && parent.ChildByFieldName("function") == node {
		// Already recorded as a method call by visitCallExpr.
		return
	}
	field := node.ChildByFieldName("field")
	fieldName := v.text(field)
	if fieldName == "" {
		return
	}
	v.module.ItemDeps = append(v.module.ItemDeps, domain.ItemDependency{
		SourceName: sourceName,
		SourceKind: kind,
		Target:     fieldName,
		DepType:    domain.DepFieldAccess,
		Location:   v.location(node),
		Expression: v.text(node),
	})
}

func (v *fileVisitor) visitStructExpr(node *sitter.Node, sourceName string, kind domain.ItemKind) {
	nameNode := node.ChildByFieldName("name")
	name := lastSegment(v.text(nameNode))
	if name == "" {
		return
	}
	v.module.ItemDeps = append(v.module.ItemDeps, domain.ItemDependency{
		SourceName: sourceName,
		SourceKind: kind,
		Target:     name,
		DepType:    domain.DepStructConstruction,
		Location:   v.location(node),
		Expression: v.text(node),
	})
}

// walkNamed walks every named descendant of node, stopping a branch when
// visit returns false.
func walkNamed(node *sitter.Node, visit func(*sitter.Node) bool) {
	if node == nil {
		return
	}
	if !visit(node) {
		return
	}
	count := int(node.NamedChildCount())
	for i := 0; i < count; i++ {
		walkNamed(node.NamedChild(i), visit)
	}
}

func lastSegment(path string) string {
	path = strings.TrimPrefix(path, "&")
	path = strings.TrimSpace(path)
	if idx := strings.LastIndex(path, "::"); idx >= 0 {
		return path[idx+2:]
	}
	return path
}
