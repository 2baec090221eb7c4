package parser

// NodeType names a tree-sitter Rust grammar node kind. Extraction code
// compares sitter.Node.Type() against these constants rather than walking a
// separate normalized AST, since the Rust grammar's node shapes already map
// closely onto the concepts the coupling extractor needs.
type NodeType = string

// Items (top-level and nested declarations).
const (
	NodeSourceFile   NodeType = "source_file"
	NodeModItem      NodeType = "mod_item"
	NodeUseDecl      NodeType = "use_declaration"
	NodeStructItem   NodeType = "struct_item"
	NodeEnumItem     NodeType = "enum_item"
	NodeUnionItem    NodeType = "union_item"
	NodeTraitItem    NodeType = "trait_item"
	NodeImplItem     NodeType = "impl_item"
	NodeFunctionItem NodeType = "function_item"
	NodeConstItem    NodeType = "const_item"
	NodeStaticItem   NodeType = "static_item"
	NodeTypeItem     NodeType = "type_item"
	NodeMacroDef     NodeType = "macro_definition"
	NodeMacroInvoke  NodeType = "macro_invocation"

	NodeEnumVariantList NodeType = "enum_variant_list"
	NodeEnumVariant     NodeType = "enum_variant"
)

// Fields and parameters.
const (
	NodeFieldDecl         NodeType = "field_declaration"
	NodeFieldDeclList     NodeType = "field_declaration_list"
	NodeOrderedFieldDecl  NodeType = "ordered_field_declaration_list"
	NodeVisibilityMod     NodeType = "visibility_modifier"
	NodeParameters        NodeType = "parameters"
	NodeParameter         NodeType = "parameter"
	NodeSelfParameter     NodeType = "self_parameter"
	NodeTypeParams        NodeType = "type_parameters"
	NodeWhereClause       NodeType = "where_clause"
)

// Expressions and call sites.
const (
	NodeCallExpr        NodeType = "call_expression"
	NodeFieldExpr       NodeType = "field_expression"
	NodeMethodCallExpr  NodeType = "method_call_expression" // unused by this grammar; field_expression + call covers it
	NodeStructExpr      NodeType = "struct_expression"
	NodeIdentifier      NodeType = "identifier"
	NodeTypeIdentifier  NodeType = "type_identifier"
	NodeFieldIdentifier NodeType = "field_identifier"
	NodeScopedIdentifier NodeType = "scoped_identifier"
	NodeScopedTypeIdent NodeType = "scoped_type_identifier"
	NodeGenericType     NodeType = "generic_type"
	NodeReferenceType   NodeType = "reference_type"
	NodeTraitBound      NodeType = "trait_bound"
	NodeConstrainedType NodeType = "constrained_type_parameter"
)

// Attributes.
const (
	NodeAttributeItem NodeType = "attribute_item"
	NodeAttribute     NodeType = "attribute"
)
