package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all coupling MCP tools with the server.
func RegisterTools(s *server.MCPServer, h *HandlerSet) {
	// Tool 1: analyze_coupling - full project coupling analysis
	s.AddTool(mcp.NewTool("analyze_coupling",
		mcp.WithDescription("Extract the dependency graph from Rust source and classify module coupling strength/distance/volatility balance, returning the full project report"),
		mcp.WithArray("paths",
			mcp.Required(),
			mcp.Description("Paths to Rust source files or directories to analyze")),
	), h.HandleAnalyzeCoupling)

	// Tool 2: coupling_hotspots - refactoring-priority ranking
	s.AddTool(mcp.NewTool("coupling_hotspots",
		mcp.WithDescription("Rank modules by refactoring priority, combining issue severity, cycle membership, and fan-in/fan-out"),
		mcp.WithArray("paths",
			mcp.Required(),
			mcp.Description("Paths to Rust source files or directories to analyze")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of modules to return (default: 20)")),
	), h.HandleHotspots)

	// Tool 3: coupling_impact - blast radius of one module
	s.AddTool(mcp.NewTool("coupling_impact",
		mcp.WithDescription("Show the blast radius of changing one module: direct/second-order dependents and dependencies, cycle membership, and risk band"),
		mcp.WithArray("paths",
			mcp.Required(),
			mcp.Description("Paths to Rust source files or directories to analyze")),
		mcp.WithString("module",
			mcp.Required(),
			mcp.Description("Module path to analyze")),
	), h.HandleImpact)

	// Tool 4: trace_item - item-level coupling trace
	s.AddTool(mcp.NewTool("trace_item",
		mcp.WithDescription("Trace one function, method, or type's item-level coupling edges to and from other items"),
		mcp.WithArray("paths",
			mcp.Required(),
			mcp.Description("Paths to Rust source files or directories to analyze")),
		mcp.WithString("item",
			mcp.Required(),
			mcp.Description("Function, method, or type name to trace")),
	), h.HandleTrace)

	// Tool 5: top_priorities - worst project-wide issues
	s.AddTool(mcp.NewTool("top_priorities",
		mcp.WithDescription("Return the worst project-wide coupling issues ranked by severity, then by ascending balance score"),
		mcp.WithArray("paths",
			mcp.Required(),
			mcp.Description("Paths to Rust source files or directories to analyze")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of issues to return (default: 10)")),
	), h.HandleTopPriorities)

	// Tool 6: health_grade - overall project grade
	s.AddTool(mcp.NewTool("health_grade",
		mcp.WithDescription("Get the project's overall coupling health grade and issue counts without the full report payload"),
		mcp.WithArray("paths",
			mcp.Required(),
			mcp.Description("Paths to Rust source files or directories to analyze")),
	), h.HandleHealthGrade)
}
