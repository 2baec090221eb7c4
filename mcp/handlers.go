package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ludo-technologies/gocoupling/internal/queries"
	"github.com/mark3labs/mcp-go/mcp"
)

// HandlerSet binds the shared Dependencies to each tool's Handle method.
type HandlerSet struct {
	deps *Dependencies
}

// NewHandlerSet constructs a HandlerSet over the given Dependencies.
func NewHandlerSet(deps *Dependencies) *HandlerSet {
	return &HandlerSet{deps: deps}
}

func pathsArg(args map[string]interface{}) ([]string, error) {
	raw, ok := args["paths"].([]interface{})
	if !ok || len(raw) == 0 {
		return nil, fmt.Errorf("paths parameter is required and must be a non-empty array of strings")
	}
	paths := make([]string, 0, len(raw))
	for _, p := range raw {
		s, ok := p.(string)
		if !ok {
			return nil, fmt.Errorf("paths parameter must contain only strings")
		}
		if _, err := os.Stat(s); os.IsNotExist(err) {
			return nil, fmt.Errorf("path does not exist: %s", s)
		}
		paths = append(paths, s)
	}
	return paths, nil
}

func marshalResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// HandleAnalyzeCoupling handles the analyze_coupling tool: run the full
// strength/distance/volatility pipeline over the given paths and return the
// classified project report.
func (h *HandlerSet) HandleAnalyzeCoupling(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	paths, err := pathsArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := h.deps.Analyze(ctx, paths)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("coupling analysis failed: %v", err)), nil
	}
	return marshalResult(resp)
}

// HandleHotspots handles the coupling_hotspots tool: rank modules by
// refactoring-priority score.
func (h *HandlerSet) HandleHotspots(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	paths, err := pathsArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := 20
	if l, ok := args["limit"].(float64); ok {
		limit = int(l)
	}

	resp, err := h.deps.Analyze(ctx, paths)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("coupling analysis failed: %v", err)), nil
	}
	hotspots := queries.New(resp.Metrics, resp.Report).Hotspots(limit)
	return marshalResult(hotspots)
}

// HandleImpact handles the coupling_impact tool: report the blast radius of
// changing one module.
func (h *HandlerSet) HandleImpact(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	paths, err := pathsArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	module, ok := args["module"].(string)
	if !ok || module == "" {
		return mcp.NewToolResultError("module parameter is required and must be a string"), nil
	}

	resp, err := h.deps.Analyze(ctx, paths)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("coupling analysis failed: %v", err)), nil
	}
	result, err := queries.New(resp.Metrics, resp.Report).Impact(module)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("impact query failed: %v", err)), nil
	}
	return marshalResult(result)
}

// HandleTrace handles the trace_item tool: trace one function, method, or
// type's item-level coupling edges.
func (h *HandlerSet) HandleTrace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	paths, err := pathsArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	item, ok := args["item"].(string)
	if !ok || item == "" {
		return mcp.NewToolResultError("item parameter is required and must be a string"), nil
	}

	resp, err := h.deps.Analyze(ctx, paths)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("coupling analysis failed: %v", err)), nil
	}
	result, err := queries.New(resp.Metrics, resp.Report).Trace(item)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("trace query failed: %v", err)), nil
	}
	return marshalResult(result)
}

// HandleTopPriorities handles the top_priorities tool: return the worst
// project-wide coupling issues ranked by severity, then by ascending balance.
func (h *HandlerSet) HandleTopPriorities(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	paths, err := pathsArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := 10
	if l, ok := args["limit"].(float64); ok {
		limit = int(l)
	}

	resp, err := h.deps.Analyze(ctx, paths)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("coupling analysis failed: %v", err)), nil
	}
	top := queries.New(resp.Metrics, resp.Report).TopPriorities(limit)
	return marshalResult(top)
}

// HandleHealthGrade handles the health_grade tool: return just the project's
// overall grade and issue counts, without the full report payload.
func (h *HandlerSet) HandleHealthGrade(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	paths, err := pathsArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := h.deps.Analyze(ctx, paths)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("coupling analysis failed: %v", err)), nil
	}

	summary := map[string]interface{}{
		"grade":           resp.Report.Grade,
		"module_count":    resp.Report.ModuleCount,
		"issue_count":     len(resp.Report.Issues),
		"cycle_count":     resp.Cycles.CycleCount,
		"average_balance": resp.Report.AverageBalance,
		"warnings":        resp.Warnings,
	}
	return marshalResult(summary)
}
