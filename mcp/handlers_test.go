package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/gocoupling/domain"
	"github.com/ludo-technologies/gocoupling/mcp"
	"github.com/ludo-technologies/gocoupling/service"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRust = `
pub mod core {
    pub struct Widget {
        pub name: String,
    }

    impl Widget {
        pub fn new(name: &str) -> Self {
            Widget { name: name.to_string() }
        }

        pub fn describe(&self) -> String {
            format!("widget: {}", self.name)
        }
    }
}

pub mod render {
    use crate::core::Widget;

    pub fn render(widget: &Widget) -> String {
        widget.describe()
    }
}
`

func setupRustProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib.rs"), []byte(sampleRust), 0o644))
	return dir
}

func newTestHandlerSet() *mcp.HandlerSet {
	return mcp.NewHandlerSet(mcp.NewTestDependencies(service.NewFileReader(), nil, ""))
}

func callTool(t *testing.T, handle func(context.Context, mcplib.CallToolRequest) (*mcplib.CallToolResult, error), arguments interface{}) *mcplib.CallToolResult {
	t.Helper()
	req := mcplib.CallToolRequest{Params: mcplib.CallToolParams{Arguments: arguments}}
	res, err := handle(context.Background(), req)
	require.NoError(t, err)
	return res
}

func TestHandleAnalyzeCoupling(t *testing.T) {
	h := newTestHandlerSet()

	t.Run("invalid_arguments_format", func(t *testing.T) {
		res := callTool(t, h.HandleAnalyzeCoupling, "not-a-map")
		assert.True(t, res.IsError)
	})

	t.Run("paths_missing", func(t *testing.T) {
		res := callTool(t, h.HandleAnalyzeCoupling, map[string]interface{}{})
		assert.True(t, res.IsError)
	})

	t.Run("path_not_exist", func(t *testing.T) {
		res := callTool(t, h.HandleAnalyzeCoupling, map[string]interface{}{
			"paths": []interface{}{"/non/existing/path"},
		})
		require.True(t, res.IsError)
		text := mcplib.GetTextFromContent(res.Content[0])
		assert.Contains(t, text, "does not exist")
	})

	t.Run("success", func(t *testing.T) {
		dir := setupRustProject(t)
		res := callTool(t, h.HandleAnalyzeCoupling, map[string]interface{}{
			"paths": []interface{}{dir},
		})
		require.False(t, res.IsError)
		require.NotEmpty(t, res.Content)
		text := mcplib.GetTextFromContent(res.Content[0])
		var resp domain.CouplingResponse
		require.NoError(t, json.Unmarshal([]byte(text), &resp))
		assert.GreaterOrEqual(t, resp.Report.ModuleCount, 0)
	})
}

func TestHandleHotspots(t *testing.T) {
	h := newTestHandlerSet()
	dir := setupRustProject(t)

	res := callTool(t, h.HandleHotspots, map[string]interface{}{
		"paths": []interface{}{dir},
		"limit": float64(5),
	})
	require.False(t, res.IsError)
	text := mcplib.GetTextFromContent(res.Content[0])
	var hotspots []domain.Hotspot
	require.NoError(t, json.Unmarshal([]byte(text), &hotspots))
}

func TestHandleImpact(t *testing.T) {
	h := newTestHandlerSet()
	dir := setupRustProject(t)

	t.Run("module_required", func(t *testing.T) {
		res := callTool(t, h.HandleImpact, map[string]interface{}{
			"paths": []interface{}{dir},
		})
		assert.True(t, res.IsError)
	})

	t.Run("unknown_module", func(t *testing.T) {
		res := callTool(t, h.HandleImpact, map[string]interface{}{
			"paths":  []interface{}{dir},
			"module": "does::not::exist",
		})
		require.True(t, res.IsError)
		text := mcplib.GetTextFromContent(res.Content[0])
		assert.True(t, strings.Contains(text, "impact query failed"))
	})
}

func TestHandleTrace(t *testing.T) {
	h := newTestHandlerSet()
	dir := setupRustProject(t)

	t.Run("item_required", func(t *testing.T) {
		res := callTool(t, h.HandleTrace, map[string]interface{}{
			"paths": []interface{}{dir},
		})
		assert.True(t, res.IsError)
	})

	t.Run("success", func(t *testing.T) {
		res := callTool(t, h.HandleTrace, map[string]interface{}{
			"paths": []interface{}{dir},
			"item":  "Widget",
		})
		require.False(t, res.IsError)
		text := mcplib.GetTextFromContent(res.Content[0])
		var result domain.TraceResult
		require.NoError(t, json.Unmarshal([]byte(text), &result))
		assert.Equal(t, "Widget", result.Identifier)
	})
}

func TestHandleTopPriorities(t *testing.T) {
	h := newTestHandlerSet()
	dir := setupRustProject(t)

	res := callTool(t, h.HandleTopPriorities, map[string]interface{}{
		"paths": []interface{}{dir},
	})
	require.False(t, res.IsError)
	text := mcplib.GetTextFromContent(res.Content[0])
	var top []domain.TopPriority
	require.NoError(t, json.Unmarshal([]byte(text), &top))
}

func TestHandleHealthGrade(t *testing.T) {
	h := newTestHandlerSet()
	dir := setupRustProject(t)

	res := callTool(t, h.HandleHealthGrade, map[string]interface{}{
		"paths": []interface{}{dir},
	})
	require.False(t, res.IsError)
	text := mcplib.GetTextFromContent(res.Content[0])
	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text), &summary))
	assert.Contains(t, summary, "grade")
	assert.Contains(t, summary, "module_count")
}
