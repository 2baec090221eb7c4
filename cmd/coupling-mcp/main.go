package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ludo-technologies/gocoupling/internal/config"
	"github.com/ludo-technologies/gocoupling/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "gocoupling"
	serverVersion = "1.0.0"
)

func main() {
	// Set up logging to stderr (MCP uses stdout for JSON-RPC)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Create MCP server with tool capabilities
	server := mcpserver.NewMCPServer(
		serverName,
		serverVersion,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	)

	configPath := os.Getenv("GOCOUPLING_CONFIG")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Warning: failed to load config: %v, using defaults", err)
		cfg = config.DefaultConfig()
	}

	dependencies := mcp.NewDependencies(cfg, configPath)
	handlers := mcp.NewHandlerSet(dependencies)

	mcp.RegisterTools(server, handlers)

	log.Printf("Starting %s MCP server v%s\n", serverName, serverVersion)
	log.Println("Registered tools:")
	log.Println("  - analyze_coupling: Full project coupling analysis")
	log.Println("  - coupling_hotspots: Refactoring-priority ranking")
	log.Println("  - coupling_impact: Blast radius of one module")
	log.Println("  - trace_item: Item-level coupling trace")
	log.Println("  - top_priorities: Worst project-wide issues")
	log.Println("  - health_grade: Overall coupling health grade")
	log.Println("")
	log.Println("Server ready - waiting for MCP client connection...")

	// Start server with stdio transport
	// This blocks until the server is terminated
	if err := mcpserver.ServeStdio(server); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
