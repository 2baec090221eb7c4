package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ludo-technologies/gocoupling/domain"
	"github.com/ludo-technologies/gocoupling/internal/graphview"
)

// serveGraph assembles the interactive graph document from an analysis
// response and serves it until interrupted.
func serveGraph(ctx context.Context, resp *domain.CouplingResponse, port int) error {
	graph := graphview.Build(resp.Metrics, resp.Report)
	server := graphview.NewServer(graph)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "serving coupling graph at http://localhost:%d\n", port)
	return server.Serve(ctx, port)
}
