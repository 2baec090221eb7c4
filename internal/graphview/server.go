package graphview

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ludo-technologies/gocoupling/domain"
)

// Server serves the assembled Graph document and a minimal HTML shell for
// the interactive view over HTTP.
type Server struct {
	graph  domain.Graph
	engine *gin.Engine
	http   *http.Server
}

// NewServer builds a Server over an already-assembled graph document.
func NewServer(graph domain.Graph) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{graph: graph, engine: engine}

	engine.GET("/api/graph", s.handleGraph)
	engine.GET("/api/hotspots", s.handleHotspots)
	engine.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	engine.GET("/", s.handleIndex)

	return s
}

func (s *Server) handleGraph(c *gin.Context) {
	c.JSON(http.StatusOK, s.graph)
}

func (s *Server) handleHotspots(c *gin.Context) {
	type hotspotNode struct {
		Module string  `json:"module"`
		Score  float64 `json:"score"`
	}
	var out []hotspotNode
	for _, n := range s.graph.Nodes {
		if n.HealthBucket == "hot" || n.InCycle {
			out = append(out, hotspotNode{Module: n.Name, Score: 1 - n.AverageBalance})
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
}

// Serve starts the server on the given port and blocks until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, port int) error {
	s.http = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}

// indexHTML is a minimal graph viewer shell; it fetches /api/graph
// client-side, places the nodes evenly on a circle, colors nodes by health
// bucket, and draws edges red when they are in a cycle.
const indexHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Coupling Graph</title>
  <style>
    body { margin: 0; font-family: system-ui, sans-serif; background: #0b0c10; color: #eee; }
    #summary { position: fixed; top: 0; left: 0; padding: 12px; font-size: 13px; }
    svg { width: 100vw; height: 100vh; }
    text { fill: #ccc; font-size: 10px; }
  </style>
</head>
<body>
  <div id="summary">loading...</div>
  <svg id="canvas"></svg>
  <script>
    fetch('/api/graph').then(r => r.json()).then(renderGraph);

    function renderGraph(graph) {
      document.getElementById('summary').textContent =
        'grade=' + graph.summary.grade + ' modules=' + graph.summary.module_count;

      const svg = document.getElementById('canvas');
      const w = window.innerWidth, h = window.innerHeight;
      const cx = w / 2, cy = h / 2, r = Math.min(w, h) / 2 - 80;

      const positions = {};
      graph.nodes.forEach((n, i) => {
        const angle = (2 * Math.PI * i) / graph.nodes.length;
        positions[n.id] = [cx + r * Math.cos(angle), cy + r * Math.sin(angle)];
      });

      const ns = 'http://www.w3.org/2000/svg';
      graph.edges.forEach(e => {
        const a = positions[e.source], b = positions[e.target];
        if (!a || !b) return;
        const line = document.createElementNS(ns, 'line');
        line.setAttribute('x1', a[0]); line.setAttribute('y1', a[1]);
        line.setAttribute('x2', b[0]); line.setAttribute('y2', b[1]);
        line.setAttribute('stroke', e.in_cycle ? '#e44' : '#456');
        line.setAttribute('stroke-width', 1 + e.strength);
        svg.appendChild(line);
      });

      graph.nodes.forEach(n => {
        const [x, y] = positions[n.id];
        const circle = document.createElementNS(ns, 'circle');
        circle.setAttribute('cx', x); circle.setAttribute('cy', y);
        circle.setAttribute('r', 6);
        circle.setAttribute('fill', n.health_bucket === 'hot' ? '#e44' : n.health_bucket === 'watch' ? '#ea4' : '#4a4');
        svg.appendChild(circle);

        const label = document.createElementNS(ns, 'text');
        label.setAttribute('x', x + 8); label.setAttribute('y', y + 4);
        label.textContent = n.name;
        svg.appendChild(label);
      });
    }
  </script>
</body>
</html>
`
