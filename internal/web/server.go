// Package web serves the HTTP API and a browser page for playing against
// the AI.
package web

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/peterkuimelis/triad/internal/ai"
	"github.com/peterkuimelis/triad/internal/game"
)

//go:embed static
var staticFiles embed.FS

// Options configures a Server.
type Options struct {
	Catalog  *game.Catalog // nil uses the built-in catalog
	Rules    game.RuleConfig
	Opponent ai.Kind // default opponent for /ws matches

	MaxSuddenDeathRounds int
}

// Server is the triad web server.
type Server struct {
	opts   Options
	engine *gin.Engine
}

// ResolveRequest asks what a move would do on a given board.
type ResolveRequest struct {
	State game.StateView `json:"state"`
	Move  game.Move      `json:"move"`
}

// MoveRequest asks a strategy for the next move of the state's viewer.
type MoveRequest struct {
	State game.StateView `json:"state"`
	AI    string         `json:"ai"`
}

// NewServer creates a new web server.
func NewServer(opts Options) (*Server, error) {
	if opts.Catalog == nil {
		cat, err := game.DefaultCatalog()
		if err != nil {
			return nil, err
		}
		opts.Catalog = cat
	}
	if _, err := ai.ParseKind(string(opts.Opponent)); err != nil {
		return nil, err
	}

	s := &Server{opts: opts}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	// Embedded static files
	staticFS, _ := fs.Sub(staticFiles, "static")
	r.GET("/", func(c *gin.Context) {
		c.FileFromFS("/", http.FS(staticFS))
	})
	r.StaticFS("/static", http.FS(staticFS))

	// API endpoints
	api := r.Group("/api")
	api.GET("/cards", s.handleCards)
	api.GET("/rules", s.handleRules)
	api.POST("/resolve", s.handleResolve)
	api.POST("/ai/move", s.handleAIMove)

	// WebSocket match against the AI
	r.GET("/ws", s.handleWebSocket)

	s.engine = r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		klog.V(1).Infof("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

func (s *Server) handleCards(c *gin.Context) {
	cards := s.opts.Catalog.Cards()
	views := make([]game.CardView, len(cards))
	for i, card := range cards {
		views[i] = game.ViewOf(card)
	}
	c.JSON(http.StatusOK, views)
}

func (s *Server) handleRules(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"rules": s.opts.Rules,
		"names": s.opts.Rules.Names(),
		"ai":    ai.Kinds(),
	})
}

func (s *Server) handleResolve(c *gin.Context) {
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := req.State.Preview(req.Move)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleAIMove(c *gin.Context) {
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	kind, err := ai.ParseKind(req.AI)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mv, err := ai.DecideView(kind, req.State, nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"move": mv, "ai": kind})
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		klog.Infof("Server started on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// Graceful shutdown with 5 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	klog.Info("Shutting down server...")
	return srv.Shutdown(shutdownCtx)
}
