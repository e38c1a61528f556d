// Package preview serves a program file as a live page. The file is re-read
// on every request, so edits show up on reload.
package preview

import (
	"context"
	"errors"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pthm/axiom"
	"github.com/pthm/axiom/internal/programfile"
	"github.com/pthm/axiom/lib/generator"
)

const javascript = "application/javascript; charset=utf-8"

// Options configures a Server.
type Options struct {
	// Addr is the listen address for Run.
	Addr string
	// ProgramPath is the YAML program file rendered at /.
	ProgramPath string
	// StaticDir is served under /static when set.
	StaticDir string
	// WasmBridge always includes the bridge script. Pages with canvases get
	// it regardless.
	WasmBridge bool
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Server is the preview HTTP server.
type Server struct {
	opts   Options
	logger *zap.Logger
	engine *gin.Engine
}

// New creates a preview server.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		opts:   opts,
		logger: logger.With(zap.String("component", "preview")),
		engine: gin.New(),
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(loggingMiddleware(s.logger))

	s.engine.GET("/", s.handlePage)
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	assets := s.engine.Group("/axiom")
	{
		assets.GET("/runtime.js", func(c *gin.Context) {
			c.Data(http.StatusOK, javascript, []byte(generator.RuntimeDecoder()))
		})
		assets.GET("/bridge.js", func(c *gin.Context) {
			c.Data(http.StatusOK, javascript, []byte(generator.WasmBridge()))
		})
		assets.GET("/program.js", s.handleProgramScript)
	}

	if opts.StaticDir != "" {
		s.engine.Static("/static", opts.StaticDir)
	}

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview server listening",
			zap.String("addr", s.opts.Addr),
			zap.String("program", s.opts.ProgramPath),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down preview server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) load(c *gin.Context) (*programfile.File, axiom.Program, bool) {
	f, err := programfile.Load(s.opts.ProgramPath)
	if err == nil {
		var p axiom.Program
		p, err = f.Program()
		if err == nil {
			return f, p, true
		}
	}

	status := http.StatusInternalServerError
	if axiom.IsInvalidProgram(err) {
		status = http.StatusUnprocessableEntity
	}
	_ = c.Error(err)
	c.String(status, err.Error())
	return nil, axiom.Program{}, false
}

func (s *Server) handleProgramScript(c *gin.Context) {
	_, p, ok := s.load(c)
	if !ok {
		return
	}
	script, err := generator.ProgramScript(p)
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.Data(http.StatusOK, javascript, []byte(script))
}

func (s *Server) handlePage(c *gin.Context) {
	f, p, ok := s.load(c)
	if !ok {
		return
	}
	canvases, err := f.CanvasElements()
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusUnprocessableEntity, err.Error())
		return
	}

	parts := []templ.Component{
		templ.Raw(`<!doctype html><html><head><meta charset="utf-8"><title>` + html.EscapeString(strings.TrimSpace(f.Title)) + `</title></head><body>`),
		templ.Raw(f.HTML),
	}
	for _, cv := range canvases {
		parts = append(parts, axiom.WasmCanvas(cv))
	}
	parts = append(parts, axiom.RuntimeScript())
	if s.opts.WasmBridge || len(canvases) > 0 {
		parts = append(parts, axiom.WasmBridgeScript())
	}
	parts = append(parts, axiom.ProgramScript(p), axiom.StyleSheet(), templ.Raw("</body></html>"))

	if err := axiom.Render(c.Writer, c.Request, templ.Join(parts...)); err != nil {
		s.logger.Error("render failed", zap.Error(err))
		_ = c.Error(err)
	}
}
