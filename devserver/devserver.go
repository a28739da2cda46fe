// Package devserver hosts a js/wasm build of a glint app over HTTP,
// rebuilding on source changes and reloading connected browsers.
package devserver

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gekko3d/glint"
)

type Config struct {
	Addr   string // listen address, default ":8080"
	AppDir string // directory of the main package to build, default "."
	Title  string // page title, default "glint"
	Watch  bool   // rebuild and reload browsers on source changes
}

// Server serves the generated page, the Go wasm runtime and the built
// app binary, plus a websocket endpoint browsers use for live reload.
type Server struct {
	cfg     Config
	log     glint.Logger
	builder *wasmBuilder
	hub     *reloadHub

	workDir      string
	wasmExecPath string
	index        []byte
}

func New(cfg Config, log glint.Logger) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.AppDir == "" {
		cfg.AppDir = "."
	}
	if cfg.Title == "" {
		cfg.Title = "glint"
	}

	wasmExecPath, err := locateWasmExec()
	if err != nil {
		return nil, err
	}

	index, err := renderIndex(cfg.Title, cfg.Watch)
	if err != nil {
		return nil, err
	}

	workDir, err := os.MkdirTemp("", "glint-dev-*")
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:          cfg,
		log:          log,
		builder:      newWasmBuilder(cfg.AppDir, workDir, log),
		hub:          newReloadHub(log),
		workDir:      workDir,
		wasmExecPath: wasmExecPath,
		index:        index,
	}, nil
}

// Run builds the app, serves it, and blocks until ctx is canceled or
// the listener fails. A failed build is reported and served as-is so a
// fix can be picked up by the watcher without restarting.
func (s *Server) Run(ctx context.Context) error {
	defer os.RemoveAll(s.workDir)

	if err := s.builder.Build(); err != nil {
		s.log.Errorf("Initial build failed, waiting for changes")
	}

	if s.cfg.Watch {
		watcher, err := newSourceWatcher(moduleRoot(s.cfg.AppDir), s.log)
		if err != nil {
			return err
		}
		defer watcher.Close()
		go s.rebuildLoop(ctx, watcher)
	}

	srv := &http.Server{Addr: s.cfg.Addr, Handler: s.logRequests(s.routes())}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("Serving on http://%s", displayAddr(s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Infof("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) rebuildLoop(ctx context.Context, watcher *sourceWatcher) {
	for {
		select {
		case name, ok := <-watcher.Changes():
			if !ok {
				return
			}
			s.log.Infof("Change detected: %s", name)
			if err := s.builder.Build(); err != nil {
				continue
			}
			s.hub.Broadcast("reload")
		case <-ctx.Done():
			return
		}
	}
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/wasm_exec.js", s.handleWasmExec)
	mux.HandleFunc("/main.wasm", s.handleWasm)
	mux.Handle("/_/reload", s.hub)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(s.index)
}

func (s *Server) handleWasmExec(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, s.wasmExecPath)
}

func (s *Server) handleWasm(w http.ResponseWriter, r *http.Request) {
	// no-store keeps reloads from resurrecting a stale binary
	w.Header().Set("Content-Type", "application/wasm")
	w.Header().Set("Cache-Control", "no-store")
	http.ServeFile(w, r, s.builder.OutPath())
}

func (s *Server) logRequests(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.Debugf("%s %s", r.Method, r.URL.Path)
		h.ServeHTTP(w, r)
	})
}

func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}
