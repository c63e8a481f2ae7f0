// Package devserver serves the workspace over HTTP for manual browser
// testing, compiling module sources on demand.
package devserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/mono/internal/adapters/compiler"
	"go.trai.ch/mono/internal/adapters/resolver"
	"go.trai.ch/mono/internal/core/domain"
	"go.trai.ch/mono/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// EnvExpose binds the server to all interfaces instead of loopback.
	EnvExpose = "MONO_DEV_EXPOSE"
	// EnvPort overrides the configured port.
	EnvPort = "MONO_DEV_PORT"

	// maxModuleDepth bounds the transitive pre-compilation walk per
	// request.
	maxModuleDepth = 16

	cacheSize       = 256
	shutdownTimeout = 3 * time.Second
)

// Server answers GET requests under the workspace root: module sources are
// compiled on demand, everything else falls back to static file serving.
type Server struct {
	cfg      *domain.ProjectConfig
	registry *domain.Registry
	logger   ports.Logger
	cache    *lru.Cache[string, string]
}

// New creates a dev server over the given workspace.
func New(cfg *domain.ProjectConfig, registry *domain.Registry, logger ports.Logger) (*Server, error) {
	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create module cache")
	}
	return &Server{cfg: cfg, registry: registry, logger: logger, cache: cache}, nil
}

// Addr returns the bind address, after applying the environment overrides.
func (s *Server) Addr() string {
	host := "127.0.0.1"
	if os.Getenv(EnvExpose) != "" {
		host = "0.0.0.0"
	}
	port := s.cfg.Server.Port
	if raw := os.Getenv(EnvPort); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil && p > 0 {
			port = p
		}
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// Start serves until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := s.Addr()
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to bind dev server"), "addr", addr)
	}

	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	s.logger.Info(fmt.Sprintf("dev server listening on http://%s/%s/", addr, s.cfg.Server.DemoDir))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Handler returns the request handler; exposed separately so tests can
// drive it without a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.serve)
	return mux
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if strings.HasPrefix(rel, "..") {
		http.NotFound(w, r)
		return
	}
	if rel == "" || rel == "." {
		// The demo directory is the landing page.
		rel = s.cfg.Server.DemoDir
	}
	full := filepath.Join(s.cfg.Root, filepath.FromSlash(rel))

	if src, ok := s.moduleSource(full); ok {
		out, err := s.compileModule(src, maxModuleDepth)
		if err != nil {
			s.logger.Error(err)
			http.Error(w, "module compilation failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		_, _ = w.Write([]byte(out))
		return
	}

	if info, err := os.Stat(full); err == nil && info.IsDir() {
		full = filepath.Join(full, "index.html")
	}
	s.serveStatic(w, r, full)
}

// serveStatic writes the file at full. http.ServeFile is unusable here: it
// redirects any request path ending in /index.html, which is exactly what
// the demo page is called.
func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request, full string) {
	f, err := os.Open(full) //nolint:gosec // Paths are validated against the workspace root
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

// moduleSource maps a requested compiled path back to the source file it
// would be compiled from. Paths that already exist on disk (built bundles
// in dist, plain assets) are never treated as modules.
func (s *Server) moduleSource(full string) (string, bool) {
	if !strings.HasSuffix(full, domain.CodeExt) {
		return "", false
	}
	if _, err := os.Stat(full); err == nil {
		return "", false
	}
	src := strings.TrimSuffix(full, domain.CodeExt) + domain.SourceExt
	if info, err := os.Stat(src); err == nil && !info.IsDir() {
		return src, true
	}
	return "", false
}

// compileModule transpiles one source file, serving repeated requests from
// an LRU keyed by path, mtime and content hash. Relative imports are
// pre-compiled into the cache up to the depth bound.
func (s *Server) compileModule(src string, depth int) (string, error) {
	info, err := os.Stat(src)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to stat module source"), "path", src)
	}
	data, err := os.ReadFile(src) //nolint:gosec // Paths are validated against the workspace root
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to read module source"), "path", src)
	}

	key := fmt.Sprintf("%s|%d|%016x", src, info.ModTime().UnixNano(), xxhash.Sum64(data))
	if out, ok := s.cache.Get(key); ok {
		return out, nil
	}

	out := s.rewriteSpecifiers(compiler.Transpile(src, data))
	s.cache.Add(key, out)

	if depth > 0 {
		s.prewarmImports(src, data, depth-1)
	}
	return out, nil
}

// prewarmImports compiles the module's relative imports ahead of the
// browser's follow-up requests. Failures here surface on the actual
// request for the broken module, not before.
func (s *Server) prewarmImports(src string, data []byte, depth int) {
	dir := filepath.Dir(src)
	for _, m := range servedSpecifierRe.FindAllStringSubmatch(string(data), -1) {
		spec := m[2]
		if !resolver.IsRelative(spec) {
			continue
		}
		dep := filepath.Join(dir, strings.TrimSuffix(strings.TrimSuffix(spec, domain.CodeExt), domain.SourceExt)+domain.SourceExt)
		if _, err := os.Stat(dep); err == nil {
			_, _ = s.compileModule(dep, depth)
		}
	}
}

var servedSpecifierRe = regexp.MustCompile(`((?:import|export)[^"'\n]*["'])([^"']+)(["'])`)

// rewriteSpecifiers maps sibling package imports to their served bundle
// paths and extends extensionless relative imports so the browser can
// request them directly.
func (s *Server) rewriteSpecifiers(out string) string {
	return servedSpecifierRe.ReplaceAllStringFunc(out, func(match string) string {
		m := servedSpecifierRe.FindStringSubmatch(match)
		spec := m[2]

		if name, ok := strings.CutPrefix(spec, s.cfg.Scope+"/"); ok && !strings.Contains(name, "/") {
			if pkg, err := s.registry.Resolve(name); err == nil && pkg.Buildable() {
				return m[1] + "/" + name + "/dist/index.js" + m[3]
			}
		}
		if resolver.IsRelative(spec) && filepath.Ext(spec) == "" {
			return m[1] + spec + domain.CodeExt + m[3]
		}
		return match
	})
}
