package devserver_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mono/internal/adapters/devserver"
	"go.trai.ch/mono/internal/core/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string) {}
func (nopLogger) Warn(string) {}
func (nopLogger) Error(error) {}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newServer(t *testing.T) (*devserver.Server, string) {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "view", "src", "index.ts"), `import {EditorState} from "@mono/state"
import type {Config} from "./config"
import {draw} from "./draw"
export const view = draw(new EditorState())
`)
	writeFile(t, filepath.Join(root, "view", "src", "draw.ts"), `export function draw(s) { return s }
`)
	writeFile(t, filepath.Join(root, "demo", "index.html"), `<script type="module" src="/view/src/index.js"></script>
`)
	writeFile(t, filepath.Join(root, "state", "dist", "index.js"), `export class EditorState {}
`)

	cfg := &domain.ProjectConfig{
		Root:     root,
		Scope:    "@mono",
		Packages: []string{"state", "view"},
		Server:   domain.ServerOptions{Port: domain.DefaultServerPort, DemoDir: "demo"},
	}
	registry := domain.NewRegistry([]domain.Package{
		{Name: "state", Dir: filepath.Join(root, "state"), MainEntry: filepath.Join(root, "state", "src", "state.ts")},
		{Name: "view", Dir: filepath.Join(root, "view"), MainEntry: filepath.Join(root, "view", "src", "index.ts")},
	})

	srv, err := devserver.New(cfg, registry, nopLogger{})
	require.NoError(t, err)
	return srv, root
}

func get(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return rec.Code, string(body)
}

func TestServeModuleOnDemand(t *testing.T) {
	srv, _ := newServer(t)

	code, body := get(t, srv.Handler(), "/view/src/index.js")
	require.Equal(t, http.StatusOK, code)

	assert.Contains(t, body, `from "/state/dist/index.js"`)
	assert.Contains(t, body, `from "./draw.js"`)
	assert.NotContains(t, body, "import type")
	assert.NotContains(t, body, "@mono/state")
}

func TestServeStaticFallback(t *testing.T) {
	srv, _ := newServer(t)

	code, body := get(t, srv.Handler(), "/demo/index.html")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "<script")

	// A built bundle on disk is served as-is, never recompiled.
	code, body = get(t, srv.Handler(), "/state/dist/index.js")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "export class EditorState {}\n", body)
}

func TestServeDirectoryIndex(t *testing.T) {
	srv, _ := newServer(t)

	// Directory requests resolve to the directory's index.html, and the
	// bare root lands on the demo page.
	for _, path := range []string{"/demo/", "/demo", "/"} {
		code, body := get(t, srv.Handler(), path)
		require.Equal(t, http.StatusOK, code, "GET %s", path)
		assert.Contains(t, body, "<script", "GET %s", path)
	}

	// A directory without an index page is not listable.
	code, _ := get(t, srv.Handler(), "/view/src/")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestServeNotFound(t *testing.T) {
	srv, _ := newServer(t)

	code, _ := get(t, srv.Handler(), "/nope/missing.js")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = get(t, srv.Handler(), "/../etc/passwd")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestServeModuleCacheInvalidatesOnChange(t *testing.T) {
	srv, root := newServer(t)
	h := srv.Handler()

	_, body := get(t, h, "/view/src/draw.js")
	assert.Contains(t, body, "function draw")

	writeFile(t, filepath.Join(root, "view", "src", "draw.ts"), `export function draw(s) { return null }
`)
	_, body = get(t, h, "/view/src/draw.js")
	assert.Contains(t, body, "return null")
}

func TestAddrEnvOverrides(t *testing.T) {
	srv, _ := newServer(t)
	assert.Equal(t, "127.0.0.1:8090", srv.Addr())

	t.Setenv(devserver.EnvPort, "9001")
	assert.Equal(t, "127.0.0.1:9001", srv.Addr())

	t.Setenv(devserver.EnvExpose, "1")
	assert.Equal(t, "0.0.0.0:9001", srv.Addr())
}
