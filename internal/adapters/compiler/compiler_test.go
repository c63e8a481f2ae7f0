package compiler_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/mono/internal/adapters/compiler"
	"go.trai.ch/mono/internal/adapters/resolver"
	"go.trai.ch/mono/internal/core/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// workspace builds a two-package project: state exports the surface that
// view imports through the project scope.
func workspace(t *testing.T) (*domain.ProjectConfig, *domain.Registry) {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "state", "src", "state.ts"), `import {helper} from "tslib"
export const version = "1.0"
export class EditorState {
  constructor() {}
}
export type Extension = unknown
`)
	writeFile(t, filepath.Join(root, "view", "src", "index.ts"), `import {EditorState} from "@mono/state"
import type {Extension} from "@mono/state"
import {draw} from "./draw"
export class EditorView {
  state = new EditorState()
}
`)
	writeFile(t, filepath.Join(root, "view", "src", "draw.ts"), `export function draw() {}
`)

	cfg := &domain.ProjectConfig{
		Root:     root,
		Scope:    "@mono",
		Packages: []string{"state", "view"},
		Compiler: domain.CompilerOptions{
			OutDir:      domain.DefaultOutDirName,
			SourceMap:   true,
			Declaration: true,
			Helper:      domain.DefaultHelper,
		},
	}
	registry := domain.NewRegistry([]domain.Package{
		{Name: "state", Dir: filepath.Join(root, "state"), MainEntry: filepath.Join(root, "state", "src", "state.ts")},
		{Name: "view", Dir: filepath.Join(root, "view"), MainEntry: filepath.Join(root, "view", "src", "index.ts")},
	})
	return cfg, registry
}

func newCompiler(cfg *domain.ProjectConfig, registry *domain.Registry) *compiler.Compiler {
	res := resolver.NewSiblingResolver(registry, cfg.Scope, resolver.NewDefaultResolver())
	return compiler.New(cfg, registry, res)
}

func TestCompileCleanProjectEmits(t *testing.T) {
	cfg, registry := workspace(t)

	result, err := newCompiler(cfg, registry).Compile(context.Background())
	require.NoError(t, err)
	require.False(t, result.Failed())
	require.Empty(t, result.Diagnostics)

	outRoot := filepath.Join(cfg.Root, domain.DefaultOutDirName)
	for _, rel := range []string{
		filepath.Join("state", "src", "state.js"),
		filepath.Join("state", "src", "state.d.ts"),
		filepath.Join("view", "src", "index.js"),
		filepath.Join("view", "src", "index.d.ts"),
		filepath.Join("view", "src", "draw.js"),
	} {
		require.FileExists(t, filepath.Join(outRoot, rel))
	}

	code, err := os.ReadFile(filepath.Join(outRoot, "view", "src", "index.js"))
	require.NoError(t, err)
	require.NotContains(t, string(code), "import type")
	require.Contains(t, string(code), `import {EditorState} from "@mono/state"`)

	decl, err := os.ReadFile(filepath.Join(outRoot, "state", "src", "state.d.ts"))
	require.NoError(t, err)
	require.Contains(t, string(decl), "export declare const version;")
	require.Contains(t, string(decl), "export declare class EditorState;")
	require.Contains(t, string(decl), "export type Extension = unknown")
}

func TestCompileMissingExportedMemberStillEmits(t *testing.T) {
	cfg, registry := workspace(t)
	writeFile(t, filepath.Join(cfg.Root, "view", "src", "index.ts"), `import {EditorState, Missing} from "@mono/state"
export class EditorView {}
`)

	result, err := newCompiler(cfg, registry).Compile(context.Background())
	require.NoError(t, err)
	require.False(t, result.Failed())
	require.True(t, result.HasErrors())
	require.Len(t, result.Diagnostics, 1)
	require.Contains(t, result.Diagnostics[0].Message, `no exported member "Missing"`)
	require.Equal(t, "view/src/index.ts", result.Diagnostics[0].File)
	require.Equal(t, 1, result.Diagnostics[0].Line)

	require.FileExists(t, filepath.Join(cfg.Root, domain.DefaultOutDirName, "view", "src", "index.js"))
}

func TestCompileUnresolvedModuleSkipsEmit(t *testing.T) {
	cfg, registry := workspace(t)
	writeFile(t, filepath.Join(cfg.Root, "view", "src", "index.ts"), `import {x} from "./nowhere"
export class EditorView {}
`)

	result, err := newCompiler(cfg, registry).Compile(context.Background())
	require.NoError(t, err)
	require.True(t, result.Failed())
	require.True(t, result.EmitSkipped)
	require.Contains(t, result.Diagnostics[0].Message, `cannot resolve module "./nowhere"`)
	require.Empty(t, result.EmittedFiles)
}

func TestCompileUnresolvedScopedSpecifierSkipsEmit(t *testing.T) {
	cfg, registry := workspace(t)
	writeFile(t, filepath.Join(cfg.Root, "view", "src", "index.ts"), `import {x} from "@mono/ghost"
export class EditorView {}
`)

	result, err := newCompiler(cfg, registry).Compile(context.Background())
	require.NoError(t, err)
	require.True(t, result.Failed())
}

func TestCompileBareSpecifierIsExternal(t *testing.T) {
	cfg, registry := workspace(t)
	writeFile(t, filepath.Join(cfg.Root, "view", "src", "index.ts"), `import {debounce} from "lodash"
export class EditorView {}
`)

	result, err := newCompiler(cfg, registry).Compile(context.Background())
	require.NoError(t, err)
	require.False(t, result.Failed())
	require.Empty(t, result.Diagnostics)
}

func TestCompileExplicitFileListOverridesRegistry(t *testing.T) {
	cfg, registry := workspace(t)
	cfg.Compiler.Files = []string{filepath.Join("view", "src", "draw.ts")}

	result, err := newCompiler(cfg, registry).Compile(context.Background())
	require.NoError(t, err)
	require.False(t, result.Failed())
	require.Len(t, result.EmittedFiles, 2)
}

func TestInvalidatePicksUpChangedFile(t *testing.T) {
	cfg, registry := workspace(t)
	c := newCompiler(cfg, registry)

	result, err := c.Compile(context.Background())
	require.NoError(t, err)
	require.False(t, result.Failed())

	statePath := filepath.Join(cfg.Root, "state", "src", "state.ts")
	writeFile(t, statePath, `export const version = "2.0"
`)

	// Without invalidation the cached parse still shows EditorState.
	result, err = c.Compile(context.Background())
	require.NoError(t, err)
	require.Empty(t, result.Diagnostics)

	c.Invalidate([]string{statePath})
	result, err = c.Compile(context.Background())
	require.NoError(t, err)
	require.True(t, result.HasErrors())
	require.Contains(t, result.Diagnostics[0].Message, `no exported member "EditorState"`)
}

func TestCompileNoBuildablePackagesFails(t *testing.T) {
	cfg, _ := workspace(t)
	registry := domain.NewRegistry([]domain.Package{
		{Name: "data-icons", Dir: filepath.Join(cfg.Root, "data-icons")},
	})

	_, err := newCompiler(cfg, registry).Compile(context.Background())
	require.ErrorIs(t, err, domain.ErrNoPackagesDeclared)
}

func TestCompileCancelledContext(t *testing.T) {
	cfg, registry := workspace(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newCompiler(cfg, registry).Compile(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
