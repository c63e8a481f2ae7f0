package resolver_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/mono/internal/adapters/resolver"
	"go.trai.ch/mono/internal/core/domain"
	"go.trai.ch/mono/internal/core/ports"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte("export {}\n"), 0o644))
}

func testRegistry(root string) *domain.Registry {
	return domain.NewRegistry([]domain.Package{
		{Name: "state", Dir: filepath.Join(root, "state"), MainEntry: filepath.Join(root, "state", "src", "state.ts")},
		{Name: "data-icons", Dir: filepath.Join(root, "data-icons")},
	})
}

func TestSiblingSpecifierResolvesToMainEntry(t *testing.T) {
	root := t.TempDir()
	r := resolver.NewSiblingResolver(testRegistry(root), "@mono", resolver.NewDefaultResolver())

	res := r.Resolve([]string{"@mono/state"}, filepath.Join(root, "view", "src", "index.ts"))
	require.Len(t, res, 1)
	require.True(t, res[0].Found)
	require.True(t, res[0].Internal)
	require.Equal(t, filepath.Join(root, "state", "src", "state.ts"), res[0].Path)
}

func TestUnknownOrDataOnlyPackageFallsThrough(t *testing.T) {
	root := t.TempDir()
	r := resolver.NewSiblingResolver(testRegistry(root), "@mono", resolver.NewDefaultResolver())

	for _, spec := range []string{"@mono/ghost", "@mono/data-icons", "@other/state", "lodash", "@mono/state/extra"} {
		res := r.Resolve([]string{spec}, filepath.Join(root, "view", "src", "index.ts"))
		require.False(t, res[0].Found, "specifier %q must not resolve", spec)
		require.False(t, res[0].Internal)
	}
}

func TestDefaultResolverProbesRelativeCandidates(t *testing.T) {
	root := t.TempDir()
	importer := filepath.Join(root, "view", "src", "index.ts")
	writeFile(t, importer)
	writeFile(t, filepath.Join(root, "view", "src", "other.ts"))
	writeFile(t, filepath.Join(root, "view", "src", "widgets", "index.ts"))

	d := resolver.NewDefaultResolver()

	res := d.Resolve([]string{"./other", "./widgets", "./missing"}, importer)
	require.True(t, res[0].Found)
	require.Equal(t, filepath.Join(root, "view", "src", "other.ts"), res[0].Path)
	require.True(t, res[1].Found)
	require.Equal(t, filepath.Join(root, "view", "src", "widgets", "index.ts"), res[1].Path)
	require.False(t, res[2].Found)
}

func TestDefaultResolverIgnoresBareSpecifiers(t *testing.T) {
	d := resolver.NewDefaultResolver()
	res := d.Resolve([]string{"lodash", "@scope/pkg"}, "/ws/view/src/index.ts")
	require.Equal(t, ports.Resolution{}, res[0])
	require.Equal(t, ports.Resolution{}, res[1])
}

func TestSiblingResolverDelegatesRelativePaths(t *testing.T) {
	root := t.TempDir()
	importer := filepath.Join(root, "state", "src", "state.ts")
	writeFile(t, importer)
	writeFile(t, filepath.Join(root, "state", "src", "change.ts"))

	r := resolver.NewSiblingResolver(testRegistry(root), "@mono", resolver.NewDefaultResolver())
	res := r.Resolve([]string{"./change"}, importer)
	require.True(t, res[0].Found)
	require.False(t, res[0].Internal)
	require.Equal(t, filepath.Join(root, "state", "src", "change.ts"), res[0].Path)
}

func TestIsRelative(t *testing.T) {
	require.True(t, resolver.IsRelative("./a"))
	require.True(t, resolver.IsRelative("../a"))
	require.False(t, resolver.IsRelative("@mono/state"))
	require.False(t, resolver.IsRelative("tslib"))
	require.False(t, resolver.IsRelative("/abs/path"))
}
