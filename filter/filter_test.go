package filter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCollectReturnsRelativeSlashPaths(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.rs", "")
	write(t, dir, "sub/b.rs", "")

	files, err := Collect(dir, Options{})
	require.NoError(t, err)
	require.Equal(t, []string{"a.rs", "sub/b.rs"}, files)
}

func TestCollectSkipsIgnoreDirs(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "keep.rs", "")
	write(t, dir, "node_modules/lib.js", "")
	write(t, dir, "target/debug/out.rs", "")
	write(t, dir, ".git/config", "")

	files, err := Collect(dir, Options{})
	require.NoError(t, err)
	require.Equal(t, []string{"keep.rs"}, files)
}

func TestCollectHonorsGitignore(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, ".gitignore", "# a comment\n*.log\ngenerated/\n/rooted.rs\n!negated.log\n")
	write(t, dir, "keep.rs", "")
	write(t, dir, "debug.log", "")
	write(t, dir, "sub/deep.log", "")
	write(t, dir, "generated/g.rs", "")
	write(t, dir, "rooted.rs", "")
	write(t, dir, "sub/rooted.rs", "")

	files, err := Collect(dir, Options{})
	require.NoError(t, err)
	require.NotContains(t, files, "debug.log")
	require.NotContains(t, files, "sub/deep.log")
	require.NotContains(t, files, "generated/g.rs")
	require.NotContains(t, files, "rooted.rs")
	require.Contains(t, files, "keep.rs")
	// Anchored patterns only match at the root.
	require.Contains(t, files, "sub/rooted.rs")
}

func TestCollectLinguistVendored(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, ".gitattributes", "third_party/** linguist-vendored\nschema.gen.go linguist-generated=true\n")
	write(t, dir, "main.go", "")
	write(t, dir, "third_party/dep.go", "")
	write(t, dir, "schema.gen.go", "")

	files, err := Collect(dir, Options{})
	require.NoError(t, err)
	require.Equal(t, []string{"main.go"}, files)

	files, err = Collect(dir, Options{IncludeVendored: true, IncludeGenerated: true})
	require.NoError(t, err)
	require.Contains(t, files, "third_party/dep.go")
	require.Contains(t, files, "schema.gen.go")
}

func TestCollectSkipsSubmodules(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, ".gitmodules", "[submodule \"lib\"]\n\tpath = libs/dep\n\turl = https://example.com/dep.git\n")
	write(t, dir, "main.rs", "")
	write(t, dir, "libs/dep/inner.rs", "")

	files, err := Collect(dir, Options{})
	require.NoError(t, err)
	require.Equal(t, []string{"main.rs"}, files)

	files, err = Collect(dir, Options{IncludeSubmodules: true})
	require.NoError(t, err)
	require.Contains(t, files, "libs/dep/inner.rs")
}

func TestCollectIncludeGlobs(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.rs", "")
	write(t, dir, "b.py", "")
	write(t, dir, "sub/c.rs", "")

	files, err := Collect(dir, Options{Include: []string{"**/*.rs"}})
	require.NoError(t, err)
	require.Equal(t, []string{"a.rs", "sub/c.rs"}, files)
}

func TestCollectExcludeGlobs(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.rs", "")
	write(t, dir, "a_test.rs", "")

	files, err := Collect(dir, Options{Exclude: []string{"**/*_test.rs"}})
	require.NoError(t, err)
	require.Equal(t, []string{"a.rs"}, files)
}

func TestCollectExcludeWinsOverInclude(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.rs", "")

	files, err := Collect(dir, Options{Include: []string{"**/*.rs"}, Exclude: []string{"a.rs"}})
	require.NoError(t, err)
	require.Empty(t, files)
}

func TestCollectRejectsInvalidGlob(t *testing.T) {
	_, err := Collect(t.TempDir(), Options{Include: []string{"[unclosed"}})
	require.Error(t, err)

	_, err = Collect(t.TempDir(), Options{Exclude: []string{"[unclosed"}})
	require.Error(t, err)
}

func TestCollectMaxBytes(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "small.rs", "fn a() {}")
	write(t, dir, "large.rs", string(make([]byte, 2048)))

	files, err := Collect(dir, Options{MaxBytes: 1024})
	require.NoError(t, err)
	require.Equal(t, []string{"small.rs"}, files)
}
