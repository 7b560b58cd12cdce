package gitx

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"reqtrace/types"
)

// stubGit replaces the git runner for the duration of a test.
func stubGit(t *testing.T, fn func(root string, args ...string) (string, error)) {
	t.Helper()
	orig := runGit
	runGit = fn
	t.Cleanup(func() { runGit = orig })
}

func TestMetaShapesQueries(t *testing.T) {
	var queries [][]string
	stubGit(t, func(root string, args ...string) (string, error) {
		queries = append(queries, args)
		switch strings.Join(args, " ") {
		case "rev-parse --show-toplevel":
			return "/repo", nil
		case "rev-parse HEAD":
			return "abc123", nil
		case "rev-parse --abbrev-ref HEAD":
			return "main", nil
		case "status --porcelain":
			return " M file.go", nil
		}
		return "", fmt.Errorf("unexpected query: %v", args)
	})

	meta, err := Meta(".")
	require.NoError(t, err)
	require.Equal(t, "/repo", meta.RepoRoot)
	require.Equal(t, "abc123", meta.HeadSHA)
	require.Equal(t, "main", meta.HeadRef)
	require.True(t, meta.IsDirty)
	require.Len(t, queries, 4)
}

func TestMetaDetachedHead(t *testing.T) {
	stubGit(t, func(root string, args ...string) (string, error) {
		if strings.Join(args, " ") == "rev-parse --abbrev-ref HEAD" {
			return "HEAD", nil
		}
		return "something", nil
	})

	meta, err := Meta(".")
	require.NoError(t, err)
	require.Empty(t, meta.HeadRef)
}

func TestMetaCleanTree(t *testing.T) {
	stubGit(t, func(root string, args ...string) (string, error) {
		if strings.Join(args, " ") == "status --porcelain" {
			return "", nil
		}
		return "x", nil
	})

	meta, err := Meta(".")
	require.NoError(t, err)
	require.False(t, meta.IsDirty)
}

func TestMetaFailsOutsideRepository(t *testing.T) {
	stubGit(t, func(root string, args ...string) (string, error) {
		return "", fmt.Errorf("not a git repository")
	})

	_, err := Meta(".")
	require.Error(t, err)
}

func TestAddBlameOneQueryPerFile(t *testing.T) {
	// Markers at lines 2 and 598 of the same file must be covered by a
	// single blame query over 2,598, not one query per occurrence.
	results := types.Result{
		"REQ-1": {
			{File: "big.rs", Line: 2},
			{File: "big.rs", Line: 598},
		},
		"REQ-2": {
			{File: "big.rs", Line: 300},
		},
	}

	var blameCalls [][]string
	stubGit(t, func(root string, args ...string) (string, error) {
		if args[0] == "rev-parse" {
			return "true", nil
		}
		blameCalls = append(blameCalls, args)
		return commitA + ` 2 2 1
author Alice
author-mail <alice@example.com>
author-time 1700000000
summary change
	a
` + commitA + ` 300 300 1
	b
` + commitA + ` 598 598 1
	c`, nil
	})

	require.NoError(t, AddBlame(".", results))

	require.Len(t, blameCalls, 1)
	args := blameCalls[0]
	require.Equal(t, "blame", args[0])
	require.Contains(t, args, "--line-porcelain")
	li := indexOfArg(args, "-L")
	require.GreaterOrEqual(t, li, 0)
	require.Equal(t, "2,598", args[li+1])
	require.Equal(t, "big.rs", args[len(args)-1])

	for _, entries := range results {
		for _, entry := range entries {
			require.NotNil(t, entry.Blame, "line %d", entry.Line)
			require.Equal(t, "Alice", entry.Blame.Author)
		}
	}
}

func TestAddBlameQueriesFilesSeparately(t *testing.T) {
	results := types.Result{
		"REQ-1": {
			{File: "a.rs", Line: 1},
			{File: "b.rs", Line: 5},
		},
	}

	var blamedFiles []string
	stubGit(t, func(root string, args ...string) (string, error) {
		if args[0] == "rev-parse" {
			return "true", nil
		}
		blamedFiles = append(blamedFiles, args[len(args)-1])
		return "", nil
	})

	require.NoError(t, AddBlame(".", results))
	require.Equal(t, []string{"a.rs", "b.rs"}, blamedFiles)
}

func TestAddBlameSkipsFailingFiles(t *testing.T) {
	results := types.Result{
		"REQ-1": {
			{File: "tracked.rs", Line: 1},
			{File: "untracked.rs", Line: 1},
		},
	}

	stubGit(t, func(root string, args ...string) (string, error) {
		if args[0] == "rev-parse" {
			return "true", nil
		}
		if args[len(args)-1] == "untracked.rs" {
			return "", fmt.Errorf("no such path in HEAD")
		}
		return commitA + ` 1 1 1
author Alice
	code`, nil
	})

	require.NoError(t, AddBlame(".", results))

	for _, entry := range results["REQ-1"] {
		switch entry.File {
		case "tracked.rs":
			require.NotNil(t, entry.Blame)
		case "untracked.rs":
			require.Nil(t, entry.Blame)
		}
	}
}

func TestAddBlameFailsOutsideWorkTree(t *testing.T) {
	stubGit(t, func(root string, args ...string) (string, error) {
		return "", fmt.Errorf("not a git repository")
	})

	err := AddBlame(".", types.Result{"REQ-1": {{File: "a.rs", Line: 1}}})
	require.Error(t, err)
}

func TestAddBlameEmptyResults(t *testing.T) {
	var blameCalls int
	stubGit(t, func(root string, args ...string) (string, error) {
		if args[0] == "blame" {
			blameCalls++
		}
		return "true", nil
	})

	require.NoError(t, AddBlame(".", types.Result{}))
	require.Zero(t, blameCalls)
}

// TestAddBlameAgainstRealRepository exercises the full path against an
// actual git repository when git is available.
func TestAddBlameAgainstRealRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	git := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=Test Author",
			"GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=Test Author",
			"GIT_COMMITTER_EMAIL=test@example.com",
		)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v: %s", args, out)
	}

	git("init")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.rs"),
		[]byte("/// REQ-1: traced\nfn main() {}\n"), 0o644))
	git("add", "a.rs")
	git("commit", "-m", "add traced function")

	results := types.Result{"REQ-1": {{File: "a.rs", Line: 1}}}
	require.NoError(t, AddBlame(dir, results))

	blame := results["REQ-1"][0].Blame
	require.NotNil(t, blame)
	require.Equal(t, "Test Author", blame.Author)
	require.Equal(t, "test@example.com", blame.AuthorMail)
	require.Equal(t, "add traced function", blame.Summary)
	require.Len(t, blame.Commit, 40)

	meta, err := Meta(dir)
	require.NoError(t, err)
	require.Equal(t, blame.Commit, meta.HeadSHA)
	require.False(t, meta.IsDirty)
}

func indexOfArg(args []string, want string) int {
	for i, a := range args {
		if a == want {
			return i
		}
	}
	return -1
}
