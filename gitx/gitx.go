// Package gitx shells out to git for repository metadata and per-line
// blame attribution of scan results.
package gitx

import (
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"reqtrace/types"
)

// Meta resolves repository metadata for the scan root: repository root,
// HEAD commit, symbolic ref (empty when detached) and dirty state. Any
// failing query is returned as an error; callers only ask for metadata
// explicitly, so silent omission would be misleading.
func Meta(scanRoot string) (*types.RepoMeta, error) {
	repoRoot, err := runGit(scanRoot, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, err
	}

	headSHA, err := runGit(scanRoot, "rev-parse", "HEAD")
	if err != nil {
		return nil, err
	}

	headRef, err := runGit(scanRoot, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return nil, err
	}
	if headRef == "HEAD" {
		// Detached HEAD has no symbolic name.
		headRef = ""
	}

	status, err := runGit(scanRoot, "status", "--porcelain")
	if err != nil {
		return nil, err
	}

	return &types.RepoMeta{
		RepoRoot: repoRoot,
		HeadSHA:  headSHA,
		HeadRef:  headRef,
		IsDirty:  status != "",
	}, nil
}

// AddBlame attributes every occurrence in results to its last-touching
// commit. One blame query is issued per file, covering the minimal line
// range that spans all of that file's occurrences. Files that cannot be
// blamed (untracked, outside the repository) are skipped; their entries
// keep a nil Blame. The only hard failure is the scan root not being
// inside a git work tree at all.
func AddBlame(scanRoot string, results types.Result) error {
	if _, err := runGit(scanRoot, "rev-parse", "--is-inside-work-tree"); err != nil {
		return err
	}

	type lineRange struct {
		min, max int
	}
	ranges := make(map[string]lineRange)
	for _, entries := range results {
		for _, entry := range entries {
			r, ok := ranges[entry.File]
			if !ok {
				ranges[entry.File] = lineRange{min: entry.Line, max: entry.Line}
				continue
			}
			if entry.Line < r.min {
				r.min = entry.Line
			}
			if entry.Line > r.max {
				r.max = entry.Line
			}
			ranges[entry.File] = r
		}
	}

	files := make([]string, 0, len(ranges))
	for file := range ranges {
		files = append(files, file)
	}
	sort.Strings(files)

	blameByFile := make(map[string]map[int]types.BlameInfo)
	for _, file := range files {
		r := ranges[file]
		out, err := runGit(scanRoot,
			"blame", "--line-porcelain",
			"-L", fmt.Sprintf("%d,%d", r.min, r.max),
			"--", file)
		if err != nil {
			continue
		}
		blameByFile[file] = parsePorcelain(out)
	}

	for _, entries := range results {
		for _, entry := range entries {
			if byLine, ok := blameByFile[entry.File]; ok {
				if info, ok := byLine[entry.Line]; ok {
					blame := info
					entry.Blame = &blame
				}
			}
		}
	}

	return nil
}

// runGit is swapped out in tests to observe query shapes.
var runGit = run

// run executes one git command rooted at scanRoot and returns trimmed
// stdout. A non-zero exit surfaces git's stderr in the error.
func run(scanRoot string, args ...string) (string, error) {
	cmd := exec.Command("git", append([]string{"-C", scanRoot}, args...)...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("git %s: %s",
				strings.Join(args, " "),
				strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("run git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}
