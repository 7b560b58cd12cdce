// Package filter discovers candidate files under a scan root, applying
// ignore directories, gitignore patterns, linguist attributes from
// .gitattributes, submodule exclusion and user-supplied globs.
package filter

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Options configures file collection.
type Options struct {
	// IncludeVendored keeps files matched by linguist-vendored patterns.
	IncludeVendored bool

	// IncludeGenerated keeps files matched by linguist-generated patterns.
	IncludeGenerated bool

	// IncludeSubmodules descends into paths declared in .gitmodules.
	IncludeSubmodules bool

	// Include restricts results to paths matching at least one glob.
	Include []string

	// Exclude drops paths matching any glob.
	Exclude []string

	// MaxBytes skips files larger than this size. Zero means no limit.
	MaxBytes int64
}

// defaultIgnoreDirs lists directory names never worth scanning.
func defaultIgnoreDirs() map[string]struct{} {
	return map[string]struct{}{
		".git":          {},
		".hg":           {},
		".svn":          {},
		".jj":           {},
		"node_modules":  {},
		"vendor":        {},
		"dist":          {},
		"build":         {},
		"target":        {},
		".venv":         {},
		"__pycache__":   {},
		".mypy_cache":   {},
		".pytest_cache": {},
		".next":         {},
		".cache":        {},
		".turbo":        {},
		"coverage":      {},
	}
}

// Collect walks root and returns matching files as slash-separated paths
// relative to root, in deterministic walk order.
func Collect(root string, opts Options) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	if err := validateGlobs(opts.Include); err != nil {
		return nil, err
	}
	if err := validateGlobs(opts.Exclude); err != nil {
		return nil, err
	}

	ignoreDirs := defaultIgnoreDirs()
	ignored := loadGitignore(absRoot)
	attrs := loadGitattributes(absRoot)
	submodules := loadSubmodulePaths(absRoot)

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path == absRoot {
				return nil
			}
			if _, skip := ignoreDirs[d.Name()]; skip {
				return filepath.SkipDir
			}
			if !opts.IncludeSubmodules && submodules[rel] {
				return filepath.SkipDir
			}
			if ignored.matches(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if ignored.matches(rel, false) {
			return nil
		}
		if !opts.IncludeVendored && matchesAny(attrs.vendored, rel) {
			return nil
		}
		if !opts.IncludeGenerated && matchesAny(attrs.generated, rel) {
			return nil
		}
		if len(opts.Include) > 0 && !matchesAny(opts.Include, rel) {
			return nil
		}
		if matchesAny(opts.Exclude, rel) {
			return nil
		}

		if opts.MaxBytes > 0 {
			info, err := d.Info()
			if err != nil {
				// Skip files we can't stat.
				return nil
			}
			if info.Size() > opts.MaxBytes {
				return nil
			}
		}

		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

func validateGlobs(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid glob pattern %q", p)
		}
	}
	return nil
}

func matchesAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// gitattrs holds linguist patterns parsed from .gitattributes.
type gitattrs struct {
	vendored  []string
	generated []string
}

// loadGitattributes reads linguist-vendored and linguist-generated
// patterns from the root .gitattributes. A missing file yields no
// exclusions.
func loadGitattributes(root string) gitattrs {
	var attrs gitattrs
	for _, line := range readLines(filepath.Join(root, ".gitattributes")) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		pattern := strings.Fields(line)[0]
		if !doublestar.ValidatePattern(pattern) {
			continue
		}
		if strings.Contains(line, "linguist-vendored") {
			attrs.vendored = append(attrs.vendored, pattern)
		}
		if strings.Contains(line, "linguist-generated") {
			attrs.generated = append(attrs.generated, pattern)
		}
	}
	return attrs
}

// ignoreRules is a minimal root-level .gitignore: comments and negations
// are skipped, directory patterns (trailing slash) only match directories,
// and bare names match at any depth.
type ignoreRules struct {
	patterns []ignorePattern
}

type ignorePattern struct {
	glob    string
	dirOnly bool
}

func loadGitignore(root string) ignoreRules {
	var rules ignoreRules
	for _, line := range readLines(filepath.Join(root, ".gitignore")) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		dirOnly := strings.HasSuffix(line, "/")
		line = strings.TrimSuffix(line, "/")
		if strings.HasPrefix(line, "/") {
			// Anchored to the root.
			line = strings.TrimPrefix(line, "/")
		} else if !strings.Contains(line, "/") {
			// Bare names match at any depth.
			line = "**/" + line
		}
		if !doublestar.ValidatePattern(line) {
			continue
		}
		rules.patterns = append(rules.patterns, ignorePattern{glob: line, dirOnly: dirOnly})
	}
	return rules
}

func (r ignoreRules) matches(rel string, isDir bool) bool {
	for _, p := range r.patterns {
		if p.dirOnly && !isDir {
			continue
		}
		if ok, err := doublestar.Match(p.glob, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// loadSubmodulePaths reads "path = ..." entries from .gitmodules.
func loadSubmodulePaths(root string) map[string]bool {
	paths := make(map[string]bool)
	for _, line := range readLines(filepath.Join(root, ".gitmodules")) {
		line = strings.TrimSpace(line)
		key, value, ok := strings.Cut(line, "=")
		if !ok || strings.TrimSpace(key) != "path" {
			continue
		}
		paths[filepath.ToSlash(strings.TrimSpace(value))] = true
	}
	return paths
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines
}
