// Package scan locates requirement markers (e.g. "REQ-123") inside source
// comments and annotates each occurrence with adjacent code context and its
// enclosing scope chain.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"reqtrace/lang"
	"reqtrace/types"
)

// Options configures a scan.
type Options struct {
	// Slugs are the marker prefixes to search for (e.g. "REQ").
	Slugs []string
}

// Scan walks the given files in order and returns every marker occurrence,
// keyed by slug-id. Files are expected to be pre-filtered; paths may be
// absolute or relative to root. Files with unrecognized extensions are
// skipped silently. A file that cannot be read aborts the whole scan.
func Scan(root string, files []string, opts Options) (types.Result, error) {
	pattern, err := compilePattern(opts.Slugs)
	if err != nil {
		return nil, err
	}

	results := make(types.Result)
	for _, file := range files {
		if err := scanFile(root, file, pattern, results); err != nil {
			return nil, err
		}
	}
	return results, nil
}

type seenKey struct {
	slug string
	line int
}

func scanFile(root, path string, pattern *regexp.Regexp, results types.Result) error {
	language := lang.FromPath(path)
	if language == nil {
		return nil
	}

	abs := path
	rel := path
	if filepath.IsAbs(path) {
		if r, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(r, "..") {
			rel = r
		}
	} else {
		abs = filepath.Join(root, path)
	}
	rel = filepath.ToSlash(rel)

	p := newParser(language)
	tree, source, err := p.parseFile(abs)
	if err != nil {
		return err
	}

	lines := strings.Split(string(source), "\n")
	seen := make(map[seenKey]struct{})

	visitComments(tree.RootNode(), language, func(node *sitter.Node) {
		line := int(node.StartPoint().Row) + 1
		text := node.Content(source)

		for _, slug := range pattern.FindAllString(text, -1) {
			key := seenKey{slug: slug, line: line}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			ctx := extractBlockContext(node, language, source, lines)
			results[slug] = append(results[slug], &types.Entry{
				File:        rel,
				Line:        line,
				CommentText: text,
				Above:       ctx.above,
				Below:       ctx.below,
				Inline:      ctx.inline,
				Scope:       extractScope(node, language, source),
			})
		}
	})

	return nil
}

// visitComments walks the tree depth-first and calls fn for every comment
// node. Comment nodes are leaves, so recursion stops there.
func visitComments(n *sitter.Node, language *lang.Language, fn func(*sitter.Node)) {
	if language.IsComment(n.Type()) {
		fn(n)
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		visitComments(n.Child(i), language, fn)
	}
}

// parser wraps a tree-sitter parser for a specific language.
type parser struct {
	parser *sitter.Parser
	lang   *lang.Language
}

func newParser(language *lang.Language) *parser {
	p := sitter.NewParser()
	p.SetLanguage(language.Sitter)
	return &parser{
		parser: p,
		lang:   language,
	}
}

// parseFile reads and parses a file.
func (p *parser) parseFile(path string) (*sitter.Tree, []byte, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read file %s: %w", path, err)
	}
	return p.parser.Parse(nil, source), source, nil
}
