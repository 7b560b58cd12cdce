// Package lang maps file extensions to tree-sitter grammars and carries
// the per-language node taxonomy the scanner depends on: which kinds are
// comments, which kinds open a named scope, and how to find a node's name.
package lang

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Language describes one supported grammar.
type Language struct {
	// Name is the language identifier (e.g. "go", "python").
	Name string

	// Extensions lists file extensions for this language (e.g. [".go"]).
	Extensions []string

	// Sitter is the tree-sitter grammar.
	Sitter *sitter.Language

	// ScopeKinds enumerates node kinds that establish a named scope
	// (function/method, type or implementation block, module/namespace).
	ScopeKinds []string

	// NameOf overrides name resolution for node shapes that don't carry
	// a "name" field. Nil means the default field lookup is enough.
	NameOf func(n *sitter.Node, source []byte) string

	scopeSet map[string]struct{}
}

// IsComment reports whether a node kind represents a comment. Grammars
// name these consistently ("comment", "line_comment", "block_comment"),
// so a substring check covers every supported language.
func (l *Language) IsComment(kind string) bool {
	return strings.Contains(kind, "comment")
}

// IsScopeKind reports whether a node kind opens a named scope.
func (l *Language) IsScopeKind(kind string) bool {
	return l.scopeSet != nil && hasKind(l.scopeSet, kind)
}

// NodeName resolves the declared name of a node, or "" when the node
// shape has no name-bearing child.
func (l *Language) NodeName(n *sitter.Node, source []byte) string {
	if l.NameOf != nil {
		if name := l.NameOf(n, source); name != "" {
			return name
		}
	}
	return fieldName(n, source)
}

func hasKind(set map[string]struct{}, kind string) bool {
	_, ok := set[kind]
	return ok
}

// registry holds all registered languages.
var (
	registry = make(map[string]*Language)
	byExt    = make(map[string]*Language)
)

// Register adds a language to the registry. Called from init().
func Register(l *Language) {
	l.scopeSet = make(map[string]struct{}, len(l.ScopeKinds))
	for _, k := range l.ScopeKinds {
		l.scopeSet[k] = struct{}{}
	}
	registry[l.Name] = l
	for _, ext := range l.Extensions {
		byExt[ext] = l
	}
}

// Get returns a language by name, or nil if not registered.
func Get(name string) *Language {
	return registry[name]
}

// ByExtension finds a language by file extension (including the dot).
func ByExtension(ext string) *Language {
	return byExt[strings.ToLower(ext)]
}

// FromPath finds the language for a file path, or nil when the extension
// is not recognized. Unsupported files are not an error; callers skip them.
func FromPath(path string) *Language {
	return ByExtension(filepath.Ext(path))
}

// List returns all registered language names.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// fieldName reads the "name" field most grammars attach to declarations.
func fieldName(n *sitter.Node, source []byte) string {
	if child := n.ChildByFieldName("name"); child != nil {
		return child.Content(source)
	}
	return ""
}

// firstChildOfKind scans named children for one of the given kinds.
func firstChildOfKind(n *sitter.Node, source []byte, kinds ...string) string {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		for _, k := range kinds {
			if child.Type() == k {
				return child.Content(source)
			}
		}
	}
	return ""
}

// declaratorName descends "declarator" fields until it reaches an
// identifier. C and C++ bury the function name this way.
func declaratorName(n *sitter.Node, source []byte) string {
	for d := n.ChildByFieldName("declarator"); d != nil; d = d.ChildByFieldName("declarator") {
		switch d.Type() {
		case "identifier", "field_identifier", "qualified_identifier":
			return d.Content(source)
		}
	}
	return ""
}

// declarationName handles declaration statements whose name sits on a
// nested declarator child (JS/TS let/const/var and similar).
func declarationName(n *sitter.Node, source []byte) string {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "variable_declarator" {
			return fieldName(child, source)
		}
	}
	return ""
}
