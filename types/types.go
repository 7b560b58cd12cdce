// Package types defines the shared data model for reqtrace.
package types

// CodeContext describes a code construct adjacent to a marker comment.
type CodeContext struct {
	// Kind is the tree-sitter node kind (e.g. "function_declaration").
	Kind string `json:"kind"`

	// Name is the declared name, when the node shape exposes one.
	Name string `json:"name,omitempty"`

	// Text is the verbatim source text of the construct.
	Text string `json:"text"`
}

// ScopeItem is one enclosing named construct of a marker occurrence.
type ScopeItem struct {
	Kind string `json:"kind"`
	Name string `json:"name,omitempty"`
}

// BlameInfo carries per-line revision metadata for a marker line.
type BlameInfo struct {
	Commit     string `json:"commit"`
	Author     string `json:"author,omitempty"`
	AuthorMail string `json:"author_mail,omitempty"`
	AuthorTime int64  `json:"author_time,omitempty"`
	Summary    string `json:"summary,omitempty"`
}

// Entry is a single occurrence of a requirement marker in a comment.
// Entries are created during scanning and are immutable afterwards, except
// for the Blame field which the attribution phase may fill in.
type Entry struct {
	// File is the path relative to the scan root, slash-separated.
	File string `json:"file"`

	// Line is the 1-indexed line where the containing comment starts.
	Line int `json:"line"`

	// CommentText is the verbatim text of the containing comment node,
	// delimiters included.
	CommentText string `json:"comment_text"`

	Above  *CodeContext `json:"above,omitempty"`
	Below  *CodeContext `json:"below,omitempty"`
	Inline *CodeContext `json:"inline,omitempty"`

	// Scope lists enclosing named constructs, innermost first.
	Scope []ScopeItem `json:"scope,omitempty"`

	Blame *BlameInfo `json:"blame,omitempty"`
}

// Result maps a slug-id (e.g. "REQ-123") to its occurrences, in file
// order and then source order. encoding/json emits map keys sorted, which
// gives the lexicographic key ordering the output formats rely on.
type Result map[string][]*Entry

// RepoMeta describes the repository the scan ran in.
type RepoMeta struct {
	RepoRoot string `json:"repo_root"`
	HeadSHA  string `json:"head_sha"`

	// HeadRef is the symbolic ref name, empty when HEAD is detached.
	HeadRef string `json:"head_ref,omitempty"`

	IsDirty bool `json:"is_dirty"`
}
