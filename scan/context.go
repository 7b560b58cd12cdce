package scan

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"reqtrace/lang"
	"reqtrace/types"
)

// blockContext holds the code contexts resolved for one comment occurrence.
// All three slots are computed independently; callers interpret based on
// which are present.
type blockContext struct {
	above  *types.CodeContext
	below  *types.CodeContext
	inline *types.CodeContext
}

// extractBlockContext resolves inline, below and above context for a
// comment node.
//
// inline: the shallowest named non-comment node starting on the comment's
// first line (trailing-comment case).
//
// below: the first non-comment construct after the contiguous run of
// comment lines that contains this comment. Every marker inside a stacked
// comment block resolves to the same below node.
//
// above: the nearest non-comment construct ending strictly before the
// comment, skipping blank lines and other comments.
func extractBlockContext(comment *sitter.Node, language *lang.Language, source []byte, lines []string) blockContext {
	root := comment
	for root.Parent() != nil {
		root = root.Parent()
	}

	startRow := int(comment.StartPoint().Row)
	endRow := int(comment.EndPoint().Row)

	var ctx blockContext

	if n := nodeStartingAt(root, language, startRow); n != nil {
		ctx.inline = makeContext(n, language, source)
	}

	for row := endRow + 1; row < len(lines); row++ {
		if strings.TrimSpace(lines[row]) == "" {
			continue
		}
		if n := nodeStartingAt(root, language, row); n != nil {
			ctx.below = makeContext(n, language, source)
			break
		}
		if !rowInComment(root, language, row) {
			break
		}
	}

	for row := startRow - 1; row >= 0; row-- {
		if strings.TrimSpace(lines[row]) == "" {
			continue
		}
		if n := nodeEndingAt(root, language, row); n != nil {
			ctx.above = makeContext(n, language, source)
			break
		}
		if !rowInComment(root, language, row) {
			break
		}
	}

	return ctx
}

// extractScope climbs the comment's ancestor chain and collects enclosing
// named constructs, innermost first. Top-level comments yield nil.
func extractScope(comment *sitter.Node, language *lang.Language, source []byte) []types.ScopeItem {
	var scope []types.ScopeItem
	for n := comment.Parent(); n != nil; n = n.Parent() {
		if language.IsScopeKind(n.Type()) {
			scope = append(scope, types.ScopeItem{
				Kind: n.Type(),
				Name: language.NodeName(n, source),
			})
		}
	}
	return scope
}

func makeContext(n *sitter.Node, language *lang.Language, source []byte) *types.CodeContext {
	return &types.CodeContext{
		Kind: n.Type(),
		Name: language.NodeName(n, source),
		Text: n.Content(source),
	}
}

// nodeStartingAt returns the shallowest named non-comment node whose span
// begins on row, descending into nodes that span the row but start earlier.
func nodeStartingAt(n *sitter.Node, language *lang.Language, row int) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if int(child.EndPoint().Row) < row || int(child.StartPoint().Row) > row {
			continue
		}
		if int(child.StartPoint().Row) == row && !language.IsComment(child.Type()) {
			return child
		}
		if found := nodeStartingAt(child, language, row); found != nil {
			return found
		}
	}
	return nil
}

// nodeEndingAt returns the shallowest named non-comment node whose span
// ends on row.
func nodeEndingAt(n *sitter.Node, language *lang.Language, row int) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if int(child.EndPoint().Row) < row || int(child.StartPoint().Row) > row {
			continue
		}
		if int(child.EndPoint().Row) == row && !language.IsComment(child.Type()) {
			return child
		}
		if found := nodeEndingAt(child, language, row); found != nil {
			return found
		}
	}
	return nil
}

// rowInComment reports whether any comment node covers the given row.
func rowInComment(n *sitter.Node, language *lang.Language, row int) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if int(child.EndPoint().Row) < row || int(child.StartPoint().Row) > row {
			continue
		}
		if language.IsComment(child.Type()) {
			return true
		}
		if rowInComment(child, language, row) {
			return true
		}
	}
	return false
}
