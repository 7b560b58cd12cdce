package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/kotlin"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/scala"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

func init() {
	Register(&Language{
		Name:       "go",
		Extensions: []string{".go"},
		Sitter:     golang.GetLanguage(),
		ScopeKinds: []string{"function_declaration", "method_declaration", "type_declaration"},
		NameOf:     goName,
	})

	Register(&Language{
		Name:       "javascript",
		Extensions: []string{".js", ".jsx", ".mjs", ".cjs"},
		Sitter:     javascript.GetLanguage(),
		ScopeKinds: []string{
			"function_declaration", "generator_function_declaration",
			"method_definition", "class_declaration",
		},
		NameOf: jsName,
	})

	Register(&Language{
		Name:       "typescript",
		Extensions: []string{".ts", ".mts", ".cts"},
		Sitter:     typescript.GetLanguage(),
		ScopeKinds: []string{
			"function_declaration", "generator_function_declaration",
			"method_definition", "class_declaration", "abstract_class_declaration",
			"interface_declaration", "enum_declaration", "internal_module",
		},
		NameOf: jsName,
	})

	Register(&Language{
		Name:       "tsx",
		Extensions: []string{".tsx"},
		Sitter:     tsx.GetLanguage(),
		ScopeKinds: []string{
			"function_declaration", "generator_function_declaration",
			"method_definition", "class_declaration", "abstract_class_declaration",
			"interface_declaration", "enum_declaration", "internal_module",
		},
		NameOf: jsName,
	})

	Register(&Language{
		Name:       "python",
		Extensions: []string{".py", ".pyi"},
		Sitter:     python.GetLanguage(),
		ScopeKinds: []string{"function_definition", "class_definition"},
		NameOf:     pythonName,
	})

	Register(&Language{
		Name:       "rust",
		Extensions: []string{".rs"},
		Sitter:     rust.GetLanguage(),
		ScopeKinds: []string{"function_item", "impl_item", "trait_item", "mod_item"},
		NameOf:     rustName,
	})

	Register(&Language{
		Name:       "java",
		Extensions: []string{".java"},
		Sitter:     java.GetLanguage(),
		ScopeKinds: []string{
			"method_declaration", "constructor_declaration",
			"class_declaration", "interface_declaration", "enum_declaration",
		},
	})

	Register(&Language{
		Name:       "c",
		Extensions: []string{".c", ".h"},
		Sitter:     c.GetLanguage(),
		ScopeKinds: []string{"function_definition"},
		NameOf:     cName,
	})

	Register(&Language{
		Name:       "cpp",
		Extensions: []string{".cpp", ".cc", ".cxx", ".hpp", ".hh"},
		Sitter:     cpp.GetLanguage(),
		ScopeKinds: []string{
			"function_definition", "class_specifier", "struct_specifier",
			"namespace_definition",
		},
		NameOf: cName,
	})

	Register(&Language{
		Name:       "csharp",
		Extensions: []string{".cs"},
		Sitter:     csharp.GetLanguage(),
		ScopeKinds: []string{
			"method_declaration", "constructor_declaration", "local_function_statement",
			"class_declaration", "interface_declaration", "struct_declaration",
			"namespace_declaration",
		},
	})

	Register(&Language{
		Name:       "ruby",
		Extensions: []string{".rb"},
		Sitter:     ruby.GetLanguage(),
		ScopeKinds: []string{"method", "singleton_method", "class", "module"},
	})

	Register(&Language{
		Name:       "kotlin",
		Extensions: []string{".kt", ".kts"},
		Sitter:     kotlin.GetLanguage(),
		ScopeKinds: []string{"function_declaration", "class_declaration", "object_declaration"},
		NameOf:     kotlinName,
	})

	Register(&Language{
		Name:       "php",
		Extensions: []string{".php"},
		Sitter:     php.GetLanguage(),
		ScopeKinds: []string{
			"function_definition", "method_declaration",
			"class_declaration", "namespace_definition",
		},
	})

	Register(&Language{
		Name:       "scala",
		Extensions: []string{".scala", ".sc"},
		Sitter:     scala.GetLanguage(),
		ScopeKinds: []string{
			"function_definition", "class_definition",
			"object_definition", "trait_definition",
		},
	})

	Register(&Language{
		Name:       "bash",
		Extensions: []string{".sh", ".bash"},
		Sitter:     bash.GetLanguage(),
		ScopeKinds: []string{"function_definition"},
	})
}

func goName(n *sitter.Node, source []byte) string {
	switch n.Type() {
	case "type_declaration":
		// The name lives on the type_spec child.
		return firstSpecName(n, source, "type_spec")
	case "const_declaration":
		return firstSpecName(n, source, "const_spec")
	case "var_declaration":
		return firstSpecName(n, source, "var_spec")
	case "short_var_declaration":
		if left := n.ChildByFieldName("left"); left != nil && left.NamedChildCount() > 0 {
			return left.NamedChild(0).Content(source)
		}
	}
	return ""
}

func firstSpecName(n *sitter.Node, source []byte, specKind string) string {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == specKind {
			return fieldName(child, source)
		}
	}
	return ""
}

func jsName(n *sitter.Node, source []byte) string {
	switch n.Type() {
	case "lexical_declaration", "variable_declaration":
		return declarationName(n, source)
	}
	return ""
}

func pythonName(n *sitter.Node, source []byte) string {
	// Plain assignments surface as expression_statement > assignment.
	stmt := n
	if stmt.Type() == "expression_statement" && stmt.NamedChildCount() > 0 {
		stmt = stmt.NamedChild(0)
	}
	if stmt.Type() == "assignment" {
		if left := stmt.ChildByFieldName("left"); left != nil && left.Type() == "identifier" {
			return left.Content(source)
		}
	}
	return ""
}

func rustName(n *sitter.Node, source []byte) string {
	switch n.Type() {
	case "impl_item":
		if t := n.ChildByFieldName("type"); t != nil {
			return t.Content(source)
		}
	case "let_declaration":
		if p := n.ChildByFieldName("pattern"); p != nil {
			return p.Content(source)
		}
	}
	return ""
}

func cName(n *sitter.Node, source []byte) string {
	switch n.Type() {
	case "function_definition", "declaration":
		return declaratorName(n, source)
	}
	return ""
}

func kotlinName(n *sitter.Node, source []byte) string {
	return firstChildOfKind(n, source, "simple_identifier", "type_identifier")
}
