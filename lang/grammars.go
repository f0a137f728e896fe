package lang

import (
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/css"
	"github.com/smacker/go-tree-sitter/elixir"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/hcl"
	"github.com/smacker/go-tree-sitter/html"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/kotlin"
	"github.com/smacker/go-tree-sitter/lua"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/scala"
	"github.com/smacker/go-tree-sitter/toml"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"github.com/smacker/go-tree-sitter/yaml"
)

func init() {
	register(Bash, definition{
		name:       "Bash",
		extensions: []string{".sh", ".bash"},
		queryDirs:  []string{"bash"},
		grammar:    bash.GetLanguage,
	})
	register(C, definition{
		name:       "C",
		extensions: []string{".c", ".h"},
		queryDirs:  []string{"c"},
		grammar:    c.GetLanguage,
	})
	register(CPP, definition{
		name:       "C++",
		extensions: []string{".cpp", ".cc", ".cxx", ".c++", ".hpp", ".hh", ".hxx", ".h++"},
		queryDirs:  []string{"cpp"},
		grammar:    cpp.GetLanguage,
	})
	register(CSharp, definition{
		name:       "C#",
		extensions: []string{".cs"},
		queryDirs:  []string{"c_sharp", "csharp"},
		grammar:    csharp.GetLanguage,
	})
	register(CSS, definition{
		name:       "CSS",
		extensions: []string{".css"},
		queryDirs:  []string{"css"},
		grammar:    css.GetLanguage,
	})
	register(Elixir, definition{
		name:       "Elixir",
		extensions: []string{".ex", ".exs"},
		queryDirs:  []string{"elixir"},
		grammar:    elixir.GetLanguage,
	})
	register(Go, definition{
		name:       "Go",
		extensions: []string{".go"},
		queryDirs:  []string{"go"},
		grammar:    golang.GetLanguage,
	})
	register(HCL, definition{
		name:       "HCL",
		extensions: []string{".hcl", ".tf", ".tfvars"},
		queryDirs:  []string{"hcl"},
		grammar:    hcl.GetLanguage,
	})
	register(HTML, definition{
		name:       "HTML",
		extensions: []string{".html", ".htm"},
		queryDirs:  []string{"html"},
		grammar:    html.GetLanguage,
	})
	register(Java, definition{
		name:       "Java",
		extensions: []string{".java"},
		queryDirs:  []string{"java"},
		grammar:    java.GetLanguage,
	})
	register(JavaScript, definition{
		name:       "JavaScript",
		extensions: []string{".js", ".mjs", ".cjs", ".jsx"},
		queryDirs:  []string{"javascript"},
		grammar:    javascript.GetLanguage,
	})
	register(Kotlin, definition{
		name:       "Kotlin",
		extensions: []string{".kt", ".kts"},
		queryDirs:  []string{"kotlin"},
		grammar:    kotlin.GetLanguage,
	})
	register(Lua, definition{
		name:       "Lua",
		extensions: []string{".lua"},
		queryDirs:  []string{"lua"},
		grammar:    lua.GetLanguage,
	})
	register(PHP, definition{
		name:       "PHP",
		extensions: []string{".php"},
		queryDirs:  []string{"php"},
		grammar:    php.GetLanguage,
	})
	register(Python, definition{
		name:       "Python",
		extensions: []string{".py", ".pyi"},
		queryDirs:  []string{"python"},
		grammar:    python.GetLanguage,
	})
	register(Ruby, definition{
		name:       "Ruby",
		extensions: []string{".rb"},
		queryDirs:  []string{"ruby"},
		grammar:    ruby.GetLanguage,
	})
	register(Rust, definition{
		name:       "Rust",
		extensions: []string{".rs"},
		queryDirs:  []string{"rust"},
		grammar:    rust.GetLanguage,
	})
	register(Scala, definition{
		name:       "Scala",
		extensions: []string{".scala", ".sc"},
		queryDirs:  []string{"scala"},
		grammar:    scala.GetLanguage,
	})
	register(TOML, definition{
		name:       "TOML",
		extensions: []string{".toml"},
		queryDirs:  []string{"toml"},
		grammar:    toml.GetLanguage,
	})
	register(TSX, definition{
		name:       "TSX",
		extensions: []string{".tsx"},
		queryDirs:  []string{"tsx"},
		grammar:    tsx.GetLanguage,
	})
	register(TypeScript, definition{
		name:       "TypeScript",
		extensions: []string{".ts", ".mts", ".cts"},
		queryDirs:  []string{"typescript"},
		grammar:    typescript.GetLanguage,
	})
	register(YAML, definition{
		name:       "YAML",
		extensions: []string{".yaml", ".yml"},
		queryDirs:  []string{"yaml"},
		grammar:    yaml.GetLanguage,
	})
}
