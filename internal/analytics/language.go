package analytics

import (
	"path/filepath"
	"strings"
)

// languageByExt is a fixed extension-to-language lookup. Unrecognized
// extensions yield no language rather than a guess.
var languageByExt = map[string]string{
	".go":    "Go",
	".py":    "Python",
	".js":    "JavaScript",
	".jsx":   "JavaScript",
	".mjs":   "JavaScript",
	".ts":    "TypeScript",
	".tsx":   "TypeScript",
	".rb":    "Ruby",
	".java":  "Java",
	".kt":    "Kotlin",
	".swift": "Swift",
	".rs":    "Rust",
	".c":     "C",
	".h":     "C",
	".cpp":   "C++",
	".cc":    "C++",
	".hpp":   "C++",
	".cs":    "C#",
	".php":   "PHP",
	".scala": "Scala",
	".ex":    "Elixir",
	".exs":   "Elixir",
	".erl":   "Erlang",
	".lua":   "Lua",
	".sh":    "Shell",
	".bash":  "Shell",
	".sql":   "SQL",
	".html":  "HTML",
	".css":   "CSS",
	".scss":  "CSS",
	".vue":   "Vue",
	".dart":  "Dart",
	".r":     "R",
	".pl":    "Perl",
	".yaml":  "YAML",
	".yml":   "YAML",
	".json":  "JSON",
	".toml":  "TOML",
	".xml":   "XML",
	".md":    "Markdown",
	".proto": "Protobuf",
	".tf":    "Terraform",
}

// DetectLanguage maps a filename to a language name by extension, with a
// special case for bare Dockerfiles. Returns "" when unknown.
func DetectLanguage(filename string) string {
	base := filepath.Base(filename)
	if base == "Dockerfile" || strings.HasPrefix(base, "Dockerfile.") {
		return "Dockerfile"
	}

	ext := strings.ToLower(filepath.Ext(base))
	return languageByExt[ext]
}
