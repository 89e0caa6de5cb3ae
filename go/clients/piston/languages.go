package piston

// runtime pins a Piston language identifier to a runtime version.
type runtime struct {
	Language string
	Version  string
}

// languageMap maps our language identifiers to Piston runtimes.
var languageMap = map[string]runtime{
	"javascript": {"javascript", "18.15.0"},
	"python":     {"python", "3.10.0"},
	"java":       {"java", "15.0.2"},
	"cpp":        {"c++", "10.2.0"},
	"c":          {"c", "10.2.0"},
	"csharp":     {"csharp", "6.12.0"},
	"go":         {"go", "1.16.2"},
	"rust":       {"rust", "1.68.2"},
	"typescript": {"typescript", "5.0.3"},
	"kotlin":     {"kotlin", "1.8.20"},
	"swift":      {"swift", "5.3.3"},
	"ruby":       {"ruby", "3.0.1"},
	"php":        {"php", "8.2.3"},
}

var fileExtensions = map[string]string{
	"javascript": "js",
	"python":     "py",
	"java":       "java",
	"cpp":        "cpp",
	"c":          "c",
	"csharp":     "cs",
	"go":         "go",
	"rust":       "rs",
	"typescript": "ts",
	"kotlin":     "kt",
	"swift":      "swift",
	"ruby":       "rb",
	"php":        "php",
}

// FileExtension returns the source file extension for a language.
func FileExtension(language string) string {
	if ext, ok := fileExtensions[language]; ok {
		return ext
	}
	return "txt"
}

// SupportedLanguages lists every language the client can execute.
func SupportedLanguages() []string {
	langs := make([]string, 0, len(languageMap))
	for lang := range languageMap {
		langs = append(langs, lang)
	}
	return langs
}
