// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"

	"github.com/alnah/go-mdsite/internal/fileutil"
)

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for large notes, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/site.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(strings.ReplaceAll(p, "\\", "/"), "/go-mdsite/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForInputDirectory returns hints when the content root is missing.
func ForInputDirectory(dir string) string {
	if dir == "" {
		return format("pass the content directory as an argument or set input.dir in the config")
	}
	if fileutil.FileExists(dir) {
		return format(dir + " is a file; pass the directory that contains your notes")
	}
	return format("create " + dir + " or pass another content directory")
}

// ForStyleNotFound returns hints for style not found errors.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForDuplicateSlugs returns a hint for notes that map to the same route.
func ForDuplicateSlugs() string {
	return format("set a unique slug: in the front matter of one of the notes")
}

// ForStaticClash returns a hint for content files stored where pages are generated.
func ForStaticClash() string {
	return format("index.html and <route>/<slug>/index.html are generated; move or rename the file")
}

// ForFrontMatter returns a hint for malformed note headers.
func ForFrontMatter() string {
	return format("front matter is YAML between --- lines; dates use YYYY-MM-DD")
}

// ForUsage points at the help of a command.
func ForUsage(command string) string {
	if command == "" {
		return format("run 'mdsite help' for usage")
	}
	return format("run 'mdsite help " + command + "' for usage")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}

// Combine joins several hint texts into one hint line. Empty entries are skipped.
func Combine(texts ...string) string {
	var kept []string
	for _, t := range texts {
		t = strings.TrimPrefix(t, "\n  hint: ")
		if t != "" {
			kept = append(kept, t)
		}
	}
	return formatHints(kept)
}
