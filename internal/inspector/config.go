package inspector

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// ResourceRoot is one configured resource tree. Optional roots are exempt
// from orphan reporting: a key defined under them is allowed to be unused.
type ResourceRoot struct {
	Path     string
	Optional bool
}

// ParseResourceRoot splits the "path?" optional marker off a configured root.
func ParseResourceRoot(arg string) ResourceRoot {
	if strings.HasSuffix(arg, "?") {
		return ResourceRoot{Path: strings.TrimSuffix(arg, "?"), Optional: true}
	}
	return ResourceRoot{Path: arg}
}

// Config is the core-facing configuration, populated by the CLI layer.
type Config struct {
	// BaseLanguage is the tag whose resources are the source of truth for
	// which keys exist.
	BaseLanguage string
	// ResourceExtensions and SourceExtensions gate which files are
	// considered at all, independent of language-tag matching.
	ResourceExtensions []string
	SourceExtensions   []string
	ResourceRoots      []ResourceRoot
	SourceRoots        []string
	CheckOrphaned      bool
	CheckUntranslated  bool
	// Verbosity 0-2 gates diagnostic logging only.
	Verbosity int
}

// DefaultConfig returns the documented option defaults. Roots must still be
// supplied by the caller.
func DefaultConfig() Config {
	return Config{
		BaseLanguage:       "en",
		ResourceExtensions: []string{".json", ".jsonc", ".properties", ".yaml", ".yml"},
		SourceExtensions:   []string{".js", ".jsx", ".ts", ".tsx"},
		CheckOrphaned:      true,
		CheckUntranslated:  true,
	}
}

func (c Config) validate() error {
	if c.BaseLanguage == "" {
		return fmt.Errorf("base language tag must not be empty")
	}
	if _, err := language.Parse(c.BaseLanguage); err != nil {
		return fmt.Errorf("invalid base language tag %q: %w", c.BaseLanguage, err)
	}
	if len(c.ResourceExtensions) == 0 {
		return fmt.Errorf("at least one resource extension is required")
	}
	return nil
}

// nameMatchesExtensions reports whether a file name carries one of the
// configured extensions.
func nameMatchesExtensions(name string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// displayTag renders a discovered tag in canonical BCP 47 form for
// diagnostics, falling back to the raw capture when it does not parse.
func displayTag(tag string) string {
	parsed, err := language.Parse(tag)
	if err != nil {
		return tag
	}
	return parsed.String()
}
