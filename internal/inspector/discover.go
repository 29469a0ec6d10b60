package inspector

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

// Anchor is the discovered base-language entry for one resource root,
// together with the pattern that captures the language tag of any sibling
// using the same naming convention.
type Anchor struct {
	Path    string
	Name    string
	IsDir   bool
	Pattern *regexp.Regexp
}

// tagCapture matches any plausible language tag in a sibling name: two or
// more letters, digits or hyphens.
const tagCapture = `([A-Za-z0-9-]{2,})`

// FindBaseLanguage locates the base-language resource under root and derives
// the sibling-matching pattern. It scans all entries of the current
// directory first and only recurses into subdirectories when that level has
// no match, so a shallow match always beats a deeper one. A nil anchor with
// a nil error means the base language does not exist anywhere under root.
func (run *Run) FindBaseLanguage(root string) (*Anchor, error) {
	entries, err := readDirSorted(root)
	if err != nil {
		return nil, fmt.Errorf("reading resource root %s: %w", root, err)
	}

	for _, entry := range entries {
		if entry.IsDir() && entry.Name() == dependencyCacheDir {
			continue
		}
		if anchor := run.matchBaseEntry(root, entry); anchor != nil {
			run.Log.Debug().Str("entry", anchor.Path).Str("pattern", anchor.Pattern.String()).Msg("base language found")
			return anchor, nil
		}
	}

	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == dependencyCacheDir {
			continue
		}
		anchor, err := run.FindBaseLanguage(filepath.Join(root, entry.Name()))
		if err != nil {
			return nil, err
		}
		if anchor != nil {
			return anchor, nil
		}
	}
	return nil, nil
}

// matchBaseEntry tests one directory entry against the base-language tag.
// The tag must appear as a whole word; for a file it must additionally be
// followed, anywhere later in the name, by a configured resource extension.
func (run *Run) matchBaseEntry(root string, entry os.DirEntry) *Anchor {
	name := entry.Name()
	span := wholeWordSpan(name, run.Config.BaseLanguage)
	if span == nil {
		return nil
	}
	if !entry.IsDir() && !nameMatchesExtensions(name[span[1]:], run.Config.ResourceExtensions) {
		return nil
	}

	pattern := regexp.MustCompile(
		"^" + regexp.QuoteMeta(name[:span[0]]) + tagCapture + regexp.QuoteMeta(name[span[1]:]) + "$")
	return &Anchor{
		Path:    filepath.Join(root, name),
		Name:    name,
		IsDir:   entry.IsDir(),
		Pattern: pattern,
	}
}

// wholeWordSpan returns the [start, end) of the first whole-word occurrence
// of tag in name, or nil. Word characters are letters, digits and
// underscore, so "en" matches inside "en-us.json" but not inside "lens.json".
func wholeWordSpan(name, tag string) []int {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(tag) + `\b`)
	if err != nil {
		return nil
	}
	return re.FindStringIndex(name)
}

// readDirSorted lists a directory with files before directories, each group
// in lexicographic order, so repeated runs visit entries identically.
func readDirSorted(dir string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return !entries[i].IsDir()
		}
		return entries[i].Name() < entries[j].Name()
	})
	return entries, nil
}

// captureTag applies an anchor pattern to a sibling name and returns the
// captured language tag.
func captureTag(pattern *regexp.Regexp, name string) (string, bool) {
	m := pattern.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return m[1], true
}
