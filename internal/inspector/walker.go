package inspector

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResourceFile is one parsed resource file and the language tag it was
// attributed to.
type ResourceFile struct {
	LanguageTag string `json:"languageTag"`
	FilePath    string `json:"filePath"`
}

// resourceParser consumes raw file bytes and populates the shared map
// through the file context.
type resourceParser func(data []byte, ctx *fileContext) error

func parserForFile(name string) resourceParser {
	switch {
	case strings.HasSuffix(name, ".json"), strings.HasSuffix(name, ".jsonc"):
		return parseJSONC
	case strings.HasSuffix(name, ".properties"):
		return parseProperties
	case strings.HasSuffix(name, ".yaml"), strings.HasSuffix(name, ".yml"):
		return parseYAMLResource
	default:
		return nil
	}
}

// ProcessResourceFiles enumerates and parses every resource file under root
// using the discovered anchor, and returns the processed files. Directory
// anchors attribute one language tag per top-level sibling directory; file
// anchors attribute a tag per matching file name.
func (run *Run) ProcessResourceFiles(root string, anchor *Anchor) ([]ResourceFile, error) {
	if anchor.IsDir {
		return run.walkLanguageDirs(anchor)
	}
	var processed []ResourceFile
	err := run.walkPatternFiles(root, anchor, &processed)
	return processed, err
}

// walkLanguageDirs handles directory mode (en/strings.json, es/strings.json):
// only sibling directories matching the derived pattern are descended into,
// and every extension-matching file below carries that directory's tag.
// Files adjacent to the language directories are skipped.
func (run *Run) walkLanguageDirs(anchor *Anchor) ([]ResourceFile, error) {
	parent := filepath.Dir(anchor.Path)
	entries, err := readDirSorted(parent)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", parent, err)
	}

	var processed []ResourceFile
	for _, entry := range entries {
		if !entry.IsDir() {
			run.Log.Debug().Str("entry", entry.Name()).Msg("skipping file adjacent to language directories")
			continue
		}
		if entry.Name() == dependencyCacheDir {
			continue
		}
		tag, ok := captureTag(anchor.Pattern, entry.Name())
		if !ok {
			run.Log.Debug().Str("entry", entry.Name()).Msg("skipping directory not matching language pattern")
			continue
		}
		run.Log.Info().Str("language", displayTag(tag)).Str("dir", entry.Name()).Msg("processing language directory")
		if err := run.walkTaggedTree(filepath.Join(parent, entry.Name()), tag, &processed); err != nil {
			return nil, err
		}
	}
	return processed, nil
}

// walkTaggedTree parses every extension-matching file under dir with a fixed
// language tag.
func (run *Run) walkTaggedTree(dir, tag string, processed *[]ResourceFile) error {
	entries, err := readDirSorted(dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if entry.Name() == dependencyCacheDir {
				continue
			}
			if err := run.walkTaggedTree(path, tag, processed); err != nil {
				return err
			}
			continue
		}
		if !nameMatchesExtensions(entry.Name(), run.Config.ResourceExtensions) {
			run.Log.Debug().Str("file", path).Msg("skipping non-resource file")
			continue
		}
		if err := run.parseResourceFile(path, tag, processed); err != nil {
			return err
		}
	}
	return nil
}

// walkPatternFiles handles file mode (strings-en.json, strings-es.json):
// every extension-matching file anywhere under root whose name matches the
// derived pattern is parsed under its captured tag.
func (run *Run) walkPatternFiles(dir string, anchor *Anchor, processed *[]ResourceFile) error {
	entries, err := readDirSorted(dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if entry.Name() == dependencyCacheDir {
				continue
			}
			if err := run.walkPatternFiles(path, anchor, processed); err != nil {
				return err
			}
			continue
		}
		if !nameMatchesExtensions(entry.Name(), run.Config.ResourceExtensions) {
			continue
		}
		tag, ok := captureTag(anchor.Pattern, entry.Name())
		if !ok {
			run.Log.Debug().Str("file", path).Msg("skipping file not matching language pattern")
			continue
		}
		if err := run.parseResourceFile(path, tag, processed); err != nil {
			return err
		}
	}
	return nil
}

func (run *Run) parseResourceFile(path, tag string, processed *[]ResourceFile) error {
	parse := parserForFile(path)
	if parse == nil {
		run.Log.Debug().Str("file", path).Msg("no parser for resource file extension")
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	ctx := newFileContext(run, path, tag)
	if err := parse(data, ctx); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	run.Log.Debug().Str("file", path).Str("language", tag).Int("strings", len(ctx.touched)).Msg("parsed resource file")
	*processed = append(*processed, ResourceFile{LanguageTag: tag, FilePath: path})
	return nil
}
