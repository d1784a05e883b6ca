package behaviors

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobwas/glob"
)

// matcher resolves Config.Patterns/Ignore against absolute paths.
// Ignore is precompiled with gobwas/glob (the teacher's AllowPathRule/
// DenyPathRule choice for path-glob matching); Patterns stays on
// doublestar.PathMatch since that is what the teacher's own file
// watcher (cmd/dive/cli/watch.go) uses for the same "does this changed
// file matter" question.
type matcher struct {
	root     string
	patterns []string
	ignore   []glob.Glob
}

func newMatcher(cfg Config) (*matcher, error) {
	m := &matcher{root: cfg.Root, patterns: cfg.Patterns}
	for _, pattern := range cfg.Ignore {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		m.ignore = append(m.ignore, g)
	}
	return m, nil
}

// matches reports whether absPath should be tracked: it must satisfy at
// least one Patterns entry (or Patterns is empty) and none of Ignore.
func (m *matcher) matches(absPath string) bool {
	rel, err := filepath.Rel(m.root, absPath)
	if err != nil {
		rel = absPath
	}
	for _, g := range m.ignore {
		if g.Match(rel) {
			return false
		}
	}
	if len(m.patterns) == 0 {
		return true
	}
	for _, pattern := range m.patterns {
		if ok, _ := doublestar.PathMatch(pattern, rel); ok {
			return true
		}
	}
	return false
}

// expand resolves Patterns to a concrete file list under root, used to
// seed the initial watch set. An empty Patterns list falls back to the
// single catch-all "**".
func expand(root string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{"**"}
	}
	seen := map[string]bool{}
	var out []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(filepath.Join(root, pattern))
		if err != nil {
			return nil, err
		}
		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				out = append(out, match)
			}
		}
	}
	return out, nil
}
