// Package behaviors discovers and hot-reloads scripting-plugin source
// files named by entities' Behaviors scope (hollowmere.Behaviors'
// Langs[lang].Entry paths). It does not evaluate any script: spec
// Non-goals keep "scripting runtime internals" and sandboxing outside
// the core, so this package only tracks which files exist and notices
// when their content changes, recording that fact on the owning
// entity's Behaviors scope for a scripting runtime to consult; no
// package in this module reads those records.
//
// Grounded on the teacher's directory loader (config/load_directory.go,
// doublestar-based) and its file-watch command (cmd/dive/cli/watch.go,
// fsnotify-based), generalized from "load/watch one config directory"
// to "watch every entity's declared script entry points."
package behaviors

import "time"

// Config controls one Plugin instance.
type Config struct {
	// Root is the directory BehaviorLang.Entry paths are resolved
	// against. Every entry is expected to live somewhere under Root.
	Root string

	// Patterns are doublestar glob patterns (relative to Root) an entry
	// path must match to be watched at all. A nil/empty Patterns means
	// "match anything under Root."
	Patterns []string

	// Ignore is a set of gobwas/glob patterns (matched with '/' as the
	// separator, same convention as the teacher's AllowPathRule/
	// DenyPathRule) excluding paths that would otherwise match Patterns.
	Ignore []string

	// Debounce collapses bursts of filesystem events for the same path
	// into one reload, mirroring the teacher's FileWatcher.debouncer.
	// Defaults to 300ms.
	Debounce time.Duration
}

func (c Config) withDefaults() Config {
	if c.Debounce <= 0 {
		c.Debounce = 300 * time.Millisecond
	}
	return c
}
