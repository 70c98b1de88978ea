package ignore

import "github.com/bethropolis/llm-context-gen/internal/utils"

// Option functions for configuration
type Option func(*IgnoreMatcher)

// WithHiddenIgnore ignores every path with a dot-prefixed segment
func WithHiddenIgnore(ignore bool) Option {
	return func(m *IgnoreMatcher) {
		m.ignoreHidden = ignore
	}
}

// WithDefaults toggles the built-in denylist
func WithDefaults(enabled bool) Option {
	return func(m *IgnoreMatcher) {
		m.useDefaults = enabled
	}
}

// WithIgnoreFiles toggles discovery of .gitignore and .ignore files
func WithIgnoreFiles(enabled bool) Option {
	return func(m *IgnoreMatcher) {
		m.useIgnoreFiles = enabled
	}
}

// WithGlobalExcludes toggles git's core.excludesFile and .git/info/exclude
func WithGlobalExcludes(enabled bool) Option {
	return func(m *IgnoreMatcher) {
		m.useGlobal = enabled
	}
}

// WithRecursive controls whether ignore files below the root are discovered
func WithRecursive(recursive bool) Option {
	return func(m *IgnoreMatcher) {
		m.recursiveMode = recursive
	}
}

// WithCustomRules adds caller supplied patterns, evaluated after every discovered rule
func WithCustomRules(patterns []string) Option {
	return func(m *IgnoreMatcher) {
		m.customPatterns = append(m.customPatterns, patterns...)
	}
}

// WithOutputDir excludes the given directory when it lies inside the root
func WithOutputDir(dir string) Option {
	return func(m *IgnoreMatcher) {
		m.outputDir = dir
	}
}

// WithHomeDir overrides the home directory used to locate the git global config
func WithHomeDir(dir string) Option {
	return func(m *IgnoreMatcher) {
		m.homeDir = dir
	}
}

func WithLogger(logger utils.Logger) Option {
	return func(m *IgnoreMatcher) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func WithDisabled(disabled bool) Option {
	return func(m *IgnoreMatcher) {
		m.disabled = disabled
	}
}
