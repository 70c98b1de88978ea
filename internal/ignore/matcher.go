package ignore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bethropolis/llm-context-gen/internal/utils"
)

// New creates and initializes an IgnoreMatcher
func New(rootDir string, opts ...Option) (*IgnoreMatcher, error) {
	absRootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("ignore: failed to get absolute path for rootDir '%s': %w", rootDir, err)
	}

	matcher := &IgnoreMatcher{
		rootDir:        absRootDir,
		ignoreHidden:   false,
		useDefaults:    true,
		useIgnoreFiles: true,
		useGlobal:      false,
		recursiveMode:  true,
		loadedScopes:   make(map[string]struct{}),
		logger:         &utils.NoopLogger{},
	}

	for _, opt := range opts {
		opt(matcher)
	}

	matcher.init()
	return matcher, nil
}

// init compiles every rule source in priority order
func (m *IgnoreMatcher) init() {
	m.logger.Debug("ignore.New: Initializing for root: %s", m.rootDir)
	m.logger.Debug("ignore.New: hidden=%v defaults=%v ignoreFiles=%v global=%v recursive=%v",
		m.ignoreHidden, m.useDefaults, m.useIgnoreFiles, m.useGlobal, m.recursiveMode)

	if m.disabled {
		m.logger.Debug("ignore.New: Matcher is disabled, skipping rule initialization")
		return
	}

	// Rule files never count as context, even with the denylist off
	m.defaults = append(m.defaults,
		m.compileRules(ruleFileNames, OriginDefault, "", m.rootDir, "built-in rule files"))
	if m.useDefaults {
		m.defaults = append(m.defaults,
			m.compileRules(DefaultPatterns, OriginDefault, "", m.rootDir, "built-in defaults"))
	}

	if m.useGlobal {
		m.loadRepositoryExcludes()
	}

	if patterns := cleanPatterns(m.customPatterns); len(patterns) > 0 {
		m.logger.Debug("ignore.New: Adding %d custom patterns", len(patterns))
		m.extras = append(m.extras,
			m.compileRules(patterns, OriginExtra, "", m.rootDir, "custom patterns"))
	}

	if pattern, ok := m.outputDirPattern(); ok {
		m.logger.Debug("ignore.New: Excluding output directory with pattern %q", pattern)
		m.extras = append(m.extras,
			m.compileRules([]string{pattern}, OriginOutput, "", m.rootDir, "output directory"))
	}

	if !m.useIgnoreFiles {
		return
	}

	m.LoadScope("", m.rootDir)
	if m.recursiveMode {
		m.discover()
	}
}

// LoadScope compiles the rule files of one directory. relDir is relative to the
// root; calling it twice for the same directory is a no-op, and only the root is
// loaded when recursive discovery is off. Unreadable rule files are recorded in
// RuleErrors and the remaining files still load.
func (m *IgnoreMatcher) LoadScope(relDir, absDir string) {
	if m == nil || m.disabled || !m.useIgnoreFiles {
		return
	}

	scope := normalizePath(relDir)
	if scope != "" && !m.recursiveMode {
		return
	}
	if _, loaded := m.loadedScopes[scope]; loaded {
		return
	}
	m.loadedScopes[scope] = struct{}{}

	for _, name := range ruleFileNames {
		path := filepath.Join(absDir, name)
		rs, ok, err := m.loadRuleFile(path, OriginIgnoreFile, scope, absDir)
		if err != nil {
			m.recordRuleError(path, err)
			continue
		}
		if ok {
			m.discovered = append(m.discovered, rs)
		}
	}
}

// recordRuleError keeps a rule file that exists but could not be read.
func (m *IgnoreMatcher) recordRuleError(path string, err error) {
	m.logger.Warn("ignore: %v", err)
	display := path
	if rel, relErr := filepath.Rel(m.rootDir, path); relErr == nil && rel != ".." &&
		!strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		display = filepath.ToSlash(rel)
	}
	m.ruleErrors = append(m.ruleErrors, RuleFileError{Path: display, Err: err})
}

// RuleErrors lists the rule files that could not be read. Paths inside the root
// are relative and slash separated.
func (m *IgnoreMatcher) RuleErrors() []RuleFileError {
	if m == nil {
		return nil
	}
	return m.ruleErrors
}

// discover walks down from the root loading rule files. Directories already
// ignored by the rules known so far are not entered, and symlinks are not followed.
func (m *IgnoreMatcher) discover() {
	type pending struct{ rel, abs string }

	stack := []pending{{rel: "", abs: m.rootDir}}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		m.LoadScope(current.rel, current.abs)

		entries, err := os.ReadDir(current.abs)
		if err != nil {
			m.logger.Warn("ignore: Could not read directory '%s' while discovering rule files: %v", current.abs, err)
			continue
		}

		// Pushed in reverse so that siblings pop in lexical order
		for i := len(entries) - 1; i >= 0; i-- {
			entry := entries[i]
			if !entry.IsDir() {
				continue
			}
			childRel := joinRelative(current.rel, entry.Name())
			if m.ShouldIgnore(childRel, true) {
				continue
			}
			stack = append(stack, pending{rel: childRel, abs: filepath.Join(current.abs, entry.Name())})
		}
	}
}

// outputDirPattern anchors the output directory when it sits strictly inside the root.
func (m *IgnoreMatcher) outputDirPattern() (string, bool) {
	if m.outputDir == "" {
		return "", false
	}
	absOutput, err := filepath.Abs(m.outputDir)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(m.rootDir, absOutput)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return "/" + filepath.ToSlash(rel) + "/", true
}

// Root returns the absolute root directory the matcher was built for
func (m *IgnoreMatcher) Root() string {
	return m.rootDir
}

// RuleFiles lists the rule files loaded so far, in priority order
func (m *IgnoreMatcher) RuleFiles() []string {
	var files []string
	for _, group := range [][]ruleSet{m.repository, m.discovered} {
		for _, rs := range group {
			files = append(files, rs.source)
		}
	}
	return files
}

func cleanPatterns(patterns []string) []string {
	cleaned := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if trimmed := strings.TrimSpace(pattern); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}

func joinRelative(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}
