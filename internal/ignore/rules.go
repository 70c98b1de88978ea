package ignore

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	gitignore "github.com/denormal/go-gitignore"
)

const (
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
	// IgnoreFileName is the name of the tool-agnostic ignore file, read after .gitignore.
	IgnoreFileName = ".ignore"
)

// ruleFileNames lists the per-directory rule files in the order they are applied.
var ruleFileNames = []string{GitIgnoreFileName, IgnoreFileName}

// DefaultPatterns is the built-in denylist of dependency, build and editor metadata paths.
var DefaultPatterns = []string{
	// dependency and build output
	"node_modules/",
	"target/",
	"dist/",
	"build/",
	"out/",
	"coverage/",
	"__pycache__/",
	".next/",
	".vercel/",
	".turbo/",
	// version control
	".git/",
	".hg/",
	".svn/",
	// editors and OS
	".idea/",
	".vscode/",
	".DS_Store",
	"Thumbs.db",
}

// compileRules builds a rule set from in-memory pattern lines.
func (m *IgnoreMatcher) compileRules(lines []string, origin Origin, scope, base, source string) ruleSet {
	content := strings.Join(lines, "\n")
	return ruleSet{
		origin: origin,
		scope:  scope,
		source: source,
		rules:  gitignore.New(strings.NewReader(content), base, m.parseErrorHandler(source)),
	}
}

// loadRuleFile compiles a rule file from disk. A missing file yields ok=false without error.
func (m *IgnoreMatcher) loadRuleFile(path string, origin Origin, scope, base string) (ruleSet, bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ruleSet{}, false, nil
		}
		return ruleSet{}, false, fmt.Errorf("ignore: failed to read rule file '%s': %w", path, err)
	}

	m.logger.Debug("ignore: Loaded %s rules from %s (scope %q)", origin, path, scope)
	return ruleSet{
		origin: origin,
		scope:  scope,
		source: path,
		rules:  gitignore.New(bytes.NewReader(content), base, m.parseErrorHandler(path)),
	}, true, nil
}

// parseErrorHandler logs malformed pattern lines and keeps parsing.
func (m *IgnoreMatcher) parseErrorHandler(source string) func(gitignore.Error) bool {
	return func(e gitignore.Error) bool {
		m.logger.Warn("ignore: Skipping invalid pattern in %s: %v", source, e)
		return true
	}
}

// appliesTo reports whether a rule set scoped at rs.scope covers relativePath, returning
// the path relative to that scope.
func (rs ruleSet) appliesTo(relativePath string) (string, bool) {
	if rs.scope == "" {
		return relativePath, true
	}
	if !strings.HasPrefix(relativePath, rs.scope+"/") {
		return "", false
	}
	return strings.TrimPrefix(relativePath, rs.scope+"/"), true
}
