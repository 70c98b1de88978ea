package ignore

import (
	"path"
	"path/filepath"
	"strings"
)

// ShouldIgnore checks if a file or directory should be ignored
func (m *IgnoreMatcher) ShouldIgnore(relativePath string, isDir bool) bool {
	return m.Explain(relativePath, isDir).Ignored
}

// Explain evaluates relativePath top-down: the first ignored ancestor decides,
// so nothing below an ignored directory can be re-included.
func (m *IgnoreMatcher) Explain(relativePath string, isDir bool) Decision {
	if m == nil || m.disabled {
		return Decision{}
	}

	normalized := normalizePath(relativePath)
	if normalized == "" {
		return Decision{} // Never ignore the root itself
	}

	segments := strings.Split(normalized, "/")
	var decision Decision
	for i := 1; i <= len(segments); i++ {
		candidate := strings.Join(segments[:i], "/")
		candidateIsDir := isDir || i < len(segments)

		decision = m.matchOne(candidate, candidateIsDir)
		if decision.Ignored {
			if i < len(segments) {
				m.logger.Debug("ignore.Explain: %q ignored through ancestor %q (%s rule %q)",
					normalized, candidate, decision.Origin, decision.Rule)
			} else {
				m.logger.Debug("ignore.Explain: %q ignored (%s rule %q)", normalized, decision.Origin, decision.Rule)
			}
			return decision
		}
	}

	m.logger.Debug("ignore.Explain: Path %q NOT ignored by any rule", normalized)
	return decision
}

// matchOne evaluates a single path without looking at its ancestors. Later rule
// sets override earlier ones; within a set the library reports the last match.
func (m *IgnoreMatcher) matchOne(relativePath string, isDir bool) Decision {
	if m.ignoreHidden && strings.HasPrefix(path.Base(relativePath), ".") {
		return Decision{Ignored: true, Origin: OriginHidden, Rule: ".*", Source: "hidden files", Path: relativePath}
	}

	var decision Decision
	for _, group := range [][]ruleSet{m.defaults, m.repository, m.discovered, m.extras} {
		for _, rs := range group {
			scoped, ok := rs.appliesTo(relativePath)
			if !ok {
				continue
			}
			match := rs.rules.Relative(scoped, isDir)
			if match == nil {
				continue
			}
			decision = Decision{
				Ignored: match.Ignore(),
				Origin:  rs.origin,
				Rule:    match.String(),
				Source:  rs.source,
				Path:    relativePath,
			}
		}
	}
	return decision
}

// normalizePath converts a relative path to the slash separated form used by
// rule scopes, with "" standing for the root.
func normalizePath(relativePath string) string {
	cleaned := path.Clean(filepath.ToSlash(relativePath))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "." {
		return ""
	}
	return cleaned
}
