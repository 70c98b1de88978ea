// Package ignore provides file/directory pattern matching for exclusion
//
// Rules come from a built-in denylist, git's global and repository exclude
// files, .gitignore and .ignore files discovered below the root, and caller
// supplied patterns. Each rule set is bound to the directory it was declared
// in and only applies beneath it. It uses the functional options pattern for
// configuration.
package ignore

// NewFromConfig creates an IgnoreMatcher from a Config struct
func NewFromConfig(cfg Config) (*IgnoreMatcher, error) {
	options := []Option{
		WithHiddenIgnore(cfg.IgnoreHidden),
		WithDefaults(cfg.UseDefaults),
		WithIgnoreFiles(cfg.UseIgnoreFiles),
		WithGlobalExcludes(cfg.UseGlobal),
		WithRecursive(cfg.RecursiveMode),
		WithDisabled(cfg.Disabled),
	}

	if len(cfg.CustomRules) > 0 {
		options = append(options, WithCustomRules(cfg.CustomRules))
	}

	if cfg.OutputDir != "" {
		options = append(options, WithOutputDir(cfg.OutputDir))
	}

	if cfg.Logger != nil {
		options = append(options, WithLogger(cfg.Logger))
	}

	return New(cfg.RootDir, options...)
}

// CreateDisabledMatcher returns a matcher that ignores nothing
func CreateDisabledMatcher() *IgnoreMatcher {
	matcher, _ := New(".", WithDisabled(true))
	return matcher
}
