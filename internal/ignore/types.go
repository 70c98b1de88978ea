package ignore

import (
	"github.com/bethropolis/llm-context-gen/internal/utils"
	gitignore "github.com/denormal/go-gitignore"
)

// Origin tells where an ignore rule came from
type Origin string

const (
	OriginNone       Origin = ""
	OriginDefault    Origin = "default"
	OriginGlobal     Origin = "global"
	OriginExclude    Origin = "exclude"
	OriginIgnoreFile Origin = "ignore-file"
	OriginExtra      Origin = "extra"
	OriginOutput     Origin = "output"
	OriginHidden     Origin = "hidden"
)

// ruleSet is one compiled group of patterns bound to the directory it applies from.
// scope is slash separated and relative to the matcher root ("" for the root itself).
type ruleSet struct {
	origin Origin
	scope  string
	source string
	rules  gitignore.GitIgnore
}

// Decision describes the outcome of matching a single path
type Decision struct {
	Ignored bool
	Origin  Origin
	// Rule is the pattern text that decided the outcome, empty when nothing matched
	Rule string
	// Source is the rule file (or a label for in-memory rules) holding Rule
	Source string
	// Path is the path the rule matched; differs from the queried path when an ancestor directory was ignored
	Path string
}

// RuleFileError is a rule file that exists but could not be read
type RuleFileError struct {
	Path string
	Err  error
}

// IgnoreMatcher determines whether a file or directory should be ignored
type IgnoreMatcher struct {
	rootDir string

	// Rule sets in increasing priority. discovered grows while scopes are loaded.
	defaults   []ruleSet
	repository []ruleSet
	discovered []ruleSet
	extras     []ruleSet

	loadedScopes map[string]struct{}
	ruleErrors   []RuleFileError

	// Configuration flags
	ignoreHidden   bool
	useDefaults    bool
	useIgnoreFiles bool
	useGlobal      bool
	recursiveMode  bool
	customPatterns []string
	outputDir      string
	homeDir        string
	logger         utils.Logger
	disabled       bool
}

// Config holds configuration options for the ignore matcher
type Config struct {
	RootDir        string
	IgnoreHidden   bool
	UseDefaults    bool
	UseIgnoreFiles bool
	UseGlobal      bool
	RecursiveMode  bool
	CustomRules    []string
	OutputDir      string
	Logger         utils.Logger
	Disabled       bool
}
