package walker

import (
	"errors"

	"github.com/bethropolis/llm-context-gen/internal/ignore"
	"github.com/bethropolis/llm-context-gen/internal/tree"
)

// ErrInvalidRoot is returned before any traversal when the root is missing or not a directory.
var ErrInvalidRoot = errors.New("invalid root directory")

// Classification is the terminal category assigned to a traversed entry.
type Classification string

const (
	ClassText      Classification = "text"
	ClassBinary    Classification = "binary"
	ClassOversized Classification = "oversized"
	ClassIgnored   Classification = "ignored"
	ClassDirectory Classification = "directory"
	ClassSkipped   Classification = "skipped"
)

// SkippedReason clarifies why a file/directory was not processed.
type SkippedReason string

const (
	ReasonIgnoredRule        SkippedReason = "Ignored (Rule Match)"
	ReasonBinaryContent      SkippedReason = "Binary (Content Check)"
	ReasonBinaryExtension    SkippedReason = "Binary (Known Extension)"
	ReasonSkippedSizeLimit   SkippedReason = "Oversized (Size Limit Exceeded)"
	ReasonFilteredExtension  SkippedReason = "Filtered (Extension Mismatch)"
	ReasonSkippedNotRegular  SkippedReason = "Skipped (Not a Regular File)"
	ReasonSkippedPermError   SkippedReason = "Skipped (Permission Error)"
	ReasonSkippedReadError   SkippedReason = "Skipped (Read Error)"
	ReasonSkippedInfoError   SkippedReason = "Skipped (File Info Error)"
	ReasonSymlinkNotFollowed SkippedReason = "Skipped (Symlink Not Followed)"
	ReasonSymlinkBroken      SkippedReason = "Skipped (Broken Symlink)"
	ReasonSymlinkCycle       SkippedReason = "Skipped (Symlink Cycle)"
	ReasonSkippedDepthLimit  SkippedReason = "Skipped (Depth Limit Reached)"
)

// Matcher decides whether a root-relative path is excluded.
type Matcher interface {
	Explain(relativePath string, isDir bool) ignore.Decision
}

// ScopeLoader is implemented by matchers that can pick up rule files of
// directories the walker reaches on its own, such as through followed symlinks.
type ScopeLoader interface {
	LoadScope(relDir, absDir string)
}

// RuleErrorReporter is implemented by matchers that keep track of rule files
// they could not read. The walker records each one as a skipped item.
type RuleErrorReporter interface {
	RuleErrors() []ignore.RuleFileError
}

// FileEntry is a file accepted for emission.
type FileEntry struct {
	AbsolutePath string
	// RelativePath is slash separated and relative to the walk root
	RelativePath   string
	Size           int64
	Classification Classification
}

// SkippedItem holds information about a skipped path.
type SkippedItem struct {
	Path           string         `json:"path"`
	Classification Classification `json:"classification"`
	Reason         SkippedReason  `json:"reason"`
	Detail         string         `json:"detail,omitempty"`
	IsDir          bool           `json:"is_dir"`
}

// Counts tallies entries per classification.
type Counts struct {
	Included    int
	Ignored     int
	Binary      int
	Oversized   int
	Skipped     int
	Directories int
}

// Add records one entry of the given classification.
func (c *Counts) Add(class Classification) {
	switch class {
	case ClassText:
		c.Included++
	case ClassIgnored:
		c.Ignored++
	case ClassBinary:
		c.Binary++
	case ClassOversized:
		c.Oversized++
	case ClassDirectory:
		c.Directories++
	default:
		c.Skipped++
	}
}

// Result is everything a walk produced.
type Result struct {
	Root    string
	Files   []FileEntry
	Tree    *tree.Node
	Skipped []SkippedItem
	Counts  Counts
	// Truncated is set when the walk stopped at the file limit
	Truncated bool
}

// SkippedTracker accumulates skipped items in traversal order
type SkippedTracker struct {
	items []SkippedItem
}

// NewSkippedTracker creates a new SkippedTracker
func NewSkippedTracker(capacity int) *SkippedTracker {
	return &SkippedTracker{
		items: make([]SkippedItem, 0, capacity),
	}
}

// Track adds a skipped item to the tracker
func (st *SkippedTracker) Track(path string, class Classification, reason SkippedReason, detail string, isDir bool) {
	st.items = append(st.items, SkippedItem{
		Path:           path,
		Classification: class,
		Reason:         reason,
		Detail:         detail,
		IsDir:          isDir,
	})
}

// Items returns the tracked skipped items
func (st *SkippedTracker) Items() []SkippedItem {
	return st.items
}
