// Package walker handles directory traversal and file classification
package walker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bethropolis/llm-context-gen/internal/ignore"
	"github.com/bethropolis/llm-context-gen/internal/tree"
)

// frame is one directory on the current traversal path.
type frame struct {
	absPath  string
	relPath  string // slash separated, "" for the root
	realPath string // symlink-resolved path, only tracked when following links
	depth    int
	node     *tree.Node
	entries  []fs.DirEntry
	next     int
}

// walk holds the state of a single traversal; it is never shared.
type walk struct {
	options  WalkOptions
	matcher  Matcher
	loader   ScopeLoader
	rules    RuleErrorReporter
	ruleErrs int // rule file failures already recorded
	tracker  *SkippedTracker
	result   *Result
	stack    []*frame
	seen     int // files classified, for progress
}

// Walk traverses the directory tree starting from rootDir depth-first, visiting
// the entries of each directory in lexical order. Entry-level problems become
// skipped items; only an invalid root is returned as an error.
func Walk(rootDir string, matcher Matcher, opts ...Option) (*Result, error) {
	startTime := time.Now()

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	absRootDir, err := ValidateRoot(rootDir)
	if err != nil {
		return nil, err
	}

	w := &walk{
		options: options,
		matcher: matcher,
		tracker: NewSkippedTracker(100),
		result: &Result{
			Root: absRootDir,
			Tree: tree.New("."),
		},
	}
	if loader, ok := matcher.(ScopeLoader); ok {
		w.loader = loader
	}
	if rules, ok := matcher.(RuleErrorReporter); ok {
		w.rules = rules
	}

	options.Logger.Debug("walker.Walk started. Root: %s, FollowSymlinks: %v, MaxFileSize: %d, MaxFiles: %d, MaxDepth: %d",
		absRootDir, options.FollowSymlinks, options.MaxFileSize, options.MaxFiles, options.MaxDepth)

	root := &frame{absPath: absRootDir, node: w.result.Tree}
	if options.FollowSymlinks {
		root.realPath = resolveReal(absRootDir)
	}
	entries, readErr := os.ReadDir(absRootDir)
	if readErr != nil {
		w.trackError(".", readErr, true)
	}
	root.entries = entries
	w.stack = append(w.stack, root)
	w.collectRuleErrors()

	w.run()

	w.result.Skipped = w.tracker.Items()
	w.reportProgress("")
	options.Logger.Debug("Walker: Total walk time: %s (%d included, %d skipped entries)",
		time.Since(startTime), len(w.result.Files), len(w.result.Skipped))
	return w.result, nil
}

// ValidateRoot resolves rootDir to an absolute path and checks that it is an existing directory.
func ValidateRoot(rootDir string) (string, error) {
	absRootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return "", fmt.Errorf("%w: failed to get absolute path for '%s': %v", ErrInvalidRoot, rootDir, err)
	}

	info, err := os.Stat(absRootDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: '%s' not found", ErrInvalidRoot, absRootDir)
		}
		return "", fmt.Errorf("%w: could not access '%s': %v", ErrInvalidRoot, absRootDir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: '%s' is not a directory", ErrInvalidRoot, absRootDir)
	}
	return absRootDir, nil
}

// run drains the frame stack. A frame is popped once its cursor passes its last
// entry, and its tree node is pruned if nothing below it was included.
func (w *walk) run() {
	for len(w.stack) > 0 {
		top := w.stack[len(w.stack)-1]

		if top.next >= len(top.entries) {
			w.pop()
			continue
		}

		if w.result.Truncated {
			for len(w.stack) > 0 {
				w.pop()
			}
			return
		}

		entry := top.entries[top.next]
		top.next++
		w.visit(top, entry)
	}
}

func (w *walk) pop() {
	done := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	if len(w.stack) > 0 && done.node.Empty() {
		w.options.Logger.Debug("Walker: Pruning empty directory %q from tree", done.relPath)
		w.stack[len(w.stack)-1].node.RemoveChild(done.node)
	}
}

// visit classifies one directory entry and either descends, emits, or records a skip.
func (w *walk) visit(parent *frame, entry fs.DirEntry) {
	name := entry.Name()
	absPath := filepath.Join(parent.absPath, name)
	relPath := joinRelative(parent.relPath, name)
	isSymlink := entry.Type()&fs.ModeSymlink != 0
	isDir := entry.IsDir()

	var info fs.FileInfo
	if isSymlink {
		if !w.options.FollowSymlinks {
			// Dir-only rules such as node_modules/ must still match a linked directory
			linkIsDir := false
			if target, err := os.Stat(absPath); err == nil {
				linkIsDir = target.IsDir()
			}
			if !w.ignored(relPath, linkIsDir) {
				w.skip(relPath, ClassSkipped, ReasonSymlinkNotFollowed, "", linkIsDir)
			}
			return
		}
		target, err := os.Stat(absPath)
		if err != nil {
			w.skip(relPath, ClassSkipped, ReasonSymlinkBroken, err.Error(), false)
			return
		}
		info = target
		isDir = target.IsDir()
	}

	w.options.Logger.Debug("Walker: Evaluating entry: %q (isDir: %v, symlink: %v)", relPath, isDir, isSymlink)

	if w.ignored(relPath, isDir) {
		return
	}

	if isDir {
		w.enterDir(parent, name, absPath, relPath, isSymlink)
		return
	}

	if info == nil {
		var err error
		info, err = entry.Info()
		if err != nil {
			w.options.Logger.Warn("Walker: Could not stat %q: %v", relPath, err)
			w.skip(relPath, ClassSkipped, ReasonSkippedInfoError, err.Error(), false)
			return
		}
	}
	w.classifyFile(parent, name, absPath, relPath, info)
}

// ignored consults the matcher and records the entry when it is excluded.
func (w *walk) ignored(relPath string, isDir bool) bool {
	if w.matcher == nil {
		return false
	}
	decision := w.matcher.Explain(relPath, isDir)
	if !decision.Ignored {
		return false
	}
	w.options.Logger.Debug("Walker: Ignored %q by %s rule %q", relPath, decision.Origin, decision.Rule)
	w.skip(relPath, ClassIgnored, ReasonIgnoredRule, describeDecision(decision), isDir)
	return true
}

func (w *walk) enterDir(parent *frame, name, absPath, relPath string, isSymlink bool) {
	depth := parent.depth + 1
	if w.options.MaxDepth > 0 && depth > w.options.MaxDepth {
		w.skip(relPath, ClassSkipped, ReasonSkippedDepthLimit, fmt.Sprintf("depth %d > %d", depth, w.options.MaxDepth), true)
		return
	}

	var realPath string
	if w.options.FollowSymlinks {
		realPath = filepath.Join(parent.realPath, name)
		if isSymlink {
			realPath = resolveReal(absPath)
		}
		for _, ancestor := range w.stack {
			if ancestor.realPath == realPath {
				w.options.Logger.Warn("Walker: Symlink cycle at %q (target %s is already being walked)", relPath, realPath)
				w.skip(relPath, ClassSkipped, ReasonSymlinkCycle, "target "+realPath, true)
				return
			}
		}
	}

	entries, err := os.ReadDir(absPath)
	if err != nil {
		w.trackError(relPath, err, true)
		return
	}

	if w.loader != nil {
		w.loader.LoadScope(relPath, absPath)
		w.collectRuleErrors()
	}

	w.options.Logger.Debug("Walker: Descending into directory %q", relPath)
	w.result.Counts.Add(ClassDirectory)
	w.stack = append(w.stack, &frame{
		absPath:  absPath,
		relPath:  relPath,
		realPath: realPath,
		depth:    depth,
		node:     parent.node.AddDir(name),
		entries:  entries,
	})
}

// classifyFile runs the file filters in order: regular file, extension filter,
// binary content check, size limit. Files passing all of them are emitted.
func (w *walk) classifyFile(parent *frame, name, absPath, relPath string, info fs.FileInfo) {
	defer func() {
		w.seen++
		if w.seen%progressInterval == 0 {
			w.reportProgress(relPath)
		}
	}()

	if !info.Mode().IsRegular() {
		w.skip(relPath, ClassSkipped, ReasonSkippedNotRegular, info.Mode().Type().String(), false)
		return
	}

	if len(w.options.ExtensionMap) > 0 {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
		if _, allowed := w.options.ExtensionMap[ext]; !allowed {
			w.skip(relPath, ClassSkipped, ReasonFilteredExtension, "", false)
			return
		}
	}

	if hasBinaryExtension(name) {
		w.skip(relPath, ClassBinary, ReasonBinaryExtension, "", false)
		return
	}
	binary, err := sniffBinary(absPath)
	if err != nil {
		w.trackError(relPath, err, false)
		return
	}
	if binary {
		w.skip(relPath, ClassBinary, ReasonBinaryContent, "", false)
		return
	}

	if w.options.MaxFileSize > 0 && info.Size() > w.options.MaxFileSize {
		w.options.Logger.Debug("Walker: Skipping %q, exceeds size limit (%d > %d bytes)",
			relPath, info.Size(), w.options.MaxFileSize)
		w.skip(relPath, ClassOversized, ReasonSkippedSizeLimit,
			fmt.Sprintf("%d > %d bytes", info.Size(), w.options.MaxFileSize), false)
		return
	}

	if w.options.MaxFiles > 0 && len(w.result.Files) >= w.options.MaxFiles {
		w.options.Logger.Debug("Walker: File limit of %d reached at %q, stopping", w.options.MaxFiles, relPath)
		w.result.Truncated = true
		return
	}

	w.options.Logger.Debug("Walker: File %q PASSED all checks (%d bytes)", relPath, info.Size())
	w.result.Files = append(w.result.Files, FileEntry{
		AbsolutePath:   absPath,
		RelativePath:   relPath,
		Size:           info.Size(),
		Classification: ClassText,
	})
	w.result.Counts.Add(ClassText)
	parent.node.AddFile(name)
}

func (w *walk) skip(relPath string, class Classification, reason SkippedReason, detail string, isDir bool) {
	w.tracker.Track(relPath, class, reason, detail, isDir)
	w.result.Counts.Add(class)
}

// trackError records an unreadable entry without aborting the walk.
func (w *walk) trackError(relPath string, err error, isDir bool) {
	w.options.Logger.Warn("Walker: Skipping %q: %v", relPath, err)
	w.skip(relPath, ClassSkipped, readErrorReason(err), err.Error(), isDir)
}

// collectRuleErrors records rule files the matcher failed to read since the last call.
func (w *walk) collectRuleErrors() {
	if w.rules == nil {
		return
	}
	failures := w.rules.RuleErrors()
	for _, failure := range failures[w.ruleErrs:] {
		w.options.Logger.Debug("Walker: Unreadable rule file %q: %v", failure.Path, failure.Err)
		w.skip(failure.Path, ClassSkipped, readErrorReason(failure.Err), failure.Err.Error(), false)
	}
	w.ruleErrs = len(failures)
}

func readErrorReason(err error) SkippedReason {
	if errors.Is(err, fs.ErrPermission) {
		return ReasonSkippedPermError
	}
	return ReasonSkippedReadError
}

func (w *walk) reportProgress(current string) {
	if w.options.ProgressFn == nil {
		return
	}
	counts := w.result.Counts
	w.options.ProgressFn(ProgressStats{
		TotalFiles:      w.seen,
		ProcessedFiles:  counts.Included,
		SkippedFiles:    counts.Ignored + counts.Binary + counts.Oversized + counts.Skipped,
		TotalDirs:       counts.Directories,
		CurrentFilePath: current,
	})
}

func describeDecision(decision ignore.Decision) string {
	detail := fmt.Sprintf("%s rule %q", decision.Origin, decision.Rule)
	if decision.Source != "" {
		detail += " from " + decision.Source
	}
	return detail
}

func resolveReal(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return path
}

func joinRelative(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}
