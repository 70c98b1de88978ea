// Package printer writes the context artifacts: one text file per included
// source file and the rendered directory tree.
package printer

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bethropolis/llm-context-gen/internal/tree"
	"github.com/bethropolis/llm-context-gen/internal/utils"
	"github.com/gofrs/flock"
	"github.com/natefinch/atomic"
)

// ErrOutputUnavailable means the output directory cannot be created, written or locked.
var ErrOutputUnavailable = errors.New("output directory unavailable")

const (
	// TreeFileName is the artifact holding the rendered directory tree
	TreeFileName = "file-tree.txt"
	// LockFileName guards the output directory against concurrent runs
	LockFileName = ".llm-context.lock"

	artifactExt = ".txt"
	// maxArtifactNameLength is in bytes
	maxArtifactNameLength = 150
)

// Printer writes artifacts into a locked output directory
type Printer struct {
	outputDir string
	lock      *flock.Flock
	used      map[string]struct{}
	count     int
	logger    utils.Logger
}

// Option is a functional option for configuring the Printer
type Option func(*Printer)

// WithLogger sets the logger used for per-artifact diagnostics
func WithLogger(logger utils.Logger) Option {
	return func(p *Printer) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Open creates outputDir if needed and takes an exclusive lock on it. Every
// failure wraps ErrOutputUnavailable.
func Open(outputDir string, opts ...Option) (*Printer, error) {
	absOutputDir, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get absolute path for '%s': %v", ErrOutputUnavailable, outputDir, err)
	}

	if err := os.MkdirAll(absOutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutputUnavailable, err)
	}

	lock := flock.New(filepath.Join(absOutputDir, LockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to lock '%s': %v", ErrOutputUnavailable, absOutputDir, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: '%s' is locked by another run", ErrOutputUnavailable, absOutputDir)
	}

	p := &Printer{
		outputDir: absOutputDir,
		lock:      lock,
		used:      map[string]struct{}{TreeFileName: {}},
		logger:    &utils.NoopLogger{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// WriteFile reads the source at absolutePath and writes its artifact: the
// relative path, a blank line, then the raw content. It returns the artifact name.
func (p *Printer) WriteFile(relativePath, absolutePath string) (string, error) {
	content, err := os.ReadFile(absolutePath)
	if err != nil {
		return "", fmt.Errorf("failed to read '%s': %w", relativePath, err)
	}

	var buf bytes.Buffer
	buf.Grow(len(relativePath) + 2 + len(content))
	buf.WriteString(relativePath)
	buf.WriteString("\n\n")
	buf.Write(content)

	name := p.artifactName(relativePath)
	if err := atomic.WriteFile(filepath.Join(p.outputDir, name), &buf); err != nil {
		return "", fmt.Errorf("failed to write artifact '%s': %w", name, err)
	}

	p.count++
	p.logger.Debug("printer: Wrote %s (%d bytes) for %s", name, buf.Len(), relativePath)
	return name, nil
}

// WriteTree renders root into the tree artifact, with note appended when set
func (p *Printer) WriteTree(root *tree.Node, note string) error {
	var buf bytes.Buffer
	if err := tree.Render(&buf, root, note); err != nil {
		return fmt.Errorf("failed to render tree: %w", err)
	}
	if err := atomic.WriteFile(filepath.Join(p.outputDir, TreeFileName), &buf); err != nil {
		return fmt.Errorf("failed to write %s: %w", TreeFileName, err)
	}
	return nil
}

// Close releases the output directory lock
func (p *Printer) Close() error {
	if p.lock == nil {
		return nil
	}
	if err := p.lock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	if err := os.Remove(p.lock.Path()); err != nil && !os.IsNotExist(err) {
		p.logger.Debug("printer: Could not remove lock file: %v", err)
	}
	p.lock = nil
	return nil
}

// Count returns the number of file artifacts written
func (p *Printer) Count() int {
	return p.count
}

// Dir returns the absolute output directory
func (p *Printer) Dir() string {
	return p.outputDir
}

// artifactName flattens a relative path into a file name, truncating long names
// and adding a ~N suffix when two paths flatten to the same name.
func (p *Printer) artifactName(relativePath string) string {
	base := SanitizeName(relativePath)
	name := base + artifactExt
	for n := 1; ; n++ {
		if _, taken := p.used[name]; !taken {
			break
		}
		name = fmt.Sprintf("%s~%d%s", base, n, artifactExt)
	}
	p.used[name] = struct{}{}
	return name
}

// SanitizeName replaces path separators with underscores and limits the name to
// maxArtifactNameLength bytes, cutting on a rune boundary. The remaining bytes
// up to the file system's 255 byte name limit are left for the ~N and .txt suffixes.
func SanitizeName(relativePath string) string {
	flat := strings.NewReplacer("/", "_", "\\", "_").Replace(relativePath)
	if len(flat) <= maxArtifactNameLength {
		return flat
	}
	cut := maxArtifactNameLength
	for cut > 0 && !utf8.RuneStart(flat[cut]) {
		cut--
	}
	return flat[:cut]
}
