package walker

import (
	"strings"

	"github.com/bethropolis/llm-context-gen/internal/utils"
)

// WalkOptions configures the behavior of the Walk function
type WalkOptions struct {
	Logger         utils.Logger
	MaxFileSize    int64 // bytes, 0 = no limit
	MaxFiles       int   // 0 = no limit
	MaxDepth       int   // 0 = no limit
	FollowSymlinks bool
	ExtensionMap   map[string]struct{}
	ProgressFn     ProgressCallback
}

// ProgressCallback is a function that receives progress updates
type ProgressCallback func(stats ProgressStats)

// ProgressStats holds statistics about the walk progress
type ProgressStats struct {
	TotalFiles      int    // Files seen
	ProcessedFiles  int    // Files accepted for emission
	SkippedFiles    int    // Files ignored, filtered or skipped for any reason
	TotalDirs       int    // Directories entered
	CurrentFilePath string // Relative path of the last file classified
}

// progressInterval is the number of files between progress callbacks.
const progressInterval = 100

// defaultOptions returns the default walk options
func defaultOptions() WalkOptions {
	return WalkOptions{
		Logger:         &utils.NoopLogger{},
		MaxFileSize:    0,
		MaxFiles:       0,
		MaxDepth:       0,
		FollowSymlinks: false,
		ExtensionMap:   nil,
		ProgressFn:     nil,
	}
}

// Option is a functional option for configuring WalkOptions
type Option func(*WalkOptions)

// WithLogger sets a custom logger for the walker
func WithLogger(logger utils.Logger) Option {
	return func(opts *WalkOptions) {
		if logger != nil {
			opts.Logger = logger
		}
	}
}

// WithMaxFileSize sets the largest file size in bytes that is still emitted
func WithMaxFileSize(maxBytes int64) Option {
	return func(opts *WalkOptions) {
		if maxBytes > 0 {
			opts.MaxFileSize = maxBytes
		}
	}
}

// WithMaxFiles stops the walk once this many files were accepted
func WithMaxFiles(maxFiles int) Option {
	return func(opts *WalkOptions) {
		if maxFiles > 0 {
			opts.MaxFiles = maxFiles
		}
	}
}

// WithMaxDepth limits how many directory levels below the root are entered
func WithMaxDepth(depth int) Option {
	return func(opts *WalkOptions) {
		if depth > 0 {
			opts.MaxDepth = depth
		}
	}
}

// WithFollowSymlinks enables following symbolic links
func WithFollowSymlinks(enabled bool) Option {
	return func(opts *WalkOptions) {
		opts.FollowSymlinks = enabled
	}
}

// WithExtensions sets the file extensions to include (without the dot)
func WithExtensions(extensions []string) Option {
	return func(opts *WalkOptions) {
		extMap := make(map[string]struct{}, len(extensions))
		for _, ext := range extensions {
			clean := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(ext), ".")))
			if clean != "" {
				extMap[clean] = struct{}{}
			}
		}
		if len(extMap) == 0 {
			extMap = nil
		}
		opts.ExtensionMap = extMap
	}
}

// WithProgress adds a progress callback function
func WithProgress(fn ProgressCallback) Option {
	return func(o *WalkOptions) {
		o.ProgressFn = fn
	}
}
