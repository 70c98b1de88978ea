// Package setup provides initialization and configuration functions
package setup

import (
	"fmt"
	"os"
	"strings"

	"github.com/bethropolis/llm-context-gen/internal/ignore"
	"github.com/bethropolis/llm-context-gen/internal/utils"
	"github.com/bethropolis/llm-context-gen/internal/walker"
)

// InfoLogger wraps the Info method for status updates
type InfoLogger func(format string, args ...interface{})

// WalkerConfig holds all parameters needed to configure a directory walker
type WalkerConfig struct {
	RootDir        string
	OutputDir      string
	MaxFiles       int
	MaxFileSize    int64
	MaxDepth       int
	FollowSymlinks bool
	Extensions     []string
	IgnoreHidden   bool
	UseIgnoreFiles bool
	UseGlobal      bool
	UseDefaults    bool
	CustomIgnore   []string
	ShowProgress   bool
	Quiet          bool
	Logger         utils.Logger
}

// ConfigureWalker sets up an ignore matcher and walker options based on the config
func ConfigureWalker(cfg WalkerConfig, infoLog InfoLogger) (
	*ignore.IgnoreMatcher,
	[]walker.Option,
	error,
) {
	logger := cfg.Logger
	if logger == nil {
		logger = utils.NoopLogger{}
	}

	// --- Report effective filtering ---
	if len(cfg.CustomIgnore) > 0 {
		infoLog("Using custom ignore patterns: %v", cfg.CustomIgnore)
	}
	if cfg.UseDefaults {
		logger.Debug("Built-in ignore list: %v", ignore.DefaultPatterns)
	} else {
		infoLog("Built-in ignore list disabled.")
	}
	if cfg.IgnoreHidden {
		infoLog("Ignoring hidden files/directories (starting with '.').")
	}

	var extList []string
	for _, ext := range cfg.Extensions {
		cleanExt := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(ext), ".")))
		if cleanExt != "" {
			extList = append(extList, cleanExt)
		}
	}
	if len(extList) > 0 {
		infoLog("Filtering enabled. Only including extensions: .%s", strings.Join(extList, ", ."))
	}

	// --- Initialize ignore matcher ---
	matcher, err := ignore.NewFromConfig(ignore.Config{
		RootDir:        cfg.RootDir,
		IgnoreHidden:   cfg.IgnoreHidden,
		UseDefaults:    cfg.UseDefaults,
		UseIgnoreFiles: cfg.UseIgnoreFiles,
		UseGlobal:      cfg.UseGlobal,
		RecursiveMode:  true,
		CustomRules:    cfg.CustomIgnore,
		OutputDir:      cfg.OutputDir,
		Logger:         logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing ignore rules: %w", err)
	}
	if files := matcher.RuleFiles(); len(files) > 0 {
		logger.Debug("Loaded ignore rule files: %v", files)
	}

	// --- Set up walk options ---
	walkOptions := []walker.Option{
		walker.WithLogger(logger),
		walker.WithFollowSymlinks(cfg.FollowSymlinks),
		walker.WithMaxFiles(cfg.MaxFiles),
		walker.WithMaxDepth(cfg.MaxDepth),
	}

	if cfg.MaxFileSize > 0 {
		walkOptions = append(walkOptions, walker.WithMaxFileSize(cfg.MaxFileSize))
		infoLog("Maximum file size: %d bytes", cfg.MaxFileSize)
	}
	if cfg.MaxFiles > 0 {
		infoLog("Maximum files: %d", cfg.MaxFiles)
	}
	if cfg.MaxDepth > 0 {
		infoLog("Maximum depth: %d", cfg.MaxDepth)
	}

	if len(extList) > 0 {
		walkOptions = append(walkOptions, walker.WithExtensions(extList))
	}

	if cfg.ShowProgress && !cfg.Quiet {
		logger.Debug("Progress display enabled")
		walkOptions = append(walkOptions, walker.WithProgress(progressPrinter))
	}

	return matcher, walkOptions, nil
}

// progressPrinter rewrites a single status line on stderr
func progressPrinter(stats walker.ProgressStats) {
	var statusLine string

	if stats.CurrentFilePath != "" {
		// Truncate the path if it's too long
		path := stats.CurrentFilePath
		if len(path) > 40 {
			path = "..." + path[len(path)-37:]
		}

		statusLine = fmt.Sprintf("\rProcessing: %-40s | Files: %d/%d | Dirs: %d",
			path,
			stats.ProcessedFiles,
			stats.TotalFiles,
			stats.TotalDirs)
	} else {
		statusLine = fmt.Sprintf("\rScanned | Files: %d/%d | Dirs: %d\n",
			stats.ProcessedFiles,
			stats.TotalFiles,
			stats.TotalDirs)
	}

	fmt.Fprint(os.Stderr, statusLine)
}
