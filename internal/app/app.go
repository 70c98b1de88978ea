package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/bethropolis/llm-context-gen/internal/config"
	"github.com/bethropolis/llm-context-gen/internal/logger"
	"github.com/bethropolis/llm-context-gen/internal/printer"
	"github.com/bethropolis/llm-context-gen/internal/setup"
	"github.com/bethropolis/llm-context-gen/internal/summary"
	"github.com/bethropolis/llm-context-gen/internal/walker"
	"github.com/fatih/color"
)

// App encapsulates the main application functionality
type App struct {
	cfg *config.Config
	log *logger.Logger
	// Output receives the skipped-items listing
	Output io.Writer
}

// New creates a new App instance logging to stderr
func New(cfg *config.Config) *App {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter creates an App whose logs and listings go to out
func NewWithWriter(cfg *config.Config, out io.Writer) *App {
	color.NoColor = !cfg.UseColors

	log := logger.New(out, cfg.Verbose, cfg.UseColors)

	// Apply log level if specified (overrides verbose/quiet flags)
	if cfg.LogLevel != "" {
		log.SetLevel(cfg.LogLevel)
	} else if cfg.Quiet {
		log.WithLevel(logger.LevelWarn)
	}

	return &App{
		cfg:    cfg,
		log:    log,
		Output: out,
	}
}

// Run executes the main application logic. Only fatal preconditions are
// returned; per-entry and per-artifact problems end up in the summary.
func (a *App) Run() error {
	startTime := time.Now()

	infoLog := func(format string, args ...interface{}) {
		if !a.cfg.Quiet {
			a.log.Info(format, args...)
		}
	}

	if a.log.Enabled(logger.LevelDebug) {
		a.log.Debug("Version: %s", a.cfg.Version)
		if a.cfg.ConfigFile != "" {
			a.log.Debug("Config file: %s", a.cfg.ConfigFile)
		}
		a.log.Debug("Color output: %v", a.cfg.UseColors)
		a.log.Debug("Directory: %s, output: %s", a.cfg.RootDir, a.cfg.OutputDir)
		a.log.Debug("Ignore settings: hidden=%v gitignore=%v global=%v defaults=%v",
			a.cfg.IgnoreHidden, !a.cfg.NoGitignore, !a.cfg.NoGlobalGitignore, !a.cfg.NoDefaults)
	}

	// --- Preconditions: root first, then the output directory ---
	absRootDir, err := walker.ValidateRoot(a.cfg.RootDir)
	if err != nil {
		return a.fail(err)
	}
	absOutputDir, err := filepath.Abs(a.cfg.OutputDir)
	if err != nil {
		return a.fail(fmt.Errorf("%w: %v", printer.ErrOutputUnavailable, err))
	}

	infoLog("Processing directory: %s", absRootDir)

	matcher, walkOptions, err := setup.ConfigureWalker(setup.WalkerConfig{
		RootDir:        absRootDir,
		OutputDir:      absOutputDir,
		MaxFiles:       a.cfg.MaxFiles,
		MaxFileSize:    a.cfg.MaxFileSize,
		MaxDepth:       a.cfg.MaxDepth,
		FollowSymlinks: a.cfg.FollowSymlinks,
		Extensions:     a.cfg.Extensions,
		IgnoreHidden:   a.cfg.IgnoreHidden,
		UseIgnoreFiles: !a.cfg.NoGitignore,
		UseGlobal:      !a.cfg.NoGlobalGitignore,
		UseDefaults:    !a.cfg.NoDefaults,
		CustomIgnore:   a.cfg.CustomIgnore,
		ShowProgress:   a.cfg.ShowProgress,
		Quiet:          a.cfg.Quiet,
		Logger:         a.log,
	}, infoLog)
	if err != nil {
		return a.fail(err)
	}

	// The output directory is created only once nothing else can stop the run
	out, err := printer.Open(absOutputDir, printer.WithLogger(a.log))
	if err != nil {
		return a.fail(err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil {
			a.log.Warn("Could not release output directory: %v", closeErr)
		}
	}()

	// --- Walk ---
	result, err := walker.Walk(absRootDir, matcher, walkOptions...)
	if err != nil {
		return a.fail(fmt.Errorf("critical error during directory walk: %w", err))
	}
	a.log.Debug("Skip classes: %v", summary.CountByClassification(result.Skipped))

	// --- Write artifacts ---
	writeFailures := 0
	for i, entry := range result.Files {
		if _, err := out.WriteFile(entry.RelativePath, entry.AbsolutePath); err != nil {
			writeFailures++
			a.log.Warn("Skipping artifact for '%s': %v", entry.RelativePath, err)
			continue
		}
		if (i+1)%100 == 0 {
			infoLog("Processed %d files...", i+1)
		}
	}

	var note string
	if result.Truncated {
		note = fmt.Sprintf("[Maximum file limit reached (%d). Some files were skipped.]", a.cfg.MaxFiles)
	}
	if err := out.WriteTree(result.Tree, note); err != nil {
		writeFailures++
		a.log.Warn("Could not write %s: %v", printer.TreeFileName, err)
	}

	// --- Summary ---
	summary.DisplayResults(a.log, summary.Report{
		Counts:        result.Counts,
		WriteFailures: writeFailures,
		Truncated:     result.Truncated,
		MaxFiles:      a.cfg.MaxFiles,
		OutputDir:     out.Dir(),
		Duration:      time.Since(startTime),
	}, a.cfg.Quiet)

	if a.cfg.ShowSkipped {
		summary.DisplaySkippedItems(a.log, result.Skipped, a.Output, a.cfg.Quiet)
	}
	return nil
}

// reportedError marks an error that Run already logged
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

func (a *App) fail(err error) error {
	a.log.Error("%v", err)
	return reportedError{err: err}
}

// IsReported reports whether err was already logged by Run
func IsReported(err error) bool {
	var reported reportedError
	return errors.As(err, &reported)
}
