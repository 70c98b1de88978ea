// Package summary handles display of scan results and statistics
package summary

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/bethropolis/llm-context-gen/internal/walker"
)

// Logger defines the minimal logging interface required
type Logger interface {
	Info(format string, args ...interface{})
}

// Report is the outcome of one run
type Report struct {
	Counts        walker.Counts
	WriteFailures int
	Truncated     bool
	MaxFiles      int
	OutputDir     string
	Duration      time.Duration
}

// DisplayResults logs the per-classification counts of a run
func DisplayResults(logger Logger, report Report, quiet bool) {
	if quiet {
		return
	}
	c := report.Counts
	logger.Info("Context files generated in: %s", report.OutputDir)
	logger.Info("Included: %d | Ignored: %d | Binary: %d | Oversized: %d | Skipped: %d | Write failures: %d",
		c.Included, c.Ignored, c.Binary, c.Oversized, c.Skipped, report.WriteFailures)
	if report.Truncated {
		logger.Info("Maximum file limit reached (%d). Some files were skipped.", report.MaxFiles)
	}
	logger.Info("Scan complete in %v.", report.Duration.Round(time.Millisecond))
}

// CountByClassification groups skipped items by their classification
func CountByClassification(items []walker.SkippedItem) map[walker.Classification]int {
	counts := make(map[walker.Classification]int)
	for _, item := range items {
		counts[item.Classification]++
	}
	return counts
}

// DisplaySkippedItems formats and prints information about skipped items
func DisplaySkippedItems(
	logger Logger,
	skippedItems []walker.SkippedItem,
	output io.Writer,
	quiet bool,
) {
	infoLog := func(format string, args ...interface{}) {
		if !quiet {
			logger.Info(format, args...)
		}
	}

	infoLog("--- Skipped Items (%d) ---", len(skippedItems))
	if len(skippedItems) == 0 {
		infoLog("No items were skipped.")
		infoLog("--- End Skipped Items ---")
		return
	}

	// Sorted copy so the walk's own ordering stays untouched
	sorted := make([]walker.SkippedItem, len(skippedItems))
	copy(sorted, skippedItems)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})

	for _, item := range sorted {
		typeStr := "FILE"
		if item.IsDir {
			typeStr = "DIR " // Add space for alignment
		}
		line := fmt.Sprintf("Skipped %s: %-.*s [%s]", typeStr, 50, item.Path, item.Reason)
		if item.Detail != "" {
			line += " " + item.Detail
		}
		fmt.Fprintln(output, line)
	}
	infoLog("--- End Skipped Items ---")
}
