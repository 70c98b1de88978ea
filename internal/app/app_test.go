package app

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/bethropolis/llm-context-gen/internal/config"
	"github.com/bethropolis/llm-context-gen/internal/printer"
	"github.com/bethropolis/llm-context-gen/internal/walker"
)

func writeFile(t *testing.T, root, relativePath, content string) {
	t.Helper()
	fullPath := filepath.Join(root, filepath.FromSlash(relativePath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", relativePath, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", relativePath, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(content)
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to list %s: %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names
}

func testConfig(root, output string) *config.Config {
	return &config.Config{
		RootDir:           root,
		OutputDir:         output,
		MaxFiles:          config.DefaultMaxFiles,
		MaxFileSize:       config.DefaultMaxFileSize,
		NoGlobalGitignore: true,
		Version:           "test",
	}
}

func TestRunWritesArtifacts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "hello\n")
	writeFile(t, root, "src/main.go", "package main\n")
	writeFile(t, root, "b.bin", "x\x00y")
	writeFile(t, root, "node_modules/x.js", "module.exports = 1\n")
	writeFile(t, root, ".gitignore", "*.log\n")
	writeFile(t, root, "c.log", "noise\n")

	// Output inside the root must not feed back into the walk
	output := filepath.Join(root, "llm-context")

	var logs bytes.Buffer
	for run := 0; run < 2; run++ {
		if err := NewWithWriter(testConfig(root, output), &logs).Run(); err != nil {
			t.Fatalf("run %d failed: %v\n%s", run, err, logs.String())
		}
	}

	want := []string{"a.txt.txt", printer.TreeFileName, "src_main.go.txt"}
	if got := listDir(t, output); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("output files = %v, want %v", got, want)
	}

	if got := readFile(t, filepath.Join(output, "a.txt.txt")); got != "a.txt\n\nhello\n" {
		t.Fatalf("unexpected artifact content %q", got)
	}
	if got := readFile(t, filepath.Join(output, "src_main.go.txt")); got != "src/main.go\n\npackage main\n" {
		t.Fatalf("unexpected artifact content %q", got)
	}

	wantTree := ".\n" +
		"├── a.txt\n" +
		"└── src/\n" +
		"    └── main.go\n"
	if got := readFile(t, filepath.Join(output, printer.TreeFileName)); got != wantTree {
		t.Fatalf("unexpected tree:\n%s\nwant:\n%s", got, wantTree)
	}

	if !strings.Contains(logs.String(), "Included: 2 | Ignored: 4 | Binary: 1") {
		t.Fatalf("summary missing from logs:\n%s", logs.String())
	}
}

func TestRunTruncationNote(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		writeFile(t, root, name, name)
	}
	output := filepath.Join(t.TempDir(), "out")

	cfg := testConfig(root, output)
	cfg.MaxFiles = 2
	var logs bytes.Buffer
	if err := NewWithWriter(cfg, &logs).Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	tree := readFile(t, filepath.Join(output, printer.TreeFileName))
	if !strings.HasSuffix(tree, "\n[Maximum file limit reached (2). Some files were skipped.]\n") {
		t.Fatalf("truncation note missing:\n%s", tree)
	}
	if _, err := os.Stat(filepath.Join(output, "c.txt.txt")); !os.IsNotExist(err) {
		t.Fatal("files beyond the limit must not be written")
	}
}

func TestRunShowSkipped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.go", "package keep\n")
	writeFile(t, root, "image.png", "png")

	cfg := testConfig(root, filepath.Join(t.TempDir(), "out"))
	cfg.ShowSkipped = true
	var logs bytes.Buffer
	if err := NewWithWriter(cfg, &logs).Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(logs.String(), "image.png") {
		t.Fatalf("skipped listing should mention image.png:\n%s", logs.String())
	}
}

func TestRunUnreadableRuleFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "hello\n")
	if err := os.Mkdir(filepath.Join(root, ".gitignore"), 0o755); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(t.TempDir(), "out")

	var logs bytes.Buffer
	if err := NewWithWriter(testConfig(root, output), &logs).Run(); err != nil {
		t.Fatalf("an unreadable .gitignore must not stop the run: %v\n%s", err, logs.String())
	}
	want := []string{"a.txt.txt", printer.TreeFileName}
	if got := listDir(t, output); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("output files = %v, want %v", got, want)
	}
}

func TestRunInvalidRoot(t *testing.T) {
	parent := t.TempDir()
	output := filepath.Join(parent, "out")
	cfg := testConfig(filepath.Join(parent, "missing"), output)

	var logs bytes.Buffer
	err := NewWithWriter(cfg, &logs).Run()
	if !errors.Is(err, walker.ErrInvalidRoot) {
		t.Fatalf("expected ErrInvalidRoot, got %v", err)
	}
	if !IsReported(err) {
		t.Fatal("fatal errors from Run should be marked as reported")
	}
	if !strings.Contains(logs.String(), "ERROR") {
		t.Fatalf("fatal error was not logged:\n%s", logs.String())
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Fatal("no output directory should be created for an invalid root")
	}
}

func TestRunOutputUnavailable(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "hello\n")
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to write blocker: %v", err)
	}

	var logs bytes.Buffer
	err := NewWithWriter(testConfig(root, blocker), &logs).Run()
	if !errors.Is(err, printer.ErrOutputUnavailable) {
		t.Fatalf("expected ErrOutputUnavailable, got %v", err)
	}
}

func TestIsReported(t *testing.T) {
	if IsReported(errors.New("plain")) {
		t.Fatal("plain errors are not reported")
	}
	if IsReported(nil) {
		t.Fatal("nil is not reported")
	}
}
