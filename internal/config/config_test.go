package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// execute runs the root command with args and returns the Config handed to run.
func execute(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	var captured *Config
	cmd := NewCommand("test-version", func(cfg *Config) error {
		captured = cfg
		return nil
	})
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return captured, err
}

func TestDefaults(t *testing.T) {
	cfg, err := execute(t)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if cfg.RootDir != DefaultRootDir || cfg.OutputDir != DefaultOutputDir {
		t.Errorf("dirs = %q/%q, want %q/%q", cfg.RootDir, cfg.OutputDir, DefaultRootDir, DefaultOutputDir)
	}
	if cfg.MaxFiles != DefaultMaxFiles || cfg.MaxFileSize != DefaultMaxFileSize || cfg.MaxDepth != DefaultMaxDepth {
		t.Errorf("limits = %d/%d/%d", cfg.MaxFiles, cfg.MaxFileSize, cfg.MaxDepth)
	}
	if cfg.NoDefaults || cfg.NoGitignore || cfg.NoGlobalGitignore || cfg.IgnoreHidden || cfg.FollowSymlinks {
		t.Errorf("unexpected filtering defaults: %+v", cfg)
	}
	if len(cfg.CustomIgnore) != 0 || len(cfg.Extensions) != 0 {
		t.Errorf("expected no patterns, got %v / %v", cfg.CustomIgnore, cfg.Extensions)
	}
	if cfg.Version != "test-version" {
		t.Errorf("Version = %q", cfg.Version)
	}
	if cfg.ConfigFile != "" {
		t.Errorf("ConfigFile = %q, want none", cfg.ConfigFile)
	}
}

func TestFlags(t *testing.T) {
	cfg, err := execute(t,
		"-d", "src",
		"-o", "out",
		"-i", "*.sql,fixtures/",
		"-i", "tmp/",
		"-m", "50",
		"-s", "1024",
		"--max-depth", "3",
		"--ext", "go,md",
		"--hidden",
		"--no-defaults",
		"--follow-symlinks",
		"-q",
	)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if cfg.RootDir != "src" || cfg.OutputDir != "out" {
		t.Errorf("dirs = %q/%q", cfg.RootDir, cfg.OutputDir)
	}
	if want := []string{"*.sql", "fixtures/", "tmp/"}; !reflect.DeepEqual(cfg.CustomIgnore, want) {
		t.Errorf("CustomIgnore = %v, want %v", cfg.CustomIgnore, want)
	}
	if want := []string{"go", "md"}; !reflect.DeepEqual(cfg.Extensions, want) {
		t.Errorf("Extensions = %v, want %v", cfg.Extensions, want)
	}
	if cfg.MaxFiles != 50 || cfg.MaxFileSize != 1024 || cfg.MaxDepth != 3 {
		t.Errorf("limits = %d/%d/%d", cfg.MaxFiles, cfg.MaxFileSize, cfg.MaxDepth)
	}
	if !cfg.IgnoreHidden || !cfg.NoDefaults || !cfg.FollowSymlinks || !cfg.Quiet {
		t.Errorf("boolean flags not applied: %+v", cfg)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("LLMCTX_MAX_SIZE", "1234")
	t.Setenv("LLMCTX_IGNORE", "a.txt, b/")
	t.Setenv("LLMCTX_NO_GITIGNORE", "true")

	cfg, err := execute(t)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if cfg.MaxFileSize != 1234 {
		t.Errorf("MaxFileSize = %d, want 1234", cfg.MaxFileSize)
	}
	if want := []string{"a.txt", "b/"}; !reflect.DeepEqual(cfg.CustomIgnore, want) {
		t.Errorf("CustomIgnore = %v, want %v", cfg.CustomIgnore, want)
	}
	if !cfg.NoGitignore {
		t.Error("NoGitignore should come from the environment")
	}

	flagged, err := execute(t, "-s", "99")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if flagged.MaxFileSize != 99 {
		t.Errorf("explicit flag should win over the environment, got %d", flagged.MaxFileSize)
	}
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "llm.yaml")
	content := "max-files: 10\nno-defaults: true\next: [go, md]\noutput: ctx\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := execute(t, "--config", path, "-o", "flag-out")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if cfg.MaxFiles != 10 || !cfg.NoDefaults {
		t.Errorf("config file values not applied: %+v", cfg)
	}
	if want := []string{"go", "md"}; !reflect.DeepEqual(cfg.Extensions, want) {
		t.Errorf("Extensions = %v, want %v", cfg.Extensions, want)
	}
	if cfg.OutputDir != "flag-out" {
		t.Errorf("explicit flag should win over the config file, got %q", cfg.OutputDir)
	}
	if cfg.ConfigFile != path {
		t.Errorf("ConfigFile = %q, want %q", cfg.ConfigFile, path)
	}
}

func TestMissingConfigFile(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected a not found error, got %v", err)
	}
}

func TestRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"negative max files", []string{"--max-files=-1"}},
		{"negative max size", []string{"--max-size=-5"}},
		{"negative depth", []string{"--max-depth=-2"}},
		{"empty dir", []string{"--dir="}},
		{"positional args", []string{"extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := execute(t, tt.args...)
			if err == nil {
				t.Fatalf("expected an error, got config %+v", cfg)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList([]string{"a, b", "", " c ", "d,,e"})
	want := []string{"a", "b", "c", "d", "e"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("splitList = %v, want %v", got, want)
	}
	if got := splitList(nil); got != nil {
		t.Fatalf("splitList(nil) = %v, want nil", got)
	}
}

func TestMaxDepthFlagHelp(t *testing.T) {
	cmd := NewCommand("test-version", func(*Config) error { return nil })
	flag := cmd.Flags().Lookup(flagMaxDepth)
	if flag == nil {
		t.Fatal("max-depth flag is not registered")
	}
	if flag.DefValue != "0" {
		t.Errorf("max-depth default = %s, want 0 (no limit)", flag.DefValue)
	}
	for _, want := range []string{"directory levels entered below the root", "0 = no limit"} {
		if !strings.Contains(flag.Usage, want) {
			t.Errorf("max-depth help %q does not mention %q", flag.Usage, want)
		}
	}
}
