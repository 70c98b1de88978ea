// Package config defines the command line surface and layers flags over
// environment variables and an optional config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. LLMCTX_MAX_SIZE
	EnvPrefix = "LLMCTX"
	// DefaultConfigFile is picked up from the working directory when --config is not set
	DefaultConfigFile = ".llm-context.yaml"

	DefaultRootDir     = "."
	DefaultOutputDir   = "llm-context"
	DefaultMaxFiles    = 2000
	DefaultMaxFileSize = 500000
	DefaultMaxDepth    = 0
)

// Flag names, shared by cobra, viper and the environment
const (
	flagDir               = "dir"
	flagOutput            = "output"
	flagIgnore            = "ignore"
	flagMaxFiles          = "max-files"
	flagMaxSize           = "max-size"
	flagMaxDepth          = "max-depth"
	flagFollowSymlinks    = "follow-symlinks"
	flagHidden            = "hidden"
	flagNoGitignore       = "no-gitignore"
	flagNoGlobalGitignore = "no-global-gitignore"
	flagNoDefaults        = "no-defaults"
	flagExt               = "ext"
	flagVerbose           = "verbose"
	flagQuiet             = "quiet"
	flagLogLevel          = "log-level"
	flagNoColor           = "no-color"
	flagShowSkipped       = "show-skipped"
	flagProgress          = "progress"
	flagConfig            = "config"
)

// Config holds all application configuration settings
type Config struct {
	// Directory settings
	RootDir   string
	OutputDir string

	// Logging settings
	Verbose     bool
	Quiet       bool
	LogLevel    string
	NoColor     bool
	UseColors   bool
	ShowSkipped bool

	// Processing settings
	MaxFiles       int
	MaxFileSize    int64
	MaxDepth       int
	FollowSymlinks bool
	ShowProgress   bool

	// Filtering settings
	IgnoreHidden      bool
	NoGitignore       bool
	NoGlobalGitignore bool
	NoDefaults        bool
	CustomIgnore      []string
	Extensions        []string

	// ConfigFile is the file viper read, empty when none was used
	ConfigFile string
	Version    string
}

// NewCommand builds the root command. run receives the fully layered Config.
func NewCommand(version string, run func(*Config) error) *cobra.Command {
	v := viper.New()
	var configFile string

	cmd := &cobra.Command{
		Use:   "llm-context-gen",
		Short: "Generate text files for LLM context from source code",
		Long: `llm-context-gen walks a directory, keeps the files worth reading
(honoring .gitignore, .ignore and built-in defaults, skipping binaries and
oversized files) and writes one text file per source file plus file-tree.txt.`,
		Example: `  # Dump the current directory into ./llm-context
  llm-context-gen

  # Another project, extra ignores, 100 KB limit
  llm-context-gen -d ../service -i "*.sql,fixtures/" -s 100000`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := Load(v, cmd, configFile)
			if err != nil {
				return err
			}
			cfg.Version = version
			return run(cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringP(flagDir, "d", DefaultRootDir, "The directory to process")
	flags.StringP(flagOutput, "o", DefaultOutputDir, "The output directory")
	flags.StringSliceP(flagIgnore, "i", nil, "Additional ignore patterns (comma-separated, gitignore syntax)")
	flags.IntP(flagMaxFiles, "m", DefaultMaxFiles, "Maximum number of files to emit (0 = no limit)")
	flags.Int64P(flagMaxSize, "s", DefaultMaxFileSize, "Maximum file size to process in bytes (0 = no limit)")
	flags.Int(flagMaxDepth, DefaultMaxDepth,
		"Maximum number of directory levels entered below the root; files inside the deepest entered level are still read (0 = no limit)")
	flags.Bool(flagFollowSymlinks, false, "Follow symbolic links")
	flags.Bool(flagHidden, false, "Ignore hidden files/directories (starting with '.')")
	flags.Bool(flagNoGitignore, false, "Do not read .gitignore and .ignore files")
	flags.Bool(flagNoGlobalGitignore, false, "Do not read git's global excludes file and .git/info/exclude")
	flags.Bool(flagNoDefaults, false, "Do not apply the built-in ignore list (node_modules, build, .git, ...)")
	flags.StringSlice(flagExt, nil, "Only include files with these extensions (comma-separated, e.g. 'go,md')")
	flags.BoolP(flagVerbose, "v", false, "Enable verbose logging")
	flags.BoolP(flagQuiet, "q", false, "Suppress INFO messages (only show WARN, ERROR)")
	flags.String(flagLogLevel, "", "Set the logging level (DEBUG, INFO, WARN, ERROR, NONE)")
	flags.Bool(flagNoColor, false, "Disable color output")
	flags.Bool(flagShowSkipped, false, "Show a list of skipped files/directories and reasons at the end")
	flags.Bool(flagProgress, false, "Show progress information")
	flags.StringVar(&configFile, flagConfig, "", "Config file (default "+DefaultConfigFile+" when present)")

	return cmd
}

// Load layers flags over environment variables over the config file over defaults.
func Load(v *viper.Viper, cmd *cobra.Command, configFile string) (*Config, error) {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("config: failed to bind flags: %w", err)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			configFile = DefaultConfigFile
		}
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) || os.IsNotExist(err) {
				return nil, fmt.Errorf("config: config file '%s' not found", configFile)
			}
			return nil, fmt.Errorf("config: failed to read '%s': %w", configFile, err)
		}
	}

	c := &Config{
		RootDir:           v.GetString(flagDir),
		OutputDir:         v.GetString(flagOutput),
		Verbose:           v.GetBool(flagVerbose),
		Quiet:             v.GetBool(flagQuiet),
		LogLevel:          v.GetString(flagLogLevel),
		NoColor:           v.GetBool(flagNoColor),
		ShowSkipped:       v.GetBool(flagShowSkipped),
		MaxFiles:          v.GetInt(flagMaxFiles),
		MaxFileSize:       v.GetInt64(flagMaxSize),
		MaxDepth:          v.GetInt(flagMaxDepth),
		FollowSymlinks:    v.GetBool(flagFollowSymlinks),
		ShowProgress:      v.GetBool(flagProgress),
		IgnoreHidden:      v.GetBool(flagHidden),
		NoGitignore:       v.GetBool(flagNoGitignore),
		NoGlobalGitignore: v.GetBool(flagNoGlobalGitignore),
		NoDefaults:        v.GetBool(flagNoDefaults),
		CustomIgnore:      splitList(v.GetStringSlice(flagIgnore)),
		Extensions:        splitList(v.GetStringSlice(flagExt)),
		ConfigFile:        v.ConfigFileUsed(),
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	// Determine if colors should be used
	c.UseColors = !c.NoColor && isatty.IsTerminal(os.Stderr.Fd())

	return c, nil
}

// Validate rejects settings that cannot be acted on
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.RootDir) == "":
		return errors.New("config: --dir must not be empty")
	case strings.TrimSpace(c.OutputDir) == "":
		return errors.New("config: --output must not be empty")
	case c.MaxFiles < 0:
		return fmt.Errorf("config: --max-files must be >= 0, got %d", c.MaxFiles)
	case c.MaxFileSize < 0:
		return fmt.Errorf("config: --max-size must be >= 0, got %d", c.MaxFileSize)
	case c.MaxDepth < 0:
		return fmt.Errorf("config: --max-depth must be >= 0, got %d", c.MaxDepth)
	}
	return nil
}

// splitList flattens comma separated values, which environment variables and
// config files deliver as a single string.
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}
