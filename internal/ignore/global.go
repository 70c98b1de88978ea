package ignore

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// gitConfigLoadOptions tolerates the parts of git's config syntax ini does not know about.
var gitConfigLoadOptions = ini.LoadOptions{
	Loose:                   true,
	Insensitive:             true,
	AllowBooleanKeys:        true,
	SkipUnrecognizableLines: true,
}

// loadRepositoryExcludes adds git's global excludes file and the repository's
// .git/info/exclude, both scoped at the root. Unreadable files are recorded and skipped.
func (m *IgnoreMatcher) loadRepositoryExcludes() {
	sources := []struct {
		path   string
		origin Origin
	}{
		{m.globalExcludesFile(), OriginGlobal},
		{filepath.Join(m.rootDir, ".git", "info", "exclude"), OriginExclude},
	}

	for _, src := range sources {
		if src.path == "" {
			continue
		}
		rs, ok, err := m.loadRuleFile(src.path, src.origin, "", m.rootDir)
		if err != nil {
			m.recordRuleError(src.path, err)
			continue
		}
		if ok {
			m.repository = append(m.repository, rs)
		}
	}
}

// globalExcludesFile resolves core.excludesFile the way git does: the XDG config is
// read first and ~/.gitconfig overrides it; without a setting the XDG default applies.
func (m *IgnoreMatcher) globalExcludesFile() string {
	home := m.homeDir
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			m.logger.Debug("ignore: No home directory, skipping global excludes: %v", err)
			return ""
		}
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}

	var configured string
	for _, configPath := range []string{
		filepath.Join(xdgConfig, "git", "config"),
		filepath.Join(home, ".gitconfig"),
	} {
		if value := readExcludesFileSetting(configPath); value != "" {
			configured = value
		}
	}

	if configured == "" {
		return filepath.Join(xdgConfig, "git", "ignore")
	}
	return expandHome(configured, home)
}

// readExcludesFileSetting returns core.excludesFile from one git config file, or "".
func readExcludesFileSetting(configPath string) string {
	if _, err := os.Stat(configPath); err != nil {
		return ""
	}
	cfg, err := ini.LoadSources(gitConfigLoadOptions, configPath)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cfg.Section("core").Key("excludesfile").String())
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
