package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// ProjectConfigFile is the name of the project-level config file
	ProjectConfigFile = "codatagen.yaml"
	// UserConfigDir is the directory for user-level config
	UserConfigDir = ".config/codatagen"
	// UserConfigFile is the name of the user-level config file
	UserConfigFile = "config.yaml"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger  *slog.Logger
	workDir string
	homeDir string
}

// NewLoader creates a new configuration loader rooted at the current directory
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{logger: logger}
	if cwd, err := os.Getwd(); err == nil {
		l.workDir = cwd
	}
	if home, err := os.UserHomeDir(); err == nil {
		l.homeDir = home
	}
	return l
}

// WithWorkDir sets the directory the project config search starts from
func (l *Loader) WithWorkDir(dir string) *Loader {
	l.workDir = dir
	return l
}

// WithHomeDir sets the home directory used to locate the user config
func (l *Loader) WithHomeDir(dir string) *Loader {
	l.homeDir = dir
	return l
}

// Loaded is a resolved configuration and where it came from
type Loaded struct {
	Config *Config
	// Root is the project root: the directory holding the project config,
	// or the work directory when there is none
	Root string
	// Sources lists the files applied, lowest precedence first
	Sources []string
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. User config (~/.config/codatagen/config.yaml)
// 3. Project config (codatagen.yaml in current or parent directories)
// 4. Explicit config file (--config), when explicit is not empty
func (l *Loader) Load(explicit string) (*Loaded, error) {
	// Start with defaults
	config := DefaultConfig()
	loaded := &Loaded{Config: config, Root: l.workDir}

	// Load user config
	if userConfigPath := l.userConfigPath(); userConfigPath != "" {
		if err := config.ApplyFile(userConfigPath); err == nil {
			l.logger.Debug("Loaded user config", slog.String("path", userConfigPath))
			loaded.Sources = append(loaded.Sources, userConfigPath)
		} else if !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("Failed to load user config", slog.String("path", userConfigPath), slog.String("error", err.Error()))
		}
	}

	// Load project config
	projectConfigPath := l.findProjectConfig()
	if projectConfigPath != "" {
		if err := config.ApplyFile(projectConfigPath); err != nil {
			return nil, fmt.Errorf("project config %s: %w", projectConfigPath, err)
		}
		l.logger.Debug("Loaded project config", slog.String("path", projectConfigPath))
		loaded.Sources = append(loaded.Sources, projectConfigPath)
		loaded.Root = filepath.Dir(projectConfigPath)
	} else {
		l.logger.Debug("No project config found")
	}

	// Explicit config file
	if explicit != "" {
		if err := config.ApplyFile(explicit); err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded config", slog.String("path", explicit))
		loaded.Sources = append(loaded.Sources, explicit)
		if abs, err := filepath.Abs(explicit); err == nil {
			loaded.Root = filepath.Dir(abs)
		}
	}

	// Validate final config
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return loaded, nil
}

// EnsureProjectConfig writes a default project config into dir if it doesn't
// exist. It returns the path and whether a file was created.
func (l *Loader) EnsureProjectConfig(dir string) (string, bool, error) {
	path := filepath.Join(dir, ProjectConfigFile)

	// Check if it already exists
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}

	// Create default config
	config := DefaultConfig()
	if err := config.SaveToFile(path); err != nil {
		return "", false, err
	}

	l.logger.Info("Created default project config", slog.String("path", path))
	return path, true, nil
}

// userConfigPath returns the path to the user config file
func (l *Loader) userConfigPath() string {
	if l.homeDir == "" {
		return ""
	}
	return filepath.Join(l.homeDir, UserConfigDir, UserConfigFile)
}

// findProjectConfig searches for codatagen.yaml in the work directory and its parents
func (l *Loader) findProjectConfig() string {
	if l.workDir == "" {
		return ""
	}

	dir, err := filepath.Abs(l.workDir)
	if err != nil {
		return ""
	}
	for {
		configPath := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			break
		}
		dir = parent
	}

	return ""
}
