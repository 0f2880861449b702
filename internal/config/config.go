package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	gmerrors "github.com/gitmuse/gitmuse/internal/errors"
)

const (
	// Dir is the fixed configuration directory, relative to the
	// repository root.
	Dir = ".gitmuse"

	configFile          = "config.json"
	commitPromptFile    = "commit-prompt.txt"
	changelogPromptFile = "changelog-prompt.txt"
	historyFile         = "history.json"

	// FilePermissions applies to every file written under Dir.
	FilePermissions = 0o644
	// DirPermissions applies to Dir itself.
	DirPermissions = 0o755
)

// Config selects the generation model per purpose. Model strings are
// provider/model pairs, e.g. "openai/gpt-4o-mini".
type Config struct {
	CommitModel    string `mapstructure:"commit_model"    json:"commit_model"`
	ChangelogModel string `mapstructure:"changelog_model" json:"changelog_model"`
	APIKey         string `mapstructure:"api_key"         json:"-"`
}

// DefaultConfig returns a Config with default model selections.
func DefaultConfig() *Config {
	return &Config{
		CommitModel:    "openai/gpt-4o-mini",
		ChangelogModel: "openai/gpt-4o-mini",
	}
}

// The model part may itself contain slashes (openrouter routes through
// vendor-prefixed names).
var modelPattern = regexp.MustCompile(`^[a-z0-9-]+/[A-Za-z0-9._:/-]+$`)

// ParseModel splits a provider/model selection string. A malformed string
// is a user-facing error.
func ParseModel(selection string) (provider, model string, err error) {
	if !modelPattern.MatchString(selection) {
		return "", "", gmerrors.NewUserError(
			fmt.Sprintf("invalid model selection %q", selection),
			"use the form <provider>/<model>, e.g. openai/gpt-4o-mini",
		)
	}
	parts := strings.SplitN(selection, "/", 2)
	return parts[0], parts[1], nil
}

// Validate checks both model selections.
func (c *Config) Validate() error {
	if _, _, err := ParseModel(c.CommitModel); err != nil {
		return fmt.Errorf("invalid commit_model: %w", err)
	}
	if _, _, err := ParseModel(c.ChangelogModel); err != nil {
		return fmt.Errorf("invalid changelog_model: %w", err)
	}
	return nil
}

// Manager owns the .gitmuse directory: the JSON configuration, the two
// prompt templates and the history document live under it.
type Manager struct {
	fs  afero.Fs
	dir string
}

// NewManager creates a Manager rooted at dir (Dir when empty).
func NewManager(fs afero.Fs, dir string) *Manager {
	if dir == "" {
		dir = Dir
	}
	return &Manager{fs: fs, dir: dir}
}

// HistoryPath returns the location of the persisted changelog history.
func (m *Manager) HistoryPath() string {
	return filepath.Join(m.dir, historyFile)
}

// Load reads config.json, layering environment variables on top. A
// missing or corrupt file yields the defaults rather than an error.
func (m *Manager) Load() (*Config, error) {
	v := viper.New()
	v.SetFs(m.fs)
	v.SetConfigFile(filepath.Join(m.dir, configFile))
	v.SetConfigType("json")
	v.SetEnvPrefix("GITMUSE")
	v.AutomaticEnv()
	if err := v.BindEnv("api_key", "GITMUSE_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind api_key env: %w", err)
	}
	defaults := DefaultConfig()
	v.SetDefault("commit_model", defaults.CommitModel)
	v.SetDefault("changelog_model", defaults.ChangelogModel)
	// Missing or unparseable config is self-healing: fall back to defaults.
	_ = v.ReadInConfig()
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		cfg = *defaults
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save persists config.json, creating the directory on first use.
func (m *Manager) Save(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := m.fs.MkdirAll(m.dir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	path := filepath.Join(m.dir, configFile)
	if err := afero.WriteFile(m.fs, path, append(data, '\n'), FilePermissions); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// CommitPrompt returns the commit-message instruction template, seeding
// the built-in default on first use.
func (m *Manager) CommitPrompt() (string, error) {
	return m.loadPrompt(commitPromptFile, defaultCommitPrompt)
}

// ChangelogPrompt returns the changelog instruction template, seeding the
// built-in default on first use.
func (m *Manager) ChangelogPrompt() (string, error) {
	return m.loadPrompt(changelogPromptFile, defaultChangelogPrompt)
}

func (m *Manager) loadPrompt(name, fallback string) (string, error) {
	path := filepath.Join(m.dir, name)
	data, err := afero.ReadFile(m.fs, path)
	if err == nil && len(strings.TrimSpace(string(data))) > 0 {
		return string(data), nil
	}
	if err := m.fs.MkdirAll(m.dir, DirPermissions); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := afero.WriteFile(m.fs, path, []byte(fallback), FilePermissions); err != nil {
		return "", fmt.Errorf("failed to seed prompt template %s: %w", name, err)
	}
	return fallback, nil
}
