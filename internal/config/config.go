package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WatchDir string `toml:"watch_dir"`
	DataDir  string `toml:"data_dir"`
	LogDir   string `toml:"log_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// VideoHost contains configuration for the remote video-hosting API.
type VideoHost struct {
	BaseURL        string  `toml:"base_url"`
	AccessKey      string  `toml:"access_key"`
	RequestTimeout int     `toml:"request_timeout"`
	RetryAttempts  int     `toml:"retry_attempts"`
	RatePerSecond  float64 `toml:"rate_per_second"`
}

// Grammar enumerates the closed token sets the filename parser recognizes.
// All matching against these values is case-insensitive.
type Grammar struct {
	LevelLetters   []string `toml:"level_letters"`
	TeacherPrefix  string   `toml:"teacher_prefix"`
	BranchCodes    []string `toml:"branch_codes"`
	ConflictBranch string   `toml:"conflict_branch"`
	ConflictOther  string   `toml:"conflict_other"`
	TrackAKeyword  string   `toml:"track_a_keyword"`
	TrackBKeyword  string   `toml:"track_b_keyword"`
}

// Year describes the valid structural values for one academic year.
type Year struct {
	Terms []string `toml:"terms"`
}

// Academic contains the year-keyed configuration table.
type Academic struct {
	DefaultYear string          `toml:"default_year"`
	Years       map[string]Year `toml:"years"`
}

// Matching carries scorer weight and threshold overrides. Zero values fall
// back to the defaults in the matching package.
type Matching struct {
	AutoApplyConfidence int `toml:"auto_apply_confidence"`
	SuggestionFloor     int `toml:"suggestion_floor"`
	MaxSuggestions      int `toml:"max_suggestions"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	AutoMatch      bool   `toml:"auto_match"`
	ManualReview   bool   `toml:"manual_review"`
	Errors         bool   `toml:"errors"`
}

// Watcher contains configuration for the ingest directory watcher.
type Watcher struct {
	Enabled       bool     `toml:"enabled"`
	Extensions    []string `toml:"extensions"`
	SettleSeconds int      `toml:"settle_seconds"`
}

// Config is the root configuration object.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Logging       Logging       `toml:"logging"`
	VideoHost     VideoHost     `toml:"video_host"`
	Grammar       Grammar       `toml:"grammar"`
	Academic      Academic      `toml:"academic"`
	Matching      Matching      `toml:"matching"`
	Notifications Notifications `toml:"notifications"`
	Watcher       Watcher       `toml:"watcher"`
}

// DefaultConfigPath returns the expanded default config file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/elkheta/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("elkheta.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	var err error
	if c.Paths.WatchDir, err = expandPath(c.Paths.WatchDir); err != nil {
		return err
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}

	c.Grammar.TeacherPrefix = strings.ToUpper(strings.TrimSpace(c.Grammar.TeacherPrefix))
	for i, letter := range c.Grammar.LevelLetters {
		c.Grammar.LevelLetters[i] = strings.ToUpper(strings.TrimSpace(letter))
	}
	for i, code := range c.Grammar.BranchCodes {
		c.Grammar.BranchCodes[i] = strings.ToUpper(strings.TrimSpace(code))
	}
	c.Grammar.ConflictBranch = strings.ToUpper(strings.TrimSpace(c.Grammar.ConflictBranch))
	c.Grammar.ConflictOther = strings.ToUpper(strings.TrimSpace(c.Grammar.ConflictOther))
	c.Academic.DefaultYear = strings.TrimSpace(c.Academic.DefaultYear)
	return nil
}

// EnsureDirectories creates the directories the application writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// QueueDBPath returns the SQLite database location for the upload queue.
func (c *Config) QueueDBPath() string {
	return filepath.Join(c.Paths.DataDir, "queue.db")
}

// LearningStorePath returns the durable key-value store location for learned
// keyword mappings and user selections.
func (c *Config) LearningStorePath() string {
	return filepath.Join(c.Paths.DataDir, "learning.json")
}

// TermsForYear returns the valid term identifiers for the given year, falling
// back to the default term set when the year is not configured.
func (c *Config) TermsForYear(year string) []string {
	if y, ok := c.Academic.Years[year]; ok && len(y.Terms) > 0 {
		return y.Terms
	}
	return []string{"T1", "T2"}
}

// CreateSample writes the embedded sample configuration to the given path.
func CreateSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	trimmed := strings.TrimSpace(pathValue)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", trimmed, err)
	}
	return abs, nil
}

// ExpandPath resolves ~ and relative segments for user-supplied paths.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
