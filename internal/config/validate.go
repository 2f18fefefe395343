package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateGrammar(); err != nil {
		return err
	}
	if err := c.validateAcademic(); err != nil {
		return err
	}
	if err := c.validateVideoHost(); err != nil {
		return err
	}
	if err := c.validateWatcher(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateGrammar() error {
	if len(c.Grammar.LevelLetters) == 0 {
		return errors.New("grammar.level_letters must list at least one level letter")
	}
	for _, letter := range c.Grammar.LevelLetters {
		if len(letter) != 1 {
			return fmt.Errorf("grammar.level_letters entry %q must be a single letter", letter)
		}
	}
	if len(c.Grammar.TeacherPrefix) != 1 {
		return errors.New("grammar.teacher_prefix must be a single letter")
	}
	if len(c.Grammar.BranchCodes) == 0 {
		return errors.New("grammar.branch_codes must list at least one subject code")
	}
	if c.Grammar.ConflictBranch == c.Grammar.ConflictOther {
		return errors.New("grammar conflict pair must name two distinct subject codes")
	}
	if !containsFold(c.Grammar.BranchCodes, c.Grammar.ConflictBranch) ||
		!containsFold(c.Grammar.BranchCodes, c.Grammar.ConflictOther) {
		return errors.New("grammar conflict pair must be drawn from branch_codes")
	}
	if strings.EqualFold(c.Grammar.TrackAKeyword, c.Grammar.TrackBKeyword) {
		return errors.New("grammar track keywords must be distinct")
	}
	if strings.TrimSpace(c.Grammar.TrackAKeyword) == "" || strings.TrimSpace(c.Grammar.TrackBKeyword) == "" {
		return errors.New("grammar track keywords must be set")
	}
	return nil
}

func (c *Config) validateAcademic() error {
	if c.Academic.DefaultYear == "" {
		return errors.New("academic.default_year must be set")
	}
	for year, entry := range c.Academic.Years {
		if strings.TrimSpace(year) == "" {
			return errors.New("academic.years must not contain an empty year key")
		}
		for _, term := range entry.Terms {
			if strings.TrimSpace(term) == "" {
				return fmt.Errorf("academic.years.%s.terms must not contain empty values", year)
			}
		}
	}
	return nil
}

func (c *Config) validateVideoHost() error {
	if strings.TrimSpace(c.VideoHost.BaseURL) == "" {
		return errors.New("video_host.base_url must be set")
	}
	if c.VideoHost.RequestTimeout < 0 {
		return errors.New("video_host.request_timeout must not be negative")
	}
	if c.VideoHost.RetryAttempts < 0 {
		return errors.New("video_host.retry_attempts must not be negative")
	}
	if c.VideoHost.RatePerSecond < 0 {
		return errors.New("video_host.rate_per_second must not be negative")
	}
	return nil
}

func (c *Config) validateWatcher() error {
	if !c.Watcher.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Paths.WatchDir) == "" {
		return errors.New("paths.watch_dir must be set when the watcher is enabled")
	}
	if len(c.Watcher.Extensions) == 0 {
		return errors.New("watcher.extensions must list at least one extension")
	}
	for _, ext := range c.Watcher.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("watcher extension %q must start with a dot", ext)
		}
	}
	return nil
}

func containsFold(values []string, target string) bool {
	for _, value := range values {
		if strings.EqualFold(value, target) {
			return true
		}
	}
	return false
}
