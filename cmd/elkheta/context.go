package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ezzeldin-elkheta/elkheta-operation/internal/config"
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/kvstore"
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/library"
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/logging"
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/matchcache"
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/notifications"
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/parsing"
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/queue"
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/workflow"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	c.loggerOnce.Do(func() {
		logger, logErr := logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
		if logErr != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger, nil
}

// pipeline bundles the wired components most commands need. Callers must
// Close it when done.
type pipeline struct {
	cfg      *config.Config
	parser   *parsing.Parser
	cache    *matchcache.Cache
	store    *queue.Store
	client   *library.Client
	notifier notifications.Service
	matcher  *workflow.Matcher
	logger   *slog.Logger
}

func (c *commandContext) buildPipeline() (*pipeline, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}

	parser, err := parsing.NewParser(cfg)
	if err != nil {
		return nil, err
	}
	store, err := queue.Open(cfg)
	if err != nil {
		return nil, err
	}

	cache := matchcache.New(kvstore.Open(cfg.LearningStorePath(), logger), logger)
	cache.Load()

	notifier := notifications.NewService(cfg)
	client := library.NewClient(cfg, logger)
	matcher := workflow.NewMatcher(cfg, parser, cache, notifier, logger)

	return &pipeline{
		cfg:      cfg,
		parser:   parser,
		cache:    cache,
		store:    store,
		client:   client,
		notifier: notifier,
		matcher:  matcher,
		logger:   logger,
	}, nil
}

func (p *pipeline) Close() error {
	return p.store.Close()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
