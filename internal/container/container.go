// Package container wires the application's dependencies. Creation order
// matters: logger first, then the pattern store and cache, then the rule
// matcher, then the AI client, and finally the categorizer over all of
// them. Everything is injected through constructors; nothing is global.
package container

import (
	"context"
	"fmt"
	"time"

	"moneymap/internal/categorizer"
	"moneymap/internal/config"
	"moneymap/internal/logging"
	"moneymap/internal/store"
)

// Container holds the wired application dependencies. It is immutable
// after creation; components are reached through getters only.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	store       *store.PatternStore
	cache       *categorizer.PatternCache
	rules       *categorizer.RuleMatcher
	aiClient    categorizer.AIClient
	categorizer *categorizer.Categorizer
}

// NewContainer creates and wires all application dependencies from the
// given configuration.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	logger := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)

	patternStore := store.NewPatternStore(cfg.Cache.File, logger)

	cache, err := categorizer.NewPatternCache(
		patternStore,
		cfg.Cache.ConfidenceThreshold,
		time.Duration(cfg.Cache.StaleDays)*24*time.Hour,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load pattern cache: %w", err)
	}

	rules, err := categorizer.NewRuleMatcherFromFile(cfg.Rules.File, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load rule table: %w", err)
	}

	var aiClient categorizer.AIClient
	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		gemini, err := categorizer.NewGeminiClient(ctx, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.MaxRetries, logger)
		if err != nil {
			return nil, err
		}
		if cfg.AI.TimeoutSeconds > 0 {
			gemini.SetCallTimeout(time.Duration(cfg.AI.TimeoutSeconds) * time.Second)
		}
		aiClient = gemini
		logger.Info("AI classification enabled", logging.Field{Key: "model", Value: cfg.AI.Model})
	} else {
		logger.Info("AI classification disabled")
	}

	cat := categorizer.NewCategorizer(aiClient, cache, rules, cfg.AI.BatchSize, logger)

	return &Container{
		logger:      logger,
		config:      cfg,
		store:       patternStore,
		cache:       cache,
		rules:       rules,
		aiClient:    aiClient,
		categorizer: cat,
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetCategorizer returns the wired categorization pipeline.
func (c *Container) GetCategorizer() *categorizer.Categorizer {
	return c.categorizer
}

// GetCache returns the pattern cache.
func (c *Container) GetCache() *categorizer.PatternCache {
	return c.cache
}

// GetStore returns the durable pattern store.
func (c *Container) GetStore() *store.PatternStore {
	return c.store
}

// GetAIClient returns the AI client, or nil when AI is disabled.
func (c *Container) GetAIClient() categorizer.AIClient {
	return c.aiClient
}

// Close releases resources held by wired components.
func (c *Container) Close() error {
	if closer, ok := c.aiClient.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
