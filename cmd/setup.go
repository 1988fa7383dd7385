package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"vacmatch/internal/logger"
	"vacmatch/internal/profile"
	"vacmatch/internal/scoring"
	"vacmatch/internal/scoring/gemini"
	"vacmatch/internal/secrets"
	"vacmatch/internal/store"
)

// newLogger builds the zap logger from the persistent flags.
func newLogger() (*zap.Logger, error) {
	return logger.New(viper.GetBool("json"), viper.GetBool("debug"))
}

func openStore(config *Config) (*store.Store, error) {
	path := config.Database
	if path == "" {
		path = viper.GetString("database")
	}
	return store.Open(path)
}

// loadProfileSummary loads the candidate profile and renders the prompt
// summary. A missing profile is fatal at startup: the pipeline must not run
// without it.
func loadProfileSummary(config *Config) (string, error) {
	path := config.Profile
	if path == "" {
		path = viper.GetString("profile")
	}

	p, err := profile.Load(path)
	if err != nil {
		return "", err
	}
	return p.Summary(), nil
}

// newOracle builds the Gemini-backed scoring oracle from configuration.
func newOracle(ctx context.Context, cfg *AIConfig, log *zap.Logger) (scoring.Oracle, error) {
	if cfg == nil || cfg.Gemini == nil {
		return nil, fmt.Errorf("gemini configuration is required under the ai section")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	keyFile := cfg.Gemini.APIKeyFile
	if keyFile == "" {
		keyFile = viper.GetString("ai.gemini.api-key-file")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: keyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	scorerLogger := log.With(
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
	)

	timeout := time.Duration(cfg.Gemini.TimeoutSeconds) * time.Second
	return gemini.NewScorer(generator, cfg.Gemini.MaxRetries, timeout, scorerLogger), nil
}
