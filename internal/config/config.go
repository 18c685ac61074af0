// Package config handles Footman configuration loading and management.
package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Model: ModelConfig{
			BaseURL:        "https://api.openai.com/v1",
			RouterModel:    "gpt-4o-mini",
			ResponderModel: "gpt-4o-mini",
			TimeoutSecs:    60,
			MaxRetries:     3,
		},
		Budget: BudgetConfig{
			Routing:    3000,
			Synthesis:  4000,
			Extraction: 2000,
			TeamPlayer: 4000,
			News:       4000,
			Prediction: 4000,
			General:    1000,
		},
		Generation: GenerationConfig{
			TeamPlayerTemperature: 1.2,
			PredictionTemperature: 0.5,
		},
	}
}

// Load loads the configuration from the given path.
// If the file doesn't exist, returns defaults. Secrets from the
// environment override the file in either case.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return applyEnv(cfg), nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return applyEnv(cfg), nil
}

// Save saves the configuration to the given path. Secrets are included;
// the file is written user-readable only.
func (c *Config) Save(configPath string) error {
	file, err := os.OpenFile(configPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	return encoder.Encode(c)
}

// applyEnv overrides secrets and endpoints from the environment so keys
// never have to live in the config file.
func applyEnv(cfg *Config) *Config {
	if v := os.Getenv("FOOTMAN_API_KEY"); v != "" {
		cfg.Model.APIKey = v
	}
	if v := os.Getenv("FOOTMAN_BASE_URL"); v != "" {
		cfg.Model.BaseURL = v
	}
	if v := os.Getenv("FOOTMAN_ROUTER_MODEL"); v != "" {
		cfg.Model.RouterModel = v
	}
	if v := os.Getenv("FOOTMAN_RESPONDER_MODEL"); v != "" {
		cfg.Model.ResponderModel = v
	}
	if v := os.Getenv("FOOTMAN_STATS_API_KEY"); v != "" {
		cfg.Providers.StatsAPIKey = v
	}
	if v := os.Getenv("FOOTMAN_NEWS_API_KEY"); v != "" {
		cfg.Providers.NewsAPIKey = v
	}
	if v := os.Getenv("FOOTMAN_PREDICTION_URL"); v != "" {
		cfg.Providers.PredictionURL = v
	}
	if v := os.Getenv("FOOTMAN_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Model.MaxRetries = n
		}
	}
	return cfg
}
