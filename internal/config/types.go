// Package config provides configuration types for Footman.
package config

// Config represents the main Footman configuration.
type Config struct {
	Model      ModelConfig      `toml:"model"`
	Providers  ProvidersConfig  `toml:"providers"`
	Budget     BudgetConfig     `toml:"budget"`
	Generation GenerationConfig `toml:"generation"`
}

// ModelConfig contains chat-model settings.
type ModelConfig struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	RouterModel    string `toml:"router_model"`
	ResponderModel string `toml:"responder_model"`
	TimeoutSecs    int    `toml:"timeout_secs"`
	MaxRetries     int    `toml:"max_retries"`
}

// ProvidersConfig contains the football data provider settings.
type ProvidersConfig struct {
	StatsAPIKey   string `toml:"stats_api_key"`
	NewsAPIKey    string `toml:"news_api_key"`
	PredictionURL string `toml:"prediction_url"`
}

// BudgetConfig contains the per-capability token ceilings.
type BudgetConfig struct {
	Routing    int `toml:"routing"`
	Synthesis  int `toml:"synthesis"`
	Extraction int `toml:"extraction"`
	TeamPlayer int `toml:"team_player"`
	News       int `toml:"news"`
	Prediction int `toml:"prediction"`
	General    int `toml:"general"`
}

// GenerationConfig contains sampling defaults for the final answers.
type GenerationConfig struct {
	TeamPlayerTemperature float64 `toml:"team_player_temperature"`
	PredictionTemperature float64 `toml:"prediction_temperature"`
}
