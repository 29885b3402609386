// Package config loads the searchcore configuration from environment-named
// YAML files with ${VAR} expansion.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the searchcore service configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Search    SearchConfig    `yaml:"search"`
	Recommend RecommendConfig `yaml:"recommend"`
	Refine    RefineConfig    `yaml:"refine"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds Redis Stack connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"` // label for metrics, e.g. "openai"
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// SearchConfig holds hybrid search tuning.
//
// The similarity thresholds are business tuning constants, not structural
// ones, so they live in config rather than as literals in the engines.
type SearchConfig struct {
	FTSWeight            float64 `yaml:"fts_weight"`             // default 0.6
	SemanticWeight       float64 `yaml:"semantic_weight"`        // default 0.4
	ReferenceThreshold   float64 `yaml:"reference_threshold"`    // similarity floor for seed-product mode, default 0.70
	IntentThreshold      float64 `yaml:"intent_threshold"`       // looser floor for free-text intent, default 0.65
	RelatedPageThreshold float64 `yaml:"related_page_threshold"` // floor for attaching related pages, default 0.75
	EngineTimeoutSec     int     `yaml:"engine_timeout_sec"`     // per-engine budget, default 3
	DefaultLimit         int     `yaml:"default_limit"`
	MaxLimit             int     `yaml:"max_limit"`
	SKUContextRadius     int     `yaml:"sku_context_radius"` // chars of context either side of a SKU hit, default 250
}

// RecommendConfig holds recommendation engine tuning.
type RecommendConfig struct {
	JaccardThreshold   float64 `yaml:"jaccard_threshold"`    // session overlap floor, default 0.30
	MaxSimilarSessions int     `yaml:"max_similar_sessions"` // default 20
	PopularityDivisor  float64 `yaml:"popularity_divisor"`   // raw engagement / divisor, capped at 1.0, default 10
}

// RefineConfig holds conversational refinement tuning.
type RefineConfig struct {
	MinResults        int     `yaml:"min_results"`        // below this, present directly, default 5
	HomogeneitySpread float64 `yaml:"homogeneity_spread"` // max-min similarity spread, default 0.10
	PriceBandLow      float64 `yaml:"price_band_low"`     // budget/mid boundary, default 50
	PriceBandHigh     float64 `yaml:"price_band_high"`    // mid/premium boundary, default 150
	RankingCutoff     float64 `yaml:"ranking_cutoff"`     // top-match floor in ranking-aware mode, default 0.80
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.KeyPrefix == "" {
		c.Database.KeyPrefix = "searchcore:"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Search.FTSWeight <= 0 {
		c.Search.FTSWeight = 0.6
	}
	if c.Search.SemanticWeight <= 0 {
		c.Search.SemanticWeight = 0.4
	}
	if c.Search.ReferenceThreshold <= 0 {
		c.Search.ReferenceThreshold = 0.70
	}
	if c.Search.IntentThreshold <= 0 {
		c.Search.IntentThreshold = 0.65
	}
	if c.Search.RelatedPageThreshold <= 0 {
		c.Search.RelatedPageThreshold = 0.75
	}
	if c.Search.EngineTimeoutSec <= 0 {
		c.Search.EngineTimeoutSec = 3
	}
	if c.Search.DefaultLimit <= 0 {
		c.Search.DefaultLimit = 20
	}
	if c.Search.MaxLimit <= 0 {
		c.Search.MaxLimit = 100
	}
	if c.Search.SKUContextRadius <= 0 {
		c.Search.SKUContextRadius = 250
	}
	if c.Recommend.JaccardThreshold <= 0 {
		c.Recommend.JaccardThreshold = 0.30
	}
	if c.Recommend.MaxSimilarSessions <= 0 {
		c.Recommend.MaxSimilarSessions = 20
	}
	if c.Recommend.PopularityDivisor <= 0 {
		c.Recommend.PopularityDivisor = 10
	}
	if c.Refine.MinResults <= 0 {
		c.Refine.MinResults = 5
	}
	if c.Refine.HomogeneitySpread <= 0 {
		c.Refine.HomogeneitySpread = 0.10
	}
	if c.Refine.PriceBandLow <= 0 {
		c.Refine.PriceBandLow = 50
	}
	if c.Refine.PriceBandHigh <= 0 {
		c.Refine.PriceBandHigh = 150
	}
	if c.Refine.RankingCutoff <= 0 {
		c.Refine.RankingCutoff = 0.80
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if w := c.Search.FTSWeight + c.Search.SemanticWeight; w < 0.99 || w > 1.01 {
		return fmt.Errorf("search.fts_weight + search.semantic_weight must sum to 1, got %.2f", w)
	}
	for name, v := range map[string]float64{
		"search.reference_threshold":    c.Search.ReferenceThreshold,
		"search.intent_threshold":       c.Search.IntentThreshold,
		"search.related_page_threshold": c.Search.RelatedPageThreshold,
		"recommend.jaccard_threshold":   c.Recommend.JaccardThreshold,
		"refine.homogeneity_spread":     c.Refine.HomogeneitySpread,
		"refine.ranking_cutoff":         c.Refine.RankingCutoff,
	} {
		if v <= 0 || v > 1 {
			return fmt.Errorf("%s must be in (0, 1], got %v", name, v)
		}
	}
	if c.Refine.PriceBandLow >= c.Refine.PriceBandHigh {
		return fmt.Errorf("refine.price_band_low must be below refine.price_band_high")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
