// Package config loads the pipeline configuration from a YAML file with
// environment fallbacks for credentials and connection details.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	// Provider selects the text-generation backend: openai, gemini or
	// bedrock.
	Provider string `yaml:"provider"`

	// Model overrides the provider's default model for every agent.
	Model string `yaml:"model"`

	// APIKey is the provider credential. Falls back to the provider's
	// conventional environment variable when empty.
	APIKey string `yaml:"api_key"`

	// Region is the AWS region for the bedrock provider.
	Region string `yaml:"region"`

	// RequestsPerSecond throttles generation calls; 0 disables pacing.
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// ParallelLimit caps how many planning agents run at once; 0 means
	// all of them.
	ParallelLimit int64 `yaml:"parallel_limit"`

	// TargetAudience seeds the research phase when set.
	TargetAudience string `yaml:"target_audience"`

	// Agents carries per-role overrides keyed by agent name.
	Agents map[string]AgentConfig `yaml:"agents"`

	Knowledge     KnowledgeConfig     `yaml:"knowledge"`
	Output        OutputConfig        `yaml:"output"`
	Publisher     PublisherConfig     `yaml:"publisher"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// AgentConfig holds per-role generation overrides. Temperature is a
// pointer so that an explicit zero survives as zero and only an absent key
// falls back to the default.
type AgentConfig struct {
	Model       string   `yaml:"model"`
	MaxTokens   int      `yaml:"max_tokens"`
	Temperature *float64 `yaml:"temperature"`
}

// KnowledgeConfig selects and configures the similar-project index.
type KnowledgeConfig struct {
	// Backend is memory, redis, firestore, or empty to disable lookup.
	Backend string `yaml:"backend"`

	// SeedFile is a JSON file of records loaded into the memory backend
	// and used as the refresh source for `ideaforge sync`.
	SeedFile string `yaml:"seed_file"`

	// RefreshSchedule is a cron expression for periodic reindexing.
	RefreshSchedule string `yaml:"refresh_schedule"`

	Redis     RedisConfig     `yaml:"redis"`
	Firestore FirestoreConfig `yaml:"firestore"`
}

// RedisConfig holds Redis connection settings for the knowledge index.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// FirestoreConfig holds Firestore settings for the knowledge index.
type FirestoreConfig struct {
	ProjectID       string `yaml:"project_id"`
	CredentialsFile string `yaml:"credentials_file"`
	Collection      string `yaml:"collection"`
}

// OutputConfig controls where specification bundles are written.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// PublisherConfig controls the best-effort tracker import.
type PublisherConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Token   string `yaml:"token"`
}

// ObservabilityConfig controls tracing and the metrics endpoint.
type ObservabilityConfig struct {
	// TraceExporter is otlp, stdout or none.
	TraceExporter string `yaml:"trace_exporter"`
	OTLPEndpoint  string `yaml:"otlp_endpoint"`

	// MetricsPort serves /metrics and /health when greater than zero.
	MetricsPort int `yaml:"metrics_port"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Provider: "openai",
		Output:   OutputConfig{Dir: "output"},
		Observability: ObservabilityConfig{
			TraceExporter: "none",
		},
	}
}

// Load reads the configuration from path, applying defaults and
// environment fallbacks.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// LoadOrDefault loads path when it exists, otherwise returns defaults with
// environment fallbacks applied.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		cfg.applyEnv()
		return cfg, nil
	}
	return Load(path)
}

func (c *Config) applyEnv() {
	if c.APIKey == "" {
		switch c.Provider {
		case "openai":
			c.APIKey = os.Getenv("OPENAI_API_KEY")
		case "gemini":
			c.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}
	if c.Knowledge.Redis.Addr == "" {
		c.Knowledge.Redis.Addr = os.Getenv("REDIS_ADDR")
	}
	if c.Knowledge.Firestore.ProjectID == "" {
		c.Knowledge.Firestore.ProjectID = os.Getenv("GCP_PROJECT")
	}
	if c.Knowledge.Firestore.CredentialsFile == "" {
		c.Knowledge.Firestore.CredentialsFile = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	}
	if c.Publisher.Token == "" {
		c.Publisher.Token = os.Getenv("TRACKER_API_TOKEN")
	}
}

// Save writes the configuration to path.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for a workflow run.
func (c *Config) Validate() error {
	switch c.Provider {
	case "openai", "gemini", "bedrock":
	case "":
		return fmt.Errorf("provider is required")
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}

	switch c.Knowledge.Backend {
	case "", "memory", "redis", "firestore":
	default:
		return fmt.Errorf("unknown knowledge backend %q", c.Knowledge.Backend)
	}

	if c.Publisher.Enabled && c.Publisher.URL == "" {
		return fmt.Errorf("publisher.url is required when the publisher is enabled")
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}
	return nil
}

// ProviderConfig returns the provider factory configuration.
func (c *Config) ProviderConfig() map[string]any {
	return map[string]any{
		"api_key": c.APIKey,
		"model":   c.Model,
		"region":  c.Region,
	}
}

// AgentOptions returns the per-role overrides for the named agent,
// inheriting the global model when the role sets none.
func (c *Config) AgentOptions(name string) AgentConfig {
	ac := c.Agents[name]
	if ac.Model == "" {
		ac.Model = c.Model
	}
	return ac
}
