package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`
	TavilyAPIKey string `envconfig:"TAVILY_API_KEY"`

	// Static bearer token for API auth. Empty disables auth (local dev).
	APIKey string `envconfig:"API_KEY"`

	// Optional raw-page archive (S3-compatible storage).
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"brief-pages"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`

	// Retrieval knobs.
	TopK            int `envconfig:"TOP_K" default:"10"`
	CandidatePool   int `envconfig:"CANDIDATE_POOL" default:"100"`
	MinContentChars int `envconfig:"MIN_CONTENT_CHARS" default:"200"`
	MaxSources      int `envconfig:"MAX_SOURCES" default:"5"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("BRIEF", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) HasTavily() bool {
	return c.TavilyAPIKey != ""
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasAuth() bool {
	return c.APIKey != ""
}
