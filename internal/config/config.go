// Package config assembles the process-wide configuration once at startup.
// Values come from config/bedrock.yml (one section per APP_ENV) and are then
// overridden by environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/brandcopilot-backend/internal/platform/envutil"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
)

type Guardrail struct {
	Identifier string `yaml:"identifier"`
	Version    string `yaml:"version"`
}

func (g Guardrail) Enabled() bool { return strings.TrimSpace(g.Identifier) != "" }

type TextGeneration struct {
	Region          string    `yaml:"region"`
	ModelID         string    `yaml:"model_id"`
	FallbackModelID string    `yaml:"fallback_model_id"`
	MaxTokens       int       `yaml:"max_tokens"`
	Temperature     float64   `yaml:"temperature"`
	Guardrail       Guardrail `yaml:"guardrail"`
}

type DocumentAnalysis struct {
	Region           string   `yaml:"region"`
	ModelID          string   `yaml:"model_id"`
	MaxTokens        int      `yaml:"max_tokens"`
	Temperature      float64  `yaml:"temperature"`
	SupportedFormats []string `yaml:"supported_formats"`
}

type ImageGeneration struct {
	Region  string `yaml:"region"`
	ModelID string `yaml:"model_id"`
}

type Bedrock struct {
	TextGeneration   TextGeneration   `yaml:"text_generation"`
	DocumentAnalysis DocumentAnalysis `yaml:"document_analysis"`
	ImageGeneration  ImageGeneration  `yaml:"image_generation"`
}

type Database struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string
}

type Temporal struct {
	Address   string
	Namespace string
	TaskQueue string
}

func (t Temporal) Enabled() bool { return t.Address != "" }

type Storage struct {
	DocumentBucket string
	ImageBucket    string
}

type Redis struct {
	Addr    string
	Channel string
}

type Config struct {
	Env     string
	Port    string
	Bedrock Bedrock

	ContextMaxMessages          int
	DocumentAnalysisMaxAttempts int
	WorkerConcurrency           int

	Database Database
	Temporal Temporal
	Storage  Storage
	Redis    Redis
}

const defaultConfigPath = "config/bedrock.yml"

// Load reads the profile file and applies environment overrides.
func Load(log *logger.Logger) (Config, error) {
	env := envutil.String("APP_ENV", "development", log)
	path := envutil.String("BEDROCK_CONFIG_PATH", defaultConfigPath, log)

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}
	profiles, err := parseProfiles(raw, env)
	if err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg := Config{
		Env:     env,
		Port:    envutil.String("PORT", "8080", log),
		Bedrock: applyBedrockOverrides(profiles, log),

		ContextMaxMessages:          envutil.Int("CONTEXT_MAX_MESSAGES", 10, log),
		DocumentAnalysisMaxAttempts: envutil.Int("DOCUMENT_ANALYSIS_MAX_ATTEMPTS", 3, log),
		WorkerConcurrency:           envutil.Int("WORKER_CONCURRENCY", 4, log),

		Database: Database{
			Driver:     strings.ToLower(envutil.String("DB_DRIVER", "postgres", log)),
			Host:       envutil.String("POSTGRES_HOST", "localhost", log),
			Port:       envutil.String("POSTGRES_PORT", "5432", log),
			User:       envutil.String("POSTGRES_USER", "postgres", log),
			Password:   envutil.String("POSTGRES_PASSWORD", "", log),
			Name:       envutil.String("POSTGRES_NAME", "brandcopilot", log),
			SSLMode:    envutil.String("POSTGRES_SSLMODE", "disable", log),
			SQLitePath: envutil.String("SQLITE_PATH", "brandcopilot.db", log),
		},
		Temporal: Temporal{
			Address:   envutil.String("TEMPORAL_ADDRESS", "", log),
			Namespace: envutil.String("TEMPORAL_NAMESPACE", "brandcopilot", log),
			TaskQueue: envutil.String("TEMPORAL_TASK_QUEUE", "brandcopilot", log),
		},
		Storage: Storage{
			DocumentBucket: envutil.String("DOCUMENT_GCS_BUCKET_NAME", "", log),
			ImageBucket:    envutil.String("IMAGE_GCS_BUCKET_NAME", "", log),
		},
		Redis: Redis{
			Addr:    envutil.String("REDIS_ADDR", "", log),
			Channel: envutil.String("REDIS_CHANNEL", "brandcopilot.events", log),
		},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parseProfiles(raw []byte, env string) (Bedrock, error) {
	var all map[string]Bedrock
	if err := yaml.Unmarshal(raw, &all); err != nil {
		return Bedrock{}, err
	}
	if b, ok := all[env]; ok {
		return b, nil
	}
	if b, ok := all["development"]; ok {
		return b, nil
	}
	return Bedrock{}, fmt.Errorf("no profile for %q and no development fallback", env)
}

func applyBedrockOverrides(b Bedrock, log *logger.Logger) Bedrock {
	region := envutil.String("AWS_REGION", "", log)

	tg := &b.TextGeneration
	if region != "" {
		tg.Region = region
	}
	tg.ModelID = envutil.String("BEDROCK_TEXT_MODEL_ID", tg.ModelID, log)
	tg.FallbackModelID = envutil.String("BEDROCK_FALLBACK_MODEL_ID", tg.FallbackModelID, log)
	tg.MaxTokens = envutil.Int("BEDROCK_TEXT_MAX_TOKENS", tg.MaxTokens, log)
	tg.Temperature = envutil.Float("BEDROCK_TEXT_TEMPERATURE", tg.Temperature, log)
	tg.Guardrail.Identifier = envutil.String("BEDROCK_GUARDRAIL_ID", tg.Guardrail.Identifier, log)
	tg.Guardrail.Version = envutil.String("BEDROCK_GUARDRAIL_VERSION", tg.Guardrail.Version, log)

	da := &b.DocumentAnalysis
	if region != "" {
		da.Region = region
	}
	da.ModelID = envutil.String("BEDROCK_ANALYSIS_MODEL_ID", da.ModelID, log)
	da.MaxTokens = envutil.Int("BEDROCK_ANALYSIS_MAX_TOKENS", da.MaxTokens, log)
	da.Temperature = envutil.Float("BEDROCK_ANALYSIS_TEMPERATURE", da.Temperature, log)
	da.SupportedFormats = envutil.List("DOCUMENT_SUPPORTED_FORMATS", da.SupportedFormats, log)

	// Nova Canvas is only offered in a few regions, so AWS_REGION does not apply here.
	ig := &b.ImageGeneration
	ig.Region = envutil.String("BEDROCK_IMAGE_REGION", ig.Region, log)
	ig.ModelID = envutil.String("BEDROCK_IMAGE_MODEL_ID", ig.ModelID, log)
	return b
}

func (c Config) Validate() error {
	switch {
	case c.Bedrock.TextGeneration.ModelID == "":
		return fmt.Errorf("text_generation.model_id is required")
	case c.Bedrock.TextGeneration.Region == "":
		return fmt.Errorf("text_generation.region is required")
	case c.Bedrock.DocumentAnalysis.ModelID == "":
		return fmt.Errorf("document_analysis.model_id is required")
	case len(c.Bedrock.DocumentAnalysis.SupportedFormats) == 0:
		return fmt.Errorf("document_analysis.supported_formats must not be empty")
	case c.Bedrock.ImageGeneration.ModelID == "":
		return fmt.Errorf("image_generation.model_id is required")
	case c.ContextMaxMessages < 1:
		return fmt.Errorf("CONTEXT_MAX_MESSAGES must be positive")
	case c.DocumentAnalysisMaxAttempts < 1:
		return fmt.Errorf("DOCUMENT_ANALYSIS_MAX_ATTEMPTS must be positive")
	case c.Database.Driver != "postgres" && c.Database.Driver != "sqlite":
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	return nil
}
