package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const sampleYAML = `
default: &default
  text_generation:
    region: eu-west-1
    model_id: primary
    fallback_model_id: fallback
    max_tokens: 512
    temperature: 0.7
  document_analysis:
    region: eu-west-1
    model_id: analyzer
    max_tokens: 2048
    temperature: 0
    supported_formats: [application/pdf, image/png]
  image_generation:
    region: us-east-1
    model_id: canvas

development:
  <<: *default

staging:
  <<: *default
  image_generation:
    region: us-west-2
    model_id: canvas-staging
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bedrock.yml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadSelectsEnvironmentProfile(t *testing.T) {
	t.Setenv("BEDROCK_CONFIG_PATH", writeConfig(t))
	t.Setenv("APP_ENV", "staging")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Bedrock.ImageGeneration.ModelID != "canvas-staging" || cfg.Bedrock.ImageGeneration.Region != "us-west-2" {
		t.Fatalf("image profile: %+v", cfg.Bedrock.ImageGeneration)
	}
	if cfg.Bedrock.TextGeneration.ModelID != "primary" {
		t.Fatalf("text profile not inherited: %+v", cfg.Bedrock.TextGeneration)
	}
	if cfg.ContextMaxMessages != 10 {
		t.Fatalf("context window default: got=%d", cfg.ContextMaxMessages)
	}
}

func TestLoadFallsBackToDevelopment(t *testing.T) {
	t.Setenv("BEDROCK_CONFIG_PATH", writeConfig(t))
	t.Setenv("APP_ENV", "qa")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Bedrock.ImageGeneration.ModelID != "canvas" {
		t.Fatalf("expected development profile, got %+v", cfg.Bedrock.ImageGeneration)
	}
}

func TestLoadAppliesEnvironmentOverrides(t *testing.T) {
	t.Setenv("BEDROCK_CONFIG_PATH", writeConfig(t))
	t.Setenv("APP_ENV", "development")
	t.Setenv("AWS_REGION", "eu-central-1")
	t.Setenv("BEDROCK_FALLBACK_MODEL_ID", "other")
	t.Setenv("BEDROCK_TEXT_TEMPERATURE", "0.2")
	t.Setenv("BEDROCK_GUARDRAIL_ID", "gr-123")
	t.Setenv("DOCUMENT_SUPPORTED_FORMATS", "application/pdf")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	tg := cfg.Bedrock.TextGeneration
	if tg.Region != "eu-central-1" || tg.FallbackModelID != "other" || tg.Temperature != 0.2 {
		t.Fatalf("text overrides: %+v", tg)
	}
	if !tg.Guardrail.Enabled() {
		t.Fatalf("guardrail should be enabled")
	}
	if cfg.Bedrock.DocumentAnalysis.Region != "eu-central-1" {
		t.Fatalf("analysis region: %q", cfg.Bedrock.DocumentAnalysis.Region)
	}
	if cfg.Bedrock.ImageGeneration.Region != "us-east-1" {
		t.Fatalf("image region must ignore AWS_REGION: %q", cfg.Bedrock.ImageGeneration.Region)
	}
	if !reflect.DeepEqual(cfg.Bedrock.DocumentAnalysis.SupportedFormats, []string{"application/pdf"}) {
		t.Fatalf("formats: %v", cfg.Bedrock.DocumentAnalysis.SupportedFormats)
	}
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	t.Setenv("BEDROCK_CONFIG_PATH", writeConfig(t))
	t.Setenv("DB_DRIVER", "mysql")
	if _, err := Load(nil); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}
