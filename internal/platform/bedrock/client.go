package bedrock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/yungbote/brandcopilot-backend/internal/platform/envutil"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
)

// Converser is the slice of the runtime client used for chat-style and multimodal calls.
type Converser interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// ModelInvoker is the slice of the runtime client used for raw JSON model calls.
type ModelInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Factory caches one runtime client per region; profiles may live in different regions.
type Factory struct {
	log     *logger.Logger
	timeout time.Duration
	retries int
	clients map[string]*bedrockruntime.Client
}

func NewFactory(log *logger.Logger) *Factory {
	return &Factory{
		log:     log.With("service", "BedrockFactory"),
		timeout: time.Duration(envutil.Int("BEDROCK_HTTP_TIMEOUT_SECONDS", 120, log)) * time.Second,
		retries: envutil.Int("BEDROCK_MAX_ATTEMPTS", 3, log),
		clients: map[string]*bedrockruntime.Client{},
	}
}

// Client is not safe for concurrent use; call it during wiring only.
func (f *Factory) Client(ctx context.Context, region string) (*bedrockruntime.Client, error) {
	region = strings.TrimSpace(region)
	if region == "" {
		return nil, fmt.Errorf("bedrock: region is required")
	}
	if c, ok := f.clients[region]; ok {
		return c, nil
	}
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
		awsconfig.WithHTTPClient(awshttp.NewBuildableClient().WithTimeout(f.timeout)),
	}
	if f.retries > 0 {
		opts = append(opts, awsconfig.WithRetryMaxAttempts(f.retries))
	}
	if static := staticCredentials(f.log); static != nil {
		opts = append(opts, awsconfig.WithCredentialsProvider(static))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("bedrock: load aws config: %w", err)
	}
	c := bedrockruntime.NewFromConfig(cfg)
	f.clients[region] = c
	f.log.Info("Bedrock runtime client ready", "region", region, "http_timeout", f.timeout.String(), "max_attempts", f.retries)
	return c, nil
}

// staticCredentials returns nil unless an explicit key pair is configured,
// letting the default chain (profiles, IRSA, instance roles) apply.
func staticCredentials(log *logger.Logger) aws.CredentialsProvider {
	key := envutil.String("AWS_ACCESS_KEY_ID", "", log)
	secret := envutil.String("AWS_SECRET_ACCESS_KEY", "", log)
	if key == "" || secret == "" {
		return nil
	}
	return credentials.NewStaticCredentialsProvider(key, secret, envutil.String("AWS_SESSION_TOKEN", "", log))
}
