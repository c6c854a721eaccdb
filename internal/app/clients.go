package app

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/yungbote/brandcopilot-backend/internal/config"
	"github.com/yungbote/brandcopilot-backend/internal/platform/bedrock"
	"github.com/yungbote/brandcopilot-backend/internal/platform/gcp"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
	"github.com/yungbote/brandcopilot-backend/internal/platform/redisbus"
)

type Clients struct {
	// One Bedrock client per profile, since each profile may live in its own region.
	BedrockText     *bedrockruntime.Client
	BedrockAnalysis *bedrockruntime.Client
	BedrockImage    *bedrockruntime.Client

	Bucket gcp.BucketService
	Events redisbus.Bus
}

func wireClients(ctx context.Context, log *logger.Logger, cfg config.Config) (Clients, error) {
	log.Info("Wiring clients...")

	factory := bedrock.NewFactory(log)
	text, err := factory.Client(ctx, cfg.Bedrock.TextGeneration.Region)
	if err != nil {
		return Clients{}, fmt.Errorf("init bedrock text client: %w", err)
	}
	analysis, err := factory.Client(ctx, cfg.Bedrock.DocumentAnalysis.Region)
	if err != nil {
		return Clients{}, fmt.Errorf("init bedrock analysis client: %w", err)
	}
	image, err := factory.Client(ctx, cfg.Bedrock.ImageGeneration.Region)
	if err != nil {
		return Clients{}, fmt.Errorf("init bedrock image client: %w", err)
	}

	bucket, err := gcp.NewBucketService(log, gcp.BucketNames{
		Document: cfg.Storage.DocumentBucket,
		Image:    cfg.Storage.ImageBucket,
	})
	if err != nil {
		return Clients{}, fmt.Errorf("init bucket client: %w", err)
	}

	events, err := redisbus.New(log, redisbus.Config{Addr: cfg.Redis.Addr, Channel: cfg.Redis.Channel})
	if err != nil {
		return Clients{}, fmt.Errorf("init redis bus: %w", err)
	}

	return Clients{
		BedrockText:     text,
		BedrockAnalysis: analysis,
		BedrockImage:    image,
		Bucket:          bucket,
		Events:          events,
	}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Events != nil {
		_ = c.Events.Close()
	}
}
