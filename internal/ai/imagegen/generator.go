// Package imagegen validates image requests, calls the text-to-image model and
// decodes what it returns. Persistence and the one-image-per-conversation rule
// live with the caller.
package imagegen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/brandcopilot-backend/internal/ai/aierr"
	"github.com/yungbote/brandcopilot-backend/internal/config"
	"github.com/yungbote/brandcopilot-backend/internal/observability"
	"github.com/yungbote/brandcopilot-backend/internal/platform/bedrock"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
)

type Request struct {
	Prompt string
	Width  int
	Height int
	Seed   *int64
}

type Image struct {
	Data    []byte
	Width   int
	Height  int
	Seed    int64
	ModelID string
	Format  Format
}

type Generator struct {
	log    *logger.Logger
	client bedrock.ModelInvoker
	cfg    config.ImageGeneration
	seeds  SeedSource
}

func NewGenerator(client bedrock.ModelInvoker, cfg config.ImageGeneration, baseLog *logger.Logger) *Generator {
	return &Generator{
		log:    baseLog.With("service", "ImageGenerator"),
		client: client,
		cfg:    cfg,
		seeds:  randomSeed,
	}
}

// WithSeedSource replaces the random seed source.
func (g *Generator) WithSeedSource(src SeedSource) *Generator {
	g.seeds = src
	return g
}

func (g *Generator) ModelID() string { return g.cfg.ModelID }

// Generate validates geometry before any external call, resolves the seed and
// returns the decoded image bytes.
func (g *Generator) Generate(ctx context.Context, req Request) (img Image, err error) {
	if err := ValidateSize(req.Width, req.Height); err != nil {
		return Image{}, err
	}
	size := Size{Width: req.Width, Height: req.Height}
	seed := ResolveSeed(req.Seed, g.seeds)

	body, err := json.Marshal(newTextToImageRequest(req.Prompt, size, seed))
	if err != nil {
		return Image{}, fmt.Errorf("encode image request: %w", err)
	}
	g.log.Info("Generating image", "model", g.cfg.ModelID, "size", size.String(), "seed", seed)

	ctx, span := observability.StartSpan(ctx, "bedrock.generate_image",
		attribute.String("bedrock.model_id", g.cfg.ModelID),
		attribute.String("image.size", size.String()),
		attribute.Int64("image.seed", seed),
	)
	defer func() { observability.EndSpan(span, err) }()

	out, err := g.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(g.cfg.ModelID),
		Body:        body,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		if bedrock.Classify(err) == bedrock.ClassValidation {
			return Image{}, &aierr.ArgumentError{Kind: aierr.InvalidParameters, Err: err}
		}
		return Image{}, aierr.Service(aierr.ServiceUnavailable, err)
	}

	encoded, strategy, err := extractImage(out.Body)
	if err != nil {
		return Image{}, err
	}
	g.log.Debug("Image located in response", "strategy", strategy)

	data, err := decodeImage(encoded)
	if err != nil {
		return Image{}, err
	}
	format := Describe(data)
	if format.Width != 0 && (format.Width != size.Width || format.Height != size.Height) {
		g.log.Warn("Returned image geometry differs from request", "requested", size.String(), "width", format.Width, "height", format.Height)
	}
	return Image{
		Data:    data,
		Width:   size.Width,
		Height:  size.Height,
		Seed:    seed,
		ModelID: g.cfg.ModelID,
		Format:  format,
	}, nil
}
