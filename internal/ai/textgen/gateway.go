// Package textgen invokes the conversational text model with a
// primary/fallback policy and surfaces guardrail rejections as their own
// error kind.
package textgen

import (
	"context"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/brandcopilot-backend/internal/ai/aierr"
	"github.com/yungbote/brandcopilot-backend/internal/ai/prompt"
	"github.com/yungbote/brandcopilot-backend/internal/config"
	"github.com/yungbote/brandcopilot-backend/internal/observability"
	"github.com/yungbote/brandcopilot-backend/internal/platform/bedrock"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
)

type Result struct {
	Text       string
	StopReason string
	// ModelID is the model that produced Text, which may be the fallback.
	ModelID string
}

type Gateway struct {
	log    *logger.Logger
	client bedrock.Converser
	cfg    config.TextGeneration
}

func NewGateway(client bedrock.Converser, cfg config.TextGeneration, baseLog *logger.Logger) *Gateway {
	return &Gateway{
		log:    baseLog.With("service", "TextGateway"),
		client: client,
		cfg:    cfg,
	}
}

// Invoke calls the primary model and, on access-denied or throttling, the
// fallback model once with the identical request. A guardrail stop is
// reported as aierr.ContentBlocked and is never retried.
func (g *Gateway) Invoke(ctx context.Context, messages []prompt.Message, system string) (Result, error) {
	primary := g.cfg.ModelID
	res, err := g.converse(ctx, primary, messages, system)
	if err == nil {
		return res, nil
	}
	var me *aierr.ModelError
	if !errors.As(err, &me) || !g.shouldFallback(me) {
		return Result{}, err
	}

	fallback := g.cfg.FallbackModelID
	g.log.Warn("Primary model failed, retrying on fallback",
		"class", me.Kind.String(),
		"primary", primary,
		"fallback", fallback,
		"region", g.cfg.Region,
	)
	return g.converse(ctx, fallback, messages, system)
}

func (g *Gateway) shouldFallback(me *aierr.ModelError) bool {
	if me.Kind != aierr.AccessDenied && me.Kind != aierr.Throttled {
		return false
	}
	fb := strings.TrimSpace(g.cfg.FallbackModelID)
	return fb != "" && fb != g.cfg.ModelID
}

func (g *Gateway) converse(ctx context.Context, modelID string, messages []prompt.Message, system string) (res Result, err error) {
	ctx, span := observability.StartSpan(ctx, "bedrock.converse",
		attribute.String("bedrock.model_id", modelID),
		attribute.Int("bedrock.messages", len(messages)),
	)
	defer func() { observability.EndSpan(span, err) }()

	out, err := g.client.Converse(ctx, g.buildInput(modelID, messages, system))
	if err != nil {
		return Result{}, classifyTransport(modelID, err)
	}

	stop := string(out.StopReason)
	span.SetAttributes(attribute.String("bedrock.stop_reason", stop))
	if isPolicyStop(out.StopReason) {
		g.log.Info("Generation stopped by guardrail", "model", modelID, "stop_reason", stop)
		return Result{}, aierr.Model(aierr.ContentBlocked, modelID, nil)
	}

	text, ok := firstText(out.Output)
	if !ok {
		return Result{}, aierr.Model(aierr.Unavailable, modelID, errors.New("response carried no text block"))
	}
	return Result{Text: text, StopReason: stop, ModelID: modelID}, nil
}

func (g *Gateway) buildInput(modelID string, messages []prompt.Message, system string) *bedrockruntime.ConverseInput {
	msgs := make([]types.Message, 0, len(messages))
	for _, m := range messages {
		msgs = append(msgs, types.Message{
			Role:    types.ConversationRole(m.Role),
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: m.Text}},
		})
	}
	in := &bedrockruntime.ConverseInput{
		ModelId:  aws.String(modelID),
		Messages: msgs,
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(int32(g.cfg.MaxTokens)),
			Temperature: aws.Float32(float32(g.cfg.Temperature)),
		},
	}
	if strings.TrimSpace(system) != "" {
		in.System = []types.SystemContentBlock{&types.SystemContentBlockMemberText{Value: system}}
	}
	if gr := g.cfg.Guardrail; gr.Enabled() {
		in.GuardrailConfig = &types.GuardrailConfiguration{
			GuardrailIdentifier: aws.String(gr.Identifier),
			GuardrailVersion:    aws.String(gr.Version),
		}
	}
	return in
}

func classifyTransport(modelID string, err error) error {
	switch bedrock.Classify(err) {
	case bedrock.ClassAccessDenied:
		return aierr.Model(aierr.AccessDenied, modelID, err)
	case bedrock.ClassThrottled:
		return aierr.Model(aierr.Throttled, modelID, err)
	default:
		return aierr.Model(aierr.Unavailable, modelID, err)
	}
}

func isPolicyStop(r types.StopReason) bool {
	return r == types.StopReasonGuardrailIntervened || r == types.StopReasonContentFiltered
}

func firstText(out types.ConverseOutput) (string, bool) {
	msg, ok := out.(*types.ConverseOutputMemberMessage)
	if !ok {
		return "", false
	}
	for _, block := range msg.Value.Content {
		if t, ok := block.(*types.ContentBlockMemberText); ok {
			return t.Value, true
		}
	}
	return "", false
}
