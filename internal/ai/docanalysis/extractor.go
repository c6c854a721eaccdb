// Package docanalysis sends document bytes to a multimodal model and returns
// the structured attributes found in its reply.
package docanalysis

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/brandcopilot-backend/internal/ai/aierr"
	"github.com/yungbote/brandcopilot-backend/internal/config"
	"github.com/yungbote/brandcopilot-backend/internal/observability"
	"github.com/yungbote/brandcopilot-backend/internal/platform/bedrock"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
)

const pdfMIME = "application/pdf"

type Extractor struct {
	log     *logger.Logger
	client  bedrock.Converser
	cfg     config.DocumentAnalysis
	allowed map[string]struct{}
}

func NewExtractor(client bedrock.Converser, cfg config.DocumentAnalysis, baseLog *logger.Logger) *Extractor {
	allowed := make(map[string]struct{}, len(cfg.SupportedFormats))
	for _, f := range cfg.SupportedFormats {
		allowed[NormalizeMIME(f)] = struct{}{}
	}
	return &Extractor{
		log:     baseLog.With("service", "DocumentExtractor"),
		client:  client,
		cfg:     cfg,
		allowed: allowed,
	}
}

// NormalizeMIME lowercases and drops parameters such as "; charset=".
func NormalizeMIME(mime string) string {
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	return strings.ToLower(strings.TrimSpace(mime))
}

// Supports reports whether mime is in the configured allow-list.
func (e *Extractor) Supports(mime string) bool {
	_, ok := e.allowed[NormalizeMIME(mime)]
	return ok
}

// Analyze extracts the attribute object from data. It performs no retries.
func (e *Extractor) Analyze(ctx context.Context, data []byte, mime string) (attrs map[string]any, err error) {
	mime = NormalizeMIME(mime)
	if !e.Supports(mime) {
		return nil, aierr.Analysis(aierr.UnsupportedFormat, "unsupported format: %s", mime)
	}
	media, err := mediaBlock(data, mime)
	if err != nil {
		return nil, err
	}

	ctx, span := observability.StartSpan(ctx, "bedrock.analyze_document",
		attribute.String("bedrock.model_id", e.cfg.ModelID),
		attribute.String("document.mime_type", mime),
		attribute.Int("document.bytes", len(data)),
	)
	defer func() { observability.EndSpan(span, err) }()

	out, err := e.client.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId: aws.String(e.cfg.ModelID),
		Messages: []types.Message{{
			Role:    types.ConversationRoleUser,
			Content: []types.ContentBlock{media, &types.ContentBlockMemberText{Value: extractionInstruction}},
		}},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(int32(e.cfg.MaxTokens)),
			Temperature: aws.Float32(float32(e.cfg.Temperature)),
		},
	})
	if err != nil {
		e.log.Warn("Analysis call failed", "model", e.cfg.ModelID, "class", bedrock.Classify(err).String(), "error", err)
		return nil, &aierr.AnalysisError{Kind: aierr.ServiceFailure, Err: err}
	}

	text, ok := firstText(out.Output)
	if !ok {
		return nil, aierr.Analysis(aierr.MalformedResponse, "response carried no text block")
	}
	return ParseResponse(text)
}

func mediaBlock(data []byte, mime string) (types.ContentBlock, error) {
	if mime == pdfMIME {
		return &types.ContentBlockMemberDocument{Value: types.DocumentBlock{
			Format: types.DocumentFormatPdf,
			Name:   aws.String("document"),
			Source: &types.DocumentSourceMemberBytes{Value: data},
		}}, nil
	}
	if sub, ok := strings.CutPrefix(mime, "image/"); ok {
		format, err := imageFormat(sub)
		if err != nil {
			return nil, err
		}
		return &types.ContentBlockMemberImage{Value: types.ImageBlock{
			Format: format,
			Source: &types.ImageSourceMemberBytes{Value: data},
		}}, nil
	}
	return nil, aierr.Analysis(aierr.UnsupportedFormat, "MIME type not handled: %s", mime)
}

func imageFormat(sub string) (types.ImageFormat, error) {
	if sub == "jpg" {
		sub = "jpeg"
	}
	f := types.ImageFormat(sub)
	for _, known := range f.Values() {
		if f == known {
			return f, nil
		}
	}
	return "", aierr.Analysis(aierr.UnsupportedFormat, "image format not handled: %s", sub)
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

var objectSpan = regexp.MustCompile(`\{[\s\S]*\}`)

// ParseResponse pulls the outermost {...} span out of free-form text and
// requires it to decode to a JSON object.
func ParseResponse(text string) (map[string]any, error) {
	span := objectSpan.FindString(text)
	if span == "" {
		return nil, aierr.Analysis(aierr.MalformedResponse, "no JSON object found in response")
	}
	var v any
	if err := json.Unmarshal([]byte(span), &v); err != nil {
		var syn *json.SyntaxError
		if errors.As(err, &syn) {
			return nil, aierr.Analysis(aierr.MalformedResponse, "JSON parsing error at offset %d: %v", syn.Offset, err)
		}
		return nil, aierr.Analysis(aierr.MalformedResponse, "JSON parsing error: %v", err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, aierr.Analysis(aierr.MalformedResponse, "response is not a JSON object")
	}
	return obj, nil
}
