package docanalysis

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/yungbote/brandcopilot-backend/internal/ai/aierr"
	"github.com/yungbote/brandcopilot-backend/internal/config"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
)

type fakeConverser struct {
	out   *bedrockruntime.ConverseOutput
	err   error
	calls []*bedrockruntime.ConverseInput
}

func (f *fakeConverser) Converse(ctx context.Context, in *bedrockruntime.ConverseInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	f.calls = append(f.calls, in)
	return f.out, f.err
}

func reply(text string) *bedrockruntime.ConverseOutput {
	return &bedrockruntime.ConverseOutput{
		StopReason: types.StopReasonEndTurn,
		Output: &types.ConverseOutputMemberMessage{Value: types.Message{
			Role:    types.ConversationRoleAssistant,
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: text}},
		}},
	}
}

func newExtractor(fc *fakeConverser) *Extractor {
	return NewExtractor(fc, config.DocumentAnalysis{
		ModelID:          "analyzer",
		MaxTokens:        2048,
		SupportedFormats: []string{"application/pdf", "image/png", "image/jpg", "image/jpeg", "image/tiff"},
	}, logger.Nop())
}

func TestParseResponse(t *testing.T) {
	got, err := ParseResponse("Some prose {\"a\":1,\"b\":null} trailing")
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	want := map[string]any{"a": float64(1), "b": nil}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want=%v got=%v", want, got)
	}

	nested, err := ParseResponse("```json\n{\"a\":{\"b\":[1,2]},\"c\":\"}\"}\n```")
	if err != nil {
		t.Fatalf("nested: %v", err)
	}
	if _, ok := nested["a"].(map[string]any); !ok {
		t.Fatalf("nested object lost: %v", nested)
	}

	for _, bad := range []string{"no braces here", "{not json}", "prefix [1,2] suffix", "{\"a\":1} and {\"b\":2}"} {
		_, err := ParseResponse(bad)
		if !errors.Is(err, aierr.ErrMalformedResponse) {
			t.Fatalf("%q: expected malformed, got %v", bad, err)
		}
	}
}

func TestAnalyzeRejectsUnsupportedFormatBeforeCalling(t *testing.T) {
	fc := &fakeConverser{out: reply("{}")}
	_, err := newExtractor(fc).Analyze(context.Background(), []byte("x"), "text/plain")
	if !errors.Is(err, aierr.ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format, got %v", err)
	}
	if len(fc.calls) != 0 {
		t.Fatalf("model must not be called")
	}
}

func TestAnalyzeAllowListedButUnhandledImage(t *testing.T) {
	fc := &fakeConverser{out: reply("{}")}
	_, err := newExtractor(fc).Analyze(context.Background(), []byte("x"), "image/tiff")
	if !errors.Is(err, aierr.ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format, got %v", err)
	}
}

func TestAnalyzePDFBuildsDocumentBlock(t *testing.T) {
	fc := &fakeConverser{out: reply(`Here you go: {"document_type":"Invoice","total_amount":12.5}`)}
	got, err := newExtractor(fc).Analyze(context.Background(), []byte("%PDF-1.7"), "application/pdf")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got["document_type"] != "Invoice" {
		t.Fatalf("unexpected attrs: %v", got)
	}
	content := fc.calls[0].Messages[0].Content
	if len(content) != 2 {
		t.Fatalf("content blocks: %d", len(content))
	}
	doc, ok := content[0].(*types.ContentBlockMemberDocument)
	if !ok || doc.Value.Format != types.DocumentFormatPdf {
		t.Fatalf("first block should be a pdf document: %#v", content[0])
	}
	text, ok := content[1].(*types.ContentBlockMemberText)
	if !ok || !strings.Contains(text.Value, "page_count") || !strings.Contains(text.Value, "use null") {
		t.Fatalf("instruction block missing fields: %#v", content[1])
	}
}

func TestAnalyzeNormalizesJPG(t *testing.T) {
	fc := &fakeConverser{out: reply(`{"a":1}`)}
	if _, err := newExtractor(fc).Analyze(context.Background(), []byte{0xff, 0xd8}, "IMAGE/JPG"); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	img, ok := fc.calls[0].Messages[0].Content[0].(*types.ContentBlockMemberImage)
	if !ok || img.Value.Format != types.ImageFormatJpeg {
		t.Fatalf("expected jpeg image block, got %#v", fc.calls[0].Messages[0].Content[0])
	}
}

func TestAnalyzeWrapsServiceFailure(t *testing.T) {
	fc := &fakeConverser{err: &types.ThrottlingException{}}
	_, err := newExtractor(fc).Analyze(context.Background(), []byte("x"), "image/png")
	if !errors.Is(err, aierr.ErrServiceFailure) {
		t.Fatalf("expected service failure, got %v", err)
	}
	if len(fc.calls) != 1 {
		t.Fatalf("extractor must not retry: calls=%d", len(fc.calls))
	}
}

func TestFieldsCoverSixteenAttributes(t *testing.T) {
	if len(Fields) != 16 {
		t.Fatalf("fields: want=16 got=%d", len(Fields))
	}
	seen := map[string]bool{}
	for _, f := range Fields {
		if seen[f.Key] {
			t.Fatalf("duplicate field %s", f.Key)
		}
		seen[f.Key] = true
	}
	if !seen[DocumentTypeKey] {
		t.Fatalf("missing %s", DocumentTypeKey)
	}
}
