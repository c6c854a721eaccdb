package textgen

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/yungbote/brandcopilot-backend/internal/ai/aierr"
	"github.com/yungbote/brandcopilot-backend/internal/ai/prompt"
	"github.com/yungbote/brandcopilot-backend/internal/config"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
)

type reply struct {
	out *bedrockruntime.ConverseOutput
	err error
}

type fakeConverser struct {
	replies map[string]reply
	calls   []*bedrockruntime.ConverseInput
}

func (f *fakeConverser) Converse(ctx context.Context, in *bedrockruntime.ConverseInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	f.calls = append(f.calls, in)
	r, ok := f.replies[aws.ToString(in.ModelId)]
	if !ok {
		return nil, errors.New("unexpected model " + aws.ToString(in.ModelId))
	}
	return r.out, r.err
}

func textOutput(text string, stop types.StopReason) *bedrockruntime.ConverseOutput {
	return &bedrockruntime.ConverseOutput{
		StopReason: stop,
		Output: &types.ConverseOutputMemberMessage{Value: types.Message{
			Role:    types.ConversationRoleAssistant,
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: text}},
		}},
	}
}

func newGateway(fc *fakeConverser, fallback string) *Gateway {
	return NewGateway(fc, config.TextGeneration{
		Region:          "eu-west-1",
		ModelID:         "primary",
		FallbackModelID: fallback,
		MaxTokens:       256,
		Temperature:     0.5,
	}, logger.Nop())
}

var msgs = []prompt.Message{{Role: prompt.RoleUser, Text: "hello"}}

func TestInvokePrimarySuccess(t *testing.T) {
	fc := &fakeConverser{replies: map[string]reply{"primary": {out: textOutput("hi there", types.StopReasonEndTurn)}}}
	res, err := newGateway(fc, "fallback").Invoke(context.Background(), msgs, "be nice")
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if res.Text != "hi there" || res.ModelID != "primary" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(fc.calls) != 1 {
		t.Fatalf("calls: want=1 got=%d", len(fc.calls))
	}
	in := fc.calls[0]
	if aws.ToInt32(in.InferenceConfig.MaxTokens) != 256 || aws.ToFloat32(in.InferenceConfig.Temperature) != 0.5 {
		t.Fatalf("inference config not applied: %+v", in.InferenceConfig)
	}
	if len(in.System) != 1 || in.GuardrailConfig != nil {
		t.Fatalf("system/guardrail: %+v %+v", in.System, in.GuardrailConfig)
	}
	if in.Messages[0].Role != types.ConversationRoleUser {
		t.Fatalf("role: %v", in.Messages[0].Role)
	}
}

func TestInvokeFallsBackOnThrottleWithIdenticalRequest(t *testing.T) {
	fc := &fakeConverser{replies: map[string]reply{
		"primary":  {err: &types.ThrottlingException{}},
		"fallback": {out: textOutput("from fallback", types.StopReasonEndTurn)},
	}}
	res, err := newGateway(fc, "fallback").Invoke(context.Background(), msgs, "sys")
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if res.Text != "from fallback" || res.ModelID != "fallback" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(fc.calls) != 2 {
		t.Fatalf("calls: want=2 got=%d", len(fc.calls))
	}
	a, b := fc.calls[0], fc.calls[1]
	if len(a.Messages) != len(b.Messages) || a.Messages[0].Content[0].(*types.ContentBlockMemberText).Value != b.Messages[0].Content[0].(*types.ContentBlockMemberText).Value {
		t.Fatalf("fallback messages differ")
	}
	if a.System[0].(*types.SystemContentBlockMemberText).Value != b.System[0].(*types.SystemContentBlockMemberText).Value {
		t.Fatalf("fallback system differs")
	}
}

func TestInvokeSurfacesFallbackError(t *testing.T) {
	fc := &fakeConverser{replies: map[string]reply{
		"primary":  {err: &types.AccessDeniedException{}},
		"fallback": {err: &types.ThrottlingException{}},
	}}
	_, err := newGateway(fc, "fallback").Invoke(context.Background(), msgs, "sys")
	var me *aierr.ModelError
	if !errors.As(err, &me) {
		t.Fatalf("expected ModelError, got %v", err)
	}
	if me.Kind != aierr.Throttled || me.Model != "fallback" {
		t.Fatalf("expected fallback throttle, got kind=%v model=%s", me.Kind, me.Model)
	}
}

func TestInvokeNoFallbackConfigured(t *testing.T) {
	for _, fb := range []string{"", "primary"} {
		fc := &fakeConverser{replies: map[string]reply{"primary": {err: &types.AccessDeniedException{}}}}
		_, err := newGateway(fc, fb).Invoke(context.Background(), msgs, "sys")
		if !errors.Is(err, aierr.ErrAccessDenied) {
			t.Fatalf("fallback=%q: expected access denied, got %v", fb, err)
		}
		if len(fc.calls) != 1 {
			t.Fatalf("fallback=%q: calls want=1 got=%d", fb, len(fc.calls))
		}
	}
}

func TestInvokeOtherFailuresAreUnavailableWithoutFallback(t *testing.T) {
	fc := &fakeConverser{replies: map[string]reply{
		"primary":  {err: &types.ValidationException{}},
		"fallback": {out: textOutput("nope", types.StopReasonEndTurn)},
	}}
	_, err := newGateway(fc, "fallback").Invoke(context.Background(), msgs, "sys")
	if !errors.Is(err, aierr.ErrUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if len(fc.calls) != 1 {
		t.Fatalf("calls: want=1 got=%d", len(fc.calls))
	}
}

func TestInvokeGuardrailIsContentBlockedAndNotRetried(t *testing.T) {
	fc := &fakeConverser{replies: map[string]reply{
		"primary":  {out: textOutput("partial", types.StopReasonGuardrailIntervened)},
		"fallback": {out: textOutput("other", types.StopReasonEndTurn)},
	}}
	_, err := newGateway(fc, "fallback").Invoke(context.Background(), msgs, "sys")
	if !errors.Is(err, aierr.ErrContentBlocked) {
		t.Fatalf("expected content blocked, got %v", err)
	}
	if Classify(err) != PolicyRejected {
		t.Fatalf("outcome: %v", Classify(err))
	}
	var me *aierr.ModelError
	if errors.As(err, &me) && me.Retryable() {
		t.Fatalf("content block must not be retryable")
	}
	if len(fc.calls) != 1 {
		t.Fatalf("calls: want=1 got=%d", len(fc.calls))
	}
}

func TestInvokeAttachesGuardrailConfig(t *testing.T) {
	fc := &fakeConverser{replies: map[string]reply{"primary": {out: textOutput("ok", types.StopReasonEndTurn)}}}
	g := NewGateway(fc, config.TextGeneration{
		ModelID:   "primary",
		MaxTokens: 10,
		Guardrail: config.Guardrail{Identifier: "gr-1", Version: "3"},
	}, logger.Nop())
	if _, err := g.Invoke(context.Background(), msgs, "sys"); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	gc := fc.calls[0].GuardrailConfig
	if gc == nil || aws.ToString(gc.GuardrailIdentifier) != "gr-1" || aws.ToString(gc.GuardrailVersion) != "3" {
		t.Fatalf("guardrail config: %+v", gc)
	}
}

func TestInvokeWithoutTextBlock(t *testing.T) {
	fc := &fakeConverser{replies: map[string]reply{"primary": {out: &bedrockruntime.ConverseOutput{
		StopReason: types.StopReasonEndTurn,
		Output:     &types.ConverseOutputMemberMessage{Value: types.Message{Role: types.ConversationRoleAssistant}},
	}}}}
	_, err := newGateway(fc, "").Invoke(context.Background(), msgs, "sys")
	if Classify(err) != TransportFailure {
		t.Fatalf("expected transport failure, got %v", err)
	}
}
