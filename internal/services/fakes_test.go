package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/brandcopilot-backend/internal/ai/imagegen"
	"github.com/yungbote/brandcopilot-backend/internal/ai/prompt"
	"github.com/yungbote/brandcopilot-backend/internal/ai/textgen"
	"github.com/yungbote/brandcopilot-backend/internal/platform/gcp"
	"github.com/yungbote/brandcopilot-backend/internal/platform/redisbus"
)

type fakeGateway struct {
	text  string
	err   error
	calls int

	lastMessages []prompt.Message
	lastSystem   string
}

func (f *fakeGateway) Invoke(_ context.Context, messages []prompt.Message, system string) (textgen.Result, error) {
	f.calls++
	f.lastMessages = messages
	f.lastSystem = system
	if f.err != nil {
		return textgen.Result{}, f.err
	}
	return textgen.Result{Text: f.text, StopReason: "end_turn", ModelID: "primary"}, nil
}

type fakeBucket struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string][]byte{}}
}

func (b *fakeBucket) UploadFile(_ context.Context, category gcp.BucketCategory, key, _ string, body io.Reader) error {
	if b.uploadErr != nil {
		return b.uploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[string(category)+"/"+key] = data
	return nil
}

func (b *fakeBucket) DeleteFile(_ context.Context, category gcp.BucketCategory, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, string(category)+"/"+key)
	return nil
}

func (b *fakeBucket) DownloadFile(_ context.Context, category gcp.BucketCategory, key string) (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[string(category)+"/"+key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *fakeBucket) GetPublicURL(category gcp.BucketCategory, key string) string {
	return "https://blobs.test/" + string(category) + "/" + key
}

func (b *fakeBucket) has(category gcp.BucketCategory, key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.objects[string(category)+"/"+key]
	return ok
}

func (b *fakeBucket) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}

type fakeQueue struct {
	ids []uuid.UUID
	err error
}

func (q *fakeQueue) EnqueueDocumentAnalysis(_ context.Context, id uuid.UUID) error {
	if q.err != nil {
		return q.err
	}
	q.ids = append(q.ids, id)
	return nil
}

type fakeBus struct {
	mu     sync.Mutex
	events []redisbus.Event
}

func (b *fakeBus) Publish(_ context.Context, ev redisbus.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, ev)
	return nil
}

func (b *fakeBus) Close() error { return nil }

func (b *fakeBus) statuses() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, ev := range b.events {
		out = append(out, ev.Status)
	}
	return out
}

type fakeFormats map[string]bool

func (f fakeFormats) Supports(mime string) bool { return f[mime] }

type fakeAnalyzer struct {
	attrs map[string]any
	err   error
	calls int
}

func (a *fakeAnalyzer) Analyze(context.Context, []byte, string) (map[string]any, error) {
	a.calls++
	return a.attrs, a.err
}

type fakeImageGenerator struct {
	calls int
	err   error
}

func (g *fakeImageGenerator) Generate(_ context.Context, req imagegen.Request) (imagegen.Image, error) {
	g.calls++
	if g.err != nil {
		return imagegen.Image{}, g.err
	}
	if err := imagegen.ValidateSize(req.Width, req.Height); err != nil {
		return imagegen.Image{}, err
	}
	seed := int64(42)
	if req.Seed != nil {
		seed = *req.Seed
	}
	return imagegen.Image{
		Data:    []byte("png-bytes"),
		Width:   req.Width,
		Height:  req.Height,
		Seed:    seed,
		ModelID: "amazon.nova-canvas-v1:0",
		Format:  imagegen.Format{ContentType: "image/png", Ext: "png", Width: req.Width, Height: req.Height},
	}, nil
}
