package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/brandcopilot-backend/internal/ai/aierr"
	"github.com/yungbote/brandcopilot-backend/internal/ai/prompt"
	types "github.com/yungbote/brandcopilot-backend/internal/domain"
	"github.com/yungbote/brandcopilot-backend/internal/http/response"
	"github.com/yungbote/brandcopilot-backend/internal/platform/dbctx"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
	"github.com/yungbote/brandcopilot-backend/internal/services"
)

type fakeText struct {
	got services.GenerateTextInput
	res *services.GenerateTextResult
	err error
}

func (f *fakeText) Generate(_ dbctx.Context, in services.GenerateTextInput) (*services.GenerateTextResult, error) {
	f.got = in
	return f.res, f.err
}

type fakeDocuments struct {
	got services.UploadDocumentInput
	err error
}

func (f *fakeDocuments) Upload(_ dbctx.Context, in services.UploadDocumentInput) (*types.Document, error) {
	f.got = in
	if f.err != nil {
		return nil, f.err
	}
	return &types.Document{ID: uuid.New(), CompanyID: in.CompanyID, MimeType: in.MimeType, Status: types.DocumentPending}, nil
}

func (f *fakeDocuments) List(dbctx.Context, uuid.UUID) ([]*types.Document, error) { return nil, nil }

func (f *fakeDocuments) Get(_ dbctx.Context, _, _ uuid.UUID) (*types.Document, error) {
	return nil, services.ErrForbidden
}

type fakeImages struct {
	got     services.GenerateImageInput
	listGot services.ListImagesInput
}

func (f *fakeImages) Generate(_ dbctx.Context, in services.GenerateImageInput) (*types.GeneratedImage, error) {
	f.got = in
	return &types.GeneratedImage{
		ID: uuid.New(), CompanyID: in.CompanyID, Width: in.Width, Height: in.Height,
		Seed: 42, ModelID: "canvas", CreatedAt: time.Now(),
	}, nil
}

func (f *fakeImages) List(_ dbctx.Context, in services.ListImagesInput) (*services.ImagePage, error) {
	f.listGot = in
	return &services.ImagePage{Total: 0, Limit: 50, Offset: 0}, nil
}

func (f *fakeImages) Get(_ dbctx.Context, _, _ uuid.UUID) (*types.GeneratedImage, error) {
	return nil, services.ErrNotFound
}

func (f *fakeImages) URL(img *types.GeneratedImage) string { return "https://cdn.test/" + img.ID.String() }

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env response.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error envelope: %v (%s)", err, rec.Body.String())
	}
	return env.Error.Code
}

func TestGenerateHandler(t *testing.T) {
	companyID := uuid.New()
	convID := uuid.New()

	cases := []struct {
		name     string
		body     map[string]any
		err      error
		wantCode int
		wantErr  string
	}{
		{"ok", map[string]any{"prompt": "hi", "tone": "formal", "company_id": companyID.String()}, nil, http.StatusOK, ""},
		{"bad company", map[string]any{"prompt": "hi", "company_id": "nope"}, nil, http.StatusBadRequest, "invalid_argument"},
		{"blocked", map[string]any{"prompt": "hi", "company_id": companyID.String()}, aierr.Model(aierr.ContentBlocked, "m", nil), http.StatusUnprocessableEntity, "content_policy_rejected"},
		{"throttled", map[string]any{"prompt": "hi", "company_id": companyID.String()}, aierr.Model(aierr.Throttled, "m", nil), http.StatusTooManyRequests, "model_throttled"},
		{"tone locked", map[string]any{"prompt": "hi", "tone": "x", "company_id": companyID.String(), "conversation_id": convID.String()}, services.ErrToneLocked, http.StatusConflict, "tone_locked"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeText{res: &services.GenerateTextResult{Text: "hello", ConversationID: convID}, err: tc.err}
			r := newEngine()
			r.POST("/api/generate", NewGenerateHandler(logger.Nop(), svc).Generate)

			rec := doJSON(t, r, http.MethodPost, "/api/generate", tc.body)
			if rec.Code != tc.wantCode {
				t.Fatalf("status=%d want %d body=%s", rec.Code, tc.wantCode, rec.Body.String())
			}
			if tc.wantErr != "" {
				if got := errorCode(t, rec); got != tc.wantErr {
					t.Fatalf("code=%q want %q", got, tc.wantErr)
				}
				return
			}
			var out struct {
				Text           string    `json:"text"`
				ConversationID uuid.UUID `json:"conversation_id"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if out.Text != "hello" || out.ConversationID != convID {
				t.Fatalf("unexpected body %+v", out)
			}
			if svc.got.CompanyID != companyID || svc.got.Tone != "formal" || svc.got.ConversationID != nil {
				t.Fatalf("unexpected service input %+v", svc.got)
			}
		})
	}
}

func TestImageHandlerDefaultsGeometry(t *testing.T) {
	svc := &fakeImages{}
	h := NewImageHandler(logger.Nop(), svc)
	r := newEngine()
	r.POST("/api/images", h.Generate)
	r.GET("/api/images", h.List)
	r.GET("/api/images/:id", h.Get)

	companyID := uuid.New()
	rec := doJSON(t, r, http.MethodPost, "/api/images", map[string]any{
		"prompt": "a red bicycle", "company_id": companyID.String(), "height": 768,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if svc.got.Width != 1024 || svc.got.Height != 768 || svc.got.Seed != nil {
		t.Fatalf("unexpected input %+v", svc.got)
	}
	rec = doJSON(t, r, http.MethodPost, "/api/images", map[string]any{
		"prompt": "a red bicycle", "company_id": companyID.String(), "width": 0,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if svc.got.Width != 0 || svc.got.Height != 1024 {
		t.Fatalf("explicit zero width must reach the size check: %+v", svc.got)
	}
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"image_id", "image_url", "width", "height", "seed", "model_id", "created_at"} {
		if _, ok := out[key]; !ok {
			t.Fatalf("missing key %q in %v", key, out)
		}
	}

	rec = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/images?company_id=%s&limit=500&offset=3", companyID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status=%d", rec.Code)
	}
	if svc.listGot.Limit != 500 || svc.listGot.Offset != 3 {
		t.Fatalf("raw paging should reach the service: %+v", svc.listGot)
	}

	rec = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/images?company_id=%s&limit=abc", companyID), nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad limit status=%d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/images/%s?company_id=%s", uuid.New(), companyID), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get status=%d", rec.Code)
	}
}

func TestDocumentUpload(t *testing.T) {
	companyID := uuid.New()

	build := func(t *testing.T, contentType string) (*bytes.Buffer, string) {
		t.Helper()
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		if err := w.WriteField("company_id", companyID.String()); err != nil {
			t.Fatalf("field: %v", err)
		}
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", `form-data; name="file"; filename="invoice.pdf"`)
		if contentType != "" {
			hdr.Set("Content-Type", contentType)
		}
		part, err := w.CreatePart(hdr)
		if err != nil {
			t.Fatalf("part: %v", err)
		}
		_, _ = part.Write([]byte("%PDF-1.4 test"))
		_ = w.Close()
		return &buf, w.FormDataContentType()
	}

	cases := []struct {
		name     string
		partType string
		svcErr   error
		wantCode int
		wantMIME string
	}{
		{"explicit type", "application/pdf", nil, http.StatusCreated, "application/pdf"},
		{"octet stream uses extension", "application/octet-stream", nil, http.StatusCreated, "application/pdf"},
		{"duplicate", "application/pdf", services.ErrDuplicateDocument, http.StatusConflict, "application/pdf"},
		{"unsupported", "application/pdf", aierr.Analysis(aierr.UnsupportedFormat, "nope"), http.StatusUnprocessableEntity, "application/pdf"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeDocuments{err: tc.svcErr}
			r := newEngine()
			r.POST("/api/documents", NewDocumentHandler(logger.Nop(), svc).Upload)

			body, ct := build(t, tc.partType)
			req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
			req.Header.Set("Content-Type", ct)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tc.wantCode {
				t.Fatalf("status=%d want %d body=%s", rec.Code, tc.wantCode, rec.Body.String())
			}
			if svc.got.MimeType != tc.wantMIME {
				t.Fatalf("mime=%q want %q", svc.got.MimeType, tc.wantMIME)
			}
			if svc.got.Filename != "invoice.pdf" || string(svc.got.Data) != "%PDF-1.4 test" {
				t.Fatalf("unexpected upload input %+v", svc.got)
			}
		})
	}
}

func TestDocumentGetForbidden(t *testing.T) {
	r := newEngine()
	r.GET("/api/documents/:id", NewDocumentHandler(logger.Nop(), &fakeDocuments{}).Get)
	rec := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/documents/%s?company_id=%s", uuid.New(), uuid.New()), nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status=%d", rec.Code)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{aierr.Model(aierr.ContentBlocked, "m", nil), http.StatusUnprocessableEntity, "content_policy_rejected"},
		{aierr.Model(aierr.AccessDenied, "m", nil), http.StatusServiceUnavailable, "model_unavailable"},
		{aierr.Model(aierr.Unavailable, "m", nil), http.StatusServiceUnavailable, "model_unavailable"},
		{aierr.Argument(aierr.UnsupportedSize, "800x600"), http.StatusBadRequest, "unsupported_size"},
		{aierr.Analysis(aierr.ServiceFailure, "down"), http.StatusServiceUnavailable, "analysis_unavailable"},
		{aierr.Service(aierr.NoImageReturned, nil), http.StatusServiceUnavailable, "image_service_unavailable"},
		{fmt.Errorf("screen: %w", prompt.ErrBlockedPrompt), http.StatusUnprocessableEntity, "prompt_rejected"},
		{fmt.Errorf("%w: x", services.ErrNotFound), http.StatusNotFound, "not_found"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		got := classify(tc.err)
		if got.Status != tc.status || got.Code != tc.code {
			t.Fatalf("classify(%v)=%d/%s want %d/%s", tc.err, got.Status, got.Code, tc.status, tc.code)
		}
	}
}

func TestHealthCheck(t *testing.T) {
	r := newEngine()
	r.GET("/healthcheck", NewHealthHandler().HealthCheck)
	rec := doJSON(t, r, http.MethodGet, "/healthcheck", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("status=%d body=%q", rec.Code, rec.Body.String())
	}
}
