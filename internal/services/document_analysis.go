package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/brandcopilot-backend/internal/ai/aierr"
	"github.com/yungbote/brandcopilot-backend/internal/ai/docanalysis"
	"github.com/yungbote/brandcopilot-backend/internal/data/repos"
	types "github.com/yungbote/brandcopilot-backend/internal/domain"
	"github.com/yungbote/brandcopilot-backend/internal/platform/dbctx"
	"github.com/yungbote/brandcopilot-backend/internal/platform/gcp"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
	"github.com/yungbote/brandcopilot-backend/internal/platform/redisbus"
)

// DocumentAnalyzer is satisfied by *docanalysis.Extractor.
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, data []byte, mime string) (map[string]any, error)
}

// DocumentAnalysisService runs one analysis attempt per call. Analyze returns
// nil once the document reaches a terminal status; any other error means the
// attempt may be retried.
type DocumentAnalysisService interface {
	Analyze(ctx context.Context, documentID uuid.UUID) error
	MarkFailed(ctx context.Context, documentID uuid.UUID, reason string) error
	// Unfinished lists documents still Pending or Processing, oldest first.
	Unfinished(ctx context.Context) ([]uuid.UUID, error)
}

type documentAnalysisService struct {
	log       *logger.Logger
	documents repos.DocumentRepo
	bucket    gcp.BucketService
	analyzer  DocumentAnalyzer
	events    redisbus.Bus
}

func NewDocumentAnalysisService(
	baseLog *logger.Logger,
	documentRepo repos.DocumentRepo,
	bucket gcp.BucketService,
	analyzer DocumentAnalyzer,
	events redisbus.Bus,
) DocumentAnalysisService {
	if events == nil {
		events = redisbus.Noop{}
	}
	return &documentAnalysisService{
		log:       baseLog.With("service", "DocumentAnalysisService"),
		documents: documentRepo,
		bucket:    bucket,
		analyzer:  analyzer,
		events:    events,
	}
}

func (s *documentAnalysisService) Analyze(ctx context.Context, documentID uuid.UUID) error {
	dbc := dbctx.Context{Ctx: ctx}
	doc, err := s.documents.GetByID(dbc, documentID)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	if doc == nil {
		s.log.Warn("Document vanished before analysis", "document_id", documentID)
		return nil
	}
	if doc.Status.Terminal() {
		return nil
	}

	// Processing is accepted as a source state so a crashed attempt can resume.
	moved, err := s.documents.TransitionStatus(dbc, doc.ID,
		[]types.DocumentStatus{types.DocumentPending, types.DocumentProcessing},
		types.DocumentProcessing,
		map[string]interface{}{"attempts": doc.Attempts + 1},
	)
	if err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}
	if !moved {
		return nil
	}
	doc.Status = types.DocumentProcessing
	publishDocumentStatus(ctx, s.events, s.log, doc, nil)

	data, err := s.download(ctx, doc.StorageKey)
	if err != nil {
		return err
	}

	attrs, err := s.analyzer.Analyze(ctx, data, doc.MimeType)
	if err != nil {
		var ae *aierr.AnalysisError
		if errors.As(err, &ae) {
			s.log.Warn("Document analysis failed", "document_id", doc.ID, "kind", ae.Kind.String(), "error", err)
			return s.fail(ctx, doc, err.Error())
		}
		return fmt.Errorf("analyze document: %w", err)
	}

	payload, err := json.Marshal(attrs)
	if err != nil {
		return s.fail(ctx, doc, fmt.Sprintf("encode attributes: %v", err))
	}
	docType, _ := attrs[docanalysis.DocumentTypeKey].(string)
	moved, err = s.documents.TransitionStatus(dbc, doc.ID,
		[]types.DocumentStatus{types.DocumentProcessing},
		types.DocumentCompleted,
		map[string]interface{}{
			"extracted_data": datatypes.JSON(payload),
			"doc_type":       docType,
		},
	)
	if err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	if moved {
		doc.Status = types.DocumentCompleted
		publishDocumentStatus(ctx, s.events, s.log, doc, map[string]any{"doc_type": docType})
		s.log.Info("Document analyzed", "document_id", doc.ID, "doc_type", docType)
	}
	return nil
}

func (s *documentAnalysisService) MarkFailed(ctx context.Context, documentID uuid.UUID, reason string) error {
	doc, err := s.documents.GetByID(dbctx.Context{Ctx: ctx}, documentID)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	if doc == nil || doc.Status.Terminal() {
		return nil
	}
	return s.fail(ctx, doc, reason)
}

func (s *documentAnalysisService) Unfinished(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := s.documents.ListByStatus(dbctx.Context{Ctx: ctx},
		[]types.DocumentStatus{types.DocumentPending, types.DocumentProcessing}, 0)
	if err != nil {
		return nil, fmt.Errorf("list unfinished documents: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, d := range rows {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

func (s *documentAnalysisService) fail(ctx context.Context, doc *types.Document, reason string) error {
	moved, err := s.documents.TransitionStatus(dbctx.Context{Ctx: ctx}, doc.ID,
		[]types.DocumentStatus{types.DocumentPending, types.DocumentProcessing},
		types.DocumentFailed,
		map[string]interface{}{"extracted_data": errorPayload(reason)},
	)
	if err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}
	if moved {
		doc.Status = types.DocumentFailed
		publishDocumentStatus(ctx, s.events, s.log, doc, map[string]any{"error": reason})
	}
	return nil
}

func (s *documentAnalysisService) download(ctx context.Context, key string) ([]byte, error) {
	rc, err := s.bucket.DownloadFile(ctx, gcp.BucketCategoryDocument, key)
	if err != nil {
		return nil, fmt.Errorf("download document: %w", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return data, nil
}
