package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/brandcopilot-backend/internal/ai/aierr"
	"github.com/yungbote/brandcopilot-backend/internal/ai/docanalysis"
	"github.com/yungbote/brandcopilot-backend/internal/data/db"
	"github.com/yungbote/brandcopilot-backend/internal/data/repos"
	types "github.com/yungbote/brandcopilot-backend/internal/domain"
	"github.com/yungbote/brandcopilot-backend/internal/platform/dbctx"
	"github.com/yungbote/brandcopilot-backend/internal/platform/gcp"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
	"github.com/yungbote/brandcopilot-backend/internal/platform/redisbus"
)

const documentListLimit = 100

// AnalysisEnqueuer hands a stored document to the background analysis queue.
type AnalysisEnqueuer interface {
	EnqueueDocumentAnalysis(ctx context.Context, documentID uuid.UUID) error
}

// FormatChecker is satisfied by *docanalysis.Extractor.
type FormatChecker interface {
	Supports(mime string) bool
}

type UploadDocumentInput struct {
	CompanyID uuid.UUID
	Filename  string
	MimeType  string
	Data      []byte
}

type DocumentService interface {
	Upload(dbc dbctx.Context, in UploadDocumentInput) (*types.Document, error)
	List(dbc dbctx.Context, companyID uuid.UUID) ([]*types.Document, error)
	Get(dbc dbctx.Context, companyID, documentID uuid.UUID) (*types.Document, error)
}

type documentService struct {
	db        *gorm.DB
	log       *logger.Logger
	companies repos.CompanyRepo
	documents repos.DocumentRepo
	bucket    gcp.BucketService
	formats   FormatChecker
	queue     AnalysisEnqueuer
	events    redisbus.Bus
}

func NewDocumentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	companyRepo repos.CompanyRepo,
	documentRepo repos.DocumentRepo,
	bucket gcp.BucketService,
	formats FormatChecker,
	queue AnalysisEnqueuer,
	events redisbus.Bus,
) DocumentService {
	if events == nil {
		events = redisbus.Noop{}
	}
	return &documentService{
		db:        db,
		log:       baseLog.With("service", "DocumentService"),
		companies: companyRepo,
		documents: documentRepo,
		bucket:    bucket,
		formats:   formats,
		queue:     queue,
		events:    events,
	}
}

func (s *documentService) Upload(dbc dbctx.Context, in UploadDocumentInput) (*types.Document, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = s.db
	}
	repoCtx := dbctx.Context{Ctx: dbc.Ctx, Tx: transaction}

	if _, err := requireCompany(repoCtx, s.companies, in.CompanyID); err != nil {
		return nil, err
	}
	mime := docanalysis.NormalizeMIME(in.MimeType)
	if !s.formats.Supports(mime) {
		return nil, aierr.Analysis(aierr.UnsupportedFormat, "unsupported format %q", mime)
	}
	if len(in.Data) == 0 {
		return nil, invalidf("file is empty")
	}

	sum := sha256.Sum256(in.Data)
	hash := hex.EncodeToString(sum[:])

	existing, err := s.documents.GetByHash(repoCtx, in.CompanyID, hash)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateDocument, existing.ID)
	}

	docID := uuid.New()
	key := fmt.Sprintf("documents/%s/%s%s", in.CompanyID, docID, strings.ToLower(path.Ext(in.Filename)))
	if err := s.bucket.UploadFile(dbc.Ctx, gcp.BucketCategoryDocument, key, mime, bytes.NewReader(in.Data)); err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}

	doc, err := s.documents.Create(repoCtx, &types.Document{
		ID:          docID,
		CompanyID:   in.CompanyID,
		Filename:    in.Filename,
		MimeType:    mime,
		SizeBytes:   int64(len(in.Data)),
		ContentHash: hash,
		StorageKey:  key,
		Status:      types.DocumentPending,
	})
	if err != nil {
		s.removeBlob(dbc.Ctx, gcp.BucketCategoryDocument, key)
		if db.IsUniqueViolation(err) {
			return nil, ErrDuplicateDocument
		}
		return nil, fmt.Errorf("create document: %w", err)
	}
	publishDocumentStatus(dbc.Ctx, s.events, s.log, doc, nil)

	if err := s.queue.EnqueueDocumentAnalysis(dbc.Ctx, doc.ID); err != nil {
		s.log.Error("Enqueue analysis failed", "document_id", doc.ID, "error", err)
		// Roll the upload back so the same file can be submitted again.
		if delErr := s.documents.DeleteByID(dbctx.Context{Ctx: context.WithoutCancel(dbc.Ctx), Tx: transaction}, doc.ID); delErr != nil {
			s.log.Error("Delete unqueued document failed", "document_id", doc.ID, "error", delErr)
		} else {
			s.removeBlob(context.WithoutCancel(dbc.Ctx), gcp.BucketCategoryDocument, key)
		}
		return nil, fmt.Errorf("enqueue analysis: %w", err)
	}
	s.log.Info("Document uploaded", "document_id", doc.ID, "company_id", doc.CompanyID, "mime", mime, "bytes", doc.SizeBytes)
	return doc, nil
}

func (s *documentService) List(dbc dbctx.Context, companyID uuid.UUID) ([]*types.Document, error) {
	if _, err := requireCompany(dbc, s.companies, companyID); err != nil {
		return nil, err
	}
	return s.documents.ListByCompany(dbc, companyID, documentListLimit)
}

func (s *documentService) Get(dbc dbctx.Context, companyID, documentID uuid.UUID) (*types.Document, error) {
	if companyID == uuid.Nil {
		return nil, invalidf("company_id is required")
	}
	doc, err := s.documents.GetByID(dbc, documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, notFoundf("document %s", documentID)
	}
	if doc.CompanyID != companyID {
		return nil, ErrForbidden
	}
	return doc, nil
}

func (s *documentService) removeBlob(ctx context.Context, category gcp.BucketCategory, key string) {
	if err := s.bucket.DeleteFile(ctx, category, key); err != nil {
		s.log.Warn("Blob cleanup failed", "key", key, "error", err)
	}
}

func publishDocumentStatus(ctx context.Context, bus redisbus.Bus, log *logger.Logger, doc *types.Document, data map[string]any) {
	ev := redisbus.Event{
		Type:       "document.status",
		CompanyID:  doc.CompanyID.String(),
		ResourceID: doc.ID.String(),
		Status:     string(doc.Status),
		Data:       data,
		At:         time.Now().UTC(),
	}
	if err := bus.Publish(ctx, ev); err != nil {
		log.Warn("Publish document status failed", "document_id", doc.ID, "status", doc.Status, "error", err)
	}
}

func errorPayload(msg string) datatypes.JSON {
	b, _ := json.Marshal(map[string]string{"error": msg})
	return datatypes.JSON(b)
}
