package document

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/brandcopilot-backend/internal/domain"
	"github.com/yungbote/brandcopilot-backend/internal/platform/dbctx"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
)

type DocumentRepo interface {
	Create(dbc dbctx.Context, doc *types.Document) (*types.Document, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Document, error)
	GetByHash(dbc dbctx.Context, companyID uuid.UUID, contentHash string) (*types.Document, error)
	ListByCompany(dbc dbctx.Context, companyID uuid.UUID, limit int) ([]*types.Document, error)
	// ListByStatus returns the oldest rows in any of the given statuses.
	ListByStatus(dbc dbctx.Context, statuses []types.DocumentStatus, limit int) ([]*types.Document, error)
	// TransitionStatus moves the row to "to" only if its current status is one
	// of "from". It reports whether a row changed.
	TransitionStatus(dbc dbctx.Context, id uuid.UUID, from []types.DocumentStatus, to types.DocumentStatus, updates map[string]interface{}) (bool, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	// DeleteByID removes the row for good so its content hash can be reused.
	DeleteByID(dbc dbctx.Context, id uuid.UUID) error
}

type documentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentRepo(db *gorm.DB, baseLog *logger.Logger) DocumentRepo {
	return &documentRepo{db: db, log: baseLog.With("repo", "DocumentRepo")}
}

func (r *documentRepo) Create(dbc dbctx.Context, doc *types.Document) (*types.Document, error) {
	if doc.CompanyID == uuid.Nil || doc.ContentHash == "" {
		return nil, fmt.Errorf("document requires company_id and content_hash")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(doc).Error; err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *documentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Document, error) {
	return r.first(dbc, "id = ?", id)
}

func (r *documentRepo) GetByHash(dbc dbctx.Context, companyID uuid.UUID, contentHash string) (*types.Document, error) {
	return r.first(dbc, "company_id = ? AND content_hash = ?", companyID, contentHash)
}

func (r *documentRepo) first(dbc dbctx.Context, query string, args ...interface{}) (*types.Document, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.Document
	if err := txx.WithContext(dbc.Ctx).Where(query, args...).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *documentRepo) ListByCompany(dbc dbctx.Context, companyID uuid.UUID, limit int) ([]*types.Document, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.Document
	if err := txx.WithContext(dbc.Ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *documentRepo) ListByStatus(dbc dbctx.Context, statuses []types.DocumentStatus, limit int) ([]*types.Document, error) {
	if len(statuses) == 0 {
		return nil, fmt.Errorf("missing statuses")
	}
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.Document
	if err := txx.WithContext(dbc.Ctx).
		Where("status IN ?", statuses).
		Order("created_at ASC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *documentRepo) TransitionStatus(dbc dbctx.Context, id uuid.UUID, from []types.DocumentStatus, to types.DocumentStatus, updates map[string]interface{}) (bool, error) {
	if len(from) == 0 {
		return false, fmt.Errorf("missing source statuses")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	fields := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now().UTC(),
	}
	for k, v := range updates {
		fields[k] = v
	}
	res := txx.WithContext(dbc.Ctx).
		Model(&types.Document{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *documentRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return txx.WithContext(dbc.Ctx).
		Model(&types.Document{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *documentRepo) DeleteByID(dbc dbctx.Context, id uuid.UUID) error {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).Unscoped().Where("id = ?", id).Delete(&types.Document{}).Error
}
