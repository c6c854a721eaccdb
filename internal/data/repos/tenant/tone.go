package tenant

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/brandcopilot-backend/internal/domain"
	"github.com/yungbote/brandcopilot-backend/internal/platform/dbctx"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
)

type ToneRepo interface {
	Create(dbc dbctx.Context, tone *types.Tone) (*types.Tone, error)
	GetByID(dbc dbctx.Context, companyID, toneID uuid.UUID) (*types.Tone, error)
	GetByName(dbc dbctx.Context, companyID uuid.UUID, name string) (*types.Tone, error)
	ListByCompany(dbc dbctx.Context, companyID uuid.UUID) ([]*types.Tone, error)
}

type toneRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewToneRepo(db *gorm.DB, baseLog *logger.Logger) ToneRepo {
	return &toneRepo{db: db, log: baseLog.With("repo", "ToneRepo")}
}

func (r *toneRepo) Create(dbc dbctx.Context, tone *types.Tone) (*types.Tone, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(tone).Error; err != nil {
		return nil, err
	}
	return tone, nil
}

func (r *toneRepo) GetByID(dbc dbctx.Context, companyID, toneID uuid.UUID) (*types.Tone, error) {
	return r.first(dbc, "company_id = ? AND id = ?", companyID, toneID)
}

// GetByName matches case-insensitively within one company.
func (r *toneRepo) GetByName(dbc dbctx.Context, companyID uuid.UUID, name string) (*types.Tone, error) {
	return r.first(dbc, "company_id = ? AND LOWER(name) = LOWER(?)", companyID, name)
}

func (r *toneRepo) first(dbc dbctx.Context, query string, args ...interface{}) (*types.Tone, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.Tone
	if err := txx.WithContext(dbc.Ctx).Where(query, args...).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *toneRepo) ListByCompany(dbc dbctx.Context, companyID uuid.UUID) ([]*types.Tone, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.Tone
	if err := txx.WithContext(dbc.Ctx).
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
