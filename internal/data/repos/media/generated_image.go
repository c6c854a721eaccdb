package media

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/brandcopilot-backend/internal/domain"
	"github.com/yungbote/brandcopilot-backend/internal/platform/dbctx"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
)

type ListFilter struct {
	CompanyID      uuid.UUID
	ConversationID *uuid.UUID
	Limit          int
	Offset         int
}

type GeneratedImageRepo interface {
	Create(dbc dbctx.Context, img *types.GeneratedImage) (*types.GeneratedImage, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.GeneratedImage, error)
	ListByConversation(dbc dbctx.Context, conversationID uuid.UUID) ([]*types.GeneratedImage, error)
	List(dbc dbctx.Context, f ListFilter) ([]*types.GeneratedImage, int64, error)
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
}

type generatedImageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGeneratedImageRepo(db *gorm.DB, baseLog *logger.Logger) GeneratedImageRepo {
	return &generatedImageRepo{db: db, log: baseLog.With("repo", "GeneratedImageRepo")}
}

func (r *generatedImageRepo) Create(dbc dbctx.Context, img *types.GeneratedImage) (*types.GeneratedImage, error) {
	if img.CompanyID == uuid.Nil {
		return nil, fmt.Errorf("generated image requires company_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(img).Error; err != nil {
		return nil, err
	}
	return img, nil
}

func (r *generatedImageRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.GeneratedImage, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.GeneratedImage
	if err := txx.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *generatedImageRepo) ListByConversation(dbc dbctx.Context, conversationID uuid.UUID) ([]*types.GeneratedImage, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.GeneratedImage
	if err := txx.WithContext(dbc.Ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// List returns one page newest first plus the unpaged total.
func (r *generatedImageRepo) List(dbc dbctx.Context, f ListFilter) ([]*types.GeneratedImage, int64, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	q := txx.WithContext(dbc.Ctx).Model(&types.GeneratedImage{}).Where("company_id = ?", f.CompanyID)
	if f.ConversationID != nil {
		q = q.Where("conversation_id = ?", *f.ConversationID)
	}
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []*types.GeneratedImage
	if err := q.Session(&gorm.Session{}).
		Order("created_at DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *generatedImageRepo) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Delete(&types.GeneratedImage{}).Error
}
