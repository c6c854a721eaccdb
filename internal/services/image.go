package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/brandcopilot-backend/internal/ai/imagegen"
	"github.com/yungbote/brandcopilot-backend/internal/ai/prompt"
	"github.com/yungbote/brandcopilot-backend/internal/data/repos"
	types "github.com/yungbote/brandcopilot-backend/internal/domain"
	"github.com/yungbote/brandcopilot-backend/internal/platform/dbctx"
	"github.com/yungbote/brandcopilot-backend/internal/platform/gcp"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
)

const (
	imageListDefaultLimit = 50
	imageListMaxLimit     = 100
	imageListMaxOffset    = 10000
)

// ImageGenerator is satisfied by *imagegen.Generator.
type ImageGenerator interface {
	Generate(ctx context.Context, req imagegen.Request) (imagegen.Image, error)
}

type GenerateImageInput struct {
	CompanyID      uuid.UUID
	ConversationID *uuid.UUID
	Prompt         string
	Width          int
	Height         int
	Seed           *int64
}

type ListImagesInput struct {
	CompanyID      uuid.UUID
	ConversationID *uuid.UUID
	Limit          int
	Offset         int
}

type ImagePage struct {
	Total  int64
	Limit  int
	Offset int
	Images []*types.GeneratedImage
}

type ImageService interface {
	// Generate creates an image. With a conversation, any earlier image of that
	// conversation is replaced in the same transaction.
	Generate(dbc dbctx.Context, in GenerateImageInput) (*types.GeneratedImage, error)
	List(dbc dbctx.Context, in ListImagesInput) (*ImagePage, error)
	Get(dbc dbctx.Context, companyID, imageID uuid.UUID) (*types.GeneratedImage, error)
	URL(img *types.GeneratedImage) string
}

type imageService struct {
	db            *gorm.DB
	log           *logger.Logger
	companies     repos.CompanyRepo
	conversations repos.ConversationRepo
	images        repos.GeneratedImageRepo
	generator     ImageGenerator
	bucket        gcp.BucketService
}

func NewImageService(
	db *gorm.DB,
	baseLog *logger.Logger,
	companyRepo repos.CompanyRepo,
	conversationRepo repos.ConversationRepo,
	imageRepo repos.GeneratedImageRepo,
	generator ImageGenerator,
	bucket gcp.BucketService,
) ImageService {
	return &imageService{
		db:            db,
		log:           baseLog.With("service", "ImageService"),
		companies:     companyRepo,
		conversations: conversationRepo,
		images:        imageRepo,
		generator:     generator,
		bucket:        bucket,
	}
}

func (s *imageService) Generate(dbc dbctx.Context, in GenerateImageInput) (*types.GeneratedImage, error) {
	text := strings.TrimSpace(in.Prompt)
	if text == "" {
		return nil, invalidf("prompt is required")
	}
	if err := prompt.Screen(text); err != nil {
		return nil, err
	}

	transaction := dbc.Tx
	if transaction == nil {
		transaction = s.db
	}
	repoCtx := dbctx.Context{Ctx: dbc.Ctx, Tx: transaction}

	if _, err := requireCompany(repoCtx, s.companies, in.CompanyID); err != nil {
		return nil, err
	}
	var convID *uuid.UUID
	if in.ConversationID != nil && *in.ConversationID != uuid.Nil {
		conv, err := s.conversations.GetByID(repoCtx, *in.ConversationID)
		if err != nil {
			return nil, err
		}
		if conv == nil || conv.CompanyID != in.CompanyID {
			return nil, notFoundf("conversation %s", *in.ConversationID)
		}
		id := conv.ID
		convID = &id
	}

	img, err := s.generator.Generate(dbc.Ctx, imagegen.Request{
		Prompt: text,
		Width:  in.Width,
		Height: in.Height,
		Seed:   in.Seed,
	})
	if err != nil {
		return nil, err
	}

	row := &types.GeneratedImage{
		ID:             uuid.New(),
		CompanyID:      in.CompanyID,
		ConversationID: convID,
		Prompt:         text,
		Width:          img.Width,
		Height:         img.Height,
		Seed:           img.Seed,
		ModelID:        img.ModelID,
		ContentType:    img.Format.ContentType,
		SizeBytes:      int64(len(img.Data)),
	}
	row.StorageKey = fmt.Sprintf("images/%s/%s_%d.%s", row.CompanyID, row.ID, row.Seed, img.Format.Ext)

	if err := s.bucket.UploadFile(dbc.Ctx, gcp.BucketCategoryImage, row.StorageKey, row.ContentType, bytes.NewReader(img.Data)); err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	var evicted []*types.GeneratedImage
	err = transaction.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: dbc.Ctx, Tx: tx}
		if convID != nil {
			if _, err := s.conversations.LockByID(inner, *convID); err != nil {
				return fmt.Errorf("lock conversation: %w", err)
			}
			prior, err := s.images.ListByConversation(inner, *convID)
			if err != nil {
				return err
			}
			ids := make([]uuid.UUID, 0, len(prior))
			for _, p := range prior {
				ids = append(ids, p.ID)
			}
			if err := s.images.DeleteByIDs(inner, ids); err != nil {
				return fmt.Errorf("evict prior images: %w", err)
			}
			evicted = prior
		}
		if _, err := s.images.Create(inner, row); err != nil {
			return fmt.Errorf("create image: %w", err)
		}
		return nil
	})
	if err != nil {
		s.removeBlob(dbc.Ctx, row.StorageKey)
		return nil, err
	}

	for _, old := range evicted {
		s.removeBlob(dbc.Ctx, old.StorageKey)
	}
	s.log.Info("Image stored", "image_id", row.ID, "company_id", row.CompanyID, "evicted", len(evicted))
	return row, nil
}

func (s *imageService) List(dbc dbctx.Context, in ListImagesInput) (*ImagePage, error) {
	if _, err := requireCompany(dbc, s.companies, in.CompanyID); err != nil {
		return nil, err
	}
	limit, offset := ClampPage(in.Limit, in.Offset)
	rows, total, err := s.images.List(dbc, repos.ImageListFilter{
		CompanyID:      in.CompanyID,
		ConversationID: in.ConversationID,
		Limit:          limit,
		Offset:         offset,
	})
	if err != nil {
		return nil, err
	}
	return &ImagePage{Total: total, Limit: limit, Offset: offset, Images: rows}, nil
}

func (s *imageService) Get(dbc dbctx.Context, companyID, imageID uuid.UUID) (*types.GeneratedImage, error) {
	if companyID == uuid.Nil {
		return nil, invalidf("company_id is required")
	}
	img, err := s.images.GetByID(dbc, imageID)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, notFoundf("image %s", imageID)
	}
	if img.CompanyID != companyID {
		return nil, ErrForbidden
	}
	return img, nil
}

func (s *imageService) URL(img *types.GeneratedImage) string {
	return s.bucket.GetPublicURL(gcp.BucketCategoryImage, img.StorageKey)
}

func (s *imageService) removeBlob(ctx context.Context, key string) {
	if err := s.bucket.DeleteFile(ctx, gcp.BucketCategoryImage, key); err != nil {
		s.log.Warn("Image blob cleanup failed", "key", key, "error", err)
	}
}

// ClampPage bounds a page request: limit to 1..100 (default 50), offset to 0..10000.
func ClampPage(limit, offset int) (int, int) {
	switch {
	case limit <= 0:
		limit = imageListDefaultLimit
	case limit > imageListMaxLimit:
		limit = imageListMaxLimit
	}
	switch {
	case offset < 0:
		offset = 0
	case offset > imageListMaxOffset:
		offset = imageListMaxOffset
	}
	return limit, offset
}
