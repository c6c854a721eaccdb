package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/brandcopilot-backend/internal/ai/imagegen"
	types "github.com/yungbote/brandcopilot-backend/internal/domain"
	"github.com/yungbote/brandcopilot-backend/internal/http/response"
	"github.com/yungbote/brandcopilot-backend/internal/platform/dbctx"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
	"github.com/yungbote/brandcopilot-backend/internal/services"
)

type ImageHandler struct {
	log    *logger.Logger
	images services.ImageService
}

func NewImageHandler(log *logger.Logger, images services.ImageService) *ImageHandler {
	return &ImageHandler{
		log:    log.With("handler", "ImageHandler"),
		images: images,
	}
}

type generateImageRequest struct {
	Prompt         string `json:"prompt"`
	CompanyID      string `json:"company_id"`
	ConversationID string `json:"conversation_id"`
	Width          *int   `json:"width"`
	Height         *int   `json:"height"`
	Seed           *int64 `json:"seed"`
}

type imageView struct {
	ImageID        uuid.UUID  `json:"image_id"`
	ImageURL       string     `json:"image_url"`
	ConversationID *uuid.UUID `json:"conversation_id,omitempty"`
	Prompt         string     `json:"prompt"`
	Width          int        `json:"width"`
	Height         int        `json:"height"`
	Seed           int64      `json:"seed"`
	ModelID        string     `json:"model_id"`
	ContentType    string     `json:"content_type"`
	CreatedAt      time.Time  `json:"created_at"`
}

func (h *ImageHandler) view(img *types.GeneratedImage) imageView {
	return imageView{
		ImageID:        img.ID,
		ImageURL:       h.images.URL(img),
		ConversationID: img.ConversationID,
		Prompt:         img.Prompt,
		Width:          img.Width,
		Height:         img.Height,
		Seed:           img.Seed,
		ModelID:        img.ModelID,
		ContentType:    img.ContentType,
		CreatedAt:      img.CreatedAt,
	}
}

// POST /api/images
func (h *ImageHandler) Generate(c *gin.Context) {
	var req generateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondServiceError(c, h.log, "GenerateImage", fmt.Errorf("%w: %v", services.ErrInvalidArgument, err))
		return
	}
	companyID, err := parseUUID("company_id", req.CompanyID)
	if err != nil {
		respondServiceError(c, h.log, "GenerateImage", err)
		return
	}
	convID, err := parseOptionalUUID("conversation_id", req.ConversationID)
	if err != nil {
		respondServiceError(c, h.log, "GenerateImage", err)
		return
	}
	// Only omitted sides get the default; an explicit 0 fails the size check.
	width, height := imagegen.DefaultSize.Width, imagegen.DefaultSize.Height
	if req.Width != nil {
		width = *req.Width
	}
	if req.Height != nil {
		height = *req.Height
	}

	img, err := h.images.Generate(dbctx.Context{Ctx: c.Request.Context()}, services.GenerateImageInput{
		CompanyID:      companyID,
		ConversationID: convID,
		Prompt:         req.Prompt,
		Width:          width,
		Height:         height,
		Seed:           req.Seed,
	})
	if err != nil {
		respondServiceError(c, h.log, "GenerateImage", err)
		return
	}
	response.RespondCreated(c, h.view(img))
}

// GET /api/images?company_id=&conversation_id=&limit=&offset=
func (h *ImageHandler) List(c *gin.Context) {
	companyID, err := companyIDFromQuery(c)
	if err != nil {
		respondServiceError(c, h.log, "ListImages", err)
		return
	}
	convID, err := parseOptionalUUID("conversation_id", c.Query("conversation_id"))
	if err != nil {
		respondServiceError(c, h.log, "ListImages", err)
		return
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		respondServiceError(c, h.log, "ListImages", err)
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		respondServiceError(c, h.log, "ListImages", err)
		return
	}

	page, err := h.images.List(dbctx.Context{Ctx: c.Request.Context()}, services.ListImagesInput{
		CompanyID:      companyID,
		ConversationID: convID,
		Limit:          limit,
		Offset:         offset,
	})
	if err != nil {
		respondServiceError(c, h.log, "ListImages", err)
		return
	}
	views := make([]imageView, 0, len(page.Images))
	for _, img := range page.Images {
		views = append(views, h.view(img))
	}
	response.RespondOK(c, gin.H{
		"total":  page.Total,
		"limit":  page.Limit,
		"offset": page.Offset,
		"images": views,
	})
}

// GET /api/images/:id?company_id=
func (h *ImageHandler) Get(c *gin.Context) {
	companyID, err := companyIDFromQuery(c)
	if err != nil {
		respondServiceError(c, h.log, "GetImage", err)
		return
	}
	imageID, err := parseUUID("id", c.Param("id"))
	if err != nil {
		respondServiceError(c, h.log, "GetImage", err)
		return
	}
	img, err := h.images.Get(dbctx.Context{Ctx: c.Request.Context()}, companyID, imageID)
	if err != nil {
		respondServiceError(c, h.log, "GetImage", err)
		return
	}
	response.RespondOK(c, h.view(img))
}
