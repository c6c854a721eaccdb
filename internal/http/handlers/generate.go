package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/brandcopilot-backend/internal/http/response"
	"github.com/yungbote/brandcopilot-backend/internal/platform/dbctx"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
	"github.com/yungbote/brandcopilot-backend/internal/services"
)

type GenerateHandler struct {
	log  *logger.Logger
	text services.TextGenerationService
}

func NewGenerateHandler(log *logger.Logger, text services.TextGenerationService) *GenerateHandler {
	return &GenerateHandler{
		log:  log.With("handler", "GenerateHandler"),
		text: text,
	}
}

type generateRequest struct {
	Prompt         string `json:"prompt"`
	Tone           string `json:"tone"`
	CompanyID      string `json:"company_id"`
	ConversationID string `json:"conversation_id"`
}

// POST /api/generate
func (h *GenerateHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondServiceError(c, h.log, "Generate", fmt.Errorf("%w: %v", services.ErrInvalidArgument, err))
		return
	}
	companyID, err := parseUUID("company_id", req.CompanyID)
	if err != nil {
		respondServiceError(c, h.log, "Generate", err)
		return
	}
	convID, err := parseOptionalUUID("conversation_id", req.ConversationID)
	if err != nil {
		respondServiceError(c, h.log, "Generate", err)
		return
	}

	res, err := h.text.Generate(dbctx.Context{Ctx: c.Request.Context()}, services.GenerateTextInput{
		CompanyID:      companyID,
		ConversationID: convID,
		Tone:           req.Tone,
		Prompt:         req.Prompt,
	})
	if err != nil {
		respondServiceError(c, h.log, "Generate", err)
		return
	}
	response.RespondOK(c, gin.H{
		"text":            res.Text,
		"conversation_id": res.ConversationID,
	})
}
