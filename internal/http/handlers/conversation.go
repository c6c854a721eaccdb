package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/brandcopilot-backend/internal/http/response"
	"github.com/yungbote/brandcopilot-backend/internal/platform/dbctx"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
	"github.com/yungbote/brandcopilot-backend/internal/services"
)

type ConversationHandler struct {
	log           *logger.Logger
	conversations services.ConversationService
}

func NewConversationHandler(log *logger.Logger, conversations services.ConversationService) *ConversationHandler {
	return &ConversationHandler{
		log:           log.With("handler", "ConversationHandler"),
		conversations: conversations,
	}
}

// GET /api/conversations?company_id=
func (h *ConversationHandler) List(c *gin.Context) {
	companyID, err := companyIDFromQuery(c)
	if err != nil {
		respondServiceError(c, h.log, "ListConversations", err)
		return
	}
	rows, err := h.conversations.List(dbctx.Context{Ctx: c.Request.Context()}, companyID)
	if err != nil {
		respondServiceError(c, h.log, "ListConversations", err)
		return
	}
	response.RespondOK(c, gin.H{"conversations": rows})
}

// GET /api/conversations/:id?company_id=
func (h *ConversationHandler) Get(c *gin.Context) {
	companyID, err := companyIDFromQuery(c)
	if err != nil {
		respondServiceError(c, h.log, "GetConversation", err)
		return
	}
	convID, err := parseUUID("id", c.Param("id"))
	if err != nil {
		respondServiceError(c, h.log, "GetConversation", err)
		return
	}
	conv, err := h.conversations.Get(dbctx.Context{Ctx: c.Request.Context()}, companyID, convID)
	if err != nil {
		respondServiceError(c, h.log, "GetConversation", err)
		return
	}
	response.RespondOK(c, gin.H{"conversation": conv})
}

// GET /api/conversations/search?company_id=&q=
func (h *ConversationHandler) Search(c *gin.Context) {
	companyID, err := companyIDFromQuery(c)
	if err != nil {
		respondServiceError(c, h.log, "SearchConversations", err)
		return
	}
	rows, err := h.conversations.Search(dbctx.Context{Ctx: c.Request.Context()}, companyID, c.Query("q"))
	if err != nil {
		respondServiceError(c, h.log, "SearchConversations", err)
		return
	}
	response.RespondOK(c, gin.H{"conversations": rows})
}
