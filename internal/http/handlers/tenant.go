package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/brandcopilot-backend/internal/http/response"
	"github.com/yungbote/brandcopilot-backend/internal/platform/dbctx"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
	"github.com/yungbote/brandcopilot-backend/internal/services"
)

type TenantHandler struct {
	log     *logger.Logger
	tenants services.TenantService
}

func NewTenantHandler(log *logger.Logger, tenants services.TenantService) *TenantHandler {
	return &TenantHandler{
		log:     log.With("handler", "TenantHandler"),
		tenants: tenants,
	}
}

// GET /api/companies
func (h *TenantHandler) ListCompanies(c *gin.Context) {
	rows, err := h.tenants.ListCompanies(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		respondServiceError(c, h.log, "ListCompanies", err)
		return
	}
	response.RespondOK(c, gin.H{"companies": rows})
}

// GET /api/companies/:company_id/tones
func (h *TenantHandler) ListTones(c *gin.Context) {
	companyID, err := parseUUID("company_id", c.Param("company_id"))
	if err != nil {
		respondServiceError(c, h.log, "ListTones", err)
		return
	}
	rows, err := h.tenants.ListTones(dbctx.Context{Ctx: c.Request.Context()}, companyID)
	if err != nil {
		respondServiceError(c, h.log, "ListTones", err)
		return
	}
	response.RespondOK(c, gin.H{"tones": rows})
}
