package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/brandcopilot-backend/internal/http"
	httpH "github.com/yungbote/brandcopilot-backend/internal/http/handlers"
	"github.com/yungbote/brandcopilot-backend/internal/platform/envutil"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
)

type Handlers struct {
	Health       *httpH.HealthHandler
	Generate     *httpH.GenerateHandler
	Conversation *httpH.ConversationHandler
	Tenant       *httpH.TenantHandler
	Document     *httpH.DocumentHandler
	Image        *httpH.ImageHandler
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:       httpH.NewHealthHandler(),
		Generate:     httpH.NewGenerateHandler(log, s.TextGeneration),
		Conversation: httpH.NewConversationHandler(log, s.Conversation),
		Tenant:       httpH.NewTenantHandler(log, s.Tenant),
		Document:     httpH.NewDocumentHandler(log, s.Document),
		Image:        httpH.NewImageHandler(log, s.Image),
	}
}

func wireRouter(log *logger.Logger, serviceName string, h Handlers) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:                 log,
		ServiceName:         serviceName,
		CORSOrigins:         envutil.List("CORS_ALLOWED_ORIGINS", nil, log),
		HealthHandler:       h.Health,
		GenerateHandler:     h.Generate,
		ConversationHandler: h.Conversation,
		TenantHandler:       h.Tenant,
		DocumentHandler:     h.Document,
		ImageHandler:        h.Image,
	})
}
