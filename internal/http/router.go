package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/brandcopilot-backend/internal/http/handlers"
	httpMW "github.com/yungbote/brandcopilot-backend/internal/http/middleware"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string

	GenerateHandler     *httpH.GenerateHandler
	ConversationHandler *httpH.ConversationHandler
	TenantHandler       *httpH.TenantHandler
	DocumentHandler     *httpH.DocumentHandler
	ImageHandler        *httpH.ImageHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.TenantHandler != nil {
			api.GET("/companies", cfg.TenantHandler.ListCompanies)
			api.GET("/companies/:company_id/tones", cfg.TenantHandler.ListTones)
		}

		// Text generation
		if cfg.GenerateHandler != nil {
			api.POST("/generate", cfg.GenerateHandler.Generate)
		}

		if cfg.ConversationHandler != nil {
			api.GET("/conversations", cfg.ConversationHandler.List)
			api.GET("/conversations/search", cfg.ConversationHandler.Search)
			api.GET("/conversations/:id", cfg.ConversationHandler.Get)
		}

		// Documents
		if cfg.DocumentHandler != nil {
			api.POST("/documents", cfg.DocumentHandler.Upload)
			api.GET("/documents", cfg.DocumentHandler.List)
			api.GET("/documents/:id", cfg.DocumentHandler.Get)
		}

		// Images
		if cfg.ImageHandler != nil {
			api.POST("/images", cfg.ImageHandler.Generate)
			api.GET("/images", cfg.ImageHandler.List)
			api.GET("/images/:id", cfg.ImageHandler.Get)
		}
	}

	return r
}
