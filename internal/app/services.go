package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/brandcopilot-backend/internal/ai/docanalysis"
	"github.com/yungbote/brandcopilot-backend/internal/ai/imagegen"
	"github.com/yungbote/brandcopilot-backend/internal/ai/textgen"
	"github.com/yungbote/brandcopilot-backend/internal/config"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
	"github.com/yungbote/brandcopilot-backend/internal/services"
)

type Services struct {
	Tenant           services.TenantService
	TextGeneration   services.TextGenerationService
	Conversation     services.ConversationService
	Document         services.DocumentService
	DocumentAnalysis services.DocumentAnalysisService
	Image            services.ImageService
}

// wireServices builds every service except Document, which needs the job
// dispatcher and is added by wireJobs.
func wireServices(db *gorm.DB, log *logger.Logger, cfg config.Config, clients Clients, r Repos) (Services, *docanalysis.Extractor) {
	log.Info("Wiring services...")

	gateway := textgen.NewGateway(clients.BedrockText, cfg.Bedrock.TextGeneration, log)
	extractor := docanalysis.NewExtractor(clients.BedrockAnalysis, cfg.Bedrock.DocumentAnalysis, log)
	generator := imagegen.NewGenerator(clients.BedrockImage, cfg.Bedrock.ImageGeneration, log)

	return Services{
		Tenant: services.NewTenantService(log, r.Company, r.Tone),
		TextGeneration: services.NewTextGenerationService(
			db, log, r.Company, r.Tone, r.Conversation, r.Message, gateway, cfg.ContextMaxMessages,
		),
		Conversation:     services.NewConversationService(log, r.Company, r.Conversation, r.Message),
		DocumentAnalysis: services.NewDocumentAnalysisService(log, r.Document, clients.Bucket, extractor, clients.Events),
		Image:            services.NewImageService(db, log, r.Company, r.Conversation, r.GeneratedImage, generator, clients.Bucket),
	}, extractor
}
