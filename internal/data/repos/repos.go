package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/brandcopilot-backend/internal/data/repos/conversation"
	"github.com/yungbote/brandcopilot-backend/internal/data/repos/document"
	"github.com/yungbote/brandcopilot-backend/internal/data/repos/media"
	"github.com/yungbote/brandcopilot-backend/internal/data/repos/tenant"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
)

type CompanyRepo = tenant.CompanyRepo
type ToneRepo = tenant.ToneRepo

type ConversationRepo = conversation.ConversationRepo
type MessageRepo = conversation.MessageRepo

type DocumentRepo = document.DocumentRepo

type GeneratedImageRepo = media.GeneratedImageRepo
type ImageListFilter = media.ListFilter

func NewCompanyRepo(db *gorm.DB, log *logger.Logger) CompanyRepo {
	return tenant.NewCompanyRepo(db, log)
}

func NewToneRepo(db *gorm.DB, log *logger.Logger) ToneRepo {
	return tenant.NewToneRepo(db, log)
}

func NewConversationRepo(db *gorm.DB, log *logger.Logger) ConversationRepo {
	return conversation.NewConversationRepo(db, log)
}

func NewMessageRepo(db *gorm.DB, log *logger.Logger) MessageRepo {
	return conversation.NewMessageRepo(db, log)
}

func NewDocumentRepo(db *gorm.DB, log *logger.Logger) DocumentRepo {
	return document.NewDocumentRepo(db, log)
}

func NewGeneratedImageRepo(db *gorm.DB, log *logger.Logger) GeneratedImageRepo {
	return media.NewGeneratedImageRepo(db, log)
}
