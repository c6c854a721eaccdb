package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/brandcopilot-backend/internal/data/repos"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
)

type Repos struct {
	Company        repos.CompanyRepo
	Tone           repos.ToneRepo
	Conversation   repos.ConversationRepo
	Message        repos.MessageRepo
	Document       repos.DocumentRepo
	GeneratedImage repos.GeneratedImageRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Company:        repos.NewCompanyRepo(db, log),
		Tone:           repos.NewToneRepo(db, log),
		Conversation:   repos.NewConversationRepo(db, log),
		Message:        repos.NewMessageRepo(db, log),
		Document:       repos.NewDocumentRepo(db, log),
		GeneratedImage: repos.NewGeneratedImageRepo(db, log),
	}
}
