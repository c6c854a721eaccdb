package domain

import (
	"github.com/yungbote/brandcopilot-backend/internal/domain/conversation"
	"github.com/yungbote/brandcopilot-backend/internal/domain/document"
	"github.com/yungbote/brandcopilot-backend/internal/domain/media"
	"github.com/yungbote/brandcopilot-backend/internal/domain/tenant"
)

type (
	Company = tenant.Company
	Tone    = tenant.Tone

	Conversation = conversation.Conversation
	Message      = conversation.Message

	Document       = document.Document
	DocumentStatus = document.Status

	GeneratedImage = media.GeneratedImage
)

const (
	RoleUser      = conversation.RoleUser
	RoleAssistant = conversation.RoleAssistant

	DocumentPending    = document.StatusPending
	DocumentProcessing = document.StatusProcessing
	DocumentCompleted  = document.StatusCompleted
	DocumentFailed     = document.StatusFailed
)

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&Company{},
		&Tone{},
		&Conversation{},
		&Message{},
		&Document{},
		&GeneratedImage{},
	}
}
