package services

import (
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/brandcopilot-backend/internal/data/repos"
	types "github.com/yungbote/brandcopilot-backend/internal/domain"
	"github.com/yungbote/brandcopilot-backend/internal/platform/dbctx"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
)

const conversationListLimit = 50

type ConversationService interface {
	List(dbc dbctx.Context, companyID uuid.UUID) ([]*types.Conversation, error)
	// Get returns the conversation with its turns in order.
	Get(dbc dbctx.Context, companyID, conversationID uuid.UUID) (*types.Conversation, error)
	Search(dbc dbctx.Context, companyID uuid.UUID, q string) ([]*types.Conversation, error)
}

type conversationService struct {
	log           *logger.Logger
	companies     repos.CompanyRepo
	conversations repos.ConversationRepo
	messages      repos.MessageRepo
}

func NewConversationService(
	baseLog *logger.Logger,
	companyRepo repos.CompanyRepo,
	conversationRepo repos.ConversationRepo,
	messageRepo repos.MessageRepo,
) ConversationService {
	return &conversationService{
		log:           baseLog.With("service", "ConversationService"),
		companies:     companyRepo,
		conversations: conversationRepo,
		messages:      messageRepo,
	}
}

func (s *conversationService) List(dbc dbctx.Context, companyID uuid.UUID) ([]*types.Conversation, error) {
	if _, err := requireCompany(dbc, s.companies, companyID); err != nil {
		return nil, err
	}
	return s.conversations.ListByCompany(dbc, companyID, conversationListLimit)
}

func (s *conversationService) Get(dbc dbctx.Context, companyID, conversationID uuid.UUID) (*types.Conversation, error) {
	if companyID == uuid.Nil {
		return nil, invalidf("company_id is required")
	}
	conv, err := s.conversations.GetByID(dbc, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, notFoundf("conversation %s", conversationID)
	}
	if conv.CompanyID != companyID {
		return nil, ErrForbidden
	}
	msgs, err := s.messages.ListByConversation(dbc, conv.ID)
	if err != nil {
		return nil, err
	}
	conv.Messages = make([]types.Message, 0, len(msgs))
	for _, m := range msgs {
		conv.Messages = append(conv.Messages, *m)
	}
	return conv, nil
}

func (s *conversationService) Search(dbc dbctx.Context, companyID uuid.UUID, q string) ([]*types.Conversation, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, invalidf("q is required")
	}
	if _, err := requireCompany(dbc, s.companies, companyID); err != nil {
		return nil, err
	}
	return s.conversations.Search(dbc, companyID, q, conversationListLimit)
}
