package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/brandcopilot-backend/internal/ai/prompt"
	"github.com/yungbote/brandcopilot-backend/internal/ai/textgen"
	"github.com/yungbote/brandcopilot-backend/internal/data/repos"
	types "github.com/yungbote/brandcopilot-backend/internal/domain"
	"github.com/yungbote/brandcopilot-backend/internal/platform/dbctx"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
)

const titleMaxRunes = 80

// TextInvoker is satisfied by *textgen.Gateway.
type TextInvoker interface {
	Invoke(ctx context.Context, messages []prompt.Message, system string) (textgen.Result, error)
}

type GenerateTextInput struct {
	CompanyID      uuid.UUID
	ConversationID *uuid.UUID
	Tone           string
	Prompt         string
}

type GenerateTextResult struct {
	Text           string
	ConversationID uuid.UUID
	ModelID        string
}

type TextGenerationService interface {
	// Generate answers one prompt. A new conversation is created with the
	// requested tone; an existing one keeps its tone for good. Turns are only
	// persisted after a successful, non-blocked model result.
	Generate(dbc dbctx.Context, in GenerateTextInput) (*GenerateTextResult, error)
}

type textGenerationService struct {
	db            *gorm.DB
	log           *logger.Logger
	companies     repos.CompanyRepo
	tones         repos.ToneRepo
	conversations repos.ConversationRepo
	messages      repos.MessageRepo
	gateway       TextInvoker
	historyLimit  int
}

func NewTextGenerationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	companyRepo repos.CompanyRepo,
	toneRepo repos.ToneRepo,
	conversationRepo repos.ConversationRepo,
	messageRepo repos.MessageRepo,
	gateway TextInvoker,
	historyLimit int,
) TextGenerationService {
	return &textGenerationService{
		db:            db,
		log:           baseLog.With("service", "TextGenerationService"),
		companies:     companyRepo,
		tones:         toneRepo,
		conversations: conversationRepo,
		messages:      messageRepo,
		gateway:       gateway,
		historyLimit:  historyLimit,
	}
}

func (s *textGenerationService) Generate(dbc dbctx.Context, in GenerateTextInput) (*GenerateTextResult, error) {
	userText := strings.TrimSpace(in.Prompt)
	if userText == "" {
		return nil, invalidf("prompt is required")
	}
	if err := prompt.Screen(userText); err != nil {
		return nil, err
	}

	transaction := dbc.Tx
	if transaction == nil {
		transaction = s.db
	}
	repoCtx := dbctx.Context{Ctx: dbc.Ctx, Tx: transaction}

	company, err := requireCompany(repoCtx, s.companies, in.CompanyID)
	if err != nil {
		return nil, err
	}

	var (
		conv    *types.Conversation
		tone    *types.Tone
		history []*types.Message
	)
	if in.ConversationID != nil && *in.ConversationID != uuid.Nil {
		conv, err = s.conversations.GetByID(repoCtx, *in.ConversationID)
		if err != nil {
			return nil, err
		}
		if conv == nil || conv.CompanyID != company.ID {
			return nil, notFoundf("conversation %s", *in.ConversationID)
		}
		tone, err = s.tones.GetByID(repoCtx, company.ID, conv.ToneID)
		if err != nil {
			return nil, err
		}
		if tone == nil {
			return nil, notFoundf("tone %s", conv.ToneID)
		}
		if requested := strings.TrimSpace(in.Tone); requested != "" && !strings.EqualFold(requested, tone.Name) {
			return nil, fmt.Errorf("%w: conversation uses %q", ErrToneLocked, tone.Name)
		}
		history, err = s.messages.ListRecent(repoCtx, conv.ID, s.historyLimit)
		if err != nil {
			return nil, err
		}
	} else {
		name := strings.TrimSpace(in.Tone)
		if name == "" {
			return nil, invalidf("tone is required for a new conversation")
		}
		tone, err = s.tones.GetByName(repoCtx, company.ID, name)
		if err != nil {
			return nil, err
		}
		if tone == nil {
			return nil, notFoundf("tone %q", name)
		}
	}

	msgs := prompt.Normalize(toTurns(history), userText)
	system := prompt.SystemPrompt(prompt.Persona{
		CompanyName:      company.Name,
		Description:      company.Description,
		ToneInstructions: tone.Instructions,
	})

	res, err := s.gateway.Invoke(dbc.Ctx, msgs, system)
	if err != nil {
		s.log.Warn("Text generation failed", "company_id", company.ID, "outcome", textgen.Classify(err).String(), "error", err)
		return nil, err
	}

	var convID uuid.UUID
	err = transaction.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: dbc.Ctx, Tx: tx}
		if conv == nil {
			created, err := s.conversations.Create(inner, &types.Conversation{
				CompanyID: company.ID,
				ToneID:    tone.ID,
				Title:     TitleFromPrompt(userText),
			})
			if err != nil {
				return fmt.Errorf("create conversation: %w", err)
			}
			convID = created.ID
		} else {
			convID = conv.ID
			updates := map[string]interface{}{"updated_at": time.Now().UTC()}
			if conv.Title == "" {
				updates["title"] = TitleFromPrompt(userText)
			}
			if err := s.conversations.UpdateFields(inner, conv.ID, updates); err != nil {
				return fmt.Errorf("touch conversation: %w", err)
			}
		}
		if _, err := s.messages.AppendPair(inner, convID, userText, res.Text); err != nil {
			return fmt.Errorf("append turns: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Text generated", "company_id", company.ID, "conversation_id", convID, "model", res.ModelID)
	return &GenerateTextResult{Text: res.Text, ConversationID: convID, ModelID: res.ModelID}, nil
}

func toTurns(rows []*types.Message) []prompt.Turn {
	out := make([]prompt.Turn, 0, len(rows))
	for _, m := range rows {
		role := prompt.RoleUser
		if m.Role == types.RoleAssistant {
			role = prompt.RoleAssistant
		}
		out = append(out, prompt.Turn{Role: role, Text: m.Content})
	}
	return out
}

// TitleFromPrompt keeps the first line of the prompt, cut to 80 runes.
func TitleFromPrompt(p string) string {
	p = strings.TrimSpace(p)
	if i := strings.IndexByte(p, '\n'); i >= 0 {
		p = strings.TrimSpace(p[:i])
	}
	if utf8.RuneCountInString(p) <= titleMaxRunes {
		return p
	}
	r := []rune(p)
	return strings.TrimSpace(string(r[:titleMaxRunes]))
}
