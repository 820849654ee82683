package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/ropa-cli/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// failedTurnFormat is the AI turn appended when the chat call fails.
const failedTurnFormat = "Sorry, an error occurred: %v"

// ChatService answers questions about a session's table and applies the
// patches the model proposes.
type ChatService struct {
	sessions   *SessionService
	llm        driven.LLMService
	prompts    driven.PromptStore
	reconciler *Reconciler
}

// NewChatService creates a chat service.
// llm may be nil, in which case Ask records a failed turn.
func NewChatService(
	sessions *SessionService,
	llm driven.LLMService,
	prompts driven.PromptStore,
	reconciler *Reconciler,
) *ChatService {
	if reconciler == nil {
		reconciler = NewReconciler(nil)
	}
	return &ChatService{
		sessions:   sessions,
		llm:        llm,
		prompts:    prompts,
		reconciler: reconciler,
	}
}

// Ask runs one chat turn against sessionID, or the active session when empty.
//
// The question is appended before the model is called and no lock is held
// during the call. The answer and its patches are applied only if the
// session is still active when the reply arrives.
func (c *ChatService) Ask(ctx context.Context, sessionID, question string) (*driving.ChatResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.ErrEmptyQuestion
	}
	id, err := c.sessions.resolve(sessionID)
	if err != nil {
		return nil, err
	}

	var snapshot []*domain.Record
	err = c.sessions.mutate(ctx, id, true, func(session *domain.Session) error {
		if len(session.Records) == 0 {
			return domain.ErrNoDocuments
		}
		session.Transcript = append(session.Transcript, domain.ChatTurn{
			Sender:    domain.SenderUser,
			Text:      question,
			Timestamp: c.sessions.now(),
		})
		snapshot = make([]*domain.Record, len(session.Records))
		for i, r := range session.Records {
			snapshot[i] = r.Clone()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	reply, callErr := c.consult(ctx, snapshot, question)
	if callErr != nil {
		logger.Warn("chat turn failed: %v", callErr)
		turn := domain.ChatTurn{
			Sender:    domain.SenderAI,
			Text:      fmt.Sprintf(failedTurnFormat, callErr),
			Timestamp: c.sessions.now(),
			Failed:    true,
		}
		err := c.sessions.mutate(ctx, id, true, func(session *domain.Session) error {
			session.Transcript = append(session.Transcript, turn)
			return nil
		})
		if err != nil {
			logger.Warn("failed turn not recorded: %v", err)
		}
		return &driving.ChatResult{Turn: turn}, callErr
	}

	result := &driving.ChatResult{
		Turn: domain.ChatTurn{
			Sender:    domain.SenderAI,
			Text:      reply.Answer,
			Timestamp: c.sessions.now(),
		},
	}
	err = c.sessions.mutate(ctx, id, true, func(session *domain.Session) error {
		result.Outcomes = c.reconciler.Apply(session.Records, reply.Patches)
		session.Transcript = append(session.Transcript, result.Turn)
		return nil
	})
	if err != nil {
		logger.Warn("discarding chat reply: %v", err)
		return nil, err
	}
	return result, nil
}

// consult sends the question with the table context and parses the reply.
func (c *ChatService) consult(ctx context.Context, records []*domain.Record, question string) (domain.ChatReply, error) {
	if c.llm == nil {
		return domain.ChatReply{}, domain.ErrLLMUnavailable
	}

	contextJSON, err := ChatContext(records)
	if err != nil {
		return domain.ChatReply{}, err
	}
	prompt := renderPrompt(c.prompts, driven.PromptChat, map[string]string{
		PlaceholderContext:  contextJSON,
		PlaceholderQuestion: question,
	})

	text, err := c.llm.Generate(ctx, prompt, nil, driven.GenerateOptions{JSON: true})
	if err != nil {
		return domain.ChatReply{}, err
	}
	return ParseChatReply(text)
}

// ChatContext renders records as the JSON array the chat model sees: one
// object per record with its file name and present values only.
func ChatContext(records []*domain.Record) (string, error) {
	rows := make([]map[string]string, len(records))
	for i, r := range records {
		row := map[string]string{"fileName": r.FileName}
		for k, v := range r.Values() {
			row[string(k)] = v
		}
		rows[i] = row
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode chat context: %w", err)
	}
	return string(data), nil
}

// ParseChatReply decodes a chat reply of the form
// {"answer": "...", "updatedData": [{"fileName", "field", "value"}]}.
// Patch entries missing a file name or field are dropped.
func ParseChatReply(reply string) (domain.ChatReply, error) {
	obj, err := decodeObject(reply)
	if err != nil {
		return domain.ChatReply{}, err
	}

	answer, _ := coerceValue(obj["answer"])
	out := domain.ChatReply{Answer: answer}

	updates, _ := obj["updatedData"].([]any)
	for _, item := range updates {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		fileName, okFile := entry["fileName"].(string)
		field, okField := entry["field"].(string)
		if !okFile || !okField || fileName == "" || field == "" {
			logger.Warn("dropping malformed patch entry %v", entry)
			continue
		}
		value, _ := coerceValue(entry["value"])
		out.Patches = append(out.Patches, domain.Patch{FileName: fileName, Field: field, Value: value})
	}

	if out.Answer == "" && len(out.Patches) == 0 {
		return domain.ChatReply{}, fmt.Errorf("%w: reply has no answer", domain.ErrMalformedResponse)
	}
	return out, nil
}
