package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"donation_assistant_bot/internal/domain/chat"
	"donation_assistant_bot/internal/domain/llm"

	"github.com/sirupsen/logrus"
)

const defaultContextWindow = 5

const replyGenerationFailed = "I apologize, but I couldn't generate a response. Please try again."
const replyProcessingFailed = "I apologize, but I'm having trouble processing that. Please try asking about donations, reports, or categories."

const systemPrompt = "You are a helpful donation management assistant. You can help the user " +
	"manage donations, view statistics, and answer questions about the donor base. " +
	"To perform a database operation, embed exactly one command in your reply as " +
	"[DB_COMMAND]{\"action\": \"...\", ...}[/DB_COMMAND]. " +
	"You have access to the following database context:\n"

type exchange struct {
	role    string // "user" or "assistant"
	content string
}

// AssistantService runs one conversational turn: build the prompt with live
// database context, call the model, execute at most one embedded command
// from the reply and log the exchange. The conversation window lives here,
// not in the dispatcher.
type AssistantService struct {
	model      llm.Client
	dispatcher *Dispatcher
	records    *RecordService
	chatRepo   chat.Repository
	logger     *logrus.Entry

	mu            sync.Mutex
	history       []exchange
	contextWindow int
}

func NewAssistantService(
	model llm.Client,
	dispatcher *Dispatcher,
	records *RecordService,
	chatRepo chat.Repository,
	contextWindow int,
	logger *logrus.Entry,
) *AssistantService {
	if contextWindow <= 0 {
		contextWindow = defaultContextWindow
	}
	return &AssistantService{
		model:         model,
		dispatcher:    dispatcher,
		records:       records,
		chatRepo:      chatRepo,
		contextWindow: contextWindow,
		logger:        logger,
	}
}

// Respond handles one user message and returns the assistant's reply.
// Every failure path degrades to a readable answer; nothing propagates as a
// fault to the front end.
func (s *AssistantService) Respond(ctx context.Context, message string) string {
	prompt := s.buildPrompt(ctx, message)

	raw, err := s.model.Generate(ctx, prompt)
	if err != nil {
		s.logger.WithError(err).Error("Model call failed, answering from the store")
		// Degraded mode: answer simple store questions without the model.
		reply := s.records.AnswerQuery(ctx, message)
		if reply == replyUnknownQuery {
			reply = replyProcessingFailed
		}
		s.remember(ctx, message, reply)
		return reply
	}
	if strings.TrimSpace(raw) == "" {
		return replyGenerationFailed
	}

	reply := raw
	if cmd, start, end, ok := ExtractCommandBlock(raw); ok {
		result := s.dispatcher.Dispatch(ctx, cmd)
		reply = raw[:start] + "\n" + result + "\n" + raw[end:]
	}
	reply = strings.TrimSpace(reply)

	s.remember(ctx, message, reply)
	return reply
}

// buildPrompt assembles system prompt, database context, the capped
// conversation history and the new user message.
func (s *AssistantService) buildPrompt(ctx context.Context, message string) string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString(s.databaseContext(ctx))
	b.WriteString("\nConversation history:\n")

	s.mu.Lock()
	for _, e := range s.history {
		fmt.Fprintf(&b, "%s: %s\n", e.role, e.content)
	}
	s.mu.Unlock()

	fmt.Fprintf(&b, "\nUser: %s", message)
	return b.String()
}

// databaseContext summarizes the store for the model: running total,
// categories and the five most recent donations.
func (s *AssistantService) databaseContext(ctx context.Context) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current total donations: $%.2f\n", s.records.TotalDonations(ctx, ""))
	fmt.Fprintf(&b, "Available categories: %s\n", strings.Join(s.records.Categories(ctx), ", "))

	recent, err := s.records.RecentDonations(ctx, defaultRecentLimit)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to load recent donations for prompt context")
		return b.String()
	}
	b.WriteString("Recent donations:\n")
	for _, d := range recent {
		fmt.Fprintf(&b, "- %s: $%.2f (%s)\n", d.DonorName, d.Amount, d.Category)
	}
	return b.String()
}

// remember appends the exchange to the in-memory window and the persistent
// chat log. The log append is best effort; a storage error never breaks the
// conversation.
func (s *AssistantService) remember(ctx context.Context, message, reply string) {
	s.mu.Lock()
	s.history = append(s.history,
		exchange{role: "user", content: message},
		exchange{role: "assistant", content: reply},
	)
	if max := s.contextWindow * 2; len(s.history) > max {
		s.history = s.history[len(s.history)-max:]
	}
	s.mu.Unlock()

	if err := s.chatRepo.Append(ctx, &chat.Entry{
		UserMessage: message,
		BotResponse: reply,
		Timestamp:   time.Now(),
	}); err != nil {
		s.logger.WithError(err).Error("Failed to append chat history entry")
	}
}
