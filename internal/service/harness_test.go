package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ai-consultant-bot/internal/constant"
	"ai-consultant-bot/internal/entity"
	"ai-consultant-bot/internal/mocks"
	"ai-consultant-bot/internal/pkg/logger"
	"ai-consultant-bot/internal/repository/memory"
	"ai-consultant-bot/pkg/events"
	"ai-consultant-bot/pkg/messenger"
	"ai-consultant-bot/pkg/rag/access"
	ragcontext "ai-consultant-bot/pkg/rag/context"
	"ai-consultant-bot/pkg/rag/dedup"
	"ai-consultant-bot/pkg/rag/delivery"
	"ai-consultant-bot/pkg/rag/response"
	"ai-consultant-bot/pkg/rag/session"
	"ai-consultant-bot/pkg/rag/state"
	"ai-consultant-bot/pkg/store"
)

type auditEntry struct {
	Username  string
	Text      string
	Direction entity.Direction
}

// recordingAudit is a synchronous IAuditService.
type recordingAudit struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (a *recordingAudit) Record(ctx context.Context, username, text string, direction entity.Direction) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, auditEntry{Username: username, Text: text, Direction: direction})
}

func (a *recordingAudit) Consume(ctx context.Context) error { return nil }

func (a *recordingAudit) Entries() []auditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]auditEntry(nil), a.entries...)
}

type recordingEvents struct {
	mu    sync.Mutex
	types []string
}

func (r *recordingEvents) Publish(ctx context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, e.EventType())
	return nil
}

func (r *recordingEvents) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.types...)
}

type harness struct {
	svc      IChatbotService
	admin    IAdminService
	msg      *mocks.Messenger
	llm      *mocks.LLM
	index    *mocks.Index
	store    *mocks.Store
	audit    *recordingAudit
	events   *recordingEvents
	sessions *memory.SessionRepository
}

type harnessOption func(*harnessConfig)

type harnessConfig struct {
	celebrationDelay time.Duration
	guard            dedup.Guard
	llmTimeout       time.Duration
}

func withCelebrationDelay(d time.Duration) harnessOption {
	return func(c *harnessConfig) { c.celebrationDelay = d }
}

func withGuard(g dedup.Guard) harnessOption {
	return func(c *harnessConfig) { c.guard = g }
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	cfg := harnessConfig{celebrationDelay: 10 * time.Millisecond, guard: dedup.NoopGuard{}, llmTimeout: time.Second}
	for _, o := range opts {
		o(&cfg)
	}

	log := logger.NewNopLogger()
	h := &harness{
		msg:      &mocks.Messenger{},
		llm:      &mocks.LLM{Answers: []string{"Твоё число — 7."}},
		index:    &mocks.Index{Chunks: []store.Chunk{{Content: "Семёрка — число мудрости."}}},
		store:    mocks.NewStore("alice", "bob"),
		audit:    &recordingAudit{},
		events:   &recordingEvents{},
		sessions: memory.NewSessionRepository(),
	}

	uowFactory := mocks.NewRepositoryFactory(h.store)
	verifier := access.NewVerifier([]string{"boss"}, uowFactory, log)
	deliverer := delivery.NewDeliverer(h.msg, delivery.LinkPolicy{}, delivery.NewFollowUpScheduler(), delivery.Celebration{
		StickerID: constant.StickerCelebration,
		Text:      constant.MessageCelebration,
		Delay:     cfg.celebrationDelay,
	}, log)

	h.svc = NewChatbotService(ChatbotDependencies{
		Messenger:    h.msg,
		Verifier:     verifier,
		Sessions:     session.NewManager(h.sessions),
		States:       state.NewManager(constant.ConfirmPhrase, constant.ReadyPhrase, log),
		Assembler:    ragcontext.NewAssembler(h.index, 4, 5000),
		Generator:    response.NewGenerator(h.llm, response.Sampling{Temperature: 0.5, FrequencyPenalty: 1.0, Timeout: cfg.llmTimeout}, log),
		Deliverer:    deliverer,
		Audit:        h.audit,
		Events:       h.events,
		Guard:        cfg.guard,
		SystemPrompt: "Ты — Нейро Нумеролог.",
		Logger:       log,
	})
	h.admin = NewAdminService(uowFactory, verifier, h.msg, deliverer, log)
	t.Cleanup(h.svc.Shutdown)
	return h
}

var nextMessageID atomic.Int64

func text(chatID int64, username, body string) messenger.Update {
	id := int(nextMessageID.Add(1))
	return messenger.Update{ChatID: chatID, MessageID: id, Username: username, Text: body}
}

func (h *harness) start(chatID int64, username string) {
	h.svc.HandleStart(context.Background(), text(chatID, username, "/start"))
}

func (h *harness) say(chatID int64, username, body string) {
	h.svc.HandleMessage(context.Background(), text(chatID, username, body))
}

// activate walks a chat through onboarding and clears the recorded output.
func (h *harness) activate(chatID int64, username string) {
	h.start(chatID, username)
	h.say(chatID, username, constant.ConfirmPhrase)
	h.say(chatID, username, constant.ReadyPhrase)
	h.msg.Reset()
}

func (h *harness) session(chatID int64) *store.Session {
	s, _ := h.sessions.Get(chatID)
	return s
}
