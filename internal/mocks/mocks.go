// Package mocks holds hand-written fakes shared by package tests.
package mocks

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"ai-consultant-bot/internal/entity"
	"ai-consultant-bot/internal/repository/contract"
	"ai-consultant-bot/internal/repository/specification"
	"ai-consultant-bot/internal/repository/unitofwork"
	"ai-consultant-bot/pkg/llm"
	"ai-consultant-bot/pkg/messenger"
	"ai-consultant-bot/pkg/store"
)

var ErrStoreDown = errors.New("store unavailable")

// Store is an in-memory backing for the fake repositories.
type Store struct {
	mu       sync.Mutex
	Allowed  map[string]time.Time
	Messages []*entity.MessageLog
	Chunks   []*entity.KnowledgeChunk
	// Fail makes every repository call return ErrStoreDown.
	Fail bool
	// ExistsCalls counts allow-list lookups.
	ExistsCalls int
}

func NewStore(allowed ...string) *Store {
	s := &Store{Allowed: make(map[string]time.Time)}
	for _, a := range allowed {
		s.Allowed[a] = time.Now()
	}
	return s
}

func (s *Store) MessagesFor(username string) []*entity.MessageLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.MessageLog
	for _, m := range s.Messages {
		if m.Username == username {
			out = append(out, m)
		}
	}
	return out
}

// RepositoryFactory hands out unit of works over a shared Store.
type RepositoryFactory struct {
	Store *Store
}

func NewRepositoryFactory(s *Store) *RepositoryFactory {
	return &RepositoryFactory{Store: s}
}

func (f *RepositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{store: f.Store}
}

type unitOfWork struct {
	store *Store
}

func (u *unitOfWork) Begin(ctx context.Context) error { return nil }
func (u *unitOfWork) Commit() error                  { return nil }
func (u *unitOfWork) Rollback() error                { return nil }

func (u *unitOfWork) AllowedUserRepository() contract.AllowedUserRepository {
	return &allowedUserRepo{s: u.store}
}

func (u *unitOfWork) MessageLogRepository() contract.MessageLogRepository {
	return &messageLogRepo{s: u.store}
}

func (u *unitOfWork) KnowledgeChunkRepository() contract.KnowledgeChunkRepository {
	return &knowledgeChunkRepo{s: u.store}
}

type allowedUserRepo struct{ s *Store }

func (r *allowedUserRepo) Create(ctx context.Context, user *entity.AllowedUser) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail {
		return contract.Wrap("allowed_users.create", ErrStoreDown)
	}
	if _, ok := r.s.Allowed[user.Username]; !ok {
		r.s.Allowed[user.Username] = time.Now()
	}
	return nil
}

func (r *allowedUserRepo) Delete(ctx context.Context, username string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail {
		return contract.Wrap("allowed_users.delete", ErrStoreDown)
	}
	delete(r.s.Allowed, username)
	return nil
}

func (r *allowedUserRepo) Exists(ctx context.Context, username string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.ExistsCalls++
	if r.s.Fail {
		return false, contract.Wrap("allowed_users.exists", ErrStoreDown)
	}
	_, ok := r.s.Allowed[username]
	return ok, nil
}

func (r *allowedUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AllowedUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail {
		return nil, contract.Wrap("allowed_users.find_all", ErrStoreDown)
	}
	out := make([]*entity.AllowedUser, 0, len(r.s.Allowed))
	for name, at := range r.s.Allowed {
		out = append(out, &entity.AllowedUser{Username: name, CreatedAt: at})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

type messageLogRepo struct{ s *Store }

func (r *messageLogRepo) Create(ctx context.Context, log *entity.MessageLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail {
		return contract.Wrap("messages.create", ErrStoreDown)
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	cp := *log
	r.s.Messages = append(r.s.Messages, &cp)
	return nil
}

// FindAll ignores specifications other than ByUsername.
func (r *messageLogRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MessageLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail {
		return nil, contract.Wrap("messages.find_all", ErrStoreDown)
	}
	username := ""
	for _, spec := range specs {
		if by, ok := spec.(specification.ByUsername); ok {
			username = by.Username
		}
	}
	var out []*entity.MessageLog
	for _, m := range r.s.Messages {
		if username == "" || m.Username == username {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *messageLogRepo) DeleteByUsername(ctx context.Context, username string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail {
		return 0, contract.Wrap("messages.delete_by_username", ErrStoreDown)
	}
	kept := r.s.Messages[:0]
	var removed int64
	for _, m := range r.s.Messages {
		if m.Username == username {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	r.s.Messages = kept
	return removed, nil
}

type knowledgeChunkRepo struct{ s *Store }

func (r *knowledgeChunkRepo) ReplaceAll(ctx context.Context, chunks []*entity.KnowledgeChunk) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail {
		return contract.Wrap("knowledge_chunks.replace_all", ErrStoreDown)
	}
	r.s.Chunks = append([]*entity.KnowledgeChunk(nil), chunks...)
	return nil
}

// SearchSimilarWithScore returns chunks in stored order with a flat score.
func (r *knowledgeChunkRepo) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*contract.ScoredKnowledgeChunk, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail {
		return nil, contract.Wrap("knowledge_chunks.search", ErrStoreDown)
	}
	var out []*contract.ScoredKnowledgeChunk
	for i, c := range r.s.Chunks {
		if i == limit {
			break
		}
		out = append(out, &contract.ScoredKnowledgeChunk{Chunk: c, Similarity: 1})
	}
	return out, nil
}

func (r *knowledgeChunkRepo) Count(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.Chunks)), nil
}

// Sent is one recorded outbound call.
type Sent struct {
	Kind    string // text, reply, sticker, keyboard, remove_keyboard, inline_menu, callback
	ChatID  int64
	Text    string
	Buttons []string
	Rows    [][]messenger.Button
	ReplyTo int
}

// Messenger records every outbound call.
type Messenger struct {
	mu   sync.Mutex
	sent []Sent
	// FailText makes SendText return an error.
	FailText error
}

func (m *Messenger) record(s Sent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, s)
}

func (m *Messenger) Sent() []Sent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Sent(nil), m.sent...)
}

// Texts returns the text of every call that carried one, in order.
func (m *Messenger) Texts() []string {
	var out []string
	for _, s := range m.Sent() {
		if s.Kind != "sticker" && s.Kind != "callback" {
			out = append(out, s.Text)
		}
	}
	return out
}

func (m *Messenger) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
}

func (m *Messenger) SendText(ctx context.Context, chatID int64, text string) error {
	m.record(Sent{Kind: "text", ChatID: chatID, Text: text})
	return m.FailText
}

func (m *Messenger) Reply(ctx context.Context, chatID int64, replyTo int, text string) error {
	m.record(Sent{Kind: "reply", ChatID: chatID, Text: text, ReplyTo: replyTo})
	return nil
}

func (m *Messenger) SendSticker(ctx context.Context, chatID int64, stickerID string) error {
	m.record(Sent{Kind: "sticker", ChatID: chatID, Text: stickerID})
	return nil
}

func (m *Messenger) SendKeyboard(ctx context.Context, chatID int64, text string, buttons ...string) error {
	m.record(Sent{Kind: "keyboard", ChatID: chatID, Text: text, Buttons: buttons})
	return nil
}

func (m *Messenger) RemoveKeyboard(ctx context.Context, chatID int64, text string) error {
	m.record(Sent{Kind: "remove_keyboard", ChatID: chatID, Text: text})
	return nil
}

func (m *Messenger) SendInlineMenu(ctx context.Context, chatID int64, text string, rows [][]messenger.Button) error {
	m.record(Sent{Kind: "inline_menu", ChatID: chatID, Text: text, Rows: rows})
	return nil
}

func (m *Messenger) AnswerCallback(ctx context.Context, callbackID string) error {
	m.record(Sent{Kind: "callback", Text: callbackID})
	return nil
}

// LLM replays scripted answers and records the prompts it was given.
type LLM struct {
	mu       sync.Mutex
	Answers  []string
	Err      error
	Delay    time.Duration
	Requests [][]llm.Message
	Options  []llm.Options
}

func (l *LLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	l.mu.Lock()
	l.Requests = append(l.Requests, history)
	l.Options = append(l.Options, llm.Apply(llm.Options{}, opts...))
	delay, err := l.Delay, l.Err
	l.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err != nil {
		return "", err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.Answers) == 0 {
		return "", llm.ErrEmptyResponse
	}
	answer := l.Answers[0]
	if len(l.Answers) > 1 {
		l.Answers = l.Answers[1:]
	}
	return answer, nil
}

func (l *LLM) Calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Requests)
}

// Index returns fixed chunks for every query.
type Index struct {
	Chunks  []store.Chunk
	Err     error
	Queries []string
	mu      sync.Mutex
}

func (i *Index) Search(ctx context.Context, query string, k int) ([]store.Chunk, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.Queries = append(i.Queries, query)
	if i.Err != nil {
		return nil, i.Err
	}
	if k < len(i.Chunks) {
		return append([]store.Chunk(nil), i.Chunks[:k]...), nil
	}
	return append([]store.Chunk(nil), i.Chunks...), nil
}

// Embedder maps text to a vector through a caller supplied function.
type Embedder struct {
	Fn  func(text string) []float32
	Err error
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.Err != nil {
		return nil, e.Err
	}
	return e.Fn(text), nil
}
