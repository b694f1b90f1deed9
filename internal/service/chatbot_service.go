package service

import (
	"context"
	"errors"

	"ai-consultant-bot/internal/constant"
	"ai-consultant-bot/internal/entity"
	"ai-consultant-bot/internal/pkg/logger"
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

// IChatbotService runs one conversation turn per inbound update.
type IChatbotService interface {
	HandleStart(ctx context.Context, upd messenger.Update)
	HandleMessage(ctx context.Context, upd messenger.Update)
	SessionCount() int
	Shutdown()
}

// ChatbotDependencies groups the collaborators of the engine.
type ChatbotDependencies struct {
	Messenger    messenger.Messenger
	Verifier     *access.Verifier
	Sessions     *session.Manager
	States       *state.Manager
	Assembler    *ragcontext.Assembler
	Generator    *response.Generator
	Deliverer    *delivery.Deliverer
	Audit        IAuditService
	Events       events.Publisher
	Guard        dedup.Guard
	SystemPrompt string
	Logger       logger.ILogger
}

type chatbotService struct {
	messenger    messenger.Messenger
	verifier     *access.Verifier
	sessions     *session.Manager
	states       *state.Manager
	assembler    *ragcontext.Assembler
	generator    *response.Generator
	deliverer    *delivery.Deliverer
	audit        IAuditService
	events       events.Publisher
	guard        dedup.Guard
	systemPrompt string
	logger       logger.ILogger
}

func NewChatbotService(deps ChatbotDependencies) IChatbotService {
	if deps.Events == nil {
		deps.Events = events.NoopPublisher{}
	}
	if deps.Guard == nil {
		deps.Guard = dedup.NoopGuard{}
	}
	return &chatbotService{
		messenger:    deps.Messenger,
		verifier:     deps.Verifier,
		sessions:     deps.Sessions,
		states:       deps.States,
		assembler:    deps.Assembler,
		generator:    deps.Generator,
		deliverer:    deps.Deliverer,
		audit:        deps.Audit,
		events:       deps.Events,
		guard:        deps.Guard,
		systemPrompt: deps.SystemPrompt,
		logger:       deps.Logger,
	}
}

// HandleStart resets the chat to the beginning of onboarding from any state.
func (s *chatbotService) HandleStart(ctx context.Context, upd messenger.Update) {
	if s.admit(ctx, upd) != nil {
		return
	}

	unlock := s.sessions.Lock(upd.ChatID)
	defer unlock()

	if s.deliverer.CancelFollowUp(upd.ChatID) {
		s.logger.Debug("CHATBOT", "Pending follow-up cancelled by restart", map[string]interface{}{"chat_id": upd.ChatID})
	}

	sess := s.sessions.LoadOrCreate(upd.ChatID, upd.Username)
	s.states.Restart(sess)
	s.sessions.Save(sess)

	s.check(upd.ChatID, s.messenger.SendSticker(ctx, upd.ChatID, constant.StickerWelcome))
	s.check(upd.ChatID, s.messenger.SendKeyboard(ctx, upd.ChatID, constant.MessageWelcome, constant.ConfirmPhrase))

	s.publish(ctx, events.DialogStarted, sess, nil)
}

// HandleMessage drives the dialogue state machine with one text message.
func (s *chatbotService) HandleMessage(ctx context.Context, upd messenger.Update) {
	if s.admit(ctx, upd) != nil {
		return
	}

	unlock := s.sessions.Lock(upd.ChatID)
	defer unlock()

	sess := s.sessions.LoadOrCreate(upd.ChatID, upd.Username)
	defer s.sessions.Save(sess)

	outcome, err := s.states.Advance(sess, upd.Text)
	if err != nil {
		s.logger.Error("CHATBOT", "State machine rejected message", map[string]interface{}{
			"chat_id": upd.ChatID,
			"state":   sess.State.String(),
			"error":   err.Error(),
		})
		return
	}

	s.logger.Debug("CHATBOT", "Message routed", map[string]interface{}{
		"chat_id": upd.ChatID,
		"outcome": string(outcome),
		"state":   sess.State.String(),
	})

	switch outcome {
	case state.OutcomeFinished:
		s.check(upd.ChatID, s.messenger.SendText(ctx, upd.ChatID, constant.MessageFinished))

	case state.OutcomeRepromptConfirmation:
		s.check(upd.ChatID, s.messenger.SendKeyboard(ctx, upd.ChatID, constant.MessageReprompt, constant.ConfirmPhrase))

	case state.OutcomeConfirmed:
		s.check(upd.ChatID, s.messenger.SendKeyboard(ctx, upd.ChatID, constant.MessageConfirmed, constant.ReadyPhrase))
		s.check(upd.ChatID, s.messenger.SendSticker(ctx, upd.ChatID, constant.StickerConfirmed))

	case state.OutcomeRepromptReady:
		s.check(upd.ChatID, s.messenger.SendKeyboard(ctx, upd.ChatID, constant.MessageReprompt, constant.ReadyPhrase))

	case state.OutcomeReady:
		s.check(upd.ChatID, s.messenger.RemoveKeyboard(ctx, upd.ChatID, constant.MessageAskName))
		s.publish(ctx, events.DialogActivated, sess, nil)

	case state.OutcomeAnswer:
		s.answer(ctx, sess, upd)
	}
}

// answer runs the retrieval-augmented Q&A turn. Caller holds the chat lock.
func (s *chatbotService) answer(ctx context.Context, sess *store.Session, upd messenger.Update) {
	s.assembler.RecordUserTurn(sess, upd.Text)
	s.audit.Record(ctx, sess.Username, upd.Text, entity.DirectionIncoming)

	retrieved, err := s.assembler.Retrieve(ctx, upd.Text)
	if err != nil {
		s.fail(ctx, sess, upd, response.NewRetrievalError(err))
		return
	}

	answer, err := s.generator.Generate(ctx, s.systemPrompt, retrieved.Text, sess.Summary)
	if err != nil {
		s.fail(ctx, sess, upd, err)
		return
	}

	s.assembler.RecordBotTurn(sess, answer)
	s.audit.Record(ctx, sess.Username, answer, entity.DirectionOutgoing)

	s.logger.Info("CHATBOT", "Answer sent", map[string]interface{}{
		"chat_id":   upd.ChatID,
		"username":  sess.Username,
		"fragments": len(retrieved.Chunks),
		"length":    len([]rune(answer)),
	})

	if !s.deliverer.Deliver(ctx, upd.ChatID, answer) {
		return
	}

	if err := s.states.Finish(sess); err != nil {
		s.logger.Error("CHATBOT", "Failed to finish dialog", map[string]interface{}{"chat_id": upd.ChatID, "error": err.Error()})
		return
	}
	s.publish(ctx, events.DialogFinished, sess, map[string]interface{}{"turns": len(sess.Turns)})
}

// fail keeps the user turn, adds no bot turn and sends exactly one apology.
func (s *chatbotService) fail(ctx context.Context, sess *store.Session, upd messenger.Update, err error) {
	kind := string(response.KindUnavailable)
	var genErr *response.GenerationError
	if errors.As(err, &genErr) {
		kind = string(genErr.Kind)
	}

	s.logger.Error("CHATBOT", "Failed to answer", map[string]interface{}{
		"chat_id":  upd.ChatID,
		"username": sess.Username,
		"kind":     kind,
		"error":    err.Error(),
	})

	s.check(upd.ChatID, s.messenger.Reply(ctx, upd.ChatID, upd.MessageID, constant.MessageApology))
	s.publish(ctx, events.GenerationFailed, sess, map[string]interface{}{"kind": kind})
}

// admit applies the duplicate guard and the access gate. A non-nil error means the update is done.
func (s *chatbotService) admit(ctx context.Context, upd messenger.Update) error {
	if s.guard.Seen(ctx, upd.ChatID, upd.MessageID) {
		s.logger.Debug("CHATBOT", "Redelivered message dropped", map[string]interface{}{"chat_id": upd.ChatID, "message_id": upd.MessageID})
		return errDuplicate
	}

	if err := s.verifier.Check(ctx, upd.Username); err != nil {
		s.logger.Info("CHATBOT", "Access denied", map[string]interface{}{
			"chat_id":  upd.ChatID,
			"username": upd.Username,
		})
		s.check(upd.ChatID, s.messenger.Reply(ctx, upd.ChatID, upd.MessageID, constant.MessageAccessDenied))
		s.publish(ctx, events.AccessDenied, &store.Session{ChatID: upd.ChatID, Username: upd.Username}, nil)
		return err
	}
	return nil
}

var errDuplicate = errors.New("duplicate message")

func (s *chatbotService) publish(ctx context.Context, eventType string, sess *store.Session, extra map[string]interface{}) {
	if err := s.events.Publish(ctx, events.NewDialogEvent(eventType, sess.ChatID, sess.Username, extra)); err != nil {
		s.logger.Warn("CHATBOT", "Failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func (s *chatbotService) check(chatID int64, err error) {
	if err != nil {
		s.logger.Error("CHATBOT", "Send failed", map[string]interface{}{"chat_id": chatID, "error": err.Error()})
	}
}

func (s *chatbotService) SessionCount() int {
	return s.sessions.Count()
}

// Shutdown cancels pending follow-ups.
func (s *chatbotService) Shutdown() {
	s.deliverer.Stop()
}
