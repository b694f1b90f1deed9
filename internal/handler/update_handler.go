package handler

import (
	"context"
	"sync"

	"ai-consultant-bot/internal/constant"
	"ai-consultant-bot/internal/pkg/logger"
	"ai-consultant-bot/internal/service"
	"ai-consultant-bot/pkg/messenger"
)

// UpdateHandler routes inbound updates to the engine. Updates of one chat are
// handled in arrival order; different chats run concurrently.
type UpdateHandler struct {
	chatbot service.IChatbotService
	admin   service.IAdminService
	logger  logger.ILogger

	mu     sync.Mutex
	queues map[int64][]messenger.Update
	closed bool
	wg     sync.WaitGroup
}

func NewUpdateHandler(chatbot service.IChatbotService, admin service.IAdminService, logger logger.ILogger) *UpdateHandler {
	return &UpdateHandler{
		chatbot: chatbot,
		admin:   admin,
		logger:  logger,
		queues:  make(map[int64][]messenger.Update),
	}
}

// Dispatch queues the update and returns immediately.
func (h *UpdateHandler) Dispatch(upd messenger.Update) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		h.logger.Warn("HANDLER", "Update dropped after shutdown", map[string]interface{}{"chat_id": upd.ChatID})
		return
	}

	pending, running := h.queues[upd.ChatID]
	h.queues[upd.ChatID] = append(pending, upd)
	if running {
		return
	}

	h.wg.Add(1)
	go h.drain(upd.ChatID)
}

// drain owns the chat queue until it is empty.
func (h *UpdateHandler) drain(chatID int64) {
	defer h.wg.Done()
	for {
		h.mu.Lock()
		pending := h.queues[chatID]
		if len(pending) == 0 {
			delete(h.queues, chatID)
			h.mu.Unlock()
			return
		}
		upd := pending[0]
		h.queues[chatID] = pending[1:]
		h.mu.Unlock()

		h.Handle(context.Background(), upd)
	}
}

// Handle processes one update synchronously.
func (h *UpdateHandler) Handle(ctx context.Context, upd messenger.Update) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("HANDLER", "Update handler panicked", map[string]interface{}{
				"chat_id": upd.ChatID,
				"panic":   r,
			})
		}
	}()

	if upd.IsCallback() {
		h.admin.HandleCallback(ctx, upd)
		return
	}

	switch upd.Command() {
	case constant.CommandStart:
		h.admin.CancelStep(upd.ChatID)
		h.chatbot.HandleStart(ctx, upd)
		return
	case constant.CommandAdmin:
		h.admin.CancelStep(upd.ChatID)
		h.admin.ShowPanel(ctx, upd)
		return
	}

	if h.admin.HasPendingStep(upd.ChatID) {
		h.admin.HandleStep(ctx, upd)
		return
	}
	h.chatbot.HandleMessage(ctx, upd)
}

// Shutdown stops accepting updates and waits for queued ones.
func (h *UpdateHandler) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
