package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ai-consultant-bot/internal/constant"
	"ai-consultant-bot/internal/entity"
	"ai-consultant-bot/internal/pkg/logger"
	"ai-consultant-bot/internal/repository/specification"
	"ai-consultant-bot/internal/repository/unitofwork"
	"ai-consultant-bot/pkg/messenger"
	"ai-consultant-bot/pkg/rag/access"
	"ai-consultant-bot/pkg/rag/delivery"

	"github.com/patrickmn/go-cache"
)

const pendingStepTTL = 10 * time.Minute

// IAdminService manages the allow-list and the message log from inside the chat.
type IAdminService interface {
	ShowPanel(ctx context.Context, upd messenger.Update)
	HandleCallback(ctx context.Context, upd messenger.Update)
	HasPendingStep(chatID int64) bool
	CancelStep(chatID int64)
	HandleStep(ctx context.Context, upd messenger.Update)
}

type adminService struct {
	uowFactory unitofwork.RepositoryFactory
	verifier   *access.Verifier
	messenger  messenger.Messenger
	deliverer  *delivery.Deliverer
	steps      *cache.Cache
	logger     logger.ILogger
}

func NewAdminService(
	uowFactory unitofwork.RepositoryFactory,
	verifier *access.Verifier,
	m messenger.Messenger,
	deliverer *delivery.Deliverer,
	logger logger.ILogger,
) IAdminService {
	return &adminService{
		uowFactory: uowFactory,
		verifier:   verifier,
		messenger:  m,
		deliverer:  deliverer,
		steps:      cache.New(pendingStepTTL, 2*pendingStepTTL),
		logger:     logger,
	}
}

func stepKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

func panelRows() [][]messenger.Button {
	return [][]messenger.Button{
		{
			{Text: constant.AdminButtonAdd, Data: constant.CallbackAddUser},
			{Text: constant.AdminButtonRemove, Data: constant.CallbackRemoveUser},
		},
		{{Text: constant.AdminButtonView, Data: constant.CallbackViewDialogue}},
		{{Text: constant.AdminButtonDelete, Data: constant.CallbackDeleteMessages}},
		{{Text: constant.AdminButtonListUsers, Data: constant.CallbackListUsers}},
	}
}

func (s *adminService) ShowPanel(ctx context.Context, upd messenger.Update) {
	if !s.verifier.IsAdmin(upd.Username) {
		s.check(upd.ChatID, s.messenger.Reply(ctx, upd.ChatID, upd.MessageID, constant.AdminForbidden))
		return
	}
	s.check(upd.ChatID, s.messenger.SendInlineMenu(ctx, upd.ChatID, constant.AdminPanelTitle, panelRows()))
}

var stepPrompts = map[string]string{
	constant.CallbackAddUser:        constant.AdminPromptAdd,
	constant.CallbackRemoveUser:     constant.AdminPromptRemove,
	constant.CallbackViewDialogue:   constant.AdminPromptView,
	constant.CallbackDeleteMessages: constant.AdminPromptDelete,
}

func (s *adminService) HandleCallback(ctx context.Context, upd messenger.Update) {
	s.check(upd.ChatID, s.messenger.AnswerCallback(ctx, upd.CallbackID))

	if !s.verifier.IsAdmin(upd.Username) {
		s.check(upd.ChatID, s.messenger.SendText(ctx, upd.ChatID, constant.AdminForbidden))
		return
	}

	if upd.CallbackData == constant.CallbackListUsers {
		s.listUsers(ctx, upd)
		return
	}

	prompt, ok := stepPrompts[upd.CallbackData]
	if !ok {
		s.logger.Warn("ADMIN", "Unknown callback", map[string]interface{}{"data": upd.CallbackData})
		return
	}
	s.steps.Set(stepKey(upd.ChatID), upd.CallbackData, cache.DefaultExpiration)
	s.check(upd.ChatID, s.messenger.SendText(ctx, upd.ChatID, prompt))
}

func (s *adminService) HasPendingStep(chatID int64) bool {
	_, ok := s.steps.Get(stepKey(chatID))
	return ok
}

func (s *adminService) CancelStep(chatID int64) {
	s.steps.Delete(stepKey(chatID))
}

// HandleStep consumes the text that answers a pending prompt. The step is one-shot.
func (s *adminService) HandleStep(ctx context.Context, upd messenger.Update) {
	v, ok := s.steps.Get(stepKey(upd.ChatID))
	if !ok {
		return
	}
	s.steps.Delete(stepKey(upd.ChatID))
	action := v.(string)

	if !s.verifier.IsAdmin(upd.Username) {
		s.check(upd.ChatID, s.messenger.Reply(ctx, upd.ChatID, upd.MessageID, constant.AdminForbidden))
		return
	}

	target := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(upd.Text), "@"))
	if target == "" {
		s.check(upd.ChatID, s.messenger.Reply(ctx, upd.ChatID, upd.MessageID, constant.AdminEmptyUsername))
		return
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)

	var (
		reply string
		err   error
	)
	switch action {
	case constant.CallbackAddUser:
		err = uow.AllowedUserRepository().Create(ctx, &entity.AllowedUser{Username: target})
		reply = fmt.Sprintf(constant.AdminUserAdded, target)

	case constant.CallbackRemoveUser:
		err = uow.AllowedUserRepository().Delete(ctx, target)
		reply = fmt.Sprintf(constant.AdminUserRemoved, target)

	case constant.CallbackDeleteMessages:
		var n int64
		n, err = uow.MessageLogRepository().DeleteByUsername(ctx, target)
		reply = fmt.Sprintf(constant.AdminMessagesDeleted, target)
		if err == nil {
			s.logger.Info("ADMIN", "Messages deleted", map[string]interface{}{"target": target, "count": n})
		}

	case constant.CallbackViewDialogue:
		s.viewDialogue(ctx, upd, target)
		return
	}

	if err != nil {
		s.logger.Error("ADMIN", "Admin action failed", map[string]interface{}{
			"action": action,
			"target": target,
			"error":  err.Error(),
		})
		reply = constant.AdminStoreError
	} else {
		s.logger.Info("ADMIN", "Admin action done", map[string]interface{}{
			"admin":  upd.Username,
			"action": action,
			"target": target,
		})
	}
	s.check(upd.ChatID, s.messenger.Reply(ctx, upd.ChatID, upd.MessageID, reply))
}

func (s *adminService) viewDialogue(ctx context.Context, upd messenger.Update, target string) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	logs, err := uow.MessageLogRepository().FindAll(ctx,
		specification.ByUsername{Username: target},
		specification.Chronological(),
	)
	if err != nil {
		s.logger.Error("ADMIN", "Failed to fetch dialogue", map[string]interface{}{"target": target, "error": err.Error()})
		s.check(upd.ChatID, s.messenger.SendText(ctx, upd.ChatID, constant.AdminDialogueError))
		return
	}
	if len(logs) == 0 {
		s.check(upd.ChatID, s.messenger.SendText(ctx, upd.ChatID, constant.AdminNoDialogue))
		return
	}
	s.check(upd.ChatID, s.deliverer.SendSegments(ctx, upd.ChatID, FormatDialogue(logs)))
}

// FormatDialogue renders one line per logged message, oldest first.
func FormatDialogue(logs []*entity.MessageLog) string {
	lines := make([]string, len(logs))
	for i, l := range logs {
		label := constant.DialogueOutgoing
		if l.Direction == entity.DirectionIncoming {
			label = constant.DialogueIncoming
		}
		lines[i] = fmt.Sprintf("%s %s: %s", l.CreatedAt.Format(constant.DialogueTimeFmt), label, l.Message)
	}
	return strings.Join(lines, "\n")
}

func (s *adminService) listUsers(ctx context.Context, upd messenger.Update) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	users, err := uow.AllowedUserRepository().FindAll(ctx, specification.OrderBy{Field: "username"})
	if err != nil {
		s.logger.Error("ADMIN", "Failed to list users", map[string]interface{}{"error": err.Error()})
		s.check(upd.ChatID, s.messenger.SendText(ctx, upd.ChatID, constant.AdminStoreError))
		return
	}

	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.Username
	}
	text := fmt.Sprintf(constant.AdminUserList, strings.Join(names, "\n"))
	s.check(upd.ChatID, s.deliverer.SendSegments(ctx, upd.ChatID, text))
}

func (s *adminService) check(chatID int64, err error) {
	if err != nil {
		s.logger.Error("ADMIN", "Send failed", map[string]interface{}{"chat_id": chatID, "error": err.Error()})
	}
}
