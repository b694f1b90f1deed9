package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ai-consultant-bot/internal/constant"
	"ai-consultant-bot/internal/entity"
	"ai-consultant-bot/pkg/messenger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callback(chatID int64, username, data string) messenger.Update {
	return messenger.Update{ChatID: chatID, Username: username, CallbackID: "cb-" + data, CallbackData: data}
}

// runStep clicks a panel button and answers its prompt.
func (h *harness) runStep(action, answer string) {
	ctx := context.Background()
	h.admin.HandleCallback(ctx, callback(1, "boss", action))
	h.admin.HandleStep(ctx, text(1, "boss", answer))
}

func TestShowPanel(t *testing.T) {
	h := newHarness(t)

	h.admin.ShowPanel(context.Background(), text(1, "boss", "/admin"))

	sent := h.msg.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "inline_menu", sent[0].Kind)
	assert.Equal(t, constant.AdminPanelTitle, sent[0].Text)
	require.Len(t, sent[0].Rows, 4)
	assert.Equal(t, constant.CallbackAddUser, sent[0].Rows[0][0].Data)
	assert.Equal(t, constant.CallbackRemoveUser, sent[0].Rows[0][1].Data)
	assert.Equal(t, constant.CallbackListUsers, sent[0].Rows[3][0].Data)
}

func TestAdminActionsRequireAdmin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.admin.ShowPanel(ctx, text(1, "alice", "/admin"))
	h.admin.HandleCallback(ctx, callback(1, "alice", constant.CallbackAddUser))

	assert.Equal(t, []string{constant.AdminForbidden, constant.AdminForbidden}, h.msg.Texts())
	assert.False(t, h.admin.HasPendingStep(1))
}

func TestAddAndRemoveUser(t *testing.T) {
	h := newHarness(t)

	h.admin.HandleCallback(context.Background(), callback(1, "boss", constant.CallbackAddUser))
	assert.True(t, h.admin.HasPendingStep(1))
	assert.Equal(t, []string{constant.AdminPromptAdd}, h.msg.Texts())

	h.admin.HandleStep(context.Background(), text(1, "boss", "  @carol "))
	assert.False(t, h.admin.HasPendingStep(1), "step is one-shot")
	assert.Contains(t, h.store.Allowed, "carol")
	last := h.msg.Sent()[len(h.msg.Sent())-1]
	assert.Equal(t, "reply", last.Kind)
	assert.Equal(t, fmt.Sprintf(constant.AdminUserAdded, "carol"), last.Text)

	h.start(3, "carol")
	assert.Equal(t, "keyboard", h.msg.Sent()[len(h.msg.Sent())-1].Kind)

	h.runStep(constant.CallbackRemoveUser, "carol")
	assert.NotContains(t, h.store.Allowed, "carol")

	h.msg.Reset()
	h.start(3, "carol")
	assert.Equal(t, []string{constant.MessageAccessDenied}, h.msg.Texts())
}

func TestListUsers(t *testing.T) {
	h := newHarness(t)

	h.admin.HandleCallback(context.Background(), callback(1, "boss", constant.CallbackListUsers))

	assert.False(t, h.admin.HasPendingStep(1))
	assert.Equal(t, []string{fmt.Sprintf(constant.AdminUserList, "alice\nbob")}, h.msg.Texts())
}

func TestViewAndDeleteDialogue(t *testing.T) {
	h := newHarness(t)
	at := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)
	h.store.Messages = []*entity.MessageLog{
		{Username: "alice", Message: "Аня", Direction: entity.DirectionIncoming, CreatedAt: at},
		{Username: "alice", Message: "Привет, Аня", Direction: entity.DirectionOutgoing, CreatedAt: at.Add(time.Second)},
		{Username: "bob", Message: "чужое", Direction: entity.DirectionIncoming, CreatedAt: at},
	}

	h.runStep(constant.CallbackViewDialogue, "alice")
	texts := h.msg.Texts()
	require.Len(t, texts, 2)
	assert.Equal(t, "2024-06-01 12:30:00 Входящее: Аня\n2024-06-01 12:30:01 Исходящее: Привет, Аня", texts[1])

	h.msg.Reset()
	h.runStep(constant.CallbackDeleteMessages, "alice")
	assert.Empty(t, h.store.MessagesFor("alice"))
	assert.Len(t, h.store.MessagesFor("bob"), 1)
	assert.Equal(t, fmt.Sprintf(constant.AdminMessagesDeleted, "alice"), h.msg.Texts()[1])

	h.msg.Reset()
	h.runStep(constant.CallbackViewDialogue, "alice")
	assert.Equal(t, constant.AdminNoDialogue, h.msg.Texts()[1])
}

func TestAdminStoreErrorIsReported(t *testing.T) {
	h := newHarness(t)
	h.store.Fail = true

	h.runStep(constant.CallbackAddUser, "carol")

	assert.Equal(t, constant.AdminStoreError, h.msg.Texts()[1])
}

func TestBlankUsernameIsRejected(t *testing.T) {
	for _, answer := range []string{"", "   ", "@", " @ "} {
		t.Run(fmt.Sprintf("%q", answer), func(t *testing.T) {
			h := newHarness(t)

			h.runStep(constant.CallbackAddUser, answer)

			assert.Equal(t, []string{constant.AdminPromptAdd, constant.AdminEmptyUsername}, h.msg.Texts())
			assert.NotContains(t, h.store.Allowed, "")
			assert.Len(t, h.store.Allowed, 2)
			assert.False(t, h.admin.HasPendingStep(1))
		})
	}
}

func TestCancelStep(t *testing.T) {
	h := newHarness(t)

	h.admin.HandleCallback(context.Background(), callback(1, "boss", constant.CallbackAddUser))
	h.admin.CancelStep(1)
	h.admin.HandleStep(context.Background(), text(1, "boss", "carol"))

	assert.NotContains(t, h.store.Allowed, "carol")
}

func TestFormatDialogue(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	got := FormatDialogue([]*entity.MessageLog{
		{Message: "q", Direction: entity.DirectionIncoming, CreatedAt: at},
		{Message: "a", Direction: entity.DirectionOutgoing, CreatedAt: at},
	})
	assert.Equal(t, "2024-01-02 03:04:05 Входящее: q\n2024-01-02 03:04:05 Исходящее: a", got)
}
