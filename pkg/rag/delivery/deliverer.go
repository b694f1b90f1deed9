// Package delivery sends answers within transport limits and handles the end-of-consultation follow-up.
package delivery

import (
	"context"
	"errors"
	"time"

	"ai-consultant-bot/internal/pkg/logger"
	"ai-consultant-bot/pkg/messenger"
	"ai-consultant-bot/pkg/utils"
)

// Celebration is sent once the consultation ends.
type Celebration struct {
	StickerID string
	Text      string
	Delay     time.Duration
}

type Deliverer struct {
	messenger   messenger.Messenger
	policy      TerminationPolicy
	scheduler   *FollowUpScheduler
	celebration Celebration
	logger      logger.ILogger
}

func NewDeliverer(m messenger.Messenger, policy TerminationPolicy, scheduler *FollowUpScheduler, celebration Celebration, logger logger.ILogger) *Deliverer {
	if policy == nil {
		policy = LinkPolicy{}
	}
	return &Deliverer{
		messenger:   m,
		policy:      policy,
		scheduler:   scheduler,
		celebration: celebration,
		logger:      logger,
	}
}

// Segment splits purely on length; concatenating the parts yields text.
func Segment(text string) []string {
	return utils.SplitByLength(text, MaxSegmentLength)
}

// SendSegments sends every segment in order. A failed segment is logged and the rest are still sent.
func (d *Deliverer) SendSegments(ctx context.Context, chatID int64, text string) error {
	var errs []error
	for i, seg := range Segment(text) {
		if err := d.messenger.SendText(ctx, chatID, seg); err != nil {
			d.logger.Error("DELIVERY", "Segment send failed", map[string]interface{}{
				"chat_id": chatID,
				"segment": i,
				"error":   err.Error(),
			})
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Deliver sends the answer and reports whether it ends the consultation.
// When it does, the celebratory follow-up is scheduled for the chat.
func (d *Deliverer) Deliver(ctx context.Context, chatID int64, answer string) bool {
	_ = d.SendSegments(ctx, chatID, answer)

	if !d.policy.ShouldTerminate(answer) {
		return false
	}

	d.scheduler.Schedule(chatID, d.celebration.Delay, func() {
		d.celebrate(chatID)
	})
	return true
}

// CancelFollowUp drops a pending celebration, e.g. when the user restarts.
func (d *Deliverer) CancelFollowUp(chatID int64) bool {
	return d.scheduler.Cancel(chatID)
}

func (d *Deliverer) celebrate(chatID int64) {
	ctx := context.Background()
	if d.celebration.StickerID != "" {
		if err := d.messenger.SendSticker(ctx, chatID, d.celebration.StickerID); err != nil {
			d.logger.Warn("DELIVERY", "Celebration sticker failed", map[string]interface{}{"chat_id": chatID, "error": err.Error()})
		}
	}
	if d.celebration.Text != "" {
		if err := d.messenger.SendText(ctx, chatID, d.celebration.Text); err != nil {
			d.logger.Warn("DELIVERY", "Celebration text failed", map[string]interface{}{"chat_id": chatID, "error": err.Error()})
		}
	}
}

// Stop cancels every pending follow-up and waits for running ones.
func (d *Deliverer) Stop() {
	d.scheduler.Stop()
}
