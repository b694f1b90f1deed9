package delivery

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"ai-consultant-bot/internal/mocks"
	"ai-consultant-bot/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSegment(t *testing.T) {
	tests := []struct {
		name  string
		size  int
		parts int
	}{
		{name: "empty", size: 0, parts: 0},
		{name: "short", size: 10, parts: 1},
		{name: "exact limit", size: 4096, parts: 1},
		{name: "one over", size: 4097, parts: 2},
		{name: "three parts", size: 10000, parts: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := strings.Repeat("ж", tt.size)
			parts := Segment(text)

			assert.Len(t, parts, tt.parts)
			assert.Equal(t, text, strings.Join(parts, ""))
			for _, p := range parts {
				assert.LessOrEqual(t, len([]rune(p)), MaxSegmentLength)
			}
		})
	}
}

func TestLinkPolicy(t *testing.T) {
	p := LinkPolicy{}
	assert.True(t, p.ShouldTerminate("Подробнее: https://example.com"))
	assert.True(t, p.ShouldTerminate("HTTP://EXAMPLE.COM"))
	assert.True(t, p.ShouldTerminate("ссылка http://x"))
	assert.False(t, p.ShouldTerminate("пишите на example.com"))
	assert.False(t, p.ShouldTerminate("протокол https без двоеточия"))
	assert.False(t, NeverTerminate{}.ShouldTerminate("https://example.com"))
}

func newDeliverer(m *mocks.Messenger, delay time.Duration) (*Deliverer, *FollowUpScheduler) {
	s := NewFollowUpScheduler()
	d := NewDeliverer(m, LinkPolicy{}, s, Celebration{StickerID: "sticker", Text: "Поздравляю!", Delay: delay}, logger.NewNopLogger())
	return d, s
}

func TestDeliverWithoutLink(t *testing.T) {
	m := &mocks.Messenger{}
	d, s := newDeliverer(m, time.Millisecond)
	defer s.Stop()

	terminated := d.Deliver(context.Background(), 1, strings.Repeat("а", 5000))

	assert.False(t, terminated)
	assert.Len(t, m.Sent(), 2)
	assert.False(t, s.Pending(1))
}

func TestDeliverWithLinkSchedulesCelebration(t *testing.T) {
	m := &mocks.Messenger{}
	d, s := newDeliverer(m, 10*time.Millisecond)
	defer s.Stop()

	terminated := d.Deliver(context.Background(), 7, "Запишись: https://example.com")

	require.True(t, terminated)
	assert.True(t, s.Pending(7))
	require.Eventually(t, func() bool { return len(m.Sent()) == 3 }, time.Second, 5*time.Millisecond)

	sent := m.Sent()
	assert.Equal(t, "text", sent[0].Kind)
	assert.Equal(t, "sticker", sent[1].Kind)
	assert.Equal(t, "Поздравляю!", sent[2].Text)
	assert.False(t, s.Pending(7))
}

func TestCancelFollowUp(t *testing.T) {
	m := &mocks.Messenger{}
	d, s := newDeliverer(m, 50*time.Millisecond)
	defer s.Stop()

	d.Deliver(context.Background(), 7, "https://example.com")
	assert.True(t, d.CancelFollowUp(7))
	assert.False(t, d.CancelFollowUp(7))

	time.Sleep(80 * time.Millisecond)
	assert.Len(t, m.Sent(), 1)
}

func TestSendSegmentsContinuesAfterFailure(t *testing.T) {
	m := &mocks.Messenger{FailText: errors.New("429 too many requests")}
	d, s := newDeliverer(m, time.Millisecond)
	defer s.Stop()

	err := d.SendSegments(context.Background(), 1, strings.Repeat("б", 9000))

	assert.Error(t, err)
	assert.Len(t, m.Sent(), 3)
}

func TestSchedulerReplaceAndStop(t *testing.T) {
	s := NewFollowUpScheduler()
	var fired atomic.Int32

	s.Schedule(1, 20*time.Millisecond, func() { fired.Add(1) })
	s.Schedule(1, 20*time.Millisecond, func() { fired.Add(10) })
	s.Schedule(2, time.Hour, func() { fired.Add(100) })

	require.Eventually(t, func() bool { return fired.Load() == 10 }, time.Second, 5*time.Millisecond)
	assert.True(t, s.Pending(2))

	s.Stop()
	assert.False(t, s.Pending(2))

	s.Schedule(3, time.Millisecond, func() { fired.Add(1000) })
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(10), fired.Load())
}
