package sender

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/salestrainer/core/logger"
)

func chatCtx(chatID int64) context.Context {
	return logger.WithUpdateMeta(context.Background(), 1, chatID, chatID)
}

func TestDispatcherKeepsChatOrder(t *testing.T) {
	d := NewDispatcher(Options{Workers: 3, QueueSize: 128})

	var (
		mu  sync.Mutex
		got = map[int64][]int{}
	)
	for i := 0; i < 20; i++ {
		for _, chat := range []int64{7, -100123, 42} {
			i, chat := i, chat
			require.NoError(t, d.Enqueue(chatCtx(chat), "send.text", func() error {
				mu.Lock()
				got[chat] = append(got[chat], i)
				mu.Unlock()
				return nil
			}))
		}
	}
	d.Close()

	for chat, seq := range got {
		require.Len(t, seq, 20, "chat %d", chat)
		for i, v := range seq {
			assert.Equal(t, i, v, "chat %d", chat)
		}
	}
	sent, failed := d.Stats()
	assert.Equal(t, uint64(60), sent)
	assert.Zero(t, failed)
}

func TestDispatcherRetriesTransientErrors(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, MaxRetries: 2, RetryBackoff: time.Millisecond})

	calls := 0
	require.NoError(t, d.Enqueue(chatCtx(1), "send.html", func() error {
		calls++
		if calls < 3 {
			return fmt.Errorf("post: %w", syscall.ECONNRESET)
		}
		return nil
	}))

	permanent := 0
	require.NoError(t, d.Enqueue(chatCtx(1), "send.html", func() error {
		permanent++
		return tele.ErrBlockedByUser
	}))
	d.Close()

	assert.Equal(t, 3, calls)
	assert.Equal(t, 1, permanent)
	sent, failed := d.Stats()
	assert.Equal(t, uint64(1), sent)
	assert.Equal(t, uint64(1), failed)
}

func TestDispatcherRejectsAfterClose(t *testing.T) {
	d := NewDispatcher(Options{})
	d.Close()
	d.Close()
	err := d.Enqueue(context.Background(), "send.text", func() error { return nil })
	assert.ErrorIs(t, err, ErrQueueClosed)
	assert.Error(t, d.Enqueue(context.Background(), "send.text", nil))
}

func TestDispatcherQueueFull(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, QueueSize: 1})
	release := make(chan struct{})
	started := make(chan struct{})
	block := func() error {
		close(started)
		<-release
		return nil
	}
	require.NoError(t, d.Enqueue(chatCtx(1), "send.text", block))
	<-started
	require.NoError(t, d.Enqueue(chatCtx(1), "send.text", func() error { return nil }))
	err := d.Enqueue(chatCtx(1), "send.text", func() error { return nil })
	assert.ErrorIs(t, err, ErrQueueFull)
	close(release)
	d.Close()
}

func TestRedactAndClassify(t *testing.T) {
	err := errors.New(`Post "https://api.telegram.org/bot123456:AAH-x_y/sendMessage": EOF`)
	assert.Equal(t, `Post "https://api.telegram.org/bot<redacted>/sendMessage": EOF`, redact(err))
	assert.Empty(t, redact(nil))

	assert.Equal(t, "timeout", classify(fmt.Errorf("send: %w", context.DeadlineExceeded)))
	assert.Equal(t, "blocked", classify(tele.ErrBlockedByUser))
	assert.Equal(t, "network", classify(syscall.ECONNREFUSED))
	assert.Equal(t, "unknown", classify(errors.New("boom")))
	assert.Empty(t, classify(nil))
}
