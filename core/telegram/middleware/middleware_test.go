package middleware

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/m3rciful/salestrainer/core/config"
)

type fakeContext struct {
	tele.Context
	user    *tele.User
	upd     tele.Update
	store   map[string]any
	sendErr error
}

func newFake(userID int64) *fakeContext {
	return &fakeContext{
		user:  &tele.User{ID: userID},
		upd:   tele.Update{ID: 9, Message: &tele.Message{Text: "hi"}},
		store: map[string]any{},
	}
}

func (f *fakeContext) Sender() *tele.User     { return f.user }
func (f *fakeContext) Chat() *tele.Chat       { return &tele.Chat{ID: f.user.ID} }
func (f *fakeContext) Update() tele.Update    { return f.upd }
func (f *fakeContext) Get(key string) any     { return f.store[key] }
func (f *fakeContext) Set(key string, v any)  { f.store[key] = v }
func (f *fakeContext) Send(any, ...any) error { return f.sendErr }

func counter(n *int) tele.HandlerFunc {
	return func(tele.Context) error {
		*n++
		return nil
	}
}

func TestRateLimitPerUser(t *testing.T) {
	var passed, limited int
	mw := RateLimitMiddleware(RateLimitOptions{Interval: time.Hour, OnLimited: counter(&limited)})
	h := mw(counter(&passed))

	require.NoError(t, h(newFake(1)))
	require.NoError(t, h(newFake(1)))
	require.NoError(t, h(newFake(2)))

	assert.Equal(t, 2, passed)
	assert.Equal(t, 1, limited)
}

func TestRateLimitExcludesKinds(t *testing.T) {
	var passed int
	mw := RateLimitMiddleware(RateLimitOptions{
		Interval: time.Hour,
		Exclude:  map[string]struct{}{coreconfig.UpdateCallback: {}},
	})
	h := mw(counter(&passed))

	cb := newFake(1)
	cb.upd = tele.Update{ID: 10, Callback: &tele.Callback{Data: "\fsd_status"}}
	for i := 0; i < 3; i++ {
		require.NoError(t, h(cb))
	}
	assert.Equal(t, 3, passed)
	assert.Equal(t, "other", updateKind(tele.Update{}))
}

func TestRecoverMiddleware(t *testing.T) {
	h := RecoverMiddleware(func(tele.Context) error { panic("nil map") })
	err := h(newFake(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil map")
}

func TestAdminOnly(t *testing.T) {
	var passed, rejected int
	opts := AdminOptions{AdminID: 77, OnReject: counter(&rejected)}
	h := AdminOnlyMiddleware(opts)(counter(&passed))

	require.NoError(t, h(newFake(77)))
	require.NoError(t, h(newFake(5)))
	assert.Equal(t, 1, passed)
	assert.Equal(t, 1, rejected)
	assert.False(t, AdminOptions{}.IsAdmin(newFake(0)))
}

func TestMessageMetrics(t *testing.T) {
	c := newFake(1)
	h := MessageMetricsMiddleware(func(c tele.Context) error {
		_ = c.Send("plain")
		return c.Send("menu", &tele.SendOptions{ReplyMarkup: &tele.ReplyMarkup{}})
	})
	require.NoError(t, h(c))
	msgs, kb := GetCounters(c)
	assert.Equal(t, 2, msgs)
	assert.True(t, kb)

	failing := newFake(2)
	failing.sendErr = errors.New("blocked")
	h = MessageMetricsMiddleware(func(c tele.Context) error { return c.Send("x") })
	assert.Error(t, h(failing))
	msgs, kb = GetCounters(failing)
	assert.Zero(t, msgs)
	assert.False(t, kb)
}
