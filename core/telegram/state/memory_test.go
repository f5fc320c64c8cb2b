package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

type fakeContext struct {
	tele.Context
	user  *tele.User
	store map[string]any
}

func newFakeContext(userID int64) *fakeContext {
	return &fakeContext{user: &tele.User{ID: userID}, store: map[string]any{}}
}

func (f *fakeContext) Sender() *tele.User    { return f.user }
func (f *fakeContext) Chat() *tele.Chat      { return &tele.Chat{ID: f.user.ID} }
func (f *fakeContext) Update() tele.Update   { return tele.Update{ID: 1} }
func (f *fakeContext) Get(key string) any    { return f.store[key] }
func (f *fakeContext) Set(key string, v any) { f.store[key] = v }

func TestSetGetClear(t *testing.T) {
	m := NewMemoryManager()
	assert.Equal(t, StateIdle, m.Get(1))
	assert.False(t, m.InProgress(1))

	m.Set(1, "sleeping_dragon")
	assert.Equal(t, State("sleeping_dragon"), m.Get(1))
	assert.True(t, m.InProgress(1))
	assert.Equal(t, 1, m.Len())

	m.Set(1, StateIdle)
	assert.False(t, m.InProgress(1))
	assert.Equal(t, 0, m.Len())

	m.Set(2, "upsell")
	m.Clear(2)
	assert.Equal(t, StateIdle, m.Get(2))
}

func TestManagerHandlerDispatchesByState(t *testing.T) {
	m := NewMemoryManager()
	var got []string
	m.Handle("objections", func(tele.Context) error { got = append(got, "objections"); return nil })
	m.Handle("upsell", func(tele.Context) error { got = append(got, "upsell"); return nil })

	m.Set(7, "upsell")
	require.NoError(t, m.ManagerHandler(newFakeContext(7)))
	m.Set(7, "objections")
	require.NoError(t, m.ManagerHandler(newFakeContext(7)))
	assert.Equal(t, []string{"upsell", "objections"}, got)
}

func TestManagerHandlerResetsUnknownState(t *testing.T) {
	m := NewMemoryManager()
	m.Set(9, "retired_module")
	require.NoError(t, m.ManagerHandler(newFakeContext(9)))
	assert.False(t, m.InProgress(9))
}
