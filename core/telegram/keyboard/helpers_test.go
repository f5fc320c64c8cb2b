package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplyButtons(t *testing.T) {
	m := OneTime(ReplyButtons([]string{"Я новичок"}, []string{"Я уже с базой"}))
	require.Len(t, m.ReplyKeyboard, 2)
	assert.Equal(t, "Я новичок", m.ReplyKeyboard[0][0].Text)
	assert.Equal(t, "Я уже с базой", m.ReplyKeyboard[1][0].Text)
	assert.True(t, m.ResizeKeyboard)
	assert.True(t, m.OneTimeKeyboard)
}

func TestInlineButtonsNPerRow(t *testing.T) {
	buttons := []InlineBtn{
		{Text: "a", Unique: "x_a"},
		{Text: "b", Unique: "x_b"},
		{Text: "c", Unique: "x_c"},
	}
	m := InlineButtonsNPerRow(buttons, 2)
	require.Len(t, m.InlineKeyboard, 2)
	assert.Len(t, m.InlineKeyboard[0], 2)
	assert.Len(t, m.InlineKeyboard[1], 1)
	assert.Equal(t, "x_c", m.InlineKeyboard[1][0].Unique)

	single := InlineButtonsNPerRow(buttons, 0)
	assert.Len(t, single.InlineKeyboard, 3)
}
