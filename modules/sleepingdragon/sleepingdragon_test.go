package sleepingdragon

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/salestrainer/core/training"
)

func newModule(t *testing.T) *training.Module {
	t.Helper()
	mod, err := training.NewModule(Definition())
	require.NoError(t, err)
	return mod
}

func sampleState() training.State {
	return training.State{
		Version:  training.SchemaVersion,
		Module:   Name,
		Scenario: "after_demo",
		Behavior: "busy",
		Stage:    2,
		History: []training.Turn{
			{Role: training.RoleTrainee, Content: "a", Stage: 1},
			{Role: training.RoleClient, Content: "b", Stage: 1},
		},
	}
}

func TestCatalogs(t *testing.T) {
	mod := newModule(t)
	assert.Len(t, mod.Scenarios(), 6)
	assert.Len(t, mod.Behaviors(), 6)
	assert.Equal(t, 3, mod.MaxStage())
	assert.Equal(t, 2, mod.TurnsPerStage())
	assert.Equal(t, "sleeping_dragon:100", mod.SessionKey("100"))
}

func TestClientPrompt(t *testing.T) {
	prompt, err := newModule(t).ClientPrompt(sampleState())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(prompt, "Ты играешь роль клиента в диалоге с продавцом персональных песен."))
	assert.Contains(t, prompt, "Ситуация: Клиент прослушал демо, но замолчал")
	assert.Contains(t, prompt, "Твоё поведение: Ты занятой клиент.")
	assert.True(t, strings.HasSuffix(prompt, "Отвечай кратко (1-3 предложения)."))
}

func TestCoachPromptUsesStageRubric(t *testing.T) {
	prompt, err := newModule(t).CoachPrompt(sampleState(), "Привет!", "Занят.")
	require.NoError(t, err)
	assert.Contains(t, prompt, "Волна сообщений: 2 из 3")
	assert.Contains(t, prompt, "Это вторая волна. Оцени:")
	assert.Contains(t, prompt, `Сообщение продавца: "Привет!"`)
	assert.Contains(t, prompt, `Ответ клиента: "Занят."`)
}

func TestViews(t *testing.T) {
	mod := newModule(t)
	st := sampleState()

	status, err := mod.Render(training.ViewStatus, st)
	require.NoError(t, err)
	assert.Equal(t, "📊 <b>Статус тренировки</b>\n\n📍 Ситуация: После демо\n👤 Тип клиента: Занятой\n"+
		"🌊 Волна: 2 из 3\n💬 Сообщений: 2\n\nПродолжай работать с клиентом!", status)

	help, err := mod.Render(training.ViewHelp, st)
	require.NoError(t, err)
	assert.Contains(t, help, "👤 <b>Тип клиента:</b> Занятой, но доброжелательный")
	assert.True(t, strings.HasSuffix(help, "<b>Помни о волнах:</b>\n1️⃣ Тёплое напоминание + эмпатия\n"+
		"2️⃣ Ценность + эмоция/бонус\n3️⃣ Уважение + открытая дверь"))

	reset, err := mod.Render(training.ViewReset, st)
	require.NoError(t, err)
	assert.Equal(t, "🔄 <b>Новая ситуация:</b>\n\nКлиент прослушал демо, но замолчал\n\nНачинай первую волну сообщений!", reset)
}
