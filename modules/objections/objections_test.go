package objections

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
		Scenario: "price",
		Behavior: "aggressive",
		Stage:    3,
		History: []training.Turn{
			{Role: training.RoleTrainee, Content: "a", Stage: 1},
			{Role: training.RoleClient, Content: "b", Stage: 1},
		},
	}
}

func TestCatalogs(t *testing.T) {
	mod := newModule(t)
	assert.Len(t, mod.Scenarios(), 10)
	assert.Len(t, mod.Behaviors(), 4)
	assert.Equal(t, 3, mod.MaxStage())
	assert.Equal(t, 2, mod.TurnsPerStage())
	assert.Equal(t, "obj", mod.CallbackPrefix())
	assert.Equal(t, "objections:7", mod.SessionKey("7"))
}

func TestClientPrompt(t *testing.T) {
	prompt, err := newModule(t).ClientPrompt(sampleState())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(prompt, "Ты играешь роль клиента, который заказывает персональную песню в подарок."))
	assert.Contains(t, prompt, "Твоё возражение: Тебя смущает цена песни")
	assert.Contains(t, prompt, "Твой характер: Ты раздражён и отвечаешь резко")
}

func TestCoachPromptUsesStageRubric(t *testing.T) {
	prompt, err := newModule(t).CoachPrompt(sampleState(), "Понимаю вас.", "Всё равно дорого.")
	require.NoError(t, err)
	assert.Contains(t, prompt, "Этап: 3 из 3")
	assert.Contains(t, prompt, "Это третий этап: закрытие. Оцени:")
	assert.Contains(t, prompt, `Реплика продавца: "Понимаю вас."`)
	assert.Contains(t, prompt, `Ответ клиента: "Всё равно дорого."`)
}

func TestViews(t *testing.T) {
	mod := newModule(t)
	st := sampleState()

	status, err := mod.Render(training.ViewStatus, st)
	require.NoError(t, err)
	assert.Equal(t, "📊 <b>Статус тренировки</b>\n\n⚠️ Возражение: <b>💰 Цена</b>\n👤 Персона: 😠 Агрессивный\n"+
		"🎯 Этап: 3 из 3\n💬 Реплик: 2\n\nПродолжай работу с возражением!", status)

	started, err := mod.Render(training.ViewStarted, st)
	require.NoError(t, err)
	assert.Contains(t, started, "👤 <b>Персона:</b> Агрессивный, раздражённый")

	help, err := mod.Render(training.ViewHelp, st)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(help, "<b>Этапы:</b>\n1️⃣ Услышать и присоединиться\n"+
		"2️⃣ Аргумент + ценность\n3️⃣ Следующий шаг"))

	reset, err := mod.Render(training.ViewReset, st)
	require.NoError(t, err)
	assert.Equal(t, "🔄 <b>Новое возражение!</b>\n\n⚠️ Тип: 💰 Цена\n\nНачинай работу с возражением!", reset)
}
