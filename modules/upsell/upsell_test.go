package upsell

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
		Scenario: "premium",
		Behavior: "normal",
		Stage:    1,
	}
}

func TestCatalogs(t *testing.T) {
	mod := newModule(t)
	assert.Len(t, mod.Scenarios(), 3)
	assert.Len(t, mod.Behaviors(), 3)
	assert.Equal(t, 3, mod.MaxStage())
	assert.Equal(t, "up", mod.CallbackPrefix())
	assert.Equal(t, "upsell:7", mod.SessionKey("7"))
}

func TestClientPrompt(t *testing.T) {
	prompt, err := newModule(t).ClientPrompt(sampleState())
	require.NoError(t, err)
	assert.Contains(t, prompt, "Продавец предлагает тебе: песня с видеоклипом из ваших фотографий")
	assert.Contains(t, prompt, "Твой настрой: Ты спокойно взвешиваешь выгоду")
	assert.True(t, strings.HasSuffix(prompt, "Отвечай кратко (1-3 предложения)."))
}

func TestCoachPromptUsesStageRubric(t *testing.T) {
	prompt, err := newModule(t).CoachPrompt(sampleState(), "Отличный выбор!", "Спасибо.")
	require.NoError(t, err)
	assert.Contains(t, prompt, "Этап: 1 из 3")
	assert.Contains(t, prompt, "Это первый этап: мостик к предложению. Оцени:")
	assert.Contains(t, prompt, `Реплика продавца: "Отличный выбор!"`)
}

func TestViews(t *testing.T) {
	mod := newModule(t)
	st := sampleState()

	status, err := mod.Render(training.ViewStatus, st)
	require.NoError(t, err)
	assert.Equal(t, "📊 <b>Статус тренировки</b>\n\n👤 Клиент: 😐 Обычный\n📦 Пакет: 🎬 Premium\n"+
		"🎯 Этап: 1 из 3\n💬 Реплик: 0\n\nПродолжай работу с допродажей!", status)

	started, err := mod.Render(training.ViewStarted, st)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(started, "🏆 <b>Вкус Победы</b> - Модуль активирован!"))
	assert.Contains(t, started, "👤 <b>Клиент:</b> Обычный, взвешивает выгоду")

	reset, err := mod.Render(training.ViewReset, st)
	require.NoError(t, err)
	assert.Equal(t, "🔄 <b>Новый сценарий!</b>\n\n📦 Пакет для допродажи: 🎬 Premium\n\n"+
		"Клиент уже заказал 1 песню. Предложи апгрейд!", reset)
}
