// Package upsell trains offering a package upgrade to a client who already ordered one song.
package upsell

import "github.com/m3rciful/salestrainer/core/training"

// Name is the module identifier.
const Name = "upsell"

const clientPrompt = `Ты играешь роль клиента, который уже заказал одну персональную песню.

Продавец предлагает тебе: {{.Scenario.Description}}

Твой настрой: {{.Behavior.Description}}

Важно:
- Ты доволен заказом, но лишних трат не планировал
- Соглашайся, только если видишь понятную выгоду для себя
- Если предложение звучит как навязывание - отказывайся

Отвечай кратко (1-3 предложения).`

const coachPrompt = `Ты Tietz - наставник по продажам. Разбираешь допродажи.

Предложение: {{.Scenario.Description}}
Этап: {{.Stage}} из {{.MaxStage}}

Реплика продавца: "{{.Trainee}}"
Ответ клиента: "{{.Client}}"

{{.Rubric}}

Дай краткий разбор (2-4 предложения):
- Что хорошо
- Что можно улучшить
- Конкретный совет

Тон: тёплый, поддерживающий, экспертный.`

const (
	startedView = `🏆 <b>Вкус Победы</b> - Модуль активирован!

📦 <b>Пакет для допродажи:</b> {{.Scenario.Label}}
{{.Scenario.Description}}

👤 <b>Клиент:</b> {{.Behavior.DisplayTitle}}

🎯 <b>Этап:</b> {{.Stage}} из {{.MaxStage}}

Клиент уже заказал 1 песню. Предложи апгрейд!`

	helpView = `🏆 <b>Вкус Победы</b>

📦 <b>Пакет для допродажи:</b> {{.Scenario.Label}}

👤 <b>Клиент:</b> {{.Behavior.DisplayTitle}}

🎯 <b>Этап:</b> {{.Stage}} из {{.MaxStage}}

💬 Напиши своё предложение клиенту.
Я сыграю клиента и дам обратную связь!

📝 <b>Этапы:</b>{{range .Stages}}
{{.Hint}}{{end}}`

	resetView = `🔄 <b>Новый сценарий!</b>

📦 Пакет для допродажи: {{.Scenario.Label}}

Клиент уже заказал 1 песню. Предложи апгрейд!`

	statusView = `📊 <b>Статус тренировки</b>

👤 Клиент: {{.Behavior.Label}}
📦 Пакет: {{.Scenario.Label}}
🎯 Этап: {{.Stage}} из {{.MaxStage}}
💬 Реплик: {{.Messages}}

Продолжай работу с допродажей!`
)

// Definition returns the module configuration.
func Definition() training.Definition {
	return training.Definition{
		Name:           Name,
		Version:        "v3",
		Title:          "🏆 Вкус Победы",
		CallbackPrefix: "up",
		Scenarios: []training.Option{
			{Key: "basic", Label: "🎵 Basic", Description: "вторая песня по акции со скидкой"},
			{Key: "premium", Label: "🎬 Premium", Description: "песня с видеоклипом из ваших фотографий"},
			{Key: "gold", Label: "⭐ Gold", Description: "песня, клип и живое исполнение для праздника"},
		},
		Behaviors: []training.Option{
			{Key: "soft", Label: "😊 Мягкий", Title: "Мягкий, открыт к предложениям", Description: "Ты открыт к предложениям и легко идёшь на контакт."},
			{Key: "normal", Label: "😐 Обычный", Title: "Обычный, взвешивает выгоду", Description: "Ты спокойно взвешиваешь выгоду и задаёшь вопросы."},
			{Key: "aggressive", Label: "😠 Жесткий", Title: "Жёсткий, не любит навязывания", Description: "Ты не любишь, когда тебе что-то навязывают, и отвечаешь жёстко."},
		},
		Stages: []training.Stage{
			{
				Rubric: "Это первый этап: мостик к предложению. Оцени:\n- Похвалил ли продавец выбор клиента?\n- Плавно ли подвёл к допродаже?\n- Не прозвучало ли навязчиво?",
				Intro:  "🌉 <b>Этап 1</b>\n\nПострой мостик. Похвали выбор клиента и мягко подведи к апгрейду.",
				Hint:   "1️⃣ Мостик от заказа к апгрейду",
			},
			{
				Rubric: "Это второй этап: ценность. Оцени:\n- Показана ли выгода именно для этого клиента?\n- Есть ли эмоция или пример?\n- Понятна ли разница в цене?",
				Intro:  "💎 <b>Этап 2</b>\n\nПокажи ценность апгрейда. Эмоция и конкретная выгода.",
				Hint:   "2️⃣ Ценность + эмоция",
			},
			{
				Rubric: "Это третий этап: закрытие. Оцени:\n- Есть ли простой призыв к действию?\n- Оставлена ли свобода отказаться?\n- Не обесценен ли уже сделанный заказ?",
				Intro:  "🏁 <b>Этап 3</b>\n\nЗакрой сделку. Простой призыв к действию без давления.",
				Hint:   "3️⃣ Призыв без давления",
			},
		},
		TurnsPerStage: 2,
		ClientPrompt:  clientPrompt,
		CoachPrompt:   coachPrompt,
		CoachRequest:  "Разбери предложение продавца",
		ClientFallbacks: []string{
			"Звучит интересно, но я не планировал больше тратить.",
			"А чем это лучше того, что я уже заказал?",
			"Давайте я сначала послушаю первую песню.",
		},
		CoachFallback: "Неплохо! Свяжи апгрейд с поводом клиента и назови конкретную выгоду.",
		Views: training.Views{
			Started: startedView,
			Help:    helpView,
			Reset:   resetView,
			Status:  statusView,
		},
	}
}
