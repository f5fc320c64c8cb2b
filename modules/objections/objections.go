// Package objections trains handling a single client objection from first reaction to a closing step.
package objections

import "github.com/m3rciful/salestrainer/core/training"

// Name is the module identifier.
const Name = "objections"

const clientPrompt = `Ты играешь роль клиента, который заказывает персональную песню в подарок.

Твоё возражение: {{.Scenario.Description}}

Твой характер: {{.Behavior.Description}}

Важно:
- Держись своего возражения, пока продавец не снимет его по-настоящему
- Не соглашайся после первой же реплики
- Если продавец спорит или давит - усиливай сомнения
- Если слышишь понимание и аргументы - постепенно смягчайся

Отвечай кратко (1-3 предложения).`

const coachPrompt = `Ты Tietz - наставник по продажам. Разбираешь работу с возражениями.

Возражение клиента: {{.Scenario.Description}}
Этап: {{.Stage}} из {{.MaxStage}}

Реплика продавца: "{{.Trainee}}"
Ответ клиента: "{{.Client}}"

{{.Rubric}}

Дай краткий разбор (2-4 предложения):
- Что получилось
- Где продавец потерял клиента
- Какую фразу стоило сказать

Тон: тёплый, поддерживающий, экспертный.`

const (
	startedView = `🛡️⚔️ <b>Щит и Меч</b> - Модуль активирован!

⚠️ <b>Возражение:</b> {{.Scenario.Label}}
{{.Scenario.Description}}

👤 <b>Персона:</b> {{.Behavior.DisplayTitle}}

🎯 <b>Этап:</b> {{.Stage}} из {{.MaxStage}}

💬 Ответь клиенту на возражение.`

	helpView = `🛡️⚔️ <b>Щит и Меч</b>

⚠️ <b>Возражение:</b> {{.Scenario.Label}}
{{.Scenario.Description}}

👤 <b>Персона:</b> {{.Behavior.DisplayTitle}}

🎯 <b>Этап:</b> {{.Stage}} из {{.MaxStage}}

💬 Напиши свою реплику клиенту.
Я сыграю клиента с возражением и разберу твой ответ!

📝 <b>Этапы:</b>{{range .Stages}}
{{.Hint}}{{end}}`

	resetView = `🔄 <b>Новое возражение!</b>

⚠️ Тип: {{.Scenario.Label}}

Начинай работу с возражением!`

	statusView = `📊 <b>Статус тренировки</b>

⚠️ Возражение: <b>{{.Scenario.Label}}</b>
👤 Персона: {{.Behavior.Label}}
🎯 Этап: {{.Stage}} из {{.MaxStage}}
💬 Реплик: {{.Messages}}

Продолжай работу с возражением!`
)

// Definition returns the module configuration.
func Definition() training.Definition {
	return training.Definition{
		Name:           Name,
		Version:        "v3",
		Title:          "🛡️⚔️ Щит и Меч",
		CallbackPrefix: "obj",
		Scenarios: []training.Option{
			{Key: "price", Label: "💰 Цена", Description: "Тебя смущает цена песни, ты не понимаешь, за что столько платить."},
			{Key: "trust", Label: "🤝 Недоверие", Description: "Ты не доверяешь: впервые слышишь об этом сервисе и не видел отзывов."},
			{Key: "hurry", Label: "⏰ Спешка", Description: "Праздник уже через два дня, и ты боишься, что не успеют."},
			{Key: "think", Label: "🤔 Подумать", Description: "Ты говоришь, что тебе надо подумать, и не объясняешь почему."},
			{Key: "ask_spouse", Label: "👥 Спросить супруга", Description: "Ты хочешь сначала посоветоваться с супругом."},
			{Key: "scam_fear", Label: "⚠️ Страх обмана", Description: "Ты боишься заплатить вперёд и ничего не получить."},
			{Key: "too_expensive", Label: "💸 Слишком дорого", Description: "Ты прямо говоришь, что это слишком дорого для подарка."},
			{Key: "not_needed", Label: "🚫 Не нужно", Description: "Ты сомневаешься, что песня вообще нужна, можно подарить что-то привычное."},
			{Key: "later", Label: "📅 Позже", Description: "Ты предлагаешь вернуться к разговору когда-нибудь позже."},
			{Key: "competitor", Label: "🏪 Конкурент", Description: "Ты нашёл похожий сервис дешевле и сравниваешь."},
		},
		Behaviors: []training.Option{
			{Key: "stranger", Label: "😶 Холодный", Title: "Холодный, держит дистанцию", Description: "Ты отвечаешь сдержанно и держишь дистанцию."},
			{Key: "calm", Label: "😌 Спокойный", Title: "Спокойный, рассудительный", Description: "Ты спокоен и готов слушать аргументы."},
			{Key: "aggressive", Label: "😠 Агрессивный", Title: "Агрессивный, раздражённый", Description: "Ты раздражён и отвечаешь резко, но без оскорблений."},
			{Key: "funny", Label: "😄 С юмором", Title: "Шутит и уходит от ответа", Description: "Ты шутишь и отвечаешь с иронией, уходя от прямого ответа."},
		},
		Stages: []training.Stage{
			{
				Rubric: "Это первый этап: услышать возражение. Оцени:\n- Выслушал ли продавец клиента?\n- Присоединился ли к его чувствам?\n- Задал ли уточняющий вопрос?",
				Intro:  "🛡️ <b>Этап 1</b>\n\nУслышь возражение. Присоединись и уточни, что на самом деле беспокоит клиента.",
				Hint:   "1️⃣ Услышать и присоединиться",
			},
			{
				Rubric: "Это второй этап: ответ на возражение. Оцени:\n- Есть ли аргумент, снимающий сомнение?\n- Показана ли ценность, а не только цена?\n- Нет ли спора с клиентом?",
				Intro:  "⚔️ <b>Этап 2</b>\n\nСними возражение. Дай аргумент и покажи ценность.",
				Hint:   "2️⃣ Аргумент + ценность",
			},
			{
				Rubric: "Это третий этап: закрытие. Оцени:\n- Предложен ли конкретный следующий шаг?\n- Легко ли клиенту сказать «да»?\n- Сохранено ли уважение к решению клиента?",
				Intro:  "🏁 <b>Этап 3</b>\n\nЗакрой на действие. Предложи простой следующий шаг.",
				Hint:   "3️⃣ Следующий шаг",
			},
		},
		TurnsPerStage: 2,
		ClientPrompt:  clientPrompt,
		CoachPrompt:   coachPrompt,
		CoachRequest:  "Разбери ответ продавца на возражение",
		ClientFallbacks: []string{
			"Всё равно как-то сомнительно.",
			"Ну не знаю, надо ещё подумать.",
			"Допустим. А какие гарантии?",
		},
		CoachFallback: "Хорошо, что не споришь с клиентом. Сначала присоединись к его сомнению, потом дай аргумент.",
		Views: training.Views{
			Started: startedView,
			Help:    helpView,
			Reset:   resetView,
			Status:  statusView,
		},
	}
}
