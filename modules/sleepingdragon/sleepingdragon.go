// Package sleepingdragon trains re-engaging clients who went silent, over three waves of messages.
package sleepingdragon

import "github.com/m3rciful/salestrainer/core/training"

// Name is the module identifier.
const Name = "sleeping_dragon"

const clientPrompt = `Ты играешь роль клиента в диалоге с продавцом персональных песен.

Ситуация: {{.Scenario.Description}}

Твоё поведение: {{.Behavior.Description}}

Важно:
- Отвечай естественно, как реальный клиент
- Не говори сразу "да" или "нет" - будь реалистичным
- Реагируй на тон и подход продавца
- Если видишь эмпатию и ценность - смягчайся
- Если давят или слишком настойчивы - закрывайся

Отвечай кратко (1-3 предложения).`

const coachPrompt = `Ты Tietz - наставник по продажам. Анализируешь работу с неактивными клиентами.

Ситуация: {{.Scenario.Description}}
Волна сообщений: {{.Stage}} из {{.MaxStage}}

Сообщение продавца: "{{.Trainee}}"
Ответ клиента: "{{.Client}}"

{{.Rubric}}

Дай краткий разбор (2-4 предложения):
- Что хорошо
- Что можно улучшить
- Конкретный совет

Тон: тёплый, поддерживающий, экспертный.`

const (
	startedView = `🐉 <b>Спящий Дракон</b> - Модуль активирован!

📍 <b>Ситуация:</b>
{{.Scenario.Description}}

👤 <b>Тип клиента:</b> {{.Behavior.DisplayTitle}}

🌊 <b>Текущая волна:</b> {{.Stage}} из {{.MaxStage}}

💬 Напиши своё сообщение для возвращения клиента.
Я дам тебе обратную связь после каждой волны!`

	helpView = `🐉 <b>Спящий Дракон</b>

📍 <b>Ситуация:</b>
{{.Scenario.Description}}

👤 <b>Тип клиента:</b> {{.Behavior.DisplayTitle}}

🌊 <b>Текущая волна:</b> {{.Stage}} из {{.MaxStage}}

💬 Напиши своё сообщение клиенту.
Я сыграю роль клиента и дам тебе обратную связь!

📝 <b>Помни о волнах:</b>{{range .Stages}}
{{.Hint}}{{end}}`

	resetView = `🔄 <b>Новая ситуация:</b>

{{.Scenario.Description}}

Начинай первую волну сообщений!`

	statusView = `📊 <b>Статус тренировки</b>

📍 Ситуация: {{.Scenario.Label}}
👤 Тип клиента: {{.Behavior.Label}}
🌊 Волна: {{.Stage}} из {{.MaxStage}}
💬 Сообщений: {{.Messages}}

Продолжай работать с клиентом!`
)

// Definition returns the module configuration.
func Definition() training.Definition {
	return training.Definition{
		Name:           Name,
		Version:        "v1",
		Title:          "🐉 Спящий Дракон",
		CallbackPrefix: "sd",
		Scenarios: []training.Option{
			{Key: "after_texts", Label: "После текстов", Description: "Клиент получил тексты песни, но не ответил"},
			{Key: "after_demo", Label: "После демо", Description: "Клиент прослушал демо, но замолчал"},
			{Key: "before_payment", Label: "До оплаты", Description: "Клиент обсуждал оплату, но пропал"},
			{Key: "after_discussion", Label: "После акции", Description: "Клиент обсуждал акцию 3+1, но не вернулся"},
			{Key: "after_genre", Label: "После жанра", Description: "Клиент выбирал жанр, но пропал"},
			{Key: "no_response", Label: "Нет ответа", Description: "Клиент вообще не ответил на первое сообщение"},
		},
		Behaviors: []training.Option{
			{
				Key: "busy", Label: "Занятой", Title: "Занятой, но доброжелательный",
				Description: "Ты занятой клиент. Отвечаешь кратко, но не грубо. Дай понять что интересно, но сейчас нет времени.",
			},
			{
				Key: "cold", Label: "Холодный", Title: "Холодный, не интересуется",
				Description: "Ты холодный клиент. Не особо интересуешься. Отвечай сухо, без энтузиазма.",
			},
			{
				Key: "doubtful", Label: "Сомневающийся", Title: "Сомневается в качестве",
				Description: "Ты сомневающийся клиент. У тебя есть вопросы и сомнения по качеству.",
			},
			{
				Key: "price_sensitive", Label: "Ценовой", Title: "Чувствителен к цене",
				Description: "Ты чувствителен к цене. Тебя интересует продукт, но смущает стоимость.",
			},
			{
				Key: "emotional", Label: "Эмоциональный", Title: "Эмоциональный, нерешительный",
				Description: "Ты эмоциональный клиент. Тебе нравится идея, но ты нерешителен.",
			},
			{
				Key: "interested", Label: "Заинтересованный", Title: "Заинтересован, но забыл",
				Description: "Ты заинтересованный клиент, просто забыл/отвлёкся.",
			},
		},
		Stages: []training.Stage{
			{
				Rubric: "Это первая волна. Оцени:\n- Есть ли тёплое напоминание?\n- Проявлена ли эмпатия?\n- Аккуратен ли вопрос/предложение?\n- Не слишком ли настойчиво?",
				Intro:  "🌊 <b>Волна 1</b>\n\nТёплое напоминание. Покажи эмпатию и задай аккуратный вопрос.",
				Hint:   "1️⃣ Тёплое напоминание + эмпатия",
			},
			{
				Rubric: "Это вторая волна. Оцени:\n- Добавлена ли ценность?\n- Есть ли эмоция или микро-история?\n- Предложен ли бонус/демо/идея?\n- Сохранён ли тёплый тон?",
				Intro:  "🌊 <b>Волна 2</b>\n\nДобавь ценность! Расскажи микро-историю или предложи бонус.",
				Hint:   "2️⃣ Ценность + эмоция/бонус",
			},
			{
				Rubric: "Это третья волна. Оцени:\n- Уважаются ли границы клиента?\n- Мягкое ли завершение?\n- Дверь остаётся открытой?\n- Нет ли давления или обиды?",
				Intro:  "🌊 <b>Волна 3</b>\n\nЗавершающая волна. Уважай границы, но оставь дверь открытой.",
				Hint:   "3️⃣ Уважение + открытая дверь",
			},
		},
		TurnsPerStage: 2,
		ClientPrompt:  clientPrompt,
		CoachPrompt:   coachPrompt,
		CoachRequest:  "Проанализируй это сообщение продавца в контексте ответа клиента",
		ClientFallbacks: []string{
			"Спасибо, подумаю над этим.",
			"Хорошо, посмотрю позже.",
			"Интересно, но мне нужно время.",
		},
		CoachFallback: "Хороший подход! Продолжай в том же духе, добавь чуть больше эмпатии.",
		Views: training.Views{
			Started: startedView,
			Help:    helpView,
			Reset:   resetView,
			Status:  statusView,
		},
	}
}
