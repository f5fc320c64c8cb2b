package bot

import (
	"fmt"
	"strings"
	"unicode"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/salestrainer/core/telegram/callbacks"
	"github.com/m3rciful/salestrainer/core/telegram/format"
	"github.com/m3rciful/salestrainer/core/telegram/keyboard"
	"github.com/m3rciful/salestrainer/core/training"
)

const (
	beginnerLabel    = "Я новичок"
	experiencedLabel = "Я уже с базой"

	resetLabel  = "🔄 Новая ситуация"
	statusLabel = "📊 Статистика"

	actionReset  = "reset"
	actionStatus = "status"

	greetingText = "Привет 🌿 Я — Tietz, твой ИИ-наставник.\n" +
		"Помогу тренировать навыки общения с клиентами.\n" +
		"Выбери, с чего начнём."

	menuText = "👋 <b>Привет! Я Tietz</b> — твой наставник по продажам.\n\n" +
		"🎯 <b>Моя задача</b>: помочь тебе стать мастером продаж наших уникальных продуктов:\n" +
		"• Персональные песни по истории клиента\n" +
		"• Оживление фото (живые анимации)\n" +
		"• Песни голосом клиента (voice cloning)\n" +
		"• Видеоролики-подарки с монтажом\n" +
		"• Премиальные мульт-истории по любви\n\n" +
		"💡 <b>Как я работаю</b>:\n" +
		"Я буду играть роль клиента, давать тебе обратную связь и помогать " +
		"развивать навыки продаж через практику и разбор.\n\n" +
		"📚 <b>Выбери модуль обучения:</b>"

	hintText        = "Используй /start чтобы начать или /modules чтобы выбрать модуль."
	mediaText       = "Я понимаю только текст. Напиши клиенту сообщение словами."
	emptyText       = "Напиши клиенту хотя бы пару слов."
	failedText      = "⚠️ Не получилось обработать сообщение. Попробуй ещё раз чуть позже."
	rateLimitedText = "⏳ Не так быстро, клиент ещё читает предыдущее сообщение."
)

func beginnerText(mod *training.Module) string {
	return "🎓 Отлично! Я проведу тебя через полный цикл обучения.\n" +
		"Начинаем с модуля " + format.Bold(plainTitle(mod.Title())) + "."
}

// plainTitle drops the leading emoji of a module title.
func plainTitle(title string) string {
	if i := strings.IndexFunc(title, unicode.IsLetter); i > 0 {
		return title[i:]
	}
	return title
}

func greetingKeyboard() *tele.ReplyMarkup {
	return keyboard.OneTime(keyboard.ReplyButtons([]string{beginnerLabel}, []string{experiencedLabel}))
}

func menuKeyboard(mods []*training.Module) *tele.ReplyMarkup {
	rows := make([][]string, 0, len(mods))
	for _, mod := range mods {
		rows = append(rows, []string{mod.Title()})
	}
	return keyboard.ReplyButtons(rows...)
}

func moduleKeyboard(mod *training.Module) *tele.ReplyMarkup {
	prefix := mod.CallbackPrefix()
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: resetLabel, Unique: callbacks.Join(prefix, actionReset)}},
		[]keyboard.InlineBtn{{Text: statusLabel, Unique: callbacks.Join(prefix, actionStatus)}},
	)
}

// turnText renders one exchange. Generated text is escaped; the stage intro
// is module-authored HTML.
func turnText(res training.TurnResult) string {
	var b strings.Builder
	b.WriteString("👤 <b>Клиент:</b>\n")
	b.WriteString(format.EscapeHTML(res.ClientReply))
	b.WriteString("\n\n🎓 <b>Разбор наставника:</b>\n")
	b.WriteString(format.EscapeHTML(res.CoachFeedback))
	if res.Advanced && res.StageIntro != "" {
		b.WriteString("\n\n")
		b.WriteString(res.StageIntro)
	}
	return b.String()
}

type stats struct {
	modules  int
	sessions int
	active   int
	sent     uint64
	failed   uint64
}

func statsText(s stats) string {
	return fmt.Sprintf("📈 <b>Статистика бота</b>\n\n"+
		"📚 Модулей: %d\n"+
		"🧠 Сессий в памяти: %d\n"+
		"💬 Пользователей в модулях: %d\n"+
		"📤 Отправлено сообщений: %d\n"+
		"⚠️ Ошибок отправки: %d",
		s.modules, s.sessions, s.active, s.sent, s.failed)
}
