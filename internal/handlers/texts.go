package handlers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-reminder-bot/internal/models"
)

var dateRx = regexp.MustCompile(`^(\d{4}-)?\d{2}-\d{2}$`)

// HandleText consumes free text only when a step is pending for the
// actor; there is no shape-sniffing fallback. Unmatched text gets the
// menu nudge.
func (h *Handler) HandleText(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	switch h.Sessions.Step(chatID) {
	case models.StepAwaitReminderInput:
		h.handleReminderInput(chatID, text)
	case models.StepAwaitReminderText:
		h.commitCalendarReminder(chatID, text)
	case models.StepAwaitDeleteID:
		h.handleDeleteID(chatID, text)
	case models.StepAwaitTimerDuration:
		h.handleTimerInput(chatID, text)
	case models.StepAwaitBirthday:
		h.handleBirthdayInput(chatID, text)
	case models.StepAwaitBanTarget:
		h.handleBanTarget(chatID, text)
	case models.StepAwaitBanReason:
		h.handleBanReason(chatID, text)
	case models.StepAwaitBroadcastText:
		h.handleBroadcastText(chatID, text)
	default:
		h.sendWithKeyboard(chatID, "Воспользуйтесь меню 👇", mainKeyboard())
	}
}

// handleReminderInput parses "ГГГГ-ММ-ДД ЧЧ:ММ текст".
func (h *Handler) handleReminderInput(chatID int64, text string) {
	parts := strings.SplitN(text, " ", 3)
	if len(parts) < 3 {
		h.Sessions.Reset(chatID)
		h.send(chatID, "❌ Ошибка ввода")
		return
	}
	due, err := time.ParseInLocation("2006-01-02 15:04", parts[0]+" "+parts[1], h.Clock.Location())
	if err != nil {
		h.Sessions.Reset(chatID)
		h.send(chatID, "❌ Ошибка ввода")
		return
	}
	_, err = h.DB.InsertReminder(&models.Reminder{
		ChatID: chatID,
		Text:   parts[2],
		DueAt:  due,
	})
	h.Sessions.Reset(chatID)
	if err != nil {
		h.Log.Error().Err(err).Int64("chat_id", chatID).Msg("reminder insert failed")
		h.send(chatID, "❌ Не удалось сохранить напоминание")
		return
	}
	h.send(chatID, "✅ Напоминание добавлено")
}

func (h *Handler) handleDeleteID(chatID int64, text string) {
	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		h.Sessions.Reset(chatID)
		h.send(chatID, "❌ Ошибка ввода")
		return
	}
	ok, err := h.DB.DeleteReminder(id, chatID)
	h.Sessions.Reset(chatID)
	if err != nil {
		h.Log.Error().Err(err).Int64("chat_id", chatID).Msg("reminder delete failed")
		h.send(chatID, "❌ Не удалось удалить")
		return
	}
	if !ok {
		h.send(chatID, "Напоминание не найдено")
		return
	}
	h.send(chatID, "🗑 Удалено")
}

// handleTimerInput parses "<длительность> [текст]"; a bare number is
// taken as minutes.
func (h *Handler) handleTimerInput(chatID int64, text string) {
	parts := strings.SplitN(text, " ", 2)
	dur, err := parseTimerDuration(parts[0])
	if err != nil || dur <= 0 {
		h.Sessions.Reset(chatID)
		h.send(chatID, "❌ Ошибка ввода")
		return
	}
	label := ""
	if len(parts) == 2 {
		label = strings.TrimSpace(parts[1])
	}
	end := h.Clock.Now().Add(dur)
	_, err = h.DB.InsertTimer(&models.Timer{ChatID: chatID, Text: label, EndAt: end})
	h.Sessions.Reset(chatID)
	if err != nil {
		h.Log.Error().Err(err).Int64("chat_id", chatID).Msg("timer insert failed")
		h.send(chatID, "❌ Не удалось завести таймер")
		return
	}
	h.send(chatID, "⏱ Таймер заведён на "+end.Format("15:04:05"))
}

func parseTimerDuration(s string) (time.Duration, error) {
	if mins, err := strconv.Atoi(s); err == nil {
		return time.Duration(mins) * time.Minute, nil
	}
	return time.ParseDuration(s)
}

// handleBirthdayInput parses "Имя ГГГГ-ММ-ДД" or "Имя ММ-ДД"; the
// name may contain spaces, the date is the last token.
func (h *Handler) handleBirthdayInput(chatID int64, text string) {
	idx := strings.LastIndex(text, " ")
	if idx < 1 {
		h.Sessions.Reset(chatID)
		h.send(chatID, "❌ Ошибка ввода")
		return
	}
	name := strings.TrimSpace(text[:idx])
	dateStr := text[idx+1:]
	if !dateRx.MatchString(dateStr) {
		h.Sessions.Reset(chatID)
		h.send(chatID, "❌ Ошибка ввода")
		return
	}

	b := models.Birthday{ChatID: chatID, Name: name}
	var parsed time.Time
	var err error
	if len(dateStr) == 10 {
		parsed, err = time.Parse("2006-01-02", dateStr)
		b.Year = parsed.Year()
	} else {
		parsed, err = time.Parse("01-02", dateStr)
	}
	if err != nil {
		h.Sessions.Reset(chatID)
		h.send(chatID, "❌ Ошибка ввода")
		return
	}
	b.Month = int(parsed.Month())
	b.Day = parsed.Day()

	_, err = h.DB.InsertBirthday(&b)
	h.Sessions.Reset(chatID)
	if err != nil {
		h.Log.Error().Err(err).Int64("chat_id", chatID).Msg("birthday insert failed")
		h.send(chatID, "❌ Не удалось сохранить")
		return
	}
	h.send(chatID, "🎂 День рождения сохранён")
}

// ---------------- lists ---------------------

func (h *Handler) listReminders(chatID int64) {
	items, err := h.DB.ListReminders(chatID)
	if err != nil {
		h.Log.Error().Err(err).Int64("chat_id", chatID).Msg("reminders query failed")
		h.send(chatID, "❌ Не удалось получить список")
		return
	}
	if len(items) == 0 {
		h.send(chatID, "📭 Напоминаний нет")
		return
	}
	var b strings.Builder
	b.WriteString("📋 Напоминания:\n\n")
	for _, r := range items {
		fmt.Fprintf(&b, "%d. ⏰ %s — %s\n",
			r.ID, r.DueAt.In(h.Clock.Location()).Format("2006-01-02 15:04"), r.Text)
	}
	h.send(chatID, b.String())
}

func (h *Handler) daysToBirthdays(chatID int64) {
	items, err := h.DB.ListBirthdays(chatID)
	if err != nil {
		h.Log.Error().Err(err).Int64("chat_id", chatID).Msg("birthdays query failed")
		h.send(chatID, "❌ Не удалось получить список")
		return
	}
	if len(items) == 0 {
		h.send(chatID, "🎂 Дней рождения нет")
		return
	}
	var b strings.Builder
	b.WriteString("🎉 До дней рождения:\n\n")
	for _, bd := range items {
		days := h.Clock.DaysUntilBirthday(time.Month(bd.Month), bd.Day)
		if days == 0 {
			fmt.Fprintf(&b, "%s — сегодня! 🎉\n", bd.Name)
			continue
		}
		fmt.Fprintf(&b, "%s — через %d дн.\n", bd.Name, days)
	}
	h.send(chatID, b.String())
}
