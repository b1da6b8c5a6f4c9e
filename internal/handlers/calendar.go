package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-reminder-bot/internal/models"
)

// Календарь: год → месяц → день → текст напоминания.
// Callback payloads carry the full partial selection, so a tap on an
// old keyboard still lands in a consistent place.
const flowCalendar = "calendar"

var monthNames = [...]string{
	"Янв", "Фев", "Мар", "Апр", "Май", "Июн",
	"Июл", "Авг", "Сен", "Окт", "Ноя", "Дек",
}

func (h *Handler) startCalendar(chatID int64) {
	h.Sessions.Begin(chatID, models.StepPickYear)
	h.sendWithKeyboard(chatID, "Выберите год", yearKeyboard(h.Clock.Now().Year()))
}

func yearKeyboard(from int) tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for y := from; y < from+3; y++ {
		s := strconv.Itoa(y)
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(s, "cal:y:"+s))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func monthKeyboard(year int) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for m := 1; m <= 12; m += 3 {
		var row []tgbotapi.InlineKeyboardButton
		for i := m; i < m+3; i++ {
			data := fmt.Sprintf("cal:m:%d-%02d", year, i)
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(monthNames[i-1], data))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func dayKeyboard(year int, month time.Month, loc *time.Location) tgbotapi.InlineKeyboardMarkup {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for d := 1; d <= last; d++ {
		data := fmt.Sprintf("cal:d:%d-%02d-%02d", year, month, d)
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(strconv.Itoa(d), data))
		if len(row) == 7 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// handleCalendarCallback processes cal:y / cal:m / cal:d payloads.
// Returns the text for answerCallback (alert for a rejected day).
func (h *Handler) handleCalendarCallback(cq *tgbotapi.CallbackQuery) (answer string, alert bool) {
	chatID := cq.Message.Chat.ID
	data := cq.Data

	switch {
	case strings.HasPrefix(data, "cal:y:"):
		year, err := strconv.Atoi(strings.TrimPrefix(data, "cal:y:"))
		if err != nil {
			return "", false
		}
		h.Sessions.Put(chatID, flowCalendar, "year", strconv.Itoa(year))
		h.Sessions.SetStep(chatID, models.StepPickMonth)
		h.editKeyboard(chatID, cq.Message.MessageID, "Выберите месяц", monthKeyboard(year))

	case strings.HasPrefix(data, "cal:m:"):
		year, month, ok := parseYearMonth(strings.TrimPrefix(data, "cal:m:"))
		if !ok {
			return "", false
		}
		h.Sessions.Put(chatID, flowCalendar, "year", strconv.Itoa(year))
		h.Sessions.Put(chatID, flowCalendar, "month", strconv.Itoa(int(month)))
		h.Sessions.SetStep(chatID, models.StepPickDay)
		h.editKeyboard(chatID, cq.Message.MessageID, "Выберите день", dayKeyboard(year, month, h.Clock.Location()))

	case strings.HasPrefix(data, "cal:d:"):
		day, err := time.ParseInLocation("2006-01-02", strings.TrimPrefix(data, "cal:d:"), h.Clock.Location())
		if err != nil {
			return "", false
		}
		if day.Before(h.Clock.Today()) {
			// no transition: the day grid stays up
			return "Нельзя выбрать прошедшую дату", true
		}
		h.Sessions.Put(chatID, flowCalendar, "date", day.Format("2006-01-02"))
		h.Sessions.SetStep(chatID, models.StepAwaitReminderText)
		h.send(chatID, "Дата: "+day.Format("2006-01-02")+"\nВведите текст напоминания")
	}
	return "", false
}

// commitCalendarReminder finishes the flow: any text commits a
// reminder due at midnight of the picked date.
func (h *Handler) commitCalendarReminder(chatID int64, text string) {
	picked := h.Sessions.Get(chatID, flowCalendar, "date")
	day, err := time.ParseInLocation("2006-01-02", picked, h.Clock.Location())
	if err != nil {
		// scratch got lost (restart mid-flow); abort clean
		h.Sessions.Reset(chatID)
		h.send(chatID, "❌ Дата не выбрана, начните заново")
		return
	}
	_, err = h.DB.InsertReminder(&models.Reminder{
		ChatID: chatID,
		Text:   text,
		DueAt:  day,
	})
	h.Sessions.Reset(chatID)
	if err != nil {
		h.Log.Error().Err(err).Int64("chat_id", chatID).Msg("reminder insert failed")
		h.send(chatID, "❌ Не удалось сохранить напоминание")
		return
	}
	h.send(chatID, "✅ Напоминание добавлено")
}

func parseYearMonth(s string) (int, time.Month, bool) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	year, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || m < 1 || m > 12 {
		return 0, 0, false
	}
	return year, time.Month(m), true
}

func (h *Handler) editKeyboard(chatID int64, messageID int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, kb)
	if _, err := h.Bot.Request(edit); err != nil {
		h.Log.Warn().Err(err).Int64("chat_id", chatID).Msg("edit failed")
	}
}
