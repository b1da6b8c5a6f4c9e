package handlers

import (
	"github.com/rs/zerolog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-reminder-bot/internal/clock"
	"telegram-reminder-bot/internal/models"
	"telegram-reminder-bot/internal/notify"
	"telegram-reminder-bot/internal/session"
	"telegram-reminder-bot/internal/storage"
)

// BotAPI is the slice of *tgbotapi.BotAPI the handlers use; tests
// inject a fake.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

const (
	menuAddReminder = "➕ Добавить напоминание"
	menuCalendar    = "📅 Напоминание по календарю"
	menuList        = "📋 Список напоминаний"
	menuDelete      = "❌ Удалить напоминание"
	menuTimer       = "⏱ Таймер"
	menuAddBirthday = "🎂 Добавить день рождения"
	menuDaysToBD    = "🎉 Сколько дней до ДР"
)

type Handler struct {
	Bot      BotAPI
	DB       *storage.DB
	Sessions *session.Store
	Clock    *clock.Clock
	Notify   *notify.Dispatcher
	AdminID  int64
	Log      zerolog.Logger
}

// HandleMessage routes one inbound message to completion. A panic in
// a step handler aborts only this actor's flow; the update loop keeps
// running.
func (h *Handler) HandleMessage(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	defer h.recoverFlow(chatID)

	if msg.IsCommand() {
		h.HandleCommand(msg)
		return
	}
	if h.handleMenuButton(chatID, msg.Text) {
		return
	}
	h.HandleText(msg)
}

// handleMenuButton starts a flow for a menu label. Starting a flow
// resets whatever flow was pending before, so abandoned scratch data
// never leaks into the new one.
func (h *Handler) handleMenuButton(chatID int64, text string) bool {
	switch text {
	case menuAddReminder:
		h.Sessions.Begin(chatID, models.StepAwaitReminderInput)
		h.send(chatID, "Введите:\nГГГГ-ММ-ДД ЧЧ:ММ текст\n\nПример:\n2026-02-10 18:30 Сделать дз")
	case menuCalendar:
		h.startCalendar(chatID)
	case menuList:
		h.listReminders(chatID)
	case menuDelete:
		h.Sessions.Begin(chatID, models.StepAwaitDeleteID)
		h.send(chatID, "Введите ID напоминания")
	case menuTimer:
		h.Sessions.Begin(chatID, models.StepAwaitTimerDuration)
		h.send(chatID, "Введите длительность и текст\n\nПример:\n10m Чай готов\n1h30m Встреча")
	case menuAddBirthday:
		h.Sessions.Begin(chatID, models.StepAwaitBirthday)
		h.send(chatID, "Введите:\nИмя ГГГГ-ММ-ДД (год можно опустить: Имя ММ-ДД)\n\nПример:\nМама 1980-05-12")
	case menuDaysToBD:
		h.daysToBirthdays(chatID)
	default:
		return false
	}
	return true
}

// SendConsentRequired nudges a gated-off actor toward /start.
func (h *Handler) SendConsentRequired(chatID int64) {
	h.send(chatID, "Сначала примите условия использования: /start")
}

func (h *Handler) recoverFlow(chatID int64) {
	if r := recover(); r != nil {
		h.Log.Error().Any("panic", r).Int64("chat_id", chatID).Msg("step handler panicked")
		h.Sessions.Reset(chatID)
		h.send(chatID, "❌ Ошибка ввода")
	}
}

// ---------- send helpers ----------------------------------------------------

func (h *Handler) send(chatID int64, text string) {
	_, err := h.Bot.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		h.Log.Warn().Err(err).Int64("chat_id", chatID).Msg("send failed")
	}
}

func (h *Handler) sendWithKeyboard(chatID int64, text string, kb interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	if _, err := h.Bot.Send(msg); err != nil {
		h.Log.Warn().Err(err).Int64("chat_id", chatID).Msg("send failed")
	}
}

func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuAddReminder),
			tgbotapi.NewKeyboardButton(menuList),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuCalendar),
			tgbotapi.NewKeyboardButton(menuDelete),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuTimer),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuAddBirthday),
			tgbotapi.NewKeyboardButton(menuDaysToBD),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}
