package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-reminder-bot/internal/access"
	"telegram-reminder-bot/internal/models"
)

func (h *Handler) HandleCommand(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		h.handleStart(msg)
	case "admin":
		h.requireAdmin(chatID, h.handleAdminMenu)
	case "stats":
		h.requireAdmin(chatID, h.handleStats)
	case "users":
		h.requireAdmin(chatID, h.handleUsers)
	case "ban":
		h.requireAdmin(chatID, h.startBan)
	case "unban":
		h.requireAdmin(chatID, func(id int64) { h.handleUnban(id, msg.CommandArguments()) })
	case "bans":
		h.requireAdmin(chatID, h.handleBans)
	default:
		h.send(chatID, "Неизвестная команда. Воспользуйтесь меню 👇")
	}
}

// ---------------- /start --------------------

// handleStart upserts the user row on every call (idempotent) and
// either asks for consent or shows the main menu.
func (h *Handler) handleStart(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	u := &models.User{ChatID: chatID}
	if msg.From != nil {
		u.Username = msg.From.UserName
		u.FirstName = msg.From.FirstName
	}
	if err := h.DB.UpsertUser(u); err != nil {
		h.Log.Error().Err(err).Int64("chat_id", chatID).Msg("user upsert failed")
	}

	stored, err := h.DB.GetUser(chatID)
	if err != nil {
		h.Log.Error().Err(err).Int64("chat_id", chatID).Msg("user lookup failed")
	}
	if stored == nil || !stored.Accepted {
		kb := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Принять", access.ConsentCallback),
			),
		)
		h.sendWithKeyboard(chatID,
			"⏰ Бот-напоминалка (МСК)\n"+
				"Время вводится по московскому времени!\n\n"+
				"Для работы с ботом примите условия использования.", kb)
		return
	}

	h.sendWithKeyboard(chatID, "⏰ Бот-напоминалка (МСК)\nВремя вводится по московскому времени!", mainKeyboard())
}

// ---------------- admin ---------------------

func (h *Handler) requireAdmin(chatID int64, fn func(adminID int64)) {
	if chatID != h.AdminID || h.AdminID == 0 {
		h.send(chatID, "Команда доступна только администратору")
		return
	}
	fn(chatID)
}

func (h *Handler) handleAdminMenu(adminID int64) {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Статистика", "adm:stats"),
			tgbotapi.NewInlineKeyboardButtonData("👥 Пользователи", "adm:users"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚫 Бан", "adm:ban"),
			tgbotapi.NewInlineKeyboardButtonData("📜 Баны", "adm:bans"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📢 Рассылка", "adm:bcast"),
			tgbotapi.NewInlineKeyboardButtonData("🗒 Журнал", "adm:log"),
		),
	)
	h.sendWithKeyboard(adminID, "Админ-панель", kb)
}

func (h *Handler) handleStats(adminID int64) {
	total, accepted, err := h.DB.CountUsers()
	if err != nil {
		h.Log.Error().Err(err).Msg("stats query failed")
		h.send(adminID, "Не удалось получить статистику")
		return
	}
	bans, _ := h.DB.ListBans()
	h.send(adminID, fmt.Sprintf(
		"📊 Статистика\n\nПользователей: %d\nПриняли условия: %d\nАктивных банов: %d",
		total, accepted, len(bans)))
}

func (h *Handler) handleUsers(adminID int64) {
	users, err := h.DB.ListUsers()
	if err != nil {
		h.Log.Error().Err(err).Msg("users query failed")
		h.send(adminID, "Не удалось получить список")
		return
	}
	if len(users) == 0 {
		h.send(adminID, "Пользователей нет")
		return
	}
	var b strings.Builder
	b.WriteString("👥 Пользователи:\n\n")
	for _, u := range users {
		mark := "—"
		if u.Accepted {
			mark = "✅"
		}
		fmt.Fprintf(&b, "%d %s @%s %s\n", u.ChatID, mark, u.Username, u.FirstName)
	}
	h.send(adminID, b.String())
}

func (h *Handler) handleBans(adminID int64) {
	bans, err := h.DB.ListBans()
	if err != nil {
		h.Log.Error().Err(err).Msg("bans query failed")
		h.send(adminID, "Не удалось получить список банов")
		return
	}
	if len(bans) == 0 {
		h.send(adminID, "Банов нет")
		return
	}
	var b strings.Builder
	b.WriteString("📜 Баны:\n\n")
	for _, ban := range bans {
		until := "навсегда"
		if !ban.Permanent() {
			until = "до " + ban.Until.In(h.Clock.Location()).Format("2006-01-02 15:04")
		}
		reason := ban.Reason
		if reason == "" {
			reason = "без причины"
		}
		fmt.Fprintf(&b, "%d — %s (%s)\n", ban.ChatID, until, reason)
	}
	h.send(adminID, b.String())
}

func (h *Handler) handleAdminLog(adminID int64) {
	entries, err := h.DB.ListAdminLog(20)
	if err != nil {
		h.Log.Error().Err(err).Msg("admin log query failed")
		h.send(adminID, "Не удалось получить журнал")
		return
	}
	if len(entries) == 0 {
		h.send(adminID, "Журнал пуст")
		return
	}
	var b strings.Builder
	b.WriteString("🗒 Последние действия:\n\n")
	for _, e := range entries {
		at := time.Unix(e.At, 0).In(h.Clock.Location()).Format("01-02 15:04")
		fmt.Fprintf(&b, "%s %s", at, e.Action)
		if e.TargetID != 0 {
			fmt.Fprintf(&b, " → %d", e.TargetID)
		}
		if e.Details != "" {
			b.WriteString(" (" + e.Details + ")")
		}
		b.WriteString("\n")
	}
	h.send(adminID, b.String())
}

func (h *Handler) handleUnban(adminID int64, args string) {
	target, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil {
		h.send(adminID, "Использование: /unban <id>")
		return
	}
	ok, err := h.DB.DeleteBan(target)
	if err != nil {
		h.Log.Error().Err(err).Int64("target", target).Msg("unban failed")
		h.send(adminID, "Ошибка при снятии бана")
		return
	}
	if !ok {
		h.send(adminID, "Бан не найден")
		return
	}
	h.logAdmin(adminID, "unban", target, "")
	// best effort, never surfaces to the admin as an error
	h.Notify.Deliver(target, "✅ Ваш бан снят")
	h.send(adminID, "🗑 Бан снят")
}

func (h *Handler) logAdmin(adminID int64, action string, target int64, details string) {
	err := h.DB.AppendAdminLog(&models.AdminLogEntry{
		AdminID:  adminID,
		Action:   action,
		TargetID: target,
		Details:  details,
		At:       h.Clock.Now().Unix(),
	})
	if err != nil {
		h.Log.Error().Err(err).Str("action", action).Msg("admin log append failed")
	}
}
