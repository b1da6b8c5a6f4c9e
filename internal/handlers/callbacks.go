package handlers

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-reminder-bot/internal/access"
	"telegram-reminder-bot/internal/models"
)

// HandleCallback routes one callback query to completion.
func (h *Handler) HandleCallback(cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil {
		return
	}
	chatID := cq.Message.Chat.ID
	defer h.recoverFlow(chatID)

	data := cq.Data
	var answer string
	var alert bool

	switch {
	case data == access.ConsentCallback:
		answer = h.handleConsent(chatID)

	case strings.HasPrefix(data, "cal:"):
		answer, alert = h.handleCalendarCallback(cq)

	case strings.HasPrefix(data, "adm:"):
		if chatID == h.AdminID && h.AdminID != 0 {
			h.handleAdminCallback(chatID, strings.TrimPrefix(data, "adm:"))
		}

	case strings.HasPrefix(data, "ban:dur:"):
		if chatID == h.AdminID && h.AdminID != 0 {
			h.handleBanDuration(chatID, strings.TrimPrefix(data, "ban:dur:"))
		}

	case strings.HasPrefix(data, "bcast:"):
		if chatID == h.AdminID && h.AdminID != 0 {
			h.handleBroadcastDecision(chatID, strings.TrimPrefix(data, "bcast:"))
		}
	}

	// always answer to drop the client's "loading…" spinner
	cb := tgbotapi.NewCallback(cq.ID, answer)
	if alert {
		cb = tgbotapi.NewCallbackWithAlert(cq.ID, answer)
	}
	if _, err := h.Bot.Request(cb); err != nil {
		h.Log.Warn().Err(err).Int64("chat_id", chatID).Msg("answer callback failed")
	}
}

// handleConsent flips accepted exactly once; repeated taps are no-ops.
func (h *Handler) handleConsent(chatID int64) string {
	u, err := h.DB.GetUser(chatID)
	if err != nil {
		h.Log.Error().Err(err).Int64("chat_id", chatID).Msg("user lookup failed")
		return ""
	}
	if u == nil {
		// consent without /start: create the row first
		if err := h.DB.UpsertUser(&models.User{ChatID: chatID}); err != nil {
			h.Log.Error().Err(err).Int64("chat_id", chatID).Msg("user upsert failed")
			return ""
		}
	} else if u.Accepted {
		return "Условия уже приняты"
	}
	if err := h.DB.AcceptUser(chatID); err != nil {
		h.Log.Error().Err(err).Int64("chat_id", chatID).Msg("accept failed")
		return ""
	}
	h.sendWithKeyboard(chatID, "✅ Условия приняты. Выбирайте действие в меню 👇", mainKeyboard())
	return "Принято"
}

func (h *Handler) handleAdminCallback(adminID int64, action string) {
	switch action {
	case "stats":
		h.handleStats(adminID)
	case "users":
		h.handleUsers(adminID)
	case "bans":
		h.handleBans(adminID)
	case "ban":
		h.startBan(adminID)
	case "bcast":
		h.startBroadcast(adminID)
	case "log":
		h.handleAdminLog(adminID)
	}
}
