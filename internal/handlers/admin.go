package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-reminder-bot/internal/models"
)

const (
	flowBan   = "ban"
	flowBcast = "bcast"
)

// banDurations maps the fixed choice set to offsets; 0 is permanent.
var banDurations = []struct {
	Label string
	Key   string
	D     time.Duration
}{
	{"1 час", "1h", time.Hour},
	{"3 часа", "3h", 3 * time.Hour},
	{"12 часов", "12h", 12 * time.Hour},
	{"1 день", "1d", 24 * time.Hour},
	{"7 дней", "7d", 7 * 24 * time.Hour},
	{"30 дней", "30d", 30 * 24 * time.Hour},
	{"Навсегда", "perm", 0},
}

// ---------------- ban flow ------------------

func (h *Handler) startBan(adminID int64) {
	h.Sessions.Begin(adminID, models.StepAwaitBanTarget)
	h.send(adminID, "Введите ID пользователя для бана")
}

// handleBanTarget validates the target exists before offering
// durations.
func (h *Handler) handleBanTarget(adminID int64, text string) {
	target, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		h.Sessions.Reset(adminID)
		h.send(adminID, "❌ Это не похоже на ID")
		return
	}
	u, err := h.DB.GetUser(target)
	if err != nil {
		h.Sessions.Reset(adminID)
		h.Log.Error().Err(err).Int64("target", target).Msg("user lookup failed")
		h.send(adminID, "❌ Ошибка при проверке пользователя")
		return
	}
	if u == nil {
		h.Sessions.Reset(adminID)
		h.send(adminID, "Пользователь не найден")
		return
	}

	h.Sessions.Put(adminID, flowBan, "target", strconv.FormatInt(target, 10))
	h.Sessions.SetStep(adminID, models.StepAwaitBanDuration)

	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, d := range banDurations {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(d.Label, "ban:dur:"+d.Key))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	h.sendWithKeyboard(adminID, "Выберите срок бана", tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (h *Handler) handleBanDuration(adminID int64, key string) {
	if h.Sessions.Step(adminID) != models.StepAwaitBanDuration {
		return
	}
	var until time.Time
	found := false
	for _, d := range banDurations {
		if d.Key == key {
			found = true
			if d.D > 0 {
				until = h.Clock.Now().Add(d.D)
			}
			break
		}
	}
	if !found {
		return
	}

	untilStr := "perm"
	if !until.IsZero() {
		untilStr = strconv.FormatInt(until.Unix(), 10)
	}
	h.Sessions.Put(adminID, flowBan, "until", untilStr)
	h.Sessions.SetStep(adminID, models.StepAwaitBanReason)
	h.send(adminID, "Укажите причину (или «-» чтобы пропустить)")
}

// handleBanReason commits: ban row upsert, admin-log append and a
// best-effort notice to the target. A failed notice never surfaces as
// an admin error.
func (h *Handler) handleBanReason(adminID int64, text string) {
	target, err := strconv.ParseInt(h.Sessions.Get(adminID, flowBan, "target"), 10, 64)
	if err != nil {
		h.Sessions.Reset(adminID)
		h.send(adminID, "❌ Ошибка ввода")
		return
	}
	var until time.Time
	untilStr := h.Sessions.Get(adminID, flowBan, "until")
	if untilStr != "perm" {
		ts, err := strconv.ParseInt(untilStr, 10, 64)
		if err != nil {
			h.Sessions.Reset(adminID)
			h.send(adminID, "❌ Ошибка ввода")
			return
		}
		until = time.Unix(ts, 0)
	}

	reason := strings.TrimSpace(text)
	if reason == "-" {
		reason = ""
	}

	err = h.DB.UpsertBan(&models.Ban{ChatID: target, Until: until, Reason: reason})
	h.Sessions.Reset(adminID)
	if err != nil {
		h.Log.Error().Err(err).Int64("target", target).Msg("ban upsert failed")
		h.send(adminID, "❌ Не удалось сохранить бан")
		return
	}

	scope := "навсегда"
	if !until.IsZero() {
		scope = "до " + until.In(h.Clock.Location()).Format("2006-01-02 15:04")
	}
	h.logAdmin(adminID, "ban", target, fmt.Sprintf("until=%s reason=%q", scope, reason))

	notice := "🚫 Вы заблокированы " + scope
	if reason != "" {
		notice += "\nПричина: " + reason
	}
	h.Notify.Deliver(target, notice)

	h.send(adminID, "🚫 Бан наложен ("+scope+")")
}

// ---------------- broadcast -----------------

func (h *Handler) startBroadcast(adminID int64) {
	h.Sessions.Begin(adminID, models.StepAwaitBroadcastText)
	h.send(adminID, "Введите текст рассылки")
}

func (h *Handler) handleBroadcastText(adminID int64, text string) {
	h.Sessions.Put(adminID, flowBcast, "text", text)
	h.Sessions.SetStep(adminID, models.StepAwaitBroadcastConfirm)

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📤 Отправить", "bcast:go"),
			tgbotapi.NewInlineKeyboardButtonData("Отмена", "bcast:cancel"),
		),
	)
	h.sendWithKeyboard(adminID, "Предпросмотр:\n\n"+text, kb)
}

// handleBroadcastDecision fans the cached text out to every accepted
// user. Per-recipient failures are counted, never abort the fan-out.
func (h *Handler) handleBroadcastDecision(adminID int64, action string) {
	if h.Sessions.Step(adminID) != models.StepAwaitBroadcastConfirm {
		return
	}
	text := h.Sessions.Get(adminID, flowBcast, "text")
	h.Sessions.Reset(adminID)

	if action != "go" {
		h.send(adminID, "Рассылка отменена")
		return
	}

	users, err := h.DB.ListAcceptedUsers()
	if err != nil {
		h.Log.Error().Err(err).Msg("broadcast recipients query failed")
		h.send(adminID, "❌ Не удалось получить получателей")
		return
	}

	sent, failed := 0, 0
	for _, u := range users {
		if h.Notify.Deliver(u.ChatID, text).Sent {
			sent++
		} else {
			failed++
		}
	}

	h.logAdmin(adminID, "broadcast", 0, fmt.Sprintf("sent=%d failed=%d", sent, failed))
	h.send(adminID, fmt.Sprintf("📢 Рассылка завершена\nОтправлено: %d\nОшибок: %d", sent, failed))
}
