// Package access is the gate in front of every handler: it decides
// whether an inbound event is admitted to the conversational layer.
package access

import (
	"strings"

	"github.com/rs/zerolog"

	"telegram-reminder-bot/internal/clock"
	"telegram-reminder-bot/internal/storage"
)

type Decision int

const (
	Admit Decision = iota
	RejectBanned
	RejectNotAccepted
)

func (d Decision) String() string {
	switch d {
	case Admit:
		return "admit"
	case RejectBanned:
		return "reject_banned"
	case RejectNotAccepted:
		return "reject_not_accepted"
	}
	return "unknown"
}

// Event is the slice of an inbound update the gate looks at.
type Event struct {
	ChatID       int64
	Command      string // bot command without slash, "" otherwise
	CallbackData string // callback payload, "" for plain messages
}

// Callback payloads reachable before consent: the consent button
// itself, and calendar-picker callbacks so an actor mid-flow from a
// previous session does not lose progress.
const ConsentCallback = "accept"

const calendarPrefix = "cal:"

type Gate struct {
	DB      *storage.DB
	Clock   *clock.Clock
	AdminID int64
	Log     zerolog.Logger
}

// Check classifies the event. Ban and consent rejections are
// fail-closed; internal store errors are fail-open (logged, admitted)
// so a gate bug can never brick the bot.
func (g *Gate) Check(ev Event) Decision {
	if ev.ChatID == g.AdminID {
		return Admit
	}

	ban, err := g.DB.GetBan(ev.ChatID)
	if err != nil {
		g.Log.Error().Err(err).Int64("chat_id", ev.ChatID).Msg("gate: ban lookup failed")
	} else if ban != nil {
		if ban.Expired(g.Clock.Now()) {
			// lazy sweep: the row outlived its ban
			if _, err := g.DB.DeleteBan(ev.ChatID); err != nil {
				g.Log.Warn().Err(err).Int64("chat_id", ev.ChatID).Msg("gate: expired ban delete failed")
			}
		} else {
			return RejectBanned
		}
	}

	if g.exempt(ev) {
		return Admit
	}

	u, err := g.DB.GetUser(ev.ChatID)
	if err != nil {
		g.Log.Error().Err(err).Int64("chat_id", ev.ChatID).Msg("gate: user lookup failed")
		return Admit
	}
	if u == nil || !u.Accepted {
		return RejectNotAccepted
	}
	return Admit
}

func (g *Gate) exempt(ev Event) bool {
	if ev.Command == "start" {
		return true
	}
	if ev.CallbackData == ConsentCallback {
		return true
	}
	return strings.HasPrefix(ev.CallbackData, calendarPrefix)
}
