// Package notify is the thin adapter between a due event and an
// outbound message. Transport failures stop here: callers get a
// Result, never an error to propagate.
package notify

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Sender is the slice of *tgbotapi.BotAPI the dispatcher needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Result struct {
	Sent bool
	Err  error
}

type Dispatcher struct {
	Bot Sender
	Log zerolog.Logger
}

// Deliver sends text to the actor. A failed send is logged and
// reported in the Result; whether that is fatal is the caller's call
// (it never is for checker and broadcast paths).
func (d *Dispatcher) Deliver(chatID int64, text string) Result {
	_, err := d.Bot.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		d.Log.Warn().Err(err).Int64("chat_id", chatID).Msg("delivery failed")
		return Result{Err: err}
	}
	return Result{Sent: true}
}
