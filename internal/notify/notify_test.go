package notify

import (
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type stubSender struct{ err error }

func (s stubSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	return tgbotapi.Message{}, s.err
}

func TestDeliverReportsOutcome(t *testing.T) {
	d := &Dispatcher{Bot: stubSender{}, Log: zerolog.Nop()}
	assert.True(t, d.Deliver(1, "привет").Sent)

	boom := errors.New("boom")
	d = &Dispatcher{Bot: stubSender{err: boom}, Log: zerolog.Nop()}
	res := d.Deliver(1, "привет")
	assert.False(t, res.Sent)
	assert.Equal(t, boom, res.Err)
}
