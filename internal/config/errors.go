package config

import "errors"

var (
	ErrNoToken         = errors.New("config: telegram token missing (docker secret and TELEGRAM_BOT_TOKEN both empty)")
	ErrBadBirthdayHour = errors.New("config: BIRTHDAY_HOUR must be 0..23")
)
