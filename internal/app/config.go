package app

import (
	"log/slog"
	"net/smtp"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home      string // data directory, e.g. $HOME/.securechat
	ServerURL string // optional chatd base URL; empty means fully local

	SMTPAddr string // optional SMTP endpoint for lockdown notifications
	SMTPFrom string
	SMTPAuth smtp.Auth // optional

	MaxAttempts int // failed-unlock threshold; 0 selects the default of 3

	Logger *slog.Logger // optional; defaults to slog.Default
}
