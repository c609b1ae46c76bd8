package app

import (
	"log/slog"

	"securechat/internal/domain"
	"securechat/internal/notify"
	"securechat/internal/registry"
	"securechat/internal/relay"
	hardenedsvc "securechat/internal/services/hardened"
	keyringsvc "securechat/internal/services/keyring"
	messagesvc "securechat/internal/services/message"
	"securechat/internal/store"
	"securechat/internal/transport"
)

// Wire bundles all stores, services and collaborators.
type Wire struct {
	Keyring  domain.KeyringService
	Messages domain.MessageService
	Hardened domain.HardenedService

	Directory domain.KeyDirectory
	Events    domain.EventLog
	Store     domain.MessageStore
	Sessions  domain.SessionStore
	Registry  *registry.Registry
	Transport domain.Transport
	Notifier  domain.Notifier
	Logger    *slog.Logger
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	// File-based stores
	keyringStore := store.NewKeyringFileStore(cfg.Home)
	keydirStore := store.NewKeyDirFileStore(cfg.Home)
	sessionStore := store.NewSessionFileStore(cfg.Home)
	messageStore := store.NewMessageFileStore(cfg.Home)
	eventLog := store.NewEventFileLog(cfg.Home)

	// Directory and transport: a configured server takes over both, the
	// local hub serves the daemon and tests.
	reg := registry.New()
	var dir domain.KeyDirectory = keydirStore
	var trans domain.Transport = transport.NewHub(reg, log)
	if cfg.ServerURL != "" {
		rc := relay.NewHTTP(cfg.ServerURL)
		dir = rc
		trans = rc
	}

	var notifier domain.Notifier = notify.Disabled{}
	if cfg.SMTPAddr != "" {
		notifier = notify.NewSMTP(cfg.SMTPAddr, cfg.SMTPFrom, cfg.SMTPAuth)
	}

	// High-level services
	keyringSvc := keyringsvc.New(keyringStore, dir)
	messageSvc := messagesvc.New(keyringSvc, dir, messageStore, eventLog, trans)
	hardenedSvc := hardenedsvc.New(sessionStore, messageStore, eventLog, dir, notifier, log, cfg.MaxAttempts)

	return &Wire{
		Keyring:   keyringSvc,
		Messages:  messageSvc,
		Hardened:  hardenedSvc,
		Directory: dir,
		Events:    eventLog,
		Store:     messageStore,
		Sessions:  sessionStore,
		Registry:  reg,
		Transport: trans,
		Notifier:  notifier,
		Logger:    log,
	}, nil
}
