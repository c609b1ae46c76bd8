package main

import (
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/websocket"

	"securechat/internal/app"
	"securechat/internal/domain"
	"securechat/internal/transport"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

func main() {
	var (
		listen   = flag.String("listen", ":8080", "listen address")
		home     = flag.String("home", "", "data dir (default ~/.securechat-server)")
		smtpAddr = flag.String("smtp-addr", "", "SMTP endpoint for lockdown notifications")
		smtpFrom = flag.String("smtp-from", "securechat@localhost", "From address for notifications")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *home == "" {
		dir, err := os.UserHomeDir()
		if err != nil {
			log.Error("resolve home dir", "err", err)
			os.Exit(1)
		}
		*home = dir + "/.securechat-server"
	}
	if err := os.MkdirAll(*home, 0o700); err != nil {
		log.Error("create data dir", "err", err)
		os.Exit(1)
	}

	wire, err := app.NewWire(app.Config{
		Home:     *home,
		SMTPAddr: *smtpAddr,
		SMTPFrom: *smtpFrom,
		Logger:   log,
	})
	if err != nil {
		log.Error("wire dependencies", "err", err)
		os.Exit(1)
	}

	srv := &server{wire: wire, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /keys", srv.handlePublishKeys)
	mux.HandleFunc("GET /keys/{identity}", srv.handleFetchKeys)
	mux.HandleFunc("POST /envelope", srv.handleEnvelope)
	mux.HandleFunc("GET /ws", srv.handleWS)

	log.Info("chatd listening", "addr", *listen)
	if err := http.ListenAndServe(*listen, mux); err != nil {
		log.Error("serve", "err", err)
		os.Exit(1)
	}
}

type server struct {
	wire *app.Wire
	log  *slog.Logger
}

func (s *server) handlePublishKeys(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var rec domain.PublicKeyRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(rec.Identity.String()) == "" {
		http.Error(w, "missing identity", http.StatusBadRequest)
		return
	}
	if err := s.wire.Directory.SetPublicKeys(rec); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.log.Info("published keys", "identity", rec.Identity.String())
	w.WriteHeader(http.StatusOK)
}

func (s *server) handleFetchKeys(w http.ResponseWriter, r *http.Request) {
	id := domain.Identity(r.PathValue("identity"))
	rec, ok, err := s.wire.Directory.PublicKeys(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(rec)
}

func (s *server) handleEnvelope(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var env domain.Envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.wire.Store.AppendEnvelope(domain.PairID(env.From, env.To), env); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.wire.Transport.Push(env.To, env)
	w.WriteHeader(http.StatusOK)
}

// handleWS registers a push connection for an identity and keeps it until
// the peer disconnects.
func (s *server) handleWS(w http.ResponseWriter, r *http.Request) {
	id := domain.Identity(r.URL.Query().Get("identity"))
	if id == "" {
		http.Error(w, "missing identity", http.StatusBadRequest)
		return
	}
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	conn := transport.NewWSConn(ws)
	s.wire.Registry.Register(id, conn)
	s.log.Info("connected", "identity", id.String(), "online", s.wire.Registry.Online())

	// Reads only serve to detect disconnect; clients receive pushes.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
	s.wire.Registry.Unregister(id, conn)
	_ = ws.Close()
	s.log.Info("disconnected", "identity", id.String(), "online", s.wire.Registry.Online())
}
