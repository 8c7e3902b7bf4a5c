package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof" // Profiling

	"github.com/HonungsGrabb/rpg-together/internal/config"
	"github.com/HonungsGrabb/rpg-together/internal/network"
	"github.com/HonungsGrabb/rpg-together/internal/persist"
	"github.com/HonungsGrabb/rpg-together/internal/version"
	"github.com/HonungsGrabb/rpg-together/pkg/logger"
)

type Server struct {
	Hub      *network.Hub
	Store    persist.CharacterStore
	Presence persist.PresenceStore
	Cfg      *config.Config
}

func New(hub *network.Hub, store persist.CharacterStore, presence persist.PresenceStore, cfg *config.Config) *Server {
	return &Server{
		Hub:      hub,
		Store:    store,
		Presence: presence,
		Cfg:      cfg,
	}
}

// Run запускает HTTP сервер
func (s *Server) Run() error {
	mux := http.DefaultServeMux

	// Регистрируем роуты
	mux.HandleFunc("/ws", enableCORS(s.handleWS))
	mux.HandleFunc("/health", enableCORS(s.handleHealth))
	mux.HandleFunc("/version", enableCORS(s.handleVersion))
	mux.HandleFunc("/online", enableCORS(s.handleOnline))

	debugHandler := NewDebugHandler(s)
	debugHandler.RegisterRoutes(mux)

	addr := fmt.Sprintf("%s:%d", s.Cfg.Server.Host, s.Cfg.Server.Port)
	logger.Log.Infof("🗡️  RPG Together server running on %s", addr)
	return http.ListenAndServe(addr, mux)
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Разрешаем запросы с фронтенда
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		next(w, r)
	}
}

// handleWS обрабатывает подключение по WebSocket
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("Upgrade error:", err)
		return
	}

	client := NewClient(s, conn)

	// Запускаем пампы
	go client.writePump()
	go client.readPump()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(version.Info())
}

// handleOnline возвращает таблицу присутствия: кто сейчас в мире и где.
func (s *Server) handleOnline(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Presence.ListOnline(r.Context(), s.Cfg.Game.PresenceCutoff)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if rows == nil {
		w.Write([]byte("[]"))
		return
	}
	json.NewEncoder(w).Encode(rows)
}
