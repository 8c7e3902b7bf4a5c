package server

import (
	"encoding/json"
	"net/http"
)

// DebugHandler предоставляет доступ к внутреннему состоянию сервера
type DebugHandler struct {
	srv *Server
}

func NewDebugHandler(s *Server) *DebugHandler {
	return &DebugHandler{srv: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/subscribers", h.handleSubscribers)
}

// /debug/subscribers - сколько клиентов подписано на хаб
func (h *DebugHandler) handleSubscribers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]int{"subscribers": h.srv.Hub.SubscriberCount()})
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	if data == nil {
		w.Write([]byte("[]"))
		return
	}

	json.NewEncoder(w).Encode(data)
}
