package server

import (
	"encoding/json"
	"net/http"

	"tactics-server/internal/engine"
)

// DebugHandler предоставляет доступ к внутреннему состоянию движка
type DebugHandler struct {
	Service *engine.GameService
}

func NewDebugHandler(s *engine.GameService) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/state", h.handleDumpState)
	mux.HandleFunc("/debug/turn-order", h.handleTurnOrder)
}

// /debug/state - полный дамп состояния симуляции (включая скрытые статы)
func (h *DebugHandler) handleDumpState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.CurrentState())
}

// /debug/turn-order - просмотр порядка ходов
func (h *DebugHandler) handleTurnOrder(w http.ResponseWriter, r *http.Request) {
	st := h.Service.CurrentState()

	type TurnItemView struct {
		EntityID   string `json:"entity_id"`
		Name       string `json:"name"`
		Initiative int    `json:"initiative"`
		IsAlive    bool   `json:"is_alive"`
		IsCurrent  bool   `json:"is_current"`
	}

	var dump []TurnItemView
	for i, id := range st.Turn.Order {
		item := TurnItemView{
			EntityID:  id,
			IsCurrent: i == st.Turn.CurrentIndex,
		}
		if e, ok := st.Entities[id]; ok {
			item.Name = e.Name
			item.Initiative = e.Initiative
			item.IsAlive = e.IsAlive
		}
		dump = append(dump, item)
	}

	writeJSON(w, dump)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	// Разрешаем запросы с любого источника (нужно для локального debug_client.html)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	// Если data == nil (например, пустой порядок), возвращаем [], а не null
	if data == nil {
		w.Write([]byte("[]"))
		return
	}

	json.NewEncoder(w).Encode(data)
}
