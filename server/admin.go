package server

import (
	"encoding/json"
	"net/http"
)

// HandleMetrics 输出竞技场的运行指标
// GET /metrics
func HandleMetrics(arena *Arena) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		payload := map[string]any{
			"players": arena.Len(),
			"metrics": arena.Metrics().Snapshot(),
		}
		writeJSON(w, payload)
	}
}

// HandleState 输出当前世界快照，结构与广播一致
// GET /state
func HandleState(arena *Arena) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, arena.Snapshot())
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		Log.Warnf("write json: %v", err)
	}
}
