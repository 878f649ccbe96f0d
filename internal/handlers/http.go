// internal/handlers/http.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
)

var startTime = time.Now()

// apiResponse is the envelope for every /api payload.
type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: data})
}

func writeList(w http.ResponseWriter, data interface{}, count int) {
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: data, Count: &count})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apiResponse{Success: false, Error: msg})
}

// APIRouter exposes the read-only REST surface: room listings, the game
// catalog, and server stats. Everything mutating goes over WebSocket.
func (s *Server) APIRouter() chi.Router {
	r := chi.NewRouter()

	r.Get("/rooms", func(w http.ResponseWriter, req *http.Request) {
		states := s.Rooms.States()
		// Room list changes frequently; cache briefly.
		w.Header().Set("Cache-Control", "public, max-age=30")
		writeList(w, states, len(states))
	})

	r.Get("/rooms/{roomID}", func(w http.ResponseWriter, req *http.Request) {
		roomID := chi.URLParam(req, "roomID")
		rm, ok := s.Rooms.Get(roomID)
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Room '%s' not found", roomID))
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=10")
		writeData(w, rm.State())
	})

	r.Get("/games", func(w http.ResponseWriter, req *http.Request) {
		games := s.Registry.All()
		// The catalog only changes on deploy.
		w.Header().Set("Cache-Control", "public, max-age=3600")
		writeList(w, games, len(games))
	})

	r.Get("/games/{gameType}", func(w http.ResponseWriter, req *http.Request) {
		gameType := chi.URLParam(req, "gameType")
		meta, ok := s.Registry.Metadata(gameType)
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Game type '%s' not found", gameType))
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=3600")
		writeData(w, meta)
	})

	r.Get("/stats", func(w http.ResponseWriter, req *http.Request) {
		states := s.Rooms.States()
		activeGames := 0
		for _, st := range states {
			if st.HasActiveGame {
				activeGames++
			}
		}
		w.Header().Set("Cache-Control", "public, max-age=30")
		writeData(w, map[string]int{
			"totalRooms":  len(states),
			"activeGames": activeGames,
			"lobbies":     len(states) - activeGames,
		})
	})

	return r
}

// HealthHandler reports liveness plus coarse runtime numbers.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"uptime":    time.Since(startTime).Seconds(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"memory": map[string]uint64{
				"heapAlloc":  mem.HeapAlloc,
				"heapSys":    mem.HeapSys,
				"goroutines": uint64(runtime.NumGoroutine()),
			},
		})
	}
}
