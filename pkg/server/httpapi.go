package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vctt94/cardcounter/pkg/server/internal/db"
	"github.com/vctt94/cardcounter/pkg/suspicion"
	"github.com/vctt94/cardcounter/pkg/table"
)

type tableSummary struct {
	ID        string    `json:"id"`
	HumanID   string    `json:"humanId,omitempty"`
	Phase     string    `json:"phase"`
	CreatedAt time.Time `json:"createdAt"`
}

type heatMapResponse struct {
	TableID    string                 `json:"tableId"`
	Points     []suspicion.HeatPoint  `json:"points"`
	Buckets    []suspicion.HeatBucket `json:"buckets"`
	Discretion float64                `json:"discretion"`
}

type sessionJSON struct {
	TableID       string    `json:"tableId"`
	HandsPlayed   int       `json:"handsPlayed"`
	HandsSatOut   int       `json:"handsSatOut"`
	Wins          int       `json:"wins"`
	Losses        int       `json:"losses"`
	Pushes        int       `json:"pushes"`
	Blackjacks    int       `json:"blackjacks"`
	Net           int64     `json:"net"`
	Reports       int       `json:"reports"`
	PeakAttention float64   `json:"peakAttention"`
	Accuracy      float64   `json:"accuracy"`
	Score         int       `json:"score"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type playerStatsResponse struct {
	PlayerID string        `json:"playerId"`
	Balance  int64         `json:"balance"`
	TableID  string        `json:"tableId,omitempty"`
	Live     *table.Stats  `json:"live,omitempty"`
	Sessions []sessionJSON `json:"sessions"`
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// Router serves the read-only status API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		n := len(s.tables)
		s.mu.RUnlock()
		writeJSON(w, map[string]any{"ok": true, "tables": n})
	})

	r.Get("/api/tables", func(w http.ResponseWriter, r *http.Request) {
		out := []tableSummary{}
		for _, t := range s.Tables() {
			out = append(out, tableSummary{
				ID:        t.ID(),
				HumanID:   t.HumanID(),
				Phase:     string(t.Phase()),
				CreatedAt: t.CreatedAt(),
			})
		}
		writeJSON(w, out)
	})

	r.Route("/api/tables/{id}", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			t, err := s.getTable(chi.URLParam(r, "id"))
			if err != nil {
				http.Error(w, "table not found", http.StatusNotFound)
				return
			}
			writeJSON(w, t.Snapshot())
		})
		r.Get("/heatmap", func(w http.ResponseWriter, r *http.Request) {
			t, err := s.getTable(chi.URLParam(r, "id"))
			if err != nil {
				http.Error(w, "table not found", http.StatusNotFound)
				return
			}
			points, buckets, discretion := t.HeatMap()
			writeJSON(w, heatMapResponse{
				TableID:    t.ID(),
				Points:     points,
				Buckets:    buckets,
				Discretion: discretion,
			})
		})
	})

	r.Get("/api/players/{id}/stats", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		balance, err := s.db.GetPlayerBalance(id)
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "player not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		sessions, err := s.db.LoadSessionStats(id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		resp := playerStatsResponse{PlayerID: id, Balance: balance, Sessions: []sessionJSON{}}
		for _, ss := range sessions {
			resp.Sessions = append(resp.Sessions, sessionJSON{
				TableID:       ss.TableID,
				HandsPlayed:   ss.HandsPlayed,
				HandsSatOut:   ss.HandsSatOut,
				Wins:          ss.Wins,
				Losses:        ss.Losses,
				Pushes:        ss.Pushes,
				Blackjacks:    ss.Blackjacks,
				Net:           ss.Net,
				Reports:       ss.Reports,
				PeakAttention: ss.PeakAttention,
				Accuracy:      ss.Accuracy,
				Score:         ss.Score,
				UpdatedAt:     ss.UpdatedAt,
			})
		}

		s.mu.RLock()
		tableID, ok := s.seated[id]
		s.mu.RUnlock()
		if ok {
			if t, err := s.getTable(tableID); err == nil {
				live := t.Stats()
				resp.TableID = tableID
				resp.Live = &live
			}
		}
		writeJSON(w, resp)
	})

	return r
}
