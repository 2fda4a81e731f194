package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/yourusername/nba-edge/internal/analyzer"
	"github.com/yourusername/nba-edge/internal/models"
)

// AnalyzeRequest is the JSON body of POST /api/v1/analyze.
type AnalyzeRequest struct {
	Home            string  `json:"home"`
	Away            string  `json:"away"`
	HomeOdds        float64 `json:"home_odds"`
	AwayOdds        float64 `json:"away_odds"`
	BetSide         string  `json:"bet_side"`
	Bankroll        float64 `json:"bankroll"`
	KellyMultiplier float64 `json:"kelly_multiplier"`
	IncludeRaw      bool    `json:"include_raw"`
	Save            bool    `json:"save"`
}

// handleAnalyze runs the full matchup pipeline and broadcasts the report
// to connected dashboards.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	betSide := models.BetSide(req.BetSide)
	if req.BetSide == "" {
		betSide = models.BetSideNone
	}

	report, err := s.analyzer.Run(r.Context(), analyzer.Request{
		HomeTeam:        req.Home,
		AwayTeam:        req.Away,
		Odds:            models.MarketOdds{HomeDecimalOdds: req.HomeOdds, AwayDecimalOdds: req.AwayOdds},
		BetSide:         betSide,
		Bankroll:        req.Bankroll,
		KellyMultiplier: req.KellyMultiplier,
		IncludeRaw:      req.IncludeRaw,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.hub.BroadcastReport(report)

	if req.Save && s.history != nil {
		if _, err := s.history.Save(r.Context(), report); err != nil {
			s.logger.WithError(err).Error("Failed to persist analysis")
		}
	}

	respondJSON(w, http.StatusOK, report)
}

// handlePredict returns the model probabilities only, no market inputs.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	home := r.URL.Query().Get("home")
	away := r.URL.Query().Get("away")
	if home == "" || away == "" {
		respondError(w, http.StatusBadRequest, "home and away query parameters are required")
		return
	}

	analysis := s.predictor.Analyze(r.Context(), home, away)
	respondJSON(w, http.StatusOK, analysis)
}

// handleTeams lists the registered NBA teams.
func (s *Server) handleTeams(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"teams": s.registryNames(),
	})
}

// handleHistory lists persisted analyses when storage is enabled.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		respondError(w, http.StatusNotFound, "analysis history is not enabled")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 500 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer up to 500")
			return
		}
		limit = parsed
	}

	var (
		records []*models.AnalysisRecord
		err     error
	)
	if team := r.URL.Query().Get("team"); team != "" {
		records, err = s.history.ListByTeam(r.Context(), team, limit)
	} else {
		records, err = s.history.ListRecent(r.Context(), limit)
	}
	if err != nil {
		s.logger.WithError(err).Error("Failed to list analysis history")
		respondError(w, http.StatusInternalServerError, "failed to list history")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"analyses": records,
		"count":    len(records),
	})
}

// handleHistoryByID fetches one persisted analysis by its record ID.
func (s *Server) handleHistoryByID(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		respondError(w, http.StatusNotFound, "analysis history is not enabled")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, models.ErrInvalidID.Error())
		return
	}

	record, err := s.history.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			respondError(w, http.StatusNotFound, "analysis not found")
			return
		}
		s.logger.WithError(err).Error("Failed to fetch analysis")
		respondError(w, http.StatusInternalServerError, "failed to fetch analysis")
		return
	}

	respondJSON(w, http.StatusOK, record)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin enforcement is handled by the CORS middleware layer.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWebSocket upgrades the connection and hands it to the hub.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	ctx := s.baseCtx
	if ctx == nil {
		ctx = context.Background()
	}
	s.hub.Attach(ctx, conn)
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
