package server

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aristath/riskwatch/internal/modules/risk"
)

// setupRiskRoutes configures concentration, VaR and structure routes
func (s *Server) setupRiskRoutes(r chi.Router) {
	r.Route("/risk", func(r chi.Router) {
		r.Post("/hhi", s.handleHHI)
		r.Post("/var", s.handleVaR)
	})
	r.Post("/portfolio/structure", s.handleStructure)
}

// hhiRequest is the payload for POST /api/risk/hhi
type hhiRequest struct {
	Weights []float64 `json:"weights"`
}

// handleHHI computes the concentration index for a weight list
func (s *Server) handleHHI(w http.ResponseWriter, r *http.Request) {
	var req hhiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	hhi := risk.HHI(req.Weights)

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"hhi":   math.Round(hhi*10000) / 10000,
		"label": risk.ClassifyHHI(hhi),
	})
}

// varRequest is the payload for POST /api/risk/var
type varRequest struct {
	Tickers    []string  `json:"tickers"`
	Weights    []float64 `json:"weights,omitempty"`
	Confidence float64   `json:"confidence,omitempty"`
}

// varResponse is the outcome of a VaR calculation. Tickers lists the
// symbols that had usable return history; Note explains a degraded
// result.
type varResponse struct {
	Tickers            []string `json:"tickers"`
	Confidence         float64  `json:"confidence"`
	VaR                float64  `json:"var"`
	CorrelationSummary string   `json:"correlation_summary"`
	Note               string   `json:"note,omitempty"`
}

// handleVaR computes historical-simulation VaR over 2-year daily returns
func (s *Server) handleVaR(w http.ResponseWriter, r *http.Request) {
	var req varRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Tickers) == 0 {
		s.writeError(w, http.StatusBadRequest, "ティッカーが指定されていません。")
		return
	}

	confidence := req.Confidence
	if confidence == 0 {
		confidence = 0.95
	}
	if confidence <= 0 || confidence >= 1 {
		s.writeError(w, http.StatusBadRequest, "confidence must be between 0 and 1")
		return
	}

	resp := varResponse{Tickers: []string{}, Confidence: confidence}

	table := s.riskService.FetchReturns(req.Tickers)
	if table.Empty() {
		resp.Note = "リターンデータなし"
		s.writeJSON(w, http.StatusOK, resp)
		return
	}

	weights := risk.AlignWeights(req.Tickers, table.Tickers, req.Weights)
	resp.Tickers = table.Tickers
	resp.VaR = risk.VaR(table, weights, confidence)
	resp.CorrelationSummary = risk.TopCorrelatedPair(risk.CorrelationMatrix(table))

	s.writeJSON(w, http.StatusOK, resp)
}

// structureRequest is the payload for POST /api/portfolio/structure
type structureRequest struct {
	Positions map[string]float64 `json:"positions"`
}

// handleStructure summarizes portfolio composition from market values
func (s *Server) handleStructure(w http.ResponseWriter, r *http.Request) {
	var req structureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.writeJSON(w, http.StatusOK, s.riskService.Structure(req.Positions))
}
