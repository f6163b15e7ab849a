// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/ballot-ledger/cliparse"
	"github.com/danielhkuo/ballot-ledger/ledger"
	"github.com/danielhkuo/ballot-ledger/middleware"
	"github.com/danielhkuo/ballot-ledger/models"
)

type ResultsHandler struct {
	ledger *ledger.Ledger
	cfg    cliparse.Config
}

func NewResultsHandler(l *ledger.Ledger, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{ledger: l, cfg: cfg}
}

// GetWinners handles GET /elections/{id}/winners
// Results are live; there is no sealing while the election runs.
func (h *ResultsHandler) GetWinners(w http.ResponseWriter, r *http.Request) {
	electionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	winners, err := h.ledger.ComputeWinners(electionID)
	if err != nil {
		ledgerError(w, err, "failed to compute winners", "election_id", electionID)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.WinnersResponse{
		ElectionID: electionID,
		Winners:    winners,
		Tied:       len(winners) > 1,
	})
}

// GetResults handles GET /elections/{id}/results
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	electionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	standings, err := h.ledger.Standings(electionID)
	if err != nil {
		ledgerError(w, err, "failed to compute standings", "election_id", electionID)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, standings)
}
