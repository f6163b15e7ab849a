// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/ballot-ledger/cliparse"
	"github.com/danielhkuo/ballot-ledger/ledger"
	"github.com/danielhkuo/ballot-ledger/middleware"
	"github.com/danielhkuo/ballot-ledger/models"
)

type CandidateHandler struct {
	ledger *ledger.Ledger
	cfg    cliparse.Config
}

func NewCandidateHandler(l *ledger.Ledger, cfg cliparse.Config) *CandidateHandler {
	return &CandidateHandler{ledger: l, cfg: cfg}
}

// AddCandidate handles POST /elections/{id}/candidates
func (h *CandidateHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r, h.cfg.IdentitySalt)
	if !ok {
		return
	}
	electionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.CandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	c, err := h.ledger.AddCandidate(r.Context(), caller, electionID, req.Name, req.Bio, req.Profile, req.ImageRef)
	if err != nil {
		ledgerError(w, err, "failed to add candidate", "election_id", electionID)
		return
	}

	slog.Info("candidate added", "election_id", electionID, "candidate_id", c.ID)

	middleware.JSONResponse(w, http.StatusCreated, c)
}

// ListCandidates handles GET /elections/{id}/candidates
func (h *CandidateHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	electionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	candidates, err := h.ledger.GetAllCandidates(electionID)
	if err != nil {
		ledgerError(w, err, "failed to list candidates", "election_id", electionID)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, candidates)
}

// GetCandidate handles GET /elections/{id}/candidates/{cid}
func (h *CandidateHandler) GetCandidate(w http.ResponseWriter, r *http.Request) {
	electionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	candidateID, ok := pathID(w, r, "cid")
	if !ok {
		return
	}

	c, err := h.ledger.GetCandidate(electionID, candidateID)
	if err != nil {
		ledgerError(w, err, "failed to get candidate", "election_id", electionID)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, c)
}

// UpdateCandidate handles PUT /elections/{id}/candidates/{cid}
func (h *CandidateHandler) UpdateCandidate(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r, h.cfg.IdentitySalt)
	if !ok {
		return
	}
	electionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	candidateID, ok := pathID(w, r, "cid")
	if !ok {
		return
	}

	var req models.CandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	c, err := h.ledger.UpdateCandidate(r.Context(), caller, electionID, candidateID, req.Name, req.Bio, req.Profile, req.ImageRef)
	if err != nil {
		ledgerError(w, err, "failed to update candidate", "election_id", electionID, "candidate_id", candidateID)
		return
	}

	slog.Info("candidate updated", "election_id", electionID, "candidate_id", c.ID)

	middleware.JSONResponse(w, http.StatusOK, c)
}

// SetCandidateActive handles POST /elections/{id}/candidates/{cid}/active
func (h *CandidateHandler) SetCandidateActive(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r, h.cfg.IdentitySalt)
	if !ok {
		return
	}
	electionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	candidateID, ok := pathID(w, r, "cid")
	if !ok {
		return
	}

	var req models.SetCandidateActiveRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Active == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "active is required")
		return
	}

	c, err := h.ledger.SetCandidateActive(r.Context(), caller, electionID, candidateID, *req.Active)
	if err != nil {
		ledgerError(w, err, "failed to set candidate active", "election_id", electionID, "candidate_id", candidateID)
		return
	}

	slog.Info("candidate visibility set", "election_id", electionID, "candidate_id", c.ID, "is_active", c.IsActive)

	middleware.JSONResponse(w, http.StatusOK, c)
}
