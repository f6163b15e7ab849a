// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/ballot-ledger/cliparse"
	"github.com/danielhkuo/ballot-ledger/ledger"
	"github.com/danielhkuo/ballot-ledger/middleware"
	"github.com/danielhkuo/ballot-ledger/models"
)

type ElectionHandler struct {
	ledger *ledger.Ledger
	cfg    cliparse.Config
}

func NewElectionHandler(l *ledger.Ledger, cfg cliparse.Config) *ElectionHandler {
	return &ElectionHandler{ledger: l, cfg: cfg}
}

// WhoAmI handles GET /me
func (h *ElectionHandler) WhoAmI(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r, h.cfg.IdentitySalt)
	if !ok {
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.WhoAmIResponse{
		Identity: identity,
		IsAdmin:  h.ledger.IsAdmin(identity),
	})
}

// CreateElection handles POST /elections
func (h *ElectionHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r, h.cfg.IdentitySalt)
	if !ok {
		return
	}

	var req models.CreateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	e, err := h.ledger.CreateElection(r.Context(), caller, req.Title, req.StartTime, req.EndTime)
	if err != nil {
		ledgerError(w, err, "failed to create election")
		return
	}

	slog.Info("election created", "election_id", e.ID, "title", e.Title)

	middleware.JSONResponse(w, http.StatusCreated, h.view(e, h.ledger.Now()))
}

// ListElections handles GET /elections
// Optional ?status= filters on the derived status.
func (h *ElectionHandler) ListElections(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	switch status {
	case "", models.StatusScheduled, models.StatusOpen, models.StatusClosed, models.StatusPaused, models.StatusEnded:
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "unknown status: "+status)
		return
	}

	now := h.ledger.Now()
	views := []models.ElectionView{}
	for _, e := range h.ledger.GetAllElections() {
		v := h.view(e, now)
		if status != "" && v.Status != status {
			continue
		}
		views = append(views, v)
	}

	middleware.JSONResponse(w, http.StatusOK, views)
}

// GetElection handles GET /elections/{id}
func (h *ElectionHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	electionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	e, err := h.ledger.GetElection(electionID)
	if err != nil {
		ledgerError(w, err, "failed to get election")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, h.view(e, h.ledger.Now()))
}

// ToggleElection handles POST /elections/{id}/toggle
func (h *ElectionHandler) ToggleElection(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r, h.cfg.IdentitySalt)
	if !ok {
		return
	}
	electionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	e, err := h.ledger.ToggleElectionActive(r.Context(), caller, electionID)
	if err != nil {
		ledgerError(w, err, "failed to toggle election", "election_id", electionID)
		return
	}

	slog.Info("election toggled", "election_id", e.ID, "is_active", e.IsActive)

	middleware.JSONResponse(w, http.StatusOK, h.view(e, h.ledger.Now()))
}

// EndElection handles POST /elections/{id}/end
func (h *ElectionHandler) EndElection(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r, h.cfg.IdentitySalt)
	if !ok {
		return
	}
	electionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	e, err := h.ledger.EndElection(r.Context(), caller, electionID)
	if err != nil {
		ledgerError(w, err, "failed to end election", "election_id", electionID)
		return
	}

	slog.Info("election ended", "election_id", e.ID)

	middleware.JSONResponse(w, http.StatusOK, h.view(e, h.ledger.Now()))
}

func (h *ElectionHandler) view(e models.Election, now time.Time) models.ElectionView {
	return models.ElectionView{
		Election: e,
		Status:   e.Status(now),
		Opens:    humanize.RelTime(e.StartTime, now, "ago", "from now"),
		Closes:   humanize.RelTime(e.EndTime, now, "ago", "from now"),
	}
}
