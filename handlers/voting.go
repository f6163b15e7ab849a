// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/ballot-ledger/cliparse"
	"github.com/danielhkuo/ballot-ledger/ledger"
	"github.com/danielhkuo/ballot-ledger/middleware"
	"github.com/danielhkuo/ballot-ledger/models"
)

type VotingHandler struct {
	ledger *ledger.Ledger
	cfg    cliparse.Config
}

func NewVotingHandler(l *ledger.Ledger, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{ledger: l, cfg: cfg}
}

// CastVote handles POST /elections/{id}/votes
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	voter, ok := callerIdentity(w, r, h.cfg.IdentitySalt)
	if !ok {
		return
	}
	electionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.CandidateID == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate_id is required")
		return
	}

	rec, err := h.ledger.CastVote(r.Context(), voter, electionID, *req.CandidateID)
	if err != nil {
		ledgerError(w, err, "failed to cast vote", "election_id", electionID)
		return
	}

	slog.Info("vote cast",
		"election_id", rec.ElectionID,
		"candidate_id", rec.CandidateID,
		"seq", rec.Seq,
		"receipt_id", rec.ReceiptID,
	)

	middleware.JSONResponse(w, http.StatusCreated, rec)
}

// ListVotes handles GET /elections/{id}/votes
// The log is streamed as a JSON array in commit order.
func (h *VotingHandler) ListVotes(w http.ResponseWriter, r *http.Request) {
	electionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	votes, err := h.ledger.ListVotes(electionID)
	if err != nil {
		ledgerError(w, err, "failed to list votes", "election_id", electionID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// Headers are already sent, so a failed write can only end the stream.
	abort := func(err error) {
		slog.Error("vote log stream aborted", "election_id", electionID, "error", err)
	}

	enc := json.NewEncoder(w)
	sep := "["
	for v := range votes {
		if _, err := w.Write([]byte(sep)); err != nil {
			abort(err)
			return
		}
		if err := enc.Encode(v); err != nil {
			abort(err)
			return
		}
		sep = ","
	}
	if sep == "[" {
		if _, err := w.Write([]byte(sep)); err != nil {
			abort(err)
			return
		}
	}
	if _, err := w.Write([]byte("]\n")); err != nil {
		abort(err)
	}
}

// GetVoteStatus handles GET /elections/{id}/voters/{voter...}
// The voter is the rest of the path and may contain slashes.
func (h *VotingHandler) GetVoteStatus(w http.ResponseWriter, r *http.Request) {
	electionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	voter := models.Identity(r.PathValue("voter"))
	if voter == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter is required")
		return
	}

	rec, voted, err := h.ledger.GetVoteRecord(electionID, voter)
	if err != nil {
		ledgerError(w, err, "failed to get vote record", "election_id", electionID)
		return
	}

	resp := models.VoteStatusResponse{
		ElectionID: electionID,
		Voter:      voter,
		HasVoted:   voted,
	}
	if voted {
		resp.Record = &rec
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
