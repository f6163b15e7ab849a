// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/ballot-ledger/cliparse"
	"github.com/danielhkuo/ballot-ledger/handlers"
	"github.com/danielhkuo/ballot-ledger/ledger"
	"github.com/danielhkuo/ballot-ledger/middleware"
)

func NewRouter(l *ledger.Ledger, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	electionHandler := handlers.NewElectionHandler(l, cfg)
	candidateHandler := handlers.NewCandidateHandler(l, cfg)
	votingHandler := handlers.NewVotingHandler(l, cfg)
	resultsHandler := handlers.NewResultsHandler(l, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("GET /me", middleware.WithLogging(electionHandler.WhoAmI))

	// Elections
	mux.HandleFunc("POST /elections", middleware.WithLogging(electionHandler.CreateElection))
	mux.HandleFunc("GET /elections", middleware.WithLogging(electionHandler.ListElections))
	mux.HandleFunc("GET /elections/{id}", middleware.WithLogging(electionHandler.GetElection))
	mux.HandleFunc("POST /elections/{id}/toggle", middleware.WithLogging(electionHandler.ToggleElection))
	mux.HandleFunc("POST /elections/{id}/end", middleware.WithLogging(electionHandler.EndElection))

	// Candidates
	mux.HandleFunc("POST /elections/{id}/candidates", middleware.WithLogging(candidateHandler.AddCandidate))
	mux.HandleFunc("GET /elections/{id}/candidates", middleware.WithLogging(candidateHandler.ListCandidates))
	mux.HandleFunc("GET /elections/{id}/candidates/{cid}", middleware.WithLogging(candidateHandler.GetCandidate))
	mux.HandleFunc("PUT /elections/{id}/candidates/{cid}", middleware.WithLogging(candidateHandler.UpdateCandidate))
	mux.HandleFunc("POST /elections/{id}/candidates/{cid}/active", middleware.WithLogging(candidateHandler.SetCandidateActive))

	// Voting
	mux.HandleFunc("POST /elections/{id}/votes", middleware.WithLogging(votingHandler.CastVote))
	mux.HandleFunc("GET /elections/{id}/votes", middleware.WithLogging(votingHandler.ListVotes))
	mux.HandleFunc("GET /elections/{id}/voters/{voter...}", middleware.WithLogging(votingHandler.GetVoteStatus))

	// Results are live
	mux.HandleFunc("GET /elections/{id}/winners", middleware.WithLogging(resultsHandler.GetWinners))
	mux.HandleFunc("GET /elections/{id}/results", middleware.WithLogging(resultsHandler.GetResults))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ballot-ledger API v1"))
	})

	return mux
}
