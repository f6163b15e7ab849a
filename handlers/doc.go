// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Ballot Ledger API.

# Handler Types

Each handler is a struct holding the ledger and config:

  - ElectionHandler: Election lifecycle and caller info
  - CandidateHandler: Candidate registration, edits and visibility
  - VotingHandler: Vote casting, vote log and per-voter status
  - ResultsHandler: Winners and standings

Handlers are created via constructor functions:

	electionHandler := handlers.NewElectionHandler(l, cfg)

# Identity

Callers present a signed identity in the X-Identity-Token header. Mutating
routes reject requests without a valid token with 401. Whether the caller
may perform the operation is decided by the ledger, not the handler.

# Election Lifecycle

	POST /elections              → CreateElection (admin)
	POST /elections/{id}/toggle  → ToggleElection (admin, not once ended)
	POST /elections/{id}/end     → EndElection (admin, idempotent)

Election views carry a derived status: scheduled, open, closed, paused or
ended.

# Voting

	POST /elections/{id}/votes           → CastVote (one per identity)
	GET  /elections/{id}/votes           → ListVotes
	GET  /elections/{id}/voters/{voter...}  → GetVoteStatus

# Errors

Ledger rejections are returned with their kind:

	403 NotAdmin
	404 UnknownElection, UnknownCandidate
	400 InvalidSchedule, EmptyTitle
	409 ElectionEnded, ElectionNotActive, OutsideVotingWindow,
	    CandidateHidden, AlreadyVoted

Storage failures are logged and returned as 500.
*/
package handlers
