// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateElectionRequest: title, start_time, end_time
  - CandidateRequest: name, bio, profile, image_ref
  - SetCandidateActiveRequest: active
  - CastVoteRequest: candidate_id

# Response Types

  - WhoAmIResponse: identity, is_admin
  - ElectionView: election plus derived status and relative times
  - VoteStatusResponse: has_voted and the record, if any
  - WinnersResponse: winners, tied
  - ErrorResponse: error, message, kind

# Domain Types

  - Election: schedule and lifecycle flags
  - Candidate: profile fields, vote_count and visibility
  - VoteRecord: one committed vote, with its ledger-wide seq
  - Standings: active candidates ranked by vote count

# Status

Election.Status derives the status at a given time. Precedence is ended,
paused, scheduled, closed, then open:

	e.Status(now) // "open" only if active, not ended, and start <= now < end
*/
package models
