// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger implements the election ledger: elections, their candidates,
the vote log, and the rules that govern them.

# Usage

A ledger is opened over a Store and administered by a single identity:

	l, err := ledger.Open(ctx, "admin", store, ledger.SystemClock{})
	e, err := l.CreateElection(ctx, "admin", "Board", start, end)
	c, err := l.AddCandidate(ctx, "admin", e.ID, "Alice", "", "", "")
	rec, err := l.CastVote(ctx, "voter-1", e.ID, c.ID)

Use New for a ledger that keeps its state in memory only.

# Authorization

CreateElection, AddCandidate, UpdateCandidate, SetCandidateActive,
ToggleElectionActive and EndElection fail with ErrNotAdmin for any caller
other than the admin. CastVote is open to every identity.

# Voting

CastVote checks, in order: the election exists, is not ended, is active,
the time is within [start, end], the candidate exists and is active, and
the voter has not voted yet. Each identity votes at most once per election.

# Lifecycle

Status is derived from the stored flags and the clock (see
models.Election.Status):

	scheduled → open → closed
	paused    (any non-ended state, via ToggleElectionActive)
	ended     (terminal, via EndElection)

# Errors

Validation failures are *Rejection values and can be tested with
errors.Is against the Err* variables. Any other error came from the Store
and the mutation was not applied.

# Concurrency

Mutations are serialized per ledger and written through the Store before
they become visible. Queries never block and always observe a committed
state.
*/
package ledger
