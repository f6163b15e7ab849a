// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/danielhkuo/ballot-ledger/models"
)

// CastVote records voter's single ballot for candidateID in the election.
// Any identity may vote, the admin included.
//
// Preconditions are checked in a fixed order and the first failure is
// returned. The voting window is checked against the clock. The vote record
// and the vote count increment are committed together.
func (l *Ledger) CastVote(ctx context.Context, voter models.Identity, electionID, candidateID uint64) (models.VoteRecord, error) {
	if voter == "" {
		return models.VoteRecord{}, ErrMissingIdentity
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	cur := l.state.Load()

	es, err := cur.election(electionID)
	if err != nil {
		return models.VoteRecord{}, err
	}
	e := es.election
	switch {
	case e.IsEnded:
		return models.VoteRecord{}, fmt.Errorf("election %d: %w", e.ID, ErrElectionEnded)
	case !e.IsActive:
		return models.VoteRecord{}, fmt.Errorf("election %d: %w", e.ID, ErrElectionNotActive)
	case !e.InWindow(now):
		return models.VoteRecord{}, fmt.Errorf("election %d: %w", e.ID, ErrOutsideVotingWindow)
	}

	c, err := es.candidate(candidateID)
	if err != nil {
		return models.VoteRecord{}, err
	}
	if !c.IsActive {
		return models.VoteRecord{}, fmt.Errorf("election %d candidate %d: %w", e.ID, c.ID, ErrCandidateHidden)
	}
	if es.hasVoted(voter) {
		return models.VoteRecord{}, fmt.Errorf("election %d: %w", e.ID, ErrAlreadyVoted)
	}

	rec := models.VoteRecord{
		Seq:         l.seq + 1,
		ReceiptID:   uuid.NewString(),
		ElectionID:  e.ID,
		Voter:       voter,
		CandidateID: c.ID,
		CastAt:      l.castTime(now),
	}
	if err := l.store.InsertVote(ctx, rec); err != nil {
		return models.VoteRecord{}, fmt.Errorf("ledger: insert vote: %w", err)
	}

	next := es.clone()
	next.candidates[c.ID].VoteCount++
	next.votes = append(next.votes, rec)
	// Invisible to the current snapshot until next is published.
	next.voters.Store(voter, len(next.votes)-1)
	l.state.Store(cur.with(next))

	l.seq = rec.Seq
	l.lastCommit = rec.CastAt
	return rec, nil
}
