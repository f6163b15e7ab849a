// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"fmt"
	"slices"
	"sync"

	"github.com/danielhkuo/ballot-ledger/models"
)

// snapshot is one committed state of the ledger. It is never modified after
// it has been published.
type snapshot struct {
	elections []*electionState
}

type electionState struct {
	election   models.Election
	candidates []models.Candidate

	// votes is append-only and shares its backing array with earlier
	// snapshots; each snapshot only reads up to its own length.
	votes []models.VoteRecord
	// voters maps identity -> position in votes. An entry is visible to a
	// snapshot only if the position is below len(votes).
	voters *sync.Map
}

func newElectionState(e models.Election) *electionState {
	return &electionState{election: e, voters: &sync.Map{}}
}

func (s *snapshot) election(id uint64) (*electionState, error) {
	if id >= uint64(len(s.elections)) {
		return nil, fmt.Errorf("election %d: %w", id, ErrUnknownElection)
	}
	return s.elections[id], nil
}

// with returns a copy of s where the election es.election.ID is replaced
// by es, or appended when it is new.
func (s *snapshot) with(es *electionState) *snapshot {
	next := &snapshot{elections: slices.Clone(s.elections)}
	if es.election.ID == uint64(len(next.elections)) {
		next.elections = append(next.elections, es)
	} else {
		next.elections[es.election.ID] = es
	}
	return next
}

func (es *electionState) clone() *electionState {
	c := *es
	c.candidates = slices.Clone(es.candidates)
	return &c
}

func (es *electionState) candidate(id uint64) (models.Candidate, error) {
	if id >= uint64(len(es.candidates)) {
		return models.Candidate{}, fmt.Errorf("election %d candidate %d: %w", es.election.ID, id, ErrUnknownCandidate)
	}
	return es.candidates[id], nil
}

func (es *electionState) vote(voter models.Identity) (models.VoteRecord, bool) {
	pos, ok := es.voters.Load(voter)
	if !ok || pos.(int) >= len(es.votes) {
		return models.VoteRecord{}, false
	}
	return es.votes[pos.(int)], true
}

func (es *electionState) hasVoted(voter models.Identity) bool {
	_, ok := es.vote(voter)
	return ok
}
