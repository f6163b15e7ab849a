// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/danielhkuo/ballot-ledger/models"
)

// Store is the commit layer behind a Ledger. Each method must apply all of
// its effects or none of them.
type Store interface {
	Load(ctx context.Context) ([]models.ElectionWithCandidates, []models.VoteRecord, error)
	InsertElection(ctx context.Context, e models.Election) error
	InsertCandidate(ctx context.Context, c models.Candidate) error
	UpdateCandidate(ctx context.Context, c models.Candidate) error
	UpdateElectionFlags(ctx context.Context, e models.Election) error
	// InsertVote stores v and increments the chosen candidate's vote count
	// in the same transaction.
	InsertVote(ctx context.Context, v models.VoteRecord) error
	Close() error
}

// NopStore keeps nothing; the ledger lives in memory only.
type NopStore struct{}

func (NopStore) Load(context.Context) ([]models.ElectionWithCandidates, []models.VoteRecord, error) {
	return nil, nil, nil
}
func (NopStore) InsertElection(context.Context, models.Election) error      { return nil }
func (NopStore) InsertCandidate(context.Context, models.Candidate) error    { return nil }
func (NopStore) UpdateCandidate(context.Context, models.Candidate) error    { return nil }
func (NopStore) UpdateElectionFlags(context.Context, models.Election) error { return nil }
func (NopStore) InsertVote(context.Context, models.VoteRecord) error        { return nil }
func (NopStore) Close() error                                               { return nil }

// Clock supplies the time used for voting-window checks.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Ledger holds elections, candidates and the vote log.
//
// Mutations are serialized by mu and written through to the Store before
// they are published. Queries read the last published snapshot without
// locking.
type Ledger struct {
	gate  gate
	clock Clock
	store Store

	mu         sync.Mutex
	seq        uint64
	lastCommit time.Time

	state atomic.Pointer[snapshot]
}

// New returns an empty in-memory ledger administered by admin.
func New(admin models.Identity, clock Clock) *Ledger {
	l := &Ledger{
		gate:  gate{admin: admin},
		clock: clock,
		store: NopStore{},
	}
	if l.clock == nil {
		l.clock = SystemClock{}
	}
	l.state.Store(&snapshot{})
	return l
}

// Open returns a ledger backed by store, replaying whatever it already holds.
func Open(ctx context.Context, admin models.Identity, store Store, clock Clock) (*Ledger, error) {
	l := New(admin, clock)
	if store == nil {
		return l, nil
	}
	l.store = store

	elections, votes, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("ledger: load state: %w", err)
	}

	s, seq, err := replay(elections, votes)
	if err != nil {
		return nil, err
	}
	l.seq = seq
	if len(votes) > 0 {
		l.lastCommit = votes[len(votes)-1].CastAt
	}
	l.state.Store(s)

	slog.Info("ledger loaded", "elections", len(elections), "votes", len(votes))
	return l, nil
}

// Admin returns the identity allowed to perform structural mutations.
func (l *Ledger) Admin() models.Identity {
	return l.gate.admin
}

// Now returns the ledger clock's current time.
func (l *Ledger) Now() time.Time {
	return l.clock.Now()
}

// Close closes the underlying store.
func (l *Ledger) Close() error {
	return l.store.Close()
}

// castTime returns the CastAt for a vote committed at now. It never
// precedes the previous commit, so the log stays ordered by CastAt even if
// the clock steps backwards. Must hold mu.
func (l *Ledger) castTime(now time.Time) time.Time {
	if now.Before(l.lastCommit) {
		return l.lastCommit
	}
	return now
}

func replay(elections []models.ElectionWithCandidates, votes []models.VoteRecord) (*snapshot, uint64, error) {
	s := &snapshot{elections: make([]*electionState, 0, len(elections))}
	for i, ewc := range elections {
		if ewc.Election.ID != uint64(i) {
			return nil, 0, fmt.Errorf("ledger: election ids not sequential: got %d at position %d", ewc.Election.ID, i)
		}
		es := newElectionState(ewc.Election)
		for j, c := range ewc.Candidates {
			if c.ID != uint64(j) {
				return nil, 0, fmt.Errorf("ledger: election %d: candidate ids not sequential: got %d at position %d", i, c.ID, j)
			}
			es.candidates = append(es.candidates, c)
		}
		es.election.CandidateCount = len(es.candidates)
		s.elections = append(s.elections, es)
	}

	var seq uint64
	tally := make(map[[2]uint64]uint64)
	for _, v := range votes {
		if v.Seq <= seq {
			return nil, 0, fmt.Errorf("ledger: vote log out of order at seq %d", v.Seq)
		}
		seq = v.Seq
		es, err := s.election(v.ElectionID)
		if err != nil {
			return nil, 0, fmt.Errorf("ledger: vote %d: %w", v.Seq, err)
		}
		if v.CandidateID >= uint64(len(es.candidates)) {
			return nil, 0, fmt.Errorf("ledger: vote %d: %w", v.Seq, ErrUnknownCandidate)
		}
		if es.hasVoted(v.Voter) {
			return nil, 0, fmt.Errorf("ledger: vote %d: %w", v.Seq, ErrAlreadyVoted)
		}
		es.votes = append(es.votes, v)
		es.voters.Store(v.Voter, len(es.votes)-1)
		tally[[2]uint64{v.ElectionID, v.CandidateID}]++
	}

	for _, es := range s.elections {
		for _, c := range es.candidates {
			if got := tally[[2]uint64{c.ElectionID, c.ID}]; got != c.VoteCount {
				return nil, 0, fmt.Errorf("ledger: election %d candidate %d: vote count %d does not match %d recorded votes",
					c.ElectionID, c.ID, c.VoteCount, got)
			}
		}
	}
	return s, seq, nil
}
