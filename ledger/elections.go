// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/danielhkuo/ballot-ledger/models"
)

// CreateElection appends a new active election with no candidates.
func (l *Ledger) CreateElection(ctx context.Context, caller models.Identity, title string, start, end time.Time) (models.Election, error) {
	if err := l.gate.authorize(caller); err != nil {
		return models.Election{}, err
	}
	if !start.Before(end) {
		return models.Election{}, ErrInvalidSchedule
	}
	if strings.TrimSpace(title) == "" {
		return models.Election{}, ErrEmptyTitle
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	cur := l.state.Load()
	e := models.Election{
		ID:        uint64(len(cur.elections)),
		Title:     title,
		StartTime: start.UTC(),
		EndTime:   end.UTC(),
		IsActive:  true,
	}
	if err := l.store.InsertElection(ctx, e); err != nil {
		return models.Election{}, fmt.Errorf("ledger: insert election: %w", err)
	}

	l.state.Store(cur.with(newElectionState(e)))
	return e, nil
}

// AddCandidate appends a candidate to the election. Candidates can be added
// in any lifecycle state.
func (l *Ledger) AddCandidate(ctx context.Context, caller models.Identity, electionID uint64, name, bio, profile, imageRef string) (models.Candidate, error) {
	if err := l.gate.authorize(caller); err != nil {
		return models.Candidate{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	cur := l.state.Load()
	es, err := cur.election(electionID)
	if err != nil {
		return models.Candidate{}, err
	}

	c := models.Candidate{
		ID:         uint64(len(es.candidates)),
		ElectionID: electionID,
		Name:       name,
		Bio:        bio,
		Profile:    profile,
		ImageRef:   imageRef,
		IsActive:   true,
	}
	if err := l.store.InsertCandidate(ctx, c); err != nil {
		return models.Candidate{}, fmt.Errorf("ledger: insert candidate: %w", err)
	}

	next := es.clone()
	next.candidates = append(next.candidates, c)
	next.election.CandidateCount = len(next.candidates)
	l.state.Store(cur.with(next))
	return c, nil
}

// UpdateCandidate overwrites the descriptive fields of a candidate. The vote
// count and active flag are left as they are.
func (l *Ledger) UpdateCandidate(ctx context.Context, caller models.Identity, electionID, candidateID uint64, name, bio, profile, imageRef string) (models.Candidate, error) {
	if err := l.gate.authorize(caller); err != nil {
		return models.Candidate{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.updateCandidate(ctx, electionID, candidateID, func(c *models.Candidate) bool {
		c.Name, c.Bio, c.Profile, c.ImageRef = name, bio, profile, imageRef
		return true
	})
}

// SetCandidateActive sets whether the candidate can receive votes and
// appears in results. Setting the current value is a no-op.
func (l *Ledger) SetCandidateActive(ctx context.Context, caller models.Identity, electionID, candidateID uint64, active bool) (models.Candidate, error) {
	if err := l.gate.authorize(caller); err != nil {
		return models.Candidate{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.updateCandidate(ctx, electionID, candidateID, func(c *models.Candidate) bool {
		if c.IsActive == active {
			return false
		}
		c.IsActive = active
		return true
	})
}

// updateCandidate applies fn to a copy of the candidate and commits it if fn
// reports a change. Must hold mu.
func (l *Ledger) updateCandidate(ctx context.Context, electionID, candidateID uint64, fn func(c *models.Candidate) bool) (models.Candidate, error) {
	cur := l.state.Load()
	es, err := cur.election(electionID)
	if err != nil {
		return models.Candidate{}, err
	}
	c, err := es.candidate(candidateID)
	if err != nil {
		return models.Candidate{}, err
	}
	if !fn(&c) {
		return c, nil
	}
	if err := l.store.UpdateCandidate(ctx, c); err != nil {
		return models.Candidate{}, fmt.Errorf("ledger: update candidate: %w", err)
	}

	next := es.clone()
	next.candidates[candidateID] = c
	l.state.Store(cur.with(next))
	return c, nil
}

// ToggleElectionActive pauses an active election or resumes a paused one.
// Ended elections cannot be toggled.
func (l *Ledger) ToggleElectionActive(ctx context.Context, caller models.Identity, electionID uint64) (models.Election, error) {
	if err := l.gate.authorize(caller); err != nil {
		return models.Election{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.updateElection(ctx, electionID, func(e *models.Election) (bool, error) {
		if e.IsEnded {
			return false, fmt.Errorf("election %d: %w", e.ID, ErrElectionEnded)
		}
		e.IsActive = !e.IsActive
		return true, nil
	})
}

// EndElection marks the election as ended. It is terminal and ending an
// ended election succeeds without change.
func (l *Ledger) EndElection(ctx context.Context, caller models.Identity, electionID uint64) (models.Election, error) {
	if err := l.gate.authorize(caller); err != nil {
		return models.Election{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.updateElection(ctx, electionID, func(e *models.Election) (bool, error) {
		if e.IsEnded {
			return false, nil
		}
		e.IsEnded = true
		return true, nil
	})
}

// Must hold mu.
func (l *Ledger) updateElection(ctx context.Context, electionID uint64, fn func(e *models.Election) (bool, error)) (models.Election, error) {
	cur := l.state.Load()
	es, err := cur.election(electionID)
	if err != nil {
		return models.Election{}, err
	}
	e := es.election
	changed, err := fn(&e)
	if err != nil {
		return models.Election{}, err
	}
	if !changed {
		return e, nil
	}
	if err := l.store.UpdateElectionFlags(ctx, e); err != nil {
		return models.Election{}, fmt.Errorf("ledger: update election: %w", err)
	}

	next := es.clone()
	next.election = e
	l.state.Store(cur.with(next))
	return e, nil
}
