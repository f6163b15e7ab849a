// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"iter"
	"slices"

	"github.com/danielhkuo/ballot-ledger/models"
)

// Queries read the latest published snapshot and never take the writer lock.

func (l *Ledger) GetElection(electionID uint64) (models.Election, error) {
	es, err := l.state.Load().election(electionID)
	if err != nil {
		return models.Election{}, err
	}
	return es.election, nil
}

// GetAllElections returns every election in creation order.
func (l *Ledger) GetAllElections() []models.Election {
	s := l.state.Load()
	out := make([]models.Election, 0, len(s.elections))
	for _, es := range s.elections {
		out = append(out, es.election)
	}
	return out
}

func (l *Ledger) ElectionCount() int {
	return len(l.state.Load().elections)
}

func (l *Ledger) GetCandidate(electionID, candidateID uint64) (models.Candidate, error) {
	es, err := l.state.Load().election(electionID)
	if err != nil {
		return models.Candidate{}, err
	}
	return es.candidate(candidateID)
}

// GetAllCandidates returns the election's candidates in insertion order,
// hidden ones included.
func (l *Ledger) GetAllCandidates(electionID uint64) ([]models.Candidate, error) {
	es, err := l.state.Load().election(electionID)
	if err != nil {
		return nil, err
	}
	return slices.Clone(es.candidates), nil
}

func (l *Ledger) HasVoted(electionID uint64, voter models.Identity) (bool, error) {
	es, err := l.state.Load().election(electionID)
	if err != nil {
		return false, err
	}
	return es.hasVoted(voter), nil
}

// GetVoteRecord returns voter's record for the election. ok is false if the
// identity has not voted.
func (l *Ledger) GetVoteRecord(electionID uint64, voter models.Identity) (rec models.VoteRecord, ok bool, err error) {
	es, err := l.state.Load().election(electionID)
	if err != nil {
		return models.VoteRecord{}, false, err
	}
	rec, ok = es.vote(voter)
	return rec, ok, nil
}

// VotedCandidate returns the candidate voter chose, if any.
func (l *Ledger) VotedCandidate(electionID uint64, voter models.Identity) (uint64, bool, error) {
	rec, ok, err := l.GetVoteRecord(electionID, voter)
	return rec.CandidateID, ok, err
}

// ListVotes returns the election's vote log in commit order. Each range over
// the sequence reads the log as committed when that range starts.
func (l *Ledger) ListVotes(electionID uint64) (iter.Seq[models.VoteRecord], error) {
	if _, err := l.state.Load().election(electionID); err != nil {
		return nil, err
	}
	return func(yield func(models.VoteRecord) bool) {
		es, err := l.state.Load().election(electionID)
		if err != nil {
			return
		}
		for _, v := range es.votes {
			if !yield(v) {
				return
			}
		}
	}, nil
}

// ComputeWinners returns every active candidate holding the highest vote
// count. There is no winner while no active candidate has a vote.
func (l *Ledger) ComputeWinners(electionID uint64) ([]models.Candidate, error) {
	es, err := l.state.Load().election(electionID)
	if err != nil {
		return nil, err
	}

	var maxVotes uint64
	for _, c := range es.candidates {
		if c.IsActive && c.VoteCount > maxVotes {
			maxVotes = c.VoteCount
		}
	}
	winners := []models.Candidate{}
	if maxVotes == 0 {
		return winners, nil
	}
	for _, c := range es.candidates {
		if c.IsActive && c.VoteCount == maxVotes {
			winners = append(winners, c)
		}
	}
	return winners, nil
}

// Standings ranks the active candidates by vote count. Share is relative to
// the total votes held by active candidates.
func (l *Ledger) Standings(electionID uint64) (models.Standings, error) {
	es, err := l.state.Load().election(electionID)
	if err != nil {
		return models.Standings{}, err
	}

	res := models.Standings{ElectionID: electionID, Rankings: []models.Standing{}}
	for _, c := range es.candidates {
		if !c.IsActive {
			continue
		}
		res.TotalVotes += c.VoteCount
		res.Rankings = append(res.Rankings, models.Standing{Candidate: c})
	}

	// Stable keeps insertion order between equal counts.
	slices.SortStableFunc(res.Rankings, func(a, b models.Standing) int {
		switch {
		case a.Candidate.VoteCount > b.Candidate.VoteCount:
			return -1
		case a.Candidate.VoteCount < b.Candidate.VoteCount:
			return 1
		}
		return 0
	})

	for i := range res.Rankings {
		st := &res.Rankings[i]
		if i > 0 && st.Candidate.VoteCount == res.Rankings[i-1].Candidate.VoteCount {
			st.Rank = res.Rankings[i-1].Rank
		} else {
			st.Rank = i + 1
		}
		if res.TotalVotes > 0 {
			st.Share = float64(st.Candidate.VoteCount) / float64(res.TotalVotes)
		}
	}
	return res, nil
}
