// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger_test

import (
	"context"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/ballot-ledger/ledger"
	"github.com/danielhkuo/ballot-ledger/models"
	"github.com/danielhkuo/ballot-ledger/testutil"
)

func vote(t *testing.T, l *ledger.Ledger, electionID uint64, counts ...int) {
	t.Helper()
	n := 0
	for cid, count := range counts {
		for range count {
			n++
			voter := models.Identity(fmt.Sprintf("voter-%d", n))
			_, err := l.CastVote(ctx, voter, electionID, uint64(cid))
			require.NoError(t, err)
		}
	}
}

func names(cs []models.Candidate) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Name)
	}
	return out
}

func TestComputeWinners(t *testing.T) {
	testCases := []struct {
		name   string
		counts []int
		hidden []uint64
		want   []string
	}{
		{"no candidates", nil, nil, []string{}},
		{"no votes", []int{0, 0, 0}, nil, []string{}},
		{"single leader", []int{3, 1, 0}, nil, []string{"A"}},
		{"tie", []int{2, 2, 1}, nil, []string{"A", "B"}},
		{"three way tie", []int{1, 1, 1}, nil, []string{"A", "B", "C"}},
		// Scenario C
		{"hidden leader excluded", []int{5, 2, 2}, []uint64{0}, []string{"B", "C"}},
		{"only hidden has votes", []int{4, 0, 0}, []uint64{0}, []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l, _ := newLedger(t)
			cands := []string{"A", "B", "C"}[:len(tc.counts)]
			e := mustElection(t, l, cands...)
			vote(t, l, e.ID, tc.counts...)
			for _, cid := range tc.hidden {
				_, err := l.SetCandidateActive(ctx, admin, e.ID, cid, false)
				require.NoError(t, err)
			}

			winners, err := l.ComputeWinners(e.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.want, names(winners))
		})
	}
}

// Scenario C
func TestHiddenCandidate(t *testing.T) {
	l, _ := newLedger(t)
	e, err := l.CreateElection(ctx, admin, "E3", t0, t0.Add(time.Hour))
	require.NoError(t, err)
	carol, err := l.AddCandidate(ctx, admin, e.ID, "Carol", "", "", "")
	require.NoError(t, err)

	_, err = l.CastVote(ctx, alice, e.ID, carol.ID)
	require.NoError(t, err)
	_, err = l.SetCandidateActive(ctx, admin, e.ID, carol.ID, false)
	require.NoError(t, err)

	_, err = l.CastVote(ctx, bob, e.ID, carol.ID)
	require.ErrorIs(t, err, ledger.ErrCandidateHidden)

	winners, err := l.ComputeWinners(e.ID)
	require.NoError(t, err)
	assert.Empty(t, winners)

	// accumulated votes survive hiding
	c, err := l.GetCandidate(e.ID, carol.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), c.VoteCount)
}

func TestStandings(t *testing.T) {
	l, _ := newLedger(t)
	e := mustElection(t, l, "A", "B", "C", "D")
	vote(t, l, e.ID, 1, 3, 1, 6)
	_, err := l.SetCandidateActive(ctx, admin, e.ID, 3, false)
	require.NoError(t, err)

	s, err := l.Standings(e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.ID, s.ElectionID)
	assert.Equal(t, uint64(5), s.TotalVotes)
	require.Len(t, s.Rankings, 3)

	assert.Equal(t, "B", s.Rankings[0].Candidate.Name)
	assert.Equal(t, 1, s.Rankings[0].Rank)
	assert.InDelta(t, 0.6, s.Rankings[0].Share, 1e-9)

	// equal counts share a rank and keep insertion order
	assert.Equal(t, "A", s.Rankings[1].Candidate.Name)
	assert.Equal(t, "C", s.Rankings[2].Candidate.Name)
	assert.Equal(t, 2, s.Rankings[1].Rank)
	assert.Equal(t, 2, s.Rankings[2].Rank)
	assert.InDelta(t, 0.2, s.Rankings[2].Share, 1e-9)
}

func TestStandings_NoVotes(t *testing.T) {
	l, _ := newLedger(t)
	e := mustElection(t, l, "A", "B")

	s, err := l.Standings(e.ID)
	require.NoError(t, err)
	assert.Zero(t, s.TotalVotes)
	require.Len(t, s.Rankings, 2)
	for _, st := range s.Rankings {
		assert.Equal(t, 1, st.Rank)
		assert.Zero(t, st.Share)
	}
}

func TestVoteRecordQueries(t *testing.T) {
	l, _ := newLedger(t)
	e := mustElection(t, l, "Alice", "Bob")

	voted, err := l.HasVoted(e.ID, alice)
	require.NoError(t, err)
	assert.False(t, voted)
	_, ok, err := l.GetVoteRecord(e.ID, alice)
	require.NoError(t, err)
	assert.False(t, ok)

	rec, err := l.CastVote(ctx, alice, e.ID, 1)
	require.NoError(t, err)

	voted, err = l.HasVoted(e.ID, alice)
	require.NoError(t, err)
	assert.True(t, voted)

	got, ok, err := l.GetVoteRecord(e.ID, alice)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec, got)

	cid, ok, err := l.VotedCandidate(e.ID, alice)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(1), cid)

	_, ok, err = l.VotedCandidate(e.ID, bob)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestQueries_UnknownElection(t *testing.T) {
	l, _ := newLedger(t)

	_, err := l.GetElection(0)
	require.ErrorIs(t, err, ledger.ErrUnknownElection)
	_, err = l.GetAllCandidates(0)
	require.ErrorIs(t, err, ledger.ErrUnknownElection)
	_, err = l.GetCandidate(0, 0)
	require.ErrorIs(t, err, ledger.ErrUnknownElection)
	_, err = l.HasVoted(0, alice)
	require.ErrorIs(t, err, ledger.ErrUnknownElection)
	_, _, err = l.GetVoteRecord(0, alice)
	require.ErrorIs(t, err, ledger.ErrUnknownElection)
	_, err = l.ListVotes(0)
	require.ErrorIs(t, err, ledger.ErrUnknownElection)
	_, err = l.ComputeWinners(0)
	require.ErrorIs(t, err, ledger.ErrUnknownElection)
	_, err = l.Standings(0)
	require.ErrorIs(t, err, ledger.ErrUnknownElection)

	assert.Empty(t, l.GetAllElections())
}

func TestGetAllCandidates_ReturnsCopy(t *testing.T) {
	l, _ := newLedger(t)
	e := mustElection(t, l, "Alice")

	cs, err := l.GetAllCandidates(e.ID)
	require.NoError(t, err)
	cs[0].Name = "Mallory"

	c, err := l.GetCandidate(e.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "Alice", c.Name)
}

func TestListVotes(t *testing.T) {
	l, _ := newLedger(t)
	e := mustElection(t, l, "Alice", "Bob")
	other := mustElection(t, l, "Carol")

	_, err := l.CastVote(ctx, alice, e.ID, 0)
	require.NoError(t, err)
	_, err = l.CastVote(ctx, alice, other.ID, 0)
	require.NoError(t, err)
	_, err = l.CastVote(ctx, bob, e.ID, 1)
	require.NoError(t, err)

	votes, err := l.ListVotes(e.ID)
	require.NoError(t, err)

	got := slices.Collect(votes)
	require.Len(t, got, 2)
	assert.Equal(t, alice, got[0].Voter)
	assert.Equal(t, bob, got[1].Voter)
	assert.Less(t, got[0].Seq, got[1].Seq)

	// each range sees the log as committed when it starts
	_, err = l.CastVote(ctx, "0xCA401", e.ID, 0)
	require.NoError(t, err)
	assert.Len(t, slices.Collect(votes), 3)

	// early break
	var first []models.VoteRecord
	for v := range votes {
		first = append(first, v)
		break
	}
	assert.Len(t, first, 1)
}

func TestGetAllElections(t *testing.T) {
	l, _ := newLedger(t)
	mustElection(t, l)
	mustElection(t, l)

	es := l.GetAllElections()
	require.Len(t, es, 2)
	assert.Equal(t, uint64(0), es[0].ID)
	assert.Equal(t, uint64(1), es[1].ID)
}

type loadedStore struct {
	ledger.NopStore
	elections []models.ElectionWithCandidates
	votes     []models.VoteRecord
}

func (s loadedStore) Load(context.Context) ([]models.ElectionWithCandidates, []models.VoteRecord, error) {
	return s.elections, s.votes, nil
}

func TestOpen_Replay(t *testing.T) {
	end := t0.Add(time.Hour)
	elections := []models.ElectionWithCandidates{{
		Election: models.Election{ID: 0, Title: "E1", StartTime: t0, EndTime: end, IsActive: true},
		Candidates: []models.Candidate{
			{ID: 0, ElectionID: 0, Name: "Alice", VoteCount: 1, IsActive: true},
			{ID: 1, ElectionID: 0, Name: "Bob", VoteCount: 0, IsActive: true},
		},
	}}
	votes := []models.VoteRecord{
		{Seq: 4, ReceiptID: "r-4", ElectionID: 0, Voter: alice, CandidateID: 0, CastAt: t0.Add(time.Minute)},
	}

	l, err := ledger.Open(ctx, admin, loadedStore{elections: elections, votes: votes}, testutil.NewClock())
	require.NoError(t, err)

	e, err := l.GetElection(0)
	require.NoError(t, err)
	assert.Equal(t, 2, e.CandidateCount)

	voted, err := l.HasVoted(0, alice)
	require.NoError(t, err)
	assert.True(t, voted)

	_, err = l.CastVote(ctx, alice, 0, 1)
	require.ErrorIs(t, err, ledger.ErrAlreadyVoted)
}

func TestOpen_ReplayContinuesSeq(t *testing.T) {
	elections := []models.ElectionWithCandidates{{
		Election:   models.Election{ID: 0, Title: "E1", StartTime: t0, EndTime: t0.Add(time.Hour), IsActive: true},
		Candidates: []models.Candidate{{ID: 0, ElectionID: 0, Name: "Alice", VoteCount: 1, IsActive: true}},
	}}
	votes := []models.VoteRecord{{Seq: 7, ElectionID: 0, Voter: alice, CandidateID: 0, CastAt: t0}}

	clock := testutil.NewClock()
	clock.Set(t0.Add(time.Minute))
	l, err := ledger.Open(ctx, admin, loadedStore{elections: elections, votes: votes}, clock)
	require.NoError(t, err)

	rec, err := l.CastVote(ctx, bob, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(8), rec.Seq)
}

func TestOpen_ReplayRejectsInconsistentState(t *testing.T) {
	e := models.Election{ID: 0, Title: "E1", StartTime: t0, EndTime: t0.Add(time.Hour), IsActive: true}
	testCases := []struct {
		name      string
		elections []models.ElectionWithCandidates
		votes     []models.VoteRecord
	}{
		{
			name: "count mismatch",
			elections: []models.ElectionWithCandidates{{Election: e, Candidates: []models.Candidate{
				{ID: 0, ElectionID: 0, Name: "Alice", VoteCount: 2, IsActive: true},
			}}},
			votes: []models.VoteRecord{{Seq: 1, ElectionID: 0, Voter: alice, CandidateID: 0}},
		},
		{
			name: "duplicate voter",
			elections: []models.ElectionWithCandidates{{Election: e, Candidates: []models.Candidate{
				{ID: 0, ElectionID: 0, Name: "Alice", VoteCount: 2, IsActive: true},
			}}},
			votes: []models.VoteRecord{
				{Seq: 1, ElectionID: 0, Voter: alice, CandidateID: 0},
				{Seq: 2, ElectionID: 0, Voter: alice, CandidateID: 0},
			},
		},
		{
			name: "unknown candidate",
			elections: []models.ElectionWithCandidates{{Election: e}},
			votes:     []models.VoteRecord{{Seq: 1, ElectionID: 0, Voter: alice, CandidateID: 0}},
		},
		{
			name:      "unknown election",
			elections: nil,
			votes:     []models.VoteRecord{{Seq: 1, ElectionID: 3, Voter: alice, CandidateID: 0}},
		},
		{
			name: "seq out of order",
			elections: []models.ElectionWithCandidates{{Election: e, Candidates: []models.Candidate{
				{ID: 0, ElectionID: 0, Name: "Alice", VoteCount: 2, IsActive: true},
			}}},
			votes: []models.VoteRecord{
				{Seq: 2, ElectionID: 0, Voter: alice, CandidateID: 0},
				{Seq: 1, ElectionID: 0, Voter: bob, CandidateID: 0},
			},
		},
		{
			name:      "gap in election ids",
			elections: []models.ElectionWithCandidates{{Election: models.Election{ID: 1, Title: "E2"}}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ledger.Open(ctx, admin, loadedStore{elections: tc.elections, votes: tc.votes}, nil)
			require.Error(t, err)
		})
	}
}
