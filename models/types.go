// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Election status values. Status is derived, never stored.
const (
	StatusScheduled = "scheduled"
	StatusOpen      = "open"
	StatusClosed    = "closed"
	StatusPaused    = "paused"
	StatusEnded     = "ended"
)

// Identity is an unforgeable caller reference (voter or admin).
type Identity string

// Request types

type CreateElectionRequest struct {
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Used for both add and update.
type CandidateRequest struct {
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	Profile  string `json:"profile"`
	ImageRef string `json:"image_ref"`
}

type SetCandidateActiveRequest struct {
	Active *bool `json:"active"`
}

type CastVoteRequest struct {
	CandidateID *uint64 `json:"candidate_id"`
}

// Response types

type WhoAmIResponse struct {
	Identity Identity `json:"identity"`
	IsAdmin  bool     `json:"is_admin"`
}

type ElectionView struct {
	Election
	Status string `json:"status"`
	Opens  string `json:"opens"`
	Closes string `json:"closes"`
}

type VoteStatusResponse struct {
	ElectionID uint64      `json:"election_id"`
	Voter      Identity    `json:"voter"`
	HasVoted   bool        `json:"has_voted"`
	Record     *VoteRecord `json:"record,omitempty"`
}

type WinnersResponse struct {
	ElectionID uint64      `json:"election_id"`
	Winners    []Candidate `json:"winners"`
	Tied       bool        `json:"tied"`
}

// Domain types

type Election struct {
	ID             uint64    `json:"id"`
	Title          string    `json:"title"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	IsActive       bool      `json:"is_active"`
	IsEnded        bool      `json:"is_ended"`
	CandidateCount int       `json:"candidate_count"`
}

// Status derives the lifecycle state of the election at now.
// Ended takes precedence over Paused, which takes precedence over the
// time window.
func (e Election) Status(now time.Time) string {
	switch {
	case e.IsEnded:
		return StatusEnded
	case !e.IsActive:
		return StatusPaused
	case now.Before(e.StartTime):
		return StatusScheduled
	case now.After(e.EndTime):
		return StatusClosed
	default:
		return StatusOpen
	}
}

// InWindow reports whether start <= now <= end.
func (e Election) InWindow(now time.Time) bool {
	return !now.Before(e.StartTime) && !now.After(e.EndTime)
}

type Candidate struct {
	ID         uint64 `json:"id"`
	ElectionID uint64 `json:"election_id"`
	Name       string `json:"name"`
	Bio        string `json:"bio"`
	Profile    string `json:"profile"`
	ImageRef   string `json:"image_ref"`
	VoteCount  uint64 `json:"vote_count"`
	IsActive   bool   `json:"is_active"`
}

type ElectionWithCandidates struct {
	Election   Election    `json:"election"`
	Candidates []Candidate `json:"candidates"`
}

// VoteRecord is an immutable audit entry. Seq is the global commit sequence.
type VoteRecord struct {
	Seq         uint64    `json:"seq"`
	ReceiptID   string    `json:"receipt_id"`
	ElectionID  uint64    `json:"election_id"`
	Voter       Identity  `json:"voter"`
	CandidateID uint64    `json:"candidate_id"`
	CastAt      time.Time `json:"cast_at"`
}

// Results types

type Standing struct {
	Candidate Candidate `json:"candidate"`
	Rank      int       `json:"rank"` // 1-indexed, equal counts share a rank
	Share     float64   `json:"share"`
}

type Standings struct {
	ElectionID uint64     `json:"election_id"`
	TotalVotes uint64     `json:"total_votes"`
	Rankings   []Standing `json:"rankings"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Kind    string `json:"kind,omitempty"`
}
