// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import "errors"

// Rejection is a validation failure. A rejected call has no effect.
type Rejection struct {
	Kind string
	msg  string
}

func (r *Rejection) Error() string { return r.msg }

func reject(kind, msg string) *Rejection {
	return &Rejection{Kind: kind, msg: msg}
}

var (
	ErrNotAdmin = reject("NotAdmin", "caller is not the admin")

	ErrUnknownElection  = reject("UnknownElection", "unknown election")
	ErrUnknownCandidate = reject("UnknownCandidate", "unknown candidate")

	ErrInvalidSchedule = reject("InvalidSchedule", "start time must be before end time")
	ErrEmptyTitle      = reject("EmptyTitle", "title is required")

	ErrElectionEnded       = reject("ElectionEnded", "election has ended")
	ErrElectionNotActive   = reject("ElectionNotActive", "election is not active")
	ErrOutsideVotingWindow = reject("OutsideVotingWindow", "outside the voting window")
	ErrCandidateHidden     = reject("CandidateHidden", "candidate is not active")
	ErrAlreadyVoted        = reject("AlreadyVoted", "identity has already voted in this election")
	ErrMissingIdentity     = reject("MissingIdentity", "caller identity is required")
)

// IsRejection reports whether err is one of the ledger's error kinds, as
// opposed to a failure of the underlying store.
func IsRejection(err error) bool {
	var r *Rejection
	return errors.As(err, &r)
}

// KindOf returns the kind name of a rejection, or "" for any other error.
func KindOf(err error) string {
	var r *Rejection
	if errors.As(err, &r) {
		return r.Kind
	}
	return ""
}
