// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/danielhkuo/ballot-ledger/ledger"
	"github.com/danielhkuo/ballot-ledger/models"
)

var _ ledger.Store = (*SQLStore)(nil)

// SQLStore persists the ledger in PostgreSQL or SQLite.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Load(ctx context.Context) ([]models.ElectionWithCandidates, []models.VoteRecord, error) {
	elections, err := s.loadElections(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := s.loadCandidates(ctx, elections); err != nil {
		return nil, nil, err
	}
	votes, err := s.loadVotes(ctx)
	if err != nil {
		return nil, nil, err
	}
	return elections, votes, nil
}

func (s *SQLStore) loadElections(ctx context.Context) ([]models.ElectionWithCandidates, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, start_time, end_time, is_active, is_ended
		FROM election
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query elections: %w", err)
	}
	defer rows.Close()

	elections := []models.ElectionWithCandidates{}
	for rows.Next() {
		var e models.Election
		var start, end int64
		if err := rows.Scan(&e.ID, &e.Title, &start, &end, &e.IsActive, &e.IsEnded); err != nil {
			return nil, fmt.Errorf("failed to scan election: %w", err)
		}
		e.StartTime = fromNanos(start)
		e.EndTime = fromNanos(end)
		elections = append(elections, models.ElectionWithCandidates{Election: e})
	}
	return elections, rows.Err()
}

func (s *SQLStore) loadCandidates(ctx context.Context, elections []models.ElectionWithCandidates) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT election_id, id, name, bio, profile, image_ref, vote_count, is_active
		FROM candidate
		ORDER BY election_id, id
	`)
	if err != nil {
		return fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ElectionID, &c.ID, &c.Name, &c.Bio, &c.Profile, &c.ImageRef, &c.VoteCount, &c.IsActive); err != nil {
			return fmt.Errorf("failed to scan candidate: %w", err)
		}
		if c.ElectionID >= uint64(len(elections)) {
			return fmt.Errorf("candidate %d references missing election %d", c.ID, c.ElectionID)
		}
		ewc := &elections[c.ElectionID]
		ewc.Candidates = append(ewc.Candidates, c)
		ewc.Election.CandidateCount = len(ewc.Candidates)
	}
	return rows.Err()
}

func (s *SQLStore) loadVotes(ctx context.Context) ([]models.VoteRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, receipt_id, election_id, voter, candidate_id, cast_at
		FROM vote_record
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	votes := []models.VoteRecord{}
	for rows.Next() {
		var v models.VoteRecord
		var castAt int64
		if err := rows.Scan(&v.Seq, &v.ReceiptID, &v.ElectionID, &v.Voter, &v.CandidateID, &castAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		v.CastAt = fromNanos(castAt)
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

func (s *SQLStore) InsertElection(ctx context.Context, e models.Election) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO election (id, title, start_time, end_time, is_active, is_ended)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, int64(e.ID), e.Title, e.StartTime.UnixNano(), e.EndTime.UnixNano(), e.IsActive, e.IsEnded)
	if err != nil {
		return fmt.Errorf("failed to insert election: %w", err)
	}
	return nil
}

func (s *SQLStore) InsertCandidate(ctx context.Context, c models.Candidate) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO candidate (election_id, id, name, bio, profile, image_ref, vote_count, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, int64(c.ElectionID), int64(c.ID), c.Name, c.Bio, c.Profile, c.ImageRef, int64(c.VoteCount), c.IsActive)
	if err != nil {
		return fmt.Errorf("failed to insert candidate: %w", err)
	}
	return nil
}

// UpdateCandidate writes the descriptive fields and the active flag. The vote
// count is only ever changed by InsertVote.
func (s *SQLStore) UpdateCandidate(ctx context.Context, c models.Candidate) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE candidate
		SET name = $1, bio = $2, profile = $3, image_ref = $4, is_active = $5
		WHERE election_id = $6 AND id = $7
	`, c.Name, c.Bio, c.Profile, c.ImageRef, c.IsActive, int64(c.ElectionID), int64(c.ID))
	if err != nil {
		return fmt.Errorf("failed to update candidate: %w", err)
	}
	return expectOneRow(res, "candidate")
}

func (s *SQLStore) UpdateElectionFlags(ctx context.Context, e models.Election) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE election
		SET is_active = $1, is_ended = $2
		WHERE id = $3
	`, e.IsActive, e.IsEnded, int64(e.ID))
	if err != nil {
		return fmt.Errorf("failed to update election: %w", err)
	}
	return expectOneRow(res, "election")
}

func (s *SQLStore) InsertVote(ctx context.Context, v models.VoteRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// UNIQUE (election_id, voter) rejects a second ballot
	_, err = tx.ExecContext(ctx, `
		INSERT INTO vote_record (seq, receipt_id, election_id, voter, candidate_id, cast_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, int64(v.Seq), v.ReceiptID, int64(v.ElectionID), string(v.Voter), int64(v.CandidateID), v.CastAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to insert vote: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE candidate
		SET vote_count = vote_count + 1
		WHERE election_id = $1 AND id = $2
	`, int64(v.ElectionID), int64(v.CandidateID))
	if err != nil {
		return fmt.Errorf("failed to increment vote count: %w", err)
	}
	if err := expectOneRow(res, "candidate"); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func expectOneRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("%s not found: %d rows affected", what, n)
	}
	return nil
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
