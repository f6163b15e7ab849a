// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the ledger.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Timestamps are unix nanoseconds so the same schema runs on PostgreSQL and SQLite.
const schema = `
-- Elections
CREATE TABLE IF NOT EXISTS election (
    id BIGINT PRIMARY KEY,
    title TEXT NOT NULL,
    start_time BIGINT NOT NULL,
    end_time BIGINT NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    is_ended BOOLEAN NOT NULL DEFAULT FALSE,
    CHECK (start_time < end_time)
);

-- Candidates
CREATE TABLE IF NOT EXISTS candidate (
    election_id BIGINT NOT NULL REFERENCES election(id),
    id BIGINT NOT NULL,
    name TEXT NOT NULL,
    bio TEXT NOT NULL DEFAULT '',
    profile TEXT NOT NULL DEFAULT '',
    image_ref TEXT NOT NULL DEFAULT '',
    vote_count BIGINT NOT NULL DEFAULT 0 CHECK (vote_count >= 0),
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    PRIMARY KEY (election_id, id)
);

-- Vote records (append-only)
CREATE TABLE IF NOT EXISTS vote_record (
    seq BIGINT PRIMARY KEY,
    receipt_id TEXT NOT NULL UNIQUE,
    election_id BIGINT NOT NULL,
    voter TEXT NOT NULL,
    candidate_id BIGINT NOT NULL,
    cast_at BIGINT NOT NULL,
    UNIQUE (election_id, voter),
    FOREIGN KEY (election_id, candidate_id) REFERENCES candidate(election_id, id)
);

CREATE INDEX IF NOT EXISTS idx_vote_record_election ON vote_record(election_id, seq);
`
