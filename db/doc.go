// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db persists the ledger. It provides two ledger.Store
implementations:

  - SQLStore: PostgreSQL (lib/pq) or SQLite (modernc.org/sqlite)
  - BoltStore: a single bbolt file

Open picks one by database type and makes sure the schema exists:

	store, err := db.Open(db.TypeSQLite, "ballot-ledger.db")

# Schema Creation

CreateSchema initializes all required tables. Safe to call multiple times -
uses IF NOT EXISTS for all tables and indexes.

# Tables

  - election: title, voting window, is_active, is_ended
  - candidate: descriptive fields, vote_count, is_active; keyed by (election_id, id)
  - vote_record: append-only audit log keyed by seq, UNIQUE (election_id, voter)

# Relationships

	election 1──* candidate
	candidate 1──* vote_record

Nothing is ever deleted, so there are no cascades.

# Transactions

InsertVote inserts the vote record and increments the candidate's
vote_count in one transaction. Timestamps are stored as unix nanoseconds.
*/
package db
