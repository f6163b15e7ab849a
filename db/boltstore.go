// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/danielhkuo/ballot-ledger/ledger"
	"github.com/danielhkuo/ballot-ledger/models"
)

var _ ledger.Store = (*BoltStore)(nil)

const (
	electionBucketName  = "election"
	candidateBucketName = "candidate"
	voteBucketName      = "vote_record"
	voterBucketName     = "voter"
)

var (
	ErrBucketNotFound = errors.New("bucket not found")
	ErrDuplicateVote  = errors.New("vote already recorded for this identity")
	ErrNotFound       = errors.New("record not found")
)

// BoltStore persists the ledger in a single bbolt file. Keys are big-endian
// so cursor order is id order.
type BoltStore struct {
	db *bolt.DB
}

func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{electionBucketName, candidateBucketName, voteBucketName, voterBucketName} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Load(ctx context.Context) ([]models.ElectionWithCandidates, []models.VoteRecord, error) {
	elections := []models.ElectionWithCandidates{}
	votes := []models.VoteRecord{}

	err := s.db.View(func(tx *bolt.Tx) error {
		eb, cb, vb, _, err := buckets(tx)
		if err != nil {
			return err
		}

		err = eb.ForEach(func(_, v []byte) error {
			var e models.Election
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("failed to decode election: %w", err)
			}
			elections = append(elections, models.ElectionWithCandidates{Election: e})
			return nil
		})
		if err != nil {
			return err
		}

		err = cb.ForEach(func(_, v []byte) error {
			var c models.Candidate
			if err := json.Unmarshal(v, &c); err != nil {
				return fmt.Errorf("failed to decode candidate: %w", err)
			}
			if c.ElectionID >= uint64(len(elections)) {
				return fmt.Errorf("candidate %d references missing election %d", c.ID, c.ElectionID)
			}
			ewc := &elections[c.ElectionID]
			ewc.Candidates = append(ewc.Candidates, c)
			ewc.Election.CandidateCount = len(ewc.Candidates)
			return nil
		})
		if err != nil {
			return err
		}

		return vb.ForEach(func(_, v []byte) error {
			var rec models.VoteRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("failed to decode vote: %w", err)
			}
			votes = append(votes, rec)
			return nil
		})
	})
	if err != nil {
		return nil, nil, err
	}
	return elections, votes, nil
}

func (s *BoltStore) InsertElection(ctx context.Context, e models.Election) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		eb, _, _, _, err := buckets(tx)
		if err != nil {
			return err
		}
		e.CandidateCount = 0
		return putJSON(eb, u64Key(e.ID), e)
	})
}

func (s *BoltStore) InsertCandidate(ctx context.Context, c models.Candidate) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		eb, cb, _, _, err := buckets(tx)
		if err != nil {
			return err
		}
		if eb.Get(u64Key(c.ElectionID)) == nil {
			return fmt.Errorf("election %d: %w", c.ElectionID, ErrNotFound)
		}
		return putJSON(cb, candidateKey(c.ElectionID, c.ID), c)
	})
}

// UpdateCandidate keeps the stored vote count; only InsertVote changes it.
func (s *BoltStore) UpdateCandidate(ctx context.Context, c models.Candidate) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		_, cb, _, _, err := buckets(tx)
		if err != nil {
			return err
		}
		key := candidateKey(c.ElectionID, c.ID)
		var stored models.Candidate
		if err := getJSON(cb, key, &stored); err != nil {
			return fmt.Errorf("election %d candidate %d: %w", c.ElectionID, c.ID, err)
		}
		c.VoteCount = stored.VoteCount
		return putJSON(cb, key, c)
	})
}

func (s *BoltStore) UpdateElectionFlags(ctx context.Context, e models.Election) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		eb, _, _, _, err := buckets(tx)
		if err != nil {
			return err
		}
		key := u64Key(e.ID)
		var stored models.Election
		if err := getJSON(eb, key, &stored); err != nil {
			return fmt.Errorf("election %d: %w", e.ID, err)
		}
		stored.IsActive = e.IsActive
		stored.IsEnded = e.IsEnded
		return putJSON(eb, key, stored)
	})
}

func (s *BoltStore) InsertVote(ctx context.Context, v models.VoteRecord) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		_, cb, vb, wb, err := buckets(tx)
		if err != nil {
			return err
		}

		voterKey := append(u64Key(v.ElectionID), string(v.Voter)...)
		if wb.Get(voterKey) != nil {
			return ErrDuplicateVote
		}

		ckey := candidateKey(v.ElectionID, v.CandidateID)
		var c models.Candidate
		if err := getJSON(cb, ckey, &c); err != nil {
			return fmt.Errorf("election %d candidate %d: %w", v.ElectionID, v.CandidateID, err)
		}
		c.VoteCount++

		if err := putJSON(vb, u64Key(v.Seq), v); err != nil {
			return err
		}
		if err := wb.Put(voterKey, u64Key(v.Seq)); err != nil {
			return err
		}
		return putJSON(cb, ckey, c)
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func buckets(tx *bolt.Tx) (elections, candidates, votes, voters *bolt.Bucket, err error) {
	elections = tx.Bucket([]byte(electionBucketName))
	candidates = tx.Bucket([]byte(candidateBucketName))
	votes = tx.Bucket([]byte(voteBucketName))
	voters = tx.Bucket([]byte(voterBucketName))
	if elections == nil || candidates == nil || votes == nil || voters == nil {
		return nil, nil, nil, nil, ErrBucketNotFound
	}
	return elections, candidates, votes, voters, nil
}

func putJSON(b *bolt.Bucket, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	return b.Put(key, data)
}

func getJSON(b *bolt.Bucket, key []byte, v any) error {
	data := b.Get(key)
	if data == nil {
		return ErrNotFound
	}
	return json.Unmarshal(data, v)
}

func u64Key(n uint64) []byte {
	return binary.BigEndian.AppendUint64(make([]byte, 0, 8), n)
}

func candidateKey(electionID, candidateID uint64) []byte {
	return binary.BigEndian.AppendUint64(u64Key(electionID), candidateID)
}
