// Package approval persists waived design rule violations. Messages are
// identified by their approval key, so a waiver survives re-running the
// check as long as the violation stays where it is.
package approval

import (
	"fmt"
	"time"

	"github.com/boltdb/bolt"

	"github.com/OpenTraceLab/OpenTraceDRC/pkg/drc"
)

var bucket = []byte("approvals")

// Entry is one stored waiver.
type Entry struct {
	Key        string
	ApprovedAt time.Time
}

// Store is an approval database backed by a bolt file.
type Store struct {
	db  *bolt.DB
	now func() time.Time
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("approval: open %s: %w", path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("approval: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close releases the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Approve waives m.
func (s *Store) Approve(m drc.Message) error {
	stamp := s.now().UTC().Format(time.RFC3339)
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(m.ApprovalKey()), []byte(stamp))
	})
}

// Revoke removes the waiver of m, if any.
func (s *Store) Revoke(m drc.Message) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Delete([]byte(m.ApprovalKey()))
	})
}

// IsApproved reports whether m is waived.
func (s *Store) IsApproved(m drc.Message) (bool, error) {
	var ok bool
	err := s.db.View(func(tx *bolt.Tx) error {
		ok = tx.Bucket(bucket).Get([]byte(m.ApprovalKey())) != nil
		return nil
	})
	return ok, err
}

// Filter splits msgs into open and approved messages, keeping their order.
func (s *Store) Filter(msgs []drc.Message) (open, approved []drc.Message, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		for _, m := range msgs {
			if b.Get([]byte(m.ApprovalKey())) != nil {
				approved = append(approved, m)
			} else {
				open = append(open, m)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return open, approved, nil
}

// Entries lists all waivers ordered by key.
func (s *Store) Entries() ([]Entry, error) {
	var out []Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).ForEach(func(k, v []byte) error {
			at, err := time.Parse(time.RFC3339, string(v))
			if err != nil {
				return fmt.Errorf("approval %q: %w", k, err)
			}
			out = append(out, Entry{Key: string(k), ApprovedAt: at})
			return nil
		})
	})
	return out, err
}
