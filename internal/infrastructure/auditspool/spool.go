// Package auditspool persists audit events locally while Redis is
// unreachable, so auth outcomes are never silently lost.
package auditspool

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

// Event is a spooled audit record. Only the account email and the outcome
// are stored; credential material never enters the spool.
type Event struct {
	ID      string    `json:"id"`
	Kind    string    `json:"kind"`
	Email   string    `json:"email"`
	Reason  string    `json:"reason,omitempty"`
	At      time.Time `json:"at"`
	Retries int       `json:"retries"`

	key []byte
}

func (e *Event) normalize() {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}
}

// NewEvent builds a fully identified event. Events carry the same id and
// timestamp whether they reach Redis directly or via the spool.
func NewEvent(kind, email, reason string) Event {
	e := Event{
		Kind:   kind,
		Email:  email,
		Reason: reason,
	}
	e.normalize()
	return e
}

// Store wraps BoltDB to hold spooled events in insertion order.
type Store struct {
	db     *bolt.DB
	bucket []byte
}

// Open initializes the BoltDB file and ensures the bucket exists.
func Open(path string, bucket string) (*Store, error) {
	if bucket == "" {
		bucket = "audit"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:     db,
		bucket: []byte(bucket),
	}, nil
}

// Enqueue stores an event under a time-ordered key.
func (s *Store) Enqueue(event Event) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	event.normalize()
	event.key = []byte(buildKey(event))

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put(event.key, payload)
	})
}

// GetBatch returns up to limit events in insertion order without removing them.
func (s *Store) GetBatch(limit int) ([]Event, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	if limit <= 0 {
		limit = 50
	}

	var events []Event
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		for k, v := c.First(); k != nil && len(events) < limit; k, v = c.Next() {
			var event Event
			if err := json.Unmarshal(v, &event); err != nil {
				continue
			}
			event.key = append([]byte(nil), k...)
			events = append(events, event)
		}
		return nil
	})
	return events, err
}

// Remove deletes a previously fetched event.
func (s *Store) Remove(event Event) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if len(event.key) == 0 {
		return s.deleteByID(event.ID)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete(event.key)
	})
}

// Requeue re-inserts an event at the back of the spool, keeping its retry count.
func (s *Store) Requeue(event Event) error {
	event.key = nil
	event.At = time.Now()
	return s.Enqueue(event)
}

// Size returns the number of spooled events.
func (s *Store) Size() (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(s.bucket).Stats().KeyN
		return nil
	})
	return count, err
}

// Cleanup removes events older than the provided timestamp.
func (s *Store) Cleanup(olderThan time.Time) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var event Event
			if err := json.Unmarshal(v, &event); err != nil {
				continue
			}
			if event.At.Before(olderThan) {
				if err := c.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) deleteByID(id string) error {
	if id == "" {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var event Event
			if err := json.Unmarshal(v, &event); err != nil {
				continue
			}
			if event.ID == id {
				return c.Delete()
			}
		}
		return nil
	})
}

func buildKey(event Event) string {
	return fmt.Sprintf("%020d_%s", event.At.UnixNano(), event.ID)
}
