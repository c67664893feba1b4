// Package bbolt implements the ports.History interface using bbolt (embedded B+ tree).
// Each project gets its own top-level bucket. Within that bucket, the "runs"
// sub-bucket holds JSON run metadata and the "offsets" sub-bucket holds the
// binary match offsets, both keyed by the big-endian run ID. Writes are
// transactional: a crash mid-write cannot corrupt previously committed runs.
package bbolt

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/corey/bmsearch/internal/ports"
	bolt "go.etcd.io/bbolt"
)

// Bucket keys
var (
	bucketRuns    = []byte("runs")
	bucketOffsets = []byte("offsets")
)

// Store implements ports.History backed by bbolt.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// runKey encodes a run ID so that byte order equals numeric order.
func runKey(id uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, id)
	return k
}

// runJSON is the stored metadata; matches live in the offsets bucket.
type runJSON struct {
	Time       time.Time `json:"time"`
	Pattern    string    `json:"pattern"`
	Source     string    `json:"source"`
	TextLen    int       `json:"text_len"`
	Alphabet   string    `json:"alphabet"`
	Steps      int       `json:"steps"`
	Skipped    int       `json:"skipped"`
	Degenerate string    `json:"degenerate,omitempty"`
}

// SaveRun appends a run and returns its ID.
func (s *Store) SaveRun(projectID string, run *ports.Run) (uint64, error) {
	if run == nil {
		return 0, fmt.Errorf("nil run")
	}

	meta, err := json.Marshal(runJSON{
		Time:       run.Time,
		Pattern:    run.Pattern,
		Source:     run.Source,
		TextLen:    run.TextLen,
		Alphabet:   run.Alphabet,
		Steps:      run.Steps,
		Skipped:    run.Skipped,
		Degenerate: run.Degenerate,
	})
	if err != nil {
		return 0, fmt.Errorf("marshal run: %w", err)
	}
	offsets, err := encodeOffsets(run.Matches)
	if err != nil {
		return 0, fmt.Errorf("encode offsets: %w", err)
	}

	var id uint64
	err = s.db.Update(func(tx *bolt.Tx) error {
		proj, err := tx.CreateBucketIfNotExists([]byte(projectID))
		if err != nil {
			return err
		}
		rb, err := proj.CreateBucketIfNotExists(bucketRuns)
		if err != nil {
			return err
		}
		ob, err := proj.CreateBucketIfNotExists(bucketOffsets)
		if err != nil {
			return err
		}
		id, err = rb.NextSequence()
		if err != nil {
			return err
		}
		key := runKey(id)
		if err := rb.Put(key, meta); err != nil {
			return err
		}
		return ob.Put(key, offsets)
	})
	if err != nil {
		return 0, err
	}
	run.ID = id
	return id, nil
}

// ListRuns returns up to limit runs, newest first.
func (s *Store) ListRuns(projectID string, limit int) ([]*ports.Run, error) {
	runs := []*ports.Run{}

	err := s.db.View(func(tx *bolt.Tx) error {
		proj := tx.Bucket([]byte(projectID))
		if proj == nil {
			return nil
		}
		rb := proj.Bucket(bucketRuns)
		if rb == nil {
			return nil
		}
		ob := proj.Bucket(bucketOffsets)

		c := rb.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(runs) >= limit {
				break
			}
			var rj runJSON
			if err := json.Unmarshal(v, &rj); err != nil {
				return fmt.Errorf("unmarshal run %x: %w", k, err)
			}
			run := &ports.Run{
				ID:         binary.BigEndian.Uint64(k),
				Time:       rj.Time,
				Pattern:    rj.Pattern,
				Source:     rj.Source,
				TextLen:    rj.TextLen,
				Alphabet:   rj.Alphabet,
				Steps:      rj.Steps,
				Skipped:    rj.Skipped,
				Degenerate: rj.Degenerate,
			}
			// Decoding copies out of the transaction (bbolt slices are only valid within tx)
			if ob != nil {
				if raw := ob.Get(k); raw != nil {
					matches, err := decodeOffsets(raw)
					if err != nil {
						return fmt.Errorf("decode offsets for run %d: %w", run.ID, err)
					}
					run.Matches = matches
				}
			}
			runs = append(runs, run)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// PruneRuns keeps the newest keep runs and deletes the rest.
func (s *Store) PruneRuns(projectID string, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		proj := tx.Bucket([]byte(projectID))
		if proj == nil {
			return nil
		}
		rb := proj.Bucket(bucketRuns)
		if rb == nil {
			return nil
		}
		ob := proj.Bucket(bucketOffsets)

		// Collect first: deleting while iterating a cursor skips keys.
		var stale [][]byte
		seen := 0
		c := rb.Cursor()
		for k, _ := c.Last(); k != nil; k, _ = c.Prev() {
			seen++
			if seen > keep {
				stale = append(stale, append([]byte(nil), k...))
			}
		}
		for _, k := range stale {
			if err := rb.Delete(k); err != nil {
				return err
			}
			if ob != nil {
				if err := ob.Delete(k); err != nil {
					return err
				}
			}
		}
		removed = len(stale)
		return nil
	})
	return removed, err
}

// DeleteProject removes all runs for a project.
// Idempotent: deleting a nonexistent project is not an error.
func (s *Store) DeleteProject(projectID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(projectID)); err == bolt.ErrBucketNotFound {
			return nil // idempotent
		} else {
			return err
		}
	})
}
