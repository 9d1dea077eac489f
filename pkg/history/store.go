package history

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/hmaia/sensor-stats/pkg/logger"
)

// Bucket names.
var (
	bucketRuns = []byte("runs") // sequence -> run JSON, in append order
	bucketIDs  = []byte("ids")  // run ID -> sequence
)

// defaultTimeout bounds how long opening the database may block when
// another process holds the file lock.
const defaultTimeout = 1 * time.Second

// store implements the Store interface backed by BoltDB.
type store struct {
	db     *bolt.DB
	logger logger.Logger
}

// New creates a history store at cfg.DBPath.
//
// The database file and its parent directory are created when missing.
//
// Returns error if:
//   - DBPath is empty
//   - The directory cannot be created
//   - The database cannot be opened or initialized
func New(cfg Config, log logger.Logger) (Store, error) {
	if cfg.DBPath == "" {
		return nil, ErrEmptyDBPath
	}
	if log == nil {
		log = logger.Noop()
	}

	dbPath := expandHome(cfg.DBPath)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketRuns); err != nil {
			return fmt.Errorf("failed to create runs bucket: %w", err)
		}
		if _, err := tx.CreateBucketIfNotExists(bucketIDs); err != nil {
			return fmt.Errorf("failed to create ids bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &store{db: db, logger: log}, nil
}

// Append implements Store.Append.
func (s *store) Append(run *Run) error {
	if run == nil {
		return ErrNilRun
	}

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		runs := tx.Bucket(bucketRuns)
		ids := tx.Bucket(bucketIDs)

		seq, err := runs.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate sequence: %w", err)
		}

		key := itob(seq)
		if err := runs.Put(key, data); err != nil {
			return fmt.Errorf("failed to store run: %w", err)
		}
		return ids.Put([]byte(run.ID), key)
	})
	if err != nil {
		return err
	}

	s.logger.Debug("run recorded",
		"id", run.ID,
		"status", run.Status,
		"rows", run.Rows)

	return nil
}

// Get implements Store.Get.
func (s *store) Get(id string) (*Run, error) {
	var run Run

	err := s.db.View(func(tx *bolt.Tx) error {
		key := tx.Bucket(bucketIDs).Get([]byte(id))
		if key == nil {
			return ErrRunNotFound
		}

		data := tx.Bucket(bucketRuns).Get(key)
		if data == nil {
			return ErrRunNotFound
		}

		if err := json.Unmarshal(data, &run); err != nil {
			return fmt.Errorf("failed to unmarshal run: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &run, nil
}

// List implements Store.List.
//
// Runs come back newest first because sequence keys sort in append order.
func (s *store) List(limit int) ([]*Run, error) {
	runs := make([]*Run, 0)

	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketRuns).Cursor()

		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(runs) >= limit {
				break
			}

			var run Run
			if err := json.Unmarshal(v, &run); err != nil {
				s.logger.Warn("skipping invalid run entry", "error", err)
				continue
			}
			runs = append(runs, &run)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return runs, nil
}

// Clear implements Store.Clear.
func (s *store) Clear() error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketRuns, bucketIDs} {
			if err := tx.DeleteBucket(name); err != nil {
				return fmt.Errorf("failed to delete bucket %s: %w", name, err)
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return fmt.Errorf("failed to recreate bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("run history cleared")
	return nil
}

// Close implements Store.Close.
func (s *store) Close() error {
	return s.db.Close()
}

// itob encodes a bucket sequence number as a sortable big-endian key.
func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// expandHome expands ~ in file paths to the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return homeDir
	}

	return filepath.Join(homeDir, path[2:])
}
