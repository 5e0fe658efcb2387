package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/lifeplay/internal/board"
)

const keyRunStats = "stats/last"

// PredecessorRecord is the archived form of a found predecessor board.
type PredecessorRecord struct {
	Step    int       `json:"step"`
	Width   int       `json:"width"`
	Height  int       `json:"height"`
	Cells   string    `json:"cells"`
	FoundAt time.Time `json:"found_at"`
}

// RunStats summarises one search run.
type RunStats struct {
	Targets    int           `json:"targets"`
	TargetStep int           `json:"target_step"`
	BestStep   int           `json:"best_step"`
	Processed  int           `json:"processed"`
	Duration   time.Duration `json:"duration"`
	FinishedAt time.Time     `json:"finished_at"`
}

// Archive wraps BadgerDB for persistent storage of search results.
type Archive struct {
	db *badger.DB
}

// Open opens the archive in the platform data directory.
func Open() (*Archive, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return OpenAt(dbDir)
}

// OpenAt opens an archive rooted at dir.
func OpenAt(dir string) (*Archive, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Archive{db: db}, nil
}

// Close closes the database.
func (a *Archive) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func predecessorKey(step int, b *board.Board) []byte {
	return []byte(fmt.Sprintf("pred/%03d/%016x", step, b.Hash()))
}

// RecordPredecessor stores b as a depth-step predecessor. Re-recording
// the same board at the same depth overwrites the earlier record.
func (a *Archive) RecordPredecessor(step int, b *board.Board) error {
	record := PredecessorRecord{
		Step:    step,
		Width:   b.Width(),
		Height:  b.Height(),
		Cells:   b.String(),
		FoundAt: time.Now(),
	}
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return a.db.Update(func(txn *badger.Txn) error {
		return txn.Set(predecessorKey(step, b), data)
	})
}

// LoadPredecessors returns every archived predecessor at the given depth.
func (a *Archive) LoadPredecessors(step int) ([]PredecessorRecord, error) {
	var records []PredecessorRecord
	prefix := []byte(fmt.Sprintf("pred/%03d/", step))

	err := a.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var record PredecessorRecord
				if err := json.Unmarshal(val, &record); err != nil {
					return err
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return records, err
}

// SaveRunStats stores the latest run summary.
func (a *Archive) SaveRunStats(stats *RunStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return a.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyRunStats), data)
	})
}

// LoadRunStats loads the latest run summary, or zero stats if none were
// recorded yet.
func (a *Archive) LoadRunStats() (*RunStats, error) {
	stats := &RunStats{}

	err := a.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyRunStats))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, stats)
		})
	})
	return stats, err
}
