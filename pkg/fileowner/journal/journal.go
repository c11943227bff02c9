package journal

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/jamesainslie/fileowner/pkg/fileowner/logging"
)

// Key prefixes.
const (
	prefixChrono = "c:" // c:<big-endian unix nanos><id> -> Entry JSON
	prefixIndex  = "i:" // i:<id> -> chronological key
)

var (
	// ErrEntryNotFound is returned when no entry matches an ID.
	ErrEntryNotFound = errors.New("journal entry not found")

	// ErrAmbiguousID is returned when an ID prefix matches several entries.
	ErrAmbiguousID = errors.New("journal entry id is ambiguous")
)

// Journal is a Badger-backed log of ownership changes. It is safe for
// concurrent use; Badger holds a directory lock so only one process can
// open a journal at a time.
type Journal struct {
	db *badger.DB
}

// Open opens or creates a journal in dir.
func Open(dir string) (*Journal, error) {
	if dir == "" {
		return nil, errors.New("journal directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable badger logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close closes the journal.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record stores e, assigning an ID and timestamp when they are unset, and
// returns the stored entry.
func (j *Journal) Record(e Entry) (*Entry, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	if e.Operation == "" {
		e.Operation = OpSet
	}

	data, err := json.Marshal(&e)
	if err != nil {
		return nil, fmt.Errorf("encoding journal entry: %w", err)
	}

	key := chronoKey(e.Timestamp, e.ID)
	err = j.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(indexKey(e.ID)); err == nil {
			return fmt.Errorf("duplicate journal entry id %s", e.ID)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set(indexKey(e.ID), key)
	})
	if err != nil {
		return nil, fmt.Errorf("writing journal entry: %w", err)
	}

	logging.Get("journal").Debug("recorded", "id", e.ID, "op", e.Operation, "path", e.Path)
	return &e, nil
}

// Get returns the entry with the given ID. A unique prefix of an ID is
// accepted as well.
func (j *Journal) Get(id string) (*Entry, error) {
	if id == "" {
		return nil, errors.New("entry ID cannot be empty")
	}

	var entry Entry
	err := j.db.View(func(txn *badger.Txn) error {
		key, err := lookupIndex(txn, id)
		if err != nil {
			return err
		}

		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrEntryNotFound, id)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// lookupIndex resolves an ID or ID prefix to its chronological key.
func lookupIndex(txn *badger.Txn, id string) ([]byte, error) {
	item, err := txn.Get(indexKey(id))
	if err == nil {
		return item.ValueCopy(nil)
	}
	if !errors.Is(err, badger.ErrKeyNotFound) {
		return nil, err
	}

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	prefix := indexKey(id)
	var match []byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		if match != nil {
			return nil, fmt.Errorf("%w: %s", ErrAmbiguousID, id)
		}
		if match, err = it.Item().ValueCopy(nil); err != nil {
			return nil, err
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	return match, nil
}

// List returns entries newest first. If limit is 0 or negative, all
// entries are returned.
func (j *Journal) List(limit int) ([]Entry, error) {
	entries := []Entry{}

	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(prefixChrono)
		for it.Seek(append([]byte(prefixChrono), 0xff)); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(entries) >= limit {
				break
			}

			var e Entry
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			}); err != nil {
				return fmt.Errorf("decoding journal entry: %w", err)
			}
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// Cleanup removes entries recorded more than olderThan ago and returns how
// many were removed.
func (j *Journal) Cleanup(olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)

	var keys [][]byte
	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(prefixChrono)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			ts, id, ok := parseChronoKey(key)
			if !ok {
				continue
			}
			if !ts.Before(cutoff) {
				break
			}
			keys = append(keys, key, indexKey(id))
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scanning journal: %w", err)
	}

	if len(keys) == 0 {
		return 0, nil
	}

	wb := j.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range keys {
		if err := wb.Delete(key); err != nil {
			return 0, fmt.Errorf("deleting journal entries: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, fmt.Errorf("deleting journal entries: %w", err)
	}

	removed := len(keys) / 2
	logging.Get("journal").Info("cleaned journal", "removed", removed, "cutoff", cutoff.Format(time.RFC3339))
	return removed, nil
}

func chronoKey(ts time.Time, id string) []byte {
	key := make([]byte, 0, len(prefixChrono)+8+len(id))
	key = append(key, prefixChrono...)
	key = binary.BigEndian.AppendUint64(key, uint64(ts.UnixNano()))
	return append(key, id...)
}

func parseChronoKey(key []byte) (time.Time, string, bool) {
	rest, ok := strings.CutPrefix(string(key), prefixChrono)
	if !ok || len(rest) < 8 {
		return time.Time{}, "", false
	}
	nanos := binary.BigEndian.Uint64([]byte(rest[:8]))
	return time.Unix(0, int64(nanos)), rest[8:], true
}

func indexKey(id string) []byte {
	return []byte(prefixIndex + id)
}
