package ledger

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fortiblox/X1-Arcade/internal/types"
	bolt "go.etcd.io/bbolt"
)

// Journal errors.
var (
	// ErrJournalClosed is returned when operating on a closed journal.
	ErrJournalClosed = errors.New("journal closed")

	// ErrNotRecorded is returned when an invocation is not in the journal.
	ErrNotRecorded = errors.New("invocation not recorded")
)

// Bucket names for BoltDB.
var (
	// bucketInvocations stores invocation results keyed by signature.
	bucketInvocations = []byte("invocations")

	// bucketJournalMeta stores journal metadata.
	bucketJournalMeta = []byte("metadata")
)

var keyJournalHeight = []byte("height")

// InvocationResult is the recorded outcome of one applied invocation.
type InvocationResult struct {
	// Height is the invocation height at which it was applied.
	Height uint64

	// DeltaHash digests the accounts the invocation modified. Zero for
	// a failed invocation.
	DeltaHash types.Hash

	// Err holds the failure message, empty on success.
	Err string
}

// Ok reports whether the invocation succeeded.
func (r *InvocationResult) Ok() bool { return r.Err == "" }

func (r *InvocationResult) serialize() []byte {
	buf := make([]byte, 8+32+len(r.Err))
	binary.LittleEndian.PutUint64(buf, r.Height)
	copy(buf[8:], r.DeltaHash[:])
	copy(buf[40:], r.Err)
	return buf
}

func deserializeResult(data []byte) (*InvocationResult, error) {
	if len(data) < 40 {
		return nil, ErrInvalidData
	}
	r := &InvocationResult{
		Height: binary.LittleEndian.Uint64(data),
		Err:    string(data[40:]),
	}
	copy(r.DeltaHash[:], data[8:])
	return r, nil
}

// Journal is the bbolt-backed record of applied invocations, keyed by
// signature. The executor consults it before applying an invocation so
// a resubmission returns the recorded outcome instead of running
// twice.
type Journal struct {
	db     *bolt.DB
	closed bool
}

// OpenJournal creates or opens a journal file.
func OpenJournal(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketInvocations); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketJournalMeta)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create buckets: %w", err)
	}
	return &Journal{db: db}, nil
}

// Record stores an invocation outcome. Re-recording the same signature
// overwrites, which keeps the operation idempotent for the executor.
func (j *Journal) Record(sig types.Signature, result *InvocationResult) error {
	if j.closed {
		return ErrJournalClosed
	}
	return j.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketInvocations).Put(sig[:], result.serialize()); err != nil {
			return err
		}
		heightBuf := make([]byte, 8)
		binary.LittleEndian.PutUint64(heightBuf, result.Height)
		return tx.Bucket(bucketJournalMeta).Put(keyJournalHeight, heightBuf)
	})
}

// Lookup returns the recorded outcome for a signature, or
// ErrNotRecorded.
func (j *Journal) Lookup(sig types.Signature) (*InvocationResult, error) {
	if j.closed {
		return nil, ErrJournalClosed
	}
	var result *InvocationResult
	err := j.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketInvocations).Get(sig[:])
		if data == nil {
			return ErrNotRecorded
		}
		r, err := deserializeResult(data)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Height returns the height of the last recorded invocation.
func (j *Journal) Height() (uint64, error) {
	if j.closed {
		return 0, ErrJournalClosed
	}
	var height uint64
	err := j.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketJournalMeta).Get(keyJournalHeight)
		if len(data) >= 8 {
			height = binary.LittleEndian.Uint64(data)
		}
		return nil
	})
	return height, err
}

// Count returns the number of recorded invocations.
func (j *Journal) Count() (uint64, error) {
	if j.closed {
		return 0, ErrJournalClosed
	}
	var count uint64
	err := j.db.View(func(tx *bolt.Tx) error {
		count = uint64(tx.Bucket(bucketInvocations).Stats().KeyN)
		return nil
	})
	return count, err
}

// Close closes the journal.
func (j *Journal) Close() error {
	if j.closed {
		return ErrJournalClosed
	}
	j.closed = true
	return j.db.Close()
}
