package ledger

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/fortiblox/X1-Arcade/internal/types"
)

// Snapshot errors.
var (
	// ErrSnapshotNotFound is returned when a snapshot file doesn't exist.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrInvalidSnapshot is returned when a snapshot file is malformed.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// snapshotMagic identifies a snapshot stream.
var snapshotMagic = [4]byte{'X', 'A', 'S', 'N'}

const snapshotVersion uint16 = 1

// SnapshotResult summarizes a snapshot read or write.
type SnapshotResult struct {
	// Height is the applied-invocation height the snapshot captures.
	Height uint64

	// AccountsCount is the number of accounts in the snapshot.
	AccountsCount uint64

	// Capitalization is the sum of all account balances.
	Capitalization uint64
}

// WriteSnapshot streams every stored account to w as a
// zstd-compressed snapshot.
//
// Stream layout (inside the zstd frame, all integers little-endian):
//
//	magic (4) + version (2) + height (8) + count (8)
//	per account: pubkey (32) + record_len (4) + record bytes
func WriteSnapshot(db DB, w io.Writer) (*SnapshotResult, error) {
	count, err := db.AccountsCount()
	if err != nil {
		return nil, err
	}

	encoder, err := zstd.NewWriter(w)
	if err != nil {
		return nil, fmt.Errorf("create encoder: %w", err)
	}

	result := &SnapshotResult{
		Height:        db.GetHeight(),
		AccountsCount: count,
	}

	header := make([]byte, 4+2+8+8)
	copy(header, snapshotMagic[:])
	binary.LittleEndian.PutUint16(header[4:], snapshotVersion)
	binary.LittleEndian.PutUint64(header[6:], result.Height)
	binary.LittleEndian.PutUint64(header[14:], count)
	if _, err := encoder.Write(header); err != nil {
		encoder.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	var written uint64
	lenBuf := make([]byte, 4)

	emit := func(pubkey types.Pubkey, account *Account) error {
		record := account.Serialize()
		if _, err := encoder.Write(pubkey[:]); err != nil {
			return err
		}
		binary.LittleEndian.PutUint32(lenBuf, uint32(len(record)))
		if _, err := encoder.Write(lenBuf); err != nil {
			return err
		}
		if _, err := encoder.Write(record); err != nil {
			return err
		}
		written++
		result.Capitalization += account.Lamports
		return nil
	}

	switch v := db.(type) {
	case *BadgerDB:
		err = v.IterateAccounts(emit)
	case *MemoryDB:
		for pubkey, account := range v.GetAllAccounts() {
			if err = emit(pubkey, account); err != nil {
				break
			}
		}
	default:
		err = ErrInvalidData
	}
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("write accounts: %w", err)
	}

	if written != count {
		encoder.Close()
		return nil, fmt.Errorf("%w: wrote %d accounts, expected %d", ErrInvalidSnapshot, written, count)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("flush encoder: %w", err)
	}
	return result, nil
}

// ReadSnapshot loads a snapshot stream into the database, replacing
// nothing: accounts already present keep their state unless the
// snapshot carries the same address. The stored height is set to the
// snapshot's height and the result is committed.
func ReadSnapshot(db DB, r io.Reader) (*SnapshotResult, error) {
	decoder, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}
	defer decoder.Close()

	header := make([]byte, 4+2+8+8)
	if _, err := io.ReadFull(decoder, header); err != nil {
		return nil, fmt.Errorf("%w: short header", ErrInvalidSnapshot)
	}
	if [4]byte(header[:4]) != snapshotMagic {
		return nil, fmt.Errorf("%w: bad magic", ErrInvalidSnapshot)
	}
	if version := binary.LittleEndian.Uint16(header[4:]); version != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, version)
	}

	result := &SnapshotResult{
		Height:        binary.LittleEndian.Uint64(header[6:]),
		AccountsCount: binary.LittleEndian.Uint64(header[14:]),
	}

	lenBuf := make([]byte, 4)
	var pubkey types.Pubkey

	for i := uint64(0); i < result.AccountsCount; i++ {
		if _, err := io.ReadFull(decoder, pubkey[:]); err != nil {
			return nil, fmt.Errorf("%w: truncated at account %d", ErrInvalidSnapshot, i)
		}
		if _, err := io.ReadFull(decoder, lenBuf); err != nil {
			return nil, fmt.Errorf("%w: truncated at account %d", ErrInvalidSnapshot, i)
		}
		recordLen := binary.LittleEndian.Uint32(lenBuf)
		if recordLen > maxAccountDataSize {
			return nil, fmt.Errorf("%w: oversized record at account %d", ErrInvalidSnapshot, i)
		}
		record := make([]byte, recordLen)
		if _, err := io.ReadFull(decoder, record); err != nil {
			return nil, fmt.Errorf("%w: truncated at account %d", ErrInvalidSnapshot, i)
		}

		account, err := DeserializeAccount(record)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", pubkey, err)
		}
		if err := db.SetAccount(pubkey, account); err != nil {
			return nil, fmt.Errorf("set account %s: %w", pubkey, err)
		}
		result.Capitalization += account.Lamports
	}

	if err := db.SetHeight(result.Height); err != nil {
		return nil, err
	}
	if err := db.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return result, nil
}

// ExportSnapshot writes a snapshot of the database to a file.
func ExportSnapshot(db DB, path string) (*SnapshotResult, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create snapshot: %w", err)
	}

	result, err := WriteSnapshot(db, f)
	if err != nil {
		f.Close()
		os.Remove(path)
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close snapshot: %w", err)
	}
	return result, nil
}

// ImportSnapshot loads a snapshot file into the database.
func ImportSnapshot(db DB, path string) (*SnapshotResult, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	return ReadSnapshot(db, f)
}
