// Package state defines the stored record types of the arcade program
// and their canonical binary codec.
//
// Every record begins with a one-byte record kind tag that selects the
// decoder. The encoding is borsh-compatible: fixed-order fields,
// little-endian fixed-width integers, and u32-length-prefixed strings
// and vectors. No component reads or writes record bytes except
// through this package.
package state

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/fortiblox/X1-Arcade/internal/types"
)

// RecordKind discriminates the stored record types.
type RecordKind uint8

// Record kinds.
const (
	KindProgram RecordKind = iota
	KindUser
	KindEntry
	KindLeaderboard
	KindListing
)

// Listing item types.
const (
	ItemFungible    = 1
	ItemCollectible = 2
)

// MaxLeaderboardEntries bounds the per-(game, day) leaderboard size.
const MaxLeaderboardEntries = 10

// Codec errors.
var (
	// ErrShortRecord is returned when record bytes are truncated.
	ErrShortRecord = errors.New("record bytes truncated")

	// ErrWrongKind is returned when the record kind tag does not match
	// the requested decoder.
	ErrWrongKind = errors.New("wrong record kind")

	// ErrRecordTooLarge is returned for implausible vector or string lengths.
	ErrRecordTooLarge = errors.New("record length prefix too large")
)

// maxVecLen rejects corrupt length prefixes before allocation.
const maxVecLen = 1 << 16

func (k RecordKind) String() string {
	switch k {
	case KindProgram:
		return "Program"
	case KindUser:
		return "User"
	case KindEntry:
		return "Entry"
	case KindLeaderboard:
		return "Leaderboard"
	case KindListing:
		return "Listing"
	default:
		return fmt.Sprintf("RecordKind(%d)", uint8(k))
	}
}

// checkKind validates the leading tag byte of a record.
func checkKind(data []byte, want RecordKind) error {
	if len(data) < 1 {
		return ErrShortRecord
	}
	if RecordKind(data[0]) != want {
		return fmt.Errorf("%w: have %s, want %s", ErrWrongKind, RecordKind(data[0]), want)
	}
	return nil
}

// ProgramStats is the singleton global record. NumUsers is the number
// of distinct identities ever seen and only increases.
type ProgramStats struct {
	Kind     RecordKind
	NumUsers uint32
}

// Size returns the serialized size in bytes.
func (s *ProgramStats) Size() int { return 1 + 4 }

// Serialize encodes the record.
func (s *ProgramStats) Serialize() []byte {
	buf := make([]byte, s.Size())
	buf[0] = byte(KindProgram)
	binary.LittleEndian.PutUint32(buf[1:], s.NumUsers)
	return buf
}

// DecodeProgramStats decodes a ProgramStats record.
func DecodeProgramStats(data []byte) (*ProgramStats, error) {
	if err := checkKind(data, KindProgram); err != nil {
		return nil, err
	}
	if len(data) < 5 {
		return nil, ErrShortRecord
	}
	return &ProgramStats{
		Kind:     KindProgram,
		NumUsers: binary.LittleEndian.Uint32(data[1:]),
	}, nil
}

// User is the per-identity profile record. The address is derived from
// the owner key and a fixed "User" tag; the record is created lazily on
// first entry or vote and never deleted.
type User struct {
	Kind   RecordKind
	Key    types.Pubkey
	ID     uint32
	Handle string

	TotalWins          uint32
	TotalPositiveVotes uint32
	TotalNegativeVotes uint32
	TotalPositiveVoted uint32
	TotalNegativeVoted uint32
}

// Size returns the serialized size in bytes.
func (u *User) Size() int {
	return 1 + types.PubkeySize + 4 + 4 + len(u.Handle) + 5*4
}

// Serialize encodes the record.
func (u *User) Serialize() []byte {
	buf := make([]byte, u.Size())
	offset := 0

	buf[offset] = byte(KindUser)
	offset++

	copy(buf[offset:], u.Key[:])
	offset += types.PubkeySize

	binary.LittleEndian.PutUint32(buf[offset:], u.ID)
	offset += 4

	binary.LittleEndian.PutUint32(buf[offset:], uint32(len(u.Handle)))
	offset += 4
	copy(buf[offset:], u.Handle)
	offset += len(u.Handle)

	for _, v := range [5]uint32{
		u.TotalWins,
		u.TotalPositiveVotes,
		u.TotalNegativeVotes,
		u.TotalPositiveVoted,
		u.TotalNegativeVoted,
	} {
		binary.LittleEndian.PutUint32(buf[offset:], v)
		offset += 4
	}
	return buf
}

// DecodeUser decodes a User record.
func DecodeUser(data []byte) (*User, error) {
	if err := checkKind(data, KindUser); err != nil {
		return nil, err
	}
	offset := 1

	u := &User{Kind: KindUser}
	if len(data) < offset+types.PubkeySize+8 {
		return nil, ErrShortRecord
	}
	copy(u.Key[:], data[offset:])
	offset += types.PubkeySize

	u.ID = binary.LittleEndian.Uint32(data[offset:])
	offset += 4

	handleLen := binary.LittleEndian.Uint32(data[offset:])
	offset += 4
	if handleLen > maxVecLen {
		return nil, ErrRecordTooLarge
	}
	if len(data) < offset+int(handleLen)+5*4 {
		return nil, ErrShortRecord
	}
	u.Handle = string(data[offset : offset+int(handleLen)])
	offset += int(handleLen)

	for _, dst := range []*uint32{
		&u.TotalWins,
		&u.TotalPositiveVotes,
		&u.TotalNegativeVotes,
		&u.TotalPositiveVoted,
		&u.TotalNegativeVoted,
	} {
		*dst = binary.LittleEndian.Uint32(data[offset:])
		offset += 4
	}
	return u, nil
}

// Entry is one user's submission to one game on one calendar day. The
// derived address (user key, game, day) is the uniqueness constraint.
type Entry struct {
	Kind          RecordKind
	PositiveVotes uint32
	NegativeVotes uint32
	RewardClaimed uint8
}

// Size returns the serialized size in bytes.
func (e *Entry) Size() int { return 1 + 4 + 4 + 1 }

// Serialize encodes the record.
func (e *Entry) Serialize() []byte {
	buf := make([]byte, e.Size())
	buf[0] = byte(KindEntry)
	binary.LittleEndian.PutUint32(buf[1:], e.PositiveVotes)
	binary.LittleEndian.PutUint32(buf[5:], e.NegativeVotes)
	buf[9] = e.RewardClaimed
	return buf
}

// Score returns the signed net score of the entry.
func (e *Entry) Score() int64 {
	return int64(e.PositiveVotes) - int64(e.NegativeVotes)
}

// DecodeEntry decodes an Entry record.
func DecodeEntry(data []byte) (*Entry, error) {
	if err := checkKind(data, KindEntry); err != nil {
		return nil, err
	}
	if len(data) < 10 {
		return nil, ErrShortRecord
	}
	return &Entry{
		Kind:          KindEntry,
		PositiveVotes: binary.LittleEndian.Uint32(data[1:]),
		NegativeVotes: binary.LittleEndian.Uint32(data[5:]),
		RewardClaimed: data[9],
	}, nil
}

// Leaderboard holds the top-ranked entries for one (game, day) bucket.
// Entrants and Scores are parallel and index-aligned: Entrants[i]
// scored Scores[i]. Length never exceeds MaxLeaderboardEntries.
type Leaderboard struct {
	Kind     RecordKind
	Game     uint8
	Date     uint32
	Entrants []uint32
	Scores   []uint32
}

// Size returns the serialized size in bytes.
func (l *Leaderboard) Size() int {
	return 1 + 1 + 4 + 4 + 4*len(l.Entrants) + 4 + 4*len(l.Scores)
}

// Serialize encodes the record.
func (l *Leaderboard) Serialize() []byte {
	buf := make([]byte, l.Size())
	offset := 0

	buf[offset] = byte(KindLeaderboard)
	offset++
	buf[offset] = l.Game
	offset++
	binary.LittleEndian.PutUint32(buf[offset:], l.Date)
	offset += 4

	binary.LittleEndian.PutUint32(buf[offset:], uint32(len(l.Entrants)))
	offset += 4
	for _, e := range l.Entrants {
		binary.LittleEndian.PutUint32(buf[offset:], e)
		offset += 4
	}

	binary.LittleEndian.PutUint32(buf[offset:], uint32(len(l.Scores)))
	offset += 4
	for _, s := range l.Scores {
		binary.LittleEndian.PutUint32(buf[offset:], s)
		offset += 4
	}
	return buf
}

// DecodeLeaderboard decodes a Leaderboard record.
func DecodeLeaderboard(data []byte) (*Leaderboard, error) {
	if err := checkKind(data, KindLeaderboard); err != nil {
		return nil, err
	}
	offset := 1
	if len(data) < offset+9 {
		return nil, ErrShortRecord
	}

	l := &Leaderboard{Kind: KindLeaderboard}
	l.Game = data[offset]
	offset++
	l.Date = binary.LittleEndian.Uint32(data[offset:])
	offset += 4

	entrantsLen := binary.LittleEndian.Uint32(data[offset:])
	offset += 4
	if entrantsLen > maxVecLen {
		return nil, ErrRecordTooLarge
	}
	if len(data) < offset+4*int(entrantsLen)+4 {
		return nil, ErrShortRecord
	}
	l.Entrants = make([]uint32, entrantsLen)
	for i := range l.Entrants {
		l.Entrants[i] = binary.LittleEndian.Uint32(data[offset:])
		offset += 4
	}

	scoresLen := binary.LittleEndian.Uint32(data[offset:])
	offset += 4
	if scoresLen > maxVecLen {
		return nil, ErrRecordTooLarge
	}
	if len(data) < offset+4*int(scoresLen) {
		return nil, ErrShortRecord
	}
	l.Scores = make([]uint32, scoresLen)
	for i := range l.Scores {
		l.Scores[i] = binary.LittleEndian.Uint32(data[offset:])
		offset += 4
	}
	return l, nil
}

// Listing is a marketplace offer for one item, priced in reward-token
// units. ItemType selects fungible bundle or unique collectible
// settlement.
type Listing struct {
	Kind        RecordKind
	ItemType    uint8
	ItemAddress types.Pubkey
	Price       uint64
	Quantity    uint64
	BundleSize  uint64
}

// Size returns the serialized size in bytes.
func (l *Listing) Size() int { return 1 + 1 + types.PubkeySize + 8 + 8 + 8 }

// Serialize encodes the record.
func (l *Listing) Serialize() []byte {
	buf := make([]byte, l.Size())
	offset := 0

	buf[offset] = byte(KindListing)
	offset++
	buf[offset] = l.ItemType
	offset++
	copy(buf[offset:], l.ItemAddress[:])
	offset += types.PubkeySize

	binary.LittleEndian.PutUint64(buf[offset:], l.Price)
	offset += 8
	binary.LittleEndian.PutUint64(buf[offset:], l.Quantity)
	offset += 8
	binary.LittleEndian.PutUint64(buf[offset:], l.BundleSize)
	return buf
}

// DecodeListing decodes a Listing record.
func DecodeListing(data []byte) (*Listing, error) {
	if err := checkKind(data, KindListing); err != nil {
		return nil, err
	}
	if len(data) < 1+1+types.PubkeySize+24 {
		return nil, ErrShortRecord
	}
	offset := 1

	l := &Listing{Kind: KindListing}
	l.ItemType = data[offset]
	offset++
	copy(l.ItemAddress[:], data[offset:])
	offset += types.PubkeySize

	l.Price = binary.LittleEndian.Uint64(data[offset:])
	offset += 8
	l.Quantity = binary.LittleEndian.Uint64(data[offset:])
	offset += 8
	l.BundleSize = binary.LittleEndian.Uint64(data[offset:])
	return l, nil
}
