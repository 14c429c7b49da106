// Package program implements the arcade program: the instruction
// processor and the state-transition engines behind the daily
// content-contest platform.
//
// Callers submit an opcode, a payload, and an ordered account list.
// The processor decodes the payload, authenticates every account
// against its derived address or fixed well-known address, executes
// the engine-specific transition, and writes the updated records back.
// Each invocation is independent; there is no shared state between
// calls beyond the account records themselves.
package program

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Opcode identifies an instruction.
type Opcode uint8

// Instruction opcodes.
const (
	OpInit Opcode = iota
	OpEnter
	OpVote
	OpClaimPrize
	OpListItem
	OpPurchaseItem
)

// ErrInvalidInstructionData is returned when a payload does not match
// any opcode's declared argument shape.
var ErrInvalidInstructionData = errors.New("invalid instruction data")

func (o Opcode) String() string {
	switch o {
	case OpInit:
		return "Init"
	case OpEnter:
		return "Enter"
	case OpVote:
		return "Vote"
	case OpClaimPrize:
		return "ClaimPrize"
	case OpListItem:
		return "ListItem"
	case OpPurchaseItem:
		return "PurchaseItem"
	default:
		return fmt.Sprintf("Opcode(%d)", uint8(o))
	}
}

// EnterMeta is the Enter payload.
type EnterMeta struct {
	Game uint8
}

// VoteMeta is the Vote payload. Vote is 1 for a positive vote and 2
// for a negative vote.
type VoteMeta struct {
	Game uint8
	Vote uint8
}

// ClaimPrizeMeta is the ClaimPrize payload. Date is the calendar day
// of the contest being claimed.
type ClaimPrizeMeta struct {
	Game uint8
	Date uint32
}

// ListMeta is the ListItem payload.
type ListMeta struct {
	ItemType uint8
	Quantity uint64
	Price    uint64
}

// PurchaseMeta is the PurchaseItem payload.
type PurchaseMeta struct {
	Quantity uint64
}

// Instruction is a decoded opcode plus its payload.
type Instruction struct {
	Op         Opcode
	Enter      EnterMeta
	Vote       VoteMeta
	ClaimPrize ClaimPrizeMeta
	List       ListMeta
	Purchase   PurchaseMeta
}

// payloadSize returns the exact payload length of each opcode.
func payloadSize(op Opcode) (int, bool) {
	switch op {
	case OpInit:
		return 0, true
	case OpEnter:
		return 1, true
	case OpVote:
		return 2, true
	case OpClaimPrize:
		return 5, true
	case OpListItem:
		return 17, true
	case OpPurchaseItem:
		return 8, true
	default:
		return 0, false
	}
}

// DecodeInstruction decodes an opcode tag and payload. A payload whose
// shape does not match the opcode fails before dispatch.
func DecodeInstruction(data []byte) (*Instruction, error) {
	if len(data) < 1 {
		return nil, ErrInvalidInstructionData
	}
	op := Opcode(data[0])
	payload := data[1:]

	want, ok := payloadSize(op)
	if !ok {
		return nil, fmt.Errorf("%w: unknown opcode %d", ErrInvalidInstructionData, data[0])
	}
	if len(payload) != want {
		return nil, fmt.Errorf("%w: %s payload is %d bytes, want %d",
			ErrInvalidInstructionData, op, len(payload), want)
	}

	ins := &Instruction{Op: op}
	switch op {
	case OpInit:
	case OpEnter:
		ins.Enter = EnterMeta{Game: payload[0]}
	case OpVote:
		ins.Vote = VoteMeta{Game: payload[0], Vote: payload[1]}
	case OpClaimPrize:
		ins.ClaimPrize = ClaimPrizeMeta{
			Game: payload[0],
			Date: binary.LittleEndian.Uint32(payload[1:]),
		}
	case OpListItem:
		ins.List = ListMeta{
			ItemType: payload[0],
			Quantity: binary.LittleEndian.Uint64(payload[1:]),
			Price:    binary.LittleEndian.Uint64(payload[9:]),
		}
	case OpPurchaseItem:
		ins.Purchase = PurchaseMeta{Quantity: binary.LittleEndian.Uint64(payload)}
	}
	return ins, nil
}

// Encode serializes the instruction to its wire form.
func (i *Instruction) Encode() []byte {
	size, _ := payloadSize(i.Op)
	buf := make([]byte, 1+size)
	buf[0] = byte(i.Op)

	switch i.Op {
	case OpEnter:
		buf[1] = i.Enter.Game
	case OpVote:
		buf[1] = i.Vote.Game
		buf[2] = i.Vote.Vote
	case OpClaimPrize:
		buf[1] = i.ClaimPrize.Game
		binary.LittleEndian.PutUint32(buf[2:], i.ClaimPrize.Date)
	case OpListItem:
		buf[1] = i.List.ItemType
		binary.LittleEndian.PutUint64(buf[2:], i.List.Quantity)
		binary.LittleEndian.PutUint64(buf[10:], i.List.Price)
	case OpPurchaseItem:
		binary.LittleEndian.PutUint64(buf[1:], i.Purchase.Quantity)
	}
	return buf
}
