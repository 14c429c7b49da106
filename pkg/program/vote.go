package program

import (
	"fmt"

	"github.com/fortiblox/X1-Arcade/internal/types"
	"github.com/fortiblox/X1-Arcade/pkg/runtime"
	"github.com/fortiblox/X1-Arcade/pkg/state"
	"github.com/fortiblox/X1-Arcade/pkg/token"
)

// Vote codes carried in the instruction payload.
const (
	voteUp   = 1
	voteDown = 2
)

// processVote records the signer's vote on another user's entry for
// the current day, pays the voter reward, optionally pays a referrer,
// and re-ranks the entry owner on the day's leaderboard.
func (p *Processor) processVote(env runtime.Env, accounts runtime.Accounts, meta VoteMeta) error {
	if meta.Vote != voteUp && meta.Vote != voteDown {
		return ErrInvalidVote
	}

	user, err := accounts.Get(0)
	if err != nil {
		return err
	}
	if err := requireSigner(user); err != nil {
		return err
	}

	pdaAcct, err := accounts.Get(1)
	if err != nil {
		return err
	}
	bump, err := CheckProgramDataAccount(pdaAcct, p.programID, seedBytes(AuthoritySeed))
	if err != nil {
		return err
	}

	statsAcct, err := accounts.Get(2)
	if err != nil {
		return err
	}
	if _, err := CheckProgramDataAccount(statsAcct, p.programID, seedBytes(StatsSeed)); err != nil {
		return err
	}

	entryAcct, err := accounts.Get(3)
	if err != nil {
		return err
	}
	voterProfileAcct, err := accounts.Get(4)
	if err != nil {
		return err
	}
	creator, err := accounts.Get(5)
	if err != nil {
		return err
	}
	creatorProfileAcct, err := accounts.Get(6)
	if err != nil {
		return err
	}
	lbAcct, err := accounts.Get(7)
	if err != nil {
		return err
	}
	mintAcct, err := accounts.Get(8)
	if err != nil {
		return err
	}
	if err := checkFixedAddress(mintAcct, types.RewardMintAddr, "reward mint"); err != nil {
		return err
	}
	userToken, err := accounts.Get(9)
	if err != nil {
		return err
	}

	for i, check := range []func(*runtime.AccountInfo) error{
		checkSystemProgram, checkTokenProgram, checkAssociatedTokenProgram,
	} {
		acct, err := accounts.Get(10 + i)
		if err != nil {
			return err
		}
		if err := check(acct); err != nil {
			return err
		}
	}

	if creator.Key == user.Key {
		return ErrSelfVote
	}

	day := runtime.CurrentDay(env.Now())
	if _, err := CheckProgramDataAccount(entryAcct, p.programID,
		creator.Key[:], gameSeed(meta.Game), daySeed(day)); err != nil {
		return err
	}
	if _, err := CheckProgramDataAccount(lbAcct, p.programID,
		gameSeed(meta.Game), daySeed(day), leaderboardTag); err != nil {
		return err
	}
	if _, err := CheckProgramDataAccount(creatorProfileAcct, p.programID,
		creator.Key[:], userTag); err != nil {
		return err
	}
	if err := checkTokenAccount(user, mintAcct, userToken); err != nil {
		return err
	}

	if !entryAcct.IsInitialized() {
		return ErrNoEntry
	}

	if err := createUserProfile(env, p.programID, user, voterProfileAcct, statsAcct); err != nil {
		return err
	}

	entry, err := state.DecodeEntry(entryAcct.Data)
	if err != nil {
		return fmt.Errorf("decode entry: %w", err)
	}
	creatorProfile, err := state.DecodeUser(creatorProfileAcct.Data)
	if err != nil {
		return fmt.Errorf("decode creator profile: %w", err)
	}
	voterProfile, err := state.DecodeUser(voterProfileAcct.Data)
	if err != nil {
		return fmt.Errorf("decode voter profile: %w", err)
	}

	if meta.Vote == voteUp {
		entry.PositiveVotes++
		creatorProfile.TotalPositiveVotes++
		voterProfile.TotalPositiveVoted++
	} else {
		entry.NegativeVotes++
		creatorProfile.TotalNegativeVotes++
		voterProfile.TotalNegativeVoted++
	}
	writeRecord(entryAcct, entry.Serialize())
	writeRecord(creatorProfileAcct, creatorProfile.Serialize())
	writeRecord(voterProfileAcct, voterProfile.Serialize())

	if err := token.CreateAssociatedAccount(user, user, mintAcct, userToken); err != nil {
		return fmt.Errorf("create reward account: %w", err)
	}
	capability := p.authority(pdaAcct, bump)
	if err := mintReward(env, mintAcct, userToken, capability, voteReward); err != nil {
		return err
	}

	// Referral bonus goes out only when the referrer's reward account
	// already exists; it is never auto-created on their behalf.
	if ref := accounts.Optional(13); ref != nil && ref.Key != user.Key {
		refToken := accounts.Optional(14)
		if refToken == nil {
			return runtime.ErrNotEnoughAccounts
		}
		if err := checkTokenAccount(ref, mintAcct, refToken); err != nil {
			return err
		}
		if refToken.IsInitialized() {
			if err := mintReward(env, mintAcct, refToken, capability, referralReward); err != nil {
				return err
			}
		} else {
			env.Log("referrer %s has no reward account, skipping bonus", ref.Key)
		}
	}

	if !lbAcct.IsInitialized() {
		rec := &state.Leaderboard{Kind: state.KindLeaderboard, Game: meta.Game, Date: day}
		if err := createProgramAccount(env, user, lbAcct, p.programID, rec.Size()); err != nil {
			return err
		}
		writeRecord(lbAcct, rec.Serialize())
	}

	lb, err := state.DecodeLeaderboard(lbAcct.Data)
	if err != nil {
		return fmt.Errorf("decode leaderboard: %w", err)
	}

	oldSize := len(lbAcct.Data)
	if upsertScore(lb, creatorProfile.ID, entry.Score()) {
		if err := checkForRealloc(env, lbAcct, user, oldSize, lb.Size()); err != nil {
			return err
		}
		writeRecord(lbAcct, lb.Serialize())
	}
	return nil
}
