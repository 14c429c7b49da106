package program

import (
	"fmt"

	"github.com/fortiblox/X1-Arcade/internal/types"
	"github.com/fortiblox/X1-Arcade/pkg/runtime"
	"github.com/fortiblox/X1-Arcade/pkg/state"
	"github.com/fortiblox/X1-Arcade/pkg/token"
)

// processEnter submits the signer's entry for a game on the current
// calendar day. A first entry creates the Entry record, mints the
// first-entry bonus, and seats the user on the day's leaderboard with
// a zero score. Re-entering the same (game, day) is a no-op.
func (p *Processor) processEnter(env runtime.Env, accounts runtime.Accounts, meta EnterMeta) error {
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
	profileAcct, err := accounts.Get(4)
	if err != nil {
		return err
	}
	mintAcct, err := accounts.Get(5)
	if err != nil {
		return err
	}
	if err := checkFixedAddress(mintAcct, types.RewardMintAddr, "reward mint"); err != nil {
		return err
	}
	userToken, err := accounts.Get(6)
	if err != nil {
		return err
	}
	lbAcct, err := accounts.Get(7)
	if err != nil {
		return err
	}

	for i, check := range []func(*runtime.AccountInfo) error{
		checkSystemProgram, checkTokenProgram, checkAssociatedTokenProgram,
	} {
		acct, err := accounts.Get(8 + i)
		if err != nil {
			return err
		}
		if err := check(acct); err != nil {
			return err
		}
	}

	day := runtime.CurrentDay(env.Now())
	if _, err := CheckProgramDataAccount(entryAcct, p.programID,
		user.Key[:], gameSeed(meta.Game), daySeed(day)); err != nil {
		return err
	}
	if _, err := CheckProgramDataAccount(lbAcct, p.programID,
		gameSeed(meta.Game), daySeed(day), leaderboardTag); err != nil {
		return err
	}
	if err := checkTokenAccount(user, mintAcct, userToken); err != nil {
		return err
	}

	if err := createUserProfile(env, p.programID, user, profileAcct, statsAcct); err != nil {
		return err
	}

	newEntry := !entryAcct.IsInitialized()
	if newEntry {
		rec := &state.Entry{Kind: state.KindEntry}
		if err := createProgramAccount(env, user, entryAcct, p.programID, rec.Size()); err != nil {
			return err
		}
		writeRecord(entryAcct, rec.Serialize())

		if err := token.CreateAssociatedAccount(user, user, mintAcct, userToken); err != nil {
			return fmt.Errorf("create reward account: %w", err)
		}
		if err := mintReward(env, mintAcct, userToken, p.authority(pdaAcct, bump), firstEntryReward); err != nil {
			return err
		}
	}

	// The first entrant of the day creates the board.
	if !lbAcct.IsInitialized() {
		rec := &state.Leaderboard{Kind: state.KindLeaderboard, Game: meta.Game, Date: day}
		if err := createProgramAccount(env, user, lbAcct, p.programID, rec.Size()); err != nil {
			return err
		}
		writeRecord(lbAcct, rec.Serialize())
	}

	if !newEntry {
		env.Log("entry for day %d already exists", day)
		return nil
	}

	profile, err := state.DecodeUser(profileAcct.Data)
	if err != nil {
		return fmt.Errorf("decode user profile: %w", err)
	}
	lb, err := state.DecodeLeaderboard(lbAcct.Data)
	if err != nil {
		return fmt.Errorf("decode leaderboard: %w", err)
	}

	oldSize := len(lbAcct.Data)
	if addEntrant(lb, profile.ID) {
		if err := checkForRealloc(env, lbAcct, user, oldSize, lb.Size()); err != nil {
			return err
		}
		writeRecord(lbAcct, lb.Serialize())
	}
	return nil
}
