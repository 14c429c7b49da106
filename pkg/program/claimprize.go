package program

import (
	"fmt"

	"github.com/fortiblox/X1-Arcade/internal/types"
	"github.com/fortiblox/X1-Arcade/pkg/runtime"
	"github.com/fortiblox/X1-Arcade/pkg/state"
	"github.com/fortiblox/X1-Arcade/pkg/token"
)

// processClaimPrize pays the signer's placement prize for a past
// contest day. Claims are only valid for the top three ranks; a
// paid entry is marked so the claim cannot repeat.
func (p *Processor) processClaimPrize(env runtime.Env, accounts runtime.Accounts, meta ClaimPrizeMeta) error {
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

	entryAcct, err := accounts.Get(2)
	if err != nil {
		return err
	}
	profileAcct, err := accounts.Get(3)
	if err != nil {
		return err
	}
	lbAcct, err := accounts.Get(4)
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

	for i, check := range []func(*runtime.AccountInfo) error{
		checkSystemProgram, checkTokenProgram, checkAssociatedTokenProgram,
	} {
		acct, err := accounts.Get(7 + i)
		if err != nil {
			return err
		}
		if err := check(acct); err != nil {
			return err
		}
	}

	if _, err := CheckProgramDataAccount(entryAcct, p.programID,
		user.Key[:], gameSeed(meta.Game), daySeed(meta.Date)); err != nil {
		return err
	}
	if _, err := CheckProgramDataAccount(lbAcct, p.programID,
		gameSeed(meta.Game), daySeed(meta.Date), leaderboardTag); err != nil {
		return err
	}
	if _, err := CheckProgramDataAccount(profileAcct, p.programID,
		user.Key[:], userTag); err != nil {
		return err
	}
	if err := checkTokenAccount(user, mintAcct, userToken); err != nil {
		return err
	}

	if meta.Date == runtime.CurrentDay(env.Now()) {
		return ErrSameDayClaim
	}
	if !entryAcct.IsInitialized() {
		return ErrNoEntry
	}

	entry, err := state.DecodeEntry(entryAcct.Data)
	if err != nil {
		return fmt.Errorf("decode entry: %w", err)
	}
	profile, err := state.DecodeUser(profileAcct.Data)
	if err != nil {
		return fmt.Errorf("decode user profile: %w", err)
	}
	lb, err := state.DecodeLeaderboard(lbAcct.Data)
	if err != nil {
		return fmt.Errorf("decode leaderboard: %w", err)
	}

	if entry.RewardClaimed == 1 {
		return ErrAlreadyClaimed
	}
	if len(lb.Entrants) == 0 {
		return ErrEmptyLeaderboard
	}

	ranked := rankEntrants(lb)
	var amount uint64
	switch {
	case ranked[0] == profile.ID:
		amount = firstPlacePrize
	case len(ranked) >= 2 && ranked[1] == profile.ID:
		amount = secondPlacePrize
	case len(ranked) >= 3 && ranked[2] == profile.ID:
		amount = thirdPlacePrize
	}
	if amount == 0 {
		return ErrNoPrize
	}

	if amount == firstPlacePrize {
		profile.TotalWins++
		writeRecord(profileAcct, profile.Serialize())
	}

	if err := token.CreateAssociatedAccount(user, user, mintAcct, userToken); err != nil {
		return fmt.Errorf("create reward account: %w", err)
	}
	if err := mintReward(env, mintAcct, userToken, p.authority(pdaAcct, bump), amount); err != nil {
		return err
	}

	entry.RewardClaimed = 1
	writeRecord(entryAcct, entry.Serialize())
	return nil
}
