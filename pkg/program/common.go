package program

import (
	"fmt"

	"github.com/fortiblox/X1-Arcade/internal/types"
	"github.com/fortiblox/X1-Arcade/pkg/runtime"
	"github.com/fortiblox/X1-Arcade/pkg/state"
	"github.com/fortiblox/X1-Arcade/pkg/token"
)

// Reward amounts in reward-token units.
const (
	firstEntryReward = 100
	voteReward       = 10
	referralReward   = 10

	firstPlacePrize  = 5000
	secondPlacePrize = 2500
	thirdPlacePrize  = 1000
)

// rewardDecimals is the reward mint's decimal count.
const rewardDecimals = 1

// createProgramAccount allocates a storage account at a derived
// address, funding its rent-exempt minimum from the funder. An account
// that already holds a balance is treated as initialized and the call
// is a no-op; every create-if-missing path relies on this.
func createProgramAccount(env runtime.Env, funder, acct *runtime.AccountInfo, owner types.Pubkey, dataSize int) error {
	if acct.IsInitialized() {
		env.Log("account %s already initialized, skipping", acct.Key)
		return nil
	}

	lamports := runtime.RentMinimum(dataSize)
	env.Log("creating program account %s: %d lamports for %d bytes", acct.Key, lamports, dataSize)

	if err := funder.Debit(lamports); err != nil {
		return fmt.Errorf("fund account %s: %w", acct.Key, err)
	}
	acct.Credit(lamports)
	acct.Owner = owner
	acct.Data = make([]byte, dataSize)
	return nil
}

// checkForRealloc grows a record's storage and tops up its rent when a
// mutation increased the serialized size. Storage never shrinks.
func checkForRealloc(env runtime.Env, acct, funder *runtime.AccountInfo, oldSize, newSize int) error {
	oldLamports := runtime.RentMinimum(oldSize)
	newLamports := runtime.RentMinimum(newSize)

	if newLamports > oldLamports {
		env.Log("realloc %s to %d bytes, topping up %d lamports",
			acct.Key, newSize, newLamports-oldLamports)
		if err := runtime.Transfer(funder, acct, newLamports-oldLamports); err != nil {
			return fmt.Errorf("realloc top-up: %w", err)
		}
	}
	if newSize > len(acct.Data) {
		grown := make([]byte, newSize)
		copy(grown, acct.Data)
		acct.Data = grown
	}
	return nil
}

// writeRecord re-encodes a record into its account, growing storage if
// the serialized size increased.
func writeRecord(acct *runtime.AccountInfo, encoded []byte) {
	if len(encoded) > len(acct.Data) {
		acct.Data = encoded
		return
	}
	copy(acct.Data, encoded)
}

// createUserProfile lazily creates the profile record for a user,
// assigning the next dense user ID from the global stats singleton.
// An existing profile is left untouched.
func createUserProfile(env runtime.Env, programID types.Pubkey, user, profile, statsAcct *runtime.AccountInfo) error {
	_, err := CheckProgramDataAccount(profile, programID, user.Key[:], userTag)
	if err != nil {
		return err
	}
	if profile.IsInitialized() {
		return nil
	}

	stats, err := state.DecodeProgramStats(statsAcct.Data)
	if err != nil {
		return fmt.Errorf("decode program stats: %w", err)
	}
	stats.NumUsers++

	record := &state.User{
		Kind: state.KindUser,
		Key:  user.Key,
		ID:   stats.NumUsers,
	}

	if err := createProgramAccount(env, user, profile, programID, record.Size()); err != nil {
		return err
	}

	env.Log("init user profile %s as user %d", user.Key, record.ID)
	writeRecord(profile, record.Serialize())
	writeRecord(statsAcct, stats.Serialize())
	return nil
}

// mintReward issues reward-token units to a destination token account
// under the program's signing capability.
func mintReward(env runtime.Env, mintAcct, dest *runtime.AccountInfo, capability runtime.SigningCapability, amount uint64) error {
	if err := token.MintTo(mintAcct, dest, capability, amount, rewardDecimals); err != nil {
		return fmt.Errorf("mint %d reward units: %w", amount, err)
	}
	env.Log("minted %d reward units to %s", amount, dest.Key)
	return nil
}
