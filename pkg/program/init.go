package program

import (
	"github.com/fortiblox/X1-Arcade/internal/types"
	"github.com/fortiblox/X1-Arcade/pkg/runtime"
	"github.com/fortiblox/X1-Arcade/pkg/state"
	"github.com/fortiblox/X1-Arcade/pkg/token"
)

// processInit bootstraps the program's singleton accounts: the signing
// authority, the global stats record, and the reward mint. Re-running
// against an initialized deployment is a no-op.
func (p *Processor) processInit(env runtime.Env, accounts runtime.Accounts) error {
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
	if _, err := CheckProgramDataAccount(pdaAcct, p.programID, seedBytes(AuthoritySeed)); err != nil {
		return err
	}

	statsAcct, err := accounts.Get(2)
	if err != nil {
		return err
	}
	if _, err := CheckProgramDataAccount(statsAcct, p.programID, seedBytes(StatsSeed)); err != nil {
		return err
	}

	mintAcct, err := accounts.Get(3)
	if err != nil {
		return err
	}
	if err := checkFixedAddress(mintAcct, types.RewardMintAddr, "reward mint"); err != nil {
		return err
	}

	systemAcct, err := accounts.Get(4)
	if err != nil {
		return err
	}
	if err := checkSystemProgram(systemAcct); err != nil {
		return err
	}
	tokenAcct, err := accounts.Get(5)
	if err != nil {
		return err
	}
	if err := checkTokenProgram(tokenAcct); err != nil {
		return err
	}

	// The authority holds no record bytes, only a balance.
	if err := createProgramAccount(env, user, pdaAcct, types.SystemProgramAddr, 0); err != nil {
		return err
	}

	if !statsAcct.IsInitialized() {
		stats := &state.ProgramStats{Kind: state.KindProgram}
		if err := createProgramAccount(env, user, statsAcct, p.programID, stats.Size()); err != nil {
			return err
		}
		writeRecord(statsAcct, stats.Serialize())
	}

	return token.CreateMint(user, mintAcct, pdaAcct.Key, rewardDecimals)
}
