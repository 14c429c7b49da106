package program

import (
	"fmt"
	"math"

	"github.com/fortiblox/X1-Arcade/internal/types"
	"github.com/fortiblox/X1-Arcade/pkg/collectible"
	"github.com/fortiblox/X1-Arcade/pkg/runtime"
	"github.com/fortiblox/X1-Arcade/pkg/state"
	"github.com/fortiblox/X1-Arcade/pkg/token"
)

// processPurchaseItem settles a purchase against a listing. Payment is
// burned from the buyer's reward balance. Fungible purchases transfer
// the clamped quantity out of escrow; collectible purchases transfer
// custody of the asset and retire the listing.
func (p *Processor) processPurchaseItem(env runtime.Env, accounts runtime.Accounts, meta PurchaseMeta) error {
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

	item, err := accounts.Get(2)
	if err != nil {
		return err
	}
	listingAcct, err := accounts.Get(3)
	if err != nil {
		return err
	}
	if _, err := CheckProgramDataAccount(listingAcct, p.programID, item.Key[:], listingTag); err != nil {
		return err
	}

	mintAcct, err := accounts.Get(7)
	if err != nil {
		return err
	}
	if err := checkFixedAddress(mintAcct, types.RewardMintAddr, "reward mint"); err != nil {
		return err
	}
	userToken, err := accounts.Get(8)
	if err != nil {
		return err
	}
	if err := checkTokenAccount(user, mintAcct, userToken); err != nil {
		return err
	}

	for i, check := range []func(*runtime.AccountInfo) error{
		checkSystemProgram, checkCoreProgram, checkTokenProgram, checkAssociatedTokenProgram,
	} {
		acct, err := accounts.Get(9 + i)
		if err != nil {
			return err
		}
		if err := check(acct); err != nil {
			return err
		}
	}

	if !listingAcct.IsInitialized() {
		return fmt.Errorf("%w: listing does not exist", ErrInvalidAccountData)
	}
	listing, err := state.DecodeListing(listingAcct.Data)
	if err != nil {
		return fmt.Errorf("decode listing: %w", err)
	}
	if listing.ItemAddress != item.Key {
		return fmt.Errorf("%w: listing is for a different item", ErrInvalidAccountData)
	}

	quantity := min(meta.Quantity, listing.Quantity)
	capability := p.authority(pdaAcct, bump)

	switch listing.ItemType {
	case state.ItemFungible:
		mint, err := token.DecodeMint(item.Data)
		if err != nil {
			return fmt.Errorf("decode item mint: %w", err)
		}
		price := uint64(float64(quantity) / math.Pow10(int(mint.Decimals)) * float64(listing.Price))

		if err := token.Burn(userToken, mintAcct, user, price); err != nil {
			return fmt.Errorf("pay %d reward units: %w", price, err)
		}

		escrow, err := accounts.Get(4)
		if err != nil {
			return err
		}
		userItem, err := accounts.Get(5)
		if err != nil {
			return err
		}
		if err := checkTokenAccount(pdaAcct, item, escrow); err != nil {
			return err
		}
		if err := checkTokenAccount(user, item, userItem); err != nil {
			return err
		}
		if err := token.CreateAssociatedAccount(user, user, item, userItem); err != nil {
			return fmt.Errorf("create item account: %w", err)
		}
		if err := token.Transfer(escrow, userItem, pdaAcct, &capability, quantity); err != nil {
			return fmt.Errorf("release %d from escrow: %w", quantity, err)
		}

		// Decremented by the requested amount, not the clamped amount.
		listing.Quantity -= meta.Quantity
		writeRecord(listingAcct, listing.Serialize())

	case state.ItemCollectible:
		collection, err := accounts.Get(6)
		if err != nil {
			return err
		}
		if err := collectible.Transfer(item, collection, pdaAcct, &capability, user.Key); err != nil {
			return fmt.Errorf("release collectible from escrow: %w", err)
		}
		if err := token.Burn(userToken, mintAcct, user, listing.Price); err != nil {
			return fmt.Errorf("pay %d reward units: %w", listing.Price, err)
		}

		listing.Quantity = 0
		writeRecord(listingAcct, listing.Serialize())

		// Retire the listing, sweeping its balance to the authority.
		if err := runtime.Transfer(listingAcct, pdaAcct, listingAcct.Lamports); err != nil {
			return err
		}

	default:
		return fmt.Errorf("%w: unknown item type %d", ErrInvalidAccountData, listing.ItemType)
	}

	return nil
}
