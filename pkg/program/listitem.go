package program

import (
	"fmt"

	"github.com/fortiblox/X1-Arcade/internal/types"
	"github.com/fortiblox/X1-Arcade/pkg/collectible"
	"github.com/fortiblox/X1-Arcade/pkg/runtime"
	"github.com/fortiblox/X1-Arcade/pkg/state"
	"github.com/fortiblox/X1-Arcade/pkg/token"
)

// processListItem creates or updates a marketplace listing. A brand-new
// listing burns one whitelist credential from the lister. Fungible
// items move the listed quantity into the program's escrow token
// account; collectibles move custody of the asset itself to the
// program authority.
func (p *Processor) processListItem(env runtime.Env, accounts runtime.Accounts, meta ListMeta) error {
	if meta.ItemType != state.ItemFungible && meta.ItemType != state.ItemCollectible {
		return fmt.Errorf("%w: unknown item type %d", ErrInvalidInstructionData, meta.ItemType)
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
	if _, err := CheckProgramDataAccount(pdaAcct, p.programID, seedBytes(AuthoritySeed)); err != nil {
		return err
	}

	wlMint, err := accounts.Get(2)
	if err != nil {
		return err
	}
	if err := checkFixedAddress(wlMint, types.WhitelistMintAddr, "whitelist mint"); err != nil {
		return err
	}
	wlAcct, err := accounts.Get(3)
	if err != nil {
		return err
	}
	if err := checkTokenAccount(user, wlMint, wlAcct); err != nil {
		return err
	}

	item, err := accounts.Get(4)
	if err != nil {
		return err
	}
	listingAcct, err := accounts.Get(5)
	if err != nil {
		return err
	}
	if _, err := CheckProgramDataAccount(listingAcct, p.programID, item.Key[:], listingTag); err != nil {
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

	// A brand-new listing consumes one listing credential; price and
	// quantity updates on an existing listing do not.
	if !listingAcct.IsInitialized() {
		if err := token.Burn(wlAcct, wlMint, user, 1); err != nil {
			return fmt.Errorf("burn listing credential: %w", err)
		}

		rec := &state.Listing{
			Kind:        state.KindListing,
			ItemType:    meta.ItemType,
			ItemAddress: item.Key,
			Price:       meta.Price,
			BundleSize:  1,
		}
		if err := createProgramAccount(env, user, listingAcct, p.programID, rec.Size()); err != nil {
			return err
		}
		writeRecord(listingAcct, rec.Serialize())
	}

	listing, err := state.DecodeListing(listingAcct.Data)
	if err != nil {
		return fmt.Errorf("decode listing: %w", err)
	}

	switch meta.ItemType {
	case state.ItemFungible:
		escrow, err := accounts.Get(6)
		if err != nil {
			return err
		}
		userItem, err := accounts.Get(7)
		if err != nil {
			return err
		}
		if err := checkTokenAccount(pdaAcct, item, escrow); err != nil {
			return err
		}
		if err := token.CreateAssociatedAccount(user, pdaAcct, item, escrow); err != nil {
			return fmt.Errorf("create escrow account: %w", err)
		}
		if err := token.Transfer(userItem, escrow, user, nil, meta.Quantity); err != nil {
			return fmt.Errorf("escrow listed quantity: %w", err)
		}

		listing.Quantity += meta.Quantity
		listing.Price = meta.Price

	case state.ItemCollectible:
		collection, err := accounts.Get(8)
		if err != nil {
			return err
		}
		if err := collectible.Transfer(item, collection, user, nil, pdaAcct.Key); err != nil {
			return fmt.Errorf("escrow collectible: %w", err)
		}

		listing.Quantity = 1
		listing.Price = meta.Price
	}

	writeRecord(listingAcct, listing.Serialize())
	return nil
}
