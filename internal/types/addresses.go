// Package types provides well-known addresses for the arcade program.
package types

// Native program addresses.
// These are the same across Solana mainnet and X1.
var (
	// SystemProgramAddr is the System Program address.
	SystemProgramAddr = MustPubkeyFromBase58("11111111111111111111111111111111")

	// TokenProgramAddr is the Token-2022 Program address.
	TokenProgramAddr = MustPubkeyFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")

	// AssociatedTokenProgramAddr is the Associated Token Account Program address.
	AssociatedTokenProgramAddr = MustPubkeyFromBase58("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")

	// CoreProgramAddr is the collectible-asset (core) program address.
	CoreProgramAddr = MustPubkeyFromBase58("CoREENxT6tW1HoK8ypY1SxRMZTcVPm7R94rH4PZNhX7d")

	// WrappedNativeMintAddr is the wrapped native currency mint.
	WrappedNativeMintAddr = MustPubkeyFromBase58("So11111111111111111111111111111111111111112")
)

// Arcade program addresses.
// The program identity is the namespace for every derived account; the
// mints and fee account are fixed at deploy time, not configuration.
var (
	// ArcadeProgramAddr is the arcade program identity.
	ArcadeProgramAddr = MustPubkeyFromBase58("BASHv2NgqzdjKni4Rp7PxM2EzKZPSVGHCkC92ZfNZis3")

	// RewardMintAddr is the reward token mint.
	RewardMintAddr = MustPubkeyFromBase58("BASH6YCvhMeKGzTTmHquBCHeoyPJRDMYE7yQvYXerbcg")

	// WhitelistMintAddr is the marketplace listing-credential mint.
	WhitelistMintAddr = MustPubkeyFromBase58("BASHr9FsPoGq1LVWxSZLKHM6KMd7cjycjYH1eW25oC2K")

	// FeesAddr is the production fee collection account.
	FeesAddr = MustPubkeyFromBase58("HtszJ5ntXnwUFc2anMzp5RgaPxtvTFojL2qb5kcFEytA")
)

// IsNativeProgram returns true if the pubkey is one of the fixed
// collaborator programs.
func IsNativeProgram(p Pubkey) bool {
	switch p {
	case SystemProgramAddr,
		TokenProgramAddr,
		AssociatedTokenProgramAddr,
		CoreProgramAddr:
		return true
	default:
		return false
	}
}
