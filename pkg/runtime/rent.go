package runtime

// Rent parameters, matching the ledger defaults: accounts must hold
// two years of rent at 3480 lamports per byte-year to be exempt from
// collection. Every account byte carries a fixed 128-byte metadata
// overhead.
const (
	lamportsPerByteYear = 3480
	exemptionYears      = 2
	accountOverhead     = 128
)

// RentMinimum returns the minimum balance an account of the given data
// size must hold to be rent exempt.
func RentMinimum(dataLen int) uint64 {
	return uint64(dataLen+accountOverhead) * lamportsPerByteYear * exemptionYears
}
