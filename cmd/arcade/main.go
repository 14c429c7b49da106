// X1-Arcade: operator tooling for the arcade contest ledger.
//
// This is the main entry point for the arcade ledger node: it owns the
// BadgerDB account store and the invocation journal, and exposes
// operator commands for bootstrapping, inspection, and snapshots.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fortiblox/X1-Arcade/internal/types"
	"github.com/fortiblox/X1-Arcade/pkg/ledger"
	"github.com/fortiblox/X1-Arcade/pkg/pda"
	"github.com/fortiblox/X1-Arcade/pkg/program"
	"github.com/fortiblox/X1-Arcade/pkg/runtime"
	"github.com/fortiblox/X1-Arcade/pkg/state"
)

// Version information
var (
	Version   = "0.1.0"
	GitCommit = "dev"
)

// Configuration flags
var (
	dataDir      = flag.String("data-dir", "/var/lib/x1-arcade", "Data directory for the account store and journal")
	snapshotPath = flag.String("snapshot", "", "Snapshot file for export/import")
	game         = flag.Uint("game", 1, "Game identifier for leaderboard queries")
	date         = flag.Uint("date", 0, "Contest day for leaderboard queries (0 = today)")
	showVersion  = flag.Bool("version", false, "Print version and exit")
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: arcade [flags] <command>

Commands:
  init         Bootstrap a fresh ledger: program authority, stats, reward mint
  stats        Print ledger height, account totals, and contest stats
  leaderboard  Print one day's leaderboard (-game, -date)
  export       Write a snapshot of the account store (-snapshot)
  import       Load a snapshot into the account store (-snapshot)
  verify       Recompute and print the full state hash

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Printf("X1-Arcade %s (%s)\n", Version, GitCommit)
		os.Exit(0)
	}

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)

	cmd := flag.Arg(0)
	if cmd == "" {
		usage()
		os.Exit(2)
	}

	db, err := ledger.NewBadgerDB(ledger.DefaultBadgerDBConfig(filepath.Join(*dataDir, "accounts")))
	if err != nil {
		log.Fatalf("Failed to open account store: %v", err)
	}
	defer db.Close()

	switch cmd {
	case "init":
		err = runInit(db)
	case "stats":
		err = runStats(db)
	case "leaderboard":
		err = runLeaderboard(db)
	case "export":
		err = runExport(db)
	case "import":
		err = runImport(db)
	case "verify":
		err = runVerify(db)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s failed: %v", cmd, err)
	}
}

// genesisWallet is the locally funded wallet the init command signs
// with. It only exists to bootstrap a fresh local ledger.
func genesisWallet() types.Pubkey {
	return types.Pubkey(types.ComputeHash([]byte("arcade:genesis")))
}

func runInit(db ledger.DB) error {
	journal, err := ledger.OpenJournal(filepath.Join(*dataDir, "journal.db"))
	if err != nil {
		return err
	}
	defer journal.Close()

	admin := genesisWallet()
	if err := db.SetAccount(admin, &ledger.Account{Lamports: 1 << 40}); err != nil {
		return fmt.Errorf("fund genesis wallet: %w", err)
	}

	authority, err := deriveSingleton(program.AuthoritySeed)
	if err != nil {
		return err
	}
	stats, err := deriveSingleton(program.StatsSeed)
	if err != nil {
		return err
	}

	exec := ledger.NewExecutor(db, journal, program.NewProcessor(types.ArcadeProgramAddr))
	result, err := exec.Execute(runtime.StdEnv{Unix: time.Now().Unix(), Prefix: "program: "}, &ledger.Invocation{
		Signature: types.Signature(append(admin[:], admin[:]...)),
		Accounts: []runtime.AccountMeta{
			{Pubkey: admin, IsSigner: true, IsWritable: true},
			{Pubkey: authority, IsWritable: true},
			{Pubkey: stats, IsWritable: true},
			{Pubkey: types.RewardMintAddr, IsWritable: true},
			{Pubkey: types.SystemProgramAddr},
			{Pubkey: types.TokenProgramAddr},
		},
		Data: (&program.Instruction{Op: program.OpInit}).Encode(),
	})
	if err != nil {
		return err
	}
	if !result.Ok() {
		return fmt.Errorf("init rejected: %s", result.Err)
	}

	log.Printf("Ledger initialized at height %d", result.Height)
	log.Printf("Program authority: %s", authority)
	log.Printf("Reward mint: %s", types.RewardMintAddr)
	return nil
}

func runStats(db ledger.DB) error {
	count, err := db.AccountsCount()
	if err != nil {
		return err
	}

	fmt.Printf("Height:   %d\n", db.GetHeight())
	fmt.Printf("Accounts: %d\n", count)

	statsAddr, err := deriveSingleton(program.StatsSeed)
	if err != nil {
		return err
	}
	acct, err := db.GetAccount(statsAddr)
	if err == ledger.ErrAccountNotFound {
		fmt.Println("Contest:  not initialized")
		return nil
	}
	if err != nil {
		return err
	}
	stats, err := state.DecodeProgramStats(acct.Data)
	if err != nil {
		return fmt.Errorf("decode stats record: %w", err)
	}
	fmt.Printf("Users:    %d\n", stats.NumUsers)
	return nil
}

func runLeaderboard(db ledger.DB) error {
	day := uint32(*date)
	if day == 0 {
		day = runtime.CurrentDay(time.Now().Unix())
	}

	boardAddr, _, err := pda.FindProgramAddress(
		[][]byte{{uint8(*game)}, u32Bytes(day), []byte("Leaderboard")},
		types.ArcadeProgramAddr)
	if err != nil {
		return err
	}

	acct, err := db.GetAccount(boardAddr)
	if err == ledger.ErrAccountNotFound {
		fmt.Printf("No leaderboard for game %d, day %d\n", *game, day)
		return nil
	}
	if err != nil {
		return err
	}
	board, err := state.DecodeLeaderboard(acct.Data)
	if err != nil {
		return fmt.Errorf("decode leaderboard: %w", err)
	}

	// Rank by score, ties in board order.
	order := make([]int, len(board.Entrants))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return board.Scores[order[a]] > board.Scores[order[b]]
	})

	fmt.Printf("Game %d, day %d: %d entrants\n", board.Game, board.Date, len(board.Entrants))
	for rank, idx := range order {
		fmt.Printf("  %2d. user %-8d score %d\n", rank+1, board.Entrants[idx], board.Scores[idx])
	}
	return nil
}

func runExport(db ledger.DB) error {
	if *snapshotPath == "" {
		return fmt.Errorf("export requires -snapshot")
	}
	result, err := ledger.ExportSnapshot(db, *snapshotPath)
	if err != nil {
		return err
	}
	log.Printf("Exported %d accounts at height %d to %s", result.AccountsCount, result.Height, *snapshotPath)
	return nil
}

func runImport(db ledger.DB) error {
	if *snapshotPath == "" {
		return fmt.Errorf("import requires -snapshot")
	}
	result, err := ledger.ImportSnapshot(db, *snapshotPath)
	if err != nil {
		return err
	}
	log.Printf("Imported %d accounts, ledger now at height %d", result.AccountsCount, result.Height)
	return nil
}

func runVerify(db ledger.DB) error {
	start := time.Now()
	hash, err := ledger.ComputeStateHash(db)
	if err != nil {
		return err
	}
	count, err := db.AccountsCount()
	if err != nil {
		return err
	}
	log.Printf("State hash over %d accounts: %s (%.2fs)", count, hash, time.Since(start).Seconds())
	return nil
}

func deriveSingleton(seed uint32) (types.Pubkey, error) {
	addr, _, err := pda.FindProgramAddress([][]byte{u32Bytes(seed)}, types.ArcadeProgramAddr)
	return addr, err
}

func u32Bytes(v uint32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, v)
	return buf
}
