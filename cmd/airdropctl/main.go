// Command airdropctl operates airdrops against a local, bbolt-backed ledger.
//
//	airdropctl [global flags] <command> [command flags]
//
// Run "airdropctl help" for the command list.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"github.com/bitfsorg/airdrop-go/config"
	"github.com/bitfsorg/airdrop-go/host"
	"github.com/bitfsorg/airdrop-go/keystore"
	"github.com/bitfsorg/airdrop-go/logging"
	"github.com/bitfsorg/airdrop-go/processor"
	"github.com/bitfsorg/airdrop-go/tokenledger"
)

const envPassword = "AIRDROP_PASSWORD"

type command struct {
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"keygen":      {"create or recover a named signer", cmdKeygen},
	"genesis":     {"create the program and mint identities and the rent sysvar", cmdGenesis},
	"create-slot": {"allocate a rent-exempt vault or claim slot", cmdCreateSlot},
	"mint":        {"create a funded token account", cmdMint},
	"init":        {"initialize an airdrop", cmdInit},
	"disable":     {"cancel an airdrop and refund the creator", cmdDisable},
	"register":    {"register a user's claim", cmdRegister},
	"deliver":     {"pay a user's reward", cmdDeliver},
	"show":        {"decode an account", cmdShow},
	"keys":        {"list keystore names and addresses", cmdKeys},
	"accounts":    {"list every ledger account", cmdAccounts},
}

// app carries the state shared by every command.
type app struct {
	cfg      config.Config
	cfgPath  string
	log      zerolog.Logger
	out      io.Writer
	keys     *keystore.Store
	password string
	logFile  *os.File

	store  *host.BoltStore
	rt     *host.Runtime
	ledger *tokenledger.Ledger
	prog   *processor.Program
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdout)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "airdropctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	global := flag.NewFlagSet("airdropctl", flag.ContinueOnError)
	global.SetOutput(out)
	dataDir := global.String("datadir", config.DefaultDataDir(), "data directory")
	password := global.String("password", os.Getenv(envPassword), "keystore password (default $"+envPassword+")")
	global.Usage = func() { usage(global) }
	if err := global.Parse(args); err != nil {
		return err
	}
	rest := global.Args()
	if len(rest) == 0 || rest[0] == "help" {
		usage(global)
		return nil
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		return fmt.Errorf("unknown command %q", rest[0])
	}

	a, err := newApp(*dataDir, *password, out)
	if err != nil {
		return err
	}
	defer a.close()
	return cmd.run(ctx, a, rest[1:])
}

func usage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintln(w, "usage: airdropctl [global flags] <command> [flags]")
	fmt.Fprintln(w, "\ncommands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-12s %s\n", name, commands[name].usage)
	}
	fmt.Fprintln(w, "\nglobal flags:")
	fs.PrintDefaults()
}

func newApp(dataDir, password string, out io.Writer) (*app, error) {
	path := config.ConfigPath(dataDir)
	cfg, err := config.LoadConfig(path)
	if errors.Is(err, config.ErrConfigNotFound) {
		cfg = config.DefaultConfig()
	} else if err != nil {
		return nil, err
	}
	cfg.DataDir = dataDir
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	logOut := io.Writer(os.Stderr)
	var logFile *os.File
	if cfg.LogFile != "" {
		if logFile, err = logging.OpenFile(cfg.LogFile); err != nil {
			return nil, err
		}
		logOut = logFile
	}
	logger, err := logging.New(logging.Options{
		App:    "airdropctl",
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Out:    logOut,
	})
	if err != nil {
		return nil, err
	}

	keys, err := keystore.Open(filepath.Join(dataDir, "keys"))
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:      cfg,
		cfgPath:  path,
		log:      logger,
		out:      out,
		keys:     keys,
		password: password,
		logFile:  logFile,
	}, nil
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("close ledger")
		}
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

func (a *app) programID() (solana.PublicKey, error) {
	if a.cfg.ProgramID != "" {
		return config.ParseKey(a.cfg.ProgramID)
	}
	pk, err := a.keys.PublicKey("program")
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("no program identity, run genesis first: %w", err)
	}
	return pk, nil
}

// open starts the runtime over the ledger database and registers the
// airdrop program.
func (a *app) open() error {
	if a.rt != nil {
		return nil
	}
	programID, err := a.programID()
	if err != nil {
		return err
	}
	tokenID, err := config.ParseKey(a.cfg.TokenProgramID)
	if err != nil {
		return err
	}
	store, err := host.OpenBoltStore(filepath.Join(a.cfg.DataDir, "ledger.db"))
	if err != nil {
		return err
	}
	a.store = store
	a.ledger = tokenledger.New(tokenID)
	a.prog, err = processor.New(programID, a.ledger,
		processor.WithSeed([]byte(a.cfg.AuthoritySeed)),
		processor.WithPolicy(processor.Policy{
			CheckedReward:         a.cfg.Policy.CheckedReward,
			EnforceExpectedAmount: a.cfg.Policy.EnforceExpectedAmount,
			BindClaimAddress:      a.cfg.Policy.BindClaimAddress,
		}),
	)
	if err != nil {
		return err
	}
	a.rt = host.NewRuntime(store, host.WithLogger(a.log))
	a.rt.Register(programID, a.prog)
	return nil
}

// resolve accepts a keystore name or a base58 address.
func (a *app) resolve(s string) (solana.PublicKey, error) {
	if s == "" {
		return solana.PublicKey{}, errors.New("missing key")
	}
	if pk, err := a.keys.PublicKey(s); err == nil {
		return pk, nil
	}
	return config.ParseKey(s)
}

func (a *app) signer(name string) (solana.PrivateKey, error) {
	if name == "" {
		return nil, errors.New("missing signer name")
	}
	return a.keys.Load(name, a.password)
}

func (a *app) execute(ctx context.Context, tx *host.Transaction, signers ...solana.PrivateKey) (*host.Result, error) {
	if err := tx.Sign(signers...); err != nil {
		return nil, err
	}
	return a.rt.Execute(ctx, tx)
}
