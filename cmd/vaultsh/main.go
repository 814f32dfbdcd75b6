// Package main is the entry point for the vaultsh administration shell.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vaultsh/vaultsh/internal/commands"
	"github.com/vaultsh/vaultsh/internal/config"
	"github.com/vaultsh/vaultsh/internal/event"
	"github.com/vaultsh/vaultsh/internal/input"
	"github.com/vaultsh/vaultsh/internal/logging"
	"github.com/vaultsh/vaultsh/internal/script"
	"github.com/vaultsh/vaultsh/internal/shell"
	"github.com/vaultsh/vaultsh/internal/shell/command"
	"github.com/vaultsh/vaultsh/internal/vault"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

type options struct {
	configPath  string
	batch       batchLines
	showVersion bool
}

// batchLines collects repeated -batch flags.
type batchLines []string

func (b *batchLines) String() string { return fmt.Sprint([]string(*b)) }

func (b *batchLines) Set(v string) error {
	*b = append(*b, v)
	return nil
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file (.toml or .yaml)")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.Var(&opts.batch, "batch", "Command line to run before interactive input (repeatable)")
	flag.BoolVar(&opts.showVersion, "version", false, "Show version information")
	flag.Parse()
	return opts
}

func run() int {
	opts := parseFlags()

	if opts.showVersion {
		fmt.Printf("vaultsh %s (%s)\n", version, commit)
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: load config: %v\n", err)
		return 1
	}

	logger, closeLog, err := newLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()
	logging.SetDefault(logger)

	// Local mode: the in-memory vault stands in behind the service
	// interfaces. Remote transport would slot in here.
	account := cfg.Vault.Username
	if account == "" {
		account = "admin"
	}
	password := os.Getenv("VAULTSH_PASSWORD")
	if password == "" {
		password = "admin"
	}
	svc := vault.NewMemory(vault.WithAccount(account, password))

	history := input.NewHistory(cfg.Shell.HistorySize)
	reader := input.NewReaderWithHistory(os.Stdin, os.Stdout, history)
	reader.MarkSensitive("login")

	bus := event.NewBus()

	set := commands.NewSet(commands.Deps{
		Vault:     svc,
		Out:       os.Stdout,
		Version:   version,
		Prompt:    cfg.Shell.Prompt,
		Server:    cfg.Vault.Server,
		Passwords: reader,
		History:   reader,
		Logger:    logger,
	})

	loop := shell.New(command.NewRegistry(), set.NewMain(), shell.Options{
		Reader: reader,
		Output: os.Stdout,
		Logger: logger,
		Bus:    bus,
	})
	set.Install(loop)
	set.SetScripts(script.NewRunner(loop, logger))

	// Mirror shell activity into the vault audit log.
	bus.Subscribe("command.*", func(ev event.Event) {
		rec := vault.AuditEvent{
			Time:    ev.Time,
			Actor:   set.Session().Username,
			Type:    ev.Topic,
			Message: ev.String("command"),
		}
		if err := svc.Record(context.Background(), rec); err != nil {
			logger.Warn("audit record: %v", err)
		}
	})

	// Hot-reload the log level when the config file changes.
	if opts.configPath != "" {
		watcher, err := config.Watch(opts.configPath, logger, func(cfg config.Config) {
			logger.SetLevel(logging.ParseLevel(cfg.Logging.Level))
		})
		if err != nil {
			logger.Warn("config watch: %v", err)
		} else {
			defer watcher.Close()
		}
	}

	loop.Enqueue(cfg.Shell.Batch...)
	loop.Enqueue(opts.batch...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := loop.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// newLogger builds the process logger from config; the returned func closes
// the log file, if any.
func newLogger(cfg config.LoggingConfig) (*logging.Logger, func(), error) {
	lc := logging.DefaultConfig()
	lc.Level = logging.ParseLevel(cfg.Level)

	closeLog := func() {}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file %s: %w", cfg.File, err)
		}
		lc.Output = f
		closeLog = func() { f.Close() }
	}
	return logging.New(lc), closeLog, nil
}
