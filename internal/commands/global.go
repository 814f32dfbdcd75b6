package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/vaultsh/vaultsh/internal/shell"
	"github.com/vaultsh/vaultsh/internal/shell/command"
	"github.com/vaultsh/vaultsh/internal/token"
)

// Install registers the global command set into the loop's global registry.
// Call after constructing the loop so help can render through it.
func (s *Set) Install(loop *shell.Loop) {
	g := loop.Global()

	g.Register("help", &command.Command{
		Order:       900,
		Description: "list the commands available here",
		Run: func(ctx context.Context, argsRaw string) (command.Result, error) {
			loop.RenderHelp()
			return command.Stay(), nil
		},
	})
	g.Alias("h", "help")

	g.Register("quit", &command.Command{
		Order:       990,
		Description: "leave vaultsh",
		Run: func(ctx context.Context, argsRaw string) (command.Result, error) {
			return command.Quit(), nil
		},
	})
	g.Alias("q", "quit")
	g.Alias("exit", "quit")

	g.Register("version", &command.Command{
		Order:       910,
		Description: "show the vaultsh version",
		Run: func(ctx context.Context, argsRaw string) (command.Result, error) {
			fmt.Fprintf(s.out(), "vaultsh %s\n", s.deps.Version)
			return command.Stay(), nil
		},
	})

	g.Register("clear-history", &command.Command{
		Order:       920,
		Description: "discard the interactive command history",
		Run: func(ctx context.Context, argsRaw string) (command.Result, error) {
			if s.deps.History != nil {
				s.deps.History.ClearHistory()
			}
			fmt.Fprintln(s.out(), "History cleared.")
			return command.Stay(), nil
		},
	})

	g.Register("login", &command.Command{
		Order:       100,
		Description: "authenticate against the vault: login <username> [password]",
		Run:         s.runLogin,
	})

	g.Register("script", &command.Command{
		Order:       930,
		Description: "run a Lua script: script <file.lua>",
		Run: func(ctx context.Context, argsRaw string) (command.Result, error) {
			if s.deps.Scripts == nil {
				return command.Result{}, fmt.Errorf("commands: scripting is not enabled")
			}
			path := strings.TrimSpace(argsRaw)
			if path == "" {
				return command.Result{}, fmt.Errorf("commands: usage: script <file.lua>")
			}
			if err := s.deps.Scripts.RunFile(ctx, path); err != nil {
				return command.Result{}, fmt.Errorf("commands: run script %s: %w", path, err)
			}
			return command.Stay(), nil
		},
	})
}

// runLogin authenticates and, on success, enters the enterprise context.
func (s *Set) runLogin(ctx context.Context, argsRaw string) (command.Result, error) {
	args := token.Split(argsRaw)
	if len(args) == 0 {
		return command.Result{}, fmt.Errorf("commands: usage: login <username> [password]")
	}

	username := args[0]
	var password string
	switch {
	case len(args) > 1:
		password = args[1]
	case s.deps.Passwords != nil:
		var err error
		password, err = s.deps.Passwords.ReadPassword("Password: ")
		if err != nil {
			return command.Result{}, fmt.Errorf("commands: read password: %w", err)
		}
	default:
		return command.Result{}, fmt.Errorf("commands: usage: login <username> <password>")
	}

	sess, err := s.deps.Vault.Login(ctx, username, password)
	if err != nil {
		return command.Result{}, fmt.Errorf("commands: login %s: %w", username, err)
	}

	s.setSession(sess)
	s.deps.Logger.Info("session opened for %s", sess.Username)
	fmt.Fprintf(s.out(), "Logged in as %s.\n", sess.Username)
	return command.Switch(s.NewEnterprise()), nil
}
