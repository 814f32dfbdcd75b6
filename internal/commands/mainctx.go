package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/vaultsh/vaultsh/internal/shell/command"
)

// Main is the pre-authentication context: server selection, identity, and
// the entry into backup browsing.
type Main struct {
	set *Set
	reg *command.Registry
}

// NewMain constructs a fresh main context over the shared set.
func (s *Set) NewMain() *Main {
	m := &Main{set: s, reg: command.NewRegistry()}

	m.reg.Register("whoami", &command.Command{
		Order:       10,
		Description: "show the current identity and server",
		Run: func(ctx context.Context, argsRaw string) (command.Result, error) {
			sess := s.Session()
			who := sess.Username
			if who == "" {
				who = "not logged in"
			}
			fmt.Fprintf(s.out(), "%s (server %s)\n", who, s.Server())
			return command.Stay(), nil
		},
	})

	m.reg.Register("connect", &command.Command{
		Order:       20,
		Description: "select the vault server: connect <server>",
		Run: func(ctx context.Context, argsRaw string) (command.Result, error) {
			name := strings.TrimSpace(argsRaw)
			if name == "" {
				return command.Result{}, fmt.Errorf("commands: usage: connect <server>")
			}
			s.setServer(name)
			fmt.Fprintf(s.out(), "Connected to %s.\n", name)
			return command.Stay(), nil
		},
	})

	m.reg.Register("backups", &command.Command{
		Order:       30,
		Description: "browse vault backups",
		Run: func(ctx context.Context, argsRaw string) (command.Result, error) {
			return command.Switch(s.NewBackups()), nil
		},
	})
	m.reg.Alias("b", "backups")

	return m
}

func (m *Main) Prompt() string              { return m.set.deps.Prompt }
func (m *Main) Commands() *command.Registry { return m.reg }
