package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/vaultsh/vaultsh/internal/shell/command"
)

// Backups is the backup browsing context.
type Backups struct {
	set *Set
	reg *command.Registry
}

// NewBackups constructs a fresh backup context over the shared set.
func (s *Set) NewBackups() *Backups {
	b := &Backups{set: s, reg: command.NewRegistry()}

	b.reg.Register("list", &command.Command{
		Order:       10,
		Description: "list available backups, newest first",
		Run: func(ctx context.Context, argsRaw string) (command.Result, error) {
			backups, err := s.deps.Vault.List(ctx)
			if err != nil {
				return command.Result{}, err
			}
			renderBackups(s.out(), backups)
			return command.Stay(), nil
		},
	})
	b.reg.Alias("ls", "list")

	b.reg.Register("get", &command.Command{
		Order:       20,
		Description: "show one backup: get <id>",
		Run: func(ctx context.Context, argsRaw string) (command.Result, error) {
			id := strings.TrimSpace(argsRaw)
			if id == "" {
				return command.Result{}, fmt.Errorf("commands: usage: get <id>")
			}
			bk, err := s.deps.Vault.Get(ctx, id)
			if err != nil {
				return command.Result{}, err
			}
			fmt.Fprintf(s.out(), "Backup %s\n  created: %s\n  size:    %d bytes\n  path:    %s\n",
				bk.ID, bk.Created.Format("2006-01-02 15:04:05"), bk.Size, bk.Path)
			return command.Stay(), nil
		},
	})

	b.reg.Register("back", &command.Command{
		Order:       90,
		Description: "return to the main area",
		Run: func(ctx context.Context, argsRaw string) (command.Result, error) {
			return command.Switch(s.NewMain()), nil
		},
	})

	return b
}

func (b *Backups) Prompt() string              { return "vaultsh backups> " }
func (b *Backups) Commands() *command.Registry { return b.reg }
