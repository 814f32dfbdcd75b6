package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/vaultsh/vaultsh/internal/shell/command"
	"github.com/vaultsh/vaultsh/internal/token"
	"github.com/vaultsh/vaultsh/internal/vault"
)

// Enterprise is the post-authentication management context: users, teams,
// roles, nodes, and the audit report. Leaving it ends the session.
type Enterprise struct {
	set  *Set
	reg  *command.Registry
	sess vault.Session
}

// NewEnterprise constructs a fresh enterprise context bound to the current
// session. The context owns that session for its lifetime; a re-login
// builds a new context for the new session, and disposing the old one must
// not touch it.
func (s *Set) NewEnterprise() *Enterprise {
	e := &Enterprise{set: s, reg: command.NewRegistry(), sess: s.Session()}

	e.reg.Register("user", &command.Command{
		Order:       10,
		Description: "manage users: user add <email> <name> [node] | user rm <email> | user list",
		Run:         e.runUser,
	})
	e.reg.Register("team", &command.Command{
		Order:       20,
		Description: "manage teams: team add <name> [node] | team rm <name> | team list",
		Run:         e.runTeam,
	})
	e.reg.Register("team-user", &command.Command{
		Order:       30,
		Description: "manage team membership: team-user add|rm <team> <email>",
		Run:         e.runTeamUser,
	})
	e.reg.Register("role", &command.Command{
		Order:       40,
		Description: "manage roles: role add <name> [node] | role rm <name> | role list | role assign <role> <email>",
		Run:         e.runRole,
	})
	e.reg.Register("node", &command.Command{
		Order:       50,
		Description: "manage nodes: node add <name> [parent] | node rm <name> | node list",
		Run:         e.runNode,
	})
	e.reg.Register("audit", &command.Command{
		Order:       60,
		Description: "show recent audit events: audit report [count]",
		Run:         e.runAudit,
	})
	e.reg.Register("logout", &command.Command{
		Order:       90,
		Description: "end the session and return to the main area",
		Run: func(ctx context.Context, argsRaw string) (command.Result, error) {
			return command.Switch(s.NewMain()), nil
		},
	})

	return e
}

func (e *Enterprise) Prompt() string {
	return fmt.Sprintf("%s@enterprise> ", e.sess.Username)
}

func (e *Enterprise) Commands() *command.Registry { return e.reg }

// Dispose ends the context's own session. The loop calls it exactly once
// when the context is left, however that happens. The shared session slot
// is cleared only if it still holds this session; a re-login has already
// replaced it with one the successor context owns.
func (e *Enterprise) Dispose() {
	if e.sess.ID == "" {
		return
	}
	if err := e.set.deps.Vault.Logout(context.Background(), e.sess.ID); err != nil {
		e.set.deps.Logger.Warn("logout session %s: %v", e.sess.ID, err)
	}
	if e.set.Session().ID == e.sess.ID {
		e.set.setSession(vault.Session{})
	}
	e.set.deps.Logger.Info("session closed for %s", e.sess.Username)
}

// OnError turns the vault sentinels into concise diagnostics; anything else
// falls through to the loop's generic handling.
func (e *Enterprise) OnError(err error) bool {
	switch {
	case errors.Is(err, vault.ErrNotFound):
		fmt.Fprintln(e.set.out(), "No such entity.")
	case errors.Is(err, vault.ErrExists):
		fmt.Fprintln(e.set.out(), "Already exists.")
	default:
		return false
	}
	return true
}

func (e *Enterprise) runUser(ctx context.Context, argsRaw string) (command.Result, error) {
	args := token.Split(argsRaw)
	svc := e.set.deps.Vault
	switch sub(args) {
	case "add":
		if len(args) < 3 {
			return command.Result{}, fmt.Errorf("commands: usage: user add <email> <name> [node]")
		}
		u, err := svc.AddUser(ctx, args[1], args[2], arg(args, 3))
		if err != nil {
			return command.Result{}, err
		}
		fmt.Fprintf(e.set.out(), "User %s added (%s).\n", u.Email, u.ID)
	case "rm":
		if len(args) != 2 {
			return command.Result{}, fmt.Errorf("commands: usage: user rm <email>")
		}
		if err := svc.RemoveUser(ctx, args[1]); err != nil {
			return command.Result{}, err
		}
		fmt.Fprintf(e.set.out(), "User %s removed.\n", args[1])
	case "list":
		users, err := svc.Users(ctx)
		if err != nil {
			return command.Result{}, err
		}
		renderUsers(e.set.out(), users)
	default:
		return command.Result{}, fmt.Errorf("commands: usage: user add|rm|list")
	}
	return command.Stay(), nil
}

func (e *Enterprise) runTeam(ctx context.Context, argsRaw string) (command.Result, error) {
	args := token.Split(argsRaw)
	svc := e.set.deps.Vault
	switch sub(args) {
	case "add":
		if len(args) < 2 {
			return command.Result{}, fmt.Errorf("commands: usage: team add <name> [node]")
		}
		tm, err := svc.AddTeam(ctx, args[1], arg(args, 2))
		if err != nil {
			return command.Result{}, err
		}
		fmt.Fprintf(e.set.out(), "Team %s added (%s).\n", tm.Name, tm.ID)
	case "rm":
		if len(args) != 2 {
			return command.Result{}, fmt.Errorf("commands: usage: team rm <name>")
		}
		if err := svc.RemoveTeam(ctx, args[1]); err != nil {
			return command.Result{}, err
		}
		fmt.Fprintf(e.set.out(), "Team %s removed.\n", args[1])
	case "list":
		teams, err := svc.Teams(ctx)
		if err != nil {
			return command.Result{}, err
		}
		renderTeams(e.set.out(), teams)
	default:
		return command.Result{}, fmt.Errorf("commands: usage: team add|rm|list")
	}
	return command.Stay(), nil
}

func (e *Enterprise) runTeamUser(ctx context.Context, argsRaw string) (command.Result, error) {
	args := token.Split(argsRaw)
	if len(args) != 3 {
		return command.Result{}, fmt.Errorf("commands: usage: team-user add|rm <team> <email>")
	}
	svc := e.set.deps.Vault
	switch args[0] {
	case "add":
		if err := svc.AddTeamUser(ctx, args[1], args[2]); err != nil {
			return command.Result{}, err
		}
		fmt.Fprintf(e.set.out(), "Added %s to %s.\n", args[2], args[1])
	case "rm":
		if err := svc.RemoveTeamUser(ctx, args[1], args[2]); err != nil {
			return command.Result{}, err
		}
		fmt.Fprintf(e.set.out(), "Removed %s from %s.\n", args[2], args[1])
	default:
		return command.Result{}, fmt.Errorf("commands: usage: team-user add|rm <team> <email>")
	}
	return command.Stay(), nil
}

func (e *Enterprise) runRole(ctx context.Context, argsRaw string) (command.Result, error) {
	args := token.Split(argsRaw)
	svc := e.set.deps.Vault
	switch sub(args) {
	case "add":
		if len(args) < 2 {
			return command.Result{}, fmt.Errorf("commands: usage: role add <name> [node]")
		}
		r, err := svc.AddRole(ctx, args[1], arg(args, 2))
		if err != nil {
			return command.Result{}, err
		}
		fmt.Fprintf(e.set.out(), "Role %s added (%s).\n", r.Name, r.ID)
	case "rm":
		if len(args) != 2 {
			return command.Result{}, fmt.Errorf("commands: usage: role rm <name>")
		}
		if err := svc.RemoveRole(ctx, args[1]); err != nil {
			return command.Result{}, err
		}
		fmt.Fprintf(e.set.out(), "Role %s removed.\n", args[1])
	case "list":
		roles, err := svc.Roles(ctx)
		if err != nil {
			return command.Result{}, err
		}
		renderRoles(e.set.out(), roles)
	case "assign":
		if len(args) != 3 {
			return command.Result{}, fmt.Errorf("commands: usage: role assign <role> <email>")
		}
		if err := svc.AssignRole(ctx, args[1], args[2]); err != nil {
			return command.Result{}, err
		}
		fmt.Fprintf(e.set.out(), "Assigned %s to %s.\n", args[1], args[2])
	default:
		return command.Result{}, fmt.Errorf("commands: usage: role add|rm|list|assign")
	}
	return command.Stay(), nil
}

func (e *Enterprise) runNode(ctx context.Context, argsRaw string) (command.Result, error) {
	args := token.Split(argsRaw)
	svc := e.set.deps.Vault
	switch sub(args) {
	case "add":
		if len(args) < 2 {
			return command.Result{}, fmt.Errorf("commands: usage: node add <name> [parent]")
		}
		n, err := svc.AddNode(ctx, args[1], arg(args, 2))
		if err != nil {
			return command.Result{}, err
		}
		fmt.Fprintf(e.set.out(), "Node %s added (%s).\n", n.Name, n.ID)
	case "rm":
		if len(args) != 2 {
			return command.Result{}, fmt.Errorf("commands: usage: node rm <name>")
		}
		if err := svc.RemoveNode(ctx, args[1]); err != nil {
			return command.Result{}, err
		}
		fmt.Fprintf(e.set.out(), "Node %s removed.\n", args[1])
	case "list":
		nodes, err := svc.Nodes(ctx)
		if err != nil {
			return command.Result{}, err
		}
		renderNodes(e.set.out(), nodes)
	default:
		return command.Result{}, fmt.Errorf("commands: usage: node add|rm|list")
	}
	return command.Stay(), nil
}

func (e *Enterprise) runAudit(ctx context.Context, argsRaw string) (command.Result, error) {
	args := token.Split(argsRaw)
	if sub(args) != "report" {
		return command.Result{}, fmt.Errorf("commands: usage: audit report [count]")
	}

	limit := 20
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return command.Result{}, fmt.Errorf("commands: audit report: bad count %q", args[1])
		}
		limit = n
	}

	events, err := e.set.deps.Vault.Query(ctx, vault.AuditQuery{Limit: limit})
	if err != nil {
		return command.Result{}, err
	}
	renderAudit(e.set.out(), events)
	return command.Stay(), nil
}

// sub returns the subcommand token, or "" when none was given.
func sub(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// arg returns args[i] when present, else "".
func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
