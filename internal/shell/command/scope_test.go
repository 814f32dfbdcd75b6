package command_test

import (
	"testing"

	"github.com/vaultsh/vaultsh/internal/shell/command"
)

func TestScopesResolveOrder(t *testing.T) {
	global := command.NewRegistry()
	local := command.NewRegistry()

	globalCmd := &command.Command{Description: "global"}
	localCmd := &command.Command{Description: "local"}

	global.Register("shared", globalCmd)
	local.Register("shared", localCmd)
	local.Register("only-local", localCmd)

	scopes := command.Scopes{global, local}

	// Global shadows context-local commands with the same name.
	cmd, ok := scopes.Resolve("shared")
	if !ok || cmd != globalCmd {
		t.Error("expected global command to win on a name collision")
	}

	// Context-local commands remain reachable when not shadowed.
	cmd, ok = scopes.Resolve("only-local")
	if !ok || cmd != localCmd {
		t.Error("expected context-local command to resolve")
	}

	if _, ok := scopes.Resolve("missing"); ok {
		t.Error("expected unresolved token to report not-found")
	}
}

func TestScopesGlobalAliasPrecedence(t *testing.T) {
	global := command.NewRegistry()
	local := command.NewRegistry()

	quit := &command.Command{Description: "leave the shell"}
	global.Register("quit", quit)
	global.Alias("q", "quit")

	// A context defines a command under the aliased name; the global alias
	// must still win so "q" can never be shadowed.
	local.Register("q", &command.Command{Description: "context q"})

	scopes := command.Scopes{global, local}
	cmd, ok := scopes.Resolve("q")
	if !ok || cmd != quit {
		t.Error("expected global alias to take precedence over context-local command")
	}
}

func TestScopesContextAlias(t *testing.T) {
	global := command.NewRegistry()
	local := command.NewRegistry()

	users := &command.Command{Description: "list users"}
	local.Register("user-list", users)
	local.Alias("ul", "user-list")

	scopes := command.Scopes{global, local}
	cmd, ok := scopes.Resolve("UL")
	if !ok || cmd != users {
		t.Error("expected context alias to resolve case-insensitively")
	}
}

func TestScopesHelpRowsOrdering(t *testing.T) {
	global := command.NewRegistry()
	global.Register("b", &command.Command{Order: 50, Description: "bee"})
	global.Register("a", &command.Command{Order: 10, Description: "ay"})
	global.Register("c", &command.Command{Order: 10, Description: "cee"})

	rows := command.Scopes{global}.HelpRows()

	got := make([]string, len(rows))
	for i, row := range rows {
		got[i] = row.Name
	}

	want := []string{"a", "c", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("help order = %v, want %v", got, want)
		}
	}
}

func TestScopesHelpRowsCollision(t *testing.T) {
	global := command.NewRegistry()
	local := command.NewRegistry()

	global.Register("shared", &command.Command{Order: 1, Description: "global view"})
	global.Alias("s", "shared")
	local.Register("shared", &command.Command{Order: 2, Description: "local view"})

	rows := command.Scopes{global, local}.HelpRows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Description != "global view" {
		t.Errorf("expected the global binding to win, got %q", rows[0].Description)
	}
	if rows[0].Alias != "s" {
		t.Errorf("expected discovered alias %q, got %q", "s", rows[0].Alias)
	}
}
