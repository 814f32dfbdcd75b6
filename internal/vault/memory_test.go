package vault_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vaultsh/vaultsh/internal/vault"
)

func TestLogin(t *testing.T) {
	svc := vault.NewMemory(vault.WithAccount("admin", "hunter2"))
	ctx := context.Background()

	sess, err := svc.Login(ctx, "Admin", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.ID == "" || sess.Username != "admin" {
		t.Errorf("unexpected session: %+v", sess)
	}

	if _, err := svc.Login(ctx, "admin", "wrong"); !errors.Is(err, vault.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}

	if err := svc.Logout(ctx, sess.ID); err != nil {
		t.Errorf("logout: %v", err)
	}
	if err := svc.Logout(ctx, sess.ID); !errors.Is(err, vault.ErrUnauthorized) {
		t.Errorf("expected second logout to fail, got %v", err)
	}
}

func TestUserLifecycle(t *testing.T) {
	svc := vault.NewMemory()
	ctx := context.Background()

	u, err := svc.AddUser(ctx, "Alice@Example.com", "Alice", "")
	if err != nil {
		t.Fatalf("add user: %v", err)
	}
	if u.Email != "alice@example.com" {
		t.Errorf("expected lower-cased email, got %q", u.Email)
	}
	if u.ID == "" || u.NodeID == "" {
		t.Errorf("expected generated IDs, got %+v", u)
	}

	if _, err := svc.AddUser(ctx, "alice@example.com", "Dup", ""); !errors.Is(err, vault.ErrExists) {
		t.Errorf("expected ErrExists, got %v", err)
	}

	users, err := svc.Users(ctx)
	if err != nil || len(users) != 1 {
		t.Fatalf("users = %v, err = %v", users, err)
	}

	if err := svc.RemoveUser(ctx, "alice@example.com"); err != nil {
		t.Fatalf("remove user: %v", err)
	}
	if err := svc.RemoveUser(ctx, "alice@example.com"); !errors.Is(err, vault.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUserUnknownNode(t *testing.T) {
	svc := vault.NewMemory()

	_, err := svc.AddUser(context.Background(), "a@b.c", "A", "nowhere")
	if !errors.Is(err, vault.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown node, got %v", err)
	}
}

func TestTeamMembership(t *testing.T) {
	svc := vault.NewMemory()
	ctx := context.Background()

	if _, err := svc.AddTeam(ctx, "Backend", ""); err != nil {
		t.Fatalf("add team: %v", err)
	}
	if _, err := svc.AddUser(ctx, "bob@example.com", "Bob", ""); err != nil {
		t.Fatalf("add user: %v", err)
	}

	if err := svc.AddTeamUser(ctx, "backend", "bob@example.com"); err != nil {
		t.Fatalf("add team user: %v", err)
	}
	if err := svc.AddTeamUser(ctx, "backend", "bob@example.com"); !errors.Is(err, vault.ErrExists) {
		t.Errorf("expected ErrExists, got %v", err)
	}

	members, err := svc.TeamUsers(ctx, "Backend")
	if err != nil || len(members) != 1 || members[0].Email != "bob@example.com" {
		t.Fatalf("members = %v, err = %v", members, err)
	}

	// Removing the user also removes the membership.
	if err := svc.RemoveUser(ctx, "bob@example.com"); err != nil {
		t.Fatalf("remove user: %v", err)
	}
	members, _ = svc.TeamUsers(ctx, "backend")
	if len(members) != 0 {
		t.Errorf("expected membership cleanup, got %v", members)
	}
}

func TestNodes(t *testing.T) {
	svc := vault.NewMemory()
	ctx := context.Background()

	root, err := svc.Nodes(ctx)
	if err != nil || len(root) != 1 || root[0].Name != "root" {
		t.Fatalf("expected seeded root node, got %v, %v", root, err)
	}

	child, err := svc.AddNode(ctx, "engineering", "root")
	if err != nil {
		t.Fatalf("add node: %v", err)
	}
	if child.ParentID != root[0].ID {
		t.Error("expected child parented under root")
	}

	if err := svc.RemoveNode(ctx, "root"); err == nil {
		t.Error("expected root removal to fail")
	}
	if err := svc.RemoveNode(ctx, "engineering"); err != nil {
		t.Errorf("remove node: %v", err)
	}
}

func TestRoles(t *testing.T) {
	svc := vault.NewMemory()
	ctx := context.Background()

	if _, err := svc.AddRole(ctx, "Admin", ""); err != nil {
		t.Fatalf("add role: %v", err)
	}
	if _, err := svc.AddUser(ctx, "eve@example.com", "Eve", ""); err != nil {
		t.Fatalf("add user: %v", err)
	}

	if err := svc.AssignRole(ctx, "admin", "eve@example.com"); err != nil {
		t.Errorf("assign role: %v", err)
	}
	if err := svc.AssignRole(ctx, "ghost", "eve@example.com"); !errors.Is(err, vault.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAuditQuery(t *testing.T) {
	svc := vault.NewMemory()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	events := []vault.AuditEvent{
		{Time: base, Actor: "admin", Type: "command.executed", Message: "user add"},
		{Time: base.Add(time.Minute), Actor: "admin", Type: "command.failed", Message: "bad"},
		{Time: base.Add(2 * time.Minute), Actor: "alice", Type: "command.executed", Message: "team add"},
	}
	for _, ev := range events {
		if err := svc.Record(ctx, ev); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	got, err := svc.Query(ctx, vault.AuditQuery{Actor: "admin"})
	if err != nil || len(got) != 2 {
		t.Fatalf("actor filter: %v, %v", got, err)
	}

	got, _ = svc.Query(ctx, vault.AuditQuery{Type: "command.executed"})
	if len(got) != 2 {
		t.Errorf("type filter: %v", got)
	}

	got, _ = svc.Query(ctx, vault.AuditQuery{Since: base.Add(90 * time.Second)})
	if len(got) != 1 || got[0].Actor != "alice" {
		t.Errorf("since filter: %v", got)
	}

	got, _ = svc.Query(ctx, vault.AuditQuery{Limit: 1})
	if len(got) != 1 || got[0].Actor != "alice" {
		t.Errorf("limit should keep the newest, got %v", got)
	}

	// Generated fields are filled in.
	all, _ := svc.Query(ctx, vault.AuditQuery{})
	for _, ev := range all {
		if ev.ID == "" {
			t.Error("expected generated event ID")
		}
	}
}

func TestBackups(t *testing.T) {
	now := time.Now()
	svc := vault.NewMemory(vault.WithBackups(
		vault.Backup{ID: "old", Created: now.Add(-time.Hour), Size: 10},
		vault.Backup{ID: "new", Created: now, Size: 20},
	))
	ctx := context.Background()

	backups, err := svc.List(ctx)
	if err != nil || len(backups) != 2 {
		t.Fatalf("list: %v, %v", backups, err)
	}
	if backups[0].ID != "new" {
		t.Errorf("expected newest first, got %v", backups)
	}

	b, err := svc.Get(ctx, "old")
	if err != nil || b.Size != 10 {
		t.Errorf("get: %v, %v", b, err)
	}
	if _, err := svc.Get(ctx, "missing"); !errors.Is(err, vault.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
