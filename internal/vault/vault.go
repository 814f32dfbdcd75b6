// Package vault defines the external service layer the shell's business
// commands call into: the enterprise directory, the audit log, the backup
// store, and authentication. The shell core never touches these types; it
// sees commands only through the generic action contract.
package vault

import (
	"context"
	"time"
)

// User is an enterprise directory user.
type User struct {
	ID     string
	Email  string
	Name   string
	NodeID string
}

// Team is a named group of users attached to a node.
type Team struct {
	ID     string
	Name   string
	NodeID string
}

// Role is a named permission set attached to a node.
type Role struct {
	ID     string
	Name   string
	NodeID string
}

// Node is one element of the enterprise hierarchy.
type Node struct {
	ID       string
	Name     string
	ParentID string
}

// Session is an authenticated login session.
type Session struct {
	ID       string
	Username string
	IssuedAt time.Time
}

// AuditEvent is one entry in the audit trail.
type AuditEvent struct {
	ID      string
	Time    time.Time
	Actor   string
	Type    string
	Message string
}

// AuditQuery filters audit events. Zero fields match everything.
type AuditQuery struct {
	Since time.Time
	Until time.Time
	Actor string
	Type  string
	Limit int
}

// Backup describes one backup snapshot available for download.
type Backup struct {
	ID      string
	Created time.Time
	Size    int64
	Path    string
}

// Directory manages enterprise users, teams, roles and nodes.
type Directory interface {
	AddUser(ctx context.Context, email, name, nodeName string) (User, error)
	RemoveUser(ctx context.Context, email string) error
	Users(ctx context.Context) ([]User, error)

	AddTeam(ctx context.Context, name, nodeName string) (Team, error)
	RemoveTeam(ctx context.Context, name string) error
	Teams(ctx context.Context) ([]Team, error)

	AddTeamUser(ctx context.Context, teamName, email string) error
	RemoveTeamUser(ctx context.Context, teamName, email string) error
	TeamUsers(ctx context.Context, teamName string) ([]User, error)

	AddRole(ctx context.Context, name, nodeName string) (Role, error)
	RemoveRole(ctx context.Context, name string) error
	Roles(ctx context.Context) ([]Role, error)
	AssignRole(ctx context.Context, roleName, email string) error

	AddNode(ctx context.Context, name, parentName string) (Node, error)
	RemoveNode(ctx context.Context, name string) error
	Nodes(ctx context.Context) ([]Node, error)
}

// AuditLog records and queries audit events.
type AuditLog interface {
	Record(ctx context.Context, ev AuditEvent) error
	Query(ctx context.Context, q AuditQuery) ([]AuditEvent, error)
}

// BackupStore lists backup snapshots.
type BackupStore interface {
	List(ctx context.Context) ([]Backup, error)
	Get(ctx context.Context, id string) (Backup, error)
}

// Authenticator issues and revokes sessions.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// Service is the full vault collaborator surface.
type Service interface {
	Directory
	AuditLog
	BackupStore
	Authenticator
}
