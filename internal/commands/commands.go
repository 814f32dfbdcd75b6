// Package commands assembles the vaultsh command sets: the global registry
// shared by every context, and the main, enterprise, and backup contexts
// themselves. Each command parses its own raw remainder and talks to the
// vault service through the interfaces in internal/vault.
package commands

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/vaultsh/vaultsh/internal/logging"
	"github.com/vaultsh/vaultsh/internal/vault"
)

// ScriptRunner executes a script file. Implemented by internal/script.
type ScriptRunner interface {
	RunFile(ctx context.Context, path string) error
}

// PasswordReader reads a secret without echo. Implemented by input.Reader.
type PasswordReader interface {
	ReadPassword(prompt string) (string, error)
}

// HistoryClearer discards interactive history on demand.
type HistoryClearer interface {
	ClearHistory()
}

// Deps carries the collaborators the command sets need. Vault is required;
// everything else degrades gracefully when absent.
type Deps struct {
	Vault vault.Service

	// Out receives command output. Defaults to os.Stdout.
	Out io.Writer

	// Version is printed by the version command.
	Version string

	// Prompt is the base prompt for the main context.
	Prompt string

	// Server is the initially selected vault server.
	Server string

	// Passwords, when set, lets login prompt for a password instead of
	// requiring it on the command line.
	Passwords PasswordReader

	// History, when set, backs the clear-history command.
	History HistoryClearer

	// Scripts, when set, backs the script command.
	Scripts ScriptRunner

	Logger *logging.Logger
}

// Set is the shared state behind all vaultsh contexts: the dependency
// bundle plus the current session and server selection. Contexts are
// cheap views over a Set; transitions construct fresh ones.
type Set struct {
	deps Deps

	mu      sync.Mutex
	session vault.Session
	server  string
}

// NewSet validates deps and applies defaults.
func NewSet(deps Deps) *Set {
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if deps.Logger == nil {
		deps.Logger = logging.Null
	}
	if deps.Prompt == "" {
		deps.Prompt = "vaultsh> "
	}
	if deps.Server == "" {
		deps.Server = "local"
	}
	return &Set{deps: deps, server: deps.Server}
}

// Vault returns the underlying vault service.
func (s *Set) Vault() vault.Service { return s.deps.Vault }

// SetScripts attaches the script runner. The runner needs the loop, which
// needs the starting context, so it is wired after construction and before
// the loop runs.
func (s *Set) SetScripts(r ScriptRunner) {
	s.deps.Scripts = r
}

// Session returns the current session. A zero Username means logged out.
func (s *Set) Session() vault.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

func (s *Set) setSession(sess vault.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = sess
}

// Server returns the currently selected server name.
func (s *Set) Server() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.server
}

func (s *Set) setServer(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.server = name
}

func (s *Set) out() io.Writer { return s.deps.Out }
