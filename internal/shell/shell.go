// Package shell drives the interactive dispatch loop: it reads a line,
// resolves it against the registries visible from the active context,
// executes the command with failure containment, and applies any context
// transition the command requested.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"unicode"

	"github.com/vaultsh/vaultsh/internal/event"
	"github.com/vaultsh/vaultsh/internal/logging"
	"github.com/vaultsh/vaultsh/internal/shell/command"
)

// HelpMarker is the bare token that renders the help table without an
// invalid-command diagnostic.
const HelpMarker = "?"

// LineReader supplies interactive input. ReadLine blocks until a full line
// is available; it is the loop's sole suspension point besides awaiting a
// command's completion. ClearHistory discards any interactive history the
// reader tracks; the loop calls it on every context transition.
type LineReader interface {
	ReadLine(prompt string) (string, error)
	ClearHistory()
}

// HelpRenderer renders the merged, order-sorted help rows. The format is a
// presentation concern; the loop only produces the rows.
type HelpRenderer interface {
	RenderHelp(w io.Writer, rows []command.HelpRow)
}

// Options configures a Loop.
type Options struct {
	// Reader supplies interactive input. Required for interactive use; a
	// loop fed entirely through Enqueue treats reader EOF as completion.
	Reader LineReader

	// Output receives diagnostics and help tables. Defaults to os.Stdout.
	Output io.Writer

	// Help renders the help table. Defaults to a plain tab-aligned table.
	Help HelpRenderer

	// Logger receives dispatch telemetry. Defaults to the null logger.
	Logger *logging.Logger

	// Bus, when set, receives command.executed / command.failed events.
	Bus *event.Bus
}

// Loop is the top-level driver. It owns the global registry, the pending
// command queue, and the single active context. It is not safe for
// concurrent Run calls; commands execute strictly one at a time in input
// order.
type Loop struct {
	global *command.Registry
	active command.Context

	reader LineReader
	out    io.Writer
	help   HelpRenderer
	logger *logging.Logger
	bus    *event.Bus

	mu      sync.Mutex
	pending []string

	finished bool
}

// New creates a dispatch loop with the given global registry and starting
// context.
func New(global *command.Registry, start command.Context, opts Options) *Loop {
	l := &Loop{
		global: global,
		active: start,
		reader: opts.Reader,
		out:    opts.Output,
		help:   opts.Help,
		logger: opts.Logger,
		bus:    opts.Bus,
	}
	if l.out == nil {
		l.out = os.Stdout
	}
	if l.help == nil {
		l.help = tabHelp{}
	}
	if l.logger == nil {
		l.logger = logging.Null
	}
	return l
}

// Enqueue appends raw command lines to the pending FIFO queue. Pending
// lines are consumed before any interactive read.
func (l *Loop) Enqueue(lines ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending = append(l.pending, lines...)
}

// Active returns the currently active context.
func (l *Loop) Active() command.Context {
	return l.active
}

// Global returns the global registry.
func (l *Loop) Global() *command.Registry {
	return l.global
}

// HelpRows returns the merged help rows visible from the active context.
func (l *Loop) HelpRows() []command.HelpRow {
	return l.scopes().HelpRows()
}

// RenderHelp writes the help table for the active context to the loop's
// output. Registered help commands call this.
func (l *Loop) RenderHelp() {
	l.help.RenderHelp(l.out, l.HelpRows())
}

// Run processes lines until a command requests Quit, input reaches EOF, the
// active context becomes nil, or ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	for !l.finished && l.active != nil {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, queued := l.nextPending()
		if !queued {
			if l.reader == nil {
				return nil
			}
			var err error
			line, err = l.reader.ReadLine(l.active.Prompt())
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("shell: read input: %w", err)
			}
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		name, rest := splitCommand(line)

		cmd, ok := l.scopes().Resolve(name)
		if !ok {
			if name != HelpMarker {
				fmt.Fprintf(l.out, "Invalid command: %s\n", name)
				l.publish("command.invalid", map[string]any{"command": name})
			}
			l.help.RenderHelp(l.out, l.HelpRows())
			continue
		}

		res, err := l.execute(ctx, name, cmd, rest)
		if err != nil {
			l.containError(name, err)
			continue
		}

		l.logger.Debug("command executed: %s", name)
		l.publish("command.executed", map[string]any{"command": name})
		l.apply(res)
	}
	return nil
}

// nextPending pops the head of the pending queue.
func (l *Loop) nextPending() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.pending) == 0 {
		return "", false
	}
	line := l.pending[0]
	l.pending = l.pending[1:]
	return line, true
}

// scopes returns the resolution scopes in priority order: global first,
// then the active context.
func (l *Loop) scopes() command.Scopes {
	var local *command.Registry
	if l.active != nil {
		local = l.active.Commands()
	}
	return command.Scopes{l.global, local}
}

// execute runs a command action with panic recovery, so a misbehaving
// command can never take the loop down.
func (l *Loop) execute(ctx context.Context, name string, cmd *command.Command, argsRaw string) (res command.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)
			res = command.Result{}
			err = fmt.Errorf("shell: panic in command %s: %v\n%s", name, r, stack[:n])
		}
	}()

	if cmd.Run == nil {
		return command.Result{}, ErrNilAction
	}
	return cmd.Run(ctx, argsRaw)
}

// containError offers an execution failure to the active context's error
// hook; unhandled errors surface as a generic diagnostic. Errors never
// propagate out of the loop.
func (l *Loop) containError(name string, err error) {
	l.logger.Error("command %s failed: %v", name, err)
	l.publish("command.failed", map[string]any{"command": name, "error": err.Error()})

	if h, ok := l.active.(command.ErrorHandler); ok && h.OnError(err) {
		return
	}
	fmt.Fprintf(l.out, "Command failed: %v\n", err)
}

// apply consumes a command result: the quit flag and any transition
// request. On a real transition the outgoing context is disposed exactly
// once, after it is no longer reachable from the loop, and interactive
// history is cleared before the next read.
func (l *Loop) apply(res command.Result) {
	if res.Quit {
		l.finished = true
	}
	if res.Next == nil || res.Next == l.active {
		return
	}

	outgoing := l.active
	l.active = res.Next

	if d, ok := outgoing.(command.Disposer); ok {
		d.Dispose()
	}
	if l.reader != nil {
		l.reader.ClearHistory()
	}
	l.logger.Info("context switched to %q", l.active.Prompt())
}

// publish emits an event on the bus, if one is attached.
func (l *Loop) publish(topic string, fields map[string]any) {
	if l.bus == nil {
		return
	}
	l.bus.Publish(event.New(topic, fields))
}

// splitCommand splits a line at the first whitespace run into a lower-cased
// command token and the raw remainder. The remainder is handed to the
// command unmodified; the loop never tokenizes it.
func splitCommand(line string) (name, rest string) {
	line = strings.TrimLeftFunc(line, unicode.IsSpace)

	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return strings.ToLower(line), ""
	}
	return strings.ToLower(line[:i]), strings.TrimLeftFunc(line[i:], unicode.IsSpace)
}
