// Package script runs untrusted Lua automation scripts in a sandboxed
// interpreter. Scripts drive the shell through a small `shell` table:
// shell.run(line) enqueues a command line, shell.log(msg) writes to the
// vaultsh log. The full Lua standard library is never opened.
package script

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/vaultsh/vaultsh/internal/logging"
)

// DefaultTimeout bounds a single script run.
const DefaultTimeout = 10 * time.Second

// Enqueuer accepts command lines for later dispatch. Implemented by
// shell.Loop.
type Enqueuer interface {
	Enqueue(lines ...string)
}

// Runner executes Lua scripts against a shell. A Runner is cheap; each run
// gets a fresh interpreter state so scripts cannot leak globals into one
// another.
type Runner struct {
	queue   Enqueuer
	logger  *logging.Logger
	timeout time.Duration
}

// NewRunner creates a script runner feeding the given queue.
func NewRunner(queue Enqueuer, logger *logging.Logger) *Runner {
	if logger == nil {
		logger = logging.Null
	}
	return &Runner{queue: queue, logger: logger, timeout: DefaultTimeout}
}

// SetTimeout overrides the per-run timeout. Zero disables it.
func (r *Runner) SetTimeout(d time.Duration) { r.timeout = d }

// RunFile loads and executes one script file.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("script: read %s: %w", path, err)
	}
	return r.run(ctx, path, string(src))
}

// RunString executes a script given as source text. The name appears in Lua
// error messages.
func (r *Runner) RunString(ctx context.Context, name, src string) error {
	return r.run(ctx, name, src)
}

func (r *Runner) run(ctx context.Context, name, src string) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	L := newState()
	defer L.Close()
	L.SetContext(ctx)
	r.installShellTable(L)

	fn, err := L.Load(strings.NewReader(src), name)
	if err != nil {
		return fmt.Errorf("script: load %s: %w", name, err)
	}
	L.Push(fn)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return fmt.Errorf("script: run %s: %w", name, err)
	}
	return nil
}

// newState opens only the safe core libraries and strips the loaders that
// would let a script reach the filesystem.
func newState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	for _, open := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(open.fn))
		L.Push(lua.LString(open.name))
		L.Call(1, 0)
	}

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

// installShellTable exposes the shell bridge to the script.
func (r *Runner) installShellTable(L *lua.LState) {
	tbl := L.NewTable()

	L.SetField(tbl, "run", L.NewFunction(func(L *lua.LState) int {
		line := L.CheckString(1)
		r.queue.Enqueue(line)
		return 0
	}))

	L.SetField(tbl, "log", L.NewFunction(func(L *lua.LState) int {
		r.logger.Info("script: %s", L.CheckString(1))
		return 0
	}))

	L.SetGlobal("shell", tbl)
}
