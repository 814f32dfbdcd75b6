// Package command defines the command data model: named executable units,
// the name/alias registry, and the ordered scope list used for resolution.
package command

import "context"

// Action executes a command. It receives the raw, untokenized remainder of
// the input line; commands that need structured arguments tokenize it
// themselves. The returned Result is the action's only sanctioned channel
// back to the dispatch loop.
type Action func(ctx context.Context, argsRaw string) (Result, error)

// Command is a named, describable unit of work. Order is a stable sort key
// used only for help display, never for execution priority. A Command has
// no identity beyond its registry key; two registries may bind the same
// Command under different names.
type Command struct {
	// Order positions the command in help output (ascending).
	Order int

	// Description is the one-line help text.
	Description string

	// Run executes the command.
	Run Action
}

// Result is returned by a command action and consumed only by the dispatch
// loop. Transitions are requested as data here rather than through shared
// mutable state, so the state machine's legal moves are enumerable.
type Result struct {
	// Next requests a context transition. Nil means stay. The active
	// context itself is the documented no-op signal: the loop clears the
	// request without disposing anything.
	Next Context

	// Quit asks the loop to finish after this command completes.
	Quit bool
}

// Stay returns the zero Result: no transition, keep running.
func Stay() Result {
	return Result{}
}

// Switch returns a Result requesting a transition to next.
func Switch(next Context) Result {
	return Result{Next: next}
}

// Quit returns a Result that terminates the dispatch loop.
func Quit() Result {
	return Result{Quit: true}
}
