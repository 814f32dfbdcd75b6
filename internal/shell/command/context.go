package command

// Context is one logical area of the shell: a scoped set of commands and
// aliases plus a prompt. Exactly one context is active at a time and it is
// exclusively owned by the dispatch loop; once replaced it is disposed and
// must not be reused.
type Context interface {
	// Prompt returns the prompt label shown before interactive reads.
	Prompt() string

	// Commands returns the context's registry scope. It is consulted for
	// lookup only while the context is active.
	Commands() *Registry
}

// ErrorHandler is an optional Context extension. OnError is offered every
// error raised by a command action executed while the context is active;
// returning true suppresses the loop's generic failure message.
type ErrorHandler interface {
	OnError(err error) bool
}

// Disposer is an optional Context extension. Dispose is invoked exactly
// once, after the context has been swapped out and is no longer reachable
// from the dispatch loop.
type Disposer interface {
	Dispose()
}
