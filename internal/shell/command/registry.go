package command

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry maps lower-cased command names to commands and aliases to
// canonical names. A registry is one resolution scope; the global registry
// and each context own one.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]*Command
	aliases  map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]string),
	}
}

// Register binds cmd under name. Names are case-normalized to lower case.
// Registering an existing name replaces the previous binding.
func (r *Registry) Register(name string, cmd *Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[strings.ToLower(name)] = cmd
}

// Alias binds alias to the canonical command name. The target is not
// checked at registration time; a dangling alias is a configuration defect
// the assembler must avoid (see Validate).
func (r *Registry) Alias(alias, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[strings.ToLower(alias)] = strings.ToLower(name)
}

// Get returns the command bound under name (already lower-cased by the
// caller or not; lookup normalizes).
func (r *Registry) Get(name string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[strings.ToLower(name)]
	return cmd, ok
}

// AliasTarget returns the canonical name an alias points at.
func (r *Registry) AliasTarget(alias string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.aliases[strings.ToLower(alias)]
	return name, ok
}

// Names returns all registered command names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AliasFor returns a display alias for name: the lexically smallest alias
// pointing at it, or empty if none.
func (r *Registry) AliasFor(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name = strings.ToLower(name)
	best := ""
	for alias, target := range r.aliases {
		if target != name {
			continue
		}
		if best == "" || alias < best {
			best = alias
		}
	}
	return best
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// Validate reports dangling aliases. The engine never calls this at
// runtime; it exists so assemblers can uphold the invariant in their tests.
func (r *Registry) Validate() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for alias, target := range r.aliases {
		if _, ok := r.commands[target]; !ok {
			return fmt.Errorf("command: alias %q points at unregistered command %q", alias, target)
		}
	}
	return nil
}
