package command

import (
	"sort"
	"strings"
)

// Scopes is an ordered list of registries consulted in priority order. The
// dispatch loop builds one per lookup as (global, active context), so a
// context can never shadow a universally available command; additional
// levels (nested sub-menus) slot in naturally.
type Scopes []*Registry

// Resolve maps a raw command token to a command. The token is lower-cased,
// alias-substituted against each scope in order, and the resulting name is
// then looked up against each scope in order. A failed resolution is
// reported with ok=false, never an error.
func (s Scopes) Resolve(tok string) (*Command, bool) {
	name := strings.ToLower(tok)

	for _, r := range s {
		if r == nil {
			continue
		}
		if target, ok := r.AliasTarget(name); ok {
			name = target
			break
		}
	}

	for _, r := range s {
		if r == nil {
			continue
		}
		if cmd, ok := r.Get(name); ok {
			return cmd, true
		}
	}
	return nil, false
}

// HelpRow is one row of the help table.
type HelpRow struct {
	Name        string
	Alias       string
	Description string
	Order       int
}

// HelpRows returns the merged help rows for every command visible from the
// scope union. On a name collision the earlier (higher priority) scope
// wins. Rows are sorted by Order ascending, ties broken by name ascending.
func (s Scopes) HelpRows() []HelpRow {
	seen := make(map[string]bool)
	var rows []HelpRow

	for _, r := range s {
		if r == nil {
			continue
		}
		for _, name := range r.Names() {
			if seen[name] {
				continue
			}
			seen[name] = true

			cmd, ok := r.Get(name)
			if !ok {
				continue
			}
			rows = append(rows, HelpRow{
				Name:        name,
				Alias:       r.AliasFor(name),
				Description: cmd.Description,
				Order:       cmd.Order,
			})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Order != rows[j].Order {
			return rows[i].Order < rows[j].Order
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}
