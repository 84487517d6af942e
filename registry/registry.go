// Package registry stores locally declared commands and reconciles them
// with the remote registry, re-uploading only the ones whose definition
// actually changed.
package registry

import (
	"sort"
	"sync"

	"github.com/keshon/slashkit/schema"
)

// DefaultRegistry is the global registry used by adapters and the demo bot.
var DefaultRegistry = NewRegistry()

// Registry stores commands by name. It does not perform dispatch; each
// adapter looks commands up and invokes its own handlers.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]*schema.Command
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]*schema.Command)}
}

// Register adds a command, replacing any previous declaration with the same
// name. Usually called from init() or adapter setup.
func (r *Registry) Register(c *schema.Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[c.Name] = c
}

// Get returns the command with the given name.
func (r *Registry) Get(name string) (*schema.Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.commands[name]
	return c, ok
}

// All returns all registered commands, sorted by name.
func (r *Registry) All() []*schema.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*schema.Command, 0, len(r.commands))
	for _, c := range r.commands {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}
