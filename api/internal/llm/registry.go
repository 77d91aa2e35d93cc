package llm

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry maps provider names to clients.
type Registry struct {
	def     string
	clients map[string]Client
}

func NewRegistry(def string, clients ...Client) (*Registry, error) {
	r := &Registry{clients: make(map[string]Client, len(clients))}
	for _, c := range clients {
		if c == nil {
			continue
		}
		r.clients[strings.ToLower(c.Name())] = c
	}
	def = strings.ToLower(strings.TrimSpace(def))
	if _, ok := r.clients[def]; !ok {
		return nil, fmt.Errorf("llm: default provider %q is not configured", def)
	}
	r.def = def
	return r, nil
}

func (r *Registry) Default() Client { return r.clients[r.def] }

// Get returns the named client; an empty name yields the default.
func (r *Registry) Get(name string) (Client, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return r.Default(), nil
	}
	c, ok := r.clients[name]
	if !ok {
		return nil, fmt.Errorf("llm: unknown provider %q (available: %s)", name, strings.Join(r.Names(), ", "))
	}
	return c, nil
}

func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.clients))
	for n := range r.clients {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Manager keeps a per-chat provider choice on top of a Registry.
type Manager struct {
	reg *Registry
	m   sync.Map // chatID -> Client
}

func NewManager(reg *Registry) *Manager {
	return &Manager{reg: reg}
}

func (m *Manager) Get(chatID int64) Client {
	if v, ok := m.m.Load(chatID); ok {
		return v.(Client)
	}
	return m.reg.Default()
}

func (m *Manager) Set(chatID int64, name string) (Client, error) {
	c, err := m.reg.Get(name)
	if err != nil {
		return nil, err
	}
	m.m.Store(chatID, c)
	return c, nil
}

func (m *Manager) Registry() *Registry { return m.reg }
