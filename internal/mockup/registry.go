package mockup

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Registry maps stable template identifiers to handlers. Identifiers without
// an entry are routed to the fallback handler.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	fallback Handler
}

func NewRegistry(fallback Handler) *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
		fallback: fallback,
	}
}

func (r *Registry) Register(id string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[NormalizeID(id)] = h
}

// Lookup returns the handler for id and whether it was registered. The
// fallback is returned for unregistered identifiers.
func (r *Registry) Lookup(id string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if h, ok := r.handlers[NormalizeID(id)]; ok {
		return h, true
	}
	return r.fallback, false
}

func (r *Registry) Fallback() Handler {
	return r.fallback
}

func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.handlers))
	for id := range r.handlers {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// NormalizeID turns a template file name or label into its identifier:
// extension stripped, lower-cased, spaces and hyphens folded to underscores.
func NormalizeID(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	name = filepath.Base(name)
	if ext := filepath.Ext(name); ext != "" {
		switch strings.ToLower(ext) {
		case ".png", ".jpg", ".jpeg", ".webp":
			name = strings.TrimSuffix(name, ext)
		}
	}
	name = strings.ToLower(name)
	return strings.NewReplacer(" ", "_", "-", "_").Replace(name)
}
