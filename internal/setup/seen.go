package setup

import (
	"sort"
	"sync"
)

// SeenPorts is the set of port names already present or already claimed in
// this session. Names are only ever added.
type SeenPorts struct {
	mu    sync.Mutex
	ports map[string]struct{}
}

// NewSeenPorts returns a set seeded with names.
func NewSeenPorts(names ...string) *SeenPorts {
	s := &SeenPorts{ports: make(map[string]struct{}, len(names))}
	for _, n := range names {
		s.ports[n] = struct{}{}
	}
	return s
}

// Contains reports whether name is in the set.
func (s *SeenPorts) Contains(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ports[name]
	return ok
}

// Claim adds name and reports whether it was absent. A false return means
// another flow already owns the port.
func (s *SeenPorts) Claim(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ports[name]; ok {
		return false
	}
	s.ports[name] = struct{}{}
	return true
}

// Names returns the known ports, sorted.
func (s *SeenPorts) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.ports))
	for n := range s.ports {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
