package solver

import (
	"github.com/crillab/bvsat/dd"
	"github.com/crillab/bvsat/poly"
)

// PolyEnv is the external polynomial-provider environment of spec.md §6:
// one poly.Manager per bit-width in use, created lazily. The solver core
// only ever talks to the poly.Manager interface; PolyEnv just owns the
// per-width instances so every component shares the same Manager for a
// given width.
type PolyEnv struct {
	managers map[Width]poly.Manager
}

// NewPolyEnv returns an empty polynomial environment.
func NewPolyEnv() *PolyEnv {
	return &PolyEnv{managers: make(map[Width]poly.Manager)}
}

// Get returns (creating if necessary) the Manager for width w.
func (e *PolyEnv) Get(w Width) poly.Manager {
	if m, ok := e.managers[w]; ok {
		return m
	}
	m := poly.NewManager(uint(w))
	e.managers[w] = m
	return m
}

// DDEnv is the external decision-diagram-provider environment of spec.md
// §6: one dd.Provider per bit-width, created lazily.
type DDEnv struct {
	providers map[Width]dd.Provider
}

// NewDDEnv returns an empty DD environment.
func NewDDEnv() *DDEnv {
	return &DDEnv{providers: make(map[Width]dd.Provider)}
}

// Get returns (creating if necessary) the Provider for width w.
func (e *DDEnv) Get(w Width) dd.Provider {
	if p, ok := e.providers[w]; ok {
		return p
	}
	p := dd.NewProvider(uint(w))
	e.providers[w] = p
	return p
}
