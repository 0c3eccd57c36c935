package fallback

import (
	"sync"

	"github.com/fastygo/spicecms/domain"
)

// Memory is a process-local fallback store, used by tests and one-shot tools
// that do not need the snapshot to outlive the process.
type Memory struct {
	mu    sync.Mutex
	state *domain.CMSState
	saves int
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load() (domain.CMSState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return domain.CMSState{}, domain.ErrNoLocalState
	}
	return m.state.Clone(), nil
}

func (m *Memory) Save(state domain.CMSState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := state.Clone()
	m.state = &c
	m.saves++
	return nil
}

// Saves reports how many times Save was called.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
