package table

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/cardroom/holdemd/internal/randutil"
)

// Manager is the typed registry of tables. Tables are created on
// demand and live for the server's lifetime; each gets its own
// deterministic RNG stream derived from the manager seed.
type Manager struct {
	cfg    Config
	clock  quartz.Clock
	logger *log.Logger

	mu      sync.Mutex
	tables  map[string]*Table
	order   []string // creation order, for assignment scans
	seed    int64
	created int64
}

// NewManager creates a table registry. seed fixes every table's
// shuffle sequence, which tests rely on.
func NewManager(cfg Config, clock quartz.Clock, seed int64, logger *log.Logger) *Manager {
	return &Manager{
		cfg:    cfg,
		clock:  clock,
		logger: logger,
		tables: make(map[string]*Table),
		seed:   seed,
	}
}

// GetOrCreate returns the table with the given id, creating it when
// it does not exist yet.
func (m *Manager) GetOrCreate(id string) *Table {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getOrCreateLocked(id)
}

func (m *Manager) getOrCreateLocked(id string) *Table {
	if t, ok := m.tables[id]; ok {
		return t
	}
	m.created++
	rng := randutil.New(m.seed + m.created)
	t := New(id, m.cfg, m.clock, rng, m.logger)
	m.tables[id] = t
	m.order = append(m.order, id)
	m.logger.Info("table created", "id", id)
	return t
}

// Assign places a player at the first table with a free seat, in
// creation order, opening a new table when every table is full.
func (m *Manager) Assign(name string, conn Conn) (*Table, error) {
	m.mu.Lock()
	candidates := make([]*Table, 0, len(m.order)+1)
	for _, id := range m.order {
		candidates = append(candidates, m.tables[id])
	}
	m.mu.Unlock()

	for _, t := range candidates {
		if err := t.Join(name, conn); err == nil {
			return t, nil
		}
	}

	m.mu.Lock()
	t := m.getOrCreateLocked(fmt.Sprintf("table-%s", uuid.NewString()[:8]))
	m.mu.Unlock()

	if err := t.Join(name, conn); err != nil {
		return nil, fmt.Errorf("joining fresh table: %w", err)
	}
	return t, nil
}

// Lookup returns the table with the given id, or nil.
func (m *Manager) Lookup(id string) *Table {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tables[id]
}
