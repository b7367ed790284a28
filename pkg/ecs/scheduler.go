package ecs

import (
	"github.com/kelindar/bitmap"
	"github.com/rotisserie/eris"
)

// systemMetadata contains the metadata for a system.
type systemMetadata struct {
	name   string        // The name of the system
	fn     System        // The system function
	config systemConfig  // Declared component access
	reads  bitmap.Bitmap // Components read but not written, resolved by Init
	writes bitmap.Bitmap // Components written, resolved by Init
}

// Scheduler runs systems against a store in an order derived from the components they read and
// write. Systems run sequentially on the calling goroutine.
//
// For every pair of systems that touch the same component:
//   - a system that writes it runs before a system that only reads it;
//   - two systems that both write it run in registration order.
//
// Systems with no shared components keep their registration order.
type Scheduler struct {
	store       *Store
	systems     []systemMetadata
	order       []int // Execution order as indices into systems
	initialized bool
}

// NewScheduler creates a scheduler for systems that operate on store.
func NewScheduler(store *Store) *Scheduler {
	return &Scheduler{
		store:       store,
		systems:     make([]systemMetadata, 0),
		order:       make([]int, 0),
		initialized: false,
	}
}

// Register adds a system. Init must be called again before the next Run.
func (s *Scheduler) Register(name string, fn System, opts ...SystemOption) {
	cfg := newSystemConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	s.systems = append(s.systems, systemMetadata{name: name, fn: fn, config: cfg})
	s.initialized = false
}

// Init resolves every system's component access and computes the execution order. Returns an
// error wrapping ErrSystemCycle if the declared access can't be ordered.
func (s *Scheduler) Init() error {
	for i := range s.systems {
		if err := s.systems[i].resolve(s.store); err != nil {
			return eris.Wrapf(err, "failed to resolve components of system %s", s.systems[i].name)
		}
	}

	order, err := createSchedule(s.systems)
	if err != nil {
		return err
	}

	s.order = order
	s.initialized = true
	return nil
}

// Run executes every system once in schedule order. The first system to fail stops the step and
// its error is returned, wrapped with the system name.
func (s *Scheduler) Run(step StepInfo) error {
	if !s.initialized {
		return eris.New("scheduler must be initialized before running")
	}

	for _, systemID := range s.order {
		system := &s.systems[systemID]
		if err := system.fn(step, s.store); err != nil {
			return eris.Wrapf(err, "system %s failed", system.name)
		}
	}
	return nil
}

// Order returns the names of the systems in the order Run executes them.
func (s *Scheduler) Order() []string {
	names := make([]string, 0, len(s.order))
	for _, systemID := range s.order {
		names = append(names, s.systems[systemID].name)
	}
	return names
}

// resolve interns the system's declared components in store and fills its bitmaps.
func (m *systemMetadata) resolve(store *Store) error {
	m.reads = bitmap.Bitmap{}
	m.writes = bitmap.Bitmap{}

	for _, resolver := range m.config.writes {
		cid, err := resolver(store)
		if err != nil {
			return err
		}
		m.writes.Set(cid)
	}
	for _, resolver := range m.config.reads {
		cid, err := resolver(store)
		if err != nil {
			return err
		}
		if !m.writes.Contains(cid) {
			m.reads.Set(cid)
		}
	}
	return nil
}

// createSchedule orders the systems topologically. Among systems whose dependencies are satisfied,
// the one registered first runs first.
func createSchedule(systems []systemMetadata) ([]int, error) {
	graph, indegree := buildDependencyGraph(systems)

	order := make([]int, 0, len(systems))
	done := make([]bool, len(systems))
	for len(order) < len(systems) {
		next := -1
		for systemID := range systems {
			if !done[systemID] && indegree[systemID] == 0 {
				next = systemID
				break
			}
		}
		if next == -1 {
			return nil, eris.Wrapf(ErrSystemCycle, "systems %v", pendingNames(systems, done))
		}

		done[next] = true
		order = append(order, next)
		for _, dependent := range graph[next] {
			indegree[dependent]--
		}
	}
	return order, nil
}

// buildDependencyGraph creates the graph of system dependencies based on their shared component
// access. It returns the graph as an adjacency list and each system's dependency count.
func buildDependencyGraph(systems []systemMetadata) (map[int][]int, []int) {
	graph := make(map[int][]int, len(systems))
	indegree := make([]int, len(systems))

	addEdge := func(from, to int) {
		graph[from] = append(graph[from], to)
		indegree[to]++
	}

	for systemA := range len(systems) - 1 {
		for systemB := systemA + 1; systemB < len(systems); systemB++ {
			a, b := &systems[systemA], &systems[systemB]

			switch {
			case intersects(a.writes, b.writes), intersects(a.writes, b.reads):
				addEdge(systemA, systemB)
				if intersects(b.writes, a.reads) {
					addEdge(systemB, systemA)
				}
			case intersects(b.writes, a.reads):
				addEdge(systemB, systemA)
			}
		}
	}

	return graph, indegree
}

// intersects reports whether the two bitmaps share a component.
func intersects(x, y bitmap.Bitmap) bool {
	found := false
	x.Range(func(cid uint32) {
		if !found && y.Contains(cid) {
			found = true
		}
	})
	return found
}

func pendingNames(systems []systemMetadata, done []bool) []string {
	names := make([]string, 0)
	for systemID := range systems {
		if !done[systemID] {
			names = append(names, systems[systemID].name)
		}
	}
	return names
}
