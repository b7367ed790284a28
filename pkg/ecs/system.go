package ecs

// StepInfo describes the frame a system is being run for.
type StepInfo struct {
	Timestep float64 // Seconds simulated by this step
}

// System is a function that contains frame logic. It receives the store it runs against.
type System func(step StepInfo, s *Store) error

// componentResolver interns a component type in a store. Resolution is deferred until the scheduler
// is initialized, since IDs are store-local.
type componentResolver func(*Store) (ComponentID, error)

// systemConfig holds all configurable options for system registration.
type systemConfig struct {
	reads  []componentResolver // Components the system only reads
	writes []componentResolver // Components the system writes (and may read)
}

// newSystemConfig creates a new system config with default values.
func newSystemConfig() systemConfig {
	return systemConfig{
		reads:  make([]componentResolver, 0),
		writes: make([]componentResolver, 0),
	}
}

// SystemOption is a function that configures a systemConfig.
type SystemOption func(*systemConfig)

// Reads returns an option declaring that the system reads components of type T.
func Reads[T Component]() SystemOption {
	return func(cfg *systemConfig) { cfg.reads = append(cfg.reads, TypeID[T]) }
}

// Writes returns an option declaring that the system modifies components of type T. A write implies
// a read, there is no need to declare both.
func Writes[T Component]() SystemOption {
	return func(cfg *systemConfig) { cfg.writes = append(cfg.writes, TypeID[T]) }
}
