package main

import (
	"io"

	"github.com/argus-labs/scene-engine/pkg/ecs"
	"github.com/argus-labs/scene-engine/pkg/gpu"
	"github.com/argus-labs/scene-engine/pkg/scene"
	"github.com/argus-labs/scene-engine/pkg/telemetry"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// meshResources is the number of distinct mesh resources the grid cycles through.
const meshResources = 4

// Spin rotates an entity around its local Y axis.
type Spin struct {
	RadiansPerSecond float32
}

func (Spin) Name() string { return "spin" }

// frameUniforms is the per-frame uniform block.
type frameUniforms struct {
	ViewProjection mgl32.Mat4
	Time           float32
}

// report summarizes a run.
type report struct {
	Frames             int                 `json:"frames"`
	Schedule           []string            `json:"schedule"`
	Uploaded           int                 `json:"uploaded"`           // Matrices uploaded over all frames
	AllocationFailures int                 `json:"allocationFailures"` // Frames whose upload didn't fit
	PeakBytes          int                 `json:"peakBytes"`          // Largest frame upload
	Store              ecs.Stats           `json:"store"`
	DisplayList        []scene.DisplayItem `json:"displayList"`
}

func newLogger() (zerolog.Logger, error) {
	tel, err := telemetry.New(telemetry.Options{ServiceName: "scenedemo"})
	if err != nil {
		return zerolog.Logger{}, eris.Wrap(err, "failed to set up logging")
	}
	return tel.GetLogger("run"), nil
}

// demo holds everything a run touches.
type demo struct {
	cfg       demoConfig
	scene     *scene.Scene
	camera    ecs.EntityID
	scheduler *ecs.Scheduler
	pool      *gpu.MemoryPool
	uniforms  *gpu.UniformRing[frameUniforms]
	logger    zerolog.Logger

	elapsed float64
	report  report
}

// run builds the grid scene and steps it cfg.Frames times.
func run(cfg demoConfig, logger zerolog.Logger) (report, error) {
	d, err := newDemo(cfg, logger)
	if err != nil {
		return report{}, err
	}

	step := ecs.StepInfo{Timestep: cfg.Timestep}
	for frame := range cfg.Frames {
		if err := d.scheduler.Run(step); err != nil {
			return report{}, eris.Wrapf(err, "frame %d failed", frame)
		}
		d.elapsed += step.Timestep
	}

	d.report.Frames = cfg.Frames
	d.report.Schedule = d.scheduler.Order()
	d.report.Store = d.scene.Store().Stats()
	d.report.DisplayList = d.scene.DisplayList()
	return d.report, nil
}

func newDemo(cfg demoConfig, logger zerolog.Logger) (*demo, error) {
	sc, err := scene.New(ecs.WithLogger(logger.With().Str("component", "scenedemo.ecs.store").Logger()))
	if err != nil {
		return nil, eris.Wrap(err, "failed to create scene")
	}
	pool, err := gpu.NewMemoryPool(cfg.PoolSize)
	if err != nil {
		return nil, eris.Wrap(err, "failed to create memory pool")
	}
	uniforms, err := gpu.NewUniformRing[frameUniforms](gpu.BuffersInFlight)
	if err != nil {
		return nil, eris.Wrap(err, "failed to create uniform ring")
	}

	d := &demo{
		cfg:       cfg,
		scene:     sc,
		scheduler: ecs.NewScheduler(sc.Store()),
		pool:      pool,
		uniforms:  uniforms,
		logger:    logger,
	}

	if err := d.buildGrid(); err != nil {
		return nil, err
	}

	// Registration order doesn't matter for spin: it writes transforms, so it's scheduled before
	// every system that reads them.
	d.scheduler.Register("render", scene.RenderSystem(sc), scene.RenderSystemOptions()...)
	d.scheduler.Register("spin", spinSystem, ecs.Reads[Spin](), ecs.Writes[scene.Transform]())
	d.scheduler.Register("upload", d.uploadSystem, ecs.Reads[scene.Transform](), ecs.Reads[scene.Camera]())
	if err := d.scheduler.Init(); err != nil {
		return nil, eris.Wrap(err, "failed to schedule systems")
	}

	d.logger.Info().
		Int("rows", cfg.Rows).
		Int("cols", cfg.Cols).
		Strs("schedule", d.scheduler.Order()).
		Msg("scene ready")
	return d, nil
}

// buildGrid creates a camera and cfg.Rows rows of cfg.Cols spinning meshes, each row a child of the
// root and each mesh a child of its row.
func (d *demo) buildGrid() error {
	sc := d.scene
	store := sc.Store()

	camera, err := sc.Spawn(sc.Root(), scene.Translation(0, 0, 2*float32(d.cfg.Cols)))
	if err != nil {
		return eris.Wrap(err, "failed to spawn camera")
	}
	err = ecs.Set(store, camera, scene.Camera{FovY: mgl32.DegToRad(60), Aspect: 16.0 / 9, Near: 0.1, Far: 1000})
	if err != nil {
		return eris.Wrap(err, "failed to set camera")
	}
	d.camera = camera

	const spacing = 2
	originX := -spacing * float32(d.cfg.Cols-1) / 2
	originY := -spacing * float32(d.cfg.Rows-1) / 2
	for r := range d.cfg.Rows {
		row, err := sc.Spawn(sc.Root(), scene.Translation(0, originY+spacing*float32(r), 0))
		if err != nil {
			return eris.Wrapf(err, "failed to spawn row %d", r)
		}
		for c := range d.cfg.Cols {
			cell, err := sc.Spawn(row, scene.Translation(originX+spacing*float32(c), 0, 0))
			if err != nil {
				return eris.Wrapf(err, "failed to spawn cell %d,%d", r, c)
			}
			resource := scene.ResourceID((r*d.cfg.Cols + c) % meshResources) //nolint:gosec // small grid
			if err := ecs.Set(store, cell, scene.MeshOf(resource)); err != nil {
				return eris.Wrap(err, "failed to set mesh")
			}
			if err := ecs.Set(store, cell, Spin{RadiansPerSecond: 0.5 + 0.25*float32(c)}); err != nil {
				return eris.Wrap(err, "failed to set spin")
			}
		}
	}
	return nil
}

// spinSystem rotates every spinning entity by its angular speed.
func spinSystem(step ecs.StepInfo, s *ecs.Store) error {
	ecs.Each2(s, func(_ ecs.EntityID, spin *Spin, transform *scene.Transform) {
		angle := spin.RadiansPerSecond * float32(step.Timestep)
		transform.Matrix = transform.Matrix.Mul4(mgl32.HomogRotate3DY(angle))
	})
	return nil
}

// uploadSystem writes the frame uniforms and one model-view-projection matrix per display item into
// the memory pool. A frame that doesn't fit is logged and dropped; the next frame starts over with
// the next buffer.
func (d *demo) uploadSystem(_ ecs.StepInfo, _ *ecs.Store) error {
	viewProjection, err := d.scene.ViewProjection(d.camera)
	if err != nil {
		return eris.Wrap(err, "failed to compute view projection")
	}

	slot, idx, err := d.uniforms.AcquireSlot()
	if err != nil {
		return eris.Wrap(err, "failed to acquire uniforms")
	}
	*slot = frameUniforms{ViewProjection: viewProjection, Time: float32(d.elapsed)}
	// There is no GPU to wait on, the slot is consumed as soon as the frame is finished.
	defer func() {
		d.uniforms.Release(idx)
		d.uniforms.Next()
	}()

	d.pool.BeginFrame()
	uploaded := 0
	for _, item := range d.scene.DisplayList() {
		if _, err := d.pool.Append(viewProjection.Mul4(item.World)); err != nil {
			if !eris.Is(err, gpu.ErrAllocationFailed) {
				return eris.Wrap(err, "failed to upload display item")
			}
			d.report.AllocationFailures++
			d.logger.Warn().
				Int("buffer", d.pool.BufferIndex()).
				Int("uploaded", uploaded).
				Int("pool_size", d.pool.Size()).
				Msg("frame upload does not fit, dropping the rest of the frame")
			break
		}
		uploaded++
	}

	d.report.Uploaded += uploaded
	d.report.PeakBytes = max(d.report.PeakBytes, d.pool.FinishFrame())
	return nil
}

// writeReport prints the report as JSON, or logs a summary of it.
func writeReport(out io.Writer, r report, asJSON bool, logger zerolog.Logger) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return eris.Wrap(err, "failed to encode report")
		}
		return nil
	}

	logger.Info().
		Int("frames", r.Frames).
		Int("uploaded", r.Uploaded).
		Int("allocation_failures", r.AllocationFailures).
		Int("peak_bytes", r.PeakBytes).
		Int("entities", r.Store.Entities).
		Int("display_items", len(r.DisplayList)).
		Msg("run complete")
	for _, c := range r.Store.Components {
		logger.Info().
			Str("component_type", c.Name).
			Int("count", c.Count).
			Int("active_pages", c.ActivePages).
			Msg("storage")
	}
	return nil
}
