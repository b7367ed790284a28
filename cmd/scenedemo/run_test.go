package main

import (
	"bytes"
	"testing"

	"github.com/argus-labs/scene-engine/pkg/ecs"
	"github.com/argus-labs/scene-engine/pkg/scene"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() demoConfig {
	return demoConfig{Frames: 10, Rows: 3, Cols: 5, Timestep: 0.01, PoolSize: 128_000}
}

func TestRun(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	r, err := run(cfg, zerolog.Nop())
	require.NoError(t, err)

	cells := cfg.Rows * cfg.Cols
	assert.Equal(t, cfg.Frames, r.Frames)
	assert.Equal(t, []string{"spin", "render", "upload"}, r.Schedule)
	assert.Equal(t, cfg.Frames*cells, r.Uploaded)
	assert.Equal(t, 0, r.AllocationFailures)
	assert.Equal(t, cells*64, r.PeakBytes)
	assert.Len(t, r.DisplayList, cells)

	// Root, camera, rows and cells.
	assert.Equal(t, 2+cfg.Rows+cells, r.Store.Entities)
	names := make([]string, 0, len(r.Store.Components))
	for _, c := range r.Store.Components {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"camera", "children", "mesh", "spin", "transform"}, names)
}

func TestRun_SpinAccumulates(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Rows, cfg.Cols = 1, 1
	d, err := newDemo(cfg, zerolog.Nop())
	require.NoError(t, err)

	var cell ecs.EntityID
	ecs.Each(d.scene.Store(), func(eid ecs.EntityID, _ *Spin) { cell = eid })
	before, ok := ecs.Get[scene.Transform](d.scene.Store(), cell)
	require.True(t, ok)

	require.NoError(t, d.scheduler.Run(ecs.StepInfo{Timestep: 1}))

	after, _ := ecs.Get[scene.Transform](d.scene.Store(), cell)
	assert.NotEqual(t, before.Matrix, after.Matrix)
	// The translation part is unchanged by a rotation about the local axis.
	assert.Equal(t, before.Matrix.Col(3), after.Matrix.Col(3))
}

func TestRun_PoolTooSmall(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.PoolSize = 3 * 64
	r, err := run(cfg, zerolog.Nop())
	require.NoError(t, err, "a full pool drops the frame, it doesn't fail the run")

	assert.Equal(t, cfg.Frames, r.AllocationFailures)
	assert.Equal(t, cfg.Frames*3, r.Uploaded)
	assert.Equal(t, 3*64, r.PeakBytes)
}

func TestRunCmd_JSON(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"run", "--frames", "3", "--rows", "2", "--cols", "2", "--json"})
	require.NoError(t, cmd.Execute())

	var r report
	require.NoError(t, json.Unmarshal(out.Bytes(), &r))
	assert.Equal(t, 3, r.Frames)
	assert.Len(t, r.DisplayList, 4)
	assert.Equal(t, 12, r.Uploaded)
	assert.NotEmpty(t, r.Store.StoreID.String())
}

func TestRunCmd_InvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "too many rows", args: []string{"run", "--rows", "16"}},
		{name: "too many cols", args: []string{"run", "--cols", "17"}},
		{name: "no frames", args: []string{"run", "--frames", "0"}},
		{name: "bad profile", args: []string{"run", "--frames", "1", "--profile", "gpu"}},
		{name: "unexpected arg", args: []string{"run", "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCmd()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(tt.args)
			require.Error(t, cmd.Execute())
		})
	}
}
