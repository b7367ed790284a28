package main

import (
	"github.com/pkg/profile"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

const (
	profileCPU = "cpu"
	profileMem = "mem"
)

// Set by the linker in release builds.
var (
	version = "dev"
	commit  = "unknown"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "scenedemo",
		Short:         "Run a scene through the entity-component store and report on it",
		Version:       version + " (" + commit + ")",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.AddCommand(newRunCmd())
	return rootCmd
}

func newRunCmd() *cobra.Command {
	var (
		flags       demoConfig
		jsonOutput  bool
		profileMode string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build the grid scene and run it for a number of frames",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadDemoConfig()
			if err != nil {
				return err
			}
			applyFlags(cmd, &cfg, flags)
			if err := cfg.validate(); err != nil {
				return eris.Wrap(err, "invalid demo config")
			}

			switch profileMode {
			case "":
			case profileCPU:
				defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
			case profileMem:
				defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
			default:
				return eris.Errorf("unknown profile mode %q (must be %q or %q)", profileMode, profileCPU, profileMem)
			}

			logger, err := newLogger()
			if err != nil {
				return err
			}

			report, err := run(cfg, logger)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), report, jsonOutput, logger)
		},
	}

	cmd.Flags().IntVar(&flags.Frames, "frames", 0, "number of frames to run")
	cmd.Flags().IntVar(&flags.Rows, "rows", 0, "number of rows in the grid")
	cmd.Flags().IntVar(&flags.Cols, "cols", 0, "number of meshes per row")
	cmd.Flags().Float64Var(&flags.Timestep, "timestep", 0, "seconds simulated per frame")
	cmd.Flags().IntVar(&flags.PoolSize, "pool-size", 0, "size of each upload buffer in bytes")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the report as JSON")
	cmd.Flags().StringVar(&profileMode, "profile", "", "write a profile of the run (cpu or mem)")

	return cmd
}

// applyFlags overrides cfg with every flag that was set on the command line.
func applyFlags(cmd *cobra.Command, cfg *demoConfig, flags demoConfig) {
	changed := cmd.Flags().Changed
	if changed("frames") {
		cfg.Frames = flags.Frames
	}
	if changed("rows") {
		cfg.Rows = flags.Rows
	}
	if changed("cols") {
		cfg.Cols = flags.Cols
	}
	if changed("timestep") {
		cfg.Timestep = flags.Timestep
	}
	if changed("pool-size") {
		cfg.PoolSize = flags.PoolSize
	}
}
