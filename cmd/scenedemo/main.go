// Command scenedemo builds a grid of spinning meshes, runs it for a number of frames and uploads the
// resulting display list into a per-frame GPU memory pool. It prints a report of the run.
package main

import (
	"os"

	"github.com/argus-labs/scene-engine/pkg/telemetry"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger := telemetry.GetGlobalLogger("scenedemo")
		logger.Error().Err(err).Msg("scenedemo failed")
		os.Exit(1)
	}
}
