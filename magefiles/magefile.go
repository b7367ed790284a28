package main

import (
	"os"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	demoPkg = "./cmd/scenedemo"
	outdir  = "build"
)

var version = "0.0.0"

// Test runs the unit tests with the race detector and dev assertions enabled.
func Test() error {
	LogGreen("Running tests...")
	return goCmd("test", "-race", "-count=1", "./...")
}

// TestRelease runs the unit tests with assertions compiled out.
func TestRelease() error {
	LogGreen("Running tests (release tags)...")
	return goCmd("test", "-tags=release", "-count=1", "./...")
}

// Bench runs the storage benchmarks.
func Bench() error {
	LogGreen("Running benchmarks...")
	return goCmd("test", "-run=^$", "-bench=.", "-benchmem", "./pkg/ecs/...")
}

// Lint runs golangci-lint over the module.
func Lint() error {
	LogGreen("Running linter...")
	return sh.RunV("golangci-lint", "run", "./...")
}

// Build builds the demo binary with assertions compiled out.
func Build() error {
	mg.Deps(Test)
	LogGreen("Building scenedemo...", "version", version, "commit", commit())

	args := []string{
		"build",
		"-tags=release",
		generateLinkerFlags(),
		"-o", outdir + "/scenedemo",
		demoPkg,
	}
	return goCmd(args...)
}

// Demo runs the demo with the given number of frames.
func Demo(frames string) error {
	LogGreen("Running scenedemo...", "frames", frames)
	return goCmd("run", demoPkg, "run", "--frames", frames)
}

// Clean removes build artifacts and profiles.
func Clean() error {
	LogYellow("Cleaning...")
	if err := os.RemoveAll(outdir); err != nil {
		LogRed("failed to remove build directory", "err", err)
		return err
	}
	return nil
}

// generateLinkerFlags returns the linker flags used when building the binary.
func generateLinkerFlags() string {
	flags := []string{
		"-X", "main.version=" + version,
		"-X", "main.commit=" + commit(),
		"-w", "-s",
	}
	return "-ldflags=" + strings.Join(flags, " ")
}

func commit() string {
	out, err := sh.Output("git", "log", "-1", "--format=%H")
	if err != nil {
		return "unknown"
	}
	return out
}
