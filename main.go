/*
The heap inspector builds the resource heap of a scene file, records the
scene's commands into a virtual command buffer and replays them on the
trace device, printing the packed segments and every native call.
*/
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/rhi/engine/core"
	"github.com/spaghettifunk/rhi/testbed"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	scenePath := flag.String("scene", "testbed/testdata/forward.toml", "path to the TOML scene to inspect")
	watch := flag.Bool("watch", false, "inspect the scene again every time it changes")
	logLevel := flag.String("log-level", "", "overrides the configured log level")
	flag.Parse()

	cfg := core.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = core.LoadConfig(*configPath); err != nil {
			core.LogFatal("%s", err)
		}
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if err := cfg.Apply(); err != nil {
		core.LogFatal("%s", err)
	}

	inspector := testbed.NewInspector(cfg)
	inspect := func(scene *testbed.Scene, err error) {
		if err != nil {
			core.LogError("failed to load scene: %s", err)
			return
		}
		report, err := inspector.Inspect(scene)
		if err != nil {
			core.LogError("%s", err)
			return
		}
		report.Print(os.Stdout)
	}

	if !*watch {
		scene, err := testbed.LoadScene(*scenePath)
		if err != nil {
			core.LogFatal("failed to load scene: %s", err)
		}
		report, err := inspector.Inspect(scene)
		if err != nil {
			core.LogFatal("%s", err)
		}
		report.Print(os.Stdout)
		return
	}

	// signal channel to capture system calls
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	core.LogInfo("watching %s", *scenePath)
	if err := testbed.Watch(ctx, *scenePath, inspect); err != nil {
		core.LogFatal("%s", err)
	}
}
