// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

// Command dapdump builds DAP2 datasets from YAML descriptions and prints, encodes, decodes
// and exports them.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/attic-labs/kingpin"
	"github.com/fatih/color"
	"github.com/pkg/profile"

	"github.com/attic-labs/dap2/go/config"
	"github.com/attic-labs/dap2/go/util/verbose"
)

// env is what a command handler runs with.
type env struct {
	ctx    context.Context
	stdout io.Writer
	stderr io.Writer
	cfg    *config.Config
}

type handler func(e *env) error
type command func(app *kingpin.Application) (*kingpin.CmdClause, handler)

var commands = []command{
	ddsCommand,
	dasCommand,
	encodeCommand,
	decodeCommand,
	netcdfCommand,
	versionCommand,
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := kingpin.New("dapdump", "Dapdump builds DAP2 datasets from YAML descriptions and prints, encodes, decodes or exports them.")
	app.HelpFlag.Short('h')
	configPath := app.Flag("config", "configuration file (default: the nearest "+config.ConfigFile+")").String()
	profileMode := app.Flag("profile", "write a cpu or mem profile").Enum("cpu", "mem")
	profileDir := app.Flag("profile-dir", "directory for --profile output (default: a temporary directory)").String()
	verbose.RegisterVerboseFlags(app)

	handlers := map[string]handler{}
	for _, c := range commands {
		cmd, h := c(app)
		handlers[cmd.FullCommand()] = h
	}

	input, err := app.Parse(args)
	if err != nil {
		fmt.Fprintln(stderr, color.RedString("dapdump: %s, try --help", err))
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, color.RedString("dapdump: %s", err))
		return 1
	}
	if err := cfg.ApplyLogging(); err != nil {
		fmt.Fprintln(stderr, color.RedString("dapdump: %s", err))
		return 1
	}

	if *profileMode != "" {
		defer startProfile(*profileMode, *profileDir).Stop()
	}

	e := &env{ctx: ctx, stdout: stdout, stderr: stderr, cfg: cfg}
	if err := handlers[input](e); err != nil {
		fmt.Fprintln(stderr, color.RedString("dapdump %s: %s", input, err))
		return 1
	}
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Find(wd)
	if err == config.ErrNoConfig {
		return config.Default(), nil
	}
	return cfg, err
}

func startProfile(mode, dir string) interface{ Stop() } {
	opts := []func(*profile.Profile){profile.Quiet, profile.NoShutdownHook}
	if dir != "" {
		opts = append(opts, profile.ProfilePath(dir))
	}
	switch mode {
	case "mem":
		opts = append(opts, profile.MemProfile)
	default:
		opts = append(opts, profile.CPUProfile)
	}
	return profile.Start(opts...)
}
