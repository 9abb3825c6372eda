// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package main

import (
	"github.com/attic-labs/kingpin"
)

func ddsCommand(app *kingpin.Application) (*kingpin.CmdClause, handler) {
	cmd := app.Command("dds", "Print the declaration (DDS) of a described dataset.")
	args := addDatasetArgs(cmd)

	return cmd, func(e *env) error {
		dd, err := args.load(e)
		if err != nil {
			return err
		}
		if args.projected() || e.cfg.Constrained() {
			return dd.PrintConstrained(e.stdout)
		}
		return dd.Print(e.stdout)
	}
}

func dasCommand(app *kingpin.Application) (*kingpin.CmdClause, handler) {
	cmd := app.Command("das", "Print the attributes (DAS) of a described dataset.")
	args := addDatasetArgs(cmd)

	return cmd, func(e *env) error {
		dd, err := args.load(e)
		if err != nil {
			return err
		}
		return dd.PrintDAS(e.stdout)
	}
}
