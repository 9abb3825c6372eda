// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package main

import (
	"fmt"
	"os"

	"github.com/attic-labs/kingpin"
	humanize "github.com/dustin/go-humanize"

	"github.com/attic-labs/dap2/go/ncexport"
)

func netcdfCommand(app *kingpin.Application) (*kingpin.CmdClause, handler) {
	cmd := app.Command("netcdf", "Export the numeric variables of a described dataset to a netCDF classic file.")
	args := addDatasetArgs(cmd)
	output := cmd.Arg("output", "netCDF file to create").Required().String()

	return cmd, func(e *env) error {
		dd, err := args.load(e)
		if err != nil {
			return err
		}
		if err := ncexport.ExportFile(*output, dd.DDS); err != nil {
			return err
		}

		fi, err := os.Stat(*output)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "wrote %s to %s\n", humanize.Bytes(uint64(fi.Size())), *output)
		return nil
	}
}
