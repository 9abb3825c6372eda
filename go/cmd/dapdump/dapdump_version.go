// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package main

import (
	"fmt"

	"github.com/attic-labs/kingpin"

	"github.com/attic-labs/dap2/go/constants"
)

func versionCommand(app *kingpin.Application) (*kingpin.CmdClause, handler) {
	cmd := app.Command("version", "Display the tool and protocol versions.")

	return cmd, func(e *env) error {
		ver, err := e.cfg.ProtocolVersion()
		if err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "dapdump version: %s\n", constants.ToolVersion)
		fmt.Fprintf(e.stdout, "built from %s\n", constants.GitSHA)
		fmt.Fprintf(e.stdout, "protocol version: %s\n", ver)
		return nil
	}
}
