// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package main

import (
	"github.com/attic-labs/kingpin"

	"github.com/attic-labs/dap2/go/dap"
	"github.com/attic-labs/dap2/go/dataset"
)

type datasetArgs struct {
	path    *string
	project *[]string
}

func addDatasetArgs(cmd *kingpin.CmdClause) datasetArgs {
	return datasetArgs{
		path:    cmd.Arg("description", "YAML dataset description").Required().ExistingFile(),
		project: cmd.Flag("project", "project a variable (dotted names reach into constructors); may be repeated").Short('p').Strings(),
	}
}

// load builds the described dataset. A description without a version takes the configured
// protocol version.
func (a datasetArgs) load(e *env) (*dap.DataDDS, error) {
	desc, err := dataset.Load(*a.path)
	if err != nil {
		return nil, err
	}
	if desc.Version == "" {
		ver, err := e.cfg.ProtocolVersion()
		if err != nil {
			return nil, err
		}
		desc.Version = ver.String()
	}

	dd, err := dataset.Build(desc)
	if err != nil {
		return nil, err
	}
	for _, name := range *a.project {
		if err := dd.MarkProjected(name); err != nil {
			return nil, err
		}
	}
	return dd, nil
}

func (a datasetArgs) projected() bool {
	return len(*a.project) > 0
}
