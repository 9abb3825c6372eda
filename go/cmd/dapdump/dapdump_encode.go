// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/attic-labs/kingpin"
	humanize "github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/attic-labs/dap2/go/dap"
)

func encodeCommand(app *kingpin.Application) (*kingpin.CmdClause, handler) {
	cmd := app.Command("encode", "Write the data response (DDS, Data: line and XDR values) of a described dataset.")
	args := addDatasetArgs(cmd)
	output := cmd.Flag("output", "file to write, stdout by default").Short('o').String()
	compression := cmd.Flag("compression", "none, deflate, gzip or snappy; overrides the configuration").Enum("none", "deflate", "gzip", "snappy")
	headers := cmd.Flag("headers", "precede the response with its MIME headers").Bool()

	return cmd, func(e *env) error {
		opts, err := e.cfg.ExternalizeOptions()
		if err != nil {
			return err
		}
		if *compression != "" {
			if opts.Compression, err = dap.ParseCompression(*compression); err != nil {
				return err
			}
		}
		opts.Headers = opts.Headers || *headers
		opts.Constrained = opts.Constrained || args.projected()

		dd, err := args.load(e)
		if err != nil {
			return err
		}

		if *output == "" {
			if f, ok := e.stdout.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
				return errors.New("refusing to write binary data to a terminal, use --output")
			}
			return dd.Externalize(e.ctx, e.stdout, opts)
		}

		n, err := writeFile(*output, func(w io.Writer) error {
			return dd.Externalize(e.ctx, w, opts)
		})
		if err != nil {
			return err
		}

		logrus.WithFields(logrus.Fields{
			"compression": opts.Compression,
			"version":     dd.Version(),
		}).Debug("encoded dataset")
		fmt.Fprintf(e.stdout, "wrote %s to %s\n", humanize.Bytes(uint64(n)), *output)
		return nil
	}
}

// writeFile creates path, fills it with write and returns its final size.
func writeFile(path string, write func(w io.Writer) error) (n int64, err error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, errors.Wrapf(err, "creating %s", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "closing %s", path)
		}
	}()

	if err := write(f); err != nil {
		return 0, err
	}
	fi, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}
