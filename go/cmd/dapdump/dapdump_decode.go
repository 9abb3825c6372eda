// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package main

import (
	"bufio"
	"io"
	"net/http"
	"os"

	"github.com/attic-labs/kingpin"
	"github.com/pkg/errors"

	"github.com/attic-labs/dap2/go/dap"
)

func decodeCommand(app *kingpin.Application) (*kingpin.CmdClause, handler) {
	cmd := app.Command("decode", "Read a data response into a described dataset and print its values.")
	args := addDatasetArgs(cmd)
	data := cmd.Arg("data", "data response to read, - for stdin").Required().String()
	encoding := cmd.Flag("encoding", "content encoding of a response without headers; overrides the configuration").String()
	headers := cmd.Flag("headers", "the response starts with MIME headers").Bool()

	return cmd, func(e *env) error {
		dd, err := args.load(e)
		if err != nil {
			return err
		}

		var r io.Reader = os.Stdin
		if *data != "-" {
			f, err := os.Open(*data)
			if err != nil {
				return errors.Wrapf(err, "opening %s", *data)
			}
			defer f.Close()
			r = f
		}

		ver, err := e.cfg.ProtocolVersion()
		if err != nil {
			return err
		}
		c, err := e.cfg.Compression()
		if err != nil {
			return err
		}
		enc := c.ContentEncoding()
		if *encoding != "" {
			enc = *encoding
		}

		if *headers || e.cfg.Headers() {
			resp, err := http.ReadResponse(bufio.NewReader(r), nil)
			if err != nil {
				return errors.Wrap(err, "reading response headers")
			}
			defer resp.Body.Close()

			if ver, err = dap.NegotiateServerVersion(resp.Header); err != nil {
				return err
			}
			enc = resp.Header.Get("Content-Encoding")
			r = resp.Body
		}

		body, err := dap.NewContentDecoder(r, enc)
		if err != nil {
			return err
		}
		defer body.Close()

		target := dap.FromDDS(dd.DDS, ver)
		if err := target.ReadDODS(e.ctx, body); err != nil {
			return err
		}
		return target.PrintVal(e.stdout)
	}
}
