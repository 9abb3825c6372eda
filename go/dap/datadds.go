// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package dap

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// DataSentinel separates the declaration block of a data response from the
// binary values.
const DataSentinel = "Data:"

// DataDDS is a DDS whose variables carry values read from or written to the
// DAP2 binary form of the protocol version it was negotiated with.
type DataDDS struct {
	*DDS
	version ServerVersion
}

func NewDataDDS(name string, ver ServerVersion, factory BaseTypeFactory) *DataDDS {
	return &DataDDS{NewDDS(name, factory), ver}
}

// FromDDS binds dds to ver. The DDS is shared, not copied.
func FromDDS(dds *DDS, ver ServerVersion) *DataDDS {
	return &DataDDS{dds, ver}
}

func (dd *DataDDS) Version() ServerVersion {
	return dd.version
}

// ReadData reads the value of every top level variable from r, in declared
// order. A failure leaves the variables read so far populated.
func (dd *DataDDS) ReadData(ctx context.Context, r io.Reader) error {
	dr := newDataReader(ctx, r, dd.version)
	for _, v := range dd.vars {
		if err := dr.readVariable(v); err != nil {
			logrus.WithError(err).WithField("variable", v.EncodedName()).Debug("reading data failed")
			return err
		}
	}
	return nil
}

// ReadDODS reads a complete data response: the declaration block, which is
// discarded, followed by the values.
func (dd *DataDDS) ReadDODS(ctx context.Context, r io.Reader) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if strings.TrimRight(line, "\r\n") == DataSentinel {
			break
		}
		if err != nil {
			if err == io.EOF {
				return ErrDataRead.New("no '" + DataSentinel + "' line before end of stream")
			}
			return ErrDataRead.New(err.Error())
		}
	}
	return dd.ReadData(ctx, br)
}

// ExternalizeOptions controls the framing of Externalize's output.
type ExternalizeOptions struct {
	Compression Compression
	// Headers prepends the protocol's MIME headers.
	Headers bool
	// Constrained restricts the output to projected variables.
	Constrained bool
}

// Externalize writes a complete data response: optional headers, then the
// declaration block and the values, compressed if requested.
func (dd *DataDDS) Externalize(ctx context.Context, w io.Writer, opts ExternalizeOptions) error {
	if opts.Headers {
		if err := dd.writeHeaders(w, opts.Compression); err != nil {
			return err
		}
	}

	cw, err := NewCompressor(w, opts.Compression)
	if err != nil {
		return err
	}

	err = dd.externalize(ctx, cw, opts.Constrained)
	if cerr := cw.Close(); err == nil {
		err = cerr
	}
	return err
}

func (dd *DataDDS) externalize(ctx context.Context, w io.Writer, constrained bool) error {
	if err := printDDS(w, dd.DDS, constrained); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\n"+DataSentinel+"\n"); err != nil {
		return err
	}

	dw := newDataWriter(ctx, w, dd.version, constrained)
	for _, v := range dd.vars {
		if constrained && !v.IsProject() {
			continue
		}
		if err := dw.writeVariable(v); err != nil {
			return err
		}
	}
	return nil
}

func (dd *DataDDS) writeHeaders(w io.Writer, c Compression) error {
	ver := dd.version
	if ver.IsZero() {
		ver = DefaultServerVersion()
	}
	headers := []string{
		"HTTP/1.0 200 OK",
		fmt.Sprintf("%s: dods/%s", HeaderXDODSServer, ver),
		fmt.Sprintf("%s: %s", HeaderXDAP, ver),
		"Content-Type: application/octet-stream",
		"Content-Description: dods-data",
	}
	if c != NoCompression {
		headers = append(headers, "Content-Encoding: "+c.ContentEncoding())
	}
	for _, h := range headers {
		if _, err := io.WriteString(w, h+"\r\n"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}

// Clone returns a deep copy bound to the same protocol version.
func (dd *DataDDS) Clone() *DataDDS {
	return &DataDDS{Clone(dd.DDS), dd.version}
}
