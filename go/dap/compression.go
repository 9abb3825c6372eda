// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package dap

import (
	"io"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// Compression selects how a data response is compressed.
type Compression int

const (
	NoCompression Compression = iota
	// Deflate is zlib framed deflate, the Content-Encoding DAP2 servers send.
	Deflate
	Gzip
	Snappy
)

var compressionNames = []string{
	NoCompression: "none",
	Deflate:       "deflate",
	Gzip:          "gzip",
	Snappy:        "snappy",
}

func (c Compression) String() string {
	if c >= 0 && int(c) < len(compressionNames) {
		return compressionNames[c]
	}
	return "unknown"
}

// ContentEncoding is the value of the Content-Encoding header for c, or ""
// when there is none.
func (c Compression) ContentEncoding() string {
	if c == NoCompression {
		return ""
	}
	return c.String()
}

// ParseCompression maps a name or Content-Encoding to a Compression. The
// empty string and "identity" mean no compression.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "identity":
		return NoCompression, nil
	case "deflate":
		return Deflate, nil
	case "gzip", "x-gzip":
		return Gzip, nil
	case "snappy", "x-snappy-framed":
		return Snappy, nil
	}
	return NoCompression, ErrUnknownEncoding.New(s)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}

// NewCompressor wraps w so that what is written to it is compressed with c.
// Closing the result flushes it, but does not close w.
func NewCompressor(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case NoCompression:
		return nopWriteCloser{w}, nil
	case Deflate:
		return zlib.NewWriter(w), nil
	case Gzip:
		return gzip.NewWriter(w), nil
	case Snappy:
		return snappy.NewBufferedWriter(w), nil
	}
	return nil, ErrUnknownEncoding.New(c.String())
}

// NewContentDecoder wraps r to undo the named Content-Encoding.
func NewContentDecoder(r io.Reader, encoding string) (io.ReadCloser, error) {
	c, err := ParseCompression(encoding)
	if err != nil {
		return nil, err
	}
	switch c {
	case Deflate:
		return zlib.NewReader(r)
	case Gzip:
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return gr, nil
	case Snappy:
		return io.NopCloser(snappy.NewReader(r)), nil
	}
	return io.NopCloser(r), nil
}
