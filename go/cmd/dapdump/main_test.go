// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package main

import (
	"bytes"
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const stationsYAML = `
name: stations
attributes:
  - {name: title, values: [Tide gauges]}
variables:
  - name: level
    type: Array
    of: {type: Float64}
    dims: [{name: time, size: 3}]
    attributes:
      - {name: units, values: [m]}
    value: [0.5, 1.25, -0.75]
  - name: site
    type: Structure
    variables:
      - {name: id, type: Int32, value: 17}
      - {name: name, type: String, value: pier}
  - name: casts
    type: Sequence
    variables:
      - {name: depth, type: Int32}
    value: [[5], [10]]
`

type DapdumpSuite struct {
	suite.Suite
	dir  string
	desc string
	cfg  string
}

func TestDapdump(t *testing.T) {
	suite.Run(t, &DapdumpSuite{})
}

func (s *DapdumpSuite) SetupTest() {
	dir, err := ioutil.TempDir("", "dapdump")
	s.NoError(err)
	s.dir = dir
	s.desc = s.write("stations.yaml", stationsYAML)
	s.cfg = s.write("config.yaml", "log_level: error\n")
}

func (s *DapdumpSuite) TearDownTest() {
	os.RemoveAll(s.dir)
}

func (s *DapdumpSuite) write(name, content string) string {
	path := filepath.Join(s.dir, name)
	s.NoError(ioutil.WriteFile(path, []byte(content), 0644))
	return path
}

func (s *DapdumpSuite) run(args ...string) (string, string, int) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	code := run(context.Background(), append([]string{"--config", s.cfg}, args...), stdout, stderr)
	return stdout.String(), stderr.String(), code
}

func (s *DapdumpSuite) TestDDS() {
	out, _, code := s.run("dds", s.desc)
	s.Equal(0, code)
	s.Contains(out, "Dataset {\n")
	s.Contains(out, "    Float64 level[time = 3];\n")
	s.Contains(out, "} stations;\n")
}

func (s *DapdumpSuite) TestDDSProjected() {
	out, _, code := s.run("dds", "-p", "site.id", s.desc)
	s.Equal(0, code)
	s.Contains(out, "Int32 id;")
	s.NotContains(out, "level")
	s.NotContains(out, "String name;")
}

func (s *DapdumpSuite) TestDAS() {
	out, _, code := s.run("das", s.desc)
	s.Equal(0, code)
	s.Contains(out, "Attributes {\n")
	s.Contains(out, `String units "m";`)
	s.Contains(out, `String title "Tide gauges";`)
}

func (s *DapdumpSuite) TestEncodeDecode() {
	for _, compression := range []string{"none", "deflate", "gzip", "snappy"} {
		data := filepath.Join(s.dir, "stations-"+compression+".dods")

		out, stderr, code := s.run("encode", "--headers", "--compression", compression, "-o", data, s.desc)
		s.Equal(0, code, stderr)
		s.Contains(out, "wrote ")

		out, stderr, code = s.run("decode", "--headers", s.desc, data)
		s.Equal(0, code, stderr)
		s.Contains(out, "Float64 level[time = 3] = {0.5, 1.25, -0.75};\n", compression)
		s.Contains(out, "= { { 5 }, { 10 } };\n", compression)
	}
}

func (s *DapdumpSuite) TestDecodeWithoutHeaders() {
	data := filepath.Join(s.dir, "plain.dods")
	_, stderr, code := s.run("encode", "--compression", "gzip", "-o", data, s.desc)
	s.Equal(0, code, stderr)

	out, stderr, code := s.run("decode", "--encoding", "gzip", s.desc, data)
	s.Equal(0, code, stderr)
	s.Contains(out, `{ 17, "pier" }`)

	_, stderr, code = s.run("decode", s.desc, data)
	s.Equal(1, code)
	s.Contains(stderr, "dapdump decode:")
}

func (s *DapdumpSuite) TestEncodeToWriter() {
	out, stderr, code := s.run("encode", s.desc)
	s.Equal(0, code, stderr)
	s.Contains(out, "} stations;\n\nData:\n")
}

func (s *DapdumpSuite) TestNetCDF() {
	nc := filepath.Join(s.dir, "stations.nc")
	out, stderr, code := s.run("netcdf", s.desc, nc)
	s.Equal(0, code, stderr)
	s.Contains(out, "wrote ")

	fi, err := os.Stat(nc)
	s.NoError(err)
	s.True(fi.Size() > 0)
}

func (s *DapdumpSuite) TestVersion() {
	out, _, code := s.run("version")
	s.Equal(0, code)
	s.Contains(out, "protocol version: 3.2\n")

	cfg := s.write("old.yaml", "protocol_version: 2.14\n")
	stdout := &bytes.Buffer{}
	code = run(context.Background(), []string{"--config", cfg, "version"}, stdout, &bytes.Buffer{})
	s.Equal(0, code)
	s.Contains(stdout.String(), "protocol version: 2.14\n")
}

func (s *DapdumpSuite) TestProfile() {
	dir := filepath.Join(s.dir, "prof")
	s.NoError(os.Mkdir(dir, 0755))
	_, stderr, code := s.run("--profile", "mem", "--profile-dir", dir, "dds", s.desc)
	s.Equal(0, code, stderr)
	s.FileExists(filepath.Join(dir, "mem.pprof"))
}

func (s *DapdumpSuite) TestErrors() {
	_, stderr, code := s.run("bogus")
	s.Equal(2, code)
	s.NotEmpty(stderr)

	bad := s.write("bad.yaml", "name: bad\nvariables: [{name: a, type: Float128}]\n")
	_, stderr, code = s.run("dds", bad)
	s.Equal(1, code)
	s.Contains(stderr, "Float128")

	_, stderr, code = s.run("dds", "-p", "nothing", s.desc)
	s.Equal(1, code)
	s.Contains(stderr, "nothing")
}

func TestLoadConfigExplicit(t *testing.T) {
	dir, err := ioutil.TempDir("", "dapdump")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte("headers: true\n"), 0644))
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Headers())

	_, err = loadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
