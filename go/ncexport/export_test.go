// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package ncexport

import (
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/cdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attic-labs/dap2/go/dap"
	"github.com/attic-labs/dap2/go/dataset"
)

// memFile is an in-memory cdf.ReaderWriterAt.
type memFile struct {
	buf []byte
}

func (m *memFile) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *memFile) WriteAt(p []byte, off int64) (int, error) {
	if end := int(off) + len(p); end > len(m.buf) {
		m.buf = append(m.buf, make([]byte, end-len(m.buf))...)
	}
	copy(m.buf[off:], p)
	return len(p), nil
}

const coadsYAML = `
name: coads
attributes:
  - {name: title, values: [COADS climatology]}
  - name: NC_GLOBAL
    attributes:
      - {name: history, values: [made up]}
variables:
  - name: sst
    type: Grid
    attributes:
      - {name: units, values: [K]}
      - {name: valid_range, type: Int16, values: [-100, 100]}
      - {name: long_units, alias: .sst.units}
    array:
      name: sst
      type: Array
      of: {type: Int16}
      dims: [{name: lat, size: 2}, {name: lon, size: 3}]
      value: [1, 2, 3, 4, 5, -6]
    maps:
      - {name: lat, type: Array, of: {type: Float64}, dims: [{name: lat, size: 2}], value: [-10.5, 10.5]}
      - {name: lon, type: Array, of: {type: Float64}, dims: [{name: lon, size: 3}], value: [0, 120, 240]}
  - name: counts
    type: Array
    of: {type: UInt16}
    dims: [{size: 2}]
    value: [1, 65535]
  - name: station
    type: Structure
    variables:
      - {name: id, type: UInt32, value: 4000000000}
      - {name: elev, type: Float32, value: 12.5}
      - {name: label, type: String, value: harbour}
  - name: casts
    type: Sequence
    variables:
      - {name: depth, type: Float32}
  - name: flags
    type: Array
    of: {type: Byte}
    dims: [{name: lat, size: 2}]
`

func exportCoads(t *testing.T) *cdf.File {
	desc, err := dataset.Parse([]byte(coadsYAML))
	require.NoError(t, err)
	dd, err := dataset.Build(desc)
	require.NoError(t, err)

	mf := &memFile{}
	require.NoError(t, Export(mf, dd.DDS))

	f, err := cdf.Open(mf)
	require.NoError(t, err)
	return f
}

func readAll(t *testing.T, f *cdf.File, name string, n int) interface{} {
	r := f.Reader(name, nil, nil)
	require.NotNil(t, r, name)
	buf := r.Zero(n)
	_, err := r.Read(buf)
	if err != io.EOF {
		require.NoError(t, err)
	}
	return buf
}

func TestExportLayout(t *testing.T) {
	assert := assert.New(t)
	f := exportCoads(t)
	h := f.Header

	assert.Equal([]string{"sst", "lat", "lon", "counts", "station.id", "station.elev", "flags"}, h.Variables())
	assert.Equal([]string{"lat", "lon"}, h.Dimensions("sst"))
	assert.Equal([]int{2, 3}, h.Lengths("sst"))
	assert.Equal([]string{"counts_dim0"}, h.Dimensions("counts"))
	assert.Equal([]string{"lat"}, h.Dimensions("flags"))
	assert.Empty(h.Dimensions("station.id"))
}

func TestExportValues(t *testing.T) {
	assert := assert.New(t)
	f := exportCoads(t)

	assert.Equal([]int16{1, 2, 3, 4, 5, -6}, readAll(t, f, "sst", 6))
	assert.Equal([]float64{0, 120, 240}, readAll(t, f, "lon", 3))
	assert.Equal([]int16{1, -1}, readAll(t, f, "counts", 2))
	assert.Equal([]int32{-294967296}, readAll(t, f, "station.id", 1))
	assert.Equal([]float32{12.5}, readAll(t, f, "station.elev", 1))
}

func TestExportAttributes(t *testing.T) {
	assert := assert.New(t)
	h := exportCoads(t).Header

	assert.Equal("COADS climatology", h.GetAttribute("", "title"))
	assert.Equal("made up", h.GetAttribute("", "NC_GLOBAL.history"))

	assert.Equal("K", h.GetAttribute("sst", "units"))
	assert.Equal("K", h.GetAttribute("sst", "long_units"))
	assert.Equal([]int16{-100, 100}, h.GetAttribute("sst", "valid_range"))

	assert.Equal("true", h.GetAttribute("counts", UnsignedAttribute))
	assert.Equal("true", h.GetAttribute("station.id", UnsignedAttribute))
	assert.Equal("true", h.GetAttribute("flags", UnsignedAttribute))
	assert.Nil(h.GetAttribute("sst", UnsignedAttribute))
}

func TestExportSharedMaps(t *testing.T) {
	grid := func(name string) *dap.Grid {
		g := dap.NewGrid(name)
		a := dap.NewArray(name, dap.NewFloat32(""))
		a.AppendDim(2, "x")
		g.SetArray(a)
		m := dap.NewArray("x", dap.NewFloat64(""))
		m.AppendDim(2, "x")
		g.AddMap(m)
		return g
	}

	dds := dap.NewDDS("pair", dap.DefaultFactory{})
	dds.AddVariable(grid("u"))
	dds.AddVariable(grid("v"))

	mf := &memFile{}
	require.NoError(t, Export(mf, dds))
	f, err := cdf.Open(mf)
	require.NoError(t, err)
	assert.Equal(t, []string{"u", "x", "v"}, f.Header.Variables())
}

func TestExportConflictingDimensions(t *testing.T) {
	a := dap.NewArray("a", dap.NewInt32(""))
	a.AppendDim(2, "n")
	b := dap.NewArray("b", dap.NewInt32(""))
	b.AppendDim(3, "n")

	dds := dap.NewDDS("dims", dap.DefaultFactory{})
	dds.AddVariable(a)
	dds.AddVariable(b)

	mf := &memFile{}
	require.NoError(t, Export(mf, dds))
	f, err := cdf.Open(mf)
	require.NoError(t, err)
	assert.Equal(t, []string{"n"}, f.Header.Dimensions("a"))
	assert.Equal(t, []string{"b_dim0_1"}, f.Header.Dimensions("b"))
	assert.Equal(t, []int{3}, f.Header.Lengths("b"))
}

func TestExportLengthMismatch(t *testing.T) {
	a := dap.NewArray("a", dap.NewInt32(""))
	a.AppendDim(3, "n")
	a.SetLength(2)

	dds := dap.NewDDS("bad", dap.DefaultFactory{})
	dds.AddVariable(a)

	err := Export(&memFile{}, dds)
	assert.True(t, ErrExport.Is(err))
}

func TestExportFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "ncexport")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	x := dap.NewFloat64("x")
	x.SetValue(2.5)
	dds := dap.NewDDS("one", dap.DefaultFactory{})
	dds.AddVariable(x)

	path := filepath.Join(dir, "one.nc")
	require.NoError(t, ExportFile(path, dds))

	ff, err := os.Open(path)
	require.NoError(t, err)
	defer ff.Close()
	f, err := cdf.Open(ff)
	require.NoError(t, err)
	assert.Equal(t, []float64{2.5}, readAll(t, f, "x", 1))
}

func TestAttributeValue(t *testing.T) {
	assert := assert.New(t)

	v, err := attributeValue(dap.AttrUInt32, []string{"4294967295"})
	require.NoError(t, err)
	assert.Equal([]int32{-1}, v)

	v, err = attributeValue(dap.AttrFloat64, []string{"nan"})
	require.NoError(t, err)
	assert.Len(v, 1)

	v, err = attributeValue(dap.AttrString, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal("a\nb", v)

	v, err = attributeValue(dap.AttrInt16, nil)
	assert.NoError(err)
	assert.Nil(v)

	_, err = attributeValue(dap.AttrByte, []string{"300"})
	assert.Error(err)
}
