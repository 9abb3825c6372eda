// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package dap

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintDDS(t *testing.T) {
	assert := assert.New(t)

	dds := newGridDDS(t)
	st := NewStructure("station")
	st.AddVariable(NewURL("href"))
	casts := newCasts()
	st.AddVariable(casts)
	dds.AddVariable(st)

	assert.Equal(`Dataset {
    Grid {
      ARRAY:
        Float64 sst[lat = 3][lon = 4];
      MAPS:
        Float64 lat[lat = 3];
        Float64 lon[lon = 4];
    } sst;
    Structure {
        Url href;
        Sequence {
            Int32 depth;
        } casts;
    } station;
} coads;
`, dds.String())
}

func TestPrintConstrainedGrid(t *testing.T) {
	assert := assert.New(t)

	dds := newGridDDS(t)
	g := dds.Var(0).(*Grid)
	print := func() string {
		var buf bytes.Buffer
		require.NoError(t, dds.PrintConstrained(&buf))
		return buf.String()
	}

	assert.Equal("Dataset {\n} coads;\n", print())

	g.SetProject(true)
	g.Array().SetProject(true)
	assert.Equal("Dataset {\n    Float64 sst[lat = 3][lon = 4];\n} coads;\n", print())

	g.Maps()[0].SetProject(true)
	assert.Equal(`Dataset {
    Structure {
        Float64 sst[lat = 3][lon = 4];
        Float64 lat[lat = 3];
    } sst;
} coads;
`, print())

	g.Maps()[1].SetProject(true)
	assert.True(g.ProjectionYieldsGrid(true))
	assert.Equal(3, g.ProjectedComponents(true))
	assert.Equal(dds.String(), print())

	require.NoError(t, g.Array().SetProjection(0, 0, 1, 1))
	assert.False(g.ProjectionYieldsGrid(true))
	require.NoError(t, g.Maps()[0].SetProjection(0, 0, 1, 1))
	assert.True(g.ProjectionYieldsGrid(true))
	assert.Contains(print(), "Float64 lat[lat = 2];")
}

func TestPrintVal(t *testing.T) {
	assert := assert.New(t)

	val := func(v BaseType, withDecl bool) string {
		var b strings.Builder
		require.NoError(t, PrintVal(&b, v, withDecl))
		return b.String()
	}

	x := NewInt32("x")
	x.SetValue(-5)
	assert.Equal("Int32 x = -5;\n", val(x, true))
	assert.Equal("-5", val(x, false))

	s := NewString("s")
	s.SetValue(`a "b"`)
	assert.Equal(`"a \"b\""`, val(s, false))

	m := NewArray("m", NewUInt16(""))
	m.AppendDim(2, "")
	m.AppendDim(2, "")
	m.PrimitiveVector().(*UInt16Vector).SetValues([]uint16{1, 2, 3, 4})
	assert.Equal("{{1, 2}, {3, 4}}", val(m, false))
	assert.Equal("UInt16 m[2][2] = {{1, 2}, {3, 4}};\n", val(m, true))

	st := NewStructure("st")
	st.AddVariable(x)
	st.AddVariable(s)
	assert.Equal(`{ -5, "a \"b\"" }`, val(st, false))

	assert.Equal("{ { 5 }, { 10 } }", val(newCasts(5, 10), false))

	g := newTestGrid(t, 3, 4)
	g.Array().PrimitiveVector().SetLength(12)
	for _, mp := range g.Maps() {
		mp.PrimitiveVector().SetLength(mp.DimensionsSize())
	}
	assert.Equal("{  ARRAY: {{0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}}  MAPS: {0, 0, 0}, {0, 0, 0, 0} }", val(g, false))
}

func TestDeclString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("Float32 wind%20speed;\n", DeclString(NewFloat32("wind speed")))
	a := NewArray("a", NewByte(""))
	a.AppendDim(4, "time")
	assert.Equal("Byte a[time = 4];\n", DeclString(a))
}

func TestPrintDAS(t *testing.T) {
	das, _, _ := newTestDAS(t)
	assert.Equal(t, `Attributes {
    sst {
        String units "K";
        Float64 scale_factor 0.01;
    }
    NC_GLOBAL {
        String title "Sea surface temperature";
        Alias sst_units .sst.units;
    }
    Alias temperature .sst;
}
`, das.String())

	dds := newAliasDDS(t)
	var buf bytes.Buffer
	require.NoError(t, dds.PrintDAS(&buf))
	assert.True(t, strings.HasPrefix(buf.String(), "Attributes {\n    ocean {\n"))
}
