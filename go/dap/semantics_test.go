// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package dap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGrid(t *testing.T, mapSizes ...int) *Grid {
	g := NewGrid("sst")
	require.NoError(t, g.AddVariable(newFloat64Array("sst", 3, 4), GridArray))
	for i, size := range mapSizes {
		require.NoError(t, g.AddVariable(newFloat64Array([]string{"lat", "lon", "time"}[i], size), GridMap))
	}
	return g
}

func TestGridSemantics(t *testing.T) {
	assert := assert.New(t)

	assert.NoError(CheckSemantics(newTestGrid(t, 3, 4), true))

	err := CheckSemantics(newTestGrid(t, 3, 5), true)
	assert.True(ErrBadSemantics.Is(err))
	assert.Contains(err.Error(), "map 1 'lon'")
	assert.Contains(err.Error(), "has size 5")
	assert.Contains(err.Error(), "has size 4")

	err = CheckSemantics(newTestGrid(t, 3), false)
	assert.True(ErrBadSemantics.Is(err))
	assert.Contains(err.Error(), "1 maps for the 2 dimensions")

	g := newTestGrid(t, 3)
	require.NoError(t, g.AddVariable(newFloat64Array("lon", 4, 2), GridMap))
	assert.True(ErrBadSemantics.Is(CheckSemantics(g, false)))

	assert.True(ErrBadSemantics.Is(CheckSemantics(NewGrid("empty"), false)))
	assert.True(ErrBadSemantics.Is(NewGrid("g").AddVariable(NewInt32("x"), GridMap)))
}

func TestArraySemantics(t *testing.T) {
	assert := assert.New(t)

	a := NewArray("a", NewInt32(""))
	err := CheckSemantics(a, false)
	assert.True(ErrBadSemantics.Is(err))
	assert.Contains(err.Error(), "no dimensions")

	a.AppendDim(2, "")
	assert.NoError(CheckSemantics(a, false))

	untyped := NewArray("u", nil)
	untyped.AppendDim(2, "")
	assert.True(ErrBadSemantics.Is(CheckSemantics(untyped, false)))
}

func TestConstructorSemantics(t *testing.T) {
	assert := assert.New(t)

	err := NewDDS("", nil).CheckSemantics(false)
	assert.True(ErrBadSemantics.Is(err))
	assert.Contains(err.Error(), "a dataset must have a name")

	s := NewStructure("s")
	s.AddVariable(NewInt32("x"))
	s.AddVariable(NewFloat32("x"))
	err = CheckSemantics(s, false)
	assert.True(ErrBadSemantics.Is(err))
	assert.Contains(err.Error(), "'x' is used more than once")

	inner := NewStructure("inner")
	inner.AddVariable(NewInt32(""))
	outer := NewStructure("outer")
	outer.AddVariable(inner)
	assert.NoError(CheckSemantics(outer, false))
	err = CheckSemantics(outer, true)
	assert.True(ErrBadSemantics.Is(err))
	assert.Contains(err.Error(), "every Int32 must have a name")
}

func TestWalkVariables(t *testing.T) {
	assert := assert.New(t)

	dds := newAliasDDS(t)
	pt := NewStructure("pt")
	pt.AddVariable(NewInt32("x"))
	pts := NewArray("pts", pt)
	pts.AppendDim(2, "")
	dds.AddVariable(pts)

	var seen []string
	WalkVariables(dds, func(v BaseType) bool {
		seen = append(seen, v.EncodedName())
		return false
	})
	assert.Equal([]string{"ocean", "sst", "station", "lat", "pts", "pt", "x"}, seen)

	seen = nil
	WalkVariables(dds, func(v BaseType) bool {
		seen = append(seen, v.EncodedName())
		return v.EncodedName() == "station"
	})
	assert.Equal([]string{"ocean", "sst", "station", "pts", "pt", "x"}, seen)

	assert.Equal(3, ElementCount(dds, false))
	assert.Equal(3, ElementCount(dds, true))
	assert.Equal(1, ElementCount(pts, true))
	assert.Equal(3, ElementCount(newTestGrid(t, 3, 4), false))
}

func TestKinds(t *testing.T) {
	assert := assert.New(t)

	k, ok := ParseKind("url")
	assert.True(ok)
	assert.Equal(URLKind, k)
	assert.Equal("Url", k.String())
	_, ok = ParseKind("Int64")
	assert.False(ok)

	assert.True(Float64Kind.IsFixedWidth())
	assert.False(StringKind.IsFixedWidth())
	assert.True(StringKind.IsScalar())
	assert.False(ArrayKind.IsScalar())
	assert.True(GridKind.IsConstructor())
	assert.False(ArrayKind.IsConstructor())

	for k := range kindNames {
		pk, ok := ParseKind(k.String())
		assert.True(ok, k.String())
		assert.Equal(k, pk)

		v, err := DefaultFactory{}.NewVariable(k, "v")
		assert.NoError(err)
		assert.Equal(k, v.Kind())
		assert.Equal("v", v.ClearName())
	}
	_, err := DefaultFactory{}.NewVariable(Kind(200), "v")
	assert.Error(err)
	assert.Equal("Unknown", Kind(200).String())
}
