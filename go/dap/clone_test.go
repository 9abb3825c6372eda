// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package dap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFloat64Array(name string, dims ...int) *Array {
	a := NewArray(name, NewFloat64(""))
	for i, size := range dims {
		dimName := name
		if len(dims) > 1 {
			dimName = []string{"lat", "lon", "time"}[i]
		}
		a.AppendDim(size, dimName)
	}
	return a
}

// newGridDDS returns a dataset holding a 3x4 grid whose attributes are
// referred to by aliases both inside and outside the grid.
func newGridDDS(t *testing.T) *DDS {
	dds := NewDDS("coads", nil)

	g := NewGrid("sst")
	require.NoError(t, g.AddVariable(newFloat64Array("sst", 3, 4), GridArray))
	require.NoError(t, g.AddVariable(newFloat64Array("lat", 3), GridMap))
	require.NoError(t, g.AddVariable(newFloat64Array("lon", 4), GridMap))
	require.NoError(t, g.AppendAttribute("units", AttrString, "degC", true))
	dds.AddVariable(g)

	lat := g.Maps()[0]
	require.NoError(t, lat.AppendAttribute("units", AttrString, "degrees_north", true))
	require.NoError(t, lat.Attributes().AddAlias("sst_units", ".sst.units"))

	global, err := dds.Attributes().AppendContainer("NC_GLOBAL")
	require.NoError(t, err)
	require.NoError(t, global.AddAlias("grid_units", ".sst.units"))

	require.NoError(t, dds.CheckSemantics(true))
	require.NoError(t, dds.ResolveAliases())
	return dds
}

// collectNodes gathers every node owned by the graph below v.
func collectNodes(v BaseType, nodes map[Node]bool) {
	nodes[v] = true
	nodes[v.Attribute()] = true
	collectTable(v.Attributes(), nodes)
	switch v := v.(type) {
	case Constructor:
		for _, child := range v.Variables() {
			collectNodes(child, nodes)
		}
	case *Array:
		if tmpl := v.Template(); tmpl != nil {
			collectNodes(tmpl, nodes)
		}
	}
}

func collectTable(t *AttributeTable, nodes map[Node]bool) {
	nodes[t] = true
	for _, a := range t.Attributes() {
		nodes[a] = true
		if a.IsContainer() {
			collectTable(a.ContainerN(), nodes)
		}
	}
}

func TestCloneDDSFidelity(t *testing.T) {
	assert := assert.New(t)

	dds := newGridDDS(t)
	nodes := map[Node]bool{}
	collectNodes(dds, nodes)

	m := NewCloneMap(dds)
	c, ok := CloneDAG(m, dds).(*DDS)
	require.True(t, ok)

	// every node is cloned exactly once, to a node of its own
	assert.Equal(len(nodes), m.Len())
	copies := map[Node]bool{}
	for n := range nodes {
		cn, ok := m.Lookup(n)
		require.True(t, ok)
		assert.NotSame(n, cn)
		assert.False(copies[cn])
		copies[cn] = true
		assert.False(nodes[cn])
	}

	g := dds.Var(0).(*Grid)
	cg := c.Var(0).(*Grid)
	assert.Same(c, cg.Parent())
	assert.Same(cg, cg.Array().Parent())
	assert.Same(cg, cg.Maps()[1].Parent())
	assert.Same(cg.Array(), cg.Array().Template().Parent())
	assert.Same(cg, cg.Attributes().Parent())
	assert.Same(cg.Attributes(), cg.Attributes().Attribute("units").Parent())

	// alias bindings point into the copy
	units := cg.Attributes().Attribute("units")
	alias := cg.Maps()[0].Attributes().Attribute("sst_units")
	assert.Same(units, alias.AliasedAttribute())
	assert.Same(cg, alias.AliasedVariable())
	global := c.Attributes().Attribute("NC_GLOBAL").ContainerN()
	assert.Same(units, global.Attribute("grid_units").AliasedAttribute())

	assert.Equal(dds.Factory(), c.Factory())
	assert.Equal(dds.String(), c.String())

	// changes to the copy stay in the copy
	require.NoError(t, cg.AppendAttribute("units", AttrString, "K", true))
	cg.SetClearName("sst2")
	cg.Array().Dimensions()[0].Size = 10
	assert.Equal([]string{"degC"}, g.Attributes().Attribute("units").Values())
	assert.Equal("sst", g.ClearName())
	assert.Equal(3, g.Array().Dimensions()[0].Size)
}

func TestCloneSubtree(t *testing.T) {
	assert := assert.New(t)

	dds := newGridDDS(t)
	g := dds.Var(0).(*Grid)

	cg := Clone(g)
	assert.NotSame(g, cg)
	// the root keeps its parent
	assert.Same(dds, cg.Parent())
	assert.Same(cg.Attributes().Attribute("units"), cg.Maps()[0].Attributes().Attribute("sst_units").AliasedAttribute())

	// a reference leaving the cloned subtree is shared
	lat := g.Maps()[0]
	clat := Clone(lat)
	assert.Same(g, clat.Parent())
	assert.Same(g.Attributes().Attribute("units"), clat.Attributes().Attribute("sst_units").AliasedAttribute())
	assert.Same(g, clat.Attributes().Attribute("sst_units").AliasedVariable())
}

func TestCloneMapCopiesOnce(t *testing.T) {
	assert := assert.New(t)

	v := NewInt32("v")
	m := NewCloneMap(v)
	c := CloneDAG(m, v)
	assert.Same(c, CloneDAG(m, v))
	assert.Equal(1, m.Len())
	assert.Panics(func() { m.register(v, NewInt32("other")) })

	g := NewGrid("g")
	assert.Panics(func() { g.SetArray(nil) })
	assert.Panics(func() { g.AddMap(nil) })
}

func TestCloneValues(t *testing.T) {
	assert := assert.New(t)

	a := newFloat64Array("v", 3)
	a.SetLength(3)
	vals := a.PrimitiveVector().(*Float64Vector)
	vals.SetValues([]float64{1, 2, 3})

	c := Clone(a)
	cvals := c.PrimitiveVector().(*Float64Vector)
	assert.Equal([]float64{1, 2, 3}, cvals.Values())
	cvals.SetValue(0, 42)
	assert.Equal(1.0, vals.Value(0))

	s := NewSequence("obs")
	s.AddVariable(NewInt32("depth"))
	row := s.NewRow()
	row[0].(*Int32).SetValue(5)
	require.NoError(t, s.AddRow(row))

	cs := Clone(s)
	require.Equal(t, 1, cs.RowCount())
	crow, err := cs.Row(0)
	require.NoError(t, err)
	assert.Same(cs, crow[0].Parent())
	assert.Equal(int32(5), crow[0].(*Int32).Value())
	crow[0].(*Int32).SetValue(6)
	assert.Equal(int32(5), row[0].(*Int32).Value())
}

func TestDASClone(t *testing.T) {
	assert := assert.New(t)

	das, sst, global := newTestDAS(t)
	require.NoError(t, das.ResolveAliases())

	c := das.Clone()
	csst := c.TableN("sst")
	require.NotNil(t, csst)
	assert.NotSame(sst, csst)
	assert.Same(csst.Attribute("units"), c.TableN("NC_GLOBAL").Attribute("sst_units").AliasedAttribute())
	assert.Same(csst, c.TableN("temperature"))

	require.NoError(t, csst.AppendAttribute("units", AttrString, "C", true))
	assert.Equal(1, sst.Attribute("units").NumValues())
	assert.Equal(1, global.Attribute("sst_units").NumValues())
}
