// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package dap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDAS(t *testing.T) {
	assert := assert.New(t)

	dds := newAliasDDS(t)
	require.NoError(t, dds.ResolveAliases())

	das, err := dds.GetDAS()
	require.NoError(t, err)
	assert.Equal(`Attributes {
    ocean {
        String title "Ocean data";
    }
    sst {
        String units "K";
        Alias title .ocean.title;
    }
    station {
        Alias lat_attrs .station.lat;
        lat {
            String units "degrees_north";
            Alias sst_units .sst.units;
        }
    }
}
`, das.String())

	// the DAS is resolved against its own tables
	sst := das.TableN("sst")
	require.NotNil(t, sst)
	assert.Same(das.TableN("ocean").Attribute("title"), sst.Attribute("title").AliasedAttribute())
	lat := das.TableN("station").Attribute("lat").ContainerN()
	assert.Same(sst.Attribute("units"), lat.Attribute("sst_units").AliasedAttribute())

	// and shares nothing with the dataset
	require.NoError(t, sst.AppendAttribute("units", AttrString, "C", true))
	assert.Equal(1, dds.VariableN("sst").Attributes().Attribute("units").NumValues())
	assert.Same(dds, dds.VariableN("sst").Attributes().Attribute("title").AliasedVariable())
}

func TestGetDASLooseEndsName(t *testing.T) {
	assert := assert.New(t)

	dds := NewDDS("sst", nil)
	sst := NewFloat64("sst")
	require.NoError(t, sst.AppendAttribute("units", AttrString, "K", true))
	dds.AddVariable(sst)
	require.NoError(t, dds.Attributes().AppendAttribute("history", AttrString, "created", true))
	require.NoError(t, dds.Attributes().AddAlias("h", ".history"))

	das, err := dds.GetDAS()
	require.NoError(t, err)
	assert.Equal([]string{"sst_DatasetAttributes_0", "sst"}, das.Names())
	loose := das.TableN("sst_DatasetAttributes_0")
	require.NotNil(t, loose)
	assert.Equal(".sst_DatasetAttributes_0.history", loose.Attribute("h").AliasedTo())
	assert.Equal([]string{"created"}, loose.Attribute("h").Values())

	taken, err := dds.Attributes().AppendContainer("sst_DatasetAttributes_0")
	require.NoError(t, err)
	require.NoError(t, taken.AppendAttribute("x", AttrInt32, "1", true))
	das, err = dds.GetDAS()
	require.NoError(t, err)
	assert.True(das.HasAttribute("sst_DatasetAttributes_1"))
	assert.True(das.HasAttribute("sst_DatasetAttributes_0"))

	unnamed := NewDDS("", nil)
	require.NoError(t, unnamed.Attributes().AppendAttribute("history", AttrString, "created", true))
	das, err = unnamed.GetDAS()
	require.NoError(t, err)
	assert.Equal([]string{"DatasetAttributes"}, das.Names())
}

func TestGetDASFailure(t *testing.T) {
	dds := newAliasDDS(t)
	sst := dds.VariableN("sst")
	require.NoError(t, sst.Attributes().AddAlias("broken", ".sst.nothing"))

	_, err := dds.GetDAS()
	assert.True(t, ErrDASBuild.Is(err))
	assert.Contains(t, err.Error(), "cannot build DAS from this DDS")
}

func TestIngestDAS(t *testing.T) {
	assert := assert.New(t)

	dds := NewDDS("ocean", nil)
	sst := NewFloat64("sst")
	require.NoError(t, sst.AppendAttribute("units", AttrString, "C", true))
	dds.AddVariable(sst)
	station := NewStructure("station")
	lat := NewFloat32("lat")
	station.AddVariable(lat)
	dds.AddVariable(station)

	das := NewDAS()
	st, err := das.AppendContainer("sst")
	require.NoError(t, err)
	require.NoError(t, st.AppendAttribute("units", AttrString, "K", true))
	require.NoError(t, st.AddAlias("lat_units", ".station.lat.units"))
	stationTable, err := das.AppendContainer("station")
	require.NoError(t, err)
	require.NoError(t, stationTable.AppendAttribute("kind", AttrString, "buoy", true))
	latTable, err := stationTable.AppendContainer("lat")
	require.NoError(t, err)
	require.NoError(t, latTable.AppendAttribute("units", AttrString, "degrees_north", true))
	global, err := das.AppendContainer("NC_GLOBAL")
	require.NoError(t, err)
	require.NoError(t, global.AppendAttribute("title", AttrString, "Ocean", true))
	require.NoError(t, das.AppendAttribute("Conventions", AttrString, "COARDS", true))

	require.NoError(t, dds.IngestDAS(das))

	assert.Equal([]string{"C", "K"}, sst.Attributes().Attribute("units").Values())
	assert.Equal("buoy", station.Attributes().Attribute("kind").ValueN(0))
	assert.Equal("degrees_north", lat.Attributes().Attribute("units").ValueN(0))
	assert.Equal("Ocean", dds.Attributes().Attribute("NC_GLOBAL").ContainerN().Attribute("title").ValueN(0))
	assert.Equal("COARDS", dds.Attributes().Attribute("Conventions").ValueN(0))

	alias := sst.Attributes().Attribute("lat_units")
	assert.Same(lat.Attributes().Attribute("units"), alias.AliasedAttribute())
	assert.Same(lat, alias.AliasedVariable())

	// ingested attributes are copies
	require.NoError(t, latTable.AppendAttribute("units", AttrString, "x", true))
	assert.Equal(1, lat.Attributes().Attribute("units").NumValues())

	conflict := NewDAS()
	c, err := conflict.AppendContainer("sst")
	require.NoError(t, err)
	_, err = c.AppendContainer("units")
	require.NoError(t, err)
	assert.True(ErrAttributeExists.Is(dds.IngestDAS(conflict)))

	typed := NewDAS()
	c, err = typed.AppendContainer("sst")
	require.NoError(t, err)
	require.NoError(t, c.AppendAttribute("units", AttrInt32, "1", true))
	assert.True(ErrAttributeTypeConflict.Is(dds.IngestDAS(typed)))
}

func TestAttributeNameConflict(t *testing.T) {
	dds := newAliasDDS(t)
	assert.NoError(t, dds.CheckForAttributeNameConflict())

	station := dds.VariableN("station")
	require.NoError(t, station.Attributes().AppendAttribute("lat", AttrString, "x", true))
	err := dds.CheckForAttributeNameConflict()
	assert.True(t, ErrBadSemantics.Is(err))
	assert.Contains(t, err.Error(), "station.lat")

	dds = newAliasDDS(t)
	require.NoError(t, dds.Attributes().AppendAttribute("sst", AttrString, "x", true))
	assert.True(t, ErrBadSemantics.Is(dds.CheckForAttributeNameConflict()))
}

func TestDDSVariableLookup(t *testing.T) {
	assert := assert.New(t)

	dds := newAliasDDS(t)
	pt := NewStructure("pt")
	pt.AddVariable(NewInt32("x"))
	pts := NewArray("pts", pt)
	pts.AppendDim(2, "")
	dds.AddVariable(pts)

	lat, err := dds.Variable("lat")
	require.NoError(t, err)
	assert.Equal("station.lat", LongName(lat))
	assert.Same(lat, dds.VariableN("station.lat"))

	path, ok := dds.Search("x")
	require.True(t, ok)
	// arrays of structures are searched through their template
	require.Len(t, path, 2)
	assert.Same(pts, path[0])
	assert.Same(pt, path[1].Parent())
	assert.Equal("pts.pt.x", LongName(path[1]))

	_, err = dds.Variable("nothing")
	assert.True(ErrNoSuchVariable.Is(err))
	assert.Nil(dds.VariableN("station.nothing"))
	_, ok = dds.Search("nothing")
	assert.False(ok)

	require.NoError(t, dds.DelVariable("lat"))
	assert.Equal(0, dds.VariableN("station").(*Structure).VarCount())
	assert.Nil(lat.Parent())
	require.NoError(t, dds.DelVariable("sst"))
	assert.Equal(2, dds.VarCount())
	assert.Same(dds.Var(0), dds.VariableN("station"))
	assert.True(ErrNoSuchVariable.Is(dds.DelVariable("sst")))
}

func TestSequenceRows(t *testing.T) {
	assert := assert.New(t)

	casts := newCasts(5, 10)
	assert.Equal(2, casts.RowCount())
	assert.True(ErrBadSemantics.Is(casts.AddRow([]BaseType{NewInt32("depth"), NewInt32("extra")})))
	assert.True(ErrBadSemantics.Is(casts.AddRow([]BaseType{NewString("depth")})))

	require.NoError(t, casts.DelRow(0))
	v, err := casts.VariableInRow(0, "depth")
	require.NoError(t, err)
	assert.Equal(int32(10), v.(*Int32).Value())

	_, err = casts.Row(3)
	assert.True(ErrNoSuchVariable.Is(err))
	_, err = casts.VariableInRow(0, "missing")
	assert.True(ErrNoSuchVariable.Is(err))
	assert.True(ErrNoSuchVariable.Is(casts.DelRow(-1)))

	casts.ClearRows()
	assert.Equal(0, casts.RowCount())
	assert.Equal(1, casts.VarCount())
}

func TestBlobContentID(t *testing.T) {
	assert := assert.New(t)

	dds := NewDDS("d", nil)
	assert.Equal("", dds.BlobContentID())
	id := dds.NewBlobContentID()
	assert.True(strings.HasPrefix(id, "cid:"))
	assert.Equal(id, dds.BlobContentID())
	assert.NotEqual(id, NewDDS("e", nil).NewBlobContentID())
	assert.Equal(id, dds.Clone().BlobContentID())

	dds.SetBlobContentID("cid:fixed")
	assert.Equal("cid:fixed", dds.BlobContentID())
}

type namingFactory struct {
	DefaultFactory
	made int
}

func (f *namingFactory) NewVariable(k Kind, name string) (BaseType, error) {
	f.made++
	return f.DefaultFactory.NewVariable(k, strings.ToUpper(name))
}

func TestDDSFactoryShared(t *testing.T) {
	assert := assert.New(t)

	f := &namingFactory{}
	dds := NewDDS("d", f)
	v, err := dds.Factory().NewVariable(Int32Kind, "x")
	require.NoError(t, err)
	dds.AddVariable(v)

	c := dds.Clone()
	assert.Same(f, c.Factory())
	_, err = c.Factory().NewVariable(Int16Kind, "y")
	require.NoError(t, err)
	assert.Equal(2, f.made)
	assert.Equal("X", c.Var(0).ClearName())
}

func TestMarkProjected(t *testing.T) {
	assert := assert.New(t)

	dds := NewDDS("ocean", DefaultFactory{})
	station := NewStructure("station")
	lat := NewFloat32("lat")
	station.AddVariable(lat)
	station.AddVariable(NewFloat32("lon"))
	casts := newCasts(5, 10)
	station.AddVariable(casts)
	dds.AddVariable(station)
	other := NewInt32("other")
	dds.AddVariable(other)

	require.NoError(t, dds.MarkProjected("station.casts"))
	assert.True(station.IsProject())
	assert.True(casts.IsProject())
	assert.False(lat.IsProject())
	assert.False(other.IsProject())
	for i := 0; i < casts.RowCount(); i++ {
		row, err := casts.Row(i)
		require.NoError(t, err)
		for _, v := range row {
			assert.True(v.IsProject(), "row %d %s", i, v.EncodedName())
		}
	}

	SetProjected(station, false, false)
	assert.False(station.IsProject())
	assert.True(casts.IsProject())

	assert.True(ErrNoSuchVariable.Is(dds.MarkProjected("station.nothing")))
}
