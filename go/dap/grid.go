// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package dap

import "github.com/attic-labs/dap2/go/d"

// GridPart selects where AddVariable puts an array in a Grid.
type GridPart int

const (
	GridArray GridPart = iota
	GridMap
)

// Grid is an array with one map array of coordinates per dimension.
type Grid struct {
	baseType
	array *Array
	maps  []*Array
}

func NewGrid(name string) *Grid {
	g := &Grid{}
	g.init(g, name)
	return g
}

func (g *Grid) Kind() Kind       { return GridKind }
func (g *Grid) TypeName() string { return GridKind.String() }

// AddVariable sets the array part or appends a map. Only Arrays can be parts
// of a Grid.
func (g *Grid) AddVariable(v BaseType, part GridPart) error {
	a, ok := v.(*Array)
	if !ok {
		return ErrBadSemantics.New("grid '" + g.EncodedName() + "' can only hold arrays, not " + v.TypeName() + " '" + v.EncodedName() + "'")
	}
	if part == GridArray {
		g.SetArray(a)
	} else {
		g.AddMap(a)
	}
	return nil
}

func (g *Grid) SetArray(a *Array) {
	d.PanicIfTrue(a == nil)
	a.SetParent(g)
	g.array = a
}

func (g *Grid) AddMap(a *Array) {
	d.PanicIfTrue(a == nil)
	a.SetParent(g)
	g.maps = append(g.maps, a)
}

func (g *Grid) Array() *Array {
	return g.array
}

func (g *Grid) Maps() []*Array {
	return g.maps
}

// Variables returns the array part followed by the maps.
func (g *Grid) Variables() []BaseType {
	vars := make([]BaseType, 0, len(g.maps)+1)
	if g.array != nil {
		vars = append(vars, g.array)
	}
	for _, m := range g.maps {
		vars = append(vars, m)
	}
	return vars
}

func (g *Grid) Variable(name string) (BaseType, error) {
	return findVariable(g, name)
}

func (g *Grid) VarCount() int {
	n := len(g.maps)
	if g.array != nil {
		n++
	}
	return n
}

// Var returns the array part for 0 and map i-1 otherwise.
func (g *Grid) Var(i int) BaseType {
	return g.Variables()[i]
}

// ProjectedComponents counts the parts of the grid that are projected, or
// all of them when constrained is false.
func (g *Grid) ProjectedComponents(constrained bool) int {
	n := 0
	if g.array != nil && (!constrained || g.array.IsProject()) {
		n++
	}
	for _, m := range g.maps {
		if !constrained || m.IsProject() {
			n++
		}
	}
	return n
}

// ProjectionYieldsGrid reports whether the projected parts still form a
// Grid: the array and every map are projected, each map with the same
// hyperslab as its dimension.
func (g *Grid) ProjectionYieldsGrid(constrained bool) bool {
	if !constrained {
		return true
	}
	if g.array == nil || !g.array.IsProject() || len(g.maps) != len(g.array.dims) {
		return false
	}
	for i, m := range g.maps {
		if !m.IsProject() || len(m.dims) != 1 {
			return false
		}
		if !m.dims[0].sameProjection(g.array.dims[i]) {
			return false
		}
	}
	return true
}

func (g *Grid) cloneDAG(m *CloneMap) Node {
	c := &Grid{}
	m.register(g, c)
	g.cloneBase(m, g, &c.baseType)
	if g.array != nil {
		c.array = cloneNode(m, g.array)
	}
	if g.maps != nil {
		c.maps = make([]*Array, len(g.maps))
		for i, a := range g.maps {
			c.maps[i] = cloneNode(m, a)
		}
	}
	return c
}
