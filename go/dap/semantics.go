// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package dap

import (
	"fmt"
)

// CheckSemantics validates the structure of v: every variable is named,
// siblings have distinct names, arrays have dimensions and grids have one
// matching map per dimension. With all set the variables below v are
// checked as well.
func CheckSemantics(v BaseType, all bool) error {
	if v.EncodedName() == "" {
		if _, ok := v.(*DDS); ok {
			return ErrBadSemantics.New("a dataset must have a name")
		}
		return ErrBadSemantics.New("every " + v.TypeName() + " must have a name")
	}

	switch v := v.(type) {
	case *Array:
		if len(v.dims) == 0 {
			return ErrBadSemantics.New("array '" + v.EncodedName() + "' has no dimensions")
		}
		if v.Template() == nil {
			return ErrBadSemantics.New("array '" + v.EncodedName() + "' has no element type")
		}
		if all && v.Template().Kind().IsConstructor() {
			return CheckSemantics(v.Template(), true)
		}
	case *Grid:
		return checkGrid(v, all)
	case Constructor:
		if err := checkUniqueNames(v.Variables(), v.EncodedName(), v.TypeName()); err != nil {
			return err
		}
		if all {
			for _, child := range v.Variables() {
				if err := CheckSemantics(child, true); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func checkGrid(g *Grid, all bool) error {
	if g.array == nil {
		return ErrBadSemantics.New("grid '" + g.EncodedName() + "' has no array")
	}
	if err := checkUniqueNames(g.Variables(), g.EncodedName(), g.TypeName()); err != nil {
		return err
	}
	if err := CheckSemantics(g.array, all); err != nil {
		return err
	}

	if len(g.maps) != len(g.array.dims) {
		return ErrBadSemantics.New(fmt.Sprintf("grid '%s' has %d maps for the %d dimensions of '%s'",
			g.EncodedName(), len(g.maps), len(g.array.dims), g.array.EncodedName()))
	}
	for i, m := range g.maps {
		if len(m.dims) != 1 {
			return ErrBadSemantics.New(fmt.Sprintf("map '%s' of grid '%s' must have one dimension, not %d",
				m.EncodedName(), g.EncodedName(), len(m.dims)))
		}
		if m.dims[0].Size != g.array.dims[i].Size {
			return ErrBadSemantics.New(fmt.Sprintf("map %d '%s' of grid '%s' has size %d, dimension %d of '%s' has size %d",
				i, m.EncodedName(), g.EncodedName(), m.dims[0].Size, i, g.array.EncodedName(), g.array.dims[i].Size))
		}
		if all {
			if err := CheckSemantics(m, true); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkUniqueNames(vars []BaseType, parent, typeName string) error {
	seen := make(map[string]struct{}, len(vars))
	for _, v := range vars {
		name := v.EncodedName()
		if _, ok := seen[name]; ok {
			return ErrBadSemantics.New(fmt.Sprintf("the variable '%s' is used more than once in %s '%s'", name, typeName, parent))
		}
		seen[name] = struct{}{}
	}
	return nil
}
