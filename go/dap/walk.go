// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package dap

// WalkCallback is called for every variable reached by WalkVariables. If it
// returns true the walk does not descend into v.
type WalkCallback func(v BaseType) bool

// WalkVariables walks v and everything below it depth first. Arrays of
// constructors are descended into through their template.
func WalkVariables(v BaseType, cb WalkCallback) {
	if cb(v) {
		return
	}
	switch v := v.(type) {
	case Constructor:
		for _, child := range v.Variables() {
			WalkVariables(child, cb)
		}
	case *Array:
		if t := v.Template(); t != nil && t.Kind().IsConstructor() {
			WalkVariables(t, cb)
		}
	}
}

// ElementCount counts the members of v. With leaves set, constructors count
// the atomic variables below them instead of their direct children.
func ElementCount(v BaseType, leaves bool) int {
	c, ok := v.(Constructor)
	if !ok {
		return 1
	}
	if !leaves {
		return c.VarCount()
	}
	n := 0
	for _, child := range c.Variables() {
		n += ElementCount(child, true)
	}
	return n
}

// SetProjected sets the projection flag of v. With all set the flag is
// applied to everything below v, array elements and sequence rows included.
func SetProjected(v BaseType, state, all bool) {
	v.SetProject(state)
	if !all {
		return
	}

	switch v := v.(type) {
	case *Sequence:
		for _, c := range v.vars {
			SetProjected(c, state, true)
		}
		for _, row := range v.rows {
			for _, c := range row {
				SetProjected(c, state, true)
			}
		}
	case Constructor:
		for _, c := range v.Variables() {
			SetProjected(c, state, true)
		}
	case *Array:
		if t := v.Template(); t != nil {
			SetProjected(t, state, true)
		}
		if bv, ok := v.vals.(*BaseTypeVector); ok {
			for _, e := range bv.vals {
				if e != nil {
					SetProjected(e, state, true)
				}
			}
		}
	}
}
