// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package dap

import (
	"strings"
)

// findVariable looks up name among the children of c. A dotted name walks
// down through nested constructors.
func findVariable(c Constructor, name string) (BaseType, error) {
	for _, v := range c.Variables() {
		if v.ClearName() == name || v.EncodedName() == name {
			return v, nil
		}
	}

	if i := strings.IndexByte(name, '.'); i >= 0 {
		agg, err := findVariable(c, name[:i])
		if err != nil {
			return nil, ErrNoSuchVariable.New(name)
		}
		if sub, ok := agg.(Constructor); ok {
			return sub.Variable(name[i+1:])
		}
	}
	return nil, ErrNoSuchVariable.New(name)
}

func cloneVars(m *CloneMap, vars []BaseType) []BaseType {
	if vars == nil {
		return nil
	}
	c := make([]BaseType, len(vars))
	for i, v := range vars {
		c[i] = cloneNode(m, v)
	}
	return c
}

// Structure is an ordered collection of variables.
type Structure struct {
	baseType
	vars []BaseType
}

func NewStructure(name string) *Structure {
	s := &Structure{}
	s.init(s, name)
	return s
}

func (s *Structure) Kind() Kind       { return StructureKind }
func (s *Structure) TypeName() string { return StructureKind.String() }

// AddVariable appends v as the last member.
func (s *Structure) AddVariable(v BaseType) {
	v.SetParent(s)
	s.vars = append(s.vars, v)
}

// DelVariable removes the named member.
func (s *Structure) DelVariable(name string) error {
	for i, v := range s.vars {
		if v.ClearName() == name || v.EncodedName() == name {
			s.vars = append(s.vars[:i], s.vars[i+1:]...)
			v.SetParent(nil)
			return nil
		}
	}
	return ErrNoSuchVariable.New(name)
}

func (s *Structure) Variables() []BaseType {
	return s.vars
}

func (s *Structure) Variable(name string) (BaseType, error) {
	return findVariable(s, name)
}

func (s *Structure) VarCount() int {
	return len(s.vars)
}

func (s *Structure) Var(i int) BaseType {
	return s.vars[i]
}

func (s *Structure) cloneDAG(m *CloneMap) Node {
	c := &Structure{}
	m.register(s, c)
	s.cloneBase(m, s, &c.baseType)
	c.vars = cloneVars(m, s.vars)
	return c
}
