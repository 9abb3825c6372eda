// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package dap

import (
	"strconv"
)

const (
	// Markers framing the rows of a sequence on the wire.
	startOfInstance byte = 0x5A
	endOfSequence   byte = 0xA5
)

// Sequence is a table: its template variables describe the columns and each
// row holds one copy of every template variable.
type Sequence struct {
	baseType
	vars  []BaseType
	rows  [][]BaseType
	level int
}

func NewSequence(name string) *Sequence {
	s := &Sequence{}
	s.init(s, name)
	return s
}

func (s *Sequence) Kind() Kind       { return SequenceKind }
func (s *Sequence) TypeName() string { return SequenceKind.String() }

// Level is zero for an outermost sequence and one more than its enclosing
// sequence otherwise.
func (s *Sequence) Level() int {
	return s.level
}

func (s *Sequence) setLevel(l int) {
	s.level = l
	for _, v := range s.vars {
		if inner, ok := v.(*Sequence); ok {
			inner.setLevel(l + 1)
		}
	}
}

// AddVariable appends v to the template.
func (s *Sequence) AddVariable(v BaseType) {
	v.SetParent(s)
	if inner, ok := v.(*Sequence); ok {
		inner.setLevel(s.level + 1)
	}
	s.vars = append(s.vars, v)
}

func (s *Sequence) Variables() []BaseType {
	return s.vars
}

// Variable looks a name up in the template.
func (s *Sequence) Variable(name string) (BaseType, error) {
	return findVariable(s, name)
}

func (s *Sequence) VarCount() int {
	return len(s.vars)
}

func (s *Sequence) Var(i int) BaseType {
	return s.vars[i]
}

// NewRow returns a row of fresh copies of the template variables. The row is
// not added to the sequence.
func (s *Sequence) NewRow() []BaseType {
	row := make([]BaseType, len(s.vars))
	for i, v := range s.vars {
		row[i] = Clone(v)
	}
	return row
}

// AddRow appends row. Its variables must match the template.
func (s *Sequence) AddRow(row []BaseType) error {
	if len(row) != len(s.vars) {
		return ErrBadSemantics.New("sequence '" + s.EncodedName() + "' has " + strconv.Itoa(len(s.vars)) +
			" variables, the row has " + strconv.Itoa(len(row)))
	}
	for i, v := range row {
		if v.Kind() != s.vars[i].Kind() {
			return ErrBadSemantics.New("row variable '" + v.EncodedName() + "' is a " + v.TypeName() +
				", sequence '" + s.EncodedName() + "' expects a " + s.vars[i].TypeName())
		}
		v.SetParent(s)
	}
	s.rows = append(s.rows, row)
	return nil
}

func (s *Sequence) RowCount() int {
	return len(s.rows)
}

// Row returns the variables of row i.
func (s *Sequence) Row(i int) ([]BaseType, error) {
	if i < 0 || i >= len(s.rows) {
		return nil, ErrNoSuchVariable.New("row " + strconv.Itoa(i) + " of " + s.EncodedName())
	}
	return s.rows[i], nil
}

// DelRow removes row i.
func (s *Sequence) DelRow(i int) error {
	if i < 0 || i >= len(s.rows) {
		return ErrNoSuchVariable.New("row " + strconv.Itoa(i) + " of " + s.EncodedName())
	}
	s.rows = append(s.rows[:i], s.rows[i+1:]...)
	return nil
}

// ClearRows drops every row.
func (s *Sequence) ClearRows() {
	s.rows = nil
}

// VariableInRow returns the named variable of row i.
func (s *Sequence) VariableInRow(i int, name string) (BaseType, error) {
	row, err := s.Row(i)
	if err != nil {
		return nil, err
	}
	for _, v := range row {
		if v.ClearName() == name || v.EncodedName() == name {
			return v, nil
		}
	}
	return nil, ErrNoSuchVariable.New(name)
}

func (s *Sequence) cloneDAG(m *CloneMap) Node {
	c := &Sequence{level: s.level}
	m.register(s, c)
	s.cloneBase(m, s, &c.baseType)
	c.vars = cloneVars(m, s.vars)
	if s.rows != nil {
		c.rows = make([][]BaseType, len(s.rows))
		for i, row := range s.rows {
			c.rows[i] = cloneVars(m, row)
		}
	}
	return c
}
