// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package dap

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// AllValues passed to AttributeTable.DelAttribute removes the whole
// attribute instead of a single value.
const AllValues = -1

// AttributeTable is an ordered set of uniquely named attributes.
type AttributeTable struct {
	node
	attrs *orderedmap.OrderedMap[string, *Attribute]
}

func NewAttributeTable(name string) *AttributeTable {
	return &AttributeTable{node: newNode(name), attrs: orderedmap.New[string, *Attribute]()}
}

// Len returns the number of attributes in the table.
func (t *AttributeTable) Len() int {
	return t.attrs.Len()
}

// Names returns the clear names of the attributes in insertion order.
func (t *AttributeTable) Names() []string {
	names := make([]string, 0, t.attrs.Len())
	for p := t.attrs.Oldest(); p != nil; p = p.Next() {
		names = append(names, p.Key)
	}
	return names
}

// Attributes returns the attributes in insertion order.
func (t *AttributeTable) Attributes() []*Attribute {
	attrs := make([]*Attribute, 0, t.attrs.Len())
	for p := t.attrs.Oldest(); p != nil; p = p.Next() {
		attrs = append(attrs, p.Value)
	}
	return attrs
}

// Attribute returns the named attribute, or nil.
func (t *AttributeTable) Attribute(name string) *Attribute {
	a, _ := t.attrs.Get(name)
	return a
}

// HasAttribute reports whether name is taken in this table.
func (t *AttributeTable) HasAttribute(name string) bool {
	_, ok := t.attrs.Get(name)
	return ok
}

// AppendAttribute adds value to the named attribute, creating it if needed.
// An existing attribute of a different type is a conflict. A new attribute is
// added only once its first value is accepted.
func (t *AttributeTable) AppendAttribute(name string, typ AttrType, value string, check bool) error {
	if typ == AttrContainer || typ == AttrAlias || typ == AttrUnknown {
		return ErrAttributeBadValue.New(value, typ.String())
	}

	if a, ok := t.attrs.Get(name); ok {
		if a.typ != typ {
			return ErrAttributeTypeConflict.New(name, a.typ.String(), typ.String())
		}
		return a.AppendValue(value, check)
	}

	a := NewAttribute(name, typ)
	if err := a.AppendValue(value, check); err != nil {
		return err
	}
	t.put(a)
	return nil
}

// AppendValues appends each of values to the named attribute.
func (t *AttributeTable) AppendValues(name string, typ AttrType, values []string, check bool) error {
	for _, v := range values {
		if err := t.AppendAttribute(name, typ, v, check); err != nil {
			return err
		}
	}
	return nil
}

// AppendContainer adds an empty nested table called name and returns it.
func (t *AttributeTable) AppendContainer(name string) (*AttributeTable, error) {
	at := NewAttributeTable(name)
	if err := t.AddContainer(name, at); err != nil {
		return nil, err
	}
	return at, nil
}

// AddContainer adds table as a nested table called name.
func (t *AttributeTable) AddContainer(name string, table *AttributeTable) error {
	if t.HasAttribute(name) {
		return ErrAttributeExists.New(name, t.clearName)
	}
	table.SetClearName(name)
	t.put(NewContainerAttribute(table))
	return nil
}

// AddAlias adds an unresolved alias called name pointing at path.
func (t *AttributeTable) AddAlias(name, path string) error {
	if t.HasAttribute(name) {
		return ErrAttributeExists.New(name, t.clearName)
	}
	t.put(NewAlias(name, path))
	return nil
}

// AddAttribute inserts an existing attribute under its clear name.
func (t *AttributeTable) AddAttribute(a *Attribute) error {
	if t.HasAttribute(a.ClearName()) {
		return ErrAttributeExists.New(a.ClearName(), t.clearName)
	}
	t.put(a)
	return nil
}

func (t *AttributeTable) put(a *Attribute) {
	a.SetParent(t)
	t.attrs.Set(a.ClearName(), a)
}

// DelAttribute removes the named attribute when i is AllValues, and
// otherwise only its i-th value. Containers can only be removed whole.
func (t *AttributeTable) DelAttribute(name string, i int) error {
	a, ok := t.attrs.Get(name)
	if !ok {
		return ErrNoSuchAttribute.New(name)
	}
	if i == AllValues {
		t.attrs.Delete(name)
		a.SetParent(nil)
		return nil
	}
	return a.DeleteValueAt(i)
}

func (t *AttributeTable) cloneDAG(m *CloneMap) Node {
	c := &AttributeTable{node: t.node, attrs: orderedmap.New[string, *Attribute]()}
	m.register(t, c)
	c.parent = m.parentFor(t)
	for p := t.attrs.Oldest(); p != nil; p = p.Next() {
		c.attrs.Set(p.Key, cloneNode(m, p.Value))
	}
	return c
}
