// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package dap

import (
	"math"
	"strconv"
	"strings"

	"github.com/attic-labs/dap2/go/d"
)

// Attribute is one entry of an AttributeTable. Its payload is fixed at
// construction: a list of values, a nested table (AttrContainer), or a path
// to another attribute (AttrAlias).
type Attribute struct {
	node
	typ    AttrType
	values []string
	table  *AttributeTable
	alias  *aliasBinding
}

// aliasBinding is the payload of an alias. The targets are nil until the
// enclosing DAS or DDS has its aliases resolved.
type aliasBinding struct {
	path      string
	attribute *Attribute
	variable  BaseType
}

// NewAttribute returns a list attribute of type typ with no values.
func NewAttribute(name string, typ AttrType) *Attribute {
	d.PanicIfTrue(typ == AttrContainer || typ == AttrAlias)
	return &Attribute{node: newNode(name), typ: typ}
}

// NewContainerAttribute returns a container attribute holding table. The
// attribute takes the table's name.
func NewContainerAttribute(table *AttributeTable) *Attribute {
	d.PanicIfTrue(table == nil)
	a := &Attribute{node: newNode(table.ClearName()), typ: AttrContainer, table: table}
	table.SetParent(a)
	return a
}

// NewAlias returns an unresolved alias to the attribute named by path.
func NewAlias(name, path string) *Attribute {
	return &Attribute{node: newNode(name), typ: AttrAlias, alias: &aliasBinding{path: path}}
}

func (a *Attribute) Type() AttrType {
	return a.typ
}

// TypeString returns the type name used in DAS text.
func (a *Attribute) TypeString() string {
	return a.typ.String()
}

func (a *Attribute) IsContainer() bool {
	return a.typ == AttrContainer
}

func (a *Attribute) IsAlias() bool {
	return a.typ == AttrAlias
}

// Container returns the nested table of a container attribute.
func (a *Attribute) Container() (*AttributeTable, error) {
	if a.typ != AttrContainer {
		return nil, ErrNoSuchAttribute.New(a.clearName + " (not a container)")
	}
	return a.table, nil
}

// ContainerN is like Container but returns nil instead of an error.
func (a *Attribute) ContainerN() *AttributeTable {
	return a.table
}

// AliasedTo returns the path of an alias, or "" for other attributes.
func (a *Attribute) AliasedTo() string {
	if a.alias == nil {
		return ""
	}
	return a.alias.path
}

// AliasedAttribute returns the attribute an alias was resolved to.
func (a *Attribute) AliasedAttribute() *Attribute {
	if a.alias == nil {
		return nil
	}
	return a.alias.attribute
}

// AliasedVariable returns the variable holding an alias's target. It is set
// only by DDS alias resolution.
func (a *Attribute) AliasedVariable() BaseType {
	if a.alias == nil {
		return nil
	}
	return a.alias.variable
}

func (a *Attribute) bind(target *Attribute, variable BaseType) {
	a.alias.attribute = target
	a.alias.variable = variable
}

// target is the attribute reads are delegated to.
func (a *Attribute) target() *Attribute {
	if a.alias != nil {
		return a.alias.attribute
	}
	return a
}

// NumValues returns the number of values of a list attribute. Aliases
// report their target's count.
func (a *Attribute) NumValues() int {
	t := a.target()
	if t == nil {
		return 0
	}
	return len(t.values)
}

// Values returns a copy of the attribute's values.
func (a *Attribute) Values() []string {
	t := a.target()
	if t == nil || t.values == nil {
		return nil
	}
	return append([]string(nil), t.values...)
}

// Value returns the i-th value.
func (a *Attribute) Value(i int) (string, error) {
	t := a.target()
	if t == nil || t.typ == AttrContainer {
		return "", ErrNoSuchAttribute.New(a.clearName + " (has no values)")
	}
	if i < 0 || i >= len(t.values) {
		return "", ErrNoSuchAttribute.New(a.clearName + "[" + strconv.Itoa(i) + "]")
	}
	return t.values[i], nil
}

// ValueN is like Value but returns "" when there is no such value.
func (a *Attribute) ValueN(i int) string {
	v, err := a.Value(i)
	if err != nil {
		return ""
	}
	return v
}

// AppendValue adds a value to a list attribute. When check is true the value
// must be valid for the attribute's type.
func (a *Attribute) AppendValue(v string, check bool) error {
	if a.typ == AttrContainer || a.typ == AttrAlias {
		return ErrAttributeBadValue.New(v, a.typ.String())
	}
	v, err := forceValue(a.typ, v, check)
	if err != nil {
		return err
	}
	a.values = append(a.values, v)
	return nil
}

// DeleteValueAt removes the i-th value of a list attribute.
func (a *Attribute) DeleteValueAt(i int) error {
	if a.typ == AttrContainer || a.typ == AttrAlias {
		return ErrNoSuchAttribute.New(a.clearName + " (has no values)")
	}
	if i < 0 || i >= len(a.values) {
		return ErrNoSuchAttribute.New(a.clearName + "[" + strconv.Itoa(i) + "]")
	}
	a.values = append(a.values[:i], a.values[i+1:]...)
	return nil
}

func (a *Attribute) cloneDAG(m *CloneMap) Node {
	c := &Attribute{node: a.node, typ: a.typ}
	m.register(a, c)
	c.parent = m.parentFor(a)

	if a.values != nil {
		c.values = append([]string(nil), a.values...)
	}
	if a.table != nil {
		c.table = cloneNode(m, a.table)
	}
	if a.alias != nil {
		c.alias = &aliasBinding{path: a.alias.path}
		if a.alias.attribute != nil {
			c.alias.attribute, _ = m.ref(a.alias.attribute).(*Attribute)
		}
		if a.alias.variable != nil {
			c.alias.variable, _ = m.ref(a.alias.variable).(BaseType)
		}
	}
	return c
}

// forceValue normalizes a value for typ and, if check is set, validates it.
func forceValue(typ AttrType, v string, check bool) (string, error) {
	switch typ {
	case AttrByte:
		// Signed bytes are accepted and stored in their unsigned spelling.
		if n, err := strconv.ParseInt(v, 10, 16); err == nil && n < 0 && n >= -128 {
			v = strconv.FormatInt(n&0xFF, 10)
		}
	case AttrFloat32, AttrFloat64:
		switch strings.ToLower(v) {
		case "nan.":
			v = "nan"
		case "inf.":
			v = "inf"
		}
	}

	if check && !CheckValue(typ, v) {
		return "", ErrAttributeBadValue.New(v, typ.String())
	}
	return v, nil
}

// CheckValue reports whether v is a legal value for an attribute of type typ.
func CheckValue(typ AttrType, v string) bool {
	switch typ {
	case AttrByte:
		return checkUnsigned(v, math.MaxUint8)
	case AttrInt16:
		_, err := strconv.ParseInt(v, 10, 16)
		return err == nil
	case AttrUInt16:
		return checkUnsigned(v, math.MaxUint16)
	case AttrInt32:
		_, err := strconv.ParseInt(v, 10, 32)
		return err == nil
	case AttrUInt32:
		return checkUnsigned(v, math.MaxUint32)
	case AttrFloat32:
		return checkFloat(v, 32)
	case AttrFloat64:
		return checkFloat(v, 64)
	case AttrString, AttrURL:
		return true
	}
	return false
}

func checkUnsigned(v string, max int64) bool {
	n, err := strconv.ParseInt(v, 10, 64)
	return err == nil && n >= 0 && n <= max
}

func checkFloat(v string, bits int) bool {
	switch strings.ToLower(v) {
	case "nan", "inf", "-inf", "+inf":
		return true
	}
	_, err := strconv.ParseFloat(v, bits)
	if err != nil {
		// out of range values still parse, as infinities
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return true
		}
		return false
	}
	return true
}
