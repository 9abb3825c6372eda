// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package dap

import (
	"strings"
)

// BaseType is a variable in a DDS. Every variable owns an attribute table,
// also reachable as a single container Attribute.
type BaseType interface {
	Node
	Kind() Kind
	// TypeName is the keyword introducing the variable in a declaration.
	TypeName() string
	Attributes() *AttributeTable
	Attribute() *Attribute
}

// Constructor is a variable that owns named child variables.
type Constructor interface {
	BaseType
	Variables() []BaseType
	Variable(name string) (BaseType, error)
	VarCount() int
	Var(i int) BaseType
}

type baseType struct {
	node
	table *AttributeTable
	attr  *Attribute
}

func (b *baseType) init(self BaseType, name string) {
	b.node = newNode(name)
	b.table = NewAttributeTable(name)
	b.table.SetParent(self)
	b.attr = &Attribute{node: newNode(name), typ: AttrContainer, table: b.table}
	b.attr.SetParent(self)
}

func (b *baseType) SetClearName(clear string) {
	b.node.SetClearName(clear)
	b.table.SetClearName(clear)
	b.attr.SetClearName(clear)
}

func (b *baseType) SetEncodedName(encoded string) {
	b.node.SetEncodedName(encoded)
	b.table.SetEncodedName(encoded)
	b.attr.SetEncodedName(encoded)
}

func (b *baseType) Attributes() *AttributeTable {
	return b.table
}

func (b *baseType) Attribute() *Attribute {
	return b.attr
}

// AppendAttribute adds a value to one of the variable's attributes.
func (b *baseType) AppendAttribute(name string, typ AttrType, value string, check bool) error {
	return b.table.AppendAttribute(name, typ, value, check)
}

// cloneBase fills in the parts of c common to every variable. self must
// already be registered in m.
func (b *baseType) cloneBase(m *CloneMap, self BaseType, c *baseType) {
	c.node = b.node
	c.parent = m.parentFor(self)
	c.table = cloneNode(m, b.table)
	c.attr = cloneNode(m, b.attr)
}

// LongName returns the dotted path from the top level of the dataset to v.
func LongName(v BaseType) string {
	parts := []string{v.EncodedName()}
	for p := v.Parent(); p != nil; p = p.Parent() {
		bt, ok := p.(BaseType)
		if !ok {
			break
		}
		if _, isDDS := bt.(*DDS); isDDS {
			break
		}
		parts = append(parts, bt.EncodedName())
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

type Byte struct {
	baseType
	val uint8
}

func NewByte(name string) *Byte {
	b := &Byte{}
	b.init(b, name)
	return b
}

func (b *Byte) Kind() Kind       { return ByteKind }
func (b *Byte) TypeName() string { return ByteKind.String() }
func (b *Byte) Value() uint8     { return b.val }
func (b *Byte) SetValue(v uint8) { b.val = v }

func (b *Byte) cloneDAG(m *CloneMap) Node {
	c := &Byte{val: b.val}
	m.register(b, c)
	b.cloneBase(m, b, &c.baseType)
	return c
}

type Int16 struct {
	baseType
	val int16
}

func NewInt16(name string) *Int16 {
	b := &Int16{}
	b.init(b, name)
	return b
}

func (b *Int16) Kind() Kind       { return Int16Kind }
func (b *Int16) TypeName() string { return Int16Kind.String() }
func (b *Int16) Value() int16     { return b.val }
func (b *Int16) SetValue(v int16) { b.val = v }

func (b *Int16) cloneDAG(m *CloneMap) Node {
	c := &Int16{val: b.val}
	m.register(b, c)
	b.cloneBase(m, b, &c.baseType)
	return c
}

type UInt16 struct {
	baseType
	val uint16
}

func NewUInt16(name string) *UInt16 {
	b := &UInt16{}
	b.init(b, name)
	return b
}

func (b *UInt16) Kind() Kind        { return UInt16Kind }
func (b *UInt16) TypeName() string  { return UInt16Kind.String() }
func (b *UInt16) Value() uint16     { return b.val }
func (b *UInt16) SetValue(v uint16) { b.val = v }

func (b *UInt16) cloneDAG(m *CloneMap) Node {
	c := &UInt16{val: b.val}
	m.register(b, c)
	b.cloneBase(m, b, &c.baseType)
	return c
}

type Int32 struct {
	baseType
	val int32
}

func NewInt32(name string) *Int32 {
	b := &Int32{}
	b.init(b, name)
	return b
}

func (b *Int32) Kind() Kind       { return Int32Kind }
func (b *Int32) TypeName() string { return Int32Kind.String() }
func (b *Int32) Value() int32     { return b.val }
func (b *Int32) SetValue(v int32) { b.val = v }

func (b *Int32) cloneDAG(m *CloneMap) Node {
	c := &Int32{val: b.val}
	m.register(b, c)
	b.cloneBase(m, b, &c.baseType)
	return c
}

type UInt32 struct {
	baseType
	val uint32
}

func NewUInt32(name string) *UInt32 {
	b := &UInt32{}
	b.init(b, name)
	return b
}

func (b *UInt32) Kind() Kind        { return UInt32Kind }
func (b *UInt32) TypeName() string  { return UInt32Kind.String() }
func (b *UInt32) Value() uint32     { return b.val }
func (b *UInt32) SetValue(v uint32) { b.val = v }

func (b *UInt32) cloneDAG(m *CloneMap) Node {
	c := &UInt32{val: b.val}
	m.register(b, c)
	b.cloneBase(m, b, &c.baseType)
	return c
}

type Float32 struct {
	baseType
	val float32
}

func NewFloat32(name string) *Float32 {
	b := &Float32{}
	b.init(b, name)
	return b
}

func (b *Float32) Kind() Kind         { return Float32Kind }
func (b *Float32) TypeName() string   { return Float32Kind.String() }
func (b *Float32) Value() float32     { return b.val }
func (b *Float32) SetValue(v float32) { b.val = v }

func (b *Float32) cloneDAG(m *CloneMap) Node {
	c := &Float32{val: b.val}
	m.register(b, c)
	b.cloneBase(m, b, &c.baseType)
	return c
}

type Float64 struct {
	baseType
	val float64
}

func NewFloat64(name string) *Float64 {
	b := &Float64{}
	b.init(b, name)
	return b
}

func (b *Float64) Kind() Kind         { return Float64Kind }
func (b *Float64) TypeName() string   { return Float64Kind.String() }
func (b *Float64) Value() float64     { return b.val }
func (b *Float64) SetValue(v float64) { b.val = v }

func (b *Float64) cloneDAG(m *CloneMap) Node {
	c := &Float64{val: b.val}
	m.register(b, c)
	b.cloneBase(m, b, &c.baseType)
	return c
}

type String struct {
	baseType
	val string
}

func NewString(name string) *String {
	b := &String{}
	b.init(b, name)
	return b
}

func (b *String) Kind() Kind        { return StringKind }
func (b *String) TypeName() string  { return StringKind.String() }
func (b *String) Value() string     { return b.val }
func (b *String) SetValue(v string) { b.val = v }

func (b *String) cloneDAG(m *CloneMap) Node {
	c := &String{val: b.val}
	m.register(b, c)
	b.cloneBase(m, b, &c.baseType)
	return c
}

// URL is a String whose value is a URL.
type URL struct {
	baseType
	val string
}

func NewURL(name string) *URL {
	b := &URL{}
	b.init(b, name)
	return b
}

func (b *URL) Kind() Kind        { return URLKind }
func (b *URL) TypeName() string  { return URLKind.String() }
func (b *URL) Value() string     { return b.val }
func (b *URL) SetValue(v string) { b.val = v }

func (b *URL) cloneDAG(m *CloneMap) Node {
	c := &URL{val: b.val}
	m.register(b, c)
	b.cloneBase(m, b, &c.baseType)
	return c
}
