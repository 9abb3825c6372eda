// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package dap

import (
	"strings"
)

// Kind tags the variant of a BaseType.
type Kind uint8

// All DAP2 variable kinds are enumerated here. The scalar kinds come first
// and the fixed-width scalars are kept together, IsFixedWidth depends on it.
const (
	ByteKind Kind = iota
	Int16Kind
	UInt16Kind
	Int32Kind
	UInt32Kind
	Float32Kind
	Float64Kind
	StringKind
	URLKind

	ArrayKind
	StructureKind
	SequenceKind
	GridKind
)

// kindNames holds the declaration name of every kind.
var kindNames = map[Kind]string{
	ByteKind:      "Byte",
	Int16Kind:     "Int16",
	UInt16Kind:    "UInt16",
	Int32Kind:     "Int32",
	UInt32Kind:    "UInt32",
	Float32Kind:   "Float32",
	Float64Kind:   "Float64",
	StringKind:    "String",
	URLKind:       "Url",
	ArrayKind:     "Array",
	StructureKind: "Structure",
	SequenceKind:  "Sequence",
	GridKind:      "Grid",
}

// String returns the name of the kind as it appears in a DDS declaration.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// IsScalar returns true for the atomic kinds.
func (k Kind) IsScalar() bool {
	return k <= URLKind
}

// IsFixedWidth returns true for the numeric kinds. Vectors of these send
// their length twice on the wire.
func (k Kind) IsFixedWidth() bool {
	return k <= Float64Kind
}

// IsConstructor returns true for the kinds that own child variables.
func (k Kind) IsConstructor() bool {
	return k == StructureKind || k == SequenceKind || k == GridKind
}

// ParseKind maps a type name back to its Kind. The match ignores case.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if strings.EqualFold(name, s) {
			return k, true
		}
	}
	return 0, false
}

// AttrType tags the payload of an Attribute.
type AttrType uint8

const (
	AttrUnknown AttrType = iota
	AttrContainer
	AttrAlias
	AttrByte
	AttrInt16
	AttrUInt16
	AttrInt32
	AttrUInt32
	AttrFloat32
	AttrFloat64
	AttrString
	AttrURL
)

var attrTypeNames = []string{
	AttrUnknown:   "Unknown",
	AttrContainer: "Container",
	AttrAlias:     "Alias",
	AttrByte:      "Byte",
	AttrInt16:     "Int16",
	AttrUInt16:    "UInt16",
	AttrInt32:     "Int32",
	AttrUInt32:    "UInt32",
	AttrFloat32:   "Float32",
	AttrFloat64:   "Float64",
	AttrString:    "String",
	AttrURL:       "Url",
}

func (t AttrType) String() string {
	if int(t) < len(attrTypeNames) {
		return attrTypeNames[t]
	}
	return attrTypeNames[AttrUnknown]
}

// ParseAttrType maps an attribute type name to its AttrType, ignoring case.
// Unrecognized names yield AttrUnknown.
func ParseAttrType(s string) AttrType {
	for t, name := range attrTypeNames {
		if strings.EqualFold(name, s) {
			return AttrType(t)
		}
	}
	return AttrUnknown
}

// AttrTypeForKind returns the attribute type that holds values of a scalar
// kind.
func AttrTypeForKind(k Kind) AttrType {
	switch k {
	case ByteKind:
		return AttrByte
	case Int16Kind:
		return AttrInt16
	case UInt16Kind:
		return AttrUInt16
	case Int32Kind:
		return AttrInt32
	case UInt32Kind:
		return AttrUInt32
	case Float32Kind:
		return AttrFloat32
	case Float64Kind:
		return AttrFloat64
	case StringKind:
		return AttrString
	case URLKind:
		return AttrURL
	}
	return AttrUnknown
}
