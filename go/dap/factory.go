// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package dap

// BaseTypeFactory builds the variables of a DDS. Code that creates
// variables by kind, such as parsers, goes through the DDS's factory so a
// dataset can supply its own construction strategy.
type BaseTypeFactory interface {
	NewVariable(k Kind, name string) (BaseType, error)
}

// DefaultFactory builds the variable types of this package. Arrays are
// returned without a template.
type DefaultFactory struct{}

func (DefaultFactory) NewVariable(k Kind, name string) (BaseType, error) {
	switch k {
	case ByteKind:
		return NewByte(name), nil
	case Int16Kind:
		return NewInt16(name), nil
	case UInt16Kind:
		return NewUInt16(name), nil
	case Int32Kind:
		return NewInt32(name), nil
	case UInt32Kind:
		return NewUInt32(name), nil
	case Float32Kind:
		return NewFloat32(name), nil
	case Float64Kind:
		return NewFloat64(name), nil
	case StringKind:
		return NewString(name), nil
	case URLKind:
		return NewURL(name), nil
	case ArrayKind:
		return NewArray(name, nil), nil
	case StructureKind:
		return NewStructure(name), nil
	case SequenceKind:
		return NewSequence(name), nil
	case GridKind:
		return NewGrid(name), nil
	}
	return nil, ErrBadSemantics.New("cannot make a variable of kind " + k.String())
}
