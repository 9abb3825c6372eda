// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package dap

import (
	"strconv"

	"github.com/attic-labs/dap2/go/d"
)

// PrimitiveVector is the typed storage behind an Array. Index arguments are
// not checked: an out of range index panics.
type PrimitiveVector interface {
	// Template is the variable describing one element.
	Template() BaseType
	Length() int
	// SetLength replaces the contents with n zero elements.
	SetLength(n int)
	// Subset returns the elements start, start+stride, ... up to stop.
	Subset(start, stop, stride int) PrimitiveVector

	gather(idx []int) PrimitiveVector
	cloneVector(m *CloneMap) PrimitiveVector
	externalize(w *dataWriter) error
	deserialize(r *dataReader) error
}

// NewPrimitiveVector returns an empty vector able to hold elements shaped
// like template.
func NewPrimitiveVector(template BaseType) PrimitiveVector {
	switch template.Kind() {
	case ByteKind:
		return &ByteVector{vector[uint8]{template: template}}
	case Int16Kind:
		return &Int16Vector{vector[int16]{template: template}}
	case UInt16Kind:
		return &UInt16Vector{vector[uint16]{template: template}}
	case Int32Kind:
		return &Int32Vector{vector[int32]{template: template}}
	case UInt32Kind:
		return &UInt32Vector{vector[uint32]{template: template}}
	case Float32Kind:
		return &Float32Vector{vector[float32]{template: template}}
	case Float64Kind:
		return &Float64Vector{vector[float64]{template: template}}
	case StringKind, URLKind:
		return &StringVector{vector[string]{template: template}}
	}
	return &BaseTypeVector{vector[BaseType]{template: template}}
}

type vector[T any] struct {
	template BaseType
	vals     []T
}

func (v *vector[T]) Template() BaseType {
	return v.template
}

func (v *vector[T]) Length() int {
	return len(v.vals)
}

func (v *vector[T]) SetLength(n int) {
	v.vals = make([]T, n)
}

func (v *vector[T]) Value(i int) T {
	return v.vals[i]
}

func (v *vector[T]) SetValue(i int, x T) {
	v.vals[i] = x
}

// Values returns the backing slice. Changes to it are changes to the vector.
func (v *vector[T]) Values() []T {
	return v.vals
}

// SetValues replaces the backing slice, and so the length, of the vector.
func (v *vector[T]) SetValues(vals []T) {
	v.vals = vals
}

func (v *vector[T]) pick(idx []int) vector[T] {
	p := vector[T]{template: v.template, vals: make([]T, len(idx))}
	for i, j := range idx {
		p.vals[i] = v.vals[j]
	}
	return p
}

func (v *vector[T]) copyVals(m *CloneMap) vector[T] {
	c := vector[T]{}
	if v.template != nil {
		c.template = cloneNode(m, v.template)
	}
	if v.vals != nil {
		c.vals = append([]T(nil), v.vals...)
	}
	return c
}

func subsetIndices(n, start, stop, stride int) []int {
	if stride < 1 {
		stride = 1
	}
	if stop < start {
		stop = start
	}
	d.PanicIfFalse(start >= 0 && stop < n)

	idx := make([]int, 0, 1+(stop-start)/stride)
	for i := start; i <= stop; i += stride {
		idx = append(idx, i)
	}
	return idx
}

type ByteVector struct {
	vector[uint8]
}

func (v *ByteVector) Subset(start, stop, stride int) PrimitiveVector {
	return v.gather(subsetIndices(len(v.vals), start, stop, stride))
}

func (v *ByteVector) gather(idx []int) PrimitiveVector {
	return &ByteVector{v.pick(idx)}
}

func (v *ByteVector) cloneVector(m *CloneMap) PrimitiveVector {
	return &ByteVector{v.copyVals(m)}
}

func (v *ByteVector) externalize(w *dataWriter) error {
	return w.writeOpaque(v.vals)
}

func (v *ByteVector) deserialize(r *dataReader) error {
	b, err := r.readOpaque(len(v.vals))
	if err != nil {
		return err
	}
	copy(v.vals, b)
	return nil
}

type Int16Vector struct {
	vector[int16]
}

func (v *Int16Vector) Subset(start, stop, stride int) PrimitiveVector {
	return v.gather(subsetIndices(len(v.vals), start, stop, stride))
}

func (v *Int16Vector) gather(idx []int) PrimitiveVector {
	return &Int16Vector{v.pick(idx)}
}

func (v *Int16Vector) cloneVector(m *CloneMap) PrimitiveVector {
	return &Int16Vector{v.copyVals(m)}
}

func (v *Int16Vector) externalize(w *dataWriter) error {
	for _, x := range v.vals {
		if err := w.writeInt(int32(x)); err != nil {
			return err
		}
	}
	return nil
}

func (v *Int16Vector) deserialize(r *dataReader) error {
	for i := range v.vals {
		x, err := r.readInt()
		if err != nil {
			return err
		}
		v.vals[i] = int16(x)
	}
	return nil
}

type UInt16Vector struct {
	vector[uint16]
}

func (v *UInt16Vector) Subset(start, stop, stride int) PrimitiveVector {
	return v.gather(subsetIndices(len(v.vals), start, stop, stride))
}

func (v *UInt16Vector) gather(idx []int) PrimitiveVector {
	return &UInt16Vector{v.pick(idx)}
}

func (v *UInt16Vector) cloneVector(m *CloneMap) PrimitiveVector {
	return &UInt16Vector{v.copyVals(m)}
}

func (v *UInt16Vector) externalize(w *dataWriter) error {
	for _, x := range v.vals {
		if err := w.writeUint(uint32(x)); err != nil {
			return err
		}
	}
	return nil
}

func (v *UInt16Vector) deserialize(r *dataReader) error {
	for i := range v.vals {
		x, err := r.readUint()
		if err != nil {
			return err
		}
		v.vals[i] = uint16(x)
	}
	return nil
}

type Int32Vector struct {
	vector[int32]
}

func (v *Int32Vector) Subset(start, stop, stride int) PrimitiveVector {
	return v.gather(subsetIndices(len(v.vals), start, stop, stride))
}

func (v *Int32Vector) gather(idx []int) PrimitiveVector {
	return &Int32Vector{v.pick(idx)}
}

func (v *Int32Vector) cloneVector(m *CloneMap) PrimitiveVector {
	return &Int32Vector{v.copyVals(m)}
}

func (v *Int32Vector) externalize(w *dataWriter) error {
	for _, x := range v.vals {
		if err := w.writeInt(x); err != nil {
			return err
		}
	}
	return nil
}

func (v *Int32Vector) deserialize(r *dataReader) error {
	for i := range v.vals {
		x, err := r.readInt()
		if err != nil {
			return err
		}
		v.vals[i] = x
	}
	return nil
}

type UInt32Vector struct {
	vector[uint32]
}

func (v *UInt32Vector) Subset(start, stop, stride int) PrimitiveVector {
	return v.gather(subsetIndices(len(v.vals), start, stop, stride))
}

func (v *UInt32Vector) gather(idx []int) PrimitiveVector {
	return &UInt32Vector{v.pick(idx)}
}

func (v *UInt32Vector) cloneVector(m *CloneMap) PrimitiveVector {
	return &UInt32Vector{v.copyVals(m)}
}

func (v *UInt32Vector) externalize(w *dataWriter) error {
	for _, x := range v.vals {
		if err := w.writeUint(x); err != nil {
			return err
		}
	}
	return nil
}

func (v *UInt32Vector) deserialize(r *dataReader) error {
	for i := range v.vals {
		x, err := r.readUint()
		if err != nil {
			return err
		}
		v.vals[i] = x
	}
	return nil
}

type Float32Vector struct {
	vector[float32]
}

func (v *Float32Vector) Subset(start, stop, stride int) PrimitiveVector {
	return v.gather(subsetIndices(len(v.vals), start, stop, stride))
}

func (v *Float32Vector) gather(idx []int) PrimitiveVector {
	return &Float32Vector{v.pick(idx)}
}

func (v *Float32Vector) cloneVector(m *CloneMap) PrimitiveVector {
	return &Float32Vector{v.copyVals(m)}
}

func (v *Float32Vector) externalize(w *dataWriter) error {
	for _, x := range v.vals {
		if err := w.writeFloat32(x); err != nil {
			return err
		}
	}
	return nil
}

func (v *Float32Vector) deserialize(r *dataReader) error {
	for i := range v.vals {
		x, err := r.readFloat32()
		if err != nil {
			return err
		}
		v.vals[i] = x
	}
	return nil
}

type Float64Vector struct {
	vector[float64]
}

func (v *Float64Vector) Subset(start, stop, stride int) PrimitiveVector {
	return v.gather(subsetIndices(len(v.vals), start, stop, stride))
}

func (v *Float64Vector) gather(idx []int) PrimitiveVector {
	return &Float64Vector{v.pick(idx)}
}

func (v *Float64Vector) cloneVector(m *CloneMap) PrimitiveVector {
	return &Float64Vector{v.copyVals(m)}
}

func (v *Float64Vector) externalize(w *dataWriter) error {
	for _, x := range v.vals {
		if err := w.writeFloat64(x); err != nil {
			return err
		}
	}
	return nil
}

func (v *Float64Vector) deserialize(r *dataReader) error {
	for i := range v.vals {
		x, err := r.readFloat64()
		if err != nil {
			return err
		}
		v.vals[i] = x
	}
	return nil
}

// StringVector holds the values of String and Url arrays.
type StringVector struct {
	vector[string]
}

func (v *StringVector) Subset(start, stop, stride int) PrimitiveVector {
	return v.gather(subsetIndices(len(v.vals), start, stop, stride))
}

func (v *StringVector) gather(idx []int) PrimitiveVector {
	return &StringVector{v.pick(idx)}
}

func (v *StringVector) cloneVector(m *CloneMap) PrimitiveVector {
	return &StringVector{v.copyVals(m)}
}

func (v *StringVector) externalize(w *dataWriter) error {
	for _, x := range v.vals {
		if err := w.writeString(x); err != nil {
			return err
		}
	}
	return nil
}

func (v *StringVector) deserialize(r *dataReader) error {
	for i := range v.vals {
		x, err := r.readString()
		if err != nil {
			return err
		}
		v.vals[i] = x
	}
	return nil
}

// BaseTypeVector holds the elements of an array of Structures, Sequences,
// Grids or Arrays. Each element is a copy of the template.
type BaseTypeVector struct {
	vector[BaseType]
}

func (v *BaseTypeVector) Subset(start, stop, stride int) PrimitiveVector {
	return v.gather(subsetIndices(len(v.vals), start, stop, stride))
}

func (v *BaseTypeVector) gather(idx []int) PrimitiveVector {
	return &BaseTypeVector{v.pick(idx)}
}

func (v *BaseTypeVector) cloneVector(m *CloneMap) PrimitiveVector {
	c := &BaseTypeVector{}
	if v.template != nil {
		c.template = cloneNode(m, v.template)
	}
	if v.vals != nil {
		c.vals = make([]BaseType, len(v.vals))
		for i, e := range v.vals {
			if e != nil {
				c.vals[i] = cloneNode(m, e)
			}
		}
	}
	return c
}

// SetValue stores e as the i-th element, making it a child of the array
// that owns the template.
func (v *BaseTypeVector) SetValue(i int, e BaseType) {
	e.SetParent(v.template.Parent())
	v.vals[i] = e
}

func (v *BaseTypeVector) externalize(w *dataWriter) error {
	for i, e := range v.vals {
		if err := w.checkCancel(); err != nil {
			return err
		}
		if e == nil {
			return ErrBadSemantics.New("element " + strconv.Itoa(i) + " of " + v.template.EncodedName() + " has no value")
		}
		if err := w.writeVariable(e); err != nil {
			return err
		}
	}
	return nil
}

func (v *BaseTypeVector) deserialize(r *dataReader) error {
	for i := range v.vals {
		if err := r.checkCancel(); err != nil {
			return err
		}
		e := Clone(v.template)
		v.vals[i] = e
		if err := r.readVariable(e); err != nil {
			return err
		}
	}
	return nil
}

// valueString formats the i-th element of a vector of atomic values.
func valueString(pv PrimitiveVector, i int) string {
	switch v := pv.(type) {
	case *ByteVector:
		return strconv.FormatUint(uint64(v.vals[i]), 10)
	case *Int16Vector:
		return strconv.FormatInt(int64(v.vals[i]), 10)
	case *UInt16Vector:
		return strconv.FormatUint(uint64(v.vals[i]), 10)
	case *Int32Vector:
		return strconv.FormatInt(int64(v.vals[i]), 10)
	case *UInt32Vector:
		return strconv.FormatUint(uint64(v.vals[i]), 10)
	case *Float32Vector:
		return strconv.FormatFloat(float64(v.vals[i]), 'g', -1, 32)
	case *Float64Vector:
		return strconv.FormatFloat(v.vals[i], 'g', -1, 64)
	case *StringVector:
		return quoteValue(v.vals[i])
	}
	d.Panicf("no text form for %T", pv)
	return ""
}
