// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package dap

import (
	"sync"

	"github.com/attic-labs/dap2/go/d"
)

// ArrayDimension is one dimension of an Array: its optional name, its size
// and the hyperslab selected from it.
type ArrayDimension struct {
	Name   string
	Size   int
	Start  int
	Stride int
	Stop   int
}

func newArrayDimension(name string, size int) *ArrayDimension {
	return &ArrayDimension{Name: name, Size: size, Start: 0, Stride: 1, Stop: size - 1}
}

// EncodedName returns the dimension name as it appears in a declaration.
func (ad *ArrayDimension) EncodedName() string {
	return EncodeName(ad.Name)
}

// SetProjection selects the elements start, start+stride, ... up to stop.
func (ad *ArrayDimension) SetProjection(start, stride, stop int) error {
	if start < 0 || stride < 1 || stop < start || stop >= ad.Size {
		return ErrInvalidDimension.New(start, stride, stop, ad.Name, ad.Size)
	}
	ad.Start, ad.Stride, ad.Stop = start, stride, stop
	return nil
}

// ResetProjection selects the whole dimension again.
func (ad *ArrayDimension) ResetProjection() {
	ad.Start, ad.Stride, ad.Stop = 0, 1, ad.Size-1
}

// ProjectedSize is the number of elements the projection selects.
func (ad *ArrayDimension) ProjectedSize() int {
	if ad.Size == 0 {
		return 0
	}
	return 1 + (ad.Stop-ad.Start)/ad.Stride
}

func (ad *ArrayDimension) isWhole() bool {
	return ad.Start == 0 && ad.Stride == 1 && ad.Stop == ad.Size-1
}

func (ad *ArrayDimension) sameProjection(o *ArrayDimension) bool {
	return ad.Start == o.Start && ad.Stride == o.Stride && ad.Stop == o.Stop
}

// Array is an n-dimensional vector of values shaped like its template. The
// values live in a PrimitiveVector, flattened in row major order.
type Array struct {
	baseType
	// mu serializes binary reads and writes of the vector.
	mu   sync.Mutex
	vals PrimitiveVector
	dims []*ArrayDimension
}

// NewArray returns an array of elements shaped like template. A nil
// template may be supplied later through AddVariable.
func NewArray(name string, template BaseType) *Array {
	a := &Array{}
	a.init(a, name)
	if template != nil {
		a.AddVariable(template)
	}
	return a
}

func (a *Array) Kind() Kind       { return ArrayKind }
func (a *Array) TypeName() string { return ArrayKind.String() }

// AddVariable sets the template of the array and resets its values.
func (a *Array) AddVariable(template BaseType) {
	if template.ClearName() == "" {
		template.SetClearName(a.ClearName())
	}
	template.SetParent(a)
	a.vals = NewPrimitiveVector(template)
}

// Template returns the variable describing one element, or nil.
func (a *Array) Template() BaseType {
	if a.vals == nil {
		return nil
	}
	return a.vals.Template()
}

func (a *Array) PrimitiveVector() PrimitiveVector {
	return a.vals
}

func (a *Array) Length() int {
	if a.vals == nil {
		return 0
	}
	return a.vals.Length()
}

func (a *Array) SetLength(n int) {
	d.PanicIfTrue(a.vals == nil)
	a.vals.SetLength(n)
}

// AppendDim adds a dimension. name may be empty.
func (a *Array) AppendDim(size int, name string) {
	a.dims = append(a.dims, newArrayDimension(name, size))
}

func (a *Array) Dimensions() []*ArrayDimension {
	return a.dims
}

func (a *Array) NumDimensions() int {
	return len(a.dims)
}

func (a *Array) Dimension(i int) (*ArrayDimension, error) {
	if i < 0 || i >= len(a.dims) {
		return nil, ErrNoSuchDimension.New(a.EncodedName(), i)
	}
	return a.dims[i], nil
}

func (a *Array) FirstDimension() *ArrayDimension {
	if len(a.dims) == 0 {
		return nil
	}
	return a.dims[0]
}

// DimensionsSize is the number of elements the dimensions describe.
func (a *Array) DimensionsSize() int {
	if len(a.dims) == 0 {
		return 0
	}
	n := 1
	for _, dim := range a.dims {
		n *= dim.Size
	}
	return n
}

// SetProjection sets the hyperslab of dimension i and marks the array
// projected.
func (a *Array) SetProjection(i, start, stride, stop int) error {
	dim, err := a.Dimension(i)
	if err != nil {
		return err
	}
	if err := dim.SetProjection(start, stride, stop); err != nil {
		return err
	}
	a.SetProject(true)
	return nil
}

func (a *Array) isWhole() bool {
	for _, dim := range a.dims {
		if !dim.isWhole() {
			return false
		}
	}
	return true
}

// projected returns the vector holding only the elements selected by the
// dimension projections.
func (a *Array) projected() (PrimitiveVector, error) {
	if a.isWhole() {
		return a.vals, nil
	}
	if a.vals.Length() != a.DimensionsSize() {
		return nil, ErrBadSemantics.New("array '" + a.EncodedName() + "' holds a different number of values than its dimensions describe")
	}

	var pv PrimitiveVector
	err := d.Try(func() {
		for _, dim := range a.dims {
			d.PanicIfFalse(dim.Stride >= 1 && dim.Start >= 0 && dim.Stop < dim.Size)
		}
		if len(a.dims) == 1 {
			dim := a.dims[0]
			pv = a.vals.Subset(dim.Start, dim.Stop, dim.Stride)
			return
		}
		idx := hyperslabIndices(a.dims)
		for _, i := range idx {
			d.PanicIfFalse(i >= 0 && i < a.vals.Length())
		}
		pv = a.vals.gather(idx)
	})
	if err != nil {
		return nil, ErrBadSemantics.New("array '" + a.EncodedName() + "' has a projection outside its dimensions")
	}
	return pv, nil
}

// hyperslabIndices lists, in row major order, the flat indices of the
// elements selected by dims.
func hyperslabIndices(dims []*ArrayDimension) []int {
	idx := []int{0}
	for _, dim := range dims {
		next := make([]int, 0, len(idx)*dim.ProjectedSize())
		for _, base := range idx {
			for i := dim.Start; i <= dim.Stop; i += dim.Stride {
				next = append(next, base*dim.Size+i)
			}
		}
		idx = next
	}
	return idx
}

func (a *Array) cloneDAG(m *CloneMap) Node {
	c := &Array{}
	m.register(a, c)
	a.cloneBase(m, a, &c.baseType)
	if a.vals != nil {
		c.vals = a.vals.cloneVector(m)
	}
	c.dims = make([]*ArrayDimension, len(a.dims))
	for i, dim := range a.dims {
		cd := *dim
		c.dims[i] = &cd
	}
	return c
}
