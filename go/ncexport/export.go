// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

// Package ncexport writes the numeric content of a DAP2 dataset to a netCDF classic file.
//
// Numeric scalars and arrays become netCDF variables, Grids become their array plus one
// variable per map, and the members of Structures are flattened into variables named
// "structure.member". Attributes follow their variables, container attributes are flattened the
// same way and resolved aliases are written with their target's values. String and Url
// variables, Sequences and arrays of constructors have no classic netCDF form and are skipped
// with a warning.
//
// netCDF classic has no unsigned types: Byte, UInt16 and UInt32 are stored in the signed type
// of the same width and marked with the attribute _Unsigned = "true".
package ncexport

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ctessum/cdf"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	goerrors "gopkg.in/src-d/go-errors.v1"

	"github.com/attic-labs/dap2/go/dap"
)

const UnsignedAttribute = "_Unsigned"

var ErrExport = goerrors.NewKind("netCDF export failed: %s")

type attr struct {
	name string
	val  interface{}
}

type variable struct {
	name  string
	dims  []string
	proto interface{}
	// vals is nil when the variable has no data; it is then filled.
	vals  interface{}
	attrs []attr
	seen  map[string]bool
}

func (v *variable) addAttr(name string, val interface{}) {
	if v.seen[name] {
		logrus.WithFields(logrus.Fields{"variable": v.name, "attribute": name}).Warn("skipping repeated attribute")
		return
	}
	v.seen[name] = true
	v.attrs = append(v.attrs, attr{name, val})
}

type exporter struct {
	dimNames []string
	dimSizes []int
	dims     map[string]int

	global *variable
	vars   []*variable
	names  map[string]bool
}

// Export writes dds, with its values, to rw as a netCDF classic file.
func Export(rw cdf.ReaderWriterAt, dds *dap.DDS) error {
	e := &exporter{
		dims:   map[string]int{},
		global: &variable{seen: map[string]bool{}},
		names:  map[string]bool{},
	}
	e.addAttributes(e.global, "", dds.Attributes())

	for _, v := range dds.Variables() {
		if err := e.addVariable("", v); err != nil {
			return err
		}
	}

	h := cdf.NewHeader(e.dimNames, e.dimSizes)
	for _, v := range e.vars {
		h.AddVariable(v.name, v.dims, v.proto)
		for _, a := range v.attrs {
			h.AddAttribute(v.name, a.name, a.val)
		}
	}
	for _, a := range e.global.attrs {
		h.AddAttribute("", a.name, a.val)
	}
	h.Define()
	if errs := h.Check(); len(errs) > 0 {
		return ErrExport.Wrap(errs[0], errs[0].Error())
	}

	f, err := cdf.Create(rw, h)
	if err != nil {
		return ErrExport.Wrap(err, err.Error())
	}

	for _, v := range e.vars {
		if v.vals == nil {
			if err := f.Fill(v.name); err != nil {
				return errors.Wrapf(err, "filling variable %s", v.name)
			}
			continue
		}
		// The writer reports io.EOF once the variable is full.
		if _, err := f.Writer(v.name, nil, nil).Write(v.vals); err != nil && err != io.EOF {
			return errors.Wrapf(err, "writing variable %s", v.name)
		}
	}

	logrus.WithFields(logrus.Fields{
		"dataset":    dds.EncodedName(),
		"variables":  len(e.vars),
		"dimensions": len(e.dimNames),
	}).Debug("exported netCDF file")
	return nil
}

// ExportFile creates the file at path and exports dds to it.
func ExportFile(path string, dds *dap.DDS) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "closing %s", path)
		}
	}()
	return Export(f, dds)
}

func skip(name, why string) {
	logrus.WithField("variable", name).Warn("skipping variable: " + why)
}

func (e *exporter) addVariable(prefix string, v dap.BaseType) error {
	name := prefix + v.EncodedName()

	switch x := v.(type) {
	case *dap.Structure:
		for _, child := range x.Variables() {
			if err := e.addVariable(name+".", child); err != nil {
				return err
			}
		}
		return nil
	case *dap.Sequence:
		skip(name, "sequences have no netCDF classic form")
		return nil
	case *dap.Grid:
		if x.Array() == nil {
			return ErrExport.New("grid '" + name + "' has no array")
		}
		nv, err := e.addArray(name, x.Array())
		if err != nil || nv == nil {
			return err
		}
		e.addAttributes(nv, "", x.Attributes())
		e.addAttributes(nv, "", x.Array().Attributes())
		for _, m := range x.Maps() {
			mapName := prefix + m.EncodedName()
			if e.names[mapName] {
				// Grids sharing a coordinate map export it once.
				continue
			}
			mv, err := e.addArray(mapName, m)
			if err != nil {
				return err
			}
			if mv != nil {
				e.addAttributes(mv, "", m.Attributes())
			}
		}
		return nil
	case *dap.Array:
		nv, err := e.addArray(name, x)
		if err != nil || nv == nil {
			return err
		}
		e.addAttributes(nv, "", x.Attributes())
		return nil
	}

	proto, vals, ok := scalarValues(v)
	if !ok {
		skip(name, v.TypeName()+" variables have no netCDF classic form")
		return nil
	}
	nv := e.newVariable(name, nil, proto, vals, v.Kind())
	if nv != nil {
		e.addAttributes(nv, "", v.Attributes())
	}
	return nil
}

func (e *exporter) newVariable(name string, dims []string, proto, vals interface{}, k dap.Kind) *variable {
	if e.names[name] {
		skip(name, "a variable with this name was already exported")
		return nil
	}
	e.names[name] = true

	nv := &variable{name: name, dims: dims, proto: proto, vals: vals, seen: map[string]bool{}}
	if k == dap.ByteKind || k == dap.UInt16Kind || k == dap.UInt32Kind {
		nv.addAttr(UnsignedAttribute, "true")
	}
	e.vars = append(e.vars, nv)
	return nv
}

func (e *exporter) addArray(name string, a *dap.Array) (*variable, error) {
	template := a.Template()
	if template == nil {
		return nil, ErrExport.New("array '" + name + "' has no element type")
	}

	proto, vals, ok := vectorValues(a.PrimitiveVector())
	if !ok {
		skip(name, "arrays of "+template.TypeName()+" have no netCDF classic form")
		return nil, nil
	}

	n := a.DimensionsSize()
	if n == 0 {
		skip(name, "empty arrays cannot be stored")
		return nil, nil
	}
	switch a.Length() {
	case 0:
		vals = nil
	case n:
	default:
		return nil, ErrExport.New(fmt.Sprintf("array '%s' holds %d values for %d elements", name, a.Length(), n))
	}

	dims := make([]string, a.NumDimensions())
	for i, d := range a.Dimensions() {
		dims[i] = e.dimension(name, i, d)
	}
	return e.newVariable(name, dims, proto, vals, template.Kind()), nil
}

// dimension returns the netCDF dimension for dimension i of variable name. Dimensions with the
// same name and size are shared; unnamed or conflicting ones are named after the variable.
func (e *exporter) dimension(name string, i int, d *dap.ArrayDimension) string {
	dn := d.EncodedName()
	if dn == "" {
		dn = fmt.Sprintf("%s_dim%d", name, i)
	}
	for suffix := 1; ; suffix++ {
		idx, ok := e.dims[dn]
		if !ok {
			e.dims[dn] = len(e.dimNames)
			e.dimNames = append(e.dimNames, dn)
			e.dimSizes = append(e.dimSizes, d.Size)
			return dn
		}
		if e.dimSizes[idx] == d.Size {
			return dn
		}
		dn = fmt.Sprintf("%s_dim%d_%d", name, i, suffix)
	}
}

func scalarValues(v dap.BaseType) (proto, vals interface{}, ok bool) {
	switch x := v.(type) {
	case *dap.Byte:
		return []uint8{}, []uint8{x.Value()}, true
	case *dap.Int16:
		return []int16{}, []int16{x.Value()}, true
	case *dap.UInt16:
		return []int16{}, []int16{int16(x.Value())}, true
	case *dap.Int32:
		return []int32{}, []int32{x.Value()}, true
	case *dap.UInt32:
		return []int32{}, []int32{int32(x.Value())}, true
	case *dap.Float32:
		return []float32{}, []float32{x.Value()}, true
	case *dap.Float64:
		return []float64{}, []float64{x.Value()}, true
	}
	return nil, nil, false
}

func vectorValues(pv dap.PrimitiveVector) (proto, vals interface{}, ok bool) {
	switch x := pv.(type) {
	case *dap.ByteVector:
		return []uint8{}, x.Values(), true
	case *dap.Int16Vector:
		return []int16{}, x.Values(), true
	case *dap.UInt16Vector:
		out := make([]int16, x.Length())
		for i, n := range x.Values() {
			out[i] = int16(n)
		}
		return []int16{}, out, true
	case *dap.Int32Vector:
		return []int32{}, x.Values(), true
	case *dap.UInt32Vector:
		out := make([]int32, x.Length())
		for i, n := range x.Values() {
			out[i] = int32(n)
		}
		return []int32{}, out, true
	case *dap.Float32Vector:
		return []float32{}, x.Values(), true
	case *dap.Float64Vector:
		return []float64{}, x.Values(), true
	}
	return nil, nil, false
}

func (e *exporter) addAttributes(v *variable, prefix string, t *dap.AttributeTable) {
	for _, a := range t.Attributes() {
		name := prefix + a.EncodedName()
		target := a
		if a.IsAlias() {
			if target = a.AliasedAttribute(); target == nil {
				logrus.WithField("attribute", name).Warn("skipping unresolved alias")
				continue
			}
		}

		if target.IsContainer() {
			e.addAttributes(v, name+".", target.ContainerN())
			continue
		}

		val, err := attributeValue(target.Type(), target.Values())
		if err != nil {
			logrus.WithField("attribute", name).WithError(err).Warn("skipping attribute")
			continue
		}
		if val != nil {
			v.addAttr(name, val)
		}
	}
}

// attributeValue converts attribute text to the slice type cdf stores. It returns nil for an
// attribute with no values.
func attributeValue(typ dap.AttrType, vals []string) (interface{}, error) {
	if len(vals) == 0 {
		return nil, nil
	}

	switch typ {
	case dap.AttrString, dap.AttrURL:
		return strings.Join(vals, "\n"), nil
	case dap.AttrByte:
		out := make([]uint8, len(vals))
		for i, s := range vals {
			n, err := strconv.ParseUint(s, 10, 8)
			if err != nil {
				return nil, err
			}
			out[i] = uint8(n)
		}
		return out, nil
	case dap.AttrInt16, dap.AttrUInt16:
		out := make([]int16, len(vals))
		for i, s := range vals {
			n, err := parseInteger(s, 16, typ == dap.AttrUInt16)
			if err != nil {
				return nil, err
			}
			out[i] = int16(n)
		}
		return out, nil
	case dap.AttrInt32, dap.AttrUInt32:
		out := make([]int32, len(vals))
		for i, s := range vals {
			n, err := parseInteger(s, 32, typ == dap.AttrUInt32)
			if err != nil {
				return nil, err
			}
			out[i] = int32(n)
		}
		return out, nil
	case dap.AttrFloat32:
		out := make([]float32, len(vals))
		for i, s := range vals {
			f, err := strconv.ParseFloat(s, 32)
			if err != nil {
				return nil, err
			}
			out[i] = float32(f)
		}
		return out, nil
	case dap.AttrFloat64:
		out := make([]float64, len(vals))
		for i, s := range vals {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, err
			}
			out[i] = f
		}
		return out, nil
	}
	return nil, ErrExport.New("attribute type " + typ.String() + " cannot be exported")
}

func parseInteger(s string, bits int, unsigned bool) (int64, error) {
	if unsigned {
		n, err := strconv.ParseUint(s, 10, bits)
		return int64(n), err
	}
	return strconv.ParseInt(s, 10, bits)
}
