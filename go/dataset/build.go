// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package dataset

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"gopkg.in/src-d/go-errors.v1"
	"gopkg.in/yaml.v3"

	"github.com/attic-labs/dap2/go/dap"
)

var (
	ErrBadDescription = errors.NewKind("invalid dataset description: %s")
	ErrBadValue       = errors.NewKind("bad value for '%s': %s")
)

// Build makes the dataset desc describes using the default variable factory.
func Build(desc *Description) (*dap.DataDDS, error) {
	return BuildWithFactory(desc, dap.DefaultFactory{})
}

// BuildWithFactory makes the dataset desc describes, creating every variable through f. The
// result has passed a full semantics check and its aliases are resolved.
func BuildWithFactory(desc *Description, f dap.BaseTypeFactory) (*dap.DataDDS, error) {
	version := desc.Version
	if version == "" {
		version = dap.DefaultProtocolVersion
	}
	ver, err := dap.ParseServerVersion(version)
	if err != nil {
		return nil, err
	}

	dd := dap.NewDataDDS(desc.Name, ver, f)
	if err := addAttributes(dd.Attributes(), desc.Attributes); err != nil {
		return nil, err
	}

	for _, vd := range desc.Variables {
		v, err := buildVariable(f, vd)
		if err != nil {
			return nil, err
		}
		dd.AddVariable(v)
	}

	if err := dd.CheckSemantics(true); err != nil {
		return nil, err
	}
	if err := dd.ResolveAliases(); err != nil {
		return nil, err
	}

	logrus.Debugf("built dataset %s with %d variables", dd.EncodedName(), dd.VarCount())
	return dd, nil
}

func addAttributes(t *dap.AttributeTable, attrs []Attribute) error {
	for _, ad := range attrs {
		if ad.Name == "" {
			return ErrBadDescription.New("attribute without a name in '" + t.EncodedName() + "'")
		}

		switch {
		case ad.Alias != "":
			if err := t.AddAlias(ad.Name, ad.Alias); err != nil {
				return err
			}
		case len(ad.Attributes) > 0 || dap.ParseAttrType(ad.Type) == dap.AttrContainer:
			sub, err := t.AppendContainer(ad.Name)
			if err != nil {
				return err
			}
			if err := addAttributes(sub, ad.Attributes); err != nil {
				return err
			}
		default:
			typ := dap.AttrString
			if ad.Type != "" {
				typ = dap.ParseAttrType(ad.Type)
			}
			if typ == dap.AttrUnknown || typ == dap.AttrAlias {
				return ErrBadDescription.New(fmt.Sprintf("attribute '%s' has unusable type '%s'", ad.Name, ad.Type))
			}

			vals := make([]string, len(ad.Values))
			for i := range ad.Values {
				s, err := scalarText(ad.Name, &ad.Values[i])
				if err != nil {
					return err
				}
				vals[i] = s
			}
			if err := t.AppendValues(ad.Name, typ, vals, true); err != nil {
				return err
			}
		}
	}
	return nil
}

func buildVariable(f dap.BaseTypeFactory, vd Variable) (dap.BaseType, error) {
	k, ok := dap.ParseKind(vd.Type)
	if !ok {
		return nil, ErrBadDescription.New(fmt.Sprintf("variable '%s' has unknown type '%s'", vd.Name, vd.Type))
	}

	v, err := f.NewVariable(k, vd.Name)
	if err != nil {
		return nil, err
	}

	switch x := v.(type) {
	case *dap.Array:
		if vd.Of == nil {
			return nil, ErrBadDescription.New("array '" + vd.Name + "' has no element type")
		}
		template, err := buildVariable(f, *vd.Of)
		if err != nil {
			return nil, err
		}
		x.AddVariable(template)
		for _, dim := range vd.Dims {
			if dim.Size < 0 {
				return nil, ErrBadDescription.New(fmt.Sprintf("dimension '%s' of '%s' has negative size", dim.Name, vd.Name))
			}
			x.AppendDim(dim.Size, dim.Name)
		}
	case *dap.Grid:
		if vd.Array == nil {
			return nil, ErrBadDescription.New("grid '" + vd.Name + "' has no array")
		}
		if err := addGridPart(f, x, *vd.Array, dap.GridArray); err != nil {
			return nil, err
		}
		for _, md := range vd.Maps {
			if err := addGridPart(f, x, md, dap.GridMap); err != nil {
				return nil, err
			}
		}
	case *dap.Structure:
		for _, child := range vd.Variables {
			cv, err := buildVariable(f, child)
			if err != nil {
				return nil, err
			}
			x.AddVariable(cv)
		}
	case *dap.Sequence:
		for _, child := range vd.Variables {
			cv, err := buildVariable(f, child)
			if err != nil {
				return nil, err
			}
			x.AddVariable(cv)
		}
	}

	if err := addAttributes(v.Attributes(), vd.Attributes); err != nil {
		return nil, err
	}
	if vd.HasValue() {
		if err := setValue(v, &vd.Value); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func addGridPart(f dap.BaseTypeFactory, g *dap.Grid, vd Variable, part dap.GridPart) error {
	v, err := buildVariable(f, vd)
	if err != nil {
		return err
	}
	return g.AddVariable(v, part)
}

// resolve follows a YAML alias to the node it names.
func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.SequenceNode:
		return "a list"
	case yaml.MappingNode:
		return "a map"
	case yaml.ScalarNode:
		return "a scalar"
	}
	return "nothing"
}

// scalarText returns the source text of a scalar node. Plain scalars such as yes, no, y or
// 1.50 are kept as written.
func scalarText(name string, raw *yaml.Node) (string, error) {
	n := resolve(raw)
	if n.Kind != yaml.ScalarNode || n.ShortTag() == "!!null" {
		return "", ErrBadValue.New(name, "expected a single value, got "+kindName(n))
	}
	return n.Value, nil
}

func setValue(v dap.BaseType, raw *yaml.Node) error {
	name := dap.LongName(v)
	n := resolve(raw)

	switch x := v.(type) {
	case *dap.Array:
		return setArray(x, n)
	case *dap.Sequence:
		if n.Kind != yaml.SequenceNode {
			return ErrBadValue.New(name, "a sequence takes a list of rows")
		}
		for _, r := range n.Content {
			row := x.NewRow()
			if err := setMembers(name, row, r); err != nil {
				return err
			}
			if err := x.AddRow(row); err != nil {
				return err
			}
		}
		return nil
	case dap.Constructor:
		return setMembers(name, x.Variables(), n)
	}

	s, err := scalarText(name, n)
	if err != nil {
		return err
	}
	return setScalar(v, s)
}

// setMembers assigns a list of values in member order, or a map of values by member name.
func setMembers(name string, vars []dap.BaseType, raw *yaml.Node) error {
	n := resolve(raw)
	switch n.Kind {
	case yaml.SequenceNode:
		if len(n.Content) != len(vars) {
			return ErrBadValue.New(name, fmt.Sprintf("%d values for %d members", len(n.Content), len(vars)))
		}
		for i, mv := range n.Content {
			if err := setValue(vars[i], mv); err != nil {
				return err
			}
		}
		return nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := resolve(n.Content[i])
			member := memberNamed(vars, k.Value)
			if member == nil {
				return ErrBadValue.New(name, fmt.Sprintf("no member named '%s'", k.Value))
			}
			if err := setValue(member, n.Content[i+1]); err != nil {
				return err
			}
		}
		return nil
	}
	return ErrBadValue.New(name, "expected a list or a map, got "+kindName(n))
}

func memberNamed(vars []dap.BaseType, name string) dap.BaseType {
	for _, v := range vars {
		if v.ClearName() == name {
			return v
		}
	}
	return nil
}

func setScalar(v dap.BaseType, s string) error {
	name := dap.LongName(v)
	bad := func(err error) error {
		return ErrBadValue.New(name, err.Error())
	}

	switch x := v.(type) {
	case *dap.Byte:
		n, err := strconv.ParseUint(s, 10, 8)
		if err != nil {
			return bad(err)
		}
		x.SetValue(uint8(n))
	case *dap.Int16:
		n, err := strconv.ParseInt(s, 10, 16)
		if err != nil {
			return bad(err)
		}
		x.SetValue(int16(n))
	case *dap.UInt16:
		n, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return bad(err)
		}
		x.SetValue(uint16(n))
	case *dap.Int32:
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return bad(err)
		}
		x.SetValue(int32(n))
	case *dap.UInt32:
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return bad(err)
		}
		x.SetValue(uint32(n))
	case *dap.Float32:
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return bad(err)
		}
		x.SetValue(float32(f))
	case *dap.Float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return bad(err)
		}
		x.SetValue(f)
	case *dap.String:
		x.SetValue(s)
	case *dap.URL:
		x.SetValue(s)
	default:
		return ErrBadValue.New(name, v.TypeName()+" does not take a single value")
	}
	return nil
}

// setArray fills an array from a flat list in row major order. The list must cover every
// element the dimensions describe.
func setArray(a *dap.Array, n *yaml.Node) error {
	name := dap.LongName(a)
	if n.Kind != yaml.SequenceNode {
		return ErrBadValue.New(name, "an array takes a list, got "+kindName(n))
	}
	list := n.Content
	if size := a.DimensionsSize(); len(list) != size {
		return ErrBadValue.New(name, fmt.Sprintf("%d values for %d elements", len(list), size))
	}

	a.SetLength(len(list))
	pv := a.PrimitiveVector()

	if bv, ok := pv.(*dap.BaseTypeVector); ok {
		for i, ev := range list {
			e := dap.Clone(bv.Template())
			if err := setValue(e, ev); err != nil {
				return err
			}
			bv.SetValue(i, e)
		}
		return nil
	}

	// Atomic elements are parsed through a scratch copy of the template.
	scratch := dap.Clone(pv.Template())
	for i, ev := range list {
		s, err := scalarText(name, ev)
		if err != nil {
			return err
		}
		if err := setScalar(scratch, s); err != nil {
			return ErrBadValue.New(name, fmt.Sprintf("element %d: %s", i, s))
		}
		storeElement(pv, i, scratch)
	}
	return nil
}

func storeElement(pv dap.PrimitiveVector, i int, v dap.BaseType) {
	switch vec := pv.(type) {
	case *dap.ByteVector:
		vec.SetValue(i, v.(*dap.Byte).Value())
	case *dap.Int16Vector:
		vec.SetValue(i, v.(*dap.Int16).Value())
	case *dap.UInt16Vector:
		vec.SetValue(i, v.(*dap.UInt16).Value())
	case *dap.Int32Vector:
		vec.SetValue(i, v.(*dap.Int32).Value())
	case *dap.UInt32Vector:
		vec.SetValue(i, v.(*dap.UInt32).Value())
	case *dap.Float32Vector:
		vec.SetValue(i, v.(*dap.Float32).Value())
	case *dap.Float64Vector:
		vec.SetValue(i, v.(*dap.Float64).Value())
	case *dap.StringVector:
		switch s := v.(type) {
		case *dap.String:
			vec.SetValue(i, s.Value())
		case *dap.URL:
			vec.SetValue(i, s.Value())
		}
	default:
		panic("unreachable")
	}
}
