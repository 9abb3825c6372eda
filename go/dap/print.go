// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package dap

import (
	"io"
	"strconv"
	"strings"

	"github.com/attic-labs/dap2/go/d"
)

const indent = "    "

// printer writes the text forms of DDS and DAS. The first write error
// sticks and later writes do nothing.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) write(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *printer) end(semi bool) {
	if semi {
		p.write(";\n")
	}
}

func quoteValue(s string) string {
	return `"` + normalizeName(s) + `"`
}

// Print writes the attribute as a line of DAS text, or as a block for a
// container.
func (a *Attribute) Print(w io.Writer, pad string) error {
	p := &printer{w: w}
	p.printAttribute(a, pad)
	return p.err
}

// Print writes the table as a named block of DAS text.
func (t *AttributeTable) Print(w io.Writer, pad string) error {
	p := &printer{w: w}
	p.printTable(t, pad)
	return p.err
}

func (p *printer) printAttribute(a *Attribute, pad string) {
	switch {
	case a.IsContainer():
		p.printTable(a.table, pad)
	case a.IsAlias():
		p.write(pad + "Alias " + a.EncodedName() + " " + a.AliasedTo() + ";\n")
	default:
		p.write(pad + a.TypeString() + " " + a.EncodedName() + " ")
		quote := a.typ == AttrString || a.typ == AttrURL
		for i, v := range a.values {
			if i > 0 {
				p.write(", ")
			}
			if quote {
				v = quoteValue(v)
			}
			p.write(v)
		}
		p.write(";\n")
	}
}

func (p *printer) printTable(t *AttributeTable, pad string) {
	p.write(pad + t.EncodedName() + " {\n")
	for _, a := range t.Attributes() {
		p.printAttribute(a, pad+indent)
	}
	p.write(pad + "}\n")
}

func printDAS(w io.Writer, das *DAS) error {
	p := &printer{w: w}
	p.write("Attributes {\n")
	for _, a := range das.Attributes() {
		p.printAttribute(a, indent)
	}
	p.write("}\n")
	return p.err
}

func printDDS(w io.Writer, dds *DDS, constrained bool) error {
	p := &printer{w: w}
	p.write(datasetTypeName + " {\n")
	for _, v := range dds.vars {
		p.printDecl(v, indent, true, constrained)
	}
	p.write("} " + dds.EncodedName() + ";\n")
	return p.err
}

// PrintDecl writes the declaration of v, indented by space and ended with
// a semicolon. When constrained only the projected parts of v are written.
func PrintDecl(w io.Writer, v BaseType, space string, constrained bool) error {
	p := &printer{w: w}
	p.printDecl(v, space, true, constrained)
	return p.err
}

func (p *printer) printDecl(v BaseType, space string, semi, constrained bool) {
	if constrained && !v.IsProject() {
		return
	}
	switch v := v.(type) {
	case *Array:
		p.printArrayDecl(v, space, constrained)
	case *Grid:
		p.printGridDecl(v, space, semi, constrained)
		return
	case Constructor:
		p.write(space + v.TypeName() + " {\n")
		for _, child := range v.Variables() {
			p.printDecl(child, space+indent, true, constrained)
		}
		p.write(space + "} " + v.EncodedName())
	default:
		p.write(space + v.TypeName() + " " + v.EncodedName())
	}
	p.end(semi)
}

func (p *printer) printArrayDecl(a *Array, space string, constrained bool) {
	switch t := a.Template().(type) {
	case nil:
		p.write(space + a.TypeName() + " " + a.EncodedName())
	case Constructor:
		p.write(space + t.TypeName() + " {\n")
		for _, child := range t.Variables() {
			p.printDecl(child, space+indent, true, false)
		}
		p.write(space + "} " + a.EncodedName())
	default:
		p.write(space + t.TypeName() + " " + a.EncodedName())
	}

	for _, dim := range a.dims {
		p.write("[")
		if dim.Name != "" {
			p.write(dim.EncodedName() + " = ")
		}
		size := dim.Size
		if constrained {
			size = dim.ProjectedSize()
		}
		p.write(strconv.Itoa(size) + "]")
	}
}

func (p *printer) printGridDecl(g *Grid, space string, semi, constrained bool) {
	if constrained {
		switch n := g.ProjectedComponents(true); {
		case n == 0:
			return
		case n == 1:
			// a single surviving part is declared as a plain array
			for _, part := range g.Variables() {
				p.printDecl(part, space, semi, true)
			}
			return
		case !g.ProjectionYieldsGrid(true):
			p.write(space + StructureKind.String() + " {\n")
			for _, part := range g.Variables() {
				p.printDecl(part, space+indent, true, true)
			}
			p.write(space + "} " + g.EncodedName())
			p.end(semi)
			return
		}
	}

	p.write(space + g.TypeName() + " {\n")
	p.write(space + "  ARRAY:\n")
	if g.array != nil {
		p.printDecl(g.array, space+indent, true, constrained)
	}
	p.write(space + "  MAPS:\n")
	for _, m := range g.maps {
		p.printDecl(m, space+indent, true, constrained)
	}
	p.write(space + "} " + g.EncodedName())
	p.end(semi)
}

// PrintVal writes the value of v. With withDecl set the value is preceded
// by the declaration of v and followed by a semicolon.
func PrintVal(w io.Writer, v BaseType, withDecl bool) error {
	p := &printer{w: w}
	if withDecl {
		p.printDecl(v, "", false, false)
		p.write(" = ")
	}
	p.printVal(v)
	if withDecl {
		p.write(";\n")
	}
	return p.err
}

func (p *printer) printVal(v BaseType) {
	switch v := v.(type) {
	case *Byte:
		p.write(strconv.FormatUint(uint64(v.val), 10))
	case *Int16:
		p.write(strconv.FormatInt(int64(v.val), 10))
	case *UInt16:
		p.write(strconv.FormatUint(uint64(v.val), 10))
	case *Int32:
		p.write(strconv.FormatInt(int64(v.val), 10))
	case *UInt32:
		p.write(strconv.FormatUint(uint64(v.val), 10))
	case *Float32:
		p.write(strconv.FormatFloat(float64(v.val), 'g', -1, 32))
	case *Float64:
		p.write(strconv.FormatFloat(v.val, 'g', -1, 64))
	case *String:
		p.write(quoteValue(v.val))
	case *URL:
		p.write(quoteValue(v.val))
	case *Array:
		p.printArrayVal(v)
	case *Grid:
		p.write("{  ARRAY: ")
		if v.array != nil {
			p.printVal(v.array)
		}
		p.write("  MAPS: ")
		for i, m := range v.maps {
			if i > 0 {
				p.write(", ")
			}
			p.printVal(m)
		}
		p.write(" }")
	case *Sequence:
		p.write("{ ")
		for i, row := range v.rows {
			if i > 0 {
				p.write(", ")
			}
			p.printRow(row)
		}
		p.write(" }")
	case Constructor:
		p.printRow(v.Variables())
	default:
		d.Panicf("cannot print values of %T", v)
	}
}

func (p *printer) printRow(vars []BaseType) {
	p.write("{ ")
	for i, v := range vars {
		if i > 0 {
			p.write(", ")
		}
		p.printVal(v)
	}
	p.write(" }")
}

func (p *printer) printArrayVal(a *Array) {
	if a.vals == nil {
		p.write("{}")
		return
	}
	n := a.vals.Length()
	shape := make([]int, 0, len(a.dims))
	for _, dim := range a.dims {
		shape = append(shape, dim.Size)
	}
	if len(shape) == 0 || a.DimensionsSize() != n {
		shape = []int{n}
	}
	p.printSlab(a.vals, shape, 0)
}

// printSlab writes the elements of pv starting at offset as nested braces,
// one level per entry of shape.
func (p *printer) printSlab(pv PrimitiveVector, shape []int, offset int) {
	p.write("{")
	stride := 1
	for _, s := range shape[1:] {
		stride *= s
	}
	for i := 0; i < shape[0]; i++ {
		if i > 0 {
			p.write(", ")
		}
		if len(shape) > 1 {
			p.printSlab(pv, shape[1:], offset+i*stride)
			continue
		}
		if btv, ok := pv.(*BaseTypeVector); ok {
			if e := btv.vals[offset+i]; e != nil {
				p.printVal(e)
			}
			continue
		}
		p.write(valueString(pv, offset+i))
	}
	p.write("}")
}

// DeclString returns the declaration of v.
func DeclString(v BaseType) string {
	var b strings.Builder
	d.PanicIfError(PrintDecl(&b, v, "", false))
	return b.String()
}
