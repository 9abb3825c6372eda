// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package dap

import (
	"bytes"
	"io"

	"github.com/attic-labs/dap2/go/d"
)

// DAS is a standalone attribute document. Its top level holds one container
// per variable, plus containers of dataset wide attributes.
type DAS struct {
	*AttributeTable
}

func NewDAS() *DAS {
	return &DAS{NewAttributeTable("")}
}

// AddAttributeTable adds table to the top level under name.
func (das *DAS) AddAttributeTable(name string, table *AttributeTable) error {
	return das.AddContainer(name, table)
}

// Table returns the named top level table. A top level alias
// yields the table of its target.
func (das *DAS) Table(name string) (*AttributeTable, error) {
	a := das.Attribute(name)
	if a == nil {
		return nil, ErrNoSuchAttribute.New(name)
	}
	if a.IsAlias() {
		a = a.AliasedAttribute()
		if a == nil {
			return nil, ErrNoSuchAttribute.New(name + " (unresolved alias)")
		}
	}
	return a.Container()
}

// TableN is like Table but returns nil instead of an error.
func (das *DAS) TableN(name string) *AttributeTable {
	t, _ := das.Table(name)
	return t
}

// ResolveAliases binds every alias in the DAS, then checks that every top
// level entry is a container or an alias to one.
func (das *DAS) ResolveAliases() error {
	if err := resolveDASAliases(das.AttributeTable); err != nil {
		return err
	}
	for _, a := range das.Attributes() {
		if !a.IsAlias() {
			if !a.IsContainer() {
				return ErrBadSemantics.New("top level attribute '" + a.EncodedName() + "' of a DAS must be a container")
			}
			continue
		}
		if t := a.AliasedAttribute(); t == nil || !t.IsContainer() {
			return ErrMalformedAlias.New(a.ClearName(), "a top level alias must refer to a container, '"+
				a.AliasedTo()+"' is not one")
		}
	}
	return nil
}

// Print writes the DAS in its text form.
func (das *DAS) Print(w io.Writer) error {
	return printDAS(w, das)
}

func (das *DAS) String() string {
	var buf bytes.Buffer
	d.PanicIfError(das.Print(&buf))
	return buf.String()
}

// Clone returns a deep copy of the DAS.
func (das *DAS) Clone() *DAS {
	return &DAS{Clone(das.AttributeTable)}
}
