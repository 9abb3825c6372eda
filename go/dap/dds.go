// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package dap

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/attic-labs/dap2/go/d"
)

const (
	datasetTypeName = "Dataset"

	// looseEndsSuffix disambiguates the DAS table holding the dataset's
	// non-container attributes from variables of the same name.
	looseEndsSuffix = "_DatasetAttributes"
)

// DDS describes a dataset: its top level variables and the dataset wide
// attributes.
type DDS struct {
	baseType
	vars    []BaseType
	factory BaseTypeFactory
	blobID  string
}

// NewDDS returns an empty dataset. A nil factory selects DefaultFactory.
func NewDDS(name string, factory BaseTypeFactory) *DDS {
	if factory == nil {
		factory = DefaultFactory{}
	}
	dds := &DDS{factory: factory}
	dds.init(dds, name)
	return dds
}

func (dds *DDS) Kind() Kind       { return StructureKind }
func (dds *DDS) TypeName() string { return datasetTypeName }

// Factory returns the factory used to build this dataset's variables.
func (dds *DDS) Factory() BaseTypeFactory {
	return dds.factory
}

// BlobContentID returns the id of the data blob holding this dataset's
// values, if it has been set.
func (dds *DDS) BlobContentID() string {
	return dds.blobID
}

func (dds *DDS) SetBlobContentID(id string) {
	dds.blobID = id
}

// NewBlobContentID assigns a fresh content id to the dataset's data blob.
func (dds *DDS) NewBlobContentID() string {
	dds.blobID = "cid:" + uuid.NewString()
	return dds.blobID
}

// AddVariable appends v to the top level of the dataset.
func (dds *DDS) AddVariable(v BaseType) {
	v.SetParent(dds)
	dds.vars = append(dds.vars, v)
}

// DelVariable removes the named variable from wherever it is found.
func (dds *DDS) DelVariable(name string) error {
	v, err := dds.Variable(name)
	if err != nil {
		return err
	}

	switch p := v.Parent().(type) {
	case *DDS:
		for i, tv := range p.vars {
			if tv == v {
				p.vars = append(p.vars[:i], p.vars[i+1:]...)
				v.SetParent(nil)
				return nil
			}
		}
	case *Structure:
		return p.DelVariable(v.ClearName())
	}
	return ErrBadSemantics.New("cannot delete '" + name + "' from a " + v.Parent().(BaseType).TypeName())
}

func (dds *DDS) Variables() []BaseType {
	return dds.vars
}

func (dds *DDS) VarCount() int {
	return len(dds.vars)
}

func (dds *DDS) Var(i int) BaseType {
	return dds.vars[i]
}

// Variable finds a variable by name. Dotted names are followed from the top
// level, and a plain name not found there is searched for at every depth.
func (dds *DDS) Variable(name string) (BaseType, error) {
	if v, err := findVariable(dds, name); err == nil {
		return v, nil
	}
	if path, ok := dds.Search(name); ok {
		return path[len(path)-1], nil
	}
	return nil, ErrNoSuchVariable.New(name)
}

// VariableN is like Variable but returns nil instead of an error.
func (dds *DDS) VariableN(name string) BaseType {
	v, _ := dds.Variable(name)
	return v
}

// MarkProjected projects the variable called name, everything below it and
// the variables holding it.
func (dds *DDS) MarkProjected(name string) error {
	v, err := dds.Variable(name)
	if err != nil {
		return err
	}
	SetProjected(v, true, true)
	for p := v.Parent(); p != nil; p = p.Parent() {
		if p == Node(dds) {
			break
		}
		if bt, ok := p.(BaseType); ok {
			bt.SetProject(true)
		}
	}
	return nil
}

// Search looks for a variable called name at any depth. It returns the
// variables on the path from the top level down to the match.
func (dds *DDS) Search(name string) ([]BaseType, bool) {
	var stack []BaseType
	for _, v := range dds.vars {
		if searchVariable(v, name, &stack) {
			return stack, true
		}
	}
	return nil, false
}

func searchVariable(v BaseType, name string, stack *[]BaseType) bool {
	*stack = append(*stack, v)
	if v.ClearName() == name || v.EncodedName() == name {
		return true
	}

	var children []BaseType
	switch v := v.(type) {
	case Constructor:
		children = v.Variables()
	case *Array:
		if t := v.Template(); t != nil {
			if c, ok := t.(Constructor); ok {
				children = c.Variables()
			}
		}
	}
	for _, child := range children {
		if searchVariable(child, name, stack) {
			return true
		}
	}
	*stack = (*stack)[:len(*stack)-1]
	return false
}

// CheckSemantics validates the dataset. With all set every variable is
// checked too.
func (dds *DDS) CheckSemantics(all bool) error {
	return CheckSemantics(dds, all)
}

// ResolveAliases binds every alias in the dataset's and its variables'
// attribute tables.
func (dds *DDS) ResolveAliases() error {
	var err error
	WalkVariables(dds, func(v BaseType) bool {
		if err != nil {
			return true
		}
		err = walkAliases(v.Attributes(), func(alias *Attribute) error {
			return resolveDDSAlias(dds, alias)
		})
		return err != nil
	})
	return err
}

// CheckForAttributeNameConflict fails if any constructor, the dataset
// included, has an attribute named like one of its child variables.
func (dds *DDS) CheckForAttributeNameConflict() error {
	var err error
	WalkVariables(dds, func(v BaseType) bool {
		if err != nil {
			return true
		}
		c, ok := v.(Constructor)
		if !ok {
			return false
		}
		for _, child := range c.Variables() {
			if c.Attributes().HasAttribute(child.ClearName()) {
				err = ErrBadSemantics.New("the variable '" + LongName(child) +
					"' has the same name as an attribute of its parent '" + c.EncodedName() + "'")
				return true
			}
		}
		return false
	})
	return err
}

// IngestDAS distributes the tables of das onto the variables they are named
// after and resolves the resulting aliases. Entries naming no variable are
// added to the attributes of the dataset.
func (dds *DDS) IngestDAS(das *DAS) error {
	if err := ingestTable(das.AttributeTable, dds); err != nil {
		return err
	}
	return dds.ResolveAliases()
}

func ingestTable(t *AttributeTable, v BaseType) error {
	for _, a := range t.Attributes() {
		if a.IsContainer() {
			if c, ok := v.(Constructor); ok {
				if child := directChild(c, a.ClearName()); child != nil {
					if err := ingestTable(a.table, child); err != nil {
						return err
					}
					continue
				}
			}
			logrus.WithFields(logrus.Fields{"table": a.ClearName(), "variable": v.EncodedName()}).
				Debug("attribute table matches no variable, attaching it to its parent")
		}
		if err := mergeAttribute(v.Attributes(), a); err != nil {
			return err
		}
	}
	return nil
}

func directChild(c Constructor, name string) BaseType {
	for _, v := range c.Variables() {
		if v.ClearName() == name || v.EncodedName() == name {
			return v
		}
	}
	return nil
}

// mergeAttribute copies a into dst, appending to or merging with an
// attribute of the same name.
func mergeAttribute(dst *AttributeTable, a *Attribute) error {
	existing := dst.Attribute(a.ClearName())
	if existing == nil {
		return dst.AddAttribute(Clone(a))
	}

	switch {
	case a.IsContainer() && existing.IsContainer():
		for _, child := range a.table.Attributes() {
			if err := mergeAttribute(existing.table, child); err != nil {
				return err
			}
		}
		return nil
	case a.IsContainer() || existing.IsContainer() || a.IsAlias() || existing.IsAlias():
		return ErrAttributeExists.New(a.ClearName(), dst.EncodedName())
	}
	return dst.AppendValues(a.ClearName(), a.Type(), a.values, false)
}

// GetDAS derives a DAS from the dataset: one table per variable carrying
// attributes, nested like the variables, plus the dataset's own tables. The
// dataset's non-container attributes are gathered into an extra table. The
// DAS has its aliases resolved.
func (dds *DDS) GetDAS() (*DAS, error) {
	das, err := dds.buildDAS()
	if err != nil {
		return nil, ErrDASBuild.Wrap(err, err.Error())
	}
	return das, nil
}

func (dds *DDS) buildDAS() (*DAS, error) {
	das := NewDAS()
	looseEndsName := dds.looseEndsTableName()

	var looseEnds *AttributeTable
	for _, a := range Clone(dds.table).Attributes() {
		if a.IsContainer() {
			if err := das.AddAttributeTable(a.ClearName(), a.table); err != nil {
				return nil, err
			}
			continue
		}
		if looseEnds == nil {
			looseEnds = NewAttributeTable(looseEndsName)
		}
		if err := looseEnds.AddAttribute(a); err != nil {
			return nil, err
		}
	}
	if looseEnds != nil {
		logrus.WithField("table", looseEndsName).Debug("gathering dataset attributes")
		if err := das.AddAttributeTable(looseEndsName, looseEnds); err != nil {
			return nil, err
		}
	}

	for _, v := range dds.vars {
		if err := buildDASTable(das.AttributeTable, v); err != nil {
			return nil, err
		}
	}

	err := walkAliases(das.AttributeTable, func(alias *Attribute) error {
		alias.alias.path = dds.dasAliasPath(alias.alias.path, looseEndsName)
		alias.bind(nil, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := das.ResolveAliases(); err != nil {
		return nil, err
	}
	return das, nil
}

// buildDASTable adds a copy of v's attributes to parent, with the tables of
// v's children nested inside it.
func buildDASTable(parent *AttributeTable, v BaseType) error {
	if !hasAttributes(v) {
		return nil
	}
	t := Clone(v.Attributes())
	if err := parent.AddContainer(v.ClearName(), t); err != nil {
		return err
	}
	if c, ok := v.(Constructor); ok {
		for _, child := range c.Variables() {
			if err := buildDASTable(t, child); err != nil {
				return err
			}
		}
	}
	return nil
}

func hasAttributes(v BaseType) bool {
	found := false
	WalkVariables(v, func(v BaseType) bool {
		if v.Attributes().Len() > 0 {
			found = true
		}
		return found
	})
	return found
}

// looseEndsTableName picks a name for the DAS table of the dataset's
// non-container attributes that collides with no variable or attribute.
func (dds *DDS) looseEndsTableName() string {
	name := dds.ClearName()
	if name == "" {
		name = strings.TrimPrefix(looseEndsSuffix, "_")
	}
	for attempt := 0; dds.nameTaken(name); attempt++ {
		if attempt == 0 {
			name += looseEndsSuffix + "_0"
		} else {
			name = name[:strings.LastIndexByte(name, '_')] + "_" + strconv.Itoa(attempt)
		}
		logrus.WithField("name", name).Trace("retrying dataset attribute table name")
	}
	return name
}

func (dds *DDS) nameTaken(name string) bool {
	return directChild(dds, name) != nil || dds.table.HasAttribute(name)
}

// dasAliasPath rewrites an alias path written against the dataset so that
// it resolves in the derived DAS, where the dataset's non-container
// attributes live in the table called looseEndsName.
func (dds *DDS) dasAliasPath(path, looseEndsName string) string {
	tokens, err := tokenizeAliasPath("", path)
	if err != nil || len(tokens) < 2 || tokens[0] != rootMarker {
		return path
	}
	first := tokens[1]
	for _, v := range dds.vars {
		if nameMatches(v, first) {
			return path
		}
	}
	for _, a := range dds.table.Attributes() {
		if a.IsContainer() && nameMatches(a, first) {
			return path
		}
	}
	return rootMarker + quoteSegment(looseEndsName) + path
}

// Print writes the declaration of the dataset.
func (dds *DDS) Print(w io.Writer) error {
	return printDDS(w, dds, false)
}

// PrintConstrained writes the declaration of the projected variables only.
func (dds *DDS) PrintConstrained(w io.Writer) error {
	return printDDS(w, dds, true)
}

// String returns the declaration of the dataset.
func (dds *DDS) String() string {
	var buf bytes.Buffer
	d.PanicIfError(dds.Print(&buf))
	return buf.String()
}

// PrintDAS writes the DAS derived from the dataset.
func (dds *DDS) PrintDAS(w io.Writer) error {
	das, err := dds.GetDAS()
	if err != nil {
		return err
	}
	return das.Print(w)
}

// PrintVal writes every top level variable with its value.
func (dds *DDS) PrintVal(w io.Writer) error {
	for _, v := range dds.vars {
		if err := PrintVal(w, v, true); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy of the dataset sharing its factory.
func (dds *DDS) Clone() *DDS {
	return Clone(dds)
}

func (dds *DDS) cloneDAG(m *CloneMap) Node {
	c := &DDS{factory: dds.factory, blobID: dds.blobID}
	m.register(dds, c)
	dds.cloneBase(m, dds, &c.baseType)
	c.vars = cloneVars(m, dds.vars)
	return c
}
