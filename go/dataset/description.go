// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

// Package dataset builds populated DAP2 datasets from YAML descriptions.
//
// A description names the dataset, its attributes and its variables. Every variable has a
// type (any DAP2 type name) and optionally attributes and a value:
//
//	name: ocean
//	attributes:
//	  - name: title
//	    values: [Sea surface]
//	  - name: NC_GLOBAL
//	    attributes:
//	      - {name: source, values: [model]}
//	variables:
//	  - name: sst
//	    type: Array
//	    of: {type: Float64}
//	    dims: [{name: lat, size: 3}]
//	    attributes:
//	      - {name: units, values: [K]}
//	      - {name: title, alias: .title}
//	    value: [271.3, 275.0, 280.5]
//
// Structures and Sequences list their members under variables, a Grid names its array and
// maps. A Structure's value is a list in member order or a map keyed by member name, a
// Sequence's value is a list of such rows.
package dataset

import (
	"bytes"
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Description is the decoded form of a dataset description.
type Description struct {
	Name string `yaml:"name"`
	// Version is the protocol version the dataset is encoded for. Defaults to 3.2.
	Version    string      `yaml:"version,omitempty"`
	Attributes []Attribute `yaml:"attributes,omitempty"`
	Variables  []Variable  `yaml:"variables"`
}

// Attribute describes one attribute. It is an alias when Alias is set, a container when it
// has nested Attributes or its Type is Container, and a String attribute when Type is empty.
// Values keep their source text, so `yes` stays the string "yes".
type Attribute struct {
	Name       string      `yaml:"name"`
	Type       string      `yaml:"type,omitempty"`
	Values     []yaml.Node `yaml:"values,omitempty"`
	Alias      string      `yaml:"alias,omitempty"`
	Attributes []Attribute `yaml:"attributes,omitempty"`
}

type Dimension struct {
	Name string `yaml:"name,omitempty"`
	Size int    `yaml:"size"`
}

// Variable describes one variable.
type Variable struct {
	Name string `yaml:"name,omitempty"`
	Type string `yaml:"type"`

	// Of is the element of an Array. Its name defaults to the array's.
	Of   *Variable   `yaml:"of,omitempty"`
	Dims []Dimension `yaml:"dims,omitempty"`

	Array *Variable  `yaml:"array,omitempty"`
	Maps  []Variable `yaml:"maps,omitempty"`

	Variables  []Variable  `yaml:"variables,omitempty"`
	Attributes []Attribute `yaml:"attributes,omitempty"`
	Value      yaml.Node   `yaml:"value,omitempty"`
}

// HasValue returns true if the description gives the variable a value. An
// explicit null counts as no value.
func (vd Variable) HasValue() bool {
	return vd.Value.Kind != 0 && !(vd.Value.Kind == yaml.ScalarNode && vd.Value.ShortTag() == "!!null")
}

// Parse decodes a YAML description. Unknown keys are an error.
func Parse(data []byte) (*Description, error) {
	var desc Description
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&desc); err != nil {
		return nil, ErrBadDescription.Wrap(err, err.Error())
	}
	return &desc, nil
}

// Load reads and decodes the description in the file at path.
func Load(path string) (*Description, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read dataset description '%s'", path)
	}

	desc, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse dataset description '%s'", path)
	}
	return desc, nil
}
