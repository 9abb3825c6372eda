// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package dap

import "github.com/attic-labs/dap2/go/d"

// Node is implemented by everything that lives in a DAP2 tree: variables,
// attributes and attribute tables. A node knows its name in clear and
// encoded form, its parent, and whether it is part of the current
// projection.
type Node interface {
	ClearName() string
	EncodedName() string
	SetClearName(n string)
	SetEncodedName(n string)

	Parent() Node
	SetParent(p Node)

	IsProject() bool
	SetProject(p bool)

	// cloneDAG makes the receiver's copy, registering it in m before it
	// clones anything the receiver refers to.
	cloneDAG(m *CloneMap) Node
}

type node struct {
	clearName   string
	encodedName string
	parent      Node
	projected   bool
}

func newNode(clear string) node {
	return node{clearName: clear, encodedName: EncodeName(clear)}
}

func (n *node) ClearName() string {
	return n.clearName
}

func (n *node) EncodedName() string {
	return n.encodedName
}

func (n *node) SetClearName(clear string) {
	n.clearName = clear
	n.encodedName = EncodeName(clear)
}

func (n *node) SetEncodedName(encoded string) {
	n.encodedName = encoded
	n.clearName = DecodeName(encoded)
}

func (n *node) Parent() Node {
	return n.parent
}

func (n *node) SetParent(p Node) {
	n.parent = p
}

func (n *node) IsProject() bool {
	return n.projected
}

func (n *node) SetProject(p bool) {
	n.projected = p
}

// CloneMap records, for one clone operation, the copy made of every node
// visited so far. A CloneMap must not be reused across clone operations.
type CloneMap struct {
	root  Node
	nodes map[Node]Node
}

// NewCloneMap returns an empty map for cloning the graph below root. Nodes
// outside root's subtree are shared with the copy rather than cloned.
func NewCloneMap(root Node) *CloneMap {
	return &CloneMap{
		root: root,
		// the null node always maps to itself
		nodes: map[Node]Node{nil: nil},
	}
}

// Len returns the number of nodes cloned so far.
func (m *CloneMap) Len() int {
	return len(m.nodes) - 1
}

// Lookup returns the copy made of old, if any.
func (m *CloneMap) Lookup(old Node) (Node, bool) {
	c, ok := m.nodes[old]
	return c, ok
}

// register records c as the copy of old. Every node is copied at most once.
func (m *CloneMap) register(old, c Node) {
	_, seen := m.nodes[old]
	d.PanicIfTrue(seen)
	m.nodes[old] = c
}

func (m *CloneMap) inScope(n Node) bool {
	for p := n; p != nil; p = p.Parent() {
		if p == m.root {
			return true
		}
	}
	return false
}

// parentFor returns the parent the copy of old should carry.
func (m *CloneMap) parentFor(old Node) Node {
	p := old.Parent()
	if p == nil || old == m.root || !m.inScope(p) {
		return p
	}
	return CloneDAG(m, p)
}

// ref returns the copy of a node that is referred to but not owned, such as
// an alias target. References leaving the cloned subtree are kept as is.
func (m *CloneMap) ref(n Node) Node {
	if n == nil || !m.inScope(n) {
		return n
	}
	return CloneDAG(m, n)
}

// CloneDAG returns the copy of n for this clone operation, making it if n
// has not been reached before.
func CloneDAG(m *CloneMap, n Node) Node {
	if c, ok := m.nodes[n]; ok {
		return c
	}
	return n.cloneDAG(m)
}

func cloneNode[T Node](m *CloneMap, n T) T {
	c, _ := CloneDAG(m, n).(T)
	return c
}

// Clone returns a deep copy of the graph rooted at n. Parent references and
// alias bindings inside the graph point into the copy.
func Clone[T Node](n T) T {
	return cloneNode(NewCloneMap(n), n)
}
