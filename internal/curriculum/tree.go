// Package curriculum assembles flat hierarchy rows into a curriculum tree.
//
// Nodes live in an arena keyed by (kind, id). Children are referenced by id
// through an explicit ordered list, so traversal order is the order in which
// rows first introduced each child and never depends on map iteration.
package curriculum

import "github.com/alexanderramin/gradebook/internal/domain"

// Ref addresses a node in the arena. Ids are unique per level, not globally.
type Ref struct {
	Kind domain.NodeKind
	ID   string
}

// Node is one level of the hierarchy.
type Node struct {
	Kind        domain.NodeKind
	ID          string
	Name        string
	Description string   // content points only
	ChildIDs    []string // ordered ids of children of the next kind
}

// Ref returns the arena address of n.
func (n *Node) Ref() Ref {
	return Ref{Kind: n.Kind, ID: n.ID}
}

// Tree is the assembled hierarchy for one stage.
type Tree struct {
	nodes    map[Ref]*Node
	subjects []string
	// linked tracks parent→child edges already recorded so reused nodes are
	// listed once per parent.
	linked map[edge]struct{}
}

type edge struct {
	parent Ref
	child  string
}

// Build assembles rows into a tree in a single pass. For each row it
// ensures-or-reuses the node at every level, descending until it reaches a
// level whose id is empty.
func Build(rows []domain.HierarchyRow) *Tree {
	t := &Tree{
		nodes:  make(map[Ref]*Node),
		linked: make(map[edge]struct{}),
	}
	for _, row := range rows {
		t.addRow(row)
	}
	return t
}

func (t *Tree) addRow(row domain.HierarchyRow) {
	var parent *Node
	for _, kind := range domain.NodeKinds {
		id, name := row.Level(kind)
		if id == "" {
			return
		}
		n := t.ensure(kind, id, name)
		if kind == domain.KindContentPoint && n.Description == "" {
			n.Description = row.ContentPointDescription
		}
		t.link(parent, n)
		parent = n
	}
}

func (t *Tree) ensure(kind domain.NodeKind, id, name string) *Node {
	ref := Ref{Kind: kind, ID: id}
	if n, ok := t.nodes[ref]; ok {
		if n.Name == "" {
			n.Name = name
		}
		return n
	}
	n := &Node{Kind: kind, ID: id, Name: name}
	t.nodes[ref] = n
	return n
}

func (t *Tree) link(parent, child *Node) {
	var pref Ref
	if parent != nil {
		pref = parent.Ref()
	}
	e := edge{parent: pref, child: child.ID}
	if _, ok := t.linked[e]; ok {
		return
	}
	t.linked[e] = struct{}{}
	if parent == nil {
		t.subjects = append(t.subjects, child.ID)
		return
	}
	parent.ChildIDs = append(parent.ChildIDs, child.ID)
}

// Node looks up a node by kind and id.
func (t *Tree) Node(kind domain.NodeKind, id string) (*Node, bool) {
	n, ok := t.nodes[Ref{Kind: kind, ID: id}]
	return n, ok
}

// Subjects returns the root nodes in first-seen order.
func (t *Tree) Subjects() []*Node {
	out := make([]*Node, 0, len(t.subjects))
	for _, id := range t.subjects {
		out = append(out, t.nodes[Ref{Kind: domain.KindSubject, ID: id}])
	}
	return out
}

// Children returns n's children in order.
func (t *Tree) Children(n *Node) []*Node {
	kind, ok := n.Kind.ChildKind()
	if !ok {
		return nil
	}
	out := make([]*Node, 0, len(n.ChildIDs))
	for _, id := range n.ChildIDs {
		out = append(out, t.nodes[Ref{Kind: kind, ID: id}])
	}
	return out
}

// Len returns the number of distinct nodes in the arena.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Walk visits every node reachable from the subjects in pre-order. depth is
// zero for subjects. A node reused under several parents is visited once per
// parent. Returning false from fn skips the node's subtree.
func (t *Tree) Walk(fn func(n *Node, depth int) bool) {
	for _, s := range t.Subjects() {
		t.walk(s, 0, fn)
	}
}

func (t *Tree) walk(n *Node, depth int, fn func(*Node, int) bool) {
	if !fn(n, depth) {
		return
	}
	for _, c := range t.Children(n) {
		t.walk(c, depth+1, fn)
	}
}
