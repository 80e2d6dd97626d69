package scope

import (
	"github.com/dtkav/vcdview/internal/timeunit"
	"github.com/dtkav/vcdview/internal/wave"
)

// DeclKind tells scopes and variables apart in a declaration tree.
type DeclKind uint8

const (
	ScopeDecl DeclKind = iota
	VarDecl
)

// Decl is one node of the declaration tree a decoder reads from a dump
// header. Scopes have Children; variables have ID and Width.
type Decl struct {
	Kind     DeclKind
	Name     string
	ID       string
	Width    int
	Children []Decl
}

// Builder accumulates the scope hierarchy and the events of its signals.
type Builder struct {
	nodes   []Node
	signals []*wave.SignalBuilder
	owner   []NodeID
	byID    map[string][]SignalID
}

// NewBuilder starts a hierarchy with an empty root named rootName at depth 1.
func NewBuilder(rootName string) *Builder {
	return &Builder{
		nodes: []Node{{Name: rootName, Depth: 1, Parent: NoParent}},
		byID:  make(map[string][]SignalID),
	}
}

// Build creates a Builder whose root holds decls.
func Build(rootName string, decls []Decl) *Builder {
	b := NewBuilder(rootName)
	for _, d := range decls {
		b.Add(Root, d)
	}
	return b
}

// Add declares d, and for scopes everything below it, inside parent.
func (b *Builder) Add(parent NodeID, d Decl) {
	switch d.Kind {
	case VarDecl:
		id := SignalID(len(b.signals))
		b.signals = append(b.signals, wave.NewSignalBuilder(d.ID, d.Name, d.Width))
		b.owner = append(b.owner, parent)
		b.nodes[parent].Signals = append(b.nodes[parent].Signals, id)
		b.byID[d.ID] = append(b.byID[d.ID], id)
	case ScopeDecl:
		n := NodeID(len(b.nodes))
		b.nodes = append(b.nodes, Node{
			Name:   d.Name,
			Depth:  b.nodes[parent].Depth + 1,
			Parent: parent,
		})
		b.nodes[parent].Children = append(b.nodes[parent].Children, n)
		for _, c := range d.Children {
			b.Add(n, c)
		}
	}
}

// Dispatch appends an event to every signal declared with id. It reports
// false when no signal has that id; such events are dropped.
func (b *Builder) Dispatch(id string, t timeunit.Time, v wave.Value) (bool, error) {
	targets, ok := b.byID[id]
	if !ok {
		return false, nil
	}
	for _, s := range targets {
		if err := b.signals[s].Append(t, v); err != nil {
			return true, err
		}
	}
	return true, nil
}

// NumSignals is the number of declared variables so far.
func (b *Builder) NumSignals() int { return len(b.signals) }

// Freeze hands the hierarchy over to a read-only Tree. The Builder must not
// be used afterwards.
func (b *Builder) Freeze() *Tree {
	t := &Tree{
		nodes:   b.nodes,
		signals: make([]*wave.Signal, len(b.signals)),
		owner:   b.owner,
	}
	for i, s := range b.signals {
		t.signals[i] = s.Freeze()
	}
	b.nodes, b.signals, b.owner, b.byID = nil, nil, nil, nil
	return t
}
