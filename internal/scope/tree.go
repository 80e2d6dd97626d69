// Package scope holds the hierarchy of scopes that own the signals of a dump.
//
// Nodes live in an arena and refer to each other by index. A Builder is used
// while a dump is ingested; Freeze turns it into a read-only Tree.
package scope

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/dtkav/vcdview/internal/timeunit"
	"github.com/dtkav/vcdview/internal/wave"
)

// PathSeparator joins scope names in a signal path.
const PathSeparator = "->"

// NodeID indexes a scope node. The root is always 0.
type NodeID int

// Root is the synthetic node holding top level variables and scopes.
const Root NodeID = 0

// NoParent is the parent of the root.
const NoParent NodeID = -1

// SignalID indexes a signal in declaration order.
type SignalID int

// Node is one scope. Signals and Children are in declaration order.
type Node struct {
	Name     string
	Depth    int
	Parent   NodeID
	Signals  []SignalID
	Children []NodeID
}

// Tree is the frozen scope hierarchy.
type Tree struct {
	nodes   []Node
	signals []*wave.Signal
	owner   []NodeID
}

func (t *Tree) Node(id NodeID) Node              { return t.nodes[id] }
func (t *Tree) Signal(id SignalID) *wave.Signal { return t.signals[id] }
func (t *Tree) NumSignals() int                 { return len(t.signals) }
func (t *Tree) Owner(id SignalID) NodeID        { return t.owner[id] }

// Flatten lists the signals under n depth first: a scope's own signals come
// before the signals of its child scopes.
func (t *Tree) Flatten(n NodeID) []SignalID {
	node := t.nodes[n]
	out := append([]SignalID(nil), node.Signals...)
	for _, c := range node.Children {
		out = append(out, t.Flatten(c)...)
	}
	return out
}

// FlattenSignals is Flatten from the root resolved to signals. Display rows
// are indexed by this order.
func (t *Tree) FlattenSignals() []*wave.Signal {
	return lo.Map(t.Flatten(Root), func(id SignalID, _ int) *wave.Signal {
		return t.signals[id]
	})
}

// Path joins the names of the scopes from below the root down to the
// signal's own scope, e.g. "outer->inner". Top level signals have an empty
// path.
func (t *Tree) Path(id SignalID) string {
	var names []string
	for n := t.owner[id]; n != Root && n != NoParent; n = t.nodes[n].Parent {
		names = append(names, t.nodes[n].Name)
	}
	slices.Reverse(names)
	return strings.Join(names, PathSeparator)
}

// Label is the path and signal label, e.g. "top->cpu:clk(!)".
func (t *Tree) Label(id SignalID) string {
	path := t.Path(id)
	if path == "" {
		return t.signals[id].Label()
	}
	return path + ":" + t.signals[id].Label()
}

// MaxTimeOf is the latest event time of any signal under n, 0 if none.
func (t *Tree) MaxTimeOf(n NodeID) timeunit.Time {
	return lo.Reduce(t.Flatten(n), func(latest timeunit.Time, id SignalID, _ int) timeunit.Time {
		if ev, ok := t.signals[id].Last(); ok && ev.Time > latest {
			return ev.Time
		}
		return latest
	}, 0)
}

// MaxTime is MaxTimeOf the root.
func (t *Tree) MaxTime() timeunit.Time {
	return t.MaxTimeOf(Root)
}

// String dumps the hierarchy with signal event counts.
func (t *Tree) String() string {
	var sb strings.Builder
	t.dump(&sb, Root)
	return sb.String()
}

func (t *Tree) dump(sb *strings.Builder, n NodeID) {
	node := t.nodes[n]
	indent := strings.Repeat("  ", node.Depth-1)
	fmt.Fprintf(sb, "%sModule: %s, depth: %d\n", indent, node.Name, node.Depth)
	for _, id := range node.Signals {
		sig := t.signals[id]
		fmt.Fprintf(sb, "%s  Signal: %s, events: %d\n", indent, sig.Label(), sig.Len())
	}
	for _, c := range node.Children {
		t.dump(sb, c)
	}
}
