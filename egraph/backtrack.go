// Package egraph: checkpointing and exact decremental undo.
//
// Every state mutation leaves a typed record on the trail; Pop replays the
// records newest-to-oldest. Undo must be exact - the causality invariant
// (every antecedent references only smaller edge indices) survives only if
// popped state is restored bit for bit. Two deliberate exceptions, per the
// design notes: edge activity bytes are not part of causality and are not
// restored, and satellite registrations / theory-variable wiring persist.
package egraph

import "github.com/katalvlaran/lvlsat/core"

// trailRec is one undoable mutation.
type trailRec interface {
	undo(eg *Egraph)
}

// edgeRec undoes one pushEdge: the stack shrinks by one entry.
type edgeRec struct{}

func (edgeRec) undo(eg *Egraph) {
	n := len(eg.stack.lhs) - 1
	eg.stack.lhs = eg.stack.lhs[:n]
	eg.stack.rhs = eg.stack.rhs[:n]
	eg.stack.ant[n] = antecedent{} // release permutation arrays and payloads
	eg.stack.ant = eg.stack.ant[:n]
	eg.stack.activity = eg.stack.activity[:n]
}

// mergeRec undoes one class merge.
type mergeRec struct {
	flip         core.Label
	lhsTerm      core.TermID
	absorbedRoot core.TermID
	survivorRoot core.TermID
	survivor     core.ClassID
	absorbed     core.ClassID
	oldDmask     uint32
	oldParents   int
	oldThvar     [NumTheories]ThVar
	oldThterm    [NumTheories]core.TermID
}

func (r mergeRec) undo(eg *Egraph) {
	// Detach the proof-forest link. The absorbed tree stays re-rooted at
	// lhsTerm; any spanning tree of the class is a valid proof forest.
	eg.edge[r.lhsTerm] = core.NullEdge

	// The ring splice is a successor swap: swapping again undoes it.
	eg.next[r.absorbedRoot], eg.next[r.survivorRoot] = eg.next[r.survivorRoot], eg.next[r.absorbedRoot]

	// Restore the labels of the (again separate) absorbed ring.
	t := r.absorbedRoot
	for {
		eg.label[t] ^= r.flip
		t = eg.next[t].Term()
		if t == r.absorbedRoot {
			break
		}
	}

	cl2 := &eg.classes[r.survivor]
	cl2.dmask = r.oldDmask
	cl2.parents = cl2.parents[:r.oldParents]
	cl2.size -= eg.classes[r.absorbed].size
	cl2.thvar = r.oldThvar
	cl2.thterm = r.oldThterm
}

// rekeyRec undoes one congruence-table move of a composite.
type rekeyRec struct {
	comp   core.TermID
	oldKey string
	newKey string
	hidden bool
}

func (r rekeyRec) undo(eg *Egraph) {
	if r.hidden {
		eg.hashed[r.comp] = true
	} else {
		delete(eg.ctable, r.newKey)
	}
	eg.ctable[r.oldKey] = r.comp
}

// attachRec undoes one term attachment: the overlays shrink by one term,
// the singleton class disappears, use-list registrations are removed and
// the congruence-table entry (if the composite was the representative) is
// deleted. The term itself stays interned in the bank.
type attachRec struct {
	term          core.TermID
	key           string
	inserted      bool
	parentClasses []core.ClassID
}

func (r attachRec) undo(eg *Egraph) {
	if r.inserted {
		delete(eg.ctable, r.key)
	}
	for _, c := range r.parentClasses {
		pl := eg.classes[c].parents
		eg.classes[c].parents = pl[:len(pl)-1]
	}

	n := len(eg.label) - 1
	if core.TermID(n) != r.term {
		panic("egraph: internal: attach undo out of order")
	}
	if lit := eg.atomLit[n]; lit != core.NullLit {
		delete(eg.litAtom, lit)
	}
	eg.label = eg.label[:n]
	eg.edge = eg.edge[:n]
	eg.next = eg.next[:n]
	eg.hashed = eg.hashed[:n]
	eg.atomLit = eg.atomLit[:n]
	eg.classes = eg.classes[:n]
}

// dmaskRec undoes one dmask write from a distinct registration.
type dmaskRec struct {
	class core.ClassID
	old   uint32
}

func (r dmaskRec) undo(eg *Egraph) {
	eg.classes[r.class].dmask = r.old
}

// distinctBitRec undoes one distinct-atom bit allocation. Bits are
// allocated in order, so LIFO undo restores npreds exactly.
type distinctBitRec struct {
	bit uint32
}

func (r distinctBitRec) undo(eg *Egraph) {
	eg.dtable.atom[r.bit] = core.NullTerm
	eg.dtable.npreds = r.bit
}

// Push opens a scope and returns the new scope depth.
// Complexity: O(1).
func (eg *Egraph) Push() int {
	eg.scopes = append(eg.scopes, scope{
		trailLen: len(eg.trail),
		edgeTop:  eg.stack.top(),
		implied:  len(eg.implied),
	})

	return len(eg.scopes)
}

// Pop undoes the newest n scopes, restoring classes, labels, masks, the
// congruence table and the edge stack to their state at the matching Push.
// Pending propagations queued after that Push are dropped.
// Complexity: O(work undone).
func (eg *Egraph) Pop(n int) error {
	if n <= 0 {
		return nil
	}
	if n > len(eg.scopes) {
		return ErrBadScope
	}

	sc := eg.scopes[len(eg.scopes)-n]
	eg.scopes = eg.scopes[:len(eg.scopes)-n]

	for len(eg.trail) > sc.trailLen {
		last := len(eg.trail) - 1
		rec := eg.trail[last]
		eg.trail[last] = nil
		eg.trail = eg.trail[:last]
		rec.undo(eg)
	}

	if eg.stack.top() != sc.edgeTop {
		panic("egraph: internal: edge stack height mismatch after pop")
	}
	if len(eg.implied) > sc.implied {
		eg.implied = eg.implied[:sc.implied]
	}
	eg.pending = eg.pending[:0]

	return nil
}

// Scopes returns the current Push depth.
func (eg *Egraph) Scopes() int { return len(eg.scopes) }
