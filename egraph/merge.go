// Package egraph: equality processing and class merging.
//
// Every asserted or implied equality flows through processEquality: it
// pushes one edge, tests the assertion for inconsistency against the known
// disequalities, then merges the two classes. Congruences and value
// simplifications discovered while re-keying composites are queued and
// drained FIFO by processPending, so one assertion can cascade into an
// arbitrary number of edges - each edge recording exactly one merge.
package egraph

import (
	"math/bits"

	"github.com/katalvlaran/lvlsat/core"
)

// pushEdge appends an edge with its antecedent and returns its id.
func (eg *Egraph) pushEdge(x, y core.Occ, ant antecedent) core.EdgeID {
	k := eg.stack.top()
	eg.stack.lhs = append(eg.stack.lhs, x)
	eg.stack.rhs = append(eg.stack.rhs, y)
	eg.stack.ant = append(eg.stack.ant, ant)
	eg.stack.activity = append(eg.stack.activity, 0)
	eg.trail = append(eg.trail, edgeRec{})

	return k
}

// edgeNextTerm returns the endpoint term of edge e opposite to t.
func (eg *Egraph) edgeNextTerm(e core.EdgeID, t core.TermID) core.TermID {
	return eg.stack.lhs[e].Term() ^ eg.stack.rhs[e].Term() ^ t
}

// edgeNextOcc returns the endpoint occurrence of edge e opposite to o,
// with o's polarity carried across (the XOR identity lhs^rhs^o).
func (eg *Egraph) edgeNextOcc(e core.EdgeID, o core.Occ) core.Occ {
	return eg.stack.lhs[e] ^ eg.stack.rhs[e] ^ o
}

// run feeds one equality through processEquality and drains the fallout.
func (eg *Egraph) run(x, y core.Occ, ant antecedent) Result {
	if res := eg.processEquality(x, y, ant); res.Status == StatusConflict {
		eg.pending = eg.pending[:0]

		return res
	}

	return eg.processPending()
}

// processPending drains the implied-equality queue FIFO. On conflict the
// queue is cleared: the Boolean solver will backtrack past this state.
func (eg *Egraph) processPending() Result {
	for qi := 0; qi < len(eg.pending); qi++ {
		p := eg.pending[qi]
		if res := eg.processEquality(p.x, p.y, p.ant); res.Status == StatusConflict {
			eg.pending = eg.pending[:0]

			return res
		}
	}
	eg.pending = eg.pending[:0]

	return OK
}

// processEquality records and applies one equality x == y.
//
// Steps:
//  1. Equal labels: nothing to record, no edge.
//  2. Push the edge carrying the antecedent.
//  3. Inconsistency check (x provably ¬y, or the classes known-disequal):
//     build the conflict vector including this edge's own antecedent.
//  4. Merge the two classes.
func (eg *Egraph) processEquality(x, y core.Occ, ant antecedent) Result {
	l1, l2 := eg.labelOcc(x), eg.labelOcc(y)
	if l1 == l2 {
		return OK
	}

	k := eg.pushEdge(x, y, ant)

	if res, bad := eg.inconsistentEdge(x, y, k); bad {
		return res
	}

	eg.merge(k, x, y)

	return OK
}

// merge absorbs the class of x into the class of y (after orientation) and
// records edge k as the proof-forest link between them.
//
// Steps:
//  1. Orient: smaller class absorbed; the boolean-constant class survives
//     unconditionally so truth-value propagation only ever scans the
//     absorbed side.
//  2. Proof forest: re-root the absorbed tree at x's term, hang edge k there.
//  3. Snapshot the congruence keys of the absorbed class's use list.
//  4. Relabel every absorbed term by one XOR mask; collect implied literals
//     when the surviving class is the boolean-constant class.
//  5. Splice the membership rings (successor swap, self-inverse).
//  6. Fold dmask, size, use list and theory variables into the survivor;
//     equal theory variables on both sides notify the satellite.
//  7. Re-key the snapshot; collisions queue congruence merges.
//  8. New dmask bits propagate disequality notifications to satellites.
//
// Complexity: O(|absorbed| + Σ arity(parents)) per call; the weight rule
// bounds total relabelling to O(n log n) per decision level.
func (eg *Egraph) merge(k core.EdgeID, x, y core.Occ) {
	c1, c2 := eg.classOfOcc(x), eg.classOfOcc(y)
	if c1 == boolClass || (c2 != boolClass && eg.classes[c1].size > eg.classes[c2].size) {
		x, y = y, x
		c1, c2 = c2, c1
	}
	cl1, cl2 := &eg.classes[c1], &eg.classes[c2]

	// 2. Proof forest: x's term becomes the root of the absorbed tree.
	xt := x.Term()
	eg.invertBranch(xt)
	eg.edge[xt] = k

	// 3. Signatures must be captured before labels move.
	parents := cl1.parents
	oldKeys := eg.keyScratch[:0]
	for _, p := range parents {
		if eg.hashed[p] {
			oldKeys = append(oldKeys, eg.sigKey(p))
		} else {
			oldKeys = append(oldKeys, "")
		}
	}

	// 4. One XOR mask relabels class bits and polarity together.
	flip := eg.label[xt] ^ eg.label[y.Term()] ^ core.Label((x^y)&1)
	suppress := core.NullLit
	if eg.stack.ant[k].tag == TagAssert {
		suppress = eg.stack.ant[k].lit
	}
	r1 := cl1.root.Term()
	t := r1
	for {
		eg.label[t] ^= flip
		if c2 == boolClass {
			if lit := eg.atomLit[t]; lit != core.NullLit {
				if imp := lit ^ core.Lit(eg.label[t].Polarity()); imp != suppress {
					eg.implied = append(eg.implied, Implied{Lit: imp, Atom: core.Pos(t)})
				}
			}
		}
		t = eg.next[t].Term()
		if t == r1 {
			break
		}
	}

	// 5. Ring splice.
	r2 := cl2.root.Term()
	eg.next[r1], eg.next[r2] = eg.next[r2], eg.next[r1]

	// 6. Fold class attributes into the survivor.
	rec := mergeRec{
		flip:         flip,
		lhsTerm:      xt,
		absorbedRoot: r1,
		survivorRoot: r2,
		survivor:     c2,
		absorbed:     c1,
		oldDmask:     cl2.dmask,
		oldParents:   len(cl2.parents),
		oldThvar:     cl2.thvar,
		oldThterm:    cl2.thterm,
	}
	newBits := cl1.dmask &^ cl2.dmask
	cl2.dmask |= cl1.dmask
	cl2.size += cl1.size
	cl2.parents = append(cl2.parents, parents...)
	for th := range cl2.thvar {
		if cl1.thvar[th] == NullThVar {
			continue
		}
		if cl2.thvar[th] == NullThVar {
			cl2.thvar[th] = cl1.thvar[th]
			cl2.thterm[th] = cl1.thterm[th]
		} else if s := eg.satellites[th]; s != nil {
			s.NotifyEq(cl2.thvar[th], cl1.thvar[th])
		}
	}
	eg.trail = append(eg.trail, rec)

	// 7. Re-key the absorbed use list under the new labels.
	for i, p := range parents {
		if oldKeys[i] == "" {
			continue // hidden composite: not in the table
		}
		eg.rekey(p, oldKeys[i])
	}
	eg.keyScratch = oldKeys[:0]

	// 8. Fresh distinct bits on the survivor imply new disequalities, and a
	//    class that holds a constant is disequal to every other class that
	//    does: scan the theory-variable lists whenever membership of a
	//    constant-bearing class changed.
	if newBits != 0 {
		eg.propagateDmaskDiseqs(c2, newBits)
	}
	if cl2.dmask&1 != 0 {
		eg.propagateConstantDiseqs(c2)
	}
}

// invertBranch reverses the proof-forest path from t to its root, making t
// the root of its tree. The tree stays a spanning tree of the class; only
// the orientation of the stored edge indices changes.
func (eg *Egraph) invertBranch(t core.TermID) {
	prev := core.NullEdge
	for {
		e := eg.edge[t]
		eg.edge[t] = prev
		if e == core.NullEdge {
			return
		}
		prev = e
		t = eg.edgeNextTerm(e, t)
	}
}

// propagateDmaskDiseqs notifies satellites of disequalities that appear when
// the surviving class gains distinct bits: for each gained bit i ≥ 1, every
// child of the i-th distinct atom outside the class and still carrying bit i
// is now disequal to the class. Bit 0 (constants) is skipped here; merge
// handles it through propagateConstantDiseqs.
func (eg *Egraph) propagateDmaskDiseqs(c core.ClassID, newBits uint32) {
	newBits &^= 1
	for newBits != 0 {
		i := uint32(bits.TrailingZeros32(newBits))
		newBits &^= 1 << i

		d := eg.dtable.atom[i]
		if d == core.NullTerm {
			continue
		}
		children := eg.bank.Children(d)

		u := core.NullOcc
		for _, ch := range children {
			if eg.classOfOcc(ch) == c {
				u = ch

				break
			}
		}
		if u == core.NullOcc {
			continue
		}
		for _, v := range children {
			cv := eg.classOfOcc(v)
			if cv == c || eg.classes[cv].dmask&(1<<i) == 0 {
				continue
			}
			eg.notifyDiseq(u, v, d)
		}
	}
}

// propagateConstantDiseqs notifies satellites that the class c - which
// contains a constant - is disequal to every other constant-bearing class
// carrying a theory variable. The hint is NullTerm: the justification is
// the pair of constants, captured by the hint-less pre-explanation form.
// Duplicate notifications across successive merges are possible; satellites
// treat notifications as idempotent.
func (eg *Egraph) propagateConstantDiseqs(c core.ClassID) {
	for th, s := range eg.satellites {
		if s == nil {
			continue
		}
		t1 := eg.classes[c].thterm[th]
		if t1 == core.NullTerm {
			continue
		}
		for _, c0 := range eg.thvarList[th] {
			if int(c0) >= len(eg.classes) {
				continue // variable's class was detached by a Pop
			}
			root := eg.classes[c0].root.Term()
			c2 := eg.label[root].Class() // current home of that variable
			if c2 == c || eg.classes[c2].dmask&1 == 0 {
				continue
			}
			t2 := eg.classes[c2].thterm[th]
			if t2 == core.NullTerm {
				continue
			}
			s.NotifyDiseq(t1, t2, core.NullTerm)
		}
	}
}

// notifyDiseq tells every satellite with theory variables on both classes
// that x and y are disequal, passing the hint composite for the two-phase
// pre-explanation protocol.
func (eg *Egraph) notifyDiseq(x, y core.Occ, hint core.TermID) {
	cx, cy := eg.classOfOcc(x), eg.classOfOcc(y)
	for th, s := range eg.satellites {
		if s == nil {
			continue
		}
		if eg.classes[cx].thvar[th] == NullThVar || eg.classes[cy].thvar[th] == NullThVar {
			continue
		}
		s.NotifyDiseq(x.Term(), y.Term(), hint)
	}
}
