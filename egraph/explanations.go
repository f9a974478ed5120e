// Package egraph: the explanation engine.
//
// There are two phases to generating explanations. When an equality is
// implied, an edge is pushed and an antecedent attached to it; the
// antecedent encodes the reason for the implication. When the Boolean
// solver later needs the reason, the antecedents are visited and expanded
// into a vector of literals.
//
// Expansion works over a queue of marked edges: explaining edge i starts
// with queue = {i}; each step either replaces an edge by the edges its
// antecedent depends on (via proof-forest paths) or retires it into a
// literal. The queue drains when only asserted literals remain.
//
// Causality: the information stored as antecedent to edge i must allow the
// same explanation to be reconstructed whenever i is expanded later - in
// particular, expansion must not introduce any equality asserted after i.
// Distinct-atom antecedents re-select their witness children under the
// path-precedes-edge test for exactly this reason.
package egraph

import (
	"math/bits"

	"github.com/katalvlaran/lvlsat/core"
)

// beginExplain acquires the shared explanation scratch (queue, marks, imap).
func (eg *Egraph) beginExplain() error {
	if eg.inExplain {
		return ErrReentrantExplain
	}
	eg.inExplain = true

	return nil
}

// endExplain releases the scratch.
func (eg *Egraph) endExplain() { eg.inExplain = false }

// enqueueEdge adds edge i to the explanation queue unless already marked.
func (eg *Egraph) enqueueEdge(i core.EdgeID) {
	if eg.stack.mark.Test(uint(i)) {
		return
	}
	eg.stack.mark.Set(uint(i))
	eg.explQueue = append(eg.explQueue, i)
}

// markPath enqueues every edge on the proof-forest path from t1 up to its
// ancestor t.
func (eg *Egraph) markPath(t1, t core.TermID) {
	for t1 != t {
		i := eg.edge[t1]
		if i == core.NullEdge {
			panic("egraph: internal: broken proof-forest path")
		}
		eg.enqueueEdge(i)
		t1 = eg.edgeNextTerm(i, t1)
	}
}

// commonAncestor finds the nearest common ancestor of t1 and t2 in the
// proof forest. Both must be in the same class. The technique is
// mark-both-paths, scan-second, unmark-first: O(depth), no extra storage
// beyond one bit per term.
func (eg *Egraph) commonAncestor(t1, t2 core.TermID) core.TermID {
	// Mark every term on the path from t1 to its root.
	t := t1
	for {
		eg.tmark.Set(uint(t))
		i := eg.edge[t]
		if i == core.NullEdge {
			break
		}
		t = eg.edgeNextTerm(i, t)
	}

	// The first marked ancestor of t2 is the meeting point.
	for !eg.tmark.Test(uint(t2)) {
		i := eg.edge[t2]
		if i == core.NullEdge {
			panic("egraph: internal: terms share no proof-forest root")
		}
		t2 = eg.edgeNextTerm(i, t2)
	}

	// Clear the marks laid on t1's path.
	for {
		eg.tmark.Clear(uint(t1))
		i := eg.edge[t1]
		if i == core.NullEdge {
			break
		}
		t1 = eg.edgeNextTerm(i, t1)
	}

	return t2
}

// explainEq enqueues the edges proving x == y (or x == ¬y): the two
// proof-forest paths meeting at the common ancestor.
// x and y must be in the same class.
func (eg *Egraph) explainEq(x, y core.Occ) {
	tx, ty := x.Term(), y.Term()
	if tx == ty {
		return
	}
	w := eg.commonAncestor(tx, ty)
	eg.markPath(tx, w)
	eg.markPath(ty, w)
}

// pathPrecedesEdge reports whether every edge on the path from t1 up to its
// ancestor t has an index smaller than k - i.e. whether t1 == t already
// held when edge k was added.
func (eg *Egraph) pathPrecedesEdge(t1, t core.TermID, k core.EdgeID) bool {
	for t1 != t {
		i := eg.edge[t1]
		if i >= k {
			return false
		}
		t1 = eg.edgeNextTerm(i, t1)
	}

	return true
}

// causallyEqual reports whether x == y (or x == ¬y) held when edge k was
// added. x and y must be in the same class now.
func (eg *Egraph) causallyEqual(x, y core.Occ, k core.EdgeID) bool {
	tx, ty := x.Term(), y.Term()
	if tx == ty {
		return true
	}
	w := eg.commonAncestor(tx, ty)

	return eg.pathPrecedesEdge(tx, w, k) && eg.pathPrecedesEdge(ty, w, k)
}

// constantInClass returns the positive occurrence of a constant in x's
// class. The class must contain one (dmask bit 0).
func (eg *Egraph) constantInClass(x core.Occ) core.Occ {
	t := x.Term()
	for eg.bank.Kind(t) != core.KindConstant {
		t = eg.next[t].Term()
		if t == x.Term() {
			panic("egraph: internal: dmask bit 0 set on class without constant")
		}
	}

	return core.Pos(t)
}

// explainDiseqViaConstants explains x != y via dmask bit 0: each side is
// explained equal to the constant in its class.
func (eg *Egraph) explainDiseqViaConstants(x, y core.Occ) {
	eg.explainEq(x, eg.constantInClass(x))
	eg.explainEq(y, eg.constantInClass(y))
}

// explainDiseqViaEq explains x != y via a false atom (eq u v) with u in
// x's class and v in y's class (possibly swapped).
func (eg *Egraph) explainDiseqViaEq(x, y core.Occ, eqc core.TermID) {
	t := core.Pos(eqc)
	eg.explainEq(t, core.FalseOcc)

	ch := eg.bank.Children(eqc)
	if eg.classOfOcc(x) != eg.classOfOcc(ch[0]) {
		x, y = y, x
	}
	eg.explainEq(x, ch[0])
	eg.explainEq(y, ch[1])
}

// explainDiseqViaDistinct explains x != y via a true atom
// (distinct u_1 … u_n) with some u_i in x's class and some u_j in y's.
// The witnesses are chosen among children equal to x resp. y before edge k,
// so the explanation stays valid for the edge that recorded it.
func (eg *Egraph) explainDiseqViaDistinct(x, y core.Occ, d core.TermID, k core.EdgeID) {
	eg.explainEq(core.Pos(d), core.TrueOcc)

	cx, cy := eg.classOfOcc(x), eg.classOfOcc(y)
	tx, ty := core.NullOcc, core.NullOcc
	for _, t := range eg.bank.Children(d) {
		switch {
		case tx == core.NullOcc && eg.classOfOcc(t) == cx && eg.causallyEqual(t, x, k):
			tx = t
		case ty == core.NullOcc && eg.classOfOcc(t) == cy && eg.causallyEqual(t, y, k):
			ty = t
		}
		if tx != core.NullOcc && ty != core.NullOcc {
			break
		}
	}
	if tx == core.NullOcc || ty == core.NullOcc {
		panic("egraph: internal: distinct antecedent lost its witnesses")
	}

	eg.explainEq(x, tx)
	eg.explainEq(y, ty)
}

// explainDiseqViaDmasks explains x != y via the i-th registered distinct
// atom, 1 ≤ i ≤ 31, with causal cut-off k.
func (eg *Egraph) explainDiseqViaDmasks(x, y core.Occ, i uint32, k core.EdgeID) {
	d := eg.dtable.atom[i]
	if d == core.NullTerm {
		panic("egraph: internal: dmask bit without registered distinct atom")
	}
	eg.explainDiseqViaDistinct(x, y, d, k)
}

// explainDiseq explains x != y at the current time: dmask first, then a
// false eq atom. Callers must know the disequality holds.
func (eg *Egraph) explainDiseq(x, y core.Occ) {
	c1, c2 := eg.classOfOcc(x), eg.classOfOcc(y)
	msk := eg.classes[c1].dmask & eg.classes[c2].dmask
	switch {
	case msk&1 != 0:
		eg.explainDiseqViaConstants(x, y)
	case msk != 0:
		eg.explainDiseqViaDmasks(x, y, uint32(bits.TrailingZeros32(msk)), eg.stack.top())
	default:
		cmp := eg.findEq(x, y)
		if cmp == core.NullTerm || !eg.IsFalseOcc(core.Pos(cmp)) {
			panic("egraph: internal: disequality has no supporting evidence")
		}
		eg.explainDiseqViaEq(x, y, cmp)
	}
}

// explainSimpOrFalse explains (or t_1 … t_n) == false: every child is false.
func (eg *Egraph) explainSimpOrFalse(c core.TermID) {
	for _, t := range eg.bank.Children(c) {
		eg.explainEq(t, core.FalseOcc)
	}
}

// explainSimpOr explains (or t_1 … t_n) == v: each child is false or equals v.
func (eg *Egraph) explainSimpOr(c core.TermID, v core.Occ) {
	for _, t := range eg.bank.Children(c) {
		if eg.IsFalseOcc(t) {
			eg.explainEq(t, core.FalseOcc)
		} else {
			eg.explainEq(t, v)
		}
	}
}

// explainCongruence explains congruence of apply/update/tuple composites:
// children are pairwise equal.
func (eg *Egraph) explainCongruence(c1, c2 core.TermID) {
	ch1, ch2 := eg.bank.Children(c1), eg.bank.Children(c2)
	for i := range ch1 {
		eg.explainEq(ch1[i], ch2[i])
	}
}

// explainEqCongruence1 explains (eq a b) ~ (eq u v) with direct alignment.
func (eg *Egraph) explainEqCongruence1(c1, c2 core.TermID) {
	ch1, ch2 := eg.bank.Children(c1), eg.bank.Children(c2)
	eg.explainEq(ch1[0], ch2[0])
	eg.explainEq(ch1[1], ch2[1])
}

// explainEqCongruence2 explains (eq a b) ~ (eq u v) with crossed alignment.
func (eg *Egraph) explainEqCongruence2(c1, c2 core.TermID) {
	ch1, ch2 := eg.bank.Children(c1), eg.bank.Children(c2)
	eg.explainEq(ch1[0], ch2[1])
	eg.explainEq(ch1[1], ch2[0])
}

// explainIteCongruence1 explains (ite c a b) ~ (ite c' a' b') directly.
func (eg *Egraph) explainIteCongruence1(c1, c2 core.TermID) {
	ch1, ch2 := eg.bank.Children(c1), eg.bank.Children(c2)
	eg.explainEq(ch1[0], ch2[0])
	eg.explainEq(ch1[1], ch2[1])
	eg.explainEq(ch1[2], ch2[2])
}

// explainIteCongruence2 explains the flipped-condition variant: the first
// call covers c == ¬c' (explainEq handles opposite polarity on one path),
// and the branches are swapped.
func (eg *Egraph) explainIteCongruence2(c1, c2 core.TermID) {
	ch1, ch2 := eg.bank.Children(c1), eg.bank.Children(c2)
	eg.explainEq(ch1[0], ch2[0])
	eg.explainEq(ch1[1], ch2[2])
	eg.explainEq(ch1[2], ch2[1])
}

// explainOrCongruence explains (or t_1 … t_n) ~ (or u_1 … u_m) through the
// witness array: t_i == perm[i] and u_j == perm[n+j].
func (eg *Egraph) explainOrCongruence(c1, c2 core.TermID, perm []core.Occ) {
	ch1, ch2 := eg.bank.Children(c1), eg.bank.Children(c2)
	for i, t := range ch1 {
		eg.explainEq(t, perm[i])
	}
	for j, u := range ch2 {
		eg.explainEq(u, perm[len(ch1)+j])
	}
}

// explainDistinctCongruence explains (distinct t_1 … t_n) ~
// (distinct u_1 … u_n) through the stored permutation: t_i == perm[i].
func (eg *Egraph) explainDistinctCongruence(c1 core.TermID, perm []core.Occ) {
	for i, t := range eg.bank.Children(c1) {
		eg.explainEq(t, perm[i])
	}
}

// explainTheoryEquality expands a satellite propagation edge: the satellite
// returns atoms (pushed verbatim), equalities (expanded through the proof
// forest) and disequalities with captured pre-explanations.
func (eg *Egraph) explainTheoryEquality(tag AntTag, i core.EdgeID, v []core.Lit) []core.Lit {
	s := eg.satellites[theoryOf(tag)]
	if s == nil {
		panic("egraph: internal: propagation edge without satellite")
	}

	t1, t2 := eg.stack.lhs[i].Term(), eg.stack.rhs[i].Term()
	te := s.ExpandExplanation(t1, t2, eg.stack.ant[i].opaque)

	v = append(v, te.Atoms...)
	for _, e := range te.Eqs {
		eg.explainEq(core.Pos(e[0]), core.Pos(e[1]))
	}
	for _, d := range te.Diseqs {
		eg.enqueuePreExpl(d)
	}

	return v
}

// enqueuePreExpl expands one captured disequality pre-explanation into
// explainEq obligations. The hint-less form (Hint == NullTerm) carries two
// distinct constants in U1, U2 and needs no hint truth value.
func (eg *Egraph) enqueuePreExpl(p DiseqPreExpl) {
	if p.Hint != core.NullTerm {
		h := core.Pos(p.Hint)
		if eg.bank.Kind(p.Hint) == core.KindEq {
			eg.explainEq(h, core.FalseOcc)
		} else {
			eg.explainEq(h, core.TrueOcc)
		}
	}
	eg.explainEq(core.Pos(p.T1), core.Pos(p.U1))
	eg.explainEq(core.Pos(p.T2), core.Pos(p.U2))
}

// buildExplanationVector drains the explanation queue into v, dispatching
// on each edge's antecedent; the queue grows as antecedents enqueue the
// edges they depend on. On exit the marks are cleared, activity counters
// bumped (saturating at 255) and the queue reset.
func (eg *Egraph) buildExplanationVector(v []core.Lit) []core.Lit {
	for qi := 0; qi < len(eg.explQueue); qi++ {
		i := eg.explQueue[qi]
		ant := eg.stack.ant[i]

		switch {
		case ant.tag == TagAxiom:
			// definitional: no literals

		case ant.tag == TagAssert:
			v = append(v, ant.lit)

		case ant.tag == TagEq:
			eg.explainEq(ant.t1, ant.t2)

		case ant.tag.isDistinct():
			if bit := ant.tag.distinctBit(); bit == 0 {
				eg.explainDiseqViaConstants(ant.t1, ant.t2)
			} else {
				eg.explainDiseqViaDmasks(ant.t1, ant.t2, bit, i)
			}

		case ant.tag == TagSimpOr:
			c := eg.stack.lhs[i].Term()
			if eg.stack.rhs[i] == core.FalseOcc {
				eg.explainSimpOrFalse(c)
			} else {
				eg.explainSimpOr(c, eg.stack.rhs[i])
			}

		case ant.tag == TagBasicCongruence:
			eg.explainCongruence(eg.stack.lhs[i].Term(), eg.stack.rhs[i].Term())

		case ant.tag == TagEqCongruence1:
			eg.explainEqCongruence1(eg.stack.lhs[i].Term(), eg.stack.rhs[i].Term())

		case ant.tag == TagEqCongruence2:
			eg.explainEqCongruence2(eg.stack.lhs[i].Term(), eg.stack.rhs[i].Term())

		case ant.tag == TagIteCongruence1:
			eg.explainIteCongruence1(eg.stack.lhs[i].Term(), eg.stack.rhs[i].Term())

		case ant.tag == TagIteCongruence2:
			eg.explainIteCongruence2(eg.stack.lhs[i].Term(), eg.stack.rhs[i].Term())

		case ant.tag == TagOrCongruence:
			eg.explainOrCongruence(eg.stack.lhs[i].Term(), eg.stack.rhs[i].Term(), ant.perm)

		case ant.tag == TagDistinctCongruence:
			eg.explainDistinctCongruence(eg.stack.lhs[i].Term(), ant.perm)

		default: // theory propagation
			v = eg.explainTheoryEquality(ant.tag, i, v)
		}
	}

	for _, i := range eg.explQueue {
		eg.stack.mark.Clear(uint(i))
		if eg.stack.activity[i] < 255 {
			eg.stack.activity[i]++
		}
	}
	eg.explQueue = eg.explQueue[:0]

	return v
}

// ExplainEdge expands edge i into the asserted literals entailing its
// conclusion. Every edge visited has an index ≤ i by construction of the
// antecedents (causality invariant).
func (eg *Egraph) ExplainEdge(i core.EdgeID) ([]core.Lit, error) {
	if i < 0 || i >= eg.stack.top() {
		return nil, ErrBadEdge
	}
	if err := eg.beginExplain(); err != nil {
		return nil, err
	}
	defer eg.endExplain()

	eg.enqueueEdge(i)

	return eg.buildExplanationVector(nil), nil
}

// ExplainEquality expands x == y into asserted literals. The occurrences
// must be provably equal; anything else is a caller bug.
func (eg *Egraph) ExplainEquality(x, y core.Occ) ([]core.Lit, error) {
	if err := eg.requireAttached(x); err != nil {
		return nil, err
	}
	if err := eg.requireAttached(y); err != nil {
		return nil, err
	}
	if eg.labelOcc(x) != eg.labelOcc(y) {
		return nil, ErrDifferentClasses
	}
	if err := eg.beginExplain(); err != nil {
		return nil, err
	}
	defer eg.endExplain()

	eg.explainEq(x, y)

	return eg.buildExplanationVector(nil), nil
}

// ExplainDisequality expands x != y into asserted literals, via polarity
// opposition, the dmasks, or a false eq atom.
func (eg *Egraph) ExplainDisequality(x, y core.Occ) ([]core.Lit, error) {
	if err := eg.requireAttached(x); err != nil {
		return nil, err
	}
	if err := eg.requireAttached(y); err != nil {
		return nil, err
	}
	if err := eg.beginExplain(); err != nil {
		return nil, err
	}
	defer eg.endExplain()

	if eg.labelOcc(x) == eg.labelOcc(y).Flip() {
		eg.explainEq(x, y)

		return eg.buildExplanationVector(nil), nil
	}

	c1, c2 := eg.classOfOcc(x), eg.classOfOcc(y)
	if c1 == c2 {
		return nil, ErrNotDisequal
	}
	if eg.classes[c1].dmask&eg.classes[c2].dmask == 0 {
		cmp := eg.findEq(x, y)
		if cmp == core.NullTerm || !eg.IsFalseOcc(core.Pos(cmp)) {
			return nil, ErrNotDisequal
		}
	}
	eg.explainDiseq(x, y)

	return eg.buildExplanationVector(nil), nil
}

// ExplainTermDiseq expands t1 != t2 using the hint composite passed in the
// original NotifyDiseq. This variant re-selects witnesses at call time, so
// it must not be used lazily after further merges - satellites that defer
// expansion use the two-phase pre-explanations instead.
func (eg *Egraph) ExplainTermDiseq(t1, t2, hint core.TermID) ([]core.Lit, error) {
	if !eg.attached(t1) || !eg.attached(t2) {
		return nil, ErrNotAttached
	}
	if hint != core.NullTerm && !eg.attached(hint) {
		return nil, ErrNotAttached
	}
	if err := eg.beginExplain(); err != nil {
		return nil, err
	}
	defer eg.endExplain()

	switch {
	case hint == core.NullTerm:
		eg.explainDiseqViaConstants(core.Pos(t1), core.Pos(t2))
	case eg.bank.Kind(hint) == core.KindEq:
		eg.explainDiseqViaEq(core.Pos(t1), core.Pos(t2), hint)
	default:
		eg.explainDiseqViaDistinct(core.Pos(t1), core.Pos(t2), hint, eg.stack.top())
	}

	return eg.buildExplanationVector(nil), nil
}

// StoreDiseqPreExpl is the eager step of the two-phase protocol: capture,
// at notification time, the hint children matching t1 and t2. With a
// NullTerm hint (constant-based disequality) the captured witnesses are
// the constants in the two classes instead.
func (eg *Egraph) StoreDiseqPreExpl(t1, t2, hint core.TermID) (DiseqPreExpl, error) {
	if !eg.attached(t1) || !eg.attached(t2) {
		return DiseqPreExpl{}, ErrNotAttached
	}

	if hint == core.NullTerm {
		c1, c2 := eg.label[t1].Class(), eg.label[t2].Class()
		if c1 == c2 || eg.classes[c1].dmask&eg.classes[c2].dmask&1 == 0 {
			return DiseqPreExpl{}, ErrNotDisequal
		}

		return DiseqPreExpl{
			Hint: core.NullTerm, T1: t1, T2: t2,
			U1: eg.constantInClass(core.Pos(t1)).Term(),
			U2: eg.constantInClass(core.Pos(t2)).Term(),
		}, nil
	}

	if !eg.attached(hint) {
		return DiseqPreExpl{}, ErrNotAttached
	}
	u1 := eg.findEqualChild(hint, core.Pos(t1))
	u2 := eg.findEqualChild(hint, core.Pos(t2))
	if u1 == core.NullOcc || u2 == core.NullOcc || u1 == u2 {
		return DiseqPreExpl{}, ErrNotDisequal
	}

	return DiseqPreExpl{Hint: hint, T1: t1, T2: t2, U1: u1.Term(), U2: u2.Term()}, nil
}

// ExpandDiseqPreExpl is the lazy step: turn a captured pre-explanation into
// asserted literals.
func (eg *Egraph) ExpandDiseqPreExpl(p DiseqPreExpl) ([]core.Lit, error) {
	if !eg.attached(p.T1) || !eg.attached(p.T2) {
		return nil, ErrNotAttached
	}
	if p.Hint != core.NullTerm && !eg.attached(p.Hint) {
		return nil, ErrNotAttached
	}
	if err := eg.beginExplain(); err != nil {
		return nil, err
	}
	defer eg.endExplain()

	eg.enqueuePreExpl(p)

	return eg.buildExplanationVector(nil), nil
}

// explainDistinctViaDmask explains why (distinct t_1 … t_n) holds when the
// AND of all child dmasks is non-zero: all children equal distinct
// constants, or another true distinct atom subsumes this one.
func (eg *Egraph) explainDistinctViaDmask(d core.TermID, dmsk uint32) {
	children := eg.bank.Children(d)

	i := uint32(bits.TrailingZeros32(dmsk))
	if i == 0 {
		for _, t := range children {
			eg.explainEq(t, eg.constantInClass(t))
		}

		return
	}

	dpred := eg.dtable.atom[i]
	if dpred == core.NullTerm {
		panic("egraph: internal: dmask bit without registered distinct atom")
	}
	eg.explainEq(core.Pos(dpred), core.TrueOcc)

	// Map label(t_i) -> t_i, then explain each child of the subsuming atom
	// equal to the child of d sharing its label.
	for _, t := range children {
		l := int32(eg.labelOcc(t))
		if _, ok := eg.imap[l]; ok {
			panic("egraph: internal: equal children in true distinct atom")
		}
		eg.imap[l] = t
	}
	for _, u := range eg.bank.Children(dpred) {
		if t, ok := eg.imap[int32(eg.labelOcc(u))]; ok {
			eg.explainEq(u, t)
		}
	}
	clear(eg.imap)
}

// explainDistinct explains why (distinct t_1 … t_n) holds: the cheap dmask
// intersection first, pairwise disequalities otherwise.
func (eg *Egraph) explainDistinct(d core.TermID) {
	children := eg.bank.Children(d)

	dmsk := ^uint32(0)
	for _, t := range children {
		dmsk &= eg.classes[eg.classOfOcc(t)].dmask
		if dmsk == 0 {
			break
		}
	}
	if dmsk != 0 {
		eg.explainDistinctViaDmask(d, dmsk)

		return
	}

	for i, t1 := range children {
		for _, t2 := range children[i+1:] {
			eg.explainDiseq(t1, t2)
		}
	}
}

// ExplainDistinct expands "(distinct t_1 … t_n) holds" into asserted
// literals. All pairs must be known-disequal.
func (eg *Egraph) ExplainDistinct(d core.TermID) ([]core.Lit, error) {
	if !eg.attached(d) {
		return nil, ErrNotAttached
	}
	if eg.bank.Kind(d) != core.KindDistinct {
		return nil, ErrNotDistinctAtom
	}
	if err := eg.beginExplain(); err != nil {
		return nil, err
	}
	defer eg.endExplain()

	eg.explainDistinct(d)

	return eg.buildExplanationVector(nil), nil
}

// ExplainNotDistinct expands "(distinct t_1 … t_n) is false" into asserted
// literals: two children are provably equal.
func (eg *Egraph) ExplainNotDistinct(d core.TermID) ([]core.Lit, error) {
	if !eg.attached(d) {
		return nil, ErrNotAttached
	}
	if eg.bank.Kind(d) != core.KindDistinct {
		return nil, ErrNotDistinctAtom
	}

	t1, t2 := eg.equalChildPair(d)
	if t1 == core.NullOcc {
		return nil, ErrNoEqualPair
	}
	if err := eg.beginExplain(); err != nil {
		return nil, err
	}
	defer eg.endExplain()

	eg.explainEq(t1, t2)

	return eg.buildExplanationVector(nil), nil
}

// equalChildPair scans d's children for two sharing a label, via the imap.
func (eg *Egraph) equalChildPair(d core.TermID) (core.Occ, core.Occ) {
	for _, t := range eg.bank.Children(d) {
		l := int32(eg.labelOcc(t))
		if prev, ok := eg.imap[l]; ok {
			clear(eg.imap)

			return prev, t
		}
		eg.imap[l] = t
	}
	clear(eg.imap)

	return core.NullOcc, core.NullOcc
}

// inconsistentEdge checks, before finalising edge k = (t1 == t2), whether
// t1 is already known-disequal to t2. If so it builds the complete conflict
// vector - including edge k's own antecedent - and reports the conflict.
func (eg *Egraph) inconsistentEdge(t1, t2 core.Occ, k core.EdgeID) (Result, bool) {
	eg.inExplain = true
	defer eg.endExplain()

	switch {
	case eg.labelOcc(t1) == eg.labelOcc(t2).Flip():
		// t1 == ¬t2: merging would equate a term with its negation.
		eg.explainEq(t1, t2)

	default:
		c1, c2 := eg.classOfOcc(t1), eg.classOfOcc(t2)
		msk := eg.classes[c1].dmask & eg.classes[c2].dmask
		switch {
		case msk&1 != 0:
			eg.explainDiseqViaConstants(t1, t2)
		case msk != 0:
			eg.explainDiseqViaDmasks(t1, t2, uint32(bits.TrailingZeros32(msk)), eg.stack.top())
		default:
			cmp := eg.findEq(t1, t2)
			if cmp == core.NullTerm || !eg.IsFalseOcc(core.Pos(cmp)) {
				return OK, false
			}
			eg.explainDiseqViaEq(t1, t2, cmp)
		}
	}

	eg.enqueueEdge(k)

	return Result{Status: StatusConflict, Conflict: eg.buildExplanationVector(nil)}, true
}

// inconsistentDistinct checks, after (distinct t_1 … t_n) was asserted
// true, whether two children are already equal; the conflict vector is
// their equality plus the atom's own truth.
func (eg *Egraph) inconsistentDistinct(d core.TermID) (Result, bool) {
	t1, t2 := eg.equalChildPair(d)
	if t1 == core.NullOcc {
		return OK, false
	}

	eg.inExplain = true
	defer eg.endExplain()

	eg.explainEq(core.Pos(d), core.TrueOcc)
	eg.explainEq(t1, t2)

	return Result{Status: StatusConflict, Conflict: eg.buildExplanationVector(nil)}, true
}

// inconsistentNotDistinct checks, after (distinct t_1 … t_m) was asserted
// false, whether every pair of children is known-disequal. The cheap dmask
// intersection is tried first; only then the m(m-1)/2 pairwise check runs.
// Warning: expensive for large m.
func (eg *Egraph) inconsistentNotDistinct(d core.TermID) (Result, bool) {
	eg.inExplain = true
	defer eg.endExplain()

	children := eg.bank.Children(d)

	dmsk := ^uint32(0)
	for _, t := range children {
		dmsk &= eg.classes[eg.classOfOcc(t)].dmask
		if dmsk == 0 {
			break
		}
	}

	if dmsk == 0 {
		// Pairwise: any pair not provably disequal clears the conflict.
		for i, t1 := range children {
			m1 := eg.classes[eg.classOfOcc(t1)].dmask
			for _, t2 := range children[i+1:] {
				if eg.classOfOcc(t1) == eg.classOfOcc(t2) {
					return OK, false
				}
				if eg.classes[eg.classOfOcc(t2)].dmask&m1 != 0 {
					continue
				}
				cmp := eg.findEq(t1, t2)
				if cmp == core.NullTerm || !eg.IsFalseOcc(core.Pos(cmp)) {
					return OK, false
				}
			}
		}
		for i, t1 := range children {
			for _, t2 := range children[i+1:] {
				eg.explainDiseq(t1, t2)
			}
		}
	} else {
		eg.explainDistinctViaDmask(d, dmsk)
	}

	eg.explainEq(core.Pos(d), core.FalseOcc)

	return Result{Status: StatusConflict, Conflict: eg.buildExplanationVector(nil)}, true
}
