// Package egraph: the congruence table.
//
// The table is keyed by the signature (kind, normalised child labels) of a
// composite and maps each key to one representative composite. A second
// composite reaching an occupied key is congruent to the representative:
// child normalisation guarantees the children are pairwise provably equal
// modulo the recorded adjustment (swap, condition flip, permutation).
//
// Normal forms:
//   - eq:       the two child labels in ascending order
//   - ite:      positive condition label; a negative condition flips the
//     label and swaps the branches
//   - or:       child labels in ascending order
//   - distinct: child labels in ascending order
//   - apply / tuple / update: child labels in given order
package egraph

import (
	"math/bits"
	"slices"

	"github.com/katalvlaran/lvlsat/core"
)

// sigKey serialises the normalised signature of composite c under the
// current labels. The key is (kind byte, little-endian child labels).
// Complexity: O(arity) (O(arity log arity) for or/distinct).
func (eg *Egraph) sigKey(c core.TermID) string {
	ch := eg.bank.Children(c)
	labels := eg.labBuf[:0]
	for _, o := range ch {
		labels = append(labels, eg.labelOcc(o))
	}

	switch eg.bank.Kind(c) {
	case core.KindEq:
		if labels[0] > labels[1] {
			labels[0], labels[1] = labels[1], labels[0]
		}
	case core.KindIte:
		if labels[0].Polarity() == 1 {
			labels[0] = labels[0].Flip()
			labels[1], labels[2] = labels[2], labels[1]
		}
	case core.KindOr, core.KindDistinct:
		slices.Sort(labels)
	default:
		// apply / tuple / update: order is significant
	}
	eg.labBuf = labels

	return eg.packKey(eg.bank.Kind(c), labels)
}

// packKey renders a kind byte plus labels into a map key.
func (eg *Egraph) packKey(k core.Kind, labels []core.Label) string {
	buf := eg.keyBuf[:0]
	buf = append(buf, byte(k))
	for _, l := range labels {
		buf = append(buf, byte(l), byte(l>>8), byte(l>>16), byte(l>>24))
	}
	eg.keyBuf = buf

	return string(buf)
}

// findEq looks up a composite congruent to (eq t1 t2) under current labels.
// Returns NullTerm when there is none.
func (eg *Egraph) findEq(t1, t2 core.Occ) core.TermID {
	l0, l1 := eg.labelOcc(t1), eg.labelOcc(t2)
	if l0 > l1 {
		l0, l1 = l1, l0
	}
	labels := append(eg.labBuf[:0], l0, l1)
	eg.labBuf = labels
	if c, ok := eg.ctable[eg.packKey(core.KindEq, labels)]; ok {
		return c
	}

	return core.NullTerm
}

// findEqualChild returns a child of composite cmp provably equal to t,
// or NullOcc when no child matches.
func (eg *Egraph) findEqualChild(cmp core.TermID, t core.Occ) core.Occ {
	l := eg.labelOcc(t)
	for _, x := range eg.bank.Children(cmp) {
		if eg.labelOcc(x) == l {
			return x
		}
	}

	return core.NullOcc
}

// rekey moves composite p from oldKey to its signature under the current
// labels. A collision hides p behind the resident representative and, when
// their classes differ, queues a congruence merge with the appropriate
// antecedent. A fresh slot re-establishes p and re-runs the simplification
// checks for its new signature.
func (eg *Egraph) rekey(p core.TermID, oldKey string) {
	if !eg.hashed[p] {
		return // already moved by an earlier duplicate use-list entry
	}
	newKey := eg.sigKey(p)
	delete(eg.ctable, oldKey)

	if other, ok := eg.ctable[newKey]; ok {
		if other == p {
			// p appears twice in the use list being walked; the first pass
			// already moved it.
			return
		}
		eg.hashed[p] = false
		eg.trail = append(eg.trail, rekeyRec{comp: p, oldKey: oldKey, newKey: newKey, hidden: true})
		if eg.label[p].Class() != eg.label[other].Class() {
			eg.pending = append(eg.pending, pendingEq{
				x:   core.Pos(p),
				y:   core.Pos(other),
				ant: eg.congruenceAnt(p, other),
			})
		}

		return
	}

	eg.ctable[newKey] = p
	eg.trail = append(eg.trail, rekeyRec{comp: p, oldKey: oldKey, newKey: newKey})
	eg.checkSimplify(p)
}

// congruenceAnt builds the antecedent for "c1 congruent to c2". The witness
// data (alignment variant, permutation array) is computed against the labels
// in force right now, which precede the edge about to be pushed - that is
// what keeps the recorded antecedent causally expandable later.
func (eg *Egraph) congruenceAnt(c1, c2 core.TermID) antecedent {
	switch eg.bank.Kind(c1) {
	case core.KindEq:
		ch1, ch2 := eg.bank.Children(c1), eg.bank.Children(c2)
		if eg.labelOcc(ch1[0]) == eg.labelOcc(ch2[0]) {
			return antecedent{tag: TagEqCongruence1}
		}

		return antecedent{tag: TagEqCongruence2}

	case core.KindIte:
		ch1, ch2 := eg.bank.Children(c1), eg.bank.Children(c2)
		if eg.labelOcc(ch1[0]) == eg.labelOcc(ch2[0]) {
			return antecedent{tag: TagIteCongruence1}
		}

		return antecedent{tag: TagIteCongruence2}

	case core.KindOr:
		return antecedent{tag: TagOrCongruence, perm: eg.orCongruenceWitness(c1, c2)}

	case core.KindDistinct:
		return antecedent{tag: TagDistinctCongruence, perm: eg.distinctCongruenceWitness(c1, c2)}

	default: // apply / tuple / update
		return antecedent{tag: TagBasicCongruence}
	}
}

// distinctCongruenceWitness builds, for (distinct t_1 … t_n) congruent to
// (distinct u_1 … u_n), the permutation p with t_i provably equal to p[i].
func (eg *Egraph) distinctCongruenceWitness(c1, c2 core.TermID) []core.Occ {
	ch2 := eg.bank.Children(c2)
	for _, u := range ch2 {
		l := int32(eg.labelOcc(u))
		if _, ok := eg.imap[l]; ok {
			panic("egraph: internal: duplicate label in distinct congruence")
		}
		eg.imap[l] = u
	}

	ch1 := eg.bank.Children(c1)
	perm := make([]core.Occ, len(ch1))
	for i, t := range ch1 {
		u, ok := eg.imap[int32(eg.labelOcc(t))]
		if !ok {
			panic("egraph: internal: unmatched label in distinct congruence")
		}
		perm[i] = u
	}
	clear(eg.imap)

	return perm
}

// orCongruenceWitness builds, for (or t_1 … t_n) congruent to
// (or u_1 … u_m), an array of n+m occurrences: t_i equal to perm[i] and
// u_j equal to perm[n+j], each witness drawn from the other composite's
// children or from false.
func (eg *Egraph) orCongruenceWitness(c1, c2 core.TermID) []core.Occ {
	ch1, ch2 := eg.bank.Children(c1), eg.bank.Children(c2)
	perm := make([]core.Occ, len(ch1)+len(ch2))
	eg.halfOrWitness(ch1, ch2, perm[:len(ch1)])
	eg.halfOrWitness(ch2, ch1, perm[len(ch1):])

	return perm
}

// halfOrWitness chooses, for every c_i, a witness u among d_1 … d_m or false
// such that c_i == u holds, by indexing the proof-forest paths of the d's.
func (eg *Egraph) halfOrWitness(cs, ds, out []core.Occ) {
	for _, d := range ds {
		eg.mapPath(d)
	}
	eg.mapFalseNode()
	for i, c := range cs {
		out[i] = eg.findInPath(c)
	}
	clear(eg.imap)
}

// mapPath walks from t to its proof-forest root, mapping every term on the
// path to t (polarity-adjusted) unless the term is already mapped.
func (eg *Egraph) mapPath(t core.Occ) {
	t = t.Strip()
	u := t
	for {
		x := u.Term()
		if _, ok := eg.imap[int32(x)]; ok {
			return
		}
		eg.imap[int32(x)] = t

		i := eg.edge[x]
		if i == core.NullEdge {
			return
		}
		v := eg.edgeNextOcc(i, u)
		t ^= (u ^ v) & 1 // flip if the edge crosses polarity
		u = v
	}
}

// mapFalseNode maps the boolean-constant term to false unless something is
// already mapped to it, so that false-valued children find a witness.
func (eg *Egraph) mapFalseNode() {
	if _, ok := eg.imap[int32(core.TrueTerm)]; !ok {
		eg.imap[int32(core.TrueTerm)] = core.FalseOcc
	}
}

// findInPath walks from t towards its root until a mapped term is found and
// returns that mapping with the accumulated polarity applied.
func (eg *Egraph) findInPath(t core.Occ) core.Occ {
	sgn := t & 1
	for {
		x := t.Term()
		if v, ok := eg.imap[int32(x)]; ok {
			return v ^ sgn
		}

		i := eg.edge[x]
		if i == core.NullEdge {
			panic("egraph: internal: unmapped proof-forest root in or congruence")
		}
		u := eg.edgeNextOcc(i, t)
		sgn ^= (u ^ t) & 1
		t = u
	}
}

// checkSimplify inspects a freshly keyed composite for value-level
// simplifications visible in its child labels, queueing the implied
// equalities with their antecedents:
//
//   - (eq u v) with equal child labels        → (eq u v) == true,  Eq(u,v)
//   - (eq u v) with opposite child labels     → (eq u v) == false, Eq(u,v)
//   - (distinct …) with two equal child labels → false, Eq(t_i,t_j)
//   - (or …) all children false               → false, SimpOr
//   - (or …) children false except value v    → v,     SimpOr
func (eg *Egraph) checkSimplify(c core.TermID) {
	ch := eg.bank.Children(c)
	switch eg.bank.Kind(c) {
	case core.KindEq:
		l0, l1 := eg.labelOcc(ch[0]), eg.labelOcc(ch[1])
		switch {
		case l0 == l1:
			eg.pending = append(eg.pending, pendingEq{
				x: core.Pos(c), y: core.TrueOcc,
				ant: antecedent{tag: TagEq, t1: ch[0], t2: ch[1]},
			})
		case l0 == l1.Flip():
			eg.pending = append(eg.pending, pendingEq{
				x: core.Pos(c), y: core.FalseOcc,
				ant: antecedent{tag: TagEq, t1: ch[0], t2: ch[1]},
			})
		default:
			// Known-disequal children falsify the atom: the antecedent
			// records which dmask bit proved it.
			msk := eg.classes[l0.Class()].dmask & eg.classes[l1.Class()].dmask
			if msk != 0 {
				bit := uint32(bits.TrailingZeros32(msk))
				eg.pending = append(eg.pending, pendingEq{
					x: core.Pos(c), y: core.FalseOcc,
					ant: antecedent{tag: distinctTag(bit), t1: ch[0], t2: ch[1]},
				})
			}
		}

	case core.KindDistinct:
		for i, t1 := range ch {
			for _, t2 := range ch[i+1:] {
				if eg.labelOcc(t1) == eg.labelOcc(t2) {
					eg.pending = append(eg.pending, pendingEq{
						x: core.Pos(c), y: core.FalseOcc,
						ant: antecedent{tag: TagEq, t1: t1, t2: t2},
					})

					return
				}
			}
		}

	case core.KindOr:
		v := core.NullOcc
		for _, t := range ch {
			l := eg.labelOcc(t)
			if l == core.FalseLabel {
				continue
			}
			if v == core.NullOcc {
				v = t

				continue
			}
			if eg.labelOcc(v) != l {
				return // two live disjuncts with different values: no simplification
			}
		}
		if v == core.NullOcc {
			eg.pending = append(eg.pending, pendingEq{
				x: core.Pos(c), y: core.FalseOcc, ant: antecedent{tag: TagSimpOr},
			})
		} else {
			eg.pending = append(eg.pending, pendingEq{
				x: core.Pos(c), y: v, ant: antecedent{tag: TagSimpOr},
			})
		}

	default:
	}
}
