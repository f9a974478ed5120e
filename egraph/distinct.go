// Package egraph: the distinct engine.
//
// Up to 31 currently-true (distinct …) atoms are tracked compactly: atom i
// owns bit i of every member class's dmask, so "known disequal" is one AND
// of two masks. Bit 0 is reserved for constants - every constant's class is
// born with it, making any two constant-bearing classes disequal with no
// further bookkeeping. When all 31 bits are taken the engine degrades to
// asserting the pairwise (eq …) atoms false, which keeps conflict detection
// and explanations sound at the price of the compact representation.
package egraph

import "github.com/katalvlaran/lvlsat/core"

// AssertDistinct records (distinct t_1 … t_n) == true under the given
// asserted literal.
//
// Steps:
//  1. Merge the atom with true (edge tagged Assert(lit)).
//  2. Conflict check: two children already equal.
//  3. Allocate a dmask bit and OR it into every child class, or fall back
//     to pairwise disequalities when no bit is free.
//  4. Notify satellites holding theory variables on the children.
//
// Complexity: O(n) plus merge fallout; fallback O(n²) attach/assert pairs.
func (eg *Egraph) AssertDistinct(d core.TermID, lit core.Lit) (Result, error) {
	if !eg.attached(d) {
		return OK, ErrNotAttached
	}
	if eg.bank.Kind(d) != core.KindDistinct {
		return OK, ErrNotDistinctAtom
	}

	if res := eg.run(core.Pos(d), core.TrueOcc, antecedent{tag: TagAssert, lit: lit}); res.Status == StatusConflict {
		return res, nil
	}

	if res, bad := eg.inconsistentDistinct(d); bad {
		return res, nil
	}

	return eg.registerDistinct(d, lit), nil
}

// AssertNotDistinct records (distinct t_1 … t_n) == false under the given
// asserted literal. The atom is merged with false; if every pair of children
// is already known-disequal the assertion is a conflict.
// Complexity: O(n²) pair checks in the worst case.
func (eg *Egraph) AssertNotDistinct(d core.TermID, lit core.Lit) (Result, error) {
	if !eg.attached(d) {
		return OK, ErrNotAttached
	}
	if eg.bank.Kind(d) != core.KindDistinct {
		return OK, ErrNotDistinctAtom
	}

	if res := eg.run(core.Pos(d), core.FalseOcc, antecedent{tag: TagAssert, lit: lit}); res.Status == StatusConflict {
		return res, nil
	}

	if res, bad := eg.inconsistentNotDistinct(d); bad {
		return res, nil
	}

	return OK, nil
}

// registerDistinct allocates the next free dmask bit for d, or falls back
// to pairwise (eq …)-false assertions when bits are exhausted.
func (eg *Egraph) registerDistinct(d core.TermID, lit core.Lit) Result {
	children := eg.bank.Children(d)

	if eg.dtable.npreds >= 32 {
		if res := eg.pairwiseDistinct(children, lit); res.Status == StatusConflict {
			return res
		}
		eg.notifyDistinct(d)

		return OK
	}

	bit := eg.dtable.npreds
	eg.dtable.npreds++
	eg.dtable.atom[bit] = d
	eg.trail = append(eg.trail, distinctBitRec{bit: bit})

	mask := uint32(1) << bit
	for _, ch := range children {
		c := eg.classOfOcc(ch)
		if eg.classes[c].dmask&mask != 0 {
			continue
		}
		eg.trail = append(eg.trail, dmaskRec{class: c, old: eg.classes[c].dmask})
		eg.classes[c].dmask |= mask
	}

	eg.notifyDistinct(d)

	return OK
}

// pairwiseDistinct asserts (eq u v) == false for every pair of children,
// creating and attaching missing eq atoms on the fly. Each pairwise edge
// carries the same asserted literal as antecedent, so explanations remain
// a single literal deep.
func (eg *Egraph) pairwiseDistinct(children []core.Occ, lit core.Lit) Result {
	for i, u := range children {
		for _, v := range children[i+1:] {
			cmp := eg.findEq(u, v)
			if cmp == core.NullTerm {
				id, err := eg.bank.Eq(u, v)
				if err != nil {
					panic("egraph: internal: pairwise eq construction failed")
				}
				if res, _ := eg.AttachTerm(id); res.Status == StatusConflict {
					return res
				}
				cmp = id
			}
			if res := eg.run(core.Pos(cmp), core.FalseOcc, antecedent{tag: TagAssert, lit: lit}); res.Status == StatusConflict {
				return res
			}
		}
	}

	return OK
}

// notifyDistinct tells each satellite which of d's children carry its
// theory variables; satellites with at least two involved terms receive a
// NotifyDistinct with exactly those terms.
func (eg *Egraph) notifyDistinct(d core.TermID) {
	children := eg.bank.Children(d)
	for th, s := range eg.satellites {
		if s == nil {
			continue
		}
		var terms []core.TermID
		for _, ch := range children {
			if eg.classes[eg.classOfOcc(ch)].thvar[th] != NullThVar {
				terms = append(terms, ch.Term())
			}
		}
		if len(terms) >= 2 {
			s.NotifyDistinct(terms)
		}
	}
}
