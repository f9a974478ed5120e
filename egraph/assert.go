// Package egraph: the Boolean-solver-facing assertion and propagation API.
//
// The Boolean solver asserts equalities and disequalities under literals,
// polls Propagate for literals the e-graph has entailed, and asks Explain
// for the asserted literals behind any of them. Conflicts come back as
// Result values; errors report contract violations only.
package egraph

import "github.com/katalvlaran/lvlsat/core"

// checkAssertOperands validates that the two occurrences can be asserted
// equal: attached, same type, and negative only on booleans.
func (eg *Egraph) checkAssertOperands(t1, t2 core.Occ) error {
	if err := eg.requireAttached(t1); err != nil {
		return err
	}
	if err := eg.requireAttached(t2); err != nil {
		return err
	}
	if eg.bank.Type(t1.Term()) != eg.bank.Type(t2.Term()) {
		return ErrTypeMismatch
	}
	if (!t1.IsPos() || !t2.IsPos()) && eg.bank.Type(t1.Term()) != core.Bool() {
		return ErrNotBoolean
	}

	return nil
}

// AssertEq records t1 == t2 under the asserted literal lit.
// Returns StatusConflict with the conflict literal vector when the equality
// contradicts known disequalities.
// Complexity: near-linear amortized in the affected terms and composites.
func (eg *Egraph) AssertEq(t1, t2 core.Occ, lit core.Lit) (Result, error) {
	if err := eg.checkAssertOperands(t1, t2); err != nil {
		return OK, err
	}

	return eg.run(t1, t2, antecedent{tag: TagAssert, lit: lit}), nil
}

// AssertAxiom records t1 == t2 as definitional: the edge expands to no
// literals. Used for preprocessing-level facts that need no justification.
func (eg *Egraph) AssertAxiom(t1, t2 core.Occ) (Result, error) {
	if err := eg.checkAssertOperands(t1, t2); err != nil {
		return OK, err
	}

	return eg.run(t1, t2, antecedent{tag: TagAxiom}), nil
}

// AssertDiseq records t1 != t2 under the asserted literal lit by setting up
// the atom (eq t1 t2) as false. The atom is looked up through the congruence
// table and interned on demand. Satellites carrying theory variables on both
// sides are notified with the eq atom as the pre-explanation hint.
func (eg *Egraph) AssertDiseq(t1, t2 core.Occ, lit core.Lit) (Result, error) {
	if err := eg.checkAssertOperands(t1, t2); err != nil {
		return OK, err
	}

	cmp := eg.findEq(t1, t2)
	if cmp == core.NullTerm {
		id, err := eg.bank.Eq(t1, t2)
		if err != nil {
			return OK, err
		}
		if res, err := eg.AttachTerm(id); res.Status == StatusConflict || err != nil {
			return res, err
		}
		cmp = id
	}

	if res := eg.run(core.Pos(cmp), core.FalseOcc, antecedent{tag: TagAssert, lit: lit}); res.Status == StatusConflict {
		return res, nil
	}

	eg.notifyDiseq(t1, t2, cmp)

	return OK, nil
}

// BindLiteral associates the positive literal lit with the boolean term t:
// whenever t's class reaches a truth value, Propagate reports lit with the
// matching sign. If t already has a truth value the literal is reported
// immediately.
func (eg *Egraph) BindLiteral(t core.TermID, lit core.Lit) error {
	if !eg.attached(t) {
		return ErrNotAttached
	}
	if eg.bank.Type(t) != core.Bool() {
		return ErrNotBoolean
	}
	if lit < 0 || !core.PosLit(lit) {
		return ErrBadLiteral
	}

	eg.atomLit[t] = lit
	eg.litAtom[lit] = core.Pos(t)

	if l := eg.label[t]; l.Class() == boolClass {
		eg.implied = append(eg.implied, Implied{Lit: lit ^ core.Lit(l.Polarity()), Atom: core.Pos(t)})
	}

	return nil
}

// Propagate returns the literals entailed since the previous call and
// resets the buffer. The list may contain literals the Boolean solver has
// already assigned; deduplication is the solver's business.
func (eg *Egraph) Propagate() []Implied {
	if len(eg.implied) == 0 {
		return nil
	}
	out := make([]Implied, len(eg.implied))
	copy(out, eg.implied)
	eg.implied = eg.implied[:0]

	return out
}

// Explain returns the asserted literals entailing a literal previously
// reported by Propagate. The sign of lit selects whether the bound atom is
// explained equal to true or to false.
func (eg *Egraph) Explain(lit core.Lit) ([]core.Lit, error) {
	atom, ok := eg.litAtom[lit&^1]
	if !ok {
		return nil, ErrBadLiteral
	}

	return eg.ExplainEquality(atom, core.TrueOcc^core.Occ(lit&1))
}
