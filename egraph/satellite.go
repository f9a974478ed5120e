// Package egraph: the satellite (theory solver) interface.
//
// Satellites are invoked as direct callbacks on the e-graph's thread and
// must return before the e-graph continues. A notification callback must
// only record information - it must not re-enter the e-graph (no asserts,
// no propagation, no explanation construction) until control has returned
// to the solver loop. Equalities a satellite derives are handed back later
// through PropagateEq.
package egraph

import "github.com/katalvlaran/lvlsat/core"

// TheoryExplanation is a satellite's expansion of an opaque propagation
// payload: literals of theory-specific atoms, equalities for the e-graph to
// explain further, and disequalities with their captured pre-explanations.
type TheoryExplanation struct {
	// Atoms are asserted theory-atom literals; copied into the result as-is.
	Atoms []core.Lit

	// Eqs are term equalities; each is expanded through the proof forest.
	Eqs [][2]core.TermID

	// Diseqs are term disequalities with pre-explanation hints captured at
	// notification time (see DiseqPreExpl).
	Diseqs []DiseqPreExpl
}

// DiseqPreExpl is a two-phase disequality pre-explanation.
//
// Eager step: when NotifyDiseq(t1, t2, hint) arrives, a satellite that will
// use the disequality as an antecedent must capture the pre-explanation
// immediately via StoreDiseqPreExpl. The capture pins the two children
// U1, U2 of the hint composite that matched the classes of T1, T2 at that
// instant - by expansion time a conflict may have made U1 == U2, which
// would make the correct rule unrecoverable.
//
// Lazy step: ExpandDiseqPreExpl turns the capture into literals on demand.
type DiseqPreExpl struct {
	// Hint is an eq composite (currently false) or a distinct composite
	// (currently true) justifying the disequality. NullTerm marks the
	// hint-less form: T1 and T2 are disequal because they equal the two
	// distinct constants U1 and U2.
	Hint core.TermID

	// T1, T2 are the disequal terms as notified.
	T1, T2 core.TermID

	// U1, U2 are the hint children matched to T1, T2 at notification time.
	U1, U2 core.TermID
}

// Satellite is the callback surface a theory solver registers with the
// e-graph. All methods run synchronously on the e-graph's thread.
type Satellite interface {
	// NotifyEq reports that theory variables x1 and x2 are now equal.
	NotifyEq(x1, x2 ThVar)

	// NotifyDiseq reports t1 != t2 with a hint composite for the two-phase
	// pre-explanation protocol.
	NotifyDiseq(t1, t2 core.TermID, hint core.TermID)

	// NotifyDistinct reports that the listed terms are pairwise distinct.
	NotifyDistinct(terms []core.TermID)

	// ExpandExplanation expands the opaque payload a satellite attached to
	// a PropagateEq edge back into atoms, equalities and disequalities.
	// The payload must stay expandable for the lifetime of the edge, across
	// backtracks that do not pop the edge itself.
	ExpandExplanation(t1, t2 core.TermID, opaque any) TheoryExplanation
}

// RegisterSatellite installs the satellite for a theory slot.
// Registration is not undone by Pop.
func (eg *Egraph) RegisterSatellite(th Theory, s Satellite) {
	eg.satellites[th] = s
}

// SetTheoryVar attaches a satellite variable to the class of t. If the
// class already carries a different variable for that theory the satellite
// is notified that the two are equal. Intended for attach-time wiring;
// the assignment is not undone by Pop.
func (eg *Egraph) SetTheoryVar(t core.TermID, th Theory, v ThVar) error {
	if !eg.attached(t) {
		return ErrNotAttached
	}
	c := eg.label[t].Class()
	cur := eg.classes[c].thvar[th]
	if cur != NullThVar && cur != v {
		if s := eg.satellites[th]; s != nil {
			s.NotifyEq(cur, v)
		}

		return nil
	}
	eg.classes[c].thvar[th] = v
	eg.classes[c].thterm[th] = t
	eg.thvarList[th] = append(eg.thvarList[th], c)

	return nil
}

// TheoryVar returns the theory variable on the class of o, or NullThVar.
func (eg *Egraph) TheoryVar(o core.Occ, th Theory) ThVar {
	if !eg.attached(o.Term()) {
		return NullThVar
	}

	return eg.classes[eg.classOfOcc(o)].thvar[th]
}

// PropagateEq records a satellite-derived equality t1 == t2. The edge is
// tagged with the theory's propagation antecedent and carries the opaque
// payload; when the edge is explained the satellite's ExpandExplanation is
// called back with it.
func (eg *Egraph) PropagateEq(t1, t2 core.TermID, th Theory, opaque any) (Result, error) {
	if th >= NumTheories || eg.satellites[th] == nil {
		return OK, ErrNoSatellite
	}
	if !eg.attached(t1) || !eg.attached(t2) {
		return OK, ErrNotAttached
	}

	return eg.run(core.Pos(t1), core.Pos(t2), antecedent{tag: th.tag(), opaque: opaque}), nil
}
