package egraph_test

import (
	"testing"

	"github.com/katalvlaran/lvlsat/core"
	"github.com/katalvlaran/lvlsat/egraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestClassLookup_Reflexive verifies P1: every attached term is in its own
// class and the lookup is stable across unrelated activity.
func TestClassLookup_Reflexive(t *testing.T) {
	bank, eg := newEgraph()
	vs := vars(bank, 3)
	attachAll(t, eg, bank)

	for _, v := range vs {
		assert.True(t, eg.SameClass(v, v))
	}

	before := eg.ClassOf(vs[0])
	assertEqOK(t, eg, vs[1], vs[2], 2) // unrelated merge
	assert.Equal(t, before, eg.ClassOf(vs[0]))
}

// TestTransitivity covers the first end-to-end scenario: a=b, b=c makes a
// and c one class, and the explanation is exactly both asserted literals.
func TestTransitivity(t *testing.T) {
	bank, eg := newEgraph()
	vs := vars(bank, 3)
	a, b, c := vs[0], vs[1], vs[2]
	attachAll(t, eg, bank)

	assertEqOK(t, eg, a, b, 2)
	assertEqOK(t, eg, b, c, 4)

	assert.True(t, eg.SameClass(a, c))

	lits, err := eg.ExplainEquality(a, c)
	require.NoError(t, err)
	assert.Equal(t, []core.Lit{2, 4}, lits)
}

// TestCongruence covers the second scenario: merging a and b makes f(a) and
// f(b) congruent, and the congruence edge explains to exactly {a=b}.
func TestCongruence(t *testing.T) {
	bank, eg := newEgraph()
	f := core.Pos(bank.Variable(core.Function()))
	vs := vars(bank, 2)
	a, b := vs[0], vs[1]
	fa := mustApply(t, bank, f, a)
	fb := mustApply(t, bank, f, b)
	attachAll(t, eg, bank)

	assert.False(t, eg.SameClass(core.Pos(fa), core.Pos(fb)))

	assertEqOK(t, eg, a, b, 2)

	assert.True(t, eg.SameClass(core.Pos(fa), core.Pos(fb)))

	lits, err := eg.ExplainEquality(core.Pos(fa), core.Pos(fb))
	require.NoError(t, err)
	assert.Equal(t, []core.Lit{2}, lits)
}

// TestDiseqViaConstants covers the third scenario: x=0 and y=1 make x and y
// disequal through dmask bit 0, explained by exactly the two assertions.
func TestDiseqViaConstants(t *testing.T) {
	bank, eg := newEgraph()
	zero := core.Pos(bank.Constant(core.Arith()))
	one := core.Pos(bank.Constant(core.Arith()))
	x := core.Pos(bank.Variable(core.Arith()))
	y := core.Pos(bank.Variable(core.Arith()))
	attachAll(t, eg, bank)

	// Constant classes carry dmask bit 0 from birth.
	assert.NotZero(t, eg.Dmask(eg.ClassOf(zero))&1)
	assert.NotZero(t, eg.Dmask(eg.ClassOf(one))&1)

	assertEqOK(t, eg, x, zero, 2)
	assertEqOK(t, eg, y, one, 4)

	lits, err := eg.ExplainDisequality(x, y)
	require.NoError(t, err)
	assert.Equal(t, []core.Lit{2, 4}, lits)
}

// TestConflictOnDistinct covers the fourth scenario: distinct(a,b,c)
// followed by a=b conflicts, with the vector naming exactly both literals.
func TestConflictOnDistinct(t *testing.T) {
	bank, eg := newEgraph()
	vs := vars(bank, 3)
	d := mustDistinct(t, bank, vs)
	attachAll(t, eg, bank)

	res, err := eg.AssertDistinct(d, 2)
	require.NoError(t, err)
	require.Equal(t, egraph.StatusOK, res.Status)

	res, err = eg.AssertEq(vs[0], vs[1], 4)
	require.NoError(t, err)
	require.Equal(t, egraph.StatusConflict, res.Status)
	assert.ElementsMatch(t, []core.Lit{2, 4}, res.Conflict)
}

// TestCausality covers the fifth scenario: p=q (edge 0), q=r (edge 1)
// trigger the congruence f(p)=f(r) (edge 2); explaining that edge returns
// {p=q, q=r} and visits no edge later than 2.
func TestCausality(t *testing.T) {
	bank, eg := newEgraph()
	f := core.Pos(bank.Variable(core.Function()))
	vs := vars(bank, 3)
	p, q, r := vs[0], vs[1], vs[2]
	fp := mustApply(t, bank, f, p)
	fr := mustApply(t, bank, f, r)
	attachAll(t, eg, bank)

	assertEqOK(t, eg, p, q, 2)
	assertEqOK(t, eg, q, r, 4)

	require.Equal(t, 3, eg.NumEdges()) // two asserts plus one congruence
	lhs, rhs, tag := eg.EdgeInfo(2)
	assert.Equal(t, egraph.TagBasicCongruence, tag)
	assert.ElementsMatch(t,
		[]core.TermID{fp, fr},
		[]core.TermID{lhs.Term(), rhs.Term()})

	lits, err := eg.ExplainEdge(2)
	require.NoError(t, err)
	assert.ElementsMatch(t, []core.Lit{2, 4}, lits)
}

// TestBacktrack covers the sixth scenario: a pushed equality disappears on
// pop, including the congruence it caused.
func TestBacktrack(t *testing.T) {
	bank, eg := newEgraph()
	f := core.Pos(bank.Variable(core.Function()))
	vs := vars(bank, 2)
	a, b := vs[0], vs[1]
	fa := mustApply(t, bank, f, a)
	fb := mustApply(t, bank, f, b)
	attachAll(t, eg, bank)

	eg.Push()
	assertEqOK(t, eg, a, b, 2)
	require.True(t, eg.SameClass(a, b))
	require.True(t, eg.SameClass(core.Pos(fa), core.Pos(fb)))

	require.NoError(t, eg.Pop(1))

	assert.False(t, eg.SameClass(a, b))
	assert.False(t, eg.SameClass(core.Pos(fa), core.Pos(fb)))
	assert.Zero(t, eg.NumEdges())

	// The state is fully reusable after the pop.
	assertEqOK(t, eg, a, b, 2)
	assert.True(t, eg.SameClass(core.Pos(fa), core.Pos(fb)))
}

// TestAssertEq_ContractViolations verifies the caller-bug error surface.
func TestAssertEq_ContractViolations(t *testing.T) {
	bank, eg := newEgraph()
	x := core.Pos(bank.Variable(core.Arith()))
	p := core.Pos(bank.Variable(core.Bool()))
	attachAll(t, eg, bank)

	_, err := eg.AssertEq(x, p, 2)
	assert.ErrorIs(t, err, egraph.ErrTypeMismatch)

	_, err = eg.AssertEq(x, core.Neg(x.Term()), 2)
	assert.ErrorIs(t, err, egraph.ErrNotBoolean) // negation of a non-boolean

	_, err = eg.AssertEq(x, core.Pos(bank.Variable(core.Arith())), 2)
	assert.ErrorIs(t, err, egraph.ErrNotAttached) // interned but never attached

	_, err = eg.ExplainEquality(x, p)
	assert.ErrorIs(t, err, egraph.ErrDifferentClasses)

	_, err = eg.ExplainDisequality(x, x)
	assert.ErrorIs(t, err, egraph.ErrNotDisequal)
}

// TestBooleanOpposition verifies that merging a boolean with its own
// negation is a conflict carrying the equality chain that closed the loop.
func TestBooleanOpposition(t *testing.T) {
	bank, eg := newEgraph()
	p := core.Pos(bank.Variable(core.Bool()))
	q := core.Pos(bank.Variable(core.Bool()))
	attachAll(t, eg, bank)

	assertEqOK(t, eg, p, q, 2)

	res, err := eg.AssertEq(p, q.Flip(), 4)
	require.NoError(t, err)
	require.Equal(t, egraph.StatusConflict, res.Status)
	assert.ElementsMatch(t, []core.Lit{2, 4}, res.Conflict)
}

// TestPropagate_ImpliedLiterals verifies that an atom bound to a literal is
// reported by Propagate when reasoning assigns it a truth value, and that
// Explain replays the assertions behind it.
func TestPropagate_ImpliedLiterals(t *testing.T) {
	bank, eg := newEgraph()
	vs := vars(bank, 2)
	a, b := vs[0], vs[1]
	eqAtom, err := bank.Eq(a, b)
	require.NoError(t, err)
	attachAll(t, eg, bank)
	require.NoError(t, eg.BindLiteral(eqAtom, 10))

	assertEqOK(t, eg, a, b, 2)

	imp := eg.Propagate()
	require.Len(t, imp, 1)
	assert.Equal(t, core.Lit(10), imp[0].Lit) // (eq a b) simplified to true
	assert.Equal(t, core.Pos(eqAtom), imp[0].Atom)
	assert.Empty(t, eg.Propagate()) // buffer drained

	lits, err := eg.Explain(10)
	require.NoError(t, err)
	assert.Equal(t, []core.Lit{2}, lits)
}
