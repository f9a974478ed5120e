package egraph_test

import (
	"testing"

	"github.com/katalvlaran/lvlsat/core"
	"github.com/katalvlaran/lvlsat/egraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExplain_AxiomProducesNoLiterals verifies that definitional merges
// leave no trace in explanations.
func TestExplain_AxiomProducesNoLiterals(t *testing.T) {
	bank, eg := newEgraph()
	vs := vars(bank, 3)
	attachAll(t, eg, bank)

	res, err := eg.AssertAxiom(vs[0], vs[1])
	require.NoError(t, err)
	require.Equal(t, egraph.StatusOK, res.Status)
	assertEqOK(t, eg, vs[1], vs[2], 2)

	lits, err := eg.ExplainEquality(vs[0], vs[2])
	require.NoError(t, err)
	assert.Equal(t, []core.Lit{2}, lits) // the axiom edge contributes nothing
}

// TestExplain_DiseqViaEqAtom verifies the eq-atom route of disequality
// explanations: a != b because a=x, b=y and (eq x y) is false.
func TestExplain_DiseqViaEqAtom(t *testing.T) {
	bank, eg := newEgraph()
	vs := vars(bank, 4)
	a, b, x, y := vs[0], vs[1], vs[2], vs[3]
	attachAll(t, eg, bank)

	res, err := eg.AssertDiseq(x, y, 2)
	require.NoError(t, err)
	require.Equal(t, egraph.StatusOK, res.Status)
	assertEqOK(t, eg, a, x, 4)
	assertEqOK(t, eg, b, y, 6)

	lits, err := eg.ExplainDisequality(a, b)
	require.NoError(t, err)
	assert.ElementsMatch(t, []core.Lit{2, 4, 6}, lits)
}

// TestExplain_SharedEdgesReportedOnce verifies the mark discipline: an edge
// reachable through two expansion paths lands in the vector exactly once.
func TestExplain_SharedEdgesReportedOnce(t *testing.T) {
	bank, eg := newEgraph()
	f := core.Pos(bank.Variable(core.Function()))
	vs := vars(bank, 2)
	a, b := vs[0], vs[1]
	faa := core.Pos(mustApply(t, bank, f, a, a))
	fbb := core.Pos(mustApply(t, bank, f, b, b))
	attachAll(t, eg, bank)

	assertEqOK(t, eg, a, b, 2)

	// Both argument positions depend on the same a=b edge.
	lits, err := eg.ExplainEquality(faa, fbb)
	require.NoError(t, err)
	assert.Equal(t, []core.Lit{2}, lits)
}

// TestExplain_EdgeIndexValidation verifies the bad-edge contract error.
func TestExplain_EdgeIndexValidation(t *testing.T) {
	_, eg := newEgraph()

	_, err := eg.ExplainEdge(0)
	assert.ErrorIs(t, err, egraph.ErrBadEdge)
	_, err = eg.ExplainEdge(-1)
	assert.ErrorIs(t, err, egraph.ErrBadEdge)
}

// TestExplain_ActivityCounters verifies that every explanation bumps the
// activity of the edges it visited, saturating at 255.
func TestExplain_ActivityCounters(t *testing.T) {
	bank, eg := newEgraph()
	vs := vars(bank, 2)
	attachAll(t, eg, bank)

	assertEqOK(t, eg, vs[0], vs[1], 2)
	require.Equal(t, 1, eg.NumEdges())
	assert.Zero(t, eg.EdgeActivity(0))

	for i := 0; i < 3; i++ {
		_, err := eg.ExplainEdge(0)
		require.NoError(t, err)
	}
	assert.Equal(t, uint8(3), eg.EdgeActivity(0))

	for i := 0; i < 300; i++ {
		_, err := eg.ExplainEdge(0)
		require.NoError(t, err)
	}
	assert.Equal(t, uint8(255), eg.EdgeActivity(0)) // saturated
}

// TestExplain_TermDiseqVariants verifies ExplainTermDiseq across its three
// hint shapes: eq atom, distinct atom, and the hint-less constant form.
func TestExplain_TermDiseqVariants(t *testing.T) {
	bank, eg := newEgraph()

	// eq-hint
	x := bank.Variable(core.Uninterpreted())
	y := bank.Variable(core.Uninterpreted())
	attachAll(t, eg, bank)
	res, err := eg.AssertDiseq(core.Pos(x), core.Pos(y), 2)
	require.NoError(t, err)
	require.Equal(t, egraph.StatusOK, res.Status)
	eqAtom := core.TermID(bank.Len() - 1) // atom interned by AssertDiseq
	require.Equal(t, core.KindEq, bank.Kind(eqAtom))

	lits, err := eg.ExplainTermDiseq(x, y, eqAtom)
	require.NoError(t, err)
	assert.Equal(t, []core.Lit{2}, lits)

	// distinct-hint
	u := bank.Variable(core.Uninterpreted())
	w := bank.Variable(core.Uninterpreted())
	d := mustDistinct(t, bank, []core.Occ{core.Pos(u), core.Pos(w)})
	attachAll(t, eg, bank)
	res, err = eg.AssertDistinct(d, 4)
	require.NoError(t, err)
	require.Equal(t, egraph.StatusOK, res.Status)

	lits, err = eg.ExplainTermDiseq(u, w, d)
	require.NoError(t, err)
	assert.Equal(t, []core.Lit{4}, lits)

	// hint-less: two constants
	c1 := bank.Constant(core.Arith())
	c2 := bank.Constant(core.Arith())
	attachAll(t, eg, bank)
	lits, err = eg.ExplainTermDiseq(c1, c2, core.NullTerm)
	require.NoError(t, err)
	assert.Empty(t, lits) // constants are disequal with no assertions
}

// TestExplain_CausalDistinctWitness verifies that a Distinct_i antecedent
// re-derives witnesses that were already equal when the edge was recorded,
// even after further merges grow the classes.
func TestExplain_CausalDistinctWitness(t *testing.T) {
	bank, eg := newEgraph()
	vs := vars(bank, 4)
	a, b, x, y := vs[0], vs[1], vs[2], vs[3]
	d := mustDistinct(t, bank, []core.Occ{a, b})
	attachAll(t, eg, bank)

	res, err := eg.AssertDistinct(d, 2)
	require.NoError(t, err)
	require.Equal(t, egraph.StatusOK, res.Status)
	assertEqOK(t, eg, x, a, 4)

	// The atom arrives once x's class carries bit 1: the Distinct_1 edge
	// (eq x b) == false is recorded here.
	e, err := bank.Eq(x, b)
	require.NoError(t, err)
	attach(t, eg, e)
	require.True(t, eg.IsFalseOcc(core.Pos(e)))

	// A later merge grows x's class; the recorded edge must still expand
	// against its own timestamp and must not drag literal 6 in.
	assertEqOK(t, eg, y, x, 6)

	lits, err := eg.ExplainEquality(core.Pos(e), core.FalseOcc)
	require.NoError(t, err)
	assert.ElementsMatch(t, []core.Lit{2, 4}, lits)
}
