package egraph_test

import (
	"testing"

	"github.com/katalvlaran/lvlsat/core"
	"github.com/katalvlaran/lvlsat/egraph"
	"github.com/stretchr/testify/require"
)

// newEgraph builds a fresh bank and e-graph pair for a test.
func newEgraph() (*core.TermBank, *egraph.Egraph) {
	bank := core.NewTermBank()

	return bank, egraph.New(bank)
}

// vars interns n uninterpreted variables and returns their positive occs.
func vars(bank *core.TermBank, n int) []core.Occ {
	out := make([]core.Occ, n)
	for i := range out {
		out[i] = core.Pos(bank.Variable(core.Uninterpreted()))
	}

	return out
}

// attach attaches a term (and everything interned before it), requiring OK.
func attach(t *testing.T, eg *egraph.Egraph, id core.TermID) {
	t.Helper()
	res, err := eg.AttachTerm(id)
	require.NoError(t, err)
	require.Equal(t, egraph.StatusOK, res.Status)
}

// attachAll attaches every term currently interned in the bank.
func attachAll(t *testing.T, eg *egraph.Egraph, bank *core.TermBank) {
	t.Helper()
	attach(t, eg, core.TermID(bank.Len()-1))
}

// assertEqOK asserts an equality and requires it to be absorbed cleanly.
func assertEqOK(t *testing.T, eg *egraph.Egraph, x, y core.Occ, lit core.Lit) {
	t.Helper()
	res, err := eg.AssertEq(x, y, lit)
	require.NoError(t, err)
	require.Equal(t, egraph.StatusOK, res.Status)
}

// mustDistinct interns a distinct atom over the given occurrences.
func mustDistinct(t *testing.T, bank *core.TermBank, children []core.Occ) core.TermID {
	t.Helper()
	d, err := bank.Distinct(children)
	require.NoError(t, err)

	return d
}

// mustApply interns (apply f args...) of uninterpreted result type.
func mustApply(t *testing.T, bank *core.TermBank, f core.Occ, args ...core.Occ) core.TermID {
	t.Helper()
	id, err := bank.Apply(f, args, core.Uninterpreted())
	require.NoError(t, err)

	return id
}
