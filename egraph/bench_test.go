package egraph_test

import (
	"testing"

	"github.com/katalvlaran/lvlsat/core"
	"github.com/katalvlaran/lvlsat/egraph"
)

// chainSize is the term count used by the chain benchmarks; large enough to
// exercise the weighted union and proof-forest paths, small enough to keep
// per-iteration setup cheap.
const chainSize = 512

// buildChain interns n uninterpreted variables and attaches them.
func buildChain(b *testing.B, n int) (*core.TermBank, *egraph.Egraph, []core.Occ) {
	b.Helper()
	bank := core.NewTermBank()
	vs := make([]core.Occ, n)
	for i := range vs {
		vs[i] = core.Pos(bank.Variable(core.Uninterpreted()))
	}
	eg := egraph.New(bank, egraph.WithCapacity(2*n))
	if _, err := eg.AttachTerm(vs[n-1].Term()); err != nil {
		b.Fatal(err)
	}

	return bank, eg, vs
}

// BenchmarkAssertChain measures a linear chain of equality assertions.
func BenchmarkAssertChain(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, eg, vs := buildChain(b, chainSize)
		for i := 1; i < chainSize; i++ {
			if res, err := eg.AssertEq(vs[i-1], vs[i], core.Lit(2*i)); err != nil || res.Status != egraph.StatusOK {
				b.Fatal("unexpected assert outcome")
			}
		}
	}
}

// BenchmarkExplainAcrossChain measures explanation reconstruction across a
// full chain: the worst-case proof-forest path.
func BenchmarkExplainAcrossChain(b *testing.B) {
	_, eg, vs := buildChain(b, chainSize)
	for i := 1; i < chainSize; i++ {
		if _, err := eg.AssertEq(vs[i-1], vs[i], core.Lit(2*i)); err != nil {
			b.Fatal(err)
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := eg.ExplainEquality(vs[0], vs[chainSize-1]); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkCongruenceCascade measures the re-keying path: one merge at the
// base of an application tower collapses every level by congruence.
func BenchmarkCongruenceCascade(b *testing.B) {
	const depth = 128
	for i := 0; i < b.N; i++ {
		bank := core.NewTermBank()
		f := core.Pos(bank.Variable(core.Function()))
		x := core.Pos(bank.Variable(core.Uninterpreted()))
		y := core.Pos(bank.Variable(core.Uninterpreted()))
		cx, cy := x, y
		for i := 0; i < depth; i++ {
			fx, err := bank.Apply(f, []core.Occ{cx}, core.Uninterpreted())
			if err != nil {
				b.Fatal(err)
			}
			fy, err := bank.Apply(f, []core.Occ{cy}, core.Uninterpreted())
			if err != nil {
				b.Fatal(err)
			}
			cx, cy = core.Pos(fx), core.Pos(fy)
		}
		eg := egraph.New(bank, egraph.WithCapacity(4*depth))
		if _, err := eg.AttachTerm(cy.Term()); err != nil {
			b.Fatal(err)
		}
		if res, err := eg.AssertEq(x, y, 2); err != nil || res.Status != egraph.StatusOK {
			b.Fatal("unexpected assert outcome")
		}
		if !eg.SameClass(cx, cy) {
			b.Fatal("cascade did not reach the top")
		}
	}
}

// BenchmarkPushPop measures checkpoint/undo of a block of assertions.
func BenchmarkPushPop(b *testing.B) {
	_, eg, vs := buildChain(b, chainSize)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		eg.Push()
		for i := 1; i < chainSize; i++ {
			if _, err := eg.AssertEq(vs[i-1], vs[i], core.Lit(2*i)); err != nil {
				b.Fatal(err)
			}
		}
		if err := eg.Pop(1); err != nil {
			b.Fatal(err)
		}
	}
}
