// Package lvlsat is the congruence-closure (e-graph) core of an SMT solver,
// with full explanation generation.
//
// 🚀 What is lvlsat?
//
//	A focused, production-grade library that maintains equivalence classes of
//	first-order terms under equality and congruence, detects implied
//	equalities and disequalities, and reconstructs minimal, causally
//	consistent explanations for everything it announces:
//
//	  • Core primitives: interned terms, occurrences with packed polarity
//	  • Union-find classes with distinct-masks and congruence hashing
//	  • An edge stack of typed antecedents driving undo and explanations
//	  • Proof-forest traversal with common-ancestor queries
//	  • A satellite interface for theory solvers (arithmetic, bit-vectors, …)
//
// ✨ Why choose lvlsat?
//
//   - Sound explanations   - every implied literal can be replayed to the
//     asserted literals that entail it
//   - Causally consistent  - explaining edge k never mentions anything
//     asserted after k
//   - Exact backtracking   - push/pop restores class, mask and table state
//     bit for bit
//
// Everything is organized under two subpackages:
//
//	core/   - term identifiers, occurrences, labels, the interning TermBank
//	egraph/ - classes, edges, congruence, distinct masks, explanations
//
// Quick ASCII example:
//
//	assert a=b, b=c  ⇒  {a,b,c} one class; explain(a=c) = {a=b, b=c}
//
// Dive into the per-package doc comments for tutorials, complexity notes
// and the antecedent taxonomy.
//
//	go get github.com/katalvlaran/lvlsat/egraph
package lvlsat
