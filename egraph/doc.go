// Package egraph implements congruence closure over interned terms with
// full explanation generation: the equality core that sits between a CDCL
// Boolean solver and the theory satellites of an SMT solver.
//
// What:
//
//   - Class table: union-find over core.TermBank terms with per-class
//     distinct-masks, use lists and theory variables. Merges follow the
//     Tarjan weight rule (the boolean-constant class always survives).
//   - Edge stack: an ordered log of merge edges, each with a typed
//     antecedent (§ "Antecedents" below). The edge index is a timestamp and
//     the sole arbiter of causality.
//   - Proof forest: per-term edge indices forming an undirected spanning
//     tree of every class, supporting path traversal and common-ancestor
//     queries.
//   - Congruence table: a hash table keyed by (kind, normalised child
//     labels); collisions signal congruence merges. Normal forms order the
//     children of symmetric composites and force positive ite conditions,
//     with antecedent variants recording each adjustment.
//   - Distinct engine: up to 31 live distinct atoms tracked as bits of a
//     per-class 32-bit mask; bit 0 means "this class contains a constant".
//   - Explanation engine: expands any edge, equality or disequality into a
//     vector of asserted literals, causally consistent with the edge it
//     explains, including two-phase disequality pre-explanations for
//     satellites.
//
// Antecedents:
//
//	Axiom, Assert(L), Eq(t1,t2), Distinct_i(t1,t2) for i in 0…31,
//	SimpOr, BasicCongruence, EqCongruence1/2, IteCongruence1/2,
//	OrCongruence, DistinctCongruence, Arith/BV/FunPropagation.
//
// Why:
//   - Propagate entailed equalities and disequalities to the Boolean layer
//     as implied literals and to satellites as notifications.
//   - Replay, on demand, the exact asserted literals that entail any
//     propagated fact - the input to conflict-clause construction.
//
// Concurrency:
//
//	Single-threaded cooperative: the Boolean solver's thread owns the
//	e-graph; satellites are invoked as direct callbacks and must return
//	before the e-graph continues. The explanation queue, mark bits and the
//	imap scratch table are shared scratch; re-entering an Explain* entry
//	point from a callback returns ErrReentrantExplain.
//
// Complexity:
//
//   - AssertEq/AssertDiseq: amortized near-linear in affected terms
//     (weighted union; each term relabelled O(log n) times per level).
//   - Explain*:            O(path length + antecedent size) per edge.
//   - Push/Pop:            O(work undone) - exact decremental undo.
//
// Errors:
//
//   - ErrNotAttached        term was never attached to this e-graph
//   - ErrTypeMismatch       equality asserted between incompatible types
//   - ErrDifferentClasses   explain-equality on terms not provably equal
//   - ErrNotDisequal        explain-disequality on terms not provably disequal
//   - ErrReentrantExplain   explanation entry point re-entered
//   - ErrNoSatellite        theory propagation without a registered satellite
//   - ErrBadScope           Pop of more scopes than were pushed
//
// Conflicts are not errors: assertions return a Result that either reports
// StatusOK or carries the conflict literal vector.
package egraph
