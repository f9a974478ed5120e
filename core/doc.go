// Package core defines the identifier arithmetic and the interning term
// table that every other lvlsat package builds on.
//
// What:
//
//   - TermID / Occ / Label: dense integer identifiers with the polarity bit
//     packed into the least-significant bit, so that boolean negation is a
//     single XOR and congruence hashing can normalise signs for free.
//   - ClassID, EdgeID, Lit: equivalence-class ids, edge-stack indices
//     (doubling as timestamps) and propositional literal ids.
//   - Kind: variable, constant, and the seven composite kinds
//     (apply, eq, ite, or, distinct, tuple, update).
//   - Type: boolean, arithmetic, bit-vector of a width, function,
//     uninterpreted.
//   - TermBank: an append-only intern table mapping TermID to kind, type
//     and ordered child occurrences. Term 0 is the boolean constant true;
//     FalseOcc is its negative occurrence.
//
// Why:
//   - Give the e-graph a flat, cache-friendly substrate: every per-term
//     attribute elsewhere is a slice indexed by TermID.
//   - Keep term construction separate from congruence closure: the bank
//     never deduplicates - the congruence table is the sole authority on
//     term equality.
//
// Key Types & Constants:
//
//   - Occ, Pos, Neg, TrueOcc, FalseOcc, NullOcc
//   - Label, MakeLabel, TrueLabel, FalseLabel, NullLabel
//   - Kind: KindVariable … KindUpdate
//   - Type: Bool(), Arith(), BitVector(w), Function(), Uninterpreted()
//   - TermBank: Variable, Constant, Apply, Eq, Ite, Or, Distinct, Tuple,
//     Update, Kind, Type, Children, Arity, Len
//
// Complexity:
//
//   - All constructors: O(arity) copy, amortized O(1) append.
//   - All accessors:    O(1).
//
// Errors:
//
//   - ErrArity          composite built with too few children
//   - ErrUnknownTerm    child occurrence references a term not in the bank
//   - ErrNegativeChild  negative occurrence where only positive are allowed
package core
