// Package core: identifier arithmetic for terms, occurrences, labels,
// classes, edges and literals.
//
// Occurrences and labels pack a polarity bit into the least-significant bit
// of the underlying integer. Flipping polarity is a single XOR; stripping it
// is a single AND; the identifier proper is recovered by an arithmetic shift.
// Every path-walking routine in the e-graph XORs polarities as it traverses
// edges, so this packing is load-bearing, not cosmetic.
package core

// TermID identifies an interned term in a TermBank.
type TermID int32

// NullTerm is the absent term id.
const NullTerm TermID = -1

// TrueTerm is the id of the boolean constant true, interned by every bank.
const TrueTerm TermID = 0

// Occ is a term occurrence: a term id with a polarity bit in the LSB.
// Pos(t) and Neg(t) denote t and its boolean negation.
type Occ int32

// NullOcc is the absent occurrence.
const NullOcc Occ = -1

// TrueOcc is the positive occurrence of the constant true.
const TrueOcc Occ = Occ(TrueTerm) << 1

// FalseOcc is the negative occurrence of the constant true, i.e. false.
const FalseOcc Occ = TrueOcc | 1

// Pos returns the positive occurrence of t.
func Pos(t TermID) Occ { return Occ(t) << 1 }

// Neg returns the negative occurrence of t.
func Neg(t TermID) Occ { return Occ(t)<<1 | 1 }

// Term returns the term id of the occurrence.
func (o Occ) Term() TermID { return TermID(o >> 1) }

// Polarity returns the polarity bit: 0 for positive, 1 for negative.
func (o Occ) Polarity() uint32 { return uint32(o & 1) }

// IsPos reports whether the occurrence is positive.
func (o Occ) IsPos() bool { return o&1 == 0 }

// Flip returns the occurrence with the opposite polarity.
func (o Occ) Flip() Occ { return o ^ 1 }

// Strip returns the positive occurrence of the same term.
func (o Occ) Strip() Occ { return o &^ 1 }

// WithSign returns the occurrence with its polarity XOR-ed by sign (0 or 1).
func (o Occ) WithSign(sign uint32) Occ { return o ^ Occ(sign&1) }

// ClassID identifies an equivalence class in the e-graph.
type ClassID int32

// NullClass is the absent class id.
const NullClass ClassID = -1

// Label is a class id with a polarity bit in the LSB, exactly the Occ
// packing lifted to classes: two occurrences have equal labels iff they are
// provably equal, and labels differing only in the LSB are provably opposite.
type Label int32

// NullLabel is the label of a term not yet attached to the e-graph.
const NullLabel Label = -1

// TrueLabel is the label of the positive boolean-constant class.
const TrueLabel Label = 0

// FalseLabel is the label of the negated boolean-constant class.
const FalseLabel Label = 1

// MakeLabel packs a class id and a polarity bit into a label.
func MakeLabel(c ClassID, pol uint32) Label { return Label(c)<<1 | Label(pol&1) }

// Class returns the class id of the label.
func (l Label) Class() ClassID { return ClassID(l >> 1) }

// Polarity returns the polarity bit of the label.
func (l Label) Polarity() uint32 { return uint32(l & 1) }

// Flip returns the label with the opposite polarity.
func (l Label) Flip() Label { return l ^ 1 }

// EdgeID indexes the e-graph edge stack. The index doubles as a timestamp:
// smaller ids were asserted earlier, and this order is the sole arbiter of
// causality in explanations.
type EdgeID int32

// NullEdge marks a proof-forest root.
const NullEdge EdgeID = -1

// Lit is a propositional literal id owned by the Boolean solver, with the
// negation bit packed into the LSB so that NegLit(l) == l^1.
type Lit int32

// NullLit is the absent literal.
const NullLit Lit = -1

// NegLit returns the negation of the literal.
func NegLit(l Lit) Lit { return l ^ 1 }

// PosLit reports whether the literal is positive.
func PosLit(l Lit) bool { return l&1 == 0 }
