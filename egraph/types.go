// Package egraph: sentinel errors, assertion results, antecedent tags,
// theory identifiers and construction options.
package egraph

import (
	"errors"

	"github.com/katalvlaran/lvlsat/core"
)

// Sentinel errors for e-graph operations. Conflicts are never errors;
// these report contract violations by the caller.
var (
	// ErrNotAttached indicates an operation referenced a term that was never
	// attached to this e-graph (or was detached by a Pop).
	ErrNotAttached = errors.New("egraph: term not attached")

	// ErrTypeMismatch indicates an equality asserted between terms of
	// incompatible types.
	ErrTypeMismatch = errors.New("egraph: asserted equality between incompatible types")

	// ErrDifferentClasses indicates ExplainEquality was called on two
	// occurrences that are not provably equal. This is a caller bug.
	ErrDifferentClasses = errors.New("egraph: explain-equality on terms in different classes")

	// ErrNotDisequal indicates ExplainDisequality was called on two
	// occurrences that are not known-disequal.
	ErrNotDisequal = errors.New("egraph: explain-disequality on terms not known disequal")

	// ErrReentrantExplain indicates an Explain* entry point was re-entered,
	// e.g. from a satellite callback. The explanation queue and mark bits
	// are shared scratch; re-entry is forbidden.
	ErrReentrantExplain = errors.New("egraph: explanation construction re-entered")

	// ErrNoSatellite indicates a theory propagation referenced a theory with
	// no registered satellite.
	ErrNoSatellite = errors.New("egraph: no satellite registered for theory")

	// ErrBadScope indicates Pop was asked to undo more scopes than Push created.
	ErrBadScope = errors.New("egraph: pop exceeds pushed scopes")

	// ErrBadLiteral indicates a literal binding was given a negative
	// literal, or an explanation referenced a literal that was never bound.
	ErrBadLiteral = errors.New("egraph: unknown literal")

	// ErrNotBoolean indicates a boolean-only operation (literal binding, a
	// negative occurrence in an asserted equality) was applied to a
	// non-boolean term.
	ErrNotBoolean = errors.New("egraph: boolean term required")

	// ErrNotDistinctAtom indicates AssertDistinct/AssertNotDistinct was
	// called on a term that is not a distinct composite.
	ErrNotDistinctAtom = errors.New("egraph: distinct composite required")

	// ErrBadEdge indicates an edge index outside the current stack.
	ErrBadEdge = errors.New("egraph: edge index out of range")

	// ErrNoEqualPair indicates ExplainNotDistinct found no two children
	// provably equal - the atom is not provably false by pair collapse.
	ErrNoEqualPair = errors.New("egraph: no two children provably equal")
)

// Status is the outcome of an assertion.
type Status uint8

const (
	// StatusOK: the assertion was absorbed without contradiction.
	StatusOK Status = iota

	// StatusConflict: the assertion contradicts earlier ones; the Result
	// carries the conflict literal vector.
	StatusConflict
)

// Result reports the outcome of an assertion. Conflicts are data, not
// errors: Conflict holds the asserted literals whose conjunction is
// unsatisfiable, ready for conflict-clause construction.
type Result struct {
	// Status is StatusOK or StatusConflict.
	Status Status

	// Conflict is the literal vector of a StatusConflict result; nil otherwise.
	Conflict []core.Lit
}

// OK is the shared all-clear result.
var OK = Result{Status: StatusOK}

// Implied is one entailed literal reported by Propagate: Atom became equal
// to true (positive Lit) or false (negative Lit) through e-graph reasoning.
type Implied struct {
	// Lit is the entailed literal, sign included.
	Lit core.Lit

	// Atom is the positive occurrence of the atom term the literal is bound to.
	Atom core.Occ
}

// AntTag discriminates edge antecedents. The distinct family is encoded as
// a base tag plus the mask bit index: TagDistinct0 + i for bit i in [0,31].
type AntTag uint8

const (
	// TagAxiom: definitional edge; expands to no literals.
	TagAxiom AntTag = iota

	// TagAssert: literal asserted by the Boolean solver; expands to it.
	TagAssert

	// TagEq: both endpoints already provably equal via a stored pair (t1,t2).
	TagEq

	// TagDistinct0 is disequality via a constant in each class (mask bit 0).
	// TagDistinct0 + i, 1 ≤ i ≤ 31, is disequality via the i-th registered
	// distinct atom. Use distinctTag(i) / (AntTag).distinctBit().
	TagDistinct0
)

const (
	// TagSimpOr: (or …) simplified to false or to a single disjunct v.
	TagSimpOr AntTag = TagDistinct0 + 32 + iota

	// TagBasicCongruence: children pairwise equal (apply/update/tuple).
	TagBasicCongruence

	// TagEqCongruence1: eq-congruence, children aligned directly.
	TagEqCongruence1

	// TagEqCongruence2: eq-congruence, children crossed by normalisation.
	TagEqCongruence2

	// TagIteCongruence1: ite-congruence, conditions aligned directly.
	TagIteCongruence1

	// TagIteCongruence2: ite-congruence, condition flipped, branches swapped.
	TagIteCongruence2

	// TagOrCongruence: each child of either or-composite equals some child
	// of the other; the edge owns the witness array.
	TagOrCongruence

	// TagDistinctCongruence: children related by a stored permutation.
	TagDistinctCongruence

	// TagArithPropagation: equality supplied by the arithmetic satellite.
	TagArithPropagation

	// TagBVPropagation: equality supplied by the bit-vector satellite.
	TagBVPropagation

	// TagFunPropagation: equality supplied by the function satellite.
	TagFunPropagation
)

// distinctTag returns the antecedent tag for disequality via mask bit i.
func distinctTag(i uint32) AntTag { return TagDistinct0 + AntTag(i) }

// isDistinct reports whether the tag belongs to the distinct family.
func (t AntTag) isDistinct() bool { return t >= TagDistinct0 && t < TagDistinct0+32 }

// distinctBit returns the mask bit index of a distinct-family tag.
func (t AntTag) distinctBit() uint32 { return uint32(t - TagDistinct0) }

// Theory identifies a satellite solver slot.
type Theory uint8

const (
	// TheoryArith is the arithmetic satellite slot.
	TheoryArith Theory = iota

	// TheoryBV is the bit-vector satellite slot.
	TheoryBV

	// TheoryFun is the function satellite slot.
	TheoryFun

	// NumTheories is the number of satellite slots.
	NumTheories
)

// tag returns the propagation antecedent tag for the theory.
func (th Theory) tag() AntTag { return TagArithPropagation + AntTag(th) }

// theoryOf is the inverse of Theory.tag.
func theoryOf(t AntTag) Theory { return Theory(t - TagArithPropagation) }

// ThVar is a theory-variable id owned by a satellite.
type ThVar int32

// NullThVar marks the absence of a theory variable.
const NullThVar ThVar = -1

// Option configures an Egraph at construction time.
// Use with New(bank, opts...).
type Option func(*Options)

// Options holds construction parameters for an Egraph.
type Options struct {
	// Capacity is a hint for the initial number of terms; backing slices are
	// pre-allocated to it. Zero means a small default.
	Capacity int
}

// DefaultOptions returns the default construction parameters.
func DefaultOptions() Options {
	return Options{Capacity: 64}
}

// WithCapacity returns an Option that pre-sizes the per-term tables for n terms.
func WithCapacity(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.Capacity = n
		}
	}
}
