// Package core: the TermBank intern table.
//
// The bank is append-only: terms are interned and never deleted, so every
// TermID stays valid for the lifetime of the bank. The bank performs no
// hash-consing - structurally identical composites get distinct ids, and the
// e-graph congruence table is the sole authority on their equality.
package core

// TermBank is the append-only intern table for terms.
//
// Term 0 is always the boolean constant true (TrueTerm); false is its
// negative occurrence. The bank stores, per term: kind, type and the ordered
// child occurrences of composites. It is not safe for concurrent mutation;
// the surrounding solver owns it from a single thread, matching the
// cooperative scheduling model of the e-graph.
type TermBank struct {
	kind     []Kind
	typ      []Type
	children [][]Occ // nil for variables and constants
}

// NewTermBank creates a bank holding only the boolean constant true.
// Complexity: O(1).
func NewTermBank() *TermBank {
	b := &TermBank{
		kind:     make([]Kind, 0, 64),
		typ:      make([]Type, 0, 64),
		children: make([][]Occ, 0, 64),
	}
	// Term 0: the constant true.
	b.intern(KindConstant, Bool(), nil)

	return b
}

// intern appends one term and returns its id.
func (b *TermBank) intern(k Kind, typ Type, ch []Occ) TermID {
	id := TermID(len(b.kind))
	b.kind = append(b.kind, k)
	b.typ = append(b.typ, typ)
	b.children = append(b.children, ch)

	return id
}

// checkChildren validates that every child occurrence references an interned
// term and, when posOnly is set, that every occurrence is positive.
func (b *TermBank) checkChildren(ch []Occ, posOnly bool) error {
	for _, o := range ch {
		if t := o.Term(); t < 0 || int(t) >= len(b.kind) {
			return ErrUnknownTerm
		}
		if posOnly && !o.IsPos() {
			return ErrNegativeChild
		}
	}

	return nil
}

// Len returns the number of interned terms.
func (b *TermBank) Len() int { return len(b.kind) }

// Valid reports whether t is an interned term id.
func (b *TermBank) Valid(t TermID) bool { return t >= 0 && int(t) < len(b.kind) }

// Kind returns the kind of t.
func (b *TermBank) Kind(t TermID) Kind { return b.kind[t] }

// Type returns the type of t.
func (b *TermBank) Type(t TermID) Type { return b.typ[t] }

// Children returns the ordered child occurrences of t (nil for atoms).
// The returned slice is owned by the bank and must not be mutated.
func (b *TermBank) Children(t TermID) []Occ { return b.children[t] }

// Arity returns the number of children of t.
func (b *TermBank) Arity(t TermID) int { return len(b.children[t]) }

// Variable interns a fresh variable of the given type.
// Complexity: O(1).
func (b *TermBank) Variable(typ Type) TermID {
	return b.intern(KindVariable, typ, nil)
}

// Constant interns a fresh constant of the given type. Every call mints a
// distinct constant; two distinct constants are disequal in every model.
// Complexity: O(1).
func (b *TermBank) Constant(typ Type) TermID {
	return b.intern(KindConstant, typ, nil)
}

// Apply interns the application (apply f a_1 … a_n), n ≥ 1.
// Complexity: O(n).
func (b *TermBank) Apply(f Occ, args []Occ, typ Type) (TermID, error) {
	if len(args) == 0 {
		return NullTerm, ErrArity
	}
	ch := make([]Occ, 0, len(args)+1)
	ch = append(ch, f)
	ch = append(ch, args...)
	if err := b.checkChildren(ch, false); err != nil {
		return NullTerm, err
	}

	return b.intern(KindApply, typ, ch), nil
}

// Eq interns the boolean atom (eq a b).
// Complexity: O(1).
func (b *TermBank) Eq(a, c Occ) (TermID, error) {
	ch := []Occ{a, c}
	if err := b.checkChildren(ch, false); err != nil {
		return NullTerm, err
	}

	return b.intern(KindEq, Bool(), ch), nil
}

// Ite interns (ite c a b) of the given result type. Child 0 is the condition.
// Complexity: O(1).
func (b *TermBank) Ite(c, a, e Occ, typ Type) (TermID, error) {
	ch := []Occ{c, a, e}
	if err := b.checkChildren(ch, false); err != nil {
		return NullTerm, err
	}

	return b.intern(KindIte, typ, ch), nil
}

// Or interns the boolean disjunction (or a_1 … a_n), n ≥ 2.
// Complexity: O(n).
func (b *TermBank) Or(children []Occ) (TermID, error) {
	if len(children) < 2 {
		return NullTerm, ErrArity
	}
	ch := make([]Occ, len(children))
	copy(ch, children)
	if err := b.checkChildren(ch, false); err != nil {
		return NullTerm, err
	}

	return b.intern(KindOr, Bool(), ch), nil
}

// Distinct interns the boolean atom (distinct a_1 … a_n), n ≥ 2.
// All children must be positive occurrences.
// Complexity: O(n).
func (b *TermBank) Distinct(children []Occ) (TermID, error) {
	if len(children) < 2 {
		return NullTerm, ErrArity
	}
	ch := make([]Occ, len(children))
	copy(ch, children)
	if err := b.checkChildren(ch, true); err != nil {
		return NullTerm, err
	}

	return b.intern(KindDistinct, Bool(), ch), nil
}

// Tuple interns the tuple (tuple a_1 … a_n), n ≥ 1, of the given type.
// Complexity: O(n).
func (b *TermBank) Tuple(children []Occ, typ Type) (TermID, error) {
	if len(children) == 0 {
		return NullTerm, ErrArity
	}
	ch := make([]Occ, len(children))
	copy(ch, children)
	if err := b.checkChildren(ch, true); err != nil {
		return NullTerm, err
	}

	return b.intern(KindTuple, typ, ch), nil
}

// Update interns the function update (update f a_1 … a_n v), n ≥ 1.
// Child 0 is f, children 1…n the arguments, the last child is v.
// Complexity: O(n).
func (b *TermBank) Update(f Occ, args []Occ, v Occ, typ Type) (TermID, error) {
	if len(args) == 0 {
		return NullTerm, ErrArity
	}
	ch := make([]Occ, 0, len(args)+2)
	ch = append(ch, f)
	ch = append(ch, args...)
	ch = append(ch, v)
	if err := b.checkChildren(ch, false); err != nil {
		return NullTerm, err
	}

	return b.intern(KindUpdate, typ, ch), nil
}
