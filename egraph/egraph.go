// Package egraph: the Egraph container, construction, term attachment and
// class-table queries.
//
// Per-term attributes are flat slices indexed by core.TermID; per-class
// attributes live in the classes slice indexed by core.ClassID. Class i is
// born together with term i as a singleton, so the two index spaces stay
// aligned for the lifetime of the e-graph (detachment on Pop truncates both).
package egraph

import (
	"github.com/willf/bitset"

	"github.com/katalvlaran/lvlsat/core"
)

// boolClass is the class of the boolean constants: term 0 is true, its
// negative occurrence is false. This class always survives merges.
const boolClass core.ClassID = 0

// class holds the per-class attributes of the union-find.
type class struct {
	// root is the representative occurrence; it never changes while the
	// class exists and anchors the circular membership ring.
	root core.Occ

	// dmask is the distinct-mask: bit 0 = "contains a constant", bit i ≥ 1 =
	// "appears in the i-th registered distinct atom that is currently true".
	dmask uint32

	// size counts member terms; merges absorb the smaller class.
	size int32

	// parents lists composite terms with at least one child in this class;
	// they are re-keyed in the congruence table when the class is absorbed.
	parents []core.TermID

	// thvar holds the theory variable attached per satellite, or NullThVar.
	thvar [NumTheories]ThVar

	// thterm names the term that introduced each theory variable; satellites
	// are notified in terms of it, since they never learn class ids.
	thterm [NumTheories]core.TermID
}

// antecedent is the typed payload of an edge: a tag plus the fields the tag
// needs. Permutation slices are owned by the edge and released when it is
// popped; opaque carries a satellite payload for propagation edges.
type antecedent struct {
	tag    AntTag
	lit    core.Lit // TagAssert
	t1, t2 core.Occ // TagEq, TagDistinct*
	perm   []core.Occ
	opaque any
}

// edgeStack is the ordered log of merge edges. Index = timestamp.
type edgeStack struct {
	lhs, rhs []core.Occ
	ant      []antecedent
	activity []uint8
	mark     *bitset.BitSet // explanation-queue membership, by edge id
}

// top returns the next edge id, i.e. the current stack height.
func (s *edgeStack) top() core.EdgeID { return core.EdgeID(len(s.lhs)) }

// dtable registers the currently-true distinct atoms, one mask bit each.
// Bit 0 is reserved for constants and has no atom.
type dtable struct {
	npreds uint32
	atom   [32]core.TermID
}

// pendingEq is an implied equality waiting to be turned into an edge.
type pendingEq struct {
	x, y core.Occ
	ant  antecedent
}

// scope is a Push checkpoint.
type scope struct {
	trailLen int
	edgeTop  core.EdgeID
	implied  int
}

// Egraph is the congruence-closure core. It is owned by a single thread;
// none of its methods may be called concurrently.
type Egraph struct {
	bank *core.TermBank

	// per-term overlays, indexed by TermID; length = number of attached terms
	label   []core.Label
	edge    []core.EdgeID // proof-forest edge index; NullEdge at tree roots
	next    []core.Occ    // circular next-in-class ring
	hashed  []bool        // composite is the congruence-table entry for its key
	atomLit []core.Lit    // bound Boolean literal, or NullLit

	classes []class

	stack  edgeStack
	ctable map[string]core.TermID
	dtable dtable

	// scratch, reset between uses (see the concurrency notes in doc.go)
	tmark      *bitset.BitSet // term marks for common-ancestor search
	imap       map[int32]core.Occ
	explQueue  []core.EdgeID
	inExplain  bool
	keyBuf     []byte
	labBuf     []core.Label
	keyScratch []string

	trail  []trailRec
	scopes []scope

	pending []pendingEq
	implied []Implied
	litAtom map[core.Lit]core.Occ

	satellites [NumTheories]Satellite

	// thvarList records, per theory, every class a variable was attached to;
	// entries are followed through merges via the recorded class's root.
	thvarList [NumTheories][]core.ClassID
}

// New creates an e-graph over the given term bank and attaches term 0
// (the boolean constant true) as class 0.
// Complexity: O(capacity) allocation.
func New(bank *core.TermBank, opts ...Option) *Egraph {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	eg := &Egraph{
		bank:    bank,
		label:   make([]core.Label, 0, o.Capacity),
		edge:    make([]core.EdgeID, 0, o.Capacity),
		next:    make([]core.Occ, 0, o.Capacity),
		hashed:  make([]bool, 0, o.Capacity),
		atomLit: make([]core.Lit, 0, o.Capacity),
		classes: make([]class, 0, o.Capacity),
		ctable:  make(map[string]core.TermID, o.Capacity),
		imap:    make(map[int32]core.Occ),
		litAtom: make(map[core.Lit]core.Occ),
	}
	eg.stack.mark = bitset.New(uint(o.Capacity))
	eg.tmark = bitset.New(uint(o.Capacity))
	eg.dtable.npreds = 1 // bit 0 is the constant bit
	for i := range eg.dtable.atom {
		eg.dtable.atom[i] = core.NullTerm
	}

	// Attach the boolean constant true; its class carries dmask bit 0.
	eg.attachOne(core.TrueTerm)

	return eg
}

// AttachTerm registers the bank term t (and any earlier terms not yet
// attached) with the e-graph: a singleton class per term, composites entered
// into the congruence table. Insertion collisions trigger congruence merges,
// so attaching can already produce a conflict.
// Complexity: O(arity) per term plus any merge fallout.
func (eg *Egraph) AttachTerm(t core.TermID) (Result, error) {
	if !eg.bank.Valid(t) {
		return OK, ErrNotAttached
	}
	for id := core.TermID(len(eg.label)); id <= t; id++ {
		eg.attachOne(id)
		if res := eg.processPending(); res.Status == StatusConflict {
			return res, nil
		}
	}

	return OK, nil
}

// attachOne registers exactly the next term id. Composites are hashed into
// the congruence table; discovered congruences and simplifications are left
// in the pending queue for the caller to drain.
func (eg *Egraph) attachOne(t core.TermID) {
	// Singleton class: class id == term id by construction.
	cid := core.ClassID(t)
	eg.label = append(eg.label, core.MakeLabel(cid, 0))
	eg.edge = append(eg.edge, core.NullEdge)
	eg.next = append(eg.next, core.Pos(t))
	eg.hashed = append(eg.hashed, false)
	eg.atomLit = append(eg.atomLit, core.NullLit)

	cl := class{root: core.Pos(t), size: 1}
	for th := range cl.thvar {
		cl.thvar[th] = NullThVar
		cl.thterm[th] = core.NullTerm
	}
	if eg.bank.Kind(t) == core.KindConstant {
		cl.dmask = 1 // constants are pairwise distinct: mask bit 0
	}
	eg.classes = append(eg.classes, cl)

	rec := attachRec{term: t}
	if eg.bank.Kind(t).IsComposite() {
		// Register t in the use list of each child class (dedup within the
		// children: the same class is recorded once per attach).
		for i, ch := range eg.bank.Children(t) {
			c := eg.classOfOcc(ch)
			dup := false
			for _, prev := range eg.bank.Children(t)[:i] {
				if eg.classOfOcc(prev) == c {
					dup = true

					break
				}
			}
			if dup {
				continue
			}
			eg.classes[c].parents = append(eg.classes[c].parents, t)
			rec.parentClasses = append(rec.parentClasses, c)
		}

		// Enter the composite into the congruence table under its signature.
		key := eg.sigKey(t)
		if other, ok := eg.ctable[key]; ok {
			// Congruent to an existing composite: t stays hidden and the
			// classes are queued for merging.
			eg.pending = append(eg.pending, pendingEq{
				x:   core.Pos(t),
				y:   core.Pos(other),
				ant: eg.congruenceAnt(t, other),
			})
		} else {
			eg.ctable[key] = t
			eg.hashed[t] = true
			rec.key = key
			rec.inserted = true
			eg.checkSimplify(t)
		}
	}
	eg.trail = append(eg.trail, rec)
}

// attached reports whether term t is currently attached.
func (eg *Egraph) attached(t core.TermID) bool {
	return t >= 0 && int(t) < len(eg.label)
}

// requireAttached validates an occurrence's term.
func (eg *Egraph) requireAttached(o core.Occ) error {
	if !eg.attached(o.Term()) {
		return ErrNotAttached
	}

	return nil
}

// labelOcc returns the label of an occurrence: the term label with the
// occurrence's polarity XOR-ed in.
func (eg *Egraph) labelOcc(o core.Occ) core.Label {
	return eg.label[o.Term()] ^ core.Label(o&1)
}

// classOfOcc returns the class of the occurrence's term.
func (eg *Egraph) classOfOcc(o core.Occ) core.ClassID {
	return eg.label[o.Term()].Class()
}

// LabelOf returns the label of the occurrence, or NullLabel when the term
// is not attached. Two occurrences are provably equal iff labels are equal.
func (eg *Egraph) LabelOf(o core.Occ) core.Label {
	if !eg.attached(o.Term()) {
		return core.NullLabel
	}

	return eg.labelOcc(o)
}

// ClassOf returns the equivalence class of the occurrence's term, or
// NullClass when the term is not attached.
func (eg *Egraph) ClassOf(o core.Occ) core.ClassID {
	if !eg.attached(o.Term()) {
		return core.NullClass
	}

	return eg.classOfOcc(o)
}

// SameClass reports whether the two occurrences' terms are in one class.
func (eg *Egraph) SameClass(x, y core.Occ) bool {
	if !eg.attached(x.Term()) || !eg.attached(y.Term()) {
		return false
	}

	return eg.classOfOcc(x) == eg.classOfOcc(y)
}

// EqualOccs reports whether the two occurrences are provably equal
// (same class and matching polarity).
func (eg *Egraph) EqualOccs(x, y core.Occ) bool {
	if !eg.attached(x.Term()) || !eg.attached(y.Term()) {
		return false
	}

	return eg.labelOcc(x) == eg.labelOcc(y)
}

// Opposite reports whether x is provably the boolean negation of y.
func (eg *Egraph) Opposite(x, y core.Occ) bool {
	if !eg.attached(x.Term()) || !eg.attached(y.Term()) {
		return false
	}

	return eg.labelOcc(x) == eg.labelOcc(y).Flip()
}

// IsTrueOcc reports whether the occurrence is provably true.
func (eg *Egraph) IsTrueOcc(o core.Occ) bool {
	return eg.attached(o.Term()) && eg.labelOcc(o) == core.TrueLabel
}

// IsFalseOcc reports whether the occurrence is provably false.
func (eg *Egraph) IsFalseOcc(o core.Occ) bool {
	return eg.attached(o.Term()) && eg.labelOcc(o) == core.FalseLabel
}

// Dmask returns the distinct-mask of a class.
func (eg *Egraph) Dmask(c core.ClassID) uint32 {
	if c < 0 || int(c) >= len(eg.classes) {
		return 0
	}

	return eg.classes[c].dmask
}

// NumTerms returns the number of attached terms.
func (eg *Egraph) NumTerms() int { return len(eg.label) }

// NumEdges returns the height of the edge stack.
func (eg *Egraph) NumEdges() int { return len(eg.stack.lhs) }

// EdgeInfo returns the endpoints and antecedent tag of edge i.
func (eg *Egraph) EdgeInfo(i core.EdgeID) (lhs, rhs core.Occ, tag AntTag) {
	return eg.stack.lhs[i], eg.stack.rhs[i], eg.stack.ant[i].tag
}

// EdgeActivity returns the activity byte of edge i. Activities saturate at
// 255, count participations in explanations, and are not undone on backtrack.
func (eg *Egraph) EdgeActivity(i core.EdgeID) uint8 { return eg.stack.activity[i] }
