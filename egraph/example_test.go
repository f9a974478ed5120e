package egraph_test

import (
	"fmt"

	"github.com/katalvlaran/lvlsat/core"
	"github.com/katalvlaran/lvlsat/egraph"
)

// Example demonstrates the basic assert/explain loop: two asserted
// equalities entail a third, and the explanation names exactly the
// asserted literals behind it.
func Example() {
	bank := core.NewTermBank()
	a := core.Pos(bank.Variable(core.Uninterpreted()))
	b := core.Pos(bank.Variable(core.Uninterpreted()))
	c := core.Pos(bank.Variable(core.Uninterpreted()))

	eg := egraph.New(bank)
	if _, err := eg.AttachTerm(c.Term()); err != nil {
		fmt.Println(err)

		return
	}

	eg.AssertEq(a, b, 2) // literal 2 asserts a == b
	eg.AssertEq(b, c, 4) // literal 4 asserts b == c

	fmt.Println(eg.SameClass(a, c))
	lits, _ := eg.ExplainEquality(a, c)
	fmt.Println(lits)
	// Output:
	// true
	// [2 4]
}

// Example_congruence shows congruence closure: merging the arguments
// merges the applications, with the argument equality as the only reason.
func Example_congruence() {
	bank := core.NewTermBank()
	f := core.Pos(bank.Variable(core.Function()))
	a := core.Pos(bank.Variable(core.Uninterpreted()))
	b := core.Pos(bank.Variable(core.Uninterpreted()))
	fa, _ := bank.Apply(f, []core.Occ{a}, core.Uninterpreted())
	fb, _ := bank.Apply(f, []core.Occ{b}, core.Uninterpreted())

	eg := egraph.New(bank)
	eg.AttachTerm(fb)

	eg.AssertEq(a, b, 2)

	fmt.Println(eg.SameClass(core.Pos(fa), core.Pos(fb)))
	lits, _ := eg.ExplainEquality(core.Pos(fa), core.Pos(fb))
	fmt.Println(lits)
	// Output:
	// true
	// [2]
}

// Example_conflict shows a conflict vector: a distinct atom and an
// equality over two of its children cannot both hold.
func Example_conflict() {
	bank := core.NewTermBank()
	a := core.Pos(bank.Variable(core.Uninterpreted()))
	b := core.Pos(bank.Variable(core.Uninterpreted()))
	d, _ := bank.Distinct([]core.Occ{a, b})

	eg := egraph.New(bank)
	eg.AttachTerm(d)

	eg.AssertDistinct(d, 2)
	res, _ := eg.AssertEq(a, b, 4)

	fmt.Println(res.Status == egraph.StatusConflict)
	fmt.Println(res.Conflict)
	// Output:
	// true
	// [2 4]
}
