package core_test

import (
	"fmt"

	"github.com/katalvlaran/lvlsat/core"
)

// Example shows term interning and the polarity packing on occurrences:
// negation is a bit flip, and false is the negative occurrence of true.
func Example() {
	bank := core.NewTermBank()

	p := bank.Variable(core.Bool())
	notP := core.Neg(p)

	fmt.Println(notP.Term() == p, notP.IsPos())
	fmt.Println(core.FalseOcc == core.TrueOcc.Flip())

	e, _ := bank.Eq(core.Pos(p), core.TrueOcc)
	fmt.Println(bank.Kind(e), bank.Arity(e))
	// Output:
	// true false
	// true
	// eq 2
}
