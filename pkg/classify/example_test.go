package classify_test

import (
	"fmt"

	"github.com/matzehuels/tallyprint/pkg/classify"
	"github.com/matzehuels/tallyprint/pkg/tally"
)

func ExampleClassify() {
	res := classify.Classify(tally.New(0, 2, 3, 0))

	fmt.Println("Dominant:", res.Dominant)
	fmt.Println("Secondary:", res.Secondary)
	fmt.Println("Shape:", res.Shape)
	fmt.Println("Key:", res.Key())
	// Output:
	// Dominant: R
	// Secondary: T
	// Shape: ThreeTwo(R, T)
	// Key: three_two.R.T
}

func ExampleParseKey() {
	shape, err := classify.ParseKey("three_one_one.L.R.C")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(shape.Kind, shape.Categories)
	// Output:
	// three_one_one [L R C]
}
