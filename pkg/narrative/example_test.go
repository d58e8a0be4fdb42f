package narrative_test

import (
	"fmt"

	"github.com/matzehuels/tallyprint/pkg/classify"
	"github.com/matzehuels/tallyprint/pkg/narrative"
	"github.com/matzehuels/tallyprint/pkg/tally"
)

func ExampleCatalog_Lookup() {
	cat := narrative.Default()
	res := classify.Classify(tally.New(0, 2, 3, 0))

	text, ok := cat.Lookup(narrative.SectionShape, res.Key())
	fmt.Println(res.Key(), ok)
	fmt.Println(narrative.Expand(text, map[string]string{"name": "Sam"}))
	// Output:
	// three_two.R.T true
	// Sam checks ideas against reality first and then thinks them through. Plans that survive both steps tend to hold up.
}
