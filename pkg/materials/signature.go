package materials

import (
	"fmt"
	"strings"
)

// SignaturePrecision is the number of decimal digits kept when encoding
// fractions and process parameters into a canonical signature. Rounding is
// deliberately lossy: two compositions differing only by floating noise
// below this precision share a cache entry, at the cost of a small risk of
// distinct-but-near-identical candidates colliding. Raise it if the
// surrogate models are sensitive below 1e-4.
const SignaturePrecision = 4

// Signature returns a stable, order-independent encoding of the
// composition and its process parameters, used as the evaluation cache
// key. Element fractions are sorted by symbol so map iteration order
// never leaks into the key.
func (c Composition) Signature() string {
	elements := c.Elements()

	parts := make([]string, 0, len(elements)+4)
	parts = append(parts, fmt.Sprintf("%s:%.*f", c.ceramic, SignaturePrecision, c.ceramicW))
	for _, el := range elements {
		parts = append(parts, fmt.Sprintf("%s:%.*f", el, SignaturePrecision, c.binder[el]))
	}
	parts = append(parts,
		fmt.Sprintf("g:%.*f", SignaturePrecision, c.process.GrainSizeUM),
		fmt.Sprintf("t:%.*f", SignaturePrecision, c.process.SinterTempC),
		fmt.Sprintf("h:%.*f", SignaturePrecision, c.process.HoldTimeMin),
	)

	return strings.Join(parts, "|")
}
