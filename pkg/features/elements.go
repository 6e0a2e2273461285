// Package features turns a cermet composition into the named numeric
// features the surrogate predictors consume. It is a self-contained
// reference implementation of the evaluation gateway's Extractor
// contract; callers with their own featurization pipeline can substitute
// it freely.
package features

// ElementData carries the per-element constants used for composition
// statistics. Values follow the Magpie elemental property tables.
type ElementData struct {
	AtomicNumber int
	AtomicWeight float64
	Column       int     // periodic table group
	MeltingK     float64 // melting point, K
	NValence     int     // total valence electrons
	NdValence    int     // d-shell valence electrons
	NdUnfilled   int     // unfilled d-shell slots
	NUnfilled    int     // total unfilled valence slots
	GSMagMom     float64 // ground-state magnetic moment, μB/atom
	SpaceGroup   int     // ground-state structure space group number
}

// elementTable covers the binder elements the engine supports plus the
// ceramic formers (W/Ti/V/C/N) needed for composite statistics.
var elementTable = map[string]ElementData{
	"Ti": {22, 47.867, 4, 1941, 4, 2, 8, 8, 0, 194},
	"V":  {23, 50.942, 5, 2183, 5, 3, 7, 7, 0, 229},
	"Cr": {24, 51.996, 6, 2180, 6, 5, 5, 5, 0, 229},
	"Mn": {25, 54.938, 7, 1519, 7, 5, 5, 5, 0, 217},
	"Fe": {26, 55.845, 8, 1811, 8, 6, 4, 4, 2.22, 229},
	"Co": {27, 58.933, 9, 1768, 9, 7, 3, 3, 1.72, 194},
	"Ni": {28, 58.693, 10, 1728, 10, 8, 2, 2, 0.62, 225},
	"Cu": {29, 63.546, 11, 1358, 11, 10, 0, 0, 0, 225},
	"Zr": {40, 91.224, 4, 2128, 4, 2, 8, 8, 0, 194},
	"Nb": {41, 92.906, 5, 2750, 5, 4, 6, 6, 0, 229},
	"Mo": {42, 95.95, 6, 2896, 6, 5, 5, 5, 0, 229},
	"W":  {74, 183.84, 6, 3695, 6, 4, 6, 6, 0, 229},
	"Al": {13, 26.982, 13, 933, 3, 0, 0, 5, 0, 225},
	"C":  {6, 12.011, 14, 3823, 4, 0, 0, 4, 0, 194},
	"N":  {7, 14.007, 15, 63, 5, 0, 0, 3, 0, 205},
}

// transitionMetals is the subset counted by the transition-metal-fraction
// feature.
var transitionMetals = map[string]bool{
	"Ti": true, "V": true, "Cr": true, "Mn": true, "Fe": true,
	"Co": true, "Ni": true, "Cu": true, "Zr": true, "Nb": true,
	"Mo": true, "W": true,
}

// LookupElement returns the property record for an element symbol.
func LookupElement(symbol string) (ElementData, bool) {
	d, ok := elementTable[symbol]
	return d, ok
}

// KnownElements returns the symbols with property data, for constraint
// space validation at configuration time.
func KnownElements() []string {
	out := make([]string, 0, len(elementTable))
	for el := range elementTable {
		out = append(out, el)
	}
	return out
}
