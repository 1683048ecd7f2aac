package genetics

// Allele is the effect carried by one chromosome copy at one locus. Alleles
// are compared by identity: two alleles with equal coefficients are still
// distinct unless they are the same pointer.
type Allele struct {
	selection float64
	dominance float64
}

func NewAllele(selection, dominance float64) *Allele {
	return &Allele{selection: selection, dominance: dominance}
}

// SelectionCoef returns the fitness effect; negative values are beneficial.
func (a *Allele) SelectionCoef() float64 {
	return a.selection
}

func (a *Allele) DominanceCoef() float64 {
	return a.dominance
}

// wildType is shared by every unmutated slot in the process and is never
// written after initialization.
var wildType = &Allele{}

// WildType returns the shared no-effect allele.
func WildType() *Allele {
	return wildType
}

type slotKind uint8

const (
	slotEmpty slotKind = iota
	slotWild
	slotMutant
)

// Slot holds the allele of one chromosome copy at a locus. The zero value is
// an unfilled slot, which only exists on a diploid offspring between the
// maternal and paternal inheritance calls.
type Slot struct {
	kind   slotKind
	allele *Allele
}

func Wild() Slot {
	return Slot{kind: slotWild}
}

// Mutant wraps a mutation-produced allele. A nil allele yields a wild slot.
func Mutant(a *Allele) Slot {
	if a == nil || a == wildType {
		return Wild()
	}
	return Slot{kind: slotMutant, allele: a}
}

func (s Slot) Filled() bool {
	return s.kind != slotEmpty
}

func (s Slot) IsMutant() bool {
	return s.kind == slotMutant
}

// Allele resolves the slot, substituting the wild type for wild and unfilled
// slots.
func (s Slot) Allele() *Allele {
	if s.kind == slotMutant {
		return s.allele
	}
	return wildType
}
