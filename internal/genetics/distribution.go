package genetics

import (
	"fmt"
	"math"
)

type Family string

const (
	FamilyUniform Family = "uniform"
	FamilyNormal  Family = "normal"
	FamilyGamma   Family = "gamma"
	FamilyNegExp  Family = "negexp"
	// FamilyScaled ties dominance to the selection coefficient and is only
	// valid for dominance draws.
	FamilyScaled Family = "scaled"
)

type Param string

const (
	ParamMin   Param = "min"
	ParamMax   Param = "max"
	ParamMean  Param = "mean"
	ParamSD    Param = "sd"
	ParamShape Param = "shape"
	ParamScale Param = "scale"
)

// Role names which coefficient a distribution is drawn for.
type Role string

const (
	RoleMutation  Role = "mutation"
	RoleDominance Role = "dominance"
)

// ScaledDominanceRate is the exponent factor of the scaled dominance law:
// hmax = exp(ScaledDominanceRate * s).
var ScaledDominanceRate = -math.Log(2*0.36) / 0.05

// MaxRejections bounds every rejection loop in the sampler.
const MaxRejections = 1_000_000

var requiredParams = map[Family][]Param{
	FamilyUniform: {ParamMin, ParamMax},
	FamilyNormal:  {ParamMean, ParamSD},
	FamilyGamma:   {ParamShape, ParamScale},
	FamilyNegExp:  {ParamMean},
	FamilyScaled:  nil,
}

// Distribution describes one configured distribution family and its named
// parameters. It is treated as read-only once a trait has been constructed.
type Distribution struct {
	Family Family
	Params map[Param]float64
}

func (d Distribution) Param(name Param) float64 {
	return d.Params[name]
}

// Validate checks that the family is known for the role and that every
// required parameter is present with a usable value.
func (d Distribution) Validate(role Role) error {
	required, ok := requiredParams[d.Family]
	if !ok || (d.Family == FamilyScaled && role != RoleDominance) {
		return fmt.Errorf("%w: %s distribution %q must be one of %s", ErrConfiguration, role, d.Family, allowedFamilies(role))
	}
	for _, name := range required {
		if _, ok := d.Params[name]; !ok {
			return fmt.Errorf("%w: %s distribution %s requires parameter %q", ErrConfiguration, role, d.Family, name)
		}
	}

	switch d.Family {
	case FamilyUniform:
		if d.Param(ParamMin) > d.Param(ParamMax) {
			return fmt.Errorf("%w: %s uniform min must be <= max", ErrConfiguration, role)
		}
	case FamilyNormal:
		if d.Param(ParamSD) < 0 {
			return fmt.Errorf("%w: %s normal sd must be >= 0", ErrConfiguration, role)
		}
	case FamilyGamma:
		if d.Param(ParamShape) <= 0 || d.Param(ParamScale) <= 0 {
			return fmt.Errorf("%w: %s gamma shape and scale must be > 0", ErrConfiguration, role)
		}
	case FamilyNegExp:
		if d.Param(ParamMean) <= 0 {
			return fmt.Errorf("%w: %s negexp mean must be > 0", ErrConfiguration, role)
		}
	}
	return nil
}

func allowedFamilies(role Role) string {
	if role == RoleDominance {
		return "uniform/normal/gamma/negexp/scaled"
	}
	return "uniform/normal/gamma/negexp"
}

// draw returns one raw variate. selection is only read by the scaled family.
func (d Distribution) draw(rng Random, selection float64) (float64, error) {
	switch d.Family {
	case FamilyUniform:
		return rng.Uniform(d.Param(ParamMin), d.Param(ParamMax)), nil
	case FamilyNormal:
		return rng.Normal(d.Param(ParamMean), d.Param(ParamSD)), nil
	case FamilyGamma:
		return rng.Gamma(d.Param(ParamShape), d.Param(ParamScale)), nil
	case FamilyNegExp:
		return rng.NegExp(d.Param(ParamMean)), nil
	case FamilyScaled:
		return rng.Uniform(0, math.Exp(ScaledDominanceRate*selection)), nil
	default:
		return 0, fmt.Errorf("%w: unknown distribution family %q", ErrConfiguration, d.Family)
	}
}

// sample draws until accept approves the value. A nil accept takes the
// first draw.
func (d Distribution) sample(rng Random, selection float64, accept func(float64) bool) (float64, error) {
	for range MaxRejections {
		v, err := d.draw(rng, selection)
		if err != nil {
			return 0, err
		}
		if accept == nil || accept(v) {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %s distribution produced no acceptable value in %d draws", ErrConfiguration, d.Family, MaxRejections)
}
