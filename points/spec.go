package points

import (
	"github.com/pkg/errors"
)

// Spec is a serializable description of a Function. Coefficients take
// precedence over Preset; the sinusoid, when present, is added to the
// polynomial.
type Spec struct {
	Preset       string    `bson:"preset" json:"preset,omitempty" yaml:"preset"`
	Coefficients []float64 `bson:"coefficients" json:"coefficients,omitempty" yaml:"coefficients"`
	Sinusoid     *Sinusoid `bson:"sinusoid" json:"sinusoid,omitempty" yaml:"sinusoid"`
}

// Function builds the described function. An empty Spec is the cubic
// preset.
func (s Spec) Function() (Function, error) {
	var poly Polynomial
	switch {
	case len(s.Coefficients) > 0:
		poly = Polynomial(append([]float64{}, s.Coefficients...))
	case s.Preset != "":
		var err error
		poly, err = Preset(s.Preset)
		if err != nil {
			return nil, errors.WithStack(err)
		}
	default:
		poly, _ = Preset(PresetCubic)
	}

	if s.Sinusoid == nil {
		return poly, nil
	}
	return Sum{poly, *s.Sinusoid}, nil
}
