package points

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Function is a real valued function of one variable that points are
// sampled around.
type Function interface {
	Eval(x float64) float64
}

// Polynomial holds coefficients ordered from the highest degree term
// down to the constant term.
type Polynomial []float64

const (
	PresetCubic   = "cubic"
	PresetQuintic = "quintic"
)

// Preset returns one of the named reference polynomials.
func Preset(name string) (Polynomial, error) {
	switch strings.ToLower(name) {
	case PresetCubic:
		return Polynomial{1, -2, 3, -4}, nil
	case PresetQuintic:
		return Polynomial{10, -2, 17, -4, 5, 1634534}, nil
	default:
		return nil, errors.Errorf("unknown polynomial preset '%s'", name)
	}
}

func (p Polynomial) Degree() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// Eval uses Horner's rule.
func (p Polynomial) Eval(x float64) float64 {
	y := 0.0
	for _, c := range p {
		y = y*x + c
	}
	return y
}

func (p Polynomial) String() string {
	terms := make([]string, 0, len(p))
	for idx, c := range p {
		if c == 0 {
			continue
		}
		switch pow := len(p) - idx - 1; pow {
		case 0:
			terms = append(terms, fmt.Sprintf("%g", c))
		case 1:
			terms = append(terms, fmt.Sprintf("%gx", c))
		default:
			terms = append(terms, fmt.Sprintf("%gx^%d", c, pow))
		}
	}
	if len(terms) == 0 {
		return "0"
	}
	return strings.Replace(strings.Join(terms, " + "), "+ -", "- ", -1)
}

func coefficientKey(idx int) string {
	if idx < 26 {
		return string(rune('a' + idx))
	}
	return fmt.Sprintf("c%d", idx)
}

// MarshalJSON renders the coefficients as an object keyed a, b, c, ...
// from the highest degree term down.
func (p Polynomial) MarshalJSON() ([]byte, error) {
	var buf strings.Builder
	buf.WriteByte('{')
	for idx, c := range p {
		if idx > 0 {
			buf.WriteByte(',')
		}
		val, err := json.Marshal(c)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding coefficient %d", idx)
		}
		fmt.Fprintf(&buf, "%q:%s", coefficientKey(idx), val)
	}
	buf.WriteByte('}')
	return []byte(buf.String()), nil
}

func (p *Polynomial) UnmarshalJSON(data []byte) error {
	raw := map[string]float64{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "decoding coefficients")
	}

	out := make(Polynomial, len(raw))
	for idx := range out {
		c, ok := raw[coefficientKey(idx)]
		if !ok {
			return errors.Errorf("missing coefficient '%s'", coefficientKey(idx))
		}
		out[idx] = c
	}
	*p = out
	return nil
}

// Sinusoid is Amplitude*sin(Frequency*x + Phase) + Offset.
type Sinusoid struct {
	Amplitude float64 `json:"amplitude" yaml:"amplitude"`
	Frequency float64 `json:"frequency" yaml:"frequency"`
	Phase     float64 `json:"phase" yaml:"phase"`
	Offset    float64 `json:"offset" yaml:"offset"`
}

func (s Sinusoid) Eval(x float64) float64 {
	return s.Amplitude*math.Sin(s.Frequency*x+s.Phase) + s.Offset
}

// Sum adds the values of several functions.
type Sum []Function

func (s Sum) Eval(x float64) float64 {
	y := 0.0
	for _, fn := range s {
		y += fn.Eval(x)
	}
	return y
}

// MarshalJSON encodes each term of the sum under a key naming its type.
func (s Sum) MarshalJSON() ([]byte, error) {
	terms := make([]map[string]Function, 0, len(s))
	for _, fn := range s {
		switch fn.(type) {
		case Polynomial:
			terms = append(terms, map[string]Function{"polynomial": fn})
		case Sinusoid:
			terms = append(terms, map[string]Function{"sinusoid": fn})
		default:
			terms = append(terms, map[string]Function{fmt.Sprintf("%T", fn): fn})
		}
	}
	return json.Marshal(map[string]interface{}{"sum": terms})
}
