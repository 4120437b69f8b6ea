package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Provenance identifies where a FoodRecord came from.
type Provenance int

const (
	ProvenanceRegional Provenance = iota + 1
	ProvenanceShared
	ProvenanceUserCustom
	ProvenanceRecent
)

var (
	ErrUnknownProvenance = errors.New("unknown food source")
	ErrFoodNotFound      = errors.New("food not found")
)

// AllProvenances lists every source in descending priority.
var AllProvenances = []Provenance{
	ProvenanceUserCustom,
	ProvenanceRecent,
	ProvenanceShared,
	ProvenanceRegional,
}

func (p Provenance) String() string {
	switch p {
	case ProvenanceRegional:
		return "regional"
	case ProvenanceShared:
		return "shared"
	case ProvenanceUserCustom:
		return "custom"
	case ProvenanceRecent:
		return "recent"
	}
	return "unknown"
}

// Priority orders sources when two records otherwise tie. Higher wins.
func (p Provenance) Priority() int {
	switch p {
	case ProvenanceUserCustom:
		return 4
	case ProvenanceRecent:
		return 3
	case ProvenanceShared:
		return 2
	case ProvenanceRegional:
		return 1
	}
	return 0
}

func (p Provenance) Valid() bool {
	return p.Priority() > 0
}

func ParseProvenance(s string) (Provenance, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "regional", "regional-dataset", "dataset":
		return ProvenanceRegional, nil
	case "shared", "community":
		return ProvenanceShared, nil
	case "custom", "user-custom", "user":
		return ProvenanceUserCustom, nil
	case "recent", "recent-use":
		return ProvenanceRecent, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownProvenance, s)
}

func (p Provenance) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, ErrUnknownProvenance
	}
	return []byte(p.String()), nil
}

func (p *Provenance) UnmarshalText(text []byte) error {
	parsed, err := ParseProvenance(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

type (
	Serving struct {
		Amount float64 `json:"amount"`
		Unit   string  `json:"unit"`
	}

	Macros struct {
		Calories float64 `json:"calories"`
		Protein  float64 `json:"protein"`
		Carbs    float64 `json:"carbs"`
		Fat      float64 `json:"fat"`
		Fiber    float64 `json:"fiber,omitempty"`
		Sugar    float64 `json:"sugar,omitempty"`
		Sodium   float64 `json:"sodium,omitempty"`
	}

	FoodRecord struct {
		ID          string     `json:"id"`
		Name        string     `json:"name"`
		Category    string     `json:"category,omitempty"`
		Serving     Serving    `json:"serving"`
		Macros      Macros     `json:"macros"`
		Provenance  Provenance `json:"source"`
		Region      string     `json:"region,omitempty"`
		Description string     `json:"description,omitempty"`
	}
)

// Sanitize coerces every macro to a non-negative finite number.
func (m Macros) Sanitize() Macros {
	return Macros{
		Calories: NonNegative(m.Calories),
		Protein:  NonNegative(m.Protein),
		Carbs:    NonNegative(m.Carbs),
		Fat:      NonNegative(m.Fat),
		Fiber:    NonNegative(m.Fiber),
		Sugar:    NonNegative(m.Sugar),
		Sodium:   NonNegative(m.Sodium),
	}
}

// Scale multiplies by quantity. Calories round to a whole number and the
// remaining macros to one decimal place.
func (m Macros) Scale(quantity float64) Macros {
	m = m.Sanitize()
	return Macros{
		Calories: math.Round(m.Calories * quantity),
		Protein:  Round1(m.Protein * quantity),
		Carbs:    Round1(m.Carbs * quantity),
		Fat:      Round1(m.Fat * quantity),
		Fiber:    Round1(m.Fiber * quantity),
		Sugar:    Round1(m.Sugar * quantity),
		Sodium:   Round1(m.Sodium * quantity),
	}
}

func (m Macros) Add(o Macros) Macros {
	return Macros{
		Calories: m.Calories + o.Calories,
		Protein:  Round1(m.Protein + o.Protein),
		Carbs:    Round1(m.Carbs + o.Carbs),
		Fat:      Round1(m.Fat + o.Fat),
		Fiber:    Round1(m.Fiber + o.Fiber),
		Sugar:    Round1(m.Sugar + o.Sugar),
		Sodium:   Round1(m.Sodium + o.Sodium),
	}
}

func NonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// CoerceNumber turns a loosely typed value into a non-negative number. The
// boolean is false when the value was present but could not be parsed.
func CoerceNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, true
	case float64:
		return NonNegative(n), !math.IsNaN(n) && !math.IsInf(n, 0)
	case float32:
		return NonNegative(float64(n)), true
	case int:
		return NonNegative(float64(n)), true
	case int64:
		return NonNegative(float64(n)), true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return NonNegative(f), true
	}
	return 0, false
}
