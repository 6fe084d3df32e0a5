package learning

import (
	"math"
	"strconv"
	"strings"

	"github.com/magiconair/properties"
)

// UndersampleConfig parameterises the undersample strategy.
type UndersampleConfig struct {
	// Ratio is the desired included:excluded ratio of the training set.
	Ratio   float64
	Shuffle bool
}

// TripleBalanceConfig parameterises the triple balance strategy. The one_* parameters weight
// the included papers, zero_* the total number of excluded papers, and zero_max_* the share of
// excluded papers that are drawn from the highest scoring ones.
type TripleBalanceConfig struct {
	OneA         float64
	OneAlpha     float64
	ZeroB        float64
	ZeroBeta     float64
	ZeroMaxC     float64
	ZeroMaxGamma float64
	Shuffle      bool
}

// BalanceConfig selects and parameterises a balance strategy.
type BalanceConfig struct {
	Strategy      StrategyKind
	Undersample   UndersampleConfig
	TripleBalance TripleBalanceConfig
}

// DefaultUndersampleConfig is a one-to-one undersample.
func DefaultUndersampleConfig() UndersampleConfig {
	return UndersampleConfig{Ratio: 1.0, Shuffle: true}
}

// DefaultTripleBalanceConfig contains the parameters that work well on the benchmark datasets.
func DefaultTripleBalanceConfig() TripleBalanceConfig {
	return TripleBalanceConfig{
		OneA:         2.155,
		OneAlpha:     0.94,
		ZeroB:        0.789,
		ZeroBeta:     1.0,
		ZeroMaxC:     0.835,
		ZeroMaxGamma: 2.0,
		Shuffle:      true,
	}
}

// DefaultBalanceConfig uses triple balance with default parameters.
func DefaultBalanceConfig() BalanceConfig {
	return BalanceConfig{
		Strategy:      TripleBalance,
		Undersample:   DefaultUndersampleConfig(),
		TripleBalance: DefaultTripleBalanceConfig(),
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate checks the undersample parameters.
func (c UndersampleConfig) Validate() error {
	if !finite(c.Ratio) || c.Ratio <= 0 {
		return configError("ratio", c.Ratio, "must be a finite number greater than zero")
	}
	return nil
}

// Validate checks the triple balance parameters.
func (c TripleBalanceConfig) Validate() error {
	params := []struct {
		key string
		v   float64
	}{
		{"one_a", c.OneA},
		{"one_alpha", c.OneAlpha},
		{"zero_b", c.ZeroB},
		{"zero_beta", c.ZeroBeta},
		{"zero_max_c", c.ZeroMaxC},
		{"zero_max_gamma", c.ZeroMaxGamma},
	}
	for _, p := range params {
		if !finite(p.v) {
			return configError(p.key, p.v, "must be finite")
		}
	}
	if c.OneA < 0 {
		return configError("one_a", c.OneA, "must not be negative")
	}
	if c.ZeroB < 0 {
		return configError("zero_b", c.ZeroB, "must not be negative")
	}
	if c.OneA > maxCount {
		return configError("one_a", c.OneA, "is too large to repeat the included papers by")
	}
	if c.ZeroB > maxCount {
		return configError("zero_b", c.ZeroB, "is too large to size the excluded sample by")
	}
	if c.ZeroMaxC < 0 || c.ZeroMaxC > 1 {
		return configError("zero_max_c", c.ZeroMaxC, "must be in [0, 1]")
	}
	return nil
}

// Validate checks the parameters of the selected strategy only.
func (c BalanceConfig) Validate() error {
	switch c.Strategy {
	case Full:
		return nil
	case Undersample:
		return c.Undersample.Validate()
	case TripleBalance:
		return c.TripleBalance.Validate()
	}
	return &ConfigurationError{Key: "strategy", Value: c.Strategy.String(), Reason: "unknown balance strategy"}
}

const balanceSection = "balance_param."

// LoadBalanceConfig reads the balance_param section of a properties file. Keys that are not
// present keep their default value.
func LoadBalanceConfig(p *properties.Properties) (BalanceConfig, error) {
	c := DefaultBalanceConfig()

	if s, ok := p.Get(balanceSection + "strategy"); ok {
		kind, err := ParseStrategyKind(s)
		if err != nil {
			return c, err
		}
		c.Strategy = kind
	}

	floats := map[string]*float64{
		"ratio":          &c.Undersample.Ratio,
		"one_a":          &c.TripleBalance.OneA,
		"one_alpha":      &c.TripleBalance.OneAlpha,
		"zero_b":         &c.TripleBalance.ZeroB,
		"zero_beta":      &c.TripleBalance.ZeroBeta,
		"zero_max_c":     &c.TripleBalance.ZeroMaxC,
		"zero_max_gamma": &c.TripleBalance.ZeroMaxGamma,
	}
	for key, dst := range floats {
		s, ok := p.Get(balanceSection + key)
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return c, &ConfigurationError{Key: key, Value: s, Reason: "not a number"}
		}
		*dst = v
	}

	if s, ok := p.Get(balanceSection + "shuffle"); ok {
		v, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return c, &ConfigurationError{Key: "shuffle", Value: s, Reason: "not a boolean"}
		}
		c.Undersample.Shuffle = v
		c.TripleBalance.Shuffle = v
	}

	return c, c.Validate()
}
