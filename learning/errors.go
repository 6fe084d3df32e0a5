package learning

import "fmt"

// ConfigurationError is returned when a balance strategy is constructed with an invalid
// parameter. A review session cannot start with an invalid configuration.
type ConfigurationError struct {
	Key    string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %s=%s: %s", e.Key, e.Value, e.Reason)
}

func configError(key string, value float64, reason string) *ConfigurationError {
	return &ConfigurationError{Key: key, Value: fmt.Sprint(value), Reason: reason}
}

// InsufficientDataError is returned when the pool does not contain enough labelled papers of
// a class for a strategy to produce a training set. The pool is left untouched, so the
// caller may request another label or fall back to a different strategy.
type InsufficientDataError struct {
	Strategy string
	Included int
	Excluded int
	Reason   string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: insufficient data (%d included, %d excluded): %s", e.Strategy, e.Included, e.Excluded, e.Reason)
}

// DegradedSamplingWarning describes a draw that asked for more papers than were available.
// Sampling still proceeds, either with replacement or with all the available papers.
type DegradedSamplingWarning struct {
	Group     string
	Requested int
	Available int
	Reason    string
}

func (w DegradedSamplingWarning) String() string {
	return fmt.Sprintf("degraded sampling of %s group: requested %d, available %d (%s)", w.Group, w.Requested, w.Available, w.Reason)
}
