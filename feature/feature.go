// Package feature describes the labelled inputs of a forecast model and how each of them
// is generated from a slice of time points.
package feature

import "errors"

var ErrUnknownFeatureType = errors.New("unknown feature type")

// FeatureType identifies the family a feature belongs to
type FeatureType string

const (
	FeatureTypeChangepoint FeatureType = "changepoint"
	FeatureTypeSeasonality FeatureType = "seasonality"
	FeatureTypeTime        FeatureType = "time"
	FeatureTypeEvent       FeatureType = "event"
	FeatureTypeGrowth      FeatureType = "growth"
)

// Feature is the interface representing a model feature along with its labels. The string
// representation must be unique across all features of a model since it is used to line up
// generated data with the model coefficients.
type Feature interface {
	String() string
	Get(string) (string, bool)
	Type() FeatureType
	Decode() map[string]string
	UnmarshalJSON([]byte) error
}

// New returns an empty feature of the given type ready to be unmarshalled into
func New(ft FeatureType) (Feature, error) {
	switch ft {
	case FeatureTypeChangepoint:
		return new(Changepoint), nil
	case FeatureTypeSeasonality:
		return new(Seasonality), nil
	case FeatureTypeTime:
		return new(Time), nil
	case FeatureTypeEvent:
		return new(Event), nil
	case FeatureTypeGrowth:
		return new(Growth), nil
	}
	return nil, ErrUnknownFeatureType
}
