package feature

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Data represents a feature type with its associated generated values
type Data struct {
	F    Feature
	Data []float64
}

// Set represents a mapping to each feature data keyed by the string representation
// of the feature.
type Set map[string]Data

// Add stores the generated data for a feature, replacing any previous entry
func (s Set) Add(f Feature, data []float64) {
	s[f.String()] = Data{F: f, Data: data}
}

// Get returns the generated data for a feature
func (s Set) Get(f Feature) ([]float64, bool) {
	d, exists := s[f.String()]
	if !exists {
		return nil, false
	}
	return d.Data, true
}

// Update merges all features of the input set into this set
func (s Set) Update(other Set) {
	for label, d := range other {
		s[label] = d
	}
}

// Filter returns a new set only containing the features of the given types
func (s Set) Filter(types ...FeatureType) Set {
	out := make(Set)
	for label, d := range s {
		for _, ft := range types {
			if d.F.Type() == ft {
				out[label] = d
				break
			}
		}
	}
	return out
}

// Labels returns the sorted slice of all tracked features in the FeatureSet
func (s Set) Labels() *Labels {
	if s == nil {
		return nil
	}

	labels := make([]Feature, 0, len(s))
	for _, feat := range s {
		labels = append(labels, feat.F)
	}
	sort.Slice(
		labels,
		func(i, j int) bool {
			return labels[i].String() < labels[j].String()
		},
	)
	return NewLabels(labels)
}

// Matrix returns a matrix representation of the set with m rows representing the number of
// observations and one column per label in the provided order. Labels without generated data
// are filled with zeros so that the columns always line up with a coefficient vector.
func (s Set) Matrix(m int, labels *Labels) *mat.Dense {
	n := labels.Len()
	if m == 0 || n == 0 {
		return nil
	}

	obs := make([]float64, m*n)
	for j, label := range labels.Labels() {
		data, exists := s.Get(label)
		if !exists {
			continue
		}
		for i := 0; i < m && i < len(data); i++ {
			obs[n*i+j] = data[i]
		}
	}
	return mat.NewDense(m, n, obs)
}
