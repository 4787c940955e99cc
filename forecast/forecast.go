// Package forecast runs inference for a linear model of a univariate time series. The model is
// decomposed into growth, changepoint, seasonality and event features whose weights were
// determined ahead of time and are loaded from a serialized Model.
package forecast

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aouyang1/ozone-forecaster/feature"
	"github.com/aouyang1/ozone-forecaster/forecast/options"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrUninitializedForecast = errors.New("uninitialized forecast")
	ErrNoOptions             = errors.New("no options set in model")
	ErrNoModelCoefficients   = errors.New("no model coefficients")
	ErrDuplicateFeature      = errors.New("duplicate feature in model coefficients")
	ErrInvalidTrainingWindow = errors.New("train end time must be after train start time")
)

// Forecast represents a single linear forecast model of a time series ready for inference.
type Forecast struct {
	opt    *options.Options
	scores *Scores

	// model coefficients, one per feature label
	fLabels *feature.Labels
	coef    []float64

	trainStartTime time.Time
	trainEndTime   time.Time
}

// NewFromModel creates a new forecast instance given a forecast Model to initialize. The options
// are validated and every coefficient must decode into a known and unique feature.
func NewFromModel(model Model) (*Forecast, error) {
	if model.Options == nil {
		return nil, ErrNoOptions
	}
	if err := model.Options.Validate(); err != nil {
		return nil, fmt.Errorf("unable to validate model options, %w", err)
	}
	if !model.TrainEndTime.After(model.TrainStartTime) {
		return nil, fmt.Errorf("start: %s, end: %s, %w", model.TrainStartTime, model.TrainEndTime, ErrInvalidTrainingWindow)
	}
	if len(model.Weights.Coef) == 0 {
		return nil, ErrNoModelCoefficients
	}

	labels, err := model.Weights.FeatureLabels()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		if _, exists := seen[label.String()]; exists {
			return nil, fmt.Errorf("%s, %w", label, ErrDuplicateFeature)
		}
		seen[label.String()] = struct{}{}
	}

	f := &Forecast{
		opt:            model.Options,
		scores:         model.Scores,
		fLabels:        feature.NewLabels(labels),
		coef:           model.Weights.Coefficients(),
		trainStartTime: model.TrainStartTime,
		trainEndTime:   model.TrainEndTime,
	}
	return f, nil
}

// Predict takes a slice of times in any order and produces the predicted value for those
// times along with the trend, seasonality and event components.
func (f *Forecast) Predict(t []time.Time) ([]float64, Components, error) {
	if f == nil {
		return nil, Components{}, ErrUninitializedForecast
	}

	x, err := f.opt.GenerateFeatures(t, f.trainStartTime, f.trainEndTime)
	if err != nil {
		return nil, Components{}, fmt.Errorf("unable to generate features, %w", err)
	}

	for _, label := range f.fLabels.Labels() {
		if _, exists := x[label.String()]; !exists {
			slog.Warn("model coefficient has no generated feature, treating as zero", "feature", label.String())
		}
	}

	comp := Components{
		Trend:       f.runInference(x.Filter(feature.FeatureTypeGrowth, feature.FeatureTypeChangepoint), len(t)),
		Seasonality: f.runInference(x.Filter(feature.FeatureTypeSeasonality), len(t)),
		Event:       f.runInference(x.Filter(feature.FeatureTypeEvent), len(t)),
	}

	res := f.runInference(x, len(t))
	return res, comp, nil
}

// runInference multiplies the feature matrix with the coefficient vector. Features of the model
// missing from x contribute nothing.
func (f *Forecast) runInference(x feature.Set, m int) []float64 {
	if m == 0 {
		return nil
	}

	xMx := x.Matrix(m, f.fLabels)
	if xMx == nil {
		return make([]float64, m)
	}

	var res mat.VecDense
	res.MulVec(xMx, mat.NewVecDense(len(f.coef), f.coef))
	return mat.Col(nil, 0, &res)
}

// FeatureLabels returns the slice of feature labels in the order of the coefficients
func (f *Forecast) FeatureLabels() []feature.Feature {
	if f == nil {
		return nil
	}
	return f.fLabels.Labels()
}

// Coefficients returns a forecast model map of coefficients keyed by the string
// representation of each feature label
func (f *Forecast) Coefficients() (map[string]float64, error) {
	if f == nil {
		return nil, ErrUninitializedForecast
	}

	labels := f.fLabels.Labels()
	if len(labels) == 0 || len(f.coef) == 0 {
		return nil, ErrNoModelCoefficients
	}
	coef := make(map[string]float64, len(f.coef))
	for i := 0; i < len(f.coef); i++ {
		coef[labels[i].String()] = f.coef[i]
	}
	return coef, nil
}

// Intercept returns the weight of the intercept feature
func (f *Forecast) Intercept() float64 {
	if f == nil {
		return 0
	}
	if idx, exists := f.fLabels.Index(feature.Intercept()); exists {
		return f.coef[idx]
	}
	return 0
}

// Model returns the serializeable format of the forecast model
func (f *Forecast) Model() (Model, error) {
	if f == nil {
		return Model{}, ErrUninitializedForecast
	}

	labels := f.fLabels.Labels()
	fws := make([]FeatureWeight, 0, len(f.coef))
	for i, c := range f.coef {
		fws = append(fws, NewFeatureWeight(labels[i], c))
	}
	m := Model{
		TrainStartTime: f.trainStartTime,
		TrainEndTime:   f.trainEndTime,
		Options:        f.opt,
		Scores:         f.scores,
		Weights:        Weights{Coef: fws},
	}
	return m, nil
}

// ModelEq returns a string representation of the model linear equation in the format of
// y ~ b + m1x1 + m2x2 + ...
func (f *Forecast) ModelEq() (string, error) {
	if f == nil {
		return "", ErrUninitializedForecast
	}

	eq := "y ~ "

	coef, err := f.Coefficients()
	if err != nil {
		return "", err
	}

	intercept := feature.Intercept().String()
	eq += fmt.Sprintf("%.2f", coef[intercept])
	for _, label := range f.fLabels.Labels() {
		if label.String() == intercept {
			continue
		}
		w := coef[label.String()]
		if w == 0 {
			continue
		}
		eq += fmt.Sprintf("+%.2f*%s", w, label)
	}
	return eq, nil
}

// Scores returns the fit scores stored with the model
func (f *Forecast) Scores() Scores {
	if f == nil || f.scores == nil {
		return Scores{}
	}
	return *f.scores
}

// TrainEndTime returns the last time point the model was trained on
func (f *Forecast) TrainEndTime() time.Time {
	if f == nil {
		return time.Time{}
	}
	return f.trainEndTime
}
