// Package forecaster loads a pre-trained forecast of a univariate time series and predicts point
// estimates with an uncertainty band for any set of time points, including a horizon past the
// observed history.
package forecaster

import (
	"errors"
	"fmt"
	"time"

	"github.com/aouyang1/ozone-forecaster/forecast"
	"github.com/aouyang1/ozone-forecaster/timedataset"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrUninitializedForecaster = errors.New("uninitialized forecaster")
	ErrMismatchedPrediction    = errors.New("series and uncertainty predictions have different lengths")
)

// Forecaster combines a series forecast with an uncertainty forecast to produce a forecast with
// upper and lower bounds
type Forecaster struct {
	name string
	unit string

	history *timedataset.TimeDataset

	seriesForecast      *forecast.Forecast
	uncertaintyForecast *forecast.Forecast

	testScores *forecast.Scores
}

// NewFromModel creates a new instance of Forecaster from a serialized model. The history must be
// non-empty, strictly increasing in time and have as many values as time points.
func NewFromModel(model Model) (*Forecaster, error) {
	history, err := timedataset.NewUnivariateDataset(model.History.T, model.History.Y)
	if err != nil {
		return nil, fmt.Errorf("unable to load model history, %w", err)
	}

	seriesForecast, err := forecast.NewFromModel(model.Series)
	if err != nil {
		return nil, fmt.Errorf("unable to load from series model, %w", err)
	}
	uncertaintyForecast, err := forecast.NewFromModel(model.Uncertainty)
	if err != nil {
		return nil, fmt.Errorf("unable to load from uncertainty model, %w", err)
	}

	f := &Forecaster{
		name:                model.Name,
		unit:                model.Unit,
		history:             history,
		seriesForecast:      seriesForecast,
		uncertaintyForecast: uncertaintyForecast,
		testScores:          model.TestScores,
	}
	return f, nil
}

// MakeFuture returns the history time index followed by periods new time points each freq apart.
// A zero freq is estimated from the history.
func (f *Forecaster) MakeFuture(periods int, freq time.Duration) ([]time.Time, error) {
	if f == nil {
		return nil, ErrUninitializedForecaster
	}

	tSlice := timedataset.TimeSlice(f.history.T)
	if freq == 0 {
		var err error
		freq, err = tSlice.EstimateFreq()
		if err != nil {
			return nil, fmt.Errorf("unable to estimate history frequency, %w", err)
		}
	}
	t, err := tSlice.Extend(periods, freq)
	if err != nil {
		return nil, fmt.Errorf("unable to extend history, %w", err)
	}
	return t, nil
}

// Predict takes in any set of time samples and generates a forecast, upper, lower values per time point
func (f *Forecaster) Predict(t []time.Time) (*Results, error) {
	if f == nil {
		return nil, ErrUninitializedForecaster
	}

	seriesRes, seriesComp, err := f.seriesForecast.Predict(t)
	if err != nil {
		return nil, fmt.Errorf("unable to predict series forecasts, %w", err)
	}
	uncertaintyRes, uncertaintyComp, err := f.uncertaintyForecast.Predict(t)
	if err != nil {
		return nil, fmt.Errorf("unable to predict uncertainty forecasts, %w", err)
	}
	if len(seriesRes) != len(uncertaintyRes) {
		return nil, fmt.Errorf("series: %d, uncertainty: %d, %w", len(seriesRes), len(uncertaintyRes), ErrMismatchedPrediction)
	}

	// cap uncertainty predictions to be greater than or equal to 0
	for i := 0; i < len(uncertaintyRes); i++ {
		if uncertaintyRes[i] < 0.0 {
			uncertaintyRes[i] = 0.0
		}
	}

	tCopy := make([]time.Time, len(t))
	copy(tCopy, t)

	r := &Results{
		T:                     tCopy,
		Forecast:              seriesRes,
		SeriesComponents:      seriesComp,
		UncertaintyComponents: uncertaintyComp,
	}
	upper := make([]float64, len(seriesRes))
	lower := make([]float64, len(seriesRes))

	copy(upper, seriesRes)
	copy(lower, seriesRes)

	floats.Add(upper, uncertaintyRes)
	floats.Sub(lower, uncertaintyRes)
	r.Upper = upper
	r.Lower = lower
	return r, nil
}

// History returns a copy of the observed time series
func (f *Forecaster) History() *timedataset.TimeDataset {
	if f == nil {
		return nil
	}
	return f.history.Copy()
}

// Name returns the name of the forecasted series
func (f *Forecaster) Name() string {
	if f == nil {
		return ""
	}
	return f.name
}

// Unit returns the unit of the forecasted series
func (f *Forecaster) Unit() string {
	if f == nil {
		return ""
	}
	return f.unit
}

// TestScores returns the scores of the model against held out data if the model carries them
func (f *Forecaster) TestScores() *forecast.Scores {
	if f == nil {
		return nil
	}
	return f.testScores
}

// FitScores scores the series model against the observed history
func (f *Forecaster) FitScores() (*forecast.Scores, error) {
	if f == nil {
		return nil, ErrUninitializedForecaster
	}
	td := f.history.DropNan()
	res, err := f.Predict(td.T)
	if err != nil {
		return nil, fmt.Errorf("unable to predict history, %w", err)
	}
	return forecast.NewScores(res.Forecast, td.Y)
}

// SeriesIntercept returns the intercept of the series model
func (f *Forecaster) SeriesIntercept() float64 {
	return f.seriesForecast.Intercept()
}

// UncertaintyIntercept returns the intercept of the uncertainty model
func (f *Forecaster) UncertaintyIntercept() float64 {
	return f.uncertaintyForecast.Intercept()
}

// SeriesModelEq returns a string representation of the series model represented as
// y ~ b + m1x1 + m2x2 ...
func (f *Forecaster) SeriesModelEq() (string, error) {
	return f.seriesForecast.ModelEq()
}

// UncertaintyModelEq returns a string representation of the uncertainty model represented as
// y ~ b + m1x1 + m2x2 ...
func (f *Forecaster) UncertaintyModelEq() (string, error) {
	return f.uncertaintyForecast.ModelEq()
}

// Model generates a serializeable representation of the forecaster which can be used to
// initialize a new Forecaster
func (f *Forecaster) Model() (Model, error) {
	if f == nil {
		return Model{}, ErrUninitializedForecaster
	}
	seriesModel, err := f.seriesForecast.Model()
	if err != nil {
		return Model{}, fmt.Errorf("unable to fetch series model, %w", err)
	}
	uncertaintyModel, err := f.uncertaintyForecast.Model()
	if err != nil {
		return Model{}, fmt.Errorf("unable to fetch uncertainty model, %w", err)
	}
	history := f.History()
	m := Model{
		Name:        f.name,
		Unit:        f.unit,
		History:     History{T: history.T, Y: history.Y},
		Series:      seriesModel,
		Uncertainty: uncertaintyModel,
		TestScores:  f.testScores,
	}
	return m, nil
}
