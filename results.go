package forecaster

import (
	"time"

	"github.com/aouyang1/ozone-forecaster/forecast"
)

// Results holds the point estimate and the uncertainty band for every requested time along with
// the components of both models.
type Results struct {
	T                     []time.Time         `json:"time"`
	Forecast              []float64           `json:"forecast"`
	Upper                 []float64           `json:"upper"`
	Lower                 []float64           `json:"lower"`
	SeriesComponents      forecast.Components `json:"series_components"`
	UncertaintyComponents forecast.Components `json:"uncertainty_components"`
}

// Len returns the number of predicted time points
func (r *Results) Len() int {
	if r == nil {
		return 0
	}
	return len(r.T)
}

// Tail returns the last n predictions. n is clamped to the number of predictions.
func (r *Results) Tail(n int) *Results {
	if r == nil {
		return nil
	}
	if n > len(r.T) {
		n = len(r.T)
	}
	if n < 0 {
		n = 0
	}
	start := len(r.T) - n
	return &Results{
		T:                     r.T[start:],
		Forecast:              r.Forecast[start:],
		Upper:                 r.Upper[start:],
		Lower:                 r.Lower[start:],
		SeriesComponents:      tailComponents(r.SeriesComponents, start),
		UncertaintyComponents: tailComponents(r.UncertaintyComponents, start),
	}
}

func tailComponents(c forecast.Components, start int) forecast.Components {
	tail := func(x []float64) []float64 {
		if start > len(x) {
			return nil
		}
		return x[start:]
	}
	return forecast.Components{
		Trend:       tail(c.Trend),
		Seasonality: tail(c.Seasonality),
		Event:       tail(c.Event),
	}
}
