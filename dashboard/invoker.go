// Package dashboard serves the single page ozone forecast dashboard. A user picks a horizon in
// days, triggers a prediction and gets back a chart, a table of the predicted values and the
// table as a downloadable file.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	forecaster "github.com/aouyang1/ozone-forecaster"
	"github.com/aouyang1/ozone-forecaster/timedataset"
)

const (
	// DailyFreq is the spacing between forecast dates
	DailyFreq = 24 * time.Hour

	// MaxDays is the longest horizon a forecast can be requested for
	MaxDays = 3650
)

var (
	ErrInvalidHorizon   = errors.New("invalid forecast horizon")
	ErrPredictionFailed = errors.New("prediction failed")
)

// Predictor is the pre-trained model the dashboard forecasts with
type Predictor interface {
	MakeFuture(periods int, freq time.Duration) ([]time.Time, error)
	Predict(t []time.Time) (*forecaster.Results, error)
	History() *timedataset.TimeDataset
}

// Forecast is the outcome of one triggered prediction. Results cover the history followed by
// Days future dates.
type Forecast struct {
	Days    int
	Results *forecaster.Results
	History *timedataset.TimeDataset
}

// Table returns the trailing Days rows of the forecast
func (f *Forecast) Table() Table {
	if f == nil {
		return Table{}
	}
	return NewTable(f.Results, f.Days)
}

// Invoker extends the model time index by a number of days and predicts over it
type Invoker struct {
	predictor Predictor
}

func NewInvoker(p Predictor) *Invoker {
	return &Invoker{predictor: p}
}

// Forecast predicts the history fit followed by days future daily dates. Any error or panic
// from the model is reported as ErrPredictionFailed.
func (inv *Invoker) Forecast(ctx context.Context, days int) (fc *Forecast, err error) {
	if days < 1 || days > MaxDays {
		return nil, fmt.Errorf("days: %d, must be within [1, %d], %w", days, MaxDays, ErrInvalidHorizon)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("recovered panic while predicting", "days", days, "panic", r)
			fc = nil
			err = fmt.Errorf("panic: %v, %w", r, ErrPredictionFailed)
		}
	}()

	t, err := inv.predictor.MakeFuture(days, DailyFreq)
	if err != nil {
		return nil, fmt.Errorf("unable to extend time index, %w, %w", err, ErrPredictionFailed)
	}
	res, err := inv.predictor.Predict(t)
	if err != nil {
		return nil, fmt.Errorf("unable to predict %d days, %w, %w", days, err, ErrPredictionFailed)
	}
	if res.Len() != len(t) || len(res.Forecast) != len(t) {
		return nil, fmt.Errorf("expected %d predictions, but got %d, %w", len(t), res.Len(), ErrPredictionFailed)
	}

	return &Forecast{
		Days:    days,
		Results: res,
		History: inv.predictor.History(),
	}, nil
}
