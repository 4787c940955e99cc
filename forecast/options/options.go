// Package options contains all forecast options describing which features a linear model of a
// univariate time series was trained with.
package options

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aouyang1/ozone-forecaster/feature"
	"github.com/aouyang1/ozone-forecaster/forecast/util"
)

const (
	LabelTimeEpoch = "epoch"

	LabelSeasDaily  = "daily"
	LabelSeasWeekly = "weekly"
	LabelSeasYearly = "yearly"

	LabelEventWeekend = "weekend"
)

var (
	ErrUnknownGrowthType = errors.New("unknown growth type")
	ErrNoTime            = errors.New("no time points to generate features for")
)

// Options configures a forecast by specifying the growth type, changepoints, seasonality
// orders and the events that were modelled during training.
type Options struct {
	GrowthType string `json:"growth_type"`

	ChangepointOptions ChangepointOptions `json:"changepoint_options"`
	SeasonalityOptions SeasonalityOptions `json:"seasonality_options"`

	WeekendOptions WeekendOptions `json:"weekend_options"`
	HolidayOptions HolidayOptions `json:"holiday_options"`
}

// NewDefaultOptions returns a set of default forecast options for a daily series
func NewDefaultOptions() *Options {
	return &Options{
		GrowthType:         feature.GrowthLinear,
		ChangepointOptions: NewDefaultChangepointOptions(),
		SeasonalityOptions: NewDefaultSeasonalityOptions(),
	}
}

// Validate checks that the options can be used to generate features
func (o *Options) Validate() error {
	if o == nil {
		return nil
	}
	switch o.GrowthType {
	case "", feature.GrowthLinear, feature.GrowthQuadratic:
	default:
		return fmt.Errorf("%q, %w", o.GrowthType, ErrUnknownGrowthType)
	}
	if err := o.SeasonalityOptions.Validate(); err != nil {
		return err
	}
	if err := o.ChangepointOptions.Validate(); err != nil {
		return err
	}
	if err := o.WeekendOptions.Validate(); err != nil {
		return err
	}
	return o.HolidayOptions.Validate()
}

// GenerateFeatures builds every feature described by the options for the input time points.
// The training window is used to scale growth and changepoint slope features.
func (o *Options) GenerateFeatures(t []time.Time, trainStartTime, trainEndTime time.Time) (feature.Set, error) {
	if o == nil {
		o = NewDefaultOptions()
	}
	if len(t) == 0 {
		return nil, ErrNoTime
	}

	epoch := feature.NewTime(LabelTimeEpoch).Generate(t)

	feat := make(feature.Set)
	o.generateGrowthFeatures(epoch, trainStartTime, trainEndTime, feat)

	seasFeat, err := o.SeasonalityOptions.generateFeatures(epoch)
	if err != nil {
		return nil, err
	}
	feat.Update(seasFeat)

	feat.Update(o.ChangepointOptions.generateFeatures(t, trainEndTime))

	if o.WeekendOptions.Enabled {
		mask, err := o.WeekendOptions.generateMask(t)
		if err != nil {
			return nil, err
		}
		feat.Add(feature.NewEvent(LabelEventWeekend), mask)
	}

	feat.Update(o.HolidayOptions.generateFeatures(t))
	return feat, nil
}

func (o *Options) generateGrowthFeatures(epoch []float64, trainStartTime, trainEndTime time.Time, feat feature.Set) {
	intercept := feature.Intercept()
	feat.Add(intercept, intercept.Generate(epoch, trainStartTime, trainEndTime))

	if o.GrowthType == "" {
		return
	}
	growth := feature.NewGrowth(o.GrowthType)
	if data := growth.Generate(epoch, trainStartTime, trainEndTime); data != nil {
		feat.Add(growth, data)
	}
}

// TablePrint writes a human readable summary of the options
func (o *Options) TablePrint(w io.Writer, prefix, indent string, indentGrowth int) error {
	if o == nil {
		return nil
	}
	growth := o.GrowthType
	if growth == "" {
		growth = "None"
	}
	if _, err := fmt.Fprintf(w, "%s%sGrowth: %s\n", prefix, util.IndentExpand(indent, indentGrowth), growth); err != nil {
		return err
	}
	if err := o.SeasonalityOptions.TablePrint(w, prefix, indent, indentGrowth); err != nil {
		return err
	}
	if err := o.ChangepointOptions.TablePrint(w, prefix, indent, indentGrowth); err != nil {
		return err
	}
	if err := o.WeekendOptions.TablePrint(w, prefix, indent, indentGrowth); err != nil {
		return err
	}
	return o.HolidayOptions.TablePrint(w, prefix, indent, indentGrowth)
}
