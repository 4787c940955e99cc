package options

import (
	"fmt"
	"io"
	"time"

	"github.com/aouyang1/ozone-forecaster/forecast/util"
)

// WeekendOptions lets us model weekends separately from weekdays.
type WeekendOptions struct {
	Enabled          bool   `json:"enabled"`
	TimezoneOverride string `json:"timezone_override"`
}

func (w WeekendOptions) Validate() error {
	if w.TimezoneOverride == "" {
		return nil
	}
	if _, err := time.LoadLocation(w.TimezoneOverride); err != nil {
		return fmt.Errorf("unable to load weekend timezone override %q, %w", w.TimezoneOverride, err)
	}
	return nil
}

func (w WeekendOptions) TablePrint(wr io.Writer, prefix, indent string, indentGrowth int) error {
	if !w.Enabled {
		_, err := fmt.Fprintf(wr, "%s%sWeekends: None\n", prefix, util.IndentExpand(indent, indentGrowth))
		return err
	}
	tz := w.TimezoneOverride
	if tz == "" {
		tz = "dataset"
	}
	_, err := fmt.Fprintf(wr, "%s%sWeekends: timezone %s\n", prefix, util.IndentExpand(indent, indentGrowth), tz)
	return err
}

func (w WeekendOptions) generateMask(t []time.Time) ([]float64, error) {
	var loc *time.Location
	if w.TimezoneOverride != "" {
		var err error
		loc, err = time.LoadLocation(w.TimezoneOverride)
		if err != nil {
			return nil, fmt.Errorf("unable to load weekend timezone override %q, %w", w.TimezoneOverride, err)
		}
	}

	mask := make([]float64, len(t))
	for i, tPnt := range t {
		if loc != nil {
			tPnt = tPnt.In(loc)
		}
		switch tPnt.Weekday() {
		case time.Saturday, time.Sunday:
			mask[i] = 1.0
		}
	}
	return mask, nil
}
