package options

import (
	"bytes"
	"testing"
	"time"

	"github.com/aouyang1/ozone-forecaster/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dailyTimes(start time.Time, n int) []time.Time {
	t := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		t = append(t, start.AddDate(0, 0, i))
	}
	return t
}

func TestOptionsValidate(t *testing.T) {
	testData := map[string]struct {
		opt *Options
		err error
	}{
		"nil options": {},
		"default options": {
			opt: NewDefaultOptions(),
		},
		"unknown growth": {
			opt: &Options{GrowthType: "logistic"},
			err: ErrUnknownGrowthType,
		},
		"invalid seasonality period": {
			opt: &Options{
				SeasonalityOptions: SeasonalityOptions{
					SeasonalityConfigs: []SeasonalityConfig{NewSeasonalityConfig("bad", 0, 2)},
				},
			},
			err: ErrInvalidSeasonality,
		},
		"duplicate seasonality": {
			opt: &Options{
				SeasonalityOptions: SeasonalityOptions{
					SeasonalityConfigs: []SeasonalityConfig{
						NewWeeklySeasonalityConfig(2),
						NewWeeklySeasonalityConfig(3),
					},
				},
			},
			err: ErrDuplicateSeasonality,
		},
		"unset changepoint": {
			opt: &Options{
				ChangepointOptions: ChangepointOptions{
					Changepoints: []Changepoint{NewChangepoint("c", time.Time{})},
				},
			},
			err: ErrUnsetChangepointTime,
		},
		"unknown holiday": {
			opt: &Options{
				HolidayOptions: HolidayOptions{Holidays: []string{"blargh"}},
			},
			err: ErrUnknownHoliday,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			err := td.opt.Validate()
			if td.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, td.err)
		})
	}
}

func TestOptionsGenerateFeatures(t *testing.T) {
	start := time.Date(2023, 4, 15, 0, 0, 0, 0, time.UTC)
	tSeries := dailyTimes(start, 21)
	trainEnd := tSeries[13]

	opt := &Options{
		GrowthType: feature.GrowthLinear,
		ChangepointOptions: ChangepointOptions{
			Changepoints: []Changepoint{
				NewChangepoint("apr20", time.Date(2023, 4, 20, 0, 0, 0, 0, time.UTC)),
			},
		},
		SeasonalityOptions: SeasonalityOptions{
			SeasonalityConfigs: []SeasonalityConfig{NewWeeklySeasonalityConfig(2)},
		},
		WeekendOptions: WeekendOptions{Enabled: true},
		HolidayOptions: HolidayOptions{Holidays: []string{"tiradentes", "labour_day"}},
	}

	feat, err := opt.GenerateFeatures(tSeries, start, trainEnd)
	require.NoError(t, err)

	names := make([]string, 0, len(feat))
	for _, l := range feat.Labels().Labels() {
		names = append(names, l.String())
	}
	expected := []string{
		"chpnt_apr20_bias",
		"chpnt_apr20_slope",
		"event_labour_day",
		"event_tiradentes",
		"event_weekend",
		"growth_intercept",
		"growth_linear",
		"seas_weekly_01_cos",
		"seas_weekly_01_sin",
		"seas_weekly_02_cos",
		"seas_weekly_02_sin",
	}
	assert.Equal(t, expected, names)

	for label, d := range feat {
		assert.Len(t, d.Data, len(tSeries), label)
	}

	tiradentes, _ := feat.Get(feature.NewEvent("tiradentes"))
	assert.Equal(t, 1.0, tiradentes[6])
	assert.Equal(t, 1.0, sum(tiradentes))

	labourDay, _ := feat.Get(feature.NewEvent("labour_day"))
	assert.Equal(t, 1.0, labourDay[16])
	assert.Equal(t, 1.0, sum(labourDay))

	// 2023-04-15 is a saturday
	weekend, _ := feat.Get(feature.NewEvent(LabelEventWeekend))
	assert.Equal(t, 1.0, weekend[0])
	assert.Equal(t, 1.0, weekend[1])
	assert.Equal(t, 0.0, weekend[2])
	assert.Equal(t, 6.0, sum(weekend))

	linear, _ := feat.Get(feature.Linear())
	assert.InDelta(t, 0.0, linear[0], 1e-9)
	assert.InDelta(t, 1.0, linear[13], 1e-9)
	assert.InDelta(t, 20.0/13.0, linear[20], 1e-9)
}

func TestOptionsGenerateFeaturesNoTime(t *testing.T) {
	_, err := NewDefaultOptions().GenerateFeatures(nil, time.Time{}, time.Time{})
	assert.ErrorIs(t, err, ErrNoTime)
}

func TestOptionsGenerateFeaturesInterceptOnly(t *testing.T) {
	start := time.Date(2023, 4, 15, 0, 0, 0, 0, time.UTC)
	tSeries := dailyTimes(start, 3)

	feat, err := (&Options{}).GenerateFeatures(tSeries, start, tSeries[2])
	require.NoError(t, err)
	require.Len(t, feat, 1)

	intercept, exists := feat.Get(feature.Intercept())
	require.True(t, exists)
	assert.Equal(t, []float64{1, 1, 1}, intercept)
}

func TestOptionsTablePrint(t *testing.T) {
	var buf bytes.Buffer
	opt := NewDefaultOptions()
	require.NoError(t, opt.TablePrint(&buf, "", "  ", 1))

	out := buf.String()
	assert.Contains(t, out, "Growth: linear")
	assert.Contains(t, out, "Seasonality:")
	assert.Contains(t, out, "weekly")
	assert.Contains(t, out, "Changepoints: None")
	assert.Contains(t, out, "Weekends: None")
	assert.Contains(t, out, "Holidays: None")
}

func sum(x []float64) float64 {
	var s float64
	for _, v := range x {
		s += v
	}
	return s
}
