package options

import (
	"bytes"
	"testing"
	"time"

	"github.com/aouyang1/ozone-forecaster/feature"
	"github.com/rickar/cal/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoliday(t *testing.T) {
	saoPaulo := time.FixedZone("UTC-3", -3*60*60)

	testData := map[string]struct {
		hol       *cal.Holiday
		start     time.Time
		end       time.Time
		durBefore time.Duration
		durAfter  time.Duration
		expected  []feature.Span
	}{
		"no coverage": {
			hol:      Tiradentes,
			start:    time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
			end:      time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC),
			expected: []feature.Span{},
		},
		"fixed day across years": {
			hol:   Tiradentes,
			start: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
			expected: []feature.Span{
				{
					Start: time.Date(2022, 4, 21, 0, 0, 0, 0, time.UTC),
					End:   time.Date(2022, 4, 22, 0, 0, 0, 0, time.UTC),
				},
				{
					Start: time.Date(2023, 4, 21, 0, 0, 0, 0, time.UTC),
					End:   time.Date(2023, 4, 22, 0, 0, 0, 0, time.UTC),
				},
			},
		},
		"easter based": {
			hol:   Carnival,
			start: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
			expected: []feature.Span{
				{
					Start: time.Date(2023, 2, 21, 0, 0, 0, 0, time.UTC),
					End:   time.Date(2023, 2, 22, 0, 0, 0, 0, time.UTC),
				},
			},
		},
		"non utc tz with buffers": {
			hol:       LabourDay,
			start:     time.Date(2023, 4, 1, 0, 0, 0, 0, saoPaulo),
			end:       time.Date(2023, 5, 5, 0, 0, 0, 0, saoPaulo),
			durBefore: 12 * time.Hour,
			durAfter:  6 * time.Hour,
			expected: []feature.Span{
				{
					Start: time.Date(2023, 4, 30, 12, 0, 0, 0, saoPaulo),
					End:   time.Date(2023, 5, 2, 6, 0, 0, 0, saoPaulo),
				},
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res := Holiday(td.hol, td.start, td.end, td.durBefore, td.durAfter)
			require.Equal(t, len(td.expected), len(res))
			for i := range td.expected {
				assert.True(t, td.expected[i].Start.Equal(res[i].Start), "start %d: %s", i, res[i].Start)
				assert.True(t, td.expected[i].End.Equal(res[i].End), "end %d: %s", i, res[i].End)
			}
		})
	}
}

func TestHolidayOptionsValidate(t *testing.T) {
	testData := map[string]struct {
		opt HolidayOptions
		err error
	}{
		"empty": {},
		"known holidays": {
			opt: HolidayOptions{Holidays: []string{"tiradentes", "christmas"}},
		},
		"unknown holiday": {
			opt: HolidayOptions{Holidays: []string{"thanksgiving"}},
			err: ErrUnknownHoliday,
		},
		"negative buffer": {
			opt: HolidayOptions{DurBefore: -time.Hour},
			err: ErrHolidayDurBuffer,
		},
		"buffer too large": {
			opt: HolidayOptions{DurAfter: 8 * 24 * time.Hour},
			err: ErrHolidayDurBuffer,
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

func TestHolidayOptionsTablePrint(t *testing.T) {
	var buf bytes.Buffer
	opt := HolidayOptions{Holidays: []string{"tiradentes", "carnival"}}
	require.NoError(t, opt.TablePrint(&buf, "", "  ", 0))
	assert.Contains(t, buf.String(), "Holidays:")
	assert.Contains(t, buf.String(), "Tiradentes")
	assert.Contains(t, buf.String(), "Carnaval")

	buf.Reset()
	require.NoError(t, HolidayOptions{}.TablePrint(&buf, "", "  ", 0))
	assert.Equal(t, "Holidays: None\n", buf.String())
}
