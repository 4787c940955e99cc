package options

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/aouyang1/ozone-forecaster/feature"
	"github.com/aouyang1/ozone-forecaster/forecast/util"
	"github.com/rickar/cal/v2"
)

// MaxHolidayDurBuffer limits how far a holiday window can be stretched before or after the day
const MaxHolidayDurBuffer = 7 * 24 * time.Hour

var (
	ErrUnknownHoliday   = errors.New("unknown holiday")
	ErrHolidayDurBuffer = errors.New("holiday duration buffer out of range")
)

// Brazilian national holidays. The ozone series is measured in Brazil so these are the days
// where traffic, and with it precursor emissions, differ from a regular weekday.
var (
	NewYear          = &cal.Holiday{Name: "Confraternizacao Universal", Month: time.January, Day: 1, Func: cal.CalcDayOfMonth}
	Carnival         = &cal.Holiday{Name: "Carnaval", Offset: -47, Func: cal.CalcEasterOffset}
	GoodFriday       = &cal.Holiday{Name: "Sexta-feira Santa", Offset: -2, Func: cal.CalcEasterOffset}
	Tiradentes       = &cal.Holiday{Name: "Tiradentes", Month: time.April, Day: 21, Func: cal.CalcDayOfMonth}
	LabourDay        = &cal.Holiday{Name: "Dia do Trabalho", Month: time.May, Day: 1, Func: cal.CalcDayOfMonth}
	CorpusChristi    = &cal.Holiday{Name: "Corpus Christi", Offset: 60, Func: cal.CalcEasterOffset}
	IndependenceDay  = &cal.Holiday{Name: "Independencia", Month: time.September, Day: 7, Func: cal.CalcDayOfMonth}
	OurLadyAparecida = &cal.Holiday{Name: "Nossa Senhora Aparecida", Month: time.October, Day: 12, Func: cal.CalcDayOfMonth}
	AllSouls         = &cal.Holiday{Name: "Finados", Month: time.November, Day: 2, Func: cal.CalcDayOfMonth}
	RepublicDay      = &cal.Holiday{Name: "Proclamacao da Republica", Month: time.November, Day: 15, Func: cal.CalcDayOfMonth}
	Christmas        = &cal.Holiday{Name: "Natal", Month: time.December, Day: 25, Func: cal.CalcDayOfMonth}
)

// Holidays maps the label stored in a model to its calendar definition
var Holidays = map[string]*cal.Holiday{
	"new_year":           NewYear,
	"carnival":           Carnival,
	"good_friday":        GoodFriday,
	"tiradentes":         Tiradentes,
	"labour_day":         LabourDay,
	"corpus_christi":     CorpusChristi,
	"independence_day":   IndependenceDay,
	"our_lady_aparecida": OurLadyAparecida,
	"all_souls":          AllSouls,
	"republic_day":       RepublicDay,
	"christmas":          Christmas,
}

// HolidayOptions lists the holidays modelled as events. Each holiday spans its calendar day in
// the timezone of the series, optionally widened by DurBefore and DurAfter.
type HolidayOptions struct {
	Holidays  []string      `json:"holidays"`
	DurBefore time.Duration `json:"duration_before"`
	DurAfter  time.Duration `json:"duration_after"`
}

func (h HolidayOptions) Validate() error {
	for _, name := range h.Holidays {
		if _, exists := Holidays[name]; !exists {
			return fmt.Errorf("%q, %w", name, ErrUnknownHoliday)
		}
	}
	if h.DurBefore < 0 || h.DurBefore > MaxHolidayDurBuffer || h.DurAfter < 0 || h.DurAfter > MaxHolidayDurBuffer {
		return fmt.Errorf("before: %s, after: %s, %w", h.DurBefore, h.DurAfter, ErrHolidayDurBuffer)
	}
	return nil
}

func (h HolidayOptions) TablePrint(w io.Writer, prefix, indent string, indentGrowth int) error {
	if len(h.Holidays) == 0 {
		_, err := fmt.Fprintf(w, "%s%sHolidays: None\n", prefix, util.IndentExpand(indent, indentGrowth))
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sHolidays:\n", prefix, util.IndentExpand(indent, indentGrowth)); err != nil {
		return err
	}

	names := make([]string, len(h.Holidays))
	copy(names, h.Holidays)
	sort.Strings(names)

	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tbl, "%s%sName\tHoliday\tBefore\tAfter\t\n", prefix, util.IndentExpand(indent, indentGrowth+1))
	for _, name := range names {
		holName := "unknown"
		if hol, exists := Holidays[name]; exists {
			holName = hol.Name
		}
		fmt.Fprintf(tbl, "%s%s%s\t%s\t%s\t%s\t\n",
			prefix, util.IndentExpand(indent, indentGrowth+1),
			name, holName, -h.DurBefore, h.DurAfter)
	}
	return tbl.Flush()
}

func (h HolidayOptions) generateFeatures(t []time.Time) feature.Set {
	feat := make(feature.Set)
	if len(h.Holidays) == 0 {
		return feat
	}

	start, end := util.TimeRange(t)
	for _, name := range h.Holidays {
		hol, exists := Holidays[name]
		if !exists {
			slog.Warn("skipping unknown holiday", "name", name)
			continue
		}
		event := feature.NewEvent(name)
		feat.Add(event, event.Generate(t, Holiday(hol, start, end, h.DurBefore, h.DurAfter)))
	}
	return feat
}

// Holiday returns the spans of every occurrence of the holiday that overlaps the [start, end]
// window. Occurrences are placed at midnight in the location of start.
func Holiday(hol *cal.Holiday, start, end time.Time, durBefore, durAfter time.Duration) []feature.Span {
	loc := start.Location()

	spans := []feature.Span{}
	for i := start.Year() - 1; i <= end.Year()+1; i++ {
		_, observed := hol.Calc(i)
		if observed.IsZero() {
			continue
		}
		y, m, d := observed.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, loc)

		span := feature.Span{
			Start: day.Add(-durBefore),
			End:   day.AddDate(0, 0, 1).Add(durAfter),
		}
		if span.End.After(start) && !span.Start.After(end) {
			spans = append(spans, span)
		}
	}
	return spans
}
