package forecaster

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/aouyang1/ozone-forecaster/timedataset"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

var ErrNoResults = errors.New("no results to plot")

const (
	plotTextColor  = "#000000"
	plotBackground = "#ffffff"
	plotForecast   = "#0072b2"
	plotBand       = "rgba(0, 114, 178, 0.2)"
	plotObserved   = "#000000"
	plotDateLayout = "2006-01-02"
)

// PlotOpts configures the labels of the forecast chart. Empty fields fall back to the defaults.
type PlotOpts struct {
	Title        string
	XAxisName    string
	YAxisName    string
	ObservedName string
	ForecastName string
	BandName     string
	Width        string
	Height       string
}

func (p *PlotOpts) withDefaults() PlotOpts {
	out := PlotOpts{
		Title:        "Forecast",
		XAxisName:    "Time",
		YAxisName:    "Value",
		ObservedName: "Observed",
		ForecastName: "Forecast",
		BandName:     "Uncertainty",
		Width:        "900px",
		Height:       "500px",
	}
	if p == nil {
		return out
	}
	set := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	set(&out.Title, p.Title)
	set(&out.XAxisName, p.XAxisName)
	set(&out.YAxisName, p.YAxisName)
	set(&out.ObservedName, p.ObservedName)
	set(&out.ForecastName, p.ForecastName)
	set(&out.BandName, p.BandName)
	set(&out.Width, p.Width)
	set(&out.Height, p.Height)
	return out
}

func dateAxis(t []time.Time) []string {
	x := make([]string, 0, len(t))
	for _, tPnt := range t {
		x = append(x, tPnt.Format(plotDateLayout))
	}
	return x
}

// LineForecast generates an echart line chart of a forecast. The observed history is drawn as
// points, the forecast as a line and the uncertainty band as a shaded area between the lower and
// upper values. Observed points are matched to the result by time.
func LineForecast(history *timedataset.TimeDataset, res *Results, opt *PlotOpts) *charts.Line {
	o := opt.withDefaults()

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       o.Title,
			Width:           o.Width,
			Height:          o.Height,
			BackgroundColor: plotBackground,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      o.Title,
			TitleStyle: &opts.TextStyle{Color: plotTextColor},
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:      opts.Bool(true),
			Top:       "bottom",
			TextStyle: &opts.TextStyle{Color: plotTextColor},
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		// XAxis has no axis line options in this echarts binding so its name keeps the theme color
		charts.WithXAxisOpts(opts.XAxis{
			Name:      o.XAxisName,
			AxisLabel: &opts.AxisLabel{Color: plotTextColor},
		}),
		// the axis name inherits the axis line color
		charts.WithYAxisOpts(opts.YAxis{
			Name:      o.YAxisName,
			AxisLabel: &opts.AxisLabel{Color: plotTextColor},
			AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: plotTextColor}},
		}),
	)

	n := res.Len()
	observed := make(map[time.Time]float64)
	if history != nil {
		for i, tPnt := range history.T {
			observed[tPnt] = history.Y[i]
		}
	}

	lineDataObserved := make([]opts.LineData, 0, n)
	lineDataForecast := make([]opts.LineData, 0, n)
	lineDataLower := make([]opts.LineData, 0, n)
	lineDataBand := make([]opts.LineData, 0, n)
	for i := 0; i < n; i++ {
		if y, exists := observed[res.T[i]]; exists && !math.IsNaN(y) {
			lineDataObserved = append(lineDataObserved, opts.LineData{Value: y})
		} else {
			lineDataObserved = append(lineDataObserved, opts.LineData{Value: "-"})
		}
		lineDataForecast = append(lineDataForecast, opts.LineData{Value: res.Forecast[i]})
		lineDataLower = append(lineDataLower, opts.LineData{Value: res.Lower[i]})
		lineDataBand = append(lineDataBand, opts.LineData{Value: res.Upper[i] - res.Lower[i]})
	}

	var x []string
	if res != nil {
		x = dateAxis(res.T)
	}
	line.SetXAxis(x).
		AddSeries(o.BandName+" (lower)", lineDataLower,
			charts.WithLineChartOpts(opts.LineChart{Stack: "band", ShowSymbol: opts.Bool(false)}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: "rgba(0, 0, 0, 0)"}),
		).
		AddSeries(o.BandName, lineDataBand,
			charts.WithLineChartOpts(opts.LineChart{Stack: "band", ShowSymbol: opts.Bool(false)}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: "rgba(0, 0, 0, 0)"}),
			charts.WithAreaStyleOpts(opts.AreaStyle{Color: plotBand}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: plotBand}),
		).
		AddSeries(o.ForecastName, lineDataForecast,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: plotForecast}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: plotForecast}),
		).
		AddSeries(o.ObservedName, lineDataObserved,
			charts.WithLineStyleOpts(opts.LineStyle{Color: "rgba(0, 0, 0, 0)"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: plotObserved}),
		)
	return line
}

// LineTSeries generates an echart multi-line chart for some arbitrary time/value combination. The input
// y is a slice of series that must have the same length as the input time slice. NaN values are left
// as gaps.
func LineTSeries(title string, seriesName []string, t []time.Time, y [][]float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       title,
			BackgroundColor: plotBackground,
		}),
		charts.WithTitleOpts(
			opts.Title{
				Title:      title,
				TitleStyle: &opts.TextStyle{Color: plotTextColor},
			},
		),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	line = line.SetXAxis(dateAxis(t))
	for i, series := range seriesName {
		if i >= len(y) {
			break
		}
		lineData := make([]opts.LineData, 0, len(y[i]))
		for _, v := range y[i] {
			if math.IsNaN(v) {
				lineData = append(lineData, opts.LineData{Value: "-"})
				continue
			}
			lineData = append(lineData, opts.LineData{Value: v})
		}
		line = line.AddSeries(series, lineData,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		)
	}
	return line
}

// PlotForecast renders a page with the forecast chart followed by the components of the series
// model
func PlotForecast(w io.Writer, history *timedataset.TimeDataset, res *Results, opt *PlotOpts) error {
	if res.Len() == 0 {
		return ErrNoResults
	}

	page := components.NewPage()
	page.AddCharts(
		LineForecast(history, res, opt),
		LineTSeries(
			"Components",
			[]string{"Trend", "Seasonality", "Event"},
			res.T,
			[][]float64{
				res.SeriesComponents.Trend,
				res.SeriesComponents.Seasonality,
				res.SeriesComponents.Event,
			},
		),
	)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("unable to render forecast page, %w", err)
	}
	return nil
}
