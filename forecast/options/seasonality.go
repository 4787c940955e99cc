package options

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/aouyang1/ozone-forecaster/feature"
	"github.com/aouyang1/ozone-forecaster/forecast/util"
)

var (
	ErrInvalidSeasonality   = errors.New("invalid seasonality config")
	ErrDuplicateSeasonality = errors.New("duplicate seasonality name")
)

// Seasonality options configures the number of seasonality components to fit for.
type SeasonalityOptions struct {
	SeasonalityConfigs []SeasonalityConfig `json:"seasonality_configs"`
}

// NewDefaultSeasonalityOptions generates a default seasonality config with yearly and weekly
// seasonal components which is what a daily series can support
func NewDefaultSeasonalityOptions() SeasonalityOptions {
	return SeasonalityOptions{
		SeasonalityConfigs: []SeasonalityConfig{
			NewWeeklySeasonalityConfig(3),
			NewYearlySeasonalityConfig(10),
		},
	}
}

func (s SeasonalityOptions) Validate() error {
	names := make(map[string]struct{})
	for _, seasCfg := range s.SeasonalityConfigs {
		if seasCfg.Name == "" || seasCfg.Period <= 0 || seasCfg.Orders < 0 {
			return fmt.Errorf("name: %q, period: %s, orders: %d, %w",
				seasCfg.Name, seasCfg.Period, seasCfg.Orders, ErrInvalidSeasonality)
		}
		if _, exists := names[seasCfg.Name]; exists {
			return fmt.Errorf("%q, %w", seasCfg.Name, ErrDuplicateSeasonality)
		}
		names[seasCfg.Name] = struct{}{}
	}
	return nil
}

func (s SeasonalityOptions) TablePrint(w io.Writer, prefix, indent string, indentGrowth int) error {
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	noCfg := " None"
	if len(s.SeasonalityConfigs) > 0 {
		noCfg = ""
		fmt.Fprintf(tbl, "%s%sName\tPeriod\tOrders\t\n", prefix, util.IndentExpand(indent, indentGrowth+1))
	}
	fmt.Fprintf(w, "%s%sSeasonality:%s\n", prefix, util.IndentExpand(indent, indentGrowth), noCfg)
	for _, seasCfg := range s.SeasonalityConfigs {
		fmt.Fprintf(tbl, "%s%s%s\t%s\t%d\t\n",
			prefix, util.IndentExpand(indent, indentGrowth+1),
			seasCfg.Name, seasCfg.Period, seasCfg.Orders)
	}
	return tbl.Flush()
}

func (s SeasonalityOptions) generateFeatures(epoch []float64) (feature.Set, error) {
	x := make(feature.Set)
	for _, seasCfg := range s.SeasonalityConfigs {
		if seasCfg.Period <= 0 {
			return nil, fmt.Errorf("unable to generate seasonality features for %q, %w", seasCfg.Name, ErrInvalidSeasonality)
		}
		for order := 1; order <= seasCfg.Orders; order++ {
			for _, comp := range []feature.FourierComp{feature.FourierCompSin, feature.FourierCompCos} {
				feat := feature.NewSeasonality(seasCfg.Name, comp, order)
				x.Add(feat, feat.Generate(epoch, seasCfg.Period))
			}
		}
	}
	return x, nil
}

// SeasonalityConfig represents a single seasonality configuration to model. This will generate
// Fourier series of the specified period and number of orders. E.g. a period of 7*24*time.Hour
// with 3 orders will create 6 Fourier series of order 1, 2, 3 and for the sine/cosine components
// where order 1 will have a period of 1 week and order 2 will have a period of 3.5 days.
type SeasonalityConfig struct {
	Name   string        `json:"name"`
	Orders int           `json:"orders"`
	Period time.Duration `json:"period"`
}

// NewSeasonalityConfig creates a new seasonality config given a name, period and orders
func NewSeasonalityConfig(name string, period time.Duration, orders int) SeasonalityConfig {
	if orders < 0 {
		orders = 0
	}

	return SeasonalityConfig{
		Name:   name,
		Orders: orders,
		Period: period,
	}
}

// NewDailySeasonalityConfig creates a daily seasonality config given a specified number of orders
func NewDailySeasonalityConfig(orders int) SeasonalityConfig {
	return NewSeasonalityConfig(LabelSeasDaily, 24*time.Hour, orders)
}

// NewWeeklySeasonalityConfig creates a weekly seasonality config given a specified number of orders
func NewWeeklySeasonalityConfig(orders int) SeasonalityConfig {
	return NewSeasonalityConfig(LabelSeasWeekly, 7*24*time.Hour, orders)
}

// NewYearlySeasonalityConfig creates a yearly seasonality config of 365.25 days
func NewYearlySeasonalityConfig(orders int) SeasonalityConfig {
	return NewSeasonalityConfig(LabelSeasYearly, 36525*24*time.Hour/100, orders)
}
