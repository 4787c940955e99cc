package options

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/aouyang1/ozone-forecaster/feature"
	"github.com/aouyang1/ozone-forecaster/forecast/util"
)

var ErrUnsetChangepointTime = errors.New("unset changepoint time")

// Changepoint describes a point in time that will change the ongoing trend. This will
// include both a bias a growth feature.
type Changepoint struct {
	T    time.Time `json:"time"`
	Name string    `json:"name"`
}

func NewChangepoint(name string, t time.Time) Changepoint {
	return Changepoint{t, name}
}

// ChangepointOptions lists the changepoints the model was trained with
type ChangepointOptions struct {
	Changepoints []Changepoint `json:"changepoints"`
}

// NewDefaultChangepointOptions generates a set of default changepoint options
func NewDefaultChangepointOptions() ChangepointOptions {
	return ChangepointOptions{
		Changepoints: nil,
	}
}

func (c ChangepointOptions) Validate() error {
	for i, chpt := range c.Changepoints {
		if chpt.T.IsZero() {
			return fmt.Errorf("changepoint %d, %w", i, ErrUnsetChangepointTime)
		}
	}
	return nil
}

func (c ChangepointOptions) TablePrint(w io.Writer, prefix, indent string, indentGrowth int) error {
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	noCfg := " None"
	if len(c.Changepoints) > 0 {
		noCfg = ""
		fmt.Fprintf(tbl, "%s%sName\tDatetime\t\n", prefix, util.IndentExpand(indent, indentGrowth+1))
	}
	fmt.Fprintf(w, "%s%sChangepoints:%s\n", prefix, util.IndentExpand(indent, indentGrowth), noCfg)
	for i, chpt := range c.Changepoints {
		fmt.Fprintf(tbl, "%s%s%s\t%s\t\n",
			prefix, util.IndentExpand(indent, indentGrowth+1),
			changepointName(i, chpt), chpt.T)
	}
	return tbl.Flush()
}

func (c ChangepointOptions) generateFeatures(t []time.Time, trainEndTime time.Time) feature.Set {
	feat := make(feature.Set)
	for i, chpt := range c.Changepoints {
		name := changepointName(i, chpt)
		bias := feature.NewChangepoint(name, feature.ChangepointCompBias)
		slope := feature.NewChangepoint(name, feature.ChangepointCompSlope)
		feat.Add(bias, bias.Generate(t, chpt.T, trainEndTime))
		feat.Add(slope, slope.Generate(t, chpt.T, trainEndTime))
	}
	return feat
}

func changepointName(i int, chpt Changepoint) string {
	if chpt.Name != "" {
		return chpt.Name
	}
	return strconv.Itoa(i)
}
