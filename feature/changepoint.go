package feature

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

type ChangepointComp string

const (
	ChangepointCompBias  ChangepointComp = "bias"
	ChangepointCompSlope ChangepointComp = "slope"
)

// Changepoint feature representing a point in time that we expect a jump or trend change in
// the training time series. The component is either of type bias (jump) or slope (trend).
type Changepoint struct {
	Name            string          `json:"name"`
	ChangepointComp ChangepointComp `json:"changepoint_component"`
}

func NewChangepoint(name string, comp ChangepointComp) *Changepoint {
	return &Changepoint{name, comp}
}

func (c Changepoint) String() string {
	return fmt.Sprintf("chpnt_%s_%s", c.Name, c.ChangepointComp)
}

func (c Changepoint) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "name":
		return c.Name, true
	case "changepoint_component":
		return string(c.ChangepointComp), true
	}
	return "", false
}

func (c Changepoint) Type() FeatureType {
	return FeatureTypeChangepoint
}

func (c Changepoint) Decode() map[string]string {
	res := make(map[string]string)
	res["name"] = c.Name
	res["changepoint_component"] = string(c.ChangepointComp)
	return res
}

func (c *Changepoint) UnmarshalJSON(data []byte) error {
	var labelStr struct {
		Name            string          `json:"name"`
		ChangepointComp ChangepointComp `json:"changepoint_component"`
	}
	if err := json.Unmarshal(data, &labelStr); err != nil {
		return err
	}
	c.Name = labelStr.Name
	c.ChangepointComp = labelStr.ChangepointComp
	return nil
}

// Generate computes the changepoint component for each time point. The bias is a step of 1.0
// starting at the changepoint time. The slope grows linearly from the changepoint and reaches
// 1.0 at the end of the training window so that it keeps growing into the forecast horizon.
func (c Changepoint) Generate(t []time.Time, chpntTime, trainEndTime time.Time) []float64 {
	res := make([]float64, len(t))
	deltaT := trainEndTime.Sub(chpntTime).Seconds()
	for i, tPnt := range t {
		if tPnt.Before(chpntTime) {
			continue
		}
		switch c.ChangepointComp {
		case ChangepointCompBias:
			res[i] = 1.0
		case ChangepointCompSlope:
			if deltaT > 0 {
				res[i] = tPnt.Sub(chpntTime).Seconds() / deltaT
			}
		}
	}
	return res
}
