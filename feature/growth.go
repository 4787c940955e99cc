package feature

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const (
	GrowthIntercept = "intercept"
	GrowthLinear    = "linear"
	GrowthQuadratic = "quadratic"
)

// Growth represents the overall trend of the series. The intercept is modelled as a growth
// feature with a constant value of 1.0.
type Growth struct {
	Name string `json:"name"`
}

func NewGrowth(name string) *Growth {
	return &Growth{name}
}

// Intercept returns the constant growth feature
func Intercept() *Growth {
	return NewGrowth(GrowthIntercept)
}

// Linear returns the linear growth feature
func Linear() *Growth {
	return NewGrowth(GrowthLinear)
}

// Quadratic returns the quadratic growth feature
func Quadratic() *Growth {
	return NewGrowth(GrowthQuadratic)
}

// String returns the string representation of the growth feature
func (g Growth) String() string {
	return fmt.Sprintf("growth_%s", g.Name)
}

// Get returns the value of an arbitrary label annd returns the value along with whether
// the label exists
func (g Growth) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "name":
		return g.Name, true
	}
	return "", false
}

// Type returns the type of this feature
func (g Growth) Type() FeatureType {
	return FeatureTypeGrowth
}

// Decode converts the feature into a map of label values
func (g Growth) Decode() map[string]string {
	res := make(map[string]string)
	res["name"] = g.Name
	return res
}

// UnmarshalJSON is the custom unmarshalling to convert a map[string]string
// to a growth feature
func (g *Growth) UnmarshalJSON(data []byte) error {
	var labelStr struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &labelStr); err != nil {
		return err
	}
	g.Name = labelStr.Name
	return nil
}

// Generate produces the growth values for the input epoch seconds. Linear and quadratic
// growth are scaled so that the training window spans [0, 1]. An unknown growth name or an
// empty training window yields nil.
func (g Growth) Generate(epoch []float64, trainStartTime, trainEndTime time.Time) []float64 {
	if g.Name == GrowthIntercept {
		res := make([]float64, len(epoch))
		for i := range res {
			res[i] = 1.0
		}
		return res
	}

	start := float64(trainStartTime.UnixNano()) / 1e9
	window := trainEndTime.Sub(trainStartTime).Seconds()
	if window <= 0 {
		return nil
	}

	switch g.Name {
	case GrowthLinear, GrowthQuadratic:
	default:
		return nil
	}

	res := make([]float64, len(epoch))
	for i, e := range epoch {
		x := (e - start) / window
		if g.Name == GrowthQuadratic {
			x *= x
		}
		res[i] = x
	}
	return res
}
