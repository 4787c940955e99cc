package feature

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Event feature representing time spans that are modelled with their own bias e.g. holidays
// or weekends. Its data is a mask that is 1.0 inside any of the spans and 0.0 elsewhere.
type Event struct {
	Name string `json:"name"`
}

// NewEvent creates a new event instance given a name
func NewEvent(name string) *Event {
	return &Event{name}
}

// String returns the string representation of the event feature
func (e Event) String() string {
	return fmt.Sprintf("event_%s", e.Name)
}

// Get returns the value of an arbitrary label annd returns the value along with whether
// the label exists
func (e Event) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "name":
		return e.Name, true
	}
	return "", false
}

// Type returns the type of this feature
func (e Event) Type() FeatureType {
	return FeatureTypeEvent
}

// Decode converts the feature into a map of label values
func (e Event) Decode() map[string]string {
	res := make(map[string]string)
	res["name"] = e.Name
	return res
}

// UnmarshalJSON is the custom unmarshalling to convert a map[string]string
// to a event feature
func (e *Event) UnmarshalJSON(data []byte) error {
	var labelStr struct {
		Name string `json:"name"`
	}
	err := json.Unmarshal(data, &labelStr)
	if err != nil {
		return err
	}
	e.Name = labelStr.Name
	return nil
}

// Span is a half open [Start, End) window of time
type Span struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the time point lies within the span
func (s Span) Contains(t time.Time) bool {
	return !t.Before(s.Start) && t.Before(s.End)
}

// Generate builds the event mask for the input times
func (e Event) Generate(t []time.Time, spans []Span) []float64 {
	res := make([]float64, len(t))
	for i, tPnt := range t {
		for _, s := range spans {
			if s.Contains(tPnt) {
				res[i] = 1.0
				break
			}
		}
	}
	return res
}
