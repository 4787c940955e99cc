package feature

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventString(t *testing.T) {
	assert.Equal(t, "event_tiradentes", NewEvent("tiradentes").String())
}

func TestEventUnmarshalJSON(t *testing.T) {
	feat := NewEvent("labour_day")
	out, err := json.Marshal(feat.Decode())
	require.NoError(t, err)

	var nextFeat Event
	require.NoError(t, json.Unmarshal(out, &nextFeat))
	assert.Equal(t, feat, &nextFeat)
}

func TestEventGenerate(t *testing.T) {
	t0 := time.Date(2023, 4, 20, 0, 0, 0, 0, time.UTC)
	tSeries := []time.Time{
		t0,
		t0.Add(24 * time.Hour),
		t0.Add(48 * time.Hour),
		t0.Add(72 * time.Hour),
	}

	testData := map[string]struct {
		spans    []Span
		expected []float64
	}{
		"no spans": {
			expected: []float64{0, 0, 0, 0},
		},
		"single day": {
			spans: []Span{
				{Start: t0.Add(24 * time.Hour), End: t0.Add(48 * time.Hour)},
			},
			expected: []float64{0, 1, 0, 0},
		},
		"overlapping spans": {
			spans: []Span{
				{Start: t0, End: t0.Add(48 * time.Hour)},
				{Start: t0.Add(24 * time.Hour), End: t0.Add(72 * time.Hour)},
			},
			expected: []float64{1, 1, 1, 0},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res := NewEvent("e").Generate(tSeries, td.spans)
			assert.Equal(t, td.expected, res)
		})
	}
}
