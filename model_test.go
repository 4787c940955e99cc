package forecaster

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/aouyang1/ozone-forecaster/feature"
	"github.com/aouyang1/ozone-forecaster/forecast"
	"github.com/aouyang1/ozone-forecaster/forecast/options"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeModel(t *testing.T) {
	testData := map[string]struct {
		input string
		err   bool
	}{
		"empty input": {
			input: "",
			err:   true,
		},
		"corrupt input": {
			input: `{"name": "O3", "history": [`,
			err:   true,
		},
		"valid input": {
			input: `{"name": "O3", "unit": "ug/m3", "history": {"time": ["2023-05-05T00:00:00Z"], "values": [41.2]}}`,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			m, err := DecodeModel(strings.NewReader(td.input))
			if td.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "O3", m.Name)
			assert.Equal(t, []float64{41.2}, m.History.Y)
			assert.Equal(t, time.Date(2023, 5, 5, 0, 0, 0, 0, time.UTC), m.History.T[0].UTC())
		})
	}
}

func TestModelJSON(t *testing.T) {
	m := Model{
		Name: "O3",
		Unit: "ug/m3",
		History: History{
			T: []time.Time{time.Date(2023, 5, 5, 0, 0, 0, 0, time.UTC)},
			Y: []float64{41.2},
		},
		Series: forecast.Model{
			TrainStartTime: time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC),
			TrainEndTime:   time.Date(2023, 5, 5, 0, 0, 0, 0, time.UTC),
			Options:        &options.Options{GrowthType: feature.GrowthLinear},
			Weights: forecast.Weights{
				Coef: []forecast.FeatureWeight{forecast.NewFeatureWeight(feature.Intercept(), 40.0)},
			},
		},
	}
	out, err := json.Marshal(m)
	require.NoError(t, err)

	for _, key := range []string{`"series_model"`, `"uncertainty_model"`, `"history"`, `"train_start_time"`} {
		assert.Contains(t, string(out), key)
	}
	assert.NotContains(t, string(out), `"test_scores"`)

	decoded, err := DecodeModel(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, m.Series.Weights, decoded.Series.Weights)
	assert.Equal(t, m.Series.Options, decoded.Series.Options)
}

func TestModelTablePrint(t *testing.T) {
	m, err := LoadModel(testModelPath)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, m.TablePrint(&buf, "", "  "))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Model: O3\n  History: 35 points from 2023-04-01 to 2023-05-05\n  Test RMSE: 17.43 ug/m3\nSeries:\n"), out)
	assert.Contains(t, out, "\nUncertainty:\n")
	assert.Contains(t, out, "Holidays:")
	assert.Contains(t, out, "tiradentes")
	assert.Contains(t, out, "apr20")
	assert.Contains(t, out, "22.300")

	buf.Reset()
	require.NoError(t, Model{}.TablePrint(&buf, "", "  "))
	assert.True(t, strings.HasPrefix(buf.String(), "Model: unnamed\nSeries:\n"), buf.String())
}
