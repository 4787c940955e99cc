package timedataset_test

import (
	"bytes"
	"math"
	"os"
	"testing"
	"time"

	forecaster "github.com/aouyang1/ozone-forecaster"
	"github.com/aouyang1/ozone-forecaster/timedataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testModelPath = "../testdata/o3_model.json"

func readTestModel(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(testModelPath)
	require.NoError(t, err)
	return data
}

func day(d int) time.Time {
	return time.Date(2023, 5, d, 0, 0, 0, 0, time.UTC)
}

func TestNewUnivariateDatasetFromModelHistory(t *testing.T) {
	m, err := forecaster.DecodeModel(bytes.NewReader(readTestModel(t)))
	require.NoError(t, err)

	ds, err := timedataset.NewUnivariateDataset(m.History.T, m.History.Y)
	require.NoError(t, err)

	require.Equal(t, 35, ds.Len())
	assert.Equal(t, time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC), ds.T[0])
	assert.Equal(t, time.Date(2023, 5, 5, 0, 0, 0, 0, time.UTC), ds.T[ds.Len()-1])
	assert.Equal(t, 54.96, ds.Y[0])

	freq, err := timedataset.TimeSlice(ds.T).EstimateFreq()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, freq)

	// the dataset owns its slices
	m.History.Y[0] = -1
	m.History.T[0] = time.Time{}
	assert.Equal(t, 54.96, ds.Y[0])
	assert.Equal(t, time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC), ds.T[0])
}

func TestNewUnivariateDatasetErrors(t *testing.T) {
	testData := map[string]struct {
		t   []time.Time
		y   []float64
		err error
	}{
		"empty history": {
			err: timedataset.ErrNoTrainingData,
		},
		"more values than times": {
			t:   []time.Time{day(1)},
			y:   []float64{40.1, 42.3},
			err: timedataset.ErrDatasetLenMismatch,
		},
		"more times than values": {
			t:   []time.Time{day(1), day(2), day(3)},
			y:   []float64{40.1, 42.3},
			err: timedataset.ErrDatasetLenMismatch,
		},
		"repeated day": {
			t:   []time.Time{day(1), day(2), day(2)},
			y:   []float64{40.1, 42.3, 39.8},
			err: timedataset.ErrNonMontonic,
		},
		"out of order day": {
			t:   []time.Time{day(1), day(3), day(2)},
			y:   []float64{40.1, 42.3, 39.8},
			err: timedataset.ErrNonMontonic,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			ds, err := timedataset.NewUnivariateDataset(td.t, td.y)
			assert.Nil(t, ds)
			assert.ErrorIs(t, err, td.err)
		})
	}
}

func TestLoadModelHistoryErrors(t *testing.T) {
	testData := map[string]struct {
		old, new string
		err      error
	}{
		"repeated timestamp": {
			old: `"2023-04-02T00:00:00Z"`,
			new: `"2023-04-01T00:00:00Z"`,
			err: timedataset.ErrNonMontonic,
		},
		"missing value": {
			old: "54.96,",
			new: "",
			err: timedataset.ErrDatasetLenMismatch,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			data := readTestModel(t)
			require.Equal(t, 1, bytes.Count(data, []byte(td.old)))
			data = bytes.Replace(data, []byte(td.old), []byte(td.new), 1)

			m, err := forecaster.DecodeModel(bytes.NewReader(data))
			require.NoError(t, err)

			f, err := forecaster.NewFromModel(m)
			assert.Nil(t, f)
			assert.ErrorIs(t, err, td.err)
		})
	}
}

func TestCopyIsolation(t *testing.T) {
	ds, err := timedataset.NewUnivariateDataset([]time.Time{day(1), day(2)}, []float64{40.1, 42.3})
	require.NoError(t, err)

	cp := ds.Copy()
	require.Equal(t, ds, cp)

	cp.Y[1] = 99
	cp.T[0] = day(10)
	assert.Equal(t, []float64{40.1, 42.3}, ds.Y)
	assert.Equal(t, []time.Time{day(1), day(2)}, ds.T)
}

func TestDropNan(t *testing.T) {
	testData := map[string]struct {
		ds       *timedataset.TimeDataset
		expected *timedataset.TimeDataset
	}{
		"nil": {},
		"no gaps": {
			ds: &timedataset.TimeDataset{
				T: []time.Time{day(1), day(2)},
				Y: []float64{40.1, 42.3},
			},
			expected: &timedataset.TimeDataset{
				T: []time.Time{day(1), day(2)},
				Y: []float64{40.1, 42.3},
			},
		},
		"missing readings": {
			ds: &timedataset.TimeDataset{
				T: []time.Time{day(1), day(2), day(3), day(4)},
				Y: []float64{math.NaN(), 42.3, math.NaN(), 39.8},
			},
			expected: &timedataset.TimeDataset{
				T: []time.Time{day(2), day(4)},
				Y: []float64{42.3, 39.8},
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, td.ds.DropNan())
		})
	}
}

func TestLen(t *testing.T) {
	var ds *timedataset.TimeDataset
	assert.Equal(t, 0, ds.Len())
	assert.Equal(t, 2, (&timedataset.TimeDataset{T: []time.Time{day(1), day(2)}}).Len())
}
