package forecaster

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aouyang1/ozone-forecaster/forecast"
	"github.com/aouyang1/ozone-forecaster/forecast/util"
	"github.com/goccy/go-json"
)

// Model is the serialized form of a Forecaster. It carries the observed history the models were
// trained on, the series model producing the point estimate and the uncertainty model producing
// the width of the band around it.
type Model struct {
	Name        string           `json:"name"`
	Unit        string           `json:"unit"`
	History     History          `json:"history"`
	Series      forecast.Model   `json:"series_model"`
	Uncertainty forecast.Model   `json:"uncertainty_model"`
	TestScores  *forecast.Scores `json:"test_scores,omitempty"`
}

// History is the observed time series stored alongside the model
type History struct {
	T []time.Time `json:"time"`
	Y []float64   `json:"values"`
}

// DecodeModel reads a JSON encoded model
func DecodeModel(r io.Reader) (Model, error) {
	var m Model
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return Model{}, fmt.Errorf("unable to decode model, %w", err)
	}
	return m, nil
}

// LoadModel reads a JSON encoded model from a file
func LoadModel(path string) (Model, error) {
	file, err := os.Open(path)
	if err != nil {
		return Model{}, fmt.Errorf("unable to open model file, %w", err)
	}
	defer file.Close()

	return DecodeModel(file)
}

// Load reads the model at path and returns a Forecaster ready for predictions
func Load(path string) (*Forecaster, error) {
	m, err := LoadModel(path)
	if err != nil {
		return nil, err
	}
	return NewFromModel(m)
}

// TablePrint writes a human readable summary of the model
func (m Model) TablePrint(w io.Writer, prefix, indent string) error {
	name := m.Name
	if name == "" {
		name = "unnamed"
	}
	if _, err := fmt.Fprintf(w, "%sModel: %s\n", prefix, name); err != nil {
		return err
	}
	if len(m.History.T) > 0 {
		if _, err := fmt.Fprintf(w, "%s%sHistory: %d points from %s to %s\n",
			prefix, util.IndentExpand(indent, 1), len(m.History.T),
			m.History.T[0].Format(time.DateOnly),
			m.History.T[len(m.History.T)-1].Format(time.DateOnly)); err != nil {
			return err
		}
	}
	if m.TestScores != nil {
		if _, err := fmt.Fprintf(w, "%s%sTest RMSE: %.2f %s\n",
			prefix, util.IndentExpand(indent, 1), m.TestScores.RMSE(), m.Unit); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "%sSeries:\n", prefix); err != nil {
		return err
	}
	if err := m.Series.TablePrint(w, prefix, indent, 1); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\n%sUncertainty:\n", prefix); err != nil {
		return err
	}
	if err := m.Uncertainty.TablePrint(w, prefix, indent, 1); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}
