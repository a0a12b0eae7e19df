package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/san-kum/diffdrive/internal/dynamo"
)

var csvHeader = []string{"time", "x", "y", "theta", "v", "w"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// WriteCSV writes one row per state. The final state has no command
// following it and is written with zero v and w.
func WriteCSV(out io.Writer, result *dynamo.Result) error {
	w := csv.NewWriter(out)

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for i, x := range result.States {
		if len(x) < 3 {
			return fmt.Errorf("%w: state %d has %d values", dynamo.ErrDimensionMismatch, i, len(x))
		}
		v, om := 0.0, 0.0
		if i < len(result.Controls) && len(result.Controls[i]) >= 2 {
			v, om = result.Controls[i][0], result.Controls[i][1]
		}
		row := []string{
			formatFloat(result.Times[i]),
			formatFloat(x[0]), formatFloat(x[1]), formatFloat(x[2]),
			formatFloat(v), formatFloat(om),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// ReadCSV parses the format written by WriteCSV. Controls are returned for
// every row but the last.
func ReadCSV(in io.Reader) (*dynamo.Result, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = len(csvHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	result := &dynamo.Result{
		States:   []dynamo.State{},
		Controls: []dynamo.Control{},
		Times:    []float64{},
		Metrics:  map[string]float64{},
	}
	if len(records) < 2 {
		return result, nil
	}

	rows := records[1:]
	for i, record := range rows {
		vals := make([]float64, len(record))
		for j, field := range record {
			vals[j], err = strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", i+1, csvHeader[j], err)
			}
		}
		result.Times = append(result.Times, vals[0])
		result.States = append(result.States, dynamo.State{vals[1], vals[2], vals[3]})
		if i < len(rows)-1 {
			result.Controls = append(result.Controls, dynamo.Control{vals[4], vals[5]})
		}
	}
	return result, nil
}

// finiteMetrics drops NaN and infinite values, which encoding/json rejects.
func finiteMetrics(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[k] = v
	}
	return out
}
