package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// PredictionColumn is the label column added to the output.
const PredictionColumn = "prediction"

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "null") {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

// ReadCSV reads a recording with a datetime column and numeric columns.
// Empty cells become NaN.
func ReadCSV(r io.Reader) (*Series, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	timeIdx := -1
	for i, name := range header {
		if name == TimeColumn {
			timeIdx = i
			break
		}
	}
	if timeIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, TimeColumn)
	}

	var times []time.Time
	columns := make([][]float64, len(header))
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read line %d: %w", line+1, err)
		}
		line++

		t, err := parseTime(record[timeIdx])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		times = append(times, t)

		for i, cell := range record {
			if i == timeIdx {
				continue
			}
			v, err := parseValue(cell)
			if err != nil {
				return nil, fmt.Errorf("line %d column %s: %w", line, header[i], err)
			}
			columns[i] = append(columns[i], v)
		}
	}

	series, err := NewSeries(times)
	if err != nil {
		return nil, err
	}
	for i, name := range header {
		if i == timeIdx {
			continue
		}
		values := columns[i]
		if values == nil {
			values = []float64{}
		}
		if err := series.SetColumn(name, values); err != nil {
			return nil, err
		}
	}
	return series, nil
}

// WriteCSV writes the recording with the prediction label and one probability
// column per class. Rows without a result leave those cells empty.
func WriteCSV(w io.Writer, s *Series, results []Result, classes []string) error {
	writer := csv.NewWriter(w)

	columns := s.Columns()
	header := append([]string{TimeColumn}, columns...)
	header = append(header, PredictionColumn)
	header = append(header, classes...)
	if err := writer.Write(header); err != nil {
		return err
	}

	byRow := make(map[int]Result, len(results))
	for _, result := range results {
		if i, ok := s.IndexOf(result.Time); ok {
			byRow[i] = result
		}
	}

	for i, t := range s.Times {
		record := make([]string, 0, len(header))
		record = append(record, t.Format(time.RFC3339Nano))
		for _, name := range columns {
			values, _ := s.Column(name)
			record = append(record, formatValue(values[i]))
		}

		if result, ok := byRow[i]; ok {
			record = append(record, result.Prediction.Label)
			for _, class := range classes {
				record = append(record, formatValue(result.Prediction.Probabilities[class]))
			}
		} else {
			for range len(classes) + 1 {
				record = append(record, "")
			}
		}

		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
