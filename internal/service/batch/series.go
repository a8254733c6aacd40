// Package batch runs predictions over continuous recordings.
package batch

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/KasumiMercury/sleepwellbaby/internal/domain"
)

// TimeColumn is the timestamp column of recordings.
const TimeColumn = "datetime"

// Signal columns of recordings.
const (
	ColumnHR   = "HR"
	ColumnRESP = "RESP"
	ColumnSpO2 = "SpO2"
)

var (
	ErrUnsortedSeries           = errors.New("series timestamps must be strictly increasing")
	ErrColumnLength             = errors.New("column length does not match series length")
	ErrMissingColumn            = errors.New("series column missing")
	ErrTooManyMissingTimestamps = errors.New("too many timestamps missing from series")
)

// SignalColumn maps each vital onto the recording column that carries it.
var SignalColumn = map[domain.VitalKind]string{
	domain.VitalHR: ColumnHR,
	domain.VitalRR: ColumnRESP,
	domain.VitalOS: ColumnSpO2,
}

// SignalColumns is the order in which signals are read and written.
var SignalColumns = []string{ColumnHR, ColumnRESP, ColumnSpO2}

// ReferenceWindow is one of the trailing reference windows.
type ReferenceWindow struct {
	Name     string
	Duration time.Duration
}

var (
	Reference2h  = ReferenceWindow{Name: "2h", Duration: 2 * time.Hour}
	Reference24h = ReferenceWindow{Name: "24h", Duration: 24 * time.Hour}
)

// ReferenceColumn names a reference statistic column, e.g. HR_2h_mean.
func ReferenceColumn(signal string, window ReferenceWindow, stat string) string {
	return fmt.Sprintf("%s_%s_%s", signal, window.Name, stat)
}

// ReferenceColumns lists every reference column in output order.
func ReferenceColumns() []string {
	var columns []string
	for _, window := range []ReferenceWindow{Reference2h, Reference24h} {
		for _, stat := range []string{"mean", "std"} {
			for _, signal := range SignalColumns {
				columns = append(columns, ReferenceColumn(signal, window, stat))
			}
		}
	}
	return columns
}

// Series is a recording with ascending timestamps and named numeric columns.
// Missing values are NaN.
type Series struct {
	Times   []time.Time
	columns map[string][]float64
	order   []string
	index   map[int64]int
}

func NewSeries(times []time.Time) (*Series, error) {
	index := make(map[int64]int, len(times))
	for i, t := range times {
		if i > 0 && !t.After(times[i-1]) {
			return nil, fmt.Errorf("%w: %s follows %s", ErrUnsortedSeries, t, times[i-1])
		}
		index[t.UnixNano()] = i
	}

	return &Series{
		Times:   times,
		columns: make(map[string][]float64),
		index:   index,
	}, nil
}

func (s *Series) Len() int {
	return len(s.Times)
}

// Columns returns the column names in insertion order.
func (s *Series) Columns() []string {
	return append([]string(nil), s.order...)
}

func (s *Series) HasColumn(name string) bool {
	_, ok := s.columns[name]
	return ok
}

func (s *Series) Column(name string) ([]float64, error) {
	values, ok := s.columns[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
	}
	return values, nil
}

// SetColumn adds or replaces a column.
func (s *Series) SetColumn(name string, values []float64) error {
	if len(values) != s.Len() {
		return fmt.Errorf("%w: %s has %d values, series has %d", ErrColumnLength, name, len(values), s.Len())
	}
	if _, ok := s.columns[name]; !ok {
		s.order = append(s.order, name)
	}
	s.columns[name] = values
	return nil
}

// IndexOf returns the row holding exactly t.
func (s *Series) IndexOf(t time.Time) (int, bool) {
	i, ok := s.index[t.UnixNano()]
	return i, ok
}

// ValueAt returns the value of column at t, NaN when the row or value is absent.
func (s *Series) ValueAt(column string, t time.Time) float64 {
	values, ok := s.columns[column]
	if !ok {
		return math.NaN()
	}
	i, ok := s.IndexOf(t)
	if !ok {
		return math.NaN()
	}
	return values[i]
}
