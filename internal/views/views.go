// Package views turns a WHR table into figure descriptions. Builders are
// pure: they read the table and their parameters and return a new
// figure, so any number of them may run at once over one table.
package views

import (
	"fmt"
	"strconv"

	"whrlab/domain/core"
	"whrlab/domain/dataset"
	"whrlab/domain/figure"
	"whrlab/internal/analysis"
	apperrors "whrlab/internal/errors"
)

// Default column names for the long-format gap table
const (
	DefaultFacetColumn = "Socioeconomic variable"
	DefaultColorColumn = "Gap type"
	DefaultMeasure     = "Measure"
	DefaultGapColumn   = "Gap"
)

// DefaultScatterYear is the year the scatter view filters on
const DefaultScatterYear = 2022

func requireRows(t *dataset.Table, kind figure.Kind) error {
	if t == nil || t.Len() == 0 {
		return apperrors.EmptyInput(fmt.Sprintf("%s view needs at least one row", kind))
	}
	return nil
}

// completeRows keeps the rows where none of columns is missing
func completeRows(t *dataset.Table, kind figure.Kind, columns ...string) (*dataset.Table, error) {
	cols := make([]dataset.Column, len(columns))
	for i, name := range columns {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}

	kept := t.Filter(func(row int) bool {
		for _, col := range cols {
			if col.IsMissing(row) {
				return false
			}
		}
		return true
	})
	if kept.Len() == 0 {
		return nil, apperrors.InsufficientData(fmt.Sprintf("%s view: no row has values for all of %q", kind, columns))
	}
	return kept, nil
}

// figureID names a figure by its kind, its input and its parameters
func figureID(kind figure.Kind, t *dataset.Table, params ...string) core.FigureID {
	parts := append([]string{string(kind), string(t.Fingerprint())}, params...)
	return core.FigureID(core.NewNameID(parts...))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func bandwidthOrDefault(factor float64) float64 {
	if factor == 0 {
		return analysis.DefaultBandwidthFactor
	}
	return factor
}

// densityLayer samples the KDE of a numeric column as a line layer
func densityLayer(t *dataset.Table, column, series string, factor float64) (figure.Layer, error) {
	values, err := analysis.NumericValues(t, column)
	if err != nil {
		return figure.Layer{}, err
	}
	xs, density, err := analysis.KDEEstimate(values, factor)
	if err != nil {
		return figure.Layer{}, apperrors.Wrapf(err, "density of %q", column)
	}
	return figure.Layer{Mark: figure.MarkLine, Series: series, X: xs, Y: density}, nil
}

// groups partitions rows by the formatted value of a column. Keys come
// back in first-appearance order, except bool columns which always give
// false before true.
func groups(col dataset.Column, rows int) ([]string, map[string][]int) {
	var values []string
	if col.Type() == dataset.TypeString {
		values = col.Strings()
	}
	index := make(map[string][]int)
	var order []string
	for i := 0; i < rows; i++ {
		var key string
		if values != nil {
			key = values[i]
		} else {
			key = col.Format(i)
		}
		if _, ok := index[key]; !ok {
			order = append(order, key)
		}
		index[key] = append(index[key], i)
	}
	if col.Type() == dataset.TypeBool {
		order = order[:0]
		for _, key := range []string{"false", "true"} {
			if _, ok := index[key]; ok {
				order = append(order, key)
			}
		}
	}
	return order, index
}
