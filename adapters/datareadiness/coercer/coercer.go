package coercer

import (
	"math"
	"strconv"
	"strings"

	"whrlab/domain/dataset"
)

// TypeCoercer sniffs column types from raw cell text and converts cells
// into typed column values
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the coercion thresholds and rules
type CoercionConfig struct {
	NumericThreshold float64  `json:"numeric_threshold"` // share of non-missing cells that must parse as numbers
	MissingTokens    []string `json:"missing_tokens"`    // cell texts treated as missing in numeric columns
}

// DefaultCoercionConfig returns the rules used by the loader: a column
// is numeric only if every non-missing cell parses.
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericThreshold: 1.0,
		MissingTokens:    []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL"},
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{config: config}
}

// TypeAnalysis contains the results of type distribution analysis
type TypeAnalysis struct {
	TotalCount      int                `json:"total_count"`
	ValidCount      int                `json:"valid_count"`
	NumericCount    int                `json:"numeric_count"`
	IntegerCount    int                `json:"integer_count"`
	NumericRatio    float64            `json:"numeric_ratio"`
	RecommendedType dataset.ColumnType `json:"recommended_type"`
}

// AnalyzeTypeDistribution counts how many cells parse as each type and
// picks the column type
func (c *TypeCoercer) AnalyzeTypeDistribution(cells []string) TypeAnalysis {
	analysis := TypeAnalysis{TotalCount: len(cells)}

	for _, cell := range cells {
		if c.IsMissing(cell) {
			continue
		}
		analysis.ValidCount++
		if v, ok := c.ParseNumeric(cell); ok {
			analysis.NumericCount++
			if v == math.Trunc(v) && !strings.ContainsAny(cell, ".eE") {
				analysis.IntegerCount++
			}
		}
	}

	if analysis.ValidCount > 0 {
		analysis.NumericRatio = float64(analysis.NumericCount) / float64(analysis.ValidCount)
	}
	analysis.RecommendedType = c.determineRecommendedType(analysis)
	return analysis
}

// SniffColumn returns the column type the cells should be stored as
func (c *TypeCoercer) SniffColumn(cells []string) dataset.ColumnType {
	return c.AnalyzeTypeDistribution(cells).RecommendedType
}

// BuildColumn sniffs the cells and converts them into a typed column.
// Cells that do not parse in a numeric column become missing. String
// columns keep the cell text exactly as read, so a code such as "NA"
// survives; only an empty cell is missing there.
func (c *TypeCoercer) BuildColumn(name string, cells []string) dataset.Column {
	typ := c.SniffColumn(cells)
	if !typ.IsNumeric() {
		return dataset.NewStringColumn(name, cells)
	}

	values := make([]float64, len(cells))
	for i, cell := range cells {
		if v, ok := c.ParseNumeric(cell); ok && !c.IsMissing(cell) {
			values[i] = v
		} else {
			values[i] = math.NaN()
		}
	}
	if typ == dataset.TypeInt {
		return dataset.NewIntColumn(name, values)
	}
	return dataset.NewFloatColumn(name, values)
}

// IsMissing reports whether the cell holds a missing-value token
func (c *TypeCoercer) IsMissing(cell string) bool {
	trimmed := strings.TrimSpace(cell)
	for _, token := range c.config.MissingTokens {
		if trimmed == token {
			return true
		}
	}
	return false
}

// ParseNumeric parses a cell as a finite float
func (c *TypeCoercer) ParseNumeric(cell string) (float64, bool) {
	cleanVal := strings.TrimSpace(cell)
	if cleanVal == "" {
		return 0, false
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil {
		return 0, false
	}
	if math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

// determineRecommendedType chooses the column type from the analysis
func (c *TypeCoercer) determineRecommendedType(analysis TypeAnalysis) dataset.ColumnType {
	if analysis.ValidCount == 0 {
		return dataset.TypeString
	}
	if analysis.NumericRatio >= c.config.NumericThreshold {
		if analysis.IntegerCount == analysis.ValidCount {
			return dataset.TypeInt
		}
		return dataset.TypeFloat
	}
	return dataset.TypeString
}
