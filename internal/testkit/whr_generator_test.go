package testkit

import (
	"testing"

	"whrlab/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWHRDataGenerator_Basic(t *testing.T) {
	config := WHRGeneratorConfig{
		CountryCount: 10,
		StartYear:    2020,
		EndYear:      2022,
		MissingRate:  0,
		Seed:         42,
	}

	table, err := NewWHRDataGenerator(config).GenerateTable()
	require.NoError(t, err)

	assert.Equal(t, 30, table.Len())
	require.NoError(t, table.Require(dataset.WHRRequiredColumns...))

	years, err := table.NumericColumn(dataset.ColumnYear)
	require.NoError(t, err)
	for i, y := range years.Floats() {
		assert.GreaterOrEqual(t, y, 2020.0, "row %d", i)
		assert.LessOrEqual(t, y, 2022.0, "row %d", i)
	}

	ladder, err := table.NumericColumn(dataset.ColumnLifeLadder)
	require.NoError(t, err)
	for i := 0; i < ladder.Len(); i++ {
		assert.False(t, ladder.IsMissing(i), "life ladder is never missing")
	}
}

func TestWHRDataGenerator_Deterministic(t *testing.T) {
	config := DefaultWHRConfig()

	first, err := NewWHRDataGenerator(config).GenerateTable()
	require.NoError(t, err)
	second, err := NewWHRDataGenerator(config).GenerateTable()
	require.NoError(t, err)

	assert.Equal(t, first.Fingerprint(), second.Fingerprint())

	config.Seed = 7
	other, err := NewWHRDataGenerator(config).GenerateTable()
	require.NoError(t, err)
	assert.NotEqual(t, first.Fingerprint(), other.Fingerprint())
}

func TestWHRDataGenerator_MissingRate(t *testing.T) {
	config := DefaultWHRConfig()
	config.MissingRate = 0.5

	table, err := NewWHRDataGenerator(config).GenerateTable()
	require.NoError(t, err)

	gdp, err := table.NumericColumn(dataset.ColumnLogGDP)
	require.NoError(t, err)
	missing := 0
	for i := 0; i < gdp.Len(); i++ {
		if gdp.IsMissing(i) {
			missing++
		}
	}
	assert.Greater(t, missing, 0)
	assert.Less(t, missing, gdp.Len())
}

func TestWHRDataGenerator_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config WHRGeneratorConfig
	}{
		{"no countries", WHRGeneratorConfig{CountryCount: 0, StartYear: 2020, EndYear: 2022}},
		{"reversed years", WHRGeneratorConfig{CountryCount: 3, StartYear: 2022, EndYear: 2020}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWHRDataGenerator(tt.config).GenerateTable()
			assert.Error(t, err)
		})
	}
}

func TestGenerateGapTable(t *testing.T) {
	table, err := NewWHRDataGenerator(DefaultWHRConfig()).GenerateGapTable()
	require.NoError(t, err)

	assert.Equal(t, 24, table.Len())
	assert.Equal(t, []string{"Socioeconomic variable", "Gap type", "Measure", "Gap"}, table.Columns())
}
