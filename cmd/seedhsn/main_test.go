package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicer/internal/domain"
	"invoicer/internal/importer"
)

func TestParseRate(t *testing.T) {
	tests := []struct {
		in   string
		want []float64
	}{
		{"18%", []float64{18}},
		{"Exempt", []float64{0}},
		{"12%-18%", []float64{12, 18}},
		{"1% (without ITC) or 5% (without ITC)", []float64{1, 5}},
		{"0.25", []float64{0.25}},
		{"", nil},
		{"n/a", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseRate(tt.in))
		})
	}
}

func TestCollectEntries(t *testing.T) {
	input := "HSN Code,Description,GST Rate\n" +
		"7113,Articles of jewellery,3%\n" +
		"7113 19,Gold jewellery,3%\n" +
		"7113,Articles of jewellery,3%\n" +
		"Chapter 71,,\n"
	data, err := importer.Parse(strings.NewReader(input), domain.SourceTypeCSV)
	require.NoError(t, err)

	entries, err := collectEntries(data)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "711319", entries[1].code)
	assert.Equal(t, "7113", entries[1].parentCode)
	assert.Equal(t, "", entries[0].parentCode)

	var b strings.Builder
	require.NoError(t, writeSeed(&b, entries))
	assert.Contains(t, b.String(), "('711319', 'Gold jewellery', 3.00, '7113', '2017-07-01')")
}

func TestCollectEntries_MissingColumns(t *testing.T) {
	data, err := importer.Parse(strings.NewReader("Item,Price\nRing,10\n"), domain.SourceTypeCSV)
	require.NoError(t, err)
	_, err = collectEntries(data)
	assert.Error(t, err)
}
