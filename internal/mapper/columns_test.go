package mapper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"invoicer/internal/mapper"
)

func TestResolve(t *testing.T) {
	headers := []string{"Billing Name", "Lineitem quantity", "Quantity Shipped", "Lineitem price"}

	tests := []struct {
		name     string
		patterns []string
		want     string
		found    bool
	}{
		{"case insensitive substring", []string{"billing name"}, "Billing Name", true},
		{"first pattern wins", []string{"price", "quantity"}, "Lineitem price", true},
		{"first header in document order wins", []string{"quantity"}, "Lineitem quantity", true},
		{"later pattern used when earlier has no match", []string{"sku", "quantity shipped"}, "Quantity Shipped", true},
		{"no match", []string{"gstin"}, "", false},
		{"no patterns", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := mapper.Resolve(headers, tt.patterns)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_EmptyHeaders(t *testing.T) {
	got, ok := mapper.Resolve(nil, []string{"name"})
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestField_ExactAliasBeforeSubstring(t *testing.T) {
	headers := []string{"Billing Name", "Name", "Subtotal", "Total"}

	col, ok := mapper.FieldOrderNumber.Lookup(headers)
	assert.True(t, ok)
	assert.Equal(t, "Name", col)

	col, ok = mapper.FieldTotal.Lookup(headers)
	assert.True(t, ok)
	assert.Equal(t, "Total", col)
}

func TestField_SubstringDoesNotPickUnrelatedHeaders(t *testing.T) {
	headers := []string{"Billing Name", "Subtotal"}

	_, ok := mapper.FieldOrderNumber.Lookup(headers)
	assert.False(t, ok)

	_, ok = mapper.FieldTotal.Lookup(headers)
	assert.False(t, ok)
}

func TestField_AmountColumnsSkipRateHeaders(t *testing.T) {
	headers := []string{"CGST Rate", "CGST Amount", "Total CGST"}

	col, ok := mapper.FieldCGST.Lookup(headers)
	assert.True(t, ok)
	assert.Equal(t, "CGST Amount", col)

	col, ok = mapper.FieldTotalCGST.Lookup(headers)
	assert.True(t, ok)
	assert.Equal(t, "Total CGST", col)

	_, ok = mapper.FieldCGST.Lookup([]string{"CGST Rate"})
	assert.False(t, ok)
}

func TestDetectMetafields(t *testing.T) {
	headers := []string{"Name", "Billing Name", "Lineitem name", "Gift Message", "Engraving Text"}
	assert.Equal(t, []string{"Gift Message", "Engraving Text"}, mapper.DetectMetafields(headers))
}

func TestStandardFields_HaveUniqueNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, f := range mapper.StandardFields {
		assert.NotEmpty(t, f.Name)
		assert.False(t, seen[f.Name], "duplicate field %s", f.Name)
		seen[f.Name] = true
		assert.True(t, len(f.Exact)+len(f.Patterns) > 0, "field %s has no aliases", f.Name)
	}
}
