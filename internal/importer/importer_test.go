package importer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"invoicer/internal/domain"
	"invoicer/internal/importer"
	"invoicer/internal/mapper"
)

func TestDetectSourceType(t *testing.T) {
	st, err := importer.DetectSourceType("orders_export.CSV")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceTypeCSV, st)

	st, err = importer.DetectSourceType("orders.xlsx")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceTypeXLSX, st)

	_, err = importer.DetectSourceType("orders.pdf")
	assert.ErrorIs(t, err, domain.ErrUnsupportedSourceType)
}

func TestParse_CSV(t *testing.T) {
	input := "\ufeff Name , Billing Name,Lineitem name,Gift Note\n" +
		"#1001, Asha ,Ring,\n" +
		",,,\n" +
		"\n" +
		"#1001,,Chain\n"

	data, err := importer.Parse(strings.NewReader(input), domain.SourceTypeCSV)
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Billing Name", "Lineitem name", "Gift Note"}, data.Headers)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, "Asha", mapper.GetValue(data.Rows[0], "Billing Name"))
	assert.Equal(t, "#1001", mapper.GetValue(data.Rows[0], "Name"))
	assert.True(t, data.Rows[0]["Gift Note"].IsAbsent())
	assert.Equal(t, "Chain", mapper.GetValue(data.Rows[1], "Lineitem name"))
	assert.Equal(t, []string{"Gift Note"}, data.Metafields)
}

func TestParse_CSVQuotedFields(t *testing.T) {
	input := "Name,Billing Address1\n\"#1\",\"12, MG Road\"\n"

	data, err := importer.Parse(strings.NewReader(input), domain.SourceTypeCSV)
	require.NoError(t, err)
	assert.Equal(t, "12, MG Road", mapper.GetValue(data.Rows[0], "Billing Address1"))
}

func TestParse_NoDataRows(t *testing.T) {
	_, err := importer.Parse(strings.NewReader("Name,Total\n,\n"), domain.SourceTypeCSV)
	assert.ErrorIs(t, err, domain.ErrNoDataRows)

	_, err = importer.Parse(strings.NewReader(""), domain.SourceTypeCSV)
	assert.ErrorIs(t, err, domain.ErrNoDataRows)
}

func TestParse_DuplicateHeaderKeepsFirst(t *testing.T) {
	data, err := importer.Parse(strings.NewReader("Name,Name\n#1,#2\n"), domain.SourceTypeCSV)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name"}, data.Headers)
	assert.Equal(t, "#1", mapper.GetValue(data.Rows[0], "Name"))
}

func TestParse_UnsupportedType(t *testing.T) {
	_, err := importer.Parse(strings.NewReader("x"), domain.SourceType("pdf"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedSourceType)
}

func TestParse_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Order Number", "Billing Name", "Lineitem Quantity", "Total"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"5001", "Jane Doe", 2, 1030}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]interface{}{"5002", "John", 1, 99.5}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	data, err := importer.ParseBytes(buf.Bytes(), domain.SourceTypeXLSX)
	require.NoError(t, err)

	assert.Equal(t, []string{"Order Number", "Billing Name", "Lineitem Quantity", "Total"}, data.Headers)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, 2.0, mapper.GetNumericValue(data.Rows[0], "Lineitem Quantity"))
	assert.Equal(t, 1030.0, mapper.GetNumericValue(data.Rows[0], "Total"))
	assert.Equal(t, 99.5, mapper.GetNumericValue(data.Rows[1], "Total"))
}

func TestParse_MalformedXLSX(t *testing.T) {
	_, err := importer.ParseBytes([]byte("not a zip"), domain.SourceTypeXLSX)
	assert.ErrorIs(t, err, domain.ErrMalformedSource)
}
