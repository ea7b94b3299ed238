package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows ...[]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestCatalogImport_Workbook(t *testing.T) {
	e := newTestEnv(t)
	data := workbook(t,
		[]any{ColumnSKU, ColumnName, ColumnPrice, ColumnTaxRate, ColumnStock, ColumnSupplier},
		[]any{"FLT-25", "Sable filtrant 25 kg", 19.9, 20, 40, ""},
		[]any{"CHL-5KG", "Chlore lent 5 kg", "42,50", 0.2, 7, ""},
		[]any{"BAD-SUP", "Fournisseur inconnu", 10, 20, 1, "Inconnu SARL"},
	)
	require.True(t, IsWorkbook(data))

	result, err := e.sm.CatalogImportService.Import(e.ctx, bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 4, result.Errors[0].Line)
	assert.Equal(t, "BAD-SUP", result.Errors[0].SKU)

	sand := productBySKU(t, e.store, "FLT-25")
	assert.Equal(t, "19.9", sand.Price.String())
	assert.Equal(t, "0.2", sand.TaxRate.String())
	assert.Equal(t, 40, sand.Stock)

	chlore := productBySKU(t, e.store, "CHL-5KG")
	assert.Equal(t, e.owned.ID, chlore.ID)
	assert.Equal(t, "42.5", chlore.Price.String())
	assert.Equal(t, 7, chlore.Stock)
}

func TestCatalogImport_WorkbookMissingColumn(t *testing.T) {
	e := newTestEnv(t)
	data := workbook(t, []any{ColumnName, ColumnStock}, []any{"x", 1})

	_, err := e.sm.CatalogImportService.Import(e.ctx, bytes.NewReader(data))
	assert.ErrorContains(t, err, ColumnSKU)
}

func TestCatalogExportWorkbook(t *testing.T) {
	e := newTestEnv(t)

	var buf bytes.Buffer
	require.NoError(t, e.sm.CatalogImportService.ExportWorkbook(&buf))
	require.True(t, IsWorkbook(buf.Bytes()))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{catalogSheetName}, f.GetSheetList())
	rows, err := f.GetRows(catalogSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, CatalogColumns, rows[0])
	assert.Equal(t, []string{"PMP-1CV", "Pompe 1CV"}, rows[2][:2])
	assert.Equal(t, "PoolTech", rows[2][7])

	// The workbook reads back unchanged
	result, err := e.sm.CatalogImportService.Import(e.ctx, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Updated)
	assert.Empty(t, result.Errors)

	pump := productBySKU(t, e.store, "PMP-1CV")
	assert.Equal(t, "250", pump.Price.String())
	assert.Equal(t, "180", pump.PurchasePrice.String())
	assert.Equal(t, "0.2", pump.TaxRate.String())
	assert.Equal(t, e.other.Id, *pump.SupplierId)
}
