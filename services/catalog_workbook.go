package services

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"poolshop_server/lib"
)

const (
	WorkbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	catalogSheetName    = "Catalogue"
)

// .xlsx files are zip archives
var zipMagic = []byte("PK\x03\x04")

// IsWorkbook reports whether data looks like an .xlsx workbook.
func IsWorkbook(data []byte) bool {
	return bytes.HasPrefix(data, zipMagic)
}

// readWorkbookRows returns the rows of the first sheet. Cells are read raw so
// amounts do not depend on the number format of the author's locale.
func readWorkbookRows(data []byte) ([]sheetRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, lib.NewValidationError("file", fmt.Sprintf("unreadable workbook: %v", err))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, lib.NewValidationError("file", "workbook has no sheet")
	}
	records, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, lib.NewValidationError("file", fmt.Sprintf("unreadable sheet %q: %v", sheets[0], err))
	}

	rows := make([]sheetRow, 0, len(records))
	width := 0
	for i, record := range records {
		if len(rows) == 0 {
			if isBlank(record) {
				continue
			}
			width = len(record)
		}
		// The reader drops trailing empty cells; they are empty values
		for len(record) < width {
			record = append(record, "")
		}
		rows = append(rows, sheetRow{line: i + 1, record: record})
	}
	return rows, nil
}

// ExportWorkbook writes the catalog as an .xlsx workbook with the import
// column contract. Amounts and stock are numeric cells.
func (cs *CatalogImportService) ExportWorkbook(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), catalogSheetName); err != nil {
		return err
	}

	header := make([]any, len(CatalogColumns))
	for i, column := range CatalogColumns {
		header[i] = column
	}
	if err := f.SetSheetRow(catalogSheetName, "A1", &header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(catalogSheetName, 1, 1, bold); err != nil {
		return err
	}

	for i, e := range cs.catalogEntries() {
		p := e.product
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			p.SKU,
			p.Name,
			p.Price.InexactFloat64(),
			p.PurchasePrice.InexactFloat64(),
			p.TaxRate.Mul(hundred).InexactFloat64(),
			p.Stock,
			e.category,
			e.supplier,
			p.Description,
		}
		if err := f.SetSheetRow(catalogSheetName, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(catalogSheetName, "A", "I", 20); err != nil {
		return err
	}
	return f.Write(w)
}
