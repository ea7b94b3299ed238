package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"poolshop_server/lib"
	"poolshop_server/store"
	"poolshop_server/structs"
	"poolshop_server/structs/tables"
)

// Spreadsheet column contract, shared by import and export.
const (
	ColumnSKU           = "Référence produit (SKU)"
	ColumnName          = "Nom du produit"
	ColumnPrice         = "Prix public conseillé"
	ColumnPurchasePrice = "Prix d'achat"
	ColumnTaxRate       = "Taux de TVA"
	ColumnStock         = "Stock"
	ColumnCategory      = "Catégorie"
	ColumnSupplier      = "Fournisseur"
	ColumnDescription   = "Description"
)

var CatalogColumns = []string{
	ColumnSKU, ColumnName, ColumnPrice, ColumnPurchasePrice, ColumnTaxRate,
	ColumnStock, ColumnCategory, ColumnSupplier, ColumnDescription,
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

const defaultTaxRate = "0.20"

var hundred = decimal.NewFromInt(100)

// RowError reports a spreadsheet row that was skipped.
type RowError struct {
	Line    int    `json:"line"`
	SKU     string `json:"sku,omitempty"`
	Message string `json:"message"`
}

type ImportResult struct {
	Created  int           `json:"created"`
	Updated  int           `json:"updated"`
	Skipped  int           `json:"skipped"`
	Errors   []RowError    `json:"errors"`
	Duration time.Duration `json:"duration"`
}

type CatalogImportService struct {
	logger    *gecho.Logger
	store     *store.Store
	suppliers *SupplierService
}

func NewCatalogImportService(logger *gecho.Logger, st *store.Store, suppliers *SupplierService) *CatalogImportService {
	return &CatalogImportService{
		logger:    logger,
		store:     st,
		suppliers: suppliers,
	}
}

// Import reads a spreadsheet and upserts its products by SKU. Both .xlsx
// workbooks (first sheet) and CSV files (";" or "," separated, optional BOM)
// are accepted; the format is sniffed from the content. Invalid rows are
// reported and skipped.
func (cs *CatalogImportService) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	startTime := time.Now()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var rows []sheetRow
	if IsWorkbook(data) {
		rows, err = readWorkbookRows(data)
	} else {
		rows, err = readCSVRows(data)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, lib.NewValidationError("file", "is empty")
	}

	header := rows[0]
	if header.err != nil {
		return nil, lib.NewValidationError("file", fmt.Sprintf("unreadable header: %v", header.err))
	}
	columns := mapColumns(header.record)
	if _, ok := columns[ColumnSKU]; !ok {
		return nil, lib.NewValidationError("file", fmt.Sprintf("missing column %q", ColumnSKU))
	}
	if _, ok := columns[ColumnName]; !ok {
		return nil, lib.NewValidationError("file", fmt.Sprintf("missing column %q", ColumnName))
	}

	result := &ImportResult{Errors: []RowError{}}
	for _, sr := range rows[1:] {
		if sr.err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, RowError{Line: sr.line, Message: sr.err.Error()})
			continue
		}
		if isBlank(sr.record) {
			continue
		}

		row := catalogRow{record: sr.record, columns: columns}
		created, err := cs.importRow(ctx, row)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, RowError{Line: sr.line, SKU: row.get(ColumnSKU), Message: err.Error()})
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}
	result.Duration = time.Since(startTime)

	cs.logger.Info("Catalog imported",
		gecho.Field("created", result.Created),
		gecho.Field("updated", result.Updated),
		gecho.Field("skipped", result.Skipped),
		gecho.Field("duration", result.Duration))
	return result, nil
}

// sheetRow is one spreadsheet line; err is set when the line could not be parsed.
type sheetRow struct {
	line   int
	record []string
	err    error
}

func readCSVRows(data []byte) ([]sheetRow, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, lib.NewValidationError("file", "is empty")
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows := make([]sheetRow, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			line := 0
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.Line
			}
			rows = append(rows, sheetRow{line: line, err: err})
			continue
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, sheetRow{line: line, record: record})
	}
}

func (cs *CatalogImportService) importRow(ctx context.Context, row catalogRow) (bool, error) {
	sku := row.get(ColumnSKU)
	name := row.get(ColumnName)
	if sku == "" {
		return false, fmt.Errorf("%s is required", ColumnSKU)
	}
	if name == "" {
		return false, fmt.Errorf("%s is required", ColumnName)
	}

	product := &tables.Product{IsActive: true, TaxRate: decimal.RequireFromString(defaultTaxRate)}
	cs.store.Read(func(st *store.State) {
		if existing, ok := st.ProductBySKU(sku); ok {
			product = existing.Clone()
		}
	})
	product.SKU = sku
	product.Name = name

	// Columns absent from the file keep the current value
	if v, ok := row.lookup(ColumnPrice); ok {
		price, err := parseAmount(v)
		if err != nil {
			return false, fmt.Errorf("%s: %w", ColumnPrice, err)
		}
		product.Price = price
	}
	if v, ok := row.lookup(ColumnPurchasePrice); ok {
		purchasePrice, err := parseAmount(v)
		if err != nil {
			return false, fmt.Errorf("%s: %w", ColumnPurchasePrice, err)
		}
		product.PurchasePrice = purchasePrice
	}
	if v, ok := row.lookup(ColumnTaxRate); ok {
		taxRate, err := parseTaxRate(v)
		if err != nil {
			return false, fmt.Errorf("%s: %w", ColumnTaxRate, err)
		}
		product.TaxRate = taxRate
	}
	if v, ok := row.lookup(ColumnStock); ok {
		stock, err := parseStock(v)
		if err != nil {
			return false, fmt.Errorf("%s: %w", ColumnStock, err)
		}
		product.Stock = stock
	}
	if v, ok := row.lookup(ColumnSupplier); ok {
		product.SupplierId = nil
		if v != "" {
			supplier, found := cs.suppliers.FindByName(v)
			if !found {
				return false, fmt.Errorf("%s %q: %w", ColumnSupplier, v, lib.ErrUnknownSupplier)
			}
			product.SupplierId = &supplier.Id
		}
	}
	if v, ok := row.lookup(ColumnDescription); ok {
		product.Description = v
	}

	req := &structs.ProductRequest{SKU: product.SKU, Name: product.Name, Price: product.Price,
		PurchasePrice: product.PurchasePrice, TaxRate: product.TaxRate, Stock: product.Stock}
	if err := validateProduct(req); err != nil {
		return false, err
	}

	// Categories are created last so a rejected row leaves none behind
	if v := row.get(ColumnCategory); v != "" {
		id, err := cs.ensureCategory(ctx, v)
		if err != nil {
			return false, err
		}
		product.CategoryId = &id
	}

	action := &store.UpsertProduct{Product: product}
	if err := cs.store.Dispatch(ctx, action); err != nil {
		return false, err
	}
	return action.Created, nil
}

// ensureCategory finds a category by name or creates it at the root.
func (cs *CatalogImportService) ensureCategory(ctx context.Context, name string) (uuid.UUID, error) {
	name = strings.TrimSpace(name)
	var id uuid.UUID
	cs.store.Read(func(st *store.State) {
		for _, c := range st.Categories {
			if strings.EqualFold(c.Name, name) {
				id = c.Id
				return
			}
		}
	})
	if id != uuid.Nil {
		return id, nil
	}

	action := &store.UpsertCategory{Category: &tables.Category{Name: name}}
	if err := cs.store.Dispatch(ctx, action); err != nil {
		return uuid.Nil, err
	}
	return action.Result.Id, nil
}

// catalogEntry is a product with its category and supplier resolved to names.
type catalogEntry struct {
	product  *tables.Product
	category string
	supplier string
}

func (cs *CatalogImportService) catalogEntries() []catalogEntry {
	products := store.From(cs.store.Products()).
		OrderBy(func(a, b *tables.Product) int { return strings.Compare(a.SKU, b.SKU) }, store.ASC).
		All()

	categoryNames := make(map[uuid.UUID]string)
	supplierNames := make(map[uuid.UUID]string)
	cs.store.Read(func(st *store.State) {
		for id, c := range st.Categories {
			categoryNames[id] = c.Name
		}
		for id, s := range st.Suppliers {
			supplierNames[id] = s.Name
		}
	})

	entries := make([]catalogEntry, 0, len(products))
	for _, p := range products {
		entry := catalogEntry{product: p}
		if p.CategoryId != nil {
			entry.category = categoryNames[*p.CategoryId]
		}
		if p.SupplierId != nil {
			entry.supplier = supplierNames[*p.SupplierId]
		}
		entries = append(entries, entry)
	}
	return entries
}

// Export writes the catalog with the import column contract, ";" separated
// with a BOM so spreadsheet software opens it as UTF-8.
func (cs *CatalogImportService) Export(w io.Writer) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	writer.Comma = ';'
	if err := writer.Write(CatalogColumns); err != nil {
		return err
	}

	for _, e := range cs.catalogEntries() {
		p := e.product
		record := []string{
			p.SKU,
			p.Name,
			formatAmount(p.Price),
			formatAmount(p.PurchasePrice),
			strings.Replace(p.TaxRate.Mul(hundred).String(), ".", ",", 1),
			strconv.Itoa(p.Stock),
			e.category,
			e.supplier,
			p.Description,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

type catalogRow struct {
	record  []string
	columns map[string]int
}

func (r catalogRow) lookup(column string) (string, bool) {
	i, ok := r.columns[column]
	if !ok || i >= len(r.record) {
		return "", false
	}
	return strings.TrimSpace(r.record[i]), true
}

func (r catalogRow) get(column string) string {
	v, _ := r.lookup(column)
	return v
}

// mapColumns matches header cells to the known columns, ignoring case and
// surrounding spaces.
func mapColumns(header []string) map[string]int {
	columns := make(map[string]int)
	for i, cell := range header {
		cell = strings.TrimSpace(cell)
		for _, known := range CatalogColumns {
			if strings.EqualFold(cell, known) {
				if _, dup := columns[known]; !dup {
					columns[known] = i
				}
			}
		}
	}
	return columns
}

// detectDelimiter picks ";" or "," from the header line.
func detectDelimiter(data []byte) rune {
	firstLine, _, _ := bytes.Cut(data, []byte("\n"))
	if bytes.Count(firstLine, []byte(";")) >= bytes.Count(firstLine, []byte(",")) && bytes.Contains(firstLine, []byte(";")) {
		return ';'
	}
	return ','
}

func isBlank(record []string) bool {
	return !slices.ContainsFunc(record, func(s string) bool { return strings.TrimSpace(s) != "" })
}

var amountReplacer = strings.NewReplacer("€", "", "%", "", " ", "", "\u00a0", "", "\u202f", "")

// parseAmount accepts "12,50", "12.50", "1 234,50 €", "1.234,50" and
// "1,234.50": with both separators the last one is the decimal mark.
// Empty means zero.
func parseAmount(s string) (decimal.Decimal, error) {
	s = amountReplacer.Replace(strings.TrimSpace(s))
	if s == "" {
		return decimal.Zero, nil
	}
	switch comma, dot := strings.LastIndex(s, ","), strings.LastIndex(s, "."); {
	case comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("must be greater than or equal to 0")
	}
	return d, nil
}

// parseTaxRate accepts a fraction (0,2) or a percentage (20, 20 %, 5,5).
// Empty means the standard French rate.
func parseTaxRate(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.RequireFromString(defaultTaxRate), nil
	}
	d, err := parseAmount(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.GreaterThan(decimal.NewFromInt(1)) {
		d = d.Div(hundred)
	}
	if d.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("must be between 0 and 100 %%")
	}
	return d, nil
}

func parseStock(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("must be greater than or equal to 0")
	}
	return n, nil
}

func formatAmount(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}
