package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"bloomadmin/internal/dashboard"
	"bloomadmin/internal/domain"
	"bloomadmin/internal/export"
	"bloomadmin/internal/listview"
)

var generated = time.Date(2025, time.October, 1, 14, 5, 9, 0, time.UTC)

func flowers() []domain.Product {
	mk := func(id int64, name, cat, price string, stock int) domain.Product {
		return domain.Product{ID: id, Name: name, Category: cat, Price: decimal.RequireFromString(price), Stock: stock}
	}
	return []domain.Product{
		mk(1, "Red Roses", "Roses", "1234.5", 5),
		mk(2, "Sunflower", "Seasonal", "300", 40),
		mk(3, "White Roses", "Roses", "899", 0),
		mk(4, "Tulip Box", "Tulips", "1500", 12),
		mk(5, "Pink Roses", "Roses", "950", 25),
	}
}

var productSpec = listview.Spec[domain.Product]{
	Filter: func(p domain.Product) string { return p.Category },
	Sorts: map[string]func(a, b domain.Product) int{
		"stock": func(a, b domain.Product) int { return a.Stock - b.Stock },
	},
	Search: func(p domain.Product) []string { return []string{p.Name} },
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "products_report_20251001_140509.xlsx", export.Filename("Products", export.XLSX, generated))
	assert.Equal(t, "sales_report_20251001_140509.pdf", export.Filename("sales", export.PDF, generated))
}

func TestSpreadsheetHoldsFilteredRowsOfAllPages(t *testing.T) {
	rows := listview.Rows(flowers(), productSpec, listview.Query{Filter: "Roses", Sort: "stock-desc", Page: 2, PageSize: 1})
	require.Len(t, rows, 3)

	b, err := export.Spreadsheet(export.ProductTable(rows, generated))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(0)
	assert.Equal(t, "Products Report", sheet)
	got, err := f.GetRows(sheet)
	require.NoError(t, err)

	// title, blank, header, 3 data rows
	require.Len(t, got, 6)
	assert.Equal(t, []string{"Name", "Category", "Price", "Stock"}, got[2])
	assert.Equal(t, "Pink Roses", got[3][0])
	assert.Equal(t, "PHP 1,234.50", got[4][2])
	assert.Equal(t, "0", got[5][3])
}

func TestDocumentRepeatsHeaderAcrossPages(t *testing.T) {
	var many []domain.Product
	for i := 0; i < 120; i++ {
		many = append(many, flowers()...)
	}
	b, err := export.Document(export.InventoryTable(many, generated))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF-")))
	assert.Greater(t, bytes.Count(b, []byte("/Type /Page\n")), 1)
}

func TestEmptyTablesStillRender(t *testing.T) {
	for _, format := range []string{export.XLSX, export.PDF} {
		b, err := export.Render(export.UserTable(nil, generated), format)
		require.NoError(t, err, format)
		assert.NotEmpty(t, b)
	}
	_, err := export.Render(export.Table{}, "csv")
	assert.Error(t, err)
}

func TestOrderAndUserTables(t *testing.T) {
	orders := []domain.Order{{
		ID: 1, UserName: "Ana", PaymentMode: "COD", Status: domain.StatusDelivered, Total: decimal.NewFromInt(1500),
		Items: []domain.LineItem{{ProductName: "Roses", Quantity: 2}, {ProductName: "Lilies", Quantity: 1}},
	}}
	ot := export.OrderTable(orders, generated)
	require.Len(t, ot.Rows, 1)
	assert.Equal(t, []any{"Ana", "Roses, Lilies", 3, "PHP 1,500.00", "COD", "-", "Delivered"}, ot.Rows[0])

	users := []domain.User{
		{Name: "Root", Email: "root@shop.test", ContactNumber: "0917", Role: domain.RoleAdmin},
		{Name: "Ana", Email: "ana@shop.test", ContactNumber: "0918", Role: domain.RoleCustomer},
	}
	ut := export.UserTable(users, generated)
	assert.Equal(t, "-", ut.Rows[0][2])
	assert.Equal(t, "0918", ut.Rows[1][2])
}

func TestSalesTable(t *testing.T) {
	sales := []dashboard.CategorySales{
		{Category: "Bouquet", Total: decimal.RequireFromString("1000")},
		{Category: "Stem", Total: decimal.RequireFromString("250.5")},
	}
	st := dashboard.Stats{Month: "October", MostSold: "Tulips"}
	tb := export.SalesTable(sales, st, "current", generated)
	assert.Equal(t, "Revenue for October 2025: PHP 1,250.50", tb.Subtitle[0])
	assert.Equal(t, []any{"Stem", "PHP 250.50"}, tb.Rows[1])

	b, err := export.Spreadsheet(tb)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Sales Report", "A2")
	require.NoError(t, err)
	assert.Equal(t, tb.Subtitle[0], v)
}
