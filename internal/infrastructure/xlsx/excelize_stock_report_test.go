package xlsx_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/stock-tracker/internal/application/inventory"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/xlsx"
)

func TestExcelizeStockReport_Generate(t *testing.T) {
	listing := &inventory.StockListing{
		Items: []entity.Item{
			{ID: 1, Name: "Widget", Quantity: 10, Subtotal: decimal.RequireFromString("2.50")},
			{ID: 2, Name: "Gadget", Quantity: 3, Subtotal: decimal.RequireFromString("10")},
		},
		TotalValue:  decimal.RequireFromString("55"),
		GeneratedAt: time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC),
	}

	data, err := xlsx.NewExcelizeStockReport().Generate(context.Background(), listing)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{xlsx.SheetName}, f.GetSheetList())

	rows, err := f.GetRows(xlsx.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4, "encabezado + 2 ítems + total")
	assert.Equal(t, []string{"Item ID", "Item Name", "Quantity", "Unit Price", "Value"}, rows[0])
	assert.Equal(t, "Widget", rows[1][1])
	assert.Equal(t, "10", rows[1][2])
	assert.Equal(t, "Gadget", rows[2][1])

	raw, err := f.GetCellValue(xlsx.SheetName, "E4", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "55", raw)
	label, err := f.GetCellValue(xlsx.SheetName, "D4")
	require.NoError(t, err)
	assert.Equal(t, "Total", label)
}

func TestExcelizeStockReport_ListadoVacio(t *testing.T) {
	data, err := xlsx.NewExcelizeStockReport().Generate(context.Background(), inventory.EmptyListing(time.Now()))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(xlsx.SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestExcelizeStockReport_Nil(t *testing.T) {
	_, err := xlsx.NewExcelizeStockReport().Generate(context.Background(), nil)
	assert.Error(t, err)
}
