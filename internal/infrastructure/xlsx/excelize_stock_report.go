// Package xlsx exporta el listado valorizado de inventario a Excel.
package xlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/stock-tracker/internal/application/inventory"
)

// SheetName hoja donde se escribe el listado.
const SheetName = "Stock"

var headers = []string{"Item ID", "Item Name", "Quantity", "Unit Price", "Value"}

// ExcelizeStockReport implementa inventory.StockReportGenerator con excelize.
type ExcelizeStockReport struct{}

var _ inventory.StockReportGenerator = (*ExcelizeStockReport)(nil)

// NewExcelizeStockReport construye el generador.
func NewExcelizeStockReport() *ExcelizeStockReport { return &ExcelizeStockReport{} }

// Generate escribe una fila por ítem y una fila final con el valor total.
func (g *ExcelizeStockReport) Generate(ctx context.Context, listing *inventory.StockListing) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, fmt.Errorf("xlsx: listado nil")
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("xlsx: crear hoja: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("xlsx: borrar hoja por defecto: %w", err)
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	// 4 = "#,##0.00"
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4, Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	// Encabezados
	if err := f.SetSheetRow(SheetName, "A1", &headers); err != nil {
		return nil, fmt.Errorf("xlsx: encabezados: %w", err)
	}
	_ = f.SetCellStyle(SheetName, "A1", "E1", boldStyle)

	// Datos
	for i, it := range listing.Items {
		r := i + 2
		cells := []interface{}{
			it.ID,
			it.Name,
			it.Quantity,
			it.Subtotal.InexactFloat64(),
			it.Value().InexactFloat64(),
		}
		if err := f.SetSheetRow(SheetName, fmt.Sprintf("A%d", r), &cells); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", r, err)
		}
		_ = f.SetCellStyle(SheetName, fmt.Sprintf("D%d", r), fmt.Sprintf("E%d", r), moneyStyle)
	}

	// Total
	totalRow := len(listing.Items) + 2
	_ = f.SetCellValue(SheetName, fmt.Sprintf("D%d", totalRow), "Total")
	_ = f.SetCellValue(SheetName, fmt.Sprintf("E%d", totalRow), listing.TotalValue.InexactFloat64())
	_ = f.SetCellStyle(SheetName, fmt.Sprintf("D%d", totalRow), fmt.Sprintf("D%d", totalRow), boldStyle)
	_ = f.SetCellStyle(SheetName, fmt.Sprintf("E%d", totalRow), fmt.Sprintf("E%d", totalRow), totalStyle)

	// Anchos de columna
	_ = f.SetColWidth(SheetName, "A", "A", 10)
	_ = f.SetColWidth(SheetName, "B", "B", 30)
	_ = f.SetColWidth(SheetName, "C", "E", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
