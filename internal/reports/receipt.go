package reports

import (
	"bytes"
	"fmt"

	"github.com/Ashhad1200/medical/internal/models"

	"github.com/xuri/excelize/v2"
)

const pharmacyName = "Medical Store"

// BuildReceipt renders an order as an XLSX receipt: header, itemized table,
// totals block, footer. Amounts are rounded to two decimals here, at the
// presentation edge.
func BuildReceipt(order *models.Order) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	sheet := "Sheet1"

	_ = f.SetColWidth(sheet, "A", "A", 32)
	_ = f.SetColWidth(sheet, "B", "F", 14)

	// header
	_ = f.SetCellValue(sheet, "A1", pharmacyName)
	_ = f.SetCellValue(sheet, "A2", fmt.Sprintf("Receipt %s", order.OrderNumber))
	_ = f.SetCellValue(sheet, "A3", order.OrderedAt.Format("2006-01-02 15:04"))
	_ = f.SetCellValue(sheet, "A4", fmt.Sprintf("Customer: %s", order.CustomerName))
	if order.CustomerPhone != "" {
		_ = f.SetCellValue(sheet, "B4", order.CustomerPhone)
	}
	_ = f.SetCellValue(sheet, "A5", fmt.Sprintf("Payment: %s", order.PaymentMethod))

	// item table
	row := 7
	headers := []string{"Item", "Qty", "Unit Price", "Discount", "GST", "Total"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for _, item := range order.Items {
		row++
		values := []interface{}{
			item.Name,
			item.Quantity,
			round2(item.UnitPrice),
			round2(item.DiscountAmount),
			round2(item.GSTAmount),
			round2(item.LineTotal),
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	// totals block
	row += 2
	totals := []struct {
		label string
		value float64
	}{
		{"Subtotal", order.Subtotal},
		{fmt.Sprintf("Tax (%.1f%%)", order.TaxPercent), order.TaxAmount},
		{"Discount", order.DiscountAmount},
		{"Grand Total", order.GrandTotal},
	}
	for _, t := range totals {
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), t.label)
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), round2(t.value))
		row++
	}

	// footer
	row++
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Thank you for your purchase. Keep this receipt for returns.")
	if order.CreatedBy != "" {
		row++
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("Served by %s", order.CreatedBy))
	}

	return f.WriteToBuffer()
}
