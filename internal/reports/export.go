package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"

	"github.com/Ashhad1200/medical/internal/models"

	"github.com/xuri/excelize/v2"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

var salesHeader = []string{
	"Order No", "Date", "Customer", "Payment", "Items",
	"Subtotal", "Tax", "Discount", "Grand Total", "Profit", "Sold By",
}

func salesRow(o *models.Order) []interface{} {
	itemCount := 0
	for _, item := range o.Items {
		itemCount += item.Quantity
	}
	return []interface{}{
		o.OrderNumber,
		o.OrderedAt.Format("2006-01-02 15:04"),
		o.CustomerName,
		string(o.PaymentMethod),
		itemCount,
		round2(o.Subtotal),
		round2(o.TaxAmount),
		round2(o.DiscountAmount),
		round2(o.GrandTotal),
		round2(o.TotalProfit),
		o.CreatedBy,
	}
}

// BuildSalesXLSX renders the given orders as a spreadsheet with a totals row.
func BuildSalesXLSX(orders []models.Order) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	sheet := "Sheet1"

	_ = f.SetColWidth(sheet, "A", "B", 20)
	_ = f.SetColWidth(sheet, "C", "K", 14)

	for i, h := range salesHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	var totalRevenue, totalProfit float64
	for rowIdx, o := range orders {
		for colIdx, v := range salesRow(&o) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
		totalRevenue += o.GrandTotal
		totalProfit += o.TotalProfit
	}

	totalsRow := len(orders) + 3
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", totalsRow), fmt.Sprintf("%d orders", len(orders)))
	_ = f.SetCellValue(sheet, fmt.Sprintf("I%d", totalsRow), round2(totalRevenue))
	_ = f.SetCellValue(sheet, fmt.Sprintf("J%d", totalsRow), round2(totalProfit))

	return f.WriteToBuffer()
}

// BuildSalesCSV renders the given orders as CSV with the same columns.
func BuildSalesCSV(orders []models.Order) (*bytes.Buffer, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	if err := w.Write(salesHeader); err != nil {
		return nil, err
	}
	for _, o := range orders {
		record := make([]string, 0, len(salesHeader))
		for _, v := range salesRow(&o) {
			switch t := v.(type) {
			case string:
				record = append(record, t)
			case int:
				record = append(record, strconv.Itoa(t))
			case float64:
				record = append(record, strconv.FormatFloat(t, 'f', 2, 64))
			default:
				record = append(record, fmt.Sprint(t))
			}
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf, nil
}
