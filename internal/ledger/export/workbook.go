// Package export renders ledger entries as xlsx workbooks.
package export

import (
	"fmt"

	"github.com/aussiebroadwan/moneymanager/internal/ledger/domain"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the produced workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var header = []any{"S.No", "Name", "Category", "Amount", "Date"}

// SheetName is the single sheet of a workbook for kind: "Incomes" or "Expenses".
func SheetName(kind domain.Kind) string {
	switch kind {
	case domain.KindIncome:
		return "Incomes"
	default:
		return "Expenses"
	}
}

// FileName is the attachment name for kind, e.g. "income.xlsx".
func FileName(kind domain.Kind) string {
	return kind.String() + ".xlsx"
}

// Workbook writes txs as one sheet, a header row followed by one row per
// entry in the given order.
func Workbook(kind domain.Kind, txs []domain.Transaction) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := SheetName(kind)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", "E1", bold); err != nil {
		return nil, err
	}

	for i, t := range txs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}

		category := t.CategoryName
		if category == "" {
			category = "N/A"
		}

		row := []any{i + 1, t.Name, category, nil, t.Date.Format(domain.DateLayout)}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
		// Numeric cell holding the exact decimal digits; a float64 would
		// round amounts past 15 significant digits.
		if err := f.SetCellDefault(sheet, fmt.Sprintf("D%d", i+2), t.Amount.String()); err != nil {
			return nil, err
		}
	}

	if len(txs) > 0 {
		last := fmt.Sprintf("D%d", len(txs)+1)
		if err := f.SetCellStyle(sheet, "D2", last, money); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(sheet, "B", "C", 24); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "E", "E", 12); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
