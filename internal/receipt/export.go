package receipt

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/zombor/receipt-table/internal/itemize"
)

const exportSheet = "Receipt"

// ExportReceipt renders a receipt's table as an XLSX workbook: one
// Name/Price row per item followed by the total rows
func (s *Service) ExportReceipt(id string) ([]byte, error) {
	receipt, err := s.db.GetReceipt(id)
	if err != nil {
		return nil, fmt.Errorf("getting receipt: %w", err)
	}
	return exportTable(receipt.Table)
}

func exportTable(table *itemize.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// rename the default sheet rather than adding a second one
	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	row := 1
	write := func(name string, price any) error {
		if err := f.SetCellValue(exportSheet, fmt.Sprintf("A%d", row), name); err != nil {
			return err
		}
		if err := f.SetCellValue(exportSheet, fmt.Sprintf("B%d", row), price); err != nil {
			return err
		}
		row++
		return nil
	}

	if err := write("Name", "Price"); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	if table != nil {
		for _, r := range table.Rows {
			if err := write(r.Name.Content, itemize.FormatCents(r.Price.Cents)); err != nil {
				return nil, fmt.Errorf("writing row: %w", err)
			}
		}
		if err := write("Total", itemize.FormatCents(table.ComputedTotal)); err != nil {
			return nil, fmt.Errorf("writing total: %w", err)
		}
		detected := ""
		if table.DetectedTotal != nil {
			detected = itemize.FormatCents(*table.DetectedTotal)
		}
		if err := write("OCR Total", detected); err != nil {
			return nil, fmt.Errorf("writing detected total: %w", err)
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "A", 40); err != nil {
		return nil, fmt.Errorf("sizing name column: %w", err)
	}
	if err := f.SetColWidth(exportSheet, "B", "B", 14); err != nil {
		return nil, fmt.Errorf("sizing price column: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
