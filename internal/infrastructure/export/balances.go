// Package export renders register data as spreadsheet files.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"storagemanager/internal/domain/registers/balance"
)

// ContentTypeXLSX is the MIME type of files produced here.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const balancesSheet = "Balances"

var balancesHeader = []any{"Resource", "Measure", "Amount", "Updated at"}

// BalancesFileName returns the download name for an export made at now.
func BalancesFileName(now time.Time) string {
	return fmt.Sprintf("balances_%s.xlsx", now.UTC().Format("20060102_150405"))
}

// WriteBalances writes views as a single-sheet workbook to w.
func WriteBalances(w io.Writer, views []balance.View) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), balancesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(balancesSheet, "A1", &balancesHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, v := range views {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		row := []any{
			v.ResourceName,
			v.MeasureName,
			v.Amount,
			v.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := f.SetSheetRow(balancesSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(balancesSheet, "A", "B", 24); err != nil {
		return fmt.Errorf("set width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
