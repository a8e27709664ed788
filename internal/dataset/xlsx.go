package dataset

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"relentless-househunter/internal/models"
)

const sheetName = "listings"

// ExportXLSX writes records to a single-sheet workbook with the dataset header.
func ExportXLSX(path string, records []models.ListingRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return err
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, record := range records {
		row, err := ToRow(record)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		// Numeric columns stay numeric so the sheet can sort and filter them.
		values[0] = record.ID
		values[4] = record.Price
		values[5] = record.Area
		values[6] = record.Rooms
		values[8] = record.NumPhotos

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return f.SaveAs(path)
}

// ReadXLSXIDs returns the id column of a workbook written by ExportXLSX.
func ReadXLSXIDs(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}
	var ids []string
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		ids = append(ids, row[0])
	}
	return ids, nil
}
