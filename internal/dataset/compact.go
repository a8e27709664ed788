package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"relentless-househunter/internal/models"
)

// ReadCSV loads every record of a dataset file. A missing file yields no records.
func ReadCSV(path string) ([]models.ListingRecord, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(Columns)
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if header[0] != Columns[0] {
		return nil, fmt.Errorf("unexpected header %v", header)
	}

	var records []models.ListingRecord
	for line := 2; ; line++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		record, err := FromRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, record)
	}
}

// Dedupe collapses records sharing an id. The latest occurrence wins and
// takes the position of the first one.
func Dedupe(records []models.ListingRecord) []models.ListingRecord {
	index := make(map[int64]int, len(records))
	out := make([]models.ListingRecord, 0, len(records))
	for _, r := range records {
		if i, ok := index[r.ID]; ok {
			out[i] = r
			continue
		}
		index[r.ID] = len(out)
		out = append(out, r)
	}
	return out
}

// Compact rewrites the dataset at path without duplicate ids and reports
// how many rows were kept and removed. The file is replaced atomically.
func Compact(path string) (kept, removed int, err error) {
	records, err := ReadCSV(path)
	if err != nil {
		return 0, 0, err
	}
	unique := Dedupe(records)

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	if err = w.Write(Columns); err != nil {
		tmp.Close()
		return 0, 0, err
	}
	for _, record := range unique {
		var row []string
		if row, err = ToRow(record); err != nil {
			tmp.Close()
			return 0, 0, err
		}
		if err = w.Write(row); err != nil {
			tmp.Close()
			return 0, 0, err
		}
	}
	w.Flush()
	if err = w.Error(); err != nil {
		tmp.Close()
		return 0, 0, err
	}
	if err = tmp.Close(); err != nil {
		return 0, 0, err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return 0, 0, err
	}
	return len(unique), len(records) - len(unique), nil
}
