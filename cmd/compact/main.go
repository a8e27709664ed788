// Command compact merges duplicate listing ids in the CSV dataset, keeping
// the newest row of each, and can export the result as a spreadsheet.
package main

import (
	"flag"
	"fmt"
	"os"

	"relentless-househunter/common"
	"relentless-househunter/internal/dataset"
	"relentless-househunter/internal/logging"
)

func main() {
	logger := logging.NewLoggerWithService("compact")
	path := flag.String("dataset", common.GetEnv("DATASET_PATH", "dataset/idealista.csv"), "CSV dataset to compact in place")
	xlsxPath := flag.String("xlsx", "", "Optional path of an .xlsx export of the compacted dataset")
	flag.Parse()

	kept, removed, err := run(*path, *xlsxPath)
	if err != nil {
		logger.WithError(err).Error("compaction failed")
		os.Exit(1)
	}
	logger.WithFields(logging.Fields{
		"dataset": *path,
		"kept":    kept,
		"removed": removed,
		"xlsx":    *xlsxPath,
	}).Info("dataset compacted")
}

// run compacts the dataset at path and, when xlsxPath is set, exports it.
func run(path, xlsxPath string) (kept, removed int, err error) {
	if _, err := os.Stat(path); err != nil {
		return 0, 0, fmt.Errorf("dataset %s: %w", path, err)
	}
	kept, removed, err = dataset.Compact(path)
	if err != nil {
		return 0, 0, fmt.Errorf("compact %s: %w", path, err)
	}
	if xlsxPath == "" {
		return kept, removed, nil
	}
	records, err := dataset.ReadCSV(path)
	if err != nil {
		return kept, removed, err
	}
	if err := dataset.ExportXLSX(xlsxPath, records); err != nil {
		return kept, removed, fmt.Errorf("export %s: %w", xlsxPath, err)
	}
	return kept, removed, nil
}
