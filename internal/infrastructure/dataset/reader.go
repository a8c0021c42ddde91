// Package dataset handles tabular I/O for the pipeline: reading the fleet
// dataset (CSV or XLSX) into a gota dataframe and writing the output tables
// and JSON artifacts.
package dataset

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"

	"github.com/airnalytics/air-modernity/pkg/errors"
)

// Read loads the tabular file at path into a dataframe.  The format is
// selected by extension: .xlsx/.xlsm workbooks go through excelize (reading
// the named sheet, or the first sheet when sheet is empty), everything else
// is parsed as CSV.  All cells are loaded as strings; numeric coercion is the
// responsibility of the consuming stage.
func Read(path, sheet string) (dataframe.DataFrame, error) {
	if _, err := os.Stat(path); err != nil {
		return dataframe.DataFrame{}, errors.Wrap(err, errors.ErrCodeMissingInput,
			"fleet dataset not found").WithDetail("path=" + path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readXLSX(path, sheet)
	default:
		return readCSV(path)
	}
}

func readCSV(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, errors.Wrap(err, errors.ErrCodeMissingInput, "failed to open dataset")
	}
	defer f.Close()

	df := dataframe.ReadCSV(f, dataframe.DefaultType(series.String), dataframe.DetectTypes(false))
	if df.Error() != nil {
		return dataframe.DataFrame{}, errors.Wrap(df.Error(), errors.ErrCodeSerialization, "failed to parse CSV dataset")
	}
	return df, nil
}

func readXLSX(path, sheet string) (dataframe.DataFrame, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return dataframe.DataFrame{}, errors.Wrap(err, errors.ErrCodeSerialization, "failed to open workbook")
	}
	defer wb.Close()

	if sheet == "" {
		sheets := wb.GetSheetList()
		if len(sheets) == 0 {
			return dataframe.DataFrame{}, errors.New(errors.ErrCodeSerialization, "workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := wb.GetRows(sheet)
	if err != nil {
		return dataframe.DataFrame{}, errors.Wrap(err, errors.ErrCodeSerialization,
			"failed to read worksheet").WithDetail("sheet=" + sheet)
	}
	if len(rows) < 2 {
		return dataframe.DataFrame{}, errors.New(errors.ErrCodeEmptyDataset,
			"worksheet has no data rows").WithDetail("sheet=" + sheet)
	}

	// Ragged trailing cells are normal in spreadsheets; pad to header width.
	header := rows[0]
	records := make([][]string, 0, len(rows))
	records = append(records, header)
	for _, row := range rows[1:] {
		padded := make([]string, len(header))
		copy(padded, row)
		records = append(records, padded)
	}

	df := dataframe.LoadRecords(records, dataframe.DefaultType(series.String), dataframe.DetectTypes(false))
	if df.Error() != nil {
		return dataframe.DataFrame{}, errors.Wrap(df.Error(), errors.ErrCodeSerialization, "failed to load worksheet records")
	}
	return df, nil
}
