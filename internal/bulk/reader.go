package bulk

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadMessages reads an ordered list of messages from a file.
//
//   - .txt (and anything unrecognized): one non-blank line per message
//   - .csv: the first column of each row
//   - .xlsx: the first column of each row on the first sheet
//
// Blank lines and rows are skipped.
func ReadMessages(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path)
	case ".xlsx":
		return readXLSX(path)
	default:
		return readLines(path)
	}
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var messages []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if text := strings.TrimSpace(scanner.Text()); text != "" {
			messages = append(messages, text)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return messages, nil
}

func readCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var messages []string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if len(row) == 0 {
			continue
		}
		if text := strings.TrimSpace(row[0]); text != "" {
			messages = append(messages, text)
		}
	}
	return messages, nil
}

func readXLSX(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: workbook has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var messages []string
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		if text := strings.TrimSpace(row[0]); text != "" {
			messages = append(messages, text)
		}
	}
	return messages, nil
}
