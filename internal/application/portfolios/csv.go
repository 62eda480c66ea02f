package portfolios

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
)

// ParseCSV reads upload rows from a CSV stream. The header row is matched
// case-insensitively; the weight column may be named weight_pct or weight.
// Empty lines are skipped.
func ParseCSV(r io.Reader) ([]HoldingInput, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, ValidationError("CSV file is empty or invalid")
		}
		return nil, err
	}

	tickerIdx, weightIdx := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "ticker":
			tickerIdx = i
		case "weight_pct", "weight":
			weightIdx = i
		}
	}
	if tickerIdx < 0 || weightIdx < 0 {
		return nil, ValidationError("CSV file is empty or invalid")
	}

	var rows []HoldingInput
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) <= tickerIdx || len(record) <= weightIdx {
			continue
		}
		ticker := strings.TrimSpace(record[tickerIdx])
		if ticker == "" {
			continue
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(record[weightIdx]), 64)
		if err != nil {
			return nil, ValidationError("CSV file is empty or invalid")
		}
		rows = append(rows, HoldingInput{Ticker: ticker, WeightPct: weight})
	}
	return rows, nil
}
