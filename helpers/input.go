package helpers

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Column headers that mark the first row as a header rather than data.
var headerTokens = []string{"sku", "skus", "identifier", "model", "model number", "query"}

// LoadIdentifiers reads SKU identifiers from the first column of a CSV
// file. Values are whitespace-trimmed, blanks are dropped, duplicates
// are kept, and a recognized header row is skipped.
func LoadIdentifiers(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	return ReadIdentifiers(f)
}

// ReadIdentifiers parses identifiers from CSV content.
func ReadIdentifiers(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse input csv: %w", err)
	}

	var identifiers []string
	for i, record := range records {
		if len(record) == 0 {
			continue
		}
		value := strings.TrimSpace(record[0])
		if value == "" {
			continue
		}
		if i == 0 && isHeader(value) {
			continue
		}
		identifiers = append(identifiers, value)
	}
	return identifiers, nil
}

func isHeader(value string) bool {
	for _, token := range headerTokens {
		if strings.EqualFold(value, token) {
			return true
		}
	}
	return false
}
