// Package transfer reads and writes the exchange formats of the family list:
// a JSON array of records, a semicolon separated CSV file and a ZIP bundle of
// both.
package transfer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/camden-git/familyring/models"
)

const (
	JSONFilename = "familie.json"
	CSVFilename  = "familie.csv"
)

// WriteJSON writes records as an indented JSON array.
func WriteJSON(w io.Writer, records []models.Record) error {
	if records == nil {
		records = []models.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	return nil
}

// ReadJSON decodes a JSON array of records. Anything other than an array is
// rejected; individual records are not validated here.
func ReadJSON(r io.Reader) ([]models.Record, error) {
	var records []models.Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("import data is not a JSON array of records: %w", err)
	}
	return records, nil
}
